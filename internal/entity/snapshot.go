package entity

// TransactionCount is the best-effort total transaction count for an
// address. When the bounded estimator query comes back full, the true total
// cannot be known from that call alone: Exact is false and Total is a lower
// bound, not a measurement.
type TransactionCount struct {
	Total int  `json:"total"`
	Exact bool `json:"exact"`
}

// WalletSnapshot is the immutable result of one successful wallet load.
// Balances always contains exactly one lovelace entry; Assets never does.
type WalletSnapshot struct {
	Address      string           `json:"address"`
	Balances     []Amount         `json:"balances"`
	Transactions []Transaction    `json:"transactions"`
	TxCount      TransactionCount `json:"tx_count"`
	Assets       []AssetView      `json:"assets"`
	// AdaPriceUSD is the fiat reference price at load time; zero when the
	// price lookup failed or was skipped, which is never fatal.
	AdaPriceUSD float64 `json:"ada_price_usd"`
	// StakeAddress and Script are carried through from the address record.
	StakeAddress *string `json:"stake_address"`
	Script       bool    `json:"script"`
}

// CountLoaded returns how many full transaction records the snapshot holds.
func (s *WalletSnapshot) CountLoaded() int {
	return len(s.Transactions)
}
