package entity

// Amount is one (unit, quantity) pair as reported by the indexer. Quantity
// stays a string end to end: asset quantities can exceed what fits in an
// int64 without precision loss.
type Amount struct {
	Unit     string `json:"unit"`
	Quantity string `json:"quantity"`
}

// WalletData is the indexer's view of a single address.
type WalletData struct {
	Address      string   `json:"address"`
	Amount       []Amount `json:"amount"`
	StakeAddress *string  `json:"stake_address"`
	Type         string   `json:"type"`
	Script       bool     `json:"script"`
	TxCount      int      `json:"tx_count,omitempty"`
}

// Utxo is one unspent transaction output attributed to an address.
type Utxo struct {
	TxHash      string   `json:"tx_hash"`
	OutputIndex int      `json:"output_index"`
	Amount      []Amount `json:"amount"`
	Block       string   `json:"block"`
	DataHash    *string  `json:"data_hash"`
}
