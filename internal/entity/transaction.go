package entity

// TxRef is one entry of the address transaction listing. The listing only
// carries hashes and block coordinates; full records need a second fetch.
type TxRef struct {
	TxHash      string `json:"tx_hash"`
	TxIndex     int    `json:"tx_index"`
	BlockHeight int    `json:"block_height"`
	BlockTime   int64  `json:"block_time"`
}

// TxIO is one input or output of a transaction.
type TxIO struct {
	Address     string   `json:"address"`
	Amount      []Amount `json:"amount"`
	TxHash      string   `json:"tx_hash,omitempty"`
	OutputIndex int      `json:"output_index"`
	DataHash    *string  `json:"data_hash"`
	Collateral  bool     `json:"collateral,omitempty"`
	Reference   bool     `json:"reference,omitempty"`
}

// Transaction is the full indexer record for one transaction.
type Transaction struct {
	Hash          string   `json:"hash"`
	Block         string   `json:"block"`
	BlockHeight   int      `json:"block_height"`
	BlockTime     int64    `json:"block_time"`
	Slot          int64    `json:"slot"`
	Index         int      `json:"index"`
	OutputAmount  []Amount `json:"output_amount"`
	Fees          string   `json:"fees"`
	Deposit       string   `json:"deposit"`
	Size          int      `json:"size"`
	UtxoCount     int      `json:"utxo_count"`
	ValidContract bool     `json:"valid_contract"`
	Inputs        []TxIO   `json:"inputs,omitempty"`
	Outputs       []TxIO   `json:"outputs,omitempty"`
}
