package entity

import jsoniter "github.com/json-iterator/go"

// LovelaceUnit is the unit string the indexer uses for the base currency.
// Everything else in an amount list is a policy-prefixed asset unit.
const LovelaceUnit = "lovelace"

// AssetDetail is the indexer's record for one asset unit, including both
// metadata variants. OnchainMetadata and Metadata are kept raw: their shape
// is free-form and attacker-influenced, so decoding is deferred to the
// normalizer which tolerates anything.
type AssetDetail struct {
	Asset             string              `json:"asset"`
	PolicyID          string              `json:"policy_id"`
	AssetName         string              `json:"asset_name"`
	Fingerprint       string              `json:"fingerprint"`
	Quantity          string              `json:"quantity"`
	InitialMintTxHash string              `json:"initial_mint_tx_hash"`
	MintOrBurnCount   int                 `json:"mint_or_burn_count"`
	OnchainMetadata   jsoniter.RawMessage `json:"onchain_metadata"`
	Metadata          jsoniter.RawMessage `json:"metadata"`
}

// Attribute is one flattened (label, value) pair extracted from asset
// metadata.
type Attribute struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// AssetMetadataView is the normalizer's output: a displayable projection of
// whatever metadata the asset carried. ImageURI is never empty; the
// normalizer substitutes a placeholder when nothing resolvable is found.
type AssetMetadataView struct {
	DisplayName string              `json:"display_name"`
	Description string              `json:"description"`
	ImageURI    string              `json:"image_uri"`
	Attributes  []Attribute         `json:"attributes"`
	Fingerprint string              `json:"fingerprint,omitempty"`
	Raw         jsoniter.RawMessage `json:"raw,omitempty"`
}

// AssetView is one non-base-currency asset in a wallet snapshot. Metadata is
// nil when the detail fetch did not complete for this run (rate limited,
// errored, or past the fetch cap): presentation must treat that differently
// from metadata that resolved to fallbacks.
type AssetView struct {
	Unit     string             `json:"unit"`
	Quantity string             `json:"quantity"`
	Metadata *AssetMetadataView `json:"metadata,omitempty"`
}

// PolicyID returns the issuing-policy prefix of the asset unit.
func (a AssetView) PolicyID() string {
	if len(a.Unit) < 56 {
		return a.Unit
	}
	return a.Unit[:56]
}

// AssetNameHex returns the hex-encoded asset-name suffix of the unit.
func (a AssetView) AssetNameHex() string {
	if len(a.Unit) < 56 {
		return ""
	}
	return a.Unit[56:]
}
