// Package metadata normalizes free-form asset metadata into a displayable
// view. Input JSON comes from chain mints and off-chain registries and is
// effectively attacker-controlled: anything can be missing, of the wrong
// type, or shaped after a competing schema. Nothing in this package returns
// an error or panics; malformed input degrades to fallbacks.
package metadata

import (
	"bytes"
	"sort"
	"strconv"

	"github.com/ishchuktaras/wallet-explorer/internal/entity"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// PlaceholderImageURI is an inline SVG reading "No Image", substituted
	// whenever no image reference resolves. Presentation also falls back to
	// it when the chosen URI fails to load.
	PlaceholderImageURI = `data:image/svg+xml;charset=utf-8,%3Csvg xmlns='http://www.w3.org/2000/svg' viewBox='0 0 400 400' fill='%23cccccc'%3E%3Crect width='400' height='400' /%3E%3Ctext x='50%25' y='50%25' dominant-baseline='middle' text-anchor='middle' font-family='sans-serif' font-size='24px' fill='%23ffffff'%3ENo Image%3C/text%3E%3C/svg%3E`

	// FallbackName is the display name used when neither the metadata nor
	// the asset record names the asset.
	FallbackName = "Unnamed NFT"

	// FallbackDescription replaces a missing or non-string description.
	// This is a deliberate contract with presentation, not an error path.
	FallbackDescription = "No description available"

	// MissingAttributeValue renders an attribute entry without a value.
	MissingAttributeValue = "N/A"

	ipfsScheme  = "ipfs://"
	ipfsGateway = "https://ipfs.io/ipfs/"
)

// imageSource identifies which of the recognized image-reference shapes an
// image URI was resolved from. The explicit none variant keeps the fallback
// order exhaustive.
type imageSource int

const (
	imageNone imageSource = iota
	imageString
	imageObjectSrc
	imageFileEntry
	imageTopLevelSrc
	imageInlineBase64
)

// Normalize produces the displayable view for one asset detail record.
// It picks the metadata source (on-chain wins when present and non-empty),
// resolves the image reference chain, flattens attributes, and applies the
// name/description fallbacks. It accepts any input, including nil.
func Normalize(detail *entity.AssetDetail) *entity.AssetMetadataView {
	if detail == nil {
		return &entity.AssetMetadataView{
			DisplayName: FallbackName,
			Description: FallbackDescription,
			ImageURI:    PlaceholderImageURI,
			Attributes:  []entity.Attribute{},
		}
	}

	raw := pickMetadataSource(detail.OnchainMetadata, detail.Metadata)
	meta := decodeObject(raw)

	imageURI, _ := resolveImage(meta)

	return &entity.AssetMetadataView{
		DisplayName: displayName(meta, detail.AssetName),
		Description: description(meta),
		ImageURI:    imageURI,
		Attributes:  flattenAttributes(meta["attributes"]),
		Fingerprint: detail.Fingerprint,
		Raw:         raw,
	}
}

// pickMetadataSource prefers on-chain metadata over the off-chain record,
// treating null and empty objects as absent.
func pickMetadataSource(onchain, offchain jsoniter.RawMessage) jsoniter.RawMessage {
	if !isEmptyJSON(onchain) {
		return onchain
	}
	if !isEmptyJSON(offchain) {
		return offchain
	}
	return nil
}

func isEmptyJSON(raw jsoniter.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 ||
		bytes.Equal(trimmed, []byte("null")) ||
		bytes.Equal(trimmed, []byte("{}"))
}

// decodeObject decodes raw into a generic map. Anything that is not a JSON
// object (arrays, scalars, garbage) decodes to an empty map.
func decodeObject(raw jsoniter.RawMessage) map[string]any {
	if len(raw) == 0 {
		return map[string]any{}
	}
	var meta map[string]any
	if err := json.Unmarshal(raw, &meta); err != nil || meta == nil {
		return map[string]any{}
	}
	return meta
}

// resolveImage walks the recognized image-reference shapes in priority
// order and returns the first match, rewritten through the IPFS gateway
// when content-addressed. The source return names the shape that won.
func resolveImage(meta map[string]any) (string, imageSource) {
	switch img := meta["image"].(type) {
	case string:
		if img != "" {
			return rewriteIPFS(img), imageString
		}
	case map[string]any:
		if src, ok := img["src"].(string); ok && src != "" {
			return rewriteIPFS(src), imageObjectSrc
		}
	}

	if files, ok := meta["files"].([]any); ok && len(files) > 0 {
		switch first := files[0].(type) {
		case string:
			if first != "" {
				return rewriteIPFS(first), imageFileEntry
			}
		case map[string]any:
			if src, ok := first["src"].(string); ok && src != "" {
				return rewriteIPFS(src), imageFileEntry
			}
		}
	}

	if _, hasMediaType := meta["mediaType"]; hasMediaType {
		if src, ok := meta["src"].(string); ok && src != "" {
			return rewriteIPFS(src), imageTopLevelSrc
		}
	}

	if b64, ok := meta["image_base64"].(string); ok && b64 != "" {
		// The payload is embedded as-is; no re-encoding.
		return "data:image/png;base64," + b64, imageInlineBase64
	}

	return PlaceholderImageURI, imageNone
}

// rewriteIPFS turns a content-addressed ipfs:// URI into its fixed-gateway
// HTTP form. A single gateway is used; there is no fallback list.
func rewriteIPFS(uri string) string {
	if len(uri) >= len(ipfsScheme) && uri[:len(ipfsScheme)] == ipfsScheme {
		return ipfsGateway + uri[len(ipfsScheme):]
	}
	return uri
}

func displayName(meta map[string]any, assetName string) string {
	if name, ok := meta["name"].(string); ok && name != "" {
		return name
	}
	if assetName != "" {
		return assetName
	}
	return FallbackName
}

func description(meta map[string]any) string {
	if desc, ok := meta["description"].(string); ok {
		return desc
	}
	return FallbackDescription
}

// flattenAttributes accepts either the array-of-objects schema
// ([{trait_type|name, value}, ...]) or a flat key/value object, and
// flattens both into ordered (label, value) pairs. Unknown or absent
// attributes yield an empty slice.
func flattenAttributes(attrs any) []entity.Attribute {
	switch typed := attrs.(type) {
	case []any:
		out := make([]entity.Attribute, 0, len(typed))
		for _, entry := range typed {
			obj, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			label := "Trait"
			if t, ok := obj["trait_type"].(string); ok && t != "" {
				label = t
			} else if n, ok := obj["name"].(string); ok && n != "" {
				label = n
			}
			value := MissingAttributeValue
			if v, present := obj["value"]; present && v != nil {
				value = stringifyValue(v)
			}
			out = append(out, entity.Attribute{Label: label, Value: value})
		}
		return out
	case map[string]any:
		// JSON objects carry no order; sorted keys keep the output
		// deterministic across runs.
		keys := make([]string, 0, len(typed))
		for k := range typed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]entity.Attribute, 0, len(keys))
		for _, k := range keys {
			value := MissingAttributeValue
			if v := typed[k]; v != nil {
				value = stringifyValue(v)
			}
			out = append(out, entity.Attribute{Label: k, Value: value})
		}
		return out
	default:
		return []entity.Attribute{}
	}
}

// stringifyValue renders an arbitrary JSON value with its natural text
// representation.
func stringifyValue(v any) string {
	switch typed := v.(type) {
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(typed)
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return MissingAttributeValue
		}
		return string(encoded)
	}
}
