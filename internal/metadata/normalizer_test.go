package metadata

import (
	"reflect"
	"testing"

	"github.com/ishchuktaras/wallet-explorer/internal/entity"

	jsoniter "github.com/json-iterator/go"
)

func detailWithOnchain(t *testing.T, onchain string) *entity.AssetDetail {
	t.Helper()
	return &entity.AssetDetail{
		Asset:           "asset1abc",
		AssetName:       "4d79546f6b656e",
		Fingerprint:     "asset1fingerprint",
		OnchainMetadata: jsoniter.RawMessage(onchain),
	}
}

func TestNormalize_ImageResolution(t *testing.T) {
	tests := []struct {
		name     string
		onchain  string
		wantURI  string
	}{
		{
			name:    "plain image string",
			onchain: `{"image":"https://example.com/pic.png"}`,
			wantURI: "https://example.com/pic.png",
		},
		{
			name:    "ipfs image rewritten to gateway",
			onchain: `{"image":"ipfs://QmXyZ123/artwork.png"}`,
			wantURI: "https://ipfs.io/ipfs/QmXyZ123/artwork.png",
		},
		{
			name:    "image object with src",
			onchain: `{"image":{"src":"ipfs://QmAbC","mediaType":"image/png"}}`,
			wantURI: "https://ipfs.io/ipfs/QmAbC",
		},
		{
			name:    "files first entry string",
			onchain: `{"files":["ipfs://QmFile1","ipfs://QmFile2"]}`,
			wantURI: "https://ipfs.io/ipfs/QmFile1",
		},
		{
			name:    "files first entry object with src",
			onchain: `{"files":[{"name":"art","mediaType":"image/png","src":"ipfs://QmFileObj"}]}`,
			wantURI: "https://ipfs.io/ipfs/QmFileObj",
		},
		{
			name:    "top level mediaType and src",
			onchain: `{"mediaType":"image/gif","src":"https://example.com/a.gif"}`,
			wantURI: "https://example.com/a.gif",
		},
		{
			name:    "inline base64 payload",
			onchain: `{"image_base64":"aGVsbG8="}`,
			wantURI: "data:image/png;base64,aGVsbG8=",
		},
		{
			name:    "image string wins over files",
			onchain: `{"image":"https://example.com/first.png","files":["ipfs://QmLoser"]}`,
			wantURI: "https://example.com/first.png",
		},
		{
			name:    "no recognized shape yields placeholder",
			onchain: `{"name":"Imageless"}`,
			wantURI: PlaceholderImageURI,
		},
		{
			name:    "image of unexpected type yields placeholder",
			onchain: `{"image":42}`,
			wantURI: PlaceholderImageURI,
		},
		{
			name:    "empty files list yields placeholder",
			onchain: `{"files":[]}`,
			wantURI: PlaceholderImageURI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := Normalize(detailWithOnchain(t, tt.onchain))
			if view.ImageURI != tt.wantURI {
				t.Errorf("ImageURI = %q, want %q", view.ImageURI, tt.wantURI)
			}
			if view.ImageURI == "" {
				t.Error("ImageURI must never be empty")
			}
		})
	}
}

func TestNormalize_DisplayNameFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		detail    *entity.AssetDetail
		wantName  string
	}{
		{
			name:     "metadata name wins",
			detail:   detailWithOnchain(t, `{"name":"SpaceBudz #42"}`),
			wantName: "SpaceBudz #42",
		},
		{
			name:     "empty name falls back to asset name",
			detail:   detailWithOnchain(t, `{"name":""}`),
			wantName: "4d79546f6b656e",
		},
		{
			name:     "non-string name falls back to asset name",
			detail:   detailWithOnchain(t, `{"name":7}`),
			wantName: "4d79546f6b656e",
		},
		{
			name: "no name anywhere yields sentinel",
			detail: &entity.AssetDetail{
				OnchainMetadata: jsoniter.RawMessage(`{}`),
			},
			wantName: FallbackName,
		},
		{
			name:     "nil detail yields sentinel",
			detail:   nil,
			wantName: FallbackName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := Normalize(tt.detail)
			if view.DisplayName != tt.wantName {
				t.Errorf("DisplayName = %q, want %q", view.DisplayName, tt.wantName)
			}
		})
	}
}

func TestNormalize_DescriptionFallback(t *testing.T) {
	tests := []struct {
		name    string
		onchain string
		want    string
	}{
		{"string description kept", `{"description":"A rare piece"}`, "A rare piece"},
		{"numeric description replaced", `{"description":12345}`, FallbackDescription},
		{"object description replaced", `{"description":{"en":"text"}}`, FallbackDescription},
		{"array description replaced", `{"description":["a","b"]}`, FallbackDescription},
		{"missing description replaced", `{}`, FallbackDescription},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := Normalize(detailWithOnchain(t, tt.onchain))
			if view.Description != tt.want {
				t.Errorf("Description = %q, want %q", view.Description, tt.want)
			}
		})
	}
}

func TestNormalize_AttributeFlattening(t *testing.T) {
	arrayShaped := Normalize(detailWithOnchain(t,
		`{"attributes":[{"trait_type":"Color","value":"Red"}]}`))
	mapShaped := Normalize(detailWithOnchain(t,
		`{"attributes":{"Color":"Red"}}`))

	want := []entity.Attribute{{Label: "Color", Value: "Red"}}
	if !reflect.DeepEqual(arrayShaped.Attributes, want) {
		t.Errorf("array-shaped attributes = %v, want %v", arrayShaped.Attributes, want)
	}
	if !reflect.DeepEqual(mapShaped.Attributes, want) {
		t.Errorf("map-shaped attributes = %v, want %v", mapShaped.Attributes, want)
	}
}

func TestNormalize_AttributeEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		onchain string
		want    []entity.Attribute
	}{
		{
			name:    "name key used when trait_type absent",
			onchain: `{"attributes":[{"name":"Background","value":"Blue"}]}`,
			want:    []entity.Attribute{{Label: "Background", Value: "Blue"}},
		},
		{
			name:    "missing value renders N/A",
			onchain: `{"attributes":[{"trait_type":"Aura"}]}`,
			want:    []entity.Attribute{{Label: "Aura", Value: MissingAttributeValue}},
		},
		{
			name:    "numeric value stringified naturally",
			onchain: `{"attributes":[{"trait_type":"Level","value":7}]}`,
			want:    []entity.Attribute{{Label: "Level", Value: "7"}},
		},
		{
			name:    "boolean value stringified",
			onchain: `{"attributes":{"Animated":true}}`,
			want:    []entity.Attribute{{Label: "Animated", Value: "true"}},
		},
		{
			name:    "map keys ordered deterministically",
			onchain: `{"attributes":{"Zeta":"z","Alpha":"a"}}`,
			want: []entity.Attribute{
				{Label: "Alpha", Value: "a"},
				{Label: "Zeta", Value: "z"},
			},
		},
		{
			name:    "absent attributes yields empty sequence",
			onchain: `{}`,
			want:    []entity.Attribute{},
		},
		{
			name:    "scalar attributes yields empty sequence",
			onchain: `{"attributes":"nope"}`,
			want:    []entity.Attribute{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := Normalize(detailWithOnchain(t, tt.onchain))
			if !reflect.DeepEqual(view.Attributes, tt.want) {
				t.Errorf("Attributes = %v, want %v", view.Attributes, tt.want)
			}
		})
	}
}

func TestNormalize_SourcePrecedence(t *testing.T) {
	detail := &entity.AssetDetail{
		AssetName:       "deadbeef",
		OnchainMetadata: jsoniter.RawMessage(`{"name":"Onchain Name"}`),
		Metadata:        jsoniter.RawMessage(`{"name":"Offchain Name"}`),
	}
	if got := Normalize(detail).DisplayName; got != "Onchain Name" {
		t.Errorf("DisplayName = %q, want on-chain source to win", got)
	}

	// Empty on-chain object defers to the off-chain record.
	detail.OnchainMetadata = jsoniter.RawMessage(`{}`)
	if got := Normalize(detail).DisplayName; got != "Offchain Name" {
		t.Errorf("DisplayName = %q, want off-chain fallback", got)
	}

	detail.OnchainMetadata = jsoniter.RawMessage(`null`)
	if got := Normalize(detail).DisplayName; got != "Offchain Name" {
		t.Errorf("DisplayName = %q, want off-chain fallback for null on-chain", got)
	}
}

func TestNormalize_NeverPanicsOnGarbage(t *testing.T) {
	inputs := []string{
		``,
		`null`,
		`[]`,
		`"just a string"`,
		`42`,
		`{"image":{"src":[1,2,3]}}`,
		`{"files":[null]}`,
		`{"attributes":[null,"x",17]}`,
		`{not even json`,
	}

	for _, input := range inputs {
		detail := &entity.AssetDetail{OnchainMetadata: jsoniter.RawMessage(input)}
		view := Normalize(detail)
		if view == nil {
			t.Fatalf("Normalize returned nil for input %q", input)
		}
		if view.ImageURI == "" {
			t.Errorf("ImageURI empty for input %q", input)
		}
		if view.Attributes == nil {
			t.Errorf("Attributes nil for input %q", input)
		}
	}
}

func TestResolveImage_SourceTagging(t *testing.T) {
	tests := []struct {
		name string
		meta map[string]any
		want imageSource
	}{
		{"string", map[string]any{"image": "x"}, imageString},
		{"object src", map[string]any{"image": map[string]any{"src": "x"}}, imageObjectSrc},
		{"file entry", map[string]any{"files": []any{"x"}}, imageFileEntry},
		{"top level src", map[string]any{"mediaType": "image/png", "src": "x"}, imageTopLevelSrc},
		{"inline base64", map[string]any{"image_base64": "x"}, imageInlineBase64},
		{"none", map[string]any{}, imageNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, got := resolveImage(tt.meta); got != tt.want {
				t.Errorf("source = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNormalize_RawRetained(t *testing.T) {
	raw := `{"name":"Keeper","custom":{"nested":true}}`
	view := Normalize(detailWithOnchain(t, raw))
	if string(view.Raw) != raw {
		t.Errorf("Raw = %s, want untouched source %s", view.Raw, raw)
	}
}
