package storage

import "fmt"

const (
	viewModeKey = "viewMode"

	// ViewModeGrid and ViewModeList are the only accepted display modes.
	ViewModeGrid = "grid"
	ViewModeList = "list"
)

// PreferenceStore persists small presentation preferences through the same
// KV surface as the recent-query list.
type PreferenceStore struct {
	kv KeyValueStore
}

// NewPreferenceStore creates a preference store over kv.
func NewPreferenceStore(kv KeyValueStore) *PreferenceStore {
	return &PreferenceStore{kv: kv}
}

// ViewMode returns the persisted display mode, defaulting to grid.
func (s *PreferenceStore) ViewMode() string {
	value, ok, err := s.kv.Get(viewModeKey)
	if err != nil || !ok {
		return ViewModeGrid
	}
	if value != ViewModeGrid && value != ViewModeList {
		return ViewModeGrid
	}
	return value
}

// SetViewMode persists the display mode, rejecting unknown values.
func (s *PreferenceStore) SetViewMode(mode string) error {
	if mode != ViewModeGrid && mode != ViewModeList {
		return fmt.Errorf("unknown view mode %q", mode)
	}
	return s.kv.Set(viewModeKey, mode)
}
