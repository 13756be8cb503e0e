package storage

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

const (
	// recentSearchesKey is the fixed key the list persists under.
	recentSearchesKey = "recentSearches"

	// maxRecentSearches bounds the list; older entries fall off the tail.
	maxRecentSearches = 5
)

// RecentQueryStore keeps the bounded, de-duplicated, most-recent-first list
// of previously queried addresses. The in-memory copy is authoritative
// between persists; the KV backend is read once at construction.
type RecentQueryStore struct {
	kv     KeyValueStore
	logger *zap.Logger

	mu        sync.Mutex
	addresses []string
}

// NewRecentQueryStore loads the persisted list (if any) and returns the
// store. A corrupt or unreadable backend starts the list empty rather than
// failing: losing search history is not worth refusing to start.
func NewRecentQueryStore(kv KeyValueStore, logger *zap.Logger) *RecentQueryStore {
	s := &RecentQueryStore{
		kv:     kv,
		logger: logger.Named("RecentQueryStore"),
	}

	raw, ok, err := kv.Get(recentSearchesKey)
	if err != nil {
		s.logger.Warn("Failed to load recent searches, starting empty", zap.Error(err))
		return s
	}
	if !ok {
		return s
	}
	var addresses []string
	if err := json.Unmarshal([]byte(raw), &addresses); err != nil {
		s.logger.Warn("Corrupt recent searches entry, starting empty", zap.Error(err))
		return s
	}
	if len(addresses) > maxRecentSearches {
		addresses = addresses[:maxRecentSearches]
	}
	s.addresses = addresses
	return s
}

// Record moves address to the head of the list, de-duplicating by exact
// match and truncating to capacity, then persists. Recording the same
// address twice in a row is a no-op apart from the rewrite.
func (s *RecentQueryStore) Record(address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make([]string, 0, maxRecentSearches)
	updated = append(updated, address)
	for _, existing := range s.addresses {
		if existing == address {
			continue
		}
		updated = append(updated, existing)
		if len(updated) == maxRecentSearches {
			break
		}
	}
	s.addresses = updated
	return s.persist()
}

// List returns the addresses most recent first. The returned slice is a
// copy; callers cannot mutate the store through it.
func (s *RecentQueryStore) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.addresses))
	copy(out, s.addresses)
	return out
}

// Remove deletes address by exact match and persists. Removing an absent
// address is not an error.
func (s *RecentQueryStore) Remove(address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := s.addresses[:0]
	for _, existing := range s.addresses {
		if existing != address {
			updated = append(updated, existing)
		}
	}
	s.addresses = updated
	return s.persist()
}

func (s *RecentQueryStore) persist() error {
	encoded, err := json.Marshal(s.addresses)
	if err != nil {
		return fmt.Errorf("failed to marshal recent searches: %w", err)
	}
	if err := s.kv.Set(recentSearchesKey, string(encoded)); err != nil {
		return fmt.Errorf("failed to persist recent searches: %w", err)
	}
	return nil
}
