package state

import (
	"encoding/json"
	"sync"
)

// SyncState records, per group and date, the signature last written to the
// remote calendar. It is owned by the reconciler and only advances after a
// batch that did not fully fail.
type SyncState struct {
	mu     sync.Mutex
	Synced map[string]map[string]string `json:"synced"`
}

// NewSyncState returns an empty sync state.
func NewSyncState() *SyncState {
	return &SyncState{Synced: map[string]map[string]string{}}
}

// Signature returns the last remotely written signature for (group, date),
// or "" if the pair was never synced.
func (s *SyncState) Signature(group, date string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Synced[group][date]
}

// Set records a successful remote write. Safe for concurrent use; the update
// is atomic per pair.
func (s *SyncState) Set(group, date, signature string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Synced == nil {
		s.Synced = map[string]map[string]string{}
	}
	if s.Synced[group] == nil {
		s.Synced[group] = map[string]string{}
	}
	s.Synced[group][date] = signature
}

// DecodeSyncState parses a persisted sync state. Unparsable or legacy-shaped
// documents decode to empty.
func DecodeSyncState(data []byte) *SyncState {
	var s SyncState
	if err := json.Unmarshal(data, &s); err != nil || s.Synced == nil {
		return NewSyncState()
	}
	return &s
}
