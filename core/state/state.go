// Package state tracks per-day, per-group schedule signatures across runs.
//
// The snapshot is rebuilt wholesale every run: only the dates the source
// currently publishes survive, so signatures for dates that fell out of the
// upstream window are pruned here. That is intentional bounded state;
// long-term records live in the history log, and the reconciler's own sync
// state is what prevents redundant remote writes.
package state

import "encoding/json"

// Classification is the change status of one (date, group) pair relative to
// the previous run.
type Classification int

const (
	// Unchanged means the stored signature matches the fresh one.
	Unchanged Classification = iota
	// New means the date was not known to the previous run at all.
	New
	// Changed means the date was known but the signature differs (a missing
	// prior signature for a known date counts as differing).
	Changed
)

func (c Classification) String() string {
	switch c {
	case New:
		return "new"
	case Changed:
		return "changed"
	default:
		return "unchanged"
	}
}

// Snapshot is the persisted schedule state: the ordered dates seen in the
// last run and a signature per group per date. Dates are "YYYY-MM-DD"
// strings in the configured timezone.
type Snapshot struct {
	Dates  []string                     `json:"dates"`
	Groups map[string]map[string]string `json:"groups"`
}

// NewSnapshot returns an empty snapshot with a slot for every configured
// group.
func NewSnapshot(groups []string) *Snapshot {
	s := &Snapshot{Dates: []string{}, Groups: make(map[string]map[string]string, len(groups))}
	for _, g := range groups {
		s.Groups[g] = map[string]string{}
	}
	return s
}

// Record stores the signature for (group, date), registering the date on
// first sight. Dates keep their insertion order.
func (s *Snapshot) Record(date, group, signature string) {
	if !s.hasDate(date) {
		s.Dates = append(s.Dates, date)
	}
	if s.Groups == nil {
		s.Groups = map[string]map[string]string{}
	}
	if s.Groups[group] == nil {
		s.Groups[group] = map[string]string{}
	}
	s.Groups[group][date] = signature
}

// Classify compares a freshly computed signature for (date, group) against
// this snapshot. It is a pure function of signatures; interval contents are
// never consulted.
func (s *Snapshot) Classify(date, group, signature string) Classification {
	if s == nil || !s.hasDate(date) {
		return New
	}
	if s.Groups[group][date] != signature {
		return Changed
	}
	return Unchanged
}

func (s *Snapshot) hasDate(date string) bool {
	for _, d := range s.Dates {
		if d == date {
			return true
		}
	}
	return false
}

// DecodeSnapshot parses a persisted snapshot. Unparsable documents and the
// legacy single-date shape (a "groups" map without a "dates" list) both
// decode to an empty snapshot; neither is an error.
func DecodeSnapshot(data []byte) *Snapshot {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil || s.Dates == nil {
		return NewSnapshot(nil)
	}
	if s.Groups == nil {
		s.Groups = map[string]map[string]string{}
	}
	return &s
}
