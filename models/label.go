package models

// LabelEntry is one user-assigned label for an address or transaction id.
//
// UpdatedAt is a logical timestamp used for conflict resolution during
// merge: the entry with the strictly later timestamp wins. Deleted marks a
// tombstone — the entry is kept so the deletion propagates to peers instead
// of silently reappearing on the next sync.
type LabelEntry struct {
	// Key is the address or transaction id the label is attached to.
	Key string `json:"-"`

	// Text is the label itself. Empty for tombstones.
	Text string `json:"text"`

	// UpdatedAt is the logical timestamp of the last edit.
	UpdatedAt int64 `json:"updatedAt"`

	// Deleted marks the entry as a tombstone.
	Deleted bool `json:"deleted,omitempty"`
}

// Dominates reports whether e wins a merge conflict against other.
// Strictly later timestamps win; on equal timestamps the receiver wins,
// which callers use to implement the prefer-local tie-break.
func (e LabelEntry) Dominates(other LabelEntry) bool {
	return e.UpdatedAt >= other.UpdatedAt
}

// LabelSet is the full label mapping for one wallet account plus a
// monotonically increasing version counter. It is owned exclusively by the
// sync engine during a cycle and persisted locally between cycles.
type LabelSet struct {
	Version int64
	Entries map[string]LabelEntry
}

// NewLabelSet returns an empty label set at version 0.
func NewLabelSet() *LabelSet {
	return &LabelSet{Entries: make(map[string]LabelEntry)}
}

// Clone returns a deep copy. The sync engine merges into a clone so the
// caller's set stays untouched if the cycle aborts.
func (s *LabelSet) Clone() *LabelSet {
	out := &LabelSet{
		Version: s.Version,
		Entries: make(map[string]LabelEntry, len(s.Entries)),
	}
	for k, e := range s.Entries {
		out.Entries[k] = e
	}
	return out
}

// Put inserts or replaces a live entry.
func (s *LabelSet) Put(key, text string, updatedAt int64) {
	s.Entries[key] = LabelEntry{Key: key, Text: text, UpdatedAt: updatedAt}
}

// Tombstone replaces the entry for key with a deletion marker. The entry is
// never physically removed — it must outlive the deletion long enough to
// reach every peer.
func (s *LabelSet) Tombstone(key string, updatedAt int64) {
	s.Entries[key] = LabelEntry{Key: key, UpdatedAt: updatedAt, Deleted: true}
}

// Live returns the number of non-tombstone entries.
func (s *LabelSet) Live() int {
	n := 0
	for _, e := range s.Entries {
		if !e.Deleted {
			n++
		}
	}
	return n
}
