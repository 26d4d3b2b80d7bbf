package models

// SyncReport summarizes one completed synchronization cycle.
type SyncReport struct {
	// CycleID correlates log lines belonging to one cycle.
	CycleID string `json:"cycle_id"`

	// Added counts entries the merge took from the remote set that the
	// local set did not have.
	Added int `json:"added"`

	// Updated counts local entries replaced by a later remote edit.
	Updated int `json:"updated"`

	// Tombstoned counts local live entries overridden by a later remote
	// tombstone.
	Tombstoned int `json:"tombstoned"`

	// RemoteSkipped is set when the remote envelope failed authentication
	// and was left out of the merge for this cycle.
	RemoteSkipped bool `json:"remote_skipped,omitempty"`

	// Warnings lists non-fatal skip/error reasons encountered during the
	// cycle (e.g. the remote file was corrupt or foreign).
	Warnings []string `json:"warnings,omitempty"`
}

// Warn appends a non-fatal reason to the report.
func (r *SyncReport) Warn(reason string) {
	r.Warnings = append(r.Warnings, reason)
}
