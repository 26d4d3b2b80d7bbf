package service

import "github.com/walletmesh/labelsync/models"

// mergeDelta counts what a merge took from the remote side.
type mergeDelta struct {
	added      int
	updated    int
	tombstoned int
}

// mergeLabelSets merges remote into local under last-writer-wins and
// returns a new set; neither input is modified. Tombstones participate
// exactly like live entries so deletions propagate instead of resurrecting
// on the next cycle. On an exact timestamp tie the local entry wins, which
// keeps repeated cycles stable when both sides carry the same edit.
func mergeLabelSets(local, remote *models.LabelSet) (*models.LabelSet, mergeDelta) {
	merged := local.Clone()
	var delta mergeDelta

	for key, theirs := range remote.Entries {
		ours, exists := merged.Entries[key]
		if exists && ours.Dominates(theirs) {
			continue
		}
		merged.Entries[key] = theirs

		switch {
		case !exists:
			if !theirs.Deleted {
				delta.added++
			}
		case theirs.Deleted && !ours.Deleted:
			delta.tombstoned++
		case !theirs.Deleted:
			delta.updated++
		}
	}

	return merged, delta
}
