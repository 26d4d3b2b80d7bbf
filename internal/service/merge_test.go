package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walletmesh/labelsync/models"
)

func TestMerge_WithItselfIsIdempotent(t *testing.T) {
	set := models.NewLabelSet()
	set.Put("addr-1", "savings", 100)
	set.Put("tx-1", "coffee", 200)
	set.Tombstone("addr-2", 150)

	merged, delta := mergeLabelSets(set, set)

	assert.Equal(t, set.Entries, merged.Entries)
	assert.Zero(t, delta.added)
	assert.Zero(t, delta.updated)
	assert.Zero(t, delta.tombstoned)
}

func TestMerge_RemoteOnlyEntriesAreAdded(t *testing.T) {
	local := models.NewLabelSet()
	local.Put("addr-1", "savings", 100)

	remote := models.NewLabelSet()
	remote.Put("addr-2", "exchange", 120)

	merged, delta := mergeLabelSets(local, remote)

	require.Len(t, merged.Entries, 2)
	assert.Equal(t, "savings", merged.Entries["addr-1"].Text)
	assert.Equal(t, "exchange", merged.Entries["addr-2"].Text)
	assert.Equal(t, 1, delta.added)
	assert.Zero(t, delta.updated)
	assert.Zero(t, delta.tombstoned)
}

func TestMerge_LaterRemoteEditWins(t *testing.T) {
	local := models.NewLabelSet()
	local.Put("addr-1", "old name", 100)

	remote := models.NewLabelSet()
	remote.Put("addr-1", "new name", 200)

	merged, delta := mergeLabelSets(local, remote)

	assert.Equal(t, "new name", merged.Entries["addr-1"].Text)
	assert.EqualValues(t, 200, merged.Entries["addr-1"].UpdatedAt)
	assert.Equal(t, 1, delta.updated)
}

func TestMerge_LaterLocalEditKept(t *testing.T) {
	local := models.NewLabelSet()
	local.Put("addr-1", "fresh", 300)

	remote := models.NewLabelSet()
	remote.Put("addr-1", "stale", 200)

	merged, delta := mergeLabelSets(local, remote)

	assert.Equal(t, "fresh", merged.Entries["addr-1"].Text)
	assert.Zero(t, delta.updated)
}

func TestMerge_EqualTimestampPrefersLocal(t *testing.T) {
	local := models.NewLabelSet()
	local.Put("addr-1", "mine", 100)

	remote := models.NewLabelSet()
	remote.Put("addr-1", "theirs", 100)

	merged, delta := mergeLabelSets(local, remote)

	assert.Equal(t, "mine", merged.Entries["addr-1"].Text)
	assert.Zero(t, delta.updated)
}

func TestMerge_RemoteTombstoneOverridesOlderLocalEdit(t *testing.T) {
	local := models.NewLabelSet()
	local.Put("addr-1", "doomed", 100)

	remote := models.NewLabelSet()
	remote.Tombstone("addr-1", 200)

	merged, delta := mergeLabelSets(local, remote)

	require.Contains(t, merged.Entries, "addr-1")
	assert.True(t, merged.Entries["addr-1"].Deleted, "tombstone must be kept, not dropped")
	assert.Equal(t, 1, delta.tombstoned)
	assert.Zero(t, merged.Live())
}

func TestMerge_LocalEditAfterRemoteTombstoneSurvives(t *testing.T) {
	local := models.NewLabelSet()
	local.Put("addr-1", "re-labelled", 300)

	remote := models.NewLabelSet()
	remote.Tombstone("addr-1", 200)

	merged, delta := mergeLabelSets(local, remote)

	assert.False(t, merged.Entries["addr-1"].Deleted)
	assert.Equal(t, "re-labelled", merged.Entries["addr-1"].Text)
	assert.Zero(t, delta.tombstoned)
}

func TestMerge_RemoteEditResurrectsOlderLocalTombstone(t *testing.T) {
	local := models.NewLabelSet()
	local.Tombstone("addr-1", 100)

	remote := models.NewLabelSet()
	remote.Put("addr-1", "back again", 200)

	merged, delta := mergeLabelSets(local, remote)

	assert.False(t, merged.Entries["addr-1"].Deleted)
	assert.Equal(t, "back again", merged.Entries["addr-1"].Text)
	assert.Equal(t, 1, delta.updated)
}

func TestMerge_UnknownRemoteTombstoneIsKeptSilently(t *testing.T) {
	local := models.NewLabelSet()

	remote := models.NewLabelSet()
	remote.Tombstone("addr-1", 100)

	merged, delta := mergeLabelSets(local, remote)

	require.Contains(t, merged.Entries, "addr-1")
	assert.True(t, merged.Entries["addr-1"].Deleted)
	assert.Zero(t, delta.added, "a tombstone for an unseen key adds nothing visible")
	assert.Zero(t, delta.tombstoned)
}

func TestMerge_InputsAreNotModified(t *testing.T) {
	local := models.NewLabelSet()
	local.Put("addr-1", "mine", 100)

	remote := models.NewLabelSet()
	remote.Put("addr-1", "theirs", 200)
	remote.Put("addr-2", "new", 50)

	merged, _ := mergeLabelSets(local, remote)
	merged.Put("addr-3", "extra", 999)

	assert.Len(t, local.Entries, 1)
	assert.Equal(t, "mine", local.Entries["addr-1"].Text)
	assert.Len(t, remote.Entries, 2)
}

func TestMerge_DisjointSetsUnion(t *testing.T) {
	local := models.NewLabelSet()
	remote := models.NewLabelSet()
	for i := int64(0); i < 5; i++ {
		local.Put(string(rune('a'+i)), "local", 100+i)
		remote.Put(string(rune('p'+i)), "remote", 100+i)
	}

	merged, delta := mergeLabelSets(local, remote)

	assert.Len(t, merged.Entries, 10)
	assert.Equal(t, 5, delta.added)
}
