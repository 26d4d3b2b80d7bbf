package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/walletmesh/labelsync/internal/adapter"
	"github.com/walletmesh/labelsync/internal/config"
	"github.com/walletmesh/labelsync/internal/crypto"
	"github.com/walletmesh/labelsync/internal/device"
	"github.com/walletmesh/labelsync/internal/logger"
	"github.com/walletmesh/labelsync/internal/mock"
	"github.com/walletmesh/labelsync/models"
)

const (
	testAccount uint32 = 7
	testPath           = "9c41f6d2aa8e.mtdt"
)

// stubKeyring hands out a fresh context per call so the engine's purge at
// cycle end cannot zero the key shared between calls.
type stubKeyring struct {
	key  []byte
	path string
	err  error
}

func (s *stubKeyring) Context(_ context.Context, accountIndex uint32) (*models.EncryptionContext, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	key := make([]byte, len(s.key))
	copy(key, s.key)
	return &models.EncryptionContext{
		Mode:         models.ModeStandard,
		AccountIndex: accountIndex,
		Key:          key,
	}, s.path, nil
}

func testAccountKey(t *testing.T) []byte {
	t.Helper()
	ks := crypto.NewKeyService()
	master, err := ks.StandardMasterKey("fp-test")
	require.NoError(t, err)
	key, err := ks.AccountKey(master, testAccount)
	require.NoError(t, err)
	return key
}

func encodeSet(t *testing.T, key []byte, set *models.LabelSet) []byte {
	t.Helper()
	env, err := crypto.NewLabelCodec().Encode(set, key)
	require.NoError(t, err)
	return env.Bytes()
}

func decodeUpload(t *testing.T, key, data []byte) *models.LabelSet {
	t.Helper()
	env, err := crypto.ParseEnvelope(testPath, data)
	require.NoError(t, err)
	set, err := crypto.NewLabelCodec().Decode(env, key)
	require.NoError(t, err)
	return set
}

func newTestEngine(remote adapter.RemoteStore, labels *mock.MockLabelRepository, key []byte) *syncEngine {
	svc := NewSyncEngine(
		remote,
		labels,
		crypto.NewLabelCodec(),
		&stubKeyring{key: key, path: testPath},
		clock.NewDefaultClock(),
		logger.Nop(),
		config.Sync{MaxRetries: 3},
	)
	e := svc.(*syncEngine)
	e.backoff = time.Millisecond
	return e
}

func TestSyncAccount_FirstCycleUploadsLocalState(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteStore(ctrl)
	labels := mock.NewMockLabelRepository(ctrl)
	key := testAccountKey(t)
	e := newTestEngine(remote, labels, key)

	local := models.NewLabelSet()
	local.Put("addr-1", "savings", 100)
	local.Put("tx-1", "coffee", 110)

	var uploaded []byte
	labels.EXPECT().LoadSet(gomock.Any(), testAccount).Return(local, nil)
	remote.EXPECT().Get(gomock.Any(), testPath).Return(nil, adapter.ErrNotFound)
	remote.EXPECT().Put(gomock.Any(), testPath, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, data []byte) (string, error) {
			uploaded = data
			return "rev-1", nil
		})
	labels.EXPECT().SaveSet(gomock.Any(), testAccount, gomock.Any()).Return(nil)

	merged, report, err := e.SyncAccount(context.Background(), testAccount)
	require.NoError(t, err)

	assert.Len(t, merged.Entries, 2)
	assert.Zero(t, report.Added)
	assert.Zero(t, report.Updated)
	assert.False(t, report.RemoteSkipped)

	roundTripped := decodeUpload(t, key, uploaded)
	assert.Equal(t, "savings", roundTripped.Entries["addr-1"].Text)
	assert.Equal(t, "coffee", roundTripped.Entries["tx-1"].Text)
}

func TestSyncAccount_RemoteEditsMergedAndPersisted(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteStore(ctrl)
	labels := mock.NewMockLabelRepository(ctrl)
	key := testAccountKey(t)
	e := newTestEngine(remote, labels, key)

	local := models.NewLabelSet()
	local.Put("addr-1", "old name", 100)

	remoteSet := models.NewLabelSet()
	remoteSet.Put("addr-1", "new name", 200)
	remoteSet.Put("addr-2", "exchange", 50)

	var saved *models.LabelSet
	var uploaded []byte
	labels.EXPECT().LoadSet(gomock.Any(), testAccount).Return(local, nil)
	remote.EXPECT().Get(gomock.Any(), testPath).Return(encodeSet(t, key, remoteSet), nil)
	remote.EXPECT().Put(gomock.Any(), testPath, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, data []byte) (string, error) {
			uploaded = data
			return "rev-2", nil
		})
	labels.EXPECT().SaveSet(gomock.Any(), testAccount, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uint32, set *models.LabelSet) error {
			saved = set
			return nil
		})

	merged, report, err := e.SyncAccount(context.Background(), testAccount)
	require.NoError(t, err)

	assert.Equal(t, "new name", merged.Entries["addr-1"].Text)
	assert.Equal(t, "exchange", merged.Entries["addr-2"].Text)
	assert.Equal(t, 1, report.Added)
	assert.Equal(t, 1, report.Updated)
	assert.Same(t, merged, saved, "the persisted set is the merged set")

	roundTripped := decodeUpload(t, key, uploaded)
	assert.Len(t, roundTripped.Entries, 2)
}

func TestSyncAccount_RemoteTombstonePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteStore(ctrl)
	labels := mock.NewMockLabelRepository(ctrl)
	key := testAccountKey(t)
	e := newTestEngine(remote, labels, key)

	local := models.NewLabelSet()
	local.Put("addr-1", "doomed", 100)

	remoteSet := models.NewLabelSet()
	remoteSet.Tombstone("addr-1", 200)

	labels.EXPECT().LoadSet(gomock.Any(), testAccount).Return(local, nil)
	remote.EXPECT().Get(gomock.Any(), testPath).Return(encodeSet(t, key, remoteSet), nil)
	remote.EXPECT().Put(gomock.Any(), testPath, gomock.Any()).Return("rev-3", nil)
	labels.EXPECT().SaveSet(gomock.Any(), testAccount, gomock.Any()).Return(nil)

	merged, report, err := e.SyncAccount(context.Background(), testAccount)
	require.NoError(t, err)

	assert.True(t, merged.Entries["addr-1"].Deleted)
	assert.Equal(t, 1, report.Tombstoned)
	assert.Zero(t, merged.Live())
}

func TestSyncAccount_UnauthenticEnvelopeSkippedNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteStore(ctrl)
	labels := mock.NewMockLabelRepository(ctrl)
	key := testAccountKey(t)
	e := newTestEngine(remote, labels, key)

	local := models.NewLabelSet()
	local.Put("addr-1", "kept", 100)

	remoteSet := models.NewLabelSet()
	remoteSet.Put("addr-1", "never seen", 999)
	tampered := encodeSet(t, key, remoteSet)
	tampered[len(tampered)-1] ^= 0x01

	labels.EXPECT().LoadSet(gomock.Any(), testAccount).Return(local, nil)
	remote.EXPECT().Get(gomock.Any(), testPath).Return(tampered, nil)
	remote.EXPECT().Put(gomock.Any(), testPath, gomock.Any()).Return("rev-4", nil)
	labels.EXPECT().SaveSet(gomock.Any(), testAccount, gomock.Any()).Return(nil)

	merged, report, err := e.SyncAccount(context.Background(), testAccount)
	require.NoError(t, err, "a corrupt remote file must not fail the cycle")

	assert.True(t, report.RemoteSkipped)
	assert.NotEmpty(t, report.Warnings)
	assert.Equal(t, "kept", merged.Entries["addr-1"].Text, "remote content was ignored")
}

func TestSyncAccount_TruncatedRemoteFileSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteStore(ctrl)
	labels := mock.NewMockLabelRepository(ctrl)
	key := testAccountKey(t)
	e := newTestEngine(remote, labels, key)

	labels.EXPECT().LoadSet(gomock.Any(), testAccount).Return(models.NewLabelSet(), nil)
	remote.EXPECT().Get(gomock.Any(), testPath).Return([]byte("tiny"), nil)
	remote.EXPECT().Put(gomock.Any(), testPath, gomock.Any()).Return("rev-5", nil)
	labels.EXPECT().SaveSet(gomock.Any(), testAccount, gomock.Any()).Return(nil)

	_, report, err := e.SyncAccount(context.Background(), testAccount)
	require.NoError(t, err)
	assert.True(t, report.RemoteSkipped)
}

func TestSyncAccount_TransientDownloadFailureRetried(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteStore(ctrl)
	labels := mock.NewMockLabelRepository(ctrl)
	key := testAccountKey(t)
	e := newTestEngine(remote, labels, key)

	labels.EXPECT().LoadSet(gomock.Any(), testAccount).Return(models.NewLabelSet(), nil)
	gomock.InOrder(
		remote.EXPECT().Get(gomock.Any(), testPath).Return(nil, adapter.ErrNetwork),
		remote.EXPECT().Get(gomock.Any(), testPath).Return(nil, adapter.ErrNetwork),
		remote.EXPECT().Get(gomock.Any(), testPath).Return(nil, adapter.ErrNotFound),
	)
	remote.EXPECT().Put(gomock.Any(), testPath, gomock.Any()).Return("rev-6", nil)
	labels.EXPECT().SaveSet(gomock.Any(), testAccount, gomock.Any()).Return(nil)

	_, _, err := e.SyncAccount(context.Background(), testAccount)
	require.NoError(t, err)
}

func TestSyncAccount_UploadRetriesExhaustedLeavesLocalUntouched(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteStore(ctrl)
	labels := mock.NewMockLabelRepository(ctrl)
	key := testAccountKey(t)
	e := newTestEngine(remote, labels, key)

	labels.EXPECT().LoadSet(gomock.Any(), testAccount).Return(models.NewLabelSet(), nil)
	remote.EXPECT().Get(gomock.Any(), testPath).Return(nil, adapter.ErrNotFound)
	remote.EXPECT().Put(gomock.Any(), testPath, gomock.Any()).Return("", adapter.ErrNetwork).Times(3)
	// No SaveSet expectation: persisting after a failed upload is a bug.

	_, _, err := e.SyncAccount(context.Background(), testAccount)
	require.ErrorIs(t, err, adapter.ErrNetwork)
}

func TestSyncAccount_AuthRejectionNotRetried(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteStore(ctrl)
	labels := mock.NewMockLabelRepository(ctrl)
	key := testAccountKey(t)
	e := newTestEngine(remote, labels, key)

	labels.EXPECT().LoadSet(gomock.Any(), testAccount).Return(models.NewLabelSet(), nil)
	remote.EXPECT().Get(gomock.Any(), testPath).Return(nil, adapter.ErrAuth).Times(1)

	_, _, err := e.SyncAccount(context.Background(), testAccount)
	require.ErrorIs(t, err, adapter.ErrAuth)
}

func TestSyncAccount_KeyDerivationFailureAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteStore(ctrl)
	labels := mock.NewMockLabelRepository(ctrl)
	key := testAccountKey(t)
	e := newTestEngine(remote, labels, key)
	e.keyring = &stubKeyring{err: device.ErrUserRejected}

	labels.EXPECT().LoadSet(gomock.Any(), testAccount).Return(models.NewLabelSet(), nil)

	_, _, err := e.SyncAccount(context.Background(), testAccount)
	require.ErrorIs(t, err, device.ErrUserRejected)
}

func TestSyncAccount_ConcurrentCycleFailsFast(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteStore(ctrl)
	labels := mock.NewMockLabelRepository(ctrl)
	key := testAccountKey(t)
	e := newTestEngine(remote, labels, key)

	gate := make(chan struct{})
	labels.EXPECT().LoadSet(gomock.Any(), testAccount).
		DoAndReturn(func(context.Context, uint32) (*models.LabelSet, error) {
			<-gate
			return models.NewLabelSet(), nil
		})
	remote.EXPECT().Get(gomock.Any(), testPath).Return(nil, adapter.ErrNotFound)
	remote.EXPECT().Put(gomock.Any(), testPath, gomock.Any()).Return("rev-7", nil)
	labels.EXPECT().SaveSet(gomock.Any(), testAccount, gomock.Any()).Return(nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _, err := e.SyncAccount(context.Background(), testAccount)
		assert.NoError(t, err)
	}()

	time.Sleep(20 * time.Millisecond) // let the first cycle take the slot
	_, _, err := e.SyncAccount(context.Background(), testAccount)
	require.ErrorIs(t, err, ErrSyncInProgress)

	close(gate)
	wg.Wait()
}

func TestSyncAccount_CancellationDuringBackoff(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteStore(ctrl)
	labels := mock.NewMockLabelRepository(ctrl)
	key := testAccountKey(t)
	e := newTestEngine(remote, labels, key)
	e.backoff = time.Hour // force the wait to be interrupted, not elapsed

	ctx, cancel := context.WithCancel(context.Background())
	labels.EXPECT().LoadSet(gomock.Any(), testAccount).Return(models.NewLabelSet(), nil)
	remote.EXPECT().Get(gomock.Any(), testPath).
		DoAndReturn(func(context.Context, string) ([]byte, error) {
			cancel()
			return nil, adapter.ErrNetwork
		})

	_, _, err := e.SyncAccount(ctx, testAccount)
	require.ErrorIs(t, err, context.Canceled)
}
