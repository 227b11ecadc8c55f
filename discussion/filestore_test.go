package discussion

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setNow pins the store clock for deterministic ordering assertions.
func setNow(t *testing.T, stamp string) {
	t.Helper()
	prev := nowFunc
	nowFunc = func() string { return stamp }
	t.Cleanup(func() { nowFunc = prev })
}

func TestFileStoreSaveAndGet(t *testing.T) {
	store := NewFileStore(t.TempDir())

	sess, err := store.Save("環境問題", []string{"田中", "鈴木"}, "田中: 最初の発言")
	require.NoError(t, err)
	assert.Equal(t, int64(1), sess.ID)
	assert.NotEmpty(t, sess.CreatedAt)
	assert.Equal(t, sess.CreatedAt, sess.UpdatedAt)

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess, got)
}

func TestFileStoreGetMissing(t *testing.T) {
	store := NewFileStore(t.TempDir())

	_, err := store.Get(42)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestFileStoreAssignsSequentialIDs(t *testing.T) {
	store := NewFileStore(t.TempDir())

	first, err := store.Save("topic A", []string{"田中"}, "")
	require.NoError(t, err)
	second, err := store.Save("topic B", []string{"鈴木"}, "")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
}

func TestFileStoreSaveOrUpdateCreatesWhenIDZero(t *testing.T) {
	store := NewFileStore(t.TempDir())

	sess, err := store.SaveOrUpdate(0, "topic", []string{"田中"}, "msg")
	require.NoError(t, err)
	assert.Equal(t, int64(1), sess.ID)
}

func TestFileStoreSaveOrUpdateExisting(t *testing.T) {
	store := NewFileStore(t.TempDir())

	setNow(t, "2026-08-30 10:00:00")
	sess, err := store.Save("topic", []string{"田中"}, "old")
	require.NoError(t, err)

	setNow(t, "2026-08-30 10:00:05")
	updated, err := store.SaveOrUpdate(sess.ID, "topic", []string{"田中"}, "new")
	require.NoError(t, err)

	assert.Equal(t, sess.ID, updated.ID)
	assert.Equal(t, "new", updated.Messages)
	assert.Equal(t, "2026-08-30 10:00:00", updated.CreatedAt)
	assert.Equal(t, "2026-08-30 10:00:05", updated.UpdatedAt)
}

func TestFileStoreSaveOrUpdateMissing(t *testing.T) {
	store := NewFileStore(t.TempDir())

	_, err := store.SaveOrUpdate(7, "topic", nil, "msg")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestFileStoreListOrdersByUpdatedAtDesc(t *testing.T) {
	store := NewFileStore(t.TempDir())

	setNow(t, "2026-08-30 09:00:00")
	older, err := store.Save("old topic", []string{"田中"}, "")
	require.NoError(t, err)

	setNow(t, "2026-08-30 11:00:00")
	newer, err := store.Save("new topic", []string{"鈴木"}, "")
	require.NoError(t, err)

	sessions, err := store.List()
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, newer.ID, sessions[0].ID)
	assert.Equal(t, older.ID, sessions[1].ID)
}

func TestFileStoreFindExisting(t *testing.T) {
	store := NewFileStore(t.TempDir())

	_, err := store.Save("環境問題", []string{"田中", "鈴木"}, "")
	require.NoError(t, err)

	sess, err := store.FindExisting("環境問題", []string{"田中", "鈴木"})
	require.NoError(t, err)
	assert.Equal(t, "環境問題", sess.Topic)

	_, err = store.FindExisting("環境問題", []string{"田中"})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = store.FindExisting("別のテーマ", []string{"田中", "鈴木"})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestFileStoreUpdateMessages(t *testing.T) {
	store := NewFileStore(t.TempDir())

	setNow(t, "2026-08-30 10:00:00")
	sess, err := store.Save("topic", []string{"田中"}, "old")
	require.NoError(t, err)

	setNow(t, "2026-08-30 10:00:10")
	require.NoError(t, store.UpdateMessages(sess.ID, "updated"))

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Messages)
	assert.Equal(t, "2026-08-30 10:00:10", got.UpdatedAt)

	assert.ErrorIs(t, store.UpdateMessages(99, "x"), ErrSessionNotFound)
}

func TestFileStoreDelete(t *testing.T) {
	store := NewFileStore(t.TempDir())

	sess, err := store.Save("topic", []string{"田中"}, "")
	require.NoError(t, err)

	require.NoError(t, store.Delete(sess.ID))
	_, err = store.Get(sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.ErrorIs(t, store.Delete(sess.ID), ErrSessionNotFound)
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first := NewFileStore(dir)
	sess, err := first.Save("topic", []string{"田中"}, "msg")
	require.NoError(t, err)

	second := NewFileStore(dir)
	got, err := second.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	again, err := second.Save("another", []string{"鈴木"}, "")
	require.NoError(t, err)
	assert.Equal(t, sess.ID+1, again.ID)
}

func TestFileStoreImplementsStore(t *testing.T) {
	var _ Store = NewFileStore(filepath.Join(t.TempDir(), "nested"))
}
