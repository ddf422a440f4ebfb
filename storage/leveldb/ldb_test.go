package leveldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wooyang2018/corekv/storage"
)

func newTestOptions(t *testing.T) *storage.Options {
	return &storage.Options{
		Path:            filepath.Join(t.TempDir(), "ldb"),
		BlockSize:       storage.DefaultBlockSize,
		CreateIfMissing: true,
		BloomBitsPerKey: storage.DefaultBloomBitsPerKey,
	}
}

func TestLDBDatabase(t *testing.T) {
	tests := []struct {
		name string
		fn   func(t *testing.T, db *LDBDatabase)
	}{
		{
			name: "put_get_delete",
			fn:   testPutGetDelete,
		},
		{
			name: "write_batch",
			fn:   testWriteBatch,
		},
		{
			name: "cursor_order",
			fn:   testCursorOrder,
		},
		{
			name: "closed_engine",
			fn:   testClosedEngine,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, err := OpenFile(newTestOptions(t))
			require.NoError(t, err)
			defer db.Close() //nolint:errcheck

			tc.fn(t, db)
		})
	}
}

func testPutGetDelete(t *testing.T, db *LDBDatabase) {
	key := []byte("test-key")
	value := []byte("test-value")

	require.NoError(t, db.Put(key, value, true))
	got, err := db.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value, got)

	ok, err := db.Has(key)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, db.Delete(key, false))
	_, err = db.Get(key)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	ok, err = db.Has(key)
	require.NoError(t, err)
	assert.False(t, ok)

	// Delete non-existent key should not error
	assert.NoError(t, db.Delete([]byte("non-existent"), false))
}

func testWriteBatch(t *testing.T, db *LDBDatabase) {
	require.NoError(t, db.Put([]byte("gone"), []byte("x"), false))

	b := storage.NewBatch()
	b.Put([]byte("k1"), []byte("v1"))
	b.Put([]byte("k2"), []byte("v2"))
	b.Delete([]byte("gone"))
	assert.Equal(t, 3, b.Len())
	require.NoError(t, db.Write(b, true))

	v, err := db.Get([]byte("k2"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), v)
	_, err = db.Get([]byte("gone"))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testCursorOrder(t *testing.T, db *LDBDatabase) {
	for _, k := range []string{"c", "a", "e", "b", "d"} {
		require.NoError(t, db.Put([]byte(k), []byte("v-"+k), false))
	}

	c := db.NewCursor(false)
	defer c.Release()

	var keys []string
	for ok := c.First(); ok; ok = c.Next() {
		keys = append(keys, string(c.Key()))
	}
	require.NoError(t, c.Error())
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, keys)

	require.True(t, c.Seek([]byte("bb")))
	assert.Equal(t, []byte("c"), c.Key())
	assert.Equal(t, []byte("v-c"), c.Value())

	assert.False(t, c.Seek([]byte("f")))
	assert.False(t, c.Valid())
}

func testClosedEngine(t *testing.T, db *LDBDatabase) {
	require.NoError(t, db.Close())

	_, err := db.Get([]byte("key"))
	assert.ErrorIs(t, err, storage.ErrClosed)
	assert.Equal(t, storage.StatusAlreadyClosed, storage.StatusOf(err))

	err = db.Put([]byte("key"), []byte("value"), false)
	assert.ErrorIs(t, err, storage.ErrClosed)
}

func TestOpenPolicies(t *testing.T) {
	opts := newTestOptions(t)
	opts.CreateIfMissing = false
	_, err := OpenFile(opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrInvalidArgument)
	assert.Equal(t, storage.StatusInvalidArgument, storage.StatusOf(err))

	opts.CreateIfMissing = true
	db, err := OpenFile(opts)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	opts.ErrorIfExists = true
	_, err = OpenFile(opts)
	assert.ErrorIs(t, err, storage.ErrInvalidArgument)

	opts.ErrorIfExists = false
	opts.Compression = storage.CompressionNone
	db, err = OpenFile(opts)
	require.NoError(t, err)
	assert.Equal(t, opts.Path, db.Path())
	require.NoError(t, db.Close())
}

func TestOpenLocked(t *testing.T) {
	opts := newTestOptions(t)
	db, err := OpenFile(opts)
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	_, err = OpenFile(opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrIO)
	assert.Equal(t, storage.StatusIOError, storage.StatusOf(err))
}

func TestRegisteredEngine(t *testing.T) {
	assert.Contains(t, storage.Engines(), EngineType)

	eng, err := storage.OpenEngine(EngineType, newTestOptions(t))
	require.NoError(t, err)
	require.NoError(t, eng.Close())

	_, err = storage.OpenEngine("rocksdb", newTestOptions(t))
	assert.ErrorIs(t, err, storage.ErrUnknownEngine)
	assert.ErrorIs(t, err, storage.ErrInvalidArgument)
	assert.ErrorContains(t, err, `"rocksdb" (forgotten import?)`)
}
