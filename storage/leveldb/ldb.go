package leveldb

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/wooyang2018/corekv/storage"
)

// EngineType is the name the driver registers under.
const EngineType = "leveldb"

func init() {
	storage.Register(EngineType, func(opts *storage.Options) (storage.Engine, error) {
		return OpenFile(opts)
	})
}

// LDBDatabase goleveldb的封装
type LDBDatabase struct {
	fn string
	db *leveldb.DB
}

var _ storage.Engine = (*LDBDatabase)(nil)

// OpenFile opens an instance of LDB at opts.Path.
func OpenFile(opts *storage.Options) (*LDBDatabase, error) {
	db, err := leveldb.OpenFile(opts.Path, newOptions(opts))
	if err != nil {
		return nil, convertError(err)
	}
	return &LDBDatabase{fn: opts.Path, db: db}, nil
}

func newOptions(opts *storage.Options) *opt.Options {
	o := &opt.Options{
		ErrorIfMissing:         !opts.CreateIfMissing,
		ErrorIfExist:           opts.ErrorIfExists,
		BlockSize:              opts.BlockSize,
		BlockCacheCapacity:     opts.BlockCacheCapacity,
		OpenFilesCacheCapacity: opts.OpenFilesCacheCapacity,
	}
	if opts.BloomBitsPerKey > 0 {
		o.Filter = filter.NewBloomFilter(opts.BloomBitsPerKey)
	}
	switch opts.Compression {
	case storage.CompressionNone:
		o.Compression = opt.NoCompression
	case storage.CompressionSnappy:
		o.Compression = opt.SnappyCompression
	}
	return o
}

// Path returns the directory the database lives in.
func (ldb *LDBDatabase) Path() string {
	return ldb.fn
}

func (ldb *LDBDatabase) Get(key []byte) ([]byte, error) {
	value, err := ldb.db.Get(key, nil)
	if err != nil {
		return nil, convertError(err)
	}
	return value, nil
}

func (ldb *LDBDatabase) Has(key []byte) (bool, error) {
	ok, err := ldb.db.Has(key, nil)
	return ok, convertError(err)
}

func (ldb *LDBDatabase) Put(key []byte, value []byte, sync bool) error {
	return convertError(ldb.db.Put(key, value, &opt.WriteOptions{Sync: sync}))
}

func (ldb *LDBDatabase) Delete(key []byte, sync bool) error {
	return convertError(ldb.db.Delete(key, &opt.WriteOptions{Sync: sync}))
}

func (ldb *LDBDatabase) Write(batch *storage.Batch, sync bool) error {
	lb := new(leveldb.Batch)
	batch.Replay(lb)
	return convertError(ldb.db.Write(lb, &opt.WriteOptions{Sync: sync}))
}

// NewCursor returns an unpositioned cursor over the whole key space.
func (ldb *LDBDatabase) NewCursor(fillCache bool) storage.Cursor {
	it := ldb.db.NewIterator(nil, &opt.ReadOptions{DontFillCache: !fillCache})
	return &cursor{Iterator: it}
}

func (ldb *LDBDatabase) Close() error {
	return convertError(ldb.db.Close())
}
