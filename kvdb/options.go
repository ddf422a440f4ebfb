package kvdb

import (
	"github.com/wooyang2018/corekv/codec"
	"github.com/wooyang2018/corekv/logger"
	"github.com/wooyang2018/corekv/storage"
)

const (
	DefaultEngineType = "leveldb"
	// NoLimit disables the result limit of an iterator.
	NoLimit int64 = -1
)

// Options describes the database opened by Open.
type Options struct {
	Path       string
	EngineType string
	// 0 uses storage.DefaultBlockSize
	BlockSize       int
	CreateIfMissing bool
	ErrorIfExists   bool
	// 0 uses storage.DefaultBloomBitsPerKey, negative disables the filter
	BloomBitsPerKey        int
	Compression            string
	BlockCacheCapacity     int
	OpenFilesCacheCapacity int

	// optional, a logger for submod "kvdb" is created when nil
	Logger logger.Logger
}

func (o *Options) engineType() string {
	if o.EngineType == "" {
		return DefaultEngineType
	}
	return o.EngineType
}

func (o *Options) storageOptions() *storage.Options {
	so := &storage.Options{
		Path:                   o.Path,
		BlockSize:              o.BlockSize,
		CreateIfMissing:        o.CreateIfMissing,
		ErrorIfExists:          o.ErrorIfExists,
		BloomBitsPerKey:        o.BloomBitsPerKey,
		Compression:            o.Compression,
		BlockCacheCapacity:     o.BlockCacheCapacity,
		OpenFilesCacheCapacity: o.OpenFilesCacheCapacity,
	}
	if so.BlockSize <= 0 {
		so.BlockSize = storage.DefaultBlockSize
	}
	switch {
	case so.BloomBitsPerKey == 0:
		so.BloomBitsPerKey = storage.DefaultBloomBitsPerKey
	case so.BloomBitsPerKey < 0:
		so.BloomBitsPerKey = 0
	}
	if so.Compression == "" {
		so.Compression = storage.CompressionSnappy
	}
	return so
}

// IteratorOptions describes a range scan. The zero value of Limit yields an
// empty scan; use NoLimit for an unbounded one.
type IteratorOptions struct {
	Lower *codec.Bound
	Upper *codec.Bound
	Limit int64
	// whether blocks read by the scan are kept in the engine block cache
	FillCache bool
}
