// KV engine interface
// 通用的有序kv引擎接口，背后实现可以是leveldb或其他嵌入式引擎
package storage

// Cursor 有序key空间上的游标
type Cursor interface {
	First() bool
	Seek(key []byte) bool
	Next() bool
	Valid() bool
	Key() []byte
	Value() []byte
	Error() error
	Release()
}

// Engine 已打开的有序KV引擎。实现需要保证并发读写安全
type Engine interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Put(key []byte, value []byte, sync bool) error
	Delete(key []byte, sync bool) error
	Write(batch *Batch, sync bool) error
	NewCursor(fillCache bool) Cursor
	Close() error
}

// Options describes how an engine is opened.
type Options struct {
	Path            string
	BlockSize       int
	CreateIfMissing bool
	ErrorIfExists   bool
	// bits per key of the point-lookup bloom filter, 0 disables it
	BloomBitsPerKey int
	// snappy or none
	Compression            string
	BlockCacheCapacity     int
	OpenFilesCacheCapacity int
}

const (
	CompressionSnappy = "snappy"
	CompressionNone   = "none"

	DefaultBloomBitsPerKey = 10
	DefaultBlockSize       = 4 * 1024
)
