package kvdb

import (
	"strconv"

	"github.com/wooyang2018/corekv/common/metrics"
	"github.com/wooyang2018/corekv/storage"
)

const (
	methodGet    = "get"
	methodHas    = "has"
	methodPut    = "put"
	methodDelete = "delete"
	methodIter   = "iterator"
)

func observe(method string, err error, size int) {
	metrics.GatewayCounter.WithLabelValues(method, strconv.Itoa(int(storage.StatusOf(err)))).Inc()
	if err == nil && size > 0 {
		metrics.GatewayBytesCounter.WithLabelValues(method).Add(float64(size))
	}
}

// Get returns the value stored under key, or storage.ErrNotFound.
func (db *DB) Get(key []byte) (value []byte, err error) {
	defer func() { observe(methodGet, err, len(key)+len(value)) }()

	eng, release, err := db.core.acquireEngine()
	if err != nil {
		return nil, err
	}
	defer release()
	return eng.Get(key)
}

// Has reports whether key is present. A miss is not an error.
func (db *DB) Has(key []byte) (ok bool, err error) {
	defer func() { observe(methodHas, err, 0) }()

	eng, release, err := db.core.acquireEngine()
	if err != nil {
		return false, err
	}
	defer release()
	return eng.Has(key)
}

// Put stores value under key. With sync set the engine flushes its log
// before returning.
func (db *DB) Put(key, value []byte, sync bool) (err error) {
	defer func() { observe(methodPut, err, len(key)+len(value)) }()

	eng, release, err := db.core.acquireEngine()
	if err != nil {
		return err
	}
	defer release()
	return eng.Put(key, value, sync)
}

// Delete removes key without waiting for the engine to sync.
func (db *DB) Delete(key []byte) error {
	return db.delete(key, false)
}

// DeleteSync removes key and waits for the engine to sync.
func (db *DB) DeleteSync(key []byte) error {
	return db.delete(key, true)
}

func (db *DB) delete(key []byte, sync bool) (err error) {
	defer func() { observe(methodDelete, err, len(key)) }()

	eng, release, err := db.core.acquireEngine()
	if err != nil {
		return err
	}
	defer release()
	return eng.Delete(key, sync)
}
