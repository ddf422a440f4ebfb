package kvdb

import (
	"sync"

	"github.com/wooyang2018/corekv/storage"
	"github.com/wooyang2018/corekv/storage/leveldb"
)

const trackingEngineType = "tracking"

func init() {
	storage.Register(trackingEngineType, openTracking)
}

var (
	trackedMu sync.Mutex
	tracked   = make(map[string]*trackingEngine)
)

func trackedEngine(path string) *trackingEngine {
	trackedMu.Lock()
	defer trackedMu.Unlock()
	return tracked[path]
}

// trackingEngine wraps the leveldb driver and records every engine call and
// every cursor access made after the cursor was released.
type trackingEngine struct {
	*leveldb.LDBDatabase

	mu             sync.Mutex
	calls          int
	closed         bool
	cursors        []*trackingCursor
	liveAtClose    int
	lateAccess     int
	accessAfterEnd int
}

func openTracking(opts *storage.Options) (storage.Engine, error) {
	ldb, err := leveldb.OpenFile(opts)
	if err != nil {
		return nil, err
	}
	e := &trackingEngine{LDBDatabase: ldb}
	trackedMu.Lock()
	tracked[opts.Path] = e
	trackedMu.Unlock()
	return e, nil
}

func (e *trackingEngine) touch() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.closed {
		e.accessAfterEnd++
	}
}

func (e *trackingEngine) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func (e *trackingEngine) Get(key []byte) ([]byte, error) {
	e.touch()
	return e.LDBDatabase.Get(key)
}

func (e *trackingEngine) Has(key []byte) (bool, error) {
	e.touch()
	return e.LDBDatabase.Has(key)
}

func (e *trackingEngine) Put(key, value []byte, sync bool) error {
	e.touch()
	return e.LDBDatabase.Put(key, value, sync)
}

func (e *trackingEngine) Delete(key []byte, sync bool) error {
	e.touch()
	return e.LDBDatabase.Delete(key, sync)
}

func (e *trackingEngine) Write(b *storage.Batch, sync bool) error {
	e.touch()
	return e.LDBDatabase.Write(b, sync)
}

func (e *trackingEngine) NewCursor(fillCache bool) storage.Cursor {
	e.touch()
	c := &trackingCursor{Cursor: e.LDBDatabase.NewCursor(fillCache), engine: e}
	e.mu.Lock()
	e.cursors = append(e.cursors, c)
	e.mu.Unlock()
	return c
}

func (e *trackingEngine) Close() error {
	e.mu.Lock()
	e.closed = true
	for _, c := range e.cursors {
		if !c.released {
			e.liveAtClose++
		}
	}
	e.mu.Unlock()
	return e.LDBDatabase.Close()
}

func (e *trackingEngine) snapshot() (cursors, liveAtClose, late, afterEnd int, closed bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.cursors), e.liveAtClose, e.lateAccess, e.accessAfterEnd, e.closed
}

func (e *trackingEngine) lastCursor() *trackingCursor {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.cursors) == 0 {
		return nil
	}
	return e.cursors[len(e.cursors)-1]
}

type trackingCursor struct {
	storage.Cursor
	engine   *trackingEngine
	released bool
	// every call except Release, and the Key calls among them
	ops      int
	keyReads int
}

func (c *trackingCursor) check() {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()
	c.ops++
	if c.released {
		c.engine.lateAccess++
	}
}

func (c *trackingCursor) counts() (ops, keyReads int, released bool) {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()
	return c.ops, c.keyReads, c.released
}

func (c *trackingCursor) First() bool          { c.check(); return c.Cursor.First() }
func (c *trackingCursor) Seek(key []byte) bool { c.check(); return c.Cursor.Seek(key) }
func (c *trackingCursor) Next() bool           { c.check(); return c.Cursor.Next() }
func (c *trackingCursor) Valid() bool          { c.check(); return c.Cursor.Valid() }
func (c *trackingCursor) Value() []byte        { c.check(); return c.Cursor.Value() }
func (c *trackingCursor) Error() error         { c.check(); return c.Cursor.Error() }

func (c *trackingCursor) Key() []byte {
	c.check()
	c.engine.mu.Lock()
	c.keyReads++
	c.engine.mu.Unlock()
	return c.Cursor.Key()
}

func (c *trackingCursor) Release() {
	c.engine.mu.Lock()
	if c.released {
		c.engine.lateAccess++
	}
	c.released = true
	c.engine.mu.Unlock()
	c.Cursor.Release()
}
