package kvdb

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/gammazero/deque"
	"github.com/patrickmn/go-cache"
	"github.com/wooyang2018/corekv/logger"
	"github.com/wooyang2018/corekv/storage"
)

const SubModName = "kvdb"

// DB is an asynchronously opened and closed database. Data calls run on the
// caller's goroutine, open and close run on the database's own worker.
type DB struct {
	core *dbCore
}

// dbCore is the state shared by the worker, the gateway and the iterators.
// It never points back to DB so an unreachable DB can be reclaimed.
type dbCore struct {
	opts Options
	log  logger.Logger

	// mu guards queue and live, cond waits on mu
	mu    sync.Mutex
	cond  *sync.Cond
	queue deque.Deque
	live  *linkedhashset.Set

	closed    int32
	finalized int32
	done      chan struct{}

	engMu   sync.RWMutex
	engine  storage.Engine
	openErr error

	iters  *cache.Cache
	nextID uint64
}

// Open returns a handle at once and queues the open command. The channel
// receives the open status.
func Open(opts *Options) (*DB, <-chan storage.Status) {
	if opts == nil {
		opts = &Options{}
	}
	core := &dbCore{
		opts:  *opts,
		log:   opts.Logger,
		live:  linkedhashset.New(),
		done:  make(chan struct{}),
		iters: cache.New(cache.NoExpiration, 0),
	}
	if core.log == nil {
		core.log = logger.MustNewLogger("", SubModName)
	}
	core.cond = sync.NewCond(&core.mu)

	go core.run()
	reply := core.submit(&command{kind: cmdOpen})

	db := &DB{core: core}
	runtime.SetFinalizer(db, (*DB).reclaim)
	return db, reply
}

// OpenContext opens a database and waits for the result. On failure the
// handle is closed again and the open error returned.
func OpenContext(ctx context.Context, opts *Options) (*DB, error) {
	db, reply := Open(opts)
	select {
	case st := <-reply:
		if st == storage.StatusOK {
			return db, nil
		}
		db.Close()
		if err := db.core.openErr; err != nil {
			return nil, err
		}
		return nil, st.Err()
	case <-ctx.Done():
		db.Close()
		return nil, ctx.Err()
	}
}

// Close marks the database closed and queues the close command behind
// everything already queued. A second Close replies StatusAlreadyClosed.
func (db *DB) Close() <-chan storage.Status {
	return db.core.requestClose(triggerClose)
}

// CloseContext closes the database and waits for teardown to finish.
func (db *DB) CloseContext(ctx context.Context) error {
	select {
	case st := <-db.Close():
		return st.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WriteAsync queues an atomic batch write ordered with open and close.
func (db *DB) WriteAsync(batch *storage.Batch, sync bool) <-chan storage.Status {
	core := db.core
	core.mu.Lock()
	defer core.mu.Unlock()
	if core.isClosed() {
		return replyNow(storage.StatusAlreadyClosed)
	}
	return core.enqueue(&command{kind: cmdWrite, batch: batch, sync: sync})
}

// Path returns the path the database was opened with.
func (db *DB) Path() string {
	return db.core.opts.Path
}

// Done is closed once the worker has finished teardown and exited.
func (db *DB) Done() <-chan struct{} {
	return db.core.done
}

// Stats is a snapshot of a database handle.
type Stats struct {
	Path          string
	Open          bool
	Closed        bool
	Finalized     bool
	// iterators holding an engine cursor
	LiveIterators int
	// iterators not yet finalized, 0 once the database is finalized
	Iterators  int
	QueueDepth int
}

func (db *DB) Stats() Stats {
	core := db.core
	core.engMu.RLock()
	open := core.engine != nil
	core.engMu.RUnlock()

	core.mu.Lock()
	live, depth := core.live.Size(), core.queue.Len()
	core.mu.Unlock()

	return Stats{
		Path:          core.opts.Path,
		Open:          open,
		Closed:        core.isClosed(),
		Finalized:     core.isFinalized(),
		LiveIterators: live,
		Iterators:     core.iters.ItemCount(),
		QueueDepth:    depth,
	}
}

// reclaim runs when the handle becomes unreachable without being closed.
func (db *DB) reclaim() {
	db.core.requestClose(triggerReclaim)
}

func (c *dbCore) requestClose(trigger string) <-chan storage.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return replyNow(storage.StatusAlreadyClosed)
	}
	return c.enqueue(&command{kind: cmdClose, trigger: trigger})
}

func (c *dbCore) isClosed() bool {
	return atomic.LoadInt32(&c.closed) == 1
}

func (c *dbCore) isFinalized() bool {
	return atomic.LoadInt32(&c.finalized) == 1
}

// acquireEngine read-locks the engine for one gateway call. The returned
// release func must be called when the call is done.
func (c *dbCore) acquireEngine() (storage.Engine, func(), error) {
	if c.isClosed() {
		return nil, nil, storage.ErrClosed
	}
	c.engMu.RLock()
	if c.engine == nil {
		c.engMu.RUnlock()
		if c.isFinalized() {
			return nil, nil, storage.ErrClosed
		}
		return nil, nil, storage.ErrNotOpen
	}
	return c.engine, c.engMu.RUnlock, nil
}

func replyNow(st storage.Status) <-chan storage.Status {
	ch := make(chan storage.Status, 1)
	ch <- st
	return ch
}
