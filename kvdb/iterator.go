package kvdb

import (
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/patrickmn/go-cache"
	"github.com/wooyang2018/corekv/codec"
	"github.com/wooyang2018/corekv/common/metrics"
	"github.com/wooyang2018/corekv/storage"
)

// Iterator is a forward scan over a key range. It is not safe to advance one
// Iterator from several goroutines at once, but finalization from any
// goroutine is.
type Iterator struct {
	st *iterState
}

// iterState lives in the database's handle table under its id. The live set
// holds ids only, so neither side owns the other.
type iterState struct {
	id   uint64
	core *dbCore

	// mu serializes advancing and finalization
	mu        sync.Mutex
	lower     *codec.Bound
	upper     *codec.Bound
	limit     int64
	fillCache bool
	count     int64
	cursor    storage.Cursor
	finalized int32
}

func (s *iterState) key() string {
	return strconv.FormatUint(s.id, 10)
}

// NewIterator creates a scan without touching the engine. Bound keys are
// copied, an empty bound key means no bound.
func (db *DB) NewIterator(opts IteratorOptions) (*Iterator, error) {
	core := db.core
	st := &iterState{
		id:        atomic.AddUint64(&core.nextID, 1),
		core:      core,
		lower:     opts.Lower.Clone(),
		upper:     opts.Upper.Clone(),
		limit:     opts.Limit,
		fillCache: opts.FillCache,
	}

	// 与requestClose互斥，关闭之后不会再有新条目进入句柄表
	core.mu.Lock()
	if core.isClosed() {
		core.mu.Unlock()
		observe(methodIter, storage.ErrClosed, 0)
		return nil, storage.ErrClosed
	}
	core.iters.Set(st.key(), st, cache.NoExpiration)
	core.mu.Unlock()
	observe(methodIter, nil, 0)

	it := &Iterator{st: st}
	runtime.SetFinalizer(it, (*Iterator).reclaim)
	return it, nil
}

// Advance returns the next pair in range. ok is false at the end of the scan,
// after which the iterator is finalized and keeps returning false. A cursor
// error seen at the end of the scan is returned once.
func (it *Iterator) Advance() (key, value []byte, ok bool, err error) {
	s := it.st
	s.mu.Lock()
	defer s.mu.Unlock()

	if atomic.LoadInt32(&s.finalized) == 1 {
		return nil, nil, false, nil
	}
	if s.core.isClosed() {
		return nil, nil, false, storage.ErrClosed
	}

	if s.cursor == nil {
		started, err := s.start()
		if err != nil || !started {
			return nil, nil, false, err
		}
	}

	// 达到上限时不再读取游标
	if s.limit >= 0 && s.count >= s.limit {
		s.finalizeLocked(triggerExhausted)
		return nil, nil, false, nil
	}
	c := s.cursor
	if !c.Valid() || (s.upper.IsSet() && s.upper.BeyondUpper(c.Key())) {
		cerr := c.Error()
		s.finalizeLocked(triggerExhausted)
		return nil, nil, false, cerr
	}

	key = append([]byte(nil), c.Key()...)
	value = append([]byte(nil), c.Value()...)
	s.count++
	c.Next()
	return key, value, true, nil
}

// start creates and positions the cursor on the first advance. It reports
// false when the database was finalized first, in which case the scan is
// empty and the iterator is finalized. Requires s.mu held.
func (s *iterState) start() (bool, error) {
	core := s.core
	core.engMu.RLock()
	defer core.engMu.RUnlock()

	if core.engine == nil {
		if core.isFinalized() {
			s.finalizeLocked(triggerExhausted)
			return false, nil
		}
		return false, storage.ErrNotOpen
	}

	cursor := core.engine.NewCursor(s.fillCache)
	core.mu.Lock()
	if core.isFinalized() {
		core.mu.Unlock()
		cursor.Release()
		s.finalizeLocked(triggerExhausted)
		return false, nil
	}
	core.live.Add(s.id)
	core.mu.Unlock()
	metrics.LiveIteratorGauge.Inc()

	s.cursor = cursor
	if s.lower.IsSet() {
		if cursor.Seek(s.lower.Key) && s.lower.SkipsLower(cursor.Key()) {
			cursor.Next()
		}
	} else {
		cursor.First()
	}
	return true, nil
}

// Next returns the next pair encoded by codec.EncodePair, or nil at the end of
// the scan.
func (it *Iterator) Next() ([]byte, error) {
	key, value, ok, err := it.Advance()
	if err != nil || !ok {
		return nil, err
	}
	buf, err := codec.EncodePair(key, value)
	if err != nil {
		return nil, storage.Wrap(storage.ErrInvalidArgument, err)
	}
	return buf, nil
}

// Emitted returns how many pairs the iterator has produced.
func (it *Iterator) Emitted() int64 {
	it.st.mu.Lock()
	defer it.st.mu.Unlock()
	return it.st.count
}

// Close finalizes the iterator. Closing twice is a no-op.
func (it *Iterator) Close() {
	finalizeIterator(it.st, triggerClose)
}

func (it *Iterator) reclaim() {
	finalizeIterator(it.st, triggerReclaim)
}
