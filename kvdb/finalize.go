package kvdb

import (
	"strconv"
	"sync/atomic"

	"github.com/wooyang2018/corekv/common/metrics"
)

// finalization triggers, used as log fields and metric labels
const (
	triggerClose     = "close"
	triggerReclaim   = "reclaim"
	triggerExhausted = "exhausted"
	triggerCascade   = "cascade"
)

const (
	kindIterator = "iterator"
	kindDatabase = "database"
)

// finalizeIterator releases the iterator's cursor and bound copies. It is safe
// to call any number of times from any goroutine; only the first call acts.
func finalizeIterator(s *iterState, trigger string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalizeLocked(trigger)
}

// finalizeLocked requires s.mu held.
func (s *iterState) finalizeLocked(trigger string) bool {
	if !atomic.CompareAndSwapInt32(&s.finalized, 0, 1) {
		return false
	}

	core := s.core
	if s.cursor != nil {
		core.mu.Lock()
		core.live.Remove(s.id)
		core.mu.Unlock()
		metrics.LiveIteratorGauge.Dec()

		s.cursor.Release()
		s.cursor = nil
	}
	s.lower, s.upper = nil, nil
	core.iters.Delete(s.key())

	metrics.FinalizeCounter.WithLabelValues(kindIterator, trigger).Inc()
	core.log.Debug("iterator finalized", "path", core.opts.Path, "iter", s.id,
		"emitted", s.count, "trigger", trigger)
	return true
}

// finalizeDatabase finalizes every live iterator, drops the handle table
// entries of iterators that never started and then closes the engine. No
// iterator is left in the live set once the engine is released. Only the
// first call acts.
func (c *dbCore) finalizeDatabase(trigger string) bool {
	c.mu.Lock()
	if !atomic.CompareAndSwapInt32(&c.finalized, 0, 1) {
		c.mu.Unlock()
		return false
	}
	c.mu.Unlock()

	cascaded := 0
	for {
		id, ok := c.firstLive()
		if !ok {
			break
		}
		if st, found := c.lookupIter(id); found {
			if finalizeIterator(st, triggerCascade) {
				cascaded++
			}
			continue
		}
		// a live id always has a table entry, drop it so the loop ends
		c.mu.Lock()
		c.live.Remove(id)
		c.mu.Unlock()
	}
	// iterators that never advanced hold no cursor, only a table entry
	idle := c.iters.ItemCount()
	c.iters.Flush()

	c.engMu.Lock()
	if c.engine != nil {
		if err := c.engine.Close(); err != nil {
			c.log.Warn("close engine failed", "path", c.opts.Path, "err", err)
		}
		c.engine = nil
	}
	c.engMu.Unlock()

	metrics.FinalizeCounter.WithLabelValues(kindDatabase, trigger).Inc()
	c.log.Info("database finalized", "path", c.opts.Path, "iterators", cascaded, "idle", idle, "trigger", trigger)
	return true
}

func (c *dbCore) firstLive() (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it := c.live.Iterator()
	if !it.First() {
		return 0, false
	}
	return it.Value().(uint64), true
}

func (c *dbCore) lookupIter(id uint64) (*iterState, bool) {
	v, ok := c.iters.Get(strconv.FormatUint(id, 10))
	if !ok {
		return nil, false
	}
	return v.(*iterState), true
}
