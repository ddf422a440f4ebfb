package kvdb

import (
	"strconv"
	"time"

	"github.com/wooyang2018/corekv/common/metrics"
	"github.com/wooyang2018/corekv/storage"
)

type cmdKind int

const (
	cmdOpen cmdKind = iota
	cmdWrite
	cmdClose
)

func (k cmdKind) String() string {
	switch k {
	case cmdOpen:
		return "open"
	case cmdWrite:
		return "write"
	case cmdClose:
		return "close"
	}
	return "unknown"
}

// command is one queued lifecycle request. reply has capacity 1 and receives
// exactly one status.
type command struct {
	kind  cmdKind
	reply chan storage.Status

	// cmdWrite
	batch *storage.Batch
	sync  bool
	// cmdClose
	trigger string
}

// submit appends cmd to the queue and wakes the worker. It never blocks on
// capacity.
func (c *dbCore) submit(cmd *command) <-chan storage.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enqueue(cmd)
}

// enqueue requires c.mu held.
func (c *dbCore) enqueue(cmd *command) <-chan storage.Status {
	cmd.reply = make(chan storage.Status, 1)
	c.queue.PushBack(cmd)
	metrics.QueueDepthGauge.Inc()
	c.cond.Signal()
	return cmd.reply
}

func (c *dbCore) pop() *command {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.queue.Len() == 0 {
		c.cond.Wait()
	}
	metrics.QueueDepthGauge.Dec()
	return c.queue.PopFront().(*command)
}

// run is the worker loop. It exits after processing a close command.
func (c *dbCore) run() {
	defer close(c.done)
	for {
		cmd := c.pop()
		begin := time.Now()

		var st storage.Status
		switch cmd.kind {
		case cmdOpen:
			st = c.processOpen()
		case cmdWrite:
			st = c.processWrite(cmd)
		case cmdClose:
			c.finalizeDatabase(cmd.trigger)
		}

		metrics.CommandHistogram.WithLabelValues(cmd.kind.String()).Observe(time.Since(begin).Seconds())
		metrics.CommandCounter.WithLabelValues(cmd.kind.String(), strconv.Itoa(int(st))).Inc()
		cmd.reply <- st
		if cmd.kind == cmdClose {
			c.log.Info("database closed", "path", c.opts.Path, "trigger", cmd.trigger)
			return
		}
	}
}

func (c *dbCore) processOpen() storage.Status {
	eng, err := storage.OpenEngine(c.opts.engineType(), c.opts.storageOptions())
	if err != nil {
		c.openErr = err
		st := storage.StatusOf(err)
		c.log.Warn("open database failed", "path", c.opts.Path, "engine", c.opts.engineType(),
			"code", int(st), "err", err)
		return st
	}

	c.engMu.Lock()
	c.engine = eng
	c.engMu.Unlock()
	c.log.Info("database opened", "path", c.opts.Path, "engine", c.opts.engineType())
	return storage.StatusOK
}

func (c *dbCore) processWrite(cmd *command) storage.Status {
	c.engMu.RLock()
	defer c.engMu.RUnlock()
	if c.engine == nil {
		return storage.StatusOf(storage.Wrap(storage.ErrInvalidArgument, storage.ErrNotOpen))
	}
	if cmd.batch == nil || cmd.batch.Len() == 0 {
		return storage.StatusOK
	}

	err := c.engine.Write(cmd.batch, cmd.sync)
	if err != nil {
		c.log.Warn("write batch failed", "path", c.opts.Path, "ops", cmd.batch.Len(), "err", err)
	}
	return storage.StatusOf(err)
}
