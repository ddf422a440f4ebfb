package cmd

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"
	"github.com/wooyang2018/corekv/kvdb"
	"github.com/wooyang2018/corekv/storage"
	"golang.org/x/sync/errgroup"
)

// LoadCommand load cmd
type LoadCommand struct {
	BaseCmd
	cli *Cli

	count     int
	workers   int
	batchSize int
	prefix    string
	valueSize string
	sync      bool
}

func NewLoadCommand(cli *Cli) *cobra.Command {
	c := &LoadCommand{cli: cli}
	c.Cmd = &cobra.Command{
		Use:     "load",
		Short:   "Write generated pairs with concurrent workers.",
		Example: "kvctl load --count 100000 --workers 8 --value-size 1KiB",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.withDB(cmd, func(db *kvdb.DB) error {
				return c.load(cmd, db)
			})
		},
	}
	c.Cmd.Flags().IntVarP(&c.count, "count", "n", 10000, "number of pairs to write")
	c.Cmd.Flags().IntVarP(&c.workers, "workers", "w", 4, "number of concurrent writers")
	c.Cmd.Flags().IntVar(&c.batchSize, "batch", 0, "pairs per queued batch, 0 writes each pair directly")
	c.Cmd.Flags().StringVar(&c.prefix, "prefix", "load-", "key prefix")
	c.Cmd.Flags().StringVar(&c.valueSize, "value-size", "100B", "size of each value")
	c.Cmd.Flags().BoolVar(&c.sync, "sync", false, "sync every write")
	return c.Cmd
}

func (c *LoadCommand) load(cmd *cobra.Command, db *kvdb.DB) error {
	size, err := units.RAMInBytes(c.valueSize)
	if err != nil {
		return fmt.Errorf("parse value size failed.value:%s,err:%v", c.valueSize, err)
	}
	if c.workers <= 0 {
		c.workers = 1
	}
	value := bytes.Repeat([]byte{'v'}, int(size))

	begin := time.Now()
	g, ctx := errgroup.WithContext(context.Background())
	for w := 0; w < c.workers; w++ {
		w := w
		g.Go(func() error {
			return c.runWorker(ctx, db, w, value)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	cost := time.Since(begin)
	written := int64(c.count) * size
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d pairs (%s) in %v, %.0f ops/s\n",
		c.count, units.BytesSize(float64(written)), cost.Round(time.Millisecond),
		float64(c.count)/cost.Seconds())
	return nil
}

// runWorker writes every key whose index falls on this worker.
func (c *LoadCommand) runWorker(ctx context.Context, db *kvdb.DB, w int, value []byte) error {
	var batch *storage.Batch
	if c.batchSize > 0 {
		batch = storage.NewBatch()
	}

	for i := w; i < c.count; i += c.workers {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		key := []byte(fmt.Sprintf("%s%010d", c.prefix, i))
		if batch == nil {
			if err := db.Put(key, value, c.sync); err != nil {
				return err
			}
			continue
		}
		batch.Put(key, value)
		if batch.Len() >= c.batchSize {
			if err := c.flush(db, batch); err != nil {
				return err
			}
			batch = storage.NewBatch()
		}
	}
	if batch != nil && batch.Len() > 0 {
		return c.flush(db, batch)
	}
	return nil
}

func (c *LoadCommand) flush(db *kvdb.DB, batch *storage.Batch) error {
	st := <-db.WriteAsync(batch, c.sync)
	if st != storage.StatusOK {
		return fmt.Errorf("write batch failed.code:%d,err:%w", int(st), st.Err())
	}
	return nil
}
