package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	xconf "github.com/wooyang2018/corekv/common/config"
	"github.com/wooyang2018/corekv/kvdb"
)

// StatCommand stat cmd
type StatCommand struct {
	BaseCmd
	cli   *Cli
	count bool
}

func NewStatCommand(cli *Cli) *cobra.Command {
	c := &StatCommand{cli: cli}
	c.Cmd = &cobra.Command{
		Use:   "stat",
		Short: "Print the database handle state and its configuration.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.withDB(cmd, func(db *kvdb.DB) error {
				return c.printStat(cmd, db)
			})
		},
	}
	c.Cmd.Flags().BoolVar(&c.count, "count", false, "count the keys with a full scan")
	return c.Cmd
}

func (c *StatCommand) printStat(cmd *cobra.Command, db *kvdb.DB) error {
	st := db.Stats()
	conf := c.cli.dbConf
	if conf == nil {
		conf = xconf.GetDefDBConf()
	}
	blockSize, err := conf.BlockSizeBytes()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "path\t%s\n", st.Path)
	fmt.Fprintf(w, "engine\t%s\n", conf.EngineType)
	fmt.Fprintf(w, "block size\t%s\n", xconf.HumanSize(int64(blockSize)))
	fmt.Fprintf(w, "bloom bits\t%d\n", conf.BloomBitsPerKey)
	fmt.Fprintf(w, "compression\t%s\n", conf.Compression)
	fmt.Fprintf(w, "log dir\t%s\n", conf.LogDir)
	fmt.Fprintf(w, "open\t%v\n", st.Open)
	fmt.Fprintf(w, "closed\t%v\n", st.Closed)
	fmt.Fprintf(w, "live iterators\t%d\n", st.LiveIterators)
	fmt.Fprintf(w, "iterators\t%d\n", st.Iterators)
	fmt.Fprintf(w, "queue depth\t%d\n", st.QueueDepth)

	if c.count {
		n, err := countKeys(db)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "keys\t%d\n", n)
	}
	return w.Flush()
}

func countKeys(db *kvdb.DB) (int64, error) {
	it, err := db.NewIterator(kvdb.IteratorOptions{Limit: kvdb.NoLimit})
	if err != nil {
		return 0, err
	}
	defer it.Close()

	for {
		_, _, ok, err := it.Advance()
		if err != nil {
			return 0, err
		}
		if !ok {
			return it.Emitted(), nil
		}
	}
}
