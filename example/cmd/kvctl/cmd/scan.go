package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wooyang2018/corekv/codec"
	"github.com/wooyang2018/corekv/kvdb"
)

// ScanCommand scan cmd
type ScanCommand struct {
	BaseCmd
	cli *Cli

	gt, gte   string
	lt, lte   string
	limit     int64
	fillCache bool
	keysOnly  bool
}

func NewScanCommand(cli *Cli) *cobra.Command {
	c := &ScanCommand{cli: cli}
	c.Cmd = &cobra.Command{
		Use:     "scan",
		Short:   "Print the pairs of a key range in key order.",
		Example: "kvctl scan --gt b --lte d --limit 10",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.iteratorOptions()
			if err != nil {
				return err
			}
			return cli.withDB(cmd, func(db *kvdb.DB) error {
				// 未指定时沿用配置文件中的fillCache
				if !cmd.Flags().Changed("fill-cache") && cli.dbConf != nil {
					opts.FillCache = cli.dbConf.FillCache
				}
				return c.scan(cmd, db, opts)
			})
		},
	}
	c.addFlags()
	return c.Cmd
}

func (c *ScanCommand) addFlags() {
	c.Cmd.Flags().StringVar(&c.gt, "gt", "", "exclusive lower bound")
	c.Cmd.Flags().StringVar(&c.gte, "gte", "", "inclusive lower bound")
	c.Cmd.Flags().StringVar(&c.lt, "lt", "", "exclusive upper bound")
	c.Cmd.Flags().StringVar(&c.lte, "lte", "", "inclusive upper bound")
	c.Cmd.Flags().Int64VarP(&c.limit, "limit", "n", kvdb.NoLimit, "max pairs to print, negative for no limit")
	c.Cmd.Flags().BoolVar(&c.fillCache, "fill-cache", false, "keep scanned blocks in the block cache")
	c.Cmd.Flags().BoolVarP(&c.keysOnly, "keys", "k", false, "print keys only")
}

func (c *ScanCommand) iteratorOptions() (kvdb.IteratorOptions, error) {
	opts := kvdb.IteratorOptions{Limit: c.limit, FillCache: c.fillCache}
	switch {
	case c.gt != "" && c.gte != "":
		return opts, errors.New("--gt and --gte are exclusive")
	case c.gt != "":
		opts.Lower = codec.Exclusive([]byte(c.gt))
	case c.gte != "":
		opts.Lower = codec.Inclusive([]byte(c.gte))
	}
	switch {
	case c.lt != "" && c.lte != "":
		return opts, errors.New("--lt and --lte are exclusive")
	case c.lt != "":
		opts.Upper = codec.Exclusive([]byte(c.lt))
	case c.lte != "":
		opts.Upper = codec.Inclusive([]byte(c.lte))
	}
	return opts, nil
}

func (c *ScanCommand) scan(cmd *cobra.Command, db *kvdb.DB, opts kvdb.IteratorOptions) error {
	it, err := db.NewIterator(opts)
	if err != nil {
		return err
	}
	defer it.Close()

	out := cmd.OutOrStdout()
	for {
		buf, err := it.Next()
		if err != nil {
			return err
		}
		if buf == nil {
			return nil
		}
		key, value, err := codec.DecodePair(buf)
		if err != nil {
			return err
		}
		if c.keysOnly {
			fmt.Fprintln(out, string(key))
		} else {
			fmt.Fprintf(out, "%s\t%s\n", key, value)
		}
	}
}
