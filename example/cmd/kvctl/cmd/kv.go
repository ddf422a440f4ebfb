package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wooyang2018/corekv/kvdb"
	"github.com/wooyang2018/corekv/storage"
)

// GetCommand get cmd
type GetCommand struct {
	BaseCmd
	cli *Cli
}

func NewGetCommand(cli *Cli) *cobra.Command {
	c := &GetCommand{cli: cli}
	c.Cmd = &cobra.Command{
		Use:     "get <key>",
		Short:   "Print the value stored under a key.",
		Example: "kvctl get user:1 --path ./data/corekv",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.withDB(cmd, func(db *kvdb.DB) error {
				value, err := db.Get([]byte(args[0]))
				if errors.Is(err, storage.ErrNotFound) {
					return fmt.Errorf("key not found:%s", args[0])
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(value))
				return nil
			})
		},
	}
	return c.Cmd
}

// PutCommand put cmd
type PutCommand struct {
	BaseCmd
	cli  *Cli
	sync bool
}

func NewPutCommand(cli *Cli) *cobra.Command {
	c := &PutCommand{cli: cli}
	c.Cmd = &cobra.Command{
		Use:   "put <key> <value>",
		Short: "Store a value under a key.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.withDB(cmd, func(db *kvdb.DB) error {
				return db.Put([]byte(args[0]), []byte(args[1]), c.sync)
			})
		},
	}
	c.Cmd.Flags().BoolVar(&c.sync, "sync", false, "wait for the engine to sync its log")
	return c.Cmd
}

// DeleteCommand delete cmd
type DeleteCommand struct {
	BaseCmd
	cli  *Cli
	sync bool
}

func NewDeleteCommand(cli *Cli) *cobra.Command {
	c := &DeleteCommand{cli: cli}
	c.Cmd = &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove a key.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.withDB(cmd, func(db *kvdb.DB) error {
				if c.sync {
					return db.DeleteSync([]byte(args[0]))
				}
				return db.Delete([]byte(args[0]))
			})
		},
	}
	c.Cmd.Flags().BoolVar(&c.sync, "sync", false, "wait for the engine to sync its log")
	return c.Cmd
}
