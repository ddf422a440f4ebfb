package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/wooyang2018/corekv/kvdb"
)

// ShellCommand shell cmd
type ShellCommand struct {
	BaseCmd
	cli *Cli
}

func NewShellCommand(cli *Cli) *cobra.Command {
	c := &ShellCommand{cli: cli}
	c.Cmd = &cobra.Command{
		Use:   "shell",
		Short: "Open the database once and run commands interactively.",
		Long:  "Open the database once and run get, put, delete, scan, load and stat against it until exit.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := cli.openDB(cmd)
			if err != nil {
				return err
			}
			defer cli.closeDB(db) //nolint:errcheck
			return c.loop(db, cmd.OutOrStdout())
		},
	}
	return c.Cmd
}

func (c *ShellCommand) loop(db *kvdb.DB, out io.Writer) error {
	prompt := promptui.Prompt{
		Label: "kvctl",
		Validate: func(input string) error {
			if len(input) > 64<<10 {
				return errors.New("command line too long")
			}
			return nil
		},
	}

	for {
		line, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if quit := c.runLine(db, line, out); quit {
			return nil
		}
	}
}

// runLine executes one shell line and reports whether the shell should exit.
func (c *ShellCommand) runLine(db *kvdb.DB, line string, out io.Writer) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "exit", "quit":
		return true
	case "shell":
		fmt.Fprintln(out, "already in shell")
		return false
	}

	// 每行命令使用新的命令树，避免flag取值在多次执行之间残留
	session := &Cli{RootOptions: c.cli.RootOptions, db: db, dbConf: c.cli.dbConf}
	session.rootCmd = session.newRootCmd()
	for _, fn := range Commands {
		sub := fn(session)
		if sub.Name() != "shell" {
			session.rootCmd.AddCommand(sub)
		}
	}
	if err := session.Run(args, out); err != nil {
		fmt.Fprintln(out, "error:", err)
	}
	return false
}
