package main

import (
	"github.com/wooyang2018/corekv/example/cmd/kvctl/cmd"
)

var (
	Version   = ""
	BuildTime = ""
	CommitID  = ""
)

func main() {
	cli := cmd.NewCli()
	cli.SetVer(Version, BuildTime, CommitID)
	cli.AddCommands(cmd.Commands)
	cli.Execute()
}
