package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xconf "github.com/wooyang2018/corekv/common/config"
	"github.com/wooyang2018/corekv/kvdb"
)

func TestShellRunLine(t *testing.T) {
	db, err := kvdb.OpenContext(context.Background(), &kvdb.Options{
		Path:            filepath.Join(t.TempDir(), "kv"),
		CreateIfMissing: true,
	})
	require.NoError(t, err)
	defer db.CloseContext(context.Background()) //nolint:errcheck

	cli := NewCli()
	shell := &ShellCommand{cli: cli}
	out := &bytes.Buffer{}

	assert.False(t, shell.runLine(db, "put user:1 alice", out))
	assert.False(t, shell.runLine(db, "put user:2 bob", out))
	assert.False(t, shell.runLine(db, "   ", out))
	assert.False(t, shell.runLine(db, "get user:2", out))
	assert.Equal(t, "bob\n", out.String())

	out.Reset()
	assert.False(t, shell.runLine(db, "scan --gte user: --keys", out))
	assert.Equal(t, "user:1\nuser:2\n", out.String())

	out.Reset()
	assert.False(t, shell.runLine(db, "get user:3", out))
	assert.Contains(t, out.String(), "error: key not found")

	out.Reset()
	assert.False(t, shell.runLine(db, "shell", out))
	assert.Contains(t, out.String(), "already in shell")

	// the shell database stays open between lines
	assert.False(t, db.Stats().Closed)
	assert.True(t, shell.runLine(db, "exit", out))
}

func TestDBOptions(t *testing.T) {
	cli := NewCli()
	cli.RootOptions.Conf = filepath.Join(t.TempDir(), "absent.yaml")
	cli.RootOptions.Path = "/tmp/override"
	conf, err := cli.loadDBConf(NewStatCommand(cli))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override", conf.Path)

	conf.BloomBitsPerKey = 0
	conf.BlockCacheSize = "1MiB"
	opts, err := dbOptions(conf)
	require.NoError(t, err)
	assert.Equal(t, -1, opts.BloomBitsPerKey)
	assert.Equal(t, 4096, opts.BlockSize)
	assert.Equal(t, 1<<20, opts.BlockCacheCapacity)
}

func TestResolveEnvPaths(t *testing.T) {
	env := xconf.GetDefEnvConf()
	env.RootPath = "/srv/corekv"
	env.MetricSwitch = true

	conf := xconf.GetDefDBConf()
	conf.Path = "kv"
	resolveEnvPaths(conf, env)
	assert.Equal(t, "/srv/corekv/data/kv", conf.Path)
	assert.Equal(t, "/srv/corekv/logs", conf.LogDir)
	assert.Equal(t, "/srv/corekv/conf/log.yaml", conf.LogConf)
	assert.True(t, conf.MetricSwitch)

	conf = xconf.GetDefDBConf()
	conf.Path = "/var/lib/kv"
	conf.LogConf = "etc/log.yaml"
	resolveEnvPaths(conf, env)
	assert.Equal(t, "/var/lib/kv", conf.Path)
	assert.Equal(t, "/srv/corekv/etc/log.yaml", conf.LogConf)
}
