package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wooyang2018/corekv/example/cmd/kvctl/cmd"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cli := cmd.NewCli()
	cli.AddCommands(cmd.Commands)
	out := &bytes.Buffer{}
	err := cli.Run(args, out)
	return out.String(), err
}

func TestKVCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv")
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		_, err := run(t, "put", k, "value-"+k, "--path", path)
		require.NoError(t, err)
	}

	out, err := run(t, "get", "c", "--path", path)
	require.NoError(t, err)
	assert.Equal(t, "value-c\n", out)

	out, err = run(t, "scan", "--gt", "b", "--lte", "d", "--path", path)
	require.NoError(t, err)
	assert.Equal(t, "c\tvalue-c\nd\tvalue-d\n", out)

	out, err = run(t, "scan", "--keys", "--limit", "2", "--path", path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", out)

	_, err = run(t, "scan", "--gt", "a", "--gte", "a", "--path", path)
	assert.Error(t, err)

	_, err = run(t, "delete", "c", "--sync", "--path", path)
	require.NoError(t, err)
	_, err = run(t, "get", "c", "--path", path)
	assert.ErrorContains(t, err, "key not found")
}

func TestLoadAndStat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv")

	out, err := run(t, "load", "--count", "500", "--workers", "4", "--value-size", "64B", "--path", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "wrote 500 pairs"), out)

	out, err = run(t, "load", "--count", "300", "--workers", "3", "--batch", "16", "--prefix", "batch-", "--path", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "wrote 300 pairs"), out)

	out, err = run(t, "stat", "--count", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "block size")
	assert.Contains(t, out, "4KiB")
	assert.Regexp(t, `keys\s+800`, out)
}

func TestConfFile(t *testing.T) {
	dir := t.TempDir()
	conf := filepath.Join(dir, "db.yaml")
	path := filepath.Join(dir, "kv")
	require.NoError(t, os.WriteFile(conf, []byte("path: "+path+"\nblockSize: 16KiB\ncompression: none\n"), 0644))

	_, err := run(t, "put", "k", "v", "--conf", conf)
	require.NoError(t, err)
	out, err := run(t, "stat", "--conf", conf)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.Contains(t, out, "16KiB")

	_, err = run(t, "get", "k", "--conf", filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvConf(t *testing.T) {
	t.Setenv("COREKV_ROOT_PATH", "")
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "conf"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", "db.yaml"), []byte("path: kv\nlogDir: logs\n"), 0644))
	env := filepath.Join(root, "env.yaml")
	require.NoError(t, os.WriteFile(env, []byte("rootPath: "+root+"\n"), 0644))

	// db.yaml is taken from the env conf dir and its paths resolve against the root
	_, err := run(t, "put", "k", "v", "--env", env)
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(root, "data", "kv"))

	out, err := run(t, "get", "k", "--env", env)
	require.NoError(t, err)
	assert.Equal(t, "v\n", out)

	out, err = run(t, "stat", "--env", env)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(root, "data", "kv"))
	assert.Contains(t, out, filepath.Join(root, "logs"))

	// without a db.yaml the database lands in the env data dir
	bare := t.TempDir()
	bareEnv := filepath.Join(bare, "env.yaml")
	require.NoError(t, os.WriteFile(bareEnv, []byte("rootPath: "+bare+"\ndataDir: store\n"), 0644))
	_, err = run(t, "put", "k", "v", "--env", bareEnv)
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(bare, "store", "corekv"))

	_, err = run(t, "get", "k", "--env", filepath.Join(root, "missing.yaml"))
	assert.Error(t, err)
}
