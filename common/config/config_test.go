package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConf(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestLoadDBConf(t *testing.T) {
	p := writeConf(t, "db.yaml", `
path: /var/lib/corekv
blockSize: 16KiB
blockCacheSize: 8MiB
bloomBitsPerKey: 12
compression: none
errorIfExists: true
`)
	conf, err := LoadDBConf(p)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/corekv", conf.Path)
	assert.Equal(t, DefaultEngineType, conf.EngineType)
	assert.True(t, conf.CreateIfMissing)
	assert.True(t, conf.ErrorIfExists)
	assert.Equal(t, 12, conf.BloomBitsPerKey)
	assert.Equal(t, "none", conf.Compression)

	bs, err := conf.BlockSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, 16*1024, bs)
	cs, err := conf.BlockCacheBytes()
	require.NoError(t, err)
	assert.Equal(t, 8*1024*1024, cs)
}

func TestLoadDBConfInvalid(t *testing.T) {
	cases := map[string]string{
		"block_size":  "blockSize: lots\n",
		"compression": "compression: zstd\n",
		"bloom":       "bloomBitsPerKey: -1\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadDBConf(writeConf(t, "db.yaml", content))
			assert.Error(t, err)
		})
	}

	_, err := LoadDBConf(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}

func TestDefDBConf(t *testing.T) {
	conf := GetDefDBConf()
	require.NoError(t, conf.Validate())
	bs, err := conf.BlockSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, 4096, bs)
	assert.Equal(t, "4KiB", HumanSize(int64(bs)))
}

func TestLoadEnvConf(t *testing.T) {
	root := t.TempDir()
	p := writeConf(t, "env.yaml", "rootPath: "+root+"\nmetricSwitch: true\n")

	conf, err := LoadEnvConf(p)
	require.NoError(t, err)
	assert.True(t, conf.MetricSwitch)
	assert.Equal(t, filepath.Join(root, "conf", "db.yaml"), conf.GenConfFilePath(conf.DBConf))
	assert.Equal(t, filepath.Join(root, "data", "kv"), conf.GenDataAbsPath("kv"))
	assert.Equal(t, "/abs", conf.GenDataAbsPath("/abs"))

	t.Setenv("COREKV_ROOT_PATH", t.TempDir())
	conf, err = LoadEnvConf(p)
	require.NoError(t, err)
	assert.NotEqual(t, root, conf.RootPath)
}
