package config

import (
	"fmt"

	"github.com/docker/go-units"
)

const (
	DefaultEngineType = "leveldb"
	DefaultBlockSize  = "4KiB"
)

// DBConf is the on-disk configuration of one database.
type DBConf struct {
	Path       string `yaml:"path,omitempty"`
	EngineType string `yaml:"engineType,omitempty"`
	// 块大小，支持4096、4KiB、16k等写法
	BlockSize       string `yaml:"blockSize,omitempty"`
	CreateIfMissing bool   `yaml:"createIfMissing,omitempty"`
	ErrorIfExists   bool   `yaml:"errorIfExists,omitempty"`
	// 布隆过滤器每个key占用的bit数，0表示不使用
	BloomBitsPerKey int `yaml:"bloomBitsPerKey,omitempty"`
	// snappy或none
	Compression string `yaml:"compression,omitempty"`
	// 块缓存大小，为空时使用引擎默认值
	BlockCacheSize         string `yaml:"blockCacheSize,omitempty"`
	OpenFilesCacheCapacity int    `yaml:"openFilesCacheCapacity,omitempty"`
	FillCache              bool   `yaml:"fillCache,omitempty"`

	LogConf      string `yaml:"logConf,omitempty"`
	LogDir       string `yaml:"logDir,omitempty"`
	MetricSwitch bool   `yaml:"metricSwitch,omitempty"`
}

func LoadDBConf(cfgFile string) (*DBConf, error) {
	cfg := GetDefDBConf()
	if err := loadConf(cfgFile, cfg); err != nil {
		return nil, fmt.Errorf("load db config failed.err:%s", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func GetDefDBConf() *DBConf {
	return &DBConf{
		Path:            "./data/corekv",
		EngineType:      DefaultEngineType,
		BlockSize:       DefaultBlockSize,
		CreateIfMissing: true,
		ErrorIfExists:   false,
		BloomBitsPerKey: 10,
		Compression:     "snappy",
		FillCache:       true,
		LogDir:          "./logs",
	}
}

// Validate checks the size strings and the compression name.
func (t *DBConf) Validate() error {
	if _, err := t.BlockSizeBytes(); err != nil {
		return err
	}
	if _, err := t.BlockCacheBytes(); err != nil {
		return err
	}
	switch t.Compression {
	case "", "snappy", "none":
	default:
		return fmt.Errorf("unknown compression:%s", t.Compression)
	}
	if t.BloomBitsPerKey < 0 {
		return fmt.Errorf("bloomBitsPerKey must not be negative:%d", t.BloomBitsPerKey)
	}
	return nil
}

// BlockSizeBytes parses BlockSize, 0 when unset.
func (t *DBConf) BlockSizeBytes() (int, error) {
	return parseSize("blockSize", t.BlockSize)
}

// BlockCacheBytes parses BlockCacheSize, 0 when unset.
func (t *DBConf) BlockCacheBytes() (int, error) {
	return parseSize("blockCacheSize", t.BlockCacheSize)
}

func parseSize(name, s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := units.RAMInBytes(s)
	if err != nil {
		return 0, fmt.Errorf("parse %s failed.value:%s,err:%v", name, s, err)
	}
	if n < 0 || n > 1<<31-1 {
		return 0, fmt.Errorf("%s out of range:%s", name, s)
	}
	return int(n), nil
}

// HumanSize formats a byte count the way BlockSize is written.
func HumanSize(n int64) string {
	return units.BytesSize(float64(n))
}
