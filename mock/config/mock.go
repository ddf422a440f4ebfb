package config

import (
	"math"
	"math/rand"
	"path/filepath"
	"strconv"

	xconf "github.com/wooyang2018/corekv/common/config"
	"github.com/wooyang2018/corekv/common/utils"
	"github.com/wooyang2018/corekv/logger"
)

var dir = utils.GetCurFileDir()

func GetMockEnvConf(paths ...string) (*xconf.EnvConf, error) {
	path := "conf/env.yaml"
	if len(paths) > 0 {
		path = paths[0]
	}

	econf, err := xconf.LoadEnvConf(filepath.Join(dir, path))
	if err != nil {
		return nil, err
	}
	// 测试数据统一放到mock目录下
	econf.RootPath = dir
	return econf, nil
}

// GetMockDBConf loads conf/db.yaml and points it at a fresh temp directory.
func GetMockDBConf() (*xconf.DBConf, error) {
	conf, err := xconf.LoadDBConf(GetDBConfFilePath())
	if err != nil {
		return nil, err
	}
	conf.Path = GetAbsTempDirPath()
	conf.LogConf = GetLogConfFilePath()
	conf.LogDir = filepath.Join(dir, "data/logs")
	return conf, nil
}

func GetLogConfFilePath() string {
	return filepath.Join(dir, "conf/log.yaml")
}

func GetDBConfFilePath() string {
	return filepath.Join(dir, "conf/db.yaml")
}

func GetTempDirPath() string {
	return filepath.Join("temp", strconv.Itoa(rand.Intn(math.MaxInt32)))
}

func GetAbsTempDirPath() string {
	return filepath.Join(dir, "data", GetTempDirPath())
}

func InitFakeLogger() {
	logger.InitMLog(GetLogConfFilePath(), filepath.Join(dir, "data/logs"))
}
