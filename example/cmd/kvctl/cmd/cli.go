package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	xconf "github.com/wooyang2018/corekv/common/config"
	"github.com/wooyang2018/corekv/common/metrics"
	"github.com/wooyang2018/corekv/common/utils"
	"github.com/wooyang2018/corekv/kvdb"
	"github.com/wooyang2018/corekv/logger"

	// import存储引擎驱动
	_ "github.com/wooyang2018/corekv/storage/leveldb"
)

// CommandFunc 代表了一个子命令，用于往Cli注册子命令
type CommandFunc func(c *Cli) *cobra.Command

// Commands 收集所有的子命令，在启动的时候统一往Cli注册
var Commands []CommandFunc

func init() {
	Commands = []CommandFunc{
		NewGetCommand,
		NewPutCommand,
		NewDeleteCommand,
		NewScanCommand,
		NewLoadCommand,
		NewStatCommand,
		NewShellCommand,
	}
}

// BaseCmd wraps one cobra command.
type BaseCmd struct {
	Cmd *cobra.Command
}

// RootOptions 代表全局通用的flag
type RootOptions struct {
	Env     string
	Conf    string
	Path    string
	Timeout time.Duration
}

// Cli 是所有子命令执行的上下文
type Cli struct {
	RootOptions RootOptions

	rootCmd *cobra.Command
	// shell会话期间复用同一个数据库实例
	db     *kvdb.DB
	dbConf *xconf.DBConf
}

func NewCli() *Cli {
	c := &Cli{}
	c.rootCmd = c.newRootCmd()
	return c
}

func (c *Cli) newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "kvctl",
		Short:         "Command line access to a corekv database.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootFlag := rootCmd.PersistentFlags()
	rootFlag.StringVarP(&c.RootOptions.Env, "env", "e", "", "env config file, relative paths of the database config resolve against its root")
	rootFlag.StringVarP(&c.RootOptions.Conf, "conf", "c", "./conf/db.yaml", "database config file")
	rootFlag.StringVarP(&c.RootOptions.Path, "path", "p", "", "database directory, overrides the config file")
	rootFlag.DurationVar(&c.RootOptions.Timeout, "timeout", 30*time.Second, "wait limit for open and close")
	return rootCmd
}

func (c *Cli) SetVer(version, buildTime, commitID string) {
	c.rootCmd.Version = fmt.Sprintf("%s-%s %s", version, commitID, buildTime)
}

// AddCommands add sub commands
func (c *Cli) AddCommands(cmds []CommandFunc) {
	for _, cmd := range cmds {
		c.rootCmd.AddCommand(cmd(c))
	}
}

// Execute runs the command line and exits on error.
func (c *Cli) Execute() {
	if err := c.rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(-1)
	}
}

// Run executes args with output sent to out.
func (c *Cli) Run(args []string, out io.Writer) error {
	c.rootCmd.SetArgs(args)
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(out)
	return c.rootCmd.Execute()
}

// loadDBConf 参数优先级：1.命令行指定 2.配置文件指定 3.默认值
// 指定了env时，db配置文件取自env的confDir，相对路径基于env的根目录
func (c *Cli) loadDBConf(cmd *cobra.Command) (*xconf.DBConf, error) {
	var envConf *xconf.EnvConf
	if c.RootOptions.Env != "" {
		econf, err := xconf.LoadEnvConf(c.RootOptions.Env)
		if err != nil {
			return nil, err
		}
		envConf = econf
	}

	cfgFile := c.RootOptions.Conf
	confChanged := cmd.Flags().Changed("conf")
	if envConf != nil && !confChanged {
		cfgFile = envConf.GenConfFilePath(envConf.DBConf)
	}

	var (
		conf *xconf.DBConf
		err  error
	)
	if confChanged || utils.PathExists(cfgFile) {
		conf, err = xconf.LoadDBConf(cfgFile)
		if err != nil {
			return nil, err
		}
	} else {
		conf = xconf.GetDefDBConf()
		if envConf != nil {
			conf.Path = defaultDataDir
		}
	}
	if envConf != nil {
		resolveEnvPaths(conf, envConf)
	}
	if c.RootOptions.Path != "" {
		conf.Path = c.RootOptions.Path
	}
	return conf, nil
}

// defaultDataDir is the database directory under the env data dir when no db
// config file is found.
const defaultDataDir = "corekv"

// resolveEnvPaths makes the relative paths of conf absolute: the database
// under the data dir, the log dir under the root, and the log config under
// the conf dir when unset.
func resolveEnvPaths(conf *xconf.DBConf, env *xconf.EnvConf) {
	conf.Path = env.GenDataAbsPath(conf.Path)
	conf.LogDir = env.GenDirAbsPath(conf.LogDir)
	switch {
	case conf.LogConf == "":
		conf.LogConf = env.GenConfFilePath(env.LogConf)
	case !filepath.IsAbs(conf.LogConf):
		conf.LogConf = env.GenDirAbsPath(conf.LogConf)
	}
	conf.MetricSwitch = conf.MetricSwitch || env.MetricSwitch
}

func (c *Cli) openDB(cmd *cobra.Command) (*kvdb.DB, error) {
	conf, err := c.loadDBConf(cmd)
	if err != nil {
		return nil, err
	}
	c.dbConf = conf

	if conf.LogConf != "" && utils.PathExists(conf.LogConf) {
		logger.InitMLog(conf.LogConf, conf.LogDir)
	}
	if conf.MetricSwitch {
		metrics.RegisterMetrics()
	}

	opts, err := dbOptions(conf)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.RootOptions.Timeout)
	defer cancel()
	return kvdb.OpenContext(ctx, opts)
}

func (c *Cli) closeDB(db *kvdb.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.RootOptions.Timeout)
	defer cancel()
	return db.CloseContext(ctx)
}

// withDB runs fn against the shell's database, or opens one for the
// duration of fn.
func (c *Cli) withDB(cmd *cobra.Command, fn func(db *kvdb.DB) error) error {
	if c.db != nil {
		return fn(c.db)
	}

	db, err := c.openDB(cmd)
	if err != nil {
		return err
	}
	err = fn(db)
	if cerr := c.closeDB(db); err == nil {
		err = cerr
	}
	return err
}

func dbOptions(conf *xconf.DBConf) (*kvdb.Options, error) {
	blockSize, err := conf.BlockSizeBytes()
	if err != nil {
		return nil, err
	}
	cacheSize, err := conf.BlockCacheBytes()
	if err != nil {
		return nil, err
	}
	bloom := conf.BloomBitsPerKey
	if bloom == 0 {
		// 配置为0表示关闭布隆过滤器
		bloom = -1
	}
	return &kvdb.Options{
		Path:                   conf.Path,
		EngineType:             conf.EngineType,
		BlockSize:              blockSize,
		CreateIfMissing:        conf.CreateIfMissing,
		ErrorIfExists:          conf.ErrorIfExists,
		BloomBitsPerKey:        bloom,
		Compression:            conf.Compression,
		BlockCacheCapacity:     cacheSize,
		OpenFilesCacheCapacity: conf.OpenFilesCacheCapacity,
	}, nil
}
