package logger

import (
	"fmt"
	"os"
	"sync"

	"github.com/wooyang2018/corekv/common/utils"
)

// reserved field keys
const (
	FieldLogId  = "logid"
	FieldSubMod = "submod"
	FieldPid    = "pid"
	FieldCall   = "call"

	DefaultCallDepth = 4
)

// Lvl is a type for predefined log levels.
type Lvl int

const (
	LvlFatal Lvl = iota
	LvlError
	LvlWarn
	LvlInfo
	LvlDebug
)

var (
	logHandle LogDriver
	logConf   *LogConf
	once      sync.Once // 日志实例采用单例模式
	lock      sync.RWMutex
)

// LvlFromString returns the Lvl named by lvlString, LvlDebug for unknown names.
func LvlFromString(lvlString string) Lvl {
	switch lvlString {
	case "fatal":
		return LvlFatal
	case "error":
		return LvlError
	case "warn":
		return LvlWarn
	case "info":
		return LvlInfo
	}
	return LvlDebug
}

// LogDriver 底层日志库约束接口
type LogDriver interface {
	Fatal(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Debug(msg string, ctx ...interface{})
}

type Logger interface {
	GetLogId() string
	SetCommField(key string, value interface{})
	Fatal(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Debug(msg string, ctx ...interface{})
}

// LoggerImpl prefixes every record with logid, submod, call site and pid,
// followed by the fields fixed through SetCommField.
type LoggerImpl struct {
	driver    LogDriver
	logId     string
	subMod    string
	pid       int
	callDepth int
	minLvl    Lvl

	fieldLck   sync.RWMutex
	commFields []interface{}
}

// InitMLog loads cfgFile and opens the process wide log stream under logDir.
// Only the first call has any effect.
func InitMLog(cfgFile, logDir string) {
	cfg, err := LoadLogConf(cfgFile)
	if err != nil {
		panic(fmt.Sprintf("load log config fail.path:%s err:%s", cfgFile, err))
	}
	if err := InitWithConf(cfg, logDir); err != nil {
		panic(fmt.Sprintf("open log fail.dir:%s err:%s", logDir, err))
	}
}

// InitWithConf is InitMLog for an already loaded config.
func InitWithConf(cfg *LogConf, logDir string) error {
	lock.Lock()
	defer lock.Unlock()

	var err error
	once.Do(func() {
		var lg LogDriver
		lg, err = OpenMLog(cfg, logDir)
		if err != nil {
			return
		}
		logConf = cfg
		logHandle = lg
	})
	return err
}

// IsInit reports whether the process wide log stream has been opened.
func IsInit() bool {
	lock.RLock()
	defer lock.RUnlock()
	return logHandle != nil
}

// NewLogger 使用NewLogger请先调用InitMLog全局初始化
func NewLogger(logId, subMod string) (*LoggerImpl, error) {
	lock.RLock()
	defer lock.RUnlock()
	if logConf == nil || logHandle == nil {
		return nil, fmt.Errorf("log not init")
	}
	return newLogger(logHandle, logConf, logId, subMod), nil
}

// MustNewLogger returns a logger bound to the process wide stream, falling
// back to a stderr stream at warn level when InitMLog was never called.
func MustNewLogger(logId, subMod string) *LoggerImpl {
	if lg, err := NewLogger(logId, subMod); err == nil {
		return lg
	}

	conf := GetDefLogConf()
	conf.ConsoleOnly = true
	conf.Level = "warn"
	drv, err := OpenMLog(conf, "")
	if err != nil {
		panic(err)
	}
	return newLogger(drv, conf, logId, subMod)
}

func newLogger(drv LogDriver, conf *LogConf, logId, subMod string) *LoggerImpl {
	if logId == "" {
		logId = utils.GenLogId()
	}
	if subMod == "" {
		subMod = conf.Module
	}
	return &LoggerImpl{
		driver:     drv,
		logId:      logId,
		subMod:     subMod,
		pid:        os.Getpid(),
		callDepth:  DefaultCallDepth,
		minLvl:     LvlFromString(conf.Level),
		commFields: make([]interface{}, 0),
	}
}

func (t *LoggerImpl) GetLogId() string {
	return t.logId
}

func (t *LoggerImpl) SetCommField(key string, value interface{}) {
	if key == "" || value == nil {
		return
	}

	t.fieldLck.Lock()
	defer t.fieldLck.Unlock()
	t.commFields = append(t.commFields, key, value)
}

func (t *LoggerImpl) Fatal(msg string, ctx ...interface{}) {
	if t.enabled(LvlFatal) {
		t.driver.Fatal(msg, t.fmtFields(ctx...)...)
	}
}

func (t *LoggerImpl) Error(msg string, ctx ...interface{}) {
	if t.enabled(LvlError) {
		t.driver.Error(msg, t.fmtFields(ctx...)...)
	}
}

func (t *LoggerImpl) Warn(msg string, ctx ...interface{}) {
	if t.enabled(LvlWarn) {
		t.driver.Warn(msg, t.fmtFields(ctx...)...)
	}
}

func (t *LoggerImpl) Info(msg string, ctx ...interface{}) {
	if t.enabled(LvlInfo) {
		t.driver.Info(msg, t.fmtFields(ctx...)...)
	}
}

func (t *LoggerImpl) Debug(msg string, ctx ...interface{}) {
	if t.enabled(LvlDebug) {
		t.driver.Debug(msg, t.fmtFields(ctx...)...)
	}
}

func (t *LoggerImpl) enabled(lvl Lvl) bool {
	return t != nil && t.driver != nil && lvl <= t.minLvl
}

func (t *LoggerImpl) fmtFields(ctx ...interface{}) []interface{} {
	if len(ctx)%2 != 0 {
		last := ctx[len(ctx)-1]
		ctx = append(ctx[:len(ctx)-1:len(ctx)-1], "unknown", last)
	}

	fileLine, _ := utils.GetFuncCall(t.callDepth)
	// 保持logid是第一个写入，方便替换
	out := []interface{}{FieldLogId, t.logId, FieldSubMod, t.subMod, FieldCall, fileLine, FieldPid, t.pid}
	if len(ctx) > 1 && fmt.Sprint(ctx[0]) == FieldLogId {
		out[1] = ctx[1]
		ctx = ctx[2:]
	}

	t.fieldLck.RLock()
	out = append(out, t.commFields...)
	t.fieldLck.RUnlock()

	return append(out, ctx...)
}
