package utils

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

var logIdSeq uint64

func init() {
	logIdSeq = uint64(rand.New(rand.NewSource(time.Now().UnixNano())).Int63())
}

// FileIsExist 判断文件或目录是否存在
func FileIsExist(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

// PathExists reports whether path exists, returning false on any stat error.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// GenLogId 生成唯一的日志id，进程内不重复
func GenLogId() string {
	seq := atomic.AddUint64(&logIdSeq, 1)
	return fmt.Sprintf("%d_%d_%d", time.Now().Unix(), os.Getpid()%10000, seq%1e12)
}

// GetFuncCall returns "file:line" and the function name of the caller
// callDepth frames up.
func GetFuncCall(callDepth int) (string, string) {
	pc, file, line, ok := runtime.Caller(callDepth)
	if !ok {
		return "???:0", "???"
	}

	funcName := "???"
	if f := runtime.FuncForPC(pc); f != nil {
		funcName = f.Name()
		if idx := strings.LastIndex(funcName, "."); idx >= 0 {
			funcName = funcName[idx+1:]
		}
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line), funcName
}

// GetCurFileDir returns the directory of the source file that calls it.
func GetCurFileDir() string {
	_, file, _, ok := runtime.Caller(1)
	if !ok {
		return ""
	}
	return filepath.Dir(file)
}

// GetCurExecDir returns the directory of the running binary.
func GetCurExecDir() string {
	file, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(file)
}

// GetCurRootDir 默认根目录为可执行文件所在目录的上级目录
func GetCurRootDir() string {
	return filepath.Dir(GetCurExecDir())
}
