package storage

import (
	"fmt"
	"sort"
	"sync"
)

// NewEngineFunc 创建并打开引擎实例的方法
type NewEngineFunc func(opts *Options) (Engine, error)

var (
	engineMu sync.RWMutex
	engines  = make(map[string]NewEngineFunc)
)

// Register makes an engine available by name. Drivers call it from init.
func Register(name string, f NewEngineFunc) {
	engineMu.Lock()
	defer engineMu.Unlock()

	if f == nil {
		panic("storage: Register new func is nil")
	}
	if _, dup := engines[name]; dup {
		panic("storage: Register called twice for engine " + name)
	}
	engines[name] = f
}

func Engines() []string {
	engineMu.RLock()
	defer engineMu.RUnlock()
	list := make([]string, 0, len(engines))
	for name := range engines {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}

// OpenEngine 采用工厂模式，按引擎类型名创建并打开引擎
func OpenEngine(name string, opts *Options) (Engine, error) {
	if opts == nil || opts.Path == "" {
		return nil, fmt.Errorf("%w: open engine without path", ErrInvalidArgument)
	}

	engineMu.RLock()
	f, ok := engines[name]
	engineMu.RUnlock()
	if !ok {
		return nil, Wrap(ErrInvalidArgument, fmt.Errorf("%w: %q (forgotten import?)", ErrUnknownEngine, name))
	}
	return f(opts)
}
