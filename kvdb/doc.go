// Package kvdb is an access layer over an ordered key-value engine.
//
// Open and Close are asynchronous: they queue a command for the database's
// worker goroutine and return a channel that receives the status. Get, Put,
// Delete and range iterators run on the caller's goroutine.
//
// Engines are looked up by name in the storage registry, so a program must
// import the driver it opens, usually for its side effects only:
//
//	import (
//		"github.com/wooyang2018/corekv/kvdb"
//		_ "github.com/wooyang2018/corekv/storage/leveldb"
//	)
//
// Without the import even the default engine type fails to open with
// storage.ErrUnknownEngine.
package kvdb
