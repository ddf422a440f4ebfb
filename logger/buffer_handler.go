package logger

import (
	"bufio"
	"os"
	"sync"
	"time"

	log "github.com/xuperchain/log15"
)

func mustBufferFileHandler(path string, fmtr log.Format) log.Handler {
	h, err := bufferFileHandler(path, fmtr)
	if err != nil {
		panic(err)
	}
	return h
}

type syncWriter struct {
	mutex sync.Mutex
	w     *bufio.Writer
}

func newSyncWriter(w *bufio.Writer) *syncWriter {
	return &syncWriter{
		w: w,
	}
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mutex.Lock()
	n, err := s.w.Write(p)
	s.mutex.Unlock()
	return n, err
}

func (s *syncWriter) Flush() {
	s.mutex.Lock()
	s.w.Flush()
	s.mutex.Unlock()
}

// bufferFileHandler 写入带缓冲的文件，每秒刷盘一次
func bufferFileHandler(path string, fmtr log.Format) (log.Handler, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	w := newSyncWriter(bufio.NewWriter(f))

	go func() {
		ticker := time.NewTicker(time.Second)
		for range ticker.C {
			w.Flush()
		}
	}()

	h := log.FuncHandler(func(r *log.Record) error {
		_, err := w.Write(fmtr.Format(r))
		return err
	})
	return h, nil
}
