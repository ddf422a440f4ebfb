package logger

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/xuperchain/log15"
)

// mlogDriver adapts a log15 logger to LogDriver.
type mlogDriver struct {
	log.Logger
}

func (d *mlogDriver) Fatal(msg string, ctx ...interface{}) {
	d.Logger.Crit(msg, ctx...)
}

func newFormat(fmtName string) log.Format {
	if fmtName == "json" {
		return log.JsonFormat()
	}
	return log.LogfmtFormat()
}

// OpenMLog create and open log stream using LogConf
func OpenMLog(lc *LogConf, logDir string) (LogDriver, error) {
	lfmt := newFormat(lc.Fmt)
	xlog := log.New("module", lc.Module)
	lvLevel, err := log.LvlFromString(lc.Level)
	if err != nil {
		return nil, fmt.Errorf("log level error.err:%v", err)
	}
	// set lowest level as level limit, this may improve performance
	xlog.SetLevelLimit(lvLevel)

	if lc.ConsoleOnly {
		xlog.SetHandler(log.LvlFilterHandler(lvLevel, log.StreamHandler(os.Stderr, lfmt)))
		return &mlogDriver{xlog}, nil
	}

	infoFile := filepath.Join(logDir, lc.Filename+".log")
	wfFile := filepath.Join(logDir, lc.Filename+".log.wf")
	if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create log dir failed.dir:%s,err:%v", logDir, err)
	}

	// init normal and warn/fault log file handler, RotateFileHandler
	// only valid if `RotateInterval` and `RotateBackups` greater than 0
	var nmHandler, wfHandler log.Handler
	switch {
	case lc.RotateInterval > 0 && lc.RotateBackups > 0:
		nmHandler = log.Must.RotateFileHandler(
			infoFile, lfmt, lc.RotateInterval, lc.RotateBackups)
		wfHandler = log.Must.RotateFileHandler(
			wfFile, lfmt, lc.RotateInterval, lc.RotateBackups)
	case lc.Async:
		nmHandler = mustBufferFileHandler(infoFile, lfmt)
		wfHandler = mustBufferFileHandler(wfFile, lfmt)
	default:
		nmHandler = log.Must.FileHandler(infoFile, lfmt)
		wfHandler = log.Must.FileHandler(wfFile, lfmt)
	}

	if lc.Async {
		nmHandler = log.BufferedHandler(lc.BufSize, nmHandler)
		wfHandler = log.BufferedHandler(lc.BufSize, wfHandler)
	}

	// prints log level between `lvLevel` to Info to base log
	nmfileh := log.LvlFilterHandler(lvLevel, nmHandler)
	// prints log level greater or equal to Warn to wf log
	wffileh := log.LvlFilterHandler(log.LvlWarn, wfHandler)

	var lhd log.Handler
	if lc.Console {
		hstd := log.StreamHandler(os.Stderr, lfmt)
		lhd = log.MultiHandler(hstd, nmfileh, wffileh)
	} else {
		lhd = log.MultiHandler(nmfileh, wffileh)
	}
	xlog.SetHandler(log.SyncHandler(lhd))

	return &mlogDriver{xlog}, nil
}
