package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configure logging for a run
type Options struct {
	Level  string    // one of trace, debug, info, warn, error, fatal. Defaults to info.
	File   string    // if set, logs are written to this file and rotated
	Output io.Writer // where logs go when File is unset. Defaults to stderr.
}

var levelList = []string{
	"PANIC",
	"FATAL",
	"ERROR",
	"WARN",
	"INFO",
	"DEBUG",
	"TRACE",
}

// Formatter writes single-line log entries
//
//	2022-03-23 12:16:42 INFO pipeline.go:27 Read 12 rows
type Formatter struct{}

// Format renders a log entry
func (f *Formatter) Format(entry *log.Entry) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", entry.Time.Format("2006-01-02 15:04:05"), levelList[int(entry.Level)])
	if entry.HasCaller() {
		fmt.Fprintf(&b, " %s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}
	fmt.Fprintf(&b, " %s", entry.Message)
	for _, key := range sortedKeys(entry.Data) {
		fmt.Fprintf(&b, " %s=%v", key, entry.Data[key])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// Configure sets up the standard logger. The returned Closer releases the log file, if any.
func Configure(opts Options) (io.Closer, error) {
	level := log.InfoLevel
	if len(opts.Level) > 0 {
		var err error
		level, err = log.ParseLevel(opts.Level)
		if err != nil {
			return nil, err
		}
	}
	var closer io.Closer = io.NopCloser(nil)
	switch {
	case len(opts.File) > 0:
		// lumberjack creates missing directories and the file itself
		logRotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    200, // megabytes
			MaxBackups: 10,
		}
		log.SetOutput(logRotator)
		closer = logRotator
	case opts.Output != nil:
		log.SetOutput(opts.Output)
	default:
		log.SetOutput(os.Stderr)
	}
	log.SetLevel(level)
	log.SetReportCaller(true)
	log.SetFormatter(&Formatter{})
	return closer, nil
}
