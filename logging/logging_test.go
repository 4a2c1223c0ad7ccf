package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestFormatter(t *testing.T) {
	entry := &log.Entry{
		Time:    time.Date(2022, 3, 23, 12, 16, 42, 0, time.UTC),
		Level:   log.WarnLevel,
		Message: "Disk is slow",
		Data:    log.Fields{"shard": 3, "bytes": "1.2 kB"},
	}
	out, err := (&Formatter{}).Format(entry)
	require.Nil(t, err)
	require.Equal(t, "2022-03-23 12:16:42 WARN Disk is slow bytes=1.2 kB shard=3\n", string(out))
}

func TestConfigure(t *testing.T) {
	defer log.SetOutput(os.Stderr)
	var buf bytes.Buffer
	closer, err := Configure(Options{Level: "debug", Output: &buf})
	require.Nil(t, err)
	defer closer.Close()
	log.Debug("hello")
	require.Contains(t, buf.String(), "DEBUG logging_test.go:")
	require.Contains(t, buf.String(), "hello")

	_, err = Configure(Options{Level: "loud"})
	require.NotNil(t, err)
}

func TestConfigureFile(t *testing.T) {
	defer log.SetOutput(os.Stderr)
	path := filepath.Join(t.TempDir(), "logs", "redact.log")
	closer, err := Configure(Options{Level: "info", File: path})
	require.Nil(t, err)
	log.Info("to the file")
	require.Nil(t, closer.Close())
	data, err := os.ReadFile(path)
	require.Nil(t, err)
	require.Contains(t, string(data), "INFO logging_test.go:")
	require.Contains(t, string(data), "to the file")
}
