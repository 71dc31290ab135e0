// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package logging_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/erptab/erptab/internal/logging"
)

func TestParseLevel(t *testing.T) {
	uu := map[string]struct {
		in   string
		want zapcore.Level
		err  bool
	}{
		"empty": {want: zapcore.InfoLevel},
		"debug": {in: "debug", want: zapcore.DebugLevel},
		"warn":  {in: "WARN", want: zapcore.WarnLevel},
		"bad":   {in: "loud", want: zapcore.InfoLevel, err: true},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			l, err := logging.ParseLevel(u.in)
			assert.Equal(t, u.err, err != nil)
			assert.Equal(t, u.want, l)
		})
	}
}

func TestNewFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "erptab.log")
	log, err := logging.New(logging.Options{Level: "warn", File: path})
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("fetch failed", zap.String("table", "items"))
	require.NoError(t, log.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "fetch failed", entry["msg"])
	assert.Equal(t, "items", entry["table"])
}

func TestNewNop(t *testing.T) {
	log, err := logging.New(logging.Options{})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.ErrorLevel))

	_, err = logging.New(logging.Options{Level: "nope", Stderr: true})
	assert.Error(t, err)
}

func TestInstall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "erptab.log")
	log, restore, err := logging.Install(logging.Options{File: path})
	require.NoError(t, err)
	assert.Same(t, log, zap.L())
	restore()
	assert.NotSame(t, log, zap.L())
}
