// MIT License
//
// Copyright (c) 2022-2026 ActorPool Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZapLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZap(DebugLevel, &buf)

	logger.Debug("dbg message")
	logger.Infof("count=%d", 42)
	logger.Warn("careful")
	logger.Error("broken")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 4)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "count=42", entry["msg"])

	assert.Equal(t, DebugLevel, logger.LogLevel())
}

func TestZapLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZap(ErrorLevel, &buf)

	logger.Debug("dropped")
	logger.Info("dropped")
	logger.Error("kept")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	assert.Contains(t, string(lines[0]), "kept")
}

func TestZapWith(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZap(InfoLevel, &buf)

	child := logger.With("actor", "counter-1")
	child.Info("spawned")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "counter-1", entry["actor"])
}

func TestDiscardLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		DiscardLogger.Info("nothing")
		DiscardLogger.Errorf("nothing %d", 1)
	})
	assert.NoError(t, DiscardLogger.Flush())
	assert.Equal(t, DiscardLogger, DiscardLogger.With("k", "v"))
}
