// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEnv implements EnvReader over a plain map.
type stubEnv map[string]string

func (s stubEnv) Getenv(key string) string { return s[key] }

// TestUnstructuredLogsCheck tests the unstructuredLogs function
func TestUnstructuredLogsCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		envValue string
		expected bool
	}{
		{"Default Case", "", true},
		{"Explicitly True", "true", true},
		{"Explicitly False", "false", false},
		{"Numeric False", "0", false},
		{"Invalid Value", "not-a-bool", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := stubEnv{"UNSTRUCTURED_LOGS": tt.envValue}
			assert.Equal(t, tt.expected, unstructuredLogsWithEnv(env))
		})
	}
}

// setSingletonForTest temporarily replaces the singleton logger and restores
// the original when the test completes.
func setSingletonForTest(t *testing.T, l *slog.Logger) {
	t.Helper()
	prev := singleton.Load()
	singleton.Store(l)
	t.Cleanup(func() { singleton.Store(prev) })
}

// TestLogLevels tests that each log function writes to the underlying handler.
func TestLogLevels(t *testing.T) { //nolint:paralleltest // mutates singleton
	tests := []struct {
		name     string
		logFn    func()
		contains string
	}{
		{"Debug", func() { Debug("debug msg") }, "debug msg"},
		{"Debugf", func() { Debugf("debug %s", "formatted") }, "debug formatted"},
		{"Debugw", func() { Debugw("debug kv", "key", "val") }, "debug kv"},
		{"Info", func() { Info("info msg") }, "info msg"},
		{"Infof", func() { Infof("info %s", "formatted") }, "info formatted"},
		{"Infow", func() { Infow("info kv", "key", "val") }, "info kv"},
		{"Warn", func() { Warn("warn msg") }, "warn msg"},
		{"Warnf", func() { Warnf("warn %s", "formatted") }, "warn formatted"},
		{"Warnw", func() { Warnw("warn kv", "key", "val") }, "warn kv"},
		{"Error", func() { Error("error msg") }, "error msg"},
		{"Errorf", func() { Errorf("error %s", "formatted") }, "error formatted"},
		{"Errorw", func() { Errorw("error kv", "key", "val") }, "error kv"},
	}

	for _, tc := range tests { //nolint:paralleltest // mutates singleton
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			setSingletonForTest(t, newLogger(&buf, true, slog.LevelDebug))

			tc.logFn()

			assert.Contains(t, buf.String(), tc.contains)
		})
	}
}

// TestStructuredOutput verifies the JSON handler emits parseable records
// with key-value attributes attached.
func TestStructuredOutput(t *testing.T) { //nolint:paralleltest // mutates singleton
	var buf bytes.Buffer
	setSingletonForTest(t, newLogger(&buf, false, slog.LevelInfo))

	Infow("provider loaded", "realm", "acme", "provider_id", "rsa-main")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "provider loaded", record["msg"])
	assert.Equal(t, "acme", record["realm"])
	assert.Equal(t, "rsa-main", record["provider_id"])
}

// TestGet verifies that Get returns the current singleton logger.
func TestGet(t *testing.T) { //nolint:paralleltest // mutates singleton
	var buf bytes.Buffer
	l := newLogger(&buf, true, slog.LevelInfo)
	setSingletonForTest(t, l)

	got := Get()
	require.NotNil(t, got)
	assert.Same(t, l, got)

	got.Info("get test")
	assert.Contains(t, buf.String(), "get test")
}

// TestInitializeWithEnv tests Initialize with different configurations.
func TestInitializeWithEnv(t *testing.T) { //nolint:paralleltest // mutates singleton and viper
	prev := singleton.Load()
	t.Cleanup(func() {
		singleton.Store(prev)
		viper.Set("debug", false)
	})

	viper.Set("debug", false)
	InitializeWithEnv(stubEnv{})
	require.NotNil(t, Get())
	assert.False(t, Get().Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, Get().Enabled(context.Background(), slog.LevelInfo))

	viper.Set("debug", true)
	InitializeWithEnv(stubEnv{})
	assert.True(t, Get().Enabled(context.Background(), slog.LevelDebug))
}
