package jsonlog_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jsontk.dev/jsontk/jsonlog"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input       string
		expected    jsonlog.Level
		expectError bool
	}{
		"error level":    {input: "error", expected: jsonlog.LevelError},
		"warn level":     {input: "warn", expected: jsonlog.LevelWarn},
		"warning level":  {input: "warning", expected: jsonlog.LevelWarn},
		"info level":     {input: "info", expected: jsonlog.LevelInfo},
		"debug level":    {input: "debug", expected: jsonlog.LevelDebug},
		"case insensitive": {input: "INFO", expected: jsonlog.LevelInfo},
		"unknown level":  {input: "unknown", expected: "", expectError: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			lvl, err := jsonlog.ParseLevel(tc.input)
			if tc.expectError {
				require.Error(t, err)
				require.ErrorIs(t, err, jsonlog.ErrUnknownLogLevel)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expected, lvl)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input       string
		expected    jsonlog.Format
		expectError bool
	}{
		"json format":    {input: "json", expected: jsonlog.FormatJSON},
		"logfmt format":  {input: "logfmt", expected: jsonlog.FormatLogfmt},
		"text format":    {input: "text", expected: jsonlog.FormatText},
		"case insensitive": {input: "JSON", expected: jsonlog.FormatJSON},
		"unknown format": {input: "unknown", expected: "", expectError: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f, err := jsonlog.ParseFormat(tc.input)
			if tc.expectError {
				require.Error(t, err)
				require.ErrorIs(t, err, jsonlog.ErrUnknownLogFormat)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expected, f)
			}
		})
	}
}

func TestNewHandler(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		checkFunc func(*testing.T, []byte)
		format    jsonlog.Format
	}{
		"json handler": {
			format: jsonlog.FormatJSON,
			checkFunc: func(t *testing.T, output []byte) {
				t.Helper()

				var entry map[string]any

				require.NoError(t, json.Unmarshal(output, &entry))
				assert.Equal(t, "test message", entry["msg"])
				assert.Equal(t, "INFO", entry["level"])
			},
		},
		"logfmt handler": {
			format: jsonlog.FormatLogfmt,
			checkFunc: func(t *testing.T, output []byte) {
				t.Helper()
				assert.Contains(t, string(output), "msg=\"test message\"")
			},
		},
		"text handler": {
			format: jsonlog.FormatText,
			checkFunc: func(t *testing.T, output []byte) {
				t.Helper()
				assert.Contains(t, string(output), "test message")
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			handler := jsonlog.NewHandler(&buf, jsonlog.LevelInfo, tc.format)
			require.NotNil(t, handler)

			slog.New(handler).Info("test message")
			tc.checkFunc(t, buf.Bytes())
		})
	}
}

func TestNewHandlerFromStrings(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	handler, err := jsonlog.NewHandlerFromStrings(&buf, "info", "json")
	require.NoError(t, err)
	require.NotNil(t, handler)

	_, err = jsonlog.NewHandlerFromStrings(&buf, "bogus", "json")
	require.ErrorIs(t, err, jsonlog.ErrInvalidArgument)

	_, err = jsonlog.NewHandlerFromStrings(&buf, "info", "bogus")
	require.ErrorIs(t, err, jsonlog.ErrInvalidArgument)
}

func TestRegisterCompletions(t *testing.T) {
	t.Parallel()

	cfg := jsonlog.NewConfig()
	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())

	require.NoError(t, cfg.RegisterCompletions(cmd))

	fn, ok := cmd.GetFlagCompletionFunc("log-level")
	require.True(t, ok)

	values, directive := fn(cmd, nil, "")
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
	assert.Equal(t, jsonlog.GetAllLevelStrings(), values)
}

func TestLogLevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	handler := jsonlog.NewHandler(&buf, jsonlog.LevelError, jsonlog.FormatJSON)
	logger := slog.New(handler)

	logger.Info("should be filtered")
	assert.Empty(t, buf.String())

	logger.Error("should pass")
	assert.Contains(t, buf.String(), "should pass")
}
