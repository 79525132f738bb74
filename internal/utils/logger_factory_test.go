package utils_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/shellengine/internal/utils"
)

const testInvocationMessageConstant = "dispatching shell command"

func TestLoggerFactoryWritesEntriesToSink(testInstance *testing.T) {
	testCases := []struct {
		name           string
		logLevel       utils.LogLevel
		logFormat      utils.LogFormat
		emitEntries    func(logger *zap.Logger)
		expectEntry    bool
		verifyRendered func(testInstance *testing.T, rendered string)
	}{
		{
			name:      "structured_debug_entry_carries_fields",
			logLevel:  utils.LogLevelDebug,
			logFormat: utils.LogFormatStructured,
			emitEntries: func(logger *zap.Logger) {
				logger.Debug(testInvocationMessageConstant, zap.String("invocation_id", "abc"), zap.String("shell", "bash"))
			},
			expectEntry: true,
			verifyRendered: func(testInstance *testing.T, rendered string) {
				decodedEntry := map[string]any{}
				require.NoError(testInstance, json.Unmarshal([]byte(rendered), &decodedEntry))
				require.Equal(testInstance, "debug", decodedEntry["level"])
				require.Equal(testInstance, testInvocationMessageConstant, decodedEntry["msg"])
				require.Equal(testInstance, "abc", decodedEntry["invocation_id"])
				require.Equal(testInstance, "bash", decodedEntry["shell"])
			},
		},
		{
			name:      "warn_level_filters_info",
			logLevel:  utils.LogLevelWarn,
			logFormat: utils.LogFormatStructured,
			emitEntries: func(logger *zap.Logger) {
				logger.Info(testInvocationMessageConstant)
			},
		},
		{
			name:      "console_entry_is_human_readable",
			logLevel:  utils.LogLevelInfo,
			logFormat: utils.LogFormatConsole,
			emitEntries: func(logger *zap.Logger) {
				logger.Warn("bash -c \"sleep 30\" timed out after 200ms and was terminated (exit code -1)", zap.Int("exit_code", -1))
			},
			expectEntry: true,
			verifyRendered: func(testInstance *testing.T, rendered string) {
				require.False(testInstance, json.Valid([]byte(rendered)))
				require.Contains(testInstance, rendered, "\tWARN\t")
				require.Contains(testInstance, rendered, "timed out after 200ms")
				require.Contains(testInstance, rendered, `{"exit_code": -1}`)
				timestampField := strings.SplitN(rendered, "\t", 2)[0]
				require.Contains(testInstance, timestampField, "T")
			},
		},
		{
			name:      "error_entries_include_stacktrace",
			logLevel:  utils.LogLevelError,
			logFormat: utils.LogFormatStructured,
			emitEntries: func(logger *zap.Logger) {
				logger.Error("unable to start process")
			},
			expectEntry: true,
			verifyRendered: func(testInstance *testing.T, rendered string) {
				decodedEntry := map[string]any{}
				require.NoError(testInstance, json.Unmarshal([]byte(rendered), &decodedEntry))
				require.NotEmpty(testInstance, decodedEntry["stacktrace"])
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			var sink bytes.Buffer
			logger, creationError := utils.NewLoggerFactory().CreateLoggerForWriter(testCase.logLevel, testCase.logFormat, zapcore.AddSync(&sink))
			require.NoError(testInstance, creationError)

			testCase.emitEntries(logger)
			require.NoError(testInstance, logger.Sync())

			rendered := strings.TrimSpace(sink.String())
			if !testCase.expectEntry {
				require.Empty(testInstance, rendered)
				return
			}
			require.NotEmpty(testInstance, rendered)
			testCase.verifyRendered(testInstance, rendered)
		})
	}
}

func TestLoggerFactoryRejectsUnknownSettings(testInstance *testing.T) {
	testCases := []struct {
		name      string
		logLevel  utils.LogLevel
		logFormat utils.LogFormat
	}{
		{name: "unknown_level", logLevel: utils.LogLevel("trace"), logFormat: utils.LogFormatStructured},
		{name: "unknown_format", logLevel: utils.LogLevelInfo, logFormat: utils.LogFormat("xml")},
		{name: "uppercase_level_is_not_normalized", logLevel: utils.LogLevel("INFO"), logFormat: utils.LogFormatConsole},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			var sink bytes.Buffer
			logger, creationError := utils.NewLoggerFactory().CreateLoggerForWriter(testCase.logLevel, testCase.logFormat, zapcore.AddSync(&sink))
			require.Error(testInstance, creationError)
			require.Nil(testInstance, logger)
		})
	}
}

func TestLoggerFactoryDefaultsToStandardError(testInstance *testing.T) {
	pipeReader, pipeWriter, pipeError := os.Pipe()
	require.NoError(testInstance, pipeError)

	originalStandardError := os.Stderr
	os.Stderr = pipeWriter
	logger, creationError := utils.NewLoggerFactory().CreateLoggerForWriter(utils.LogLevelInfo, utils.LogFormatStructured, nil)
	os.Stderr = originalStandardError
	require.NoError(testInstance, creationError)

	logger.Info(testInvocationMessageConstant)
	if syncError := logger.Sync(); syncError != nil {
		require.True(testInstance, errors.Is(syncError, syscall.ENOTSUP) || errors.Is(syncError, syscall.EINVAL))
	}
	require.NoError(testInstance, pipeWriter.Close())

	capturedOutput, readError := io.ReadAll(pipeReader)
	require.NoError(testInstance, readError)
	require.NoError(testInstance, pipeReader.Close())
	require.Contains(testInstance, string(capturedOutput), testInvocationMessageConstant)
	require.True(testInstance, json.Valid(bytes.TrimSpace(capturedOutput)))
}
