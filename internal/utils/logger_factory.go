package utils

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logLevelDebugStringConstant          = "debug"
	logLevelInfoStringConstant           = "info"
	logLevelWarnStringConstant           = "warn"
	logLevelErrorStringConstant          = "error"
	logFormatStructuredStringConstant    = "structured"
	logFormatConsoleStringConstant       = "console"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Exported log level constants for reuse across packages.
const (
	LogLevelDebug LogLevel = LogLevel(logLevelDebugStringConstant)
	LogLevelInfo  LogLevel = LogLevel(logLevelInfoStringConstant)
	LogLevelWarn  LogLevel = LogLevel(logLevelWarnStringConstant)
	LogLevelError LogLevel = LogLevel(logLevelErrorStringConstant)
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Exported log format constants for reuse across packages.
const (
	LogFormatStructured LogFormat = LogFormat(logFormatStructuredStringConstant)
	LogFormatConsole    LogFormat = LogFormat(logFormatConsoleStringConstant)
)

// LoggerFactory builds zap.Logger instances with consistent configuration.
type LoggerFactory struct{}

type loggerSettings struct {
	level   zapcore.Level
	format  LogFormat
	encoder zapcore.EncoderConfig
}

var logLevelMapping = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

// NewLoggerFactory constructs a new logger factory.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{}
}

// CreateLogger produces a logger writing to standard error, which keeps standard output reserved
// for forwarded command output.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	return factory.CreateLoggerForWriter(requestedLogLevel, requestedLogFormat, os.Stderr)
}

// CreateLoggerForWriter produces a logger writing to sink. A nil sink falls back to standard error.
func (factory *LoggerFactory) CreateLoggerForWriter(requestedLogLevel LogLevel, requestedLogFormat LogFormat, sink zapcore.WriteSyncer) (*zap.Logger, error) {
	settings, resolveError := resolveLoggerSettings(requestedLogLevel, requestedLogFormat)
	if resolveError != nil {
		return nil, resolveError
	}
	if sink == nil {
		sink = os.Stderr
	}

	lockedSink := zapcore.Lock(sink)
	core := zapcore.NewCore(settings.newEncoder(), lockedSink, zap.NewAtomicLevelAt(settings.level))
	return zap.New(core, zap.ErrorOutput(lockedSink), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

func (settings loggerSettings) newEncoder() zapcore.Encoder {
	if settings.format == LogFormatConsole {
		return zapcore.NewConsoleEncoder(settings.encoder)
	}
	return zapcore.NewJSONEncoder(settings.encoder)
}

func resolveLoggerSettings(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (loggerSettings, error) {
	zapLogLevel, levelExists := logLevelMapping[requestedLogLevel]
	if !levelExists {
		return loggerSettings{}, fmt.Errorf(unsupportedLogLevelTemplateConstant, requestedLogLevel)
	}

	encoderConfiguration := zap.NewProductionEncoderConfig()
	switch requestedLogFormat {
	case LogFormatStructured:
	case LogFormatConsole:
		encoderConfiguration.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderConfiguration.EncodeLevel = zapcore.CapitalLevelEncoder
	default:
		return loggerSettings{}, fmt.Errorf(unsupportedLogFormatTemplateConstant, requestedLogFormat)
	}

	return loggerSettings{level: zapLogLevel, format: requestedLogFormat, encoder: encoderConfiguration}, nil
}
