package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogWriter is the writer used for database logs. It mirrors the zap sinks.
var LogWriter io.Writer = os.Stdout

// Log is the application logger. It is a no-op until InitLogging runs.
var Log = zap.NewNop()

// LogFilePath returns the path to the backend log file.
func LogFilePath() string {
	if App != nil && App.Log.File != "" {
		return App.Log.File
	}
	return filepath.Join("logs", "academic-api.log")
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// InitLogging opens the log file and builds a logger writing to stdout and the file.
// The returned file is nil when the log file could not be opened.
func InitLogging(level string) (*os.File, *zap.Logger) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.ConsoleSeparator = " | "
	encoder := zapcore.NewConsoleEncoder(encoderConfig)
	zapLevel := parseLevel(level)

	stdout := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), zapLevel)

	var logFile *os.File
	core := stdout
	if err := os.MkdirAll(filepath.Dir(LogFilePath()), os.ModePerm); err == nil {
		f, err := os.OpenFile(LogFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			logFile = f
			core = zapcore.NewTee(stdout, zapcore.NewCore(encoder, zapcore.AddSync(f), zapLevel))
			LogWriter = io.MultiWriter(os.Stdout, f)
		}
	}

	Log = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	zap.ReplaceGlobals(Log)
	if logFile == nil {
		Log.Warn("log file unavailable, logging to stdout only", zap.String("path", LogFilePath()))
	}
	return logFile, Log
}
