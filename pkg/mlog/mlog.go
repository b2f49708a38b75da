package mlog

import (
	"fmt"
	"log/slog"
	"os"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var (
	levelVar = new(slog.LevelVar)
	logger   = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: levelVar}))
)

func SetLevel(level Level) {
	switch level {
	case DEBUG:
		levelVar.Set(slog.LevelDebug)
	case INFO:
		levelVar.Set(slog.LevelInfo)
	case WARN:
		levelVar.Set(slog.LevelWarn)
	default:
		levelVar.Set(slog.LevelError)
	}
}

func IsDebug() bool {
	return levelVar.Level() <= slog.LevelDebug
}

func D(format string, args ...any) {
	logger.Debug(fmt.Sprintf(format, args...))
}

func I(format string, args ...any) {
	logger.Info(fmt.Sprintf(format, args...))
}

func W(format string, args ...any) {
	logger.Warn(fmt.Sprintf(format, args...))
}

func E(format string, args ...any) {
	logger.Error(fmt.Sprintf(format, args...))
}
