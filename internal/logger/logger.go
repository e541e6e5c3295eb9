// Package logger собирает zap-логгер сервиса.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Ротация файла журнала.
const (
	maxSizeMB  = 64
	maxBackups = 7
	maxAgeDays = 30
)

// New создаёт логгер для режима mode (production или development).
// Если задан file, записи дублируются в файл с ротацией в формате JSON.
func New(mode, file string) (*zap.Logger, error) {
	if file == "" {
		var cfg zap.Config
		if mode == "development" {
			cfg = zap.NewDevelopmentConfig()
		} else {
			cfg = zap.NewProductionConfig()
		}
		logger, err := cfg.Build()
		if err != nil {
			return nil, fmt.Errorf("build logger: %w", err)
		}
		return logger, nil
	}

	level := zapcore.InfoLevel
	console := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	if mode == "development" {
		level = zapcore.DebugLevel
		console = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}

	rotated := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(rotated), level),
		zapcore.NewCore(console, zapcore.AddSync(os.Stdout), level),
	)
	return zap.New(core, zap.AddCaller()), nil
}
