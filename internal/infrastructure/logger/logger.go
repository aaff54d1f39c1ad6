// Package logger builds the zap logger and carries request-scoped loggers
// through context, gin and GORM.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config mirrors the log section of the application config.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json or console
	// Output is stdout, stderr or a file path.
	Output     string
	TimeFormat string
	Service    string
}

const defaultTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// New builds a logger from cfg; a nil cfg gives info level console output.
func New(cfg *Config) (*zap.Logger, error) {
	if cfg == nil {
		cfg = &Config{Format: "console"}
	}
	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = defaultTimeFormat
	}
	output := cfg.Output
	switch strings.ToLower(output) {
	case "", "stdout":
		output = "stdout"
	case "stderr":
		output = "stderr"
	}

	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "time"
	enc.MessageKey = "msg"
	enc.EncodeTime = zapcore.TimeEncoderOfLayout(timeFormat)
	enc.EncodeDuration = zapcore.MillisDurationEncoder
	encoding := "json"
	if cfg.Format == "console" {
		encoding = "console"
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(cfg.Level)),
		Encoding:         encoding,
		EncoderConfig:    enc,
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}
	if cfg.Service != "" {
		zc.InitialFields = map[string]any{"service": cfg.Service}
	}
	return zc.Build(zap.AddStacktrace(zapcore.ErrorLevel))
}

// ParseLevel maps a level name to zap, falling back to info.
func ParseLevel(level string) zapcore.Level {
	var l zapcore.Level
	switch s := strings.ToLower(strings.TrimSpace(level)); s {
	case "warning":
		return zapcore.WarnLevel
	default:
		if err := l.UnmarshalText([]byte(s)); err != nil || s == "" {
			return zapcore.InfoLevel
		}
	}
	return l
}
