package config

import (
	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the zap logger described by the configuration. A nil
// configuration yields a console logger at info level.
func NewLogger(cfg *LoggerConfig) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if cfg != nil && cfg.LogLevel != "" {
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return nil, err
		}
	}

	if cfg != nil && cfg.OutputType == "file" {
		return setupFileLogger(level, cfg)
	}
	return setupConsoleLogger(level)
}

// setupFileLogger configures zap for file output with lumberjack handling
// the rotation.
func setupFileLogger(level zap.AtomicLevel, cfg *LoggerConfig) (*zap.Logger, error) {
	filename := cfg.Filename
	if filename == "" {
		filename = "/var/log/casskit/output.log"
	}
	maxAge := cfg.MaxAge
	if maxAge == 0 {
		maxAge = 3 // days
	}
	maxBackups := cfg.MaxBackups
	if maxBackups == 0 {
		maxBackups = 10
	}
	rotationalLogger := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    cfg.MaxSize, // megabytes, default 100MB
		MaxAge:     maxAge,
		MaxBackups: maxBackups,
		Compress:   cfg.Compress,
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(rotationalLogger),
		level,
	)
	return zap.New(core), nil
}

func setupConsoleLogger(level zap.AtomicLevel) (*zap.Logger, error) {
	config := zap.Config{
		Encoding:         "json",
		Level:            level,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "time",
			CallerKey:      "caller",
			LevelKey:       "level",
			NameKey:        "logger",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
	}
	return config.Build()
}
