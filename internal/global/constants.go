package global

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	Name         string = "singleton"
	Version      string = "0.1.0"
	LogLevelEnv  string = "SINGLETON_LOG_LEVEL"
	ReleaseBuild string = "singleton_release"
)

var (
	ZapLevels = []zapcore.Level{
		zap.DebugLevel,
		zap.InfoLevel,
		zap.WarnLevel,
		zap.ErrorLevel,
		zap.DPanicLevel,
		zap.PanicLevel,
		zap.FatalLevel,
	}
)
