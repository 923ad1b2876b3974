package global

import (
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	once   sync.Once
	logger atomic.Pointer[zap.Logger]
)

// Logger returns the process-wide logger. Until SetLogger is called it is
// built from the environment: a development logger at the level named by
// SINGLETON_LOG_LEVEL, or a no-op logger when that is unset or invalid.
func Logger() *zap.Logger {
	once.Do(func() {
		if logger.Load() == nil {
			logger.CompareAndSwap(nil, loggerFromEnv())
		}
	})
	return logger.Load()
}

// SetLogger replaces the process-wide logger. A nil logger silences logging.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l.Named(Name))
}

func loggerFromEnv() *zap.Logger {
	text, ok := os.LookupEnv(LogLevelEnv)
	if !ok {
		return zap.NewNop()
	}
	level, ok := ParseLevel(text)
	if !ok {
		return zap.NewNop()
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l.Named(Name)
}

// ParseLevel maps a level name onto one of ZapLevels.
func ParseLevel(text string) (zapcore.Level, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		// zapcore reads empty text as info
		return zapcore.InvalidLevel, false
	}
	level, err := zapcore.ParseLevel(text)
	if err != nil {
		return zapcore.InvalidLevel, false
	}
	for _, l := range ZapLevels {
		if l == level {
			return level, true
		}
	}
	return zapcore.InvalidLevel, false
}
