package singleton

import (
	"Inskape/singleton/internal/global"

	"go.uber.org/zap"
)

// SetLogger sets the logger used to report state changes (at debug level)
// and misuse (at error level, just before the panic). A nil logger turns
// logging off, which is also the default unless SINGLETON_LOG_LEVEL is set.
func SetLogger(l *zap.Logger) {
	global.SetLogger(l)
}

// DebugChecks reports whether goroutine-affinity and borrow checks are
// compiled in. It is false when built with the singleton_release tag.
const DebugChecks = global.Debug
