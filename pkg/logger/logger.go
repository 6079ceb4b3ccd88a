package logger

import (
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

var (
	mu  sync.RWMutex
	log = zap.NewNop().Sugar()
)

// Init builds the process-wide logger. "production" gets JSON output at info
// level, anything else gets the console encoder at debug level.
func Init(environment string) {
	var cfg zap.Config
	if environment == "production" {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewExample()
	}

	set(l.Sugar())
}

// SetForTest routes log output to t for the duration of the test.
func SetForTest(t testing.TB) {
	prev := L()
	set(zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCallerSkip(1))).Sugar())
	t.Cleanup(func() { set(prev) })
}

// L returns the current sugared logger.
func L() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func set(l *zap.SugaredLogger) {
	mu.Lock()
	log = l
	mu.Unlock()
}

func Sync() {
	_ = L().Sync()
}

func Debug(msg string, keysAndValues ...any) {
	L().Debugw(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...any) {
	L().Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	L().Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...any) {
	L().Errorw(msg, keysAndValues...)
}

func Fatal(msg string, keysAndValues ...any) {
	L().Fatalw(msg, keysAndValues...)
}
