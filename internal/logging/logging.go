// Package logging provides a small leveled wrapper around log/slog shared
// by the klist driver and the cache/keytab engines for debug and warning
// output. It is deliberately minimal compared to a service-grade logger:
// there is no request context propagation here, only a process-wide level
// and format switch.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Level is the minimum severity that will be emitted.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Config selects the level and output format for Init.
type Config struct {
	Level  string // DEBUG, INFO, WARN, ERROR
	Format string // text, json
}

var (
	currentLevel atomic.Int32
	mu           sync.RWMutex
	slogger      *slog.Logger
	output       io.Writer = os.Stderr
)

func init() {
	currentLevel.Store(int32(LevelWarn))
	reconfigure("text")
}

func toSlogLevel(l Level) slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

func reconfigure(format string) {
	mu.Lock()
	defer mu.Unlock()
	lv := new(slog.LevelVar)
	lv.Set(toSlogLevel(Level(currentLevel.Load())))
	opts := &slog.HandlerOptions{Level: lv}
	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(output, opts)
	} else {
		h = slog.NewTextHandler(output, opts)
	}
	slogger = slog.New(h)
}

// Init configures the package-wide logger. klist calls this once at
// startup with a fixed WARN level; library packages never call it.
func Init(cfg Config) {
	if cfg.Level != "" {
		SetLevel(cfg.Level)
	}
	format := "text"
	if strings.EqualFold(cfg.Format, "json") {
		format = "json"
	}
	reconfigure(format)
}

// SetLevel changes the minimum emitted severity; unknown values are ignored.
func SetLevel(level string) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		currentLevel.Store(int32(LevelDebug))
	case "INFO":
		currentLevel.Store(int32(LevelInfo))
	case "WARN":
		currentLevel.Store(int32(LevelWarn))
	case "ERROR":
		currentLevel.Store(int32(LevelError))
	default:
		return
	}
	reconfigure("text")
}

func getLogger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return slogger
}

func Debug(msg string, args ...any) { getLogger().Debug(msg, args...) }
func Info(msg string, args ...any)  { getLogger().Info(msg, args...) }
func Warn(msg string, args ...any)  { getLogger().Warn(msg, args...) }
func Error(msg string, args ...any) { getLogger().Error(msg, args...) }

// Warnf is a printf-style convenience used where fields aren't handy.
func Warnf(format string, v ...any) {
	getLogger().Warn(fmt.Sprintf(format, v...))
}
