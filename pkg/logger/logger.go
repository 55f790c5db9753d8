package logger

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Leveled process logger shared by the API server and the CLI.
// Output is either a plain "<ts> [LEVEL] msg" line or, with Init(level, "json"),
// one JSON object per line.

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var (
	mu      sync.RWMutex
	logger  *log.Logger = log.New(os.Stdout, "", 0)
	level   Level       = LevelInfo
	jsonOut bool
	service = "resumate"
)

// Init sets the global log level (debug, info, warn, error, fatal; case-insensitive)
// and the output format ("json" or anything else for text). Default is info/text.
func Init(l string, format ...string) {
	mu.Lock()
	defer mu.Unlock()
	level = parseLevel(l)
	jsonOut = len(format) > 0 && strings.EqualFold(strings.TrimSpace(format[0]), "json")
}

// SetService changes the service name attached to JSON records.
func SetService(name string) {
	mu.Lock()
	defer mu.Unlock()
	if name != "" {
		service = name
	}
}

func parseLevel(l string) Level {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

func shouldLog(l Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return l >= level
}

func emit(lvl, msg string) {
	mu.RLock()
	asJSON, svc := jsonOut, service
	mu.RUnlock()
	ts := time.Now().Format(time.RFC3339)
	if asJSON {
		b, err := json.Marshal(map[string]string{"ts": ts, "level": lvl, "service": svc, "msg": msg})
		if err == nil {
			logger.Print(string(b))
			return
		}
	}
	logger.Print(fmt.Sprintf("%s [%s] ", ts, strings.ToUpper(lvl)) + msg)
}

func Debugf(format string, v ...interface{}) {
	if !shouldLog(LevelDebug) {
		return
	}
	emit("debug", fmt.Sprintf(format, v...))
}

func Infof(format string, v ...interface{}) {
	if !shouldLog(LevelInfo) {
		return
	}
	emit("info", fmt.Sprintf(format, v...))
}

func Warnf(format string, v ...interface{}) {
	if !shouldLog(LevelWarn) {
		return
	}
	emit("warn", fmt.Sprintf(format, v...))
}

func Errorf(format string, v ...interface{}) {
	if !shouldLog(LevelError) {
		return
	}
	emit("error", fmt.Sprintf(format, v...))
}

func Fatalf(format string, v ...interface{}) {
	emit("fatal", fmt.Sprintf(format, v...))
	os.Exit(1)
}

// Println kept for brief messages (maps to Info)
func Println(v ...interface{}) {
	if !shouldLog(LevelInfo) {
		return
	}
	emit("info", strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	switch level {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return "info"
}
