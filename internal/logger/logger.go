package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

var levels = map[string]int{
	"debug": 0,
	"info":  1,
	"warn":  2,
	"error": 3,
}

type implLogger struct {
	logger *log.Logger
	level  string
	json   bool
}

// New creates a text Logger writing to stdout.
func New(level string) Logger {
	return NewWithWriter(os.Stdout, level, "text")
}

// NewWithWriter creates a Logger writing to w in the given format ("text" or "json").
func NewWithWriter(w io.Writer, level, format string) Logger {
	l := &implLogger{
		level: strings.ToLower(level),
		json:  strings.EqualFold(format, "json"),
	}
	if l.json {
		l.logger = log.New(w, "", 0)
	} else {
		l.logger = log.New(w, "", log.LstdFlags)
	}
	return l
}

func (l *implLogger) shouldLog(level string) bool {
	currentLevel, ok := levels[l.level]
	if !ok {
		currentLevel = 1 // default to info
	}

	targetLevel, ok := levels[level]
	if !ok {
		return true
	}

	return targetLevel >= currentLevel
}

func (l *implLogger) write(ctx context.Context, level, msg string, args ...interface{}) {
	if !l.shouldLog(level) {
		return
	}

	text := fmt.Sprintf(msg, args...)
	reqID := RequestID(ctx)

	if l.json {
		entry := map[string]string{
			"time":  time.Now().UTC().Format(time.RFC3339Nano),
			"level": level,
			"msg":   text,
		}
		if reqID != "" {
			entry["request_id"] = reqID
		}
		b, err := json.Marshal(entry)
		if err != nil {
			l.logger.Printf("[ERROR] marshal log entry: %v", err)
			return
		}
		l.logger.Print(string(b))
		return
	}

	prefix := "[" + strings.ToUpper(level) + "] "
	if reqID != "" {
		prefix += "[" + reqID + "] "
	}
	l.logger.Print(prefix + text)
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.write(ctx, "debug", msg, args...)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.write(ctx, "info", msg, args...)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.write(ctx, "warn", msg, args...)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.write(ctx, "error", msg, args...)
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewWithWriter(io.Discard, "error", "text")
}
