package helpers

import (
	"fmt"
	"os"
	"sync"
	"time"

	"sjsage522/upworkscanner/logger"
)

// LoggerInterface defines the interface for logger implementations
type LoggerInterface interface {
	LogError(scope string, err error)
	LogInfo(format string, args ...interface{})
}

// Logger appends failed attempts to an error file and sends info messages
// to the application log
type Logger struct {
	mu        sync.Mutex
	errorFile string
	now       func() time.Time
}

// NewLogger creates a new logger instance. An empty errorFile disables the file.
func NewLogger(errorFile string) *Logger {
	return &Logger{
		errorFile: errorFile,
		now:       time.Now,
	}
}

// LogError logs an error to a file with scope and timestamp
func (l *Logger) LogError(scope string, err error) {
	logger.LogError(scope, err, "Operation failed")
	if l.errorFile == "" || err == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, fileErr := os.OpenFile(l.errorFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if fileErr != nil {
		logger.Warn("Could not open error log %s: %v", l.errorFile, fileErr)
		return
	}
	defer f.Close()

	timestamp := l.now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(f, "[%s] [%s] %s\n", timestamp, scope, err.Error())
}

// LogInfo logs an informational message
func (l *Logger) LogInfo(format string, args ...interface{}) {
	logger.Info(format, args...)
}
