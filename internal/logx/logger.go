// Package logx is the append-only activity/error logger shared by the
// server and client binaries. It mirrors ServerLogger/ClientLogger from
// the original implementation: plain timestamped text lines, best-effort
// writes, no logging library — matching the texture of every repo in the
// retrieval pack, none of which pulls one in.
package logx

import (
	"bufio"
	"fmt"
	"os"
	"sync"
	"time"
)

type Logger struct {
	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
}

// Open appends to path, creating it if necessary. A failure to open the
// file is non-fatal: the Logger falls back to discarding writes silently
// after printing the error once, per the "log I/O failure" policy.
func Open(path string) *Logger {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logx: error initializing logger:", err)
		return &Logger{}
	}
	return &Logger{file: f, writer: bufio.NewWriter(f)}
}

func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer.Flush()
	return l.file.Close()
}

func (l *Logger) write(kind string, msg string) {
	if l == nil || l.writer == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	if _, err := fmt.Fprintf(l.writer, "%s - %s - %s\n", kind, msg, timestamp); err != nil {
		fmt.Fprintln(os.Stderr, "logx: error writing log:", err)
		return
	}
	if err := l.writer.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, "logx: error flushing log:", err)
	}
}

func (l *Logger) LogActivity(format string, args ...any) {
	l.write("Activity", fmt.Sprintf(format, args...))
}

func (l *Logger) LogError(format string, args ...any) {
	l.write("Error", fmt.Sprintf(format, args...))
}
