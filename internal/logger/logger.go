package logger

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Logger writes categorized log lines to the console (colored) and,
// when CAFEHUB_LOG_FILE is set, to a plain-text file as well.
type Logger struct {
	mu   sync.Mutex
	file *os.File

	debug   *color.Color
	info    *color.Color
	warn    *color.Color
	errc    *color.Color
	process *color.Color
}

func NewLogger() *Logger {
	l := &Logger{
		debug:   color.New(color.FgHiBlack),
		info:    color.New(color.FgCyan),
		warn:    color.New(color.FgYellow),
		errc:    color.New(color.FgRed, color.Bold),
		process: color.New(color.FgGreen),
	}

	if path := os.Getenv("CAFEHUB_LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err == nil {
			l.file = f
		} else {
			fmt.Fprintf(os.Stderr, "logger: cannot open %s: %v\n", path, err)
		}
	}

	return l
}

func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
}

func (l *Logger) write(c *color.Color, level, category, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := time.Now().Format("2006-01-02 15:04:05.000")
	line := fmt.Sprintf("[%s] [%s] [%s] %s", ts, level, category, msg)

	c.Fprintln(os.Stdout, line)
	if l.file != nil {
		fmt.Fprintln(l.file, line)
	}
}

func (l *Logger) Debug(category, msg string) { l.write(l.debug, "DEBUG", category, msg) }
func (l *Logger) Info(category, msg string)  { l.write(l.info, "INFO", category, msg) }
func (l *Logger) Warn(category, msg string)  { l.write(l.warn, "WARN", category, msg) }
func (l *Logger) Error(category, msg string) { l.write(l.errc, "ERROR", category, msg) }

func (l *Logger) Fatal(category, msg string) {
	l.write(l.errc, "FATAL", category, msg)
	l.Close()
	os.Exit(1)
}

// LogProcess marks lifecycle milestones (startup, shutdown, component init).
func (l *Logger) LogProcess(stage, msg string) {
	l.write(l.process, "PROCESS", stage, msg)
}

func (l *Logger) LogDatabase(op, table, msg string) {
	l.Debug("DATABASE", fmt.Sprintf("%s %s - %s", op, table, msg))
}

func (l *Logger) LogKafka(op, topic, msg string) {
	l.Info("KAFKA", fmt.Sprintf("%s [%s] %s", op, topic, msg))
}

func (l *Logger) LogAPI(method, path, status, duration string) {
	l.Info("API", fmt.Sprintf("%s %s - %s (%s)", method, path, status, duration))
}

func (l *Logger) LogOrder(op, orderNumber, msg string) {
	l.Info("ORDER", fmt.Sprintf("%s [%s] %s", op, orderNumber, msg))
}

func (l *Logger) LogPayment(op, id, msg string) {
	l.Info("PAYMENT", fmt.Sprintf("%s [%s] %s", op, id, msg))
}

func (l *Logger) LogWS(op, scope, msg string) {
	l.Info("WS", fmt.Sprintf("%s [%s] %s", op, scope, msg))
}

func (l *Logger) LogSecurity(event, msg string) {
	l.Warn("SECURITY", fmt.Sprintf("%s - %s", event, msg))
}
