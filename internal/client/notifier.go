package client

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Level is the severity of a notification
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "info"
}

// Notification is a user-visible message raised by the Store
type Notification struct {
	Level   Level
	Title   string
	Message string
}

// Notifier surfaces Store outcomes to the user
type Notifier interface {
	Notify(n Notification)
}

// NopNotifier discards notifications
type NopNotifier struct{}

func (NopNotifier) Notify(Notification) {}

// LogNotifier writes notifications to a zap logger
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(note Notification) {
	fields := []zap.Field{zap.String("title", note.Title), zap.String("message", note.Message)}
	if note.Level == LevelError {
		n.logger.Error("Notification", fields...)
		return
	}
	n.logger.Info("Notification", fields...)
}

// WriterNotifier prints notifications as single lines, for terminals
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterNotifier creates a WriterNotifier
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Notify(note Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "[%s] %s: %s\n", note.Level, note.Title, note.Message)
}
