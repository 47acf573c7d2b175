package log

import (
	"fmt"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger appends stopwatch events to a .swlog file in CBOR format.
// It is safe for concurrent use from multiple goroutines.
type FileLogger struct {
	path string

	mu      sync.Mutex
	file    *os.File
	encoder *cbor.Encoder
	closed  bool
	failed  uint64
	onError func(error)
}

// NewFileLogger opens path for appending, creating it with permissions 0644
// if needed.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileLogger{
		path:    path,
		file:    f,
		encoder: NewEncoder(f),
	}, nil
}

// OnError sets a handler for events that could not be written. The handler
// runs after the logger's lock is released. Without a handler such events
// are only counted (see Failed).
func (l *FileLogger) OnError(fn func(error)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onError = fn
}

// Log appends an event. Write failures never reach the caller: they are
// counted and passed to the OnError handler.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()

	if l.closed {
		l.mu.Unlock()
		return
	}

	err := l.encoder.Encode(event)
	if err != nil {
		l.failed++
		err = fmt.Errorf("write %s event to %s: %w", event.Kind, l.path, err)
	}
	handler := l.onError

	l.mu.Unlock()

	if err != nil && handler != nil {
		handler(err)
	}
}

// Failed returns the number of events that could not be written.
func (l *FileLogger) Failed() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.failed
}

// Path returns the file the logger appends to.
func (l *FileLogger) Path() string {
	return l.path
}

// Close closes the log file. It is safe to call Close multiple times;
// events logged afterwards are ignored.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}

	l.closed = true
	return l.file.Close()
}

var _ Logger = (*FileLogger)(nil)
