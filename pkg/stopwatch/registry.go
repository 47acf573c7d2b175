package stopwatch

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/lapwatch/lapwatch-go/pkg/log"
)

// Registry creates stopwatches and guarantees identifier uniqueness.
// It keeps every stopwatch it creates for its whole lifetime.
type Registry struct {
	mu sync.RWMutex

	// id identifies this registry in event traces.
	id string

	clock  Clock
	logger log.Logger

	// byID answers presence checks; order preserves creation order.
	byID  map[string]*Stopwatch
	order []*Stopwatch

	onCreate func(sw *Stopwatch)
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock sets the time source shared by all stopwatches of the registry.
func WithClock(c Clock) Option {
	return func(r *Registry) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithLogger sets the event logger shared by the registry and its stopwatches.
func WithLogger(l log.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		id:     uuid.New().String(),
		clock:  SystemClock,
		logger: log.NoopLogger{},
		byID:   make(map[string]*Stopwatch),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ID returns the registry identifier used in event traces.
func (r *Registry) ID() string {
	return r.id
}

// Create constructs, registers and returns a new stopwatch.
// Returns an error wrapping ErrInvalidArgument if id is empty.
// Returns an error wrapping ErrDuplicateID if id is already registered;
// the existing stopwatch is left untouched.
func (r *Registry) Create(id string) (*Stopwatch, error) {
	if id == "" {
		return nil, r.reject(id, fmt.Errorf("%w: stopwatch id must not be empty", ErrInvalidArgument))
	}

	r.mu.Lock()

	if _, exists := r.byID[id]; exists {
		r.mu.Unlock()
		return nil, r.reject(id, fmt.Errorf("%w: %q", ErrDuplicateID, id))
	}

	sw := newStopwatch(id, r.id, r.clock, r.logger)
	r.byID[id] = sw
	r.order = append(r.order, sw)

	callback := r.onCreate

	// CREATED must be logged before any operation on the new stopwatch.
	sw.emitMu.Lock()
	r.mu.Unlock()
	sw.emit(log.Event{
		Timestamp: sw.createdAt,
		Kind:      log.KindCreated,
	})
	sw.emitMu.Unlock()

	// Call callback outside lock
	if callback != nil {
		callback(sw)
	}

	return sw, nil
}

// List returns all stopwatches in creation order.
// The returned slice is a copy and is never nil.
func (r *Registry) List() []*Stopwatch {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Stopwatch, len(r.order))
	copy(out, r.order)
	return out
}

// Get returns the stopwatch registered under id.
func (r *Registry) Get(id string) (*Stopwatch, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sw, ok := r.byID[id]
	return sw, ok
}

// Len returns the number of registered stopwatches.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Snapshots returns a snapshot of every stopwatch in creation order.
func (r *Registry) Snapshots() []Snapshot {
	list := r.List()
	out := make([]Snapshot, len(list))
	for i, sw := range list {
		out[i] = sw.Snapshot()
	}
	return out
}

// OnCreate sets a callback invoked after each successful Create.
// The callback runs outside the registry lock.
func (r *Registry) OnCreate(fn func(sw *Stopwatch)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onCreate = fn
}

// reject traces a failed Create and returns err.
func (r *Registry) reject(id string, err error) error {
	r.logger.Log(log.Event{
		Timestamp:   r.clock.Now(),
		RegistryID:  r.id,
		StopwatchID: id,
		Kind:        log.KindError,
		Error: &log.ErrorEventData{
			Kind:    errorKind(err),
			Op:      "create",
			Message: err.Error(),
		},
	})
	return err
}
