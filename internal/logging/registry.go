package logging

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Iron-Ham/taglog/internal/errors"
)

// Widths holds the widest type label and tag observed by a transport family.
type Widths struct {
	Type int
	Tag  int
}

// Registry holds the state shared by a logger and its transports: the global
// level, the optional shard, the registered transports and the column widths
// memoized per transport family. It is safe for concurrent use.
type Registry struct {
	mu sync.RWMutex

	level    Level
	shard    int
	hasShard bool

	names      []string // registration order
	transports map[string]Transport

	widths map[string]Widths
	cache  map[string]any

	onError    func(error)
	concurrent bool
	now        func() time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLevel sets the initial global level (default LevelDebug).
func WithLevel(level Level) RegistryOption {
	return func(r *Registry) {
		r.level = level
	}
}

// WithShard sets the initial shard. Negative values are ignored.
func WithShard(shard int) RegistryOption {
	return func(r *Registry) {
		if shard >= 0 {
			r.shard = shard
			r.hasShard = true
		}
	}
}

// WithErrorHandler replaces the handler that receives per-transport write
// failures. The default prints one warning line to stderr.
func WithErrorHandler(fn func(error)) RegistryOption {
	return func(r *Registry) {
		if fn != nil {
			r.onError = fn
		}
	}
}

// WithConcurrentDispatch makes emits write to all admitted transports
// concurrently. Emits still wait for every transport before returning.
func WithConcurrentDispatch() RegistryOption {
	return func(r *Registry) {
		r.concurrent = true
	}
}

// WithClock sets the time source used to stamp records.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// WithDefaultTransport registers a console transport under DefaultTransportKey.
func WithDefaultTransport() RegistryOption {
	return func(r *Registry) {
		t := NewConsoleTransport()
		t.BindRegistry(r)
		r.names = append(r.names, DefaultTransportKey)
		r.transports[DefaultTransportKey] = t
	}
}

// NewRegistry creates an independent registry. Use it to give a component or
// a test its own logging state; Default returns the process-wide one.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		level:      LevelDebug,
		transports: make(map[string]Transport),
		widths:     make(map[string]Widths),
		cache:      make(map[string]any),
		onError:    reportToStderr,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func reportToStderr(err error) {
	fmt.Fprint(os.Stderr, reportLine(err))
}

// reportLine renders err as one stderr line labelled by its severity.
func reportLine(err error) string {
	label := "Warning"
	switch errors.GetSeverity(err) {
	case errors.SeverityError:
		label = "Error"
	case errors.SeverityCritical:
		label = "Critical"
	}
	return fmt.Sprintf("%s: %v\n", label, err)
}

var (
	defaultMu       sync.Mutex
	defaultRegistry *Registry
)

// Default returns the process-wide registry, constructing it on first use
// with the default console transport registered.
func Default() *Registry {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultRegistry == nil {
		defaultRegistry = NewRegistry(WithDefaultTransport())
	}
	return defaultRegistry
}

// InitDefault explicitly constructs the process-wide registry with the given
// options. It fails if the registry already exists, including when an earlier
// call to Default constructed it lazily.
func InitDefault(opts ...RegistryOption) (*Registry, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultRegistry != nil {
		return nil, errors.NewMisuseError("default registry", errors.ErrAlreadyInitialized)
	}
	defaultRegistry = NewRegistry(append([]RegistryOption{WithDefaultTransport()}, opts...)...)
	return defaultRegistry, nil
}

// Get returns the cached value for key, or fallback if none is set.
func (r *Registry) Get(key string, fallback any) any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if v, ok := r.cache[key]; ok && v != nil {
		return v
	}
	return fallback
}

// Set stores value under key.
func (r *Registry) Set(key string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[key] = value
}

// Has reports whether a non-nil value is cached under key.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.cache[key]
	return ok && v != nil
}

// Remove deletes the cached value for key.
func (r *Registry) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cache, key)
}

// AddTransport registers t under name. An existing transport with the same
// name is replaced and keeps its position in the dispatch order.
func (r *Registry) AddTransport(name string, t Transport) {
	if t == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.transports[name]; !exists {
		r.names = append(r.names, name)
	}
	r.transports[name] = t
}

// RemoveTransport unregisters the transport under name. Unknown names are ignored.
func (r *Registry) RemoveTransport(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.transports[name]; !exists {
		return
	}
	delete(r.transports, name)
	for i, n := range r.names {
		if n == name {
			r.names = append(r.names[:i:i], r.names[i+1:]...)
			break
		}
	}
}

// Transport returns the transport registered under name.
func (r *Registry) Transport(name string) (Transport, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.transports[name]
	return t, ok
}

// Transports returns a snapshot of the registered transports in registration order.
func (r *Registry) Transports() []Transport {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Transport, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.transports[name])
	}
	return out
}

// TransportNames returns the registered names in registration order.
func (r *Registry) TransportNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.names...)
}

// Level returns the global level.
func (r *Registry) Level() Level {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.level
}

// SetLevel sets the global level used by transports without an override.
func (r *Registry) SetLevel(level Level) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.level = level
}

// EffectiveLevel returns t's override if it has one, else the global level.
func (r *Registry) EffectiveLevel(t Transport) Level {
	if level, ok := t.Level(); ok {
		return level
	}
	return r.Level()
}

// Shard returns the shard and whether one has been set.
func (r *Registry) Shard() (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.shard, r.hasShard
}

// SetShard sets the shard label shown by transports.
func (r *Registry) SetShard(shard int) error {
	if shard < 0 {
		return fmt.Errorf("%w: %d", errors.ErrInvalidShard, shard)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.shard = shard
	r.hasShard = true
	return nil
}

// ClearShard removes the shard label.
func (r *Registry) ClearShard() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shard = 0
	r.hasShard = false
}

// Widen records the widths of a new record for a transport family and
// returns the family's widths after the update. Widths only ever grow.
func (r *Registry) Widen(family string, typeWidth, tagWidth int) Widths {
	r.mu.Lock()
	defer r.mu.Unlock()

	w := r.widths[family]
	if typeWidth > w.Type {
		w.Type = typeWidth
	}
	if tagWidth > w.Tag {
		w.Tag = tagWidth
	}
	r.widths[family] = w
	return w
}

// Widths returns the current widths of a transport family.
func (r *Registry) Widths(family string) Widths {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.widths[family]
}

// route is a transport selected for one record.
type route struct {
	name      string
	transport Transport
}

// routes returns, in registration order, the transports whose effective
// level admits a record at level. Transport levels are read after the lock
// is released, so a Level method may call back into the registry.
func (r *Registry) routes(level Level) []route {
	r.mu.RLock()
	global := r.level
	all := make([]route, 0, len(r.names))
	for _, name := range r.names {
		all = append(all, route{name: name, transport: r.transports[name]})
	}
	r.mu.RUnlock()

	out := all[:0]
	for _, rt := range all {
		effective, ok := rt.transport.Level()
		if !ok {
			effective = global
		}
		if effective.Admits(level) {
			out = append(out, rt)
		}
	}
	return out
}

func (r *Registry) clock() time.Time {
	return r.now()
}

func (r *Registry) reportError(err error) {
	r.mu.RLock()
	handler := r.onError
	r.mu.RUnlock()
	handler(err)
}
