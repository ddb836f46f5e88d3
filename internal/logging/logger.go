package logging

import (
	"fmt"
	"reflect"

	"github.com/Iron-Ham/taglog/internal/errors"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

// Logger is the entry point for emitting records. It carries no state of its
// own: every operation acts on the Registry it was created with, so any
// number of Logger values over one registry behave identically.
//
// A zero Logger is not bound to a registry and panics on use; create one
// with New, or use Std and the package-level functions for the default
// registry.
type Logger struct {
	reg *Registry
}

// New returns a Logger over reg.
func New(reg *Registry) *Logger {
	if reg == nil {
		panic(errors.NewMisuseError("logger", errors.ErrNilRegistry))
	}
	return &Logger{reg: reg}
}

// Std returns the Logger over the process-wide default registry.
func Std() *Logger {
	return New(Default())
}

// Registry returns the registry the logger operates on.
func (l *Logger) Registry() *Registry {
	if l == nil || l.reg == nil {
		panic(errors.NewMisuseError("logger", errors.ErrNilRegistry))
	}
	return l.reg
}

// AddTransport registers t under key, replacing any transport already
// registered under it. Transports implementing RegistryAware are bound to
// the logger's registry.
func (l *Logger) AddTransport(key string, t Transport) {
	reg := l.Registry()
	if ra, ok := t.(RegistryAware); ok {
		ra.BindRegistry(reg)
	}
	reg.AddTransport(key, t)
}

// RemoveTransport unregisters the transport under key. Unknown keys are ignored.
func (l *Logger) RemoveTransport(key string) {
	l.Registry().RemoveTransport(key)
}

// AddDefaultTransport registers a console transport under
// DefaultTransportKey. An optional level overrides the global level for it.
func (l *Logger) AddDefaultTransport(level ...Level) {
	var opts []ConsoleOption
	if len(level) > 0 {
		opts = append(opts, WithConsoleLevel(level[0]))
	}
	l.AddTransport(DefaultTransportKey, NewConsoleTransport(opts...))
}

// RemoveDefaultTransport unregisters the default console transport.
func (l *Logger) RemoveDefaultTransport() {
	l.RemoveTransport(DefaultTransportKey)
}

// SetLevel sets the global level.
func (l *Logger) SetLevel(level Level) {
	l.Registry().SetLevel(level)
}

// SetShard sets the shard label surfaced by transports.
func (l *Logger) SetShard(shard int) error {
	return l.Registry().SetShard(shard)
}

// Tag returns a handle whose emit methods use tag.
func (l *Logger) Tag(tag string) *Tagged {
	return &Tagged{logger: l, tag: tag}
}

// TagOf returns a handle tagged with the type name of v, so a type can hold
// its own tagged handle:
//
//	type Server struct{ log *logging.Tagged }
//	s := &Server{}
//	s.log = logging.TagOf(s) // tag "Server"
func (l *Logger) TagOf(v any) *Tagged {
	return l.Tag(typeName(v))
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "nil"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

// Info emits values at INFO under tag.
func (l *Logger) Info(tag string, values ...any) {
	_ = l.Log(LevelInfo, tag, values...)
}

// Warn emits values at WARN under tag.
func (l *Logger) Warn(tag string, values ...any) {
	_ = l.Log(LevelWarn, tag, values...)
}

// Error emits values at ERROR under tag.
func (l *Logger) Error(tag string, values ...any) {
	_ = l.Log(LevelError, tag, values...)
}

// Debug emits values at DEBUG under tag.
func (l *Logger) Debug(tag string, values ...any) {
	_ = l.Log(LevelDebug, tag, values...)
}

// Log builds one record from values and writes it to every transport whose
// effective level admits level, in registration order. A failing or
// panicking transport does not stop the others: each failure is passed to
// the registry's error handler and all of them are returned joined.
func (l *Logger) Log(level Level, tag string, values ...any) error {
	reg := l.Registry()

	if level == LevelNone {
		return errors.ErrNoneLevel
	}
	if !level.Valid() {
		return fmt.Errorf("%w: %d", errors.ErrInvalidLevel, int(level))
	}

	routes := reg.routes(level)
	if len(routes) == 0 {
		return nil
	}

	rec := NewRecord(reg.clock(), level, tag, values...)
	errs := make([]error, len(routes))

	if reg.concurrent && len(routes) > 1 {
		var wg conc.WaitGroup
		for i, rt := range routes {
			wg.Go(func() {
				errs[i] = deliver(rt, rec)
			})
		}
		wg.Wait()
	} else {
		for i, rt := range routes {
			errs[i] = deliver(rt, rec)
		}
	}

	var failed []error
	for _, err := range errs {
		if err != nil {
			reg.reportError(err)
			failed = append(failed, err)
		}
	}
	return errors.Join(failed...)
}

// deliver writes rec to one transport, converting a panic into an error.
func deliver(rt route, rec Record) error {
	var err error
	var pc panics.Catcher
	pc.Try(func() {
		err = rt.transport.Write(rec)
	})
	if r := pc.Recovered(); r != nil {
		return errors.NewTransportError(rt.name, r.AsError()).
			WithTag(rec.Tag).
			WithSeverity(errors.SeverityCritical)
	}

	if err != nil {
		return errors.NewTransportError(rt.name, err).WithTag(rec.Tag)
	}
	return nil
}
