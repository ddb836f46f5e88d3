package logging

// DefaultTransportKey is the key the default console transport is registered under.
const DefaultTransportKey = "__default"

// Transport receives finished records and performs output.
//
// Level reports the transport's own threshold. When ok is false the
// registry's global level applies.
type Transport interface {
	Write(rec Record) error
	Level() (level Level, ok bool)
}

// RegistryAware is implemented by transports that read shared state (shard,
// column widths) from a registry. Logger.AddTransport binds the logger's
// registry to such transports.
type RegistryAware interface {
	BindRegistry(reg *Registry)
}

// TransportFunc adapts a plain function to the Transport interface. It has
// no level override.
type TransportFunc func(rec Record) error

// Write calls f(rec).
func (f TransportFunc) Write(rec Record) error {
	return f(rec)
}

// Level always defers to the registry.
func (f TransportFunc) Level() (Level, bool) {
	return LevelNone, false
}

// Leveled wraps t so that level overrides the registry's global level for it.
func Leveled(level Level, t Transport) Transport {
	return &leveledTransport{Transport: t, level: level}
}

type leveledTransport struct {
	Transport
	level Level
}

func (t *leveledTransport) Level() (Level, bool) {
	return t.level, true
}

func (t *leveledTransport) BindRegistry(reg *Registry) {
	if ra, ok := t.Transport.(RegistryAware); ok {
		ra.BindRegistry(reg)
	}
}

// levelOverride is embedded by the built-in transports.
type levelOverride struct {
	level Level
	set   bool
}

func (o levelOverride) Level() (Level, bool) {
	return o.level, o.set
}

func (o *levelOverride) override(level Level) {
	o.level = level
	o.set = true
}
