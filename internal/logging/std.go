package logging

// Package-level functions operating on the default registry.

// AddTransport registers t under key on the default registry.
func AddTransport(key string, t Transport) {
	Std().AddTransport(key, t)
}

// RemoveTransport unregisters the transport under key from the default registry.
func RemoveTransport(key string) {
	Std().RemoveTransport(key)
}

// AddDefaultTransport registers the console transport on the default registry.
func AddDefaultTransport(level ...Level) {
	Std().AddDefaultTransport(level...)
}

// RemoveDefaultTransport unregisters the default console transport.
func RemoveDefaultTransport() {
	Std().RemoveDefaultTransport()
}

// SetLevel sets the global level of the default registry.
func SetLevel(level Level) {
	Std().SetLevel(level)
}

// SetShard sets the shard label of the default registry.
func SetShard(shard int) error {
	return Std().SetShard(shard)
}

// Tag returns a handle on the default registry with tag bound.
func Tag(tag string) *Tagged {
	return Std().Tag(tag)
}

// TagOf returns a handle on the default registry tagged with v's type name.
func TagOf(v any) *Tagged {
	return Std().TagOf(v)
}

// Info emits values at INFO under tag through the default registry.
func Info(tag string, values ...any) {
	Std().Info(tag, values...)
}

// Warn emits values at WARN under tag through the default registry.
func Warn(tag string, values ...any) {
	Std().Warn(tag, values...)
}

// Error emits values at ERROR under tag through the default registry.
func Error(tag string, values ...any) {
	Std().Error(tag, values...)
}

// Debug emits values at DEBUG under tag through the default registry.
func Debug(tag string, values ...any) {
	Std().Debug(tag, values...)
}

// Log emits values at level under tag through the default registry.
func Log(level Level, tag string, values ...any) error {
	return Std().Log(level, tag, values...)
}
