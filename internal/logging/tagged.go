package logging

// Tagged is a Logger with the tag bound. Its emit methods take no tag, and
// everything else forwards to the underlying Logger, so a Tagged handle
// shares all state with the logger it came from.
type Tagged struct {
	logger *Logger
	tag    string
}

// Tag returns the bound tag.
func (t *Tagged) Tag() string {
	return t.tag
}

// Logger returns the underlying logger.
func (t *Tagged) Logger() *Logger {
	return t.logger
}

// Retag returns a handle over the same logger with a different tag.
func (t *Tagged) Retag(tag string) *Tagged {
	return t.logger.Tag(tag)
}

// Info emits values at INFO under the bound tag.
func (t *Tagged) Info(values ...any) {
	t.logger.Info(t.tag, values...)
}

// Warn emits values at WARN under the bound tag.
func (t *Tagged) Warn(values ...any) {
	t.logger.Warn(t.tag, values...)
}

// Error emits values at ERROR under the bound tag.
func (t *Tagged) Error(values ...any) {
	t.logger.Error(t.tag, values...)
}

// Debug emits values at DEBUG under the bound tag.
func (t *Tagged) Debug(values ...any) {
	t.logger.Debug(t.tag, values...)
}

// Log emits values at level under the bound tag.
func (t *Tagged) Log(level Level, values ...any) error {
	return t.logger.Log(level, t.tag, values...)
}

// AddTransport registers tr under key on the underlying registry.
func (t *Tagged) AddTransport(key string, tr Transport) {
	t.logger.AddTransport(key, tr)
}

// RemoveTransport unregisters the transport under key.
func (t *Tagged) RemoveTransport(key string) {
	t.logger.RemoveTransport(key)
}

// AddDefaultTransport registers the console transport under DefaultTransportKey.
func (t *Tagged) AddDefaultTransport(level ...Level) {
	t.logger.AddDefaultTransport(level...)
}

// RemoveDefaultTransport unregisters the console transport.
func (t *Tagged) RemoveDefaultTransport() {
	t.logger.RemoveDefaultTransport()
}

// SetLevel sets the global level of the underlying registry.
func (t *Tagged) SetLevel(level Level) {
	t.logger.SetLevel(level)
}

// SetShard sets the shard label shown in every line.
func (t *Tagged) SetShard(shard int) error {
	return t.logger.SetShard(shard)
}
