package logging

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Iron-Ham/taglog/internal/errors"
)

// Level is the severity threshold of a record or transport.
// Higher values are more verbose: a record at level l reaches a transport
// whose effective level is e iff l <= e.
type Level int

// Log levels supported by the logger
const (
	LevelNone Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelDebug
)

// LevelLog is an alias of LevelInfo.
const LevelLog = LevelInfo

var levelNames = [...]string{
	LevelNone:  "NONE",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelDebug: "DEBUG",
}

// String returns the uppercase name of the level, which is also the type
// label written into every record.
func (l Level) String() string {
	if l.Valid() {
		return levelNames[l]
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return l >= LevelNone && l <= LevelDebug
}

// Admits reports whether a record at level record passes a threshold of l.
func (l Level) Admits(record Level) bool {
	return record <= l
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", errors.ErrInvalidLevel, int(l))
	}
	return []byte(strings.ToLower(l.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel converts a level name (case-insensitive) or its number to a Level.
// "log" is accepted for INFO and "warning" for WARN.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "off":
		return LevelNone, nil
	case "info", "log":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error", "err":
		return LevelError, nil
	case "debug":
		return LevelDebug, nil
	}

	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && Level(n).Valid() {
		return Level(n), nil
	}
	return LevelNone, fmt.Errorf("%w: %q", errors.ErrInvalidLevel, s)
}

// ValidLevels returns the list of valid log level strings.
func ValidLevels() []string {
	return []string{"none", "info", "warn", "error", "debug"}
}
