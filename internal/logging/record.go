package logging

import (
	"fmt"
	"strings"
	"time"
)

// Record is a single finished log line as handed to transports.
// It is passed by value so no transport can change what another one sees.
type Record struct {
	Timestamp time.Time
	Type      string // severity label, e.g. "INFO"
	Tag       string // caller supplied origin
	Text      string // values joined with a single space
}

// NewRecord builds a record for level at ts, rendering each value with
// fmt.Sprint and joining them with a single space.
func NewRecord(ts time.Time, level Level, tag string, values ...any) Record {
	return Record{
		Timestamp: ts,
		Type:      level.String(),
		Tag:       tag,
		Text:      joinValues(values),
	}
}

// Level returns the level encoded in the record's type label, or LevelNone
// for labels that are not level names.
func (r Record) Level() Level {
	l, err := ParseLevel(r.Type)
	if err != nil {
		return LevelNone
	}
	return l
}

func joinValues(values []any) string {
	switch len(values) {
	case 0:
		return ""
	case 1:
		return fmt.Sprint(values[0])
	}

	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}
