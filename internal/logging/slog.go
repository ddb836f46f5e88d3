package logging

import (
	"context"
	"log/slog"
	"strings"
)

// TagKey is the slog attribute whose value becomes the record tag.
const TagKey = "tag"

// DefaultSlogTag is used for slog records that carry no tag attribute.
const DefaultSlogTag = "slog"

// SlogHandler is a slog.Handler that routes slog records through a Logger,
// so code written against log/slog lands in the same transports. The "tag"
// attribute selects the record tag; other attributes are appended to the
// message as key=value pairs.
type SlogHandler struct {
	logger     *Logger
	defaultTag string
	tag        string
	fields     []string // rendered under the group active at With time
	group      string
}

// NewSlogHandler returns a handler emitting through l. Records without a tag
// attribute use defaultTag, or DefaultSlogTag when it is empty.
func NewSlogHandler(l *Logger, defaultTag string) *SlogHandler {
	if defaultTag == "" {
		defaultTag = DefaultSlogTag
	}
	return &SlogHandler{logger: l, defaultTag: defaultTag}
}

// NewSlogLogger is shorthand for slog.New(NewSlogHandler(l, defaultTag)).
func NewSlogLogger(l *Logger, defaultTag string) *slog.Logger {
	return slog.New(NewSlogHandler(l, defaultTag))
}

// Enabled reports whether any transport would accept a record at level.
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return len(h.logger.Registry().routes(fromSlogLevel(level))) > 0
}

// Handle converts r into a record and emits it.
func (h *SlogHandler) Handle(_ context.Context, r slog.Record) error {
	tag := h.tag
	fields := make([]string, 0, len(h.fields)+r.NumAttrs())
	fields = append(fields, h.fields...)
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == TagKey && h.group == "" {
			tag = a.Value.String()
			return true
		}
		fields = appendAttr(fields, h.group, a)
		return true
	})
	if tag == "" {
		tag = h.defaultTag
	}

	values := []any{r.Message}
	for _, f := range fields {
		values = append(values, f)
	}
	return h.logger.Log(fromSlogLevel(r.Level), tag, values...)
}

// WithAttrs returns a copy of the handler with additional base attributes.
// A top-level tag attribute binds the tag for all later records.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.fields = append([]string(nil), h.fields...)
	for _, a := range attrs {
		if a.Key == TagKey && h.group == "" {
			nh.tag = a.Value.String()
			continue
		}
		nh.fields = appendAttr(nh.fields, h.group, a)
	}
	return &nh
}

// WithGroup returns a copy of the handler that prefixes later attribute keys
// with name.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	if h.group != "" {
		nh.group = h.group + "." + name
	} else {
		nh.group = name
	}
	return &nh
}

func appendAttr(fields []string, group string, a slog.Attr) []string {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return fields
	}

	key := a.Key
	switch {
	case key == "":
		key = group
	case group != "":
		key = group + "." + key
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			fields = appendAttr(fields, key, ga)
		}
		return fields
	}

	value := a.Value.String()
	if strings.ContainsAny(value, " \t\"=") {
		value = `"` + strings.ReplaceAll(value, `"`, `\"`) + `"`
	}
	return append(fields, key+"="+value)
}

// fromSlogLevel maps slog levels onto the nearest level here.
func fromSlogLevel(level slog.Level) Level {
	switch {
	case level < slog.LevelInfo:
		return LevelDebug
	case level < slog.LevelWarn:
		return LevelInfo
	case level < slog.LevelError:
		return LevelWarn
	default:
		return LevelError
	}
}

// ToSlogLevel maps level onto slog's levels. LevelNone has no slog
// counterpart and maps above LevelError.
func ToSlogLevel(level Level) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelError + 4
	}
}
