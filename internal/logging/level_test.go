package logging

import (
	"testing"

	"github.com/Iron-Ham/taglog/internal/errors"
)

func TestLevelOrdering(t *testing.T) {
	order := []Level{LevelNone, LevelInfo, LevelWarn, LevelError, LevelDebug}
	for i := 1; i < len(order); i++ {
		if order[i-1] >= order[i] {
			t.Errorf("expected %s < %s", order[i-1], order[i])
		}
	}
	if LevelLog != LevelInfo {
		t.Error("LevelLog should alias LevelInfo")
	}
}

func TestLevelAdmits(t *testing.T) {
	levels := []Level{LevelNone, LevelInfo, LevelWarn, LevelError, LevelDebug}

	for _, threshold := range levels {
		for _, record := range levels[1:] {
			want := record <= threshold
			if got := threshold.Admits(record); got != want {
				t.Errorf("%s.Admits(%s) = %v, want %v", threshold, record, got, want)
			}
		}
	}

	t.Run("none admits nothing", func(t *testing.T) {
		for _, record := range levels[1:] {
			if LevelNone.Admits(record) {
				t.Errorf("NONE admitted %s", record)
			}
		}
	})

	t.Run("debug admits everything", func(t *testing.T) {
		for _, record := range levels[1:] {
			if !LevelDebug.Admits(record) {
				t.Errorf("DEBUG rejected %s", record)
			}
		}
	})
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelNone, "NONE"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LevelDebug, "DEBUG"},
		{Level(42), "LEVEL(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{"info", LevelInfo, false},
		{"log", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"Warning", LevelWarn, false},
		{"error", LevelError, false},
		{"none", LevelNone, false},
		{"off", LevelNone, false},
		{" warn ", LevelWarn, false},
		{"2", LevelWarn, false},
		{"0", LevelNone, false},
		{"9", LevelNone, true},
		{"verbose", LevelNone, true},
		{"", LevelNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrInvalidLevel) {
					t.Errorf("ParseLevel(%q) error = %v, want ErrInvalidLevel", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLevel(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevelText(t *testing.T) {
	b, err := LevelWarn.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}
	if string(b) != "warn" {
		t.Errorf("MarshalText = %q, want %q", b, "warn")
	}

	var l Level
	if err := l.UnmarshalText([]byte("debug")); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if l != LevelDebug {
		t.Errorf("UnmarshalText gave %s, want DEBUG", l)
	}

	if _, err := Level(-1).MarshalText(); err == nil {
		t.Error("expected error marshaling invalid level")
	}
}

func TestValidLevels(t *testing.T) {
	for _, s := range ValidLevels() {
		if _, err := ParseLevel(s); err != nil {
			t.Errorf("ValidLevels entry %q does not parse: %v", s, err)
		}
	}
}

func TestNewRecord(t *testing.T) {
	ts := testTime(2024, 3, 9, 14, 5, 6)

	t.Run("joins values with single spaces", func(t *testing.T) {
		rec := NewRecord(ts, LevelWarn, "Foo", "Bar", 42, true)
		if rec.Text != "Bar 42 true" {
			t.Errorf("Text = %q", rec.Text)
		}
		if rec.Type != "WARN" || rec.Tag != "Foo" || !rec.Timestamp.Equal(ts) {
			t.Errorf("unexpected record: %+v", rec)
		}
		if rec.Level() != LevelWarn {
			t.Errorf("Level() = %s, want WARN", rec.Level())
		}
	})

	t.Run("no values gives empty text", func(t *testing.T) {
		if rec := NewRecord(ts, LevelInfo, "Foo"); rec.Text != "" {
			t.Errorf("Text = %q, want empty", rec.Text)
		}
	})

	t.Run("unknown type label has no level", func(t *testing.T) {
		rec := Record{Type: "NOTICE"}
		if rec.Level() != LevelNone {
			t.Errorf("Level() = %s, want NONE", rec.Level())
		}
	})
}
