package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestSlogHandler(t *testing.T) {
	newSlog := func(t *testing.T, level Level) (*slog.Logger, *recorder) {
		t.Helper()
		reg, _ := quietRegistry(t, WithLevel(level))
		l := New(reg)
		rec := newRecorder()
		l.AddTransport("rec", rec)
		return NewSlogLogger(l, ""), rec
	}

	t.Run("message and attributes become the text", func(t *testing.T) {
		sl, rec := newSlog(t, LevelDebug)
		sl.Info("request done", "status", 200, "path", "/a b")

		got := rec.Records()
		if len(got) != 1 {
			t.Fatalf("expected 1 record, got %d", len(got))
		}
		if got[0].Type != "INFO" || got[0].Tag != DefaultSlogTag {
			t.Errorf("record = %+v", got[0])
		}
		if want := `request done status=200 path="/a b"`; got[0].Text != want {
			t.Errorf("Text = %q, want %q", got[0].Text, want)
		}
	})

	t.Run("tag attribute selects the tag", func(t *testing.T) {
		sl, rec := newSlog(t, LevelDebug)
		sl.Warn("slow", TagKey, "Db")
		sl.With(TagKey, "Api").Error("failed", "code", 7)

		got := rec.Records()
		if len(got) != 2 {
			t.Fatalf("expected 2 records, got %d", len(got))
		}
		if got[0].Tag != "Db" || got[0].Text != "slow" || got[0].Type != "WARN" {
			t.Errorf("record 0 = %+v", got[0])
		}
		if got[1].Tag != "Api" || got[1].Text != "failed code=7" || got[1].Type != "ERROR" {
			t.Errorf("record 1 = %+v", got[1])
		}
	})

	t.Run("groups prefix keys", func(t *testing.T) {
		sl, rec := newSlog(t, LevelDebug)
		sl.WithGroup("req").Info("x", "id", 1, slog.Group("user", "name", "ann"))

		got := rec.Records()
		if len(got) != 1 || got[0].Text != "x req.id=1 req.user.name=ann" {
			t.Errorf("records = %+v", got)
		}
	})

	t.Run("attributes keep the group active when added", func(t *testing.T) {
		sl, rec := newSlog(t, LevelDebug)
		sl.With("k", "v").WithGroup("g").With("b", 2).Info("msg", "a", 1)

		got := rec.Records()
		if len(got) != 1 || got[0].Text != "msg k=v g.b=2 g.a=1" {
			t.Errorf("records = %+v", got)
		}
	})

	t.Run("levels map onto the nearest level", func(t *testing.T) {
		tests := []struct {
			in   slog.Level
			want Level
		}{
			{slog.LevelDebug - 4, LevelDebug},
			{slog.LevelDebug, LevelDebug},
			{slog.LevelInfo, LevelInfo},
			{slog.LevelInfo + 2, LevelInfo},
			{slog.LevelWarn, LevelWarn},
			{slog.LevelError, LevelError},
			{slog.LevelError + 8, LevelError},
		}
		for _, tt := range tests {
			if got := fromSlogLevel(tt.in); got != tt.want {
				t.Errorf("fromSlogLevel(%v) = %s, want %s", tt.in, got, tt.want)
			}
			if tt.in == ToSlogLevel(tt.want) && fromSlogLevel(ToSlogLevel(tt.want)) != tt.want {
				t.Errorf("ToSlogLevel(%s) does not round trip", tt.want)
			}
		}
	})

	t.Run("enabled follows transport levels", func(t *testing.T) {
		reg, _ := quietRegistry(t, WithLevel(LevelWarn))
		l := New(reg)
		h := NewSlogHandler(l, "app")

		if h.Enabled(context.Background(), slog.LevelError) {
			t.Error("enabled with no transports")
		}
		l.AddTransport("rec", newRecorder())
		if !h.Enabled(context.Background(), slog.LevelWarn) {
			t.Error("WARN should be enabled under WARN")
		}
		if h.Enabled(context.Background(), slog.LevelDebug) {
			t.Error("DEBUG should be disabled under WARN")
		}
	})

	t.Run("custom default tag", func(t *testing.T) {
		reg, _ := quietRegistry(t)
		l := New(reg)
		rec := newRecorder()
		l.AddTransport("rec", rec)

		slog.New(NewSlogHandler(l, "app")).Debug("hi")
		if got := rec.Records(); len(got) != 1 || got[0].Tag != "app" || got[0].Type != "DEBUG" {
			t.Errorf("records = %+v", got)
		}
	})
}
