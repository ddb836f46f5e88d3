package logging

import (
	"testing"
	"time"

	"github.com/Iron-Ham/taglog/internal/errors"
	"github.com/spf13/afero"
)

func TestDayFileName(t *testing.T) {
	tests := []struct {
		t    time.Time
		want string
	}{
		{testTime(2024, 3, 9, 0, 0, 0), "2024-03-09.log"},
		{testTime(2024, 12, 31, 23, 59, 59), "2024-12-31.log"},
		{testTime(2024, 1, 1, 12, 0, 0), "2024-01-01.log"},
		{testTime(987, 7, 4, 12, 0, 0), "0987-07-04.log"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := DayFileName(tt.t); got != tt.want {
				t.Errorf("DayFileName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDayFileName(t *testing.T) {
	tests := []struct {
		name    string
		want    time.Time
		wantErr bool
	}{
		{"2024-03-09.log", testTime(2024, 3, 9, 0, 0, 0), false},
		{"2024-02-29.log", testTime(2024, 2, 29, 0, 0, 0), false},
		{"2023-02-29.log", time.Time{}, true},
		{"2024-13-01.log", time.Time{}, true},
		{"2024-00-10.log", time.Time{}, true},
		{"2024-01-32.log", time.Time{}, true},
		{"2024-1-09.log", time.Time{}, true},
		{"2024-03-09.txt", time.Time{}, true},
		{"x2024-03-09.log", time.Time{}, true},
		{"2024-03-09.log.1", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDayFileName(tt.name)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrInvalidDate) {
					t.Errorf("error = %v, want ErrInvalidDate", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDayFileName = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("round trip", func(t *testing.T) {
		day := testTime(2025, 11, 5, 0, 0, 0)
		got, err := ParseDayFileName(DayFileName(day))
		if err != nil || !got.Equal(day) {
			t.Errorf("round trip gave %v, %v", got, err)
		}
	})
}

func TestParseDay(t *testing.T) {
	if got, err := ParseDay("2024-03-09"); err != nil || !got.Equal(testTime(2024, 3, 9, 0, 0, 0)) {
		t.Errorf("ParseDay = %v, %v", got, err)
	}
	if _, err := ParseDay("2024-03-09.log"); err == nil {
		t.Error("expected error for file name")
	}
	if _, err := ParseDay("yesterday"); err == nil {
		t.Error("expected error for free text")
	}
}

func TestMidnight(t *testing.T) {
	got := Midnight(testTime(2024, 3, 9, 23, 59, 59))
	if !got.Equal(testTime(2024, 3, 9, 0, 0, 0)) {
		t.Errorf("Midnight = %v", got)
	}
	if !Midnight(got).Equal(got) {
		t.Error("Midnight should be idempotent")
	}
}

func TestRetentionCutoff(t *testing.T) {
	today := testTime(2024, 3, 9, 15, 0, 0)

	tests := []struct {
		days int
		want time.Time
	}{
		{1, testTime(2024, 3, 8, 0, 0, 0)},
		{2, testTime(2024, 3, 7, 0, 0, 0)},
		{7, testTime(2024, 3, 2, 0, 0, 0)},
		{0, testTime(2024, 3, 8, 0, 0, 0)},
		{-3, testTime(2024, 3, 8, 0, 0, 0)},
		{10, testTime(2024, 2, 28, 0, 0, 0)},
	}
	for _, tt := range tests {
		if got := RetentionCutoff(today, tt.days); !got.Equal(tt.want) {
			t.Errorf("RetentionCutoff(%d) = %v, want %v", tt.days, got, tt.want)
		}
	}
}

func TestRetentionCutoffAcrossDSTChange(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("time zone data unavailable: %v", err)
	}
	saved := time.Local
	time.Local = loc
	t.Cleanup(func() { time.Local = saved })

	// Clocks fell back on 2024-11-03, so that day is 25 hours long.
	today := time.Date(2024, 11, 4, 10, 0, 0, 0, loc)
	if got, want := RetentionCutoff(today, 2), time.Date(2024, 11, 2, 0, 0, 0, 0, loc); !got.Equal(want) {
		t.Errorf("RetentionCutoff = %v, want %v", got, want)
	}

	fs := afero.NewMemMapFs()
	for _, name := range []string{"2024-11-01.log", "2024-11-02.log", "2024-11-03.log"} {
		if err := afero.WriteFile(fs, "logs/"+name, nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	expired, err := ExpiredDayFiles(fs, "logs", today, 2)
	if err != nil {
		t.Fatalf("ExpiredDayFiles failed: %v", err)
	}
	if len(expired) != 1 || expired[0] != "2024-11-01.log" {
		t.Errorf("expired = %v, want only 2024-11-01.log", expired)
	}
}

func TestCleanupDir(t *testing.T) {
	t.Run("removes only files strictly before the cutoff", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		for _, name := range []string{"2024-03-01.log", "2024-03-06.log", "2024-03-07.log", "2024-03-09.log"} {
			touch(t, fs, "logs/"+name)
		}

		removed, err := CleanupDir(fs, "logs", testTime(2024, 3, 9, 10, 0, 0), 2)
		if err != nil {
			t.Fatal(err)
		}
		if len(removed) != 2 || removed[0] != "2024-03-01.log" || removed[1] != "2024-03-06.log" {
			t.Errorf("removed = %v", removed)
		}
		if ok, _ := afero.Exists(fs, "logs/2024-03-07.log"); !ok {
			t.Error("file on the cutoff day was removed")
		}
	})

	t.Run("missing directory is an error", func(t *testing.T) {
		if _, err := CleanupDir(afero.NewMemMapFs(), "nope", time.Now(), 7); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("removal failures are ignored", func(t *testing.T) {
		base := afero.NewMemMapFs()
		touch(t, base, "logs/2000-01-01.log")
		fs := afero.NewReadOnlyFs(base)

		removed, err := CleanupDir(fs, "logs", testTime(2024, 3, 9, 0, 0, 0), 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(removed) != 0 {
			t.Errorf("removed = %v on a read-only filesystem", removed)
		}
	})
}

func TestExpiredDayFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, name := range []string{"2024-03-09.log", "2024-02-30.log", "notes.txt", "2024-03-01.log"} {
		touch(t, fs, "logs/"+name)
	}

	expired, err := ExpiredDayFiles(fs, "logs", testTime(2024, 3, 9, 12, 0, 0), 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(expired) != 1 || expired[0] != "2024-03-01.log" {
		t.Errorf("expired = %v, want [2024-03-01.log]", expired)
	}
	if ok, _ := afero.Exists(fs, "logs/2024-03-01.log"); !ok {
		t.Error("ExpiredDayFiles must not remove anything")
	}
}
