package logging

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/Iron-Ham/taglog/internal/errors"
	"github.com/spf13/afero"
)

const (
	dayLayout   = "2006-01-02"
	dayFileExt  = ".log"
	dirPerm     = 0755
	logFilePerm = 0644
)

// dayFilePattern matches exactly the names produced by DayFileName.
var dayFilePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})\.log$`)

// dayPattern matches a bare YYYY-MM-DD string.
var dayPattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// Midnight returns local midnight of the day containing t.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// DayFileName returns the log file name for the local day containing t,
// e.g. "2024-03-09.log".
func DayFileName(t time.Time) string {
	return t.Local().Format(dayLayout) + dayFileExt
}

// IsDayFileName reports whether name has the YYYY-MM-DD.log shape.
func IsDayFileName(name string) bool {
	return dayFilePattern.MatchString(name)
}

// ParseDayFileName returns local midnight of the day encoded in a
// YYYY-MM-DD.log name.
func ParseDayFileName(name string) (time.Time, error) {
	m := dayFilePattern.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q", errors.ErrInvalidDate, name)
	}
	return dateFromParts(name, m[1], m[2], m[3])
}

// ParseDay parses a YYYY-MM-DD string as local midnight.
func ParseDay(s string) (time.Time, error) {
	m := dayPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q", errors.ErrInvalidDate, s)
	}
	return dateFromParts(s, m[1], m[2], m[3])
}

// dateFromParts builds the date and rejects values time.Date would
// normalize, such as month 13 or February 30.
func dateFromParts(src, ys, ms, ds string) (time.Time, error) {
	y, _ := strconv.Atoi(ys)
	m, _ := strconv.Atoi(ms)
	d, _ := strconv.Atoi(ds)

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, fmt.Errorf("%w: %q", errors.ErrInvalidDate, src)
	}
	return t, nil
}

// RetentionCutoff returns the earliest day kept when retaining retentionDays
// days before today. Files dated strictly before it are deleted.
func RetentionCutoff(today time.Time, retentionDays int) time.Time {
	if retentionDays < 1 {
		retentionDays = 1
	}
	return Midnight(today).AddDate(0, 0, -retentionDays)
}

// ExpiredDayFiles returns the day files in dir dated before the retention
// cutoff for today, sorted. Day-file names that are not real dates are
// skipped.
func ExpiredDayFiles(fs afero.Fs, dir string, today time.Time, retentionDays int) ([]string, error) {
	names, err := ListDayFiles(fs, dir)
	if err != nil {
		return nil, err
	}

	cutoff := RetentionCutoff(today, retentionDays)

	var expired []string
	for _, name := range names {
		day, err := ParseDayFileName(name)
		if err != nil || !day.Before(cutoff) {
			continue
		}
		expired = append(expired, name)
	}
	return expired, nil
}

// CleanupDir deletes day files in dir dated before the retention cutoff for
// today. Names that are not day files are left alone, as are day-file names
// that are not real dates. Removal failures are ignored. It returns the
// names it removed, sorted.
func CleanupDir(fs afero.Fs, dir string, today time.Time, retentionDays int) ([]string, error) {
	expired, err := ExpiredDayFiles(fs, dir, today, retentionDays)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, name := range expired {
		if err := fs.Remove(filepath.Join(dir, name)); err != nil {
			continue
		}
		removed = append(removed, name)
	}
	return removed, nil
}

// ListDayFiles returns the day files in dir ordered by date.
func ListDayFiles(fs afero.Fs, dir string) ([]string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list log directory")
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, err := ParseDayFileName(entry.Name()); err == nil {
			names = append(names, entry.Name())
		}
	}

	// YYYY-MM-DD sorts lexically in date order
	sort.Strings(names)
	return names, nil
}
