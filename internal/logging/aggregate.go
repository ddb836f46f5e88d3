package logging

// This file contains utilities for reading back, filtering and exporting the
// day files written by FileTransport.

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Iron-Ham/taglog/internal/errors"
	"github.com/spf13/afero"
)

// LogEntry is one line of a day file parsed back into its fields.
type LogEntry struct {
	Timestamp time.Time `json:"time"`
	Type      string    `json:"type"`
	Tag       string    `json:"tag"`
	Text      string    `json:"text"`
	Shard     *int      `json:"shard,omitempty"`
	File      string    `json:"file"`
}

// Level returns the level named by the entry's type label, or LevelNone.
func (e LogEntry) Level() Level {
	l, err := ParseLevel(e.Type)
	if err != nil {
		return LevelNone
	}
	return l
}

// Record returns the entry as a record.
func (e LogEntry) Record() Record {
	return Record{Timestamp: e.Timestamp, Type: e.Type, Tag: e.Tag, Text: e.Text}
}

// linePattern matches lines produced by formatLine without colors.
var linePattern = regexp.MustCompile(`^\[(\d{2}):(\d{2}):(\d{2})\](?:\[SHARD_(\d+)\])?\[([^\]]*)\]\[([^\]]*)\]: (.*)$`)

// ParseLine parses one plain line written on day. Column padding is trimmed.
func ParseLine(day time.Time, line string) (LogEntry, error) {
	m := linePattern.FindStringSubmatch(strings.TrimRight(line, "\r\n"))
	if m == nil {
		return LogEntry{}, fmt.Errorf("unrecognized log line: %q", line)
	}

	h, _ := strconv.Atoi(m[1])
	mi, _ := strconv.Atoi(m[2])
	s, _ := strconv.Atoi(m[3])
	y, mo, d := day.Date()

	entry := LogEntry{
		Timestamp: time.Date(y, mo, d, h, mi, s, 0, time.Local),
		Type:      strings.TrimRight(m[5], " "),
		Tag:       strings.TrimRight(m[6], " "),
		Text:      m[7],
	}
	if m[4] != "" {
		shard, err := strconv.Atoi(m[4])
		if err != nil {
			return LogEntry{}, errors.Wrap(err, "invalid shard in log line")
		}
		entry.Shard = &shard
	}
	return entry, nil
}

// ReadDayFile parses every line of one day file. Lines that do not parse are
// skipped, which allows partial recovery from corrupted files.
func ReadDayFile(fs afero.Fs, path string) ([]LogEntry, error) {
	name := filepath.Base(path)
	day, err := ParseDayFileName(name)
	if err != nil {
		return nil, err
	}

	file, err := fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "no log file for %s", strings.TrimSuffix(name, dayFileExt))
		}
		return nil, errors.Wrap(err, "failed to open log file")
	}
	defer func() { _ = file.Close() }()

	var entries []LogEntry
	scanner := bufio.NewScanner(file)

	// Increase buffer size for potentially long log lines
	const maxScanTokenSize = 1024 * 1024 // 1MB
	buf := make([]byte, maxScanTokenSize)
	scanner.Buffer(buf, maxScanTokenSize)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		entry, err := ParseLine(day, line)
		if err != nil {
			continue
		}
		entry.File = name
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading log file")
	}
	return entries, nil
}

// AggregateLogs reads every day file in dir. Entries are returned sorted by
// timestamp in ascending order; entries with equal timestamps keep file order.
func AggregateLogs(fs afero.Fs, dir string) ([]LogEntry, error) {
	names, err := ListDayFiles(fs, dir)
	if err != nil {
		return nil, err
	}

	var entries []LogEntry
	for _, name := range names {
		dayEntries, err := ReadDayFile(fs, filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		entries = append(entries, dayEntries...)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, nil
}

// LogFilter defines criteria for filtering log entries. Criteria are
// combined with AND logic; zero values disable a criterion.
type LogFilter struct {
	// MaxLevel keeps entries a transport at this level would admit.
	// LevelNone means no level filtering.
	MaxLevel Level

	// Tag keeps entries with exactly this tag.
	Tag string

	// StartTime keeps entries at or after this time.
	StartTime time.Time

	// EndTime keeps entries at or before this time.
	EndTime time.Time

	// Shard keeps entries written under this shard.
	Shard *int

	// MessageContains keeps entries whose text contains this substring.
	MessageContains string

	// Pattern keeps entries whose text matches this expression.
	Pattern *regexp.Regexp
}

// IsEmpty reports whether no criteria are set.
func (f LogFilter) IsEmpty() bool {
	return f.MaxLevel == LevelNone &&
		f.Tag == "" &&
		f.StartTime.IsZero() &&
		f.EndTime.IsZero() &&
		f.Shard == nil &&
		f.MessageContains == "" &&
		f.Pattern == nil
}

// Match reports whether entry satisfies every criterion.
func (f LogFilter) Match(entry LogEntry) bool {
	if f.MaxLevel != LevelNone {
		level := entry.Level()
		if level == LevelNone || !f.MaxLevel.Admits(level) {
			return false
		}
	}
	if f.Tag != "" && entry.Tag != f.Tag {
		return false
	}
	if !f.StartTime.IsZero() && entry.Timestamp.Before(f.StartTime) {
		return false
	}
	if !f.EndTime.IsZero() && entry.Timestamp.After(f.EndTime) {
		return false
	}
	if f.Shard != nil && (entry.Shard == nil || *entry.Shard != *f.Shard) {
		return false
	}
	if f.MessageContains != "" && !strings.Contains(entry.Text, f.MessageContains) {
		return false
	}
	if f.Pattern != nil && !f.Pattern.MatchString(entry.Text) {
		return false
	}
	return true
}

// FilterLogs returns the entries matching filter.
func FilterLogs(entries []LogEntry, filter LogFilter) []LogEntry {
	if filter.IsEmpty() {
		return entries
	}

	var filtered []LogEntry
	for _, entry := range entries {
		if filter.Match(entry) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// Export formats.
const (
	FormatJSON = "json"
	FormatText = "text"
	FormatCSV  = "csv"
)

// ExportLogEntries writes entries to outputPath on fs in the given format.
// Supported formats: "json", "text", "csv".
func ExportLogEntries(fs afero.Fs, entries []LogEntry, outputPath string, format string) error {
	format = strings.ToLower(format)
	if !validExportFormat(format) {
		return fmt.Errorf("unsupported export format: %s (supported: json, text, csv)", format)
	}

	file, err := fs.Create(outputPath)
	if err != nil {
		return errors.Wrap(err, "failed to create output file")
	}
	defer func() { _ = file.Close() }()

	return WriteLogEntries(file, entries, format)
}

// WriteLogEntries writes entries to w in the given format.
func WriteLogEntries(w io.Writer, entries []LogEntry, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		return exportJSON(w, entries)
	case FormatText:
		return exportText(w, entries)
	case FormatCSV:
		return exportCSV(w, entries)
	default:
		return fmt.Errorf("unsupported export format: %s (supported: json, text, csv)", format)
	}
}

func validExportFormat(format string) bool {
	switch format {
	case FormatJSON, FormatText, FormatCSV:
		return true
	}
	return false
}

// exportJSON writes entries as a JSON array.
func exportJSON(w io.Writer, entries []LogEntry) error {
	if entries == nil {
		entries = []LogEntry{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(entries)
}

// exportText writes entries back in the unpadded line layout, prefixed with
// the full date.
func exportText(w io.Writer, entries []LogEntry) error {
	for _, entry := range entries {
		var sb strings.Builder
		sb.WriteString(entry.Timestamp.Format("2006-01-02 15:04:05"))
		sb.WriteString(" ")
		if entry.Shard != nil {
			sb.WriteString("[" + ShardLabel(*entry.Shard) + "]")
		}
		sb.WriteString("[" + entry.Type + "][" + entry.Tag + "]: " + entry.Text + "\n")

		if _, err := io.WriteString(w, sb.String()); err != nil {
			return errors.Wrap(err, "failed to write text entry")
		}
	}
	return nil
}

// exportCSV writes entries as CSV with headers.
func exportCSV(w io.Writer, entries []LogEntry) error {
	writer := csv.NewWriter(w)

	headers := []string{"timestamp", "type", "tag", "shard", "text", "file"}
	if err := writer.Write(headers); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}

	for _, entry := range entries {
		shard := ""
		if entry.Shard != nil {
			shard = strconv.Itoa(*entry.Shard)
		}

		record := []string{
			entry.Timestamp.Format(time.RFC3339),
			entry.Type,
			entry.Tag,
			shard,
			entry.Text,
			entry.File,
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, "failed to write CSV record")
		}
	}

	writer.Flush()
	return writer.Error()
}
