package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Iron-Ham/taglog/internal/config"
	"github.com/Iron-Ham/taglog/internal/logging"
	"github.com/Iron-Ham/taglog/internal/util"
	"github.com/fsnotify/fsnotify"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View the day files in the log directory",
	Long: `View, filter and export the lines written by the file transport.

By default, shows the last 50 matching lines across all day files in the
configured log directory. Lines are colored like the console and cut to the
terminal width.

Examples:
  # Show the last 50 lines
  taglog logs

  # Show all of one day
  taglog logs --day 2024-03-09 -n 0

  # Follow the current day file, switching files at midnight
  taglog logs -f

  # Only lines a WARN transport would admit
  taglog logs --level warn

  # Lines from the last hour for one tag
  taglog logs --since 1h --tag Database

  # Export matching lines
  taglog logs --grep "timeout|refused" --export out.csv --format csv`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

var (
	logsDir     string
	logsDay     string
	logsTail    int
	logsFollow  bool
	logsLevel   string
	logsTag     string
	logsShard   int
	logsSince   string
	logsGrep    string
	logsExport  string
	logsFormat  string
	logsNoColor bool
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().StringVar(&logsDir, "dir", "", "Log directory (default: file.dir from config)")
	logsCmd.Flags().StringVar(&logsDay, "day", "", "Only read the file for this day (YYYY-MM-DD)")
	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of lines to show (0 for all)")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output (like tail -f)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Show lines a transport at this level would admit (info/warn/error/debug)")
	logsCmd.Flags().StringVar(&logsTag, "tag", "", "Filter by exact tag")
	logsCmd.Flags().IntVar(&logsShard, "shard", -1, "Filter by shard number")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show logs since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Filter logs matching pattern (regex)")
	logsCmd.Flags().StringVar(&logsExport, "export", "", "Write matching lines to this file instead of printing")
	logsCmd.Flags().StringVar(&logsFormat, "format", logging.FormatJSON, "Export format (json/text/csv)")
	logsCmd.Flags().BoolVar(&logsNoColor, "no-color", false, "Disable colors")
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	dir := logsDir
	if dir == "" {
		var err error
		if dir, err = logDir(cfg); err != nil {
			return err
		}
	}

	filter, err := buildLogFilter(time.Now())
	if err != nil {
		return err
	}

	fs := afero.NewOsFs()
	var entries []logging.LogEntry
	if logsDay != "" {
		day, err := logging.ParseDay(logsDay)
		if err != nil {
			return err
		}
		entries, err = logging.ReadDayFile(fs, filepath.Join(dir, logging.DayFileName(day)))
		if err != nil {
			return err
		}
	} else {
		entries, err = logging.AggregateLogs(fs, dir)
		if err != nil {
			return err
		}
	}
	entries = logging.FilterLogs(entries, filter)

	out := cmd.OutOrStdout()

	if logsExport != "" {
		if err := logging.ExportLogEntries(fs, entries, logsExport, logsFormat); err != nil {
			return err
		}
		fmt.Fprintf(out, "Exported %d entries to %s\n", len(entries), logsExport)
		return nil
	}

	// Apply tail limit
	if logsTail > 0 && len(entries) > logsTail {
		entries = entries[len(entries)-logsTail:]
	}

	p := newLinePrinter(out, logsColor(cfg, out))
	p.print(entries)

	if logsFollow {
		return followLogs(cmd.Context(), dir, filter, p)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No matching log entries found.")
	}
	return nil
}

// buildLogFilter turns the filter flags into a LogFilter.
func buildLogFilter(now time.Time) (logging.LogFilter, error) {
	var filter logging.LogFilter

	if logsLevel != "" {
		level, err := logging.ParseLevel(logsLevel)
		if err != nil {
			return filter, err
		}
		filter.MaxLevel = level
	}

	filter.Tag = logsTag

	if logsShard >= 0 {
		shard := logsShard
		filter.Shard = &shard
	}

	if logsSince != "" {
		duration, err := time.ParseDuration(logsSince)
		if err != nil {
			return filter, fmt.Errorf("invalid duration format: %w", err)
		}
		filter.StartTime = now.Add(-duration)
	}

	if logsGrep != "" {
		grepRegex, err := regexp.Compile(logsGrep)
		if err != nil {
			return filter, fmt.Errorf("invalid grep pattern: %w", err)
		}
		filter.Pattern = grepRegex
	}

	return filter, nil
}

// logsColor applies the console color mode to the command's output.
func logsColor(cfg *config.Config, out io.Writer) bool {
	if logsNoColor {
		return false
	}
	switch cfg.ColorMode() {
	case logging.ColorNever:
		return false
	case logging.ColorAuto:
		f, ok := out.(interface{ Fd() uintptr })
		return ok && isatty.IsTerminal(f.Fd())
	default:
		return true
	}
}

// linePrinter prints entries in console format. Each batch is aligned as a
// whole: columns are widened to the widest type and tag in the batch before
// any of it is printed, and never shrink for later batches.
type linePrinter struct {
	out    io.Writer
	color  bool
	width  int
	widths logging.Widths
}

func newLinePrinter(out io.Writer, color bool) *linePrinter {
	return &linePrinter{
		out:   out,
		color: color,
		width: util.TerminalWidth(out),
	}
}

func (p *linePrinter) print(entries []logging.LogEntry) {
	for _, entry := range entries {
		p.widths.Type = max(p.widths.Type, runewidth.StringWidth(entry.Type))
		p.widths.Tag = max(p.widths.Tag, runewidth.StringWidth(entry.Tag))
	}
	for _, entry := range entries {
		line := logging.FormatLine(entry.Record(), entry.Shard, p.widths, p.color)
		fmt.Fprint(p.out, util.FitLine(line, p.width))
	}
}

// followLogs prints lines appended to the newest day file in dir until ctx
// is done. When a later day file is created it switches to that file.
func followLogs(ctx context.Context, dir string, filter logging.LogFilter, p *linePrinter) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to watch log directory: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch log directory: %w", err)
	}

	tail, err := newDayTail(dir, time.Now())
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "Following %s... (Ctrl+C to stop)\n\n", dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(event.Name)
			if _, err := logging.ParseDayFileName(name); err != nil {
				continue
			}

			if name > tail.name && event.Has(fsnotify.Create) {
				// Drain the old day before moving on
				p.print(logging.FilterLogs(tail.read(), filter))
				tail.switchTo(name)
			}
			if name == tail.name && (event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				p.print(logging.FilterLogs(tail.read(), filter))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("error watching log directory: %w", err)
		}
	}
}

// dayTail reads the lines appended to one day file since the last read.
type dayTail struct {
	dir     string
	name    string
	day     time.Time
	offset  int64
	partial string
}

// newDayTail starts at the end of the newest day file in dir, or at the
// beginning of today's file when none exists yet.
func newDayTail(dir string, now time.Time) (*dayTail, error) {
	names, err := logging.ListDayFiles(afero.NewOsFs(), dir)
	if err != nil {
		return nil, err
	}

	t := &dayTail{dir: dir}
	if len(names) == 0 {
		t.switchTo(logging.DayFileName(now))
		return t, nil
	}

	t.switchTo(names[len(names)-1])
	if info, err := os.Stat(filepath.Join(dir, t.name)); err == nil {
		t.offset = info.Size()
	}
	return t, nil
}

func (t *dayTail) switchTo(name string) {
	day, err := logging.ParseDayFileName(name)
	if err != nil {
		return
	}
	t.name = name
	t.day = day
	t.offset = 0
	t.partial = ""
}

// read returns the complete lines written since the previous read. A line
// without its newline yet is held back until the next read.
func (t *dayTail) read() []logging.LogEntry {
	file, err := os.Open(filepath.Join(t.dir, t.name))
	if err != nil {
		return nil
	}
	defer func() { _ = file.Close() }()

	if _, err := file.Seek(t.offset, io.SeekStart); err != nil {
		return nil
	}

	var entries []logging.LogEntry
	reader := bufio.NewReader(file)
	for {
		chunk, err := reader.ReadString('\n')
		t.offset += int64(len(chunk))
		t.partial += chunk
		if err != nil {
			break
		}

		line := strings.TrimRight(t.partial, "\r\n")
		t.partial = ""
		if line == "" {
			continue
		}
		entry, err := logging.ParseLine(t.day, line)
		if err != nil {
			continue
		}
		entry.File = t.name
		entries = append(entries, entry)
	}
	return entries
}
