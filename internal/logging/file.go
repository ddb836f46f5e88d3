package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Iron-Ham/taglog/internal/errors"
	"github.com/spf13/afero"
)

// DefaultRetentionDays is how many days of log files are kept unless
// configured otherwise.
const DefaultRetentionDays = 7

// FileTransport appends plain, column aligned lines to one file per local
// day in a directory, named YYYY-MM-DD.log. The day is checked on every
// write; when it has changed the file for the new day is opened and files
// older than the retention window are deleted. It is safe for concurrent use.
type FileTransport struct {
	levelOverride

	mu sync.Mutex

	// Configuration
	fs            afero.Fs
	dir           string
	retentionDays int
	now           func() time.Time
	reg           *Registry

	// State
	file       afero.File
	path       string
	currentDay time.Time
	closed     bool
}

// FileOption configures a FileTransport.
type FileOption func(*FileTransport)

// WithRetentionDays sets how many days of files are kept. Values below 1
// are raised to 1.
func WithRetentionDays(days int) FileOption {
	return func(t *FileTransport) {
		t.retentionDays = days
	}
}

// WithFileLevel overrides the registry's global level for this transport.
func WithFileLevel(level Level) FileOption {
	return func(t *FileTransport) {
		t.override(level)
	}
}

// WithFs sets the filesystem the transport writes to (default the OS).
func WithFs(fs afero.Fs) FileOption {
	return func(t *FileTransport) {
		if fs != nil {
			t.fs = fs
		}
	}
}

// WithFileClock sets the time source used for day rotation.
func WithFileClock(now func() time.Time) FileOption {
	return func(t *FileTransport) {
		if now != nil {
			t.now = now
		}
	}
}

// WithFileRegistry binds the registry the shard and widths are read from.
func WithFileRegistry(reg *Registry) FileOption {
	return func(t *FileTransport) {
		t.reg = reg
	}
}

// NewFileTransport creates the log directory if needed, opens today's file
// for appending and removes expired files. Directory and open failures are
// returned immediately.
func NewFileTransport(dir string, opts ...FileOption) (*FileTransport, error) {
	t := &FileTransport{
		fs:            afero.NewOsFs(),
		dir:           dir,
		retentionDays: DefaultRetentionDays,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.retentionDays < 1 {
		t.retentionDays = 1
	}

	if err := t.fs.MkdirAll(dir, dirPerm); err != nil {
		return nil, errors.Wrap(err, "failed to create log directory")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.openDay(Midnight(t.now())); err != nil {
		return nil, err
	}
	return t, nil
}

// openDay closes the current file, if any, opens the file for day and runs
// cleanup. The caller must hold the mutex.
func (t *FileTransport) openDay(day time.Time) error {
	var closeErr error
	if t.file != nil {
		closeErr = t.file.Close()
		t.file = nil
	}

	path := filepath.Join(t.dir, DayFileName(day))
	file, err := t.fs.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, logFilePerm)
	if err != nil {
		return errors.Join(errors.Wrap(err, "failed to open log file"), closeErr)
	}

	t.file = file
	t.path = path
	t.currentDay = day

	// Expired files must never stop logging.
	_, _ = CleanupDir(t.fs, t.dir, day, t.retentionDays)

	if closeErr != nil {
		return errors.Wrap(closeErr, "failed to close previous log file")
	}
	return nil
}

// BindRegistry implements RegistryAware. The first bound registry is kept.
func (t *FileTransport) BindRegistry(reg *Registry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.reg == nil {
		t.reg = reg
	}
}

// Write appends rec to the current day's file, rotating first if the local
// day has changed since the file was opened.
func (t *FileTransport) Write(rec Record) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return errors.ErrTransportClosed
	}

	// A failed rotation leaves no file open; the next write retries it.
	if today := Midnight(t.now()); t.file == nil || today.After(t.currentDay) {
		if err := t.openDay(today); err != nil && t.file == nil {
			return errors.Wrap(err, "failed to rotate log file")
		}
	}

	reg := t.reg
	if reg == nil {
		reg = Default()
	}

	line := renderRecord(reg, FamilyFile, rec, painter{})
	if _, err := io.WriteString(t.file, line); err != nil {
		return errors.Wrap(err, "failed to write log file")
	}
	return nil
}

// Cleanup deletes expired day files now and returns their names.
func (t *FileTransport) Cleanup() ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return CleanupDir(t.fs, t.dir, Midnight(t.now()), t.retentionDays)
}

// Path returns the path of the file currently written to.
func (t *FileTransport) Path() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.path
}

// Dir returns the log directory.
func (t *FileTransport) Dir() string {
	return t.dir
}

// RetentionDays returns the effective retention window in days.
func (t *FileTransport) RetentionDays() int {
	return t.retentionDays
}

// Sync flushes the current file to stable storage.
func (t *FileTransport) Sync() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.file == nil {
		return nil
	}
	return t.file.Sync()
}

// Close syncs and closes the current file. Later writes fail with
// ErrTransportClosed.
func (t *FileTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
	if t.file == nil {
		return nil
	}

	if err := t.file.Sync(); err != nil {
		return errors.Wrap(err, "failed to sync log file")
	}
	if err := t.file.Close(); err != nil {
		return errors.Wrap(err, "failed to close log file")
	}

	t.file = nil
	return nil
}
