package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// ColorMode controls whether the console transport emits ANSI colors.
type ColorMode int

const (
	// ColorAlways colors every line regardless of the destination.
	ColorAlways ColorMode = iota
	// ColorAuto colors only when the destination is a terminal.
	ColorAuto
	// ColorNever writes plain lines.
	ColorNever
)

// String returns the config name of the mode.
func (m ColorMode) String() string {
	switch m {
	case ColorAlways:
		return "always"
	case ColorAuto:
		return "auto"
	case ColorNever:
		return "never"
	default:
		return "unknown"
	}
}

// ParseColorMode parses "always", "auto" or "never".
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "always", "":
		return ColorAlways, nil
	case "auto":
		return ColorAuto, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAlways, fmt.Errorf("invalid color mode %q (valid: always, auto, never)", s)
	}
}

// typeColors maps type labels to their foreground color.
var typeColors = map[string]termenv.Color{
	"INFO":  termenv.ANSIGreen,
	"WARN":  termenv.ANSIYellow,
	"ERROR": termenv.ANSIRed,
	"DEBUG": termenv.ANSIMagenta,
}

// ConsoleTransport writes colored, column aligned lines to a writer,
// standard output by default.
type ConsoleTransport struct {
	levelOverride

	mu   sync.Mutex
	out  io.Writer
	mode ColorMode
	reg  *Registry
}

// ConsoleOption configures a ConsoleTransport.
type ConsoleOption func(*ConsoleTransport)

// WithConsoleLevel overrides the registry's global level for this transport.
func WithConsoleLevel(level Level) ConsoleOption {
	return func(t *ConsoleTransport) {
		t.override(level)
	}
}

// WithConsoleWriter sets the destination (default os.Stdout).
func WithConsoleWriter(w io.Writer) ConsoleOption {
	return func(t *ConsoleTransport) {
		if w != nil {
			t.out = w
		}
	}
}

// WithColorMode sets the color mode (default ColorAlways).
func WithColorMode(mode ColorMode) ConsoleOption {
	return func(t *ConsoleTransport) {
		t.mode = mode
	}
}

// WithConsoleRegistry binds the registry the shard and widths are read from.
func WithConsoleRegistry(reg *Registry) ConsoleOption {
	return func(t *ConsoleTransport) {
		t.reg = reg
	}
}

// NewConsoleTransport creates a console transport.
func NewConsoleTransport(opts ...ConsoleOption) *ConsoleTransport {
	t := &ConsoleTransport{
		out:  os.Stdout,
		mode: ColorAlways,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// BindRegistry implements RegistryAware. The first bound registry is kept.
func (t *ConsoleTransport) BindRegistry(reg *Registry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.reg == nil {
		t.reg = reg
	}
}

// Write renders rec and writes it as one line.
func (t *ConsoleTransport) Write(rec Record) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	reg := t.reg
	if reg == nil {
		reg = Default()
	}

	line := renderRecord(reg, FamilyConsole, rec, t.painter())
	_, err := io.WriteString(t.out, line)
	return err
}

func (t *ConsoleTransport) painter() painter {
	return consolePainter(t.colorEnabled())
}

// consolePainter colors the clock gray, the type by level and the tag and
// shard cyan. With color off every field is left plain.
func consolePainter(color bool) painter {
	profile := termenv.ANSI
	if !color {
		profile = termenv.Ascii
	}

	paint := func(c termenv.Color) func(string) string {
		return func(s string) string {
			return profile.String(s).Foreground(c).String()
		}
	}

	cyan := paint(termenv.ANSICyan)
	return painter{
		time: paint(termenv.ANSIBrightBlack),
		typ: func(typ, s string) string {
			c, ok := typeColors[typ]
			if !ok {
				c = termenv.ANSIBlue
			}
			return paint(c)(s)
		},
		tag:   cyan,
		shard: cyan,
	}
}

// FormatLine renders rec the way the console transport does, using the
// given widths instead of a registry's memoized ones. A nil shard omits the
// shard field.
func FormatLine(rec Record, shard *int, w Widths, color bool) string {
	if shard == nil {
		return formatLine(rec, 0, false, w, consolePainter(color))
	}
	return formatLine(rec, *shard, true, w, consolePainter(color))
}

func (t *ConsoleTransport) colorEnabled() bool {
	switch t.mode {
	case ColorNever:
		return false
	case ColorAuto:
		f, ok := t.out.(interface{ Fd() uintptr })
		if !ok {
			return false
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	default:
		return true
	}
}
