// Package logging provides leveled, tagged logging with pluggable transports.
//
// Call sites emit records under a tag naming their origin. Each record is
// checked against the effective level of every registered transport and
// handed to the ones that admit it. Two transports are built in: a colored
// console writer and a file writer that rotates daily and deletes old files.
//
// # Levels
//
// Levels are ordered by verbosity, not severity:
//
//	NONE < INFO (LOG) < WARN < ERROR < DEBUG
//
// A record at level r reaches a transport whose effective level is e iff
// r <= e. DEBUG therefore admits everything and NONE admits nothing. A
// transport's effective level is its own override if it has one, else the
// registry's global level.
//
// # Registry and Logger
//
// A [Registry] holds the shared state: global level, optional shard,
// transports in registration order and the memoized column widths of each
// transport family. A [Logger] is a stateless view over one registry.
//
// Components and tests that want isolated state create their own:
//
//	reg := logging.NewRegistry(logging.WithLevel(logging.LevelWarn))
//	log := logging.New(reg)
//	log.AddTransport("console", logging.NewConsoleTransport())
//	log.Warn("Foo", "Bar", "Baz")
//
// The package-level functions ([Info], [Tag], [SetLevel], ...) use the
// process-wide registry returned by [Default], which is created on first use
// with the default console transport registered. [InitDefault] constructs it
// explicitly and fails once it exists.
//
// # Tagged Handles
//
// [Logger.Tag] binds a tag, and [Logger.TagOf] binds the type name of a
// value. Types that log hold one as a field:
//
//	type Server struct {
//	    log *logging.Tagged
//	}
//
//	func NewServer(l *logging.Logger) *Server {
//	    s := &Server{}
//	    s.log = l.TagOf(s)
//	    return s
//	}
//
// # Output Format
//
// Both built-in transports write one line per record:
//
//	[15:04:05][SHARD_03][WARN ][Foo   ]: Bar Baz
//
// The shard field appears only when a shard is set. Type and tag are padded
// to the widest values seen so far by the transport family, so columns
// realign when a longer tag shows up. Console and file widths are tracked
// separately and never shrink.
//
// # Failures
//
// Dispatch isolates transports: a transport that fails or panics does not
// prevent delivery to the others. Each failure is wrapped in a
// TransportError, passed to the registry's error handler and returned from
// [Logger.Log] joined with the rest.
//
// # Reading Logs Back
//
// [AggregateLogs] parses the day files in a directory, [FilterLogs] narrows
// the result and [ExportLogEntries] writes it as JSON, text or CSV.
package logging
