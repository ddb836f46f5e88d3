package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/Iron-Ham/taglog/internal/config"
	"github.com/Iron-Ham/taglog/internal/logging"
	"github.com/spf13/cobra"
)

// loggerSetup is a logger built from the configuration along with the file
// transport that has to be closed when the command ends.
type loggerSetup struct {
	cfg    *config.Config
	logger *logging.Logger
	file   *logging.FileTransport
}

// newLoggerSetup loads the configuration and builds a logger whose console
// transport writes to the command's output.
func newLoggerSetup(cmd *cobra.Command) (*loggerSetup, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return buildLogger(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// buildLogger creates a private registry for cfg and registers the enabled
// transports. Transport failures are reported to errOut.
func buildLogger(cfg *config.Config, out, errOut io.Writer) (*loggerSetup, error) {
	opts := []logging.RegistryOption{
		logging.WithLevel(cfg.Level),
		logging.WithErrorHandler(func(err error) {
			fmt.Fprintf(errOut, "Warning: %v\n", err)
		}),
	}
	if cfg.Shard != nil {
		opts = append(opts, logging.WithShard(*cfg.Shard))
	}

	s := &loggerSetup{
		cfg:    cfg,
		logger: logging.New(logging.NewRegistry(opts...)),
	}

	if cfg.Console.Enabled {
		consoleOpts := []logging.ConsoleOption{
			logging.WithConsoleWriter(out),
			logging.WithColorMode(cfg.ColorMode()),
		}
		if level, ok := cfg.ConsoleLevel(); ok {
			consoleOpts = append(consoleOpts, logging.WithConsoleLevel(level))
		}
		s.logger.AddTransport("console", logging.NewConsoleTransport(consoleOpts...))
	}

	if cfg.File.Enabled {
		dir, err := logDir(cfg)
		if err != nil {
			return nil, err
		}

		fileOpts := []logging.FileOption{logging.WithRetentionDays(cfg.File.RetentionDays)}
		if level, ok := cfg.FileLevel(); ok {
			fileOpts = append(fileOpts, logging.WithFileLevel(level))
		}
		ft, err := logging.NewFileTransport(dir, fileOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to open log directory: %w", err)
		}
		s.logger.AddTransport("file", ft)
		s.file = ft
	}

	return s, nil
}

// apply carries the level and shard of a reloaded configuration over to the
// running logger. Transports are left as they are.
func (s *loggerSetup) apply(cfg *config.Config) {
	reg := s.logger.Registry()
	reg.SetLevel(cfg.Level)
	if cfg.Shard != nil {
		_ = reg.SetShard(*cfg.Shard)
	} else {
		reg.ClearShard()
	}
	s.cfg = cfg
}

// Close closes the file transport, if any.
func (s *loggerSetup) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}

// logDir resolves the configured log directory against the working directory.
func logDir(cfg *config.Config) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return cfg.File.ResolveFileDir(cwd), nil
}
