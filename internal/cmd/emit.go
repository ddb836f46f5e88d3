package cmd

import (
	"fmt"

	"github.com/Iron-Ham/taglog/internal/logging"
	"github.com/spf13/cobra"
)

var emitCmd = &cobra.Command{
	Use:   "emit <level> <tag> <text...>",
	Short: "Emit a single log record",
	Long: `Emit one record through the configured transports.

The level is one of info (or log), warn, error, debug, or its number.
Remaining arguments are joined with single spaces.

Examples:
  taglog emit info Deploy "rollout started"
  taglog emit warn Cache miss rate is high`,
	Args: cobra.MinimumNArgs(3),
	RunE: runEmit,
}

func init() {
	rootCmd.AddCommand(emitCmd)
}

func runEmit(cmd *cobra.Command, args []string) error {
	level, err := logging.ParseLevel(args[0])
	if err != nil {
		return err
	}
	if level == logging.LevelNone {
		return fmt.Errorf("cannot emit at level %s", level)
	}

	s, err := newLoggerSetup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	values := make([]any, 0, len(args)-2)
	for _, arg := range args[2:] {
		values = append(values, arg)
	}
	return s.logger.Log(level, args[1], values...)
}
