package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Iron-Ham/taglog/internal/config"
	"github.com/Iron-Ham/taglog/internal/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var pipeCmd = &cobra.Command{
	Use:   "pipe",
	Short: "Log each line read from standard input",
	Long: `Read standard input line by line and emit every non-empty line as a
record with the given tag and level.

While reading, the config file is watched: changes to level and shard take
effect on the next line.

Examples:
  ./server 2>&1 | taglog pipe --tag server
  tail -f build.out | taglog pipe -t build -l debug`,
	Args: cobra.NoArgs,
	RunE: runPipe,
}

var (
	pipeTag   string
	pipeLevel string
	pipeWatch bool
)

func init() {
	rootCmd.AddCommand(pipeCmd)

	pipeCmd.Flags().StringVarP(&pipeTag, "tag", "t", "stdin", "Tag for every line")
	pipeCmd.Flags().StringVarP(&pipeLevel, "level", "l", "info", "Level for every line (info/warn/error/debug)")
	pipeCmd.Flags().BoolVar(&pipeWatch, "watch", true, "Apply config file changes while reading")
}

func runPipe(cmd *cobra.Command, args []string) error {
	level, err := logging.ParseLevel(pipeLevel)
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

	if pipeWatch && viper.ConfigFileUsed() != "" {
		errOut := cmd.ErrOrStderr()
		viper.OnConfigChange(func(e fsnotify.Event) {
			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintf(errOut, "Warning: ignoring change to %s: %v\n", e.Name, err)
				return
			}
			s.apply(cfg)
		})
		viper.WatchConfig()
	}

	return pipeLines(cmd.InOrStdin(), s.logger.Tag(pipeTag), level)
}

// pipeLines emits every non-empty line of r through tagged. Write failures
// have already gone to the registry's error handler and do not stop reading.
func pipeLines(r io.Reader, tagged *logging.Tagged, level logging.Level) error {
	scanner := bufio.NewScanner(r)

	// Increase buffer size for potentially long lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		_ = tagged.Log(level, line)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return nil
}
