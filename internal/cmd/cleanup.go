package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/Iron-Ham/taglog/internal/config"
	"github.com/Iron-Ham/taglog/internal/logging"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete day files older than the retention period",
	Long: `Cleanup deletes the YYYY-MM-DD.log files in the log directory that are
dated before the retention cutoff: today's midnight minus file.retention_days
days. Other files in the directory are never touched.

The file transport runs the same cleanup whenever it opens a day file; this
command is for directories no process is writing to.

Use --dry-run to see what would be deleted without making changes.`,
	Args: cobra.NoArgs,
	RunE: runCleanup,
}

var (
	cleanupDryRun    bool
	cleanupDir       string
	cleanupRetention int
)

func init() {
	rootCmd.AddCommand(cleanupCmd)
	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "Show what would be deleted without making changes")
	cleanupCmd.Flags().StringVar(&cleanupDir, "dir", "", "Log directory (default: file.dir from config)")
	cleanupCmd.Flags().IntVar(&cleanupRetention, "retention-days", 0, "Days to keep (default: file.retention_days from config)")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	dir := cleanupDir
	if dir == "" {
		var err error
		if dir, err = logDir(cfg); err != nil {
			return err
		}
	}

	days := cfg.File.RetentionDays
	if cleanupRetention > 0 {
		days = cleanupRetention
	}

	fs := afero.NewOsFs()
	today := time.Now()

	var names []string
	var err error
	if cleanupDryRun {
		names, err = logging.ExpiredDayFiles(fs, dir, today, days)
	} else {
		names, err = logging.CleanupDir(fs, dir, today, days)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	cutoff := logging.RetentionCutoff(today, days).Format("2006-01-02")
	if len(names) == 0 {
		fmt.Fprintf(out, "No day files before %s in %s.\n", cutoff, dir)
		return nil
	}

	verb := "Deleted"
	if cleanupDryRun {
		verb = "Would delete"
	}
	for _, name := range names {
		fmt.Fprintf(out, "%s %s\n", verb, filepath.Join(dir, name))
	}
	fmt.Fprintf(out, "\n%d file(s) dated before %s\n", len(names), cutoff)
	return nil
}
