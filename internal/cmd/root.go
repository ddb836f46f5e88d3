package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Iron-Ham/taglog/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

var rootCmd = &cobra.Command{
	Use:   "taglog",
	Short: "Leveled, tagged logging to the console and daily log files",
	Long: `Taglog writes leveled, tagged log lines to the console and to one log
file per local day, deleting day files older than the retention period.

Use it to emit records from scripts, to pipe another program's output into
rotated logs, and to read, filter and export the day files afterwards.`,
	SilenceUsage: true,
}

var (
	cfgFile string
	envFile string
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which long running
// commands such as "logs --follow" stop on.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.config/taglog/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load TAGLOG_* variables from a .env file")
}

func initConfig() {
	// Variables already set in the environment win over the file
	if envFile != "" {
		if err := gotenv.Load(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to load env file %s: %v\n", envFile, err)
		}
	}

	// The prefix must be set before SetDefaults binds the optional keys
	viper.AutomaticEnv()
	viper.SetEnvPrefix(config.EnvPrefix)
	// Replace dots with underscores for nested keys in env vars
	// e.g., TAGLOG_FILE_RETENTION_DAYS for file.retention_days
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults so they're available even without a config file
	config.SetDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/taglog")
		viper.AddConfigPath(".")
	}

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
