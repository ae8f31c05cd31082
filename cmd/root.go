package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/sergev/dsk2dc/config"
	"github.com/spf13/cobra"
)

// now is the clock used for MacBinary timestamps.
var now = time.Now

// logger is set up by the root command before any subcommand runs.
var logger = slog.Default()

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "dsk2dc",
		Short: "Convert raw Macintosh disk images to Disk Copy 4.2",
		Long: `The dsk2dc tool converts raw (.dsk) Macintosh disk images to
Disk Copy 4.2 (.dc42) images, optionally wrapped in MacBinary.
Settings are read from ~/.dsk2dc.`,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		SilenceUsage: true,
		// Execute reports the error once through cobra.CheckErr.
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Initialize(); err != nil {
				return fmt.Errorf("failed to initialize config: %w", err)
			}
			level := config.LogLevel
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			logger.Debug("loaded config", "path", config.Path,
				"macbinary", config.MacBinary, "verify", config.Verify, "output_dir", config.OutputDir)
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log diagnostic details to stderr")

	rootCmd.AddCommand(newConvertCmd(), newInfoCmd(), newBlankCmd())
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	cobra.CheckErr(newRootCmd().Execute())
}
