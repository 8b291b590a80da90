package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fenilsonani/tempclean/internal/cleaner"
	"github.com/fenilsonani/tempclean/internal/config"
	"github.com/fenilsonani/tempclean/internal/history"
	"github.com/fenilsonani/tempclean/internal/platform"
	"github.com/fenilsonani/tempclean/internal/reporter"
	"github.com/fenilsonani/tempclean/internal/ui"
	"github.com/fenilsonani/tempclean/internal/ui/styles"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// Exit codes
const (
	exitError     = 1 // Runtime failure
	exitConfig    = 2 // Sweep target missing or unusable
	exitProtected = 3 // Path validator refused the target
	exitLogWrite  = 4 // Sweep ran but its log could not be written
)

// confirmPhrase must be typed exactly before an execute sweep
const confirmPhrase = "YES"

var (
	configPath string
	verbose    bool
	quiet      bool
	outputFmt  string
	envVar     string
	logDir     string
	assumeYes  bool
	dryRun     bool
	outputFile string
	noLog      bool
	limit      int
	initConfig bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "tempclean",
	Short: "Empty the temporary directory",
	Long: `tempclean deletes every entry directly inside a temporary directory.
Preview first with "scan", then "clean" after typing YES to confirm.
Without a directory argument the configured directory is used, then the
platform temp variable ($TMPDIR, or %TEMP% on Windows). When $TMPDIR is unset
$TEMP is read instead.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var scanCmd = &cobra.Command{
	Use:   "scan [directory]",
	Short: "Count what a sweep would delete",
	Long:  `Counts the immediate children of the directory without classifying or deleting anything.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.cleaner().Run(a.target(args), cleaner.ModePreview)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		if err := a.render(cmd.OutOrStdout(), report); err != nil {
			return err
		}
		return a.finish()
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean [directory]",
	Short: "Delete every entry in the temp directory",
	Long: `Deletes every immediate child of the directory. Subdirectories are removed
with all their contents. Failures on single entries are recorded and the sweep
continues. A log file named temp_clean_log_<timestamp>.txt is written afterwards.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()

		if dryRun {
			report, err := a.cleaner().Run(a.target(args), cleaner.ModePreview)
			if err != nil {
				return fmt.Errorf("clean failed: %w", err)
			}
			if err := a.render(out, report); err != nil {
				return err
			}
			return a.finish()
		}

		preview, err := a.confirmCleaner().Run(a.target(args), cleaner.ModePreview)
		if err != nil {
			return fmt.Errorf("clean failed: %w", err)
		}

		if preview.EntriesSeen == 0 {
			fmt.Fprintln(out, "✨ Nothing to clean, the directory is already empty.")
			return a.finish()
		}

		if !assumeYes {
			if !ui.IsTerminal(os.Stdin) {
				return fmt.Errorf("refusing to delete without confirmation: stdin is not a terminal, pass --yes")
			}
			if !confirm(cmd.InOrStdin(), out, preview) {
				fmt.Fprintln(out, "Cleanup cancelled")
				return nil
			}
		}

		var live *ui.LiveProgress
		if a.format == reporter.FormatSummary && ui.IsTerminal(os.Stdout) {
			live = ui.NewLiveProgress(os.Stdout)
			live.Watch(a.progress)
		}

		// Target the resolved path so the environment is not read twice
		report, runErr := a.cleaner().Run(preview.Directory, cleaner.ModeExecute)
		if live != nil {
			live.Stop()
		}
		if report == nil {
			return fmt.Errorf("clean failed: %w", runErr)
		}

		if err := a.render(out, report); err != nil {
			return err
		}
		if err := a.finish(); err != nil {
			return err
		}
		return runErr
	},
}

var interactiveCmd = &cobra.Command{
	Use:   "interactive [directory]",
	Short: "Preview, confirm and sweep in a terminal UI",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := ui.RunInteractive(confirmedSweeper{preview: a.confirmCleaner(), execute: a.cleaner()}, a.progress, a.target(args), a.cfg.ErrorPreview); err != nil {
			return err
		}
		return a.finish()
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded sweeps",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if cfg.History.DBPath == "" {
			return fmt.Errorf("history has no db_path configured")
		}
		if _, err := os.Stat(cfg.History.DBPath); os.IsNotExist(err) {
			fmt.Fprintln(cmd.OutOrStdout(), "No sweeps recorded. Enable history in the config file to start recording.")
			return nil
		}

		store, err := history.Open(cfg.History.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		sweeps, err := store.Recent(limit)
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}

		reporter.History(cmd.OutOrStdout(), sweeps)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display current configuration",
	Long:  `Shows the configuration file path and the effective settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		cfgPath := configPath
		if cfgPath == "" {
			var err error
			if cfgPath, err = config.GetConfigPath(); err != nil {
				return err
			}
		}

		if initConfig {
			if _, err := config.EnsureConfigExists(cfgPath); err != nil {
				return fmt.Errorf("failed to create config: %w", err)
			}
			fmt.Fprintf(out, "Config file written: %s\n", cfgPath)
		}

		fmt.Fprintf(out, "Config file: %s\n", cfgPath)
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			fmt.Fprintln(out, "Config file does not exist. Using default configuration.")
			fmt.Fprintln(out, "Run 'tempclean config --init' to create one.")
		}

		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Temp variable: $%s\n\n", cfg.EnvVar(platform.OSEnv{}))

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "", "output format (summary, table, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&envVar, "env-var", "", "environment variable naming the temp directory")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "directory for the sweep log file")

	// Scan and clean flags
	scanCmd.Flags().StringVar(&outputFile, "file", "", "save report to file")
	cleanCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the YES confirmation")
	cleanCmd.Flags().BoolVar(&dryRun, "dry-run", false, "count entries without deleting anything")
	cleanCmd.Flags().BoolVar(&noLog, "no-log", false, "do not write the sweep log file")
	cleanCmd.Flags().StringVar(&outputFile, "file", "", "save report to file")

	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of sweeps to show")
	configCmd.Flags().BoolVar(&initConfig, "init", false, "write a default config file")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(interactiveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

// confirm asks for the confirmation phrase and reports whether it was typed
func confirm(in io.Reader, out io.Writer, preview *cleaner.Report) bool {
	prompt := fmt.Sprintf("This will permanently delete %d entries in %s", preview.EntriesSeen, preview.Directory)
	fmt.Fprintln(out, styles.PromptStyle.Render(prompt))
	fmt.Fprintf(out, "Type %s to continue: ", confirmPhrase)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.TrimSpace(line) == confirmPhrase
}

func exitCode(err error) int {
	var cfgErr *cleaner.ConfigurationError
	if errors.As(err, &cfgErr) {
		if cfgErr.Reason == cleaner.ReasonProtected {
			return exitProtected
		}
		return exitConfig
	}

	var logErr *cleaner.LogWriteError
	if errors.As(err, &logErr) {
		return exitLogWrite
	}

	return exitError
}
