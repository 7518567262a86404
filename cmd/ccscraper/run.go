package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ccscraper/pkg/config"
	"ccscraper/pkg/logger"
	"ccscraper/pkg/scraper"
	"ccscraper/pkg/ui"
)

var (
	// Run command flags
	timeout      time.Duration
	rateLimit    int
	maxRedirects int
	entryPath    string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <directory-path> [<excluded-model-name>...]",
	Short: "Harvest the archive into a directory",
	Long: `Download every photo of every model in the archive into <directory-path>.

The directory is created if it does not exist. Each model gets its own
subdirectory and photos are numbered from 0 in gallery order. Photos that are
already present are skipped without being fetched, photos that fail are
logged and skipped, and the run ends when the oldest archive page is done.`,
	Example: `  ccscraper run ./croquis
  ccscraper run ./croquis alice bob --timeout 1m`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 {
			return usageError("missing <directory-path> argument")
		}
		return nil
	},
	RunE: runHarvest,
}

func init() {
	rootCmd.AddCommand(runCmd)

	for _, cmd := range []*cobra.Command{runCmd, rootCmd} {
		cmd.Flags().DurationVar(&timeout, "timeout", 0, "per-request timeout (default from config, 30s)")
		cmd.Flags().IntVar(&rateLimit, "rate-limit", -1, "requests per minute, 0 for no limit (default from config)")
		cmd.Flags().IntVar(&maxRedirects, "max-redirects", 0, "times a redirected request is re-issued (default from config, 10)")
		cmd.Flags().StringVar(&entryPath, "entry", "", "archive path to start from (default from config)")
	}
}

func runHarvest(cmd *cobra.Command, args []string) error {
	if len(args) < 1 || strings.TrimSpace(args[0]) == "" {
		return usageError("missing <directory-path> argument")
	}
	directory := args[0]
	exclusions := args[1:]

	flags := make(map[string]interface{})
	if timeout > 0 {
		flags["timeout"] = timeout
	}
	if rateLimit >= 0 {
		flags["requests-per-minute"] = rateLimit
	}
	if maxRedirects > 0 {
		flags["max-redirects"] = maxRedirects
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return err
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd())) && !ui.IsQuietMode()
	if interactive && !verbose && logLevel == "" && cfg.Logging.Level == "info" && os.Getenv("CCSCRAPER_LOG_LEVEL") == "" {
		// keep info lines from tearing up the progress line
		cfg.Logging.Level = "warn"
	}
	if quiet && logLevel == "" {
		cfg.Logging.Level = "error"
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return err
	}
	log := logger.GetLogger()
	log.WithField("version", version).Debug("ccscraper starting")

	ui.PrintInfo("Destination", directory)
	if len(exclusions) > 0 {
		ui.PrintInfo("Excluding", strings.Join(exclusions, ", "))
	}

	ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := scraper.New(cfg, log)
	if err != nil {
		return err
	}
	s.SetProgress(ui.NewProgressLine(os.Stdout))

	_, err = s.Run(ctx, scraper.RunOptions{
		Directory:  directory,
		Exclusions: exclusions,
		EntryPath:  entryPath,
	})
	return err
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
