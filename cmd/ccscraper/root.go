package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	errs "ccscraper/pkg/errors"
	"ccscraper/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	noColor    bool
	quiet      bool
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ccscraper <directory-path> [<excluded-model-name>...]",
	Short: "Harvest the Croquis Cafe photo archive into per-model folders",
	Long: `ccscraper walks the paginated Croquis Cafe photo archive from the newest page
to the oldest, opens every model gallery it lists and downloads each photo to
<directory-path>/<model-name>/<n>.jpg.

Runs are resumable: photos already on disk are never fetched again, so an
interrupted harvest is completed by running the same command again.

Model names given after the directory are skipped entirely.`,
	Example: `  # Harvest everything into ./croquis
  ccscraper ./croquis

  # Skip two models
  ccscraper run ./croquis alice bob

  # Be gentle with the server
  ccscraper run ./croquis --rate-limit 30`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || os.Getenv("NO_COLOR") != "" {
			ui.SetColorEnabled(false)
		}
		if quiet {
			ui.SetQuietMode(true)
		}
	},
}

// Execute runs the command line and maps the outcome to a process exit code.
// This is the only place where errors turn into exit behavior.
func Execute() int {
	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return 0
	}

	ui.PrintError("Error", err)
	if errs.IsType(err, errs.ErrorTypeUsage) {
		fmt.Fprintln(os.Stderr)
		fmt.Fprint(os.Stderr, cmd.UsageString())
	}

	return errs.ExitCode(err)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.ccscraper.yaml or ~/.config/ccscraper/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show info logs alongside the progress line")

	rootCmd.SetVersionTemplate(`ccscraper {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// A bare "ccscraper <dir>" behaves like "ccscraper run <dir>"
	rootCmd.Args = cobra.ArbitraryArgs
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 && !isKnownCommand(args[0]) {
			return runCmd.RunE(cmd, args)
		}
		return usageError("missing <directory-path> argument")
	}
}

func isKnownCommand(arg string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == arg || cmd.HasAlias(arg) {
			return true
		}
	}
	return false
}

func usageError(msg string) error {
	return errs.New(errs.ErrorTypeUsage, "", msg)
}
