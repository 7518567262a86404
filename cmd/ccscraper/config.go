package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"ccscraper/pkg/config"
	errs "ccscraper/pkg/errors"
	"ccscraper/pkg/ui"
)

const defaultConfigPath = ".ccscraper.yaml"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage ccscraper configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (CCSCRAPER_*)
  - .env files (./.env, ~/.ccscraper.env)
  - Configuration file
  - Default values (lowest priority)`,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is created in the current directory as '.ccscraper.yaml' unless a
different path is given with the --config flag. An existing file is never
overwritten.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration from all sources and check it for syntax errors
and invalid values.`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

const exampleConfig = `# ccscraper configuration file
#
# Every option can also be set through environment variables prefixed with
# CCSCRAPER_, for example CCSCRAPER_TIMEOUT=1m or CCSCRAPER_LOG_LEVEL=debug.

# Archive site serving the paginated index and the model galleries
archive:
  scheme: "http"
  host: "www.onairvideo.com"
  # First (newest) archive page
  entry_path: "/croquis-cafe-photos.html"

# Host serving the photo files
assets:
  scheme: "https"
  host: "nebula.wsimg.com"

download:
  # Per-request timeout
  timeout: 30s

  # Payloads of this many bytes or fewer are rejected
  min_photo_size: 20

  # How many times a redirected request is issued again
  max_redirects: 10

  # Pause before each re-issued request
  redirect_delay: 250ms

  # Request pacing, 0 for none
  requests_per_minute: 0

  user_agent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"

  file_extension: ".jpg"

logging:
  # debug, info, warn, error
  level: "info"

  # Optional log file, in addition to the console
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if _, err := os.Stat(configPath); err == nil {
		return errs.New(errs.ErrorTypeUsage, configPath, "configuration file already exists")
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		return errs.Wrap(errs.ErrorTypeFilesystemWrite, configPath, "failed to create configuration file", err)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	if !ui.IsQuietMode() {
		fmt.Println("\nNext steps:")
		fmt.Println("1. Adjust the file if the archive has moved or you want request pacing")
		fmt.Println("2. Run 'ccscraper config validate' to check it")
		fmt.Println("3. Start harvesting with 'ccscraper run <directory-path>'")
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (CCSCRAPER_*)")
	fmt.Println("3. .env files")
	if configFile != "" {
		fmt.Printf("4. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("4. Configuration file: (searched in default locations)")
	}
	fmt.Println("5. Default values")
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		ui.PrintInfo("Validating configuration", configFile)
	}

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}

	if cfg.Download.RequestsPerMinute == 0 {
		ui.PrintWarning("Request pacing is disabled; consider requests_per_minute for long harvests")
	}

	ui.PrintSuccess("Configuration is valid")
	if !ui.IsQuietMode() {
		fmt.Println("\nConfiguration summary:")
		fmt.Printf("  Archive: %s%s\n", cfg.ArchiveBaseURL(), cfg.Archive.EntryPath)
		fmt.Printf("  Assets: %s\n", cfg.AssetBaseURL())
		fmt.Printf("  Timeout: %s\n", cfg.Download.Timeout)
		fmt.Printf("  Rate limit: %d requests/minute\n", cfg.Download.RequestsPerMinute)
		fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
	}
	return nil
}
