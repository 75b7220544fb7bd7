// Package commands provides the CLI commands for bmadhub.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bmad-ai/bmadhub/internal/config"
	"github.com/bmad-ai/bmadhub/internal/logging"
	"github.com/bmad-ai/bmadhub/pkg/types"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags
var (
	printLogs bool
	logLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "bmadhub",
	Short: "bmadhub - BMAD command registry",
	Long: `bmadhub scans a BMAD installation's manifests and serves the resulting
command registry over a CLI, an HTTP API, and an MCP server.

Run 'bmadhub scan' to inspect an installation, or 'bmadhub serve' to
start the registry server.`,
	Version: Version,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand, show help
		cmd.Help()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogging(cmd)
	},
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().BoolVar(&printLogs, "print-logs", false, "Print logs to stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "Log level (DEBUG|INFO|WARN|ERROR)")

	// Version template
	rootCmd.SetVersionTemplate(fmt.Sprintf("bmadhub %s (%s)\n", Version, BuildTime))

	// Add subcommands
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(debugCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initLogging configures the global logger from the persistent flags.
// Without --print-logs the level is raised so command output stays
// clean, unless the user asked for a level explicitly.
func initLogging(cmd *cobra.Command) {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(logLevel)
	cfg.Pretty = printLogs
	if !printLogs && !cmd.Flags().Changed("log-level") {
		cfg.Level = logging.ErrorLevel
	}
	logging.Init(cfg)
}

// GetWorkDir returns the working directory from flag or current directory.
func GetWorkDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	return os.Getwd()
}

// resolveScanTarget determines the scan root and override directory,
// flags first, then configuration, then the working directory.
func resolveScanTarget(flagRoot, flagOverride string) (string, string, *types.Config, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return "", "", nil, err
	}

	appConfig, err := config.Load(workDir)
	if err != nil {
		return "", "", nil, err
	}

	root := flagRoot
	if root == "" {
		root = appConfig.Root
	}
	if root == "" {
		root = workDir
	}

	override := flagOverride
	if override == "" {
		override = appConfig.ManifestDir
	}

	return root, override, appConfig, nil
}
