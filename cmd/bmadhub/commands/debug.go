package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bmad-ai/bmadhub/internal/config"
	"github.com/bmad-ai/bmadhub/internal/install"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Debug utilities",
	Long:  `Debug utilities for troubleshooting bmadhub configuration and setup.`,
}

var debugConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runDebugConfig,
}

var debugPathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show system paths",
	RunE:  runDebugPaths,
}

var debugInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Show the discovered installation",
	RunE:  runDebugInstall,
}

func init() {
	debugCmd.AddCommand(debugConfigCmd)
	debugCmd.AddCommand(debugPathsCmd)
	debugCmd.AddCommand(debugInstallCmd)
}

func runDebugConfig(cmd *cobra.Command, args []string) error {
	workDir, err := os.Getwd()
	if err != nil {
		return err
	}

	// Load configuration
	appConfig, err := config.Load(workDir)
	if err != nil {
		return err
	}

	// Output as JSON
	data, err := json.MarshalIndent(appConfig, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(data))
	return nil
}

func runDebugPaths(cmd *cobra.Command, args []string) error {
	workDir, err := os.Getwd()
	if err != nil {
		return err
	}

	paths := config.GetPaths()

	fmt.Println("bmadhub System Paths:")
	fmt.Println()
	fmt.Printf("  Config:   %s\n", paths.Config)
	fmt.Printf("  Data:     %s\n", paths.Data)
	fmt.Printf("  Cache:    %s\n", paths.Cache)
	fmt.Printf("  State:    %s\n", paths.State)
	fmt.Printf("  Storage:  %s\n", paths.StoragePath())
	fmt.Println()

	fmt.Println("Config Files:")
	fmt.Printf("  Active dir: %s\n", config.GetConfigDir())
	fmt.Printf("  Global:     %s\n", config.GlobalConfigPath())
	fmt.Printf("  Project:    %s\n", config.ProjectConfigPath(workDir))

	return nil
}

func runDebugInstall(cmd *cobra.Command, args []string) error {
	root, override, _, err := resolveScanTarget("", "")
	if err != nil {
		return err
	}

	inst, err := install.Discover(root, override)
	if err != nil {
		return err
	}
	if inst == nil {
		fmt.Printf("No BMAD installation found under %s\n", root)
		return nil
	}

	fmt.Printf("Project root: %s\n", inst.ProjectRoot)
	fmt.Printf("Bmad dir:     %s\n", inst.BmadDir)
	fmt.Printf("Config dir:   %s\n", inst.ConfigDir)
	fmt.Printf("Found via:    %s\n", inst.Source)
	return nil
}
