package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bmad-ai/bmadhub/internal/config"
	"github.com/bmad-ai/bmadhub/internal/registry"
	"github.com/bmad-ai/bmadhub/internal/storage"
)

var (
	scanRoot     string
	scanOverride string
	scanJSON     bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a BMAD installation and publish a snapshot",
	Long: `Scan the manifests of a BMAD installation and print a summary of the
resulting snapshot. The snapshot is persisted so later runs can read it
and 'bmadhub history' can list past scans.

Examples:
  bmadhub scan                      # Scan the current directory
  bmadhub scan --root ~/project     # Scan another project
  bmadhub scan --json               # Machine-readable summary`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanRoot, "root", "r", "", "Project root to scan")
	scanCmd.Flags().StringVar(&scanOverride, "override", "", "Directory scanned before the project root")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Output as JSON")
}

func runScan(cmd *cobra.Command, args []string) error {
	root, override, _, err := resolveScanTarget(scanRoot, scanOverride)
	if err != nil {
		return err
	}

	// Initialize paths
	paths := config.GetPaths()
	if err := paths.EnsurePaths(); err != nil {
		return err
	}

	store := storage.New(paths.StoragePath())
	reg := registry.NewWithStorage(store)

	snap, err := reg.Scan(root, override)
	if err != nil {
		return err
	}
	if snap == nil {
		fmt.Printf("No BMAD installation found under %s\n", root)
		return nil
	}

	if scanJSON {
		data, err := json.MarshalIndent(snap.Info(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Snapshot %s\n", snap.ID)
	fmt.Printf("  Root:     %s\n", snap.Root)
	fmt.Printf("  Bmad dir: %s\n", snap.BmadDir)
	fmt.Printf("  Commands: %d\n", len(snap.Commands))
	fmt.Printf("  Modules:  %d\n", len(snap.Modules))
	fmt.Printf("  Links:    %d\n", len(snap.Links))
	fmt.Printf("  Issues:   %d\n", len(snap.Issues))

	if len(snap.Issues) > 0 {
		fmt.Fprintln(os.Stderr)
		for _, issue := range snap.Issues {
			fmt.Fprintf(os.Stderr, "  [%s] %s: %s\n", issue.Stage, issue.Path, issue.Error)
		}
	}

	return nil
}
