package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bmad-ai/bmadhub/internal/registry"
	"github.com/bmad-ai/bmadhub/pkg/types"
)

var (
	listRoot     string
	listOverride string
	listCategory string
	listModule   string
	listJSON     bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered commands",
	Long: `List the commands of a BMAD installation.

Examples:
  bmadhub list                    # List all commands
  bmadhub list --category agent   # Only agent commands
  bmadhub list --module bmm       # Only commands from the bmm module`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listRoot, "root", "r", "", "Project root to scan")
	listCmd.Flags().StringVar(&listOverride, "override", "", "Directory scanned before the project root")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Filter by category (workflow|agent|task|tool|core)")
	listCmd.Flags().StringVarP(&listModule, "module", "m", "", "Filter by owning module")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
}

func runList(cmd *cobra.Command, args []string) error {
	reg, root, _, err := scannedRegistry(listRoot, listOverride)
	if err != nil {
		return err
	}
	if reg == nil {
		return fmt.Errorf("no bmad installation found under %s", root)
	}

	commands := reg.List(listCategory, listModule)

	if listJSON {
		data, err := json.MarshalIndent(commands, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tMODULE\tDESCRIPTION\t")
	for _, c := range commands {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", c.Name, c.Category, c.Module, c.Description)
	}
	return w.Flush()
}

// scannedRegistry scans an installation into an ephemeral registry for
// the read-only commands. Returns a nil registry when no installation
// exists under the resolved root, plus the loaded configuration.
func scannedRegistry(flagRoot, flagOverride string) (*registry.Registry, string, *types.Config, error) {
	root, override, appConfig, err := resolveScanTarget(flagRoot, flagOverride)
	if err != nil {
		return nil, "", nil, err
	}

	reg := registry.New()
	snap, err := reg.Scan(root, override)
	if err != nil {
		return nil, root, appConfig, err
	}
	if snap == nil {
		return nil, root, appConfig, nil
	}
	return reg, root, appConfig, nil
}
