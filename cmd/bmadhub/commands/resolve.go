package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	resolveRoot     string
	resolveOverride string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [name]",
	Short: "Resolve a command by name",
	Long: `Resolve a command by its external name and print its record.

Both the dash form and a leading slash are accepted:
  bmadhub resolve bmad-bmm-create-prd
  bmadhub resolve /bmad-bmm-create-prd`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveRoot, "root", "r", "", "Project root to scan")
	resolveCmd.Flags().StringVar(&resolveOverride, "override", "", "Directory scanned before the project root")
}

func runResolve(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("command name required. Usage: bmadhub resolve <name>")
	}
	name := args[0]

	reg, root, _, err := scannedRegistry(resolveRoot, resolveOverride)
	if err != nil {
		return err
	}
	if reg == nil {
		return fmt.Errorf("no bmad installation found under %s", root)
	}

	command, ok := reg.Resolve(name)
	if !ok {
		if names := reg.Suggest(name, 0); len(names) > 0 {
			return fmt.Errorf("command %q not found; did you mean: %s", name, strings.Join(names, ", "))
		}
		return fmt.Errorf("command %q not found", name)
	}

	data, err := json.MarshalIndent(command, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
