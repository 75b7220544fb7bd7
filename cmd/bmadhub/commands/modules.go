package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	modulesRoot     string
	modulesOverride string
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List installed modules",
	RunE:  runModules,
}

func init() {
	modulesCmd.Flags().StringVarP(&modulesRoot, "root", "r", "", "Project root to scan")
	modulesCmd.Flags().StringVar(&modulesOverride, "override", "", "Directory scanned before the project root")
}

func runModules(cmd *cobra.Command, args []string) error {
	reg, root, _, err := scannedRegistry(modulesRoot, modulesOverride)
	if err != nil {
		return err
	}
	if reg == nil {
		return fmt.Errorf("no bmad installation found under %s", root)
	}

	for _, module := range reg.Current().Modules {
		fmt.Println(module)
	}
	return nil
}
