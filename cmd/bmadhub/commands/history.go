package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bmad-ai/bmadhub/internal/config"
	"github.com/bmad-ai/bmadhub/internal/registry"
	"github.com/bmad-ai/bmadhub/internal/storage"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past scans",
	Long: `List summaries of past scans, newest first. Only scans run through
'bmadhub scan' or 'bmadhub serve' are recorded.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of entries")
}

func runHistory(cmd *cobra.Command, args []string) error {
	paths := config.GetPaths()
	store := storage.New(paths.StoragePath())
	reg := registry.NewWithStorage(store)

	entries, err := reg.History(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No scans recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tID\tCOMMANDS\tMODULES\tISSUES\t")
	for _, entry := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t\n",
			entry.Time.Local().Format("2006-01-02 15:04:05"),
			entry.ID,
			entry.Commands,
			len(entry.Modules),
			entry.Issues,
		)
	}
	return w.Flush()
}
