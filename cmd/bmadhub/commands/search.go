package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	searchRoot     string
	searchOverride string
	searchLimit    int
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search commands by name or description",
	Long: `Search command names and descriptions for a case-insensitive
substring.

Examples:
  bmadhub search prd
  bmadhub search standup --limit 5`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchRoot, "root", "r", "", "Project root to scan")
	searchCmd.Flags().StringVar(&searchOverride, "override", "", "Directory scanned before the project root")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "Maximum number of results (default 10)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("search query required. Usage: bmadhub search <query>")
	}
	query := args[0]

	reg, root, appConfig, err := scannedRegistry(searchRoot, searchOverride)
	if err != nil {
		return err
	}
	if reg == nil {
		return fmt.Errorf("no bmad installation found under %s", root)
	}

	// Flag beats config beats the built-in default.
	limit := searchLimit
	if limit <= 0 && appConfig.Search != nil {
		limit = appConfig.Search.Limit
	}

	results := reg.Search(query, limit)

	if searchJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		fmt.Printf("No commands match %q\n", query)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tDESCRIPTION\t")
	for _, c := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t\n", c.Name, c.Category, c.Description)
	}
	return w.Flush()
}
