package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/cratedoc/internal/search"
)

var (
	searchProject string
	searchLimit   int
)

// searchCmd searches a crate's generated documentation.
var searchCmd = &cobra.Command{
	Use:   "search <crate> <query>",
	Short: "Search a crate's documentation",
	Long: `Search a crate's generated documentation with case-insensitive substring
matching. Results are sorted by title. Requires built documentation.

Example:
  cratedoc search -p ./my-project my-crate "spawn blocking"`,
	Args: cobra.ExactArgs(2),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchProject, "project", "p", ".", "path to the Cargo project root")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 uses the configured default)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	svc, cfg, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	crate, query := args[0], args[1]

	limit := searchLimit
	if limit == 0 {
		limit = cfg.Search.DefaultLimit
	}

	results, err := svc.Search(context.Background(), searchProject, crate, query, &search.Options{Limit: limit})
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No matches.")
		return nil
	}

	for _, r := range results {
		fmt.Printf("%s\n    %s\n", r.Title, r.URI)
		if r.Snippet != "" {
			fmt.Printf("    %s\n", r.Snippet)
		}
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "\n%d results\n", len(results))
	return nil
}
