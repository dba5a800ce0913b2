package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var symbolsProject string

// symbolsCmd lists every documented symbol in a crate.
var symbolsCmd = &cobra.Command{
	Use:   "symbols <crate>",
	Short: "List documented symbols in a crate",
	Long: `List every documented symbol in a crate's generated documentation,
sorted by fully-qualified path. Requires built documentation.

Example:
  cratedoc symbols -p ./my-project my-crate`,
	Args: cobra.ExactArgs(1),
	RunE: runSymbols,
}

func init() {
	rootCmd.AddCommand(symbolsCmd)
	symbolsCmd.Flags().StringVarP(&symbolsProject, "project", "p", ".", "path to the Cargo project root")
}

func runSymbols(cmd *cobra.Command, args []string) error {
	svc, _, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	crate := args[0]
	symbols, err := svc.ListSymbols(context.Background(), symbolsProject, crate)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tPATH\tURI")
	for _, s := range symbols {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Kind, s.Path, s.URI)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "\n%d symbols\n", len(symbols))
	return nil
}
