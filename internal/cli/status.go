package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusProject string

// statusCmd reports whether a crate's documentation is built.
var statusCmd = &cobra.Command{
	Use:   "status <crate>",
	Short: "Check whether a crate's documentation is built",
	Long: `Check whether locally generated documentation exists for a crate.

The answer comes from the 24-hour artifact cache when possible; on a cache
miss the target directory is resolved via cargo metadata and the entry-point
file is checked on disk.

Example:
  cratedoc status -p ./my-project serde`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVarP(&statusProject, "project", "p", ".", "path to the Cargo project root")
}

func runStatus(cmd *cobra.Command, args []string) error {
	svc, _, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	crate := args[0]
	built, err := svc.CheckStatus(context.Background(), statusProject, crate)
	if err != nil {
		return err
	}

	if built {
		fmt.Printf("%s: documentation is built\n", crate)
	} else {
		fmt.Printf("%s: documentation is not built (run 'cratedoc build %s')\n", crate, crate)
	}
	return nil
}
