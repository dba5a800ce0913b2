package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	buildProject  string
	buildSkipDeps bool
)

// buildCmd generates documentation for a crate.
var buildCmd = &cobra.Command{
	Use:   "build <crate>",
	Short: "Generate documentation for a crate",
	Long: `Generate documentation for a crate with cargo doc and record the result
in the artifact cache.

Example:
  cratedoc build -p ./my-project my-crate`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVarP(&buildProject, "project", "p", ".", "path to the Cargo project root")
	// Dependency docs are excluded either way; the flag exists for parity
	// with the MCP tool surface.
	buildCmd.Flags().BoolVar(&buildSkipDeps, "skip-deps", false, "accepted for compatibility; dependency docs are always excluded")
}

func runBuild(cmd *cobra.Command, args []string) error {
	svc, _, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	crate := args[0]

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(fmt.Sprintf("Building documentation for %s", crate)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
	)
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				bar.Add(1)
			}
		}
	}()

	docPath, buildErr := svc.Build(context.Background(), buildProject, crate, buildSkipDeps)
	close(done)
	bar.Finish()
	fmt.Println()

	if buildErr != nil {
		return buildErr
	}

	fmt.Printf("Documentation built: %s\n", docPath)
	return nil
}
