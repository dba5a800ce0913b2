package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the cratedoc release version, overridable at link time.
var Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the cratedoc version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cratedoc %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
