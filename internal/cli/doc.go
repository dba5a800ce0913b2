package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// docCmd renders one documentation page as Markdown.
var docCmd = &cobra.Command{
	Use:   "doc <rustdoc-uri>",
	Short: "Read a documentation page as Markdown",
	Long: `Fetch a single documentation page by its rustdoc:// URI (as printed by
the symbols and search commands) and render it as Markdown on stdout.

Example:
  cratedoc doc rustdoc:///home/user/app/target/doc/my-crate/struct.Foo.html`,
	Args: cobra.ExactArgs(1),
	RunE: runDoc,
}

func init() {
	rootCmd.AddCommand(docCmd)
}

func runDoc(cmd *cobra.Command, args []string) error {
	svc, _, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	md, err := svc.ReadPage(args[0])
	if err != nil {
		return err
	}

	fmt.Println(md)
	return nil
}
