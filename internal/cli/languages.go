package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asimihsan/code-digest/internal/syntax"
)

// languagesCmd lists every language the digester can parse.
var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages and their extensions",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, name := range syntax.Languages() {
			adapter, _ := syntax.Lookup(name)
			fmt.Fprintf(out, "%-12s %s\n", name, strings.Join(adapter.Extensions(), " "))
		}
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
