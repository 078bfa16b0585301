// internal/cli/sources.go
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/schulverzeichnis/gather/internal/source"
)

// sourcesCmd lists the configured directory sources
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the configured school directory sources",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range source.Names() {
			fmt.Fprintln(os.Stdout, name)
		}
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
