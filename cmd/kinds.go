package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/gsg/internal/syntax"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the element names queries can match",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, kind := range syntax.Kinds() {
			if syntax.IsDiscriminator(kind) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t(no source of its own)\n", kind)
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), kind)
		}
	},
}
