package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/gsg/grep"
	"github.com/gnoswap-labs/gsg/internal/projection"
	"github.com/gnoswap-labs/gsg/internal/syntax"
	"github.com/gnoswap-labs/gsg/internal/tree"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [file]",
	Short: "Print the tree queries are evaluated against",
	Long: `Prints the projection of a Go file as XML. Every element that stands for a
syntax node carries its backreference in the __id__ attribute.
Without a file, standard input is read.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := grep.StdinName
		var source []byte
		var err error
		if len(args) == 1 {
			name = args[0]
			source, err = os.ReadFile(name)
		} else {
			source, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return fmt.Errorf("%w: %w", grep.ErrRead, err)
		}
		return dump(cmd.OutOrStdout(), name, source)
	},
}

func dump(w io.Writer, name string, source []byte) error {
	file, err := syntax.Parse(name, source)
	if err != nil {
		return fmt.Errorf("%w: %w", grep.ErrParse, err)
	}
	return tree.WriteXML(w, projection.Project(file).Doc)
}
