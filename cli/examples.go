package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Opticity/simplex-calc/instance"
)

func NewExamplesCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "List the built-in example problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, b := range instance.Builtins() {
				sense := "max"
				if b.Minimize {
					sense = "min"
				}
				fmt.Fprintf(out, "%-10s %s  %s\n", b.Name, sense, b.Description)
			}
			return nil
		},
	}
}
