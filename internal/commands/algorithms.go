package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/idelchi/envenc/internal/encryption"
)

// NewAlgorithmsCommand creates a new cobra command listing the supported ciphers.
func NewAlgorithmsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "algorithms",
		Aliases: []string{"algos"},
		Short:   "List the supported cipher identifiers",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

			fmt.Fprintln(w, "NAME\tKEY\tIV")

			for _, name := range encryption.Algorithms() {
				alg, err := encryption.LookupAlgorithm(name)
				if err != nil {
					return err
				}

				fmt.Fprintf(w, "%s\t%d\t%d\n", name, alg.KeySize, alg.IVSize)
			}

			return w.Flush()
		},
	}
}
