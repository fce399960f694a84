package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/envenc/internal/config"
	"github.com/idelchi/envenc/internal/envfile"
	"github.com/idelchi/envenc/internal/logic"
)

// NewEncryptCommand creates a new cobra command for the encrypt subcommand.
func NewEncryptCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "encrypt [flags] [files...]",
		Aliases: []string{"enc"},
		Short:   "Encrypt files",
		Long: `Encrypt each file into <file><encrypt-ext>.
Without arguments, .env in the current directory is encrypted.`,
		Args:    cobra.ArbitraryArgs,
		PreRunE: preRun(cfg, envfile.DefaultPath, cfg),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.Run(cmd.Context(), cfg)
		},
	}

	batchFlags(cmd)

	return cmd
}
