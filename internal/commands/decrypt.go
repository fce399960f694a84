package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/envenc/internal/config"
	"github.com/idelchi/envenc/internal/encryption"
	"github.com/idelchi/envenc/internal/logic"
)

// NewDecryptCommand creates a new cobra command for the decrypt subcommand.
func NewDecryptCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "decrypt [flags] [files...]",
		Aliases: []string{"dec"},
		Short:   "Decrypt files",
		Long: `Decrypt each container, stripping <encrypt-ext> and appending <decrypt-ext>.
Without arguments, .env.enc in the current directory is decrypted.`,
		Args: cobra.ArbitraryArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.Decrypt = true

			return preRun(cfg, encryption.DefaultContainer, cfg)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.Run(cmd.Context(), cfg)
		},
	}

	batchFlags(cmd)
	cmd.Flags().Bool("stdout", false, "Print the decrypted text instead of writing files")

	return cmd
}
