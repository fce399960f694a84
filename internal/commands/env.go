package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/envenc/internal/config"
	"github.com/idelchi/envenc/internal/encryption"
	"github.com/idelchi/envenc/internal/logic"
)

// NewEnvCommand creates a new cobra command printing the definitions of an encrypted env file.
func NewEnvCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "env [flags] [file]",
		Short: "Print the variables of an encrypted env file",
		Long: `Decrypt an env container and print its definitions in dotenv form, sorted by key.
Without an argument, .env.enc in the current directory is read.`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: preRun(cfg, encryption.DefaultContainer, &cfg.Common),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.RunEnv(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
}
