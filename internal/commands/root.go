package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"

	"github.com/idelchi/envenc/internal/config"
	"github.com/idelchi/envenc/internal/encryption"
)

// NewRootCommand creates the root command with common configuration.
// It sets up environment variable binding (ENVENC_ prefix) and flag handling.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	root := cobraext.NewDefaultRootCommand(version)

	root.Use = "envenc [flags] command [flags]"
	root.Short = "Secret-keyed file encryption"
	root.Long = `Encrypt and decrypt files with a key derived from a secret.
Containers hold the random IV followed by the ciphertext.`

	flags := root.PersistentFlags()

	flags.Bool("show", false, "Show the configuration and exit")

	flags.StringP("secret", "s", "", "Secret the encryption key is derived from")
	flags.String("env-file", "", "Env file to read the secret from")
	flags.String("env-key", "ENVENC_SECRET", "Key of the secret in --env-file")

	flags.StringP("algo", "a", encryption.DefaultAlgorithm, "Cipher algorithm, see 'envenc algorithms'")
	flags.Int("iv-length", encryption.DefaultIVLength, "Length of the IV in bytes")

	flags.String("log-level", "warn", "Log level: debug, info, warn, error")
	flags.String("log-format", "text", "Log format: text, json")

	root.AddCommand(
		NewEncryptCommand(cfg),
		NewDecryptCommand(cfg),
		NewEnvCommand(cfg),
		NewAlgorithmsCommand(),
	)

	return root
}
