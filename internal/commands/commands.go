package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"

	"github.com/idelchi/envenc/internal/config"
	"github.com/idelchi/envenc/internal/encryption"
)

// preRun returns a PreRunE handler that resolves positional args into cfg.Files,
// falling back to defaultFile, and validates the parts of cfg the command uses.
func preRun(cfg *config.Config, defaultFile string, validations ...any) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		if len(args) == 0 {
			cfg.Files = []string{defaultFile}
		} else {
			cfg.Files = args
		}

		return cobraext.Validate(cfg, validations...)
	}
}

// batchFlags registers the flags for processing many files.
func batchFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.Bool("stats", false, "Print a summary after processing")
	flags.Bool("delete", false, "Delete the original file after successful encryption/decryption")
	flags.Bool("atomic", false, "Write through a temporary file renamed into place")

	flags.String("encrypt-ext", encryption.DefaultSuffix, "Suffix to append to encrypted files")
	flags.String("decrypt-ext", "", "Suffix to append to decrypted files, after stripping the encrypted suffix")

	flags.StringP("out", "o", "", "Output path, only valid with a single input")
}
