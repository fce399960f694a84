// Package config holds the command-line configuration of envenc.
package config

import (
	"errors"
	"fmt"

	"github.com/idelchi/gogen/pkg/validator"
)

// Config holds the application configuration.
type Config struct {
	// Common flags, shared by every command reading a container.
	Common `mapstructure:",squash"`

	// Batch flags, only used by encrypt and decrypt.
	Batch `mapstructure:",squash"`

	// Show prints the configuration and exits.
	Show bool

	// Decrypt selects decryption, set by the command rather than a flag.
	Decrypt bool `mapstructure:"-"`

	// Files are the positional arguments.
	Files []string `mapstructure:"-" validate:"min=1"`
}

// Common holds the secret, cipher and logging settings.
type Common struct {
	// Secret is the passphrase the key is derived from.
	Secret string `label:"--secret" mapstructure:"secret" mask:"filled" validate:"exclusive=EnvFile"`
	// EnvFile is an env file to read the secret from, under EnvKey.
	EnvFile string `label:"--env-file" mapstructure:"env-file"`
	// EnvKey is the key holding the secret in EnvFile.
	EnvKey string `label:"--env-key" mapstructure:"env-key" validate:"required_with=EnvFile"`

	// Algorithm is the cipher identifier.
	Algorithm string `label:"--algo" mapstructure:"algo" validate:"required"`
	// IVLength is the number of IV bytes at the front of each container.
	IVLength int `label:"--iv-length" mapstructure:"iv-length" validate:"min=1"`

	// LogLevel is the minimum level of diagnostic logs.
	LogLevel string `label:"--log-level" mapstructure:"log-level" validate:"oneof=debug info warn error"`
	// LogFormat selects the diagnostic log encoding.
	LogFormat string `label:"--log-format" mapstructure:"log-format" validate:"oneof=text json"`
}

// Batch holds the settings for processing many files.
type Batch struct {
	// Parallel is the number of files processed at once.
	Parallel int `label:"--parallel" validate:"min=1"`
	// Quiet suppresses per-file output.
	Quiet bool
	// Stats prints a summary after processing.
	Stats bool
	// Delete removes each input once its output has been committed.
	Delete bool
	// Atomic writes through a temporary file renamed into place.
	Atomic bool

	// Suffixes are the extensions added and stripped by encryption and decryption.
	Suffixes Suffixes `mapstructure:",squash"`

	// Output overrides the output path for a single input.
	Output string `label:"--out" mapstructure:"out"`
	// Stdout prints decrypted text instead of writing files.
	Stdout bool
}

// Suffixes holds the file extensions.
type Suffixes struct {
	// Encrypt is appended to encrypted files and stripped before decrypting.
	Encrypt string `label:"--encrypt-ext" mapstructure:"encrypt-ext" validate:"required"`
	// Decrypt is appended to decrypted files.
	Decrypt string `label:"--decrypt-ext" mapstructure:"decrypt-ext"`
}

// Display returns the value of the Show field.
func (c *Config) Display() bool {
	return c.Show
}

// Validate validates config against its struct tags, then checks the flag combinations of c.
// config is the whole Config or the part of it a command uses.
func (c *Config) Validate(config any) error {
	validator := validator.NewValidator()

	if err := registerExclusive(validator); err != nil {
		return err
	}

	if errs := validator.Validate(config); errs != nil {
		return errors.Join(errs...)
	}

	if c.Output != "" && len(c.Files) > 1 {
		return fmt.Errorf("--out requires a single input, got %d", len(c.Files))
	}

	if c.Output != "" && c.Stdout {
		return errors.New("--out and --stdout are mutually exclusive")
	}

	if c.Delete && c.Stdout {
		return errors.New("--delete and --stdout are mutually exclusive")
	}

	return nil
}
