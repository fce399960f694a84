// Package logic implements the core business logic for the encryption/decryption commands.
package logic

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"

	"github.com/idelchi/envenc/internal/config"
	"github.com/idelchi/envenc/internal/encryption"
	"github.com/idelchi/envenc/internal/envfile"
	"github.com/idelchi/envenc/internal/logging"
)

// Run encrypts or decrypts every configured file.
func Run(ctx context.Context, cfg *config.Config) error {
	start := time.Now()

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	proc, err := NewProcessor(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating processor: %w", err)
	}

	processed, errored, totalSize, err := proc.ProcessFiles(ctx)

	if cfg.Stats {
		printStats(os.Stderr, len(cfg.Files), processed, errored, totalSize, time.Since(start))
	}

	if err != nil {
		return fmt.Errorf("running logic: %w", err)
	}

	return nil
}

// RunEnv decrypts the first configured container, parses it as an env file
// and writes the definitions to w in dotenv format, sorted by key.
func RunEnv(ctx context.Context, cfg *config.Config, w io.Writer) error {
	secret, err := ResolveSecret(cfg)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	fc := encryption.New(encryption.WithObserver(logging.NewObserver(logger, false)))

	text, err := fc.Decrypt(ctx, encryption.DecryptOptions{
		Secret:        secret,
		EncryptedFile: cfg.Files[0],
		Params:        encryption.Params{Algorithm: cfg.Algorithm, IVLength: cfg.IVLength},
	})
	if err != nil {
		return fmt.Errorf("decrypting %q: %w", cfg.Files[0], err)
	}

	rendered, err := godotenv.Marshal(envfile.Parse([]byte(text)))
	if err != nil {
		return fmt.Errorf("rendering env: %w", err)
	}

	if rendered == "" {
		return nil
	}

	if _, err := fmt.Fprintln(w, rendered); err != nil {
		return fmt.Errorf("writing env: %w", err)
	}

	return nil
}

func printStats(w io.Writer, scanned, processed, errored int, totalSize int64, duration time.Duration) {
	fmt.Fprintf(w, "\nStats\n")
	fmt.Fprintf(w, "  Files:     %d\n", scanned)
	fmt.Fprintf(w, "  Processed: %d\n", processed)
	fmt.Fprintf(w, "  Errors:    %d\n", errored)
	//nolint:gosec // totalSize is always non-negative (sum of file sizes)
	fmt.Fprintf(w, "  Size:      %s\n", humanize.IBytes(uint64(max(0, totalSize))))
	fmt.Fprintf(w, "  Duration:  %s\n", duration.Round(time.Millisecond))
}
