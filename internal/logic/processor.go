package logic

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/idelchi/envenc/internal/config"
	"github.com/idelchi/envenc/internal/encryption"
	"github.com/idelchi/envenc/internal/envfile"
	"github.com/idelchi/envenc/internal/logging"
)

// Result represents the outcome of processing a single file.
type Result struct {
	// Input file path
	Input string

	// Output file path, empty when printing to stdout
	Output string

	// Output size in bytes
	OutputSize int64

	// Text is the decrypted plaintext when printing to stdout
	Text string

	// Any error that occurred during processing
	Error error
}

// Processor encrypts or decrypts the configured files with a bounded number of workers.
type Processor struct {
	// cfg contains runtime configuration options
	cfg *config.Config

	// cipher performs the per-file operations
	cipher *encryption.FileCipher

	// secret is resolved once from the flag or the env file
	secret string

	// results channels processing outcomes to the printer goroutine
	results chan Result

	stdout io.Writer
	stderr io.Writer
}

// NewProcessor resolves the secret and creates a Processor logging through logger.
func NewProcessor(cfg *config.Config, logger *slog.Logger) (*Processor, error) {
	secret, err := ResolveSecret(cfg)
	if err != nil {
		return nil, err
	}

	observer := logging.NewObserver(logger, cfg.Delete)

	return &Processor{
		cfg:     cfg,
		cipher:  encryption.New(encryption.WithObserver(observer)),
		secret:  secret,
		results: make(chan Result, len(cfg.Files)),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}, nil
}

// ResolveSecret returns the secret given directly or read from the configured env file.
func ResolveSecret(cfg *config.Config) (string, error) {
	secret := cfg.Secret

	if cfg.EnvFile != "" {
		value, err := envfile.Lookup(cfg.EnvFile, cfg.EnvKey)
		if err != nil {
			return "", fmt.Errorf("reading secret: %w", err)
		}

		secret = value
	}

	if secret == "" {
		return "", fmt.Errorf("%w: no secret provided, use --secret, ENVENC_SECRET or --env-file", encryption.ErrInvalidSecret)
	}

	return secret, nil
}

// ProcessFiles concurrently processes all files specified in the configuration.
// Every file is attempted; the first error is returned once all workers are done.
//
//nolint:cyclop,gocognit
func (p *Processor) ProcessFiles(ctx context.Context) (processed, errored int, totalSize int64, err error) {
	group := errgroup.Group{}
	group.SetLimit(p.cfg.Parallel)

	// Printed plaintext keeps the order of the inputs.
	if p.cfg.Stdout {
		group.SetLimit(1)
	}

	done := make(chan struct{})

	go func() {
		defer close(done)

		for result := range p.results {
			if result.Error != nil {
				errored++

				fmt.Fprintf(p.stderr, "Error processing %q: %v\n", result.Input, result.Error)

				continue
			}

			processed++

			totalSize += result.OutputSize

			switch {
			case p.cfg.Stdout:
				fmt.Fprint(p.stdout, result.Text)
			case !p.cfg.Quiet:
				fmt.Fprintf(p.stdout, "Processed %q -> %q\n", result.Input, result.Output)
			}

			if p.cfg.Delete {
				if err := os.Remove(result.Input); err != nil {
					fmt.Fprintf(p.stderr, "Error deleting %q: %v\n", result.Input, err)
				} else if !p.cfg.Quiet {
					fmt.Fprintf(p.stdout, "Deleted %q\n", result.Input)
				}
			}
		}
	}()

	for _, file := range p.cfg.Files {
		group.Go(func() error {
			result := p.processFile(ctx, file)

			p.results <- result

			return result.Error
		})
	}

	err = group.Wait()

	close(p.results)

	<-done // Wait for printer to finish

	if err != nil {
		return processed, errored, totalSize, fmt.Errorf("processing files: %w", err)
	}

	return processed, errored, totalSize, nil
}

// processFile encrypts or decrypts a single file according to the configuration.
func (p *Processor) processFile(ctx context.Context, filename string) Result {
	params := encryption.Params{Algorithm: p.cfg.Algorithm, IVLength: p.cfg.IVLength}

	if p.cfg.Decrypt && p.cfg.Stdout {
		text, err := p.cipher.Decrypt(ctx, encryption.DecryptOptions{
			Secret:        p.secret,
			EncryptedFile: filename,
			Params:        params,
		})
		if err != nil {
			return Result{Input: filename, Error: err}
		}

		return Result{Input: filename, Text: text, OutputSize: int64(len(text))}
	}

	var (
		result encryption.Result
		err    error
	)

	if p.cfg.Decrypt {
		result, err = p.cipher.DecryptFile(ctx, encryption.DecryptOptions{
			Secret:        p.secret,
			EncryptedFile: filename,
			OutputFile:    p.outputPath(filename),
			Atomic:        p.cfg.Atomic,
			Params:        params,
		})
	} else {
		result, err = p.cipher.Encrypt(ctx, encryption.EncryptOptions{
			Secret:        p.secret,
			InputFile:     filename,
			EncryptedFile: p.outputPath(filename),
			Atomic:        p.cfg.Atomic,
			Params:        params,
		})
	}

	if err != nil {
		return Result{Input: filename, Error: err}
	}

	return Result{Input: result.Input, Output: result.Output, OutputSize: result.Size}
}

// outputPath generates the output file path based on the input filename
// and the configured suffixes for encryption/decryption.
func (p *Processor) outputPath(filename string) string {
	if p.cfg.Output != "" {
		return p.cfg.Output
	}

	ext := p.cfg.Suffixes.Encrypt

	if p.cfg.Decrypt {
		filename = strings.TrimSuffix(filename, p.cfg.Suffixes.Encrypt)
		ext = p.cfg.Suffixes.Decrypt
	}

	return filepath.Join(filepath.Dir(filename), filepath.Base(filename)+ext)
}
