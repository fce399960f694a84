package encryption

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/idelchi/envenc/internal/fileutil"
)

const (
	// DefaultSuffix is appended to the input path when no container path is given.
	DefaultSuffix = ".enc"
	// DefaultContainer is the container decrypted when no path is given.
	DefaultContainer = ".env.enc"
)

// Params selects the cipher and the container framing. Both must match between encryption and
// decryption since the container does not record them.
type Params struct {
	// Algorithm is the cipher identifier, DefaultAlgorithm when empty.
	Algorithm string
	// IVLength is the number of IV bytes at the front of the container, DefaultIVLength when zero.
	IVLength int
}

func (p Params) withDefaults() Params {
	if p.Algorithm == "" {
		p.Algorithm = DefaultAlgorithm
	}

	if p.IVLength == 0 {
		p.IVLength = DefaultIVLength
	}

	return p
}

// EncryptOptions configures a single file encryption.
type EncryptOptions struct {
	// Secret is required.
	Secret string
	// InputFile is the plaintext file, required.
	InputFile string
	// EncryptedFile is the container to write, InputFile + DefaultSuffix when empty.
	EncryptedFile string
	// Atomic writes to a temporary file and renames it into place on success.
	Atomic bool

	Params
}

// DecryptOptions configures a single container decryption.
type DecryptOptions struct {
	// Secret is required.
	Secret string
	// EncryptedFile is the container to read, DefaultContainer when empty.
	EncryptedFile string
	// OutputFile is the plaintext destination, only used by DecryptFile.
	OutputFile string
	// Atomic writes to a temporary file and renames it into place on success.
	Atomic bool

	Params
}

// Result describes a committed output file.
type Result struct {
	Input  string
	Output string
	// Size is the number of bytes written to Output.
	Size int64
}

// FileCipher encrypts files into IV-prefixed containers and decrypts them back.
// It keeps no per-call state and is safe for concurrent use on distinct files.
type FileCipher struct {
	random   io.Reader
	observer Observer
}

// Option configures a FileCipher.
type Option func(*FileCipher)

// WithRandom replaces the IV source, crypto/rand.Reader by default.
func WithRandom(r io.Reader) Option {
	return func(c *FileCipher) {
		c.random = r
	}
}

// WithObserver installs an observer notified after each file operation.
func WithObserver(o Observer) Option {
	return func(c *FileCipher) {
		c.observer = o
	}
}

// New returns a FileCipher.
func New(opts ...Option) *FileCipher {
	c := &FileCipher{
		random:   rand.Reader,
		observer: nopObserver{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Encrypt writes the container for opts.InputFile.
// Nothing is created when the secret, the input or the cipher parameters are rejected.
func (c *FileCipher) Encrypt(ctx context.Context, opts EncryptOptions) (result Result, err error) {
	if opts.EncryptedFile == "" && opts.InputFile != "" {
		opts.EncryptedFile = opts.InputFile + DefaultSuffix
	}

	opts.Params = opts.Params.withDefaults()

	event := Event{Op: OpEncrypt, Input: opts.InputFile, Output: opts.EncryptedFile, Algorithm: opts.Algorithm}

	defer func() {
		c.notify(event, result, err)
	}()

	if opts.Secret == "" {
		return Result{}, ErrInvalidSecret
	}

	input, info, err := openInput(opts.InputFile)
	if err != nil {
		return Result{}, err
	}
	defer input.Close()

	if overwrites(info, opts.EncryptedFile) {
		return Result{}, fmt.Errorf("%w: container %q would overwrite its input", ErrInvalidOptions, opts.EncryptedFile)
	}

	iv, transformer, err := c.encrypter(opts.Secret, opts.Params)
	if err != nil {
		return Result{}, err
	}

	size, err := c.commit(ctx, opts.EncryptedFile, opts.Atomic, func(w io.Writer) (int64, error) {
		if _, err := w.Write(iv); err != nil {
			return 0, fmt.Errorf("%w: writing IV: %w", ErrIO, err)
		}

		n, err := pipe(ctx, input, w, transformer)

		return int64(len(iv)) + n, err
	})
	if err != nil {
		return Result{}, err
	}

	return Result{Input: opts.InputFile, Output: opts.EncryptedFile, Size: size}, nil
}

// Decrypt returns the plaintext of opts.EncryptedFile as UTF-8 text.
// Invalid UTF-8 sequences are replaced with U+FFFD; use DecryptFile or DecryptStream for binary content.
func (c *FileCipher) Decrypt(ctx context.Context, opts DecryptOptions) (plaintext string, err error) {
	opts = decryptDefaults(opts)

	event := Event{Op: OpDecrypt, Input: opts.EncryptedFile, Algorithm: opts.Algorithm}

	var size int64

	defer func() {
		c.notify(event, Result{Size: size}, err)
	}()

	if opts.Secret == "" {
		return "", ErrInvalidSecret
	}

	input, _, err := openInput(opts.EncryptedFile)
	if err != nil {
		return "", err
	}
	defer input.Close()

	var buf bytes.Buffer

	size, err = c.DecryptStream(ctx, opts.Secret, input, &buf, opts.Params)
	if err != nil {
		return "", err
	}

	return strings.ToValidUTF8(buf.String(), "\uFFFD"), nil
}

// DecryptFile writes the plaintext of opts.EncryptedFile to opts.OutputFile.
func (c *FileCipher) DecryptFile(ctx context.Context, opts DecryptOptions) (result Result, err error) {
	opts = decryptDefaults(opts)

	event := Event{Op: OpDecrypt, Input: opts.EncryptedFile, Output: opts.OutputFile, Algorithm: opts.Algorithm}

	defer func() {
		c.notify(event, result, err)
	}()

	if opts.Secret == "" {
		return Result{}, ErrInvalidSecret
	}

	if opts.OutputFile == "" {
		return Result{}, fmt.Errorf("%w: no output file", ErrInvalidOptions)
	}

	input, info, err := openInput(opts.EncryptedFile)
	if err != nil {
		return Result{}, err
	}
	defer input.Close()

	if overwrites(info, opts.OutputFile) {
		return Result{}, fmt.Errorf("%w: output %q would overwrite its container", ErrInvalidOptions, opts.OutputFile)
	}

	transformer, err := c.decrypter(opts.Secret, input, opts.Params)
	if err != nil {
		return Result{}, err
	}

	size, err := c.commit(ctx, opts.OutputFile, opts.Atomic, func(w io.Writer) (int64, error) {
		return pipe(ctx, input, w, transformer)
	})
	if err != nil {
		return Result{}, err
	}

	return Result{Input: opts.EncryptedFile, Output: opts.OutputFile, Size: size}, nil
}

// EncryptStream writes a fresh IV followed by the encryption of r to w.
// It returns the number of bytes written, IV included.
func (c *FileCipher) EncryptStream(ctx context.Context, secret string, r io.Reader, w io.Writer, params Params) (int64, error) {
	iv, transformer, err := c.encrypter(secret, params.withDefaults())
	if err != nil {
		return 0, err
	}

	if _, err := w.Write(iv); err != nil {
		return 0, fmt.Errorf("%w: writing IV: %w", ErrIO, err)
	}

	n, err := pipe(ctx, r, w, transformer)

	return int64(len(iv)) + n, err
}

// DecryptStream reads the IV from the front of r and writes the decryption of the rest to w.
// It returns the number of plaintext bytes written.
func (c *FileCipher) DecryptStream(ctx context.Context, secret string, r io.Reader, w io.Writer, params Params) (int64, error) {
	transformer, err := c.decrypter(secret, r, params.withDefaults())
	if err != nil {
		return 0, err
	}

	return pipe(ctx, r, w, transformer)
}

// encrypter derives the key, draws a fresh IV and builds the encrypting cipher context.
func (c *FileCipher) encrypter(secret string, params Params) ([]byte, Transformer, error) {
	key, err := DeriveKey(secret)
	if err != nil {
		return nil, nil, err
	}
	defer clear(key)

	alg, err := lookup(params)
	if err != nil {
		return nil, nil, err
	}

	iv := make([]byte, params.IVLength)
	if _, err := io.ReadFull(c.random, iv); err != nil {
		return nil, nil, fmt.Errorf("%w: generating IV: %w", ErrIO, err)
	}

	transformer, err := alg.NewTransformer(key, iv, false)
	if err != nil {
		return nil, nil, err
	}

	return iv, transformer, nil
}

// decrypter derives the key, reads the IV from r and builds the decrypting cipher context.
func (c *FileCipher) decrypter(secret string, r io.Reader, params Params) (Transformer, error) {
	key, err := DeriveKey(secret)
	if err != nil {
		return nil, err
	}
	defer clear(key)

	alg, err := lookup(params)
	if err != nil {
		return nil, err
	}

	iv := make([]byte, params.IVLength)
	if _, err := io.ReadFull(r, iv); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: container shorter than its %d-byte IV", ErrDecryption, params.IVLength)
		}

		return nil, fmt.Errorf("%w: reading IV: %w", ErrIO, err)
	}

	return alg.NewTransformer(key, iv, true)
}

// commit creates the output, runs write against it and commits it only if write succeeded.
func (c *FileCipher) commit(ctx context.Context, path string, atomic bool, write func(io.Writer) (int64, error)) (int64, error) {
	output, err := fileutil.Create(path, atomic)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrIO, err)
	}

	size, err := write(output)
	if err != nil {
		output.Abort()

		return 0, err
	}

	if err := ctx.Err(); err != nil {
		output.Abort()

		return 0, err
	}

	if err := output.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrIO, err)
	}

	return size, nil
}

func (c *FileCipher) notify(event Event, result Result, err error) {
	if err != nil {
		c.observer.Failed(event, err)

		return
	}

	event.Size = result.Size
	c.observer.Succeeded(event)
}

func lookup(params Params) (Algorithm, error) {
	if params.IVLength < 0 {
		return Algorithm{}, fmt.Errorf("%w: negative IV length %d", ErrCipherInit, params.IVLength)
	}

	return LookupAlgorithm(params.Algorithm)
}

func decryptDefaults(opts DecryptOptions) DecryptOptions {
	if opts.EncryptedFile == "" {
		opts.EncryptedFile = DefaultContainer
	}

	opts.Params = opts.Params.withDefaults()

	return opts
}

// openInput opens a regular file for reading.
func openInput(path string) (*os.File, os.FileInfo, error) {
	if path == "" {
		return nil, nil, fmt.Errorf("%w: no input file", ErrInputNotFound)
	}

	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInputNotFound, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()

		return nil, nil, fmt.Errorf("%w: %w", ErrInputNotFound, err)
	}

	if info.IsDir() {
		file.Close()

		return nil, nil, fmt.Errorf("%w: %q is a directory", ErrInputNotFound, path)
	}

	return file, info, nil
}

// overwrites reports whether writing to path would replace the file described by input,
// through the same name, a symbolic link or a hard link.
func overwrites(input os.FileInfo, path string) bool {
	output, err := os.Stat(path)
	if err != nil {
		return false
	}

	return os.SameFile(input, output)
}
