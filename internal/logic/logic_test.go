package logic

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/envenc/internal/config"
	"github.com/idelchi/envenc/internal/encryption"
	"github.com/idelchi/envenc/internal/envfile"
)

func testConfig(files ...string) *config.Config {
	return &config.Config{
		Common: config.Common{
			Secret:    "batch-secret",
			EnvKey:    "ENVENC_SECRET",
			Algorithm: "aes256",
			IVLength:  16,
			LogLevel:  "error",
			LogFormat: "text",
		},
		Batch: config.Batch{
			Parallel: 3,
			Suffixes: config.Suffixes{Encrypt: ".enc"},
		},
		Files: files,
	}
}

func newTestProcessor(t *testing.T, cfg *config.Config) (*Processor, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	proc, err := NewProcessor(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer

	proc.stdout = &stdout
	proc.stderr = &stderr

	return proc, &stdout, &stderr
}

func writeFiles(t *testing.T, n int) (files []string, contents map[string]string) {
	t.Helper()

	dir := t.TempDir()
	contents = make(map[string]string, n)

	for i := range n {
		path := filepath.Join(dir, fmt.Sprintf("file%d.env", i))
		content := strings.Repeat(fmt.Sprintf("KEY_%d=value\n", i), i*500+1)

		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		files = append(files, path)
		contents[path] = content
	}

	return files, contents
}

func TestBatchRoundTrip(t *testing.T) {
	t.Parallel()

	files, contents := writeFiles(t, 6)

	proc, stdout, stderr := newTestProcessor(t, testConfig(files...))

	processed, errored, totalSize, err := proc.ProcessFiles(t.Context())
	require.NoError(t, err)
	assert.Equal(t, len(files), processed)
	assert.Zero(t, errored)
	assert.Positive(t, totalSize)
	assert.Empty(t, stderr.String())

	containers := make([]string, 0, len(files))

	for _, file := range files {
		assert.Contains(t, stdout.String(), fmt.Sprintf("Processed %q -> %q", file, file+".enc"))

		require.NoError(t, os.Remove(file))

		containers = append(containers, file+".enc")
	}

	cfg := testConfig(containers...)
	cfg.Decrypt = true

	proc, _, _ = newTestProcessor(t, cfg)

	processed, errored, _, err = proc.ProcessFiles(t.Context())
	require.NoError(t, err)
	assert.Equal(t, len(files), processed)
	assert.Zero(t, errored)

	for file, want := range contents {
		got, err := os.ReadFile(file)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	}
}

func TestBatchDelete(t *testing.T) {
	t.Parallel()

	files, _ := writeFiles(t, 3)

	cfg := testConfig(files...)
	cfg.Delete = true

	proc, stdout, _ := newTestProcessor(t, cfg)

	_, _, _, err := proc.ProcessFiles(t.Context())
	require.NoError(t, err)

	for _, file := range files {
		assert.NoFileExists(t, file)
		assert.FileExists(t, file+".enc")
		assert.Contains(t, stdout.String(), fmt.Sprintf("Deleted %q", file))
	}
}

func TestBatchQuiet(t *testing.T) {
	t.Parallel()

	files, _ := writeFiles(t, 2)

	cfg := testConfig(files...)
	cfg.Quiet = true

	proc, stdout, _ := newTestProcessor(t, cfg)

	_, _, _, err := proc.ProcessFiles(t.Context())
	require.NoError(t, err)
	assert.Empty(t, stdout.String())
}

func TestBatchPartialFailure(t *testing.T) {
	t.Parallel()

	files, _ := writeFiles(t, 3)
	missing := filepath.Join(t.TempDir(), "missing.env")

	proc, _, stderr := newTestProcessor(t, testConfig(append(files, missing)...))

	processed, errored, _, err := proc.ProcessFiles(t.Context())
	require.ErrorIs(t, err, encryption.ErrInputNotFound)
	assert.Equal(t, len(files), processed)
	assert.Equal(t, 1, errored)
	assert.Contains(t, stderr.String(), missing)

	for _, file := range files {
		assert.FileExists(t, file+".enc")
	}
}

func TestBatchStdout(t *testing.T) {
	t.Parallel()

	files, contents := writeFiles(t, 3)

	proc, _, _ := newTestProcessor(t, testConfig(files...))

	_, _, _, err := proc.ProcessFiles(t.Context())
	require.NoError(t, err)

	containers := make([]string, 0, len(files))
	want := ""

	for _, file := range files {
		containers = append(containers, file+".enc")
		want += contents[file]
	}

	cfg := testConfig(containers...)
	cfg.Decrypt = true
	cfg.Stdout = true

	proc, stdout, _ := newTestProcessor(t, cfg)

	_, _, _, err = proc.ProcessFiles(t.Context())
	require.NoError(t, err)
	assert.Equal(t, want, stdout.String())

	for _, file := range files {
		assert.FileExists(t, file, "stdout mode must not write plaintext files")
	}
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		decrypt bool
		ext     string
		output  string
		input   string
		want    string
	}{
		{name: "encrypt", input: "dir/.env", want: filepath.Join("dir", ".env.enc")},
		{name: "decrypt strips suffix", decrypt: true, input: "dir/.env.enc", want: filepath.Join("dir", ".env")},
		{name: "decrypt appends suffix", decrypt: true, ext: ".dec", input: ".env.enc", want: ".env.dec"},
		{name: "decrypt without suffix", decrypt: true, ext: ".dec", input: "secrets", want: "secrets.dec"},
		{name: "override", output: "out.bin", input: ".env", want: "out.bin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig(tt.input)
			cfg.Decrypt = tt.decrypt
			cfg.Suffixes.Decrypt = tt.ext
			cfg.Output = tt.output

			proc := &Processor{cfg: cfg}

			assert.Equal(t, tt.want, proc.outputPath(tt.input))
		})
	}
}

func TestResolveSecret(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "secrets.env")
	require.NoError(t, os.WriteFile(path, []byte("# secrets\nENVENC_SECRET = \"from file\"\nOTHER=x\n"), 0o600))

	t.Run("flag", func(t *testing.T) {
		t.Parallel()

		secret, err := ResolveSecret(&config.Config{Common: config.Common{Secret: "flag"}})
		require.NoError(t, err)
		assert.Equal(t, "flag", secret)
	})

	t.Run("env file", func(t *testing.T) {
		t.Parallel()

		secret, err := ResolveSecret(&config.Config{Common: config.Common{EnvFile: path, EnvKey: "ENVENC_SECRET"}})
		require.NoError(t, err)
		assert.Equal(t, "from file", secret)
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		_, err := ResolveSecret(&config.Config{Common: config.Common{EnvFile: path, EnvKey: "NOPE"}})
		require.ErrorIs(t, err, envfile.ErrKeyNotFound)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := ResolveSecret(&config.Config{Common: config.Common{EnvFile: path + ".missing", EnvKey: "ENVENC_SECRET"}})
		require.Error(t, err)
	})

	t.Run("none", func(t *testing.T) {
		t.Parallel()

		_, err := ResolveSecret(&config.Config{})
		require.ErrorIs(t, err, encryption.ErrInvalidSecret)
	})
}

func TestRunEnv(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	plain := filepath.Join(dir, ".env")
	container := filepath.Join(dir, ".env.enc")

	require.NoError(t, os.WriteFile(plain, []byte("# comment\nNAME=envenc\nPORT=8080\nNAME=ignored\nGREETING=\"hello world\"\n"), 0o600))

	cfg := testConfig(container)

	_, err := encryption.New().Encrypt(t.Context(), encryption.EncryptOptions{
		Secret:        cfg.Secret,
		InputFile:     plain,
		EncryptedFile: container,
	})
	require.NoError(t, err)

	var out bytes.Buffer

	require.NoError(t, RunEnv(t.Context(), cfg, &out))
	assert.Equal(t, "GREETING=\"hello world\"\nNAME=\"envenc\"\nPORT=8080\n", out.String())

	cfg.Secret = "wrong"
	out.Reset()

	err = RunEnv(t.Context(), cfg, &out)
	if err == nil {
		assert.NotContains(t, out.String(), "envenc")
	} else {
		assert.True(t, errors.Is(err, encryption.ErrDecryption))
	}
}

func TestPrintStats(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	printStats(&buf, 4, 3, 1, 2048, 0)

	assert.Contains(t, buf.String(), "Files:     4")
	assert.Contains(t, buf.String(), "Processed: 3")
	assert.Contains(t, buf.String(), "Errors:    1")
	assert.Contains(t, buf.String(), "2.0 KiB")
}
