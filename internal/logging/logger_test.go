package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/envenc/internal/encryption"
	"github.com/idelchi/envenc/internal/logging"
)

type record struct {
	Level  string `json:"level"`
	Msg    string `json:"msg"`
	Input  string `json:"input"`
	Output string `json:"output"`
	Error  string `json:"error"`
}

func records(t *testing.T, buf *bytes.Buffer) []record {
	t.Helper()

	var out []record

	dec := json.NewDecoder(buf)
	for dec.More() {
		var r record
		require.NoError(t, dec.Decode(&r))

		out = append(out, r)
	}

	return out
}

func TestObserver(t *testing.T) {
	t.Parallel()

	encrypted := encryption.Event{Op: encryption.OpEncrypt, Input: ".env", Output: ".env.enc", Algorithm: "aes256", Size: 48}

	t.Run("encrypt reminds to delete the input", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		logging.NewObserver(logging.New("debug", "json", &buf), false).Succeeded(encrypted)

		got := records(t, &buf)
		require.Len(t, got, 2)
		assert.Equal(t, "INFO", got[0].Level)
		assert.Equal(t, "file encrypted", got[0].Msg)
		assert.Equal(t, ".env.enc", got[0].Output)
		assert.Equal(t, "WARN", got[1].Level)
		assert.Equal(t, ".env", got[1].Input)
	})

	t.Run("no reminder when deleting", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		logging.NewObserver(logging.New("debug", "json", &buf), true).Succeeded(encrypted)

		got := records(t, &buf)
		require.Len(t, got, 1)
		assert.Equal(t, "INFO", got[0].Level)
	})

	t.Run("decrypt", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		logging.NewObserver(logging.New("debug", "json", &buf), false).
			Succeeded(encryption.Event{Op: encryption.OpDecrypt, Input: ".env.enc"})

		got := records(t, &buf)
		require.Len(t, got, 1)
		assert.Equal(t, "file decrypted", got[0].Msg)
	})

	t.Run("failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		logging.NewObserver(logging.New("debug", "json", &buf), false).
			Failed(encryption.Event{Op: encryption.OpDecrypt, Input: ".env.enc"}, errors.New("boom"))

		got := records(t, &buf)
		require.Len(t, got, 1)
		assert.Equal(t, "ERROR", got[0].Level)
		assert.Equal(t, "file decrypt failed", got[0].Msg)
		assert.Equal(t, "boom", got[0].Error)
	})

	t.Run("level filters", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		logging.NewObserver(logging.New("error", "json", &buf), false).Succeeded(encrypted)

		assert.Empty(t, records(t, &buf))
	})
}

func TestNewTextFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logging.New("info", "text", &buf).Info("hello", "key", "value")

	assert.Contains(t, buf.String(), "level=INFO")
	assert.Contains(t, buf.String(), "key=value")
}
