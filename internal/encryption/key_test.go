package encryption

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey(t *testing.T) {
	t.Parallel()

	t.Run("known digest", func(t *testing.T) {
		t.Parallel()

		key, err := DeriveKey("abc")
		require.NoError(t, err)

		assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", hex.EncodeToString(key))
	})

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()

		first, err := DeriveKey("correct horse battery staple")
		require.NoError(t, err)

		second, err := DeriveKey("correct horse battery staple")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Len(t, first, KeySize)
	})

	t.Run("distinct secrets", func(t *testing.T) {
		t.Parallel()

		seen := make(map[string]string)

		for _, secret := range []string{"a", "b", "A", "a ", "ä", "secret", "secret1", string(bytes.Repeat([]byte("x"), 4096))} {
			key, err := DeriveKey(secret)
			require.NoError(t, err)

			if other, ok := seen[string(key)]; ok {
				t.Fatalf("secrets %q and %q derived the same key", other, secret)
			}

			seen[string(key)] = secret
		}
	})

	t.Run("empty secret", func(t *testing.T) {
		t.Parallel()

		_, err := DeriveKey("")
		require.ErrorIs(t, err, ErrInvalidSecret)
	})
}

func TestPKCS7(t *testing.T) {
	t.Parallel()

	for _, size := range []int{0, 1, 15, 16, 17, 31, 32} {
		data := bytes.Repeat([]byte{0xAB}, size)

		padded := pkcs7Pad(append([]byte(nil), data...), 16)
		require.Zero(t, len(padded)%16, "size %d", size)
		require.Greater(t, len(padded), size)

		unpadded, err := pkcs7Unpad(padded, 16)
		require.NoError(t, err)
		assert.Equal(t, data, unpadded)
	}

	invalid := map[string][]byte{
		"empty":        {},
		"unaligned":    bytes.Repeat([]byte{1}, 15),
		"zero padding": append(bytes.Repeat([]byte{7}, 15), 0),
		"too large":    append(bytes.Repeat([]byte{7}, 15), 17),
		"inconsistent": append(bytes.Repeat([]byte{7}, 14), 3, 3),
	}

	for name, data := range invalid {
		_, err := pkcs7Unpad(data, 16)
		assert.Error(t, err, name)
	}
}
