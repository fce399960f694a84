package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"slices"
	"strings"
)

// DefaultAlgorithm is AES-256 in CBC mode with PKCS#7 padding.
const DefaultAlgorithm = "aes256"

// DefaultIVLength is the IV length used when none is configured.
const DefaultIVLength = aes.BlockSize

// Algorithm describes a named cipher and the key and IV sizes it accepts.
type Algorithm struct {
	// Name is the canonical identifier, e.g. "aes-256-cbc".
	Name string
	// KeySize is the key length in bytes.
	KeySize int
	// IVSize is the IV length in bytes.
	IVSize int

	build func(key, iv []byte, decrypt bool) (Transformer, error)
}

type aesMode func(block cipher.Block, iv []byte, decrypt bool) Transformer

//nolint:gochecknoglobals
var (
	algorithms = map[string]Algorithm{}
	aliases    = map[string]string{}
)

//nolint:gochecknoinits
func init() {
	modes := map[string]aesMode{
		"cbc": func(block cipher.Block, iv []byte, decrypt bool) Transformer {
			if decrypt {
				return newBlockModeTransformer(cipher.NewCBCDecrypter(block, iv), true)
			}

			return newBlockModeTransformer(cipher.NewCBCEncrypter(block, iv), false)
		},
		"ctr": func(block cipher.Block, iv []byte, _ bool) Transformer {
			return &streamTransformer{stream: cipher.NewCTR(block, iv)}
		},
		"cfb": func(block cipher.Block, iv []byte, decrypt bool) Transformer {
			if decrypt {
				return &streamTransformer{stream: cipher.NewCFBDecrypter(block, iv)} //nolint:staticcheck
			}

			return &streamTransformer{stream: cipher.NewCFBEncrypter(block, iv)} //nolint:staticcheck
		},
		"ofb": func(block cipher.Block, iv []byte, _ bool) Transformer {
			return &streamTransformer{stream: cipher.NewOFB(block, iv)} //nolint:staticcheck
		},
	}

	for _, bits := range []int{128, 192, 256} {
		for suffix, mode := range modes {
			register(Algorithm{
				Name:    fmt.Sprintf("aes-%d-%s", bits, suffix),
				KeySize: bits / 8,
				IVSize:  aes.BlockSize,
				build: func(key, iv []byte, decrypt bool) (Transformer, error) {
					block, err := aes.NewCipher(key)
					if err != nil {
						return nil, fmt.Errorf("%w: %w", ErrCipherInit, err)
					}

					return mode(block, iv, decrypt), nil
				},
			})
		}

		aliases[fmt.Sprintf("aes%d", bits)] = fmt.Sprintf("aes-%d-cbc", bits)
	}

	register(Algorithm{
		Name:    "chacha20",
		KeySize: KeySize,
		IVSize:  chacha20IVSize,
		build: func(key, iv []byte, _ bool) (Transformer, error) {
			stream, err := newChaCha20Stream(key, iv)
			if err != nil {
				return nil, err
			}

			return &streamTransformer{stream: stream}, nil
		},
	})
}

func register(alg Algorithm) {
	algorithms[alg.Name] = alg
}

// LookupAlgorithm resolves a case-insensitive algorithm identifier or alias.
func LookupAlgorithm(name string) (Algorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	if canonical, ok := aliases[name]; ok {
		name = canonical
	}

	alg, ok := algorithms[name]
	if !ok {
		return Algorithm{}, fmt.Errorf("%w: unsupported algorithm %q", ErrCipherInit, name)
	}

	return alg, nil
}

// Algorithms returns every accepted identifier, aliases included, sorted.
func Algorithms() []string {
	names := make([]string, 0, len(algorithms)+len(aliases))

	for name := range algorithms {
		names = append(names, name)
	}

	for alias := range aliases {
		names = append(names, alias)
	}

	slices.Sort(names)

	return names
}

// NewTransformer builds a cipher context after checking the key and IV sizes.
func (a Algorithm) NewTransformer(key, iv []byte, decrypt bool) (Transformer, error) {
	if len(key) != a.KeySize {
		return nil, fmt.Errorf("%w: %s requires a %d-byte key, got %d", ErrCipherInit, a.Name, a.KeySize, len(key))
	}

	if len(iv) != a.IVSize {
		return nil, fmt.Errorf("%w: %s requires a %d-byte IV, got %d", ErrCipherInit, a.Name, a.IVSize, len(iv))
	}

	return a.build(key, iv, decrypt)
}
