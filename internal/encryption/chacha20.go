package encryption

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/chacha20"
)

// chacha20IVSize is the OpenSSL layout: a 4-byte little-endian block counter followed by a 12-byte nonce.
const chacha20IVSize = 4 + chacha20.NonceSize

// chacha20BlockSize is the keystream produced per counter increment.
const chacha20BlockSize = 64

// chacha20Stream is a cipher.Stream over ChaCha20 whose 32-bit block counter carries into the
// first nonce word instead of panicking on overflow.
type chacha20Stream struct {
	key   []byte
	nonce [chacha20.NonceSize]byte

	cipher *chacha20.Cipher
	// left is the number of keystream bytes the current cipher can produce before its counter wraps.
	left uint64
}

func newChaCha20Stream(key, iv []byte) (*chacha20Stream, error) {
	if len(iv) != chacha20IVSize {
		return nil, fmt.Errorf("%w: chacha20 requires a %d-byte IV, got %d", ErrCipherInit, chacha20IVSize, len(iv))
	}

	s := &chacha20Stream{key: append([]byte(nil), key...)}
	copy(s.nonce[:], iv[4:])

	if err := s.reset(binary.LittleEndian.Uint32(iv[:4])); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *chacha20Stream) reset(counter uint32) error {
	c, err := chacha20.NewUnauthenticatedCipher(s.key, s.nonce[:])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCipherInit, err)
	}

	c.SetCounter(counter)

	const blocks = uint64(1) << 32

	s.cipher = c
	s.left = (blocks - uint64(counter)) * chacha20BlockSize

	return nil
}

func (s *chacha20Stream) XORKeyStream(dst, src []byte) {
	for len(src) > 0 {
		if s.left == 0 {
			word := binary.LittleEndian.Uint32(s.nonce[:4]) + 1
			binary.LittleEndian.PutUint32(s.nonce[:4], word)

			// The key and nonce sizes were already accepted once.
			if err := s.reset(0); err != nil {
				panic(err)
			}
		}

		n := uint64(len(src))
		if n > s.left {
			n = s.left
		}

		s.cipher.XORKeyStream(dst[:n], src[:n])
		s.left -= n

		dst, src = dst[n:], src[n:]
	}
}
