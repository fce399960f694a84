package encryption

import (
	"crypto/cipher"
	"fmt"
)

// Transformer is an incremental cipher context.
// Update consumes src and returns whatever output is ready, never aliasing src.
// Final flushes buffered input and must be called exactly once after the last Update.
type Transformer interface {
	Update(src []byte) []byte
	Final() ([]byte, error)
}

// blockModeTransformer applies a block mode such as CBC with PKCS#7 padding.
// On decrypt, the last complete block is held back until Final so its padding can be removed.
type blockModeTransformer struct {
	mode      cipher.BlockMode
	blockSize int
	decrypt   bool
	pending   []byte
}

func newBlockModeTransformer(mode cipher.BlockMode, decrypt bool) *blockModeTransformer {
	return &blockModeTransformer{
		mode:      mode,
		blockSize: mode.BlockSize(),
		decrypt:   decrypt,
		pending:   make([]byte, 0, 2*mode.BlockSize()),
	}
}

func (t *blockModeTransformer) Update(src []byte) []byte {
	t.pending = append(t.pending, src...)

	ready := len(t.pending) - len(t.pending)%t.blockSize

	// Keep the final block around for unpadding.
	if t.decrypt && ready == len(t.pending) {
		ready -= t.blockSize
	}

	if ready <= 0 {
		return nil
	}

	out := make([]byte, ready)
	t.mode.CryptBlocks(out, t.pending[:ready])

	t.pending = append(t.pending[:0], t.pending[ready:]...)

	return out
}

func (t *blockModeTransformer) Final() ([]byte, error) {
	if !t.decrypt {
		padded := pkcs7Pad(t.pending, t.blockSize)
		out := make([]byte, len(padded))
		t.mode.CryptBlocks(out, padded)

		t.pending = t.pending[:0]

		return out, nil
	}

	if len(t.pending) != t.blockSize {
		return nil, fmt.Errorf("%w: wrong final block length: %w", ErrDecryption, ErrInvalidBlockSize)
	}

	last := make([]byte, t.blockSize)
	t.mode.CryptBlocks(last, t.pending)

	t.pending = t.pending[:0]

	unpadded, err := pkcs7Unpad(last, t.blockSize)
	if err != nil {
		return nil, fmt.Errorf("%w: removing padding: %w", ErrDecryption, err)
	}

	return unpadded, nil
}

// streamTransformer applies a keystream cipher; it has nothing to flush.
type streamTransformer struct {
	stream cipher.Stream
}

func (t *streamTransformer) Update(src []byte) []byte {
	out := make([]byte, len(src))
	t.stream.XORKeyStream(out, src)

	return out
}

func (t *streamTransformer) Final() ([]byte, error) {
	return nil, nil
}
