package encryption

import "errors"

var (
	// ErrInvalidSecret is returned when the secret is empty.
	ErrInvalidSecret = errors.New("invalid secret")
	// ErrInputNotFound is returned when the input file or container does not exist, is not readable
	// (for example permission denied) or is a directory. The wrapped cause tells these apart.
	ErrInputNotFound = errors.New("input not found or not readable")
	// ErrCipherInit is returned when the algorithm is unknown or incompatible with the key or IV length.
	ErrCipherInit = errors.New("cipher initialization failed")
	// ErrIO is returned when reading the input or writing the output fails mid-stream.
	// A partially written, non-atomic output may remain on disk and is not valid.
	ErrIO = errors.New("i/o failure")
	// ErrDecryption is returned when cipher finalization fails on decrypt.
	// The container carries no integrity tag, so a wrong secret, a wrong algorithm
	// and a corrupted container all surface as this same error.
	ErrDecryption = errors.New("decryption failed")
	// ErrInvalidOptions is returned when the options would make the output overwrite its own input.
	ErrInvalidOptions = errors.New("invalid options")

	// ErrInvalidPadding is returned when PKCS#7 padding is malformed.
	ErrInvalidPadding = errors.New("invalid padding")
	// ErrInvalidBlockSize is returned when ciphertext length is not aligned with the cipher block size.
	ErrInvalidBlockSize = errors.New("ciphertext is not a multiple of block size")
)
