// Package encryption encrypts files with a key derived from a passphrase.
//
// The key is the SHA-256 of the secret. Each encryption draws a fresh random IV and produces a
// container laid out as IV followed by the ciphertext, with no header, length or integrity tag.
// The algorithm and IV length are therefore not recorded and must be supplied again on decrypt.
// Input is streamed through a bounded reader, cipher and writer pipeline in both directions.
//
// There is no authentication: a wrong secret and a corrupted container are indistinguishable,
// and either may decrypt to garbage instead of failing.
package encryption
