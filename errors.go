package encryption

import (
	"errors"
	"fmt"
)

var (
	// ErrNilKey is returned when a cipher is constructed without key material.
	ErrNilKey = errors.New("encryption: key material is nil")

	// ErrEmptyKey is returned when key material of length zero is supplied.
	ErrEmptyKey = errors.New("encryption: key material is empty")

	// ErrKeyTooShort is returned when the key material cannot hold a full subkey window
	// for the requested block size.
	ErrKeyTooShort = errors.New("encryption: key material too short for block size")

	// ErrKeySizeMismatch is returned when a key file does not have the expected length.
	ErrKeySizeMismatch = errors.New("encryption: key material size mismatch")

	// ErrInvalidKeySize is returned when a requested key size is zero or negative.
	ErrInvalidKeySize = errors.New("encryption: invalid key size")

	// ErrSeedTooShort is returned when a seed shorter than MinSeedSize is expanded.
	ErrSeedTooShort = errors.New("encryption: seed too short")
)

// DefaultKeySize is the length of the key material used by the reference key files.
// It is 2^15*13/8 + 32 bytes.
const DefaultKeySize = 53280

// MinSeedSize is the shortest seed accepted by ExpandKeyMaterial.
const MinSeedSize = 32

// contractf panics with a configuration error. Contract violations are caller
// misuse (wrong geometry, misaligned buffers) and are never data dependent.
func contractf(format string, args ...any) {
	panic("encryption: " + fmt.Sprintf(format, args...))
}
