package encryption

import (
	"crypto/rand"
	"fmt"
)

// KeyMaterial is the large secret buffer every subkey window is cut from.
//
// The buffer is 8-byte aligned and never written after construction, so a single
// KeyMaterial can back any number of engines on any number of goroutines.
type KeyMaterial struct {
	buf   []byte
	audit *WindowAudit
}

// NewKeyMaterial copies key into a freshly allocated, 8-byte aligned buffer.
func NewKeyMaterial(key []byte) *KeyMaterial {
	buf := alignedBuffer(len(key))
	copy(buf, key)
	return &KeyMaterial{buf: buf}
}

// GenerateKeyMaterial returns size bytes of key material read from crypto/rand.
func GenerateKeyMaterial(size int) (*KeyMaterial, error) {
	if size <= 0 {
		return nil, ErrInvalidKeySize
	}
	buf := alignedBuffer(size)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return &KeyMaterial{buf: buf}, nil
}

// Len returns the size of the key material in bytes.
func (k *KeyMaterial) Len() int {
	return len(k.buf)
}

// Bytes returns a copy of the key material.
func (k *KeyMaterial) Bytes() []byte {
	out := make([]byte, len(k.buf))
	copy(out, k.buf)
	return out
}

// WithAudit returns a handle to the same key buffer that records every window
// selection in a. It is meant for tests and offline analysis.
func (k *KeyMaterial) WithAudit(a *WindowAudit) *KeyMaterial {
	return &KeyMaterial{buf: k.buf, audit: a}
}

// String never prints key bytes.
func (k *KeyMaterial) String() string {
	return fmt.Sprintf("KeyMaterial(%d bytes)", len(k.buf))
}

// KeyElements returns how many whole words of type W fit in k.
func KeyElements[W Word](k *KeyMaterial) int {
	return len(k.buf) / wordSize[W]()
}

// AsWords views the whole key as a slice of W, dropping a trailing partial word.
func AsWords[W Word](k *KeyMaterial) []W {
	return wordsOf[W](k.buf)
}

// Subkey returns the window of l contiguous words starting at
// wordOffset mod (KeyElements - l + 1). Every offset, including the largest
// representable one, maps into the buffer.
//
// Subkey panics if l is negative or larger than KeyElements[W](k).
func Subkey[W Word](k *KeyMaterial, wordOffset uint64, l int) []W {
	elements := k.checkWindow(wordSize[W](), l)
	maxIndex := uint64(elements - l + 1)
	offset := wordOffset % maxIndex

	if k.audit != nil {
		k.audit.record(offset)
	}

	words := AsWords[W](k)
	return words[offset : offset+uint64(l) : offset+uint64(l)]
}

// checkWindow makes sure l words of the given size can be taken from k and
// returns the number of whole words in the key.
func (k *KeyMaterial) checkWindow(size, l int) int {
	elements := len(k.buf) / size
	if l < 0 || l > elements {
		contractf("subkey larger than main key: main key bytes %d, requested bytes %d (%d elements)",
			len(k.buf), l*size, l)
	}
	return elements
}
