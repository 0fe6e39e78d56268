package encryption

import (
	"io"
	"os"
	"path/filepath"

	"github.com/multiformats/go-multihash"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

// expandDomain separates key expansion output from any other SHAKE256 use of
// the same seed.
const expandDomain = "encryption-key-material-v1"

// ExpandKeyMaterial deterministically stretches seed into size bytes of key
// material using SHAKE256. The same seed and size always yield the same key.
func ExpandKeyMaterial(seed []byte, size int) (*KeyMaterial, error) {
	if size <= 0 {
		return nil, ErrInvalidKeySize
	}
	if len(seed) < MinSeedSize {
		return nil, errors.Wrapf(ErrSeedTooShort, "got %d bytes, need at least %d", len(seed), MinSeedSize)
	}

	h := sha3.NewShake256()
	_, _ = h.Write([]byte(expandDomain))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(seed)

	buf := alignedBuffer(size)
	if _, err := io.ReadFull(h, buf); err != nil {
		return nil, errors.Wrap(err, "expanding seed")
	}
	return &KeyMaterial{buf: buf}, nil
}

// LoadKeyMaterial reads a binary key file. If size is positive the file must be
// exactly size bytes long.
func LoadKeyMaterial(path string, size int) (*KeyMaterial, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading key file %s", path)
	}
	defer clear(data)

	if len(data) == 0 {
		return nil, errors.Wrapf(ErrEmptyKey, "key file %s", path)
	}
	if size > 0 && len(data) != size {
		return nil, errors.Wrapf(ErrKeySizeMismatch, "key file %s is %d bytes, want %d", path, len(data), size)
	}
	return NewKeyMaterial(data), nil
}

// SaveKeyMaterial writes k to path with owner-only permissions. An existing
// file is only replaced when overwrite is set.
func SaveKeyMaterial(path string, k *KeyMaterial, overwrite bool) error {
	if k == nil {
		return ErrNilKey
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrapf(err, "creating key directory for %s", path)
	}
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		return errors.Wrapf(err, "opening key file %s", path)
	}
	// A partial key file would block every later O_EXCL save, so remove it.
	if err := writeKeyFile(f, k.buf); err != nil {
		f.Close()
		os.Remove(path)
		return errors.Wrapf(err, "writing key file %s", path)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return errors.Wrapf(err, "closing key file %s", path)
	}
	return nil
}

// writeKeyFile is replaced in tests to simulate a failing disk.
var writeKeyFile = func(f *os.File, b []byte) error {
	_, err := f.Write(b)
	return err
}

// Fingerprint identifies the key material without revealing it: the base58
// encoded SHA2-256 multihash of the key bytes.
func (k *KeyMaterial) Fingerprint() string {
	mh, err := multihash.Sum(k.buf, multihash.SHA2_256, -1)
	if err != nil {
		// multihash.Sum only fails for unknown codes or bad lengths; neither
		// applies to SHA2_256 with the default length.
		panic(err)
	}
	return mh.B58String()
}
