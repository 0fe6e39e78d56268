package encryption

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadKeyMaterial(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keys", "main.key")

	key, err := GenerateKeyMaterial(4096)
	require.NoError(t, err)
	require.NoError(t, SaveKeyMaterial(path, key, false))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	assert.EqualValues(t, 4096, info.Size())

	loaded, err := LoadKeyMaterial(path, 4096)
	require.NoError(t, err)
	assert.Equal(t, key.Bytes(), loaded.Bytes())
	assert.True(t, isAligned(loaded.buf, 8))

	anySize, err := LoadKeyMaterial(path, 0)
	require.NoError(t, err)
	assert.Equal(t, 4096, anySize.Len())
}

func TestSaveKeyMaterialOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.key")

	first := NewKeyMaterial([]byte("first key material"))
	second := NewKeyMaterial([]byte("second"))

	require.NoError(t, SaveKeyMaterial(path, first, false))
	require.Error(t, SaveKeyMaterial(path, second, false), "existing key file must not be replaced")

	loaded, err := LoadKeyMaterial(path, 0)
	require.NoError(t, err)
	assert.Equal(t, first.Bytes(), loaded.Bytes())

	require.NoError(t, SaveKeyMaterial(path, second, true))
	loaded, err = LoadKeyMaterial(path, 0)
	require.NoError(t, err)
	assert.Equal(t, second.Bytes(), loaded.Bytes())

	require.ErrorIs(t, SaveKeyMaterial(path, nil, true), ErrNilKey)
}

func TestSaveKeyMaterialWriteFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.key")
	key, err := GenerateKeyMaterial(1024)
	require.NoError(t, err)

	orig := writeKeyFile
	t.Cleanup(func() { writeKeyFile = orig })
	writeKeyFile = func(f *os.File, b []byte) error {
		_, _ = f.Write(b[:len(b)/2])
		return errors.New("disk full")
	}

	err = SaveKeyMaterial(path, key, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	_, statErr := os.Stat(path)
	require.ErrorIs(t, statErr, fs.ErrNotExist)

	// Nothing is left behind, so a retry without overwrite succeeds.
	writeKeyFile = orig
	require.NoError(t, SaveKeyMaterial(path, key, false))
	loaded, err := LoadKeyMaterial(path, 1024)
	require.NoError(t, err)
	assert.Equal(t, key.Bytes(), loaded.Bytes())
}

func TestLoadKeyMaterialErrors(t *testing.T) {
	dir := t.TempDir()

	short := filepath.Join(dir, "short.key")
	require.NoError(t, os.WriteFile(short, make([]byte, 100), 0o600))
	_, err := LoadKeyMaterial(short, DefaultKeySize)
	require.ErrorIs(t, err, ErrKeySizeMismatch)
	assert.Contains(t, err.Error(), "100 bytes")

	empty := filepath.Join(dir, "empty.key")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = LoadKeyMaterial(empty, 0)
	require.ErrorIs(t, err, ErrEmptyKey)

	_, err = LoadKeyMaterial(filepath.Join(dir, "missing.key"), 0)
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestExpandKeyMaterial(t *testing.T) {
	seed := []byte(strings.Repeat("s", MinSeedSize))

	a, err := ExpandKeyMaterial(seed, DefaultKeySize)
	require.NoError(t, err)
	b, err := ExpandKeyMaterial(seed, DefaultKeySize)
	require.NoError(t, err)
	assert.Equal(t, a.Bytes(), b.Bytes(), "expansion must be deterministic")
	assert.Equal(t, DefaultKeySize, a.Len())

	short, err := ExpandKeyMaterial(seed, 64)
	require.NoError(t, err)
	assert.Equal(t, a.Bytes()[:64], short.Bytes(), "shorter keys are prefixes of longer ones")

	other, err := ExpandKeyMaterial([]byte(strings.Repeat("t", MinSeedSize)), DefaultKeySize)
	require.NoError(t, err)
	assert.NotEqual(t, a.Bytes(), other.Bytes())

	_, err = ExpandKeyMaterial(seed[:MinSeedSize-1], 64)
	require.ErrorIs(t, err, ErrSeedTooShort)

	_, err = ExpandKeyMaterial(seed, 0)
	require.ErrorIs(t, err, ErrInvalidKeySize)
}

func TestFingerprint(t *testing.T) {
	a := NewKeyMaterial([]byte("key material a"))
	b := NewKeyMaterial([]byte("key material b"))

	fa := a.Fingerprint()
	assert.True(t, strings.HasPrefix(fa, "Qm"), "sha2-256 multihashes encode with a Qm prefix, got %s", fa)
	assert.Equal(t, fa, NewKeyMaterial(a.Bytes()).Fingerprint())
	assert.NotEqual(t, fa, b.Fingerprint())
}
