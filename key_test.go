package encryption

import (
	"encoding/binary"
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequentialKey returns n bytes of key material valued 0, 1, 2, ...
func sequentialKey(n int) *KeyMaterial {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return NewKeyMaterial(b)
}

func TestSubkeySingleWord(t *testing.T) {
	key := sequentialKey(32)

	for i := uint64(0); i < 32; i++ {
		sub := Subkey[uint32](key, i, 1)
		require.Len(t, sub, 1)

		b := byte(i * 4 % 32)
		want := binary.NativeEndian.Uint32([]byte{b, b + 1, b + 2, b + 3})
		assert.Equal(t, want, sub[0], "offset %d", i)
	}
}

func TestSubkeyFourWords(t *testing.T) {
	key := sequentialKey(32)

	// A 16 byte window in a 32 byte key has 5 start positions. The last word
	// of the window sits 12 bytes after the start.
	for i := uint64(0); i < 32; i++ {
		sub := Subkey[uint32](key, i, 4)
		require.Len(t, sub, 4)

		b := byte(i*4%20) + 12
		want := binary.NativeEndian.Uint32([]byte{b, b + 1, b + 2, b + 3})
		assert.Equal(t, want, sub[3], "offset %d", i)
	}
}

func TestSubkeyZeroLength(t *testing.T) {
	key := sequentialKey(32)
	for _, off := range []uint64{0, 1, 31, 32, math.MaxUint32, math.MaxUint64} {
		assert.Empty(t, Subkey[uint8](key, off, 0))
		assert.Empty(t, Subkey[uint32](key, off, 0))
		assert.Empty(t, Subkey[uint64](key, off, 0))
	}

	empty := NewKeyMaterial(nil)
	assert.Empty(t, Subkey[uint64](empty, math.MaxUint64, 0))
}

func TestSubkeyLargerThanKeyPanics(t *testing.T) {
	key := sequentialKey(32)

	testCases := []struct {
		name string
		fn   func()
	}{
		{"u8_33", func() { Subkey[uint8](key, 0, 33) }},
		{"u16_17", func() { Subkey[uint16](key, 0, 17) }},
		{"u32_9", func() { Subkey[uint32](key, 0, 9) }},
		{"u64_5", func() { Subkey[uint64](key, 0, 5) }},
		{"negative", func() { Subkey[uint32](key, 0, -1) }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Panics(t, tc.fn)
		})
	}

	require.NotPanics(t, func() { Subkey[uint64](key, math.MaxUint64, 4) })
}

// checkInBounds asserts that every window returned for the given offsets lies
// entirely inside the key buffer.
func checkInBounds[W Word](t *testing.T, key *KeyMaterial, l int, offsets []uint64) {
	t.Helper()
	words := AsWords[W](key)
	size := uintptr(wordSize[W]())
	base := uintptr(unsafe.Pointer(unsafe.SliceData(words)))

	for _, off := range offsets {
		sub := Subkey[W](key, off, l)
		require.Len(t, sub, l)
		if l == 0 {
			continue
		}
		start := (uintptr(unsafe.Pointer(&sub[0])) - base) / size
		require.LessOrEqual(t, int(start)+l, len(words), "offset %d", off)
		require.Equal(t, words[start:int(start)+l], sub)
	}
}

func TestSubkeyInBounds(t *testing.T) {
	key := sequentialKey(1000)
	offsets := []uint64{
		0, 1, 2, 7, 8, 123, 999, 1000, 1001,
		math.MaxUint32 - 1, math.MaxUint32, math.MaxUint32 + 1,
		math.MaxUint64 - 1, math.MaxUint64,
	}

	for _, l := range []int{0, 1, 7, 31, 124, 125} {
		checkInBounds[uint8](t, key, l, offsets)
		checkInBounds[uint16](t, key, l, offsets)
		checkInBounds[uint32](t, key, l, offsets)
		checkInBounds[uint64](t, key, l, offsets)
	}
	checkInBounds[uint8](t, key, 1000, offsets)
	checkInBounds[uint32](t, key, 250, offsets)
}

func TestAsWordsTruncates(t *testing.T) {
	key := sequentialKey(30)
	assert.Len(t, AsWords[uint8](key), 30)
	assert.Len(t, AsWords[uint16](key), 15)
	assert.Len(t, AsWords[uint32](key), 7)
	assert.Len(t, AsWords[uint64](key), 3)
	assert.Equal(t, 3, KeyElements[uint64](key))

	w := AsWords[uint64](key)
	assert.Equal(t, binary.NativeEndian.Uint64([]byte{16, 17, 18, 19, 20, 21, 22, 23}), w[2])
}

func TestKeyMaterialAligned(t *testing.T) {
	for n := 1; n <= 64; n++ {
		key := NewKeyMaterial(make([]byte, n))
		require.True(t, isAligned(key.buf, 8), "size %d", n)
		require.Equal(t, n, key.Len())
	}
}

func TestNewKeyMaterialCopies(t *testing.T) {
	src := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	key := NewKeyMaterial(src)
	src[0] = 0xFF

	assert.Equal(t, byte(1), key.Bytes()[0])

	out := key.Bytes()
	out[1] = 0xFF
	assert.Equal(t, byte(2), key.Bytes()[1], "Bytes must return a copy")
}

func TestGenerateKeyMaterial(t *testing.T) {
	_, err := GenerateKeyMaterial(0)
	require.ErrorIs(t, err, ErrInvalidKeySize)

	a, err := GenerateKeyMaterial(DefaultKeySize)
	require.NoError(t, err)
	require.Equal(t, DefaultKeySize, a.Len())

	b, err := GenerateKeyMaterial(DefaultKeySize)
	require.NoError(t, err)
	assert.NotEqual(t, a.Bytes(), b.Bytes())
}

func TestDefaultKeySize(t *testing.T) {
	assert.Equal(t, 1<<15*13/8, DefaultKeySize-32)
}

func TestKeyMaterialStringHidesBytes(t *testing.T) {
	key := NewKeyMaterial([]byte("super secret key material"))
	assert.Equal(t, "KeyMaterial(25 bytes)", key.String())
}
