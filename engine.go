package encryption

import (
	"fmt"
	"strings"
)

// Windowing selects how the hashed index is turned into a key window.
type Windowing int

const (
	// WordWindow starts the window on a word boundary. It is the default.
	WordWindow Windowing = iota

	// BitWindow starts the window on any bit of the key, so every block word
	// straddles two key words. It is slower but spreads blocks over a keyspace
	// wordBits times denser.
	BitWindow
)

func (w Windowing) String() string {
	switch w {
	case WordWindow:
		return "word"
	case BitWindow:
		return "bit"
	default:
		return fmt.Sprintf("Windowing(%d)", int(w))
	}
}

// ParseWindowing parses "word" or "bit".
func ParseWindowing(s string) (Windowing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "word":
		return WordWindow, nil
	case "bit":
		return BitWindow, nil
	default:
		return 0, fmt.Errorf("encryption: unknown windowing %q", s)
	}
}

// EngineConfig fixes the block geometry of an Engine.
type EngineConfig struct {
	// BlockBytes is the size of every block in bytes.
	BlockBytes int
	// Elements is the number of words per block. It must equal BlockBytes / sizeof(W).
	Elements int
	// Align is the minimum alignment blocks are declared with. Zero means the
	// alignment of W.
	Align int
	// Window selects the windowing strategy.
	Window Windowing
}

// Engine transforms fixed-size blocks in place by XORing them with a window of
// key material picked by the hashed, offset-masked block index.
//
// The transform is its own inverse: running CipherBlock twice with the same
// key, index offset and index restores the block. An Engine never changes after
// NewEngine returns and is safe for concurrent use on distinct blocks.
type Engine[I Index, W Word] struct {
	key         *KeyMaterial
	hash        func(I) I
	indexOffset I
	cfg         EngineConfig
}

// NewEngine builds an engine over key. indexOffset is the secret XORed into
// every index before hashing.
//
// NewEngine panics if the configuration is inconsistent: a block that is not a
// whole number of words, an element count that does not match, an alignment W
// cannot satisfy, or key material too short to hold a window.
func NewEngine[I Index, W Word](key *KeyMaterial, hash func(I) I, indexOffset I, cfg EngineConfig) *Engine[I, W] {
	if key == nil {
		contractf("engine needs key material")
	}
	if hash == nil {
		contractf("engine needs an index hash")
	}

	size := wordSize[W]()
	if cfg.BlockBytes < 0 || cfg.BlockBytes%size != 0 {
		contractf("block of %d bytes is not a whole number of %d byte words", cfg.BlockBytes, size)
	}
	if cfg.BlockBytes/size != cfg.Elements {
		contractf("wrong element count (%d) for block bytes %d, expected %d",
			cfg.Elements, cfg.BlockBytes, cfg.BlockBytes/size)
	}
	if cfg.Align == 0 {
		cfg.Align = wordAlign[W]()
	}
	if cfg.Align < 0 || cfg.Align&(cfg.Align-1) != 0 {
		contractf("block alignment %d is not a power of two", cfg.Align)
	}
	if wordAlign[W]() < cfg.Align {
		contractf("word alignment %d is below the declared block alignment %d", wordAlign[W](), cfg.Align)
	}
	switch cfg.Window {
	case WordWindow, BitWindow:
	default:
		contractf("unknown windowing %v", cfg.Window)
	}
	if need, have := windowWords(cfg), KeyElements[W](key); need > have {
		contractf("subkey larger than main key: main key bytes %d, requested %d words of %d bytes",
			key.Len(), need, size)
	}

	return &Engine[I, W]{
		key:         key,
		hash:        hash,
		indexOffset: indexOffset,
		cfg:         cfg,
	}
}

// windowWords returns how many key words one block reads.
func windowWords(cfg EngineConfig) int {
	if cfg.Window == BitWindow && cfg.Elements > 0 {
		return cfg.Elements + 1
	}
	return cfg.Elements
}

// BlockSize returns the block size in bytes.
func (e *Engine[I, W]) BlockSize() int { return e.cfg.BlockBytes }

// Elements returns the number of words per block.
func (e *Engine[I, W]) Elements() int { return e.cfg.Elements }

// Windowing returns the windowing strategy.
func (e *Engine[I, W]) Windowing() Windowing { return e.cfg.Window }

// CipherBlock encrypts or decrypts block in place. Both directions are the
// same call.
//
// CipherBlock panics, leaving block untouched, if the block has the wrong
// length or was not declared with at least the engine's alignment.
func (e *Engine[I, W]) CipherBlock(index I, block BlockRef) {
	if block.Len() != e.cfg.BlockBytes {
		contractf("block is %d bytes, engine expects %d", block.Len(), e.cfg.BlockBytes)
	}
	if block.Align() < e.cfg.Align {
		contractf("block aligned to %d bytes, engine requires %d", block.Align(), e.cfg.Align)
	}
	words := wordsOf[W](block.buf)

	// Mask before hashing so the hash input reveals nothing without the offset.
	masked := index ^ e.indexOffset
	h := uint64(e.hash(masked))

	if e.cfg.Window == BitWindow {
		e.xorBitWindow(words, h)
		return
	}
	e.xorWordWindow(words, h)
}

// Transform is CipherBlock on a raw buffer, checked against the engine's
// declared alignment.
func (e *Engine[I, W]) Transform(index I, buf []byte) {
	e.CipherBlock(index, NewBlockRef(buf, e.cfg.Align))
}

func (e *Engine[I, W]) xorWordWindow(words []W, h uint64) {
	sub := Subkey[W](e.key, h, len(words))
	for i := range words {
		words[i] ^= sub[i]
	}
}

// xorBitWindow XORs words with the len(words)*bits key bits that start at bit
// h mod maxBit, reading each key word most significant bit first. Word j of
// that stream is the low bits of key word w+j shifted up, joined with the high
// bits of key word w+j+1 shifted down. The last read is key word w+len(words),
// which is in range because w < n-len(words).
func (e *Engine[I, W]) xorBitWindow(words []W, h uint64) {
	l := len(words)
	if l == 0 {
		return
	}
	key := AsWords[W](e.key)
	bits := uint64(wordBits[W]())
	maxBit := uint64(len(key)-l) * bits

	o := h % maxBit
	w := o / bits
	s := uint(o % bits)

	if e.key.audit != nil {
		e.key.audit.record(o)
	}

	win := key[w : w+uint64(l)+1]
	rs := uint(bits) - s
	for j := range words {
		// rs == bits when s == 0, and an unsigned shift by the full width is zero.
		words[j] ^= win[j]<<s | win[j+1]>>rs
	}
}
