package encryption

const (
	// Block1Size is the block size of Algorithm1 in bytes.
	Block1Size = 28

	block1Elements = Block1Size / 4
)

// Block1 is a 28 byte Algorithm1 block. It is stored as 32-bit words so it is
// always aligned for the cipher.
type Block1 struct {
	words [block1Elements]uint32
}

// NewBlock1 copies b into a new block.
func NewBlock1(b [Block1Size]byte) *Block1 {
	blk := new(Block1)
	copy(blk.Bytes(), b[:])
	return blk
}

// Bytes returns the block contents. The slice aliases the block.
func (b *Block1) Bytes() []byte {
	return bytesOf(b.words[:])
}

// Array returns a copy of the block contents.
func (b *Block1) Array() [Block1Size]byte {
	var out [Block1Size]byte
	copy(out[:], b.Bytes())
	return out
}

// Algorithm1 ciphers 28 byte blocks with 32-bit indices, XORing seven 32-bit
// words at a time.
type Algorithm1 struct {
	engine *Engine[uint32, uint32]
}

// NewAlgorithm1 returns an Algorithm1 over key using indexOffset as the secret
// index mask.
func NewAlgorithm1(key *KeyMaterial, indexOffset uint32, opts ...Option) (*Algorithm1, error) {
	o := buildOptions(opts)
	if err := checkKey(key, windowWords(EngineConfig{Elements: block1Elements, Window: o.window}), 4); err != nil {
		return nil, err
	}
	return &Algorithm1{
		engine: NewEngine[uint32, uint32](key, HashIndex32, indexOffset, EngineConfig{
			BlockBytes: Block1Size,
			Elements:   block1Elements,
			Align:      4,
			Window:     o.window,
		}),
	}, nil
}

// BlockSize returns Block1Size.
func (a *Algorithm1) BlockSize() int { return Block1Size }

// CipherBlock encrypts or decrypts block in place. Encryption and decryption
// are the same operation.
func (a *Algorithm1) CipherBlock(index uint32, block *Block1) {
	a.engine.CipherBlock(index, NewBlockRef(block.Bytes(), 4))
}

// Transform ciphers a raw 28 byte buffer in place. buf must be 4-byte aligned.
func (a *Algorithm1) Transform(index uint32, buf []byte) {
	a.engine.Transform(index, buf)
}
