package encryption

const (
	// Block2Size is the block size of Algorithm2 in bytes.
	Block2Size = 248

	// IndexedBlockSize is the wire size of an IndexedBlock: an 8 byte index
	// followed by a Block2Size payload.
	IndexedBlockSize = 8 + Block2Size

	block2Elements = Block2Size / 8
)

// Block2 is a 248 byte Algorithm2 block stored as 64-bit words.
type Block2 struct {
	words [block2Elements]uint64
}

// NewBlock2 copies b into a new block.
func NewBlock2(b [Block2Size]byte) *Block2 {
	blk := new(Block2)
	copy(blk.Bytes(), b[:])
	return blk
}

// Bytes returns the block contents. The slice aliases the block.
func (b *Block2) Bytes() []byte {
	return bytesOf(b.words[:])
}

// Array returns a copy of the block contents.
func (b *Block2) Array() [Block2Size]byte {
	var out [Block2Size]byte
	copy(out[:], b.Bytes())
	return out
}

// Algorithm2 ciphers 248 byte blocks with 64-bit indices, XORing 31 64-bit
// words at a time.
type Algorithm2 struct {
	engine *Engine[uint64, uint64]
}

// NewAlgorithm2 returns an Algorithm2 over key using indexOffset as the secret
// index mask.
func NewAlgorithm2(key *KeyMaterial, indexOffset uint64, opts ...Option) (*Algorithm2, error) {
	o := buildOptions(opts)
	if err := checkKey(key, windowWords(EngineConfig{Elements: block2Elements, Window: o.window}), 8); err != nil {
		return nil, err
	}
	return &Algorithm2{
		engine: NewEngine[uint64, uint64](key, HashIndex64, indexOffset, EngineConfig{
			BlockBytes: Block2Size,
			Elements:   block2Elements,
			Align:      8,
			Window:     o.window,
		}),
	}, nil
}

// BlockSize returns Block2Size.
func (a *Algorithm2) BlockSize() int { return Block2Size }

// CipherBlock encrypts or decrypts block in place.
func (a *Algorithm2) CipherBlock(index uint64, block *Block2) {
	a.engine.CipherBlock(index, NewBlockRef(block.Bytes(), 8))
}

// Transform ciphers a raw 248 byte buffer in place. buf must be 8-byte aligned.
func (a *Algorithm2) Transform(index uint64, buf []byte) {
	a.engine.Transform(index, buf)
}

// IndexedBlock carries an Algorithm2 payload together with the index it was
// ciphered under, laid out for direct transmission: the index in the first 8
// bytes, then the 31 payload words, all in host byte order.
type IndexedBlock struct {
	index uint64
	data  [block2Elements]uint64
}

// Index returns the carried index.
func (b *IndexedBlock) Index() uint64 { return b.index }

// SetIndex sets the carried index.
func (b *IndexedBlock) SetIndex(index uint64) { b.index = index }

// Data returns the payload words.
func (b *IndexedBlock) Data() *[block2Elements]uint64 { return &b.data }

// Payload returns the payload as bytes. The slice aliases the block.
func (b *IndexedBlock) Payload() []byte {
	return bytesOf(b.data[:])
}

// Bytes returns the whole record as a byte slice aliasing the block, suitable
// for sending or for receiving into.
func (b *IndexedBlock) Bytes() []byte {
	return recordBytes(b)
}

// Cipher encrypts or decrypts the payload in place under the carried index.
func (b *IndexedBlock) Cipher(a *Algorithm2) {
	a.engine.CipherBlock(b.index, NewBlockRef(b.Payload(), 8))
}
