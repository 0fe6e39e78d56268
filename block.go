package encryption

// BlockRef is a mutable reference to a block whose base address is known to be
// aligned to Align bytes. The cipher transforms the referenced bytes in place.
type BlockRef struct {
	buf   []byte
	align int
}

// NewBlockRef wraps buf, checking that it starts on an align byte boundary.
// It panics if align is not a power of two or buf is misaligned, so a bad
// buffer is rejected before any cipher operation sees it.
func NewBlockRef(buf []byte, align int) BlockRef {
	if align <= 0 || align&(align-1) != 0 {
		contractf("block alignment %d is not a power of two", align)
	}
	if !isAligned(buf, align) {
		contractf("cipher blocks must be aligned to at least %d byte boundaries", align)
	}
	return BlockRef{buf: buf, align: align}
}

// Len returns the block size in bytes.
func (r BlockRef) Len() int { return len(r.buf) }

// Align returns the alignment the block was checked against.
func (r BlockRef) Align() int { return r.align }

// Bytes returns the referenced bytes.
func (r BlockRef) Bytes() []byte { return r.buf }

// MakeBlock returns a zeroed n byte buffer aligned for every Word type, ready
// to be passed to Engine.Transform.
func MakeBlock(n int) []byte {
	return alignedBuffer(n)
}
