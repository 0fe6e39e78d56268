package encryption

import "unsafe"

// This file is the only place the package reinterprets memory. The invariants
// every caller relies on:
//
//   - W has no invalid bit patterns (guaranteed by the Word constraint).
//   - The base of b is aligned to at least alignof(W); checked here, not assumed.
//   - The returned slice never extends past len(b); a trailing partial word is
//     dropped.
//   - The view aliases b; it is only valid while b is.

// isAligned reports whether the first byte of b sits on an align byte boundary.
func isAligned(b []byte, align int) bool {
	if len(b) == 0 || align <= 1 {
		return true
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))%uintptr(align) == 0
}

// wordsOf views b as a slice of W without copying. It panics if b is not
// aligned for W.
func wordsOf[W Word](b []byte) []W {
	n := len(b) / wordSize[W]()
	if n == 0 {
		return nil
	}
	if !isAligned(b, wordAlign[W]()) {
		contractf("buffer at %p is not aligned to %d bytes", unsafe.SliceData(b), wordAlign[W]())
	}
	return unsafe.Slice((*W)(unsafe.Pointer(unsafe.SliceData(b))), n)
}

// bytesOf views a word slice as its raw bytes without copying.
func bytesOf[W Word](w []W) []byte {
	if len(w) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(w))), len(w)*wordSize[W]())
}

// alignedBuffer returns an n byte slice whose base is 8-byte aligned, backed
// by a []uint64 allocation.
func alignedBuffer(n int) []byte {
	if n == 0 {
		return []byte{}
	}
	backing := make([]uint64, (n+7)/8)
	return bytesOf(backing)[:n]
}

// recordBytes views a fixed-layout record as its raw bytes. T must contain only
// Word fields, so there are no pointers and no invalid bit patterns.
func recordBytes[T any](p *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), unsafe.Sizeof(*p))
}
