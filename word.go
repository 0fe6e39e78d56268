package encryption

import "unsafe"

// Word is an unsigned integer type usable as a key or block element.
//
// Every bit pattern of a Word is a valid value and its alignment never exceeds
// 8 bytes, which is what lets the package reinterpret 8-byte aligned byte
// buffers as Word slices.
type Word interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Index is the integer type carried alongside a block to select its window.
type Index interface {
	~uint32 | ~uint64
}

func wordSize[W Word]() int {
	var w W
	return int(unsafe.Sizeof(w))
}

func wordAlign[W Word]() int {
	var w W
	return int(unsafe.Alignof(w))
}

func wordBits[W Word]() uint {
	return uint(wordSize[W]()) * 8
}
