// Package encryption implements a symmetric block cipher that draws its strength
// from a large secret key material rather than from a round function.
//
// Every block is transformed together with an index, typically its position in a
// message. The index is masked with a secret per-instance offset, diffused through
// a byte substitution hash, and the result selects a window of the key material.
// The window is XORed into the block word by word. Because the transform is a
// plain XOR, encryption and decryption are the same call.
//
// # Features
//
//   - Large key: tens of kilobytes of key material (DefaultKeySize is 53280 bytes)
//   - Position dependent: each index selects its own key window
//   - Involutory: CipherBlock both encrypts and decrypts
//   - Zero allocation: blocks are transformed in place through aligned word views
//   - Two windowing strategies: word aligned (default) and bit granular
//
// # Security
//
// This is a primitive, not a protocol. There is no authentication tag, no padding
// and no chaining mode. Reusing an (index offset, index) pair under the same key
// reuses the same key window, exactly like reusing a one-time pad, so callers must
// never cipher two different blocks under the same index.
//
// # Basic Usage
//
//	key, err := encryption.GenerateKeyMaterial(encryption.DefaultKeySize)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cipher, err := encryption.NewAlgorithm2(key, indexOffset)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	block := encryption.NewBlock2(plaintext)
//	cipher.CipherBlock(7, block) // encrypt block number 7
//	cipher.CipherBlock(7, block) // and decrypt it again
//
// # Wire Records
//
// IndexedBlock bundles a 64-bit index with an Algorithm2 payload in a 256 byte,
// 8-byte aligned record whose Bytes method exposes it for sending and receiving
// without copying.
//
// # Custom Geometries
//
// Algorithm1 and Algorithm2 are fixed instantiations of Engine. Other block sizes,
// word sizes and index widths can be built directly:
//
//	engine := encryption.NewEngine[uint64, uint32](key, encryption.HashIndex64, offset,
//	    encryption.EngineConfig{BlockBytes: 64, Elements: 16})
//
// NewEngine panics on inconsistent geometry, and CipherBlock panics before touching
// the block if it has the wrong size or alignment. These are integration errors,
// never data dependent ones.
//
// # Thread Safety
//
// KeyMaterial and engines never change after construction and can be shared
// between goroutines. Callers must not transform the same block from two goroutines
// at once.
package encryption
