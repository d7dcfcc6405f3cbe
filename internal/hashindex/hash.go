package hashindex

import (
	"encoding/binary"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// Hasher produces a 64-bit digest of an encoded key. Pluggable so
// tests can force collisions deterministically.
type Hasher interface {
	Hash64(data []byte) uint64
}

// blakeHasher is the default Hasher, built on blake2b truncated to a
// 64-bit digest.
type blakeHasher struct {
	mu sync.Mutex
	h  interface {
		Reset()
		Write([]byte) (int, error)
		Sum([]byte) []byte
	}
}

// NewDefaultHasher returns the default 64-bit hash function.
func NewDefaultHasher() Hasher {
	h, err := blake2b.New(8, nil)
	if err != nil {
		// blake2b.New only errors on an out-of-range size or key; 8
		// and nil are always valid.
		panic(err)
	}
	return &blakeHasher{h: h}
}

func (b *blakeHasher) Hash64(data []byte) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.h.Reset()
	b.h.Write(data)
	sum := b.h.Sum(nil)
	return binary.BigEndian.Uint64(sum)
}

// ConstantHasher always returns a fixed digest. Used by tests to force
// every key into the same bucket and exercise cross-block probing.
type ConstantHasher struct {
	Digest uint64
}

func (c ConstantHasher) Hash64(_ []byte) uint64 { return c.Digest }

// FuncHasher adapts a plain function to Hasher.
type FuncHasher func(data []byte) uint64

func (f FuncHasher) Hash64(data []byte) uint64 { return f(data) }
