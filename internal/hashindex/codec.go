package hashindex

import "encoding/binary"

// KeyCodec converts a key type to and from a fixed-width byte slice.
// Fixed width lets block pages pack mappings with no length prefix.
type KeyCodec[K comparable] interface {
	Width() int
	Encode(k K, out []byte)
	Decode(in []byte) K
}

// ValueCodec is the value-side counterpart of KeyCodec.
type ValueCodec[V any] interface {
	Width() int
	Encode(v V, out []byte)
	Decode(in []byte) V
}

// Uint64Codec packs a uint64 as 8 big-endian bytes.
type Uint64Codec struct{}

func (Uint64Codec) Width() int { return 8 }

func (Uint64Codec) Encode(k uint64, out []byte) {
	binary.BigEndian.PutUint64(out, k)
}

func (Uint64Codec) Decode(in []byte) uint64 {
	return binary.BigEndian.Uint64(in)
}

// FixedStringCodec packs a string into exactly Width bytes, truncating
// longer strings and zero-padding shorter ones. Decode trims trailing
// zero bytes, so values ending in NUL bytes round-trip incorrectly;
// callers with binary-safe values should use a different codec.
type FixedStringCodec struct {
	StringWidth int
}

func (c FixedStringCodec) Width() int { return c.StringWidth }

func (c FixedStringCodec) Encode(s string, out []byte) {
	n := copy(out, s)
	for i := n; i < len(out); i++ {
		out[i] = 0
	}
}

func (c FixedStringCodec) Decode(in []byte) string {
	end := len(in)
	for end > 0 && in[end-1] == 0 {
		end--
	}
	return string(in[:end])
}
