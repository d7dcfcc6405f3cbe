package hashindex

import "github.com/nvbase/pagekeeper/internal/disk"

// blockLayout describes the packed, byte-exact geometry of one block
// page for a given key/value width: two bitmaps (occupied, readable)
// followed by a fixed-length mapping array, with no length prefixes
// anywhere. Methods operate directly on a page's raw PageSize buffer.
type blockLayout struct {
	cap         int
	keyWidth    int
	valWidth    int
	mappingSize int
	bitmapLen   int // ceil(cap/8)
}

// capacityFor returns the number of mapping slots a block page can
// hold for a mapping of the given packed byte size: the largest CAP
// such that two ceil(CAP/8)-byte bitmaps plus CAP mappings fit in one
// page, approximated as floor(4*PageSize / (4*mappingSize + 1)) (the
// "+1" budgets two bits per slot, one in each bitmap).
func capacityFor(mappingSize int) int {
	return (4 * disk.PageSize) / (4*mappingSize + 1)
}

func newBlockLayout(keyWidth, valWidth int) blockLayout {
	mappingSize := keyWidth + valWidth
	slots := capacityFor(mappingSize)
	return blockLayout{
		cap:         slots,
		keyWidth:    keyWidth,
		valWidth:    valWidth,
		mappingSize: mappingSize,
		bitmapLen:   (slots + 7) / 8,
	}
}

func (l blockLayout) occupiedOff() int { return 0 }
func (l blockLayout) readableOff() int { return l.bitmapLen }
func (l blockLayout) arrayOff() int    { return 2 * l.bitmapLen }
func (l blockLayout) slotOff(i int) int {
	return l.arrayOff() + i*l.mappingSize
}

func (l blockLayout) occupied(buf []byte, i int) bool {
	return buf[l.occupiedOff()+i/8]&(1<<uint(i%8)) != 0
}

func (l blockLayout) setOccupied(buf []byte, i int) {
	buf[l.occupiedOff()+i/8] |= 1 << uint(i%8)
}

func (l blockLayout) readable(buf []byte, i int) bool {
	return buf[l.readableOff()+i/8]&(1<<uint(i%8)) != 0
}

func (l blockLayout) setReadable(buf []byte, i int) {
	buf[l.readableOff()+i/8] |= 1 << uint(i%8)
}

func (l blockLayout) clearReadable(buf []byte, i int) {
	buf[l.readableOff()+i/8] &^= 1 << uint(i%8)
}

func (l blockLayout) keyBytes(buf []byte, i int) []byte {
	off := l.slotOff(i)
	return buf[off : off+l.keyWidth]
}

func (l blockLayout) valueBytes(buf []byte, i int) []byte {
	off := l.slotOff(i) + l.keyWidth
	return buf[off : off+l.valWidth]
}

// putSlot writes a mapping into slot i and marks it occupied and
// readable. The readable bit is set symmetrically with occupied on
// insert; Remove is what clears it again.
func (l blockLayout) putSlot(buf []byte, i int, keyBytes, valBytes []byte) {
	copy(l.keyBytes(buf, i), keyBytes)
	copy(l.valueBytes(buf, i), valBytes)
	l.setOccupied(buf, i)
	l.setReadable(buf, i)
}
