package hashindex

import (
	"encoding/binary"

	"github.com/nvbase/pagekeeper/internal/disk"
)

// headerMetaSize is the packed width of {owning page id, bucket count,
// next free directory index}, each a uint32.
const headerMetaSize = 12

// directoryCapacity returns how many block-page-id directory entries
// fit after the header metadata in one page.
func directoryCapacity() int {
	return (disk.PageSize - headerMetaSize) / 4
}

func headerOwningPageID(buf []byte) disk.PageID {
	return disk.PageID(binary.LittleEndian.Uint32(buf[0:4]))
}

func setHeaderOwningPageID(buf []byte, pid disk.PageID) {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(pid))
}

func headerNumBuckets(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf[4:8])
}

func setHeaderNumBuckets(buf []byte, n uint32) {
	binary.LittleEndian.PutUint32(buf[4:8], n)
}

// headerNextIdx and setHeaderNextIdx carry the "next free directory
// index" field named in the data model. This table addresses
// directory entries directly by bucket index rather than by appending,
// so the field is maintained for layout fidelity but not consulted by
// Insert/Lookup/Remove.
func headerNextIdx(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf[8:12])
}

func setHeaderNextIdx(buf []byte, n uint32) {
	binary.LittleEndian.PutUint32(buf[8:12], n)
}

func dirEntryOffset(i int) int {
	return headerMetaSize + i*4
}

func headerDirEntry(buf []byte, i int) disk.PageID {
	off := dirEntryOffset(i)
	return disk.PageID(binary.LittleEndian.Uint32(buf[off : off+4]))
}

func setHeaderDirEntry(buf []byte, i int, pid disk.PageID) {
	off := dirEntryOffset(i)
	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(pid))
}

// initHeader stamps a freshly allocated page with numBuckets active
// buckets and the full directory capacity set to INVALID_PAGE_ID, not
// just the active range: a freshly allocated frame's buffer is zeroed,
// and 0 is a page id, not the sentinel, so every unused slot must be
// stamped explicitly to keep the directory byte-exact.
func initHeader(buf []byte, owningPid disk.PageID, numBuckets uint32) {
	setHeaderOwningPageID(buf, owningPid)
	setHeaderNumBuckets(buf, numBuckets)
	setHeaderNextIdx(buf, 0)
	for i := 0; i < directoryCapacity(); i++ {
		setHeaderDirEntry(buf, i, disk.InvalidPageID)
	}
}
