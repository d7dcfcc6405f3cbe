// Package hashindex implements a linear-probing hash index over pages
// served by the buffer pool: a header page holds the bucket directory,
// and each bucket is a block page holding a packed mapping array.
package hashindex

import (
	"log/slog"

	"github.com/nvbase/pagekeeper/internal/disk"
	"github.com/nvbase/pagekeeper/internal/pagecache"
)

const logPrefix = "hashindex: "

// Table is a fixed-bucket-count linear-probing hash index keyed by K
// with values V, both fixed-width via their codecs.
type Table[K comparable, V any] struct {
	pool       *pagecache.Pool
	headerPid  disk.PageID
	numBuckets uint32
	layout     blockLayout
	keyCodec   KeyCodec[K]
	valCodec   ValueCodec[V]
	hasher     Hasher
}

// New allocates a fresh header page and constructs a Table with
// numBuckets empty buckets. A numBuckets larger than the header page's
// directory capacity is clamped to that capacity.
func New[K comparable, V any](pool *pagecache.Pool, numBuckets uint32, keyCodec KeyCodec[K], valCodec ValueCodec[V], hasher Hasher) (*Table[K, V], error) {
	if int(numBuckets) > directoryCapacity() {
		numBuckets = uint32(directoryCapacity())
	}

	hf, pid, err := pool.NewPage()
	if err != nil {
		return nil, err
	}

	hf.WithWrite(func(buf []byte) {
		initHeader(buf, pid, numBuckets)
	})
	pool.UnpinPage(pid, true)

	t := &Table[K, V]{
		pool:       pool,
		headerPid:  pid,
		numBuckets: numBuckets,
		layout:     newBlockLayout(keyCodec.Width(), valCodec.Width()),
		keyCodec:   keyCodec,
		valCodec:   valCodec,
		hasher:     hasher,
	}
	slog.Debug(logPrefix+"created table", "header_pid", pid, "num_buckets", numBuckets, "capacity", t.layout.cap)
	return t, nil
}

// HeaderPageID returns the page id of this table's header page.
func (t *Table[K, V]) HeaderPageID() disk.PageID {
	return t.headerPid
}

func (t *Table[K, V]) homeSlot(k K) (blockIdx int, blockOff int) {
	keyBuf := make([]byte, t.keyCodec.Width())
	t.keyCodec.Encode(k, keyBuf)
	digest := t.hasher.Hash64(keyBuf)

	total := uint64(t.numBuckets) * uint64(t.layout.cap)
	slot := digest % total
	cap64 := uint64(t.layout.cap)
	return int(slot / cap64), int(slot % cap64)
}

// Insert adds (k, v). Returns (true, nil) on success, (false, nil) if
// (k, v) is already present (duplicate insert is a no-op), or an error
// if disk I/O fails or every bucket was probed without success.
func (t *Table[K, V]) Insert(k K, v V) (bool, error) {
	keyBuf := make([]byte, t.keyCodec.Width())
	t.keyCodec.Encode(k, keyBuf)
	valBuf := make([]byte, t.valCodec.Width())
	t.valCodec.Encode(v, valBuf)

	headerFrame, err := t.pool.FetchPage(t.headerPid)
	if err != nil {
		return false, err
	}
	defer t.pool.UnpinPage(t.headerPid, false)

	blockIdx, blockOff := t.homeSlot(k)

	for bucket := 0; bucket < int(t.numBuckets); bucket++ {
		idx := (blockIdx + bucket) % int(t.numBuckets)
		offset := 0
		if bucket == 0 {
			offset = blockOff
		}

		var dirPid disk.PageID
		headerFrame.WithRead(func(buf []byte) {
			dirPid = headerDirEntry(buf, idx)
		})

		if dirPid == disk.InvalidPageID {
			blockFrame, newPid, err := t.pool.NewPage()
			if err != nil {
				return false, err
			}

			blockFrame.WithWrite(func(buf []byte) {
				t.layout.putSlot(buf, offset, keyBuf, valBuf)
			})
			t.pool.UnpinPage(newPid, true)

			headerFrame.WithWrite(func(buf []byte) {
				setHeaderDirEntry(buf, idx, newPid)
			})
			slog.Debug(logPrefix+"inserted into new block", "bucket", idx, "slot", offset)
			return true, nil
		}

		blockFrame, err := t.pool.FetchPage(dirPid)
		if err != nil {
			return false, err
		}

		freeSlot := -1
		duplicate := false
		blockFrame.WithRead(func(buf []byte) {
			for i := offset; i < t.layout.cap; i++ {
				if !t.layout.occupied(buf, i) {
					freeSlot = i
					return
				}
				if t.layout.readable(buf, i) &&
					string(t.layout.keyBytes(buf, i)) == string(keyBuf) &&
					string(t.layout.valueBytes(buf, i)) == string(valBuf) {
					duplicate = true
					return
				}
			}
		})

		inserted := false
		if freeSlot >= 0 {
			blockFrame.WithWrite(func(buf []byte) {
				t.layout.putSlot(buf, freeSlot, keyBuf, valBuf)
			})
			inserted = true
		}

		t.pool.UnpinPage(dirPid, inserted)

		if inserted {
			slog.Debug(logPrefix+"inserted into existing block", "bucket", idx)
			return true, nil
		}
		if duplicate {
			return false, nil
		}
		// Block exhausted without a free slot or a duplicate: advance
		// to the next bucket, scanning it from its own slot zero.
	}

	return false, ErrTableFull
}

// Lookup returns the value for k, probing the same chain Insert would
// have used rather than reading only the home slot.
func (t *Table[K, V]) Lookup(k K) (V, bool, error) {
	var zero V

	keyBuf := make([]byte, t.keyCodec.Width())
	t.keyCodec.Encode(k, keyBuf)

	headerFrame, err := t.pool.FetchPage(t.headerPid)
	if err != nil {
		return zero, false, err
	}
	defer t.pool.UnpinPage(t.headerPid, false)

	blockIdx, blockOff := t.homeSlot(k)

	for bucket := 0; bucket < int(t.numBuckets); bucket++ {
		idx := (blockIdx + bucket) % int(t.numBuckets)
		offset := 0
		if bucket == 0 {
			offset = blockOff
		}

		var dirPid disk.PageID
		headerFrame.WithRead(func(buf []byte) {
			dirPid = headerDirEntry(buf, idx)
		})

		if dirPid == disk.InvalidPageID {
			// This bucket was never allocated, so no insert ever
			// probed past it: the chain ends here.
			return zero, false, nil
		}

		blockFrame, err := t.pool.FetchPage(dirPid)
		if err != nil {
			return zero, false, err
		}

		var value V
		found := false
		stop := false
		blockFrame.WithRead(func(buf []byte) {
			for i := offset; i < t.layout.cap; i++ {
				if !t.layout.occupied(buf, i) {
					stop = true
					return
				}
				if t.layout.readable(buf, i) && string(t.layout.keyBytes(buf, i)) == string(keyBuf) {
					value = t.valCodec.Decode(t.layout.valueBytes(buf, i))
					found = true
					return
				}
			}
		})
		t.pool.UnpinPage(dirPid, false)

		if found {
			return value, true, nil
		}
		if stop {
			return zero, false, nil
		}
	}

	return zero, false, nil
}

// Remove clears the readable bit of k's slot if present, leaving the
// occupied bit set so later probes for other keys in the same chain
// are undisturbed. Returns false if k is not present.
func (t *Table[K, V]) Remove(k K) (bool, error) {
	keyBuf := make([]byte, t.keyCodec.Width())
	t.keyCodec.Encode(k, keyBuf)

	headerFrame, err := t.pool.FetchPage(t.headerPid)
	if err != nil {
		return false, err
	}
	defer t.pool.UnpinPage(t.headerPid, false)

	blockIdx, blockOff := t.homeSlot(k)

	for bucket := 0; bucket < int(t.numBuckets); bucket++ {
		idx := (blockIdx + bucket) % int(t.numBuckets)
		offset := 0
		if bucket == 0 {
			offset = blockOff
		}

		var dirPid disk.PageID
		headerFrame.WithRead(func(buf []byte) {
			dirPid = headerDirEntry(buf, idx)
		})

		if dirPid == disk.InvalidPageID {
			return false, nil
		}

		blockFrame, err := t.pool.FetchPage(dirPid)
		if err != nil {
			return false, err
		}

		matchSlot := -1
		stop := false
		blockFrame.WithRead(func(buf []byte) {
			for i := offset; i < t.layout.cap; i++ {
				if !t.layout.occupied(buf, i) {
					stop = true
					return
				}
				if t.layout.readable(buf, i) && string(t.layout.keyBytes(buf, i)) == string(keyBuf) {
					matchSlot = i
					return
				}
			}
		})

		removed := false
		if matchSlot >= 0 {
			blockFrame.WithWrite(func(buf []byte) {
				t.layout.clearReadable(buf, matchSlot)
			})
			removed = true
		}
		t.pool.UnpinPage(dirPid, removed)

		if removed {
			slog.Debug(logPrefix+"removed key", "bucket", idx)
			return true, nil
		}
		if stop {
			return false, nil
		}
	}

	return false, nil
}
