package pagecache

import (
	"sync"

	"github.com/nvbase/pagekeeper/internal/disk"
)

// shardCount is the number of page-table shards. A power of two so
// the shard selector is a mask instead of a modulo.
const shardCount = 16

// pageTable maps PageID to frame index without blocking readers of
// unrelated keys: it is partitioned into lock-striped shards, each
// guarding its own map with an independent RWMutex.
type pageTable struct {
	shards [shardCount]*ptShard
}

type ptShard struct {
	mu    sync.RWMutex
	items map[disk.PageID]int
}

func newPageTable() *pageTable {
	pt := &pageTable{}
	for i := range pt.shards {
		pt.shards[i] = &ptShard{items: make(map[disk.PageID]int)}
	}
	return pt
}

func (pt *pageTable) shardFor(pid disk.PageID) *ptShard {
	return pt.shards[uint32(pid)&(shardCount-1)]
}

func (pt *pageTable) get(pid disk.PageID) (int, bool) {
	s := pt.shardFor(pid)
	s.mu.RLock()
	defer s.mu.RUnlock()
	fid, ok := s.items[pid]
	return fid, ok
}

func (pt *pageTable) set(pid disk.PageID, fid int) {
	s := pt.shardFor(pid)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[pid] = fid
}

func (pt *pageTable) delete(pid disk.PageID) {
	s := pt.shardFor(pid)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, pid)
}
