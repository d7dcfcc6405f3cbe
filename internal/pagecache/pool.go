// Package pagecache implements the buffer pool manager: a fixed-size
// array of page frames backed by a free list, a clock replacer, and a
// disk manager, exposing the page-level API consumed by the hash
// index.
package pagecache

import (
	"log/slog"
	"sync"

	"github.com/nvbase/pagekeeper/internal/disk"
	"github.com/nvbase/pagekeeper/pkg/clockx"
)

const logPrefix = "pagecache: "

// Pool is the buffer pool manager.
type Pool struct {
	frames   []*Frame
	disk     disk.Manager
	replacer *clockx.Clock
	table    *pageTable

	// freeList holds indices of frames that have never held a page
	// table entry, or were returned by DeletePage or by a FetchPage/
	// NewPage that failed after acquiring a frame. It is consumed
	// strictly before asking the replacer for a victim. Initialized in
	// descending order so frame capacity-1 is handed out first.
	freeList chan int

	// installMu serializes all of FetchPage (hit and miss paths),
	// NewPage and DeletePage, so two concurrent fetches of the same pid cannot
	// both acquire a frame, and so a frame can't be picked as a victim
	// by one goroutine while another is deleting it.
	installMu sync.Mutex
}

// NewPool constructs a buffer pool with the given number of frames,
// backed by dm. capacity <= 0 is treated as 1.
func NewPool(capacity int, dm disk.Manager) *Pool {
	if capacity <= 0 {
		capacity = 1
	}

	frames := make([]*Frame, capacity)
	for i := range frames {
		frames[i] = newFrame()
	}

	freeList := make(chan int, capacity)
	for i := capacity - 1; i >= 0; i-- {
		freeList <- i
	}

	return &Pool{
		frames:   frames,
		disk:     dm,
		replacer: clockx.New(capacity),
		table:    newPageTable(),
		freeList: freeList,
	}
}

// Capacity returns the number of frames this pool manages.
func (p *Pool) Capacity() int {
	return len(p.frames)
}

// acquireFrame returns an unused or newly-evicted frame index, writing
// back the evicted victim's dirty content first. Returns ErrNoFreeFrame
// if the free list is empty and the replacer has no candidate.
func (p *Pool) acquireFrame() (int, error) {
	select {
	case fid := <-p.freeList:
		return fid, nil
	default:
	}

	fid, ok := p.replacer.Victim()
	if !ok {
		return -1, ErrNoFreeFrame
	}

	victim := p.frames[fid]
	oldPid := victim.PageID()
	data, dirty := victim.snapshot()

	if dirty {
		if err := p.disk.WritePage(oldPid, data); err != nil {
			// The victim was never evicted; restore its eviction
			// candidacy and propagate the error untouched.
			p.replacer.Unpin(fid)
			slog.Error(logPrefix+"victim write-back failed", "pid", oldPid, "fid", fid, "err", err)
			return -1, err
		}
		slog.Debug(logPrefix+"evicted dirty frame", "pid", oldPid, "fid", fid)
	} else {
		slog.Debug(logPrefix+"evicted clean frame", "pid", oldPid, "fid", fid)
	}

	p.table.delete(oldPid)
	return fid, nil
}

// FetchPage returns a pinned frame holding pid, reading it from disk
// if it is not already resident.
//
// The whole lookup-then-pin sequence runs under installMu, the same
// lock DeletePage holds across its residency-check-then-mutate
// sequence. Without this, a hit here could observe pid still mapped
// and pin it in the gap between DeletePage's pin-count check and its
// table removal, handing out a lease on a frame DeletePage is about to
// push onto the free list for reuse.
func (p *Pool) FetchPage(pid disk.PageID) (*Frame, error) {
	p.installMu.Lock()
	defer p.installMu.Unlock()

	if fid, ok := p.table.get(pid); ok {
		f := p.frames[fid]
		f.incPin()
		p.replacer.Pin(fid)
		slog.Debug(logPrefix+"fetch hit", "pid", pid, "fid", fid)
		return f, nil
	}

	fid, err := p.acquireFrame()
	if err != nil {
		slog.Error(logPrefix+"fetch failed", "pid", pid, "err", err)
		return nil, err
	}

	var tmp [disk.PageSize]byte
	if err := p.disk.ReadPage(pid, tmp[:]); err != nil {
		p.freeList <- fid
		slog.Error(logPrefix+"fetch read failed", "pid", pid, "err", err)
		return nil, err
	}

	f := p.frames[fid]
	f.reset(pid)
	f.load(tmp[:])
	p.table.set(pid, fid)
	p.replacer.Pin(fid)
	slog.Debug(logPrefix+"fetch miss loaded", "pid", pid, "fid", fid)
	return f, nil
}

// NewPage allocates a fresh page id on disk and returns a pinned frame
// for it. The frame's buffer starts zeroed; nothing is read from disk.
func (p *Pool) NewPage() (*Frame, disk.PageID, error) {
	p.installMu.Lock()
	defer p.installMu.Unlock()

	fid, err := p.acquireFrame()
	if err != nil {
		slog.Error(logPrefix + "new page failed: no free frame")
		return nil, disk.InvalidPageID, err
	}

	pid, err := p.disk.AllocatePage()
	if err != nil {
		p.freeList <- fid
		slog.Error(logPrefix+"new page failed: disk allocate", "err", err)
		return nil, disk.InvalidPageID, err
	}

	f := p.frames[fid]
	f.reset(pid)
	p.table.set(pid, fid)
	p.replacer.Pin(fid)
	slog.Debug(logPrefix+"new page", "pid", pid, "fid", fid)
	return f, pid, nil
}

// UnpinPage decrements the pin count of the resident frame for pid and
// ORs in isDirty. Once the pin count reaches zero the frame is marked
// evictable in the replacer. Returns false if pid is not resident.
func (p *Pool) UnpinPage(pid disk.PageID, isDirty bool) bool {
	fid, ok := p.table.get(pid)
	if !ok {
		return false
	}

	f := p.frames[fid]
	remaining := f.decPin(isDirty)
	if remaining <= 0 {
		p.replacer.Unpin(fid)
	}
	return true
}

// FlushPage writes the resident frame for pid to disk. Per the
// reference design it does not clear the dirty flag; only the
// write-back on eviction or in DeletePage does. Returns false if pid is
// not resident.
func (p *Pool) FlushPage(pid disk.PageID) bool {
	fid, ok := p.table.get(pid)
	if !ok {
		return false
	}

	f := p.frames[fid]
	data, _ := f.snapshot()
	if err := p.disk.WritePage(pid, data); err != nil {
		slog.Error(logPrefix+"flush failed", "pid", pid, "err", err)
		return false
	}
	slog.Debug(logPrefix+"flushed page", "pid", pid, "fid", fid)
	return true
}

// DeletePage removes pid from the pool, failing with ErrInUse if it is
// resident and pinned. If resident and unpinned, any dirty content is
// written back first, then the frame is returned to the free list and
// the replacer stops tracking it. Disk deallocation is always
// requested and its result propagated, even if pid was not resident.
func (p *Pool) DeletePage(pid disk.PageID) (bool, error) {
	p.installMu.Lock()
	defer p.installMu.Unlock()

	fid, ok := p.table.get(pid)
	if !ok {
		return p.disk.DeallocatePage(pid)
	}

	f := p.frames[fid]
	if f.PinCount() > 0 {
		return false, ErrInUse
	}

	if f.IsDirty() {
		data, _ := f.snapshot()
		if err := p.disk.WritePage(pid, data); err != nil {
			return false, err
		}
		f.clearDirty()
	}

	p.table.delete(pid)
	p.replacer.Remove(fid)
	p.freeList <- fid

	slog.Debug(logPrefix+"deleted page", "pid", pid, "fid", fid)
	return p.disk.DeallocatePage(pid)
}
