package pagecache

import "errors"

var (
	// ErrNoFreeFrame is returned when every frame is pinned and the
	// free list is empty, so no victim can be produced.
	ErrNoFreeFrame = errors.New("pagecache: no free frame")
	// ErrInUse is returned by DeletePage when the target page is
	// resident and still pinned.
	ErrInUse = errors.New("pagecache: page is pinned")
)
