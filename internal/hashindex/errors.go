package hashindex

import "errors"

// ErrTableFull is returned by Insert when every bucket has been probed
// without finding a free slot or a duplicate. Rehashing/resizing is
// out of scope; callers must size numBuckets up front.
var ErrTableFull = errors.New("hashindex: table full")
