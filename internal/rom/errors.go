package rom

import "errors"

// Format errors. Always fatal; wrapping adds the (area, room) or byte-offset
// where the parse failed.
var (
	ErrInvalidPointer = errors.New("pointer outside mapped bank window")
	ErrShortRead      = errors.New("short read")
	ErrUnknownTag     = errors.New("unknown object table tag")
	ErrTrailingBytes  = errors.New("trailing bytes after object table")
	ErrShortTable     = errors.New("short chest table")
	ErrTruncatedRom   = errors.New("truncated rom")
)

// Policy errors. Fatal but user-actionable.
var (
	ErrInvalidRomSize = errors.New("rom has unexpected size")
	ErrUnknownRom     = errors.New("unrecognized rom")
	ErrWrongRegion    = errors.New("unsupported rom region")
)
