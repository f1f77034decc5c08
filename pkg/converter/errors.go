package converter

import (
	"errors"
	"fmt"
)

var (
	ErrSegmentCountMismatch     = errors.New("header count mismatch")
	ErrInsufficientDataSegments = errors.New("bss fix needs at least two non-empty data segments")
	ErrInvalidBssGeometry       = errors.New("invalid bss geometry")
	ErrOffsetOverflow           = errors.New("file offset does not fit in 32 bits")
	ErrUnknownSectionName       = errors.New("section name missing from the string table")
)

// The number of headers written differs from the precomputed count
type SegmentCountMismatchError struct {
	Table string
	Want  int
	Got   int
}

func (e *SegmentCountMismatchError) Error() string {
	return fmt.Sprintf("%s header table: expected %d entries, wrote %d", e.Table, e.Want, e.Got)
}

func (e *SegmentCountMismatchError) Unwrap() error {
	return ErrSegmentCountMismatch
}

// A bss region came out with a negative size, or the bss range wraps
type InvalidBssGeometryError struct {
	Region  string
	Address uint64
	Size    int64
}

func (e *InvalidBssGeometryError) Error() string {
	return fmt.Sprintf("%v: region %s at 0x%x has size %d", ErrInvalidBssGeometry, e.Region, e.Address, e.Size)
}

func (e *InvalidBssGeometryError) Unwrap() error {
	return ErrInvalidBssGeometry
}
