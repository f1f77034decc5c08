package converter

import (
	"math"

	"github.com/andreistan26/doltool/pkg/dol"
)

/*
   DOL files describe a single bss range, but on this platform the .sdata and
   .sdata2 sections (the last two data segments) are placed inside it, with
   their uninitialized tails .sbss and .sbss2 following each of them:

     bss_address                                                      bss_end
     | .bss | .sdata (data) | .sbss | .sdata2 (data) | .sbss2 |

   Loading the bss as one zero filled segment would wipe .sdata and .sdata2,
   so with the fix enabled the range is split into three regions that skip the
   two data segments.
*/

// BssRegion is one zero filled range carved out of the DOL bss.
type BssRegion struct {
	Name    string // bss, sbss or sbss2
	Address uint32
	Size    uint32
}

// SectionName is the ELF section name of the region, e.g. ".sbss".
func (r BssRegion) SectionName() string {
	return "." + r.Name
}

// LastTwoDataSegments returns the two highest indexed non-empty data
// segments in slot order, or nil for both when fewer than two exist.
func LastTwoDataSegments(h *dol.Header) (sdata, sdata2 *dol.Segment) {
	segments := h.DataSegments()
	if len(segments) < 2 {
		return nil, nil
	}

	return &segments[len(segments)-2], &segments[len(segments)-1]
}

// SplitBss splits the bss range into the regions to emit as zero filled
// segments. The result has 0, 1 or 3 entries. With fix set, sdata and sdata2
// must both be given and lie inside the range in ascending order.
func SplitBss(bssAddress, bssSize uint32, sdata, sdata2 *dol.Segment, fix bool) ([]BssRegion, error) {
	if bssSize == 0 {
		return []BssRegion{}, nil
	}

	if !fix {
		return []BssRegion{{Name: "bss", Address: bssAddress, Size: bssSize}}, nil
	}

	if sdata == nil || sdata2 == nil {
		return nil, ErrInsufficientDataSegments
	}

	bssEnd := uint64(bssAddress) + uint64(bssSize)
	if bssEnd > math.MaxUint32+1 {
		return nil, &InvalidBssGeometryError{Region: "bss", Address: uint64(bssAddress), Size: int64(bssSize)}
	}

	spans := []struct {
		name  string
		start uint64
		end   uint64
	}{
		{"bss", uint64(bssAddress), uint64(sdata.Address)},
		{"sbss", sdata.End(), uint64(sdata2.Address)},
		{"sbss2", sdata2.End(), bssEnd},
	}

	regions := make([]BssRegion, 0, len(spans))
	for _, span := range spans {
		size := int64(span.end) - int64(span.start)
		if size < 0 || span.start > math.MaxUint32 {
			return nil, &InvalidBssGeometryError{Region: span.name, Address: span.start, Size: size}
		}

		regions = append(regions, BssRegion{
			Name:    span.name,
			Address: uint32(span.start),
			Size:    uint32(size),
		})
	}

	return regions, nil
}

// BssRegions applies SplitBss to a parsed header, it is shared by both
// header builders.
func BssRegions(h *dol.Header, fix bool) ([]BssRegion, error) {
	sdata, sdata2 := LastTwoDataSegments(h)
	return SplitBss(h.BssAddress, h.BssSize, sdata, sdata2, fix)
}

// DetectBssFix reports whether the header looks like it needs the bss split:
// the last two data segments must lie inside the bss range, in ascending order.
func DetectBssFix(h *dol.Header) bool {
	if h.BssSize == 0 {
		return false
	}

	sdata, sdata2 := LastTwoDataSegments(h)
	if sdata == nil {
		return false
	}

	bssStart, bssEnd := uint64(h.BssAddress), h.BssEnd()
	return bssStart <= uint64(sdata.Address) &&
		sdata.End() <= uint64(sdata2.Address) &&
		sdata2.End() <= bssEnd
}
