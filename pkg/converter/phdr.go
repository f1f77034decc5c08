package converter

import (
	"fmt"
	"math"

	"github.com/andreistan26/doltool/pkg/dol"
	"github.com/andreistan26/doltool/pkg/elf"
)

const phdrAlign = 0

// File offset of a DOL segment once the DOL is embedded at dolOffset
func fileOffset(dolOffset uint32, segment dol.Segment) (uint32, error) {
	off := uint64(dolOffset) + uint64(segment.Offset)
	if off > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %v", ErrOffsetOverflow, segment)
	}

	return uint32(off), nil
}

func loadPhdr(img *Image, segment dol.Segment, flags uint32) (elf.Elf32Phdr, error) {
	off, err := fileOffset(img.DolOffset, segment)
	if err != nil {
		return elf.Elf32Phdr{}, err
	}

	return elf.Elf32Phdr{
		Type:   elf.PT_LOAD,
		Offset: off,
		Vaddr:  segment.Address,
		Paddr:  segment.Address,
		FileSz: segment.Size,
		MemSz:  segment.Size,
		Flags:  flags,
		Align:  phdrAlign,
	}, nil
}

// No file contents, the loader zero fills the region
func bssPhdr(region BssRegion) elf.Elf32Phdr {
	return elf.Elf32Phdr{
		Type:   elf.PT_LOAD,
		Offset: 0,
		Vaddr:  region.Address,
		Paddr:  region.Address,
		FileSz: 0,
		MemSz:  region.Size,
		Flags:  elf.PF_R | elf.PF_W,
		Align:  phdrAlign,
	}
}

// BuildProgramHeaders fills img.Phdrs: text segments, data segments, then
// the bss regions. Nothing in img is touched when the entry count disagrees
// with img.Phnum.
func BuildProgramHeaders(h *dol.Header, img *Image, useBssFix bool) error {
	text, data := h.TextSegments(), h.DataSegments()
	regions, err := BssRegions(h, useBssFix)
	if err != nil {
		return err
	}

	count := len(text) + len(data) + len(regions)
	if count != img.Phnum || count != len(img.Phdrs) {
		return &SegmentCountMismatchError{Table: "program", Want: img.Phnum, Got: count}
	}

	phdrs := make([]elf.Elf32Phdr, 0, count)
	for _, segment := range text {
		phdr, err := loadPhdr(img, segment, elf.PF_R|elf.PF_X)
		if err != nil {
			return err
		}
		phdrs = append(phdrs, phdr)
	}

	for _, segment := range data {
		phdr, err := loadPhdr(img, segment, elf.PF_R|elf.PF_W)
		if err != nil {
			return err
		}
		phdrs = append(phdrs, phdr)
	}

	for _, region := range regions {
		phdrs = append(phdrs, bssPhdr(region))
	}

	copy(img.Phdrs, phdrs)
	return nil
}
