package converter

import (
	"fmt"

	"github.com/andreistan26/doltool/pkg/dol"
	"github.com/andreistan26/doltool/pkg/elf"
)

// Names are interned by NewImage, building never grows the string table
func sectionNameIndex(img *Image, name string) (uint32, error) {
	off, ok := img.Strtab.Index(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSectionName, name)
	}

	return off, nil
}

func progbitsShdr(img *Image, segment dol.Segment, name string, flags uint32) (elf.Elf32Shdr, error) {
	off, err := fileOffset(img.DolOffset, segment)
	if err != nil {
		return elf.Elf32Shdr{}, err
	}

	nameOff, err := sectionNameIndex(img, name)
	if err != nil {
		return elf.Elf32Shdr{}, err
	}

	return elf.Elf32Shdr{
		ShName:  nameOff,
		ShType:  elf.SHT_PROGBITS,
		ShFlags: flags,
		ShAddr:  segment.Address,
		ShOff:   off,
		ShSize:  segment.Size,
	}, nil
}

// NOBITS sections have no contents, sh_offset only points somewhere sane
func bssShdr(img *Image, region BssRegion) (elf.Elf32Shdr, error) {
	nameOff, err := sectionNameIndex(img, region.SectionName())
	if err != nil {
		return elf.Elf32Shdr{}, err
	}

	return elf.Elf32Shdr{
		ShName:  nameOff,
		ShType:  elf.SHT_NOBITS,
		ShFlags: elf.SHF_ALLOC | elf.SHF_WRITE,
		ShAddr:  region.Address,
		ShOff:   img.DolOffset,
		ShSize:  region.Size,
	}, nil
}

// BuildSectionHeaders fills img.Shdrs. Index 0 is the null section and
// index 1 is .shstrtab, then come the text, data and bss sections in program
// header order and finally .dolhdr covering the embedded DOL header.
// Nothing in img is touched when the entry count disagrees with img.Shnum.
func BuildSectionHeaders(h *dol.Header, img *Image, useBssFix bool) error {
	text, data := h.TextSegments(), h.DataSegments()
	regions, err := BssRegions(h, useBssFix)
	if err != nil {
		return err
	}

	// null, .shstrtab and .dolhdr
	count := len(text) + len(data) + len(regions) + 3
	if count != img.Shnum || count != len(img.Shdrs) {
		return &SegmentCountMismatchError{Table: "section", Want: img.Shnum, Got: count}
	}

	shdrs := make([]elf.Elf32Shdr, 0, count)
	shdrs = append(shdrs, elf.Elf32Shdr{ShType: elf.SHT_NULL})

	strtabName, err := sectionNameIndex(img, shstrtabName)
	if err != nil {
		return err
	}
	shdrs = append(shdrs, elf.Elf32Shdr{
		ShName: strtabName,
		ShType: elf.SHT_STRTAB,
		ShOff:  img.StrtabOffset,
		ShSize: img.Strtab.Len(),
	})

	for _, segment := range text {
		shdr, err := progbitsShdr(img, segment, textSectionNames[segment.Index], elf.SHF_ALLOC|elf.SHF_EXECINSTR)
		if err != nil {
			return err
		}
		shdrs = append(shdrs, shdr)
	}

	for _, segment := range data {
		shdr, err := progbitsShdr(img, segment, dataSectionNames[segment.Index], elf.SHF_ALLOC|elf.SHF_WRITE)
		if err != nil {
			return err
		}
		shdrs = append(shdrs, shdr)
	}

	for _, region := range regions {
		shdr, err := bssShdr(img, region)
		if err != nil {
			return err
		}
		shdrs = append(shdrs, shdr)
	}

	dolhdr, err := sectionNameIndex(img, dolhdrName)
	if err != nil {
		return err
	}
	shdrs = append(shdrs, elf.Elf32Shdr{
		ShName: dolhdr,
		ShType: elf.SHT_PROGBITS,
		ShOff:  img.DolOffset,
		ShSize: dol.HeaderSize,
	})

	copy(img.Shdrs, shdrs)
	return nil
}
