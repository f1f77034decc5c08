package converter

import (
	"bytes"
	"fmt"
	"math"

	"github.com/andreistan26/doltool/pkg/dol"
	"github.com/andreistan26/doltool/pkg/elf"
	"github.com/andreistan26/doltool/pkg/helpers"
)

// Alignment of the embedded DOL file inside the ELF image
const DolAlign = 0x20

var textSectionNames = [dol.TextCount]string{
	".text", ".text1", ".text2", ".text3", ".text4", ".text5", ".text6",
}

var dataSectionNames = [dol.DataCount]string{
	".data", ".data1", ".data2", ".data3", ".data4", ".data5",
	".data6", ".data7", ".data8", ".data9", ".data10",
}

const (
	shstrtabName = ".shstrtab"
	dolhdrName   = ".dolhdr"
)

// Image is the ELF file being produced. The layout is
//
//	ELF header | program headers | section headers | .shstrtab | pad | DOL file
//
// and is fixed by NewImage before any header is built.
type Image struct {
	DolOffset    uint32
	StrtabOffset uint32

	Phnum int
	Shnum int

	Phdrs  []elf.Elf32Phdr
	Shdrs  []elf.Elf32Shdr
	Strtab *elf.StringTable

	Entry  uint32
	BssFix bool
}

// Count the headers, intern every section name and lay out the file.
// The returned image has its header tables allocated but not filled.
func NewImage(h *dol.Header, useBssFix bool) (*Image, error) {
	regions, err := BssRegions(h, useBssFix)
	if err != nil {
		return nil, err
	}

	text, data := h.TextSegments(), h.DataSegments()

	img := &Image{
		Phnum:  len(text) + len(data) + len(regions),
		Strtab: elf.NewStringTable(),
		Entry:  h.Entry,
		BssFix: useBssFix,
	}
	// null, .shstrtab and .dolhdr
	img.Shnum = img.Phnum + 3

	// Same order as BuildSectionHeaders so the table is final from here on
	img.Strtab.Intern("")
	img.Strtab.Intern(shstrtabName)
	for _, segment := range text {
		img.Strtab.Intern(textSectionNames[segment.Index])
	}
	for _, segment := range data {
		img.Strtab.Intern(dataSectionNames[segment.Index])
	}
	for _, region := range regions {
		img.Strtab.Intern(region.SectionName())
	}
	img.Strtab.Intern(dolhdrName)

	img.StrtabOffset = img.ShOff() + uint32(img.Shnum)*elf.SHDR32_SIZE
	img.DolOffset = helpers.AlignTo(img.StrtabOffset+img.Strtab.Len(), DolAlign)

	img.Phdrs = make([]elf.Elf32Phdr, img.Phnum)
	img.Shdrs = make([]elf.Elf32Shdr, img.Shnum)

	return img, nil
}

func (img *Image) PhOff() uint32 {
	return elf.EHDR32_SIZE
}

func (img *Image) ShOff() uint32 {
	return img.PhOff() + uint32(img.Phnum)*elf.PHDR32_SIZE
}

func (img *Image) Ehdr() elf.Elf32Ehdr {
	return elf.Elf32Ehdr{
		Ident:     elf.NewIdent(),
		Type:      elf.ET_EXEC,
		Machine:   elf.EM_PPC,
		Version:   elf.EV_CURRENT,
		Entry:     img.Entry,
		PhOff:     img.PhOff(),
		ShOff:     img.ShOff(),
		EhSize:    elf.EHDR32_SIZE,
		PhEntSize: elf.PHDR32_SIZE,
		PhNum:     uint16(img.Phnum),
		ShEntSize: elf.SHDR32_SIZE,
		ShNum:     uint16(img.Shnum),
		ShStrNdx:  1,
	}
}

// Serialize the image followed by the DOL file it was built from
func (img *Image) Bytes(dolFile []byte) ([]byte, error) {
	if uint64(img.DolOffset)+uint64(len(dolFile)) > math.MaxUint32 {
		return nil, ErrOffsetOverflow
	}

	buf := bytes.NewBuffer(make([]byte, 0, int(img.DolOffset)+len(dolFile)))

	if err := elf.Write(buf, img.Ehdr()); err != nil {
		return nil, err
	}
	if err := elf.Write(buf, img.Phdrs); err != nil {
		return nil, err
	}
	if err := elf.Write(buf, img.Shdrs); err != nil {
		return nil, err
	}

	if uint32(buf.Len()) != img.StrtabOffset {
		return nil, fmt.Errorf("string table lands at 0x%x, expected 0x%x", buf.Len(), img.StrtabOffset)
	}
	buf.Write(img.Strtab.Bytes())

	buf.Write(make([]byte, int(img.DolOffset)-buf.Len()))
	buf.Write(dolFile)

	return buf.Bytes(), nil
}
