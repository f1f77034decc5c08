package elf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

/*
   The following structures are the 32-bit variants documented by the System V ABI.
   Every record produced by this package is written in big-endian order, the
   native byte order of the PowerPC targets that run DOL executables.
*/

var ByteOrder = binary.BigEndian

const (
	EHDR32_SIZE = 52
	PHDR32_SIZE = 32
	SHDR32_SIZE = 40
)

type Elf32Ehdr struct {
	Ident     [16]byte // ELF identification
	Type      uint16   // Object file type
	Machine   uint16   // Machine type
	Version   uint32   // Object file version
	Entry     uint32   // Entry point address
	PhOff     uint32   // Program Header offset
	ShOff     uint32   // Section Header offset
	Flags     uint32   // Processor specific flags
	EhSize    uint16   // ELF Header size
	PhEntSize uint16   // Size of Program Header
	PhNum     uint16   // Number of program header entries
	ShEntSize uint16   // Size of the Section Header entry
	ShNum     uint16   // Number of Section Header entries
	ShStrNdx  uint16   // Section name String Table index
}

const (
	EI_MAG0       = 0
	EI_MAG1       = 1
	EI_MAG2       = 2
	EI_MAG3       = 3
	EI_CLASS      = 4
	EI_DATA       = 5
	EI_VERSION    = 6
	EI_OSABI      = 7
	EI_ABIVERSION = 8
	EI_PAD        = 9
	EI_NIDENT     = 16
)

const (
	ELFCLASS32 = 1
	ELFCLASS64 = 2
)

const (
	ELFDATA2LSB = 1
	ELFDATA2MSB = 2
)

const (
	EV_CURRENT = 1
)

const (
	ELFOSABI_SYSV = 0
)

// Type of ELF file
const (
	ET_NONE = 0
	ET_REL  = 1
	ET_EXEC = 2
	ET_DYN  = 3
	ET_CORE = 4
)

const (
	EM_PPC = 20
)

var (
	InvalidMagicErr = errors.New("Invalid magic in ELF file.")
	UnsupportedErr  = errors.New("Only big-endian ELF32 files are supported.")
)

// Fill the identification bytes of a big-endian ELF32 header
func NewIdent() [16]byte {
	ident := [16]byte{'\x7f', 'E', 'L', 'F'}
	ident[EI_CLASS] = ELFCLASS32
	ident[EI_DATA] = ELFDATA2MSB
	ident[EI_VERSION] = EV_CURRENT
	ident[EI_OSABI] = ELFOSABI_SYSV
	return ident
}

func (ehdr *Elf32Ehdr) VerifyMagic() error {
	if !bytes.Equal(ehdr.Ident[EI_MAG0:EI_CLASS], []byte{'\x7f', 'E', 'L', 'F'}) {
		return InvalidMagicErr
	}

	return nil
}

func ParseHeader(elfDump []byte) (Elf32Ehdr, error) {
	if len(elfDump) < EHDR32_SIZE {
		return Elf32Ehdr{}, errors.New("ELF Header size is bigger than the data provided")
	}

	ehdr := Elf32Ehdr{}
	copy(ehdr.Ident[:], elfDump[0:16])
	if err := ehdr.VerifyMagic(); err != nil {
		return Elf32Ehdr{}, err
	}

	if ehdr.Ident[EI_CLASS] != ELFCLASS32 || ehdr.Ident[EI_DATA] != ELFDATA2MSB {
		return Elf32Ehdr{}, UnsupportedErr
	}

	err := binary.Read(bytes.NewReader(elfDump[:EHDR32_SIZE]), ByteOrder, &ehdr)
	return ehdr, err
}

// Section header entries
type Elf32Shdr struct {
	ShName      uint32 // offset to the section name relative to section name table
	ShType      uint32 // section type
	ShFlags     uint32
	ShAddr      uint32
	ShOff       uint32
	ShSize      uint32
	ShLink      uint32
	ShInfo      uint32
	ShAddrAlign uint32
	ShEntSize   uint32
}

const (
	SHT_NULL     = 0
	SHT_PROGBITS = 1
	SHT_SYMTAB   = 2
	SHT_STRTAB   = 3
	SHT_RELA     = 4
	SHT_NOTE     = 7
	SHT_NOBITS   = 8
	SHT_REL      = 9
)

const (
	SHF_WRITE     = 0x1
	SHF_ALLOC     = 0x2
	SHF_EXECINSTR = 0x4
)

// Program header entries
type Elf32Phdr struct {
	Type   uint32
	Offset uint32
	Vaddr  uint32
	Paddr  uint32
	FileSz uint32
	MemSz  uint32
	Flags  uint32
	Align  uint32
}

const (
	PT_NULL    = 0
	PT_LOAD    = 1
	PT_DYNAMIC = 2
	PT_INTERP  = 3
	PT_NOTE    = 4
	PT_PHDR    = 6
)

const (
	PF_X = 0x1
	PF_W = 0x2
	PF_R = 0x4
)

// Write any of the fixed size records above in big-endian order
func Write[T Elf32Ehdr | Elf32Phdr | Elf32Shdr | []Elf32Phdr | []Elf32Shdr](w io.Writer, data T) error {
	return binary.Write(w, ByteOrder, data)
}

func ParsePhdrs(elfDump []byte, ehdr Elf32Ehdr) ([]Elf32Phdr, error) {
	phdrs := make([]Elf32Phdr, ehdr.PhNum)
	end := uint64(ehdr.PhOff) + uint64(ehdr.PhNum)*PHDR32_SIZE
	if end > uint64(len(elfDump)) {
		return nil, errors.New("Program header table extends past the end of the file")
	}

	err := binary.Read(bytes.NewReader(elfDump[ehdr.PhOff:end]), ByteOrder, phdrs)
	return phdrs, err
}

func ParseShdrs(elfDump []byte, ehdr Elf32Ehdr) ([]Elf32Shdr, error) {
	shdrs := make([]Elf32Shdr, ehdr.ShNum)
	end := uint64(ehdr.ShOff) + uint64(ehdr.ShNum)*SHDR32_SIZE
	if end > uint64(len(elfDump)) {
		return nil, errors.New("Section header table extends past the end of the file")
	}

	err := binary.Read(bytes.NewReader(elfDump[ehdr.ShOff:end]), ByteOrder, shdrs)
	return shdrs, err
}
