package dol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

/*
   DOL is the native executable format of the GameCube and Wii. The file starts
   with a fixed 0x100 byte header, every field is a big-endian 32-bit word:

     0x00  text section file offsets  [7]
     0x1C  data section file offsets  [11]
     0x48  text section load addresses
     0x64  data section load addresses
     0x90  text section sizes
     0xAC  data section sizes
     0xD8  bss address
     0xDC  bss size
     0xE0  entry point
     0xE4  padding up to 0x100
*/

const (
	TextCount  = 7
	DataCount  = 11
	HeaderSize = 0x100
)

var (
	ErrShortHeader      = errors.New("file is smaller than a DOL header")
	ErrSegmentOutOfFile = errors.New("segment extends past the end of the file")
)

// On disk layout, decoded with binary.BigEndian
type rawHeader struct {
	TextOffset  [TextCount]uint32
	DataOffset  [DataCount]uint32
	TextAddress [TextCount]uint32
	DataAddress [DataCount]uint32
	TextSize    [TextCount]uint32
	DataSize    [DataCount]uint32
	BssAddress  uint32
	BssSize     uint32
	Entry       uint32
	Padding     [0x1C]byte
}

// Header holds the DOL header fields in host byte order. Raw keeps the
// verbatim bytes as they appear in the file.
type Header struct {
	TextOffset  [TextCount]uint32
	DataOffset  [DataCount]uint32
	TextAddress [TextCount]uint32
	DataAddress [DataCount]uint32
	TextSize    [TextCount]uint32
	DataSize    [DataCount]uint32
	BssAddress  uint32
	BssSize     uint32
	Entry       uint32

	Raw [HeaderSize]byte
}

type SegmentKind int

const (
	KindText SegmentKind = iota
	KindData
)

func (k SegmentKind) String() string {
	if k == KindText {
		return "text"
	}
	return "data"
}

// A single non-empty text or data segment, Index is the slot in the header
type Segment struct {
	Kind    SegmentKind
	Index   int
	Offset  uint32
	Address uint32
	Size    uint32
}

// End address of the segment, 64-bit so that it never wraps
func (s Segment) End() uint64 {
	return uint64(s.Address) + uint64(s.Size)
}

func (s Segment) String() string {
	return fmt.Sprintf("%s%d: offset=0x%x addr=0x%08x size=0x%x", s.Kind, s.Index, s.Offset, s.Address, s.Size)
}

func Parse(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: got %d bytes, need %d", ErrShortHeader, len(data), HeaderSize)
	}

	raw := rawHeader{}
	if err := binary.Read(bytes.NewReader(data[:HeaderSize]), binary.BigEndian, &raw); err != nil {
		return nil, err
	}

	header := &Header{
		TextOffset:  raw.TextOffset,
		DataOffset:  raw.DataOffset,
		TextAddress: raw.TextAddress,
		DataAddress: raw.DataAddress,
		TextSize:    raw.TextSize,
		DataSize:    raw.DataSize,
		BssAddress:  raw.BssAddress,
		BssSize:     raw.BssSize,
		Entry:       raw.Entry,
	}
	copy(header.Raw[:], data[:HeaderSize])

	return header, nil
}

// Encode the header back into its on disk form
func (h *Header) Marshal() []byte {
	raw := rawHeader{
		TextOffset:  h.TextOffset,
		DataOffset:  h.DataOffset,
		TextAddress: h.TextAddress,
		DataAddress: h.DataAddress,
		TextSize:    h.TextSize,
		DataSize:    h.DataSize,
		BssAddress:  h.BssAddress,
		BssSize:     h.BssSize,
		Entry:       h.Entry,
	}
	copy(raw.Padding[:], h.Raw[0xE4:])

	buf := bytes.NewBuffer(make([]byte, 0, HeaderSize))
	// writes into a bytes.Buffer cannot fail
	_ = binary.Write(buf, binary.BigEndian, &raw)
	return buf.Bytes()
}

func (h *Header) TextSegments() []Segment {
	segments := []Segment{}
	for i := 0; i < TextCount; i++ {
		if h.TextSize[i] != 0 {
			segments = append(segments, Segment{
				Kind:    KindText,
				Index:   i,
				Offset:  h.TextOffset[i],
				Address: h.TextAddress[i],
				Size:    h.TextSize[i],
			})
		}
	}

	return segments
}

func (h *Header) DataSegments() []Segment {
	segments := []Segment{}
	for i := 0; i < DataCount; i++ {
		if h.DataSize[i] != 0 {
			segments = append(segments, Segment{
				Kind:    KindData,
				Index:   i,
				Offset:  h.DataOffset[i],
				Address: h.DataAddress[i],
				Size:    h.DataSize[i],
			})
		}
	}

	return segments
}

// Non-empty text segments followed by non-empty data segments, each in slot order
func (h *Header) Segments() []Segment {
	return append(h.TextSegments(), h.DataSegments()...)
}

func (h *Header) BssEnd() uint64 {
	return uint64(h.BssAddress) + uint64(h.BssSize)
}

// Check that every non-empty segment is backed by the file
func (h *Header) Validate(fileSize int) error {
	for _, segment := range h.Segments() {
		end := uint64(segment.Offset) + uint64(segment.Size)
		if end > uint64(fileSize) {
			return fmt.Errorf("%w: %v, file size 0x%x", ErrSegmentOutOfFile, segment, fileSize)
		}
	}

	return nil
}

// File contents of a segment, the header must have been validated against data
func (h *Header) SegmentData(data []byte, segment Segment) []byte {
	return data[segment.Offset : segment.Offset+segment.Size]
}
