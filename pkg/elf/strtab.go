package elf

import (
	"github.com/andreistan26/doltool/pkg/helpers"
)

// StringTable is a deduplicated blob of null terminated names. The empty
// string always lives at offset 0.
type StringTable struct {
	data    []byte
	offsets map[string]uint32
}

func NewStringTable() *StringTable {
	return &StringTable{
		data:    helpers.String2Bytes(""),
		offsets: map[string]uint32{"": 0},
	}
}

// Return the offset of name, appending it on first use
func (s *StringTable) Intern(name string) uint32 {
	if off, ok := s.offsets[name]; ok {
		return off
	}

	off := uint32(len(s.data))
	s.data = append(s.data, helpers.String2Bytes(name)...)
	s.offsets[name] = off
	return off
}

// Offset of an already interned name, the table is left untouched
func (s *StringTable) Index(name string) (uint32, bool) {
	off, ok := s.offsets[name]
	return off, ok
}

func (s *StringTable) Lookup(off uint32) (string, bool) {
	if int(off) >= len(s.data) {
		return "", false
	}

	return helpers.GetString(s.data[off:])
}

func (s *StringTable) Len() uint32 {
	return uint32(len(s.data))
}

func (s *StringTable) Bytes() []byte {
	return s.data
}
