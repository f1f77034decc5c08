package elf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringTableEmptyAtZero(t *testing.T) {
	strtab := NewStringTable()
	assert.Equal(t, uint32(0), strtab.Intern(""))
	assert.Equal(t, uint32(1), strtab.Len())
}

func TestStringTableIntern(t *testing.T) {
	strtab := NewStringTable()

	text := strtab.Intern(".text")
	data := strtab.Intern(".data")
	assert.Equal(t, uint32(1), text)
	assert.Equal(t, uint32(7), data)
	assert.Equal(t, text, strtab.Intern(".text"), "names are deduplicated")
	assert.Equal(t, []byte("\x00.text\x00.data\x00"), strtab.Bytes())

	name, ok := strtab.Lookup(data)
	assert.True(t, ok)
	assert.Equal(t, ".data", name)

	_, ok = strtab.Lookup(strtab.Len())
	assert.False(t, ok)
}

func TestStringTableDeterministic(t *testing.T) {
	names := []string{"", ".shstrtab", ".text", ".data", ".bss", ".text", ".dolhdr"}

	a, b := NewStringTable(), NewStringTable()
	for _, name := range names {
		assert.Equal(t, a.Intern(name), b.Intern(name))
	}
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestStringTableIndexDoesNotInsert(t *testing.T) {
	strtab := NewStringTable()
	text := strtab.Intern(".text")

	off, ok := strtab.Index(".text")
	assert.True(t, ok)
	assert.Equal(t, text, off)

	off, ok = strtab.Index("")
	assert.True(t, ok)
	assert.Equal(t, uint32(0), off)

	_, ok = strtab.Index(".sbss")
	assert.False(t, ok)
	assert.Equal(t, []byte("\x00.text\x00"), strtab.Bytes())
}
