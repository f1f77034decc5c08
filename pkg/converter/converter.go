package converter

import (
	"fmt"

	"github.com/andreistan26/doltool/pkg/dol"
	"github.com/andreistan26/doltool/pkg/log"
)

type BssFixMode string

const (
	BssFixAuto BssFixMode = "auto"
	BssFixOn   BssFixMode = "on"
	BssFixOff  BssFixMode = "off"
)

func ParseBssFixMode(s string) (BssFixMode, error) {
	switch mode := BssFixMode(s); mode {
	case BssFixAuto, BssFixOn, BssFixOff:
		return mode, nil
	}

	return "", fmt.Errorf("unknown bss fix mode %q, want auto, on or off", s)
}

// Decide whether the bss split applies to h
func (mode BssFixMode) Resolve(h *dol.Header) bool {
	switch mode {
	case BssFixOn:
		return true
	case BssFixOff:
		return false
	}

	return DetectBssFix(h)
}

type Options struct {
	BssFix BssFixMode
}

type Result struct {
	Header *dol.Header
	Image  *Image
	Bytes  []byte
}

// Convert a DOL file into an ELF image wrapping it
func Convert(dolFile []byte, opts Options) (*Result, error) {
	header, err := dol.Parse(dolFile)
	if err != nil {
		return nil, err
	}

	if err := header.Validate(len(dolFile)); err != nil {
		return nil, err
	}

	if opts.BssFix == "" {
		opts.BssFix = BssFixAuto
	}
	useBssFix := opts.BssFix.Resolve(header)
	log.Debugf("bss fix mode %s resolved to %v", opts.BssFix, useBssFix)

	img, err := NewImage(header, useBssFix)
	if err != nil {
		return nil, err
	}
	log.Debugf("phnum=%d shnum=%d strtab=0x%x dol=0x%x", img.Phnum, img.Shnum, img.StrtabOffset, img.DolOffset)

	if err := BuildProgramHeaders(header, img, useBssFix); err != nil {
		return nil, fmt.Errorf("program headers: %w", err)
	}

	if err := BuildSectionHeaders(header, img, useBssFix); err != nil {
		return nil, fmt.Errorf("section headers: %w", err)
	}

	out, err := img.Bytes(dolFile)
	if err != nil {
		return nil, err
	}

	return &Result{Header: header, Image: img, Bytes: out}, nil
}
