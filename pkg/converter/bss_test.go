package converter

import (
	"errors"
	"testing"

	"github.com/andreistan26/doltool/pkg/dol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitBssEmpty(t *testing.T) {
	for _, fix := range []bool{false, true} {
		regions, err := SplitBss(0x80003100, 0, nil, nil, fix)
		require.NoError(t, err)
		assert.Empty(t, regions)
	}
}

func TestSplitBssWithoutFix(t *testing.T) {
	regions, err := SplitBss(0x80003100, 0x200, nil, nil, false)
	require.NoError(t, err)
	assert.Equal(t, []BssRegion{{Name: "bss", Address: 0x80003100, Size: 0x200}}, regions)
	assert.Equal(t, ".bss", regions[0].SectionName())
}

func TestSplitBssWithFix(t *testing.T) {
	h := interleavedHeader()
	sdata, sdata2 := LastTwoDataSegments(h)

	regions, err := SplitBss(h.BssAddress, h.BssSize, sdata, sdata2, true)
	require.NoError(t, err)

	assert.Equal(t, []BssRegion{
		{Name: "bss", Address: 0x80003100, Size: 0x80},
		{Name: "sbss", Address: 0x800031C0, Size: 0x40},
		{Name: "sbss2", Address: 0x80003220, Size: 0xE0},
	}, regions)

	total := sdata.Size + sdata2.Size
	for _, region := range regions {
		total += region.Size
	}
	assert.Equal(t, h.BssSize, total, "regions and small data segments must tile the bss range")
}

func TestSplitBssInsufficientDataSegments(t *testing.T) {
	h := interleavedHeader()
	h.DataSize[1] = 0

	_, err := BssRegions(h, true)
	assert.True(t, errors.Is(err, ErrInsufficientDataSegments))

	sdata, _ := LastTwoDataSegments(interleavedHeader())
	_, err = SplitBss(0x80003100, 0x200, sdata, nil, true)
	assert.True(t, errors.Is(err, ErrInsufficientDataSegments))
}

// Data segments below the bss start: the first region would be negative
func TestSplitBssNegativeRegion(t *testing.T) {
	h := misorderedHeader()

	regions, err := BssRegions(h, true)
	assert.Nil(t, regions)

	geometryErr := &InvalidBssGeometryError{}
	require.True(t, errors.As(err, &geometryErr))
	assert.True(t, errors.Is(err, ErrInvalidBssGeometry))
	assert.Equal(t, "bss", geometryErr.Region)
	assert.Equal(t, int64(-0x100), geometryErr.Size)
}

func TestSplitBssSwappedDataSegments(t *testing.T) {
	sdata := &dol.Segment{Kind: dol.KindData, Address: 0x80003200, Size: 0x20}
	sdata2 := &dol.Segment{Kind: dol.KindData, Address: 0x80003180, Size: 0x40}

	_, err := SplitBss(0x80003100, 0x200, sdata, sdata2, true)

	geometryErr := &InvalidBssGeometryError{}
	require.True(t, errors.As(err, &geometryErr))
	assert.Equal(t, "sbss", geometryErr.Region)
}

func TestSplitBssTailPastEnd(t *testing.T) {
	sdata := &dol.Segment{Kind: dol.KindData, Address: 0x80003180, Size: 0x40}
	sdata2 := &dol.Segment{Kind: dol.KindData, Address: 0x80003200, Size: 0x200}

	_, err := SplitBss(0x80003100, 0x200, sdata, sdata2, true)

	geometryErr := &InvalidBssGeometryError{}
	require.True(t, errors.As(err, &geometryErr))
	assert.Equal(t, "sbss2", geometryErr.Region)
}

func TestSplitBssWrappingRange(t *testing.T) {
	sdata := &dol.Segment{Kind: dol.KindData, Address: 0xFFFFFF80, Size: 0x10}
	sdata2 := &dol.Segment{Kind: dol.KindData, Address: 0xFFFFFFA0, Size: 0x10}

	_, err := SplitBss(0xFFFFFF00, 0x200, sdata, sdata2, true)
	assert.True(t, errors.Is(err, ErrInvalidBssGeometry))
}

func TestLastTwoDataSegmentsByIndex(t *testing.T) {
	h := &dol.Header{}
	h.DataSize[0] = 0x10
	h.DataSize[4] = 0x20
	h.DataAddress[4] = 0x80100000
	h.DataSize[9] = 0x30
	h.DataAddress[9] = 0x80200000

	sdata, sdata2 := LastTwoDataSegments(h)
	require.NotNil(t, sdata)
	assert.Equal(t, 4, sdata.Index)
	assert.Equal(t, uint32(0x80100000), sdata.Address)
	assert.Equal(t, 9, sdata2.Index)
	assert.Equal(t, uint32(0x80200000), sdata2.Address)

	h.DataSize[4], h.DataSize[9] = 0, 0
	sdata, sdata2 = LastTwoDataSegments(h)
	assert.Nil(t, sdata)
	assert.Nil(t, sdata2)
}

func TestDetectBssFix(t *testing.T) {
	assert.True(t, DetectBssFix(interleavedHeader()))
	assert.False(t, DetectBssFix(misorderedHeader()))

	h := interleavedHeader()
	h.BssSize = 0
	assert.False(t, DetectBssFix(h))

	h = interleavedHeader()
	h.DataSize[0] = 0
	assert.False(t, DetectBssFix(h), "a single data segment cannot be split around")
}
