package life

import (
	"encoding/binary"
	"math"
)

// UniformSize is the byte size of the grid uniform: a vec2f holding the
// grid dimensions, padded to 16 bytes.
const UniformSize = 16

// Workgroups returns how many workgroups of the given size cover n
// invocations along one axis.
func Workgroups(n, size uint32) uint32 {
	if size == 0 {
		return 0
	}
	return (n + size - 1) / size
}

// UniformBytes encodes the grid dimensions for the shaders' uniform buffer.
func UniformBytes(width, height int) []byte {
	buf := make([]byte, UniformSize)
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(float32(width)))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(float32(height)))
	return buf
}

// CellBytes encodes a cell buffer as little-endian uint32 values.
func CellBytes(cells []uint32) []byte {
	buf := make([]byte, 4*len(cells))
	for i, c := range cells {
		binary.LittleEndian.PutUint32(buf[4*i:], c)
	}
	return buf
}

// CellsFromBytes decodes a buffer produced by CellBytes or read back from
// the GPU.
func CellsFromBytes(buf []byte) []uint32 {
	cells := make([]uint32, len(buf)/4)
	for i := range cells {
		cells[i] = binary.LittleEndian.Uint32(buf[4*i:])
	}
	return cells
}
