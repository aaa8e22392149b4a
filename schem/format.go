// Package schem reads and writes Sponge format schematic files: gzip
// compressed, big-endian NBT containers holding a palette-compressed
// block grid alongside block entities and structural metadata.
package schem

import "errors"

// FormatVersion is the Sponge schematic format version written by this
// package.
const FormatVersion = 2

var (
	// ErrInvalidPaletteIndex is returned when a palette index falls
	// outside the palette table.
	ErrInvalidPaletteIndex = errors.New("invalid palette index")
	// ErrMissingPaletteEntry is returned when the block stream
	// references a palette slot the palette map never populated.
	ErrMissingPaletteEntry = errors.New("missing palette entry")
)

// schemFormat mirrors the on-disk layout of the "Schematic" compound.
// The block stream is ordered y-major, then z, then x; each cell is a
// varint index into Palette.
type schemFormat struct {
	BlockData     []byte           `nbt:"BlockData"`
	BlockEntities []map[string]any `nbt:"BlockEntities"`
	DataVersion   int32            `nbt:"DataVersion"`
	Height        int16            `nbt:"Height"`
	Length        int16            `nbt:"Length"`
	Metadata      map[string]any   `nbt:"Metadata"`
	Offset        []int32          `nbt:"Offset"`
	Palette       map[string]any   `nbt:"Palette"`
	PaletteMax    int32            `nbt:"PaletteMax"`
	Version       int32            `nbt:"Version"`
	Width         int16            `nbt:"Width"`
}
