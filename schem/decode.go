package schem

import (
	"fmt"
	"maps"
)

// decodeFormat builds a Schematic from the deserialized file compound.
func decodeFormat(f *schemFormat) (*Schematic, error) {
	table, err := decodePalette(f.Palette)
	if err != nil {
		return nil, err
	}

	blocks, err := decodeBlocks(f, table)
	if err != nil {
		return nil, err
	}

	s := &Schematic{
		Width:         int(f.Width),
		Length:        int(f.Length),
		Height:        int(f.Height),
		DataVersion:   f.DataVersion,
		Metadata:      f.Metadata,
		blocks:        blocks,
		blockEntities: make(map[Pos]BlockEntity, len(f.BlockEntities)),
	}
	if len(f.Offset) == 3 {
		s.Offset = [3]int32{f.Offset[0], f.Offset[1], f.Offset[2]}
	}

	for i, entry := range f.BlockEntities {
		pos, be, err := decodeBlockEntity(entry)
		if err != nil {
			return nil, fmt.Errorf("block entity %d: %w", i, err)
		}
		s.blockEntities[pos] = be
	}

	return s, nil
}

// decodePalette turns the palette map into an index to block state
// lookup table. Every declared index must fall inside the table and
// every referenced slot must have been populated.
func decodePalette(palette map[string]any) ([]*BlockState, error) {
	table := make([]*BlockState, len(palette))
	for name, raw := range palette {
		idx, ok := raw.(int32)
		if !ok {
			return nil, fmt.Errorf("palette entry %q: unexpected index type %T", name, raw)
		}
		if int(idx) < 0 || int(idx) >= len(table) {
			return nil, fmt.Errorf("%w: entry %q declares index %d with %d entries", ErrInvalidPaletteIndex, name, idx, len(table))
		}
		state, err := ParseBlockState(name)
		if err != nil {
			return nil, fmt.Errorf("palette entry %d: %w", idx, err)
		}
		table[idx] = state
	}
	return table, nil
}

// decodeBlocks walks the varint block stream and places each cell at
// the position derived from its index: x fastest, then z, then y, using
// the declared width and length.
func decodeBlocks(f *schemFormat, table []*BlockState) (map[Pos]*BlockState, error) {
	width, length := int(f.Width), int(f.Length)
	if len(f.BlockData) > 0 && (width <= 0 || length <= 0) {
		return nil, fmt.Errorf("schematic declares %dx%d base but carries block data", width, length)
	}

	blocks := make(map[Pos]*BlockState)
	cell := 0
	for off := 0; off < len(f.BlockData); cell++ {
		idx, n, err := readBlockIndex(f.BlockData, off)
		if err != nil {
			return nil, err
		}
		off += n

		if idx >= len(table) {
			return nil, fmt.Errorf("%w: cell %d references index %d with %d entries", ErrInvalidPaletteIndex, cell, idx, len(table))
		}
		state := table[idx]
		if state == nil {
			return nil, fmt.Errorf("%w: cell %d references unpopulated index %d", ErrMissingPaletteEntry, cell, idx)
		}
		if state.isDefault() {
			// Absence and air are the same thing in the sparse model.
			continue
		}

		blocks[Pos{cell % width, cell / (width * length), cell / width % length}] = state
	}
	return blocks, nil
}

// decodeBlockEntity splits one block entity compound into its position,
// identifier and remaining data fields.
func decodeBlockEntity(entry map[string]any) (Pos, BlockEntity, error) {
	rawPos, ok := entry["Pos"].([]int32)
	if !ok || len(rawPos) != 3 {
		return Pos{}, BlockEntity{}, fmt.Errorf("missing or malformed Pos field")
	}
	pos := Pos{int(rawPos[0]), int(rawPos[1]), int(rawPos[2])}

	be := BlockEntity{Data: maps.Clone(entry)}
	delete(be.Data, "Pos")
	if id, ok := entry["Id"].(string); ok {
		be.ID = id
		delete(be.Data, "Id")
	}
	return pos, be, nil
}
