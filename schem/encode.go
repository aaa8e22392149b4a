package schem

import (
	"fmt"
	"maps"
	"math"
)

// encodeFormat builds the file compound for a schematic. The bounding
// box is recomputed from the stored blocks, so dimensions may shrink
// relative to the file the schematic was read from. The palette is
// built fresh: the first state encountered in cell order gets index 0,
// the next new one index 1, and so on.
func encodeFormat(s *Schematic) (*schemFormat, error) {
	min, max := s.Bounds()
	width := max.X() - min.X()
	length := max.Z() - min.Z()
	height := max.Y() - min.Y()
	if width > math.MaxInt16 || length > math.MaxInt16 || height > math.MaxInt16 {
		return nil, fmt.Errorf("bounding box %dx%dx%d does not fit the format's 16-bit dimensions", width, height, length)
	}

	var blockData []byte
	palette := make(map[string]int32)
	for y := 0; y < height; y++ {
		for z := 0; z < length; z++ {
			for x := 0; x < width; x++ {
				name := AirID
				if state := s.Block(Pos{min.X() + x, min.Y() + y, min.Z() + z}); state != nil {
					name = state.String()
				}
				idx, ok := palette[name]
				if !ok {
					idx = int32(len(palette))
					palette[name] = idx
				}
				blockData = appendBlockIndex(blockData, int(idx))
			}
		}
	}

	paletteTag := make(map[string]any, len(palette))
	for name, idx := range palette {
		paletteTag[name] = idx
	}

	blockEntities := make([]map[string]any, 0, len(s.blockEntities))
	for pos, be := range s.blockEntities {
		entry := make(map[string]any, len(be.Data)+2)
		maps.Copy(entry, be.Data)
		entry["Id"] = be.ID
		entry["Pos"] = []int32{int32(pos.X()), int32(pos.Y()), int32(pos.Z())}
		blockEntities = append(blockEntities, entry)
	}

	metadata := s.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	f := &schemFormat{
		BlockData:     blockData,
		BlockEntities: blockEntities,
		DataVersion:   s.DataVersion,
		Height:        int16(height),
		Length:        int16(length),
		Metadata:      metadata,
		Offset:        s.Offset[:],
		Palette:       paletteTag,
		PaletteMax:    int32(len(palette)),
		Version:       FormatVersion,
		Width:         int16(width),
	}
	return f, nil
}
