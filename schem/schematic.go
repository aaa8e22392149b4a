package schem

import "maps"

// Schematic is an in-memory, sparse representation of a Sponge format
// schematic. Only non-air blocks are stored; any position without an
// entry is air. The declared dimensions, offset, data version and
// metadata read from a file are carried through unmodified on write,
// but the bounding box used for encoding is always recomputed from the
// stored blocks.
type Schematic struct {
	// Width, Length and Height are the dimensions declared by the file
	// the schematic was read from. Decoding uses them to lay out the
	// block stream; encoding ignores them in favour of the recomputed
	// bounding box.
	Width, Length, Height int

	// Offset is the world offset declared by the file, passed through
	// verbatim.
	Offset [3]int32

	// DataVersion is the game data version declared by the file, passed
	// through verbatim.
	DataVersion int32

	// Metadata is the file's metadata compound, passed through verbatim.
	Metadata map[string]any

	blocks        map[Pos]*BlockState
	blockEntities map[Pos]BlockEntity
}

// BlockEntity carries extra data attached to a block position, such as
// a chest's inventory. It is round-tripped through the codec but never
// interpreted.
type BlockEntity struct {
	ID   string
	Data map[string]any
}

// New returns an empty schematic.
func New() *Schematic {
	return &Schematic{
		blocks:        make(map[Pos]*BlockState),
		blockEntities: make(map[Pos]BlockEntity),
	}
}

// Block returns the block state at the given position, or nil if the
// position is air.
func (s *Schematic) Block(pos Pos) *BlockState {
	return s.blocks[pos]
}

// SetBlock sets the block state at the given position. Setting nil or
// plain air clears the position, keeping the representation sparse.
func (s *Schematic) SetBlock(pos Pos, state *BlockState) {
	if state == nil || state.isDefault() {
		delete(s.blocks, pos)
		return
	}
	s.blocks[pos] = state
}

// Blocks returns a copy of the position to block state mapping.
func (s *Schematic) Blocks() map[Pos]*BlockState {
	return maps.Clone(s.blocks)
}

// BlockCount returns the number of non-air blocks stored.
func (s *Schematic) BlockCount() int {
	return len(s.blocks)
}

// BlockEntity returns the block entity at the given position.
func (s *Schematic) BlockEntity(pos Pos) (BlockEntity, bool) {
	be, ok := s.blockEntities[pos]
	return be, ok
}

// SetBlockEntity attaches a block entity to the given position.
func (s *Schematic) SetBlockEntity(pos Pos, be BlockEntity) {
	s.blockEntities[pos] = be
}

// BlockEntities returns a copy of the position to block entity mapping.
func (s *Schematic) BlockEntities() map[Pos]BlockEntity {
	return maps.Clone(s.blockEntities)
}

// Bounds returns the effective bounding box of the stored blocks as an
// inclusive minimum and exclusive maximum position. An empty schematic
// has a zero box at the origin.
func (s *Schematic) Bounds() (min, max Pos) {
	first := true
	for pos := range s.blocks {
		if first {
			min, max = pos, pos
			first = false
			continue
		}
		for i := 0; i < 3; i++ {
			if pos[i] < min[i] {
				min[i] = pos[i]
			}
			if pos[i] > max[i] {
				max[i] = pos[i]
			}
		}
	}
	if first {
		return Pos{}, Pos{}
	}
	for i := 0; i < 3; i++ {
		max[i]++
	}
	return min, max
}
