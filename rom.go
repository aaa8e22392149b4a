// Package torchrom imprints machine code programs onto torch based ROM
// schematics. A ROM is a grid of wall torch markers arranged into 128
// lines of 16 bits; flashing a program replaces the inert marker with
// its active counterpart wherever a program bit is set.
package torchrom

import (
	"errors"
	"fmt"
	"sort"

	"github.com/redstonelabs/torchrom/schem"
)

const (
	// WordCount is the number of addressable words in a ROM.
	WordCount = 128
	// WordBits is the number of bits per word.
	WordBits = 16

	// A ROM is physically built as 8 rows of 16 bit lines each.
	rowCount = 8
	rowWidth = 16
)

var (
	// ErrMalformedLayout is returned when the marker grid does not form
	// exactly 128 lines of 16 bits.
	ErrMalformedLayout = errors.New("malformed rom layout")
	// ErrAmbiguousLayout is returned when the bit lines cannot be
	// ordered into 8 rows of strictly z-increasing lines.
	ErrAmbiguousLayout = errors.New("ambiguous rom layout")
)

// Layout describes the marker block states of a physical ROM. The two
// identifiers are configuration, not fixed domain knowledge: any pair
// of block states whose identifiers differ can act as bit markers.
type Layout struct {
	// InertMarker is the identifier of a marker representing a 0 bit.
	InertMarker string
	// ActiveMarker is the identifier a marker is switched to for a 1
	// bit. Properties of the inert marker are kept when switching.
	ActiveMarker string
}

// LineKey identifies a bit line by the (y, z) pair its markers share.
type LineKey struct {
	Y, Z int
}

// FindMarkers returns the position of every inert marker in the
// schematic.
func (l Layout) FindMarkers(s *schem.Schematic) []schem.Pos {
	var markers []schem.Pos
	for pos, state := range s.Blocks() {
		if state.ID() == l.InertMarker {
			markers = append(markers, pos)
		}
	}
	return markers
}

// GroupLines groups marker positions into bit lines keyed by their
// (y, z) pair, each line ordered by ascending x. The grid must form
// exactly 128 lines of 16 markers.
func (l Layout) GroupLines(markers []schem.Pos) (map[LineKey][]schem.Pos, error) {
	lines := make(map[LineKey][]schem.Pos)
	for _, pos := range markers {
		key := LineKey{Y: pos.Y(), Z: pos.Z()}
		lines[key] = append(lines[key], pos)
	}
	for _, line := range lines {
		sort.Slice(line, func(i, j int) bool {
			return line[i].X() < line[j].X()
		})
	}

	if len(lines) != WordCount {
		return nil, fmt.Errorf("%w: %d lines, want %d", ErrMalformedLayout, len(lines), WordCount)
	}
	for key, line := range lines {
		if len(line) != WordBits {
			return nil, fmt.Errorf("%w: line (y=%d, z=%d) has %d bits, want %d", ErrMalformedLayout, key.Y, key.Z, len(line), WordBits)
		}
	}
	return lines, nil
}

// OrderLines places the 128 bit lines into address order: 8 rows of 16
// lines. Each row starts at the unplaced line with the smallest y and
// continues with the smallest-y line whose z is strictly greater than
// the previous line's z. Ties on y break on smaller z, making the
// result independent of map iteration order.
func (l Layout) OrderLines(lines map[LineKey][]schem.Pos) ([][]schem.Pos, error) {
	remaining := make(map[LineKey][]schem.Pos, len(lines))
	for key, line := range lines {
		remaining[key] = line
	}

	ordered := make([][]schem.Pos, 0, WordCount)
	for row := 0; row < rowCount; row++ {
		key, ok := minLine(remaining, func(LineKey) bool { return true })
		if !ok {
			return nil, fmt.Errorf("%w: no line left to start row %d", ErrAmbiguousLayout, row)
		}
		ordered = append(ordered, remaining[key])
		delete(remaining, key)

		threshold := key.Z
		for slot := 1; slot < rowWidth; slot++ {
			key, ok := minLine(remaining, func(k LineKey) bool { return k.Z > threshold })
			if !ok {
				return nil, fmt.Errorf("%w: row %d slot %d: no line with z > %d", ErrAmbiguousLayout, row, slot, threshold)
			}
			ordered = append(ordered, remaining[key])
			delete(remaining, key)
			threshold = key.Z
		}
	}
	return ordered, nil
}

// minLine returns the accepted key with the smallest y, breaking ties
// on smaller z.
func minLine(lines map[LineKey][]schem.Pos, accept func(LineKey) bool) (LineKey, bool) {
	var best LineKey
	found := false
	for key := range lines {
		if !accept(key) {
			continue
		}
		if !found || key.Y < best.Y || (key.Y == best.Y && key.Z < best.Z) {
			best = key
			found = true
		}
	}
	return best, found
}

// Imprint writes the program onto the schematic's markers and returns
// the schematic. Markers on lines beyond the program's length stay
// inert. Every block that is not an inert marker is cleared to air,
// including blocks unrelated to the ROM; the output contains markers
// and nothing else.
func (l Layout) Imprint(s *schem.Schematic, program Program) (*schem.Schematic, error) {
	lines, err := l.GroupLines(l.FindMarkers(s))
	if err != nil {
		return nil, err
	}
	ordered, err := l.OrderLines(lines)
	if err != nil {
		return nil, err
	}

	active := make(map[schem.Pos]bool)
	for i, word := range program {
		if i >= len(ordered) {
			break
		}
		for bit, pos := range ordered[i] {
			if word>>bit&1 == 1 {
				active[pos] = true
			}
		}
	}

	for pos, state := range s.Blocks() {
		switch {
		case state.ID() != l.InertMarker:
			s.SetBlock(pos, nil)
		case active[pos]:
			s.SetBlock(pos, state.WithID(l.ActiveMarker))
		}
	}
	return s, nil
}
