package torchrom

import (
	"errors"
	"fmt"
	"testing"

	"github.com/redstonelabs/torchrom/schem"
)

var testLayout = Layout{
	InertMarker:  "minecraft:soul_wall_torch",
	ActiveMarker: "minecraft:redstone_wall_torch",
}

// buildROMGrid builds a well-formed ROM: 8 rows of 16 lines, row r at
// y=r, lines within a row at z=0..15, 16 markers per line at x=0..15.
// A few stone scaffolding blocks sit next to the markers.
func buildROMGrid() *schem.Schematic {
	s := schem.New()
	for row := 0; row < 8; row++ {
		for z := 0; z < 16; z++ {
			for x := 0; x < 16; x++ {
				s.SetBlock(schem.Pos{x, row, z}, schem.NewBlockStateWithProps(
					testLayout.InertMarker, map[string]string{"facing": "north"}))
			}
		}
	}
	s.SetBlock(schem.Pos{50, 0, 0}, schem.NewBlockState("minecraft:stone"))
	s.SetBlock(schem.Pos{0, 20, 5}, schem.NewBlockState("minecraft:oak_planks"))
	return s
}

func TestFindMarkers(t *testing.T) {
	s := buildROMGrid()
	markers := testLayout.FindMarkers(s)
	if len(markers) != 2048 {
		t.Fatalf("marker count: got %d want 2048", len(markers))
	}
}

func TestGroupLines(t *testing.T) {
	s := buildROMGrid()
	lines, err := testLayout.GroupLines(testLayout.FindMarkers(s))
	if err != nil {
		t.Fatalf("GroupLines: %v", err)
	}
	if len(lines) != WordCount {
		t.Fatalf("line count: got %d want %d", len(lines), WordCount)
	}
	line := lines[LineKey{Y: 3, Z: 7}]
	if len(line) != WordBits {
		t.Fatalf("line length: got %d want %d", len(line), WordBits)
	}
	for i, pos := range line {
		if pos.X() != i {
			t.Fatalf("bit %d at x=%d, markers not sorted by x", i, pos.X())
		}
	}
}

func TestGroupLines_Malformed(t *testing.T) {
	t.Run("missing marker", func(t *testing.T) {
		s := buildROMGrid()
		s.SetBlock(schem.Pos{0, 0, 0}, nil)
		_, err := testLayout.GroupLines(testLayout.FindMarkers(s))
		if !errors.Is(err, ErrMalformedLayout) {
			t.Fatalf("got %v, want ErrMalformedLayout", err)
		}
	})

	t.Run("extra line", func(t *testing.T) {
		markers := testLayout.FindMarkers(buildROMGrid())
		for x := 0; x < 16; x++ {
			markers = append(markers, schem.Pos{x, 40, 40})
		}
		_, err := testLayout.GroupLines(markers)
		if !errors.Is(err, ErrMalformedLayout) {
			t.Fatalf("got %v, want ErrMalformedLayout", err)
		}
	})

	t.Run("short line", func(t *testing.T) {
		markers := testLayout.FindMarkers(buildROMGrid())
		// Move one marker from line (0,0) to line (0,1): the line count
		// stays 128 but both lines end up the wrong length.
		for i, pos := range markers {
			if pos == (schem.Pos{15, 0, 0}) {
				markers[i] = schem.Pos{16, 0, 1}
				break
			}
		}
		_, err := testLayout.GroupLines(markers)
		if !errors.Is(err, ErrMalformedLayout) {
			t.Fatalf("got %v, want ErrMalformedLayout", err)
		}
	})
}

func TestOrderLines(t *testing.T) {
	s := buildROMGrid()

	var first [][]schem.Pos
	// Grouping is map-backed, so repeating the whole discovery exercises
	// independence from map iteration order.
	for run := 0; run < 5; run++ {
		lines, err := testLayout.GroupLines(testLayout.FindMarkers(s))
		if err != nil {
			t.Fatalf("GroupLines: %v", err)
		}
		ordered, err := testLayout.OrderLines(lines)
		if err != nil {
			t.Fatalf("OrderLines: %v", err)
		}
		if len(ordered) != WordCount {
			t.Fatalf("ordered count: got %d want %d", len(ordered), WordCount)
		}

		for i, line := range ordered {
			wantY, wantZ := i/16, i%16
			if line[0].Y() != wantY || line[0].Z() != wantZ {
				t.Fatalf("line %d starts at (y=%d, z=%d), want (y=%d, z=%d)",
					i, line[0].Y(), line[0].Z(), wantY, wantZ)
			}
		}

		if run == 0 {
			first = ordered
			continue
		}
		for i := range first {
			for bit := range first[i] {
				if first[i][bit] != ordered[i][bit] {
					t.Fatalf("run %d: line %d bit %d differs", run, i, bit)
				}
			}
		}
	}
}

func TestOrderLines_Ambiguous(t *testing.T) {
	// 128 lines all sharing one z: after the first placement no line has
	// a strictly greater z, so no row can be completed.
	lines := make(map[LineKey][]schem.Pos, WordCount)
	for y := 0; y < WordCount; y++ {
		line := make([]schem.Pos, WordBits)
		for x := 0; x < WordBits; x++ {
			line[x] = schem.Pos{x, y, 0}
		}
		lines[LineKey{Y: y, Z: 0}] = line
	}
	_, err := testLayout.OrderLines(lines)
	if !errors.Is(err, ErrAmbiguousLayout) {
		t.Fatalf("got %v, want ErrAmbiguousLayout", err)
	}
}

func TestImprint(t *testing.T) {
	s := buildROMGrid()
	out, err := testLayout.Imprint(s, Program{0b0000000000000101})
	if err != nil {
		t.Fatalf("Imprint: %v", err)
	}

	for pos, state := range out.Blocks() {
		switch state.ID() {
		case testLayout.InertMarker, testLayout.ActiveMarker:
		default:
			t.Fatalf("non-marker block survived at %v: %v", pos, state)
		}
	}

	for row := 0; row < 8; row++ {
		for z := 0; z < 16; z++ {
			for x := 0; x < 16; x++ {
				pos := schem.Pos{x, row, z}
				state := out.Block(pos)
				if state == nil {
					t.Fatalf("marker missing at %v", pos)
				}
				wantActive := row == 0 && z == 0 && (x == 0 || x == 2)
				if wantActive && state.ID() != testLayout.ActiveMarker {
					t.Fatalf("bit at %v not activated: %v", pos, state)
				}
				if !wantActive && state.ID() != testLayout.InertMarker {
					t.Fatalf("bit at %v unexpectedly active: %v", pos, state)
				}
				if v, _ := state.Property("facing"); v != "north" {
					t.Fatalf("marker at %v lost its properties: %v", pos, state)
				}
			}
		}
	}
}

func TestImprint_Deterministic(t *testing.T) {
	program := Program{0xBEEF, 0x1234, 0x8001}

	a, err := testLayout.Imprint(buildROMGrid(), program)
	if err != nil {
		t.Fatalf("Imprint: %v", err)
	}
	b, err := testLayout.Imprint(buildROMGrid(), program)
	if err != nil {
		t.Fatalf("Imprint: %v", err)
	}

	blocksA, blocksB := a.Blocks(), b.Blocks()
	if len(blocksA) != len(blocksB) {
		t.Fatalf("block counts differ: %d vs %d", len(blocksA), len(blocksB))
	}
	for pos, state := range blocksA {
		if !state.Equal(blocksB[pos]) {
			t.Fatalf("block at %v differs: %v vs %v", pos, state, blocksB[pos])
		}
	}
}

func TestImprint_ShortProgramLeavesLinesBlank(t *testing.T) {
	out, err := testLayout.Imprint(buildROMGrid(), Program{0xFFFF})
	if err != nil {
		t.Fatalf("Imprint: %v", err)
	}

	active := 0
	for _, state := range out.Blocks() {
		if state.ID() == testLayout.ActiveMarker {
			active++
		}
	}
	if active != WordBits {
		t.Fatalf("active markers: got %d want %d", active, WordBits)
	}
}

func TestImprint_NotChainable(t *testing.T) {
	out, err := testLayout.Imprint(buildROMGrid(), Program{0b101})
	if err != nil {
		t.Fatalf("Imprint: %v", err)
	}
	// Activated markers no longer count as inert, so a programmed grid
	// fails the 128x16 precondition instead of accumulating bits.
	_, err = testLayout.Imprint(out, Program{0b101})
	if !errors.Is(err, ErrMalformedLayout) {
		t.Fatalf("got %v, want ErrMalformedLayout", err)
	}
}

func TestImprint_MalformedGrid(t *testing.T) {
	s := schem.New()
	s.SetBlock(schem.Pos{0, 0, 0}, schem.NewBlockState(testLayout.InertMarker))
	_, err := testLayout.Imprint(s, Program{1})
	if !errors.Is(err, ErrMalformedLayout) {
		t.Fatalf("got %v, want ErrMalformedLayout", err)
	}
}

func ExampleLayout_Imprint() {
	program, _ := Assemble(Nop(), Jmp(0))
	rom, err := testLayout.Imprint(buildROMGrid(), program)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(rom.BlockCount())
	// Output: 2048
}
