package schem

import (
	"errors"
	"fmt"
	"maps"
	"sort"
	"strings"
)

// AirID is the identifier of the default block state. Positions absent
// from a schematic are treated as air, and air is never stored
// explicitly.
const AirID = "minecraft:air"

// ErrMalformedProperty is returned when a block state's property text
// lacks a key=value separator.
var ErrMalformedProperty = errors.New("malformed block state property")

// Pos is the position of a block within a schematic.
type Pos [3]int

// X returns the X coordinate of the position.
func (p Pos) X() int {
	return p[0]
}

// Y returns the Y coordinate of the position.
func (p Pos) Y() int {
	return p[1]
}

// Z returns the Z coordinate of the position.
func (p Pos) Z() int {
	return p[2]
}

// BlockState describes the type of a block: an identifier such as
// "minecraft:stone" plus a set of named properties. A BlockState is
// immutable once constructed and may be shared between schematic cells
// and palette entries. Equality is by value, never by pointer.
type BlockState struct {
	id    string
	props map[string]string
}

// NewBlockState returns a block state with the given identifier and no
// properties.
func NewBlockState(id string) *BlockState {
	return &BlockState{id: id}
}

// NewBlockStateWithProps returns a block state with the given identifier
// and properties. The property map is copied.
func NewBlockStateWithProps(id string, props map[string]string) *BlockState {
	s := &BlockState{id: id}
	if len(props) > 0 {
		s.props = maps.Clone(props)
	}
	return s
}

// Air returns the default air block state.
func Air() *BlockState {
	return NewBlockState(AirID)
}

// ParseBlockState parses the textual form of a block state, either
// "identifier" or "identifier[key=value,key=value]". Properties may
// appear in any order.
func ParseBlockState(text string) (*BlockState, error) {
	id, propText, ok := strings.Cut(text, "[")
	if !ok {
		return NewBlockState(text), nil
	}

	props := make(map[string]string)
	for _, entry := range strings.Split(strings.TrimSuffix(propText, "]"), ",") {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q in %q", ErrMalformedProperty, entry, text)
		}
		props[key] = value
	}

	return &BlockState{id: id, props: props}, nil
}

// ID returns the identifier of the block state.
func (s *BlockState) ID() string {
	return s.id
}

// Property returns the value of the named property.
func (s *BlockState) Property(name string) (string, bool) {
	v, ok := s.props[name]
	return v, ok
}

// Properties returns a copy of the block state's property map.
func (s *BlockState) Properties() map[string]string {
	if len(s.props) == 0 {
		return nil
	}
	return maps.Clone(s.props)
}

// WithID returns a block state with the same properties and a different
// identifier.
func (s *BlockState) WithID(id string) *BlockState {
	return &BlockState{id: id, props: s.props}
}

// Equal reports whether two block states have the same identifier and
// the same properties.
func (s *BlockState) Equal(o *BlockState) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.id == o.id && maps.Equal(s.props, o.props)
}

// String returns the canonical textual form of the block state, the
// inverse of ParseBlockState. Properties are written in sorted key
// order so that equal states always format identically.
func (s *BlockState) String() string {
	if len(s.props) == 0 {
		return s.id
	}

	keys := make([]string, 0, len(s.props))
	for k := range s.props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf strings.Builder
	buf.WriteString(s.id)
	buf.WriteByte('[')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(k)
		buf.WriteByte('=')
		buf.WriteString(s.props[k])
	}
	buf.WriteByte(']')
	return buf.String()
}

// isDefault reports whether the state is the plain air state that the
// sparse schematic representation leaves implicit.
func (s *BlockState) isDefault() bool {
	return s.id == AirID && len(s.props) == 0
}
