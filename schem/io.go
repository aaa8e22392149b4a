package schem

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

// Read reads a gzip-compressed schematic from r.
func Read(r io.Reader) (*Schematic, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer gz.Close()

	payload, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("decompress schematic: %w", err)
	}

	var f schemFormat
	if err := nbt.UnmarshalEncoding(payload, &f, nbt.BigEndian); err != nil {
		return nil, fmt.Errorf("decode schematic nbt: %w", err)
	}

	return decodeFormat(&f)
}

// FromBytes decodes a schematic from an in-memory file image.
func FromBytes(data []byte) (*Schematic, error) {
	return Read(bytes.NewReader(data))
}

// rootTagName is the name of the top level compound of a schematic
// file. Readers such as WorldEdit key on it.
const rootTagName = "Schematic"

// Write writes a gzip-compressed schematic to w.
func Write(w io.Writer, s *Schematic) error {
	f, err := encodeFormat(s)
	if err != nil {
		return err
	}

	payload, err := nbt.MarshalEncoding(*f, nbt.BigEndian)
	if err != nil {
		return fmt.Errorf("encode schematic nbt: %w", err)
	}
	payload = nameRootTag(payload, rootTagName)

	gz := gzip.NewWriter(w)
	if _, err := gz.Write(payload); err != nil {
		return fmt.Errorf("compress schematic: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("close gzip stream: %w", err)
	}
	return nil
}

// nameRootTag renames the payload's root compound. The NBT encoder
// always writes the tag byte followed by a zero-length name, so the two
// length bytes are replaced with the big-endian length of name plus the
// name itself. The decoder accepts any root name, named or not.
func nameRootTag(payload []byte, name string) []byte {
	if len(payload) < 3 {
		return payload
	}
	named := make([]byte, 0, len(payload)+len(name))
	named = append(named, payload[0], byte(len(name)>>8), byte(len(name)))
	named = append(named, name...)
	return append(named, payload[3:]...)
}

// ToBytes encodes a schematic into an in-memory file image.
func ToBytes(s *Schematic) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := Write(buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
