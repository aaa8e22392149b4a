package torchrom

import (
	"fmt"
	"log/slog"

	"github.com/redstonelabs/torchrom/schem"
)

// Run performs one flash: fetch the blank ROM schematic, imprint the
// program onto it and publish the result. Any failure aborts the run;
// nothing is published on error.
func Run(cfg Config, program Program, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	if len(program) > WordCount {
		return fmt.Errorf("%w: %d words, rom holds %d", ErrProgramTooLong, len(program), WordCount)
	}

	server := &Server{
		Host: cfg.Server.Host,
		User: cfg.Server.User,
		Port: cfg.Server.Port,
		Dir:  cfg.Server.Dir,
		Log:  log,
	}

	data, err := server.Fetch(cfg.Input)
	if err != nil {
		return fmt.Errorf("fetch %q: %w", cfg.Input, err)
	}

	rom, err := schem.FromBytes(data)
	if err != nil {
		return fmt.Errorf("decode %q: %w", cfg.Input, err)
	}
	log.Info("decoded rom schematic",
		"name", cfg.Input,
		"blocks", rom.BlockCount(),
		"width", rom.Width, "length", rom.Length, "height", rom.Height)

	layout := Layout{
		InertMarker:  cfg.Markers.Inert,
		ActiveMarker: cfg.Markers.Active,
	}
	programmed, err := layout.Imprint(rom, program)
	if err != nil {
		return fmt.Errorf("imprint %d words: %w", len(program), err)
	}
	log.Info("imprinted program", "words", len(program))

	out, err := schem.ToBytes(programmed)
	if err != nil {
		return fmt.Errorf("encode %q: %w", cfg.Output, err)
	}

	if err := server.Publish(out, cfg.Output); err != nil {
		return fmt.Errorf("publish %q: %w", cfg.Output, err)
	}
	log.Info("published programmed rom", "name", cfg.Output, "bytes", len(out))
	return nil
}
