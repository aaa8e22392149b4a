package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/redstonelabs/torchrom"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	configPath := "torchrom.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := torchrom.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Usage: flash [config.yaml]")
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	// Diagnostic program: idle for four cycles, then loop forever.
	program, err := torchrom.Assemble(
		torchrom.Nop(),
		torchrom.Nop(),
		torchrom.Nop(),
		torchrom.Nop(),
		torchrom.Jmp(0),
	)
	if err != nil {
		slog.Error("assemble program", "error", err)
		os.Exit(1)
	}

	if err := torchrom.Run(cfg, program, slog.Default()); err != nil {
		slog.Error("flash failed", "error", err)
		os.Exit(1)
	}
}
