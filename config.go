package torchrom

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultRemoteDir is where a WorldEdit server keeps its schematics.
const DefaultRemoteDir = "/minecraft/active-world/plugins/WorldEdit/schematics"

// Config holds everything a flash run needs: the remote server, the
// marker block identifiers and the remote schematic names to read and
// write.
type Config struct {
	Server  ServerConfig `yaml:"server"`
	Markers MarkerConfig `yaml:"markers"`
	// Input is the remote name of the blank ROM schematic.
	Input string `yaml:"input"`
	// Output is the remote name the programmed ROM is published under.
	Output string `yaml:"output"`
}

// ServerConfig describes the remote host holding schematic files.
type ServerConfig struct {
	Host string `yaml:"host"`
	User string `yaml:"user"`
	Port int    `yaml:"port"`
	Dir  string `yaml:"dir"`
}

// MarkerConfig names the two block states acting as bit markers.
type MarkerConfig struct {
	Inert  string `yaml:"inert"`
	Active string `yaml:"active"`
}

// LoadConfig reads and validates a YAML configuration file, filling in
// defaults for the port, remote directory and marker identifiers.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Normalize fills in defaults for optional fields.
func (c *Config) Normalize() {
	if c.Server.Port == 0 {
		c.Server.Port = 22
	}
	if c.Server.Dir == "" {
		c.Server.Dir = DefaultRemoteDir
	}
	if c.Markers.Inert == "" {
		c.Markers.Inert = "minecraft:soul_wall_torch"
	}
	if c.Markers.Active == "" {
		c.Markers.Active = "minecraft:redstone_wall_torch"
	}
}

// Validate checks that the required fields are present.
func (c Config) Validate() error {
	if c.Server.Host == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.User == "" {
		return fmt.Errorf("server.user is required")
	}
	if c.Input == "" {
		return fmt.Errorf("input schematic name is required")
	}
	if c.Output == "" {
		return fmt.Errorf("output schematic name is required")
	}
	if c.Markers.Inert == c.Markers.Active {
		return fmt.Errorf("inert and active markers must differ")
	}
	return nil
}
