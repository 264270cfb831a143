// Package config reads the optional serress TOML configuration file.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Page selections for rendering.
const (
	PagesAll      = "all"
	PagesTerminal = "terminal"
)

// Config holds settings shared by every command.
type Config struct {
	Format     string
	Pages      string
	CatalogDir string
	MaxSteps   int
	Bounds     Bounds
}

// Bounds is the default boundary policy for ad-hoc sequences.
type Bounds struct {
	Right bool
	Upper bool
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Format: "text",
		Pages:  PagesAll,
		Bounds: Bounds{Right: true, Upper: true},
	}
}

type fileConfig struct {
	Format     string     `toml:"format"`
	Pages      string     `toml:"pages"`
	CatalogDir string     `toml:"catalog_dir"`
	MaxSteps   int        `toml:"max_steps"`
	Bounds     fileBounds `toml:"bounds"`
}

type fileBounds struct {
	Right bool `toml:"right"`
	Upper bool `toml:"upper"`
}

// Load reads path on top of Default. Keys absent from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("format") {
		cfg.Format = strings.TrimSpace(raw.Format)
		if cfg.Format != "text" && cfg.Format != "json" {
			return Config{}, fmt.Errorf("load config: format %q: want text or json", raw.Format)
		}
	}

	if meta.IsDefined("pages") {
		cfg.Pages = strings.TrimSpace(raw.Pages)
		if cfg.Pages != PagesAll && cfg.Pages != PagesTerminal {
			return Config{}, fmt.Errorf("load config: pages %q: want %s or %s", raw.Pages, PagesAll, PagesTerminal)
		}
	}

	if meta.IsDefined("catalog_dir") {
		cfg.CatalogDir = strings.TrimSpace(raw.CatalogDir)
	}

	if meta.IsDefined("max_steps") {
		if raw.MaxSteps < 0 {
			return Config{}, fmt.Errorf("load config: max_steps %d must not be negative", raw.MaxSteps)
		}
		cfg.MaxSteps = raw.MaxSteps
	}

	if meta.IsDefined("bounds", "right") {
		cfg.Bounds.Right = raw.Bounds.Right
	}
	if meta.IsDefined("bounds", "upper") {
		cfg.Bounds.Upper = raw.Bounds.Upper
	}

	return cfg, nil
}
