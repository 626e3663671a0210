// Package config loads pedrc (settings, colors, theme, bindings) and
// syntax-definition files, the TOML-backed external collaborators
// named in §6. Discovery order, startup-error policy (§7), and the
// file sections mirror the spec exactly; the TOML decoding itself
// leans on BurntSushi/toml the way the rest of the charm-adjacent
// ecosystem in the teacher's go.mod does.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/davidledwards/ped/internal/errs"
	"github.com/davidledwards/ped/internal/logging"
)

// Settings is the [settings] section of pedrc.
type Settings struct {
	Spotlight    bool `toml:"spotlight"`
	Lines        bool `toml:"lines"`
	EOL          bool `toml:"eol"`
	TabHard      bool `toml:"tab_hard"`
	TabSize      int  `toml:"tab_size"`
	TrackLateral bool `toml:"track_lateral"`
}

// Config is the fully decoded pedrc: settings, a color palette, a
// semantic theme, and a key-sequence -> operation binding table.
type Config struct {
	Settings Settings          `toml:"settings"`
	Colors   map[string]int    `toml:"colors"`
	Theme    map[string]string `toml:"theme"`
	Bindings map[string]string `toml:"bindings"`

	path string // the file actually loaded, for hot-reload and diagnostics
}

// Rule is one syntax highlighting rule: a regex pattern, a color
// reference (name, resolved against Colors/Theme), and a precedence
// (§4.3).
type Rule struct {
	Pattern    string `toml:"pattern"`
	Color      string `toml:"color"`
	Precedence int    `toml:"precedence"`
}

// SyntaxDef is one syntax-definition TOML file under the syntax
// directory (§6).
type SyntaxDef struct {
	Name         string `toml:"name"`
	FilePattern  string `toml:"file_pattern"`
	DefaultColor string `toml:"default_color"`
	Rules        []Rule `toml:"rules"`
}

// Default returns the built-in configuration used when no pedrc is
// found, or when --bare is given.
func Default() *Config {
	return &Config{
		Settings: Settings{Spotlight: true, Lines: true, EOL: false, TabHard: false, TabSize: 4, TrackLateral: true},
		Colors:   map[string]int{},
		Theme:    map[string]string{},
		Bindings: map[string]string{},
	}
}

// SearchPaths returns the pedrc discovery order from §6: $HOME/.pedrc,
// $HOME/.ped/pedrc, $HOME/.config/ped/pedrc.
func SearchPaths(home string) []string {
	return []string{
		filepath.Join(home, ".pedrc"),
		filepath.Join(home, ".ped", "pedrc"),
		filepath.Join(home, ".config", "ped", "pedrc"),
	}
}

// Load finds and decodes the first existing pedrc on the search path,
// falling back to Default() if none exists. A present-but-malformed
// file is a ParseConfig error (§7: a startup error, fatal unless
// --bare bypasses config loading entirely).
func Load(home string) (*Config, error) {
	for _, p := range SearchPaths(home) {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		cfg := Default()
		if _, err := toml.DecodeFile(p, cfg); err != nil {
			return nil, errs.Newf(errs.ParseConfig, "config.Load", "%s: %w", p, err)
		}
		cfg.path = p
		logging.Log().Debug("loaded config", "path", p)
		return cfg, nil
	}
	return Default(), nil
}

// SyntaxDirs returns the syntax-definition directory discovery order
// from §6.
func SyntaxDirs(home string) []string {
	return []string{
		filepath.Join(home, ".ped", "syntax"),
		filepath.Join(home, ".config", "ped", "syntax"),
	}
}

// LoadSyntax decodes every *.toml file in dir into a SyntaxDef. A
// malformed file is a ParseSyntax error (§7).
func LoadSyntax(dir string) ([]SyntaxDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errs.New(errs.Io, "config.LoadSyntax", err)
	}
	var defs []SyntaxDef
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".toml" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		var def SyntaxDef
		if _, err := toml.DecodeFile(path, &def); err != nil {
			return nil, errs.Newf(errs.ParseSyntax, "config.LoadSyntax", "%s: %w", path, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// LoadAllSyntax tries every directory in SyntaxDirs, merging results
// (a later directory's same-named definition overrides an earlier
// one; unlike pedrc, where the first file found wins).
func LoadAllSyntax(home string) ([]SyntaxDef, error) {
	byName := map[string]SyntaxDef{}
	for _, dir := range SyntaxDirs(home) {
		defs, err := LoadSyntax(dir)
		if err != nil {
			return nil, err
		}
		for _, d := range defs {
			byName[d.Name] = d
		}
	}
	out := make([]SyntaxDef, 0, len(byName))
	for _, d := range byName {
		out = append(out, d)
	}
	return out, nil
}

// Path returns the pedrc file this config was loaded from, or "" for
// the built-in default.
func (c *Config) Path() string { return c.path }
