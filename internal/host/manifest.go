// Package host drives the transformer: it loads the project manifest,
// feeds files through transformation, accumulates the lualib registry and
// writes the resulting chunks. The transformer itself performs no IO.
package host

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"tstl/internal/lualib"
	"tstl/internal/transform"
)

const manifestName = "tstl.toml"

// Manifest is the loaded project manifest.
type Manifest struct {
	Path   string
	Root   string
	Config ProjectConfig
}

// ProjectConfig mirrors tstl.toml.
type ProjectConfig struct {
	Package PackageConfig `toml:"package"`
	Compile CompileConfig `toml:"compile"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

// CompileConfig carries the transformer configuration bundle.
type CompileConfig struct {
	LuaTarget        string `toml:"luaTarget"`
	LuaLibImport     string `toml:"luaLibImport"`
	RootDir          string `toml:"rootDir"`
	BaseURL          string `toml:"baseUrl"`
	OutDir           string `toml:"outDir"`
	NoHoisting       bool   `toml:"noHoisting"`
	Strict           bool   `toml:"strict"`
	StrictNullChecks bool   `toml:"strictNullChecks"`
	AlwaysStrict     bool   `toml:"alwaysStrict"`
}

// FindManifest walks up from startDir looking for tstl.toml.
func FindManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest finds and parses the project manifest.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (ProjectConfig, error) {
	var cfg ProjectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return ProjectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return ProjectConfig{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return ProjectConfig{}, fmt.Errorf("%s: missing [package].name", path)
	}
	return cfg, nil
}

// Options resolves the manifest into transformer options.
func (m *Manifest) Options() (transform.Options, error) {
	target, ok := transform.ParseTarget(m.Config.Compile.LuaTarget)
	if !ok {
		return transform.Options{}, fmt.Errorf("%s: unknown luaTarget %q", m.Path, m.Config.Compile.LuaTarget)
	}
	importKind, ok := lualib.ParseImportKind(m.Config.Compile.LuaLibImport)
	if !ok {
		return transform.Options{}, fmt.Errorf("%s: unknown luaLibImport %q", m.Path, m.Config.Compile.LuaLibImport)
	}
	rootDir := m.Config.Compile.RootDir
	if rootDir == "" {
		rootDir = "."
	}
	return transform.Options{
		LuaTarget:        target,
		LuaLibImport:     importKind,
		RootDir:          rootDir,
		BaseURL:          m.Config.Compile.BaseURL,
		NoHoisting:       m.Config.Compile.NoHoisting,
		Strict:           m.Config.Compile.Strict,
		StrictNullChecks: m.Config.Compile.StrictNullChecks,
		AlwaysStrict:     m.Config.Compile.AlwaysStrict,
	}, nil
}

// DefaultManifest is what `tslc init` writes.
const DefaultManifest = `[package]
name = "%s"

[compile]
luaTarget = "mid"
luaLibImport = "require"
rootDir = "src"
outDir = "out"
strict = true
`
