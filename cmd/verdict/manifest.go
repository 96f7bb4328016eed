package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Package packageConfig `toml:"package"`
	Verify  verifyConfig  `toml:"verify"`
}

type packageConfig struct {
	Name string `toml:"name"`
}

type verifyConfig struct {
	// Diagnostics is the default capture file path, relative to the manifest root.
	Diagnostics string `toml:"diagnostics"`
	Format      string `toml:"format"`
	Fix         bool   `toml:"fix"`
}

func findVerdictToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "verdict.toml")
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

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findVerdictToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return projectConfig{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return projectConfig{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if f := strings.TrimSpace(cfg.Verify.Format); f != "" && f != "pretty" && f != "json" {
		return projectConfig{}, fmt.Errorf("%s: [verify].format must be pretty or json", path)
	}
	return cfg, nil
}

// resolveCapturePath превращает [verify].diagnostics в абсолютный путь.
func (m *projectManifest) resolveCapturePath() (string, bool) {
	rel := strings.TrimSpace(m.Config.Verify.Diagnostics)
	if rel == "" {
		return "", false
	}
	return filepath.Join(m.Root, filepath.FromSlash(rel)), true
}
