package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "verdict.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestFindVerdictTomlWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname = \"demo\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	path, ok, err := findVerdictToml(nested)
	if err != nil {
		t.Fatalf("findVerdictToml: %v", err)
	}
	if !ok {
		t.Fatal("manifest not found from nested dir")
	}
	if filepath.Dir(path) != root {
		t.Fatalf("found %s, want manifest in %s", path, root)
	}
}

func TestFindVerdictTomlMissing(t *testing.T) {
	_, ok, err := findVerdictToml(t.TempDir())
	if err != nil {
		t.Fatalf("findVerdictToml: %v", err)
	}
	if ok {
		t.Fatal("unexpectedly found a manifest in empty temp dir")
	}
}

func TestLoadProjectConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[package]
name = "demo"

[verify]
diagnostics = "out/diags.json"
format = "json"
fix = true
`)

	cfg, err := loadProjectConfig(path)
	if err != nil {
		t.Fatalf("loadProjectConfig: %v", err)
	}
	if cfg.Package.Name != "demo" {
		t.Errorf("name = %q, want demo", cfg.Package.Name)
	}
	if cfg.Verify.Diagnostics != "out/diags.json" || cfg.Verify.Format != "json" || !cfg.Verify.Fix {
		t.Errorf("verify section mismatch: %+v", cfg.Verify)
	}
}

func TestLoadProjectConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing package", "[verify]\ndiagnostics = \"d.json\"\n"},
		{"missing name", "[package]\n"},
		{"empty name", "[package]\nname = \"  \"\n"},
		{"bad format", "[package]\nname = \"x\"\n[verify]\nformat = \"sarif\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.body)
			if _, err := loadProjectConfig(path); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestResolveCapturePath(t *testing.T) {
	m := &projectManifest{
		Root:   filepath.Join("proj", "root"),
		Config: projectConfig{Verify: verifyConfig{Diagnostics: "out/d.bin"}},
	}
	got, ok := m.resolveCapturePath()
	if !ok {
		t.Fatal("expected a capture path")
	}
	want := filepath.Join("proj", "root", "out", "d.bin")
	if got != want {
		t.Fatalf("path = %q, want %q", got, want)
	}

	m.Config.Verify.Diagnostics = "  "
	if _, ok := m.resolveCapturePath(); ok {
		t.Fatal("blank diagnostics must not resolve")
	}
}
