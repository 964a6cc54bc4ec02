package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return p
}

func TestLoadFile_Basic(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "issuehound.yaml", "threads: 4\npage_size: 25\nrps: 2.5\nretry_after_hint: true\n")
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Threads == nil || *cfg.Threads != 4 {
		t.Fatalf("expected threads=4, got %#v", cfg.Threads)
	}
	if cfg.PageSize == nil || *cfg.PageSize != 25 {
		t.Fatalf("expected page_size=25, got %#v", cfg.PageSize)
	}
	if cfg.RPS == nil || *cfg.RPS != 2.5 {
		t.Fatalf("expected rps=2.5, got %#v", cfg.RPS)
	}
	if cfg.RetryAfterHint == nil || !*cfg.RetryAfterHint {
		t.Fatalf("expected retry_after_hint=true, got %#v", cfg.RetryAfterHint)
	}
}

func TestLoadLocal_PrefersDotfile(t *testing.T) {
	dir := t.TempDir()
	// place both, expect the dotfile to be picked first by search order
	writeTemp(t, dir, "issuehound.yaml", "threads: 1\n")
	writeTemp(t, dir, ".issuehound.yaml", "threads: 7\n")
	cfg, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("LoadLocal: %v", err)
	}
	if cfg.Threads == nil || *cfg.Threads != 7 {
		t.Fatalf("expected threads=7 from .issuehound.yaml, got %#v", cfg.Threads)
	}
}

func TestLoadLocal_NoConfig(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadLocal(dir); err == nil {
		t.Fatal("expected error when no local config exists")
	}
}

func TestLoadGlobal_XDG_Config(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "issuehound")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	p := filepath.Join(cfgDir, "config.yml")
	if err := os.WriteFile(p, []byte("threads: 9\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("XDG_CONFIG_HOME", dir)
	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if cfg.Threads == nil || *cfg.Threads != 9 {
		t.Fatalf("expected threads=9 from global config, got %#v", cfg.Threads)
	}
}

func TestLoadGlobal_NoConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")
	if _, err := LoadGlobal(); err == nil {
		t.Fatal("expected error when no global config dir exists")
	}
}

func TestMergeLocalWins(t *testing.T) {
	g, l := 2, 8
	rps := 1.0
	global := FileConfig{Threads: &g, RPS: &rps}
	local := FileConfig{Threads: &l}
	out := Merge(global, local)
	if *out.Threads != 8 {
		t.Fatalf("local value must win, got %d", *out.Threads)
	}
	if out.RPS == nil || *out.RPS != 1.0 {
		t.Fatalf("global value must survive when local unset")
	}
}
