package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveAndEnsureDBPath_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "skin.db")

	got, err := ResolveAndEnsureDBPath(target)
	if err != nil {
		t.Fatalf("ResolveAndEnsureDBPath failed: %v", err)
	}
	if got != target {
		t.Errorf("Expected %s, got %s", target, got)
	}
	if info, err := os.Stat(filepath.Dir(target)); err != nil || !info.IsDir() {
		t.Errorf("Expected directory %s to be created", filepath.Dir(target))
	}
}

func TestResolveAndEnsureDBPath_Memory(t *testing.T) {
	got, err := ResolveAndEnsureDBPath(":memory:")
	if err != nil {
		t.Fatalf("ResolveAndEnsureDBPath failed: %v", err)
	}
	if got != ":memory:" {
		t.Errorf("Expected :memory: to be kept, got %s", got)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := ExpandHome("~/skin/skinlog.db")
	if err != nil {
		t.Fatalf("ExpandHome failed: %v", err)
	}
	if got != filepath.Join(home, "skin", "skinlog.db") {
		t.Errorf("Unexpected expansion %s", got)
	}

	if got, _ := ExpandHome("/abs/path.db"); got != "/abs/path.db" {
		t.Errorf("Expected absolute path to be unchanged, got %s", got)
	}
}

func TestDefaultPaths(t *testing.T) {
	if !strings.HasSuffix(GetDefaultDBPathOnly(), "skinlog.db") {
		t.Errorf("Unexpected default DB path %s", GetDefaultDBPathOnly())
	}
	if !strings.HasSuffix(GetDefaultConfigPath(), "config.yaml") {
		t.Errorf("Unexpected default config path %s", GetDefaultConfigPath())
	}
}
