package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultGlobal(t *testing.T) {
	cfg := DefaultGlobal()

	if cfg.DefaultProvider != "claude" {
		t.Errorf("default provider: got %q, want %q", cfg.DefaultProvider, "claude")
	}
	if cfg.Chat.OptimizationCap != 200 {
		t.Errorf("optimization cap: got %d, want 200", cfg.Chat.OptimizationCap)
	}
	if cfg.Chat.MaxTokens != 4096 {
		t.Errorf("max tokens: got %d, want 4096", cfg.Chat.MaxTokens)
	}
	if cfg.Chat.Temperature != 0.7 {
		t.Errorf("temperature: got %f, want 0.7", cfg.Chat.Temperature)
	}
	if !cfg.Output.Color {
		t.Error("color should default to true")
	}
	if cfg.Ollama.Host != "http://localhost:11434" {
		t.Errorf("ollama host: got %q", cfg.Ollama.Host)
	}
	if cfg.Ollama.Model != "llama3.2" {
		t.Errorf("ollama model: got %q", cfg.Ollama.Model)
	}
}

func TestProjectDBPath(t *testing.T) {
	got := ProjectDBPath("/home/user/project")
	want := filepath.Join("/home/user/project", ".buildmind", "buildmind.db")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestProjectConfigDirPath(t *testing.T) {
	got := ProjectConfigDirPath("/home/user/project")
	want := filepath.Join("/home/user/project", ".buildmind")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLoadProject_NoFile(t *testing.T) {
	cfg, err := LoadProject(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Should return zero-value config with no error.
	if cfg.DefaultProvider != "" {
		t.Errorf("expected empty default provider, got %q", cfg.DefaultProvider)
	}
}

func TestSaveAndLoadProject(t *testing.T) {
	dir := t.TempDir()
	cfg := ProjectConfig{
		DefaultProvider: "openai",
		Project:         Meta{Name: "testproj"},
		Framework:       "react",
	}

	if err := SaveProject(dir, cfg); err != nil {
		t.Fatalf("SaveProject: %v", err)
	}

	loaded, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if loaded.DefaultProvider != "openai" {
		t.Errorf("default provider: got %q, want %q", loaded.DefaultProvider, "openai")
	}
	if loaded.Project.Name != "testproj" {
		t.Errorf("project name: got %q, want %q", loaded.Project.Name, "testproj")
	}
	if loaded.Framework != "react" {
		t.Errorf("framework: got %q, want %q", loaded.Framework, "react")
	}
}

func TestLoad_MergesProjectOverrides(t *testing.T) {
	dir := t.TempDir()

	SaveProject(dir, ProjectConfig{DefaultProvider: "ollama"})

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultProvider != "ollama" {
		t.Errorf("expected project override 'ollama', got %q", cfg.DefaultProvider)
	}
}

func TestLoadGlobal_EnvOverrides(t *testing.T) {
	os.Setenv("ANTHROPIC_API_KEY", "test-key-123")
	defer os.Unsetenv("ANTHROPIC_API_KEY")

	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if cfg.Keys.Anthropic != "test-key-123" {
		t.Errorf("expected env override, got %q", cfg.Keys.Anthropic)
	}
}

func TestGlobalConfigPath(t *testing.T) {
	path, err := GlobalConfigPath()
	if err != nil {
		t.Fatalf("GlobalConfigPath: %v", err)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("expected absolute path, got %q", path)
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("expected config.toml, got %q", filepath.Base(path))
	}
}
