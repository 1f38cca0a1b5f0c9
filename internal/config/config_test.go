package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"dsproc/internal/config"
	"dsproc/internal/imagesize"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv(config.LogLevelEnv, "")
	workDir := t.TempDir()
	t.Chdir(workDir)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "dsproc", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLog := filepath.Join(tempHome, ".local", "share", "dsproc", "logs")
	if cfg.Paths.LogDir != wantLog {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLog)
	}
	for name, got := range map[string]string{
		"selected-images":  cfg.Paths.SelectedDir,
		"discarded-images": cfg.Paths.DiscardedDir,
		"images-backup":    cfg.Paths.BackupDir,
	} {
		if want := filepath.Join(workDir, name); got != want {
			t.Fatalf("unexpected dir for %s: got %q want %q", name, got, want)
		}
	}
	if cfg.Paths.InputDir != "" {
		t.Fatalf("expected empty input dir, got %q", cfg.Paths.InputDir)
	}
	if cfg.SortDimension() != imagesize.DefaultDimension {
		t.Fatalf("unexpected default dimension %v", cfg.SortDimension())
	}
	if cfg.Filter.SidecarExtension != ".txt" {
		t.Fatalf("unexpected sidecar extension %q", cfg.Filter.SidecarExtension)
	}
	if cfg.Sort.CopySidecars || cfg.Sort.Backup || cfg.Rename.Backup {
		t.Fatal("expected optional behaviours disabled by default")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "dsproc.toml")

	type payload struct {
		Paths struct {
			InputDir    string `toml:"input_dir"`
			SelectedDir string `toml:"selected_dir"`
		} `toml:"paths"`
		Sort struct {
			Dimension    int  `toml:"dimension"`
			CopySidecars bool `toml:"copy_sidecars"`
		} `toml:"sort"`
		Filter struct {
			SidecarExtension string `toml:"sidecar_extension"`
			ExactMatch       bool   `toml:"exact_match"`
		} `toml:"filter"`
	}
	custom := payload{}
	custom.Paths.InputDir = filepath.Join(tempDir, "dataset")
	custom.Paths.SelectedDir = "~/keep"
	custom.Sort.Dimension = 1024
	custom.Sort.CopySidecars = true
	custom.Filter.SidecarExtension = "CAPTION"
	custom.Filter.ExactMatch = true
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.InputDir != custom.Paths.InputDir {
		t.Fatalf("unexpected input dir %q", cfg.Paths.InputDir)
	}
	home, _ := os.UserHomeDir()
	if cfg.Paths.SelectedDir != filepath.Join(home, "keep") {
		t.Fatalf("expected tilde expansion, got %q", cfg.Paths.SelectedDir)
	}
	if cfg.SortDimension() != imagesize.Resolution1024 || !cfg.Sort.CopySidecars {
		t.Fatalf("unexpected sort section %+v", cfg.Sort)
	}
	if cfg.Filter.SidecarExtension != ".caption" || !cfg.Filter.ExactMatch {
		t.Fatalf("unexpected filter section %+v", cfg.Filter)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "dsproc.toml")
	if err := os.WriteFile(configPath, []byte("[sort]\nthreshold = 512\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLogLevelEnvFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "dsproc.toml")
	if err := os.WriteFile(configPath, []byte("[logging]\nformat = \"json\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(config.LogLevelEnv, "DEBUG")
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected level from env, got %q", cfg.Logging.Level)
	}

	if err := os.WriteFile(configPath, []byte("[logging]\nlevel = \"warning\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err = config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected file level to win over env, got %q", cfg.Logging.Level)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "[sort]") {
		t.Fatalf("sample config missing sort section: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Sort.Dimension != 512 {
		t.Fatalf("expected sample dimension 512, got %d", cfg.Sort.Dimension)
	}

	t.Setenv("HOME", t.TempDir())
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.SelectedDir = filepath.Join(base, "keep")
	cfg.Paths.DiscardedDir = filepath.Join(base, "drop")
	cfg.Paths.BackupDir = filepath.Join(base, "backup")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.LockDir = filepath.Join(base, "locks")

	for range 2 {
		if err := cfg.EnsureDirectories(); err != nil {
			t.Fatalf("EnsureDirectories: %v", err)
		}
	}
	for _, dir := range []string{"keep", "drop", "backup", "logs", "locks"} {
		info, err := os.Stat(filepath.Join(base, dir))
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unsupported dimension", func(c *config.Config) { c.Sort.Dimension = 500 }},
		{"unknown sidecar extension", func(c *config.Config) { c.Filter.SidecarExtension = ".json" }},
		{"same keep and discard dir", func(c *config.Config) { c.Paths.DiscardedDir = c.Paths.SelectedDir }},
		{"input equals backup", func(c *config.Config) { c.Paths.InputDir = c.Paths.BackupDir }},
		{"empty lock dir", func(c *config.Config) { c.Paths.LockDir = "" }},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"bad log level", func(c *config.Config) { c.Logging.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Logging.Level = "info"
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	cfg.Logging.Level = "info"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
