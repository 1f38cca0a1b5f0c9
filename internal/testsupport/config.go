package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"dsproc/internal/config"
	"dsproc/internal/imagesize"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The input directory is created; destinations are left for EnsureDirectories.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.InputDir = filepath.Join(base, "dataset")
	cfgVal.Paths.SelectedDir = filepath.Join(base, "selected-images")
	cfgVal.Paths.DiscardedDir = filepath.Join(base, "discarded-images")
	cfgVal.Paths.BackupDir = filepath.Join(base, "images-backup")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.LockDir = filepath.Join(base, "locks")
	cfgVal.Logging.Level = "debug"

	if err := os.MkdirAll(cfgVal.Paths.InputDir, 0o755); err != nil {
		t.Fatalf("mkdir input dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithDimension overrides the sort threshold on the test config.
func WithDimension(d imagesize.Dimension) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sort.Dimension = int(d)
	}
}

// WithCopySidecars enables sidecar routing during classification.
func WithCopySidecars() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sort.CopySidecars = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.InputDir)
}
