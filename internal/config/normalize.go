package config

import (
	"fmt"
	"os"
	"strings"

	"dsproc/internal/dataset"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeFilter()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		key   string
		value *string
		def   string
	}{
		{"paths.input_dir", &c.Paths.InputDir, ""},
		{"paths.selected_dir", &c.Paths.SelectedDir, defaultSelectedDir},
		{"paths.discarded_dir", &c.Paths.DiscardedDir, defaultDiscardedDir},
		{"paths.backup_dir", &c.Paths.BackupDir, defaultBackupDir},
		{"paths.log_dir", &c.Paths.LogDir, defaultLogDir},
		{"paths.lock_dir", &c.Paths.LockDir, defaultLockDir},
	}
	for _, field := range fields {
		if strings.TrimSpace(*field.value) == "" {
			*field.value = field.def
		}
		expanded, err := expandPath(strings.TrimSpace(*field.value))
		if err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizeFilter() {
	exts := dataset.NormalizeExtensions([]string{c.Filter.SidecarExtension})
	if len(exts) == 0 {
		c.Filter.SidecarExtension = dataset.TxtExtension
		return
	}
	c.Filter.SidecarExtension = exts[0]
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		if value, ok := os.LookupEnv(LogLevelEnv); ok {
			c.Logging.Level = strings.ToLower(strings.TrimSpace(value))
		}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.Level == "warning" {
		c.Logging.Level = "warn"
	}
}
