package config

import (
	"errors"
	"fmt"
	"strings"

	"dsproc/internal/dataset"
	"dsproc/internal/imagesize"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSort(); err != nil {
		return err
	}
	if err := c.validateFilter(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	required := map[string]string{
		"paths.selected_dir":  c.Paths.SelectedDir,
		"paths.discarded_dir": c.Paths.DiscardedDir,
		"paths.backup_dir":    c.Paths.BackupDir,
		"paths.lock_dir":      c.Paths.LockDir,
	}
	for key, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must be set", key)
		}
	}
	if c.Paths.SelectedDir == c.Paths.DiscardedDir {
		return errors.New("paths.selected_dir and paths.discarded_dir must differ")
	}
	if c.Paths.InputDir != "" {
		for key, value := range map[string]string{
			"paths.selected_dir":  c.Paths.SelectedDir,
			"paths.discarded_dir": c.Paths.DiscardedDir,
			"paths.backup_dir":    c.Paths.BackupDir,
		} {
			if value == c.Paths.InputDir {
				return fmt.Errorf("%s must differ from paths.input_dir", key)
			}
		}
	}
	return nil
}

func (c *Config) validateSort() error {
	if !c.SortDimension().Valid() {
		return fmt.Errorf("sort.dimension %d is not supported (choose one of %v)", c.Sort.Dimension, imagesize.Supported)
	}
	return nil
}

func (c *Config) validateFilter() error {
	if !dataset.IsSidecarExtension(c.Filter.SidecarExtension) {
		return fmt.Errorf("filter.sidecar_extension must be one of %v, got %q", dataset.SidecarExtensions, c.Filter.SidecarExtension)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
