package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"dsproc/internal/config"
	"dsproc/internal/jobs"
	"dsproc/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	fs afero.Fs
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		fs:         afero.NewOsFs(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// loggerValue builds the file/stderr logger once. A logger that cannot be
// built falls back to stderr warnings so commands still run.
func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.configValue())
		if err != nil {
			logger, _ = logging.NewFromConfig(nil)
			logger.Warn("log file unavailable", logging.Error(err))
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) runner() *jobs.Runner {
	var lockDir string
	if cfg := c.configValue(); cfg != nil {
		lockDir = cfg.Paths.LockDir
	}
	return jobs.NewRunner(lockDir, c.loggerValue())
}

// datasetDir resolves the dataset directory from the first argument or
// paths.input_dir.
func (c *commandContext) datasetDir(args []string) (string, error) {
	value := ""
	if len(args) > 0 {
		value = strings.TrimSpace(args[0])
	}
	if value == "" {
		if cfg := c.configValue(); cfg != nil {
			value = cfg.Paths.InputDir
		}
	}
	if value == "" {
		return "", errors.New("no dataset directory given; pass one as an argument or set paths.input_dir")
	}
	dir, err := config.ExpandPath(value)
	if err != nil {
		return "", fmt.Errorf("resolve dataset directory: %w", err)
	}
	return dir, nil
}

// expandFlag resolves a directory flag, falling back to the configured value.
func expandFlag(value, fallback string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	return config.ExpandPath(value)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
