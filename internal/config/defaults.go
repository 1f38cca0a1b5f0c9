package config

import (
	"dsproc/internal/dataset"
	"dsproc/internal/imagesize"
)

const (
	defaultConfigPath   = "~/.config/dsproc/config.toml"
	projectConfigName   = "dsproc.toml"
	defaultSelectedDir  = "selected-images"
	defaultDiscardedDir = "discarded-images"
	defaultBackupDir    = "images-backup"
	defaultLogDir       = "~/.local/share/dsproc/logs"
	defaultLockDir      = "~/.local/state/dsproc/locks"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"

	// LogLevelEnv supplies the log level when the config file leaves it unset.
	LogLevelEnv = "DSPROC_LOG_LEVEL"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SelectedDir:  defaultSelectedDir,
			DiscardedDir: defaultDiscardedDir,
			BackupDir:    defaultBackupDir,
			LogDir:       defaultLogDir,
			LockDir:      defaultLockDir,
		},
		Sort: Sort{
			Dimension: int(imagesize.DefaultDimension),
		},
		Filter: Filter{
			SidecarExtension: dataset.TxtExtension,
		},
		Logging: Logging{
			Format: defaultLogFormat,
		},
	}
}
