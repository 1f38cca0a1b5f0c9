// Package config loads, normalizes, and validates dsproc configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts and paths relative to the working directory), reads TOML files,
// and honours the DSPROC_LOG_LEVEL environment fallback. The Config type
// centralizes every knob the CLI needs so dataset, destination, and log
// directories are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, a supported sort dimension, and clear validation errors.
package config
