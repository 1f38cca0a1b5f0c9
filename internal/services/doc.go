// Package services defines shared utilities consumed by the dataset
// operations and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, operation names, and dataset
//     directories for logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures
//     (collision, invalid argument, format, IO) for callers.
//   - BatchError, the failure result of a fail-fast batch operation, which
//     records how many groups completed before the failure.
//
// Use these helpers when wiring new operations so operational behaviour (error
// handling, observability) stays uniform across the engine.
package services
