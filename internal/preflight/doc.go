// Package preflight verifies that a dataset operation can run before it
// touches any file.
//
// Checks cover read/write access to the dataset and destination directories
// and free space at the backup destination compared with the dataset size.
// Each check yields a Result so the CLI can render a table; Failure turns the
// first failed check into an error for commands that must not start.
//
// Existence checks go through the injected afero.Fs. Permission and free
// space checks need the host filesystem and are skipped for any other Fs.
package preflight
