// Package storage manages the destination directory tree of a harvest run.
//
// The tree is append-only: NewManager creates or reuses the destination,
// EnsureDir creates or reuses one directory per model, and Save persists a
// photo through a temporary file and an atomic rename, refusing to replace a
// file that is already there. Together with the skip-existing check this
// makes an interrupted run resumable by simply running it again.
package storage
