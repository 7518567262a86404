package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	errs "ccscraper/pkg/errors"
)

const tempSuffix = ".tmp"

// Manager owns the destination directory tree. Directories and files are
// append-only: existing directories are reused and existing files are
// never overwritten.
type Manager struct {
	root string
}

// NewManager creates the destination directory if needed and verifies that
// it is a writable directory
func NewManager(root string) (*Manager, error) {
	if root == "" {
		return nil, errs.New(errs.ErrorTypeUsage, "", "destination directory is required")
	}

	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeDirectoryAccess, root, "cannot create destination directory", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeDirectoryAccess, root, "cannot access destination directory", err)
	}
	if !info.IsDir() {
		return nil, errs.New(errs.ErrorTypeDirectoryAccess, root, "destination is not a directory")
	}

	// os.MkdirAll succeeds on an existing read-only directory, so probe it
	probe, err := os.CreateTemp(root, ".ccscraper-probe-*")
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeDirectoryAccess, root, "destination directory is not writable", err)
	}
	probe.Close()
	os.Remove(probe.Name())

	return &Manager{root: root}, nil
}

// Root returns the destination directory
func (m *Manager) Root() string {
	return m.root
}

// EnsureDir creates <root>/<name> if absent and reuses it if present.
// Names that would escape the root are rejected as validation errors.
func (m *Manager) EnsureDir(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", errs.New(errs.ErrorTypeValidation, name, "unusable directory name")
	}

	dir := filepath.Join(m.root, name)
	err := os.Mkdir(dir, 0755)
	if err == nil {
		return dir, nil
	}

	if errors.Is(err, fs.ErrExist) {
		info, statErr := os.Stat(dir)
		if statErr == nil && info.IsDir() {
			return dir, nil
		}
		return "", errs.New(errs.ErrorTypeDirectoryAccess, dir, "path exists and is not a directory")
	}

	return "", errs.Wrap(errs.ErrorTypeDirectoryAccess, dir, "cannot create model directory", err)
}

// Exists reports whether a file or directory is present at path
func (m *Manager) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Save writes data to path through a temporary file and a rename, so an
// interrupted run never leaves a truncated file under the final name.
// An existing file at path is left untouched.
func (m *Manager) Save(path string, data []byte) error {
	if m.Exists(path) {
		return errs.New(errs.ErrorTypeFilesystemWrite, path, "refusing to overwrite existing file")
	}

	tempFile := path + tempSuffix
	out, err := os.Create(tempFile)
	if err != nil {
		return errs.Wrap(errs.ErrorTypeFilesystemWrite, path, "failed to create temporary file", err)
	}

	_, err = out.Write(data)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return errs.Wrap(errs.ErrorTypeFilesystemWrite, path, "failed to write photo data", err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return errs.Wrap(errs.ErrorTypeFilesystemWrite, path, "failed to close file", closeErr)
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return errs.Wrap(errs.ErrorTypeFilesystemWrite, path, "failed to rename temporary file", err)
	}

	return nil
}
