package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "ccscraper/pkg/errors"
)

func TestManager(t *testing.T) {
	tempDir := filepath.Join(t.TempDir(), "archive")

	manager, err := NewManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	if manager.Root() != tempDir {
		t.Errorf("Expected root %s, got %s", tempDir, manager.Root())
	}

	dir, err := manager.EnsureDir("alice")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tempDir, "alice"), dir)

	target := filepath.Join(dir, "0.jpg")
	if manager.Exists(target) {
		t.Error("Expected Exists to return false before saving")
	}

	testData := []byte("test photo data that is long enough")
	if err := manager.Save(target, testData); err != nil {
		t.Fatalf("Failed to save photo: %v", err)
	}

	content, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("Failed to read saved file: %v", err)
	}
	if !bytes.Equal(content, testData) {
		t.Error("File content does not match expected data")
	}
	if !manager.Exists(target) {
		t.Error("Expected Exists to return true after saving")
	}
	assert.NoFileExists(t, target+tempSuffix)
}

func TestEnsureDirReusesExisting(t *testing.T) {
	manager, err := NewManager(t.TempDir())
	require.NoError(t, err)

	first, err := manager.EnsureDir("bob")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(first, "0.jpg"), []byte("keep me"), 0644))

	second, err := manager.EnsureDir("bob")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.FileExists(t, filepath.Join(second, "0.jpg"))
}

func TestEnsureDirRejectsFileInTheWay(t *testing.T) {
	root := t.TempDir()
	manager, err := NewManager(root)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "carol"), []byte("x"), 0644))

	_, err = manager.EnsureDir("carol")
	assert.True(t, errs.IsType(err, errs.ErrorTypeDirectoryAccess))
}

func TestEnsureDirRejectsEscapingNames(t *testing.T) {
	manager, err := NewManager(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", ".", "..", "a/b", `a\b`} {
		_, err := manager.EnsureDir(name)
		assert.True(t, errs.IsType(err, errs.ErrorTypeValidation), "name %q", name)
	}
}

func TestSaveNeverOverwrites(t *testing.T) {
	root := t.TempDir()
	manager, err := NewManager(root)
	require.NoError(t, err)

	target := filepath.Join(root, "0.jpg")
	require.NoError(t, os.WriteFile(target, []byte("original"), 0644))

	err = manager.Save(target, []byte("replacement bytes"))
	assert.True(t, errs.IsType(err, errs.ErrorTypeFilesystemWrite))

	content, _ := os.ReadFile(target)
	assert.Equal(t, "original", string(content))
}

func TestSaveIntoMissingDirectoryFails(t *testing.T) {
	root := t.TempDir()
	manager, err := NewManager(root)
	require.NoError(t, err)

	err = manager.Save(filepath.Join(root, "nobody", "0.jpg"), []byte("data"))
	assert.True(t, errs.IsType(err, errs.ErrorTypeFilesystemWrite))
}

func TestNewManagerErrors(t *testing.T) {
	_, err := NewManager("")
	assert.True(t, errs.IsType(err, errs.ErrorTypeUsage))

	file := filepath.Join(t.TempDir(), "plain-file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	_, err = NewManager(file)
	assert.True(t, errs.IsType(err, errs.ErrorTypeDirectoryAccess))
}

func TestNewManagerReadOnlyDirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}

	root := filepath.Join(t.TempDir(), "locked")
	require.NoError(t, os.Mkdir(root, 0555))
	t.Cleanup(func() { os.Chmod(root, 0755) })

	_, err := NewManager(root)
	assert.True(t, errs.IsType(err, errs.ErrorTypeDirectoryAccess))
}
