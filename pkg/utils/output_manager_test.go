package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureOutputDirExistsCreatesParents(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dashboard", "data")
	om := NewOutputManager(dir)

	require.NoError(t, om.EnsureOutputDirExists())
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFilePathFlattensName(t *testing.T) {
	om := NewOutputManager("/out")
	assert.Equal(t, filepath.Join("/out", "geo.json"), om.FilePath("geo.json"))
	assert.Equal(t, filepath.Join("/out", "geo.json"), om.FilePath("../../geo.json"))
}

func TestListJSONFiles(t *testing.T) {
	dir := t.TempDir()
	om := NewOutputManager(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte(`{}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(`{"k":1}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0755))

	files, err := om.ListJSONFiles()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.json", files[0].Name)
	assert.Equal(t, int64(7), files[0].SizeBytes)
	assert.Equal(t, "b.json", files[1].Name)
}

func TestGetDownloadURL(t *testing.T) {
	om := NewOutputManager("/out")
	assert.Equal(t, "/api/v1/download/run-1/geo.json", om.GetDownloadURL("run-1", "geo.json"))
}
