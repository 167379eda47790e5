package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeWriteFileReplaces(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.md")
	require.NoError(t, SafeWriteFile(p, []byte("one")))
	require.NoError(t, SafeWriteFile(p, []byte("two")))
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "two", string(b))
	_, err = os.Stat(p + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "opioid-2021", SafeName(" Opioid  2021 ", "x"))
	assert.Equal(t, "new-york", SafeName("New_York!", "x"))
	assert.Equal(t, "sheet", SafeName("***", "sheet"))
}

func TestBaseNameAndUniquePath(t *testing.T) {
	assert.Equal(t, "opioids", BaseName("/data/opioids.csv"))

	dir := t.TempDir()
	p := filepath.Join(dir, "report.md")
	assert.Equal(t, p, UniquePath(p))
	require.NoError(t, EnsureDir(dir))
	require.NoError(t, os.WriteFile(p, nil, 0o644))
	assert.Equal(t, filepath.Join(dir, "report__2.md"), UniquePath(p))
}
