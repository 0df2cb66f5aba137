package regress

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavedFiles(t *testing.T) {
	dir := t.TempDir()
	makefile := filepath.Join(dir, "Makefile")
	defs := filepath.Join(dir, "defs.hpp")
	fresh := filepath.Join(dir, "new.hpp")
	require.NoError(t, os.WriteFile(makefile, []byte("all:\n"), 0644))
	require.NoError(t, os.WriteFile(defs, []byte("#define NHYDRO 5\n"), 0600))

	saved, err := SaveFiles(makefile, defs, fresh)
	require.NoError(t, err)
	assert.Equal(t, []string{ makefile, defs, fresh }, saved.Names())

	require.NoError(t, os.WriteFile(makefile, []byte("changed\n"), 0644))
	require.NoError(t, os.Remove(defs))
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0644))

	require.NoError(t, saved.Restore())

	b, err := os.ReadFile(makefile)
	require.NoError(t, err)
	assert.Equal(t, "all:\n", string(b))

	info, err := os.Stat(defs)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	_, err = os.Stat(fresh)
	assert.True(t, os.IsNotExist(err))

	// Restoring twice is harmless.
	assert.NoError(t, saved.Restore())

	_, err = SaveFiles(dir)
	assert.Error(t, err)
}

func TestSniff(t *testing.T) {
	dir := t.TempDir()
	vtk := writeVTK(t, dir, "a.vtk", "rho", []float32{ 1, 2 })
	tab := writeTab(t, dir, "a.tab", []float64{ 1 }, []float64{ 1 })

	b, err := os.ReadFile(vtk)
	require.NoError(t, err)
	gb := &bytes.Buffer{ }
	wr := gzip.NewWriter(gb)
	_, err = wr.Write(b)
	require.NoError(t, err)
	require.NoError(t, wr.Close())
	packed := filepath.Join(dir, "b.vtk.gz")
	require.NoError(t, os.WriteFile(packed, gb.Bytes(), 0644))

	empty := filepath.Join(dir, "empty.tab")
	require.NoError(t, os.WriteFile(empty, nil, 0644))

	tests := []struct {
		name string
		format Format
		valid bool
	} {
		{vtk, VTK, true},
		{packed, VTK, true},
		{tab, Tab, true},
		{empty, VTK, false},
		{filepath.Join(dir, "missing.vtk"), VTK, false},
	}

	for i := range tests {
		f, err := Sniff(tests[i].name)
		if tests[i].valid {
			assert.NoError(t, err, "%d)", i)
			assert.Equal(t, tests[i].format, f, "%d)", i)
		} else {
			assert.Error(t, err, "%d)", i)
		}
	}
}
