package testfs

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func NewTempDir(t *testing.T) (string, func()) {
	dir, err := ioutil.TempDir("", "ziproto_")
	require.NoError(t, err)
	return dir, func() {
		require.NoError(t, os.RemoveAll(dir))
	}
}

func NewTempFile(t *testing.T) (*os.File, func()) {
	f, err := ioutil.TempFile("", "ziproto_")
	require.NoError(t, err)
	return f, func() {
		require.NoError(t, f.Close())
		require.NoError(t, os.Remove(f.Name()))
	}
}

// WriteTempFile writes data to a new file inside dir and returns its path.
func WriteTempFile(t *testing.T, dir string, name string, data []byte) string {
	p := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(p, data, 0644))
	return p
}
