package utils

import (
	"net"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testProfile struct {
	DatabaseURI string `json:"database_uri"`
	Auth        string `json:"auth"`
}

func TestAtomicWriteFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "test.txt")
	data := []byte("hello couch")

	err := AtomicWriteFile(path, data, 0600)
	require.NoError(t, err)

	readData, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, readData)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}

	// no temp files are left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestJSONHelpers(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.json")

	obj := &testProfile{DatabaseURI: "couch://admin:pw@localhost:5984/app", Auth: "cookie"}
	err := SaveJSON(path, obj, 0600)
	require.NoError(t, err)

	loaded, err := LoadJSON[testProfile](path)
	require.NoError(t, err)
	assert.Equal(t, obj, loaded)

	loaded, err = LoadJSON[testProfile](filepath.Join(tmpDir, "missing.json"))
	require.NoError(t, err)
	assert.Nil(t, loaded)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))
	_, err = LoadJSON[testProfile](path)
	assert.Error(t, err)
}

func TestCheckListenAddr(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	err = CheckListenAddr(ln.Addr().String())
	assert.Error(t, err)

	assert.NoError(t, CheckListenAddr("127.0.0.1:0"))
}
