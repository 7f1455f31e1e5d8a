package logging

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joeycumines/logiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/gaudium/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logiface.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, logiface.LevelInformational, ParseLevel("info"))
	assert.Equal(t, logiface.LevelWarning, ParseLevel("warning"))
	assert.Equal(t, logiface.LevelWarning, ParseLevel("warn"))
	assert.Equal(t, logiface.LevelError, ParseLevel("error"))
	assert.Equal(t, logiface.LevelInformational, ParseLevel("loud"))
}

func TestNewWriter_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, logiface.LevelInformational)

	log.Debug().Log("hidden")
	log.Info().Str("display", ":1").Log("connected")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"connected"`)
	assert.Contains(t, out, `"display":":1"`)
	assert.Contains(t, out, `"lvl":"info"`)
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gaudium.log")
	log, closer, err := New(config.LoggingConfig{Level: "debug", File: path, MaxSizeMB: 1, MaxFiles: 2})
	require.NoError(t, err)

	log.Debug().Log("to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"to file"`)
}

func TestNew_Stderr(t *testing.T) {
	log, closer, err := New(config.LoggingConfig{Level: "error"})
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.NoError(t, closer.Close())
}

func TestRotatingFile_Rotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gaudium.log")
	r, err := openRotatingFile(path, 10, 2)
	require.NoError(t, err)
	defer r.Close()

	for i := range 4 {
		n, err := fmt.Fprintf(r, "line%d\n", i)
		require.NoError(t, err)
		assert.Equal(t, 6, n)
	}

	read := func(name string) string {
		data, err := os.ReadFile(name)
		require.NoError(t, err)
		return string(data)
	}
	assert.Equal(t, "line3\n", read(path))
	assert.Equal(t, "line2\n", read(path+".1"))
	assert.Equal(t, "line1\n", read(path+".2"))
	assert.NoFileExists(t, path+".3")
}

func TestRotatingFile_NoBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gaudium.log")
	r, err := openRotatingFile(path, 8, 0)
	require.NoError(t, err)

	_, err = r.Write([]byte("first\n"))
	require.NoError(t, err)
	_, err = r.Write([]byte("second\n"))
	require.NoError(t, err)
	require.NoError(t, r.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(data))
	assert.NoFileExists(t, path+".1")
}

func TestRotatingFile_OversizedWriteNotSplit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gaudium.log")
	r, err := openRotatingFile(path, 4, 1)
	require.NoError(t, err)
	defer r.Close()

	long := strings.Repeat("x", 16)
	_, err = r.Write([]byte(long))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, long, string(data))
	assert.NoFileExists(t, path+".1")
}

func TestRotatingFile_AppendsToExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gaudium.log")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o600))

	r, err := openRotatingFile(path, 6, 1)
	require.NoError(t, err)
	_, err = r.Write([]byte("new\n"))
	require.NoError(t, err)
	require.NoError(t, r.Close())

	data, err := os.ReadFile(path + ".1")
	require.NoError(t, err)
	assert.Equal(t, "old\n", string(data))

	_, err = r.Write([]byte("late\n"))
	assert.ErrorIs(t, err, os.ErrClosed)
}
