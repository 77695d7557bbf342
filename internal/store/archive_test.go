package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileArchive_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "WeatherJson")
	a := NewFileArchive(dir)
	at := time.Date(2024, 5, 20, 8, 30, 5, 0, time.UTC)

	path, err := a.Save("56294", at, []byte(`{"data":{"real":{"station":{"city":"成都"}}}}`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20240520-083005-56294.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"data\": {\n        \"real\": {\n            \"station\": {\n                \"city\": \"成都\"\n            }\n        }\n    }\n}", string(data))
}

func TestFileArchive_NeverOverwrites(t *testing.T) {
	a := NewFileArchive(t.TempDir())
	at := time.Date(2024, 5, 20, 8, 30, 5, 0, time.UTC)

	_, err := a.Save("56294", at, []byte(`{}`))
	require.NoError(t, err)

	_, err = a.Save("56294", at, []byte(`{"x":1}`))
	assert.Error(t, err)

	_, err = a.Save("54511", at, []byte(`{}`))
	assert.NoError(t, err)
}

func TestFileArchive_KeepsUnparseableBytes(t *testing.T) {
	a := NewFileArchive(t.TempDir())

	path, err := a.Save("56294", time.Now(), []byte("not json"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "not json", string(data))
}
