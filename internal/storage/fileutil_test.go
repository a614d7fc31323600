package storage

import (
	"os"
	"path/filepath"
	"testing"

	"care-daily/internal/model"

	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")

	require.NoError(t, writeFileAtomic(path, []byte("first")))
	require.NoError(t, writeFileAtomic(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "second", string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestLoadJSONMissingFile(t *testing.T) {
	t.Parallel()

	items, err := loadJSON[model.Tag](filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	require.Nil(t, items)
}

func TestSaveLoadJSONRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tags.json")
	in := []model.Tag{
		{ID: 1, TagType: model.TagLearning, TagName: "漢字練習"},
		{ID: 2, TagType: model.TagGroupPlay, TagName: "ドッジボール"},
	}
	require.NoError(t, saveJSON(path, in))

	out, err := loadJSON[model.Tag](path)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestSaveJSONNilWritesEmptyArray(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, saveJSON[model.Tag](path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, "[]", string(data))
}

func TestNextID(t *testing.T) {
	t.Parallel()

	id := func(u model.User) int { return u.ID }
	require.Equal(t, 1, nextID(nil, id))
	require.Equal(t, 8, nextID([]model.User{{ID: 3}, {ID: 7}, {ID: 2}}, id))
}
