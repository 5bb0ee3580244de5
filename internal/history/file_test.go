package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "last_items.json")
	s := NewFileStore(path)

	rec := Record{
		"278727725": {102, 101, 100, 99},
		"123456":    {7},
	}
	require.NoError(t, s.Save(ctx, rec))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)

	require.Len(t, loaded, 2)
	assert.ElementsMatch(t, rec["278727725"], loaded["278727725"])
	assert.ElementsMatch(t, rec["123456"], loaded["123456"])
}

func TestFileStore_LoadMissingFile(t *testing.T) {
	t.Parallel()

	s := NewFileStore(filepath.Join(t.TempDir(), "nope.json"))
	rec, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rec)
	assert.NotNil(t, rec)
}

func TestFileStore_LoadCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "last_items.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	s := NewFileStore(path)
	rec, err := s.Load(context.Background())
	require.NoError(t, err, "corrupt history must not fail the run")
	assert.Empty(t, rec)
}

func TestFileStore_SaveIsAtomic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "last_items.json")
	s := NewFileStore(path)

	require.NoError(t, s.Save(ctx, Record{"p": {1}}))
	require.NoError(t, s.Save(ctx, Record{"p": {2, 1}}))

	// No temp file left behind after a successful save.
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, loaded["p"])
}

func TestFileStore_SaveToUnwritableDir(t *testing.T) {
	t.Parallel()

	s := NewFileStore(filepath.Join(t.TempDir(), "missing", "deep", "last_items.json"))
	err := s.Save(context.Background(), Record{"p": {1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing history temp file")
}
