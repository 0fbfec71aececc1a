package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiskStoreUpload(t *testing.T) {
	root := t.TempDir()
	store, err := NewDiskStore(root, "/uploads/")
	require.NoError(t, err)

	url, err := store.Upload(context.Background(), "menu-images", "burger.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.Equal(t, "/uploads/menu-images/burger.png", url)

	data, err := os.ReadFile(filepath.Join(root, "menu-images", "burger.png"))
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(data))
}

func TestDiskStoreSanitizesKey(t *testing.T) {
	root := t.TempDir()
	store, err := NewDiskStore(root, "/uploads")
	require.NoError(t, err)

	url, err := store.Upload(context.Background(), "menu-images", "../../etc/pass wd.png", strings.NewReader("x"))
	require.NoError(t, err)
	require.Equal(t, "/uploads/menu-images/pass_wd.png", url)

	entries, err := os.ReadDir(filepath.Join(root, "menu-images"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "pass_wd.png", entries[0].Name())
}

func TestUniqueKeyKeepsExtension(t *testing.T) {
	key := UniqueKey("photo.jpeg")
	require.True(t, strings.HasSuffix(key, ".jpeg"))
	require.NotEqual(t, key, UniqueKey("photo.jpeg"))
}
