package repositories

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/zidan444/blog-app/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreBackupAndRestore(t *testing.T) {
	src, err := NewStore(t.TempDir()+"/src", nil)
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })

	user := &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"}
	require.NoError(t, src.Users.Create(user))
	post := &models.Post{Title: "Backed up", Content: "Body", AuthorID: user.ID}
	require.NoError(t, src.Posts.Create(post))

	var buf bytes.Buffer
	_, err = src.Backup(&buf)
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())

	dst, err := NewStore(t.TempDir()+"/dst", nil)
	require.NoError(t, err)
	t.Cleanup(func() { dst.Close() })

	require.NoError(t, dst.Restore(&buf))

	restored, err := dst.Posts.GetByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Backed up", restored.Title)

	restoredUser, err := dst.Users.GetByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, restoredUser.ID)
}

func TestStoreTempDBCleanup(t *testing.T) {
	store, err := NewStore("", nil)
	require.NoError(t, err)
	path := store.dbPath

	_, err = os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, store.Close())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestStoreNamedPathIsKept(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	store, err := NewStore("test_db", nil)
	require.NoError(t, err)
	assert.Equal(t, "test_db", store.dbPath)
	require.NoError(t, store.Close())

	_, err = os.Stat(filepath.Join(dir, "test_db"))
	assert.NoError(t, err, "a configured path survives Close")
}

func TestStoreClear(t *testing.T) {
	store, err := NewStore("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Posts.Create(&models.Post{Title: "Gone", Content: "Soon", AuthorID: 1}))
	require.NoError(t, store.Clear())

	posts, err := store.Posts.List()
	require.NoError(t, err)
	assert.Empty(t, posts)
}
