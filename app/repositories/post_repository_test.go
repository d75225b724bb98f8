package repositories

import (
	"sync"
	"testing"
	"time"

	"github.com/zidan444/blog-app/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPost(title string, authorID int) *models.Post {
	return &models.Post{
		Title:      title,
		Content:    "Content for " + title,
		Categories: []string{"go"},
		AuthorID:   authorID,
	}
}

func TestPostRepository(t *testing.T) {
	repo := NewBadgerPostRepository(newTestDB(t))

	t.Run("create and get post", func(t *testing.T) {
		post := newTestPost("Test Post", 1)

		err := repo.Create(post)
		require.NoError(t, err)
		assert.Greater(t, post.ID, 0)
		assert.False(t, post.CreatedAt.IsZero())

		retrieved, err := repo.GetByID(post.ID)
		require.NoError(t, err)
		assert.Equal(t, post.Title, retrieved.Title)
		assert.Equal(t, post.Content, retrieved.Content)
		assert.Equal(t, 1, retrieved.AuthorID)
		assert.Empty(t, retrieved.Likes)
		assert.Empty(t, retrieved.Comments)
	})

	t.Run("create rejects invalid post", func(t *testing.T) {
		err := repo.Create(&models.Post{Content: "no title", AuthorID: 1})
		assert.Error(t, err)
	})

	t.Run("get missing post", func(t *testing.T) {
		_, err := repo.GetByID(9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update keeps author and social data", func(t *testing.T) {
		post := newTestPost("Original Title", 1)
		require.NoError(t, repo.Create(post))
		_, _, err := repo.ToggleLike(post.ID, 2)
		require.NoError(t, err)

		update := &models.Post{
			ID:         post.ID,
			Title:      "Updated Title",
			Content:    "Updated content",
			Categories: []string{"news"},
			AuthorID:   99,
		}
		require.NoError(t, repo.Update(update))

		updated, err := repo.GetByID(post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Updated Title", updated.Title)
		assert.Equal(t, "Updated content", updated.Content)
		assert.Equal(t, []string{"news"}, updated.Categories)
		assert.Equal(t, 1, updated.AuthorID)
		assert.Equal(t, []int{2}, updated.Likes)
		assert.True(t, updated.CreatedAt.Equal(post.CreatedAt))
		assert.True(t, updated.UpdatedAt.After(post.CreatedAt) || updated.UpdatedAt.Equal(post.CreatedAt))
	})

	t.Run("update missing post", func(t *testing.T) {
		err := repo.Update(&models.Post{ID: 9999, Title: "x", Content: "y", AuthorID: 1})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete post", func(t *testing.T) {
		post := newTestPost("Post to Delete", 1)
		require.NoError(t, repo.Create(post))

		require.NoError(t, repo.Delete(post.ID))

		_, err := repo.GetByID(post.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, repo.Delete(post.ID), ErrNotFound)
	})

	t.Run("toggle like is self-inverse", func(t *testing.T) {
		post := newTestPost("Likeable", 1)
		require.NoError(t, repo.Create(post))

		liked, isLiked, err := repo.ToggleLike(post.ID, 5)
		require.NoError(t, err)
		assert.True(t, isLiked)
		assert.Equal(t, []int{5}, liked.Likes)

		unliked, isLiked, err := repo.ToggleLike(post.ID, 5)
		require.NoError(t, err)
		assert.False(t, isLiked)
		assert.Empty(t, unliked.Likes)

		_, _, err = repo.ToggleLike(9999, 5)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("add comment", func(t *testing.T) {
		post := newTestPost("Commented", 1)
		require.NoError(t, repo.Create(post))

		comment := &models.Comment{Text: "First!", UserID: 3}
		updated, err := repo.AddComment(post.ID, comment)
		require.NoError(t, err)
		assert.Equal(t, 1, comment.ID)
		require.Len(t, updated.Comments, 1)
		assert.Equal(t, "First!", updated.Comments[0].Text)
		assert.Equal(t, 3, updated.Comments[0].UserID)

		_, err = repo.AddComment(post.ID, &models.Comment{Text: "Second", UserID: 4})
		require.NoError(t, err)

		stored, err := repo.GetByID(post.ID)
		require.NoError(t, err)
		require.Len(t, stored.Comments, 2)
		assert.Equal(t, 2, stored.Comments[1].ID)

		_, err = repo.AddComment(9999, &models.Comment{Text: "lost", UserID: 3})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPostRepositoryListNewestFirst(t *testing.T) {
	repo := NewBadgerPostRepository(newTestDB(t))
	base := time.Now().Add(-time.Hour)

	for i, offset := range []time.Duration{time.Minute, 3 * time.Minute, 2 * time.Minute} {
		post := newTestPost("Post", 1)
		post.CreatedAt = base.Add(offset)
		post.Title = []string{"one", "three", "two"}[i]
		require.NoError(t, repo.Create(post))
	}

	posts, err := repo.List()
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "three", posts[0].Title)
	assert.Equal(t, "two", posts[1].Title)
	assert.Equal(t, "one", posts[2].Title)
}

func TestPostRepositoryListEmpty(t *testing.T) {
	repo := NewBadgerPostRepository(newTestDB(t))

	posts, err := repo.List()
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestPostRepositoryConcurrentLikes(t *testing.T) {
	repo := NewBadgerPostRepository(newTestDB(t))
	post := newTestPost("Popular", 1)
	require.NoError(t, repo.Create(post))

	const users = 20
	var wg sync.WaitGroup
	for i := 1; i <= users; i++ {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()
			_, _, err := repo.ToggleLike(post.ID, userID)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stored, err := repo.GetByID(post.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Likes, users)
}

func TestSortNewestFirstBreaksTiesByID(t *testing.T) {
	now := time.Now()
	posts := []*models.Post{
		{ID: 1, CreatedAt: now},
		{ID: 3, CreatedAt: now},
		{ID: 2, CreatedAt: now},
	}

	SortNewestFirst(posts)

	assert.Equal(t, 3, posts[0].ID)
	assert.Equal(t, 2, posts[1].ID)
	assert.Equal(t, 1, posts[2].ID)
}
