package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentController(t *testing.T) {
	env := setupTestEnv(t)
	post := env.createPost(t, "Discussed", env.alice)
	path := "/" + strconv.Itoa(post.ID)

	t.Run("create comment", func(t *testing.T) {
		req := formRequest(http.MethodPost, path+"/comment", url.Values{"text": {"Test Comment Content"}})
		w := env.serve(as(req, env.bob))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, path, w.Header().Get("Location"))

		stored, err := env.posts.GetByID(post.ID)
		require.NoError(t, err)
		require.Len(t, stored.Comments, 1)
		assert.Equal(t, "Test Comment Content", stored.Comments[0].Text)
		assert.Equal(t, env.bob.ID, stored.Comments[0].UserID)
	})

	t.Run("blank comment is ignored", func(t *testing.T) {
		req := formRequest(http.MethodPost, path+"/comment", url.Values{"text": {"   "}})
		w := env.serve(as(req, env.bob))
		assert.Equal(t, http.StatusSeeOther, w.Code)

		stored, err := env.posts.GetByID(post.ID)
		require.NoError(t, err)
		assert.Len(t, stored.Comments, 1)
	})

	t.Run("comment shows with username", func(t *testing.T) {
		w := env.serve(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Test Comment Content")
		assert.Contains(t, w.Body.String(), "bob on")
	})

	t.Run("missing post", func(t *testing.T) {
		for _, text := range []string{"hello", "   "} {
			req := formRequest(http.MethodPost, "/999/comment", url.Values{"text": {text}})
			w := env.serve(as(req, env.bob))
			assert.Equal(t, http.StatusNotFound, w.Code, "text %q", text)
		}
	})

	t.Run("list comments api", func(t *testing.T) {
		w := env.serve(httptest.NewRequest(http.MethodGet, "/api/posts/"+strconv.Itoa(post.ID)+"/comments", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Comments []struct {
				ID       int    `json:"id"`
				Text     string `json:"text"`
				UserName string `json:"user_name"`
			} `json:"comments"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Comments, 1)
		assert.Equal(t, "bob", response.Comments[0].UserName)
		assert.Equal(t, 1, response.Comments[0].ID)
	})

	t.Run("api create", func(t *testing.T) {
		req := formRequest(http.MethodPost, path+"/comment", url.Values{"text": {"Via API"}})
		req.Header.Set("Accept", "application/json")
		w := env.serve(as(req, env.alice))
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"text":"Via API"`)

		req = formRequest(http.MethodPost, path+"/comment", url.Values{"text": {""}})
		req.Header.Set("Accept", "application/json")
		w = env.serve(as(req, env.alice))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
