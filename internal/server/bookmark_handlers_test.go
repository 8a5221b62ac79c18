package server

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"reso/internal/models"
	"reso/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdviceAndBookmarks(t *testing.T) {
	env := newTestEnv(t, nil)
	_, token := env.login(t)

	items := []*models.Advice{{Content: gofakeit.Quote()}, {Content: gofakeit.Quote()}}
	require.NoError(t, repository.NewAdviceRepository(env.db).Seed(context.Background(), items))
	target := items[1].ID

	resp, body := env.do(t, http.MethodGet, "/api/advice", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "advice is public")
	assert.Len(t, decode[[]models.Advice](t, body.Data), 2)

	resp, body = env.do(t, http.MethodPost, "/api/bookmarks", token, map[string]any{"adviceId": target})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, target, decode[models.Bookmark](t, body.Data).AdviceID)

	resp, body = env.do(t, http.MethodPost, "/api/bookmarks", token, map[string]any{"adviceId": target})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, models.CodeConflict, body.Error.Code)

	resp, _ = env.do(t, http.MethodPost, "/api/bookmarks", token, map[string]any{"adviceId": 9999})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/bookmarks", token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, body = env.do(t, http.MethodGet, "/api/advice", token, nil)
	for _, a := range decode[[]models.Advice](t, body.Data) {
		assert.Equal(t, a.ID == target, a.Bookmarked, "advice %d", a.ID)
	}

	resp, body = env.do(t, http.MethodGet, "/api/bookmarks", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	saved := decode[[]models.Bookmark](t, body.Data)
	require.Len(t, saved, 1)
	require.NotNil(t, saved[0].Advice)
	assert.Equal(t, items[1].Content, saved[0].Advice.Content)

	path := fmt.Sprintf("/api/bookmarks/%d", target)
	resp, _ = env.do(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = env.do(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = env.do(t, http.MethodDelete, "/api/bookmarks/zero", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid advice ID", body.Message)
}

func TestRandomAdvice(t *testing.T) {
	env := newTestEnv(t, nil)
	_, token := env.login(t)

	resp, body := env.do(t, http.MethodGet, "/api/advice/random", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, models.CodeNotFound, body.Error.Code)

	only := &models.Advice{Content: gofakeit.Quote()}
	require.NoError(t, repository.NewAdviceRepository(env.db).Seed(context.Background(), []*models.Advice{only}))

	resp, body = env.do(t, http.MethodGet, "/api/advice/random", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "random advice is public")
	got := decode[models.Advice](t, body.Data)
	assert.Equal(t, only.ID, got.ID)
	assert.False(t, got.Bookmarked)

	resp, _ = env.do(t, http.MethodPost, "/api/bookmarks", token, map[string]any{"adviceId": only.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, body = env.do(t, http.MethodGet, "/api/advice/random", token, nil)
	assert.True(t, decode[models.Advice](t, body.Data).Bookmarked)
}
