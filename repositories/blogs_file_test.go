package repositories_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogscope/models"
	"blogscope/repositories"
)

func newFileRepo(t *testing.T) (*repositories.FileBlogRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blogs.json")
	return repositories.NewFileBlogRepository(path), path
}

func blog(id, url string, quality int) *models.BlogMetadata {
	return &models.BlogMetadata{
		ID:           id,
		URL:          url,
		Title:        id,
		QualityScore: quality,
		AddedAt:      time.Now(),
	}
}

func TestFileRepoEmptyLoad(t *testing.T) {
	repo, _ := newFileRepo(t)
	blogs, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, blogs)
}

func TestFileRepoUpsertAndFind(t *testing.T) {
	repo, _ := newFileRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, blog("b1", "https://a.example", 40)))

	byID, err := repo.FindByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "https://a.example", byID.URL)

	byURL, err := repo.FindByURL(ctx, "https://a.example")
	require.NoError(t, err)
	assert.Equal(t, "b1", byURL.ID)

	// Same URL replaces, not duplicates.
	updated := blog("b1", "https://a.example", 90)
	require.NoError(t, repo.Upsert(ctx, updated))
	blogs, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, blogs, 1)
	assert.Equal(t, 90, blogs[0].QualityScore)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestFileRepoPersistsUnderStorageKey(t *testing.T) {
	repo, path := newFileRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, blog("b1", "https://a.example", 10)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, repositories.StorageKey)
}

func TestFileRepoDelete(t *testing.T) {
	repo, _ := newFileRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, blog("b1", "https://a.example", 10)))

	require.NoError(t, repo.Delete(ctx, "b1"))
	_, err := repo.FindByID(ctx, "b1")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "b1"), repositories.ErrNotFound)
}

func TestFileRepoListFilterAndSort(t *testing.T) {
	repo, _ := newFileRepo(t)
	ctx := context.Background()

	fav := blog("b1", "https://a.example", 50)
	fav.IsFavorite = true
	require.NoError(t, repo.Upsert(ctx, fav))
	require.NoError(t, repo.Upsert(ctx, blog("b2", "https://b.example", 90)))
	require.NoError(t, repo.Upsert(ctx, blog("b3", "https://c.example", 70)))

	byQuality, err := repo.List(ctx, repositories.ListBlogsOptions{SortBy: "quality"})
	require.NoError(t, err)
	require.Len(t, byQuality, 3)
	assert.Equal(t, "b2", byQuality[0].ID)
	assert.Equal(t, "b3", byQuality[1].ID)

	favs, err := repo.List(ctx, repositories.ListBlogsOptions{FavoriteOnly: true})
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "b1", favs[0].ID)

	paged, err := repo.List(ctx, repositories.ListBlogsOptions{SortBy: "quality", Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "b1", paged[0].ID)
}
