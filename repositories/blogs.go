package repositories

import (
	"context"
	"errors"

	"blogscope/models"
)

// ErrNotFound is returned when no blog matches the given key.
var ErrNotFound = errors.New("blog not found")

// ListBlogsOptions narrows and orders List results.
type ListBlogsOptions struct {
	FavoriteOnly bool
	// SortBy is one of "quality", "consistency", "added" (default).
	SortBy   string
	Page     int
	PageSize int
}

// BlogRepository persists the tracked-blog collection. Load/Save expose
// the whole-collection copy-on-write contract; the keyed operations exist
// so backends that can do better than rewrite-everything may.
type BlogRepository interface {
	Load(ctx context.Context) ([]models.BlogMetadata, error)
	Save(ctx context.Context, blogs []models.BlogMetadata) error
	List(ctx context.Context, opts ListBlogsOptions) ([]models.BlogMetadata, error)
	FindByID(ctx context.Context, id string) (*models.BlogMetadata, error)
	FindByURL(ctx context.Context, url string) (*models.BlogMetadata, error)
	Upsert(ctx context.Context, blog *models.BlogMetadata) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
