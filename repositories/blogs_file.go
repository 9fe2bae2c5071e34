package repositories

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"blogscope/models"
)

// StorageKey is the fixed key the blog list is serialized under.
const StorageKey = "blogscope:blogs"

// FileBlogRepository keeps the whole collection as one JSON document on
// disk. Every mutation rewrites the file (copy-on-write, matching the
// collection contract); a mutex serializes access.
type FileBlogRepository struct {
	mu   sync.Mutex
	path string
}

func NewFileBlogRepository(path string) *FileBlogRepository {
	return &FileBlogRepository{path: path}
}

func (r *FileBlogRepository) Load(ctx context.Context) ([]models.BlogMetadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *FileBlogRepository) load() ([]models.BlogMetadata, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.BlogMetadata{}, nil
		}
		return nil, err
	}

	var doc map[string][]models.BlogMetadata
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	blogs := doc[StorageKey]
	if blogs == nil {
		blogs = []models.BlogMetadata{}
	}
	return blogs, nil
}

func (r *FileBlogRepository) Save(ctx context.Context, blogs []models.BlogMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(blogs)
}

func (r *FileBlogRepository) save(blogs []models.BlogMetadata) error {
	if blogs == nil {
		blogs = []models.BlogMetadata{}
	}
	data, err := json.MarshalIndent(map[string][]models.BlogMetadata{StorageKey: blogs}, "", "  ")
	if err != nil {
		return err
	}

	// Write-then-rename so a crash mid-write never corrupts the store.
	tmp := r.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}

func (r *FileBlogRepository) List(ctx context.Context, opts ListBlogsOptions) ([]models.BlogMetadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	blogs, err := r.load()
	if err != nil {
		return nil, err
	}

	out := make([]models.BlogMetadata, 0, len(blogs))
	for _, b := range blogs {
		if opts.FavoriteOnly && !b.IsFavorite {
			continue
		}
		out = append(out, b)
	}

	switch opts.SortBy {
	case "quality":
		sort.SliceStable(out, func(i, j int) bool { return out[i].QualityScore > out[j].QualityScore })
	case "consistency":
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Stats.ConsistencyScore > out[j].Stats.ConsistencyScore
		})
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].AddedAt.After(out[j].AddedAt) })
	}

	if opts.PageSize > 0 {
		page := opts.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * opts.PageSize
		if start >= len(out) {
			return []models.BlogMetadata{}, nil
		}
		end := start + opts.PageSize
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, nil
}

func (r *FileBlogRepository) FindByID(ctx context.Context, id string) (*models.BlogMetadata, error) {
	return r.find(func(b models.BlogMetadata) bool { return b.ID == id })
}

func (r *FileBlogRepository) FindByURL(ctx context.Context, url string) (*models.BlogMetadata, error) {
	return r.find(func(b models.BlogMetadata) bool { return b.URL == url })
}

func (r *FileBlogRepository) find(match func(models.BlogMetadata) bool) (*models.BlogMetadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	blogs, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range blogs {
		if match(blogs[i]) {
			b := blogs[i]
			return &b, nil
		}
	}
	return nil, ErrNotFound
}

func (r *FileBlogRepository) Upsert(ctx context.Context, blog *models.BlogMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	blogs, err := r.load()
	if err != nil {
		return err
	}
	replaced := false
	for i := range blogs {
		if blogs[i].URL == blog.URL {
			blogs[i] = *blog
			replaced = true
			break
		}
	}
	if !replaced {
		blogs = append(blogs, *blog)
	}
	return r.save(blogs)
}

func (r *FileBlogRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	blogs, err := r.load()
	if err != nil {
		return err
	}
	kept := blogs[:0]
	found := false
	for _, b := range blogs {
		if b.ID == id {
			found = true
			continue
		}
		kept = append(kept, b)
	}
	if !found {
		return ErrNotFound
	}
	return r.save(kept)
}

func (r *FileBlogRepository) Ping(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.load()
	return err
}
