package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"blogscope/classifier"
	"blogscope/config"
	"blogscope/feeder"
	"blogscope/logger"
	"blogscope/models"
	"blogscope/repositories"
)

// ErrDuplicateBlog means the normalized URL is already tracked.
var ErrDuplicateBlog = errors.New("blog already tracked")

// Analyzer produces a metadata snapshot for one blog URL.
type Analyzer interface {
	Analyze(ctx context.Context, rawURL string) (*models.BlogMetadata, error)
}

// Classifier assigns category/tags/sentiment/language; it degrades to a
// fallback result instead of failing.
type Classifier interface {
	Classify(ctx context.Context, in classifier.Input) models.ClassificationResult
}

// BlogService encapsulates the curator operations over the tracked-blog
// collection: add, refresh, refresh-all, delete, favorite toggle, list.
type BlogService struct {
	repo       repositories.BlogRepository
	analyzer   Analyzer
	classifier Classifier
	cfg        config.AppConfig
}

func NewBlogService(repo repositories.BlogRepository, analyzer Analyzer, cls Classifier, cfg config.AppConfig) *BlogService {
	return &BlogService{repo: repo, analyzer: analyzer, classifier: cls, cfg: cfg}
}

// Add analyzes and classifies a new blog and stores it. Duplicate URLs
// (by normalized equality) are rejected before any fetch.
func (s *BlogService) Add(ctx context.Context, rawURL string) (*models.BlogMetadata, error) {
	normalized := feeder.NormalizeBlogURL(rawURL)

	if existing, err := s.repo.FindByURL(ctx, normalized); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateBlog, normalized)
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	snapshot, err := s.analyzer.Analyze(ctx, normalized)
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(snapshot.Posts))
	for _, p := range snapshot.Posts {
		titles = append(titles, p.Title)
	}
	cls := s.classifier.Classify(ctx, classifier.Input{
		Title:       snapshot.Title,
		Description: snapshot.Description,
		PostTitles:  titles,
	})

	now := time.Now()
	snapshot.ID = uuid.NewString()
	snapshot.Category = cls.Category
	snapshot.SentimentScore = cls.SentimentScore
	snapshot.Language = cls.Language
	snapshot.Tags = unionTags(snapshot.Tags, cls.Tags, s.cfg.Analysis.MaxTags)
	snapshot.AddedAt = now
	snapshot.LastCheckedAt = now

	if err := s.repo.Upsert(ctx, snapshot); err != nil {
		return nil, err
	}
	logger.InfoWithFields("blog added", logger.Fields{"id": snapshot.ID, "url": snapshot.URL})
	return snapshot, nil
}

// Refresh re-analyzes one tracked blog. On failure the stored record is
// left entirely unchanged. Classification is not re-run: category,
// sentiment and language keep their creation-time values and tags are
// unioned, not replaced.
func (s *BlogService) Refresh(ctx context.Context, id string) (*models.BlogMetadata, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.analyzer.Analyze(ctx, existing.URL)
	if err != nil {
		logger.ErrorWithFields("refresh failed, record unchanged", logger.Fields{
			"id":    existing.ID,
			"url":   existing.URL,
			"error": err.Error(),
		})
		return nil, err
	}

	updated := *existing
	updated.Title = snapshot.Title
	updated.Description = snapshot.Description
	updated.LastBuildDate = snapshot.LastBuildDate
	updated.Posts = snapshot.Posts
	updated.Stats = snapshot.Stats
	updated.Status = snapshot.Status
	updated.QualityScore = snapshot.QualityScore
	updated.Tags = unionTags(existing.Tags, snapshot.Tags, s.cfg.Analysis.MaxTags)
	updated.LastCheckedAt = time.Now()

	if err := s.repo.Upsert(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// RefreshOutcome reports one blog's result in a batch refresh.
type RefreshOutcome struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// RefreshAll refreshes every tracked blog strictly sequentially, to bound
// outbound request pressure on the shared relay endpoints. One blog's
// failure never stops the loop.
func (s *BlogService) RefreshAll(ctx context.Context) ([]RefreshOutcome, error) {
	blogs, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	outcomes := make([]RefreshOutcome, 0, len(blogs))
	for _, b := range blogs {
		outcome := RefreshOutcome{ID: b.ID, URL: b.URL, OK: true}
		if _, err := s.Refresh(ctx, b.ID); err != nil {
			outcome.OK = false
			outcome.Error = err.Error()
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func (s *BlogService) Get(ctx context.Context, id string) (*models.BlogMetadata, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *BlogService) List(ctx context.Context, opts repositories.ListBlogsOptions) ([]models.BlogMetadata, error) {
	return s.repo.List(ctx, opts)
}

func (s *BlogService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (s *BlogService) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	blog, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	blog.IsFavorite = !blog.IsFavorite
	if err := s.repo.Upsert(ctx, blog); err != nil {
		return false, err
	}
	return blog.IsFavorite, nil
}
