package dto

import (
	"time"

	"blogscope/models"
)

// BlogDTO exposes a tracked blog to API consumers. Mirrors
// models.BlogMetadata minus the full post bodies: list views only need
// the card-level fields, the detail view carries posts too.
type BlogDTO struct {
	ID             string            `json:"id"`
	URL            string            `json:"url"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Status         string            `json:"status"`
	Category       string            `json:"category"`
	Tags           []string          `json:"tags"`
	SentimentScore int               `json:"sentiment_score"`
	QualityScore   int               `json:"quality_score"`
	Language       string            `json:"language"`
	IsFavorite     bool              `json:"is_favorite"`
	Stats          models.BlogStats  `json:"stats"`
	Posts          []models.BlogPost `json:"posts,omitempty"`
	AddedAt        time.Time         `json:"added_at"`
	LastCheckedAt  time.Time         `json:"last_checked_at"`
}

// NewBlogDTO constructs a card-level BlogDTO (no posts).
func NewBlogDTO(b models.BlogMetadata) BlogDTO {
	return BlogDTO{
		ID:             b.ID,
		URL:            b.URL,
		Title:          b.Title,
		Description:    b.Description,
		Status:         string(b.Status),
		Category:       b.Category,
		Tags:           b.Tags,
		SentimentScore: b.SentimentScore,
		QualityScore:   b.QualityScore,
		Language:       b.Language,
		IsFavorite:     b.IsFavorite,
		Stats:          b.Stats,
		AddedAt:        b.AddedAt,
		LastCheckedAt:  b.LastCheckedAt,
	}
}

// NewBlogDetailDTO includes the stored post list.
func NewBlogDetailDTO(b models.BlogMetadata) BlogDTO {
	d := NewBlogDTO(b)
	d.Posts = b.Posts
	return d
}
