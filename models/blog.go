package models

import "time"

// BlogStatus reflects the publishing state derived from the latest analysis.
type BlogStatus string

const (
	StatusActive      BlogStatus = "active"
	StatusInactive    BlogStatus = "inactive"
	StatusUnreachable BlogStatus = "unreachable"
)

// BlogPost is one syndicated entry from a blog's posts feed.
// Built once per analysis and replaced wholesale on refresh.
type BlogPost struct {
	Title        string   `bson:"title" json:"title"`
	Link         string   `bson:"link" json:"link"`
	PubDate      string   `bson:"pub_date" json:"pub_date"`
	GUID         string   `bson:"guid" json:"guid"`
	Snippet      string   `bson:"snippet" json:"snippet"`
	WordCount    int      `bson:"word_count" json:"word_count"`
	ImageCount   int      `bson:"image_count" json:"image_count"`
	CommentCount int      `bson:"comment_count" json:"comment_count"`
	Tags         []string `bson:"tags" json:"tags"`
}

// BlogStats holds aggregate metrics over the most recent fetch.
// Totals come from the feed-reported counts; averages are computed over
// the locally fetched sample only.
type BlogStats struct {
	TotalPosts          int     `bson:"total_posts" json:"total_posts"`
	TotalPages          int     `bson:"total_pages" json:"total_pages"`
	TotalComments       int     `bson:"total_comments" json:"total_comments"`
	AvgCommentsPerPost  float64 `bson:"avg_comments_per_post" json:"avg_comments_per_post"`
	AvgWordsPerPost     float64 `bson:"avg_words_per_post" json:"avg_words_per_post"`
	AvgWordsPerPage     float64 `bson:"avg_words_per_page" json:"avg_words_per_page"`
	AvgImagesPerPost    float64 `bson:"avg_images_per_post" json:"avg_images_per_post"`
	AvgDaysBetweenPosts float64 `bson:"avg_days_between_posts" json:"avg_days_between_posts"`
	ConsistencyScore    int     `bson:"consistency_score" json:"consistency_score"`
	// FollowersCount is 0 both when the blog has no followers and when
	// scraping found nothing; the quality score depends on that overlap.
	FollowersCount int       `bson:"followers_count" json:"followers_count"`
	FirstPostDate  time.Time `bson:"first_post_date" json:"first_post_date"`
	LastPostDate   time.Time `bson:"last_post_date" json:"last_post_date"`
}

// BlogMetadata is one tracked blog, the persisted unit of the catalog.
// Collection: blogs
type BlogMetadata struct {
	ID            string     `bson:"id" json:"id"`
	URL           string     `bson:"url" json:"url"`
	Title         string     `bson:"title" json:"title"`
	Description   string     `bson:"description" json:"description"`
	LastBuildDate string     `bson:"last_build_date" json:"last_build_date"`
	Posts         []BlogPost `bson:"posts" json:"posts"`
	Stats         BlogStats  `bson:"stats" json:"stats"`
	Status        BlogStatus `bson:"status" json:"status"`

	// Classification fields are set once at creation and never refreshed.
	Category       string   `bson:"category" json:"category"`
	Tags           []string `bson:"tags" json:"tags"`
	SentimentScore int      `bson:"sentiment_score" json:"sentiment_score"`
	QualityScore   int      `bson:"quality_score" json:"quality_score"`
	Language       string   `bson:"language" json:"language"`

	IsFavorite    bool      `bson:"is_favorite" json:"is_favorite"`
	AddedAt       time.Time `bson:"added_at" json:"added_at"`
	LastCheckedAt time.Time `bson:"last_checked_at" json:"last_checked_at"`
}
