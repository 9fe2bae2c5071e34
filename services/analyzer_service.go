package services

import (
	"context"
	"math"
	"time"

	"blogscope/config"
	"blogscope/feeder"
	"blogscope/logger"
	"blogscope/models"
	"blogscope/parser"
	"blogscope/scoring"
)

// Feed pagination is 1-based and Blogger refuses start indexes past 500.
const maxStartIndex = 500

// A blog whose newest post is older than this is considered inactive.
const inactiveAfterMonths = 6

// AnalyzerService runs the end-to-end analysis for one blog URL: posts
// feed (critical), then best-effort raw HTML, pages feed and oldest-post
// lookup, then per-post analysis, aggregation and scoring. The returned
// snapshot has no ID and no classification fields; BlogService fills
// those in.
type AnalyzerService struct {
	feeds *feeder.Reader
	cfg   config.AppConfig
}

func NewAnalyzerService(feeds *feeder.Reader, cfg config.AppConfig) *AnalyzerService {
	return &AnalyzerService{feeds: feeds, cfg: cfg}
}

func (s *AnalyzerService) Analyze(ctx context.Context, rawURL string) (*models.BlogMetadata, error) {
	baseURL := feeder.NormalizeBlogURL(rawURL)

	// Critical path: a blog without a readable posts feed cannot be tracked.
	postsFeed, err := s.feeds.FetchFeed(ctx, baseURL, feeder.KindPosts, s.cfg.Analysis.PostSampleSize, 1)
	if err != nil {
		return nil, err
	}

	totalPosts := postsFeed.Total()
	if totalPosts == 0 {
		totalPosts = len(postsFeed.Entries)
	}

	// Everything below is best-effort: each fetch degrades to a default
	// on failure instead of aborting the analysis.
	rawHTML := s.feeds.FetchRawHTML(ctx, baseURL)
	totalPages, avgWordsPerPage := s.fetchPages(ctx, baseURL)
	oldestDate := s.fetchOldestPostDate(ctx, baseURL, totalPosts, len(postsFeed.Entries))

	posts := make([]models.BlogPost, 0, len(postsFeed.Entries))
	dates := make([]time.Time, 0, len(postsFeed.Entries))
	sumWords, sumImages, sumComments := 0, 0, 0
	for i := range postsFeed.Entries {
		entry := &postsFeed.Entries[i]
		markup := entry.Markup()
		post := models.BlogPost{
			Title:        entry.Title.Value,
			Link:         entry.AlternateLink(),
			PubDate:      entry.Published.Value,
			GUID:         entry.ID.Value,
			Snippet:      parser.Snippet(markup),
			WordCount:    parser.CountWords(markup),
			ImageCount:   parser.CountImages(markup),
			CommentCount: parser.ExtractCommentCount(entry),
			Tags:         entry.Terms(),
		}
		posts = append(posts, post)
		dates = append(dates, parser.ParseDate(post.PubDate))
		sumWords += post.WordCount
		sumImages += post.ImageCount
		sumComments += post.CommentCount
	}

	sample := len(posts)
	stats := models.BlogStats{
		TotalPosts:      totalPosts,
		TotalPages:      totalPages,
		AvgWordsPerPage: avgWordsPerPage,
	}
	if sample > 0 {
		stats.AvgWordsPerPost = float64(sumWords) / float64(sample)
		stats.AvgImagesPerPost = float64(sumImages) / float64(sample)
		stats.AvgCommentsPerPost = float64(sumComments) / float64(sample)
	}

	// Extrapolate comments to the full reported post count when we only
	// saw a sample of it.
	stats.TotalComments = sumComments
	if totalPosts > sample && sample > 0 {
		stats.TotalComments = int(math.Round(stats.AvgCommentsPerPost * float64(totalPosts)))
	}

	stats.AvgDaysBetweenPosts = avgGapDays(dates)
	stats.ConsistencyScore = scoring.ConsistencyScore(dates)
	stats.FollowersCount = parser.ScrapeFollowerCount(rawHTML)
	stats.LastPostDate = newestUsable(dates)
	stats.FirstPostDate = oldestDate
	if stats.FirstPostDate.IsZero() {
		// May undershoot the true creation date when the blog has more
		// posts than the sample.
		stats.FirstPostDate = oldestUsable(dates)
	}

	description := postsFeed.Subtitle.Value
	if description == "" && rawHTML != "" {
		description = parser.ExtractMetaDescription(rawHTML)
	}

	snapshot := &models.BlogMetadata{
		URL:           baseURL,
		Title:         postsFeed.Title.Value,
		Description:   description,
		LastBuildDate: postsFeed.Updated.Value,
		Posts:         capPosts(posts, s.cfg.Analysis.MaxStoredPosts),
		Stats:         stats,
		Status:        deriveStatus(stats.LastPostDate),
		QualityScore:  scoring.QualityScore(stats),
		Tags:          unionTags(nil, postTags(posts), s.cfg.Analysis.MaxTags),
	}

	logger.InfoWithFields("blog analyzed", logger.Fields{
		"url":         baseURL,
		"total_posts": totalPosts,
		"sample":      sample,
		"quality":     snapshot.QualityScore,
		"consistency": stats.ConsistencyScore,
		"status":      string(snapshot.Status),
	})
	return snapshot, nil
}

// fetchPages reads the pages feed; on failure the blog simply has zero
// known pages.
func (s *AnalyzerService) fetchPages(ctx context.Context, baseURL string) (int, float64) {
	pagesFeed, err := s.feeds.FetchFeed(ctx, baseURL, feeder.KindPages, s.cfg.Analysis.PageSampleSize, 1)
	if err != nil {
		logger.DebugWithFields("pages feed unavailable", logger.Fields{
			"url":   baseURL,
			"error": err.Error(),
		})
		return 0, 0
	}

	totalPages := pagesFeed.Total()
	if totalPages == 0 {
		totalPages = len(pagesFeed.Entries)
	}
	if len(pagesFeed.Entries) == 0 {
		return totalPages, 0
	}

	sumWords := 0
	for i := range pagesFeed.Entries {
		sumWords += parser.CountWords(pagesFeed.Entries[i].Markup())
	}
	return totalPages, float64(sumWords) / float64(len(pagesFeed.Entries))
}

// fetchOldestPostDate approximates the blog's creation date by fetching
// one post from the far end of the feed. Only attempted when the feed
// holds more posts than the local sample; returns the zero time when the
// lookup fails so the caller falls back to the sample.
func (s *AnalyzerService) fetchOldestPostDate(ctx context.Context, baseURL string, totalPosts, sample int) time.Time {
	if totalPosts <= sample {
		return time.Time{}
	}
	startIndex := totalPosts
	if startIndex > maxStartIndex {
		startIndex = maxStartIndex
	}

	oldFeed, err := s.feeds.FetchFeed(ctx, baseURL, feeder.KindPosts, 1, startIndex)
	if err != nil || len(oldFeed.Entries) == 0 {
		if err != nil {
			logger.DebugWithFields("oldest post lookup failed", logger.Fields{
				"url":   baseURL,
				"error": err.Error(),
			})
		}
		return time.Time{}
	}
	return parser.ParseDate(oldFeed.Entries[0].Published.Value)
}

func deriveStatus(lastPost time.Time) models.BlogStatus {
	if !lastPost.IsZero() && lastPost.Before(time.Now().AddDate(0, -inactiveAfterMonths, 0)) {
		return models.StatusInactive
	}
	return models.StatusActive
}

// avgGapDays is the mean gap in days between consecutive usable dates.
func avgGapDays(dates []time.Time) float64 {
	usable := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if !d.IsZero() {
			usable = append(usable, d)
		}
	}
	if len(usable) < 2 {
		return 0
	}
	sum := 0.0
	for i := 0; i < len(usable)-1; i++ {
		sum += math.Abs(usable[i].Sub(usable[i+1]).Hours() / 24)
	}
	return sum / float64(len(usable)-1)
}

func newestUsable(dates []time.Time) time.Time {
	for _, d := range dates {
		if !d.IsZero() {
			return d
		}
	}
	return time.Time{}
}

func oldestUsable(dates []time.Time) time.Time {
	for i := len(dates) - 1; i >= 0; i-- {
		if !dates[i].IsZero() {
			return dates[i]
		}
	}
	return time.Time{}
}

func capPosts(posts []models.BlogPost, max int) []models.BlogPost {
	if max > 0 && len(posts) > max {
		return posts[:max]
	}
	return posts
}

func postTags(posts []models.BlogPost) []string {
	var tags []string
	for _, p := range posts {
		tags = append(tags, p.Tags...)
	}
	return tags
}

// unionTags merges tag lists in first-seen order, deduplicated and capped.
func unionTags(existing, incoming []string, max int) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(existing)+len(incoming))
	for _, t := range append(append([]string{}, existing...), incoming...) {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}
