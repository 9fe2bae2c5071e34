package feeder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"

	"blogscope/logger"
	"blogscope/relay"
)

// FeedKind selects which syndication feed to fetch.
type FeedKind string

const (
	KindPosts FeedKind = "posts"
	KindPages FeedKind = "pages"
)

// ErrNotABlogFeed means the target answered with an HTML document where a
// Blogger-style JSON feed was expected.
var ErrNotABlogFeed = errors.New("not a compatible blog feed")

// ParseError wraps a feed body that was neither the expected JSON
// envelope nor an HTML document.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse feed at %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Text is the Blogger JSON convention for text values: {"$t": "..."}.
type Text struct {
	Value string `json:"$t"`
}

type Link struct {
	Rel   string `json:"rel"`
	Type  string `json:"type"`
	Href  string `json:"href"`
	Title string `json:"title"`
}

type Category struct {
	Term string `json:"term"`
}

// Entry is one post or page in the feed, validated once at this parse
// boundary. Optional fields are pointers; everything downstream uses the
// accessor methods and fixed defaults.
type Entry struct {
	Title        Text       `json:"title"`
	Content      *Text      `json:"content"`
	Summary      *Text      `json:"summary"`
	Published    Text       `json:"published"`
	ID           Text       `json:"id"`
	Links        []Link     `json:"link"`
	Categories   []Category `json:"category"`
	TotalReplies *Text      `json:"thr$total"`
}

// Markup returns the entry body: full content when present, else the
// summary, else empty.
func (e *Entry) Markup() string {
	if e.Content != nil {
		return e.Content.Value
	}
	if e.Summary != nil {
		return e.Summary.Value
	}
	return ""
}

// AlternateLink returns the href of the first link with rel="alternate",
// or empty when the entry has none.
func (e *Entry) AlternateLink() string {
	for _, l := range e.Links {
		if l.Rel == "alternate" {
			return l.Href
		}
	}
	return ""
}

// RepliesLink returns the first link with rel="replies", or nil.
func (e *Entry) RepliesLink() *Link {
	for i := range e.Links {
		if e.Links[i].Rel == "replies" {
			return &e.Links[i]
		}
	}
	return nil
}

// Terms returns the entry's category terms in feed order.
func (e *Entry) Terms() []string {
	terms := make([]string, 0, len(e.Categories))
	for _, c := range e.Categories {
		terms = append(terms, c.Term)
	}
	return terms
}

type Feed struct {
	Title        Text    `json:"title"`
	Subtitle     Text    `json:"subtitle"`
	Updated      Text    `json:"updated"`
	TotalResults Text    `json:"openSearch$totalResults"`
	Entries      []Entry `json:"entry"`
}

// Total returns the feed-reported total result count, 0 when absent or
// malformed.
func (f *Feed) Total() int {
	n, err := strconv.Atoi(strings.TrimSpace(f.TotalResults.Value))
	if err != nil {
		return 0
	}
	return n
}

type envelope struct {
	Feed Feed `json:"feed"`
}

// Reader retrieves blog feeds and raw pages through the relay client.
type Reader struct {
	relay *relay.Client
}

func NewReader(relayClient *relay.Client) *Reader {
	return &Reader{relay: relayClient}
}

// FetchFeed retrieves the blog's posts or pages feed as structured data.
// startIndex is 1-based. When the body is not the expected JSON envelope,
// an HTML body maps to ErrNotABlogFeed and an RSS/Atom body to a
// descriptive ParseError; anything else wraps the original JSON error.
func (r *Reader) FetchFeed(ctx context.Context, baseURL string, kind FeedKind, maxResults, startIndex int) (*Feed, error) {
	if startIndex < 1 {
		startIndex = 1
	}
	feedURL := fmt.Sprintf("%s/feeds/%s/default?alt=json&max-results=%d&start-index=%d",
		baseURL, kind, maxResults, startIndex)

	body, err := r.relay.Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, classifyBadBody(feedURL, body, err)
	}
	return &env.Feed, nil
}

// FetchRawHTML fetches the blog's root page as text. Failures are logged
// and swallowed: the page is only used for best-effort scraping and must
// never abort an analysis.
func (r *Reader) FetchRawHTML(ctx context.Context, baseURL string) string {
	body, err := r.relay.Fetch(ctx, baseURL)
	if err != nil {
		logger.DebugWithFields("raw html fetch failed", logger.Fields{
			"url":   baseURL,
			"error": err.Error(),
		})
		return ""
	}
	return string(body)
}

func classifyBadBody(feedURL string, body []byte, jsonErr error) error {
	head := strings.ToLower(strings.TrimSpace(string(body)))
	if len(head) > 256 {
		head = head[:256]
	}
	if strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html") || strings.Contains(head, "<html") {
		return fmt.Errorf("%s returned an HTML page: %w", feedURL, ErrNotABlogFeed)
	}

	// An RSS/Atom body parses fine with gofeed; surface that instead of a
	// raw JSON syntax error.
	if _, err := gofeed.NewParser().ParseString(string(body)); err == nil {
		return &ParseError{
			URL: feedURL,
			Err: errors.New("feed is RSS/Atom, expected a Blogger-style JSON feed"),
		}
	}

	return &ParseError{URL: feedURL, Err: jsonErr}
}
