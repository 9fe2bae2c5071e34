package feeder_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogscope/feeder"
	"blogscope/relay"
)

const bloggerFeedJSON = `{
  "feed": {
    "title": {"$t": "My Test Blog"},
    "subtitle": {"$t": "Notes on things"},
    "updated": {"$t": "2024-05-01T10:00:00.000+09:00"},
    "openSearch$totalResults": {"$t": "42"},
    "entry": [
      {
        "title": {"$t": "First post"},
        "content": {"$t": "<p>Hello world</p>"},
        "published": {"$t": "2024-05-01T10:00:00.000+09:00"},
        "id": {"$t": "tag:blogger.com,1999:blog-1.post-100"},
        "link": [
          {"rel": "replies", "type": "text/html", "href": "https://b.example/p1#comments", "title": "3 Comments"},
          {"rel": "alternate", "type": "text/html", "href": "https://b.example/p1", "title": "First post"}
        ],
        "category": [{"term": "go"}, {"term": "web"}],
        "thr$total": {"$t": "3"}
      },
      {
        "title": {"$t": "Second post"},
        "summary": {"$t": "Only a summary here"},
        "published": {"$t": "2024-04-20T08:30:00.000+09:00"},
        "id": {"$t": "tag:blogger.com,1999:blog-1.post-99"},
        "link": []
      }
    ]
  }
}`

func newReader(t *testing.T, handler http.HandlerFunc) (*feeder.Reader, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := relay.New(relay.Config{
		Endpoints: []string{srv.URL + "/?u="},
		Timeout:   2 * time.Second,
	})
	return feeder.NewReader(client), srv
}

func TestFetchFeedParsesEnvelope(t *testing.T) {
	reader, _ := newReader(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(bloggerFeedJSON))
	})

	feed, err := reader.FetchFeed(context.Background(), "https://b.example", feeder.KindPosts, 25, 1)
	require.NoError(t, err)

	assert.Equal(t, "My Test Blog", feed.Title.Value)
	assert.Equal(t, "Notes on things", feed.Subtitle.Value)
	assert.Equal(t, 42, feed.Total())
	require.Len(t, feed.Entries, 2)

	first := &feed.Entries[0]
	assert.Equal(t, "First post", first.Title.Value)
	assert.Equal(t, "https://b.example/p1", first.AlternateLink())
	assert.Equal(t, "<p>Hello world</p>", first.Markup())
	assert.Equal(t, []string{"go", "web"}, first.Terms())
	require.NotNil(t, first.RepliesLink())
	assert.Equal(t, "3 Comments", first.RepliesLink().Title)

	second := &feed.Entries[1]
	assert.Equal(t, "Only a summary here", second.Markup())
	assert.Empty(t, second.AlternateLink())
	assert.Nil(t, second.RepliesLink())
}

func TestFetchFeedHTMLBody(t *testing.T) {
	reader, _ := newReader(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<!DOCTYPE html><html><body>not a feed</body></html>"))
	})

	_, err := reader.FetchFeed(context.Background(), "https://notablog.example", feeder.KindPosts, 25, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, feeder.ErrNotABlogFeed)
}

func TestFetchFeedRSSBody(t *testing.T) {
	rss := `<?xml version="1.0"?><rss version="2.0"><channel><title>r</title><item><title>x</title></item></channel></rss>`
	reader, _ := newReader(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rss))
	})

	_, err := reader.FetchFeed(context.Background(), "https://rss.example", feeder.KindPosts, 25, 1)
	require.Error(t, err)
	var parseErr *feeder.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Error(), "RSS/Atom")
}

func TestFetchFeedGarbageBody(t *testing.T) {
	reader, _ := newReader(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%%% not json, not html, not xml"))
	})

	_, err := reader.FetchFeed(context.Background(), "https://junk.example", feeder.KindPosts, 25, 1)
	require.Error(t, err)
	var parseErr *feeder.ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.NotErrorIs(t, err, feeder.ErrNotABlogFeed)
}

func TestFetchRawHTMLNeverFails(t *testing.T) {
	reader, _ := newReader(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	html := reader.FetchRawHTML(context.Background(), "https://down.example")
	assert.Empty(t, html)
}
