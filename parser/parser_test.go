package parser_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"blogscope/feeder"
	"blogscope/parser"
)

func TestCountWords(t *testing.T) {
	assert.Equal(t, 2, parser.CountWords("<p>Hello world</p>"))
	assert.Equal(t, 0, parser.CountWords(""))
	assert.Equal(t, 0, parser.CountWords("<div><br/></div>"))
	assert.Equal(t, 2, parser.CountWords("<p>one</p><p>two</p>"))
	assert.Equal(t, 3, parser.CountWords("a\n\n b\t\tc"))
}

func TestCountImages(t *testing.T) {
	assert.Equal(t, 2, parser.CountImages(`<img src=a><img src=b>`))
	assert.Equal(t, 1, parser.CountImages(`<IMG SRC="x.png"/>`))
	assert.Equal(t, 0, parser.CountImages(`<p>no images</p>`))
}

func TestSnippet(t *testing.T) {
	short := parser.Snippet("<p>Hello world</p>")
	assert.Equal(t, "Hello world...", short)

	long := parser.Snippet("<p>" + strings.Repeat("abcde ", 100) + "</p>")
	// 150 runes plus the ellipsis, truncation or not.
	assert.Len(t, []rune(long), 153)
	assert.True(t, strings.HasSuffix(long, "..."))
}

func TestParseDate(t *testing.T) {
	parsed := parser.ParseDate("2024-05-01T10:00:00.000+09:00")
	assert.Equal(t, 2024, parsed.Year())
	assert.Equal(t, time.May, parsed.Month())

	assert.True(t, parser.ParseDate("not a date").IsZero())
	assert.True(t, parser.ParseDate("").IsZero())
}

func TestExtractCommentCount(t *testing.T) {
	withTotal := &feeder.Entry{TotalReplies: &feeder.Text{Value: "7"}}
	assert.Equal(t, 7, parser.ExtractCommentCount(withTotal))

	withLink := &feeder.Entry{Links: []feeder.Link{
		{Rel: "alternate", Title: "Post title"},
		{Rel: "replies", Title: "12 Comments"},
	}}
	assert.Equal(t, 12, parser.ExtractCommentCount(withLink))

	assert.Equal(t, 0, parser.ExtractCommentCount(&feeder.Entry{}))
}

func TestScrapeFollowerCount(t *testing.T) {
	assert.Equal(t, 1234, parser.ScrapeFollowerCount(`<span>1,234 followers</span>`))
	assert.Equal(t, 56, parser.ScrapeFollowerCount(`Followers (56)`))
	assert.Equal(t, 890, parser.ScrapeFollowerCount(`"totalFollowerCount": 890`))
	assert.Equal(t, 0, parser.ScrapeFollowerCount(`<html><body>nothing here</body></html>`))
	assert.Equal(t, 0, parser.ScrapeFollowerCount(""))
}

func TestExtractMetaDescription(t *testing.T) {
	page := `<html><head><meta name="description" content="A blog about gophers"></head><body></body></html>`
	assert.Equal(t, "A blog about gophers", parser.ExtractMetaDescription(page))
	assert.Empty(t, parser.ExtractMetaDescription("<html><head></head></html>"))
}
