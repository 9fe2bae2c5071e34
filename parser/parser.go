package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/net/html"

	"blogscope/feeder"
)

const snippetLength = 150

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	imgPattern        = regexp.MustCompile(`(?i)<img`)
	digitPattern      = regexp.MustCompile(`\d+`)
)

// Follower-count widget patterns, ordered: first capture wins. These are
// template-fragile by nature.
var followerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)([\d,.]+)\s*followers?`),
	regexp.MustCompile(`(?i)followers?\s*\(?([\d,.]+)\)?`),
	regexp.MustCompile(`(?i)totalfollowercount[^\d]*(\d+)`),
	regexp.MustCompile(`(?i)member[s]?[^\d]{0,10}([\d,]+)`),
}

// StripTags removes tag-like substrings from markup and collapses
// whitespace runs to single spaces.
func StripTags(markup string) string {
	s := tagPattern.ReplaceAllString(markup, " ")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CountWords counts space-separated tokens after tag stripping.
func CountWords(markup string) int {
	s := StripTags(markup)
	if s == "" {
		return 0
	}
	return len(strings.Split(s, " "))
}

// CountImages counts image tag occurrences, case-insensitive.
func CountImages(markup string) int {
	return len(imgPattern.FindAllStringIndex(markup, -1))
}

// Snippet returns the tag-stripped content truncated to 150 characters
// with a trailing ellipsis, whether or not truncation happened.
func Snippet(markup string) string {
	s := StripTags(markup)
	r := []rune(s)
	if len(r) > snippetLength {
		r = r[:snippetLength]
	}
	return string(r) + "..."
}

// ParseDate parses a feed-supplied timestamp, tolerating the formats that
// show up in the wild. Invalid input yields the zero time; callers must
// not feed zero times into gap or staleness arithmetic.
func ParseDate(text string) time.Time {
	t, err := dateparse.ParseAny(strings.TrimSpace(text))
	if err != nil {
		return time.Time{}
	}
	return t
}

// ExtractCommentCount reads an entry's reply count: the explicit
// thr$total field when present, otherwise the first digit run in the
// replies link title. Defaults to 0.
func ExtractCommentCount(entry *feeder.Entry) int {
	if entry.TotalReplies != nil {
		if n, err := strconv.Atoi(strings.TrimSpace(entry.TotalReplies.Value)); err == nil {
			return n
		}
	}
	if link := entry.RepliesLink(); link != nil {
		if m := digitPattern.FindString(link.Title); m != "" {
			if n, err := strconv.Atoi(m); err == nil {
				return n
			}
		}
	}
	return 0
}

// ScrapeFollowerCount tries the follower widget patterns in order and
// returns the first captured integer, 0 when nothing matches. 0 is also
// what a blog with zero followers reports, so the two cases are
// indistinguishable here.
func ScrapeFollowerCount(markup string) int {
	for _, p := range followerPatterns {
		m := p.FindStringSubmatch(markup)
		if m == nil {
			continue
		}
		raw := strings.NewReplacer(",", "", ".", "").Replace(m[1])
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// ExtractMetaDescription pulls <meta name="description"> content out of a
// raw HTML page, empty string when absent or unparseable.
func ExtractMetaDescription(htmlStr string) string {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return ""
	}

	var desc string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if desc != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "meta" {
			var name, content string
			for _, a := range n.Attr {
				switch strings.ToLower(a.Key) {
				case "name":
					name = strings.ToLower(a.Val)
				case "content":
					content = a.Val
				}
			}
			if name == "description" {
				desc = strings.TrimSpace(content)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return desc
}
