package classifier_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"blogscope/classifier"
)

func TestClassifyWithoutKeyUsesFallback(t *testing.T) {
	c := classifier.New("", "gemini-2.0-flash")

	result := c.Classify(context.Background(), classifier.Input{
		Title:       "Some Blog",
		Description: "About things",
		PostTitles:  []string{"a", "b"},
	})

	assert.Equal(t, classifier.Fallback(), result)
}

func TestFallbackShape(t *testing.T) {
	fb := classifier.Fallback()
	assert.Equal(t, "Other", fb.Category)
	assert.Equal(t, []string{"blog"}, fb.Tags)
	assert.Equal(t, 50, fb.SentimentScore)
	assert.Equal(t, "Unknown", fb.Language)
	assert.NotEmpty(t, fb.Summary)
}
