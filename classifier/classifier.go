package classifier

import (
	"context"
	"encoding/json"
	"strings"

	"google.golang.org/genai"

	"blogscope/logger"
	"blogscope/models"
)

// Input is what the classifier sees about a blog.
type Input struct {
	Title       string
	Description string
	PostTitles  []string
}

const SYSTEM_INSTRUCTION = `
You are a blog classification assistant. Given a blog's title, description
and recent post titles, produce a structured classification.
The response MUST be a valid JSON object with five keys:

1. category: A single category that best describes the blog. You MUST choose
   only from: ["Technology", "Programming", "Design", "Business", "Lifestyle",
   "Travel", "Food", "Science", "Education", "News", "Personal", "Other"].
2. tags: A list of 3-7 concrete topical keywords drawn from the input.
   Remove duplicates; no long phrases.
3. sentiment_score: An integer 0-100 reflecting the overall tone of the
   titles (0 negative, 50 neutral, 100 positive).
4. language: The primary language of the blog, as an English word
   (e.g. "English", "Korean").
5. summary: A one or two sentence description of what the blog is about.

You MUST NOT wrap the JSON output in a markdown code block.
The response should contain ONLY the raw JSON string.
`

// Classifier assigns category/tags/sentiment/language to a blog via
// Gemini. A missing API key degrades to the fixed fallback without any
// network call; so does every failure.
type Classifier struct {
	apiKey string
	model  string
}

func New(apiKey, model string) *Classifier {
	return &Classifier{apiKey: apiKey, model: model}
}

// Fallback is the neutral result substituted whenever classification is
// unavailable. Tracking a blog must never block on the classifier.
func Fallback() models.ClassificationResult {
	return models.ClassificationResult{
		Category:       "Other",
		Tags:           []string{"blog"},
		SentimentScore: 50,
		Language:       "Unknown",
		Summary:        "Automatic classification was unavailable for this blog.",
	}
}

// Classify runs the classification call. It never returns an error:
// failures are logged and replaced by Fallback().
func (c *Classifier) Classify(ctx context.Context, in Input) models.ClassificationResult {
	if c.apiKey == "" {
		logger.Log.Debug("classifier: no API key configured, using fallback")
		return Fallback()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: c.apiKey})
	if err != nil {
		logger.ErrorWithFields("classifier: client init failed", logger.Fields{"error": err.Error()})
		return Fallback()
	}

	prompt := buildPrompt(in)
	result, err := client.Models.GenerateContent(
		ctx,
		c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: SYSTEM_INSTRUCTION}}},
		},
	)
	if err != nil {
		logger.ErrorWithFields("classifier: generate failed", logger.Fields{"error": err.Error()})
		return Fallback()
	}

	var out models.ClassificationResult
	if err := json.Unmarshal([]byte(result.Text()), &out); err != nil {
		logger.ErrorWithFields("classifier: bad response", logger.Fields{"error": err.Error()})
		return Fallback()
	}
	if out.Category == "" {
		out.Category = "Other"
	}
	if out.SentimentScore < 0 {
		out.SentimentScore = 0
	}
	if out.SentimentScore > 100 {
		out.SentimentScore = 100
	}
	return out
}

func buildPrompt(in Input) string {
	var b strings.Builder
	b.WriteString("Blog title: ")
	b.WriteString(in.Title)
	b.WriteString("\nBlog description: ")
	b.WriteString(in.Description)
	b.WriteString("\nRecent post titles:\n")
	for _, t := range in.PostTitles {
		b.WriteString("- ")
		b.WriteString(t)
		b.WriteString("\n")
	}
	return b.String()
}
