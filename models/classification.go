package models

// ClassificationResult is the AI classifier's output for one blog.
// Produced from the blog title, description and post titles.
type ClassificationResult struct {
	Category       string   `bson:"category" json:"category"`
	Tags           []string `bson:"tags" json:"tags"`
	SentimentScore int      `bson:"sentiment_score" json:"sentiment_score"`
	Language       string   `bson:"language" json:"language"`
	Summary        string   `bson:"summary" json:"summary"`
}
