package domain

import "time"

// Entry is one piece of candidate feedback plus its sentiment analysis.
type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Date      string    `json:"date"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
	Sentiment string    `json:"sentiment"`
	Topics    []string  `json:"topics"`
	AISummary string    `json:"aiSummary"`
	Urgency   string    `json:"urgency"`
	Analyzed  bool      `json:"analyzed"`
	CreatedAt time.Time `json:"createdAt"`
}

type Input struct {
	Category string `json:"category" validate:"required,oneof=Course Test Project General"`
	Content  string `json:"content" validate:"required"`
}

// Analysis is the oracle's reading of an entry.
type Analysis struct {
	Sentiment string   `json:"sentiment" validate:"required,oneof=Positive Neutral Negative"`
	Topics    []string `json:"topics" validate:"max=3"`
	AISummary string   `json:"aiSummary" validate:"required"`
	Urgency   string   `json:"urgency" validate:"required,oneof=Low Medium High"`
}

// FallbackAnalysis is stored when the oracle cannot analyze an entry.
var FallbackAnalysis = Analysis{
	Sentiment: "Neutral",
	Topics:    []string{"General"},
	AISummary: "Could not analyze content.",
	Urgency:   "Low",
}
