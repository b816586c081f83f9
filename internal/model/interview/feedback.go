package interview

// FeedbackItem pairs one interview question with a coaching note.
type FeedbackItem struct {
	Question string `json:"question"`
	Note     string `json:"note"`
}

// Feedback summarizes a completed (or partial) interview. Items keep the
// engine's order; the transcript renders them in that order.
type Feedback struct {
	Level           string         `json:"level"`
	PercentEstimate int            `json:"percent_estimate"`
	Items           []FeedbackItem `json:"items"`
}
