package engine

import (
	"strings"

	"github.com/swethaThangaraj/interview-practice-agent/internal/model/interview"
)

// roleOrder keeps the catalog in a stable, documented order.
var roleOrder = []string{"software engineer", "sales associate", "retail associate"}

var questionBanks = map[string][]string{
	"software engineer": {
		"Tell me briefly about yourself and why you applied for this Software Engineer role.",
		"Explain the difference between a process and a thread.",
		"What is a REST API and when would you use it?",
		"Describe a technical problem you solved and how you approached it.",
	},
	"sales associate": {
		"Tell me about your background and why you want this sales role.",
		"How would you handle a hesitant customer?",
		"Describe a time you exceeded a sales target.",
		"How do you handle rejection?",
	},
	"retail associate": {
		"Tell me about your background and why you applied for retail.",
		"How do you handle difficult customers?",
		"Describe a time you worked under pressure.",
		"Why do you want to work in retail?",
	},
}

// Roles returns the role catalog.
func Roles() []string {
	return append([]string(nil), roleOrder...)
}

// NextQuestion returns the question for the given role and step. ok is
// false when the bank is exhausted or the role is unknown.
func NextQuestion(role string, step int) (string, bool) {
	questions := questionBanks[strings.ToLower(role)]
	if step < 0 || step >= len(questions) {
		return "", false
	}
	return questions[step], true
}

// FollowUp applies the rule base to an answer. An empty return means no
// follow-up is needed and the interview moves on.
func FollowUp(answer string) string {
	if strings.TrimSpace(answer) == "" {
		return "I didn't quite catch that — can you try answering again with a bit more detail?"
	}
	a := strings.ToLower(answer)
	if len(a) < 25 {
		return "Could you expand on that a bit more — maybe give an example?"
	}
	if strings.Contains(a, "team") {
		return "Nice — what was your specific contribution in the team?"
	}
	if strings.Contains(a, "problem") || strings.Contains(a, "issue") || strings.Contains(a, "bug") {
		return "How did you identify the root cause and which tools or methods did you use?"
	}
	return ""
}

var actionKeywords = []string{"team", "i", "we", "led", "implemented", "improved", "reduced", "designed"}

// scoreAnswer rates one answer 0..3: length thresholds plus an action
// keyword bonus.
func scoreAnswer(answer string) int {
	score := 0
	a := strings.ToLower(strings.TrimSpace(answer))
	if len(a) > 40 {
		score += 2
	} else if len(a) > 15 {
		score++
	}
	for _, keyword := range actionKeywords {
		if strings.Contains(a, keyword) {
			score++
			break
		}
	}
	return score
}

// FeedbackReport is the wire shape served by the feedback endpoint. The
// client consumes level, percent_estimate, and items; overall_score is
// served for completeness.
type FeedbackReport struct {
	OverallScore    int                      `json:"overall_score"`
	PercentEstimate int                      `json:"percent_estimate"`
	Level           string                   `json:"level"`
	Items           []interview.FeedbackItem `json:"items"`
}

// BuildFeedback scores every exchange and aggregates the report. Items keep
// conversation order.
func BuildFeedback(conversation []Exchange) FeedbackReport {
	total := 0
	items := make([]interview.FeedbackItem, 0, len(conversation))
	for _, ex := range conversation {
		score := scoreAnswer(ex.Answer)
		total += score

		note := "Good answer — include specific metrics if possible."
		if score < 2 {
			note = "Provide more detail and examples. Keep structure: Situation -> Task -> Action -> Result (STAR)."
		}
		items = append(items, interview.FeedbackItem{Question: ex.Question, Note: note})
	}

	percent := 0
	if maxPossible := len(conversation) * 3; maxPossible > 0 {
		percent = total * 100 / maxPossible
	}

	level := "Needs Improvement"
	switch {
	case percent >= 75:
		level = "Excellent"
	case percent >= 45:
		level = "Good"
	}

	return FeedbackReport{
		OverallScore:    total,
		PercentEstimate: percent,
		Level:           level,
		Items:           items,
	}
}
