package interview

// StartResult is the engine's response to starting an interview. Question
// may be empty and Step may be absent; callers apply their own fallbacks.
type StartResult struct {
	Question string
	Step     *int
}

// ReplyKind tags the mutually exclusive shapes an engine reply can take.
type ReplyKind int

const (
	// ReplyFollowUp probes the same question further; step does not move.
	ReplyFollowUp ReplyKind = iota
	// ReplyNextQuestion advances the interview to the next question.
	ReplyNextQuestion
	// ReplyMessage carries a plain statement, e.g. interview completion.
	ReplyMessage
)

func (k ReplyKind) String() string {
	switch k {
	case ReplyFollowUp:
		return "follow_up"
	case ReplyNextQuestion:
		return "next_question"
	case ReplyMessage:
		return "message"
	default:
		return "unknown"
	}
}

// ReplyOutcome is the tagged form of the engine's answer-submission reply.
// Exactly one kind applies; Step is only meaningful for ReplyNextQuestion
// and is nil when the engine omitted it.
type ReplyOutcome struct {
	Kind ReplyKind
	Text string
	Step *int
}
