package session

import "github.com/swethaThangaraj/interview-practice-agent/internal/model/interview"

// event is the single currency of the controller loop. User commands and
// asynchronous completions both arrive as events, so all state mutation
// happens on one goroutine.
type event interface{ isEvent() }

// Commands posted by the UI.

type cmdSelectRole struct{ role string }

type cmdSetDraft struct{ text string }

type cmdStart struct{}

type cmdSend struct{}

type cmdFeedback struct{}

type cmdReset struct{}

type cmdCapture struct{}

type cmdStopCapture struct{}

// Completions posted by background work.

type rolesLoaded struct {
	roles []string
	err   error
}

type startDone struct {
	result interview.StartResult
	err    error
}

type replyDone struct {
	outcome interview.ReplyOutcome
	err     error
}

type feedbackDone struct {
	feedback *interview.Feedback
	err      error
}

type captureDone struct{ text string }

func (cmdSelectRole) isEvent()  {}
func (cmdSetDraft) isEvent()    {}
func (cmdStart) isEvent()       {}
func (cmdSend) isEvent()        {}
func (cmdFeedback) isEvent()    {}
func (cmdReset) isEvent()       {}
func (cmdCapture) isEvent()     {}
func (cmdStopCapture) isEvent() {}
func (rolesLoaded) isEvent()    {}
func (startDone) isEvent()      {}
func (replyDone) isEvent()      {}
func (feedbackDone) isEvent()   {}
func (captureDone) isEvent()    {}
