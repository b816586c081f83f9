package session

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/swethaThangaraj/interview-practice-agent/internal/model/interview"
)

// DefaultRole is the placeholder selection used until the catalog arrives.
const DefaultRole = "software engineer"

const (
	fallbackQuestion   = "No question received."
	fallbackSpokenText = "Interview started."
)

// EngineClient issues the four remote interview calls.
type EngineClient interface {
	FetchRoles(ctx context.Context) ([]string, error)
	StartSession(ctx context.Context, userID, role string) (interview.StartResult, error)
	SubmitAnswer(ctx context.Context, userID, answer string) (interview.ReplyOutcome, error)
	RequestFeedback(ctx context.Context, userID string) (*interview.Feedback, error)
}

// Capture is a one-shot speech-to-text capability. Start invokes onResult
// at most once, with the single best transcript; no callback fires on error
// or cancellation.
type Capture interface {
	Available() bool
	Start(ctx context.Context, onResult func(text string)) error
	Stop()
}

// Playback speaks text, cancelling any prior utterance first.
type Playback interface {
	Speak(text string)
}

// Snapshot is an immutable copy of the controller state, published after
// every processed event.
type Snapshot struct {
	Roles    []string
	Role     string
	Messages []interview.Message
	Started  bool
	Step     int
	Pending  string
}

// Controller owns the dialogue session: the transcript, the step counter,
// the pending answer draft, and the started flag. All mutation happens on
// the Run goroutine; commands and completions are delivered as events.
//
// Reset does not cancel in-flight calls or captures, so a stale completion
// can still land on a freshly reset session.
type Controller struct {
	userID   string
	client   EngineClient
	capture  Capture
	playback Playback
	onNotice func(text string)
	onUpdate func(snap Snapshot)

	events chan event

	// owned by the Run loop
	roles    []string
	role     string
	messages []interview.Message
	started  bool
	step     int
	pending  string

	mu   sync.RWMutex
	snap Snapshot
}

// NewController wires the session controller. capture and playback may be
// nil when the platform lacks the capability; onNotice and onUpdate may be
// nil.
func NewController(userID string, client EngineClient, capture Capture, playback Playback, onNotice func(string), onUpdate func(Snapshot)) *Controller {
	return &Controller{
		userID:   userID,
		client:   client,
		capture:  capture,
		playback: playback,
		onNotice: onNotice,
		onUpdate: onUpdate,
		events:   make(chan event, 64),
		role:     DefaultRole,
	}
}

// Run processes events until ctx is cancelled. It kicks off the one-time
// role catalog fetch before entering the loop.
func (c *Controller) Run(ctx context.Context) {
	c.publish()

	go func() {
		roles, err := c.client.FetchRoles(ctx)
		c.post(rolesLoaded{roles: roles, err: err})
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.events:
			c.handle(ctx, ev)
			c.publish()
		}
	}
}

// SelectRole changes the role used by the next start call. It has no
// effect on an already started session.
func (c *Controller) SelectRole(role string) { c.post(cmdSelectRole{role: role}) }

// SetPendingAnswer replaces the not-yet-submitted draft text.
func (c *Controller) SetPendingAnswer(text string) { c.post(cmdSetDraft{text: text}) }

// StartInterview begins a session with the engine for the selected role.
func (c *Controller) StartInterview() { c.post(cmdStart{}) }

// SendReply submits the pending answer as the next turn.
func (c *Controller) SendReply() { c.post(cmdSend{}) }

// RequestFeedback asks the engine for the feedback summary.
func (c *Controller) RequestFeedback() { c.post(cmdFeedback{}) }

// Reset clears the transcript and returns the session to its initial state.
func (c *Controller) Reset() { c.post(cmdReset{}) }

// StartCapture begins a one-shot voice capture into the pending answer.
func (c *Controller) StartCapture() { c.post(cmdCapture{}) }

// StopCapture requests early termination of an in-progress capture.
func (c *Controller) StopCapture() { c.post(cmdStopCapture{}) }

// Snapshot returns the most recently published state copy.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

func (c *Controller) post(ev event) {
	select {
	case c.events <- ev:
	default:
		log.Printf("[session] event queue full, dropping %T", ev)
	}
}

func (c *Controller) handle(ctx context.Context, ev event) {
	switch ev := ev.(type) {
	case rolesLoaded:
		if ev.err != nil {
			// Startup catalog failure degrades to the default role.
			log.Printf("[session] role catalog fetch failed: %v", ev.err)
			return
		}
		c.roles = ev.roles
		if len(c.roles) > 0 {
			c.role = c.roles[0]
		}

	case cmdSelectRole:
		role := strings.TrimSpace(ev.role)
		if role == "" {
			return
		}
		if len(c.roles) > 0 && !containsRole(c.roles, role) {
			c.notice(fmt.Sprintf("Unknown role: %s", role))
			return
		}
		c.role = role

	case cmdSetDraft:
		c.pending = ev.text

	case cmdStart:
		role := c.role
		go func() {
			result, err := c.client.StartSession(ctx, c.userID, role)
			c.post(startDone{result: result, err: err})
		}()

	case startDone:
		if ev.err != nil {
			c.notice("Error starting interview: " + ev.err.Error())
			return
		}
		question := ev.result.Question
		if question == "" {
			question = fallbackQuestion
		}
		c.appendAssistant(question)
		c.step = 0
		if ev.result.Step != nil {
			c.step = *ev.result.Step
		}
		c.started = true
		if ev.result.Question != "" {
			c.speak(ev.result.Question)
		} else {
			c.speak(fallbackSpokenText)
		}

	case cmdSend:
		if strings.TrimSpace(c.pending) == "" {
			c.notice("Please enter or speak your answer.")
			return
		}
		answer := c.pending
		c.messages = append(c.messages, interview.Message{Speaker: interview.SpeakerUser, Text: answer})
		// Cleared before the call resolves; not restored on failure.
		c.pending = ""
		go func() {
			outcome, err := c.client.SubmitAnswer(ctx, c.userID, answer)
			c.post(replyDone{outcome: outcome, err: err})
		}()

	case replyDone:
		if ev.err != nil {
			c.notice("Error sending reply: " + ev.err.Error())
			return
		}
		c.appendAssistant(ev.outcome.Text)
		c.speak(ev.outcome.Text)
		if ev.outcome.Kind == interview.ReplyNextQuestion {
			if ev.outcome.Step != nil {
				c.step = *ev.outcome.Step
			} else {
				c.step++
			}
		}

	case cmdFeedback:
		go func() {
			feedback, err := c.client.RequestFeedback(ctx, c.userID)
			c.post(feedbackDone{feedback: feedback, err: err})
		}()

	case feedbackDone:
		if ev.err != nil {
			c.notice("Error fetching feedback: " + ev.err.Error())
			return
		}
		if ev.feedback == nil {
			return
		}
		fb := ev.feedback
		c.appendAssistant(fmt.Sprintf("Feedback: Level=%s, Score Estimate=%d%%", fb.Level, fb.PercentEstimate))
		c.speak(fmt.Sprintf("Overall feedback: %s. Estimated score %d percent.", fb.Level, fb.PercentEstimate))
		for _, item := range fb.Items {
			c.appendAssistant(fmt.Sprintf("%s -> %s", item.Question, item.Note))
		}

	case cmdReset:
		c.messages = nil
		c.started = false
		c.step = 0

	case cmdCapture:
		if c.capture == nil || !c.capture.Available() {
			c.notice("Voice recognition not supported in this environment.")
			return
		}
		if err := c.capture.Start(ctx, func(text string) {
			c.post(captureDone{text: text})
		}); err != nil {
			c.notice("Error starting voice capture: " + err.Error())
		}

	case cmdStopCapture:
		if c.capture != nil {
			c.capture.Stop()
		}

	case captureDone:
		// Voice result overwrites any typed draft.
		c.pending = ev.text
	}
}

func (c *Controller) appendAssistant(text string) {
	c.messages = append(c.messages, interview.Message{Speaker: interview.SpeakerAssistant, Text: text})
}

func (c *Controller) speak(text string) {
	if c.playback != nil {
		c.playback.Speak(text)
	}
}

func (c *Controller) notice(text string) {
	if c.onNotice != nil {
		c.onNotice(text)
		return
	}
	log.Printf("[session] %s", text)
}

func (c *Controller) publish() {
	snap := Snapshot{
		Roles:    append([]string(nil), c.roles...),
		Role:     c.role,
		Messages: append([]interview.Message(nil), c.messages...),
		Started:  c.started,
		Step:     c.step,
		Pending:  c.pending,
	}

	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()

	if c.onUpdate != nil {
		c.onUpdate(snap)
	}
}

func containsRole(roles []string, role string) bool {
	for _, r := range roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}
