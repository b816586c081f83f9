package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/swethaThangaraj/interview-practice-agent/internal/model/interview"
	"github.com/swethaThangaraj/interview-practice-agent/internal/session"
)

type fakeClient struct {
	mu        sync.Mutex
	roles     []string
	rolesErr  error
	start     func() (interview.StartResult, error)
	submit    func(answer string) (interview.ReplyOutcome, error)
	feedback  func() (*interview.Feedback, error)
	submitted []string
}

func (f *fakeClient) FetchRoles(context.Context) ([]string, error) {
	return f.roles, f.rolesErr
}

func (f *fakeClient) StartSession(_ context.Context, _, _ string) (interview.StartResult, error) {
	if f.start == nil {
		return interview.StartResult{}, errors.New("start not configured")
	}
	return f.start()
}

func (f *fakeClient) SubmitAnswer(_ context.Context, _, answer string) (interview.ReplyOutcome, error) {
	f.mu.Lock()
	f.submitted = append(f.submitted, answer)
	f.mu.Unlock()
	if f.submit == nil {
		return interview.ReplyOutcome{}, errors.New("submit not configured")
	}
	return f.submit(answer)
}

func (f *fakeClient) RequestFeedback(context.Context, string) (*interview.Feedback, error) {
	if f.feedback == nil {
		return nil, nil
	}
	return f.feedback()
}

func (f *fakeClient) submittedAnswers() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.submitted...)
}

type fakePlayback struct {
	mu     sync.Mutex
	spoken []string
}

func (f *fakePlayback) Speak(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spoken = append(f.spoken, text)
}

func (f *fakePlayback) all() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.spoken...)
}

type noticeRecorder struct {
	mu      sync.Mutex
	notices []string
}

func (n *noticeRecorder) add(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, text)
}

func (n *noticeRecorder) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.notices...)
}

type fakeCapture struct {
	mu       sync.Mutex
	onResult func(string)
	starts   int
}

func (f *fakeCapture) Available() bool { return true }

func (f *fakeCapture) Start(_ context.Context, onResult func(string)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	f.onResult = onResult
	return nil
}

func (f *fakeCapture) Stop() {}

func (f *fakeCapture) emit(text string) bool {
	f.mu.Lock()
	cb := f.onResult
	f.mu.Unlock()
	if cb == nil {
		return false
	}
	cb(text)
	return true
}

func startController(t *testing.T, fc *fakeClient, capture session.Capture, playback session.Playback, notices *noticeRecorder) *session.Controller {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	var onNotice func(string)
	if notices != nil {
		onNotice = notices.add
	}

	ctrl := session.NewController("user_test", fc, capture, playback, onNotice, nil)
	go ctrl.Run(ctx)
	return ctrl
}

func waitFor(t *testing.T, ctrl *session.Controller, desc string, cond func(session.Snapshot) bool) session.Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := ctrl.Snapshot()
		if cond(snap) {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s; last snapshot: %+v", desc, ctrl.Snapshot())
	return session.Snapshot{}
}

func intPtr(v int) *int { return &v }

func TestStartAppendsOpeningQuestion(t *testing.T) {
	fc := &fakeClient{
		start: func() (interview.StartResult, error) {
			return interview.StartResult{Question: "Tell me about yourself.", Step: intPtr(0)}, nil
		},
	}
	playback := &fakePlayback{}
	ctrl := startController(t, fc, nil, playback, nil)

	ctrl.StartInterview()

	snap := waitFor(t, ctrl, "started session", func(s session.Snapshot) bool { return s.Started })
	if len(snap.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(snap.Messages))
	}
	if snap.Messages[0].Speaker != interview.SpeakerAssistant {
		t.Fatalf("expected assistant message, got %s", snap.Messages[0].Speaker)
	}
	if snap.Messages[0].Text != "Tell me about yourself." {
		t.Fatalf("unexpected opening question: %q", snap.Messages[0].Text)
	}
	if snap.Step != 0 {
		t.Fatalf("expected step 0, got %d", snap.Step)
	}
	spoken := playback.all()
	if len(spoken) != 1 || spoken[0] != "Tell me about yourself." {
		t.Fatalf("unexpected playback: %v", spoken)
	}
}

func TestStartWithoutQuestionUsesFallback(t *testing.T) {
	fc := &fakeClient{
		start: func() (interview.StartResult, error) {
			return interview.StartResult{}, nil
		},
	}
	playback := &fakePlayback{}
	ctrl := startController(t, fc, nil, playback, nil)

	ctrl.StartInterview()

	snap := waitFor(t, ctrl, "started session", func(s session.Snapshot) bool { return s.Started })
	if len(snap.Messages) != 1 {
		t.Fatalf("expected exactly 1 message, got %d", len(snap.Messages))
	}
	if snap.Messages[0].Text != "No question received." {
		t.Fatalf("unexpected fallback text: %q", snap.Messages[0].Text)
	}
	if snap.Step != 0 {
		t.Fatalf("expected step 0, got %d", snap.Step)
	}
	spoken := playback.all()
	if len(spoken) != 1 || spoken[0] != "Interview started." {
		t.Fatalf("unexpected playback: %v", spoken)
	}
}

func TestStartFailureKeepsStateAndNotifies(t *testing.T) {
	fc := &fakeClient{
		start: func() (interview.StartResult, error) {
			return interview.StartResult{}, errors.New("engine unreachable")
		},
	}
	notices := &noticeRecorder{}
	ctrl := startController(t, fc, nil, nil, notices)

	ctrl.StartInterview()

	waitFor(t, ctrl, "failure notice", func(session.Snapshot) bool { return len(notices.all()) == 1 })
	snap := ctrl.Snapshot()
	if snap.Started {
		t.Fatal("session must not start on failure")
	}
	if len(snap.Messages) != 0 {
		t.Fatalf("expected empty transcript, got %d messages", len(snap.Messages))
	}
}

func TestSendReplyRejectsWhitespace(t *testing.T) {
	fc := &fakeClient{}
	notices := &noticeRecorder{}
	ctrl := startController(t, fc, nil, nil, notices)

	ctrl.SetPendingAnswer("   \t ")
	ctrl.SendReply()

	waitFor(t, ctrl, "rejection notice", func(session.Snapshot) bool { return len(notices.all()) == 1 })
	snap := ctrl.Snapshot()
	if len(snap.Messages) != 0 {
		t.Fatalf("expected no messages, got %d", len(snap.Messages))
	}
	if snap.Step != 0 {
		t.Fatalf("step must not change, got %d", snap.Step)
	}
	if got := fc.submittedAnswers(); len(got) != 0 {
		t.Fatalf("no network call expected, got %v", got)
	}
}

func TestTranscriptGrowsTwoPerTurn(t *testing.T) {
	fc := &fakeClient{
		submit: func(string) (interview.ReplyOutcome, error) {
			return interview.ReplyOutcome{Kind: interview.ReplyFollowUp, Text: "Tell me more."}, nil
		},
	}
	ctrl := startController(t, fc, nil, nil, nil)

	const turns = 3
	for i := 1; i <= turns; i++ {
		ctrl.SetPendingAnswer(fmt.Sprintf("answer %d", i))
		ctrl.SendReply()
		waitFor(t, ctrl, "turn completion", func(s session.Snapshot) bool { return len(s.Messages) == 2*i })
	}

	snap := ctrl.Snapshot()
	for i, msg := range snap.Messages {
		want := interview.SpeakerUser
		if i%2 == 1 {
			want = interview.SpeakerAssistant
		}
		if msg.Speaker != want {
			t.Fatalf("message %d: expected speaker %s, got %s", i, want, msg.Speaker)
		}
	}
	if snap.Step != 0 {
		t.Fatalf("follow-ups must not advance step, got %d", snap.Step)
	}
}

func TestNextQuestionStepUsesServerValueWithLocalFallback(t *testing.T) {
	outcomes := []interview.ReplyOutcome{
		{Kind: interview.ReplyNextQuestion, Text: "Question two.", Step: intPtr(1)},
		{Kind: interview.ReplyNextQuestion, Text: "Question three."},
	}
	var mu sync.Mutex
	fc := &fakeClient{}
	fc.submit = func(string) (interview.ReplyOutcome, error) {
		mu.Lock()
		defer mu.Unlock()
		out := outcomes[0]
		if len(outcomes) > 1 {
			outcomes = outcomes[1:]
		}
		return out, nil
	}
	ctrl := startController(t, fc, nil, nil, nil)

	ctrl.SetPendingAnswer("first answer")
	ctrl.SendReply()
	waitFor(t, ctrl, "server step applied", func(s session.Snapshot) bool { return s.Step == 1 })

	ctrl.SetPendingAnswer("second answer")
	ctrl.SendReply()
	snap := waitFor(t, ctrl, "fallback increment", func(s session.Snapshot) bool { return s.Step == 2 })

	if len(snap.Messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(snap.Messages))
	}
}

func TestReplyFailureClearsPendingAndNotifies(t *testing.T) {
	fc := &fakeClient{
		submit: func(string) (interview.ReplyOutcome, error) {
			return interview.ReplyOutcome{}, errors.New("network down")
		},
	}
	notices := &noticeRecorder{}
	ctrl := startController(t, fc, nil, nil, notices)

	ctrl.SetPendingAnswer("my answer")
	ctrl.SendReply()

	waitFor(t, ctrl, "failure notice", func(session.Snapshot) bool { return len(notices.all()) == 1 })
	snap := ctrl.Snapshot()
	// Optimistic clear: the draft is gone even though the call failed.
	if snap.Pending != "" {
		t.Fatalf("pending answer should stay cleared, got %q", snap.Pending)
	}
	if len(snap.Messages) != 1 || snap.Messages[0].Speaker != interview.SpeakerUser {
		t.Fatalf("expected only the user message, got %+v", snap.Messages)
	}
	if snap.Step != 0 {
		t.Fatalf("step must not change on failure, got %d", snap.Step)
	}
}

func TestResetClearsSession(t *testing.T) {
	fc := &fakeClient{
		start: func() (interview.StartResult, error) {
			return interview.StartResult{Question: "Q1", Step: intPtr(0)}, nil
		},
		submit: func(string) (interview.ReplyOutcome, error) {
			return interview.ReplyOutcome{Kind: interview.ReplyNextQuestion, Text: "Q2", Step: intPtr(1)}, nil
		},
	}
	ctrl := startController(t, fc, nil, nil, nil)

	ctrl.StartInterview()
	waitFor(t, ctrl, "started", func(s session.Snapshot) bool { return s.Started })
	ctrl.SetPendingAnswer("answer")
	ctrl.SendReply()
	waitFor(t, ctrl, "turn done", func(s session.Snapshot) bool { return s.Step == 1 })

	ctrl.Reset()

	snap := waitFor(t, ctrl, "reset applied", func(s session.Snapshot) bool { return !s.Started && len(s.Messages) == 0 })
	if snap.Step != 0 {
		t.Fatalf("expected step 0 after reset, got %d", snap.Step)
	}
}

func TestFeedbackAppendsSummaryThenItems(t *testing.T) {
	fc := &fakeClient{
		feedback: func() (*interview.Feedback, error) {
			return &interview.Feedback{
				Level:           "Strong",
				PercentEstimate: 82,
				Items: []interview.FeedbackItem{
					{Question: "Q1", Note: "Good"},
					{Question: "Q2", Note: "Vague"},
				},
			}, nil
		},
	}
	playback := &fakePlayback{}
	ctrl := startController(t, fc, nil, playback, nil)

	ctrl.RequestFeedback()

	snap := waitFor(t, ctrl, "feedback messages", func(s session.Snapshot) bool { return len(s.Messages) == 3 })
	if snap.Messages[0].Text != "Feedback: Level=Strong, Score Estimate=82%" {
		t.Fatalf("unexpected summary: %q", snap.Messages[0].Text)
	}
	if snap.Messages[1].Text != "Q1 -> Good" {
		t.Fatalf("unexpected first item: %q", snap.Messages[1].Text)
	}
	if snap.Messages[2].Text != "Q2 -> Vague" {
		t.Fatalf("unexpected second item: %q", snap.Messages[2].Text)
	}
	spoken := playback.all()
	if len(spoken) != 1 || spoken[0] != "Overall feedback: Strong. Estimated score 82 percent." {
		t.Fatalf("unexpected playback: %v", spoken)
	}
}

func TestFeedbackAbsentLeavesTranscriptAlone(t *testing.T) {
	fc := &fakeClient{}
	notices := &noticeRecorder{}
	ctrl := startController(t, fc, nil, nil, notices)

	ctrl.RequestFeedback()
	time.Sleep(100 * time.Millisecond)

	snap := ctrl.Snapshot()
	if len(snap.Messages) != 0 {
		t.Fatalf("expected no messages, got %d", len(snap.Messages))
	}
	if got := notices.all(); len(got) != 0 {
		t.Fatalf("expected no notices, got %v", got)
	}
}

func TestCaptureUnavailableNotifies(t *testing.T) {
	fc := &fakeClient{}
	notices := &noticeRecorder{}
	ctrl := startController(t, fc, nil, nil, notices)

	ctrl.StartCapture()

	waitFor(t, ctrl, "capability notice", func(session.Snapshot) bool { return len(notices.all()) == 1 })
	if got := notices.all()[0]; got != "Voice recognition not supported in this environment." {
		t.Fatalf("unexpected notice: %q", got)
	}
}

func TestCaptureResultOverwritesTypedDraft(t *testing.T) {
	fc := &fakeClient{}
	capture := &fakeCapture{}
	ctrl := startController(t, fc, capture, nil, nil)

	ctrl.SetPendingAnswer("typed draft")
	waitFor(t, ctrl, "draft set", func(s session.Snapshot) bool { return s.Pending == "typed draft" })

	ctrl.StartCapture()
	deadline := time.Now().Add(2 * time.Second)
	for !capture.emit("spoken answer") {
		if time.Now().After(deadline) {
			t.Fatal("capture never started")
		}
		time.Sleep(5 * time.Millisecond)
	}

	waitFor(t, ctrl, "voice overwrote draft", func(s session.Snapshot) bool { return s.Pending == "spoken answer" })
}

func TestSelectRoleValidatedAgainstCatalog(t *testing.T) {
	fc := &fakeClient{roles: []string{"software engineer", "sales associate"}}
	notices := &noticeRecorder{}
	ctrl := startController(t, fc, nil, nil, notices)

	waitFor(t, ctrl, "catalog loaded", func(s session.Snapshot) bool { return len(s.Roles) == 2 })

	ctrl.SelectRole("plumber")
	waitFor(t, ctrl, "rejection notice", func(session.Snapshot) bool { return len(notices.all()) == 1 })
	if snap := ctrl.Snapshot(); snap.Role != "software engineer" {
		t.Fatalf("role must not change, got %q", snap.Role)
	}

	ctrl.SelectRole("sales associate")
	waitFor(t, ctrl, "role changed", func(s session.Snapshot) bool { return s.Role == "sales associate" })
}
