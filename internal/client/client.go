package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/swethaThangaraj/interview-practice-agent/internal/model/interview"
)

// Client issues the four interview engine calls over HTTP JSON. It holds no
// session state; the caller threads the user identity through every call.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates an engine client for the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type rolesResponse struct {
	Roles []string `json:"roles"`
}

type startRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type startResponse struct {
	Question *string `json:"question"`
	Step     *int    `json:"step"`
}

type replyRequest struct {
	UserID string `json:"user_id"`
	Answer string `json:"answer"`
}

type replyResponse struct {
	FollowUp     *string `json:"follow_up"`
	NextQuestion *string `json:"next_question"`
	Step         *int    `json:"step"`
	Message      *string `json:"message"`
}

type feedbackRequest struct {
	UserID string `json:"user_id"`
}

type feedbackResponse struct {
	Feedback *interview.Feedback `json:"feedback"`
}

// FetchRoles retrieves the role catalog. An empty catalog is a valid result.
func (c *Client) FetchRoles(ctx context.Context) ([]string, error) {
	var payload rolesResponse
	if err := c.getJSON(ctx, "/api/roles", &payload); err != nil {
		return nil, err
	}
	return payload.Roles, nil
}

// StartSession begins an interview for the given identity and role.
func (c *Client) StartSession(ctx context.Context, userID, role string) (interview.StartResult, error) {
	var payload startResponse
	if err := c.postJSON(ctx, "/api/start", startRequest{UserID: userID, Role: role}, &payload); err != nil {
		return interview.StartResult{}, err
	}

	result := interview.StartResult{Step: payload.Step}
	if payload.Question != nil {
		result.Question = *payload.Question
	}
	return result, nil
}

// SubmitAnswer sends an answer and resolves the engine's reply into its
// tagged form at the decoding boundary.
func (c *Client) SubmitAnswer(ctx context.Context, userID, answer string) (interview.ReplyOutcome, error) {
	var payload replyResponse
	if err := c.postJSON(ctx, "/api/reply", replyRequest{UserID: userID, Answer: answer}, &payload); err != nil {
		return interview.ReplyOutcome{}, err
	}
	return resolveReplyOutcome(payload)
}

// RequestFeedback asks for the feedback summary. A nil result with nil
// error means the engine had no feedback to give.
func (c *Client) RequestFeedback(ctx context.Context, userID string) (*interview.Feedback, error) {
	var payload feedbackResponse
	if err := c.postJSON(ctx, "/api/feedback", feedbackRequest{UserID: userID}, &payload); err != nil {
		return nil, err
	}
	return payload.Feedback, nil
}

// resolveReplyOutcome applies the fixed precedence rule: follow_up, then
// next_question, then message. A reply populating none of the three is a
// decoding failure, not a silent no-op.
func resolveReplyOutcome(payload replyResponse) (interview.ReplyOutcome, error) {
	if payload.FollowUp != nil && *payload.FollowUp != "" {
		return interview.ReplyOutcome{Kind: interview.ReplyFollowUp, Text: *payload.FollowUp}, nil
	}
	if payload.NextQuestion != nil && *payload.NextQuestion != "" {
		return interview.ReplyOutcome{Kind: interview.ReplyNextQuestion, Text: *payload.NextQuestion, Step: payload.Step}, nil
	}
	if payload.Message != nil && *payload.Message != "" {
		return interview.ReplyOutcome{Kind: interview.ReplyMessage, Text: *payload.Message}, nil
	}
	return interview.ReplyOutcome{}, fmt.Errorf("reply carries no follow_up, next_question, or message")
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request for %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("engine request %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read engine response for %s: %w", req.URL.Path, err)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("engine %s returned %d: %s", req.URL.Path, resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("engine %s returned status %d", req.URL.Path, resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode engine response for %s: %w", req.URL.Path, err)
	}
	return nil
}
