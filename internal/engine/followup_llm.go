package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

const followUpSystemPrompt = "You are an interview coach reviewing a candidate's answer. " +
	"Decide whether the answer deserves one short probing follow-up question. " +
	"If the answer is specific and complete, reply with exactly NONE. " +
	"Otherwise reply with a single follow-up question and nothing else."

const followUpUserPrompt = "Role: {role}\nQuestion: {question}\nCandidate answer: {answer}"

// FollowUpConfig controls the LLM follow-up generator.
type FollowUpConfig struct {
	Enabled bool
}

// FollowUpService generates follow-up questions with a chat model. When
// disabled or misconfigured the handler falls back to the rule base.
type FollowUpService struct {
	enabled bool
	chain   compose.Runnable[map[string]any, *schema.Message]
}

// NewFollowUpService creates the generator. chatModel may reuse an existing
// model instance; a nil model leaves the service disabled.
func NewFollowUpService(ctx context.Context, chatModel model.ChatModel, cfg FollowUpConfig) (*FollowUpService, error) {
	svc := &FollowUpService{enabled: cfg.Enabled && chatModel != nil}
	if !svc.enabled {
		return svc, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(followUpSystemPrompt),
		schema.UserMessage(followUpUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile follow-up chain: %w", err)
	}

	svc.chain = runnable
	return svc, nil
}

// Enabled reports whether the generator can be used.
func (s *FollowUpService) Enabled() bool {
	return s != nil && s.enabled && s.chain != nil
}

// Generate returns a follow-up question for the answer, or an empty string
// when the model judges none is needed.
func (s *FollowUpService) Generate(ctx context.Context, role, question, answer string) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("follow-up generator disabled")
	}

	response, err := s.chain.Invoke(ctx, map[string]any{
		"role":     role,
		"question": question,
		"answer":   answer,
	})
	if err != nil {
		return "", fmt.Errorf("failed to run follow-up chain: %w", err)
	}

	text := strings.TrimSpace(response.Content)
	if strings.EqualFold(text, "NONE") {
		return "", nil
	}
	return text, nil
}
