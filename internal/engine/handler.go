package engine

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/swethaThangaraj/interview-practice-agent/pkg/utils"
)

// Handler serves the interview engine HTTP contract consumed by the client.
type Handler struct {
	store     *Store
	followUps *FollowUpService
}

// New creates the engine handler. followUps may be nil; the rule base is
// always available as fallback.
func New(store *Store, followUps *FollowUpService) *Handler {
	return &Handler{store: store, followUps: followUps}
}

// RegisterRoutes mounts the four engine endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/roles", h.handleRoles)
	r.Post("/start", h.handleStart)
	r.Post("/reply", h.handleReply)
	r.Post("/feedback", h.handleFeedback)
}

func (h *Handler) handleRoles(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{"roles": Roles()})
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := payload.UserID
	if userID == "" {
		userID = "default_user"
	}
	role := strings.ToLower(strings.TrimSpace(payload.Role))
	if role == "" {
		role = "software engineer"
	}

	h.store.Start(r.Context(), userID, role)

	var question any
	if q, ok := NextQuestion(role, 0); ok {
		question = q
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"question": question, "step": 0})
}

func (h *Handler) handleReply(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID string `json:"user_id"`
		Answer string `json:"answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := payload.UserID
	if userID == "" {
		userID = "default_user"
	}

	ctx := r.Context()
	view, err := h.store.Session(ctx, userID)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "session not found. Call /api/start first.")
		return
	}

	question, _ := NextQuestion(view.Role, view.Step)
	if err := h.store.RecordExchange(ctx, userID, Exchange{Question: question, Answer: payload.Answer}); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if followUp := h.resolveFollowUp(r, view.Role, question, payload.Answer); followUp != "" {
		utils.RespondJSON(w, http.StatusOK, map[string]any{"follow_up": followUp, "step": view.Step})
		return
	}

	nextStep, err := h.store.AdvanceStep(ctx, userID)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	nextQuestion, ok := NextQuestion(view.Role, nextStep)
	if !ok {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"next_question": nil,
			"step":          nextStep,
			"message":       "Interview complete. Request feedback with /api/feedback",
		})
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"next_question": nextQuestion, "step": nextStep})
}

func (h *Handler) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := payload.UserID
	if userID == "" {
		userID = "default_user"
	}

	conversation, err := h.store.Conversation(r.Context(), userID)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "session not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{"feedback": BuildFeedback(conversation)})
}

// resolveFollowUp prefers the LLM generator when configured and falls back
// to the rule base on any error.
func (h *Handler) resolveFollowUp(r *http.Request, role, question, answer string) string {
	if h.followUps.Enabled() {
		followUp, err := h.followUps.Generate(r.Context(), role, question, answer)
		if err == nil {
			return followUp
		}
		log.Printf("[engine] follow-up generator failed, using rule base: %v", err)
	}
	return FollowUp(answer)
}
