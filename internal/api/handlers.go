package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/abhisek/mathquest/internal/app"
	"github.com/abhisek/mathquest/internal/badges"
	"github.com/abhisek/mathquest/internal/catalog"
	"github.com/abhisek/mathquest/internal/completion"
	"github.com/abhisek/mathquest/internal/recommend"
	"github.com/abhisek/mathquest/internal/tutor"
)

// FallbackHeader names the failure kind when a tutor reply is the
// fallback text.
const FallbackHeader = "X-Tutor-Fallback"

type badgeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Criterion   string `json:"criterion"`
	Earned      bool   `json:"earned"`
}

func toBadgeResponse(b badges.Badge, earned bool) badgeResponse {
	resp := badgeResponse{ID: b.ID, Name: b.Name, Description: b.Description, Earned: earned}
	if b.Criterion != nil {
		resp.Criterion = b.Criterion.String()
	}
	return resp
}

type suggestionResponse struct {
	recommend.Suggestion
	Message string `json:"message"`
}

func toSuggestions(list []recommend.Suggestion) []suggestionResponse {
	out := make([]suggestionResponse, len(list))
	for i, s := range list {
		out[i] = suggestionResponse{Suggestion: s, Message: s.Reason.Message()}
	}
	return out
}

// gradeParam reads an optional ?grade= filter. Zero means every grade.
func gradeParam(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("grade")
	if raw == "" {
		return 0, true
	}
	g, err := strconv.Atoi(raw)
	if err != nil || !catalog.ValidGrade(g) {
		return 0, false
	}
	return g, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.opts.Health != nil {
		if err := s.opts.Health(r.Context()); err != nil {
			s.logger.Warn("health check failed", "error", err)
			respondWithError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"tutorReady": s.tutor.Configured(),
	})
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	grade, ok := gradeParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid grade")
		return
	}
	respondWithJSON(w, http.StatusOK, s.svc.Topics(r.Context(), s.user(r), grade))
}

func (s *Server) handleTopic(w http.ResponseWriter, r *http.Request) {
	detail, err := s.svc.Topic(r.Context(), s.user(r), mux.Vars(r)["id"])
	if errors.Is(err, app.ErrUnknownTopic) {
		respondWithError(w, http.StatusNotFound, "topic not found")
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondWithJSON(w, http.StatusOK, detail)
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	topicID, levelID := vars["id"], vars["level"]

	res, err := s.svc.CompleteLevel(r.Context(), s.user(r), topicID, levelID)
	switch {
	case errors.Is(err, app.ErrUnknownTopic):
		respondWithError(w, http.StatusNotFound, "topic not found")
		return
	case errors.Is(err, app.ErrUnknownLevel):
		respondWithError(w, http.StatusNotFound, "level not found")
		return
	case err != nil:
		respondWithError(w, http.StatusInternalServerError, "internal error")
		return
	}

	newBadges := make([]badgeResponse, len(res.NewBadges))
	for i, b := range res.NewBadges {
		newBadges[i] = toBadgeResponse(b, true)
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"topic":           res.Topic,
		"completedLevels": res.Record.Levels(topicID),
		"newBadges":       newBadges,
	})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	grade, ok := gradeParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid grade")
		return
	}
	sum := s.svc.Summary(r.Context(), s.user(r), grade)
	respondWithJSON(w, http.StatusOK, map[string]any{
		"overall":      sum.Overall,
		"topics":       sum.Topics,
		"suggestions":  toSuggestions(sum.Suggestions),
		"badgesEarned": sum.Earned,
	})
}

func (s *Server) handleBadges(w http.ResponseWriter, r *http.Request) {
	statuses := s.svc.Badges(r.Context(), s.user(r))
	out := make([]badgeResponse, len(statuses))
	for i, st := range statuses {
		out[i] = toBadgeResponse(st.Badge, st.Earned)
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	limit := recommend.DefaultMax
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondWithError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	respondWithJSON(w, http.StatusOK, toSuggestions(s.svc.Suggestions(r.Context(), s.user(r), limit)))
}

type gradeBody struct {
	Grade int `json:"grade"`
}

func (s *Server) handleGetGrade(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, gradeBody{Grade: s.svc.Grade(r.Context(), s.user(r))})
}

func (s *Server) handleSetGrade(w http.ResponseWriter, r *http.Request) {
	var body gradeBody
	if err := decodeJSON(w, r, &body); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	err := s.svc.SetGrade(r.Context(), s.user(r), body.Grade)
	if errors.Is(err, completion.ErrInvalidGrade) {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("set grade", "error", err, "request_id", RequestID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "could not save grade")
		return
	}
	respondWithJSON(w, http.StatusOK, body)
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req tutor.ExplainRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Problem) == "" {
		respondWithError(w, http.StatusBadRequest, "problem is required")
		return
	}

	res := s.tutor.Explain(r.Context(), req)
	if res.Failure != nil {
		w.Header().Set(FallbackHeader, string(res.Failure.Kind))
	}
	respondWithJSON(w, http.StatusOK, res.Explanation)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req tutor.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		respondWithError(w, http.StatusBadRequest, "question is required")
		return
	}

	res := s.tutor.Ask(r.Context(), req)
	if res.Failure != nil {
		w.Header().Set(FallbackHeader, string(res.Failure.Kind))
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"answer": res.Answer})
}
