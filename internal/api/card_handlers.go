package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vytor/lingodeck/internal/errors"
	"github.com/vytor/lingodeck/internal/flashcard"
	"github.com/vytor/lingodeck/internal/models"
)

// reviewRequest carries the grade as a name ("good") or a number (3).
type reviewRequest struct {
	Grade       json.RawMessage `json:"grade"`
	TimeTakenMS int64           `json:"time_taken_ms"`
}

func (req reviewRequest) grade() (models.Grade, error) {
	raw := strings.Trim(strings.TrimSpace(string(req.Grade)), `"`)
	g, ok := models.ParseGrade(raw)
	if !ok {
		return 0, errors.NewInvalidGradeError(fmt.Errorf("%w: %q", flashcard.ErrInvalidGrade, raw))
	}
	return g, nil
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "card")
	if err != nil {
		handleError(w, r, err)
		return
	}
	card, err := s.StudyService.Card(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleCardHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "card")
	if err != nil {
		handleError(w, r, err)
		return
	}
	logs, err := s.StudyService.History(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if logs == nil {
		logs = []models.ReviewLog{}
	}
	writeJSON(w, r, http.StatusOK, logs)
}

// handlePreview returns the outcome of every grade keyed by grade name.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "card")
	if err != nil {
		handleError(w, r, err)
		return
	}
	at, err := s.requestTime(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	outcomes, err := s.StudyService.Preview(r.Context(), id, at)
	if err != nil {
		handleError(w, r, err)
		return
	}
	byName := make(map[string]models.CardSchedule, len(outcomes))
	for g, card := range outcomes {
		byName[g.String()] = card
	}
	writeJSON(w, r, http.StatusOK, byName)
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "card")
	if err != nil {
		handleError(w, r, err)
		return
	}
	at, err := s.requestTime(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	grade, err := req.grade()
	if err != nil {
		handleError(w, r, err)
		return
	}
	if req.TimeTakenMS < 0 {
		handleError(w, r, errors.NewValidationError("time_taken_ms", "must not be negative"))
		return
	}
	card, err := s.StudyService.Review(r.Context(), id, grade, at, time.Duration(req.TimeTakenMS)*time.Millisecond)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleSuspend(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "card")
	if err != nil {
		handleError(w, r, err)
		return
	}
	card, err := s.StudyService.Suspend(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleUnsuspend(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "card")
	if err != nil {
		handleError(w, r, err)
		return
	}
	at, err := s.requestTime(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	card, err := s.StudyService.Unsuspend(r.Context(), id, at)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}
