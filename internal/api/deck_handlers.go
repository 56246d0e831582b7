package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/lingodeck/internal/logger"
	"github.com/vytor/lingodeck/internal/models"
	"github.com/vytor/lingodeck/internal/services"
)

type createDeckRequest struct {
	Name   string `json:"name"`
	Preset string `json:"preset"`
}

type addNoteRequest struct {
	Front    string `json:"front"`
	Back     string `json:"back"`
	Reversed bool   `json:"reversed"`
}

type addNoteResponse struct {
	Note    *models.Note `json:"note"`
	CardIDs []int64      `json:"card_ids"`
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	names := s.PresetNames
	if names == nil {
		names = []string{}
	}
	writeJSON(w, r, http.StatusOK, map[string][]string{"presets": names})
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := s.DeckService.ListDecks(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, decks)
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	var req createDeckRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	deck, err := s.DeckService.CreateDeck(r.Context(), req.Name, req.Preset)
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).WithField("deck_id", deck.ID).Info("deck created")
	writeJSON(w, r, http.StatusCreated, deck)
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "deck")
	if err != nil {
		handleError(w, r, err)
		return
	}
	deck, err := s.DeckService.GetDeck(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, deck)
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "deck")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.DeckService.DeleteDeck(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetPolicy(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "deck")
	if err != nil {
		handleError(w, r, err)
		return
	}
	deck, err := s.DeckService.GetDeck(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, deck.Policy)
}

// handleUpdatePolicy decodes the body over the deck's current policy, so
// fields left out keep their values.
func (s *Server) handleUpdatePolicy(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "deck")
	if err != nil {
		handleError(w, r, err)
		return
	}
	deck, err := s.DeckService.GetDeck(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	policy := deck.Policy
	if err := decodeJSON(r, &policy); err != nil {
		handleError(w, r, err)
		return
	}
	updated, err := s.DeckService.UpdatePolicy(r.Context(), id, policy)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, updated.Policy)
}

func (s *Server) handleApplyPreset(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "deck")
	if err != nil {
		handleError(w, r, err)
		return
	}
	updated, err := s.DeckService.ApplyPreset(r.Context(), id, chi.URLParam(r, "name"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, updated.Policy)
}

func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "deck")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req addNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	note, cardIDs, err := s.NoteService.AddNote(r.Context(), id, services.NoteInput{
		Front:    req.Front,
		Back:     req.Back,
		Reversed: req.Reversed,
	}, s.now())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, addNoteResponse{Note: note, CardIDs: cardIDs})
}

func (s *Server) handleQueue(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "deck")
	if err != nil {
		handleError(w, r, err)
		return
	}
	at, err := s.requestTime(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	queue, err := s.StudyService.Queue(r.Context(), id, at)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, queue)
}

// handleNextCard answers 204 when nothing is left to study today.
func (s *Server) handleNextCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "deck")
	if err != nil {
		handleError(w, r, err)
		return
	}
	at, err := s.requestTime(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	card, err := s.StudyService.Next(r.Context(), id, at)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if card == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleDeckStats(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "deck")
	if err != nil {
		handleError(w, r, err)
		return
	}
	at, err := s.requestTime(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	stats, err := s.StatsService.DeckStats(r.Context(), id, at)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}
