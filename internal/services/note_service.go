package services

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/lingodeck/internal/errors"
	"github.com/vytor/lingodeck/internal/logger"
	"github.com/vytor/lingodeck/internal/models"
	"github.com/vytor/lingodeck/internal/repository"
)

// randomPositionSpan bounds the positions handed out under random insertion.
const randomPositionSpan = 1_000_000

// NoteInput is the content of a new note.
type NoteInput struct {
	Front    string `json:"front"`
	Back     string `json:"back"`
	Reversed bool   `json:"reversed"`
}

// NoteService adds notes and generates their cards
type NoteService interface {
	AddNote(ctx context.Context, deckID int64, in NoteInput, now time.Time) (*models.Note, []int64, error)
}

type noteService struct {
	decks repository.DeckRepository
	cards repository.CardRepository
	intn  func(n int) int
}

// NewNoteService creates a new NoteService
func NewNoteService(decks repository.DeckRepository, cards repository.CardRepository) NoteService {
	return &noteService{decks: decks, cards: cards, intn: rand.IntN}
}

// AddNote stores a note with its forward card and, for reversed notes, the
// backward card. Both cards share the note's ID as sibling group and the same
// introduction position.
func (s *noteService) AddNote(ctx context.Context, deckID int64, in NoteInput, now time.Time) (*models.Note, []int64, error) {
	log := logger.FromContext(ctx)
	log.Debug("adding note: deck_id=%d, reversed=%t", deckID, in.Reversed)

	in.Front, in.Back = strings.TrimSpace(in.Front), strings.TrimSpace(in.Back)
	if in.Front == "" {
		return nil, nil, errors.NewValidationError("front", "cannot be empty")
	}
	if in.Back == "" {
		return nil, nil, errors.NewValidationError("back", "cannot be empty")
	}

	deck, err := s.decks.Get(ctx, deckID)
	if err != nil {
		log.WithError(err).Error("failed to get deck")
		return nil, nil, errors.NewInternalError(err)
	}
	if deck == nil {
		return nil, nil, errors.NewNotFoundError("deck", deckID)
	}

	var pos int
	if deck.Policy.InsertionOrder == models.InsertRandom {
		pos = s.intn(randomPositionSpan) + 1
	} else {
		pos, err = s.cards.NextPosition(ctx, deckID)
		if err != nil {
			log.WithError(err).Error("failed to get next position")
			return nil, nil, errors.NewInternalError(err)
		}
	}

	note := models.Note{
		ID:        uuid.NewString(),
		DeckID:    deckID,
		Front:     in.Front,
		Back:      in.Back,
		Reversed:  in.Reversed,
		CreatedAt: now,
	}
	cards := []models.CardSchedule{newCard(note, models.TemplateForward, pos, now)}
	if in.Reversed {
		cards = append(cards, newCard(note, models.TemplateReversed, pos, now))
	}

	ids, err := s.cards.InsertNote(ctx, note, cards)
	if err != nil {
		log.WithError(err).Error("failed to insert note")
		return nil, nil, errors.NewInternalError(err)
	}
	log.Info("note added: id=%s, deck_id=%d, position=%d, cards=%d", note.ID, deckID, pos, len(ids))
	return &note, ids, nil
}

func newCard(note models.Note, ord, pos int, now time.Time) models.CardSchedule {
	return models.CardSchedule{
		DeckID:       note.DeckID,
		SiblingGroup: note.ID,
		TemplateOrd:  ord,
		Position:     pos,
		State:        models.StateNew,
		Due:          now,
	}
}
