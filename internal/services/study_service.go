package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/vytor/lingodeck/internal/errors"
	"github.com/vytor/lingodeck/internal/flashcard"
	"github.com/vytor/lingodeck/internal/logger"
	"github.com/vytor/lingodeck/internal/models"
	"github.com/vytor/lingodeck/internal/repository"
)

// studyStates are the states a session draws cards from.
var studyStates = []models.CardState{
	models.StateNew, models.StateLearning, models.StateRelearning, models.StateReview,
}

// StudyService runs study sessions: it builds the queue, records grades and
// manages suspension.
type StudyService interface {
	Queue(ctx context.Context, deckID int64, now time.Time) (*models.StudyQueue, error)
	Next(ctx context.Context, deckID int64, now time.Time) (*models.CardWithNote, error)
	Card(ctx context.Context, cardID int64) (*models.CardWithNote, error)
	History(ctx context.Context, cardID int64) ([]models.ReviewLog, error)
	Review(ctx context.Context, cardID int64, grade models.Grade, now time.Time, timeTaken time.Duration) (*models.CardSchedule, error)
	Preview(ctx context.Context, cardID int64, now time.Time) (map[models.Grade]models.CardSchedule, error)
	Suspend(ctx context.Context, cardID int64) (*models.CardSchedule, error)
	Unsuspend(ctx context.Context, cardID int64, now time.Time) (*models.CardSchedule, error)
}

type studyService struct {
	decks repository.DeckRepository
	cards repository.CardRepository
	logs  repository.ReviewLogRepository
	bury  *flashcard.BuryTracker
}

// NewStudyService creates a new StudyService. The bury tracker is shared with
// the daily rollover job.
func NewStudyService(
	decks repository.DeckRepository,
	cards repository.CardRepository,
	logs repository.ReviewLogRepository,
	bury *flashcard.BuryTracker,
) StudyService {
	return &studyService{decks: decks, cards: cards, logs: logs, bury: bury}
}

func (s *studyService) Queue(ctx context.Context, deckID int64, now time.Time) (*models.StudyQueue, error) {
	log := logger.FromContext(ctx).WithField("deck_id", deckID)
	log.Debug("building study queue")

	deck, err := s.deck(ctx, deckID)
	if err != nil {
		return nil, err
	}

	dayStart := flashcard.StartOfDay(now)
	counts, err := s.logs.DayCounts(ctx, deckID, dayStart)
	if err != nil {
		log.WithError(err).Error("failed to count today's reviews")
		return nil, errors.NewInternalError(err)
	}

	cards, err := s.cards.Due(ctx, models.DueFilter{
		DeckID: deckID,
		AsOf:   dayStart.AddDate(0, 0, 1),
		States: studyStates,
	})
	if err != nil {
		log.WithError(err).Error("failed to load due cards")
		return nil, errors.NewInternalError(err)
	}

	if deck.Policy.BuryNewSiblings || deck.Policy.BuryReviewSiblings {
		if err := s.loadBuried(ctx, now); err != nil {
			log.WithError(err).Error("failed to restore buried siblings")
			return nil, errors.NewInternalError(err)
		}
	}
	cards = s.bury.Filter(cards, deck.Policy, now)
	ids := flashcard.BuildQueue(cards, deck.Policy, now, counts)
	log.Debug("queue built: candidates=%d, queued=%d, new_done=%d, reviews_done=%d",
		len(cards), len(ids), counts.NewDone, counts.ReviewsDone)

	if ids == nil {
		ids = []int64{}
	}
	return &models.StudyQueue{DeckID: deckID, CardIDs: ids, Counts: counts, BuiltAt: now}, nil
}

// loadBuried restores the sibling groups graded earlier on now's day, once
// per day, so burying survives a restart.
func (s *studyService) loadBuried(ctx context.Context, now time.Time) error {
	if s.bury.Loaded(now) {
		return nil
	}
	dayStart := flashcard.StartOfDay(now)
	graded, err := s.logs.GradedBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return err
	}
	s.bury.Load(now, graded)
	logger.FromContext(ctx).Debug("restored %d graded cards for %s", len(graded), dayStart.Format("2006-01-02"))
	return nil
}

// Next returns the head of the queue, or nil when nothing is left to study.
func (s *studyService) Next(ctx context.Context, deckID int64, now time.Time) (*models.CardWithNote, error) {
	q, err := s.Queue(ctx, deckID, now)
	if err != nil {
		return nil, err
	}
	if len(q.CardIDs) == 0 {
		return nil, nil
	}
	return s.Card(ctx, q.CardIDs[0])
}

func (s *studyService) Card(ctx context.Context, cardID int64) (*models.CardWithNote, error) {
	card, err := s.cards.GetWithNote(ctx, cardID)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Error("failed to get card")
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", cardID)
	}
	return card, nil
}

func (s *studyService) History(ctx context.Context, cardID int64) ([]models.ReviewLog, error) {
	if _, err := s.card(ctx, cardID); err != nil {
		return nil, err
	}
	logs, err := s.logs.ListForCard(ctx, cardID)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Error("failed to list review logs")
		return nil, errors.NewInternalError(err)
	}
	return logs, nil
}

func (s *studyService) Review(ctx context.Context, cardID int64, grade models.Grade, now time.Time, timeTaken time.Duration) (*models.CardSchedule, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{"card_id": cardID, "grade": grade})
	log.Debug("reviewing card")

	card, err := s.card(ctx, cardID)
	if err != nil {
		return nil, err
	}
	deck, err := s.deck(ctx, card.DeckID)
	if err != nil {
		return nil, err
	}

	next, err := flashcard.Schedule(*card, deck.Policy, grade, now)
	if err != nil {
		log.Debug("grade rejected: %v", err)
		return nil, schedulingError(err)
	}

	entry := models.ReviewLog{
		CardID:         card.CardID,
		DeckID:         card.DeckID,
		Grade:          grade,
		StateBefore:    card.State,
		StateAfter:     next.State,
		IntervalBefore: card.IntervalDays,
		IntervalAfter:  next.IntervalDays,
		EaseFactor:     next.EaseFactor,
		TimeTaken:      timeTaken,
		ReviewedAt:     now,
	}
	if err := s.cards.SaveReview(ctx, next, entry); err != nil {
		if stderrors.Is(err, repository.ErrConflict) {
			log.Warn("lost grading race, nothing saved")
			return nil, errors.NewConflictError("card", cardID)
		}
		log.WithError(err).Error("failed to save review")
		return nil, errors.NewInternalError(err)
	}
	next.Version++

	s.bury.Mark(card.SiblingGroup, card.CardID, now)

	if next.IsLeech && !card.IsLeech {
		log.Warn("card became a leech after %d lapses", next.Lapses)
	}
	log.Info("card reviewed: %s -> %s, interval=%d, due=%s", card.State, next.State, next.IntervalDays, next.Due.Format(time.RFC3339))
	return &next, nil
}

func (s *studyService) Preview(ctx context.Context, cardID int64, now time.Time) (map[models.Grade]models.CardSchedule, error) {
	card, err := s.card(ctx, cardID)
	if err != nil {
		return nil, err
	}
	deck, err := s.deck(ctx, card.DeckID)
	if err != nil {
		return nil, err
	}

	out, err := flashcard.Preview(*card, deck.Policy, now)
	if err != nil {
		return nil, schedulingError(err)
	}
	return out, nil
}

// Suspend takes a card out of study, remembering its state for Unsuspend.
func (s *studyService) Suspend(ctx context.Context, cardID int64) (*models.CardSchedule, error) {
	card, err := s.card(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.State == models.StateSuspended {
		return nil, errors.NewInvalidStateError(fmt.Sprintf("card %d is already suspended", cardID), nil)
	}

	card.SuspendedFrom = card.State
	card.State = models.StateSuspended
	return s.save(ctx, card)
}

// Unsuspend returns a card to the state it was suspended from. Intraday
// learning cards become due immediately; review cards keep their due date.
func (s *studyService) Unsuspend(ctx context.Context, cardID int64, now time.Time) (*models.CardSchedule, error) {
	card, err := s.card(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.State != models.StateSuspended {
		return nil, errors.NewInvalidStateError(fmt.Sprintf("card %d is not suspended", cardID), nil)
	}

	restored := card.SuspendedFrom
	if !restored.IsValid() || restored == models.StateSuspended {
		restored = models.StateNew
		if card.IntervalDays > 0 {
			restored = models.StateReview
		}
	}
	card.State = restored
	card.SuspendedFrom = ""
	if restored == models.StateLearning || restored == models.StateRelearning {
		card.Due = now
	}
	return s.save(ctx, card)
}

func (s *studyService) save(ctx context.Context, card *models.CardSchedule) (*models.CardSchedule, error) {
	log := logger.FromContext(ctx).WithField("card_id", card.CardID)
	if err := s.cards.Update(ctx, *card); err != nil {
		if stderrors.Is(err, repository.ErrConflict) {
			return nil, errors.NewConflictError("card", card.CardID)
		}
		log.WithError(err).Error("failed to update card")
		return nil, errors.NewInternalError(err)
	}
	card.Version++
	log.Info("card state changed: state=%s", card.State)
	return card, nil
}

func (s *studyService) card(ctx context.Context, cardID int64) (*models.CardSchedule, error) {
	card, err := s.cards.Get(ctx, cardID)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Error("failed to get card")
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", cardID)
	}
	return card, nil
}

func (s *studyService) deck(ctx context.Context, deckID int64) (*models.Deck, error) {
	deck, err := s.decks.Get(ctx, deckID)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Error("failed to get deck")
		return nil, errors.NewInternalError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", deckID)
	}
	return deck, nil
}

// schedulingError maps scheduler sentinels to application errors.
func schedulingError(err error) error {
	switch {
	case stderrors.Is(err, flashcard.ErrInvalidGrade):
		return errors.NewInvalidGradeError(err)
	case stderrors.Is(err, flashcard.ErrInvalidState):
		return errors.NewInvalidStateError(err.Error(), err)
	case stderrors.Is(err, flashcard.ErrInvalidPolicy):
		return errors.NewInvalidPolicyError(err)
	default:
		return errors.NewInternalError(err)
	}
}
