package repository

import (
	"context"
	"errors"
	"time"

	"github.com/vytor/lingodeck/internal/models"
)

var (
	// ErrConflict is returned when a card was changed by someone else between
	// load and save.
	ErrConflict = errors.New("card was modified concurrently")
	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("already exists")
)

// DeckRepository handles deck data access. Get returns nil, nil when the deck
// does not exist. UpdatePolicy keeps the deck's learning and relearning cards
// within the new step sequences.
type DeckRepository interface {
	Insert(ctx context.Context, deck models.Deck) (int64, error)
	Get(ctx context.Context, id int64) (*models.Deck, error)
	List(ctx context.Context) ([]models.Deck, error)
	Delete(ctx context.Context, id int64) error
	UpdatePolicy(ctx context.Context, id int64, policy models.DeckPolicy) error
}

// CardRepository handles notes and their card schedules. Get and GetWithNote
// return nil, nil when the card does not exist.
type CardRepository interface {
	InsertNote(ctx context.Context, note models.Note, cards []models.CardSchedule) ([]int64, error)
	Get(ctx context.Context, id int64) (*models.CardSchedule, error)
	GetWithNote(ctx context.Context, id int64) (*models.CardWithNote, error)
	Due(ctx context.Context, filter models.DueFilter) ([]models.CardSchedule, error)
	NextPosition(ctx context.Context, deckID int64) (int, error)
	Update(ctx context.Context, card models.CardSchedule) error
	SaveReview(ctx context.Context, card models.CardSchedule, log models.ReviewLog) error
}

// ReviewLogRepository handles the review history.
type ReviewLogRepository interface {
	Insert(ctx context.Context, log models.ReviewLog) (int64, error)
	ListForCard(ctx context.Context, cardID int64) ([]models.ReviewLog, error)
	DayCounts(ctx context.Context, deckID int64, since time.Time) (models.DayCounts, error)
	GradedBetween(ctx context.Context, from, to time.Time) ([]models.GradedCard, error)
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// StatsRepository handles deck statistics.
type StatsRepository interface {
	DeckStats(ctx context.Context, deckID int64, dayStart time.Time) (*models.DeckStat, error)
}
