package services

import (
	"context"
	"time"

	"github.com/vytor/lingodeck/internal/errors"
	"github.com/vytor/lingodeck/internal/flashcard"
	"github.com/vytor/lingodeck/internal/logger"
	"github.com/vytor/lingodeck/internal/models"
	"github.com/vytor/lingodeck/internal/repository"
)

// StatsService handles deck statistics
type StatsService interface {
	DeckStats(ctx context.Context, deckID int64, now time.Time) (*models.DeckStat, error)
}

type statsService struct {
	decks repository.DeckRepository
	stats repository.StatsRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(decks repository.DeckRepository, stats repository.StatsRepository) StatsService {
	return &statsService{decks: decks, stats: stats}
}

func (s *statsService) DeckStats(ctx context.Context, deckID int64, now time.Time) (*models.DeckStat, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting deck stats: deck_id=%d", deckID)

	deck, err := s.decks.Get(ctx, deckID)
	if err != nil {
		log.WithError(err).Error("failed to get deck")
		return nil, errors.NewInternalError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", deckID)
	}

	stats, err := s.stats.DeckStats(ctx, deckID, flashcard.StartOfDay(now))
	if err != nil {
		log.WithError(err).Error("failed to get deck stats")
		return nil, errors.NewInternalError(err)
	}
	return stats, nil
}
