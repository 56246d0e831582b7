package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/lingodeck/internal/models"
)

// MockReviewLogRepository is a mock implementation of repository.ReviewLogRepository
type MockReviewLogRepository struct {
	mock.Mock
}

func (m *MockReviewLogRepository) Insert(ctx context.Context, log models.ReviewLog) (int64, error) {
	args := m.Called(ctx, log)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewLogRepository) ListForCard(ctx context.Context, cardID int64) ([]models.ReviewLog, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewLog), args.Error(1)
}

func (m *MockReviewLogRepository) DayCounts(ctx context.Context, deckID int64, since time.Time) (models.DayCounts, error) {
	args := m.Called(ctx, deckID, since)
	return args.Get(0).(models.DayCounts), args.Error(1)
}

func (m *MockReviewLogRepository) GradedBetween(ctx context.Context, from, to time.Time) ([]models.GradedCard, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GradedCard), args.Error(1)
}

func (m *MockReviewLogRepository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
