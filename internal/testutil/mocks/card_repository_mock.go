package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/lingodeck/internal/models"
)

// MockCardRepository is a mock implementation of repository.CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) InsertNote(ctx context.Context, note models.Note, cards []models.CardSchedule) ([]int64, error) {
	args := m.Called(ctx, note, cards)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockCardRepository) Get(ctx context.Context, id int64) (*models.CardSchedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CardSchedule), args.Error(1)
}

func (m *MockCardRepository) GetWithNote(ctx context.Context, id int64) (*models.CardWithNote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CardWithNote), args.Error(1)
}

func (m *MockCardRepository) Due(ctx context.Context, filter models.DueFilter) ([]models.CardSchedule, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CardSchedule), args.Error(1)
}

func (m *MockCardRepository) NextPosition(ctx context.Context, deckID int64) (int, error) {
	args := m.Called(ctx, deckID)
	return args.Int(0), args.Error(1)
}

func (m *MockCardRepository) Update(ctx context.Context, card models.CardSchedule) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) SaveReview(ctx context.Context, card models.CardSchedule, log models.ReviewLog) error {
	args := m.Called(ctx, card, log)
	return args.Error(0)
}
