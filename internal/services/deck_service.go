package services

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/vytor/lingodeck/internal/errors"
	"github.com/vytor/lingodeck/internal/flashcard"
	"github.com/vytor/lingodeck/internal/logger"
	"github.com/vytor/lingodeck/internal/models"
	"github.com/vytor/lingodeck/internal/repository"
)

// PresetSource looks up named deck policies.
type PresetSource interface {
	Get(name string) (models.DeckPolicy, bool)
}

// DeckService handles decks and their policies
type DeckService interface {
	CreateDeck(ctx context.Context, name, preset string) (*models.Deck, error)
	GetDeck(ctx context.Context, id int64) (*models.Deck, error)
	ListDecks(ctx context.Context) ([]models.Deck, error)
	DeleteDeck(ctx context.Context, id int64) error
	UpdatePolicy(ctx context.Context, id int64, policy models.DeckPolicy) (*models.Deck, error)
	ApplyPreset(ctx context.Context, id int64, preset string) (*models.Deck, error)
}

type deckService struct {
	repo          repository.DeckRepository
	presets       PresetSource
	defaultPreset string
}

// NewDeckService creates a new DeckService. Decks created without a preset
// name use defaultPreset.
func NewDeckService(repo repository.DeckRepository, presets PresetSource, defaultPreset string) DeckService {
	return &deckService{repo: repo, presets: presets, defaultPreset: defaultPreset}
}

func (s *deckService) CreateDeck(ctx context.Context, name, preset string) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	name = strings.TrimSpace(name)
	log.Debug("creating deck: name=%s, preset=%s", name, preset)

	if name == "" {
		return nil, errors.NewValidationError("name", "cannot be empty")
	}
	if preset == "" {
		preset = s.defaultPreset
	}
	policy, ok := s.presets.Get(preset)
	if !ok {
		return nil, errors.NewNotFoundError("preset", preset)
	}

	deck := models.Deck{Name: name, Policy: policy}
	id, err := s.repo.Insert(ctx, deck)
	if err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.NewAlreadyExistsError("deck", name)
		}
		log.WithError(err).Error("failed to insert deck")
		return nil, errors.NewInternalError(err)
	}

	log.Info("deck created: id=%d, name=%s, preset=%s", id, name, preset)
	return s.GetDeck(ctx, id)
}

func (s *deckService) GetDeck(ctx context.Context, id int64) (*models.Deck, error) {
	deck, err := s.repo.Get(ctx, id)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Error("failed to get deck")
		return nil, errors.NewInternalError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", id)
	}
	return deck, nil
}

func (s *deckService) ListDecks(ctx context.Context) ([]models.Deck, error) {
	decks, err := s.repo.List(ctx)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Error("failed to list decks")
		return nil, errors.NewInternalError(err)
	}
	return decks, nil
}

func (s *deckService) DeleteDeck(ctx context.Context, id int64) error {
	if _, err := s.GetDeck(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		logger.FromContext(ctx).WithError(err).Error("failed to delete deck")
		return errors.NewInternalError(err)
	}
	logger.FromContext(ctx).Info("deck deleted: id=%d", id)
	return nil
}

func (s *deckService) UpdatePolicy(ctx context.Context, id int64, policy models.DeckPolicy) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating policy: deck_id=%d", id)

	deck, err := s.GetDeck(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := flashcard.ValidatePolicy(policy); err != nil {
		log.Debug("policy rejected: %v", err)
		return nil, errors.NewInvalidPolicyError(err)
	}
	if err := s.repo.UpdatePolicy(ctx, id, policy); err != nil {
		log.WithError(err).Error("failed to save policy")
		return nil, errors.NewInternalError(err)
	}

	deck.Policy = policy
	return deck, nil
}

func (s *deckService) ApplyPreset(ctx context.Context, id int64, preset string) (*models.Deck, error) {
	policy, ok := s.presets.Get(preset)
	if !ok {
		return nil, errors.NewNotFoundError("preset", preset)
	}
	return s.UpdatePolicy(ctx, id, policy)
}
