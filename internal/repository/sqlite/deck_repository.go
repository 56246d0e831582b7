package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/lingodeck/internal/logger"
	"github.com/vytor/lingodeck/internal/models"
	"github.com/vytor/lingodeck/internal/repository"
)

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sql.DB) repository.DeckRepository {
	return &deckRepository{db: db}
}

func (r *deckRepository) Insert(ctx context.Context, d models.Deck) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("inserting deck: name=%s", d.Name)

	policy, err := json.Marshal(d.Policy)
	if err != nil {
		return 0, fmt.Errorf("encode policy: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO decks (name, policy) VALUES (?, ?)`, d.Name, string(policy))
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("deck name already taken: %s", d.Name)
			return 0, fmt.Errorf("deck %q: %w", d.Name, repository.ErrDuplicate)
		}
		log.WithError(err).Error("failed to insert deck")
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.WithError(err).Error("failed to get deck id")
		return 0, err
	}
	log.Debug("deck inserted: id=%d", id)
	return id, nil
}

func (r *deckRepository) Get(ctx context.Context, id int64) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting deck: id=%d", id)

	d, err := scanDeck(r.db.QueryRowContext(ctx, `SELECT id, name, policy, created_at FROM decks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("deck not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.WithError(err).Error("failed to get deck")
		return nil, err
	}
	return d, nil
}

func (r *deckRepository) List(ctx context.Context) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing decks")

	rows, err := r.db.QueryContext(ctx, `SELECT id, name, policy, created_at FROM decks ORDER BY name ASC`)
	if err != nil {
		log.WithError(err).Error("failed to list decks")
		return nil, err
	}
	defer rows.Close()

	var decks []models.Deck
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			log.WithError(err).Error("failed to scan deck row")
			return nil, err
		}
		decks = append(decks, *d)
	}
	log.Debug("found %d decks", len(decks))
	return decks, rows.Err()
}

func (r *deckRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("deleting deck: id=%d", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		log.WithError(err).Error("failed to delete deck")
	}
	return err
}

// UpdatePolicy saves policy and, in the same transaction, moves learning and
// relearning cards whose step index falls past the end of the new step
// sequence onto its last step.
func (r *deckRepository) UpdatePolicy(ctx context.Context, id int64, policy models.DeckPolicy) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("updating deck policy: id=%d", id)

	raw, err := json.Marshal(policy)
	if err != nil {
		return fmt.Errorf("encode policy: %w", err)
	}
	err = tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE decks SET policy = ? WHERE id = ?`, string(raw), id); err != nil {
			return err
		}
		sequences := []struct {
			state models.CardState
			steps []float64
		}{
			{models.StateLearning, policy.LearningSteps},
			{models.StateRelearning, policy.RelearningSteps},
		}
		for _, seq := range sequences {
			n, err := clampStepIndex(ctx, tx, id, seq.state, lastStep(seq.steps))
			if err != nil {
				return err
			}
			if n > 0 {
				log.Info("moved %d %s cards onto step %d: deck_id=%d", n, seq.state, lastStep(seq.steps), id)
			}
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Error("failed to update deck policy")
	}
	return err
}

func lastStep(steps []float64) int {
	if len(steps) == 0 {
		return 0
	}
	return len(steps) - 1
}

func clampStepIndex(ctx context.Context, db execer, deckID int64, state models.CardState, maxIndex int) (int64, error) {
	query, args, err := sqlBuilder.Update("cards").
		Set("step_index", maxIndex).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"deck_id": deckID, "state": state}).
		Where(squirrel.Gt{"step_index": maxIndex}).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("clamp %s step index: %w", state, err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeck(row rowScanner) (*models.Deck, error) {
	var d models.Deck
	var raw string
	if err := row.Scan(&d.ID, &d.Name, &raw, &d.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(raw), &d.Policy); err != nil {
		return nil, fmt.Errorf("decode policy of deck %d: %w", d.ID, err)
	}
	return &d, nil
}
