package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/lingodeck/internal/logger"
	"github.com/vytor/lingodeck/internal/models"
	"github.com/vytor/lingodeck/internal/repository"
)

var cardColumns = []string{
	"c.id", "c.deck_id", "c.note_id", "c.template_ord", "c.position", "c.state", "c.suspended_from",
	"c.due", "c.step_index", "c.interval_days", "c.prior_interval_days", "c.ease_factor",
	"c.reps", "c.lapses", "c.is_leech", "c.last_review", "c.version", "c.created_at",
}

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) InsertNote(ctx context.Context, note models.Note, cards []models.CardSchedule) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting note: id=%s, deck_id=%d, cards=%d", note.ID, note.DeckID, len(cards))

	ids := make([]int64, 0, len(cards))
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO notes (id, deck_id, front, back, reversed)
VALUES (?, ?, ?, ?, ?)
`, note.ID, note.DeckID, note.Front, note.Back, note.Reversed); err != nil {
			return fmt.Errorf("insert note: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO cards (deck_id, note_id, template_ord, position, state, due, ease_factor)
VALUES (?, ?, ?, ?, ?, ?, ?)
`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, c := range cards {
			res, err := stmt.ExecContext(ctx, note.DeckID, note.ID, c.TemplateOrd, c.Position, c.State, utc(c.Due), c.EaseFactor)
			if err != nil {
				return fmt.Errorf("insert card: %w", err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Error("failed to insert note")
		return nil, err
	}
	log.Debug("note inserted: card_ids=%v", ids)
	return ids, nil
}

func (r *cardRepository) Get(ctx context.Context, id int64) (*models.CardSchedule, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: id=%d", id)

	query, args, err := sqlBuilder.Select(cardColumns...).From("cards c").Where(squirrel.Eq{"c.id": id}).ToSql()
	if err != nil {
		log.WithError(err).Error("failed to build query")
		return nil, err
	}

	c, err := scanCard(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.WithError(err).Error("failed to get card")
		return nil, err
	}
	return c, nil
}

func (r *cardRepository) GetWithNote(ctx context.Context, id int64) (*models.CardWithNote, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card with note: id=%d", id)

	query, args, err := sqlBuilder.Select(append(cardColumns, "n.front", "n.back")...).
		From("cards c").
		Join("notes n ON n.id = c.note_id").
		Where(squirrel.Eq{"c.id": id}).
		ToSql()
	if err != nil {
		log.WithError(err).Error("failed to build query")
		return nil, err
	}

	var cn models.CardWithNote
	var front, back string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(append(cardDest(&cn.CardSchedule), &front, &back)...)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.WithError(err).Error("failed to get card with note")
		return nil, err
	}

	// Reversed cards ask for the back and answer with the front.
	cn.Front, cn.Back = front, back
	if cn.TemplateOrd == models.TemplateReversed {
		cn.Front, cn.Back = back, front
	}
	return &cn, nil
}

func (r *cardRepository) Due(ctx context.Context, filter models.DueFilter) ([]models.CardSchedule, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("fetching due cards: deck_id=%d, as_of=%s, states=%v", filter.DeckID, filter.AsOf, filter.States)

	query := sqlBuilder.Select(cardColumns...).From("cards c").
		Where(squirrel.Eq{"c.deck_id": filter.DeckID})
	if len(filter.States) > 0 {
		query = query.Where(squirrel.Eq{"c.state": filter.States})
	}
	if !filter.AsOf.IsZero() {
		// New cards have no meaningful due date; the daily limit decides when they show.
		query = query.Where(squirrel.Or{
			squirrel.Eq{"c.state": models.StateNew},
			squirrel.LtOrEq{"c.due": utc(filter.AsOf)},
		})
	}
	query = query.OrderBy("c.due ASC", "c.id ASC")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.WithError(err).Error("failed to build query")
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.WithError(err).Error("failed to query due cards")
		return nil, err
	}
	defer rows.Close()

	var cards []models.CardSchedule
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			log.WithError(err).Error("failed to scan card row")
			return nil, err
		}
		cards = append(cards, *c)
	}
	log.Debug("found %d due cards", len(cards))
	return cards, rows.Err()
}

func (r *cardRepository) NextPosition(ctx context.Context, deckID int64) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	var pos int
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), 0) + 1 FROM cards WHERE deck_id = ?`, deckID).Scan(&pos)
	if err != nil {
		log.WithError(err).Error("failed to get next position")
		return 0, err
	}
	return pos, nil
}

func (r *cardRepository) Update(ctx context.Context, c models.CardSchedule) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card: id=%d, state=%s, version=%d", c.CardID, c.State, c.Version)

	err := updateCard(ctx, r.db, c)
	if err != nil && !errors.Is(err, repository.ErrConflict) {
		log.WithError(err).Error("failed to update card")
	}
	return err
}

func (r *cardRepository) SaveReview(ctx context.Context, c models.CardSchedule, l models.ReviewLog) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("saving review: card_id=%d, grade=%s, %s -> %s", c.CardID, l.Grade, l.StateBefore, l.StateAfter)

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		if err := updateCard(ctx, tx, c); err != nil {
			return err
		}
		_, err := insertReviewLog(ctx, tx, l)
		return err
	})
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// updateCard writes c if its version still matches the stored one and bumps
// the stored version.
func updateCard(ctx context.Context, db execer, c models.CardSchedule) error {
	var lastReview any
	if c.LastReview != nil {
		lastReview = utc(*c.LastReview)
	}

	query, args, err := sqlBuilder.Update("cards").
		Set("state", c.State).
		Set("suspended_from", c.SuspendedFrom).
		Set("due", utc(c.Due)).
		Set("step_index", c.StepIndex).
		Set("interval_days", c.IntervalDays).
		Set("prior_interval_days", c.PriorIntervalDays).
		Set("ease_factor", c.EaseFactor).
		Set("reps", c.Reps).
		Set("lapses", c.Lapses).
		Set("is_leech", c.IsLeech).
		Set("last_review", lastReview).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": c.CardID, "version": c.Version}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("card %d at version %d: %w", c.CardID, c.Version, repository.ErrConflict)
	}
	return nil
}

func cardDest(c *models.CardSchedule) []any {
	return []any{
		&c.CardID, &c.DeckID, &c.SiblingGroup, &c.TemplateOrd, &c.Position, &c.State, &c.SuspendedFrom,
		&c.Due, &c.StepIndex, &c.IntervalDays, &c.PriorIntervalDays, &c.EaseFactor,
		&c.Reps, &c.Lapses, &c.IsLeech, &c.LastReview, &c.Version, &c.CreatedAt,
	}
}

func scanCard(row rowScanner) (*models.CardSchedule, error) {
	var c models.CardSchedule
	if err := row.Scan(cardDest(&c)...); err != nil {
		return nil, err
	}
	return &c, nil
}
