package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/lingodeck/internal/logger"
	"github.com/vytor/lingodeck/internal/models"
	"github.com/vytor/lingodeck/internal/repository"
)

type reviewLogRepository struct {
	db *sql.DB
	dx *sqlx.DB
}

// NewReviewLogRepository creates a new ReviewLogRepository implementation
func NewReviewLogRepository(db *sql.DB) repository.ReviewLogRepository {
	return &reviewLogRepository{db: db, dx: sqlx.NewDb(db, "sqlite3")}
}

func (r *reviewLogRepository) Insert(ctx context.Context, l models.ReviewLog) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("review_log_repo")
	log.Debug("inserting review log: card_id=%d, grade=%s", l.CardID, l.Grade)

	id, err := insertReviewLog(ctx, r.db, l)
	if err != nil {
		log.WithError(err).Error("failed to insert review log")
		return 0, err
	}
	return id, nil
}

func (r *reviewLogRepository) ListForCard(ctx context.Context, cardID int64) ([]models.ReviewLog, error) {
	log := logger.FromContext(ctx).WithPrefix("review_log_repo")
	log.Debug("listing review logs: card_id=%d", cardID)

	query, args, err := sqlBuilder.Select(
		"id", "card_id", "deck_id", "grade", "state_before", "state_after",
		"interval_before", "interval_after", "ease_factor", "time_taken_ms", "reviewed_at",
	).From("review_logs").
		Where(squirrel.Eq{"card_id": cardID}).
		OrderBy("reviewed_at ASC", "id ASC").
		ToSql()
	if err != nil {
		log.WithError(err).Error("failed to build query")
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.WithError(err).Error("failed to query review logs")
		return nil, err
	}
	defer rows.Close()

	var logs []models.ReviewLog
	for rows.Next() {
		var l models.ReviewLog
		var ms int64
		if err := rows.Scan(&l.ID, &l.CardID, &l.DeckID, &l.Grade, &l.StateBefore, &l.StateAfter,
			&l.IntervalBefore, &l.IntervalAfter, &l.EaseFactor, &ms, &l.ReviewedAt); err != nil {
			log.WithError(err).Error("failed to scan review log row")
			return nil, err
		}
		l.TimeTaken = time.Duration(ms) * time.Millisecond
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// DayCounts counts distinct cards studied since the start of the day: those
// that were new when graded, and those that were in review.
func (r *reviewLogRepository) DayCounts(ctx context.Context, deckID int64, since time.Time) (models.DayCounts, error) {
	log := logger.FromContext(ctx).WithPrefix("review_log_repo")
	log.Debug("counting today's reviews: deck_id=%d, since=%s", deckID, since)

	query, args, err := sqlBuilder.Select(
		"COUNT(DISTINCT CASE WHEN state_before = 'new' THEN card_id END)",
		"COUNT(DISTINCT CASE WHEN state_before = 'review' THEN card_id END)",
	).From("review_logs").
		Where(squirrel.Eq{"deck_id": deckID}).
		Where(squirrel.GtOrEq{"reviewed_at": utc(since)}).
		ToSql()
	if err != nil {
		log.WithError(err).Error("failed to build query")
		return models.DayCounts{}, err
	}

	var counts models.DayCounts
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&counts.NewDone, &counts.ReviewsDone); err != nil {
		log.WithError(err).Error("failed to count reviews")
		return models.DayCounts{}, err
	}
	return counts, nil
}

// GradedBetween lists the distinct cards graded in [from, to) with their
// note ID as sibling group.
func (r *reviewLogRepository) GradedBetween(ctx context.Context, from, to time.Time) ([]models.GradedCard, error) {
	log := logger.FromContext(ctx).WithPrefix("review_log_repo")
	log.Debug("listing graded cards: from=%s, to=%s", from, to)

	query, args, err := sqlBuilder.Select("l.card_id AS card_id", "c.note_id AS sibling_group").
		Distinct().
		From("review_logs l").
		Join("cards c ON c.id = l.card_id").
		Where(squirrel.GtOrEq{"l.reviewed_at": utc(from)}).
		Where(squirrel.Lt{"l.reviewed_at": utc(to)}).
		OrderBy("l.card_id ASC").
		ToSql()
	if err != nil {
		log.WithError(err).Error("failed to build query")
		return nil, err
	}

	var graded []models.GradedCard
	if err := r.dx.SelectContext(ctx, &graded, query, args...); err != nil {
		log.WithError(err).Error("failed to list graded cards")
		return nil, err
	}
	log.Debug("found %d graded cards", len(graded))
	return graded, nil
}

func (r *reviewLogRepository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("review_log_repo")
	log.Debug("pruning review logs before %s", cutoff)

	res, err := r.db.ExecContext(ctx, `DELETE FROM review_logs WHERE reviewed_at < ?`, utc(cutoff))
	if err != nil {
		log.WithError(err).Error("failed to prune review logs")
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	log.Info("pruned %d review logs", n)
	return n, nil
}

func insertReviewLog(ctx context.Context, db execer, l models.ReviewLog) (int64, error) {
	res, err := db.ExecContext(ctx, `
INSERT INTO review_logs (card_id, deck_id, grade, state_before, state_after, interval_before, interval_after, ease_factor, time_taken_ms, reviewed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, l.CardID, l.DeckID, int(l.Grade), l.StateBefore, l.StateAfter, l.IntervalBefore, l.IntervalAfter,
		l.EaseFactor, l.TimeTaken.Milliseconds(), utc(l.ReviewedAt))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
