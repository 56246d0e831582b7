package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vytor/lingodeck/internal/logger"
	"github.com/vytor/lingodeck/internal/models"
	"github.com/vytor/lingodeck/internal/repository"
)

type statsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: sqlx.NewDb(db, "sqlite3")}
}

const deckStatsQuery = `
SELECT
    COUNT(*) AS total_cards,
    COALESCE(SUM(state = 'new'), 0) AS new_cards,
    COALESCE(SUM(state IN ('learning', 'relearning')), 0) AS learning_cards,
    COALESCE(SUM(state = 'review'), 0) AS review_cards,
    COALESCE(SUM(state = 'suspended'), 0) AS suspended_cards,
    COALESCE(SUM(is_leech), 0) AS leeches,
    COALESCE(SUM(state IN ('learning', 'relearning', 'review') AND due < ?), 0) AS due_today,
    COALESCE(AVG(CASE WHEN state = 'review' THEN ease_factor END), 0) AS avg_ease_factor,
    COALESCE(AVG(CASE WHEN state = 'review' THEN interval_days END), 0) AS avg_interval_days,
    (SELECT COUNT(*) FROM review_logs WHERE deck_id = ? AND reviewed_at >= ?) AS reviews_today,
    COALESCE((
        SELECT AVG(grade > 1) FROM review_logs
        WHERE deck_id = ? AND reviewed_at >= ? AND state_before = 'review'
    ), 0) AS retention_today
FROM cards
WHERE deck_id = ?
`

// DeckStats summarises a deck as of the day starting at dayStart. Retention is
// the share of review-state grades today that were not Again.
func (r *statsRepository) DeckStats(ctx context.Context, deckID int64, dayStart time.Time) (*models.DeckStat, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("fetching deck stats: deck_id=%d, day_start=%s", deckID, dayStart)

	dayEnd := utc(dayStart.AddDate(0, 0, 1))
	since := utc(dayStart)

	var s models.DeckStat
	err := r.db.GetContext(ctx, &s, deckStatsQuery, dayEnd, deckID, since, deckID, since, deckID)
	if err != nil {
		log.WithError(err).Error("failed to get deck stats")
		return nil, err
	}
	log.Debug("deck stats: total=%d, due_today=%d", s.TotalCards, s.DueToday)
	return &s, nil
}
