package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingodeck/internal/models"
	"github.com/vytor/lingodeck/internal/repository/sqlite"
)

var now = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

func seedDeck(t *testing.T, db *sql.DB, policy models.DeckPolicy) int64 {
	t.Helper()
	id, err := sqlite.NewDeckRepository(db).Insert(context.Background(), models.Deck{
		Name:   "deck-" + uuid.NewString(),
		Policy: policy,
	})
	require.NoError(t, err)
	return id
}

// seedNote adds a note with a forward card and, if reversed, a second card.
func seedNote(t *testing.T, db *sql.DB, deckID int64, reversed bool) (models.Note, []int64) {
	t.Helper()
	repo := sqlite.NewCardRepository(db)
	ctx := context.Background()

	pos, err := repo.NextPosition(ctx, deckID)
	require.NoError(t, err)

	note := models.Note{ID: uuid.NewString(), DeckID: deckID, Front: "hola", Back: "hello", Reversed: reversed}
	cards := []models.CardSchedule{{TemplateOrd: models.TemplateForward, Position: pos, State: models.StateNew, Due: now}}
	if reversed {
		cards = append(cards, models.CardSchedule{TemplateOrd: models.TemplateReversed, Position: pos, State: models.StateNew, Due: now})
	}

	ids, err := repo.InsertNote(ctx, note, cards)
	require.NoError(t, err)
	return note, ids
}
