package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/lingodeck/internal/flashcard"
	"github.com/vytor/lingodeck/internal/models"
	"github.com/vytor/lingodeck/internal/repository"
	"github.com/vytor/lingodeck/internal/repository/sqlite"
	"github.com/vytor/lingodeck/internal/testutil"
)

type ReviewLogRepositorySuite struct {
	suite.Suite
	db     *sql.DB
	repo   repository.ReviewLogRepository
	deckID int64
	cards  []int64
}

func (s *ReviewLogRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewReviewLogRepository(s.db)
	s.deckID = seedDeck(s.T(), s.db, models.DefaultDeckPolicy())
	_, s.cards = seedNote(s.T(), s.db, s.deckID, true)
}

func (s *ReviewLogRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ReviewLogRepositorySuite) insert(cardID int64, before models.CardState, grade models.Grade, at time.Time) {
	_, err := s.repo.Insert(context.Background(), models.ReviewLog{
		CardID: cardID, DeckID: s.deckID, Grade: grade,
		StateBefore: before, StateAfter: models.StateReview,
		ReviewedAt: at,
	})
	s.Require().NoError(err)
}

func (s *ReviewLogRepositorySuite) TestDayCountsCountsDistinctCards() {
	ctx := context.Background()
	startOfDay := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	s.insert(s.cards[0], models.StateNew, models.Good, now.Add(-time.Hour))
	s.insert(s.cards[0], models.StateLearning, models.Good, now.Add(-30*time.Minute))
	s.insert(s.cards[1], models.StateReview, models.Again, now.Add(-20*time.Minute))
	s.insert(s.cards[1], models.StateRelearning, models.Good, now.Add(-10*time.Minute))
	s.insert(s.cards[1], models.StateReview, models.Good, startOfDay.Add(-time.Minute))

	counts, err := s.repo.DayCounts(ctx, s.deckID, startOfDay)
	s.Require().NoError(err)
	s.Assert().Equal(models.DayCounts{NewDone: 1, ReviewsDone: 1}, counts)

	other, err := s.repo.DayCounts(ctx, s.deckID+1, startOfDay)
	s.Require().NoError(err)
	s.Assert().Equal(models.DayCounts{}, other)
}

func (s *ReviewLogRepositorySuite) TestListForCardIsChronological() {
	ctx := context.Background()
	s.insert(s.cards[0], models.StateLearning, models.Hard, now)
	s.insert(s.cards[0], models.StateNew, models.Again, now.Add(-time.Minute))

	logs, err := s.repo.ListForCard(ctx, s.cards[0])
	s.Require().NoError(err)
	s.Require().Len(logs, 2)
	s.Assert().Equal(models.Again, logs[0].Grade)
	s.Assert().Equal(models.Hard, logs[1].Grade)
	s.Assert().True(logs[1].ReviewedAt.Equal(now))
}

func (s *ReviewLogRepositorySuite) TestGradedBetweenRebuildsBuriedSiblings() {
	ctx := context.Background()
	startOfDay := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	note, ids := seedNote(s.T(), s.db, s.deckID, true)

	s.insert(ids[0], models.StateNew, models.Good, now.Add(-time.Hour))
	s.insert(ids[0], models.StateLearning, models.Good, now.Add(-30*time.Minute))
	s.insert(s.cards[0], models.StateReview, models.Good, startOfDay.Add(-time.Minute))

	graded, err := s.repo.GradedBetween(ctx, startOfDay, startOfDay.AddDate(0, 0, 1))
	s.Require().NoError(err)
	s.Require().Equal([]models.GradedCard{{CardID: ids[0], SiblingGroup: note.ID}}, graded)

	tracker := flashcard.NewBuryTracker()
	tracker.Load(now, graded)
	policy := models.DefaultDeckPolicy()
	policy.BuryNewSiblings = true
	kept := tracker.Filter([]models.CardSchedule{
		{CardID: ids[1], SiblingGroup: note.ID, State: models.StateNew},
		{CardID: s.cards[1], State: models.StateNew},
	}, policy, now)
	s.Require().Len(kept, 1)
	s.Assert().Equal(s.cards[1], kept[0].CardID)
}

func (s *ReviewLogRepositorySuite) TestPruneBefore() {
	ctx := context.Background()
	s.insert(s.cards[0], models.StateReview, models.Good, now.AddDate(-2, 0, 0))
	s.insert(s.cards[0], models.StateReview, models.Good, now.AddDate(0, -1, 0))
	s.insert(s.cards[0], models.StateReview, models.Good, now)

	n, err := s.repo.PruneBefore(ctx, now.AddDate(-1, 0, 0))
	s.Require().NoError(err)
	s.Assert().Equal(int64(1), n)

	logs, err := s.repo.ListForCard(ctx, s.cards[0])
	s.Require().NoError(err)
	s.Assert().Len(logs, 2)
}

func TestReviewLogRepositorySuite(t *testing.T) {
	suite.Run(t, new(ReviewLogRepositorySuite))
}
