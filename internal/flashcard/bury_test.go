package flashcard_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/lingodeck/internal/flashcard"
	"github.com/vytor/lingodeck/internal/models"
)

func siblings() []models.CardSchedule {
	return []models.CardSchedule{
		{CardID: 1, SiblingGroup: "note-a", State: models.StateReview},
		{CardID: 2, SiblingGroup: "note-a", State: models.StateNew},
		{CardID: 3, SiblingGroup: "note-a", State: models.StateReview},
		{CardID: 4, SiblingGroup: "note-a", State: models.StateLearning},
		{CardID: 5, SiblingGroup: "note-b", State: models.StateNew},
	}
}

func ids(cards []models.CardSchedule) []int64 {
	out := make([]int64, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.CardID)
	}
	return out
}

func TestBuryTracker_Filter(t *testing.T) {
	tests := []struct {
		name       string
		buryNew    bool
		buryReview bool
		expected   []int64
	}{
		{name: "no burying", expected: []int64{1, 2, 3, 4, 5}},
		{name: "new siblings", buryNew: true, expected: []int64{1, 3, 4, 5}},
		{name: "review siblings", buryReview: true, expected: []int64{1, 2, 4, 5}},
		{name: "both", buryNew: true, buryReview: true, expected: []int64{1, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := flashcard.NewBuryTracker()
			tracker.Mark("note-a", 1, now)

			policy := models.DefaultDeckPolicy()
			policy.BuryNewSiblings = tt.buryNew
			policy.BuryReviewSiblings = tt.buryReview

			got := tracker.Filter(siblings(), policy, now)
			assert.Equal(t, tt.expected, ids(got))
		})
	}
}

func TestBuryTracker_ResetsOnNewDay(t *testing.T) {
	tracker := flashcard.NewBuryTracker()
	tracker.Mark("note-a", 1, now)
	assert.Equal(t, 1, tracker.Groups())

	policy := models.DefaultDeckPolicy()
	policy.BuryNewSiblings = true

	tomorrow := now.AddDate(0, 0, 1)
	got := tracker.Filter(siblings(), policy, tomorrow)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(got))
	assert.Equal(t, 0, tracker.Groups())
}

func TestBuryTracker_ResetKeepsToday(t *testing.T) {
	tracker := flashcard.NewBuryTracker()
	tracker.Mark("note-a", 1, now)

	tracker.Reset(now)
	assert.Equal(t, 1, tracker.Groups())

	tracker.Reset(now.AddDate(0, 0, 1))
	assert.Equal(t, 0, tracker.Groups())
}

func TestBuryTracker_IgnoresEmptyGroup(t *testing.T) {
	tracker := flashcard.NewBuryTracker()
	tracker.Mark("", 1, now)
	assert.Equal(t, 0, tracker.Groups())
}

func TestBuryTracker_KeepsCalendarDaysApart(t *testing.T) {
	tracker := flashcard.NewBuryTracker()
	policy := models.DefaultDeckPolicy()
	policy.BuryNewSiblings = true

	honolulu := time.FixedZone("HST", -10*60*60)
	tokyo := time.FixedZone("JST", 9*60*60)
	tracker.Mark("note-a", 1, now.In(tokyo))

	assert.Equal(t, []int64{1, 3, 4, 5}, ids(tracker.Filter(siblings(), policy, now.In(tokyo))))
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(tracker.Filter(siblings(), policy, now.In(honolulu))),
		"the previous calendar day has its own set")
	assert.Equal(t, 1, tracker.Groups())
}

func TestBuryTracker_LoadRestoresGradedSiblings(t *testing.T) {
	tracker := flashcard.NewBuryTracker()
	policy := models.DefaultDeckPolicy()
	policy.BuryNewSiblings = true
	assert.False(t, tracker.Loaded(now))

	tracker.Load(now, []models.GradedCard{{CardID: 1, SiblingGroup: "note-a"}, {CardID: 9, SiblingGroup: ""}})
	assert.True(t, tracker.Loaded(now))
	assert.False(t, tracker.Loaded(now.AddDate(0, 0, 1)))
	assert.Equal(t, []int64{1, 3, 4, 5}, ids(tracker.Filter(siblings(), policy, now)))
	assert.Equal(t, 1, tracker.Groups())
}
