package flashcard_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingodeck/internal/flashcard"
	"github.com/vytor/lingodeck/internal/models"
)

var now = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

func today() time.Time {
	return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
}

func reviewCard(ivl int) models.CardSchedule {
	return models.CardSchedule{
		CardID:       1,
		State:        models.StateReview,
		IntervalDays: ivl,
		EaseFactor:   2.5,
		Due:          today(),
	}
}

func TestSchedule_NewCardGraduatesThroughLearningSteps(t *testing.T) {
	policy := models.DefaultDeckPolicy()
	card := models.CardSchedule{CardID: 1, State: models.StateNew}

	card, err := flashcard.Schedule(card, policy, models.Good, now)
	require.NoError(t, err)
	assert.Equal(t, models.StateLearning, card.State)
	assert.Equal(t, 1, card.StepIndex)
	assert.Equal(t, now.Add(10*time.Minute), card.Due)

	card, err = flashcard.Schedule(card, policy, models.Good, now.Add(10*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, models.StateReview, card.State)
	assert.Equal(t, policy.GraduatingInterval, card.IntervalDays)
	assert.Equal(t, today().AddDate(0, 0, 1), card.Due)
	assert.Equal(t, 2.5, card.EaseFactor)
	assert.Equal(t, 2, card.Reps)
	require.NotNil(t, card.LastReview)
}

func TestSchedule_ExampleScenario(t *testing.T) {
	policy := models.DefaultDeckPolicy()
	policy.LearningSteps = []float64{1, 10}
	policy.GraduatingInterval = 1
	policy.EasyInterval = 4
	policy.HardIntervalMult = 1.2
	policy.EasyBonus = 1.3
	policy.IntervalModifier = 1.0
	policy.MaxInterval = 36500

	card := models.CardSchedule{CardID: 1, State: models.StateNew, StepIndex: 0}
	for i := 0; i < 2; i++ {
		var err error
		card, err = flashcard.Schedule(card, policy, models.Good, now)
		require.NoError(t, err)
	}
	require.Equal(t, models.StateReview, card.State)
	require.Equal(t, 1, card.IntervalDays)

	next := now.AddDate(0, 0, 1)
	good, err := flashcard.Schedule(card, policy, models.Good, next)
	require.NoError(t, err)
	easy, err := flashcard.Schedule(card, policy, models.Easy, next)
	require.NoError(t, err)

	assert.Greater(t, good.IntervalDays, 1)
	assert.Greater(t, easy.IntervalDays, good.IntervalDays)
}

func TestSchedule_NewCardEasyGraduatesImmediately(t *testing.T) {
	policy := models.DefaultDeckPolicy()
	card := models.CardSchedule{CardID: 1, State: models.StateNew}

	updated, err := flashcard.Schedule(card, policy, models.Easy, now)
	require.NoError(t, err)
	assert.Equal(t, models.StateReview, updated.State)
	assert.Equal(t, policy.EasyInterval, updated.IntervalDays)
	assert.Equal(t, today().AddDate(0, 0, policy.EasyInterval), updated.Due)
}

func TestSchedule_LearningAgainResetsStep(t *testing.T) {
	policy := models.DefaultDeckPolicy()
	card := models.CardSchedule{CardID: 1, State: models.StateLearning, StepIndex: 1}

	updated, err := flashcard.Schedule(card, policy, models.Again, now)
	require.NoError(t, err)
	assert.Equal(t, models.StateLearning, updated.State)
	assert.Equal(t, 0, updated.StepIndex)
	assert.Equal(t, now.Add(time.Minute), updated.Due)
}

func TestSchedule_LearningHardRepeatsStep(t *testing.T) {
	policy := models.DefaultDeckPolicy()
	card := models.CardSchedule{CardID: 1, State: models.StateLearning, StepIndex: 1}

	updated, err := flashcard.Schedule(card, policy, models.Hard, now)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.StepIndex)
	assert.Equal(t, now.Add(10*time.Minute), updated.Due)
}

func TestSchedule_EmptyLearningStepsGraduate(t *testing.T) {
	policy := models.DefaultDeckPolicy()
	policy.LearningSteps = nil

	for _, g := range []models.Grade{models.Again, models.Hard, models.Good} {
		updated, err := flashcard.Schedule(models.CardSchedule{State: models.StateNew}, policy, g, now)
		require.NoError(t, err)
		assert.Equal(t, models.StateReview, updated.State, "grade %s", g)
		assert.Equal(t, policy.GraduatingInterval, updated.IntervalDays, "grade %s", g)
	}
}

func TestSchedule_RelearningGraduation(t *testing.T) {
	tests := []struct {
		name       string
		multiplier float64
		minIvl     int
		grade      models.Grade
		expected   int
	}{
		{name: "good keeps half the prior interval", multiplier: 0.5, minIvl: 1, grade: models.Good, expected: 50},
		{name: "easy skips remaining steps", multiplier: 0.5, minIvl: 1, grade: models.Easy, expected: 50},
		{name: "floor applies", multiplier: 0.01, minIvl: 3, grade: models.Good, expected: 3},
		{name: "zero multiplier falls to floor", multiplier: 0, minIvl: 2, grade: models.Good, expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := models.DefaultDeckPolicy()
			policy.RelearningSteps = []float64{10, 60}
			policy.NewIntervalMultiplier = tt.multiplier
			policy.MinIntervalAfterLapse = tt.minIvl

			stepIndex := 1
			if tt.grade == models.Easy {
				stepIndex = 0
			}
			card := models.CardSchedule{
				CardID:            1,
				State:             models.StateRelearning,
				StepIndex:         stepIndex,
				IntervalDays:      100,
				PriorIntervalDays: 100,
				EaseFactor:        2.3,
			}

			updated, err := flashcard.Schedule(card, policy, tt.grade, now)
			require.NoError(t, err)
			assert.Equal(t, models.StateReview, updated.State)
			assert.Equal(t, tt.expected, updated.IntervalDays)
			assert.Equal(t, 0, updated.PriorIntervalDays)
			assert.Equal(t, 2.3, updated.EaseFactor, "relearning does not touch ease")
		})
	}
}

func TestSchedule_RelearningGoodAdvancesStep(t *testing.T) {
	policy := models.DefaultDeckPolicy()
	policy.RelearningSteps = []float64{10, 60}
	card := models.CardSchedule{CardID: 1, State: models.StateRelearning, PriorIntervalDays: 40}

	updated, err := flashcard.Schedule(card, policy, models.Good, now)
	require.NoError(t, err)
	assert.Equal(t, models.StateRelearning, updated.State)
	assert.Equal(t, 1, updated.StepIndex)
	assert.Equal(t, now.Add(time.Hour), updated.Due)
}

func TestSchedule_LeechScenario(t *testing.T) {
	policy := models.DefaultDeckPolicy()
	policy.LeechThreshold = 8
	policy.LeechAction = models.LeechTag
	card := reviewCard(100)
	card.Lapses = 7

	updated, err := flashcard.Schedule(card, policy, models.Again, now)
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Lapses)
	assert.True(t, updated.IsLeech)
	assert.Equal(t, models.StateRelearning, updated.State)
	assert.Equal(t, 0, updated.StepIndex)
	assert.Equal(t, 100, updated.PriorIntervalDays)
	assert.Equal(t, now.Add(10*time.Minute), updated.Due)
}

func TestSchedule_LeechSuspends(t *testing.T) {
	policy := models.DefaultDeckPolicy()
	policy.LeechThreshold = 8
	policy.LeechAction = models.LeechSuspend
	card := reviewCard(100)
	card.Lapses = 7

	updated, err := flashcard.Schedule(card, policy, models.Again, now)
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Lapses)
	assert.True(t, updated.IsLeech)
	assert.Equal(t, models.StateSuspended, updated.State)
	assert.Equal(t, models.StateRelearning, updated.SuspendedFrom)
}

func TestSchedule_LapseBelowThresholdIsNotLeech(t *testing.T) {
	policy := models.DefaultDeckPolicy()
	policy.LeechThreshold = 8
	policy.LeechAction = models.LeechSuspend
	card := reviewCard(20)
	card.Lapses = 6

	updated, err := flashcard.Schedule(card, policy, models.Again, now)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Lapses)
	assert.False(t, updated.IsLeech)
	assert.Equal(t, models.StateRelearning, updated.State)
}

func TestSchedule_LeechFlagIsLatched(t *testing.T) {
	policy := models.DefaultDeckPolicy()
	policy.LeechThreshold = 8
	policy.LeechAction = models.LeechSuspend

	relearning := models.CardSchedule{
		CardID: 1, State: models.StateRelearning, PriorIntervalDays: 30, Lapses: 8, IsLeech: true,
	}
	graduated, err := flashcard.Schedule(relearning, policy, models.Good, now)
	require.NoError(t, err)
	assert.True(t, graduated.IsLeech)

	// lapse 9 is between leech events: flag stays, no second suspension
	again, err := flashcard.Schedule(graduated, policy, models.Again, now.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, 9, again.Lapses)
	assert.True(t, again.IsLeech)
	assert.Equal(t, models.StateRelearning, again.State)
}

func TestSchedule_LeechActionRepeatsEveryHalfThreshold(t *testing.T) {
	policy := models.DefaultDeckPolicy()
	policy.LeechThreshold = 8
	policy.LeechAction = models.LeechSuspend
	card := reviewCard(10)
	card.Lapses = 11
	card.IsLeech = true

	updated, err := flashcard.Schedule(card, policy, models.Again, now)
	require.NoError(t, err)
	assert.Equal(t, 12, updated.Lapses)
	assert.Equal(t, models.StateSuspended, updated.State)
}

func TestSchedule_LoweredThresholdFlagsOffCadenceLapse(t *testing.T) {
	tests := []struct {
		action   models.LeechAction
		expected models.CardState
	}{
		{models.LeechTag, models.StateRelearning},
		{models.LeechSuspend, models.StateSuspended},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			policy := models.DefaultDeckPolicy()
			policy.LeechThreshold = 4
			policy.LeechAction = tt.action
			card := reviewCard(10)
			card.Lapses = 10

			updated, err := flashcard.Schedule(card, policy, models.Again, now)
			require.NoError(t, err)
			assert.Equal(t, 11, updated.Lapses)
			assert.True(t, updated.IsLeech)
			assert.Equal(t, tt.expected, updated.State)
		})
	}
}

func TestSchedule_AgainDoesNotCountAsRep(t *testing.T) {
	policy := models.DefaultDeckPolicy()
	card := reviewCard(10)
	card.Reps = 3

	lapsed, err := flashcard.Schedule(card, policy, models.Again, now)
	require.NoError(t, err)
	assert.Equal(t, 3, lapsed.Reps)
	require.NotNil(t, lapsed.LastReview)

	passed, err := flashcard.Schedule(card, policy, models.Hard, now)
	require.NoError(t, err)
	assert.Equal(t, 4, passed.Reps)
}

func TestSchedule_EmptyRelearningStepsStayInReview(t *testing.T) {
	policy := models.DefaultDeckPolicy()
	policy.RelearningSteps = nil
	policy.NewIntervalMultiplier = 0.5

	updated, err := flashcard.Schedule(reviewCard(100), policy, models.Again, now)
	require.NoError(t, err)
	assert.Equal(t, models.StateReview, updated.State)
	assert.Equal(t, 50, updated.IntervalDays)
	assert.Equal(t, 1, updated.Lapses)
	assert.Equal(t, today().AddDate(0, 0, 50), updated.Due)
}

func TestSchedule_ReviewIntervals(t *testing.T) {
	tests := []struct {
		name     string
		grade    models.Grade
		ivl      int
		due      time.Time
		expected int
		ease     float64
	}{
		{name: "hard multiplies by hard interval", grade: models.Hard, ivl: 10, due: today(), expected: 12, ease: 2.35},
		{name: "good multiplies by ease", grade: models.Good, ivl: 10, due: today(), expected: 25, ease: 2.5},
		{name: "easy adds easy bonus", grade: models.Easy, ivl: 10, due: today(), expected: 33, ease: 2.65},
		{name: "good credits half the days late", grade: models.Good, ivl: 10, due: today().AddDate(0, 0, -10), expected: 38, ease: 2.5},
		{name: "good grows a one day interval", grade: models.Good, ivl: 1, due: today(), expected: 3, ease: 2.5},
		{name: "easy beats good on a one day interval", grade: models.Easy, ivl: 1, due: today(), expected: 4, ease: 2.65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := reviewCard(tt.ivl)
			card.Due = tt.due

			updated, err := flashcard.Schedule(card, models.DefaultDeckPolicy(), tt.grade, now)
			require.NoError(t, err)
			assert.Equal(t, models.StateReview, updated.State)
			assert.Equal(t, tt.expected, updated.IntervalDays)
			assert.InDelta(t, tt.ease, updated.EaseFactor, 1e-9)
			assert.Equal(t, today().AddDate(0, 0, tt.expected), updated.Due)
		})
	}
}

func TestSchedule_IntervalClamp(t *testing.T) {
	policy := models.DefaultDeckPolicy()
	policy.MaxInterval = 30

	easy, err := flashcard.Schedule(reviewCard(25), policy, models.Easy, now)
	require.NoError(t, err)
	assert.Equal(t, 30, easy.IntervalDays)

	policy.HardIntervalMult = 0
	hard, err := flashcard.Schedule(reviewCard(25), policy, models.Hard, now)
	require.NoError(t, err)
	assert.Equal(t, 1, hard.IntervalDays)
}

func TestSchedule_ReviewIntervalsStayInRangeAndGrow(t *testing.T) {
	for _, maxInterval := range []int{30, 365, 36500} {
		policy := models.DefaultDeckPolicy()
		policy.MaxInterval = maxInterval
		for _, ivl := range []int{1, 2, 5, 13, 29, 30, 200, 365, 9000, 36500} {
			if ivl > maxInterval {
				continue
			}
			for _, g := range []models.Grade{models.Hard, models.Good, models.Easy} {
				card := reviewCard(ivl)
				card.Reps = 3
				updated, err := flashcard.Schedule(card, policy, g, now)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, updated.IntervalDays, 1)
				assert.LessOrEqual(t, updated.IntervalDays, maxInterval)
				if g != models.Hard {
					assert.GreaterOrEqual(t, updated.IntervalDays, ivl,
						"grade %s must not shrink interval %d (max %d)", g, ivl, maxInterval)
				}
			}
		}
	}
}

func TestSchedule_EaseFloor(t *testing.T) {
	card := reviewCard(10)
	card.EaseFactor = 1.3
	policy := models.DefaultDeckPolicy()
	policy.RelearningSteps = nil
	policy.LeechThreshold = 1000

	for i := 0; i < 10; i++ {
		var err error
		card, err = flashcard.Schedule(card, policy, models.Again, now)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, card.EaseFactor, 1.3, "ease factor should not drop below 1.3")
	}
	assert.Equal(t, 10, card.Lapses)
}

func TestSchedule_Rejections(t *testing.T) {
	policy := models.DefaultDeckPolicy()

	_, err := flashcard.Schedule(models.CardSchedule{State: models.StateNew}, policy, models.Grade(0), now)
	assert.ErrorIs(t, err, flashcard.ErrInvalidGrade)

	_, err = flashcard.Schedule(models.CardSchedule{State: models.StateNew}, policy, models.Grade(5), now)
	assert.ErrorIs(t, err, flashcard.ErrInvalidGrade)

	_, err = flashcard.Schedule(models.CardSchedule{State: models.StateSuspended}, policy, models.Good, now)
	assert.ErrorIs(t, err, flashcard.ErrInvalidState)

	_, err = flashcard.Schedule(models.CardSchedule{State: models.StateLearning, StepIndex: 2}, policy, models.Good, now)
	assert.ErrorIs(t, err, flashcard.ErrInvalidState)

	_, err = flashcard.Schedule(models.CardSchedule{State: models.StateReview, IntervalDays: 0}, policy, models.Good, now)
	assert.ErrorIs(t, err, flashcard.ErrInvalidState)

	_, err = flashcard.Schedule(models.CardSchedule{State: "archived"}, policy, models.Good, now)
	assert.ErrorIs(t, err, flashcard.ErrInvalidState)
}

func TestSchedule_DoesNotMutateInput(t *testing.T) {
	card := reviewCard(10)
	before := card

	_, err := flashcard.Schedule(card, models.DefaultDeckPolicy(), models.Again, now)
	require.NoError(t, err)
	assert.Equal(t, before, card)
}

func TestPreview_AllGrades(t *testing.T) {
	out, err := flashcard.Preview(reviewCard(10), models.DefaultDeckPolicy(), now)
	require.NoError(t, err)
	require.Len(t, out, 4)
	assert.Equal(t, models.StateRelearning, out[models.Again].State)
	assert.Less(t, out[models.Hard].IntervalDays, out[models.Good].IntervalDays)
	assert.Less(t, out[models.Good].IntervalDays, out[models.Easy].IntervalDays)

	_, err = flashcard.Preview(models.CardSchedule{State: models.StateSuspended}, models.DefaultDeckPolicy(), now)
	assert.ErrorIs(t, err, flashcard.ErrInvalidState)
}
