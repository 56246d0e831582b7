package flashcard

import (
	"fmt"
	"math"
	"time"

	"github.com/vytor/lingodeck/internal/models"
)

// Ease adjustments use the SM-2 variant: the ease factor is the growth
// factor for Good reviews and never drops below minEase, so a successful
// review always lengthens the interval.
const (
	minEase        = 1.3
	defaultEase    = 2.5
	againEaseDelta = -0.20
	hardEaseDelta  = -0.15
	easyEaseDelta  = 0.15
)

// Schedule returns the card's state after grade is recorded at now. The input
// card is not modified; persisting the result is up to the caller.
//
// A new card enters learning at step 0 and the grade is applied to that
// step. Learning and relearning cards walk their step sequence and graduate
// to review past the last step or on Easy. Review cards grow their interval
// by the ease factor, and an Again grade counts a lapse and sends the card
// to relearning (or suspends it when it turns into a leech and the deck says
// so). Every review interval is clamped to [1, MaxInterval].
func Schedule(card models.CardSchedule, policy models.DeckPolicy, grade models.Grade, now time.Time) (models.CardSchedule, error) {
	if !grade.IsValid() {
		return card, fmt.Errorf("%w: %d", ErrInvalidGrade, int(grade))
	}

	c := card
	var err error
	switch card.State {
	case models.StateSuspended:
		return card, fmt.Errorf("%w: card %d is suspended", ErrInvalidState, card.CardID)
	case models.StateNew:
		c.State = models.StateLearning
		c.StepIndex = 0
		err = scheduleLearning(&c, policy, grade, now)
	case models.StateLearning:
		err = scheduleLearning(&c, policy, grade, now)
	case models.StateRelearning:
		err = scheduleRelearning(&c, policy, grade, now)
	case models.StateReview:
		err = scheduleReview(&c, policy, grade, now)
	default:
		err = fmt.Errorf("%w: card %d has unknown state %q", ErrInvalidState, card.CardID, card.State)
	}
	if err != nil {
		return card, err
	}

	reviewed := now
	c.LastReview = &reviewed
	if grade != models.Again {
		c.Reps++
	}
	return c, nil
}

// Preview returns the outcome of each grade without committing to one.
func Preview(card models.CardSchedule, policy models.DeckPolicy, now time.Time) (map[models.Grade]models.CardSchedule, error) {
	out := make(map[models.Grade]models.CardSchedule, len(models.Grades))
	for _, g := range models.Grades {
		next, err := Schedule(card, policy, g, now)
		if err != nil {
			return nil, err
		}
		out[g] = next
	}
	return out, nil
}

// advanceSteps applies grade to a card sitting on steps and reports whether
// the card has left the sequence and must graduate. An empty sequence
// graduates on any grade.
func advanceSteps(c *models.CardSchedule, steps []float64, grade models.Grade, now time.Time) (bool, error) {
	if len(steps) == 0 {
		return true, nil
	}
	if c.StepIndex < 0 || c.StepIndex >= len(steps) {
		return false, fmt.Errorf("%w: card %d step index %d out of range for %d steps",
			ErrInvalidState, c.CardID, c.StepIndex, len(steps))
	}

	switch grade {
	case models.Again:
		c.StepIndex = 0
		c.Due = now.Add(models.StepDuration(steps[0]))
	case models.Hard:
		c.Due = now.Add(models.StepDuration(steps[c.StepIndex]))
	case models.Good:
		if c.StepIndex+1 >= len(steps) {
			return true, nil
		}
		c.StepIndex++
		c.Due = now.Add(models.StepDuration(steps[c.StepIndex]))
	case models.Easy:
		return true, nil
	}
	return false, nil
}

func scheduleLearning(c *models.CardSchedule, policy models.DeckPolicy, grade models.Grade, now time.Time) error {
	done, err := advanceSteps(c, policy.LearningSteps, grade, now)
	if err != nil || !done {
		return err
	}

	ivl := policy.GraduatingInterval
	if grade == models.Easy {
		ivl = policy.EasyInterval
	}
	c.EaseFactor = startingEase(policy)
	toReview(c, clampInterval(ivl, policy.MaxInterval), now)
	return nil
}

func scheduleRelearning(c *models.CardSchedule, policy models.DeckPolicy, grade models.Grade, now time.Time) error {
	done, err := advanceSteps(c, policy.RelearningSteps, grade, now)
	if err != nil || !done {
		return err
	}
	toReview(c, lapseInterval(c.PriorIntervalDays, policy), now)
	return nil
}

func scheduleReview(c *models.CardSchedule, policy models.DeckPolicy, grade models.Grade, now time.Time) error {
	ivl := c.IntervalDays
	if ivl < 1 {
		return fmt.Errorf("%w: review card %d has interval %d", ErrInvalidState, c.CardID, ivl)
	}
	ease := c.EaseFactor
	if ease == 0 {
		ease = startingEase(policy)
	}
	ease = math.Max(ease, minEase)
	late := daysLate(c.Due, now)

	switch grade {
	case models.Again:
		lapse(c, policy, ivl, ease, now)
		return nil
	case models.Hard:
		c.EaseFactor = math.Max(minEase, ease+hardEaseDelta)
		ivl = clampInterval(roundDays(float64(ivl)*policy.HardIntervalMult*policy.IntervalModifier), policy.MaxInterval)
	case models.Good:
		c.EaseFactor = ease
		ivl = clampInterval(goodInterval(ivl, late, ease, policy), policy.MaxInterval)
	case models.Easy:
		c.EaseFactor = ease + easyEaseDelta
		ivl = clampInterval(easyInterval(ivl, late, ease, policy), policy.MaxInterval)
	}
	c.IntervalDays = ivl
	c.Due = dueInDays(now, ivl)
	return nil
}

// goodInterval grows ivl by the ease factor, crediting half of any days the
// review was late, and always by at least one day.
func goodInterval(ivl, late int, ease float64, policy models.DeckPolicy) int {
	next := roundDays((float64(ivl) + float64(late)/2) * ease * policy.IntervalModifier)
	if next < ivl+1 {
		next = ivl + 1
	}
	return next
}

// easyInterval is always at least one day longer than the Good interval.
func easyInterval(ivl, late int, ease float64, policy models.DeckPolicy) int {
	next := roundDays((float64(ivl) + float64(late)) * ease * policy.EasyBonus * policy.IntervalModifier)
	if good := goodInterval(ivl, late, ease, policy); next < good+1 {
		next = good + 1
	}
	return next
}

// lapse records an Again grade on a review card. A card at or past the
// threshold is always flagged; the leech action runs when the card first
// becomes a leech and on every later leech event.
func lapse(c *models.CardSchedule, policy models.DeckPolicy, ivl int, ease float64, now time.Time) {
	wasLeech := c.IsLeech
	c.Lapses++
	c.EaseFactor = math.Max(minEase, ease+againEaseDelta)
	c.PriorIntervalDays = ivl

	if len(policy.RelearningSteps) == 0 {
		toReview(c, lapseInterval(ivl, policy), now)
	} else {
		c.State = models.StateRelearning
		c.StepIndex = 0
		c.Due = now.Add(models.StepDuration(policy.RelearningSteps[0]))
	}

	if policy.LeechThreshold < 1 || c.Lapses < policy.LeechThreshold {
		return
	}
	c.IsLeech = true
	if policy.LeechAction == models.LeechSuspend && (!wasLeech || leechEvent(c.Lapses, policy.LeechThreshold)) {
		c.SuspendedFrom = c.State
		c.State = models.StateSuspended
	}
}

// leechEvent reports whether reaching lapses triggers the leech action: on
// the lapse that reaches threshold, then every half threshold after that.
func leechEvent(lapses, threshold int) bool {
	if threshold < 1 || lapses < threshold {
		return false
	}
	every := threshold / 2
	if every < 1 {
		every = 1
	}
	return (lapses-threshold)%every == 0
}

// lapseInterval is the interval a lapsed card returns to review with.
func lapseInterval(prior int, policy models.DeckPolicy) int {
	ivl := roundDays(float64(prior) * policy.NewIntervalMultiplier)
	if ivl < policy.MinIntervalAfterLapse {
		ivl = policy.MinIntervalAfterLapse
	}
	return clampInterval(ivl, policy.MaxInterval)
}

func toReview(c *models.CardSchedule, ivl int, now time.Time) {
	c.State = models.StateReview
	c.StepIndex = 0
	c.PriorIntervalDays = 0
	c.IntervalDays = ivl
	c.Due = dueInDays(now, ivl)
}

func startingEase(policy models.DeckPolicy) float64 {
	if policy.StartingEase == 0 {
		return defaultEase
	}
	return math.Max(policy.StartingEase, minEase)
}

func roundDays(days float64) int {
	return int(math.Round(days))
}

func clampInterval(days, maxInterval int) int {
	if maxInterval >= 1 && days > maxInterval {
		days = maxInterval
	}
	if days < 1 {
		days = 1
	}
	return days
}
