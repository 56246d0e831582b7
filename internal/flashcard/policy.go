package flashcard

import (
	"fmt"
	"strings"

	"github.com/vytor/lingodeck/internal/models"
)

// ValidatePolicy checks a deck policy before it is saved. Every violation is
// reported in a single ErrInvalidPolicy error so a settings form can show
// them together.
func ValidatePolicy(p models.DeckPolicy) error {
	var problems []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	check(p.NewPerDay >= 1, "new_per_day must be >= 1, got %d", p.NewPerDay)
	check(p.ReviewPerDay >= 1, "review_per_day must be >= 1, got %d", p.ReviewPerDay)
	check(p.MaxInterval >= 1, "max_interval must be >= 1, got %d", p.MaxInterval)
	check(p.GraduatingInterval >= 1, "graduating_interval must be >= 1, got %d", p.GraduatingInterval)
	check(p.EasyInterval >= 1, "easy_interval must be >= 1, got %d", p.EasyInterval)
	check(p.MinIntervalAfterLapse >= 1, "min_interval_after_lapse must be >= 1, got %d", p.MinIntervalAfterLapse)
	if p.MaxInterval >= 1 {
		check(p.GraduatingInterval <= p.MaxInterval, "graduating_interval %d exceeds max_interval %d", p.GraduatingInterval, p.MaxInterval)
		check(p.EasyInterval <= p.MaxInterval, "easy_interval %d exceeds max_interval %d", p.EasyInterval, p.MaxInterval)
		check(p.MinIntervalAfterLapse <= p.MaxInterval, "min_interval_after_lapse %d exceeds max_interval %d", p.MinIntervalAfterLapse, p.MaxInterval)
	}
	check(p.StartingEase == 0 || p.StartingEase >= minEase, "starting_ease must be >= %.1f, got %g", minEase, p.StartingEase)
	check(p.IntervalModifier > 0, "interval_modifier must be > 0, got %g", p.IntervalModifier)
	check(p.HardIntervalMult >= 0, "hard_interval_mult must be >= 0, got %g", p.HardIntervalMult)
	check(p.EasyBonus >= 1, "easy_bonus must be >= 1, got %g", p.EasyBonus)
	check(p.NewIntervalMultiplier >= 0 && p.NewIntervalMultiplier <= 1, "new_interval_multiplier must be within [0, 1], got %g", p.NewIntervalMultiplier)
	check(p.LeechThreshold >= 1, "leech_threshold must be >= 1, got %d", p.LeechThreshold)

	for i, m := range p.LearningSteps {
		check(m > 0, "learning_steps[%d] must be > 0 minutes, got %g", i, m)
	}
	for i, m := range p.RelearningSteps {
		check(m > 0, "relearning_steps[%d] must be > 0 minutes, got %g", i, m)
	}

	check(oneOf(p.InsertionOrder, models.InsertSequential, models.InsertRandom),
		"insertion_order %q is not supported", p.InsertionOrder)
	check(oneOf(p.LeechAction, models.LeechTag, models.LeechSuspend),
		"leech_action %q is not supported", p.LeechAction)
	check(oneOf(p.NewGatherOrder, models.GatherDeck, models.GatherAscendingPosition, models.GatherDescendingPosition,
		models.GatherRandomNotes, models.GatherRandomCards),
		"new_gather_order %q is not supported", p.NewGatherOrder)
	check(oneOf(p.NewSortOrder, models.NewSortOrderGathered, models.NewSortCardTemplate, models.NewSortRandom),
		"new_sort_order %q is not supported", p.NewSortOrder)
	check(oneOf(p.ReviewSortOrder, models.ReviewSortDueDateThenRandom, models.ReviewSortAscendingIntervals,
		models.ReviewSortDescendingIntervals, models.ReviewSortAscendingEase, models.ReviewSortDescendingEase,
		models.ReviewSortRelativeOverdueness, models.ReviewSortRandom),
		"review_sort_order %q is not supported", p.ReviewSortOrder)
	check(oneOf(p.InterleaveMode, models.InterleaveMix, models.InterleaveNewFirst, models.InterleaveReviewsFirst),
		"interleave_mode %q is not supported", p.InterleaveMode)

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidPolicy, strings.Join(problems, "; "))
	}
	return nil
}

func oneOf[T comparable](v T, allowed ...T) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
