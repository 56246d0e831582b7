package models

import "time"

type InsertionOrder string

const (
	InsertSequential InsertionOrder = "sequential"
	InsertRandom     InsertionOrder = "random"
)

type LeechAction string

const (
	LeechTag     LeechAction = "tag"
	LeechSuspend LeechAction = "suspend"
)

type NewGatherOrder string

const (
	GatherDeck               NewGatherOrder = "deck"
	GatherAscendingPosition  NewGatherOrder = "ascending_position"
	GatherDescendingPosition NewGatherOrder = "descending_position"
	GatherRandomNotes        NewGatherOrder = "random_notes"
	GatherRandomCards        NewGatherOrder = "random_cards"
)

type NewSortOrder string

const (
	NewSortOrderGathered NewSortOrder = "order_gathered"
	NewSortCardTemplate  NewSortOrder = "card_template"
	NewSortRandom        NewSortOrder = "random"
)

type ReviewSortOrder string

const (
	ReviewSortDueDateThenRandom   ReviewSortOrder = "due_date_then_random"
	ReviewSortAscendingIntervals  ReviewSortOrder = "ascending_intervals"
	ReviewSortDescendingIntervals ReviewSortOrder = "descending_intervals"
	ReviewSortAscendingEase       ReviewSortOrder = "ascending_ease"
	ReviewSortDescendingEase      ReviewSortOrder = "descending_ease"
	ReviewSortRelativeOverdueness ReviewSortOrder = "relative_overdueness"
	ReviewSortRandom              ReviewSortOrder = "random"
)

type InterleaveMode string

const (
	InterleaveMix          InterleaveMode = "mix"
	InterleaveNewFirst     InterleaveMode = "new_first"
	InterleaveReviewsFirst InterleaveMode = "reviews_first"
)

// DeckPolicy is the per-deck scheduling configuration. Steps are in minutes,
// intervals in days.
type DeckPolicy struct {
	NewPerDay             int             `json:"new_per_day" yaml:"new_per_day"`
	ReviewPerDay          int             `json:"review_per_day" yaml:"review_per_day"`
	LearningSteps         []float64       `json:"learning_steps" yaml:"learning_steps"`
	GraduatingInterval    int             `json:"graduating_interval" yaml:"graduating_interval"`
	EasyInterval          int             `json:"easy_interval" yaml:"easy_interval"`
	InsertionOrder        InsertionOrder  `json:"insertion_order" yaml:"insertion_order"`
	MaxInterval           int             `json:"max_interval" yaml:"max_interval"`
	StartingEase          float64         `json:"starting_ease" yaml:"starting_ease"`
	IntervalModifier      float64         `json:"interval_modifier" yaml:"interval_modifier"`
	HardIntervalMult      float64         `json:"hard_interval_mult" yaml:"hard_interval_mult"`
	EasyBonus             float64         `json:"easy_bonus" yaml:"easy_bonus"`
	RelearningSteps       []float64       `json:"relearning_steps" yaml:"relearning_steps"`
	MinIntervalAfterLapse int             `json:"min_interval_after_lapse" yaml:"min_interval_after_lapse"`
	NewIntervalMultiplier float64         `json:"new_interval_multiplier" yaml:"new_interval_multiplier"`
	LeechThreshold        int             `json:"leech_threshold" yaml:"leech_threshold"`
	LeechAction           LeechAction     `json:"leech_action" yaml:"leech_action"`
	NewGatherOrder        NewGatherOrder  `json:"new_gather_order" yaml:"new_gather_order"`
	NewSortOrder          NewSortOrder    `json:"new_sort_order" yaml:"new_sort_order"`
	ReviewSortOrder       ReviewSortOrder `json:"review_sort_order" yaml:"review_sort_order"`
	InterleaveMode        InterleaveMode  `json:"interleave_mode" yaml:"interleave_mode"`
	BuryNewSiblings       bool            `json:"bury_new_siblings" yaml:"bury_new_siblings"`
	BuryReviewSiblings    bool            `json:"bury_review_siblings" yaml:"bury_review_siblings"`
}

// DefaultDeckPolicy mirrors the stock settings new decks are created with.
func DefaultDeckPolicy() DeckPolicy {
	return DeckPolicy{
		NewPerDay:             20,
		ReviewPerDay:          200,
		LearningSteps:         []float64{1, 10},
		GraduatingInterval:    1,
		EasyInterval:          4,
		InsertionOrder:        InsertSequential,
		MaxInterval:           36500,
		StartingEase:          2.5,
		IntervalModifier:      1.0,
		HardIntervalMult:      1.2,
		EasyBonus:             1.3,
		RelearningSteps:       []float64{10},
		MinIntervalAfterLapse: 1,
		NewIntervalMultiplier: 0,
		LeechThreshold:        8,
		LeechAction:           LeechTag,
		NewGatherOrder:        GatherDeck,
		NewSortOrder:          NewSortCardTemplate,
		ReviewSortOrder:       ReviewSortDueDateThenRandom,
		InterleaveMode:        InterleaveMix,
		BuryNewSiblings:       false,
		BuryReviewSiblings:    false,
	}
}

// StepDuration converts a step expressed in minutes.
func StepDuration(minutes float64) time.Duration {
	return time.Duration(minutes * float64(time.Minute))
}
