package models

import (
	"fmt"
	"strings"
	"time"
)

// CardState is the scheduling stage of a card.
type CardState string

const (
	StateNew        CardState = "new"
	StateLearning   CardState = "learning"
	StateReview     CardState = "review"
	StateRelearning CardState = "relearning"
	StateSuspended  CardState = "suspended"
)

func (s CardState) IsValid() bool {
	switch s {
	case StateNew, StateLearning, StateReview, StateRelearning, StateSuspended:
		return true
	}
	return false
}

// Grade is the learner's self-assessed recall quality.
type Grade int

const (
	Again Grade = iota + 1
	Hard
	Good
	Easy
)

var gradeNames = [...]string{Again: "again", Hard: "hard", Good: "good", Easy: "easy"}

// Grades lists every valid grade in ascending order.
var Grades = []Grade{Again, Hard, Good, Easy}

func (g Grade) IsValid() bool {
	return g >= Again && g <= Easy
}

func (g Grade) String() string {
	if g.IsValid() {
		return gradeNames[g]
	}
	return fmt.Sprintf("Grade(%d)", int(g))
}

// ParseGrade accepts a grade name ("good") or its number ("3").
func ParseGrade(s string) (Grade, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, g := range Grades {
		if s == gradeNames[g] || s == fmt.Sprint(int(g)) {
			return g, true
		}
	}
	return 0, false
}

// CardSchedule is the per-card scheduling state.
type CardSchedule struct {
	CardID            int64      `json:"card_id"`
	DeckID            int64      `json:"deck_id"`
	SiblingGroup      string     `json:"sibling_group"`
	TemplateOrd       int        `json:"template_ord"`
	Position          int        `json:"position"`
	State             CardState  `json:"state"`
	SuspendedFrom     CardState  `json:"suspended_from,omitempty"`
	Due               time.Time  `json:"due"`
	StepIndex         int        `json:"step_index"`
	IntervalDays      int        `json:"interval_days"`
	PriorIntervalDays int        `json:"prior_interval_days"`
	EaseFactor        float64    `json:"ease_factor"`
	Reps              int        `json:"reps"`
	Lapses            int        `json:"lapses"`
	IsLeech           bool       `json:"is_leech"`
	LastReview        *time.Time `json:"last_review"`
	Version           int64      `json:"version"`
	CreatedAt         time.Time  `json:"created_at"`
}

type ReviewLog struct {
	ID             int64         `json:"id"`
	CardID         int64         `json:"card_id"`
	DeckID         int64         `json:"deck_id"`
	Grade          Grade         `json:"grade"`
	StateBefore    CardState     `json:"state_before"`
	StateAfter     CardState     `json:"state_after"`
	IntervalBefore int           `json:"interval_before"`
	IntervalAfter  int           `json:"interval_after"`
	EaseFactor     float64       `json:"ease_factor"`
	TimeTaken      time.Duration `json:"time_taken"`
	ReviewedAt     time.Time     `json:"reviewed_at"`
}

// DayCounts is how much of a deck's daily throughput is already used.
type DayCounts struct {
	NewDone     int `json:"new_done"`
	ReviewsDone int `json:"reviews_done"`
}

type DeckStat struct {
	TotalCards      int     `json:"total_cards" db:"total_cards"`
	NewCards        int     `json:"new_cards" db:"new_cards"`
	LearningCards   int     `json:"learning_cards" db:"learning_cards"`
	ReviewCards     int     `json:"review_cards" db:"review_cards"`
	SuspendedCards  int     `json:"suspended_cards" db:"suspended_cards"`
	Leeches         int     `json:"leeches" db:"leeches"`
	DueToday        int     `json:"due_today" db:"due_today"`
	AvgEaseFactor   float64 `json:"avg_ease_factor" db:"avg_ease_factor"`
	AvgIntervalDays float64 `json:"avg_interval_days" db:"avg_interval_days"`
	ReviewsToday    int     `json:"reviews_today" db:"reviews_today"`
	RetentionToday  float64 `json:"retention_today" db:"retention_today"`
}
