package models

import "time"

type Deck struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Policy    DeckPolicy `json:"policy"`
	CreatedAt time.Time  `json:"created_at"`
}

// Note is an authored unit of content. Every card it generates shares the
// note's ID as its sibling group.
type Note struct {
	ID        string    `json:"id"`
	DeckID    int64     `json:"deck_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	Reversed  bool      `json:"reversed"`
	CreatedAt time.Time `json:"created_at"`
}

// Card template ordinals generated from a note.
const (
	TemplateForward  = 0
	TemplateReversed = 1
)

type CardWithNote struct {
	CardSchedule
	Front string `json:"front"`
	Back  string `json:"back"`
}

type DueFilter struct {
	DeckID int64
	AsOf   time.Time
	States []CardState
	Limit  int
}

// StudyQueue is the ordered session for a deck at a point in time.
type StudyQueue struct {
	DeckID  int64     `json:"deck_id"`
	CardIDs []int64   `json:"card_ids"`
	Counts  DayCounts `json:"counts"`
	BuiltAt time.Time `json:"built_at"`
}

// GradedCard is a card graded during a day, with the sibling group it
// belongs to.
type GradedCard struct {
	CardID       int64  `db:"card_id"`
	SiblingGroup string `db:"sibling_group"`
}
