package flashcard

import (
	"sync"
	"time"

	"github.com/vytor/lingodeck/internal/models"
)

// BuryTracker remembers which sibling groups were studied on each calendar
// day so the rest of their cards can be held back until the day is over. It
// is the session side of sibling burying; Schedule itself never looks at
// siblings.
//
// Days are the calendar day of the now passed in, in now's location, so
// callers studying in different time zones keep separate sets. A day is
// forgotten once it has ended.
type BuryTracker struct {
	mu   sync.Mutex
	days map[int64]*buryDay
}

type buryDay struct {
	end    time.Time
	loaded bool
	seen   map[string]map[int64]struct{}
}

func NewBuryTracker() *BuryTracker {
	return &BuryTracker{days: make(map[int64]*buryDay)}
}

// Mark records that cardID of group was graded at now.
func (t *BuryTracker) Mark(group string, cardID int64, now time.Time) {
	if group == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pruneLocked(now)
	t.dayLocked(now).mark(group, cardID)
}

// Loaded reports whether the graded cards of now's day were restored with
// Load since the tracker was created.
func (t *BuryTracker) Loaded(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	d, ok := t.days[StartOfDay(now).Unix()]
	return ok && d.loaded
}

// Load merges cards graded earlier on now's day, typically read back from
// the review log after a restart.
func (t *BuryTracker) Load(now time.Time, graded []models.GradedCard) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pruneLocked(now)
	d := t.dayLocked(now)
	for _, g := range graded {
		if g.SiblingGroup != "" {
			d.mark(g.SiblingGroup, g.CardID)
		}
	}
	d.loaded = true
}

// Filter drops cards whose sibling was graded on now's day, according to the
// deck's bury flags. New siblings are buried by BuryNewSiblings and review
// siblings by BuryReviewSiblings; learning cards are never buried. The graded
// cards themselves are kept.
func (t *BuryTracker) Filter(cards []models.CardSchedule, policy models.DeckPolicy, now time.Time) []models.CardSchedule {
	if !policy.BuryNewSiblings && !policy.BuryReviewSiblings {
		return cards
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pruneLocked(now)
	d, ok := t.days[StartOfDay(now).Unix()]
	if !ok || len(d.seen) == 0 {
		return cards
	}

	out := make([]models.CardSchedule, 0, len(cards))
	for _, c := range cards {
		if d.buried(c, policy) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Reset forgets every day that ended at or before now.
func (t *BuryTracker) Reset(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pruneLocked(now)
}

// Groups returns how many sibling groups are currently buried across all
// tracked days.
func (t *BuryTracker) Groups() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for _, d := range t.days {
		n += len(d.seen)
	}
	return n
}

func (t *BuryTracker) dayLocked(now time.Time) *buryDay {
	start := StartOfDay(now)
	d, ok := t.days[start.Unix()]
	if !ok {
		d = &buryDay{end: start.AddDate(0, 0, 1), seen: make(map[string]map[int64]struct{})}
		t.days[start.Unix()] = d
	}
	return d
}

func (t *BuryTracker) pruneLocked(now time.Time) {
	for key, d := range t.days {
		if !now.Before(d.end) {
			delete(t.days, key)
		}
	}
}

func (d *buryDay) mark(group string, cardID int64) {
	ids, ok := d.seen[group]
	if !ok {
		ids = make(map[int64]struct{})
		d.seen[group] = ids
	}
	ids[cardID] = struct{}{}
}

func (d *buryDay) buried(c models.CardSchedule, policy models.DeckPolicy) bool {
	ids, ok := d.seen[c.SiblingGroup]
	if !ok {
		return false
	}
	if _, graded := ids[c.CardID]; graded {
		return false
	}
	switch c.State {
	case models.StateNew:
		return policy.BuryNewSiblings
	case models.StateReview:
		return policy.BuryReviewSiblings
	}
	return false
}
