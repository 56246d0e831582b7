package flashcard

import (
	"encoding/binary"
	"hash/fnv"
	"sort"
	"time"

	"github.com/vytor/lingodeck/internal/models"
)

// BuildQueue orders the cards of a study session and returns their IDs.
//
// Learning and relearning cards already due lead the queue. New cards are
// gathered, capped at what is left of NewPerDay and sorted; review cards due
// by the end of today are sorted and capped at what is left of ReviewPerDay.
// The two blocks are then combined according to InterleaveMode. Random orders
// are seeded from now's calendar day, so repeated calls with the same inputs
// on the same day return the same sequence. Suspended cards and cards not
// due yet are skipped.
func BuildQueue(cards []models.CardSchedule, policy models.DeckPolicy, now time.Time, done models.DayCounts) []int64 {
	seed := dayNumber(now)
	endOfDay := StartOfDay(now).AddDate(0, 0, 1)

	var learning, fresh, reviews []models.CardSchedule
	for _, c := range cards {
		switch c.State {
		case models.StateLearning, models.StateRelearning:
			if !c.Due.After(now) {
				learning = append(learning, c)
			}
		case models.StateNew:
			fresh = append(fresh, c)
		case models.StateReview:
			if c.Due.Before(endOfDay) {
				reviews = append(reviews, c)
			}
		}
	}

	sort.Slice(learning, func(i, j int) bool {
		if !learning[i].Due.Equal(learning[j].Due) {
			return learning[i].Due.Before(learning[j].Due)
		}
		return learning[i].CardID < learning[j].CardID
	})

	fresh = gatherNew(fresh, policy.NewGatherOrder, seed)
	fresh = limit(fresh, policy.NewPerDay-done.NewDone)
	fresh = sortNew(fresh, policy.NewSortOrder, seed)

	sortReviews(reviews, policy.ReviewSortOrder, now, seed)
	reviews = limit(reviews, policy.ReviewPerDay-done.ReviewsDone)

	out := make([]int64, 0, len(learning)+len(fresh)+len(reviews))
	for _, c := range learning {
		out = append(out, c.CardID)
	}
	switch policy.InterleaveMode {
	case models.InterleaveNewFirst:
		out = appendIDs(appendIDs(out, fresh), reviews)
	case models.InterleaveReviewsFirst:
		out = appendIDs(appendIDs(out, reviews), fresh)
	default:
		out = roundRobin(out, reviews, fresh)
	}
	return out
}

func limit(cards []models.CardSchedule, n int) []models.CardSchedule {
	if n <= 0 {
		return nil
	}
	if len(cards) > n {
		return cards[:n]
	}
	return cards
}

func appendIDs(out []int64, cards []models.CardSchedule) []int64 {
	for _, c := range cards {
		out = append(out, c.CardID)
	}
	return out
}

// roundRobin alternates between a and b starting with a; once one side runs
// out the rest of the other follows in order.
func roundRobin(out []int64, a, b []models.CardSchedule) []int64 {
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		if i < len(a) {
			out = append(out, a[i].CardID)
			i++
		}
		if j < len(b) {
			out = append(out, b[j].CardID)
			j++
		}
	}
	return out
}

func gatherNew(cards []models.CardSchedule, order models.NewGatherOrder, seed int64) []models.CardSchedule {
	byPosition := func(a, b models.CardSchedule) bool {
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		if a.TemplateOrd != b.TemplateOrd {
			return a.TemplateOrd < b.TemplateOrd
		}
		return a.CardID < b.CardID
	}

	var less func(a, b models.CardSchedule) bool
	switch order {
	case models.GatherAscendingPosition:
		less = byPosition
	case models.GatherDescendingPosition:
		less = func(a, b models.CardSchedule) bool {
			if a.Position != b.Position {
				return a.Position > b.Position
			}
			return byPosition(a, b)
		}
	case models.GatherRandomNotes:
		less = func(a, b models.CardSchedule) bool {
			if a.SiblingGroup != b.SiblingGroup {
				ka, kb := shuffleKey(seed, []byte(a.SiblingGroup)), shuffleKey(seed, []byte(b.SiblingGroup))
				if ka != kb {
					return ka < kb
				}
				return a.SiblingGroup < b.SiblingGroup
			}
			return byPosition(a, b)
		}
	case models.GatherRandomCards:
		less = func(a, b models.CardSchedule) bool {
			return randomLess(seed, a, b)
		}
	default:
		less = func(a, b models.CardSchedule) bool {
			if a.DeckID != b.DeckID {
				return a.DeckID < b.DeckID
			}
			return byPosition(a, b)
		}
	}

	sort.Slice(cards, func(i, j int) bool { return less(cards[i], cards[j]) })
	return cards
}

// sortNew reorders the gathered new cards. The gather order is the final
// tie-break, so "order_gathered" leaves them untouched.
func sortNew(cards []models.CardSchedule, order models.NewSortOrder, seed int64) []models.CardSchedule {
	switch order {
	case models.NewSortCardTemplate:
		sort.SliceStable(cards, func(i, j int) bool {
			return cards[i].TemplateOrd < cards[j].TemplateOrd
		})
	case models.NewSortRandom:
		sort.Slice(cards, func(i, j int) bool {
			return randomLess(seed, cards[i], cards[j])
		})
	}
	return cards
}

func sortReviews(cards []models.CardSchedule, order models.ReviewSortOrder, now time.Time, seed int64) {
	var less func(a, b models.CardSchedule) bool
	switch order {
	case models.ReviewSortAscendingIntervals:
		less = func(a, b models.CardSchedule) bool {
			if a.IntervalDays != b.IntervalDays {
				return a.IntervalDays < b.IntervalDays
			}
			return randomLess(seed, a, b)
		}
	case models.ReviewSortDescendingIntervals:
		less = func(a, b models.CardSchedule) bool {
			if a.IntervalDays != b.IntervalDays {
				return a.IntervalDays > b.IntervalDays
			}
			return randomLess(seed, a, b)
		}
	case models.ReviewSortAscendingEase:
		less = func(a, b models.CardSchedule) bool {
			if a.EaseFactor != b.EaseFactor {
				return a.EaseFactor < b.EaseFactor
			}
			return randomLess(seed, a, b)
		}
	case models.ReviewSortDescendingEase:
		less = func(a, b models.CardSchedule) bool {
			if a.EaseFactor != b.EaseFactor {
				return a.EaseFactor > b.EaseFactor
			}
			return randomLess(seed, a, b)
		}
	case models.ReviewSortRelativeOverdueness:
		less = func(a, b models.CardSchedule) bool {
			oa, ob := RelativeOverdueness(a, now), RelativeOverdueness(b, now)
			if oa != ob {
				return oa > ob
			}
			return randomLess(seed, a, b)
		}
	case models.ReviewSortRandom:
		less = func(a, b models.CardSchedule) bool {
			return randomLess(seed, a, b)
		}
	default:
		less = func(a, b models.CardSchedule) bool {
			da, db := StartOfDay(a.Due), StartOfDay(b.Due)
			if !da.Equal(db) {
				return da.Before(db)
			}
			return randomLess(seed, a, b)
		}
	}
	sort.Slice(cards, func(i, j int) bool { return less(cards[i], cards[j]) })
}

// RelativeOverdueness is (now - due) / intervalDays, in days.
func RelativeOverdueness(c models.CardSchedule, now time.Time) float64 {
	ivl := c.IntervalDays
	if ivl < 1 {
		ivl = 1
	}
	return now.Sub(c.Due).Hours() / 24 / float64(ivl)
}

func randomLess(seed int64, a, b models.CardSchedule) bool {
	ka, kb := cardKey(seed, a.CardID), cardKey(seed, b.CardID)
	if ka != kb {
		return ka < kb
	}
	return a.CardID < b.CardID
}

func cardKey(seed, id int64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(id))
	return shuffleKey(seed, buf[:])
}

func shuffleKey(seed int64, b []byte) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(seed))
	h.Write(buf[:])
	h.Write(b)
	return h.Sum64()
}
