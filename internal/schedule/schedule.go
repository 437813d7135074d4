// Package schedule holds the pure watering-schedule logic: urgency
// classification, priority ordering, and due-date arithmetic. Nothing in
// this package touches storage or logs.
package schedule

import (
	"sort"
	"strings"
	"time"

	"github.com/leafkeep/leafkeep/internal/model"
)

// Urgency classifies a plant's watering need relative to now.
type Urgency string

const (
	Overdue     Urgency = "overdue"
	DueToday    Urgency = "due_today"
	Upcoming    Urgency = "upcoming"
	Unscheduled Urgency = "unscheduled"
)

// Classify buckets a plant's next due date against the calendar day of now.
// A nil due date means the plant has never been scheduled.
func Classify(nextDue *time.Time, now time.Time) Urgency {
	if nextDue == nil {
		return Unscheduled
	}

	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)

	due := nextDue.In(now.Location())
	switch {
	case due.Before(today):
		return Overdue
	case due.Before(tomorrow):
		return DueToday
	default:
		return Upcoming
	}
}

// NextDueDate returns from advanced by the watering cadence. Whole calendar
// days, so the result keeps the same clock time across DST transitions.
func NextDueDate(from time.Time, waterFrequencyDays int) time.Time {
	return from.AddDate(0, 0, waterFrequencyDays)
}

// PriorityOrder sorts plants by watering urgency, most attention-needing
// first. The sort is stable: plants equal under every rule keep their input
// order.
//
// Rules, in order:
//   - scheduled plants before unscheduled; unscheduled order by name
//   - overdue before due-today before upcoming
//   - within overdue, oldest due date first (most overdue)
//   - within upcoming, soonest due date first
func PriorityOrder(plants []model.PlantWithRoom, now time.Time) []model.PlantWithRoom {
	sorted := make([]model.PlantWithRoom, len(plants))
	copy(sorted, plants)

	sort.SliceStable(sorted, func(i, j int) bool {
		return Less(sorted[i].Plant, sorted[j].Plant, now)
	})
	return sorted
}

// Less is the watering-priority comparator shared by every sorted view.
func Less(a, b model.Plant, now time.Time) bool {
	switch {
	case a.NextWaterDueAt == nil && b.NextWaterDueAt == nil:
		return strings.Compare(a.Name, b.Name) < 0
	case a.NextWaterDueAt == nil:
		return false
	case b.NextWaterDueAt == nil:
		return true
	}

	ua := Classify(a.NextWaterDueAt, now)
	ub := Classify(b.NextWaterDueAt, now)
	if ua != ub {
		return rank(ua) < rank(ub)
	}

	if ua == DueToday {
		// Same calendar day; leave the stable sort to preserve input order.
		return false
	}
	return a.NextWaterDueAt.Before(*b.NextWaterDueAt)
}

func rank(u Urgency) int {
	switch u {
	case Overdue:
		return 0
	case DueToday:
		return 1
	case Upcoming:
		return 2
	default:
		return 3
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
