package domain

import (
	"fmt"
	"time"
)

const (
	DefaultSlotStart = "18:00"
	DefaultSlotEnd   = "22:00"
)

// AvailabilitySlot : créneau hebdomadaire, DayOfWeek 0 = dimanche.
// Les heures sont au format "HH:MM" dans le fuseau du profil.
type AvailabilitySlot struct {
	ID        string
	UserID    string
	DayOfWeek int
	StartTime string
	EndTime   string
	CreatedAt time.Time
}

func NewDefaultSlot(day int) AvailabilitySlot {
	return AvailabilitySlot{DayOfWeek: day, StartTime: DefaultSlotStart, EndTime: DefaultSlotEnd}
}

func (s AvailabilitySlot) Validate() error {
	if s.DayOfWeek < 0 || s.DayOfWeek > 6 {
		return fmt.Errorf("%w: day_of_week must be between 0 and 6", ErrInvalidInput)
	}
	start, err := time.Parse("15:04", s.StartTime)
	if err != nil || start.Format("15:04") != s.StartTime {
		return fmt.Errorf("%w: start_time must be HH:MM", ErrInvalidInput)
	}
	end, err := time.Parse("15:04", s.EndTime)
	if err != nil || end.Format("15:04") != s.EndTime {
		return fmt.Errorf("%w: end_time must be HH:MM", ErrInvalidInput)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end_time before start_time", ErrInvalidInput)
	}
	return nil
}

// Covers : bornes incluses, comme l'indicateur "disponible maintenant".
func (s AvailabilitySlot) Covers(t time.Time) bool {
	if int(t.Weekday()) != s.DayOfWeek {
		return false
	}
	hm := t.Format("15:04")
	return hm >= s.StartTime && hm <= s.EndTime
}

// CurrentSlot renvoie le créneau qui couvre now, évalué dans loc.
func CurrentSlot(slots []AvailabilitySlot, now time.Time, loc *time.Location) (AvailabilitySlot, bool) {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	for _, s := range slots {
		if s.Covers(local) {
			return s, true
		}
	}
	return AvailabilitySlot{}, false
}
