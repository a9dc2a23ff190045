package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/KevinMitsi/MotorX-backend-sub001/internal/models"
)

const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04"
)

// Workshop day constants. The shop runs in a single fixed locale, so all
// clock values are naive local times composed onto the requested date.
const (
	WorkdayStart = "08:00"
	WorkdayEnd   = "18:00"
	LunchStart   = "12:00"
	LunchEnd     = "13:00"

	// Latest arrival times for the morning and afternoon sessions.
	MorningDeadline   = "09:30"
	AfternoonDeadline = "15:30"

	// Slots starting at or after this clock belong to the afternoon session.
	afternoonBoundary = "12:00"
)

const autecoBrand = "auteco"

type typeRule struct {
	duration     time.Duration
	morning      []string
	afternoon    []string
	autecoOnly   bool
	userBookable bool
}

// rules is the single source of truth for per-type scheduling policy.
// An empty slot list means the type is never directly bookable through
// the standard path (REWORK is redirected, UNPLANNED is admin-entered at
// an arbitrary time).
var rules = map[models.AppointmentType]typeRule{
	models.TypeOilChange: {
		duration:     30 * time.Minute,
		morning:      []string{"08:00", "08:30", "09:00", "09:30", "10:00", "10:30", "11:00", "11:30"},
		afternoon:    []string{"14:00", "14:30", "15:00", "15:30", "16:00", "16:30"},
		userBookable: true,
	},
	models.TypeQuickService: {
		duration:     time.Hour,
		morning:      []string{"08:00", "09:00", "10:00", "11:00"},
		afternoon:    []string{"13:00", "14:00", "15:00", "16:00"},
		userBookable: true,
	},
	models.TypeMaintenance: {
		duration:     2 * time.Hour,
		morning:      []string{"08:00", "10:00"},
		afternoon:    []string{"13:00", "15:00"},
		userBookable: true,
	},
	models.TypeManualWarrantyReview: {
		duration:     time.Hour,
		morning:      []string{"09:00", "10:00"},
		afternoon:    []string{"14:00", "15:00"},
		autecoOnly:   true,
		userBookable: true,
	},
	models.TypeAutecoWarranty: {
		duration:     time.Hour,
		morning:      []string{"08:00", "09:00", "10:00"},
		afternoon:    []string{"13:00", "14:00", "15:00"},
		autecoOnly:   true,
		userBookable: true,
	},
	models.TypeUnplanned: {
		duration: time.Hour,
	},
	models.TypeRework: {},
}

// Duration returns the fixed service duration for the type.
func Duration(t models.AppointmentType) time.Duration {
	return rules[t].duration
}

// ValidSlots returns the type's bookable start times in chronological
// order, morning before afternoon. Empty means not directly bookable.
func ValidSlots(t models.AppointmentType) []string {
	r := rules[t]
	out := make([]string, 0, len(r.morning)+len(r.afternoon))
	out = append(out, r.morning...)
	out = append(out, r.afternoon...)
	return out
}

func IsValidSlot(t models.AppointmentType, start string) bool {
	for _, s := range ValidSlots(t) {
		if s == start {
			return true
		}
	}
	return false
}

// IsBrandEligible applies the Auteco-only gate on warranty types. The
// comparison is a trimmed, case-insensitive exact match; alias names do
// not qualify.
func IsBrandEligible(t models.AppointmentType, brand string) bool {
	if !rules[t].autecoOnly {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(brand), autecoBrand)
}

// IsUserBookable reports whether clients may request the type directly.
// UNPLANNED is admin-only and REWORK goes through the contact workflow.
func IsUserBookable(t models.AppointmentType) bool {
	return rules[t].userBookable
}

// ReceptionDeadline returns the latest arrival time for the session the
// slot belongs to: morning slots use the morning deadline, afternoon
// slots the afternoon one.
func ReceptionDeadline(date time.Time, start string) time.Time {
	if start < afternoonBoundary {
		return mustAt(date, MorningDeadline)
	}
	return mustAt(date, AfternoonDeadline)
}

// inLunchBreak reports whether [start, end) intersects the lunch
// blackout. The slot tables are authored to avoid it; this backs the
// rule-table sanity checks.
func inLunchBreak(start, end time.Time) bool {
	ls := mustAt(start, LunchStart)
	le := mustAt(start, LunchEnd)
	return start.Before(le) && end.After(ls)
}

// SlotWindow composes the concrete [start, end) window for a slot start
// on the given date using the type's fixed duration.
func SlotWindow(date time.Time, start string, t models.AppointmentType) (time.Time, time.Time, error) {
	s, err := At(date, start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	d := rules[t].duration
	if d <= 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("type %s has no slot duration", t)
	}
	return s, s.Add(d), nil
}

// At composes a clock value in TimeFormat onto the date's calendar day.
func At(date time.Time, clock string) (time.Time, error) {
	c, err := time.Parse(TimeFormat, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour(), c.Minute(), 0, 0, date.Location()), nil
}

func mustAt(date time.Time, clock string) time.Time {
	t, err := At(date, clock)
	if err != nil {
		panic(err)
	}
	return t
}
