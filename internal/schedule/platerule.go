package schedule

import (
	"time"
)

// restrictionDays maps a plate's last digit to the two weekdays the
// vehicle may not circulate, following the pico y placa convention:
// each digit pair owns a primary day and a second day later in the week,
// so every weekday carries exactly four digits.
var restrictionDays = map[byte][2]time.Weekday{
	'1': {time.Monday, time.Wednesday},
	'2': {time.Monday, time.Wednesday},
	'3': {time.Tuesday, time.Thursday},
	'4': {time.Tuesday, time.Thursday},
	'5': {time.Wednesday, time.Friday},
	'6': {time.Wednesday, time.Friday},
	'7': {time.Thursday, time.Monday},
	'8': {time.Thursday, time.Monday},
	'9': {time.Friday, time.Tuesday},
	'0': {time.Friday, time.Tuesday},
}

// IsPlateRestricted reports whether the vehicle with the given license
// plate is barred from circulating on the date. Pure lookup: the last
// character of the plate selects the restricted weekday pair, weekends
// are never restricted, and plates not ending in a digit are exempt.
func IsPlateRestricted(plate string, date time.Time) bool {
	wd := date.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	if plate == "" {
		return false
	}
	days, ok := restrictionDays[plate[len(plate)-1]]
	if !ok {
		return false
	}
	return wd == days[0] || wd == days[1]
}

// RestrictedWeekdays returns the weekday pair a last digit maps to, and
// whether the character is a digit at all.
func RestrictedWeekdays(lastChar byte) ([2]time.Weekday, bool) {
	days, ok := restrictionDays[lastChar]
	return days, ok
}
