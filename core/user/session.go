package user

import "time"

// Engagement days do not roll over at UTC midnight: the cohort operates on
// IST and a "day" of work ends at the daily session cutover (15:00 IST by
// default). Streaks and token lifetimes are both anchored to that boundary.

// NextSessionCutover returns the earliest cutover instant strictly after now.
func NextSessionCutover(now time.Time, cutoverHour int, tzOffset time.Duration) time.Time {
	loc := time.FixedZone("session", int(tzOffset/time.Second))
	local := now.In(loc)
	cutover := time.Date(local.Year(), local.Month(), local.Day(), cutoverHour, 0, 0, 0, loc)
	if !cutover.After(local) {
		cutover = cutover.AddDate(0, 0, 1)
	}
	return cutover
}

// EngagementDay maps an instant to the day it belongs to for streak
// accounting, normalized to midnight UTC of that day. An instant before the
// cutover still belongs to the previous day.
func EngagementDay(t time.Time, cutoverHour int, tzOffset time.Duration) time.Time {
	loc := time.FixedZone("session", int(tzOffset/time.Second))
	local := t.In(loc)
	if local.Hour() < cutoverHour {
		local = local.AddDate(0, 0, -1)
	}
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// ApplyCheckIn folds a successful login at now into the profile's engagement
// stats: the check-in counter and last-login stamp always move; the streak
// grows only on the first login of a new consecutive day and resets after a
// gap.
func (p Profile) ApplyCheckIn(now time.Time, cutoverHour int, tzOffset time.Duration) Profile {
	today := EngagementDay(now, cutoverHour, tzOffset)

	switch {
	case p.LastLoginAt == nil:
		p.StreakDays = 1
	default:
		last := EngagementDay(*p.LastLoginAt, cutoverHour, tzOffset)
		switch int(today.Sub(last).Hours() / 24) {
		case 0: // repeat login within the same day
		case 1:
			p.StreakDays++
		default:
			p.StreakDays = 1
		}
	}

	p.TotalCheckIns++
	p.LastLoginAt = &now
	return p
}
