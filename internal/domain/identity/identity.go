// Package identity models the authenticated caller and its daily quota snapshot.
package identity

import "time"

// Tier is a subscription level.
type Tier string

// Known tiers. Any other label is treated as free.
const (
	TierFree       Tier = "free"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// Daily ceilings per tier.
const (
	PaidDailyLimit = 1000
	FreeDailyLimit = 5
)

// DayLayout is the calendar-day stamp format.
const DayLayout = "2006-01-02"

// Paid reports whether the tier gets the paid ceiling. Labels match exactly.
func (t Tier) Paid() bool {
	return t == TierPro || t == TierEnterprise
}

// Day is a UTC calendar-day stamp.
type Day string

// DayOf returns the UTC day stamp of t.
func DayOf(t time.Time) Day {
	return Day(t.UTC().Format(DayLayout))
}

// QuotaState is the persisted daily counter of an identity.
type QuotaState struct {
	CountToday int
	LastDay    Day // empty when the identity never made a counted call
}

// CountFor returns the count that applies to today. A stale stamp counts as zero.
func (q QuotaState) CountFor(today Day) int {
	if q.LastDay != today {
		return 0
	}
	return q.CountToday
}

// Next returns the state after one counted call on today.
func (q QuotaState) Next(today Day) QuotaState {
	if q.LastDay != today {
		return QuotaState{CountToday: 1, LastDay: today}
	}
	return QuotaState{CountToday: q.CountToday + 1, LastDay: today}
}

// Identity is resolved once per request: who is calling, on which tier,
// and the quota snapshot the guard decides on.
type Identity struct {
	ID               int64
	Subject          string
	Name             *string
	Email            *string
	Role             string
	Tier             Tier
	Quota            QuotaState
	SelectedAgencyID *int64
}
