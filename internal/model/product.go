package model

import "time"

// Product kinds.
const (
	ProductKindUnit    = "unit"    // bookable space
	ProductKindService = "service" // add-on sold with a booking
)

// Product is either a bookable unit or an add-on service. Only units
// belong to a branch and carry commission rules.
type Product struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	ExternalID string  `gorm:"uniqueIndex;not null" json:"external_id"`
	Name       string  `gorm:"not null" json:"name"`
	Kind       string  `gorm:"index;not null" json:"kind"`
	BasePrice  float64 `json:"base_price"`
	BranchID   *uint   `gorm:"index" json:"branch_id,omitempty"`
	Branch     *Branch `json:"branch,omitempty"`
	Active     bool    `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Commission rule types.
const (
	RuleTypeDefault   = "default"
	RuleTypeScheduled = "scheduled"
)

// Booking type categories. Each maps to its own (percent, fixed) pair
// on the commission rule.
const (
	BookingTypeOnline           = "online_booking"
	BookingTypeCash             = "cash_booking"
	BookingTypeWalkIn           = "walk_in_booking"
	BookingTypeLinked           = "linked_booking"
	BookingTypeOnlinePublicTrip = "online_public_event"
	BookingTypeCashPublicTrip   = "cash_public_event"
)

// CommissionRule prices the platform's cut for one unit. A unit has at
// most one active default rule and any number of scheduled rules whose
// date ranges must not overlap. Dates are inclusive on both ends.
type CommissionRule struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ExternalID string     `gorm:"uniqueIndex;not null" json:"external_id"`
	UnitID     uint       `gorm:"index;not null" json:"unit_id"`
	Unit       Product    `json:"unit,omitempty"`
	RuleType   string     `gorm:"index;not null" json:"rule_type"`
	StartDate  *time.Time `gorm:"type:date" json:"start_date,omitempty"`
	EndDate    *time.Time `gorm:"type:date" json:"end_date,omitempty"`

	OnlinePercent       float64 `json:"online_percent"`
	OnlineFixed         float64 `json:"online_fixed"`
	CashPercent         float64 `json:"cash_percent"`
	CashFixed           float64 `json:"cash_fixed"`
	WalkInPercent       float64 `json:"walk_in_percent"`
	WalkInFixed         float64 `json:"walk_in_fixed"`
	LinkedPercent       float64 `json:"linked_percent"`
	LinkedFixed         float64 `json:"linked_fixed"`
	OnlinePublicPercent float64 `json:"online_public_percent"`
	OnlinePublicFixed   float64 `json:"online_public_fixed"`
	CashPublicPercent   float64 `json:"cash_public_percent"`
	CashPublicFixed     float64 `json:"cash_public_fixed"`

	Active bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DateOnly drops the time-of-day component for day-granularity
// comparisons.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Covers reports whether the rule applies on the given date. Default
// rules always apply. Scheduled rules apply inside [StartDate, EndDate],
// both ends inclusive, compared at day granularity.
func (r *CommissionRule) Covers(date time.Time) bool {
	if r.RuleType == RuleTypeDefault {
		return true
	}
	if r.StartDate == nil || r.EndDate == nil {
		return false
	}
	d := DateOnly(date)
	return !d.Before(DateOnly(*r.StartDate)) && !d.After(DateOnly(*r.EndDate))
}
