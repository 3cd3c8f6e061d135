package billing

import (
	"github.com/highfiveapp/highfive_backend/internal/model"
)

// Commission is the computed platform cut for one booking.
type Commission struct {
	Percent float64
	Fixed   float64
	Net     float64
	Tax     float64
	Total   float64
}

// ValuesFor picks the (percent, fixed) pair a rule defines for the
// given booking type.
func ValuesFor(rule *model.CommissionRule, bookingType string) (percent, fixed float64, err error) {
	switch bookingType {
	case model.BookingTypeOnline:
		return rule.OnlinePercent, rule.OnlineFixed, nil
	case model.BookingTypeCash:
		return rule.CashPercent, rule.CashFixed, nil
	case model.BookingTypeWalkIn:
		return rule.WalkInPercent, rule.WalkInFixed, nil
	case model.BookingTypeLinked:
		return rule.LinkedPercent, rule.LinkedFixed, nil
	case model.BookingTypeOnlinePublicTrip:
		return rule.OnlinePublicPercent, rule.OnlinePublicFixed, nil
	case model.BookingTypeCashPublicTrip:
		return rule.CashPublicPercent, rule.CashPublicFixed, nil
	default:
		return 0, 0, ErrInvalidBookingType
	}
}

// CalculateCommission applies a (percent, fixed) pair to the net base
// and adds tax on top. Each figure is rounded to two decimals before
// the next step uses it, so Total == Net + Tax holds exactly.
func CalculateCommission(percent, fixed, netBase, taxRate float64) Commission {
	net := Round2(netBase*(percent/100) + fixed)
	tax := Round2(net * taxRate)
	return Commission{
		Percent: percent,
		Fixed:   fixed,
		Net:     net,
		Tax:     tax,
		Total:   Round2(net + tax),
	}
}
