package billing

import (
	"errors"
	"math"
	"testing"

	"github.com/highfiveapp/highfive_backend/internal/model"
)

func eq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestValuesFor(t *testing.T) {
	rule := &model.CommissionRule{
		OnlinePercent: 10, OnlineFixed: 5,
		CashPercent: 8, CashFixed: 2,
		WalkInPercent: 6, WalkInFixed: 1,
		LinkedPercent: 4, LinkedFixed: 0.5,
		OnlinePublicPercent: 12, OnlinePublicFixed: 7,
		CashPublicPercent: 9, CashPublicFixed: 3,
	}

	tests := []struct {
		bookingType string
		percent     float64
		fixed       float64
	}{
		{model.BookingTypeOnline, 10, 5},
		{model.BookingTypeCash, 8, 2},
		{model.BookingTypeWalkIn, 6, 1},
		{model.BookingTypeLinked, 4, 0.5},
		{model.BookingTypeOnlinePublicTrip, 12, 7},
		{model.BookingTypeCashPublicTrip, 9, 3},
	}
	for _, tt := range tests {
		t.Run(tt.bookingType, func(t *testing.T) {
			percent, fixed, err := ValuesFor(rule, tt.bookingType)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if percent != tt.percent || fixed != tt.fixed {
				t.Errorf("got (%v, %v), want (%v, %v)", percent, fixed, tt.percent, tt.fixed)
			}
		})
	}

	if _, _, err := ValuesFor(rule, "subscription"); !errors.Is(err, ErrInvalidBookingType) {
		t.Errorf("unknown type: got %v, want ErrInvalidBookingType", err)
	}
}

func TestCalculateCommission(t *testing.T) {
	tests := []struct {
		name            string
		percent, fixed  float64
		netBase         float64
		taxRate         float64
		net, tax, total float64
	}{
		// 150.00 tax-included at 15%: net base 150/1.15 = 130.43
		{"ten percent plus five", 10, 5, 130.43, 0.15, 18.04, 2.71, 20.75},
		{"percent only", 10, 0, 100, 0.15, 10, 1.5, 11.5},
		{"fixed only", 0, 25, 200, 0.15, 25, 3.75, 28.75},
		{"zero rule", 0, 0, 100, 0.15, 0, 0, 0},
		{"no tax", 15, 10, 80, 0, 22, 0, 22},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := CalculateCommission(tt.percent, tt.fixed, tt.netBase, tt.taxRate)
			if !eq(c.Net, tt.net) || !eq(c.Tax, tt.tax) || !eq(c.Total, tt.total) {
				t.Errorf("got net=%v tax=%v total=%v, want net=%v tax=%v total=%v",
					c.Net, c.Tax, c.Total, tt.net, tt.tax, tt.total)
			}
			if !eq(c.Total, Round2(c.Net+c.Tax)) {
				t.Errorf("total %v is not net+tax", c.Total)
			}
		})
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, out float64
	}{
		{18.043, 18.04},
		{18.045, 18.05},
		{-18.045, -18.05},
		{2.706, 2.71},
		{0, 0},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); !eq(got, tt.out) {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.out)
		}
	}
}
