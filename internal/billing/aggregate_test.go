package billing

import (
	"errors"
	"testing"

	"github.com/highfiveapp/highfive_backend/internal/model"
)

func unitLine(price float64) model.BookingLine {
	return model.BookingLine{LineType: model.LineTypeUnit, Quantity: 1, UnitPrice: price}
}

func serviceItem(qty, price float64) model.BookingLine {
	return model.BookingLine{LineType: model.LineTypeService, Quantity: qty, UnitPrice: price}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name       string
		lines      []model.BookingLine
		discount   float64
		taxPercent float64
		taxStatus  string
		want       Amounts
	}{
		{
			name:       "tax included unit only",
			lines:      []model.BookingLine{unitLine(150)},
			taxPercent: 15,
			taxStatus:  model.TaxIncluded,
			want:       Amounts{UnitBasePrice: 150, Subtotal: 130.43, TaxAmount: 19.57, Total: 150},
		},
		{
			name:       "tax excluded unit only",
			lines:      []model.BookingLine{unitLine(100)},
			taxPercent: 15,
			taxStatus:  model.TaxExcluded,
			want:       Amounts{UnitBasePrice: 100, Subtotal: 100, TaxAmount: 15, Total: 115},
		},
		{
			name:       "included with services and discount",
			lines:      []model.BookingLine{unitLine(200), serviceItem(2, 25)},
			discount:   30,
			taxPercent: 15,
			taxStatus:  model.TaxIncluded,
			want:       Amounts{UnitBasePrice: 200, ServicesTotal: 50, Subtotal: 191.3, TaxAmount: 28.7, Total: 220},
		},
		{
			name:       "oversized discount goes negative",
			lines:      []model.BookingLine{unitLine(50)},
			discount:   80,
			taxPercent: 15,
			taxStatus:  model.TaxIncluded,
			want:       Amounts{UnitBasePrice: 50, Subtotal: -26.09, TaxAmount: -3.91, Total: -30},
		},
		{
			name:       "zero tax rate",
			lines:      []model.BookingLine{unitLine(75)},
			taxPercent: 0,
			taxStatus:  model.TaxIncluded,
			want:       Amounts{UnitBasePrice: 75, Subtotal: 75, TaxAmount: 0, Total: 75},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Aggregate(tt.lines, tt.discount, tt.taxPercent, tt.taxStatus)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !eq(got.UnitBasePrice, tt.want.UnitBasePrice) ||
				!eq(got.ServicesTotal, tt.want.ServicesTotal) ||
				!eq(got.Subtotal, tt.want.Subtotal) ||
				!eq(got.TaxAmount, tt.want.TaxAmount) ||
				!eq(got.Total, tt.want.Total) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if !eq(got.Total, Round2(got.Subtotal+got.TaxAmount)) {
				t.Errorf("total %v != subtotal %v + tax %v", got.Total, got.Subtotal, got.TaxAmount)
			}
		})
	}
}

func TestAggregateUnitLineCount(t *testing.T) {
	tests := []struct {
		name  string
		lines []model.BookingLine
	}{
		{"no unit line", []model.BookingLine{serviceItem(1, 10)}},
		{"two unit lines", []model.BookingLine{unitLine(100), unitLine(50)}},
		{"empty", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Aggregate(tt.lines, 0, 15, model.TaxIncluded); !errors.Is(err, ErrUnitLineCount) {
				t.Errorf("got %v, want ErrUnitLineCount", err)
			}
		})
	}
}
