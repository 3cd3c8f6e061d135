package billing

import (
	"github.com/highfiveapp/highfive_backend/internal/model"
)

// Amounts is the tax breakdown of one booking.
type Amounts struct {
	UnitBasePrice float64
	ServicesTotal float64
	Subtotal      float64
	TaxAmount     float64
	Total         float64
}

// Aggregate folds the booking lines into a tax breakdown. With
// tax-included prices the discounted gross IS the total and the
// subtotal is backed out; with tax-excluded prices tax is added on top.
// An oversized discount produces negative amounts rather than clamping,
// matching the upstream ledger.
func Aggregate(lines []model.BookingLine, discount, taxPercent float64, taxStatus string) (Amounts, error) {
	var unitCount int
	var amounts Amounts
	var gross float64

	for i := range lines {
		line := &lines[i]
		switch line.LineType {
		case model.LineTypeUnit:
			unitCount++
			amounts.UnitBasePrice = line.Gross()
		case model.LineTypeService:
			amounts.ServicesTotal += line.Gross()
		}
		gross += line.Gross()
	}
	if unitCount != 1 {
		return Amounts{}, ErrUnitLineCount
	}

	rate := taxPercent / 100
	if taxStatus == model.TaxIncluded {
		amounts.Total = Round2(gross - discount)
		amounts.Subtotal = Round2(amounts.Total / (1 + rate))
		amounts.TaxAmount = Round2(amounts.Total - amounts.Subtotal)
	} else {
		amounts.Subtotal = Round2(gross - discount)
		amounts.TaxAmount = Round2(amounts.Subtotal * rate)
		amounts.Total = Round2(amounts.Subtotal + amounts.TaxAmount)
	}
	return amounts, nil
}
