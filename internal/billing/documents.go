package billing

import (
	"time"

	"github.com/highfiveapp/highfive_backend/internal/model"
)

// TaxInfo is the resolved tax row a document applies. The caller looks
// these up before building, so a missing configuration fails before any
// document draft exists.
type TaxInfo struct {
	ID      uint
	Percent float64
}

// ServiceItem is one add-on line carried onto the documents unchanged.
type ServiceItem struct {
	ProductID uint
	Name      string
	Quantity  float64
	// PriceIncl is the tax-included unit price.
	PriceIncl float64
}

// DocumentInput is everything BuildDocuments needs. All prices are
// tax-included; callers on tax-excluded bookings gross their lines up
// first.
type DocumentInput struct {
	PaymentMethod string
	BookingRef    string
	DocDate       time.Time

	SupplierID uint
	CostCenter string

	UnitProductID uint
	UnitName      string
	UnitPriceIncl float64

	Services []ServiceItem

	CommissionNet   float64
	CommissionTotal float64

	SaleTax     TaxInfo
	PurchaseTax TaxInfo
}

// LineDraft is an invoice line before persistence.
type LineDraft struct {
	ProductID   *uint
	Description string
	Quantity    float64
	UnitPrice   float64
	CostCenter  string
}

// DocumentDraft is an invoice document before numbering and
// persistence.
type DocumentDraft struct {
	DocType   string
	PartnerID uint
	DocDate   time.Time
	TaxScope  string
	TaxID     uint
	Subtotal  float64
	Tax       float64
	Total     float64
	Lines     []LineDraft
}

// BuildDocuments turns a confirmed booking into its invoice drafts.
//
// Online bookings produce a sales invoice and a vendor bill, both
// addressed to the supplier so they net against each other and the
// supplier is left owing the commission. On both, the unit is repriced
// so the supplier's share excludes the commission: the commission net
// is deducted from the unit's net price and tax is re-applied. The
// sales invoice additionally carries the commission as its own
// tax-included line. Cash bookings produce a single invoice to the
// supplier holding only the commission, since the supplier collected
// the full amount on site.
func BuildDocuments(in DocumentInput) ([]DocumentDraft, error) {
	switch in.PaymentMethod {
	case model.PaymentMethodOnline:
		return buildOnlineDocuments(in), nil
	case model.PaymentMethodCash:
		return []DocumentDraft{buildCashDocument(in)}, nil
	default:
		return nil, ErrInvalidPaymentMethod
	}
}

func buildOnlineDocuments(in DocumentInput) []DocumentDraft {
	saleRate := in.SaleTax.Percent / 100
	unitAfter := Round2((in.UnitPriceIncl/(1+saleRate) - in.CommissionNet) * (1 + saleRate))

	unitID := in.UnitProductID
	invoiceLines := []LineDraft{{
		ProductID:   &unitID,
		Description: in.UnitName,
		Quantity:    1,
		UnitPrice:   unitAfter,
		CostCenter:  in.CostCenter,
	}}
	for _, svc := range in.Services {
		invoiceLines = append(invoiceLines, serviceLine(svc, in.CostCenter))
	}

	invoice := DocumentDraft{
		DocType:   model.DocCustomerInvoice,
		PartnerID: in.SupplierID,
		DocDate:   in.DocDate,
		TaxScope:  model.TaxScopeSale,
		TaxID:     in.SaleTax.ID,
		Lines: append(invoiceLines, LineDraft{
			Description: "Commission " + in.BookingRef,
			Quantity:    1,
			UnitPrice:   in.CommissionTotal,
			CostCenter:  in.CostCenter,
		}),
	}
	fillTotals(&invoice, in.SaleTax.Percent)

	billLines := []LineDraft{{
		ProductID:   &unitID,
		Description: in.UnitName,
		Quantity:    1,
		UnitPrice:   unitAfter,
		CostCenter:  in.CostCenter,
	}}
	for _, svc := range in.Services {
		billLines = append(billLines, serviceLine(svc, in.CostCenter))
	}

	bill := DocumentDraft{
		DocType:   model.DocVendorBill,
		PartnerID: in.SupplierID,
		DocDate:   in.DocDate,
		TaxScope:  model.TaxScopePurchase,
		TaxID:     in.PurchaseTax.ID,
		Lines:     billLines,
	}
	fillTotals(&bill, in.PurchaseTax.Percent)

	return []DocumentDraft{invoice, bill}
}

func buildCashDocument(in DocumentInput) DocumentDraft {
	doc := DocumentDraft{
		DocType:   model.DocCustomerInvoice,
		PartnerID: in.SupplierID,
		DocDate:   in.DocDate,
		TaxScope:  model.TaxScopeSale,
		TaxID:     in.SaleTax.ID,
		Lines: []LineDraft{{
			Description: "Commission " + in.BookingRef,
			Quantity:    1,
			UnitPrice:   in.CommissionTotal,
			CostCenter:  in.CostCenter,
		}},
	}
	fillTotals(&doc, in.SaleTax.Percent)
	return doc
}

func serviceLine(svc ServiceItem, costCenter string) LineDraft {
	id := svc.ProductID
	return LineDraft{
		ProductID:   &id,
		Description: svc.Name,
		Quantity:    svc.Quantity,
		UnitPrice:   svc.PriceIncl,
		CostCenter:  costCenter,
	}
}

// fillTotals derives header amounts from the tax-included lines.
func fillTotals(doc *DocumentDraft, taxPercent float64) {
	var total float64
	for _, l := range doc.Lines {
		total += l.Quantity * l.UnitPrice
	}
	rate := taxPercent / 100
	doc.Total = Round2(total)
	doc.Subtotal = Round2(doc.Total / (1 + rate))
	doc.Tax = Round2(doc.Total - doc.Subtotal)
}
