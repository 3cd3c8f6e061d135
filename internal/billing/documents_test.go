package billing

import (
	"errors"
	"testing"
	"time"

	"github.com/highfiveapp/highfive_backend/internal/model"
)

func baseInput() DocumentInput {
	return DocumentInput{
		PaymentMethod: model.PaymentMethodOnline,
		BookingRef:    "BK-000042",
		DocDate:       time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		SupplierID:    3,
		CostCenter:    "BR-RIYADH-01",
		UnitProductID: 11,
		UnitName:      "Padel Court A",
		UnitPriceIncl: 150,
		// 10% + 5 on a 130.43 net base at 15% tax
		CommissionNet:   18.04,
		CommissionTotal: 20.75,
		SaleTax:         TaxInfo{ID: 1, Percent: 15},
		PurchaseTax:     TaxInfo{ID: 2, Percent: 15},
	}
}

func TestBuildDocumentsOnline(t *testing.T) {
	docs, err := BuildDocuments(baseInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}

	invoice, bill := docs[0], docs[1]
	if invoice.DocType != model.DocCustomerInvoice || bill.DocType != model.DocVendorBill {
		t.Fatalf("got doc types %s, %s", invoice.DocType, bill.DocType)
	}
	// Both documents go to the supplier: the invoice nets against the
	// bill, leaving the supplier owing the commission.
	if invoice.PartnerID != 3 {
		t.Errorf("invoice partner = %d, want supplier 3", invoice.PartnerID)
	}
	if bill.PartnerID != 3 {
		t.Errorf("bill partner = %d, want supplier 3", bill.PartnerID)
	}

	// Unit repriced after commission: (150/1.15 - 18.04) * 1.15 = 129.25
	if !eq(invoice.Lines[0].UnitPrice, 129.25) {
		t.Errorf("invoice unit price = %v, want 129.25", invoice.Lines[0].UnitPrice)
	}
	last := invoice.Lines[len(invoice.Lines)-1]
	if last.Description != "Commission BK-000042" || !eq(last.UnitPrice, 20.75) {
		t.Errorf("commission line = %q %v, want Commission BK-000042 at 20.75", last.Description, last.UnitPrice)
	}
	// Repriced unit plus commission restores the customer total.
	if !eq(invoice.Total, 150) {
		t.Errorf("invoice total = %v, want 150", invoice.Total)
	}
	if !eq(invoice.Subtotal, 130.43) || !eq(invoice.Tax, 19.57) {
		t.Errorf("invoice breakdown = %v + %v", invoice.Subtotal, invoice.Tax)
	}

	// The bill carries the unit after commission and no commission line.
	if len(bill.Lines) != 1 {
		t.Fatalf("bill has %d lines, want 1", len(bill.Lines))
	}
	if !eq(bill.Total, 129.25) {
		t.Errorf("bill total = %v, want 129.25", bill.Total)
	}
	if bill.TaxScope != model.TaxScopePurchase || bill.TaxID != 2 {
		t.Errorf("bill tax scope/id = %s/%d", bill.TaxScope, bill.TaxID)
	}

	for _, doc := range docs {
		if !eq(doc.Total, Round2(doc.Subtotal+doc.Tax)) {
			t.Errorf("%s: total %v != subtotal %v + tax %v", doc.DocType, doc.Total, doc.Subtotal, doc.Tax)
		}
		for _, l := range doc.Lines {
			if l.CostCenter != "BR-RIYADH-01" {
				t.Errorf("%s: line %q missing cost center", doc.DocType, l.Description)
			}
		}
	}
}

func TestBuildDocumentsOnlineWithServices(t *testing.T) {
	in := baseInput()
	in.Services = []ServiceItem{
		{ProductID: 21, Name: "Racket rental", Quantity: 2, PriceIncl: 11.5},
	}
	docs, err := BuildDocuments(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	invoice, bill := docs[0], docs[1]
	if len(invoice.Lines) != 3 {
		t.Fatalf("invoice has %d lines, want unit + service + commission", len(invoice.Lines))
	}
	if !eq(invoice.Lines[1].UnitPrice, 11.5) || !eq(invoice.Lines[1].Quantity, 2) {
		t.Errorf("service line = %v x %v", invoice.Lines[1].Quantity, invoice.Lines[1].UnitPrice)
	}
	// 150 + 23 in services
	if !eq(invoice.Total, 173) {
		t.Errorf("invoice total = %v, want 173", invoice.Total)
	}
	if len(bill.Lines) != 2 {
		t.Fatalf("bill has %d lines, want unit + service", len(bill.Lines))
	}
	if !eq(bill.Total, 152.25) {
		t.Errorf("bill total = %v, want 152.25", bill.Total)
	}
}

func TestBuildDocumentsCash(t *testing.T) {
	in := baseInput()
	in.PaymentMethod = model.PaymentMethodCash
	in.CommissionTotal = 25.75

	docs, err := BuildDocuments(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d documents, want 1", len(docs))
	}

	doc := docs[0]
	if doc.DocType != model.DocCustomerInvoice {
		t.Errorf("doc type = %s, want customer invoice", doc.DocType)
	}
	if doc.PartnerID != 3 {
		t.Errorf("partner = %d, want supplier 3", doc.PartnerID)
	}
	if len(doc.Lines) != 1 {
		t.Fatalf("got %d lines, want single commission line", len(doc.Lines))
	}
	if !eq(doc.Lines[0].UnitPrice, 25.75) || !eq(doc.Total, 25.75) {
		t.Errorf("commission line/total = %v/%v, want 25.75", doc.Lines[0].UnitPrice, doc.Total)
	}
	if !eq(doc.Subtotal, 22.39) || !eq(doc.Tax, 3.36) {
		t.Errorf("breakdown = %v + %v, want 22.39 + 3.36", doc.Subtotal, doc.Tax)
	}
}

func TestBuildDocumentsInvalidMethod(t *testing.T) {
	in := baseInput()
	in.PaymentMethod = "voucher"
	if _, err := BuildDocuments(in); !errors.Is(err, ErrInvalidPaymentMethod) {
		t.Errorf("got %v, want ErrInvalidPaymentMethod", err)
	}
}
