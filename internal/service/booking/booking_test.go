package booking

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/highfiveapp/highfive_backend/internal/model"
	"github.com/highfiveapp/highfive_backend/internal/service/commission"
	"github.com/highfiveapp/highfive_backend/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	svc    Service
	rules  commission.Service
	stores *store.Stores
}

func newFixture(t *testing.T, seedTaxes bool) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))

	stores := store.New(db)
	ctx := context.Background()
	if seedTaxes {
		require.NoError(t, stores.Taxes.SeedDefaults(ctx, 15))
	}

	require.NoError(t, db.Create(&model.Partner{ExternalID: "SUP-1", Name: "Acme Padel", IsSupplier: true}).Error)
	require.NoError(t, db.Create(&model.Partner{ExternalID: "CUS-1", Name: "Sara", IsCustomer: true}).Error)

	var supplier model.Partner
	require.NoError(t, db.Where("external_id = ?", "SUP-1").First(&supplier).Error)
	branch := &model.Branch{ExternalID: "BR-1", Name: "Riyadh", PartnerID: supplier.ID, CostCenter: "CC-RUH", Active: true}
	require.NoError(t, db.Create(branch).Error)
	require.NoError(t, db.Create(&model.Product{
		ExternalID: "UNIT-1", Name: "Court A", Kind: model.ProductKindUnit,
		BasePrice: 150, BranchID: &branch.ID, Active: true,
	}).Error)
	require.NoError(t, db.Create(&model.Product{
		ExternalID: "SVC-1", Name: "Racket rental", Kind: model.ProductKindService,
		BasePrice: 11.5, Active: true,
	}).Error)

	logger := discardLogger()
	return &fixture{
		svc:    New(stores, 15, logger),
		rules:  commission.New(stores, nil, 0, logger),
		stores: stores,
	}
}

func (f *fixture) seedDefaultRule(t *testing.T) {
	t.Helper()
	_, _, err := f.rules.Sync(context.Background(), commission.Input{
		ExternalID:     "RULE-D",
		UnitExternalID: "UNIT-1",
		RuleType:       model.RuleTypeDefault,
		Values: commission.Values{
			OnlinePercent: 10, OnlineFixed: 5,
			CashPercent: 15, CashFixed: 10,
		},
	})
	require.NoError(t, err)
}

func onlineBookingInput() Input {
	return Input{
		ExternalID:         "BK-EXT-1",
		BookingDate:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		SessionStart:       14,
		SessionEnd:         15.5,
		CustomerExternalID: "CUS-1",
		PartnerExternalID:  "SUP-1",
		BranchExternalID:   "BR-1",
		UnitExternalID:     "UNIT-1",
		BookingType:        model.BookingTypeOnline,
		PaymentMethod:      model.PaymentMethodOnline,
		UnitPrice:          150,
	}
}

func TestSyncCreatesDraft(t *testing.T) {
	f := newFixture(t, true)
	f.seedDefaultRule(t)
	ctx := context.Background()

	b, err := f.svc.Sync(ctx, onlineBookingInput())
	require.NoError(t, err)
	require.Equal(t, model.BookingStateDraft, b.State)
	require.Equal(t, "BK-000001", b.Reference)
	require.Len(t, b.Lines, 1)
	require.Equal(t, model.LineTypeUnit, b.Lines[0].LineType)

	// Draft bookings are fully rewritable.
	in := onlineBookingInput()
	in.UnitPrice = 200
	in.Services = []ServiceLine{{ExternalID: "SVC-1", Quantity: 2}}
	b, err = f.svc.Sync(ctx, in)
	require.NoError(t, err)
	require.Equal(t, "BK-000001", b.Reference, "reference survives updates")
	require.Len(t, b.Lines, 2)
	require.Equal(t, 200.0, b.Lines[0].UnitPrice)
	require.Equal(t, 11.5, b.Lines[1].UnitPrice, "service price defaults from the catalog")
}

func TestConfirmOnlineBooking(t *testing.T) {
	f := newFixture(t, true)
	f.seedDefaultRule(t)
	ctx := context.Background()

	in := onlineBookingInput()
	in.Status = model.BookingStateConfirmed
	b, err := f.svc.Sync(ctx, in)
	require.NoError(t, err)
	require.Equal(t, model.BookingStateConfirmed, b.State)

	// 150.00 tax-included at 15%, rule 10% + 5.
	require.InDelta(t, 130.43, b.Subtotal, 1e-9)
	require.InDelta(t, 19.57, b.TaxAmount, 1e-9)
	require.InDelta(t, 150.0, b.Total, 1e-9)
	require.InDelta(t, 18.04, b.CommissionNet, 1e-9)
	require.InDelta(t, 2.71, b.CommissionTax, 1e-9)
	require.InDelta(t, 20.75, b.CommissionTotal, 1e-9)
	require.NotNil(t, b.CommissionRuleID)

	docs, err := f.stores.Documents.ListByBooking(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	invoice, bill := docs[0], docs[1]
	require.Equal(t, model.DocCustomerInvoice, invoice.DocType)
	require.Equal(t, "INV-000001", invoice.Number)
	require.Equal(t, model.DocStatePosted, invoice.State)
	require.InDelta(t, 150.0, invoice.Total, 1e-9)
	require.Equal(t, b.PartnerID, invoice.PartnerID, "sales invoice goes to the supplier, not the guest")

	require.Equal(t, model.DocVendorBill, bill.DocType)
	require.Equal(t, "BILL-000001", bill.Number)
	require.InDelta(t, 129.25, bill.Total, 1e-9)
	require.Equal(t, b.PartnerID, bill.PartnerID)

	for _, doc := range docs {
		for _, line := range doc.Lines {
			require.Equal(t, "CC-RUH", line.CostCenter)
		}
	}
}

func TestConfirmCashBookingSingleDocument(t *testing.T) {
	f := newFixture(t, true)
	f.seedDefaultRule(t)
	ctx := context.Background()

	in := onlineBookingInput()
	in.BookingType = model.BookingTypeCash
	in.PaymentMethod = model.PaymentMethodCash
	in.Status = model.BookingStateConfirmed

	b, err := f.svc.Sync(ctx, in)
	require.NoError(t, err)

	// 15% + 10 on a 130.43 net base.
	require.InDelta(t, 29.56, b.CommissionNet, 1e-9)

	docs, err := f.stores.Documents.ListByBooking(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, model.DocCustomerInvoice, docs[0].DocType)
	require.Len(t, docs[0].Lines, 1)
	require.InDelta(t, b.CommissionTotal, docs[0].Total, 1e-9)
}

func TestConfirmWithoutRuleFails(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.svc.Sync(ctx, onlineBookingInput())
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, "BK-EXT-1")
	require.ErrorIs(t, err, commission.ErrNoCommissionConfigured)

	b, err := f.svc.Get(ctx, "BK-EXT-1")
	require.NoError(t, err)
	require.Equal(t, model.BookingStateDraft, b.State)
}

func TestConfirmMissingTaxAbortsCleanly(t *testing.T) {
	f := newFixture(t, false)
	f.seedDefaultRule(t)
	ctx := context.Background()

	_, err := f.svc.Sync(ctx, onlineBookingInput())
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, "BK-EXT-1")
	require.ErrorIs(t, err, ErrTaxConfigurationMissing)

	b, err := f.svc.Get(ctx, "BK-EXT-1")
	require.NoError(t, err)
	require.Equal(t, model.BookingStateDraft, b.State)
	require.Empty(t, b.Documents, "no document survives an aborted confirmation")
	require.Zero(t, b.CommissionTotal)
}

func TestConfirmedBookingIgnoresFinancialUpdates(t *testing.T) {
	f := newFixture(t, true)
	f.seedDefaultRule(t)
	ctx := context.Background()

	in := onlineBookingInput()
	in.Status = model.BookingStateConfirmed
	_, err := f.svc.Sync(ctx, in)
	require.NoError(t, err)

	update := onlineBookingInput()
	update.UnitPrice = 999
	update.Discount = 50
	update.BookingDate = time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	update.Notes = "moved by customer"

	b, err := f.svc.Sync(ctx, update)
	require.NoError(t, err)
	require.True(t, b.BookingDate.Equal(update.BookingDate), "booking date moved")
	require.Equal(t, "moved by customer", b.Notes)
	require.InDelta(t, 150.0, b.Total, 1e-9, "financial fields unchanged")
	require.Zero(t, b.Discount)
}

func TestTerminalBookingRejectsUpdates(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.svc.Sync(ctx, onlineBookingInput())
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, "BK-EXT-1")
	require.NoError(t, err)

	update := onlineBookingInput()
	update.Notes = "too late"
	_, err = f.svc.Sync(ctx, update)
	require.ErrorIs(t, err, ErrInvalidStateTransition)

	b, err := f.svc.Get(ctx, "BK-EXT-1")
	require.NoError(t, err)
	require.Empty(t, b.Notes, "cancelled booking left untouched")
}

func TestPaymentAndRefund(t *testing.T) {
	f := newFixture(t, true)
	f.seedDefaultRule(t)
	ctx := context.Background()

	in := onlineBookingInput()
	in.Status = model.BookingStateConfirmed
	_, err := f.svc.Sync(ctx, in)
	require.NoError(t, err)

	b, err := f.svc.RegisterPayment(ctx, "BK-EXT-1", PaymentInput{TransactionRef: "TXN-9"})
	require.NoError(t, err)
	require.Equal(t, model.PaymentStatePaid, b.PaymentState)

	b, err = f.svc.Refund(ctx, "BK-EXT-1")
	require.NoError(t, err)
	require.Equal(t, model.PaymentStateRefunded, b.PaymentState)
	require.Equal(t, model.BookingStateCancelled, b.State)

	full, err := f.svc.Get(ctx, "BK-EXT-1")
	require.NoError(t, err)

	var creditNotes, outbound int
	for _, doc := range full.Documents {
		if doc.DocType == model.DocCustomerCreditNote || doc.DocType == model.DocVendorCreditNote {
			creditNotes++
			require.NotNil(t, doc.ReversesID)
		}
	}
	for _, p := range full.Payments {
		if p.Direction == model.PaymentOutbound {
			outbound++
			require.InDelta(t, 150.0, p.Amount, 1e-9)
		}
	}
	require.Equal(t, 2, creditNotes, "invoice and bill both reversed")
	require.Equal(t, 1, outbound)
}

func TestPartialPayment(t *testing.T) {
	f := newFixture(t, true)
	f.seedDefaultRule(t)
	ctx := context.Background()

	in := onlineBookingInput()
	in.Status = model.BookingStateConfirmed
	_, err := f.svc.Sync(ctx, in)
	require.NoError(t, err)

	b, err := f.svc.RegisterPayment(ctx, "BK-EXT-1", PaymentInput{Amount: 50})
	require.NoError(t, err)
	require.Equal(t, model.PaymentStatePartial, b.PaymentState)

	b, err = f.svc.RegisterPayment(ctx, "BK-EXT-1", PaymentInput{Amount: 100})
	require.NoError(t, err)
	require.Equal(t, model.PaymentStatePaid, b.PaymentState)
}

func TestCancelConfirmedReversesDocuments(t *testing.T) {
	f := newFixture(t, true)
	f.seedDefaultRule(t)
	ctx := context.Background()

	in := onlineBookingInput()
	in.Status = model.BookingStateConfirmed
	_, err := f.svc.Sync(ctx, in)
	require.NoError(t, err)

	b, err := f.svc.Cancel(ctx, "BK-EXT-1")
	require.NoError(t, err)
	require.Equal(t, model.BookingStateCancelled, b.State)

	full, err := f.svc.Get(ctx, "BK-EXT-1")
	require.NoError(t, err)
	require.Len(t, full.Documents, 4, "two originals plus two credit notes")

	_, err = f.svc.Cancel(ctx, "BK-EXT-1")
	require.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestStateMachine(t *testing.T) {
	f := newFixture(t, true)
	f.seedDefaultRule(t)
	ctx := context.Background()

	in := onlineBookingInput()
	in.Status = model.BookingStateConfirmed
	_, err := f.svc.Sync(ctx, in)
	require.NoError(t, err)

	b, err := f.svc.SetStatus(ctx, "BK-EXT-1", model.BookingStateInProgress)
	require.NoError(t, err)
	require.Equal(t, model.BookingStateInProgress, b.State)

	b, err = f.svc.SetStatus(ctx, "BK-EXT-1", model.BookingStateCompleted)
	require.NoError(t, err)
	require.Equal(t, model.BookingStateCompleted, b.State)

	// Completed is terminal.
	_, err = f.svc.SetStatus(ctx, "BK-EXT-1", model.BookingStateInProgress)
	require.ErrorIs(t, err, ErrInvalidStateTransition)
	_, err = f.svc.Cancel(ctx, "BK-EXT-1")
	require.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestNoShowFromConfirmedOnly(t *testing.T) {
	f := newFixture(t, true)
	f.seedDefaultRule(t)
	ctx := context.Background()

	_, err := f.svc.Sync(ctx, onlineBookingInput())
	require.NoError(t, err)

	_, err = f.svc.SetStatus(ctx, "BK-EXT-1", model.BookingStateNoShow)
	require.ErrorIs(t, err, ErrInvalidStateTransition)

	_, err = f.svc.Confirm(ctx, "BK-EXT-1")
	require.NoError(t, err)

	b, err := f.svc.SetStatus(ctx, "BK-EXT-1", model.BookingStateNoShow)
	require.NoError(t, err)
	require.Equal(t, model.BookingStateNoShow, b.State)
}

func TestSyncValidation(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*Input)
		wantErr error
	}{
		{"missing external id", func(in *Input) { in.ExternalID = "" }, ErrValidation},
		{"unknown booking type", func(in *Input) { in.BookingType = "subscription" }, ErrValidation},
		{"unknown payment method", func(in *Input) { in.PaymentMethod = "voucher" }, ErrValidation},
		{"unknown customer", func(in *Input) { in.CustomerExternalID = "CUS-404" }, ErrCustomerNotFound},
		{"unknown unit", func(in *Input) { in.UnitExternalID = "UNIT-404" }, ErrUnitNotFound},
		{"unknown service", func(in *Input) { in.Services = []ServiceLine{{ExternalID: "SVC-404"}} }, ErrServiceNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := onlineBookingInput()
			tt.mutate(&in)
			_, err := f.svc.Sync(ctx, in)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
