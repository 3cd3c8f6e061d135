package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/highfiveapp/highfive_backend/internal/model"
)

func newTestStores(t *testing.T) *Stores {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	return New(db)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func seedUnit(t *testing.T, s *Stores) *model.Product {
	t.Helper()
	ctx := context.Background()
	partner := &model.Partner{ExternalID: "P-1", Name: "Acme Padel", IsSupplier: true}
	require.NoError(t, s.DB().Create(partner).Error)
	branch := &model.Branch{ExternalID: "B-1", Name: "Riyadh", PartnerID: partner.ID, Active: true}
	require.NoError(t, s.DB().Create(branch).Error)
	unit := &model.Product{ExternalID: "U-1", Name: "Court A", Kind: model.ProductKindUnit, BranchID: &branch.ID, Active: true}
	u, _, err := s.Products.Upsert(ctx, unit)
	require.NoError(t, err)
	return u
}

func TestPartnerUpsertKeepsRoles(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	_, created, err := s.Partners.Upsert(ctx, &model.Partner{
		ExternalID: "P-9", Name: "Sara", IsCustomer: true,
	})
	require.NoError(t, err)
	require.True(t, created)

	updated, created, err := s.Partners.Upsert(ctx, &model.Partner{
		ExternalID: "P-9", Name: "Sara Al-Harbi", IsSupplier: true,
	})
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, "Sara Al-Harbi", updated.Name)
	require.True(t, updated.IsCustomer, "customer flag survives a supplier-only sync")
	require.True(t, updated.IsSupplier)
}

func TestActiveRuleScheduledWinsOverDefault(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()
	unit := seedUnit(t, s)

	def := &model.CommissionRule{
		ExternalID: "CR-D", UnitID: unit.ID, RuleType: model.RuleTypeDefault,
		OnlinePercent: 10, OnlineFixed: 5, Active: true,
	}
	require.NoError(t, s.Commissions.Create(ctx, def))

	sched := &model.CommissionRule{
		ExternalID: "CR-S", UnitID: unit.ID, RuleType: model.RuleTypeScheduled,
		StartDate: datePtr(2026, 3, 1), EndDate: datePtr(2026, 3, 31),
		OnlinePercent: 20, Active: true,
	}
	require.NoError(t, s.Commissions.Create(ctx, sched))

	// Inside the window the scheduled rule wins, boundaries included.
	for _, d := range []time.Time{date(2026, 3, 1), date(2026, 3, 15), date(2026, 3, 31)} {
		rule, err := s.Commissions.ActiveForDate(ctx, unit.ID, d)
		require.NoError(t, err)
		require.Equal(t, "CR-S", rule.ExternalID, "date %s", d)
	}

	// Outside it falls back to the default.
	for _, d := range []time.Time{date(2026, 2, 28), date(2026, 4, 1)} {
		rule, err := s.Commissions.ActiveForDate(ctx, unit.ID, d)
		require.NoError(t, err)
		require.Equal(t, "CR-D", rule.ExternalID, "date %s", d)
	}
}

func TestActiveRuleNoneConfigured(t *testing.T) {
	s := newTestStores(t)
	unit := seedUnit(t, s)

	_, err := s.Commissions.ActiveForDate(context.Background(), unit.ID, date(2026, 3, 1))
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestHasOverlap(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()
	unit := seedUnit(t, s)

	existing := &model.CommissionRule{
		ExternalID: "CR-1", UnitID: unit.ID, RuleType: model.RuleTypeScheduled,
		StartDate: datePtr(2026, 3, 10), EndDate: datePtr(2026, 3, 20), Active: true,
	}
	require.NoError(t, s.Commissions.Create(ctx, existing))

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"fully inside", date(2026, 3, 12), date(2026, 3, 15), true},
		{"touching end boundary", date(2026, 3, 20), date(2026, 3, 25), true},
		{"touching start boundary", date(2026, 3, 5), date(2026, 3, 10), true},
		{"before", date(2026, 3, 1), date(2026, 3, 9), false},
		{"after", date(2026, 3, 21), date(2026, 3, 31), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Commissions.HasOverlap(ctx, unit.ID, tt.start, tt.end, 0)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	// Updating a rule must not collide with itself.
	got, err := s.Commissions.HasOverlap(ctx, unit.ID, date(2026, 3, 12), date(2026, 3, 15), existing.ID)
	require.NoError(t, err)
	require.False(t, got)
}

func TestSequenceNumbering(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		n, err := s.Sequences.Next(ctx, "INV")
		require.NoError(t, err)
		require.Equal(t, want, n)
	}

	// Independent sequences do not share counters.
	n, err := s.Sequences.Next(ctx, "BILL")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestDocumentCreateAndReverse(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	doc := &model.InvoiceDocument{
		DocType:   model.DocCustomerInvoice,
		BookingID: 1,
		PartnerID: 1,
		DocDate:   date(2026, 3, 10),
		TaxScope:  model.TaxScopeSale,
		TaxID:     1,
		State:     model.DocStatePosted,
		Subtotal:  130.43, Tax: 19.57, Total: 150,
		Lines: []model.InvoiceLine{
			{Description: "Court A", Quantity: 1, UnitPrice: 129.25},
			{Description: "Commission BK-000001", Quantity: 1, UnitPrice: 20.75},
		},
	}
	require.NoError(t, s.Documents.Create(ctx, s.Sequences, doc))
	require.Equal(t, "INV-000001", doc.Number)

	reversal, err := s.Documents.CreateReversal(ctx, s.Sequences, doc)
	require.NoError(t, err)
	require.Equal(t, model.DocCustomerCreditNote, reversal.DocType)
	require.Equal(t, "RINV-000001", reversal.Number)
	require.Equal(t, doc.Total, reversal.Total)
	require.Equal(t, &doc.ID, reversal.ReversesID)
	require.Len(t, reversal.Lines, 2)
	require.Equal(t, model.DocStatePosted, reversal.State)
}

func TestTaxFindExactMatchOnly(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	require.NoError(t, s.Taxes.SeedDefaults(ctx, 15))

	tax, err := s.Taxes.Find(ctx, model.TaxScopeSale, 15, true)
	require.NoError(t, err)
	require.Equal(t, model.TaxScopeSale, tax.Scope)

	_, err = s.Taxes.Find(ctx, model.TaxScopeSale, 5, true)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = s.Taxes.Find(ctx, model.TaxScopeSale, 15, false)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
