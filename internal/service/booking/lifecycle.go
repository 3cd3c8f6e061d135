package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/highfiveapp/highfive_backend/internal/billing"
	"github.com/highfiveapp/highfive_backend/internal/model"
	"github.com/highfiveapp/highfive_backend/internal/service/commission"
	"github.com/highfiveapp/highfive_backend/internal/store"
)

func (s *service) Confirm(ctx context.Context, externalID string) (*model.Booking, error) {
	var confirmed *model.Booking
	err := s.stores.Transaction(ctx, func(tx *store.Stores) error {
		b, err := tx.Bookings.GetByExternalID(ctx, externalID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrBookingNotFound, externalID)
		}
		if err != nil {
			return fmt.Errorf("loading booking %s: %w", externalID, err)
		}
		if b.State != model.BookingStateDraft {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, b.State, model.BookingStateConfirmed)
		}

		rule, err := s.resolveRule(ctx, tx, b)
		if err != nil {
			return err
		}

		amounts, err := billing.Aggregate(b.Lines, b.Discount, b.TaxPercent, b.TaxStatus)
		if err != nil {
			return err
		}

		percent, fixed, err := billing.ValuesFor(rule, b.BookingType)
		if err != nil {
			return err
		}
		comm := billing.CalculateCommission(percent, fixed, amounts.Subtotal, b.TaxPercent/100)
		if comm.Total <= 0 {
			return fmt.Errorf("%w: booking %s", ErrCommissionNotPositive, externalID)
		}

		// Taxes are resolved before any document is built, so a
		// missing configuration aborts with nothing written.
		saleTax, err := tx.Taxes.Find(ctx, model.TaxScopeSale, b.TaxPercent, true)
		if err != nil {
			return fmt.Errorf("%w: sale %.0f%% price-included", ErrTaxConfigurationMissing, b.TaxPercent)
		}
		var purchaseTax *model.Tax
		if b.PaymentMethod == model.PaymentMethodOnline {
			purchaseTax, err = tx.Taxes.Find(ctx, model.TaxScopePurchase, b.TaxPercent, true)
			if err != nil {
				return fmt.Errorf("%w: purchase %.0f%% price-included", ErrTaxConfigurationMissing, b.TaxPercent)
			}
		}

		docInput, err := s.documentInput(ctx, tx, b, comm, saleTax, purchaseTax)
		if err != nil {
			return err
		}
		drafts, err := billing.BuildDocuments(docInput)
		if err != nil {
			return err
		}

		for _, draft := range drafts {
			doc := &model.InvoiceDocument{
				DocType:   draft.DocType,
				BookingID: b.ID,
				PartnerID: draft.PartnerID,
				DocDate:   draft.DocDate,
				TaxScope:  draft.TaxScope,
				TaxID:     draft.TaxID,
				State:     model.DocStatePosted,
				Subtotal:  draft.Subtotal,
				Tax:       draft.Tax,
				Total:     draft.Total,
			}
			for _, l := range draft.Lines {
				doc.Lines = append(doc.Lines, model.InvoiceLine{
					ProductID:   l.ProductID,
					Description: l.Description,
					Quantity:    l.Quantity,
					UnitPrice:   l.UnitPrice,
					CostCenter:  l.CostCenter,
				})
			}
			if err := tx.Documents.Create(ctx, tx.Sequences, doc); err != nil {
				return fmt.Errorf("creating %s: %w", draft.DocType, err)
			}
		}

		b.Subtotal = amounts.Subtotal
		b.TaxAmount = amounts.TaxAmount
		b.Total = amounts.Total
		b.CommissionRuleID = &rule.ID
		b.CommissionPct = comm.Percent
		b.CommissionFixed = comm.Fixed
		b.CommissionNet = comm.Net
		b.CommissionTax = comm.Tax
		b.CommissionTotal = comm.Total
		b.State = model.BookingStateConfirmed
		if err := tx.Bookings.Save(ctx, b); err != nil {
			return fmt.Errorf("confirming booking %s: %w", externalID, err)
		}

		confirmed = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking confirmed",
		"external_id", confirmed.ExternalID,
		"reference", confirmed.Reference,
		"total", confirmed.Total,
		"commission_total", confirmed.CommissionTotal,
	)
	return confirmed, nil
}

// resolveRule prefers the rule the platform synced on the booking and
// falls back to the unit's active rule on the booking date.
func (s *service) resolveRule(ctx context.Context, tx *store.Stores, b *model.Booking) (*model.CommissionRule, error) {
	if b.CommissionRuleID != nil {
		rule, err := tx.Commissions.GetByID(ctx, *b.CommissionRuleID)
		if err != nil {
			return nil, fmt.Errorf("loading commission rule %d: %w", *b.CommissionRuleID, err)
		}
		return rule, nil
	}
	rule, err := tx.Commissions.ActiveForDate(ctx, b.UnitID, b.BookingDate)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: unit %d", commission.ErrNoCommissionConfigured, b.UnitID)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving active rule: %w", err)
	}
	return rule, nil
}

// documentInput assembles the pure builder's input from the booking.
// Line prices are converted to tax-included when the booking carries
// tax-excluded prices.
func (s *service) documentInput(ctx context.Context, tx *store.Stores, b *model.Booking, comm billing.Commission, saleTax, purchaseTax *model.Tax) (billing.DocumentInput, error) {
	rate := b.TaxPercent / 100
	grossUp := func(price float64) float64 {
		if b.TaxStatus == model.TaxExcluded {
			return billing.Round2(price * (1 + rate))
		}
		return price
	}

	br, err := tx.Branches.GetByID(ctx, b.BranchID)
	if err != nil {
		return billing.DocumentInput{}, fmt.Errorf("loading branch %d: %w", b.BranchID, err)
	}

	in := billing.DocumentInput{
		PaymentMethod:   b.PaymentMethod,
		BookingRef:      b.Reference,
		DocDate:         b.BookingDate,
		SupplierID:      b.PartnerID,
		CostCenter:      br.CostCenter,
		CommissionNet:   comm.Net,
		CommissionTotal: comm.Total,
		SaleTax:         billing.TaxInfo{ID: saleTax.ID, Percent: saleTax.Percent},
	}
	if purchaseTax != nil {
		in.PurchaseTax = billing.TaxInfo{ID: purchaseTax.ID, Percent: purchaseTax.Percent}
	}

	for _, line := range b.Lines {
		switch line.LineType {
		case model.LineTypeUnit:
			in.UnitProductID = line.ProductID
			in.UnitName = line.Name
			in.UnitPriceIncl = grossUp(line.Gross())
		case model.LineTypeService:
			in.Services = append(in.Services, billing.ServiceItem{
				ProductID: line.ProductID,
				Name:      line.Name,
				Quantity:  line.Quantity,
				PriceIncl: grossUp(line.UnitPrice),
			})
		}
	}
	return in, nil
}

func (s *service) RegisterPayment(ctx context.Context, externalID string, in PaymentInput) (*model.Booking, error) {
	var updated *model.Booking
	err := s.stores.Transaction(ctx, func(tx *store.Stores) error {
		b, err := tx.Bookings.GetByExternalID(ctx, externalID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrBookingNotFound, externalID)
		}
		if err != nil {
			return fmt.Errorf("loading booking %s: %w", externalID, err)
		}
		if b.State != model.BookingStateConfirmed {
			return fmt.Errorf("%w: payment on %s booking", ErrInvalidStateTransition, b.State)
		}

		invoice, err := s.postedCustomerInvoice(ctx, tx, b)
		if err != nil {
			return err
		}

		amount := in.Amount
		if amount == 0 {
			amount = invoice.Total
		}
		date := in.Date
		if date.IsZero() {
			date = time.Now()
		}

		payment := &model.Payment{
			BookingID:      b.ID,
			DocumentID:     &invoice.ID,
			Direction:      model.PaymentInbound,
			Amount:         amount,
			Date:           date,
			CardAmount:     in.CardAmount,
			WalletAmount:   in.WalletAmount,
			CouponAmount:   in.CouponAmount,
			TransactionRef: in.TransactionRef,
			State:          model.PaymentDocPosted,
		}
		if err := tx.Payments.Create(ctx, payment); err != nil {
			return fmt.Errorf("recording payment: %w", err)
		}

		paid, err := s.paidTotal(ctx, tx, b.ID)
		if err != nil {
			return err
		}
		if paid >= invoice.Total {
			b.PaymentState = model.PaymentStatePaid
		} else {
			b.PaymentState = model.PaymentStatePartial
		}
		if err := tx.Bookings.Save(ctx, b); err != nil {
			return fmt.Errorf("updating payment state: %w", err)
		}

		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment registered",
		"external_id", updated.ExternalID,
		"payment_state", updated.PaymentState,
	)
	return updated, nil
}

func (s *service) Refund(ctx context.Context, externalID string) (*model.Booking, error) {
	var updated *model.Booking
	err := s.stores.Transaction(ctx, func(tx *store.Stores) error {
		b, err := tx.Bookings.GetByExternalID(ctx, externalID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrBookingNotFound, externalID)
		}
		if err != nil {
			return fmt.Errorf("loading booking %s: %w", externalID, err)
		}
		if b.PaymentState != model.PaymentStatePaid && b.PaymentState != model.PaymentStatePartial {
			return fmt.Errorf("%w: %s", ErrNothingToRefund, externalID)
		}

		paid, err := s.paidTotal(ctx, tx, b.ID)
		if err != nil {
			return err
		}

		if err := s.reverseDocuments(ctx, tx, b.ID); err != nil {
			return err
		}

		if paid > 0 {
			refund := &model.Payment{
				BookingID: b.ID,
				Direction: model.PaymentOutbound,
				Amount:    paid,
				Date:      time.Now(),
				State:     model.PaymentDocPosted,
			}
			if err := tx.Payments.Create(ctx, refund); err != nil {
				return fmt.Errorf("recording refund payment: %w", err)
			}
		}

		b.PaymentState = model.PaymentStateRefunded
		b.State = model.BookingStateCancelled
		if err := tx.Bookings.Save(ctx, b); err != nil {
			return fmt.Errorf("cancelling refunded booking: %w", err)
		}

		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking refunded", "external_id", updated.ExternalID)
	return updated, nil
}

func (s *service) Cancel(ctx context.Context, externalID string) (*model.Booking, error) {
	var updated *model.Booking
	err := s.stores.Transaction(ctx, func(tx *store.Stores) error {
		b, err := tx.Bookings.GetByExternalID(ctx, externalID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrBookingNotFound, externalID)
		}
		if err != nil {
			return fmt.Errorf("loading booking %s: %w", externalID, err)
		}
		if b.State != model.BookingStateDraft && b.State != model.BookingStateConfirmed {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, b.State, model.BookingStateCancelled)
		}

		if err := s.reverseDocuments(ctx, tx, b.ID); err != nil {
			return err
		}

		b.State = model.BookingStateCancelled
		if err := tx.Bookings.Save(ctx, b); err != nil {
			return fmt.Errorf("cancelling booking %s: %w", externalID, err)
		}

		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking cancelled", "external_id", updated.ExternalID)
	return updated, nil
}

// reverseDocuments posts a credit note for every posted document and
// cancels drafts in place. Already-reversed documents are skipped.
func (s *service) reverseDocuments(ctx context.Context, tx *store.Stores, bookingID uint) error {
	docs, err := tx.Documents.ListByBooking(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("loading booking documents: %w", err)
	}

	reversed := make(map[uint]bool)
	for _, doc := range docs {
		if doc.ReversesID != nil {
			reversed[*doc.ReversesID] = true
		}
	}

	for i := range docs {
		doc := &docs[i]
		if doc.DocType == model.DocCustomerCreditNote || doc.DocType == model.DocVendorCreditNote {
			continue
		}
		switch doc.State {
		case model.DocStateDraft:
			if err := tx.Documents.SetState(ctx, doc.ID, model.DocStateCancelled); err != nil {
				return fmt.Errorf("cancelling draft document %s: %w", doc.Number, err)
			}
		case model.DocStatePosted:
			if reversed[doc.ID] {
				continue
			}
			if _, err := tx.Documents.CreateReversal(ctx, tx.Sequences, doc); err != nil {
				return fmt.Errorf("reversing document %s: %w", doc.Number, err)
			}
		}
	}
	return nil
}

func (s *service) postedCustomerInvoice(ctx context.Context, tx *store.Stores, b *model.Booking) (*model.InvoiceDocument, error) {
	docs, err := tx.Documents.ListByBooking(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("loading booking documents: %w", err)
	}
	for i := range docs {
		if docs[i].DocType == model.DocCustomerInvoice && docs[i].State == model.DocStatePosted {
			return &docs[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoPostedInvoice, b.ExternalID)
}

func (s *service) paidTotal(ctx context.Context, tx *store.Stores, bookingID uint) (float64, error) {
	payments, err := tx.Payments.ListByBooking(ctx, bookingID)
	if err != nil {
		return 0, fmt.Errorf("loading booking payments: %w", err)
	}
	var total float64
	for _, p := range payments {
		if p.State != model.PaymentDocPosted {
			continue
		}
		switch p.Direction {
		case model.PaymentInbound:
			total += p.Amount
		case model.PaymentOutbound:
			total -= p.Amount
		}
	}
	return billing.Round2(total), nil
}

// transitions SetStatus may perform directly. Confirmation and
// cancellation run through their own flows.
var statusTransitions = map[string]map[string]bool{
	model.BookingStateConfirmed: {
		model.BookingStateInProgress: true,
		model.BookingStateNoShow:     true,
	},
	model.BookingStateInProgress: {
		model.BookingStateCompleted: true,
	},
}

func (s *service) SetStatus(ctx context.Context, externalID, status string) (*model.Booking, error) {
	switch status {
	case model.BookingStateConfirmed:
		return s.Confirm(ctx, externalID)
	case model.BookingStateCancelled:
		return s.Cancel(ctx, externalID)
	}

	b, err := s.stores.Bookings.GetByExternalID(ctx, externalID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, externalID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading booking %s: %w", externalID, err)
	}

	if !statusTransitions[b.State][status] {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, b.State, status)
	}

	b.State = status
	if err := s.stores.Bookings.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("updating booking state: %w", err)
	}

	s.logger.Info("booking state changed",
		"external_id", b.ExternalID,
		"state", status,
	)
	return b, nil
}
