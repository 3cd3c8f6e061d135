// Package booking owns the booking ledger: webhook sync, confirmation
// with commission and invoice generation, payments, refunds and the
// state machine.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/highfiveapp/highfive_backend/internal/model"
	"github.com/highfiveapp/highfive_backend/internal/store"
)

type ServiceLine struct {
	ExternalID string  `json:"external_id"`
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	Price      float64 `json:"price"`
}

type Input struct {
	ExternalID   string    `json:"external_id"`
	BookingDate  time.Time `json:"booking_date"`
	SessionStart float64   `json:"session_start"`
	SessionEnd   float64   `json:"session_end"`

	CustomerExternalID string `json:"customer_external_id"`
	PartnerExternalID  string `json:"partner_external_id"`
	BranchExternalID   string `json:"branch_external_id"`
	UnitExternalID     string `json:"unit_external_id"`

	BookingType   string `json:"booking_type"`
	PaymentMethod string `json:"payment_method"`

	TaxPercent *float64      `json:"tax_percent"`
	TaxStatus  string        `json:"tax_status"`
	Discount   float64       `json:"discount"`
	UnitPrice  float64       `json:"unit_price"`
	Services   []ServiceLine `json:"services"`

	CommissionRuleExternalID string `json:"commission_rule_external_id"`

	CardAmount     float64 `json:"card_amount"`
	WalletAmount   float64 `json:"wallet_amount"`
	CouponAmount   float64 `json:"coupon_amount"`
	TransactionRef string  `json:"transaction_ref"`

	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type PaymentInput struct {
	Amount         float64   `json:"amount"`
	Date           time.Time `json:"date"`
	CardAmount     float64   `json:"card_amount"`
	WalletAmount   float64   `json:"wallet_amount"`
	CouponAmount   float64   `json:"coupon_amount"`
	TransactionRef string    `json:"transaction_ref"`
}

type Service interface {
	// Sync creates or updates a booking by external ID. Draft
	// bookings can be fully rewritten; once confirmed, only the
	// non-financial fields (date, session times, notes) are applied
	// and everything else is ignored. A payload status of
	// "confirmed" triggers confirmation.
	Sync(ctx context.Context, in Input) (*model.Booking, error)

	// Confirm runs the all-or-nothing confirmation: commission
	// resolution, amount aggregation, tax lookup and invoice
	// generation in one transaction.
	Confirm(ctx context.Context, externalID string) (*model.Booking, error)

	// RegisterPayment records money received against the booking's
	// posted customer invoice and reconciles the payment state.
	RegisterPayment(ctx context.Context, externalID string, in PaymentInput) (*model.Booking, error)

	// Refund reverses the booking's posted documents with credit
	// notes, pays the received amount back out and cancels the
	// booking.
	Refund(ctx context.Context, externalID string) (*model.Booking, error)

	// Cancel cancels a draft or confirmed booking, reversing any
	// posted documents.
	Cancel(ctx context.Context, externalID string) (*model.Booking, error)

	// SetStatus drives the remaining transitions: in_progress,
	// completed, no_show, and delegates confirmed/cancelled to
	// Confirm/Cancel.
	SetStatus(ctx context.Context, externalID, status string) (*model.Booking, error)

	// Get returns the booking with lines, documents and payments.
	Get(ctx context.Context, externalID string) (*model.Booking, error)
}

type service struct {
	stores            *store.Stores
	defaultTaxPercent float64
	logger            *slog.Logger
}

func New(stores *store.Stores, defaultTaxPercent float64, logger *slog.Logger) Service {
	return &service{
		stores:            stores,
		defaultTaxPercent: defaultTaxPercent,
		logger:            logger,
	}
}

var validBookingTypes = map[string]bool{
	model.BookingTypeOnline:           true,
	model.BookingTypeCash:             true,
	model.BookingTypeWalkIn:           true,
	model.BookingTypeLinked:           true,
	model.BookingTypeOnlinePublicTrip: true,
	model.BookingTypeCashPublicTrip:   true,
}

func (s *service) Sync(ctx context.Context, in Input) (*model.Booking, error) {
	if in.ExternalID == "" {
		return nil, fmt.Errorf("%w: external_id is required", ErrValidation)
	}

	existing, err := s.stores.Bookings.GetByExternalID(ctx, in.ExternalID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("loading booking %s: %w", in.ExternalID, err)
	}

	if existing != nil && existing.State != model.BookingStateDraft {
		return s.applyNonFinancialUpdate(ctx, existing, in)
	}

	booking, err := s.writeDraft(ctx, existing, in)
	if err != nil {
		return nil, err
	}

	if in.Status == model.BookingStateConfirmed {
		return s.Confirm(ctx, booking.ExternalID)
	}
	return booking, nil
}

// applyNonFinancialUpdate handles syncs against bookings past draft.
// Financial fields in the payload are ignored, not rejected, so the
// platform can resend full payloads safely. Bookings in a terminal
// state take no updates at all.
func (s *service) applyNonFinancialUpdate(ctx context.Context, booking *model.Booking, in Input) (*model.Booking, error) {
	switch booking.State {
	case model.BookingStateCompleted, model.BookingStateCancelled, model.BookingStateNoShow:
		return nil, fmt.Errorf("%w: booking %s is %s", ErrInvalidStateTransition, booking.ExternalID, booking.State)
	}

	if !in.BookingDate.IsZero() {
		booking.BookingDate = in.BookingDate
	}
	if in.SessionStart != 0 {
		booking.SessionStart = in.SessionStart
	}
	if in.SessionEnd != 0 {
		booking.SessionEnd = in.SessionEnd
	}
	if in.Notes != "" {
		booking.Notes = in.Notes
	}
	if err := s.stores.Bookings.Save(ctx, booking); err != nil {
		return nil, fmt.Errorf("updating booking %s: %w", booking.ExternalID, err)
	}

	s.logger.Info("booking updated after confirmation, financial fields ignored",
		"external_id", booking.ExternalID,
		"state", booking.State,
	)

	if in.Status != "" && in.Status != booking.State {
		return s.SetStatus(ctx, booking.ExternalID, in.Status)
	}
	return booking, nil
}

func (s *service) writeDraft(ctx context.Context, existing *model.Booking, in Input) (*model.Booking, error) {
	switch {
	case in.BookingDate.IsZero():
		return nil, fmt.Errorf("%w: booking_date is required", ErrValidation)
	case !validBookingTypes[in.BookingType]:
		return nil, fmt.Errorf("%w: unknown booking type %q", ErrValidation, in.BookingType)
	case in.PaymentMethod != model.PaymentMethodOnline && in.PaymentMethod != model.PaymentMethodCash:
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, in.PaymentMethod)
	}

	customer, err := s.stores.Partners.GetByExternalID(ctx, in.CustomerExternalID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrCustomerNotFound, in.CustomerExternalID)
	} else if err != nil {
		return nil, fmt.Errorf("resolving customer: %w", err)
	}

	supplier, err := s.stores.Partners.GetByExternalID(ctx, in.PartnerExternalID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrPartnerNotFound, in.PartnerExternalID)
	} else if err != nil {
		return nil, fmt.Errorf("resolving partner: %w", err)
	}

	br, err := s.stores.Branches.GetByExternalID(ctx, in.BranchExternalID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrBranchNotFound, in.BranchExternalID)
	} else if err != nil {
		return nil, fmt.Errorf("resolving branch: %w", err)
	}

	unit, err := s.stores.Products.GetByExternalID(ctx, in.UnitExternalID, model.ProductKindUnit)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUnitNotFound, in.UnitExternalID)
	} else if err != nil {
		return nil, fmt.Errorf("resolving unit: %w", err)
	}

	taxPercent := s.defaultTaxPercent
	if in.TaxPercent != nil {
		taxPercent = *in.TaxPercent
	}
	taxStatus := in.TaxStatus
	if taxStatus == "" {
		taxStatus = model.TaxIncluded
	}
	unitPrice := in.UnitPrice
	if unitPrice == 0 {
		unitPrice = unit.BasePrice
	}

	lines := []model.BookingLine{{
		LineType:  model.LineTypeUnit,
		ProductID: unit.ID,
		Name:      unit.Name,
		Quantity:  1,
		UnitPrice: unitPrice,
	}}
	for _, svc := range in.Services {
		product, err := s.stores.Products.GetByExternalID(ctx, svc.ExternalID, model.ProductKindService)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, svc.ExternalID)
		} else if err != nil {
			return nil, fmt.Errorf("resolving service %s: %w", svc.ExternalID, err)
		}
		name := svc.Name
		if name == "" {
			name = product.Name
		}
		qty := svc.Quantity
		if qty == 0 {
			qty = 1
		}
		price := svc.Price
		if price == 0 {
			price = product.BasePrice
		}
		lines = append(lines, model.BookingLine{
			LineType:  model.LineTypeService,
			ProductID: product.ID,
			Name:      name,
			Quantity:  qty,
			UnitPrice: price,
		})
	}

	var ruleID *uint
	if in.CommissionRuleExternalID != "" {
		rule, err := s.stores.Commissions.GetByExternalID(ctx, in.CommissionRuleExternalID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRuleNotFound, in.CommissionRuleExternalID)
		} else if err != nil {
			return nil, fmt.Errorf("resolving commission rule: %w", err)
		}
		ruleID = &rule.ID
	}

	booking := existing
	created := booking == nil
	if created {
		ref, err := s.stores.Bookings.NextReference(ctx, s.stores.Sequences)
		if err != nil {
			return nil, fmt.Errorf("issuing booking reference: %w", err)
		}
		booking = &model.Booking{
			ExternalID: in.ExternalID,
			Reference:  ref,
			State:      model.BookingStateDraft,
		}
	}

	booking.BookingDate = in.BookingDate
	booking.SessionStart = in.SessionStart
	booking.SessionEnd = in.SessionEnd
	booking.CustomerID = customer.ID
	booking.PartnerID = supplier.ID
	booking.BranchID = br.ID
	booking.UnitID = unit.ID
	booking.BookingType = in.BookingType
	booking.PaymentMethod = in.PaymentMethod
	booking.TaxPercent = taxPercent
	booking.TaxStatus = taxStatus
	booking.Discount = in.Discount
	booking.CommissionRuleID = ruleID
	booking.CardAmount = in.CardAmount
	booking.WalletAmount = in.WalletAmount
	booking.CouponAmount = in.CouponAmount
	booking.TransactionRef = in.TransactionRef
	booking.PaymentState = model.PaymentStateNotPaid
	booking.Notes = in.Notes

	if created {
		booking.Lines = lines
		if err := s.stores.Bookings.Create(ctx, booking); err != nil {
			return nil, fmt.Errorf("creating booking %s: %w", in.ExternalID, err)
		}
	} else {
		if err := s.stores.Bookings.Save(ctx, booking); err != nil {
			return nil, fmt.Errorf("updating booking %s: %w", in.ExternalID, err)
		}
		if err := s.stores.Bookings.ReplaceLines(ctx, booking.ID, lines); err != nil {
			return nil, fmt.Errorf("rewriting booking lines: %w", err)
		}
		booking.Lines = lines
	}

	s.logger.Info("booking synced",
		"external_id", booking.ExternalID,
		"reference", booking.Reference,
		"created", created,
	)
	return booking, nil
}

func (s *service) Get(ctx context.Context, externalID string) (*model.Booking, error) {
	booking, err := s.stores.Bookings.GetFull(ctx, externalID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, externalID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading booking %s: %w", externalID, err)
	}
	return booking, nil
}
