package model

import "time"

// Booking lifecycle states.
const (
	BookingStateDraft      = "draft"
	BookingStateConfirmed  = "confirmed"
	BookingStateInProgress = "in_progress"
	BookingStateCompleted  = "completed"
	BookingStateCancelled  = "cancelled"
	BookingStateNoShow     = "no_show"
)

// Payment reconciliation states.
const (
	PaymentStateNotPaid  = "not_paid"
	PaymentStatePartial  = "partial"
	PaymentStatePaid     = "paid"
	PaymentStateRefunded = "refunded"
)

// Payment methods.
const (
	PaymentMethodOnline = "online"
	PaymentMethodCash   = "cash"
)

// Tax statuses for booking amounts.
const (
	TaxIncluded = "included"
	TaxExcluded = "excluded"
)

// Booking is the aggregate root synced from the platform. Amounts and
// commission figures are computed at confirmation and frozen afterwards.
type Booking struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ExternalID string `gorm:"uniqueIndex;not null" json:"external_id"`
	Reference  string `gorm:"uniqueIndex" json:"reference"`

	BookingDate  time.Time `gorm:"index;not null" json:"booking_date"`
	SessionStart float64   `json:"session_start"` // fractional hours, e.g. 14.5
	SessionEnd   float64   `json:"session_end"`

	CustomerID uint    `gorm:"index;not null" json:"customer_id"`
	Customer   Partner `json:"customer,omitempty"`
	PartnerID  uint    `gorm:"index;not null" json:"partner_id"`
	Partner    Partner `json:"partner,omitempty"`
	BranchID   uint    `gorm:"index;not null" json:"branch_id"`
	Branch     Branch  `json:"branch,omitempty"`
	UnitID     uint    `gorm:"index;not null" json:"unit_id"`
	Unit       Product `json:"unit,omitempty"`

	BookingType   string `gorm:"not null" json:"booking_type"`
	PaymentMethod string `gorm:"not null" json:"payment_method"`

	TaxPercent float64 `json:"tax_percent"`
	TaxStatus  string  `gorm:"default:included" json:"tax_status"`
	Discount   float64 `json:"discount"`
	Subtotal   float64 `json:"subtotal"`
	TaxAmount  float64 `json:"tax_amount"`
	Total      float64 `json:"total"`

	CommissionRuleID *uint           `gorm:"index" json:"commission_rule_id,omitempty"`
	CommissionRule   *CommissionRule `json:"commission_rule,omitempty"`
	CommissionPct    float64         `json:"commission_percent"`
	CommissionFixed  float64         `json:"commission_fixed"`
	CommissionNet    float64         `json:"commission_net"`
	CommissionTax    float64         `json:"commission_tax"`
	CommissionTotal  float64         `json:"commission_total"`

	CardAmount     float64 `json:"card_amount"`
	WalletAmount   float64 `json:"wallet_amount"`
	CouponAmount   float64 `json:"coupon_amount"`
	TransactionRef string  `json:"transaction_ref,omitempty"`

	State        string `gorm:"index;default:draft" json:"state"`
	PaymentState string `gorm:"default:not_paid" json:"payment_state"`
	Notes        string `json:"notes,omitempty"`

	Lines     []BookingLine     `json:"lines,omitempty"`
	Documents []InvoiceDocument `json:"documents,omitempty"`
	Payments  []Payment         `json:"payments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Booking line types.
const (
	LineTypeUnit    = "unit"
	LineTypeService = "service"
)

// BookingLine is one priced row of a booking. Every booking has exactly
// one unit line and zero or more service lines.
type BookingLine struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	BookingID uint    `gorm:"index;not null" json:"booking_id"`
	LineType  string  `gorm:"not null" json:"line_type"`
	ProductID uint    `gorm:"index;not null" json:"product_id"`
	Product   Product `json:"product,omitempty"`
	Name      string  `json:"name"`
	Quantity  float64 `gorm:"default:1" json:"quantity"`
	UnitPrice float64 `json:"unit_price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Gross returns the line amount before discount and tax handling.
func (l *BookingLine) Gross() float64 {
	return l.Quantity * l.UnitPrice
}
