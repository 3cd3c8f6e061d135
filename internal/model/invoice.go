package model

import "time"

// Invoice document types.
const (
	DocCustomerInvoice    = "customer_invoice"
	DocVendorBill         = "vendor_bill"
	DocCustomerCreditNote = "customer_credit_note"
	DocVendorCreditNote   = "vendor_credit_note"
)

// Invoice document states.
const (
	DocStateDraft     = "draft"
	DocStatePosted    = "posted"
	DocStateCancelled = "cancelled"
)

// Tax scopes.
const (
	TaxScopeSale     = "sale"
	TaxScopePurchase = "purchase"
)

// InvoiceDocument is a customer invoice, vendor bill, or one of their
// reversing credit notes. Amounts are tax-included on the lines and
// broken out on the header.
type InvoiceDocument struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Number    string    `gorm:"uniqueIndex;not null" json:"number"`
	DocType   string    `gorm:"index;not null" json:"doc_type"`
	BookingID uint      `gorm:"index;not null" json:"booking_id"`
	PartnerID uint      `gorm:"index;not null" json:"partner_id"`
	Partner   Partner   `json:"partner,omitempty"`
	DocDate   time.Time `json:"doc_date"`
	TaxScope  string    `gorm:"not null" json:"tax_scope"`
	TaxID     uint      `gorm:"index" json:"tax_id"`

	State    string  `gorm:"index;default:draft" json:"state"`
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`

	// ReversesID links a credit note back to the document it reverses.
	ReversesID *uint `gorm:"index" json:"reverses_id,omitempty"`

	Lines []InvoiceLine `gorm:"foreignKey:DocumentID" json:"lines,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InvoiceLine carries a tax-included unit price; header amounts are
// recomputed from lines when the document is built.
type InvoiceLine struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	DocumentID  uint    `gorm:"index;not null" json:"document_id"`
	ProductID   *uint   `gorm:"index" json:"product_id,omitempty"`
	Description string  `gorm:"not null" json:"description"`
	Quantity    float64 `gorm:"default:1" json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	CostCenter  string  `json:"cost_center,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Payment directions.
const (
	PaymentInbound  = "inbound"
	PaymentOutbound = "outbound"
)

// Payment document states.
const (
	PaymentDocPosted    = "posted"
	PaymentDocCancelled = "cancelled"
)

// Payment records money received against a customer invoice or refunded
// back to the customer.
type Payment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BookingID  uint      `gorm:"index;not null" json:"booking_id"`
	DocumentID *uint     `gorm:"index" json:"document_id,omitempty"`
	Direction  string    `gorm:"not null" json:"direction"`
	Amount     float64   `gorm:"not null" json:"amount"`
	Date       time.Time `json:"date"`

	CardAmount     float64 `json:"card_amount"`
	WalletAmount   float64 `json:"wallet_amount"`
	CouponAmount   float64 `json:"coupon_amount"`
	TransactionRef string  `json:"transaction_ref,omitempty"`

	State string `gorm:"default:posted" json:"state"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tax is a configured rate. Invoicing requires the matching
// (scope, percent, price-included) row to exist; there is no implicit
// fallback.
type Tax struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Name          string  `gorm:"not null" json:"name"`
	Scope         string  `gorm:"index;not null" json:"scope"`
	Percent       float64 `gorm:"not null" json:"percent"`
	PriceIncluded bool    `json:"price_included"`
	Active        bool    `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
