package model

import "time"

// Tax handling categories carried on partners and customers.
const (
	TaxStatusStandard = "standard_15"
	TaxStatusReduced  = "reduced_5"
	TaxStatusZero     = "zero"
	TaxStatusExempt   = "exempt"
)

// Partner is a counterparty synced from the booking platform. Suppliers
// own branches and units; customers place bookings. A single record can
// be both.
type Partner struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ExternalID string `gorm:"uniqueIndex;not null" json:"external_id"`
	Name       string `gorm:"not null" json:"name"`
	Company    string `json:"company,omitempty"`
	Email      string `json:"email,omitempty"`
	// Phone is stored normalized to E.164.
	Phone      string `json:"phone,omitempty"`
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	Country    string `json:"country,omitempty"`
	VAT        string `json:"vat,omitempty"`
	TaxStatus  string `gorm:"default:standard_15" json:"tax_status"`
	IsSupplier bool   `json:"is_supplier"`
	IsCustomer bool   `json:"is_customer"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Branch is a supplier location. Units hang off a branch, and its cost
// center tags invoice lines for per-location reporting.
type Branch struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	ExternalID string  `gorm:"uniqueIndex;not null" json:"external_id"`
	Name       string  `gorm:"not null" json:"name"`
	Code       string  `json:"code,omitempty"`
	PartnerID  uint    `gorm:"index;not null" json:"partner_id"`
	Partner    Partner `json:"partner,omitempty"`
	Street     string  `json:"street,omitempty"`
	City       string  `json:"city,omitempty"`
	Latitude   float64 `json:"latitude,omitempty"`
	Longitude  float64 `json:"longitude,omitempty"`
	CostCenter string  `json:"cost_center,omitempty"`
	Active     bool    `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
