package store

import (
	"context"

	"gorm.io/gorm"
)

// Stores bundles every repository over one gorm handle so services can
// take a single dependency and rebind it inside transactions.
type Stores struct {
	db *gorm.DB

	Partners    *PartnerStore
	Branches    *BranchStore
	Products    *ProductStore
	Commissions *CommissionStore
	Bookings    *BookingStore
	Documents   *DocumentStore
	Payments    *PaymentStore
	Taxes       *TaxStore
	Sequences   *SequenceStore
	APIKeys     *APIKeyStore
	RequestLogs *RequestLogStore
}

func New(db *gorm.DB) *Stores {
	return &Stores{
		db:          db,
		Partners:    &PartnerStore{db: db},
		Branches:    &BranchStore{db: db},
		Products:    &ProductStore{db: db},
		Commissions: &CommissionStore{db: db},
		Bookings:    &BookingStore{db: db},
		Documents:   &DocumentStore{db: db},
		Payments:    &PaymentStore{db: db},
		Taxes:       &TaxStore{db: db},
		Sequences:   &SequenceStore{db: db},
		APIKeys:     &APIKeyStore{db: db},
		RequestLogs: &RequestLogStore{db: db},
	}
}

// Transaction runs fn with a Stores bound to the transaction handle.
// Returning an error rolls everything back.
func (s *Stores) Transaction(ctx context.Context, fn func(tx *Stores) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// DB exposes the underlying handle for migrations and health checks.
func (s *Stores) DB() *gorm.DB {
	return s.db
}
