package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/highfiveapp/highfive_backend/internal/model"
)

type DocumentStore struct {
	db *gorm.DB
}

// Number prefixes per document type.
var docPrefixes = map[string]string{
	model.DocCustomerInvoice:    "INV",
	model.DocVendorBill:         "BILL",
	model.DocCustomerCreditNote: "RINV",
	model.DocVendorCreditNote:   "RBILL",
}

// Create numbers the document from its type's sequence and persists it
// with its lines.
func (s *DocumentStore) Create(ctx context.Context, seq *SequenceStore, doc *model.InvoiceDocument) error {
	prefix, ok := docPrefixes[doc.DocType]
	if !ok {
		return fmt.Errorf("unknown document type %q", doc.DocType)
	}
	n, err := seq.Next(ctx, prefix)
	if err != nil {
		return err
	}
	doc.Number = fmt.Sprintf("%s-%06d", prefix, n)
	return s.db.WithContext(ctx).Create(doc).Error
}

func (s *DocumentStore) GetByID(ctx context.Context, id uint) (*model.InvoiceDocument, error) {
	var doc model.InvoiceDocument
	if err := s.db.WithContext(ctx).Preload("Lines").First(&doc, id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *DocumentStore) ListByBooking(ctx context.Context, bookingID uint) ([]model.InvoiceDocument, error) {
	var docs []model.InvoiceDocument
	err := s.db.WithContext(ctx).
		Preload("Lines").
		Where("booking_id = ?", bookingID).
		Order("id ASC").
		Find(&docs).Error
	return docs, err
}

func (s *DocumentStore) SetState(ctx context.Context, id uint, state string) error {
	return s.db.WithContext(ctx).
		Model(&model.InvoiceDocument{}).
		Where("id = ?", id).
		Update("state", state).Error
}

// CreateReversal builds and posts the credit note that cancels a posted
// document, mirroring its lines and amounts.
func (s *DocumentStore) CreateReversal(ctx context.Context, seq *SequenceStore, doc *model.InvoiceDocument) (*model.InvoiceDocument, error) {
	var creditType string
	switch doc.DocType {
	case model.DocCustomerInvoice:
		creditType = model.DocCustomerCreditNote
	case model.DocVendorBill:
		creditType = model.DocVendorCreditNote
	default:
		return nil, fmt.Errorf("cannot reverse document type %q", doc.DocType)
	}

	reversal := &model.InvoiceDocument{
		DocType:    creditType,
		BookingID:  doc.BookingID,
		PartnerID:  doc.PartnerID,
		DocDate:    doc.DocDate,
		TaxScope:   doc.TaxScope,
		TaxID:      doc.TaxID,
		State:      model.DocStatePosted,
		Subtotal:   doc.Subtotal,
		Tax:        doc.Tax,
		Total:      doc.Total,
		ReversesID: &doc.ID,
	}
	for _, line := range doc.Lines {
		reversal.Lines = append(reversal.Lines, model.InvoiceLine{
			ProductID:   line.ProductID,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			CostCenter:  line.CostCenter,
		})
	}
	if err := s.Create(ctx, seq, reversal); err != nil {
		return nil, err
	}
	return reversal, nil
}

type PaymentStore struct {
	db *gorm.DB
}

func (s *PaymentStore) Create(ctx context.Context, payment *model.Payment) error {
	return s.db.WithContext(ctx).Create(payment).Error
}

func (s *PaymentStore) ListByBooking(ctx context.Context, bookingID uint) ([]model.Payment, error) {
	var payments []model.Payment
	err := s.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("id ASC").
		Find(&payments).Error
	return payments, err
}

type TaxStore struct {
	db *gorm.DB
}

// Find returns the exact (scope, percent, price-included) tax row.
// There is deliberately no fuzzy fallback.
func (s *TaxStore) Find(ctx context.Context, scope string, percent float64, priceIncluded bool) (*model.Tax, error) {
	var tax model.Tax
	err := s.db.WithContext(ctx).
		Where("scope = ? AND percent = ? AND price_included = ? AND active = ?",
			scope, percent, priceIncluded, true).
		First(&tax).Error
	if err != nil {
		return nil, err
	}
	return &tax, nil
}

func (s *TaxStore) Create(ctx context.Context, tax *model.Tax) error {
	return s.db.WithContext(ctx).Create(tax).Error
}

// SeedDefaults inserts the standard sale and purchase rates if no tax
// rows exist yet.
func (s *TaxStore) SeedDefaults(ctx context.Context, percent float64) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Tax{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	defaults := []model.Tax{
		{Name: fmt.Sprintf("Sales Tax %.0f%% Included", percent), Scope: model.TaxScopeSale, Percent: percent, PriceIncluded: true, Active: true},
		{Name: fmt.Sprintf("Purchase Tax %.0f%% Included", percent), Scope: model.TaxScopePurchase, Percent: percent, PriceIncluded: true, Active: true},
	}
	return s.db.WithContext(ctx).Create(&defaults).Error
}

type SequenceStore struct {
	db *gorm.DB
}

// Next returns the next value of a named sequence, creating it on first
// use. Callers run inside a transaction during document creation, so
// concurrent confirmations serialize on the sequence row.
func (s *SequenceStore) Next(ctx context.Context, name string) (int64, error) {
	var seq model.Sequence
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq = model.Sequence{Name: name, NextVal: 2}
		if err := s.db.WithContext(ctx).Create(&seq).Error; err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}

	val := seq.NextVal
	if err := s.db.WithContext(ctx).
		Model(&model.Sequence{}).
		Where("name = ?", name).
		Update("next_val", val+1).Error; err != nil {
		return 0, err
	}
	return val, nil
}
