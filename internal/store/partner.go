package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/highfiveapp/highfive_backend/internal/model"
)

type PartnerStore struct {
	db *gorm.DB
}

// Upsert creates or updates a partner by external ID and returns the
// stored record.
func (s *PartnerStore) Upsert(ctx context.Context, partner *model.Partner) (*model.Partner, bool, error) {
	var existing model.Partner
	err := s.db.WithContext(ctx).Where("external_id = ?", partner.ExternalID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.db.WithContext(ctx).Create(partner).Error; err != nil {
			return nil, false, err
		}
		return partner, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	partner.ID = existing.ID
	partner.CreatedAt = existing.CreatedAt
	// A record that was ever a supplier or customer stays one, and
	// supplier-side fields survive a customer-only sync.
	partner.IsSupplier = partner.IsSupplier || existing.IsSupplier
	partner.IsCustomer = partner.IsCustomer || existing.IsCustomer
	if partner.Company == "" {
		partner.Company = existing.Company
	}
	if partner.VAT == "" {
		partner.VAT = existing.VAT
	}
	if partner.TaxStatus == "" {
		partner.TaxStatus = existing.TaxStatus
	}
	if err := s.db.WithContext(ctx).Save(partner).Error; err != nil {
		return nil, false, err
	}
	return partner, false, nil
}

func (s *PartnerStore) GetByExternalID(ctx context.Context, externalID string) (*model.Partner, error) {
	var partner model.Partner
	if err := s.db.WithContext(ctx).Where("external_id = ?", externalID).First(&partner).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

func (s *PartnerStore) GetByID(ctx context.Context, id uint) (*model.Partner, error) {
	var partner model.Partner
	if err := s.db.WithContext(ctx).First(&partner, id).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}
