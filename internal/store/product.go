package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/highfiveapp/highfive_backend/internal/model"
)

type ProductStore struct {
	db *gorm.DB
}

func (s *ProductStore) Upsert(ctx context.Context, product *model.Product) (*model.Product, bool, error) {
	var existing model.Product
	err := s.db.WithContext(ctx).Where("external_id = ?", product.ExternalID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
			return nil, false, err
		}
		return product, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	product.ID = existing.ID
	product.CreatedAt = existing.CreatedAt
	if err := s.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, false, err
	}
	return product, false, nil
}

// GetByExternalID looks a product up by external ID, optionally
// restricted to a kind. An empty kind matches any.
func (s *ProductStore) GetByExternalID(ctx context.Context, externalID, kind string) (*model.Product, error) {
	q := s.db.WithContext(ctx).Where("external_id = ?", externalID)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var product model.Product
	if err := q.First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductStore) GetByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := s.db.WithContext(ctx).Preload("Branch").First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}
