package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/highfiveapp/highfive_backend/internal/model"
)

type BranchStore struct {
	db *gorm.DB
}

func (s *BranchStore) Upsert(ctx context.Context, branch *model.Branch) (*model.Branch, bool, error) {
	var existing model.Branch
	err := s.db.WithContext(ctx).Where("external_id = ?", branch.ExternalID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.db.WithContext(ctx).Create(branch).Error; err != nil {
			return nil, false, err
		}
		return branch, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	branch.ID = existing.ID
	branch.CreatedAt = existing.CreatedAt
	if err := s.db.WithContext(ctx).Save(branch).Error; err != nil {
		return nil, false, err
	}
	return branch, false, nil
}

func (s *BranchStore) GetByExternalID(ctx context.Context, externalID string) (*model.Branch, error) {
	var branch model.Branch
	if err := s.db.WithContext(ctx).Where("external_id = ?", externalID).First(&branch).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

func (s *BranchStore) GetByID(ctx context.Context, id uint) (*model.Branch, error) {
	var branch model.Branch
	if err := s.db.WithContext(ctx).Preload("Partner").First(&branch, id).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}
