// Package catalog syncs bookable units and their add-on services.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/highfiveapp/highfive_backend/internal/model"
	"github.com/highfiveapp/highfive_backend/internal/service/commission"
	"github.com/highfiveapp/highfive_backend/internal/store"
)

type UnitInput struct {
	ExternalID       string             `json:"external_id"`
	Name             string             `json:"name"`
	BasePrice        float64            `json:"base_price"`
	BranchExternalID string             `json:"branch_external_id"`
	Active           *bool              `json:"active"`
	// DefaultCommission, when present, seeds or updates the unit's
	// default rule in the same sync.
	DefaultCommission *commission.Values `json:"default_commission"`
}

type ServiceInput struct {
	ExternalID string  `json:"external_id"`
	Name       string  `json:"name"`
	BasePrice  float64 `json:"base_price"`
	Active     *bool   `json:"active"`
}

type Service interface {
	SyncUnit(ctx context.Context, in UnitInput) (*model.Product, bool, error)
	SyncService(ctx context.Context, in ServiceInput) (*model.Product, bool, error)
}

type service struct {
	stores      *store.Stores
	commissions commission.Service
	logger      *slog.Logger
}

func New(stores *store.Stores, commissions commission.Service, logger *slog.Logger) Service {
	return &service{stores: stores, commissions: commissions, logger: logger}
}

func (s *service) SyncUnit(ctx context.Context, in UnitInput) (*model.Product, bool, error) {
	if in.ExternalID == "" || in.Name == "" || in.BranchExternalID == "" {
		return nil, false, fmt.Errorf("%w: external_id, name and branch_external_id are required", ErrValidation)
	}

	br, err := s.stores.Branches.GetByExternalID(ctx, in.BranchExternalID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("%w: %s", ErrBranchNotFound, in.BranchExternalID)
	}
	if err != nil {
		return nil, false, fmt.Errorf("resolving unit branch: %w", err)
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	record := &model.Product{
		ExternalID: in.ExternalID,
		Name:       in.Name,
		Kind:       model.ProductKindUnit,
		BasePrice:  in.BasePrice,
		BranchID:   &br.ID,
		Active:     active,
	}
	stored, created, err := s.stores.Products.Upsert(ctx, record)
	if err != nil {
		return nil, false, fmt.Errorf("upserting unit %s: %w", in.ExternalID, err)
	}

	if in.DefaultCommission != nil {
		_, _, err := s.commissions.Sync(ctx, commission.Input{
			ExternalID:     "unit-default-" + in.ExternalID,
			UnitExternalID: in.ExternalID,
			RuleType:       model.RuleTypeDefault,
			Values:         *in.DefaultCommission,
		})
		if err != nil {
			return nil, false, fmt.Errorf("seeding default commission for unit %s: %w", in.ExternalID, err)
		}
	}

	s.logger.Info("unit synced",
		"external_id", stored.ExternalID,
		"created", created,
	)
	return stored, created, nil
}

func (s *service) SyncService(ctx context.Context, in ServiceInput) (*model.Product, bool, error) {
	if in.ExternalID == "" || in.Name == "" {
		return nil, false, fmt.Errorf("%w: external_id and name are required", ErrValidation)
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	record := &model.Product{
		ExternalID: in.ExternalID,
		Name:       in.Name,
		Kind:       model.ProductKindService,
		BasePrice:  in.BasePrice,
		Active:     active,
	}
	stored, created, err := s.stores.Products.Upsert(ctx, record)
	if err != nil {
		return nil, false, fmt.Errorf("upserting service %s: %w", in.ExternalID, err)
	}

	s.logger.Info("service synced",
		"external_id", stored.ExternalID,
		"created", created,
	)
	return stored, created, nil
}
