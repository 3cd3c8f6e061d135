// Package branch syncs supplier locations.
package branch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/highfiveapp/highfive_backend/internal/model"
	"github.com/highfiveapp/highfive_backend/internal/store"
)

type Input struct {
	ExternalID        string  `json:"external_id"`
	Name              string  `json:"name"`
	Code              string  `json:"code"`
	PartnerExternalID string  `json:"partner_external_id"`
	Street            string  `json:"street"`
	City              string  `json:"city"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	CostCenter        string  `json:"cost_center"`
	Active            *bool   `json:"active"`
}

type Service interface {
	Sync(ctx context.Context, in Input) (*model.Branch, bool, error)
}

type service struct {
	stores *store.Stores
	logger *slog.Logger
}

func New(stores *store.Stores, logger *slog.Logger) Service {
	return &service{stores: stores, logger: logger}
}

func (s *service) Sync(ctx context.Context, in Input) (*model.Branch, bool, error) {
	if in.ExternalID == "" || in.Name == "" || in.PartnerExternalID == "" {
		return nil, false, fmt.Errorf("%w: external_id, name and partner_external_id are required", ErrValidation)
	}

	owner, err := s.stores.Partners.GetByExternalID(ctx, in.PartnerExternalID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("%w: %s", ErrPartnerNotFound, in.PartnerExternalID)
	}
	if err != nil {
		return nil, false, fmt.Errorf("resolving branch partner: %w", err)
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	record := &model.Branch{
		ExternalID: in.ExternalID,
		Name:       in.Name,
		Code:       in.Code,
		PartnerID:  owner.ID,
		Street:     in.Street,
		City:       in.City,
		Latitude:   in.Latitude,
		Longitude:  in.Longitude,
		CostCenter: in.CostCenter,
		Active:     active,
	}

	stored, created, err := s.stores.Branches.Upsert(ctx, record)
	if err != nil {
		return nil, false, fmt.Errorf("upserting branch %s: %w", in.ExternalID, err)
	}

	if stored.CostCenter == "" {
		// Invoice lines for this branch will post without an
		// analytic reference until the platform sends one.
		s.logger.Warn("branch synced without cost center", "external_id", stored.ExternalID)
	}

	s.logger.Info("branch synced",
		"external_id", stored.ExternalID,
		"created", created,
	)
	return stored, created, nil
}
