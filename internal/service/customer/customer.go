// Package customer syncs end-customer records from the booking
// platform. Customers share the partner table with suppliers; the role
// flags tell them apart.
package customer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/highfiveapp/highfive_backend/internal/model"
	"github.com/highfiveapp/highfive_backend/internal/store"
	"github.com/highfiveapp/highfive_backend/pkg/phone"
)

type Input struct {
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	Country    string `json:"country"`
}

type Service interface {
	Sync(ctx context.Context, in Input) (*model.Partner, bool, error)
}

type service struct {
	stores        *store.Stores
	defaultRegion string
	logger        *slog.Logger
}

func New(stores *store.Stores, defaultRegion string, logger *slog.Logger) Service {
	return &service{
		stores:        stores,
		defaultRegion: defaultRegion,
		logger:        logger,
	}
}

func (s *service) Sync(ctx context.Context, in Input) (*model.Partner, bool, error) {
	if in.ExternalID == "" || in.Name == "" {
		return nil, false, fmt.Errorf("%w: external_id and name are required", ErrValidation)
	}

	record := &model.Partner{
		ExternalID: in.ExternalID,
		Name:       in.Name,
		Email:      in.Email,
		Phone:      phone.Normalize(in.Phone, s.defaultRegion),
		Street:     in.Street,
		City:       in.City,
		Country:    in.Country,
		IsCustomer: true,
	}

	stored, created, err := s.stores.Partners.Upsert(ctx, record)
	if err != nil {
		return nil, false, fmt.Errorf("upserting customer %s: %w", in.ExternalID, err)
	}

	s.logger.Info("customer synced",
		"external_id", stored.ExternalID,
		"created", created,
	)
	return stored, created, nil
}
