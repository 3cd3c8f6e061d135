// Package partner syncs supplier records from the booking platform.
package partner

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
	Company    string `json:"company"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	Country    string `json:"country"`
	VAT        string `json:"vat"`
	TaxStatus  string `json:"tax_status"`
}

type Service interface {
	// Sync creates or updates a supplier by external ID. The returned
	// bool is true when a new record was created.
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
	if in.TaxStatus == "" {
		in.TaxStatus = model.TaxStatusStandard
	}

	record := &model.Partner{
		ExternalID: in.ExternalID,
		Name:       in.Name,
		Company:    in.Company,
		Email:      in.Email,
		Phone:      phone.Normalize(in.Phone, s.defaultRegion),
		Street:     in.Street,
		City:       in.City,
		Country:    in.Country,
		VAT:        in.VAT,
		TaxStatus:  in.TaxStatus,
		IsSupplier: true,
	}

	stored, created, err := s.stores.Partners.Upsert(ctx, record)
	if err != nil {
		return nil, false, fmt.Errorf("upserting partner %s: %w", in.ExternalID, err)
	}

	s.logger.Info("partner synced",
		"external_id", stored.ExternalID,
		"created", created,
	)
	return stored, created, nil
}
