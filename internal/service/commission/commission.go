// Package commission manages the per-unit commission rules and the
// active-rule lookup used at booking confirmation.
package commission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/highfiveapp/highfive_backend/internal/model"
	"github.com/highfiveapp/highfive_backend/internal/store"
)

// Values is the six (percent, fixed) pairs of a rule, one per booking
// type category.
type Values struct {
	OnlinePercent       float64 `json:"online_percent"`
	OnlineFixed         float64 `json:"online_fixed"`
	CashPercent         float64 `json:"cash_percent"`
	CashFixed           float64 `json:"cash_fixed"`
	WalkInPercent       float64 `json:"walk_in_percent"`
	WalkInFixed         float64 `json:"walk_in_fixed"`
	LinkedPercent       float64 `json:"linked_percent"`
	LinkedFixed         float64 `json:"linked_fixed"`
	OnlinePublicPercent float64 `json:"online_public_percent"`
	OnlinePublicFixed   float64 `json:"online_public_fixed"`
	CashPublicPercent   float64 `json:"cash_public_percent"`
	CashPublicFixed     float64 `json:"cash_public_fixed"`
}

type Input struct {
	ExternalID     string     `json:"external_id"`
	UnitExternalID string     `json:"unit_external_id"`
	RuleType       string     `json:"rule_type"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	Values         Values     `json:"values"`
	Active         *bool      `json:"active"`
}

type Service interface {
	// Sync creates or updates a rule by external ID. A default rule
	// replaces the unit's existing default in place; scheduled rules
	// are rejected when their date range overlaps another.
	Sync(ctx context.Context, in Input) (*model.CommissionRule, bool, error)

	// Delete removes a scheduled rule. Default rules refuse deletion.
	Delete(ctx context.Context, externalID string) error

	// ListByUnit returns every rule of a unit.
	ListByUnit(ctx context.Context, unitExternalID string) ([]model.CommissionRule, error)

	// ActiveForDate resolves the rule governing a unit on a date,
	// scheduled rules first, then the default.
	ActiveForDate(ctx context.Context, unitExternalID string, date time.Time) (*model.CommissionRule, error)
}

type service struct {
	stores   *store.Stores
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *slog.Logger
}

// New builds the service. cache may be nil; lookups then always hit
// the database.
func New(stores *store.Stores, cache *redis.Client, cacheTTL time.Duration, logger *slog.Logger) Service {
	return &service{
		stores:   stores,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func (s *service) Sync(ctx context.Context, in Input) (*model.CommissionRule, bool, error) {
	if in.ExternalID == "" || in.UnitExternalID == "" {
		return nil, false, fmt.Errorf("%w: external_id and unit_external_id are required", ErrValidation)
	}
	if in.RuleType == "" {
		in.RuleType = model.RuleTypeDefault
	}
	if in.RuleType != model.RuleTypeDefault && in.RuleType != model.RuleTypeScheduled {
		return nil, false, fmt.Errorf("%w: unknown rule type %q", ErrValidation, in.RuleType)
	}
	if in.RuleType == model.RuleTypeScheduled {
		if in.StartDate == nil || in.EndDate == nil {
			return nil, false, ErrScheduleDatesRequired
		}
		if in.EndDate.Before(*in.StartDate) {
			return nil, false, fmt.Errorf("%w: end_date precedes start_date", ErrValidation)
		}
	}

	unit, err := s.stores.Products.GetByExternalID(ctx, in.UnitExternalID, model.ProductKindUnit)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("%w: %s", ErrUnitNotFound, in.UnitExternalID)
	}
	if err != nil {
		return nil, false, fmt.Errorf("resolving commission unit: %w", err)
	}

	existing, err := s.stores.Commissions.GetByExternalID(ctx, in.ExternalID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("loading rule %s: %w", in.ExternalID, err)
	}

	// A default sync with a new external ID still replaces the unit's
	// existing default rather than stacking a second one.
	if existing == nil && in.RuleType == model.RuleTypeDefault {
		if def, derr := s.stores.Commissions.DefaultForUnit(ctx, unit.ID); derr == nil {
			existing = def
		} else if !errors.Is(derr, gorm.ErrRecordNotFound) {
			return nil, false, fmt.Errorf("loading default rule: %w", derr)
		}
	}

	if in.RuleType == model.RuleTypeScheduled {
		var excludeID uint
		if existing != nil {
			excludeID = existing.ID
		}
		overlap, oerr := s.stores.Commissions.HasOverlap(ctx, unit.ID, *in.StartDate, *in.EndDate, excludeID)
		if oerr != nil {
			return nil, false, fmt.Errorf("checking rule overlap: %w", oerr)
		}
		if overlap {
			return nil, false, ErrOverlappingRule
		}
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	rule := &model.CommissionRule{
		ExternalID: in.ExternalID,
		UnitID:     unit.ID,
		RuleType:   in.RuleType,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		Active:     active,

		OnlinePercent:       in.Values.OnlinePercent,
		OnlineFixed:         in.Values.OnlineFixed,
		CashPercent:         in.Values.CashPercent,
		CashFixed:           in.Values.CashFixed,
		WalkInPercent:       in.Values.WalkInPercent,
		WalkInFixed:         in.Values.WalkInFixed,
		LinkedPercent:       in.Values.LinkedPercent,
		LinkedFixed:         in.Values.LinkedFixed,
		OnlinePublicPercent: in.Values.OnlinePublicPercent,
		OnlinePublicFixed:   in.Values.OnlinePublicFixed,
		CashPublicPercent:   in.Values.CashPublicPercent,
		CashPublicFixed:     in.Values.CashPublicFixed,
	}

	created := existing == nil
	if existing != nil {
		rule.ID = existing.ID
		rule.CreatedAt = existing.CreatedAt
		err = s.stores.Commissions.Save(ctx, rule)
	} else {
		err = s.stores.Commissions.Create(ctx, rule)
	}
	if err != nil {
		return nil, false, fmt.Errorf("storing rule %s: %w", in.ExternalID, err)
	}

	s.bumpCacheVersion(ctx, unit.ID)
	s.logger.Info("commission rule synced",
		"external_id", rule.ExternalID,
		"unit_id", unit.ID,
		"rule_type", rule.RuleType,
		"created", created,
	)
	return rule, created, nil
}

func (s *service) Delete(ctx context.Context, externalID string) error {
	rule, err := s.stores.Commissions.GetByExternalID(ctx, externalID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrRuleNotFound, externalID)
	}
	if err != nil {
		return fmt.Errorf("loading rule %s: %w", externalID, err)
	}
	if rule.RuleType == model.RuleTypeDefault {
		return ErrDefaultRuleProtected
	}
	if err := s.stores.Commissions.Delete(ctx, rule); err != nil {
		return fmt.Errorf("deleting rule %s: %w", externalID, err)
	}
	s.bumpCacheVersion(ctx, rule.UnitID)
	s.logger.Info("commission rule deleted", "external_id", externalID)
	return nil
}

func (s *service) ListByUnit(ctx context.Context, unitExternalID string) ([]model.CommissionRule, error) {
	unit, err := s.stores.Products.GetByExternalID(ctx, unitExternalID, model.ProductKindUnit)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUnitNotFound, unitExternalID)
	}
	if err != nil {
		return nil, err
	}
	return s.stores.Commissions.ListByUnit(ctx, unit.ID)
}

func (s *service) ActiveForDate(ctx context.Context, unitExternalID string, date time.Time) (*model.CommissionRule, error) {
	unit, err := s.stores.Products.GetByExternalID(ctx, unitExternalID, model.ProductKindUnit)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUnitNotFound, unitExternalID)
	}
	if err != nil {
		return nil, err
	}

	if cached := s.cacheGet(ctx, unit.ID, date); cached != nil {
		return cached, nil
	}

	rule, err := s.stores.Commissions.ActiveForDate(ctx, unit.ID, date)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNoCommissionConfigured, unitExternalID)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving active rule: %w", err)
	}

	s.cacheSet(ctx, unit.ID, date, rule)
	return rule, nil
}

// Cache keys carry a per-unit version that rule writes bump, so stale
// entries die without enumeration.
func (s *service) cacheKey(ctx context.Context, unitID uint, date time.Time) string {
	ver, err := s.cache.Get(ctx, fmt.Sprintf("commission:ver:%d", unitID)).Int64()
	if err != nil {
		ver = 0
	}
	return fmt.Sprintf("commission:active:%d:%d:%s", unitID, ver, model.DateOnly(date).Format("2006-01-02"))
}

func (s *service) bumpCacheVersion(ctx context.Context, unitID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Incr(ctx, fmt.Sprintf("commission:ver:%d", unitID)).Err(); err != nil {
		s.logger.Warn("bumping commission cache version failed", "unit_id", unitID, "error", err)
	}
}

func (s *service) cacheGet(ctx context.Context, unitID uint, date time.Time) *model.CommissionRule {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil
	}
	raw, err := s.cache.Get(ctx, s.cacheKey(ctx, unitID, date)).Bytes()
	if err != nil {
		return nil
	}
	var rule model.CommissionRule
	if err := json.Unmarshal(raw, &rule); err != nil {
		return nil
	}
	return &rule
}

func (s *service) cacheSet(ctx context.Context, unitID uint, date time.Time, rule *model.CommissionRule) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(rule)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(ctx, unitID, date), raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("caching active rule failed", "unit_id", unitID, "error", err)
	}
}
