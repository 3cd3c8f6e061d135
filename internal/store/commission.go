package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/highfiveapp/highfive_backend/internal/model"
)

type CommissionStore struct {
	db *gorm.DB
}

func (s *CommissionStore) GetByExternalID(ctx context.Context, externalID string) (*model.CommissionRule, error) {
	var rule model.CommissionRule
	if err := s.db.WithContext(ctx).Where("external_id = ?", externalID).First(&rule).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (s *CommissionStore) GetByID(ctx context.Context, id uint) (*model.CommissionRule, error) {
	var rule model.CommissionRule
	if err := s.db.WithContext(ctx).First(&rule, id).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

// DefaultForUnit returns the unit's active default rule, if any.
func (s *CommissionStore) DefaultForUnit(ctx context.Context, unitID uint) (*model.CommissionRule, error) {
	var rule model.CommissionRule
	err := s.db.WithContext(ctx).
		Where("unit_id = ? AND rule_type = ? AND active = ?", unitID, model.RuleTypeDefault, true).
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// ActiveForDate resolves the rule governing a unit on a date: the
// scheduled rule covering the date wins (latest start first when ranges
// were merged over time), otherwise the default rule. No rule at all
// returns gorm.ErrRecordNotFound.
func (s *CommissionStore) ActiveForDate(ctx context.Context, unitID uint, date time.Time) (*model.CommissionRule, error) {
	day := model.DateOnly(date)

	var scheduled model.CommissionRule
	err := s.db.WithContext(ctx).
		Where("unit_id = ? AND rule_type = ? AND active = ?", unitID, model.RuleTypeScheduled, true).
		Where("start_date <= ? AND end_date >= ?", day, day).
		Order("start_date DESC").
		First(&scheduled).Error
	if err == nil {
		return &scheduled, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return s.DefaultForUnit(ctx, unitID)
}

// HasOverlap reports whether an active scheduled rule for the unit
// intersects [start, end], both ends inclusive. excludeID skips the
// rule being updated.
func (s *CommissionStore) HasOverlap(ctx context.Context, unitID uint, start, end time.Time, excludeID uint) (bool, error) {
	q := s.db.WithContext(ctx).Model(&model.CommissionRule{}).
		Where("unit_id = ? AND rule_type = ? AND active = ?", unitID, model.RuleTypeScheduled, true).
		Where("start_date <= ? AND end_date >= ?", model.DateOnly(end), model.DateOnly(start))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *CommissionStore) Create(ctx context.Context, rule *model.CommissionRule) error {
	return s.db.WithContext(ctx).Create(rule).Error
}

func (s *CommissionStore) Save(ctx context.Context, rule *model.CommissionRule) error {
	return s.db.WithContext(ctx).Save(rule).Error
}

func (s *CommissionStore) Delete(ctx context.Context, rule *model.CommissionRule) error {
	return s.db.WithContext(ctx).Delete(rule).Error
}

func (s *CommissionStore) ListByUnit(ctx context.Context, unitID uint) ([]model.CommissionRule, error) {
	var rules []model.CommissionRule
	err := s.db.WithContext(ctx).
		Where("unit_id = ?", unitID).
		Order("rule_type ASC, start_date ASC").
		Find(&rules).Error
	return rules, err
}
