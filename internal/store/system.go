package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/highfiveapp/highfive_backend/internal/model"
)

type APIKeyStore struct {
	db *gorm.DB
}

func (s *APIKeyStore) Create(ctx context.Context, key *model.APIKey) error {
	return s.db.WithContext(ctx).Create(key).Error
}

func (s *APIKeyStore) FindActiveByHash(ctx context.Context, hash string) (*model.APIKey, error) {
	var key model.APIKey
	err := s.db.WithContext(ctx).
		Where("key_hash = ? AND active = ?", hash, true).
		First(&key).Error
	if err != nil {
		return nil, err
	}
	return &key, nil
}

func (s *APIKeyStore) TouchLastUsed(ctx context.Context, id uint) error {
	now := time.Now()
	return s.db.WithContext(ctx).
		Model(&model.APIKey{}).
		Where("id = ?", id).
		Update("last_used", now).Error
}

type RequestLogStore struct {
	db *gorm.DB
}

func (s *RequestLogStore) Create(ctx context.Context, log *model.RequestLog) error {
	return s.db.WithContext(ctx).Create(log).Error
}

// Finalize records the outcome of a webhook call on its log row.
func (s *RequestLogStore) Finalize(ctx context.Context, log *model.RequestLog) error {
	return s.db.WithContext(ctx).
		Model(&model.RequestLog{}).
		Where("id = ?", log.ID).
		Updates(map[string]any{
			"state":         log.State,
			"response_body": log.ResponseBody,
			"entity_id":     log.EntityID,
			"record_id":     log.RecordID,
			"error_message": log.ErrorMessage,
			"error_details": log.ErrorDetails,
			"processing_ms": log.ProcessingMs,
		}).Error
}
