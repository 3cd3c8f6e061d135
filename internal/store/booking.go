package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/highfiveapp/highfive_backend/internal/model"
)

type BookingStore struct {
	db *gorm.DB
}

func (s *BookingStore) Create(ctx context.Context, booking *model.Booking) error {
	return s.db.WithContext(ctx).Create(booking).Error
}

func (s *BookingStore) Save(ctx context.Context, booking *model.Booking) error {
	return s.db.WithContext(ctx).Omit("Lines", "Documents", "Payments").Save(booking).Error
}

func (s *BookingStore) GetByExternalID(ctx context.Context, externalID string) (*model.Booking, error) {
	var booking model.Booking
	err := s.db.WithContext(ctx).
		Preload("Lines").
		Where("external_id = ?", externalID).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetFull loads a booking with every related record for the status
// snapshot.
func (s *BookingStore) GetFull(ctx context.Context, externalID string) (*model.Booking, error) {
	var booking model.Booking
	err := s.db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Product").
		Preload("Documents").
		Preload("Documents.Lines").
		Preload("Payments").
		Preload("Customer").
		Preload("Partner").
		Preload("Branch").
		Preload("Unit").
		Where("external_id = ?", externalID).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// ReplaceLines swaps the booking's lines for a new set.
func (s *BookingStore) ReplaceLines(ctx context.Context, bookingID uint, lines []model.BookingLine) error {
	if err := s.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Delete(&model.BookingLine{}).Error; err != nil {
		return err
	}
	for i := range lines {
		lines[i].ID = 0
		lines[i].BookingID = bookingID
	}
	if len(lines) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&lines).Error
}

// NextReference issues the next BK-%06d booking reference.
func (s *BookingStore) NextReference(ctx context.Context, seq *SequenceStore) (string, error) {
	n, err := seq.Next(ctx, "booking")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("BK-%06d", n), nil
}
