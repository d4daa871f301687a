package checkins

import (
	"context"
	"errors"

	"yardloop-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service manages check-ins: a user's declaration of intent to attend a sale.
// Same idempotent toggle contract as favorites, keyed (user, listing).
type Service struct {
	DB *gorm.DB
}

// ParticipantsResult is the derived roster for a listing.
type ParticipantsResult struct {
	CheckInCount   int                 `json:"check_in_count"`
	CheckedInUsers []domain.PublicUser `json:"checked_in_users"`
}

// CheckIn registers attendance. The bool reports whether a new row was
// created (false = already checked in).
func (s *Service) CheckIn(ctx context.Context, userID, listingID uuid.UUID) (*domain.CheckIn, bool, error) {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, errors.New("Listing not found")
		}
		return nil, false, err
	}
	if !listing.IsActive {
		return nil, false, errors.New("Listing is not active")
	}

	var existing domain.CheckIn
	err := s.DB.WithContext(ctx).Where("user_id = ? AND listing_id = ?", userID, listingID).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	ci := &domain.CheckIn{UserID: userID, ListingID: listingID}
	if err := s.DB.WithContext(ctx).Create(ci).Error; err != nil {
		if ferr := s.DB.WithContext(ctx).Where("user_id = ? AND listing_id = ?", userID, listingID).First(&existing).Error; ferr == nil {
			return &existing, false, nil
		}
		return nil, false, err
	}
	return ci, true, nil
}

// CheckOut removes the check-in; absent rows succeed as no-op.
func (s *Service) CheckOut(ctx context.Context, userID, listingID uuid.UUID) error {
	return s.DB.WithContext(ctx).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Delete(&domain.CheckIn{}).Error
}

// Participants returns the check-in roster and count for a listing.
func (s *Service) Participants(ctx context.Context, listingID uuid.UUID) (*ParticipantsResult, error) {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("Listing not found")
		}
		return nil, err
	}

	var checkIns []domain.CheckIn
	err := s.DB.WithContext(ctx).
		Preload("User").
		Where("listing_id = ?", listingID).
		Order("created_at ASC").
		Find(&checkIns).Error
	if err != nil {
		return nil, err
	}

	result := &ParticipantsResult{
		CheckInCount:   len(checkIns),
		CheckedInUsers: []domain.PublicUser{},
	}
	for _, ci := range checkIns {
		if ci.User != nil {
			result.CheckedInUsers = append(result.CheckedInUsers, ci.User.Public())
		}
	}
	return result, nil
}
