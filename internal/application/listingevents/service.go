package listingevents

import (
	"context"
	"errors"

	"yardloop-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// GetListingEvents returns the activity feed for a listing, newest first.
func (s *Service) GetListingEvents(ctx context.Context, listingID uuid.UUID) ([]domain.ListingEvent, error) {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("Listing not found")
		}
		return nil, err
	}

	var events []domain.ListingEvent
	err := s.DB.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
