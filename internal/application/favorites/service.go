package favorites

import (
	"context"
	"errors"

	"yardloop-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service manages the idempotent user-to-entity associations: listing
// favorites and item favorites. Add returns the existing row without error;
// remove of an absent row is a no-op. The composite uniqueness constraint is
// the only cross-request coordination.
type Service struct {
	DB *gorm.DB
}

// AddListingFavorite saves a listing for the user. The bool reports whether a
// new row was created (false = already saved).
func (s *Service) AddListingFavorite(ctx context.Context, userID, listingID uuid.UUID) (*domain.Favorite, bool, error) {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, errors.New("Listing not found")
		}
		return nil, false, err
	}

	var existing domain.Favorite
	err := s.DB.WithContext(ctx).Where("user_id = ? AND listing_id = ?", userID, listingID).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	fav := &domain.Favorite{UserID: userID, ListingID: listingID}
	if err := s.DB.WithContext(ctx).Create(fav).Error; err != nil {
		// Uniqueness violation from a concurrent add: already favorited.
		if ferr := s.DB.WithContext(ctx).Where("user_id = ? AND listing_id = ?", userID, listingID).First(&existing).Error; ferr == nil {
			return &existing, false, nil
		}
		return nil, false, err
	}
	return fav, true, nil
}

// RemoveListingFavorite deletes the association; absent rows succeed as no-op.
func (s *Service) RemoveListingFavorite(ctx context.Context, userID, listingID uuid.UUID) error {
	return s.DB.WithContext(ctx).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Delete(&domain.Favorite{}).Error
}

// ListListingFavorites returns the user's saved listings, newest saved first.
func (s *Service) ListListingFavorites(ctx context.Context, userID uuid.UUID) ([]domain.Favorite, error) {
	var favs []domain.Favorite
	err := s.DB.WithContext(ctx).
		Preload("Listing").
		Preload("Listing.Photos").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favs).Error
	if err != nil {
		return nil, err
	}
	return favs, nil
}

// AddItemFavorite saves an individual item, same contract as listing favorites.
func (s *Service) AddItemFavorite(ctx context.Context, userID, itemID uuid.UUID) (*domain.ItemFavorite, bool, error) {
	var item domain.Item
	if err := s.DB.WithContext(ctx).Where("item_id = ?", itemID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, errors.New("Item not found")
		}
		return nil, false, err
	}

	var existing domain.ItemFavorite
	err := s.DB.WithContext(ctx).Where("user_id = ? AND item_id = ?", userID, itemID).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	fav := &domain.ItemFavorite{UserID: userID, ItemID: itemID}
	if err := s.DB.WithContext(ctx).Create(fav).Error; err != nil {
		if ferr := s.DB.WithContext(ctx).Where("user_id = ? AND item_id = ?", userID, itemID).First(&existing).Error; ferr == nil {
			return &existing, false, nil
		}
		return nil, false, err
	}
	return fav, true, nil
}

// RemoveItemFavorite deletes the association; absent rows succeed as no-op.
func (s *Service) RemoveItemFavorite(ctx context.Context, userID, itemID uuid.UUID) error {
	return s.DB.WithContext(ctx).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Delete(&domain.ItemFavorite{}).Error
}

// ListItemFavorites returns the user's saved items, newest saved first.
func (s *Service) ListItemFavorites(ctx context.Context, userID uuid.UUID) ([]domain.ItemFavorite, error) {
	var favs []domain.ItemFavorite
	err := s.DB.WithContext(ctx).
		Preload("Item").
		Preload("Item.Photos").
		Preload("Item.Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favs).Error
	if err != nil {
		return nil, err
	}
	return favs, nil
}
