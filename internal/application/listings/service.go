package listings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"yardloop-backend/internal/domain"
	"yardloop-backend/internal/geo"
	"yardloop-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type PhotoInput struct {
	URL      string
	Position int
}

type ItemInput struct {
	Title       string
	Description string
	Price       float64
	Condition   string
	CategoryID  *uuid.UUID
	Position    int
}

type CreateListingInput struct {
	SellerID    uuid.UUID
	Title       string
	Description string
	Location    string
	SaleDate    *time.Time
	StartTime   *string
	EndTime     *string
	Latitude    *float64
	Longitude   *float64
	Photos      []PhotoInput
	// PrimaryIndex selects which of Photos becomes the primary; out-of-range
	// values fall back to the first photo.
	PrimaryIndex int
	Items        []ItemInput
}

// CreateListing inserts the listing with its photos, items and CREATED event
// in a single transaction; any step's failure rolls back everything.
func (s *Service) CreateListing(ctx context.Context, in CreateListingInput) (*domain.Listing, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, errors.New("Listing title is required")
	}
	if !validation.ValidCoordinatePair(in.Latitude, in.Longitude) {
		return nil, errors.New("Invalid coordinates")
	}
	for _, it := range in.Items {
		if strings.TrimSpace(it.Title) == "" {
			return nil, errors.New("Item title is required")
		}
		if it.Price < 0 || math.IsNaN(it.Price) {
			return nil, errors.New("Invalid price")
		}
		if !domain.ValidCondition(it.Condition) {
			return nil, errors.New("Invalid condition")
		}
	}

	listing := &domain.Listing{
		SellerID:    in.SellerID,
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		SaleDate:    in.SaleDate,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		IsActive:    true,
	}

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Create(listing).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("Failed to create listing: %v", err)
	}

	primary := in.PrimaryIndex
	if primary < 0 || primary >= len(in.Photos) {
		primary = 0
	}
	for i, ph := range in.Photos {
		photo := &domain.Photo{
			ListingID: &listing.ListingID,
			URL:       ph.URL,
			IsPrimary: i == primary,
			Position:  ph.Position,
		}
		if err := tx.Create(photo).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("Failed to create listing photo: %v", err)
		}
	}
	for _, it := range in.Items {
		item := &domain.Item{
			ListingID:   listing.ListingID,
			Title:       it.Title,
			Description: it.Description,
			Price:       it.Price,
			Condition:   it.Condition,
			CategoryID:  it.CategoryID,
			Position:    it.Position,
		}
		if err := tx.Create(item).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("Failed to create listing item: %v", err)
		}
	}

	eventDataBytes, _ := json.Marshal(map[string]interface{}{
		"item_count":  len(in.Items),
		"photo_count": len(in.Photos),
	})
	if err := tx.Create(&domain.ListingEvent{
		ListingID: listing.ListingID,
		EventType: domain.EventCreated,
		ActorID:   &in.SellerID,
		EventData: datatypes.JSON(eventDataBytes),
	}).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("Failed to create listing event: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("Failed to create listing: %v", err)
	}
	return listing, nil
}

// SearchListings returns active listings matching the text/category filter
// and, when a reference point and radius are supplied, within that radius.
// Text and category narrowing happen in SQL; radius filtering, ranking and
// projection happen in three separate in-process passes.
func (s *Service) SearchListings(ctx context.Context, p geo.Params, category string) ([]ListingResult, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Listing{}).Where("is_active = ?", true)
	if p.Query != "" {
		pattern := "%" + strings.ToLower(p.Query) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(location) LIKE ?", pattern, pattern, pattern)
	}
	if category != "" {
		sub := s.DB.Table("items").
			Select("items.listing_id").
			Joins("JOIN categories ON categories.category_id = items.category_id").
			Where("categories.name = ?", category)
		q = q.Where("listing_id IN (?)", sub)
	}

	var rows []domain.Listing
	if err := q.
		Preload("Photos").
		Preload("Items.Category").
		Preload("CheckIns.User").
		Preload("Seller").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("Failed to search listings: %v", err)
	}

	results := make([]ListingResult, 0, len(rows))
	for _, l := range rows {
		if !p.WithinRadius(l.Latitude, l.Longitude) {
			continue
		}
		results = append(results, projectListing(p, l))
	}
	sort.SliceStable(results, func(i, j int) bool {
		return geo.Less(p, results[i], results[j])
	})
	return results, nil
}

// GetListing returns one listing with the same enrichment as search results
// (no reference point, so distance_km is null).
func (s *Service) GetListing(ctx context.Context, listingID uuid.UUID) (*ListingResult, error) {
	var l domain.Listing
	err := s.DB.WithContext(ctx).
		Preload("Photos").
		Preload("Items.Category").
		Preload("CheckIns.User").
		Preload("Seller").
		Where("listing_id = ?", listingID).
		First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("Listing not found")
		}
		return nil, err
	}
	r := projectListing(geo.Params{}, l)
	return &r, nil
}

// GetUserListings returns the seller's own listings, newest first, active or not.
func (s *Service) GetUserListings(ctx context.Context, userID uuid.UUID) ([]ListingResult, error) {
	var rows []domain.Listing
	err := s.DB.WithContext(ctx).
		Preload("Photos").
		Preload("Items.Category").
		Preload("CheckIns.User").
		Where("seller_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	results := make([]ListingResult, 0, len(rows))
	for _, l := range rows {
		results = append(results, projectListing(geo.Params{}, l))
	}
	return results, nil
}

type UpdateListingInput struct {
	ListingID   uuid.UUID
	UserID      uuid.UUID
	Title       *string
	Description *string
	Location    *string
	SaleDate    *time.Time
	StartTime   *string
	EndTime     *string
	Latitude    *float64
	Longitude   *float64
	ClearCoords bool
}

// UpdateListing applies field changes and records an UPDATED event in one
// transaction. Only the listing owner may update.
func (s *Service) UpdateListing(ctx context.Context, in UpdateListingInput) (*domain.Listing, error) {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", in.ListingID).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("Listing not found")
		}
		return nil, err
	}
	if listing.SellerID != in.UserID {
		return nil, errors.New("Unauthorized")
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, errors.New("Listing title is required")
		}
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Location != nil {
		updates["location"] = *in.Location
	}
	if in.SaleDate != nil {
		updates["sale_date"] = *in.SaleDate
	}
	if in.StartTime != nil {
		updates["start_time"] = *in.StartTime
	}
	if in.EndTime != nil {
		updates["end_time"] = *in.EndTime
	}
	if in.ClearCoords {
		updates["latitude"] = nil
		updates["longitude"] = nil
	} else if in.Latitude != nil || in.Longitude != nil {
		if !validation.ValidCoordinatePair(in.Latitude, in.Longitude) {
			return nil, errors.New("Invalid coordinates")
		}
		updates["latitude"] = *in.Latitude
		updates["longitude"] = *in.Longitude
	}
	if len(updates) == 0 {
		return nil, errors.New("No valid changes provided")
	}

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Model(&listing).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	changed := make([]string, 0, len(updates))
	for k := range updates {
		changed = append(changed, k)
	}
	sort.Strings(changed)
	eventDataBytes, _ := json.Marshal(map[string]interface{}{"changed_fields": changed})
	if err := tx.Create(&domain.ListingEvent{
		ListingID: listing.ListingID,
		EventType: domain.EventUpdated,
		ActorID:   &in.UserID,
		EventData: datatypes.JSON(eventDataBytes),
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", in.ListingID).First(&listing).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// DeactivateListing flips is_active off and records a DEACTIVATED event.
func (s *Service) DeactivateListing(ctx context.Context, listingID, userID uuid.UUID) (*domain.Listing, error) {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("Listing not found")
		}
		return nil, err
	}
	if listing.SellerID != userID {
		return nil, errors.New("Unauthorized")
	}
	if !listing.IsActive {
		return nil, errors.New("Listing is not active")
	}

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	listing.IsActive = false
	if err := tx.Save(&listing).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Create(&domain.ListingEvent{
		ListingID: listing.ListingID,
		EventType: domain.EventDeactivated,
		ActorID:   &userID,
		EventData: datatypes.JSON([]byte("{}")),
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// DeleteListing removes the listing and every dependent row in one
// transaction. Child rows are deleted explicitly so the cascade holds on
// stores without enforced foreign keys.
func (s *Service) DeleteListing(ctx context.Context, listingID, userID uuid.UUID) error {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("Listing not found")
		}
		return err
	}
	if listing.SellerID != userID {
		return errors.New("Unauthorized")
	}

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	itemIDs := tx.Model(&domain.Item{}).Select("item_id").Where("listing_id = ?", listingID)
	convIDs := tx.Model(&domain.Conversation{}).Select("conversation_id").Where("listing_id = ?", listingID)

	steps := []*gorm.DB{
		tx.Where("item_id IN (?)", itemIDs).Delete(&domain.Photo{}),
		tx.Where("item_id IN (?)", itemIDs).Delete(&domain.ItemFavorite{}),
		tx.Where("listing_id = ?", listingID).Delete(&domain.Item{}),
		tx.Where("listing_id = ?", listingID).Delete(&domain.Photo{}),
		tx.Where("listing_id = ?", listingID).Delete(&domain.Favorite{}),
		tx.Where("listing_id = ?", listingID).Delete(&domain.CheckIn{}),
		tx.Where("conversation_id IN (?)", convIDs).Delete(&domain.Message{}),
		tx.Where("listing_id = ?", listingID).Delete(&domain.Conversation{}),
		tx.Where("listing_id = ?", listingID).Delete(&domain.ListingEvent{}),
		tx.Where("listing_id = ?", listingID).Delete(&domain.Listing{}),
	}
	for _, step := range steps {
		if step.Error != nil {
			tx.Rollback()
			return fmt.Errorf("Failed to delete listing: %v", step.Error)
		}
	}
	return tx.Commit().Error
}
