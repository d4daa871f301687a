package items

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"yardloop-backend/internal/application/listings"
	"yardloop-backend/internal/domain"
	"yardloop-backend/internal/geo"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type CreateItemInput struct {
	ListingID   uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	Price       float64
	Condition   string
	CategoryID  *uuid.UUID
	Position    int
}

// CreateItem adds an item to a listing; only the listing owner may add.
func (s *Service) CreateItem(ctx context.Context, in CreateItemInput) (*domain.Item, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, errors.New("Item title is required")
	}
	if in.Price < 0 || math.IsNaN(in.Price) {
		return nil, errors.New("Invalid price")
	}
	if !domain.ValidCondition(in.Condition) {
		return nil, errors.New("Invalid condition")
	}

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
	if in.CategoryID != nil {
		var cat domain.Category
		if err := s.DB.WithContext(ctx).Where("category_id = ?", *in.CategoryID).First(&cat).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("Category not found")
			}
			return nil, err
		}
	}

	item := &domain.Item{
		ListingID:   in.ListingID,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Condition:   in.Condition,
		CategoryID:  in.CategoryID,
		Position:    in.Position,
	}
	if err := s.DB.WithContext(ctx).Create(item).Error; err != nil {
		return nil, fmt.Errorf("Failed to create item: %v", err)
	}
	return item, nil
}

type UpdateItemInput struct {
	ItemID      uuid.UUID
	UserID      uuid.UUID
	Title       *string
	Description *string
	Price       *float64
	Condition   *string
	CategoryID  *uuid.UUID
	Position    *int
}

// UpdateItem applies field changes; only the parent listing's owner may edit.
func (s *Service) UpdateItem(ctx context.Context, in UpdateItemInput) (*domain.Item, error) {
	item, err := s.ownedItem(ctx, in.ItemID, in.UserID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, errors.New("Item title is required")
		}
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 || math.IsNaN(*in.Price) {
			return nil, errors.New("Invalid price")
		}
		updates["price"] = *in.Price
	}
	if in.Condition != nil {
		if !domain.ValidCondition(*in.Condition) {
			return nil, errors.New("Invalid condition")
		}
		updates["condition"] = *in.Condition
	}
	if in.CategoryID != nil {
		updates["category_id"] = *in.CategoryID
	}
	if in.Position != nil {
		updates["position"] = *in.Position
	}
	if len(updates) == 0 {
		return nil, errors.New("No valid changes provided")
	}

	if err := s.DB.WithContext(ctx).Model(item).Updates(updates).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// MarkSold toggles the sold flag on an item.
func (s *Service) MarkSold(ctx context.Context, itemID, userID uuid.UUID, sold bool) (*domain.Item, error) {
	item, err := s.ownedItem(ctx, itemID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(item).Update("is_sold", sold).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes an item with its photos and favorites in one transaction.
func (s *Service) DeleteItem(ctx context.Context, itemID, userID uuid.UUID) error {
	item, err := s.ownedItem(ctx, itemID, userID)
	if err != nil {
		return err
	}

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Where("item_id = ?", item.ItemID).Delete(&domain.Photo{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("item_id = ?", item.ItemID).Delete(&domain.ItemFavorite{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(item).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// ItemResult is an item enriched for search responses; distance_km derives
// from the parent listing's coordinates.
type ItemResult struct {
	ItemID       uuid.UUID            `json:"item_id"`
	ListingID    uuid.UUID            `json:"listing_id"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Price        float64              `json:"price"`
	Condition    string               `json:"condition"`
	CategoryID   *uuid.UUID           `json:"category_id"`
	CategoryName *string              `json:"category_name"`
	IsSold       bool                 `json:"is_sold"`
	Position     int                  `json:"position"`
	CreatedAt    time.Time            `json:"created_at"`
	Location     string               `json:"location"`
	Latitude     *float64             `json:"latitude"`
	Longitude    *float64             `json:"longitude"`
	DistanceKm   *float64             `json:"distance_km"`
	Photos       []listings.PhotoView `json:"photos"`
}

func (r ItemResult) RankDistance() *float64   { return r.DistanceKm }
func (r ItemResult) RankCreatedAt() time.Time { return r.CreatedAt }

// SearchItems returns unsold items of active listings matching the text and
// category filters, ranked by the same rules as listing search.
func (s *Service) SearchItems(ctx context.Context, p geo.Params, category string) ([]ItemResult, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Item{}).
		Joins("JOIN listings ON listings.listing_id = items.listing_id").
		Joins("LEFT JOIN categories ON categories.category_id = items.category_id").
		Where("listings.is_active = ?", true).
		Where("items.is_sold = ?", false)
	if p.Query != "" {
		pattern := "%" + strings.ToLower(p.Query) + "%"
		q = q.Where("LOWER(items.title) LIKE ? OR LOWER(items.description) LIKE ? OR LOWER(categories.name) LIKE ?", pattern, pattern, pattern)
	}
	if category != "" {
		q = q.Where("categories.name = ?", category)
	}

	var rows []domain.Item
	if err := q.Preload("Photos").Preload("Category").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("Failed to search items: %v", err)
	}

	parents, err := s.parentListings(ctx, rows)
	if err != nil {
		return nil, err
	}

	results := make([]ItemResult, 0, len(rows))
	for _, it := range rows {
		parent, ok := parents[it.ListingID]
		if !ok {
			continue
		}
		if !p.WithinRadius(parent.Latitude, parent.Longitude) {
			continue
		}
		r := ItemResult{
			ItemID:      it.ItemID,
			ListingID:   it.ListingID,
			Title:       it.Title,
			Description: it.Description,
			Price:       it.Price,
			Condition:   it.Condition,
			CategoryID:  it.CategoryID,
			IsSold:      it.IsSold,
			Position:    it.Position,
			CreatedAt:   it.CreatedAt,
			Location:    parent.Location,
			Latitude:    parent.Latitude,
			Longitude:   parent.Longitude,
			DistanceKm:  p.DistanceTo(parent.Latitude, parent.Longitude),
			Photos:      listings.SortPhotos(it.Photos),
		}
		if it.Category != nil {
			r.CategoryName = &it.Category.Name
		}
		results = append(results, r)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return geo.Less(p, results[i], results[j])
	})
	return results, nil
}

func (s *Service) parentListings(ctx context.Context, rows []domain.Item) (map[uuid.UUID]domain.Listing, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	seen := map[uuid.UUID]bool{}
	for _, it := range rows {
		if !seen[it.ListingID] {
			seen[it.ListingID] = true
			ids = append(ids, it.ListingID)
		}
	}
	parents := make(map[uuid.UUID]domain.Listing, len(ids))
	if len(ids) == 0 {
		return parents, nil
	}
	var ls []domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id IN ?", ids).Find(&ls).Error; err != nil {
		return nil, err
	}
	for _, l := range ls {
		parents[l.ListingID] = l
	}
	return parents, nil
}

func (s *Service) ownedItem(ctx context.Context, itemID, userID uuid.UUID) (*domain.Item, error) {
	var item domain.Item
	if err := s.DB.WithContext(ctx).Where("item_id = ?", itemID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("Item not found")
		}
		return nil, err
	}
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", item.ListingID).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("Listing not found")
		}
		return nil, err
	}
	if listing.SellerID != userID {
		return nil, errors.New("Unauthorized")
	}
	return &item, nil
}
