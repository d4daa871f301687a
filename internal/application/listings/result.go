package listings

import (
	"sort"
	"time"

	"yardloop-backend/internal/domain"
	"yardloop-backend/internal/geo"

	"github.com/google/uuid"
)

// PhotoView is the photo shape returned by search and detail endpoints.
type PhotoView struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	IsPrimary bool      `json:"is_primary"`
	Position  int       `json:"position"`
}

// ListingResult is a listing enriched with aggregates derived at query time.
// photos, item_categories and checked_in_users are always arrays, never null.
type ListingResult struct {
	ListingID      uuid.UUID          `json:"listing_id"`
	SellerID       uuid.UUID          `json:"seller_id"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	SaleDate       *time.Time         `json:"sale_date"`
	StartTime      *string            `json:"start_time"`
	EndTime        *string            `json:"end_time"`
	Location       string             `json:"location"`
	Latitude       *float64           `json:"latitude"`
	Longitude      *float64           `json:"longitude"`
	IsActive       bool               `json:"is_active"`
	CreatedAt      time.Time          `json:"created_at"`
	DistanceKm     *float64           `json:"distance_km"`
	ItemCount      int                `json:"item_count"`
	ItemCategories []string           `json:"item_categories"`
	Photos         []PhotoView        `json:"photos"`
	CheckedInUsers []domain.PublicUser `json:"checked_in_users"`
	CheckInCount   int                `json:"check_in_count"`
	Seller         *domain.PublicUser `json:"seller,omitempty"`
}

func (r ListingResult) RankDistance() *float64   { return r.DistanceKm }
func (r ListingResult) RankCreatedAt() time.Time { return r.CreatedAt }

// projectListing shapes one row: distance from the reference point, ordered
// photos, distinct categories of unsold items, unsold item count and the
// check-in roster.
func projectListing(p geo.Params, l domain.Listing) ListingResult {
	r := ListingResult{
		ListingID:      l.ListingID,
		SellerID:       l.SellerID,
		Title:          l.Title,
		Description:    l.Description,
		SaleDate:       l.SaleDate,
		StartTime:      l.StartTime,
		EndTime:        l.EndTime,
		Location:       l.Location,
		Latitude:       l.Latitude,
		Longitude:      l.Longitude,
		IsActive:       l.IsActive,
		CreatedAt:      l.CreatedAt,
		DistanceKm:     p.DistanceTo(l.Latitude, l.Longitude),
		ItemCategories: []string{},
		Photos:         SortPhotos(l.Photos),
		CheckedInUsers: []domain.PublicUser{},
	}

	seen := map[string]bool{}
	for _, it := range l.Items {
		if it.IsSold {
			continue
		}
		r.ItemCount++
		if it.Category != nil && !seen[it.Category.Name] {
			seen[it.Category.Name] = true
			r.ItemCategories = append(r.ItemCategories, it.Category.Name)
		}
	}
	sort.Strings(r.ItemCategories)

	for _, ci := range l.CheckIns {
		if ci.User != nil {
			r.CheckedInUsers = append(r.CheckedInUsers, ci.User.Public())
		}
	}
	r.CheckInCount = len(l.CheckIns)

	if l.Seller != nil {
		pub := l.Seller.Public()
		r.Seller = &pub
	}
	return r
}

// SortPhotos orders photos primary-first, then by position, then by ID as the
// deterministic tie-break. Always returns a non-nil slice.
func SortPhotos(photos []domain.Photo) []PhotoView {
	views := make([]PhotoView, 0, len(photos))
	for _, ph := range photos {
		views = append(views, PhotoView{
			ID:        ph.PhotoID,
			URL:       ph.URL,
			IsPrimary: ph.IsPrimary,
			Position:  ph.Position,
		})
	}
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].IsPrimary != views[j].IsPrimary {
			return views[i].IsPrimary
		}
		if views[i].Position != views[j].Position {
			return views[i].Position < views[j].Position
		}
		return views[i].ID.String() < views[j].ID.String()
	})
	return views
}
