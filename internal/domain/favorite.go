package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favorite is a saved reference from a user to a listing. The composite
// (user_id, listing_id) uniqueness makes concurrent duplicate adds impossible
// at the storage layer; the service maps the violation to "already saved".
type Favorite struct {
	FavoriteID uuid.UUID `gorm:"column:favorite_id;type:uuid;primaryKey" json:"favorite_id"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_fav_user_listing" json:"user_id"`
	ListingID  uuid.UUID `gorm:"column:listing_id;type:uuid;not null;uniqueIndex:idx_fav_user_listing" json:"listing_id"`
	CreatedAt  time.Time `json:"created_at"`

	Listing *Listing `gorm:"foreignKey:ListingID;references:ListingID;constraint:OnDelete:CASCADE" json:"listing,omitempty"`
}

func (Favorite) TableName() string {
	return "favorites"
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.FavoriteID == uuid.Nil {
		f.FavoriteID = uuid.New()
	}
	return nil
}

// ItemFavorite is a saved reference from a user to an individual item.
type ItemFavorite struct {
	FavoriteID uuid.UUID `gorm:"column:favorite_id;type:uuid;primaryKey" json:"favorite_id"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_itemfav_user_item" json:"user_id"`
	ItemID     uuid.UUID `gorm:"column:item_id;type:uuid;not null;uniqueIndex:idx_itemfav_user_item" json:"item_id"`
	CreatedAt  time.Time `json:"created_at"`

	Item *Item `gorm:"foreignKey:ItemID;references:ItemID;constraint:OnDelete:CASCADE" json:"item,omitempty"`
}

func (ItemFavorite) TableName() string {
	return "item_favorites"
}

func (f *ItemFavorite) BeforeCreate(tx *gorm.DB) error {
	if f.FavoriteID == uuid.Nil {
		f.FavoriteID = uuid.New()
	}
	return nil
}
