package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Photo belongs to exactly one listing or one item. At most one photo per
// owning entity may have is_primary set; the uploads service enforces the
// invariant by clearing sibling flags in the same transaction.
type Photo struct {
	PhotoID   uuid.UUID  `gorm:"column:photo_id;type:uuid;primaryKey" json:"id"`
	ListingID *uuid.UUID `gorm:"column:listing_id;type:uuid;index" json:"listing_id,omitempty"`
	ItemID    *uuid.UUID `gorm:"column:item_id;type:uuid;index" json:"item_id,omitempty"`
	URL       string     `gorm:"column:url;not null" json:"url"`
	IsPrimary bool       `gorm:"column:is_primary;default:false" json:"is_primary"`
	Position  int        `gorm:"column:position;default:0" json:"position"`
	CreatedAt time.Time  `json:"created_at"`
}

func (Photo) TableName() string {
	return "photos"
}

func (p *Photo) BeforeCreate(tx *gorm.DB) error {
	if p.PhotoID == uuid.Nil {
		p.PhotoID = uuid.New()
	}
	return nil
}
