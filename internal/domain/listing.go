package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Listing is a yard-sale event posted by a seller. Latitude/longitude are
// optional; a listing without coordinates is still searchable by text but is
// excluded from any radius-filtered result set.
type Listing struct {
	ListingID   uuid.UUID  `gorm:"column:listing_id;type:uuid;primaryKey" json:"listing_id"`
	SellerID    uuid.UUID  `gorm:"column:seller_id;type:uuid;not null;index" json:"seller_id"`
	Title       string     `gorm:"column:title;not null" json:"title"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	SaleDate    *time.Time `gorm:"column:sale_date" json:"sale_date"`
	StartTime   *string    `gorm:"column:start_time;type:varchar(8)" json:"start_time"`
	EndTime     *string    `gorm:"column:end_time;type:varchar(8)" json:"end_time"`
	Location    string     `gorm:"column:location" json:"location"`
	Latitude    *float64   `gorm:"column:latitude;type:decimal(9,6)" json:"latitude"`
	Longitude   *float64   `gorm:"column:longitude;type:decimal(9,6)" json:"longitude"`
	IsActive    bool       `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Seller   *User     `gorm:"foreignKey:SellerID;references:UserID" json:"seller,omitempty"`
	Items    []Item    `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Photos   []Photo   `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE" json:"photos,omitempty"`
	CheckIns []CheckIn `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE" json:"check_ins,omitempty"`
}

func (Listing) TableName() string {
	return "listings"
}

// BeforeCreate sets listing_id if not already set (DBs without default uuid).
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ListingID == uuid.Nil {
		l.ListingID = uuid.New()
	}
	return nil
}

// HasCoordinates reports whether both latitude and longitude are set.
func (l *Listing) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}
