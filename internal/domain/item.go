package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item conditions accepted by create/update.
const (
	ConditionExcellent = "excellent"
	ConditionGood      = "good"
	ConditionFair      = "fair"
	ConditionPoor      = "poor"
)

// ValidCondition reports whether s is one of the accepted condition values.
func ValidCondition(s string) bool {
	switch s {
	case ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// Item is a single object for sale within a listing. Deleted by cascade with
// its parent listing.
type Item struct {
	ItemID      uuid.UUID  `gorm:"column:item_id;type:uuid;primaryKey" json:"item_id"`
	ListingID   uuid.UUID  `gorm:"column:listing_id;type:uuid;not null;index" json:"listing_id"`
	Title       string     `gorm:"column:title;not null" json:"title"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	Price       float64    `gorm:"column:price;type:decimal(10,2);not null" json:"price"`
	Condition   string     `gorm:"column:condition;type:varchar(20);not null" json:"condition"`
	CategoryID  *uuid.UUID `gorm:"column:category_id;type:uuid" json:"category_id"`
	IsSold      bool       `gorm:"column:is_sold;default:false" json:"is_sold"`
	Position    int        `gorm:"column:position;default:0" json:"position"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID;references:CategoryID" json:"category,omitempty"`
	Photos   []Photo   `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"photos,omitempty"`
}

func (Item) TableName() string {
	return "items"
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ItemID == uuid.Nil {
		i.ItemID = uuid.New()
	}
	return nil
}
