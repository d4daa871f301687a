package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a flat, uniquely named tag referenced by items.
type Category struct {
	CategoryID uuid.UUID `gorm:"column:category_id;type:uuid;primaryKey" json:"category_id"`
	Name       string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.CategoryID == uuid.Nil {
		c.CategoryID = uuid.New()
	}
	return nil
}
