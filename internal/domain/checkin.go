package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckIn records a user's intent to attend a sale. Count and participant
// list are derived at query time, never stored.
type CheckIn struct {
	CheckInID uuid.UUID `gorm:"column:check_in_id;type:uuid;primaryKey" json:"check_in_id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_checkin_user_listing" json:"user_id"`
	ListingID uuid.UUID `gorm:"column:listing_id;type:uuid;not null;uniqueIndex:idx_checkin_user_listing" json:"listing_id"`
	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

func (CheckIn) TableName() string {
	return "check_ins"
}

func (c *CheckIn) BeforeCreate(tx *gorm.DB) error {
	if c.CheckInID == uuid.Nil {
		c.CheckInID = uuid.New()
	}
	return nil
}
