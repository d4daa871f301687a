package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation is keyed by (listing, buyer, seller); repeated contact about
// the same listing reuses the existing thread.
type Conversation struct {
	ConversationID uuid.UUID `gorm:"column:conversation_id;type:uuid;primaryKey" json:"conversation_id"`
	ListingID      uuid.UUID `gorm:"column:listing_id;type:uuid;not null;uniqueIndex:idx_conv_listing_buyer_seller" json:"listing_id"`
	BuyerID        uuid.UUID `gorm:"column:buyer_id;type:uuid;not null;uniqueIndex:idx_conv_listing_buyer_seller" json:"buyer_id"`
	SellerID       uuid.UUID `gorm:"column:seller_id;type:uuid;not null;uniqueIndex:idx_conv_listing_buyer_seller" json:"seller_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Listing  *Listing  `gorm:"foreignKey:ListingID;references:ListingID;constraint:OnDelete:CASCADE" json:"listing,omitempty"`
	Buyer    *User     `gorm:"foreignKey:BuyerID;references:UserID" json:"buyer,omitempty"`
	Seller   *User     `gorm:"foreignKey:SellerID;references:UserID" json:"seller,omitempty"`
	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ConversationID == uuid.Nil {
		c.ConversationID = uuid.New()
	}
	return nil
}

// HasParticipant reports whether userID is the buyer or seller.
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	return c.BuyerID == userID || c.SellerID == userID
}

// Message belongs to a conversation, ordered by creation time. IsRead is the
// read marker for the recipient (the non-sender participant).
type Message struct {
	MessageID      uuid.UUID `gorm:"column:message_id;type:uuid;primaryKey" json:"message_id"`
	ConversationID uuid.UUID `gorm:"column:conversation_id;type:uuid;not null;index" json:"conversation_id"`
	SenderID       uuid.UUID `gorm:"column:sender_id;type:uuid;not null" json:"sender_id"`
	Body           string    `gorm:"column:body;type:text;not null" json:"body"`
	IsRead         bool      `gorm:"column:is_read;default:false" json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.MessageID == uuid.Nil {
		m.MessageID = uuid.New()
	}
	return nil
}
