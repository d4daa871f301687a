package messages

import (
	"context"
	"errors"
	"strings"

	"yardloop-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// GetOrCreateConversation returns the thread between the buyer and the
// listing's seller, creating it if absent. The seller is derived from the
// listing; a seller cannot open a conversation with themselves.
func (s *Service) GetOrCreateConversation(ctx context.Context, listingID, buyerID uuid.UUID) (*domain.Conversation, error) {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("Listing not found")
		}
		return nil, err
	}
	if listing.SellerID == buyerID {
		return nil, errors.New("Cannot message your own listing")
	}

	var conv domain.Conversation
	err := s.DB.WithContext(ctx).
		Where("listing_id = ? AND buyer_id = ? AND seller_id = ?", listingID, buyerID, listing.SellerID).
		First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conv = domain.Conversation{
		ListingID: listingID,
		BuyerID:   buyerID,
		SellerID:  listing.SellerID,
	}
	if err := s.DB.WithContext(ctx).Create(&conv).Error; err != nil {
		// Concurrent create of the same thread: return the existing one.
		var existing domain.Conversation
		if ferr := s.DB.WithContext(ctx).
			Where("listing_id = ? AND buyer_id = ? AND seller_id = ?", listingID, buyerID, listing.SellerID).
			First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &conv, nil
}

// ConversationSummary is one row of the user's inbox.
type ConversationSummary struct {
	domain.Conversation
	UnreadCount int             `json:"unread_count"`
	LastMessage *domain.Message `json:"last_message"`
}

// ListConversations returns all threads the user participates in, most
// recently updated first, each with its unread count and last message.
func (s *Service) ListConversations(ctx context.Context, userID uuid.UUID) ([]ConversationSummary, error) {
	var convs []domain.Conversation
	err := s.DB.WithContext(ctx).
		Preload("Listing").
		Preload("Buyer").
		Preload("Seller").
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		var unread int64
		if err := s.DB.WithContext(ctx).Model(&domain.Message{}).
			Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conv.ConversationID, userID, false).
			Count(&unread).Error; err != nil {
			return nil, err
		}
		var last domain.Message
		lastPtr := &last
		if err := s.DB.WithContext(ctx).
			Where("conversation_id = ?", conv.ConversationID).
			Order("created_at DESC").
			First(&last).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			lastPtr = nil
		}
		summaries = append(summaries, ConversationSummary{
			Conversation: conv,
			UnreadCount:  int(unread),
			LastMessage:  lastPtr,
		})
	}
	return summaries, nil
}

// SendMessage appends a message to a conversation; only participants may send.
func (s *Service) SendMessage(ctx context.Context, conversationID, senderID uuid.UUID, body string) (*domain.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, errors.New("Message body is required")
	}
	conv, err := s.participantConversation(ctx, conversationID, senderID)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ConversationID: conv.ConversationID,
		SenderID:       senderID,
		Body:           body,
	}
	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Create(msg).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	// Bump updated_at so the inbox sorts this thread first.
	if err := tx.Model(conv).Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// ListMessages returns a conversation's messages ordered by creation time;
// only participants may read.
func (s *Service) ListMessages(ctx context.Context, conversationID, userID uuid.UUID) ([]domain.Message, error) {
	if _, err := s.participantConversation(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	var msgs []domain.Message
	err := s.DB.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// MarkRead marks the counterpart's messages as read for this user.
func (s *Service) MarkRead(ctx context.Context, conversationID, userID uuid.UUID) error {
	if _, err := s.participantConversation(ctx, conversationID, userID); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Model(&domain.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, userID, false).
		Update("is_read", true).Error
}

// UnreadCount returns the user's total unread messages across all threads.
func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	convIDs := s.DB.Model(&domain.Conversation{}).
		Select("conversation_id").
		Where("buyer_id = ? OR seller_id = ?", userID, userID)
	var count int64
	err := s.DB.WithContext(ctx).Model(&domain.Message{}).
		Where("conversation_id IN (?) AND sender_id <> ? AND is_read = ?", convIDs, userID, false).
		Count(&count).Error
	return count, err
}

func (s *Service) participantConversation(ctx context.Context, conversationID, userID uuid.UUID) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := s.DB.WithContext(ctx).Where("conversation_id = ?", conversationID).First(&conv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("Conversation not found")
		}
		return nil, err
	}
	if !conv.HasParticipant(userID) {
		return nil, errors.New("Unauthorized")
	}
	return &conv, nil
}
