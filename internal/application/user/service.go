package user

import (
	"context"
	"errors"
	"strings"

	"yardloop-backend/internal/domain"
	"yardloop-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// ViewProfile returns another user's public profile.
func (s *Service) ViewProfile(ctx context.Context, userID uuid.UUID) (*domain.PublicUser, error) {
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("User not found")
		}
		return nil, err
	}
	pub := u.Public()
	return &pub, nil
}

type UpdateProfileInput struct {
	UserID    uuid.UUID
	Username  *string
	Bio       *string
	AvatarURL *string
}

// UpdateProfile updates the caller's own profile. A taken username conflicts.
func (s *Service) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*domain.User, error) {
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", in.UserID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("User not found")
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Username != nil {
		name := strings.TrimSpace(*in.Username)
		if !validation.IsValidUsername(name) {
			return nil, errors.New("Invalid username")
		}
		if name != u.Username {
			var count int64
			if err := s.DB.WithContext(ctx).Model(&domain.User{}).
				Where("username = ? AND user_id <> ?", name, in.UserID).
				Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, errors.New("Username already taken")
			}
			updates["username"] = name
		}
	}
	if in.Bio != nil {
		updates["bio"] = *in.Bio
	}
	if in.AvatarURL != nil {
		updates["avatar_url"] = *in.AvatarURL
	}
	if len(updates) == 0 {
		return nil, errors.New("No valid changes provided")
	}

	if err := s.DB.WithContext(ctx).Model(&u).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
