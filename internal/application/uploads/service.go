package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"yardloop-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StorageClient abstracts the object storage used for photo uploads.
type StorageClient interface {
	CreateSignedUploadURL(ctx context.Context, bucket, path string) (string, error)
}

// SupabaseClient is a StorageClient backed by the Supabase storage HTTP API.
type SupabaseClient struct {
	BaseURL   string
	SecretKey string
	Client    *http.Client
}

type signedUploadResponse struct {
	SignedURL      string `json:"signedUrl"`
	SignedURLSnake string `json:"signed_url"`
	URL            string `json:"url"`
	Path           string `json:"path"`
}

func (c *SupabaseClient) CreateSignedUploadURL(ctx context.Context, bucket, path string) (string, error) {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if c.BaseURL == "" {
		return "", fmt.Errorf("storage: SUPABASE_URL is not set")
	}
	if c.SecretKey == "" {
		return "", fmt.Errorf("storage: SUPABASE_SECRET_KEY is not set")
	}
	base := strings.TrimRight(c.BaseURL, "/")
	url := fmt.Sprintf("%s/storage/v1/object/upload/sign/%s/%s", base, bucket, path)

	bodyBytes, _ := json.Marshal(map[string]interface{}{
		"expiresIn": 3600,
		"upsert":    false,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("apikey", c.SecretKey)
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("storage error: status %d body: %s", resp.StatusCode, string(respBody))
	}

	var data signedUploadResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return "", fmt.Errorf("storage response decode: %w", err)
	}
	if data.SignedURL != "" {
		return data.SignedURL, nil
	}
	if data.SignedURLSnake != "" {
		return data.SignedURLSnake, nil
	}
	if data.URL != "" {
		u := data.URL
		if u[0] != '/' {
			u = "/" + u
		}
		return base + u, nil
	}
	return "", fmt.Errorf("storage returned no signed URL, body: %s", string(respBody))
}

// Service encapsulates photo upload and photo record management.
type Service struct {
	DB         *gorm.DB
	Client     StorageClient
	StorageURL string
	Bucket     string
}

// UploadResult is returned to the client, which PUTs the binary to UploadURL
// and then registers the photo record with PublicURL.
type UploadResult struct {
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
	Path      string `json:"path"`
}

// GetSignedUploadURL generates a signed upload URL for a photo.
func (s *Service) GetSignedUploadURL(ctx context.Context, fileName string) (*UploadResult, error) {
	path := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), fileName)

	signedURL, err := s.Client.CreateSignedUploadURL(ctx, s.Bucket, path)
	if err != nil {
		return nil, err
	}
	publicURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s", strings.TrimRight(s.StorageURL, "/"), s.Bucket, path)
	return &UploadResult{
		UploadURL: signedURL,
		PublicURL: publicURL,
		Path:      path,
	}, nil
}

type AddPhotoInput struct {
	UserID    uuid.UUID
	ListingID *uuid.UUID
	ItemID    *uuid.UUID
	URL       string
	IsPrimary bool
	Position  int
}

// AddPhoto registers an uploaded photo against a listing or an item. Setting
// IsPrimary clears sibling primary flags in the same transaction so at most
// one photo per owner stays primary.
func (s *Service) AddPhoto(ctx context.Context, in AddPhotoInput) (*domain.Photo, error) {
	if in.URL == "" {
		return nil, errors.New("Photo URL is required")
	}
	if (in.ListingID == nil) == (in.ItemID == nil) {
		return nil, errors.New("Photo must belong to exactly one listing or item")
	}
	if err := s.checkPhotoOwner(ctx, in.ListingID, in.ItemID, in.UserID); err != nil {
		return nil, err
	}

	photo := &domain.Photo{
		ListingID: in.ListingID,
		ItemID:    in.ItemID,
		URL:       in.URL,
		IsPrimary: in.IsPrimary,
		Position:  in.Position,
	}
	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if in.IsPrimary {
		if err := clearPrimary(tx, in.ListingID, in.ItemID).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Create(photo).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("Failed to create photo: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return photo, nil
}

// SetPrimaryPhoto designates the photo as its owner's primary, clearing any
// previous primary in the same transaction.
func (s *Service) SetPrimaryPhoto(ctx context.Context, photoID, userID uuid.UUID) (*domain.Photo, error) {
	var photo domain.Photo
	if err := s.DB.WithContext(ctx).Where("photo_id = ?", photoID).First(&photo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("Photo not found")
		}
		return nil, err
	}
	if err := s.checkPhotoOwner(ctx, photo.ListingID, photo.ItemID, userID); err != nil {
		return nil, err
	}

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := clearPrimary(tx, photo.ListingID, photo.ItemID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Model(&photo).Update("is_primary", true).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	photo.IsPrimary = true
	return &photo, nil
}

// DeletePhoto removes a photo record; only the owning listing's seller may.
func (s *Service) DeletePhoto(ctx context.Context, photoID, userID uuid.UUID) error {
	var photo domain.Photo
	if err := s.DB.WithContext(ctx).Where("photo_id = ?", photoID).First(&photo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("Photo not found")
		}
		return err
	}
	if err := s.checkPhotoOwner(ctx, photo.ListingID, photo.ItemID, userID); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Delete(&photo).Error
}

func clearPrimary(tx *gorm.DB, listingID, itemID *uuid.UUID) *gorm.DB {
	q := tx.Model(&domain.Photo{})
	if listingID != nil {
		q = q.Where("listing_id = ?", *listingID)
	} else {
		q = q.Where("item_id = ?", *itemID)
	}
	return q.Update("is_primary", false)
}

// checkPhotoOwner resolves the owning listing (directly or through the item)
// and verifies the acting user is its seller.
func (s *Service) checkPhotoOwner(ctx context.Context, listingID, itemID *uuid.UUID, userID uuid.UUID) error {
	resolved := listingID
	if resolved == nil && itemID != nil {
		var item domain.Item
		if err := s.DB.WithContext(ctx).Where("item_id = ?", *itemID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("Item not found")
			}
			return err
		}
		resolved = &item.ListingID
	}
	if resolved == nil {
		return errors.New("Photo must belong to exactly one listing or item")
	}
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", *resolved).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("Listing not found")
		}
		return err
	}
	if listing.SellerID != userID {
		return errors.New("Unauthorized")
	}
	return nil
}
