package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/apperrors"
	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/listing"
	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/models"
	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/validation"
)

const (
	imageFilenameMaxLen = 255
	imageMimeTypeMaxLen = 100
)

var imageFields = map[string]string{
	"filename":    "filename",
	"description": "description",
	"mimeType":    "mime_type",
}

// ImageService handles business logic for image metadata records. Blob
// storage itself lives elsewhere; the service only assigns the storage key.
type ImageService struct {
	db *gorm.DB
}

// NewImageService creates a new ImageService.
func NewImageService(db *gorm.DB) *ImageService {
	return &ImageService{db: db}
}

// GetMany returns a page of images.
func (s *ImageService) GetMany(params listing.Params) ([]models.Image, listing.Pagination, error) {
	return listing.Find[models.Image](s.db, params, imageFields, "filename")
}

// GetOne returns the image with the given id, or nil when no row matches.
func (s *ImageService) GetOne(id uint) (*models.Image, error) {
	if err := validation.RequireID("image id", id); err != nil {
		return nil, err
	}
	var image models.Image
	if err := s.db.First(&image, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get image %d: %w", id, err)
	}
	return &image, nil
}

// Create validates the input, verifies the owning user exists, assigns a
// fresh storage key and inserts the record.
func (s *ImageService) Create(input models.ImageInput) (*models.Image, error) {
	filename, _, err := validation.Name("filename", input.Filename, true, imageFilenameMaxLen)
	if err != nil {
		return nil, err
	}
	description, hasDescription, err := validation.Text("description", input.Description, descriptionMaxLen)
	if err != nil {
		return nil, err
	}
	mimeType, hasMimeType, err := validation.Text("mimeType", input.MimeType, imageMimeTypeMaxLen)
	if err != nil {
		return nil, err
	}
	userID, _, err := validation.ID("userId", input.UserID, true)
	if err != nil {
		return nil, err
	}

	image := models.Image{
		Filename:   filename,
		StorageKey: uuid.New().String(),
		UserID:     userID,
	}
	if hasDescription {
		image.Description = &description
	}
	if hasMimeType {
		image.MimeType = &mimeType
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureExists(tx, &models.User{}, "user", userID); err != nil {
			return err
		}
		if err := tx.Create(&image).Error; err != nil {
			return fmt.Errorf("failed to create image: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// Update applies the provided fields to the image with the given id. The
// storage key never changes. A missing row yields a nil result.
func (s *ImageService) Update(id uint, input models.ImageInput) (*models.Image, error) {
	if err := validation.RequireID("image id", id); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if input.Filename != nil {
		filename, _, err := validation.Name("filename", input.Filename, false, imageFilenameMaxLen)
		if err != nil {
			return nil, err
		}
		updates["filename"] = filename
	}
	if input.Description != nil {
		description, ok, err := validation.Text("description", input.Description, descriptionMaxLen)
		if err != nil {
			return nil, err
		}
		if ok {
			updates["description"] = description
		} else {
			updates["description"] = nil
		}
	}
	if input.MimeType != nil {
		mimeType, ok, err := validation.Text("mimeType", input.MimeType, imageMimeTypeMaxLen)
		if err != nil {
			return nil, err
		}
		if ok {
			updates["mime_type"] = mimeType
		} else {
			updates["mime_type"] = nil
		}
	}
	if input.UserID != nil {
		userID, _, err := validation.ID("userId", input.UserID, false)
		if err != nil {
			return nil, err
		}
		updates["user_id"] = userID
	}

	var image *models.Image
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Image
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to load image %d: %w", id, err)
		}
		if userID, ok := updates["user_id"].(uint); ok && userID != existing.UserID {
			if err := ensureExists(tx, &models.User{}, "user", userID); err != nil {
				return err
			}
		}
		if len(updates) > 0 {
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update image %d: %w", id, err)
			}
			if err := tx.First(&existing, id).Error; err != nil {
				return fmt.Errorf("failed to reload image %d: %w", id, err)
			}
		}
		image = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return image, nil
}

// Delete removes the image record. Nothing references images, so only
// existence is checked.
func (s *ImageService) Delete(id uint) error {
	if err := validation.RequireID("image id", id); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var image models.Image
		if err := tx.First(&image, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("image", id)
			}
			return fmt.Errorf("failed to load image %d: %w", id, err)
		}
		if err := tx.Delete(&image).Error; err != nil {
			return fmt.Errorf("failed to delete image %d: %w", id, err)
		}
		return nil
	})
}
