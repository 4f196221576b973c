package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/apperrors"
	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/listing"
	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/models"
	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/validation"
)

const tagNameMaxLen = 50

var tagFields = map[string]string{
	"name":        "name",
	"description": "description",
}

// tagJoinTables lists every join table a tag can be referenced from.
var tagJoinTables = []struct {
	table  string
	entity string
}{
	{"skill_tags", "skills"},
	{"item_tags", "items"},
	{"character_tags", "characters"},
	{"archetype_tags", "archetypes"},
	{"race_tags", "races"},
}

// TagService handles business logic for tags.
type TagService struct {
	db *gorm.DB
}

// NewTagService creates a new TagService.
func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// GetMany returns a page of tags.
func (s *TagService) GetMany(params listing.Params) ([]models.Tag, listing.Pagination, error) {
	return listing.Find[models.Tag](s.db, params, tagFields, "name")
}

// GetOne returns the tag with the given id, or nil when no row matches.
func (s *TagService) GetOne(id uint) (*models.Tag, error) {
	if err := validation.RequireID("tag id", id); err != nil {
		return nil, err
	}
	var tag models.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tag %d: %w", id, err)
	}
	return &tag, nil
}

// Create validates the input, checks name uniqueness and inserts the tag.
func (s *TagService) Create(input models.TagInput) (*models.Tag, error) {
	name, _, err := validation.Name("name", input.Name, true, tagNameMaxLen)
	if err != nil {
		return nil, err
	}
	description, hasDescription, err := validation.Text("description", input.Description, descriptionMaxLen)
	if err != nil {
		return nil, err
	}

	tag := models.Tag{Name: name}
	if hasDescription {
		tag.Description = &description
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := checkNameAvailable(tx, &models.Tag{}, "tag", name, 0); err != nil {
			return err
		}
		if err := tx.Create(&tag).Error; err != nil {
			return translateCreateError(err, "tag", "name", name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// Update applies the provided fields to the tag with the given id. A missing
// row yields a nil result rather than an error.
func (s *TagService) Update(id uint, input models.TagInput) (*models.Tag, error) {
	if err := validation.RequireID("tag id", id); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if input.Name != nil {
		name, _, err := validation.Name("name", input.Name, false, tagNameMaxLen)
		if err != nil {
			return nil, err
		}
		updates["name"] = name
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

	var tag *models.Tag
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Tag
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to load tag %d: %w", id, err)
		}
		if name, ok := updates["name"].(string); ok && name != existing.Name {
			if err := checkNameAvailable(tx, &models.Tag{}, "tag", name, id); err != nil {
				return err
			}
		}
		if len(updates) > 0 {
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return apperrors.Conflict("tag with name '%v' already exists", updates["name"])
				}
				return fmt.Errorf("failed to update tag %d: %w", id, err)
			}
			if err := tx.First(&existing, id).Error; err != nil {
				return fmt.Errorf("failed to reload tag %d: %w", id, err)
			}
		}
		tag = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// Delete removes the tag unless any of the five taggable entity kinds still
// reference it.
func (s *TagService) Delete(id uint) error {
	if err := validation.RequireID("tag id", id); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var tag models.Tag
		if err := tx.First(&tag, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("tag", id)
			}
			return fmt.Errorf("failed to load tag %d: %w", id, err)
		}

		var total int64
		details := ""
		for _, join := range tagJoinTables {
			count, err := countRefs(tx, join.table, "tag_id", id)
			if err != nil {
				return err
			}
			if count > 0 {
				if details != "" {
					details += ", "
				}
				details += fmt.Sprintf("%d %s", count, join.entity)
			}
			total += count
		}
		if total > 0 {
			return apperrors.Conflict("cannot delete tag '%s': referenced by %s", tag.Name, details)
		}

		if err := tx.Delete(&tag).Error; err != nil {
			return fmt.Errorf("failed to delete tag %d: %w", id, err)
		}
		return nil
	})
}
