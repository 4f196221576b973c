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

const archetypeNameMaxLen = 50

var archetypeFields = map[string]string{
	"name":        "name",
	"description": "description",
}

// ArchetypeService handles business logic for archetypes.
type ArchetypeService struct {
	db *gorm.DB
}

// NewArchetypeService creates a new ArchetypeService.
func NewArchetypeService(db *gorm.DB) *ArchetypeService {
	return &ArchetypeService{db: db}
}

// GetMany returns a page of archetypes.
func (s *ArchetypeService) GetMany(params listing.Params) ([]models.Archetype, listing.Pagination, error) {
	return listing.Find[models.Archetype](s.db, params, archetypeFields, "name", "Skills", "Tags")
}

// GetOne returns the archetype with the given id, or nil when no row matches.
func (s *ArchetypeService) GetOne(id uint) (*models.Archetype, error) {
	if err := validation.RequireID("archetype id", id); err != nil {
		return nil, err
	}
	var archetype models.Archetype
	if err := s.db.Preload("Skills").Preload("Tags").First(&archetype, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get archetype %d: %w", id, err)
	}
	return &archetype, nil
}

// Create validates the input, checks name uniqueness and inserts the archetype.
func (s *ArchetypeService) Create(input models.ArchetypeInput) (*models.Archetype, error) {
	name, _, err := validation.Name("name", input.Name, true, archetypeNameMaxLen)
	if err != nil {
		return nil, err
	}
	description, hasDescription, err := validation.Text("description", input.Description, descriptionMaxLen)
	if err != nil {
		return nil, err
	}

	archetype := models.Archetype{Name: name}
	if hasDescription {
		archetype.Description = &description
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := checkNameAvailable(tx, &models.Archetype{}, "archetype", name, 0); err != nil {
			return err
		}
		if err := tx.Create(&archetype).Error; err != nil {
			return translateCreateError(err, "archetype", "name", name)
		}
		if err := applyArchetypeAssociations(tx, &archetype, input); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &archetype, nil
}

// Update applies the provided fields to the archetype with the given id. A
// missing row yields a nil result rather than an error.
func (s *ArchetypeService) Update(id uint, input models.ArchetypeInput) (*models.Archetype, error) {
	if err := validation.RequireID("archetype id", id); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if input.Name != nil {
		name, _, err := validation.Name("name", input.Name, false, archetypeNameMaxLen)
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

	var archetype *models.Archetype
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Archetype
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to load archetype %d: %w", id, err)
		}
		if name, ok := updates["name"].(string); ok && name != existing.Name {
			if err := checkNameAvailable(tx, &models.Archetype{}, "archetype", name, id); err != nil {
				return err
			}
		}
		if len(updates) > 0 {
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return apperrors.Conflict("archetype with name '%v' already exists", updates["name"])
				}
				return fmt.Errorf("failed to update archetype %d: %w", id, err)
			}
			if err := tx.First(&existing, id).Error; err != nil {
				return fmt.Errorf("failed to reload archetype %d: %w", id, err)
			}
		}
		if err := applyArchetypeAssociations(tx, &existing, input); err != nil {
			return err
		}
		archetype = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return archetype, nil
}

// applyArchetypeAssociations replaces the skill and tag links for the fields
// present in the input.
func applyArchetypeAssociations(tx *gorm.DB, archetype *models.Archetype, input models.ArchetypeInput) error {
	if input.SkillIDs != nil {
		skills, err := fetchSkills(tx, *input.SkillIDs)
		if err != nil {
			return err
		}
		if err := tx.Model(archetype).Association("Skills").Replace(&skills); err != nil {
			return fmt.Errorf("failed to set archetype skills: %w", err)
		}
		archetype.Skills = skills
	}
	if input.TagIDs != nil {
		tags, err := fetchTags(tx, *input.TagIDs)
		if err != nil {
			return err
		}
		if err := tx.Model(archetype).Association("Tags").Replace(&tags); err != nil {
			return fmt.Errorf("failed to set archetype tags: %w", err)
		}
		archetype.Tags = tags
	}
	return nil
}

// Delete removes the archetype unless characters still reference it.
func (s *ArchetypeService) Delete(id uint) error {
	if err := validation.RequireID("archetype id", id); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var archetype models.Archetype
		if err := tx.First(&archetype, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("archetype", id)
			}
			return fmt.Errorf("failed to load archetype %d: %w", id, err)
		}

		characters, err := countRefs(tx, "characters", "archetype_id", id)
		if err != nil {
			return err
		}
		if characters > 0 {
			return apperrors.Conflict(
				"cannot delete archetype '%s': referenced by %d characters",
				archetype.Name, characters)
		}

		if err := tx.Model(&archetype).Association("Skills").Clear(); err != nil {
			return fmt.Errorf("failed to clear archetype skills: %w", err)
		}
		if err := tx.Model(&archetype).Association("Tags").Clear(); err != nil {
			return fmt.Errorf("failed to clear archetype tags: %w", err)
		}
		if err := tx.Delete(&archetype).Error; err != nil {
			return fmt.Errorf("failed to delete archetype %d: %w", id, err)
		}
		return nil
	})
}
