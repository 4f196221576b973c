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

const (
	skillNameMaxLen   = 100
	descriptionMaxLen = 5000
)

var skillFields = map[string]string{
	"name":        "name",
	"description": "description",
}

// SkillService handles business logic for skills.
type SkillService struct {
	db *gorm.DB
}

// NewSkillService creates a new SkillService.
func NewSkillService(db *gorm.DB) *SkillService {
	return &SkillService{db: db}
}

// GetMany returns a page of skills.
func (s *SkillService) GetMany(params listing.Params) ([]models.Skill, listing.Pagination, error) {
	return listing.Find[models.Skill](s.db, params, skillFields, "name", "Tags")
}

// GetOne returns the skill with the given id, or nil when no row matches.
func (s *SkillService) GetOne(id uint) (*models.Skill, error) {
	if err := validation.RequireID("skill id", id); err != nil {
		return nil, err
	}
	var skill models.Skill
	if err := s.db.Preload("Tags").First(&skill, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get skill %d: %w", id, err)
	}
	return &skill, nil
}

// Create validates the input, checks name uniqueness and inserts the skill.
func (s *SkillService) Create(input models.SkillInput) (*models.Skill, error) {
	name, _, err := validation.Name("name", input.Name, true, skillNameMaxLen)
	if err != nil {
		return nil, err
	}
	description, hasDescription, err := validation.Text("description", input.Description, descriptionMaxLen)
	if err != nil {
		return nil, err
	}

	skill := models.Skill{Name: name}
	if hasDescription {
		skill.Description = &description
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := checkNameAvailable(tx, &models.Skill{}, "skill", name, 0); err != nil {
			return err
		}
		if err := tx.Create(&skill).Error; err != nil {
			return translateCreateError(err, "skill", "name", name)
		}
		if input.TagIDs != nil {
			tags, err := fetchTags(tx, *input.TagIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&skill).Association("Tags").Replace(&tags); err != nil {
				return fmt.Errorf("failed to set skill tags: %w", err)
			}
			skill.Tags = tags
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

// Update applies the provided fields to the skill with the given id. A
// missing row yields a nil result rather than an error.
func (s *SkillService) Update(id uint, input models.SkillInput) (*models.Skill, error) {
	if err := validation.RequireID("skill id", id); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if input.Name != nil {
		name, _, err := validation.Name("name", input.Name, false, skillNameMaxLen)
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

	var skill *models.Skill
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Skill
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to load skill %d: %w", id, err)
		}
		if name, ok := updates["name"].(string); ok && name != existing.Name {
			if err := checkNameAvailable(tx, &models.Skill{}, "skill", name, id); err != nil {
				return err
			}
		}
		if len(updates) > 0 {
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return apperrors.Conflict("skill with name '%v' already exists", updates["name"])
				}
				return fmt.Errorf("failed to update skill %d: %w", id, err)
			}
			if err := tx.First(&existing, id).Error; err != nil {
				return fmt.Errorf("failed to reload skill %d: %w", id, err)
			}
		}
		if input.TagIDs != nil {
			tags, err := fetchTags(tx, *input.TagIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&existing).Association("Tags").Replace(&tags); err != nil {
				return fmt.Errorf("failed to set skill tags: %w", err)
			}
			existing.Tags = tags
		}
		skill = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return skill, nil
}

// Delete removes the skill unless archetypes or races still reference it.
func (s *SkillService) Delete(id uint) error {
	if err := validation.RequireID("skill id", id); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var skill models.Skill
		if err := tx.First(&skill, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("skill", id)
			}
			return fmt.Errorf("failed to load skill %d: %w", id, err)
		}

		archetypes, err := countRefs(tx, "archetype_skills", "skill_id", id)
		if err != nil {
			return err
		}
		races, err := countRefs(tx, "race_skills", "skill_id", id)
		if err != nil {
			return err
		}
		if archetypes+races > 0 {
			return apperrors.Conflict(
				"cannot delete skill '%s': referenced by %d archetypes and %d races",
				skill.Name, archetypes, races)
		}

		if err := tx.Model(&skill).Association("Tags").Clear(); err != nil {
			return fmt.Errorf("failed to clear skill tags: %w", err)
		}
		if err := tx.Delete(&skill).Error; err != nil {
			return fmt.Errorf("failed to delete skill %d: %w", id, err)
		}
		return nil
	})
}
