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
	raceNameMaxLen  = 50
	raceModifierMin = -10
	raceModifierMax = 10
)

var raceFields = map[string]string{
	"name":        "name",
	"description": "description",
}

// raceModifierColumns drives validation of the nine stat modifiers.
var raceModifierColumns = []struct {
	field  string
	column string
	value  func(*models.RaceInput) *int
	assign func(*models.Race, int)
}{
	{"healthModifier", "health_modifier",
		func(in *models.RaceInput) *int { return in.HealthModifier },
		func(r *models.Race, v int) { r.HealthModifier = v }},
	{"staminaModifier", "stamina_modifier",
		func(in *models.RaceInput) *int { return in.StaminaModifier },
		func(r *models.Race, v int) { r.StaminaModifier = v }},
	{"manaModifier", "mana_modifier",
		func(in *models.RaceInput) *int { return in.ManaModifier },
		func(r *models.Race, v int) { r.ManaModifier = v }},
	{"strengthModifier", "strength_modifier",
		func(in *models.RaceInput) *int { return in.StrengthModifier },
		func(r *models.Race, v int) { r.StrengthModifier = v }},
	{"dexterityModifier", "dexterity_modifier",
		func(in *models.RaceInput) *int { return in.DexterityModifier },
		func(r *models.Race, v int) { r.DexterityModifier = v }},
	{"constitutionModifier", "constitution_modifier",
		func(in *models.RaceInput) *int { return in.ConstitutionModifier },
		func(r *models.Race, v int) { r.ConstitutionModifier = v }},
	{"intelligenceModifier", "intelligence_modifier",
		func(in *models.RaceInput) *int { return in.IntelligenceModifier },
		func(r *models.Race, v int) { r.IntelligenceModifier = v }},
	{"wisdomModifier", "wisdom_modifier",
		func(in *models.RaceInput) *int { return in.WisdomModifier },
		func(r *models.Race, v int) { r.WisdomModifier = v }},
	{"charismaModifier", "charisma_modifier",
		func(in *models.RaceInput) *int { return in.CharismaModifier },
		func(r *models.Race, v int) { r.CharismaModifier = v }},
}

// RaceService handles business logic for races.
type RaceService struct {
	db *gorm.DB
}

// NewRaceService creates a new RaceService.
func NewRaceService(db *gorm.DB) *RaceService {
	return &RaceService{db: db}
}

// GetMany returns a page of races.
func (s *RaceService) GetMany(params listing.Params) ([]models.Race, listing.Pagination, error) {
	return listing.Find[models.Race](s.db, params, raceFields, "name", "Skills", "Tags")
}

// GetOne returns the race with the given id, or nil when no row matches.
func (s *RaceService) GetOne(id uint) (*models.Race, error) {
	if err := validation.RequireID("race id", id); err != nil {
		return nil, err
	}
	var race models.Race
	if err := s.db.Preload("Skills").Preload("Tags").First(&race, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get race %d: %w", id, err)
	}
	return &race, nil
}

// Create validates the input, checks name uniqueness and inserts the race.
// Absent modifiers default to zero.
func (s *RaceService) Create(input models.RaceInput) (*models.Race, error) {
	name, _, err := validation.Name("name", input.Name, true, raceNameMaxLen)
	if err != nil {
		return nil, err
	}
	description, hasDescription, err := validation.Text("description", input.Description, descriptionMaxLen)
	if err != nil {
		return nil, err
	}

	race := models.Race{Name: name}
	if hasDescription {
		race.Description = &description
	}

	for _, m := range raceModifierColumns {
		value, ok, err := validation.IntInRange(m.field, m.value(&input), false, raceModifierMin, raceModifierMax)
		if err != nil {
			return nil, err
		}
		if ok {
			m.assign(&race, value)
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := checkNameAvailable(tx, &models.Race{}, "race", name, 0); err != nil {
			return err
		}
		if err := tx.Create(&race).Error; err != nil {
			return translateCreateError(err, "race", "name", name)
		}
		if err := applyRaceAssociations(tx, &race, input); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &race, nil
}

// Update applies the provided fields to the race with the given id. A missing
// row yields a nil result rather than an error.
func (s *RaceService) Update(id uint, input models.RaceInput) (*models.Race, error) {
	if err := validation.RequireID("race id", id); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if input.Name != nil {
		name, _, err := validation.Name("name", input.Name, false, raceNameMaxLen)
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
	for _, m := range raceModifierColumns {
		value, ok, err := validation.IntInRange(m.field, m.value(&input), false, raceModifierMin, raceModifierMax)
		if err != nil {
			return nil, err
		}
		if ok {
			updates[m.column] = value
		}
	}

	var race *models.Race
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Race
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to load race %d: %w", id, err)
		}
		if name, ok := updates["name"].(string); ok && name != existing.Name {
			if err := checkNameAvailable(tx, &models.Race{}, "race", name, id); err != nil {
				return err
			}
		}
		if len(updates) > 0 {
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return apperrors.Conflict("race with name '%v' already exists", updates["name"])
				}
				return fmt.Errorf("failed to update race %d: %w", id, err)
			}
			if err := tx.First(&existing, id).Error; err != nil {
				return fmt.Errorf("failed to reload race %d: %w", id, err)
			}
		}
		if err := applyRaceAssociations(tx, &existing, input); err != nil {
			return err
		}
		race = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return race, nil
}

// applyRaceAssociations replaces the skill and tag links for the fields
// present in the input.
func applyRaceAssociations(tx *gorm.DB, race *models.Race, input models.RaceInput) error {
	if input.SkillIDs != nil {
		skills, err := fetchSkills(tx, *input.SkillIDs)
		if err != nil {
			return err
		}
		if err := tx.Model(race).Association("Skills").Replace(&skills); err != nil {
			return fmt.Errorf("failed to set race skills: %w", err)
		}
		race.Skills = skills
	}
	if input.TagIDs != nil {
		tags, err := fetchTags(tx, *input.TagIDs)
		if err != nil {
			return err
		}
		if err := tx.Model(race).Association("Tags").Replace(&tags); err != nil {
			return fmt.Errorf("failed to set race tags: %w", err)
		}
		race.Tags = tags
	}
	return nil
}

// Delete removes the race unless characters still reference it.
func (s *RaceService) Delete(id uint) error {
	if err := validation.RequireID("race id", id); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var race models.Race
		if err := tx.First(&race, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("race", id)
			}
			return fmt.Errorf("failed to load race %d: %w", id, err)
		}

		characters, err := countRefs(tx, "characters", "race_id", id)
		if err != nil {
			return err
		}
		if characters > 0 {
			return apperrors.Conflict(
				"cannot delete race '%s': referenced by %d characters",
				race.Name, characters)
		}

		if err := tx.Model(&race).Association("Skills").Clear(); err != nil {
			return fmt.Errorf("failed to clear race skills: %w", err)
		}
		if err := tx.Model(&race).Association("Tags").Clear(); err != nil {
			return fmt.Errorf("failed to clear race tags: %w", err)
		}
		if err := tx.Delete(&race).Error; err != nil {
			return fmt.Errorf("failed to delete race %d: %w", id, err)
		}
		return nil
	})
}
