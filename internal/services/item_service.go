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
	itemNameMaxLen    = 100
	itemThresholdMax  = 50
	itemDurabilityMax = 10000
)

var itemFields = map[string]string{
	"name":        "name",
	"description": "description",
	"rarity":      "rarity",
}

// itemStatColumns drives validation of every bounded numeric item field.
// min/max are inclusive; fallback is the value used when create omits it.
var itemStatColumns = []struct {
	field    string
	column   string
	min, max int
	fallback int
	value    func(*models.ItemInput) *int
	assign   func(*models.Item, int)
}{
	{"attack", "attack", 0, 1 << 30, 0,
		func(in *models.ItemInput) *int { return in.Attack },
		func(it *models.Item, v int) { it.Attack = v }},
	{"defense", "defense", 0, 1 << 30, 0,
		func(in *models.ItemInput) *int { return in.Defense },
		func(it *models.Item, v int) { it.Defense = v }},
	{"requiredStrength", "required_strength", 0, itemThresholdMax, 0,
		func(in *models.ItemInput) *int { return in.RequiredStrength },
		func(it *models.Item, v int) { it.RequiredStrength = v }},
	{"requiredDexterity", "required_dexterity", 0, itemThresholdMax, 0,
		func(in *models.ItemInput) *int { return in.RequiredDexterity },
		func(it *models.Item, v int) { it.RequiredDexterity = v }},
	{"requiredConstitution", "required_constitution", 0, itemThresholdMax, 0,
		func(in *models.ItemInput) *int { return in.RequiredConstitution },
		func(it *models.Item, v int) { it.RequiredConstitution = v }},
	{"requiredIntelligence", "required_intelligence", 0, itemThresholdMax, 0,
		func(in *models.ItemInput) *int { return in.RequiredIntelligence },
		func(it *models.Item, v int) { it.RequiredIntelligence = v }},
	{"requiredWisdom", "required_wisdom", 0, itemThresholdMax, 0,
		func(in *models.ItemInput) *int { return in.RequiredWisdom },
		func(it *models.Item, v int) { it.RequiredWisdom = v }},
	{"requiredCharisma", "required_charisma", 0, itemThresholdMax, 0,
		func(in *models.ItemInput) *int { return in.RequiredCharisma },
		func(it *models.Item, v int) { it.RequiredCharisma = v }},
	{"bonusStrength", "bonus_strength", 0, itemThresholdMax, 0,
		func(in *models.ItemInput) *int { return in.BonusStrength },
		func(it *models.Item, v int) { it.BonusStrength = v }},
	{"bonusDexterity", "bonus_dexterity", 0, itemThresholdMax, 0,
		func(in *models.ItemInput) *int { return in.BonusDexterity },
		func(it *models.Item, v int) { it.BonusDexterity = v }},
	{"bonusConstitution", "bonus_constitution", 0, itemThresholdMax, 0,
		func(in *models.ItemInput) *int { return in.BonusConstitution },
		func(it *models.Item, v int) { it.BonusConstitution = v }},
	{"bonusIntelligence", "bonus_intelligence", 0, itemThresholdMax, 0,
		func(in *models.ItemInput) *int { return in.BonusIntelligence },
		func(it *models.Item, v int) { it.BonusIntelligence = v }},
	{"bonusWisdom", "bonus_wisdom", 0, itemThresholdMax, 0,
		func(in *models.ItemInput) *int { return in.BonusWisdom },
		func(it *models.Item, v int) { it.BonusWisdom = v }},
	{"bonusCharisma", "bonus_charisma", 0, itemThresholdMax, 0,
		func(in *models.ItemInput) *int { return in.BonusCharisma },
		func(it *models.Item, v int) { it.BonusCharisma = v }},
	{"bonusHealth", "bonus_health", 0, itemThresholdMax, 0,
		func(in *models.ItemInput) *int { return in.BonusHealth },
		func(it *models.Item, v int) { it.BonusHealth = v }},
	{"durability", "durability", 1, itemDurabilityMax, 100,
		func(in *models.ItemInput) *int { return in.Durability },
		func(it *models.Item, v int) { it.Durability = v }},
	{"weight", "weight", 1, 1 << 30, 1,
		func(in *models.ItemInput) *int { return in.Weight },
		func(it *models.Item, v int) { it.Weight = v }},
}

// itemFlagColumns drives application of the non-exclusive category booleans.
var itemFlagColumns = []struct {
	column string
	value  func(*models.ItemInput) *bool
	assign func(*models.Item, bool)
}{
	{"is_weapon",
		func(in *models.ItemInput) *bool { return in.IsWeapon },
		func(it *models.Item, v bool) { it.IsWeapon = v }},
	{"is_shield",
		func(in *models.ItemInput) *bool { return in.IsShield },
		func(it *models.Item, v bool) { it.IsShield = v }},
	{"is_armor",
		func(in *models.ItemInput) *bool { return in.IsArmor },
		func(it *models.Item, v bool) { it.IsArmor = v }},
	{"is_accessory",
		func(in *models.ItemInput) *bool { return in.IsAccessory },
		func(it *models.Item, v bool) { it.IsAccessory = v }},
	{"is_consumable",
		func(in *models.ItemInput) *bool { return in.IsConsumable },
		func(it *models.Item, v bool) { it.IsConsumable = v }},
	{"is_quest_item",
		func(in *models.ItemInput) *bool { return in.IsQuestItem },
		func(it *models.Item, v bool) { it.IsQuestItem = v }},
	{"is_crafting_material",
		func(in *models.ItemInput) *bool { return in.IsCraftingMaterial },
		func(it *models.Item, v bool) { it.IsCraftingMaterial = v }},
	{"is_misc",
		func(in *models.ItemInput) *bool { return in.IsMisc },
		func(it *models.Item, v bool) { it.IsMisc = v }},
}

// ItemService handles business logic for items.
type ItemService struct {
	db *gorm.DB
}

// NewItemService creates a new ItemService.
func NewItemService(db *gorm.DB) *ItemService {
	return &ItemService{db: db}
}

// GetMany returns a page of items.
func (s *ItemService) GetMany(params listing.Params) ([]models.Item, listing.Pagination, error) {
	return listing.Find[models.Item](s.db, params, itemFields, "name", "Tags")
}

// GetOne returns the item with the given id, or nil when no row matches.
func (s *ItemService) GetOne(id uint) (*models.Item, error) {
	if err := validation.RequireID("item id", id); err != nil {
		return nil, err
	}
	var item models.Item
	if err := s.db.Preload("Tags").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get item %d: %w", id, err)
	}
	return &item, nil
}

// validateRarity checks a rarity value against the known tiers.
func validateRarity(value string) (string, error) {
	for _, rarity := range models.Rarities {
		if value == rarity {
			return value, nil
		}
	}
	return "", apperrors.Validation("rarity must be one of common, uncommon, rare, epic, legendary")
}

// Create validates the input, checks name uniqueness and inserts the item.
// Absent numeric fields take their defaults (durability 100, weight 1, rest 0)
// and absent rarity defaults to common.
func (s *ItemService) Create(input models.ItemInput) (*models.Item, error) {
	name, _, err := validation.Name("name", input.Name, true, itemNameMaxLen)
	if err != nil {
		return nil, err
	}
	description, hasDescription, err := validation.Text("description", input.Description, descriptionMaxLen)
	if err != nil {
		return nil, err
	}

	rarity := models.RarityCommon
	if input.Rarity != nil {
		rarity, err = validateRarity(*input.Rarity)
		if err != nil {
			return nil, err
		}
	}

	item := models.Item{Name: name, Rarity: rarity}
	if hasDescription {
		item.Description = &description
	}
	for _, col := range itemStatColumns {
		value, ok, err := validation.IntInRange(col.field, col.value(&input), false, col.min, col.max)
		if err != nil {
			return nil, err
		}
		if !ok {
			value = col.fallback
		}
		col.assign(&item, value)
	}
	for _, col := range itemFlagColumns {
		if flag := col.value(&input); flag != nil {
			col.assign(&item, *flag)
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := checkNameAvailable(tx, &models.Item{}, "item", name, 0); err != nil {
			return err
		}
		if err := tx.Create(&item).Error; err != nil {
			return translateCreateError(err, "item", "name", name)
		}
		if input.TagIDs != nil {
			tags, err := fetchTags(tx, *input.TagIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&item).Association("Tags").Replace(&tags); err != nil {
				return fmt.Errorf("failed to set item tags: %w", err)
			}
			item.Tags = tags
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Update applies the provided fields to the item with the given id. A missing
// row yields a nil result rather than an error.
func (s *ItemService) Update(id uint, input models.ItemInput) (*models.Item, error) {
	if err := validation.RequireID("item id", id); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if input.Name != nil {
		name, _, err := validation.Name("name", input.Name, false, itemNameMaxLen)
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
	if input.Rarity != nil {
		rarity, err := validateRarity(*input.Rarity)
		if err != nil {
			return nil, err
		}
		updates["rarity"] = rarity
	}
	for _, col := range itemStatColumns {
		value, ok, err := validation.IntInRange(col.field, col.value(&input), false, col.min, col.max)
		if err != nil {
			return nil, err
		}
		if ok {
			updates[col.column] = value
		}
	}
	for _, col := range itemFlagColumns {
		if flag := col.value(&input); flag != nil {
			updates[col.column] = *flag
		}
	}

	var item *models.Item
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Item
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to load item %d: %w", id, err)
		}
		if name, ok := updates["name"].(string); ok && name != existing.Name {
			if err := checkNameAvailable(tx, &models.Item{}, "item", name, id); err != nil {
				return err
			}
		}
		if len(updates) > 0 {
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return apperrors.Conflict("item with name '%v' already exists", updates["name"])
				}
				return fmt.Errorf("failed to update item %d: %w", id, err)
			}
			if err := tx.First(&existing, id).Error; err != nil {
				return fmt.Errorf("failed to reload item %d: %w", id, err)
			}
		}
		if input.TagIDs != nil {
			tags, err := fetchTags(tx, *input.TagIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&existing).Association("Tags").Replace(&tags); err != nil {
				return fmt.Errorf("failed to set item tags: %w", err)
			}
			existing.Tags = tags
		}
		item = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// characterSlotColumns lists the equipment-slot foreign keys on characters.
var characterSlotColumns = []string{
	"primary_weapon_id", "secondary_weapon_id", "shield_id", "armor_id",
	"first_ring_id", "second_ring_id", "amulet_id",
}

// Delete removes the item unless a character has it equipped in any slot.
func (s *ItemService) Delete(id uint) error {
	if err := validation.RequireID("item id", id); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("item", id)
			}
			return fmt.Errorf("failed to load item %d: %w", id, err)
		}

		var characters int64
		query := tx.Model(&models.Character{})
		for i, column := range characterSlotColumns {
			condition := fmt.Sprintf("%s = ?", column)
			if i == 0 {
				query = query.Where(condition, id)
			} else {
				query = query.Or(condition, id)
			}
		}
		if err := query.Count(&characters).Error; err != nil {
			return fmt.Errorf("failed to count characters equipping item %d: %w", id, err)
		}
		if characters > 0 {
			return apperrors.Conflict(
				"cannot delete item '%s': equipped by %d characters",
				item.Name, characters)
		}

		if err := tx.Model(&item).Association("Tags").Clear(); err != nil {
			return fmt.Errorf("failed to clear item tags: %w", err)
		}
		if err := tx.Delete(&item).Error; err != nil {
			return fmt.Errorf("failed to delete item %d: %w", id, err)
		}
		return nil
	})
}
