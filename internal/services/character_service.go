package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/apperrors"
	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/listing"
	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/models"
	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/stats"
	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/validation"
)

const characterNameMaxLen = 50

// EventPublisher publishes archive change events. A nil publisher disables
// publishing; delivery failures never fail the request.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

var characterFields = map[string]string{
	"name":        "name",
	"surname":     "surname",
	"nickname":    "nickname",
	"description": "description",
}

// characterPreloads are the relations needed to compute aggregate stats.
var characterPreloads = []string{
	"Race", "Archetype",
	"PrimaryWeapon", "SecondaryWeapon", "Shield", "Armor",
	"FirstRing", "SecondRing", "Amulet",
	"Tags",
}

// characterAttributeColumns drives validation of the six base attributes.
var characterAttributeColumns = []struct {
	field  string
	column string
	value  func(*models.CharacterInput) *int
	assign func(*models.Character, int)
}{
	{"strength", "strength",
		func(in *models.CharacterInput) *int { return in.Strength },
		func(ch *models.Character, v int) { ch.Strength = v }},
	{"dexterity", "dexterity",
		func(in *models.CharacterInput) *int { return in.Dexterity },
		func(ch *models.Character, v int) { ch.Dexterity = v }},
	{"constitution", "constitution",
		func(in *models.CharacterInput) *int { return in.Constitution },
		func(ch *models.Character, v int) { ch.Constitution = v }},
	{"intelligence", "intelligence",
		func(in *models.CharacterInput) *int { return in.Intelligence },
		func(ch *models.Character, v int) { ch.Intelligence = v }},
	{"wisdom", "wisdom",
		func(in *models.CharacterInput) *int { return in.Wisdom },
		func(ch *models.Character, v int) { ch.Wisdom = v }},
	{"charisma", "charisma",
		func(in *models.CharacterInput) *int { return in.Charisma },
		func(ch *models.Character, v int) { ch.Charisma = v }},
}

// characterResourceColumns drives validation of the three resource pools.
var characterResourceColumns = []struct {
	field  string
	column string
	value  func(*models.CharacterInput) *int
	assign func(*models.Character, int)
}{
	{"health", "health",
		func(in *models.CharacterInput) *int { return in.Health },
		func(ch *models.Character, v int) { ch.Health = v }},
	{"stamina", "stamina",
		func(in *models.CharacterInput) *int { return in.Stamina },
		func(ch *models.Character, v int) { ch.Stamina = v }},
	{"mana", "mana",
		func(in *models.CharacterInput) *int { return in.Mana },
		func(ch *models.Character, v int) { ch.Mana = v }},
}

// characterSlots drives validation of the seven optional equipment slots.
var characterSlots = []struct {
	field  string
	column string
	value  func(*models.CharacterInput) *uint
	assign func(*models.Character, *uint)
}{
	{"primaryWeaponId", "primary_weapon_id",
		func(in *models.CharacterInput) *uint { return in.PrimaryWeaponID },
		func(ch *models.Character, id *uint) { ch.PrimaryWeaponID = id }},
	{"secondaryWeaponId", "secondary_weapon_id",
		func(in *models.CharacterInput) *uint { return in.SecondaryWeaponID },
		func(ch *models.Character, id *uint) { ch.SecondaryWeaponID = id }},
	{"shieldId", "shield_id",
		func(in *models.CharacterInput) *uint { return in.ShieldID },
		func(ch *models.Character, id *uint) { ch.ShieldID = id }},
	{"armorId", "armor_id",
		func(in *models.CharacterInput) *uint { return in.ArmorID },
		func(ch *models.Character, id *uint) { ch.ArmorID = id }},
	{"firstRingId", "first_ring_id",
		func(in *models.CharacterInput) *uint { return in.FirstRingID },
		func(ch *models.Character, id *uint) { ch.FirstRingID = id }},
	{"secondRingId", "second_ring_id",
		func(in *models.CharacterInput) *uint { return in.SecondRingID },
		func(ch *models.Character, id *uint) { ch.SecondRingID = id }},
	{"amuletId", "amulet_id",
		func(in *models.CharacterInput) *uint { return in.AmuletID },
		func(ch *models.Character, id *uint) { ch.AmuletID = id }},
}

// CharacterService handles business logic for characters. Aggregate stats are
// recomputed from the preloaded race and equipment on every read; they are
// never persisted.
type CharacterService struct {
	db        *gorm.DB
	publisher EventPublisher
}

// NewCharacterService creates a new CharacterService. publisher may be nil.
func NewCharacterService(db *gorm.DB, publisher EventPublisher) *CharacterService {
	return &CharacterService{db: db, publisher: publisher}
}

// GetMany returns a page of characters with aggregate stats attached.
func (s *CharacterService) GetMany(params listing.Params) ([]models.Character, listing.Pagination, error) {
	characters, pagination, err := listing.Find[models.Character](s.db, params, characterFields, "name", characterPreloads...)
	if err != nil {
		return nil, listing.Pagination{}, err
	}
	for i := range characters {
		aggregate := stats.Aggregate(&characters[i])
		characters[i].Aggregate = &aggregate
	}
	return characters, pagination, nil
}

// GetOne returns the character with the given id, aggregate stats attached,
// or nil when no row matches.
func (s *CharacterService) GetOne(id uint) (*models.Character, error) {
	if err := validation.RequireID("character id", id); err != nil {
		return nil, err
	}
	return s.loadCharacter(s.db, id)
}

// loadCharacter fetches a character with every relation preloaded and the
// aggregate block computed. Returns nil when no row matches.
func (s *CharacterService) loadCharacter(db *gorm.DB, id uint) (*models.Character, error) {
	query := db
	for _, preload := range characterPreloads {
		query = query.Preload(preload)
	}
	var character models.Character
	if err := query.First(&character, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get character %d: %w", id, err)
	}
	aggregate := stats.Aggregate(&character)
	character.Aggregate = &aggregate
	return &character, nil
}

// Create validates the full input, verifies every referenced entity exists,
// checks name uniqueness and inserts the character inside one transaction.
func (s *CharacterService) Create(input models.CharacterInput) (*models.Character, error) {
	name, _, err := validation.Name("name", input.Name, true, characterNameMaxLen)
	if err != nil {
		return nil, err
	}
	surname, hasSurname, err := validation.Name("surname", input.Surname, false, characterNameMaxLen)
	if err != nil {
		return nil, err
	}
	nickname, hasNickname, err := validation.Name("nickname", input.Nickname, false, characterNameMaxLen)
	if err != nil {
		return nil, err
	}
	description, hasDescription, err := validation.Text("description", input.Description, descriptionMaxLen)
	if err != nil {
		return nil, err
	}

	character := models.Character{Name: name, Visible: true}
	if hasSurname {
		character.Surname = &surname
	}
	if hasNickname {
		character.Nickname = &nickname
	}
	if hasDescription {
		character.Description = &description
	}
	if input.Visible != nil {
		character.Visible = *input.Visible
	}

	for _, col := range characterAttributeColumns {
		value, _, err := validation.Attribute(col.field, col.value(&input), true)
		if err != nil {
			return nil, err
		}
		col.assign(&character, value)
	}
	for _, col := range characterResourceColumns {
		value, _, err := validation.ResourceStat(col.field, col.value(&input), true)
		if err != nil {
			return nil, err
		}
		col.assign(&character, value)
	}

	raceID, _, err := validation.ID("raceId", input.RaceID, true)
	if err != nil {
		return nil, err
	}
	archetypeID, _, err := validation.ID("archetypeId", input.ArchetypeID, true)
	if err != nil {
		return nil, err
	}
	userID, _, err := validation.ID("userId", input.UserID, true)
	if err != nil {
		return nil, err
	}
	character.RaceID = raceID
	character.ArchetypeID = archetypeID
	character.UserID = userID

	slotIDs := make(map[string]uint)
	for _, slot := range characterSlots {
		id, ok, err := validation.ID(slot.field, slot.value(&input), false)
		if err != nil {
			return nil, err
		}
		if ok {
			slotIDs[slot.column] = id
			itemID := id
			slot.assign(&character, &itemID)
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := checkNameAvailable(tx, &models.Character{}, "character", name, 0); err != nil {
			return err
		}
		if err := ensureExists(tx, &models.Race{}, "race", raceID); err != nil {
			return err
		}
		if err := ensureExists(tx, &models.Archetype{}, "archetype", archetypeID); err != nil {
			return err
		}
		if err := ensureExists(tx, &models.User{}, "user", userID); err != nil {
			return err
		}
		for _, itemID := range slotIDs {
			if err := ensureExists(tx, &models.Item{}, "item", itemID); err != nil {
				return err
			}
		}
		if err := tx.Create(&character).Error; err != nil {
			return translateCreateError(err, "character", "name", name)
		}
		if input.TagIDs != nil {
			tags, err := fetchTags(tx, *input.TagIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&character).Association("Tags").Replace(&tags); err != nil {
				return fmt.Errorf("failed to set character tags: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created, err := s.loadCharacter(s.db, character.ID)
	if err != nil {
		return nil, err
	}
	s.publishEvent("archive.character.created", created)
	return created, nil
}

// Update applies the provided fields to the character with the given id.
// Changed foreign keys are verified to exist; an equipment slot set to 0 is
// cleared. A missing row yields a nil result rather than an error.
func (s *CharacterService) Update(id uint, input models.CharacterInput) (*models.Character, error) {
	if err := validation.RequireID("character id", id); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if input.Name != nil {
		name, _, err := validation.Name("name", input.Name, false, characterNameMaxLen)
		if err != nil {
			return nil, err
		}
		updates["name"] = name
	}
	if input.Surname != nil {
		surname, ok, err := validation.Name("surname", input.Surname, false, characterNameMaxLen)
		if err != nil {
			return nil, err
		}
		if ok {
			updates["surname"] = surname
		}
	}
	if input.Nickname != nil {
		nickname, ok, err := validation.Name("nickname", input.Nickname, false, characterNameMaxLen)
		if err != nil {
			return nil, err
		}
		if ok {
			updates["nickname"] = nickname
		}
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
	if input.Visible != nil {
		updates["visible"] = *input.Visible
	}
	for _, col := range characterAttributeColumns {
		value, ok, err := validation.Attribute(col.field, col.value(&input), false)
		if err != nil {
			return nil, err
		}
		if ok {
			updates[col.column] = value
		}
	}
	for _, col := range characterResourceColumns {
		value, ok, err := validation.ResourceStat(col.field, col.value(&input), false)
		if err != nil {
			return nil, err
		}
		if ok {
			updates[col.column] = value
		}
	}

	fkUpdates := make(map[string]uint)
	if input.RaceID != nil {
		raceID, _, err := validation.ID("raceId", input.RaceID, false)
		if err != nil {
			return nil, err
		}
		fkUpdates["race_id"] = raceID
	}
	if input.ArchetypeID != nil {
		archetypeID, _, err := validation.ID("archetypeId", input.ArchetypeID, false)
		if err != nil {
			return nil, err
		}
		fkUpdates["archetype_id"] = archetypeID
	}
	if input.UserID != nil {
		userID, _, err := validation.ID("userId", input.UserID, false)
		if err != nil {
			return nil, err
		}
		fkUpdates["user_id"] = userID
	}

	slotUpdates := make(map[string]interface{})
	for _, slot := range characterSlots {
		value := slot.value(&input)
		if value == nil {
			continue
		}
		if *value == 0 {
			slotUpdates[slot.column] = nil
			continue
		}
		slotUpdates[slot.column] = *value
	}

	var character *models.Character
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Character
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to load character %d: %w", id, err)
		}
		if name, ok := updates["name"].(string); ok && name != existing.Name {
			if err := checkNameAvailable(tx, &models.Character{}, "character", name, id); err != nil {
				return err
			}
		}
		if raceID, ok := fkUpdates["race_id"]; ok {
			if err := ensureExists(tx, &models.Race{}, "race", raceID); err != nil {
				return err
			}
		}
		if archetypeID, ok := fkUpdates["archetype_id"]; ok {
			if err := ensureExists(tx, &models.Archetype{}, "archetype", archetypeID); err != nil {
				return err
			}
		}
		if userID, ok := fkUpdates["user_id"]; ok {
			if err := ensureExists(tx, &models.User{}, "user", userID); err != nil {
				return err
			}
		}
		for column, value := range slotUpdates {
			if itemID, ok := value.(uint); ok {
				if err := ensureExists(tx, &models.Item{}, "item", itemID); err != nil {
					return err
				}
			}
			updates[column] = value
		}
		for column, value := range fkUpdates {
			updates[column] = value
		}
		if len(updates) > 0 {
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return apperrors.Conflict("character with name '%v' already exists", updates["name"])
				}
				return fmt.Errorf("failed to update character %d: %w", id, err)
			}
		}
		if input.TagIDs != nil {
			tags, err := fetchTags(tx, *input.TagIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&existing).Association("Tags").Replace(&tags); err != nil {
				return fmt.Errorf("failed to set character tags: %w", err)
			}
		}
		character = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	if character == nil {
		return nil, nil
	}

	updated, err := s.loadCharacter(s.db, id)
	if err != nil {
		return nil, err
	}
	s.publishEvent("archive.character.updated", updated)
	return updated, nil
}

// Delete removes the character. Nothing references characters, so only
// existence is checked; tag links are cleared before the row goes.
func (s *CharacterService) Delete(id uint) error {
	if err := validation.RequireID("character id", id); err != nil {
		return err
	}
	var deleted models.Character
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&deleted, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("character", id)
			}
			return fmt.Errorf("failed to load character %d: %w", id, err)
		}
		if err := tx.Model(&deleted).Association("Tags").Clear(); err != nil {
			return fmt.Errorf("failed to clear character tags: %w", err)
		}
		if err := tx.Delete(&deleted).Error; err != nil {
			return fmt.Errorf("failed to delete character %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.publishEvent("archive.character.deleted", &deleted)
	return nil
}

// publishEvent sends a best-effort change event; failures are logged, never
// returned.
func (s *CharacterService) publishEvent(routingKey string, character *models.Character) {
	if s.publisher == nil || character == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"characterId": character.ID,
		"name":        character.Name,
		"userId":      character.UserID,
	})
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.publisher.Publish(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event for character %d: %v", routingKey, character.ID, err)
	}
}
