package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/apperrors"
	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/models"
)

func TestRaceCreateModifiers(t *testing.T) {
	db := newTestDB(t)
	service := NewRaceService(db)

	race, err := service.Create(models.RaceInput{
		Name:             strPtr("Dwarf"),
		HealthModifier:   intPtr(10),
		StrengthModifier: intPtr(2),
		CharismaModifier: intPtr(-2),
	})
	require.NoError(t, err)
	assert.Equal(t, 10, race.HealthModifier)
	assert.Equal(t, 2, race.StrengthModifier)
	assert.Equal(t, -2, race.CharismaModifier)
	// omitted modifiers default to zero
	assert.Zero(t, race.DexterityModifier)
	assert.Zero(t, race.ManaModifier)
}

func TestRaceCreateModifierOutOfRange(t *testing.T) {
	db := newTestDB(t)
	service := NewRaceService(db)

	_, err := service.Create(models.RaceInput{
		Name:           strPtr("Giant"),
		HealthModifier: intPtr(11),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = service.Create(models.RaceInput{
		Name:             strPtr("Gnome"),
		StrengthModifier: intPtr(-11),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestRaceUpdateModifier(t *testing.T) {
	db := newTestDB(t)
	service := NewRaceService(db)
	race, err := service.Create(models.RaceInput{Name: strPtr("Elf")})
	require.NoError(t, err)

	updated, err := service.Update(race.ID, models.RaceInput{
		DexterityModifier: intPtr(3),
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 3, updated.DexterityModifier)
	assert.Equal(t, "Elf", updated.Name)
}

func TestRaceSkillAndTagAssignment(t *testing.T) {
	db := newTestDB(t)
	service := NewRaceService(db)
	darkvision := seedSkill(t, db, "Darkvision")
	sturdy := seedTag(t, db, "sturdy")

	race, err := service.Create(models.RaceInput{
		Name:     strPtr("Dwarf"),
		SkillIDs: &[]uint{darkvision.ID},
		TagIDs:   &[]uint{sturdy.ID},
	})
	require.NoError(t, err)
	require.Len(t, race.Skills, 1)
	require.Len(t, race.Tags, 1)

	loaded, err := service.GetOne(race.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Skills, 1)
	assert.Len(t, loaded.Tags, 1)
}

func TestRaceDeleteBlockedByCharacters(t *testing.T) {
	db := newTestDB(t)
	races := NewRaceService(db)
	characters := NewCharacterService(db, nil)

	input := characterFixture(t, db, "")
	character, err := characters.Create(input)
	require.NoError(t, err)

	err = races.Delete(character.RaceID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	require.NoError(t, characters.Delete(character.ID))
	assert.NoError(t, races.Delete(character.RaceID))
}
