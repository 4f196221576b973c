package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/models"
)

// newTestDB opens a per-test in-memory database with every table migrated.
// The shared cache keeps the database alive across the pooled connections.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Tag{}, &models.Skill{}, &models.Archetype{},
		&models.Race{}, &models.Item{}, &models.Image{}, &models.Character{},
	))
	return db
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func uintPtr(u uint) *uint    { return &u }
func boolPtr(b bool) *bool    { return &b }

func seedTag(t *testing.T, db *gorm.DB, name string) models.Tag {
	t.Helper()
	tag := models.Tag{Name: name}
	require.NoError(t, db.Create(&tag).Error)
	return tag
}

func seedSkill(t *testing.T, db *gorm.DB, name string) models.Skill {
	t.Helper()
	skill := models.Skill{Name: name}
	require.NoError(t, db.Create(&skill).Error)
	return skill
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Name: "Seed User", Email: email, PasswordHash: "x", IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedRace(t *testing.T, db *gorm.DB, name string) models.Race {
	t.Helper()
	race := models.Race{Name: name}
	require.NoError(t, db.Create(&race).Error)
	return race
}

func seedArchetype(t *testing.T, db *gorm.DB, name string) models.Archetype {
	t.Helper()
	archetype := models.Archetype{Name: name}
	require.NoError(t, db.Create(&archetype).Error)
	return archetype
}

func seedItem(t *testing.T, db *gorm.DB, name string) models.Item {
	t.Helper()
	item := models.Item{Name: name, Rarity: models.RarityCommon, Durability: 100, Weight: 1}
	require.NoError(t, db.Create(&item).Error)
	return item
}
