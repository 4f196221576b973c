package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/apperrors"
	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/models"
)

func TestUserCreate(t *testing.T) {
	db := newTestDB(t)
	service := NewUserService(db)

	user, err := service.Create(models.UserInput{
		Name:     strPtr("John"),
		Email:    strPtr("john@example.com"),
		Password: strPtr("s3cret-pass"),
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	assert.Equal(t, "john@example.com", user.Email)
	assert.False(t, user.IsVerified)
	assert.True(t, user.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")))
}

func TestUserPasswordNeverSerialized(t *testing.T) {
	db := newTestDB(t)
	service := NewUserService(db)

	user, err := service.Create(models.UserInput{
		Name:     strPtr("John"),
		Email:    strPtr("john@example.com"),
		Password: strPtr("s3cret-pass"),
	})
	require.NoError(t, err)

	body, err := json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "s3cret-pass")
	assert.NotContains(t, string(body), user.PasswordHash)
	assert.NotContains(t, string(body), "password")
}

func TestUserCreateValidation(t *testing.T) {
	db := newTestDB(t)
	service := NewUserService(db)

	cases := []struct {
		name  string
		input models.UserInput
	}{
		{"missing name", models.UserInput{Email: strPtr("a@b.com"), Password: strPtr("longenough")}},
		{"missing email", models.UserInput{Name: strPtr("John"), Password: strPtr("longenough")}},
		{"bad email", models.UserInput{Name: strPtr("John"), Email: strPtr("not-an-email"), Password: strPtr("longenough")}},
		{"short password", models.UserInput{Name: strPtr("John"), Email: strPtr("a@b.com"), Password: strPtr("short")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Create(tc.input)
			require.Error(t, err)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		})
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	service := NewUserService(db)

	_, err := service.Create(models.UserInput{
		Name:     strPtr("John"),
		Email:    strPtr("john@example.com"),
		Password: strPtr("s3cret-pass"),
	})
	require.NoError(t, err)

	_, err = service.Create(models.UserInput{
		Name:     strPtr("Other John"),
		Email:    strPtr("john@example.com"),
		Password: strPtr("another-pass"),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "john@example.com")
}

func TestUserUpdate(t *testing.T) {
	db := newTestDB(t)
	service := NewUserService(db)
	user, err := service.Create(models.UserInput{
		Name:     strPtr("John"),
		Email:    strPtr("john@example.com"),
		Password: strPtr("s3cret-pass"),
	})
	require.NoError(t, err)

	updated, err := service.Update(user.ID, models.UserInput{
		Name:       strPtr("Johnny"),
		IsVerified: boolPtr(true),
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Johnny", updated.Name)
	assert.True(t, updated.IsVerified)
	assert.Equal(t, "john@example.com", updated.Email)

	missing, err := service.Update(999, models.UserInput{Name: strPtr("Nobody")})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserUpdateRehashesPassword(t *testing.T) {
	db := newTestDB(t)
	service := NewUserService(db)
	user, err := service.Create(models.UserInput{
		Name:     strPtr("John"),
		Email:    strPtr("john@example.com"),
		Password: strPtr("s3cret-pass"),
	})
	require.NoError(t, err)

	updated, err := service.Update(user.ID, models.UserInput{Password: strPtr("brand-new-pass")})
	require.NoError(t, err)
	assert.NotEqual(t, user.PasswordHash, updated.PasswordHash)

	_, err = service.Authenticate("john@example.com", "brand-new-pass")
	assert.NoError(t, err)
	_, err = service.Authenticate("john@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserAuthenticate(t *testing.T) {
	db := newTestDB(t)
	service := NewUserService(db)
	created, err := service.Create(models.UserInput{
		Name:     strPtr("John"),
		Email:    strPtr("john@example.com"),
		Password: strPtr("s3cret-pass"),
	})
	require.NoError(t, err)
	require.Nil(t, created.LastLogin)

	user, err := service.Authenticate("john@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NotNil(t, user.LastLogin)

	_, err = service.Authenticate("john@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = service.Authenticate("nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserAuthenticateInactive(t *testing.T) {
	db := newTestDB(t)
	service := NewUserService(db)
	user, err := service.Create(models.UserInput{
		Name:     strPtr("John"),
		Email:    strPtr("john@example.com"),
		Password: strPtr("s3cret-pass"),
	})
	require.NoError(t, err)

	_, err = service.Update(user.ID, models.UserInput{IsActive: boolPtr(false)})
	require.NoError(t, err)

	_, err = service.Authenticate("john@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserDeleteBlockedByReferences(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	user := seedUser(t, db, "owner@example.com")
	race := seedRace(t, db, "Human")
	archetype := seedArchetype(t, db, "Warrior")

	characters := NewCharacterService(db, nil)
	created, err := characters.Create(models.CharacterInput{
		Name:     strPtr("Aldric"),
		Strength: intPtr(10), Dexterity: intPtr(10), Constitution: intPtr(10),
		Intelligence: intPtr(10), Wisdom: intPtr(10), Charisma: intPtr(10),
		Health: intPtr(50), Stamina: intPtr(30), Mana: intPtr(10),
		RaceID: &race.ID, ArchetypeID: &archetype.ID, UserID: &user.ID,
	})
	require.NoError(t, err)

	err = users.Delete(user.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "owner@example.com")

	require.NoError(t, characters.Delete(created.ID))
	assert.NoError(t, users.Delete(user.ID))
}
