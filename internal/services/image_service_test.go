package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/apperrors"
	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/models"
)

func TestImageCreate(t *testing.T) {
	db := newTestDB(t)
	service := NewImageService(db)
	user := seedUser(t, db, "owner@example.com")

	image, err := service.Create(models.ImageInput{
		Filename: strPtr("portrait.png"),
		MimeType: strPtr("image/png"),
		UserID:   &user.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "portrait.png", image.Filename)
	assert.Equal(t, user.ID, image.UserID)

	key, err := uuid.Parse(image.StorageKey)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, key)
}

func TestImageCreateUnknownUser(t *testing.T) {
	db := newTestDB(t)
	service := NewImageService(db)

	_, err := service.Create(models.ImageInput{
		Filename: strPtr("portrait.png"),
		UserID:   uintPtr(999),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestImageUpdateKeepsStorageKey(t *testing.T) {
	db := newTestDB(t)
	service := NewImageService(db)
	user := seedUser(t, db, "owner@example.com")

	image, err := service.Create(models.ImageInput{
		Filename: strPtr("portrait.png"),
		UserID:   &user.ID,
	})
	require.NoError(t, err)

	updated, err := service.Update(image.ID, models.ImageInput{
		Filename:    strPtr("portrait-v2.png"),
		Description: strPtr("Reworked portrait."),
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "portrait-v2.png", updated.Filename)
	assert.Equal(t, image.StorageKey, updated.StorageKey)
}

func TestImageDelete(t *testing.T) {
	db := newTestDB(t)
	service := NewImageService(db)
	user := seedUser(t, db, "owner@example.com")

	image, err := service.Create(models.ImageInput{
		Filename: strPtr("portrait.png"),
		UserID:   &user.ID,
	})
	require.NoError(t, err)

	require.NoError(t, service.Delete(image.ID))

	missing, err := service.GetOne(image.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = service.Delete(image.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
