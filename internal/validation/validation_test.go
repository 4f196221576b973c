package validation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/apperrors"
	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/validation"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func uintPtr(u uint) *uint    { return &u }

func TestNameTrimsAndBounds(t *testing.T) {
	value, ok, err := validation.Name("name", strPtr("  Fireball  "), true, 50)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Fireball", value)

	_, _, err = validation.Name("name", strPtr("   "), true, 50)
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, _, err = validation.Name("name", strPtr(strings.Repeat("x", 51)), true, 50)
	assert.Error(t, err)

	_, _, err = validation.Name("name", nil, true, 50)
	assert.Error(t, err)

	_, ok, err = validation.Name("name", nil, false, 50)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestNameLimitCountsRunesNotBytes(t *testing.T) {
	// 50 two-byte runes are within a 50-character limit
	value, ok, err := validation.Name("name", strPtr(strings.Repeat("é", 50)), true, 50)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, strings.Repeat("é", 50), value)

	_, _, err = validation.Name("name", strPtr(strings.Repeat("é", 51)), true, 50)
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, ok, err = validation.Text("description", strPtr(strings.Repeat("ü", 100)), 100)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestTextCollapsesEmptyToAbsent(t *testing.T) {
	_, ok, err := validation.Text("description", strPtr("   "), 100)
	assert.NoError(t, err)
	assert.False(t, ok)

	value, ok, err := validation.Text("description", strPtr(" tall and grim "), 100)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tall and grim", value)

	_, _, err = validation.Text("description", strPtr(strings.Repeat("y", 101)), 100)
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestAttributeRange(t *testing.T) {
	for _, valid := range []int{1, 10, 20} {
		value, ok, err := validation.Attribute("strength", intPtr(valid), true)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, valid, value)
	}
	for _, invalid := range []int{0, -5, 21, 100} {
		_, _, err := validation.Attribute("strength", intPtr(invalid), true)
		assert.Error(t, err, "value %d", invalid)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	}

	_, _, err := validation.Attribute("strength", nil, true)
	assert.Error(t, err)

	_, ok, err := validation.Attribute("strength", nil, false)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestResourceStatMinimum(t *testing.T) {
	_, _, err := validation.ResourceStat("health", intPtr(0), true)
	assert.Error(t, err)

	value, ok, err := validation.ResourceStat("health", intPtr(1), true)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, value)
}

func TestIntInRange(t *testing.T) {
	value, ok, err := validation.IntInRange("healthModifier", intPtr(-10), false, -10, 10)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, -10, value)

	_, _, err = validation.IntInRange("healthModifier", intPtr(-11), false, -10, 10)
	assert.Error(t, err)
	_, _, err = validation.IntInRange("healthModifier", intPtr(11), false, -10, 10)
	assert.Error(t, err)
}

func TestEmail(t *testing.T) {
	value, ok, err := validation.Email("email", strPtr(" john@example.com "), true, 254)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "john@example.com", value)

	for _, invalid := range []string{"notanemail", "a@", "@b.com"} {
		_, _, err := validation.Email("email", strPtr(invalid), true, 254)
		assert.Error(t, err, "value %q", invalid)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	}
}

func TestID(t *testing.T) {
	value, ok, err := validation.ID("raceId", uintPtr(7), true)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint(7), value)

	_, _, err = validation.ID("raceId", uintPtr(0), true)
	assert.Error(t, err)
	_, _, err = validation.ID("raceId", nil, true)
	assert.Error(t, err)

	assert.Error(t, validation.RequireID("skill id", 0))
	assert.NoError(t, validation.RequireID("skill id", 3))
}
