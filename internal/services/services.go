// Package services implements the business logic for every archive resource.
// Each service owns an injected *gorm.DB, validates input before any query,
// and runs multi-step checks (uniqueness, referential integrity) inside a
// single transaction. Domain errors from the apperrors package are returned
// unchanged; storage faults are wrapped and surface as unexpected errors.
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/apperrors"
	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/models"
)

// checkNameAvailable fails with a Conflict when another row of model already
// uses name. excludeID skips the row being updated.
func checkNameAvailable(tx *gorm.DB, model interface{}, entity, name string, excludeID uint) error {
	query := tx.Model(model).Where("name = ?", name)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check %s name availability: %w", entity, err)
	}
	if count > 0 {
		return apperrors.Conflict("%s with name '%s' already exists", entity, name)
	}
	return nil
}

// ensureExists fails with a NotFound when no row of model has the given id.
// Used to verify foreign-key targets before an insert or update.
func ensureExists(tx *gorm.DB, model interface{}, entity string, id uint) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check %s existence: %w", entity, err)
	}
	if count == 0 {
		return apperrors.NotFound(entity, id)
	}
	return nil
}

// translateCreateError maps a racing unique-constraint violation to the same
// Conflict the pre-insert check would have produced. Requires the DB to be
// opened with TranslateError enabled.
func translateCreateError(err error, entity, field, value string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Conflict("%s with %s '%s' already exists", entity, field, value)
	}
	return fmt.Errorf("failed to create %s: %w", entity, err)
}

// fetchTags loads the tags for an id list, failing with a NotFound for the
// first id that has no row.
func fetchTags(tx *gorm.DB, ids []uint) ([]models.Tag, error) {
	for _, id := range ids {
		if id == 0 {
			return nil, apperrors.Validation("tagIds must contain positive integers")
		}
	}
	tags := make([]models.Tag, 0, len(ids))
	if len(ids) == 0 {
		return tags, nil
	}
	if err := tx.Find(&tags, ids).Error; err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	found := make(map[uint]bool, len(tags))
	for _, tag := range tags {
		found[tag.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, apperrors.NotFound("tag", id)
		}
	}
	return tags, nil
}

// fetchSkills loads the skills for an id list, failing with a NotFound for
// the first id that has no row.
func fetchSkills(tx *gorm.DB, ids []uint) ([]models.Skill, error) {
	for _, id := range ids {
		if id == 0 {
			return nil, apperrors.Validation("skillIds must contain positive integers")
		}
	}
	skills := make([]models.Skill, 0, len(ids))
	if len(ids) == 0 {
		return skills, nil
	}
	if err := tx.Find(&skills, ids).Error; err != nil {
		return nil, fmt.Errorf("failed to load skills: %w", err)
	}
	found := make(map[uint]bool, len(skills))
	for _, skill := range skills {
		found[skill.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, apperrors.NotFound("skill", id)
		}
	}
	return skills, nil
}

// countRefs counts rows of a join or entity table referencing the given id.
func countRefs(tx *gorm.DB, table, column string, id uint) (int64, error) {
	var count int64
	if err := tx.Table(table).Where(fmt.Sprintf("%s = ?", column), id).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count references in %s: %w", table, err)
	}
	return count, nil
}
