package models

import "time"

// Skill is a named ability attached to archetypes and races.
type Skill struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"uniqueIndex;type:varchar(100);not null"`
	Description *string `json:"description,omitempty" gorm:"type:varchar(5000)"`

	Tags []Tag `json:"tags,omitempty" gorm:"many2many:skill_tags"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SkillInput is the partial payload for skill creation and update.
type SkillInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	TagIDs      *[]uint `json:"tagIds"`
}
