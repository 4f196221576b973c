package models

import "time"

// Archetype is a character class template carrying a set of skills.
type Archetype struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"uniqueIndex;type:varchar(50);not null"`
	Description *string `json:"description,omitempty" gorm:"type:varchar(5000)"`

	Skills []Skill `json:"skills,omitempty" gorm:"many2many:archetype_skills"`
	Tags   []Tag   `json:"tags,omitempty" gorm:"many2many:archetype_tags"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ArchetypeInput is the partial payload for archetype creation and update.
type ArchetypeInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	SkillIDs    *[]uint `json:"skillIds"`
	TagIDs      *[]uint `json:"tagIds"`
}
