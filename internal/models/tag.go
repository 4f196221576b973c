package models

import "time"

// Tag is a many-to-many label attachable to skills, items, characters,
// archetypes and races.
type Tag struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"uniqueIndex;type:varchar(50);not null"`
	Description *string `json:"description,omitempty" gorm:"type:varchar(5000)"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TagInput is the partial payload for tag creation and update.
type TagInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}
