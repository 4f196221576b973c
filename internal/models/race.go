package models

import "time"

// Race holds the nine additive modifiers applied to a character's base stats.
// Every modifier is constrained to [-10,10] at the service layer.
type Race struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"uniqueIndex;type:varchar(50);not null"`
	Description *string `json:"description,omitempty" gorm:"type:varchar(5000)"`

	HealthModifier  int `json:"healthModifier" gorm:"not null;default:0"`
	StaminaModifier int `json:"staminaModifier" gorm:"not null;default:0"`
	ManaModifier    int `json:"manaModifier" gorm:"not null;default:0"`

	StrengthModifier     int `json:"strengthModifier" gorm:"not null;default:0"`
	DexterityModifier    int `json:"dexterityModifier" gorm:"not null;default:0"`
	ConstitutionModifier int `json:"constitutionModifier" gorm:"not null;default:0"`
	IntelligenceModifier int `json:"intelligenceModifier" gorm:"not null;default:0"`
	WisdomModifier       int `json:"wisdomModifier" gorm:"not null;default:0"`
	CharismaModifier     int `json:"charismaModifier" gorm:"not null;default:0"`

	Skills []Skill `json:"skills,omitempty" gorm:"many2many:race_skills"`
	Tags   []Tag   `json:"tags,omitempty" gorm:"many2many:race_tags"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RaceInput is the partial payload for race creation and update.
type RaceInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`

	HealthModifier  *int `json:"healthModifier"`
	StaminaModifier *int `json:"staminaModifier"`
	ManaModifier    *int `json:"manaModifier"`

	StrengthModifier     *int `json:"strengthModifier"`
	DexterityModifier    *int `json:"dexterityModifier"`
	ConstitutionModifier *int `json:"constitutionModifier"`
	IntelligenceModifier *int `json:"intelligenceModifier"`
	WisdomModifier       *int `json:"wisdomModifier"`
	CharismaModifier     *int `json:"charismaModifier"`

	SkillIDs *[]uint `json:"skillIds"`
	TagIDs   *[]uint `json:"tagIds"`
}
