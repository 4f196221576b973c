package models

import "time"

// Character is an archived RPG character. The six attributes are constrained
// to [1,20] and the three resource pools to >=1 at the service layer; the
// Aggregate block is derived on every read and never persisted.
type Character struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"uniqueIndex;type:varchar(50);not null"`
	Surname     *string `json:"surname,omitempty" gorm:"type:varchar(50)"`
	Nickname    *string `json:"nickname,omitempty" gorm:"type:varchar(50)"`
	Description *string `json:"description,omitempty" gorm:"type:varchar(5000)"`

	Strength     int `json:"strength" gorm:"not null"`
	Dexterity    int `json:"dexterity" gorm:"not null"`
	Constitution int `json:"constitution" gorm:"not null"`
	Intelligence int `json:"intelligence" gorm:"not null"`
	Wisdom       int `json:"wisdom" gorm:"not null"`
	Charisma     int `json:"charisma" gorm:"not null"`

	Health  int `json:"health" gorm:"not null"`
	Stamina int `json:"stamina" gorm:"not null"`
	Mana    int `json:"mana" gorm:"not null"`

	Visible bool `json:"visible" gorm:"not null;default:true"`

	RaceID      uint       `json:"raceId" gorm:"not null"`
	Race        *Race      `json:"race,omitempty" gorm:"foreignKey:RaceID"`
	ArchetypeID uint       `json:"archetypeId" gorm:"not null"`
	Archetype   *Archetype `json:"archetype,omitempty" gorm:"foreignKey:ArchetypeID"`
	UserID      uint       `json:"userId" gorm:"not null"`

	PrimaryWeaponID   *uint `json:"primaryWeaponId,omitempty"`
	PrimaryWeapon     *Item `json:"primaryWeapon,omitempty" gorm:"foreignKey:PrimaryWeaponID"`
	SecondaryWeaponID *uint `json:"secondaryWeaponId,omitempty"`
	SecondaryWeapon   *Item `json:"secondaryWeapon,omitempty" gorm:"foreignKey:SecondaryWeaponID"`
	ShieldID          *uint `json:"shieldId,omitempty"`
	Shield            *Item `json:"shield,omitempty" gorm:"foreignKey:ShieldID"`
	ArmorID           *uint `json:"armorId,omitempty"`
	Armor             *Item `json:"armor,omitempty" gorm:"foreignKey:ArmorID"`
	FirstRingID       *uint `json:"firstRingId,omitempty"`
	FirstRing         *Item `json:"firstRing,omitempty" gorm:"foreignKey:FirstRingID"`
	SecondRingID      *uint `json:"secondRingId,omitempty"`
	SecondRing        *Item `json:"secondRing,omitempty" gorm:"foreignKey:SecondRingID"`
	AmuletID          *uint `json:"amuletId,omitempty"`
	Amulet            *Item `json:"amulet,omitempty" gorm:"foreignKey:AmuletID"`

	Tags []Tag `json:"tags,omitempty" gorm:"many2many:character_tags"`

	Aggregate *AggregateStats `json:"aggregate,omitempty" gorm:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AggregateStats holds a character's nine effective values after applying the
// race modifiers and the bonuses of every equipped item. Derived, not stored.
type AggregateStats struct {
	Health       int `json:"health"`
	Stamina      int `json:"stamina"`
	Mana         int `json:"mana"`
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// EquippedItems returns the non-nil equipment slots in slot order.
func (c *Character) EquippedItems() []*Item {
	slots := []*Item{
		c.PrimaryWeapon, c.SecondaryWeapon, c.Shield, c.Armor,
		c.FirstRing, c.SecondRing, c.Amulet,
	}
	items := make([]*Item, 0, len(slots))
	for _, item := range slots {
		if item != nil {
			items = append(items, item)
		}
	}
	return items
}

// CharacterInput is the partial payload for character creation and update.
// Only present (non-nil) fields are validated and applied.
type CharacterInput struct {
	Name        *string `json:"name"`
	Surname     *string `json:"surname"`
	Nickname    *string `json:"nickname"`
	Description *string `json:"description"`

	Strength     *int `json:"strength"`
	Dexterity    *int `json:"dexterity"`
	Constitution *int `json:"constitution"`
	Intelligence *int `json:"intelligence"`
	Wisdom       *int `json:"wisdom"`
	Charisma     *int `json:"charisma"`

	Health  *int `json:"health"`
	Stamina *int `json:"stamina"`
	Mana    *int `json:"mana"`

	Visible *bool `json:"visible"`

	RaceID      *uint `json:"raceId"`
	ArchetypeID *uint `json:"archetypeId"`
	UserID      *uint `json:"userId"`

	PrimaryWeaponID   *uint `json:"primaryWeaponId"`
	SecondaryWeaponID *uint `json:"secondaryWeaponId"`
	ShieldID          *uint `json:"shieldId"`
	ArmorID           *uint `json:"armorId"`
	FirstRingID       *uint `json:"firstRingId"`
	SecondRingID      *uint `json:"secondRingId"`
	AmuletID          *uint `json:"amuletId"`

	TagIDs *[]uint `json:"tagIds"`
}
