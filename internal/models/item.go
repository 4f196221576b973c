package models

import "time"

// Rarity tiers an item can have.
const (
	RarityCommon    = "common"
	RarityUncommon  = "uncommon"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// Rarities lists every valid rarity value.
var Rarities = []string{RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary}

// Item is a piece of equipment or inventory. The category flags are not
// mutually exclusive. The required-attribute thresholds are stored but never
// checked against a character's stats when equipping.
type Item struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"uniqueIndex;type:varchar(100);not null"`
	Description *string `json:"description,omitempty" gorm:"type:varchar(5000)"`
	Rarity      string  `json:"rarity" gorm:"type:varchar(20);not null;default:common"`

	IsWeapon           bool `json:"isWeapon" gorm:"not null;default:false"`
	IsShield           bool `json:"isShield" gorm:"not null;default:false"`
	IsArmor            bool `json:"isArmor" gorm:"not null;default:false"`
	IsAccessory        bool `json:"isAccessory" gorm:"not null;default:false"`
	IsConsumable       bool `json:"isConsumable" gorm:"not null;default:false"`
	IsQuestItem        bool `json:"isQuestItem" gorm:"not null;default:false"`
	IsCraftingMaterial bool `json:"isCraftingMaterial" gorm:"not null;default:false"`
	IsMisc             bool `json:"isMisc" gorm:"not null;default:false"`

	Attack  int `json:"attack" gorm:"not null;default:0"`
	Defense int `json:"defense" gorm:"not null;default:0"`

	RequiredStrength     int `json:"requiredStrength" gorm:"not null;default:0"`
	RequiredDexterity    int `json:"requiredDexterity" gorm:"not null;default:0"`
	RequiredConstitution int `json:"requiredConstitution" gorm:"not null;default:0"`
	RequiredIntelligence int `json:"requiredIntelligence" gorm:"not null;default:0"`
	RequiredWisdom       int `json:"requiredWisdom" gorm:"not null;default:0"`
	RequiredCharisma     int `json:"requiredCharisma" gorm:"not null;default:0"`

	BonusStrength     int `json:"bonusStrength" gorm:"not null;default:0"`
	BonusDexterity    int `json:"bonusDexterity" gorm:"not null;default:0"`
	BonusConstitution int `json:"bonusConstitution" gorm:"not null;default:0"`
	BonusIntelligence int `json:"bonusIntelligence" gorm:"not null;default:0"`
	BonusWisdom       int `json:"bonusWisdom" gorm:"not null;default:0"`
	BonusCharisma     int `json:"bonusCharisma" gorm:"not null;default:0"`
	BonusHealth       int `json:"bonusHealth" gorm:"not null;default:0"`

	Durability int `json:"durability" gorm:"not null;default:100"`
	Weight     int `json:"weight" gorm:"not null;default:1"`

	Tags []Tag `json:"tags,omitempty" gorm:"many2many:item_tags"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ItemInput is the partial payload for item creation and update.
type ItemInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Rarity      *string `json:"rarity"`

	IsWeapon           *bool `json:"isWeapon"`
	IsShield           *bool `json:"isShield"`
	IsArmor            *bool `json:"isArmor"`
	IsAccessory        *bool `json:"isAccessory"`
	IsConsumable       *bool `json:"isConsumable"`
	IsQuestItem        *bool `json:"isQuestItem"`
	IsCraftingMaterial *bool `json:"isCraftingMaterial"`
	IsMisc             *bool `json:"isMisc"`

	Attack  *int `json:"attack"`
	Defense *int `json:"defense"`

	RequiredStrength     *int `json:"requiredStrength"`
	RequiredDexterity    *int `json:"requiredDexterity"`
	RequiredConstitution *int `json:"requiredConstitution"`
	RequiredIntelligence *int `json:"requiredIntelligence"`
	RequiredWisdom       *int `json:"requiredWisdom"`
	RequiredCharisma     *int `json:"requiredCharisma"`

	BonusStrength     *int `json:"bonusStrength"`
	BonusDexterity    *int `json:"bonusDexterity"`
	BonusConstitution *int `json:"bonusConstitution"`
	BonusIntelligence *int `json:"bonusIntelligence"`
	BonusWisdom       *int `json:"bonusWisdom"`
	BonusCharisma     *int `json:"bonusCharisma"`
	BonusHealth       *int `json:"bonusHealth"`

	Durability *int `json:"durability"`
	Weight     *int `json:"weight"`

	TagIDs *[]uint `json:"tagIds"`
}
