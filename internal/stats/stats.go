// Package stats computes a character's aggregate stats: the base values plus
// the race modifiers plus the bonuses of every equipped item. The computation
// is pure; callers attach the result to read responses, it is never stored.
package stats

import "github.com/antoniocolagreco/test-cline-devstral-sub001/internal/models"

// Aggregate combines base stats, race modifiers and equipped-item bonuses.
// A nil race contributes zero modifiers; nil equipment slots are skipped.
// Items carry no stamina or mana bonuses, so those two aggregates are base
// plus race modifier only.
func Aggregate(c *models.Character) models.AggregateStats {
	agg := models.AggregateStats{
		Health:       c.Health,
		Stamina:      c.Stamina,
		Mana:         c.Mana,
		Strength:     c.Strength,
		Dexterity:    c.Dexterity,
		Constitution: c.Constitution,
		Intelligence: c.Intelligence,
		Wisdom:       c.Wisdom,
		Charisma:     c.Charisma,
	}

	if c.Race != nil {
		agg.Health += c.Race.HealthModifier
		agg.Stamina += c.Race.StaminaModifier
		agg.Mana += c.Race.ManaModifier
		agg.Strength += c.Race.StrengthModifier
		agg.Dexterity += c.Race.DexterityModifier
		agg.Constitution += c.Race.ConstitutionModifier
		agg.Intelligence += c.Race.IntelligenceModifier
		agg.Wisdom += c.Race.WisdomModifier
		agg.Charisma += c.Race.CharismaModifier
	}

	for _, item := range c.EquippedItems() {
		agg.Health += item.BonusHealth
		agg.Strength += item.BonusStrength
		agg.Dexterity += item.BonusDexterity
		agg.Constitution += item.BonusConstitution
		agg.Intelligence += item.BonusIntelligence
		agg.Wisdom += item.BonusWisdom
		agg.Charisma += item.BonusCharisma
	}

	return agg
}
