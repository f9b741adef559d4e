// Package content loads and serves read-only game content definitions:
// enemies, skills, items, weapons, armour, summons, party members, loot
// tables, and knowledge rules. All lookups are by string id and fail with a
// typed not-found error when the id is absent.
package content

import "fmt"

// TagFinesse on a weapon makes basic attacks scale with DEX instead of STR.
const TagFinesse = "finesse"

// TagSummon marks spawned summon combatants.
const TagSummon = "summon"

// TagPhysical on a skill selects the physical attack component.
const TagPhysical = "physical"

// Target modes for skills.
const (
	TargetSelf        = "self"
	TargetSingleEnemy = "single_enemy"
	TargetMultiEnemy  = "multi_enemy"
)

// Effect types for skills. The dispatch set is closed; unknown effect
// types are ignored and logged, never dynamically dispatched.
const (
	EffectDamage = "damage"
	EffectGuard  = "guard"
)

// Item targeting modes.
const (
	ItemTargetSelf  = "self"
	ItemTargetAlly  = "ally"
	ItemTargetEnemy = "enemy"
)

// ItemKindConsumable is the only item kind usable in battle.
const ItemKindConsumable = "consumable"

// WeaponDef describes an equippable weapon.
type WeaponDef struct {
	ID     string   `yaml:"id"`
	Name   string   `yaml:"name"`
	Attack int      `yaml:"attack"`
	Value  int      `yaml:"value"`
	Tags   []string `yaml:"tags"`
}

// ArmourDef describes an equippable armour piece.
type ArmourDef struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Defense int    `yaml:"defense"`
	Value   int    `yaml:"value"`
	Slot    string `yaml:"slot"`
}

// EnemyDef describes an enemy type or, when EnemyIDs is non-empty, a group
// composition that expands to its member ids at battle start.
type EnemyDef struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	HP          int               `yaml:"hp"`
	MP          int               `yaml:"mp"`
	Attack      int               `yaml:"attack"`
	Defense     int               `yaml:"defense"`
	Speed       int               `yaml:"speed"`
	RewardsExp  int               `yaml:"rewards_exp"`
	RewardsGold int               `yaml:"rewards_gold"`
	Tags        []string          `yaml:"tags"`
	WeaponIDs   []string          `yaml:"weapon_ids"`
	ArmourID    string            `yaml:"armour_id"`
	ArmourSlots map[string]string `yaml:"armour_slots"`
	SkillIDs    []string          `yaml:"skill_ids"`
	// KnowledgeKey overrides the id as the persistent kill-counter key,
	// letting recolors share one knowledge track.
	KnowledgeKey string `yaml:"knowledge_key"`
	// EnemyIDs marks this definition as a group composition.
	EnemyIDs []string `yaml:"enemy_ids"`
}

// IsGroup reports whether this definition is a group composition rather
// than a spawnable enemy.
func (e EnemyDef) IsGroup() bool { return len(e.EnemyIDs) > 0 }

// SkillDef describes a weapon-tag-gated combat skill.
type SkillDef struct {
	ID                 string   `yaml:"id"`
	Name               string   `yaml:"name"`
	Description        string   `yaml:"description"`
	Tags               []string `yaml:"tags"`
	RequiredWeaponTags []string `yaml:"required_weapon_tags"`
	TargetMode         string   `yaml:"target_mode"`
	MaxTargets         int      `yaml:"max_targets"`
	MPCost             int      `yaml:"mp_cost"`
	BasePower          int      `yaml:"base_power"`
	EffectType         string   `yaml:"effect_type"`
	GoldValue          int      `yaml:"gold_value"`
}

// ItemDef describes an inventory item. Consumables may heal, restore, or
// apply a flat enemy debuff.
type ItemDef struct {
	ID                string `yaml:"id"`
	Name              string `yaml:"name"`
	Kind              string `yaml:"kind"`
	Value             int    `yaml:"value"`
	HealHP            int    `yaml:"heal_hp"`
	HealMP            int    `yaml:"heal_mp"`
	RestoreEnergy     int    `yaml:"restore_energy"`
	DebuffAttackFlat  int    `yaml:"debuff_attack_flat"`
	DebuffDefenseFlat int    `yaml:"debuff_defense_flat"`
	Targeting         string `yaml:"targeting"`
}

// IsDebuff reports whether using this item applies an enemy debuff rather
// than a heal/restore.
func (i ItemDef) IsDebuff() bool {
	return i.DebuffAttackFlat > 0 || i.DebuffDefenseFlat > 0
}

// BondScaling defines per-bond-point stat bonuses for a summon.
type BondScaling struct {
	HPPerBond   float64 `yaml:"hp_per_bond"`
	AtkPerBond  float64 `yaml:"atk_per_bond"`
	DefPerBond  float64 `yaml:"def_per_bond"`
	InitPerBond float64 `yaml:"init_per_bond"`
}

// SummonDef describes a summonable creature.
type SummonDef struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	MaxHP       int         `yaml:"max_hp"`
	MaxMP       int         `yaml:"max_mp"`
	Attack      int         `yaml:"attack"`
	Defense     int         `yaml:"defense"`
	Speed       int         `yaml:"speed"`
	BondCost    int         `yaml:"bond_cost"`
	Tags        []string    `yaml:"tags"`
	BondScaling BondScaling `yaml:"bond_scaling"`
}

// AttributeSet is the content-file form of starting attributes.
type AttributeSet struct {
	STR  int `yaml:"str"`
	DEX  int `yaml:"dex"`
	INT  int `yaml:"int"`
	VIT  int `yaml:"vit"`
	BOND int `yaml:"bond"`
}

// PartyMemberDef describes a recruitable party member.
type PartyMemberDef struct {
	ID                 string            `yaml:"id"`
	Name               string            `yaml:"name"`
	BaseHP             int               `yaml:"base_hp"`
	BaseMP             int               `yaml:"base_mp"`
	Speed              int               `yaml:"speed"`
	Tags               []string          `yaml:"tags"`
	WeaponIDs          []string          `yaml:"weapon_ids"`
	ArmourSlots        map[string]string `yaml:"armour_slots"`
	StartingAttributes AttributeSet      `yaml:"starting_attributes"`
}

// LootDropDef is a single chance-weighted drop within a loot table.
type LootDropDef struct {
	ItemID string  `yaml:"item_id"`
	Chance float64 `yaml:"chance"`
	MinQty int     `yaml:"min_qty"`
	MaxQty int     `yaml:"max_qty"`
}

// LootTableDef is a loot table keyed by enemy tags.
type LootTableDef struct {
	ID            string        `yaml:"id"`
	RequiredTags  []string      `yaml:"required_tags"`
	ForbiddenTags []string      `yaml:"forbidden_tags"`
	Drops         []LootDropDef `yaml:"drops"`
}

// Matches reports whether the table applies to an enemy with the given
// tags: every required tag present, no forbidden tag present.
func (t LootTableDef) Matches(enemyTags []string) bool {
	tagSet := make(map[string]bool, len(enemyTags))
	for _, tag := range enemyTags {
		tagSet[tag] = true
	}
	for _, req := range t.RequiredTags {
		if !tagSet[req] {
			return false
		}
	}
	for _, forbidden := range t.ForbiddenTags {
		if tagSet[forbidden] {
			return false
		}
	}
	return true
}

// Validate checks the loot table's invariants.
//
// Postcondition: Returns nil iff every drop has a valid chance and
// quantity range; an empty table is valid.
func (t LootTableDef) Validate() error {
	for i, drop := range t.Drops {
		if drop.ItemID == "" {
			return fmt.Errorf("loot table %q: drop[%d] must have a non-empty item id", t.ID, i)
		}
		if drop.Chance <= 0 || drop.Chance > 1.0 {
			return fmt.Errorf("loot table %q: drop[%d] chance must be in (0, 1.0], got %f", t.ID, i, drop.Chance)
		}
		if drop.MinQty < 1 {
			return fmt.Errorf("loot table %q: drop[%d] min_qty must be >= 1, got %d", t.ID, i, drop.MinQty)
		}
		if drop.MinQty > drop.MaxQty {
			return fmt.Errorf("loot table %q: drop[%d] min_qty (%d) must be <= max_qty (%d)", t.ID, i, drop.MinQty, drop.MaxQty)
		}
	}
	return nil
}

// KnowledgeRulesDef holds the kill thresholds and per-tier HP visibility
// policy driving knowledge disclosure.
type KnowledgeRulesDef struct {
	Tier1Kills int `yaml:"tier1_kills"`
	Tier2Kills int `yaml:"tier2_kills"`
	Tier3Kills int `yaml:"tier3_kills"`
	// HPVisibilityByTier maps tier (0-3) to "HIDDEN", "STATIC_RANGE", or
	// "REALTIME".
	HPVisibilityByTier map[int]string `yaml:"hp_visibility_by_tier"`
}

// KnowledgeEntryDef is a block of knowledge a party member can share
// during party talk.
type KnowledgeEntryDef struct {
	MemberID     string   `yaml:"member_id"`
	KnowledgeKey string   `yaml:"knowledge_key"`
	EnemyTags    []string `yaml:"enemy_tags"`
	SpeedHint    string   `yaml:"speed_hint"`
	Behavior     string   `yaml:"behavior"`
}
