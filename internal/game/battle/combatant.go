// Package battle implements the deterministic turn-based combat engine:
// battle state and turn scheduling, threat-driven targeting, skill and
// damage resolution, items, party talk, summon spawning, knowledge-gated
// battle views, and idempotent victory rewards. All randomness flows
// through a single explicitly threaded RNG stream so identical seeds and
// action sequences replay identically.
package battle

import (
	"fmt"

	"github.com/S-Hari-B/TBG-sub000/internal/game/debuff"
	"github.com/S-Hari-B/TBG-sub000/internal/game/rng"
	"github.com/S-Hari-B/TBG-sub000/internal/game/stats"
)

// Side is a combatant's allegiance.
type Side string

const (
	SideAllies  Side = "allies"
	SideEnemies Side = "enemies"
)

// Combatant is one participant in a battle.
type Combatant struct {
	InstanceID  string
	DisplayName string
	Side        Side
	Stats       stats.Stats
	BaseStats   stats.Stats
	Attributes  stats.Attributes
	Tags        []string
	WeaponTags  []string

	// WeaponAttack is the attack carried by equipment alone, before any
	// attribute contribution; action-attack values derive from it.
	WeaponAttack int

	// GuardReduction absorbs damage once, then resets to zero.
	GuardReduction int

	Debuffs debuff.Set

	// SourceID is the definition id this combatant was created from.
	SourceID string

	// OwnerID and BondCost are set on summons only.
	OwnerID  string
	BondCost int
}

// Alive reports whether the combatant can still act.
func (c *Combatant) Alive() bool { return c.Stats.HP > 0 }

// IsSummon reports whether the combatant is an owned summon.
func (c *Combatant) IsSummon() bool { return c.OwnerID != "" }

// BasicAttackValue is the action-attack a basic attack resolves with:
// weapon attack plus STR, or scaled DEX when a finesse weapon is
// equipped.
func (c *Combatant) BasicAttackValue() int {
	return stats.PhysicalAttack(c.WeaponAttack, c.Attributes, c.WeaponTags)
}

// SkillAttackValue is the action-attack a skill resolves with, blending
// the physical and magical components by the skill's tags.
func (c *Combatant) SkillAttackValue(skillTags []string) int {
	return stats.ActionAttack(c.WeaponAttack, c.Attributes, skillTags, c.WeaponTags)
}

// HasWeaponTag reports whether the combatant's equipped weapons carry tag.
func (c *Combatant) HasWeaponTag(tag string) bool {
	for _, t := range c.WeaponTags {
		if t == tag {
			return true
		}
	}
	return false
}

// instanceIDMin and instanceIDMax bound the random id suffix.
const (
	instanceIDMin = 100000
	instanceIDMax = 999999
)

// MakeInstanceID generates a deterministic instance identifier from the
// shared RNG stream.
func MakeInstanceID(prefix string, r *rng.RNG) string {
	return fmt.Sprintf("%s_%d", prefix, r.IntBetween(instanceIDMin, instanceIDMax))
}
