package battle

import "github.com/S-Hari-B/TBG-sub000/internal/config"

// EstimateDamage projects the damage a basic attack would deal without
// mutating combatants, guard values, or RNG state.
//
// Postcondition: Pure; may be called any number of times without
// perturbing later outcomes.
func EstimateDamage(attacker, target *Combatant, bonusPower, minimum int) int {
	return projectDamage(attacker.BasicAttackValue(), attacker, target, bonusPower, minimum)
}

// EstimateSkillDamage projects the damage a skill would deal, using the
// tag-blended action-attack value, with the same purity guarantee.
func EstimateSkillDamage(attacker, target *Combatant, skillTags []string, bonusPower, minimum int) int {
	return projectDamage(attacker.SkillAttackValue(skillTags), attacker, target, bonusPower, minimum)
}

func projectDamage(attackValue int, attacker, target *Combatant, bonusPower, minimum int) int {
	effAttack := attacker.Debuffs.EffectiveAttack(attackValue)
	effDefense := target.Debuffs.EffectiveDefense(target.Stats.Defense)
	damage := max(minimum, effAttack+bonusPower-effDefense)
	return max(0, damage)
}

// resolveDamage applies damage from attacker to target using the given
// action-attack value: guard absorbs first and is consumed in full, HP
// floors at zero, death clears debuffs. Ally damage to an enemy feeds
// that enemy's aggro toward the attacker and the attacker's threat
// toward the enemy; enemy damage to an ally records the enemy's last
// target.
func resolveDamage(s *State, attacker, target *Combatant, attackValue, bonusPower, minimum int, cfg config.CombatConfig) int {
	effAttack := attacker.Debuffs.EffectiveAttack(attackValue)
	effDefense := target.Debuffs.EffectiveDefense(target.Stats.Defense)
	damage := max(minimum, effAttack+bonusPower-effDefense)
	if target.GuardReduction > 0 {
		absorbed := min(damage, target.GuardReduction)
		damage -= absorbed
		target.GuardReduction = 0
	}
	damage = max(0, damage)
	target.Stats.HP = max(0, target.Stats.HP-damage)
	if !target.Alive() {
		target.Debuffs.Clear()
	}

	switch {
	case damage > 0 && attacker.Side == SideAllies && target.Side == SideEnemies:
		aggro, ok := s.EnemyAggro[target.InstanceID]
		if !ok {
			aggro = make(map[string]int)
			s.EnemyAggro[target.InstanceID] = aggro
		}
		if _, ok := aggro[attacker.InstanceID]; !ok {
			aggro[attacker.InstanceID] = baseThreat(attacker, cfg.Aggro)
		}
		aggro[attacker.InstanceID] += damage + cfg.Aggro.HitBonus

		threat, ok := s.PartyThreat[attacker.InstanceID]
		if !ok {
			threat = make(map[string]int)
			s.PartyThreat[attacker.InstanceID] = threat
		}
		if _, ok := threat[target.InstanceID]; !ok {
			threat[target.InstanceID] = baseThreat(target, cfg.Aggro)
		}
		threat[target.InstanceID] += damage + cfg.Aggro.HitBonus
	case damage > 0 && attacker.Side == SideEnemies && target.Side == SideAllies:
		s.LastTarget[attacker.InstanceID] = target.InstanceID
	}
	return damage
}
