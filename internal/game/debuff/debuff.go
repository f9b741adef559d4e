// Package debuff tracks temporary in-battle stat penalties. Debuffs do
// not stack within a type, expire only at round boundaries, and never
// persist across battles.
package debuff

// Type identifies a debuff category.
type Type string

const (
	AttackDown  Type = "attack_down"
	DefenseDown Type = "defense_down"
)

// Active is one live debuff on a combatant.
type Active struct {
	Type           Type
	Amount         int
	ExpiresAtRound int
}

// Set is the collection of active debuffs on a single combatant.
type Set struct {
	active []Active
}

// ApplyNoStack adds a debuff unless one of the same type is already
// active. It reports whether the debuff was applied; the caller still
// consumes whatever cost triggered the attempt either way.
func (s *Set) ApplyNoStack(t Type, amount, expiresAtRound int) bool {
	for _, existing := range s.active {
		if existing.Type == t {
			return false
		}
	}
	s.active = append(s.active, Active{Type: t, Amount: amount, ExpiresAtRound: expiresAtRound})
	return true
}

// EffectiveAttack returns base attack minus active attack_down penalties,
// floored at 1.
func (s *Set) EffectiveAttack(baseAttack int) int {
	penalty := 0
	for _, d := range s.active {
		if d.Type == AttackDown {
			penalty += d.Amount
		}
	}
	return max(1, baseAttack-penalty)
}

// EffectiveDefense returns base defense minus active defense_down
// penalties, floored at 0.
func (s *Set) EffectiveDefense(baseDefense int) int {
	penalty := 0
	for _, d := range s.active {
		if d.Type == DefenseDown {
			penalty += d.Amount
		}
	}
	return max(0, baseDefense-penalty)
}

// ExpireAtRound removes every debuff whose expiry round has been reached
// and returns the removed entries in application order.
func (s *Set) ExpireAtRound(round int) []Active {
	var expired []Active
	var kept []Active
	for _, d := range s.active {
		if d.ExpiresAtRound <= round {
			expired = append(expired, d)
		} else {
			kept = append(kept, d)
		}
	}
	s.active = kept
	return expired
}

// Clear removes all active debuffs, as on death or battle end.
func (s *Set) Clear() { s.active = nil }

// Active returns a copy of the live debuffs in application order.
func (s *Set) Active() []Active {
	out := make([]Active, len(s.active))
	copy(out, s.active)
	return out
}

// Len returns the number of active debuffs.
func (s *Set) Len() int { return len(s.active) }
