package battle

import (
	"sort"

	"github.com/S-Hari-B/TBG-sub000/internal/config"
	"github.com/S-Hari-B/TBG-sub000/internal/game/rng"
)

// baseThreat seeds initial targeting from a small fraction of the
// target's bulk so openings are non-uniform but deterministic.
func baseThreat(target *Combatant, cfg config.AggroConfig) int {
	base := (target.Stats.MaxHP + target.Stats.Defense) / cfg.BaseDivisor
	return max(1, base)
}

// initializeEnemyAggro seeds every enemy's threat toward every living
// ally and clears last-target memory.
func initializeEnemyAggro(s *State, cfg config.AggroConfig) {
	s.EnemyAggro = make(map[string]map[string]int)
	s.LastTarget = make(map[string]string)
	living := s.LivingAllies()
	for _, enemy := range s.Enemies {
		aggro := make(map[string]int, len(living))
		for _, ally := range living {
			aggro[ally.InstanceID] = baseThreat(ally, cfg)
		}
		s.EnemyAggro[enemy.InstanceID] = aggro
	}
}

// initializePartyThreat seeds every ally's threat toward every living
// enemy.
func initializePartyThreat(s *State, cfg config.AggroConfig) {
	s.PartyThreat = make(map[string]map[string]int)
	living := s.LivingEnemies()
	for _, ally := range s.Allies {
		threat := make(map[string]int, len(living))
		for _, enemy := range living {
			threat[enemy.InstanceID] = baseThreat(enemy, cfg)
		}
		s.PartyThreat[ally.InstanceID] = threat
	}
}

// seedAggroForAlly registers a late-joining ally (a summon) in every
// enemy's aggro map without disturbing existing entries.
func seedAggroForAlly(s *State, ally *Combatant, cfg config.AggroConfig) {
	for _, enemy := range s.Enemies {
		aggro, ok := s.EnemyAggro[enemy.InstanceID]
		if !ok {
			aggro = make(map[string]int)
			s.EnemyAggro[enemy.InstanceID] = aggro
		}
		if _, ok := aggro[ally.InstanceID]; !ok {
			aggro[ally.InstanceID] = baseThreat(ally, cfg)
		}
	}
}

// seedPartyThreatForAlly gives a late-joining ally a threat map over the
// current enemies.
func seedPartyThreatForAlly(s *State, ally *Combatant, cfg config.AggroConfig) {
	threat, ok := s.PartyThreat[ally.InstanceID]
	if !ok {
		threat = make(map[string]int)
		s.PartyThreat[ally.InstanceID] = threat
	}
	for _, enemy := range s.Enemies {
		if _, ok := threat[enemy.InstanceID]; !ok {
			threat[enemy.InstanceID] = baseThreat(enemy, cfg)
		}
	}
}

// selectEnemyTarget picks the living ally with the highest effective
// threat for an enemy's turn. The enemy's last target is penalized by the
// anti-repeat multiplier unless its lead over the runner-up is at least
// the ignore gap. Exact ties resolve through the shared RNG stream. The
// second result reports whether the anti-repeat penalty shaped the pick.
func selectEnemyTarget(s *State, enemy *Combatant, livingAllies []*Combatant, r *rng.RNG, cfg config.AggroConfig) (*Combatant, bool) {
	aggro, ok := s.EnemyAggro[enemy.InstanceID]
	if !ok {
		aggro = make(map[string]int)
		s.EnemyAggro[enemy.InstanceID] = aggro
	}
	for _, ally := range livingAllies {
		if _, ok := aggro[ally.InstanceID]; !ok {
			aggro[ally.InstanceID] = baseThreat(ally, cfg)
		}
	}

	lastTargetID := s.LastTarget[enemy.InstanceID]
	base := make(map[string]int, len(livingAllies))
	for _, ally := range livingAllies {
		base[ally.InstanceID] = aggro[ally.InstanceID]
	}

	topThreat := 0
	var topIDs []string
	for _, ally := range livingAllies {
		value := base[ally.InstanceID]
		switch {
		case len(topIDs) == 0 || value > topThreat:
			topThreat = value
			topIDs = []string{ally.InstanceID}
		case value == topThreat:
			topIDs = append(topIDs, ally.InstanceID)
		}
	}
	secondThreat, hasSecond := secondHighest(base)

	// A commanding lead on the repeat target overrides the anti-repeat
	// penalty; the enemy keeps hammering the same ally.
	_, lastStillLiving := base[lastTargetID]
	ignoreRepeat := lastStillLiving &&
		len(livingAllies) > 1 &&
		len(topIDs) == 1 &&
		topIDs[0] == lastTargetID &&
		hasSecond &&
		topThreat-secondThreat >= cfg.AntiRepeatIgnoreGap

	effective := make(map[string]int, len(livingAllies))
	for _, ally := range livingAllies {
		value := base[ally.InstanceID]
		if ally.InstanceID == lastTargetID && len(livingAllies) > 1 && !ignoreRepeat {
			value = int(float64(value) * cfg.AntiRepeatMultiplier)
		}
		effective[ally.InstanceID] = value
	}

	maxEffective := 0
	first := true
	for _, ally := range livingAllies {
		if first || effective[ally.InstanceID] > maxEffective {
			maxEffective = effective[ally.InstanceID]
			first = false
		}
	}
	var tied []*Combatant
	for _, ally := range livingAllies {
		if effective[ally.InstanceID] == maxEffective {
			tied = append(tied, ally)
		}
	}
	target := tied[0]
	if len(tied) > 1 {
		target = tied[r.Intn(len(tied))]
	}
	antiRepeatApplied := target.InstanceID == lastTargetID && len(livingAllies) > 1 && !ignoreRepeat
	return target, antiRepeatApplied
}

func secondHighest(values map[string]int) (int, bool) {
	if len(values) < 2 {
		return 0, false
	}
	sorted := make([]int, 0, len(values))
	for _, v := range values {
		sorted = append(sorted, v)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	return sorted[1], true
}

// orderEnemiesByPartyThreat orders living enemies by an ally's threat
// toward them, descending, shuffling inside exact-tie groups through the
// shared RNG stream.
func orderEnemiesByPartyThreat(s *State, ally *Combatant, livingEnemies []*Combatant, r *rng.RNG, cfg config.AggroConfig) []*Combatant {
	threat, ok := s.PartyThreat[ally.InstanceID]
	if !ok {
		threat = make(map[string]int)
		s.PartyThreat[ally.InstanceID] = threat
	}
	for _, enemy := range livingEnemies {
		if _, ok := threat[enemy.InstanceID]; !ok {
			threat[enemy.InstanceID] = baseThreat(enemy, cfg)
		}
	}

	grouped := make(map[int][]*Combatant)
	var levels []int
	for _, enemy := range livingEnemies {
		value := threat[enemy.InstanceID]
		if _, ok := grouped[value]; !ok {
			levels = append(levels, value)
		}
		grouped[value] = append(grouped[value], enemy)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(levels)))

	ordered := make([]*Combatant, 0, len(livingEnemies))
	for _, level := range levels {
		group := grouped[level]
		if len(group) > 1 {
			r.Shuffle(len(group), func(i, j int) {
				group[i], group[j] = group[j], group[i]
			})
		}
		ordered = append(ordered, group...)
	}
	return ordered
}

// selectPartyTarget picks the highest-threat living enemy for an ally.
func selectPartyTarget(s *State, ally *Combatant, livingEnemies []*Combatant, r *rng.RNG, cfg config.AggroConfig) *Combatant {
	return orderEnemiesByPartyThreat(s, ally, livingEnemies, r, cfg)[0]
}
