package battle

import (
	"github.com/S-Hari-B/TBG-sub000/internal/game/content"
	"github.com/S-Hari-B/TBG-sub000/internal/game/gamestate"
)

// RunEnemyTurn resolves one enemy turn: aggro-driven target selection
// followed by a basic attack. The targeting decision is surfaced as a
// debug event ahead of the attack.
func (svc *Service) RunEnemyTurn(s *State, gs *gamestate.State, enemyID string) ([]Event, error) {
	if s.Over {
		return nil, ErrBattleOver
	}
	enemy, err := s.Combatant(enemyID)
	if err != nil {
		return nil, err
	}
	if !enemy.Alive() {
		return nil, ErrTargetNotAlive
	}

	livingAllies := s.LivingAllies()
	if len(livingAllies) == 0 {
		if resolved := svc.updateVictory(s); resolved != nil {
			return []Event{resolved}, nil
		}
		return nil, nil
	}

	target, antiRepeatApplied := selectEnemyTarget(s, enemy, livingAllies, gs.RNG, svc.cfg.Aggro)
	events := []Event{EnemyTargeting{
		AttackerID:        enemy.InstanceID,
		AttackerName:      enemy.DisplayName,
		TargetID:          target.InstanceID,
		TargetName:        target.DisplayName,
		TopThreat:         s.EnemyAggro[enemy.InstanceID][target.InstanceID],
		AntiRepeatApplied: antiRepeatApplied,
	}}

	attackEvents, err := svc.BasicAttack(s, enemy.InstanceID, target.InstanceID)
	if err != nil {
		return nil, err
	}
	return append(events, attackEvents...), nil
}

// RunAllyAITurn resolves one automated ally turn: the first affordable
// equipped skill that has valid targets, falling back to a basic attack
// on the highest-threat enemy.
func (svc *Service) RunAllyAITurn(s *State, gs *gamestate.State, allyID string) ([]Event, error) {
	if s.Over {
		return nil, ErrBattleOver
	}
	ally, err := s.Combatant(allyID)
	if err != nil {
		return nil, err
	}
	if !ally.Alive() {
		return nil, ErrTargetNotAlive
	}

	livingEnemies := s.LivingEnemies()
	if len(livingEnemies) == 0 {
		if resolved := svc.updateVictory(s); resolved != nil {
			return []Event{resolved}, nil
		}
		return nil, nil
	}

	skills, err := svc.AvailableSkills(s, ally.InstanceID)
	if err != nil {
		return nil, err
	}
	for _, skill := range skills {
		if ally.Stats.MP < skill.MPCost {
			continue
		}
		targetIDs, ok := svc.aiSkillTargets(s, ally, skill, livingEnemies, gs)
		if !ok {
			continue
		}
		return svc.UseSkill(s, ally.InstanceID, skill.ID, targetIDs)
	}

	target := selectPartyTarget(s, ally, livingEnemies, gs.RNG, svc.cfg.Aggro)
	return svc.BasicAttack(s, ally.InstanceID, target.InstanceID)
}

// aiSkillTargets picks targets for an AI-driven skill use, or reports
// that the skill is not worth using this turn.
func (svc *Service) aiSkillTargets(s *State, ally *Combatant, skill content.SkillDef, livingEnemies []*Combatant, gs *gamestate.State) ([]string, bool) {
	switch skill.TargetMode {
	case content.TargetSelf:
		// Re-guarding while a guard buffer is still up wastes the turn.
		if skill.EffectType == content.EffectGuard && ally.GuardReduction > 0 {
			return nil, false
		}
		return nil, true
	case content.TargetSingleEnemy:
		target := selectPartyTarget(s, ally, livingEnemies, gs.RNG, svc.cfg.Aggro)
		return []string{target.InstanceID}, true
	case content.TargetMultiEnemy:
		if len(livingEnemies) < 2 {
			return nil, false
		}
		ordered := orderEnemiesByPartyThreat(s, ally, livingEnemies, gs.RNG, svc.cfg.Aggro)
		limit := min(skill.MaxTargets, len(ordered))
		if limit < 2 {
			return nil, false
		}
		ids := make([]string, 0, limit)
		for _, enemy := range ordered[:limit] {
			ids = append(ids, enemy.InstanceID)
		}
		return ids, true
	default:
		return nil, false
	}
}
