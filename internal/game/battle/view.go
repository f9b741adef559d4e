package battle

import (
	"fmt"

	"github.com/S-Hari-B/TBG-sub000/internal/game/gamestate"
	"github.com/S-Hari-B/TBG-sub000/internal/game/knowledge"
	"github.com/S-Hari-B/TBG-sub000/internal/game/rng"
)

// snapshotKnowledge records the per-enemy HP disclosure decision at
// battle start. Static ranges are frozen here and never recomputed as
// the enemy takes damage.
func (svc *Service) snapshotKnowledge(gs *gamestate.State, s *State) {
	for _, enemy := range s.Enemies {
		mode := svc.modeForEnemy(gs, enemy)
		s.HPVisibility[enemy.InstanceID] = string(mode)
		if mode == knowledge.StaticRange {
			s.StaticRanges[enemy.InstanceID] = svc.estimateHPRange(enemy.Stats.MaxHP, gs.RNG)
		}
	}
}

// RefreshKnowledgeSnapshot re-reads persistent kill counters and upgrades
// the battle's disclosure decisions in place. Enemies that newly reach
// the static-range tier get a range frozen from their max HP; existing
// frozen ranges are kept.
func (svc *Service) RefreshKnowledgeSnapshot(gs *gamestate.State, s *State) {
	for _, enemy := range s.Enemies {
		mode := svc.modeForEnemy(gs, enemy)
		s.HPVisibility[enemy.InstanceID] = string(mode)
		if mode != knowledge.StaticRange {
			continue
		}
		if _, ok := s.StaticRanges[enemy.InstanceID]; !ok {
			s.StaticRanges[enemy.InstanceID] = svc.estimateHPRange(enemy.Stats.MaxHP, gs.RNG)
		}
	}
}

func (svc *Service) modeForEnemy(gs *gamestate.State, enemy *Combatant) knowledge.VisibilityMode {
	def, err := svc.catalog.Enemies.Get(enemy.SourceID)
	if err != nil {
		return knowledge.Hidden
	}
	return svc.know.ModeForKey(gs, knowledge.ResolveEnemyKey(def))
}

// estimateHPRange jitters a max HP value into a plausible bracket.
// Ranges are always computed from max HP so a frozen bracket never
// leaks how much damage the enemy has taken. The low bound always
// undershoots and the high bound never falls below it.
func (svc *Service) estimateHPRange(maxHP int, r *rng.RNG) HPRange {
	spread := max(1, svc.cfg.TalkRangeSpread)
	low := max(1, maxHP+r.IntBetween(-spread, -1))
	high := max(low, maxHP+r.IntBetween(0, spread))
	return HPRange{Low: low, High: high}
}

// effectiveVisibility resolves the display mode for one enemy instance,
// letting battle-scoped temporary reveals upgrade the snapshot decision
// but never downgrade it.
func (s *State) effectiveVisibility(instanceID string) knowledge.VisibilityMode {
	base := knowledge.VisibilityMode(s.HPVisibility[instanceID])
	if base == "" {
		base = knowledge.Hidden
	}
	reveal := knowledge.VisibilityMode(s.TemporaryReveals[instanceID])
	if visibilityRank(reveal) > visibilityRank(base) {
		return reveal
	}
	return base
}

func visibilityRank(mode knowledge.VisibilityMode) int {
	switch mode {
	case knowledge.Realtime:
		return 2
	case knowledge.StaticRange:
		return 1
	default:
		return 0
	}
}

// CombatantView is one combatant as presentation layers may show it.
// HPDisplay already honors the disclosure decision; callers must not
// reconstruct hidden values from other fields.
type CombatantView struct {
	InstanceID string
	Name       string
	Side       Side
	Alive      bool
	IsSummon   bool
	HPDisplay  string
	MPDisplay  string
	Guard      int
}

// BattleView is a read-only projection of the battle for display.
type BattleView struct {
	BattleID       string
	RoundIndex     int
	CurrentActorID string
	TurnQueue      []string
	Over           bool
	Victor         Side
	Allies         []CombatantView
	Enemies        []CombatantView
}

// View projects the battle state for display. Allies always show exact
// pools; enemies show what their visibility mode permits. The
// projection consumes no randomness and mutates nothing.
func (svc *Service) View(s *State) BattleView {
	view := BattleView{
		BattleID:       s.BattleID,
		RoundIndex:     s.RoundIndex,
		CurrentActorID: s.CurrentActorID,
		TurnQueue:      append([]string(nil), s.TurnQueue...),
		Over:           s.Over,
		Victor:         s.Victor,
	}
	for _, ally := range s.Allies {
		view.Allies = append(view.Allies, CombatantView{
			InstanceID: ally.InstanceID,
			Name:       ally.DisplayName,
			Side:       SideAllies,
			Alive:      ally.Alive(),
			IsSummon:   ally.IsSummon(),
			HPDisplay:  fmt.Sprintf("%d/%d", ally.Stats.HP, ally.Stats.MaxHP),
			MPDisplay:  fmt.Sprintf("%d/%d", ally.Stats.MP, ally.Stats.MaxMP),
			Guard:      ally.GuardReduction,
		})
	}
	for _, enemy := range s.Enemies {
		view.Enemies = append(view.Enemies, CombatantView{
			InstanceID: enemy.InstanceID,
			Name:       enemy.DisplayName,
			Side:       SideEnemies,
			Alive:      enemy.Alive(),
			HPDisplay:  s.enemyHPDisplay(enemy),
		})
	}
	return view
}

// enemyHPDisplay formats an enemy's HP per its effective visibility.
func (s *State) enemyHPDisplay(enemy *Combatant) string {
	switch s.effectiveVisibility(enemy.InstanceID) {
	case knowledge.Realtime:
		return fmt.Sprintf("%d/%d", enemy.Stats.HP, enemy.Stats.MaxHP)
	case knowledge.StaticRange:
		if hpRange, ok := s.StaticRanges[enemy.InstanceID]; ok {
			return fmt.Sprintf("%d-%d", hpRange.Low, hpRange.High)
		}
		return "???"
	default:
		return "???"
	}
}
