package battle

import (
	"github.com/S-Hari-B/TBG-sub000/internal/game/gamestate"
)

// ActionKind enumerates the player-issued battle actions.
type ActionKind string

const (
	ActionAttack    ActionKind = "attack"
	ActionSkill     ActionKind = "skill"
	ActionItem      ActionKind = "item"
	ActionPartyTalk ActionKind = "party_talk"
)

// Action is one player command. Fields beyond Kind are read per kind.
type Action struct {
	Kind      ActionKind
	TargetID  string
	SkillID   string
	TargetIDs []string
	ItemID    string
	SpeakerID string
}

// Controller drives one battle from start to resolution: it owns the
// battle state, routes player actions, runs AI turns, and accumulates
// the ordered event log.
type Controller struct {
	svc *Service
	gs  *gamestate.State
	s   *State
	log []Event
}

// NewController starts a battle and returns a controller bound to it.
func NewController(svc *Service, gs *gamestate.State, enemyID string, battleLevel int) (*Controller, error) {
	s, events, err := svc.StartBattle(gs, enemyID, battleLevel)
	if err != nil {
		return nil, err
	}
	return &Controller{svc: svc, gs: gs, s: s, log: events}, nil
}

// State exposes the underlying battle state for inspection.
func (c *Controller) State() *State { return c.s }

// Events returns the full ordered event log so far.
func (c *Controller) Events() []Event { return append([]Event(nil), c.log...) }

// View projects the current battle for display.
func (c *Controller) View() BattleView { return c.svc.View(c.s) }

// Over reports whether the battle has resolved.
func (c *Controller) Over() bool { return c.s.Over }

// PlayerTurn reports whether the player is the current actor.
func (c *Controller) PlayerTurn() bool {
	return !c.s.Over && c.s.CurrentActorID == c.s.PlayerID
}

// ApplyPlayerAction routes a player command to the battle service.
//
// Precondition: it must be the player's turn; any other actor yields
// ErrNotActorsTurn without mutation.
func (c *Controller) ApplyPlayerAction(action Action) ([]Event, error) {
	if c.s.Over {
		return nil, ErrBattleOver
	}
	if c.s.CurrentActorID != c.s.PlayerID {
		return nil, ErrNotActorsTurn
	}

	var events []Event
	var err error
	switch action.Kind {
	case ActionAttack:
		events, err = c.svc.BasicAttack(c.s, c.s.PlayerID, action.TargetID)
	case ActionSkill:
		events, err = c.svc.UseSkill(c.s, c.s.PlayerID, action.SkillID, action.TargetIDs)
	case ActionItem:
		events, err = c.svc.UseItem(c.s, c.gs, c.s.PlayerID, action.ItemID, action.TargetID)
	case ActionPartyTalk:
		events, err = c.svc.PartyTalk(c.s, c.gs, action.SpeakerID)
	default:
		return nil, ErrTargetingNotSupported
	}
	if err != nil {
		// A rejected skill still emits its failure event.
		c.log = append(c.log, events...)
		return events, err
	}
	c.log = append(c.log, events...)
	c.afterResolution()
	return events, nil
}

// RunAITurns advances enemy and allied AI turns until the player acts
// next or the battle resolves.
func (c *Controller) RunAITurns() ([]Event, error) {
	var all []Event
	// Bounded to rule out a stalled queue spinning forever.
	for i := 0; i < 256; i++ {
		if c.s.Over || c.s.CurrentActorID == "" || c.s.CurrentActorID == c.s.PlayerID {
			break
		}
		actor, err := c.s.Combatant(c.s.CurrentActorID)
		if err != nil {
			return all, err
		}
		var events []Event
		if actor.Side == SideEnemies {
			events, err = c.svc.RunEnemyTurn(c.s, c.gs, actor.InstanceID)
		} else {
			events, err = c.svc.RunAllyAITurn(c.s, c.gs, actor.InstanceID)
		}
		if err != nil {
			return all, err
		}
		c.log = append(c.log, events...)
		all = append(all, events...)
	}
	c.afterResolution()
	return all, nil
}

// FinishVictory applies rewards for a won battle, once.
func (c *Controller) FinishVictory() ([]Event, error) {
	events, err := c.svc.ApplyVictoryRewards(c.s, c.gs)
	if err != nil {
		return nil, err
	}
	c.log = append(c.log, events...)
	return events, nil
}

// RefreshKnowledge re-reads persistent kill counters into the battle's
// disclosure snapshot.
func (c *Controller) RefreshKnowledge() {
	c.svc.RefreshKnowledgeSnapshot(c.gs, c.s)
}

// PreviewPartyTalk returns the text a speaker would say without
// spending the turn.
func (c *Controller) PreviewPartyTalk(speakerID string) (string, error) {
	return c.svc.PreviewPartyTalk(c.s, speakerID)
}

// EstimateDamage projects damage between two combatants without
// touching battle state.
func (c *Controller) EstimateDamage(attackerID, targetID string, bonusPower int) (int, error) {
	return c.svc.EstimateDamageForIDs(c.s, attackerID, targetID, bonusPower)
}

// afterResolution records a defeat flag the moment the battle is lost.
func (c *Controller) afterResolution() {
	if c.s.Over && c.s.Victor == SideEnemies {
		c.svc.MarkDefeat(c.gs)
	}
}
