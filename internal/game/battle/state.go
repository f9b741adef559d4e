package battle

import "sort"

// HPRange is a frozen min-max HP estimate shown at the static-range
// visibility tier.
type HPRange struct {
	Low  int
	High int
}

// State tracks one ongoing battle. All mutation happens synchronously
// inside the action call that produced it.
type State struct {
	BattleID string
	Allies   []*Combatant
	Enemies  []*Combatant

	// EnemyAggro maps enemy instance id to per-ally threat.
	EnemyAggro map[string]map[string]int
	// PartyThreat maps ally instance id to per-enemy threat.
	PartyThreat map[string]map[string]int
	// LastTarget maps enemy instance id to the ally it last damaged.
	LastTarget map[string]string

	TurnQueue        []string
	CurrentActorID   string
	RoundIndex       int
	RoundLastActorID string

	Over   bool
	Victor Side

	PlayerID string

	// HPVisibility is the per-enemy-instance disclosure decision taken at
	// battle start. TemporaryReveals and StaticRanges are battle-scoped
	// and never written back to persistent counters.
	HPVisibility     map[string]string
	StaticRanges     map[string]HPRange
	TemporaryReveals map[string]string

	rewardsApplied bool
}

// NewState creates an empty battle at round 1.
func NewState(battleID, playerID string) *State {
	return &State{
		BattleID:         battleID,
		PlayerID:         playerID,
		EnemyAggro:       make(map[string]map[string]int),
		PartyThreat:      make(map[string]map[string]int),
		LastTarget:       make(map[string]string),
		RoundIndex:       1,
		HPVisibility:     make(map[string]string),
		StaticRanges:     make(map[string]HPRange),
		TemporaryReveals: make(map[string]string),
	}
}

// Combatant returns the combatant with the given instance id.
//
// Postcondition: Returns ErrCombatantNotFound when the id is absent.
func (s *State) Combatant(instanceID string) (*Combatant, error) {
	for _, c := range s.all() {
		if c.InstanceID == instanceID {
			return c, nil
		}
	}
	return nil, ErrCombatantNotFound
}

func (s *State) all() []*Combatant {
	out := make([]*Combatant, 0, len(s.Allies)+len(s.Enemies))
	out = append(out, s.Allies...)
	out = append(out, s.Enemies...)
	return out
}

// LivingAllies returns the allies still able to act, in roster order.
func (s *State) LivingAllies() []*Combatant {
	var out []*Combatant
	for _, c := range s.Allies {
		if c.Alive() {
			out = append(out, c)
		}
	}
	return out
}

// LivingEnemies returns the enemies still able to act, in roster order.
func (s *State) LivingEnemies() []*Combatant {
	var out []*Combatant
	for _, c := range s.Enemies {
		if c.Alive() {
			out = append(out, c)
		}
	}
	return out
}

// RebuildTurnQueue recomputes the queue as all living combatants sorted
// by descending speed, ties broken by instance id.
func (s *State) RebuildTurnQueue() {
	living := make([]*Combatant, 0, len(s.Allies)+len(s.Enemies))
	for _, c := range s.all() {
		if c.Alive() {
			living = append(living, c)
		}
	}
	sort.Slice(living, func(i, j int) bool {
		if living[i].Stats.Speed != living[j].Stats.Speed {
			return living[i].Stats.Speed > living[j].Stats.Speed
		}
		return living[i].InstanceID < living[j].InstanceID
	})
	s.TurnQueue = s.TurnQueue[:0]
	for _, c := range living {
		s.TurnQueue = append(s.TurnQueue, c.InstanceID)
	}
	if len(living) == 0 {
		s.CurrentActorID = ""
	}
}

// AdvanceTurn rebuilds the queue and moves to the entry after lastActorID,
// wrapping to a new round when the pass completes or the round's tail
// actor has died. Returns debuff expiry events emitted at the boundary.
func (s *State) AdvanceTurn(lastActorID string) []Event {
	s.RebuildTurnQueue()
	var events []Event
	if len(s.TurnQueue) == 0 {
		s.CurrentActorID = ""
		return events
	}

	wrapped := s.RoundLastActorID != "" && !s.queueContains(s.RoundLastActorID)
	nextActorID, wrappedNow := s.nextAfter(lastActorID)
	if wrappedNow {
		wrapped = true
	}

	if wrapped {
		events = append(events, s.startNewRound()...)
		if len(s.TurnQueue) == 0 {
			s.CurrentActorID = ""
			return events
		}
		nextActorID, _ = s.nextAfter(lastActorID)
	}

	s.CurrentActorID = nextActorID
	return events
}

// nextAfter returns the queue entry following lastActorID, wrapping, or
// the head when the actor is absent. The second result reports a wrap.
func (s *State) nextAfter(lastActorID string) (string, bool) {
	for i, id := range s.TurnQueue {
		if id == lastActorID {
			next := (i + 1) % len(s.TurnQueue)
			return s.TurnQueue[next], next == 0
		}
	}
	return s.TurnQueue[0], false
}

func (s *State) queueContains(id string) bool {
	for _, entry := range s.TurnQueue {
		if entry == id {
			return true
		}
	}
	return false
}

// startNewRound increments the round index, expires enemy debuffs due at
// the new round, and recomputes the round tail actor.
func (s *State) startNewRound() []Event {
	s.RoundIndex++
	events := s.expireEnemyDebuffs()
	s.setRoundLastActor()
	return events
}

func (s *State) setRoundLastActor() {
	if len(s.TurnQueue) == 0 {
		s.RoundLastActorID = ""
		return
	}
	s.RoundLastActorID = s.TurnQueue[len(s.TurnQueue)-1]
}

// expireEnemyDebuffs removes debuffs due at the current round index.
// Dead combatants expire silently; their debuffs were already cleared by
// death in the usual case.
func (s *State) expireEnemyDebuffs() []Event {
	var events []Event
	for _, enemy := range s.Enemies {
		expired := enemy.Debuffs.ExpireAtRound(s.RoundIndex)
		if !enemy.Alive() {
			continue
		}
		for _, d := range expired {
			events = append(events, DebuffExpired{
				TargetID:   enemy.InstanceID,
				TargetName: enemy.DisplayName,
				DebuffType: string(d.Type),
			})
		}
	}
	return events
}
