// Package gamestate holds the persistent cross-battle state: the player
// character, active party, inventory, gold, progression flags, and the
// knowledge kill counters.
package gamestate

import (
	"github.com/S-Hari-B/TBG-sub000/internal/game/rng"
	"github.com/S-Hari-B/TBG-sub000/internal/game/stats"
)

// Equipment is the equipped gear of one character.
type Equipment struct {
	WeaponIDs   []string
	ArmourSlots map[string]string
}

// Player is the player character.
type Player struct {
	ID              string
	Name            string
	BaseStats       stats.BaseStats
	Attributes      stats.Attributes
	Stats           stats.Stats
	EquippedSummons []string
}

// State is the full persistent game state.
type State struct {
	Seed int64
	RNG  *rng.RNG

	Player       *Player
	PartyMembers []string

	// PartyMemberAttributes overrides a member's starting attributes once
	// they have allocated points of their own.
	PartyMemberAttributes map[string]stats.Attributes

	MemberLevels map[string]int
	MemberExp    map[string]int

	Gold      int
	Inventory *Inventory
	Equipment map[string]Equipment
	Flags     map[string]bool

	// PartyMemberSummonLoadouts maps party member id to equipped summon
	// ids in spawn order. The player's loadout lives on Player.
	PartyMemberSummonLoadouts map[string][]string

	knowledgeKillCounts map[string]int
}

// New creates a State seeded with its own RNG stream.
func New(seed int64) *State {
	return &State{
		Seed:                      seed,
		RNG:                       rng.New(seed),
		PartyMemberAttributes:     make(map[string]stats.Attributes),
		MemberLevels:              make(map[string]int),
		MemberExp:                 make(map[string]int),
		Inventory:                 NewInventory(),
		Equipment:                 make(map[string]Equipment),
		Flags:                     make(map[string]bool),
		PartyMemberSummonLoadouts: make(map[string][]string),
		knowledgeKillCounts:       make(map[string]int),
	}
}

// ActivePartyIDs returns the player id followed by the active party
// member ids, in roster order.
func (s *State) ActivePartyIDs() []string {
	var ids []string
	if s.Player != nil {
		ids = append(ids, s.Player.ID)
	}
	ids = append(ids, s.PartyMembers...)
	return ids
}

// MemberLevel returns a member's level, defaulting to 1.
func (s *State) MemberLevel(memberID string) int {
	if level, ok := s.MemberLevels[memberID]; ok {
		return level
	}
	return 1
}

// MemberExpValue returns a member's accumulated experience toward the
// next level.
func (s *State) MemberExpValue(memberID string) int {
	return s.MemberExp[memberID]
}

// MemberAttributes returns a member's attributes: the allocated override
// when present, the given fallback otherwise.
func (s *State) MemberAttributes(memberID string, fallback stats.Attributes) stats.Attributes {
	if attrs, ok := s.PartyMemberAttributes[memberID]; ok {
		return attrs
	}
	return fallback
}

// EquippedSummons returns the spawn-ordered summon loadout for an owner.
func (s *State) EquippedSummons(ownerID string) []string {
	if s.Player != nil && ownerID == s.Player.ID {
		return s.Player.EquippedSummons
	}
	return s.PartyMemberSummonLoadouts[ownerID]
}

// KillCount returns the persistent kill count for a knowledge key.
func (s *State) KillCount(key string) int {
	return s.knowledgeKillCounts[key]
}

// AddKills adds n kills to a knowledge key's counter, clamping at zero.
func (s *State) AddKills(key string, n int) {
	if key == "" {
		return
	}
	total := s.knowledgeKillCounts[key] + n
	s.knowledgeKillCounts[key] = max(0, total)
}

// SetKillCount overwrites a knowledge key's counter. Negative values and
// empty keys are ignored.
func (s *State) SetKillCount(key string, value int) {
	if key == "" || value < 0 {
		return
	}
	s.knowledgeKillCounts[key] = value
}

// KillCounts returns a copy of all knowledge counters.
func (s *State) KillCounts() map[string]int {
	out := make(map[string]int, len(s.knowledgeKillCounts))
	for key, count := range s.knowledgeKillCounts {
		out[key] = count
	}
	return out
}

// RecalculatePlayerStats rebuilds the player's derived stat block from
// base stats and attributes, preserving current pools up to the new
// maxima.
func (s *State) RecalculatePlayerStats() {
	if s.Player == nil {
		return
	}
	s.Player.Stats = stats.ApplyAttributeScaling(
		s.Player.BaseStats,
		s.Player.Attributes,
		s.Player.Stats.HP,
		s.Player.Stats.MP,
	)
}

// RestorePlayerResources refills the player's current pools.
func (s *State) RestorePlayerResources(restoreHP, restoreMP bool) {
	if s.Player == nil {
		return
	}
	if restoreHP {
		s.Player.Stats.HP = s.Player.Stats.MaxHP
	}
	if restoreMP {
		s.Player.Stats.MP = s.Player.Stats.MaxMP
	}
}
