package battle

import (
	"go.uber.org/zap"

	"github.com/S-Hari-B/TBG-sub000/internal/game/gamestate"
	"github.com/S-Hari-B/TBG-sub000/internal/game/knowledge"
)

// FlagLastBattleDefeat is set in persistent flags when the player falls.
const FlagLastBattleDefeat = "flag_last_battle_defeat"

// MarkDefeat records a lost battle in persistent state.
func (svc *Service) MarkDefeat(gs *gamestate.State) {
	gs.Flags[FlagLastBattleDefeat] = true
}

// ApplyVictoryRewards applies gold, experience, kill counters, and loot
// for a won battle, then restores the party for the road. Calling it a
// second time on the same battle is a no-op.
//
// Precondition: the battle must be over with the allies victorious.
func (svc *Service) ApplyVictoryRewards(s *State, gs *gamestate.State) ([]Event, error) {
	if !s.Over || s.Victor != SideAllies {
		return nil, ErrBattleOver
	}
	if s.rewardsApplied {
		return nil, nil
	}
	s.rewardsApplied = true

	defeated := s.defeatedEnemies()
	events := []Event{RewardsHeader{}}

	if goldEvent := svc.applyGold(gs, defeated); goldEvent != nil {
		events = append(events, goldEvent)
	}
	events = append(events, svc.applyExperience(gs, defeated)...)
	svc.recordKills(gs, defeated)
	events = append(events, svc.rollLoot(gs, defeated)...)

	svc.restoreAfterVictory(s, gs)
	delete(gs.Flags, FlagLastBattleDefeat)

	svc.logger.Debug("victory rewards applied",
		zap.String("battle_id", s.BattleID),
		zap.Int("defeated", len(defeated)),
		zap.Int("events", len(events)))

	// A header with nothing under it is not worth reporting.
	if len(events) == 1 {
		return nil, nil
	}
	return events, nil
}

func (s *State) defeatedEnemies() []*Combatant {
	var out []*Combatant
	for _, enemy := range s.Enemies {
		if !enemy.Alive() {
			out = append(out, enemy)
		}
	}
	return out
}

func (svc *Service) applyGold(gs *gamestate.State, defeated []*Combatant) Event {
	total := 0
	for _, enemy := range defeated {
		if def, err := svc.catalog.Enemies.Get(enemy.SourceID); err == nil {
			total += def.RewardsGold
		}
	}
	if total <= 0 {
		return nil
	}
	gs.Gold += total
	return GoldReward{Amount: total, TotalGold: gs.Gold}
}

// applyExperience splits the total experience evenly across the player
// and active party members, with any remainder going to the player.
func (svc *Service) applyExperience(gs *gamestate.State, defeated []*Combatant) []Event {
	total := 0
	for _, enemy := range defeated {
		if def, err := svc.catalog.Enemies.Get(enemy.SourceID); err == nil {
			total += def.RewardsExp
		}
	}
	if total <= 0 {
		return nil
	}

	recipients := 1 + len(gs.PartyMembers)
	share := total / recipients
	playerShare := share + total%recipients

	var events []Event
	events = append(events, svc.awardExp(gs, gs.Player.ID, gs.Player.Name, playerShare, true)...)
	for _, memberID := range gs.PartyMembers {
		name := memberID
		if def, err := svc.catalog.PartyMembers.Get(memberID); err == nil {
			name = def.Name
		}
		events = append(events, svc.awardExp(gs, memberID, name, share, false)...)
	}
	return events
}

// awardExp credits experience to one member and resolves any level ups.
// Leveling fully restores the player and recomputes their stats.
func (svc *Service) awardExp(gs *gamestate.State, memberID, memberName string, amount int, isPlayer bool) []Event {
	if amount <= 0 {
		return nil
	}
	level := gs.MemberLevel(memberID)
	exp := gs.MemberExpValue(memberID) + amount

	var events []Event
	leveled := false
	for exp >= svc.expToNextLevel(level) {
		exp -= svc.expToNextLevel(level)
		level++
		leveled = true
		events = append(events, LevelUp{MemberID: memberID, MemberName: memberName, NewLevel: level})
	}
	gs.MemberLevels[memberID] = level
	gs.MemberExp[memberID] = exp

	if leveled && isPlayer {
		gs.RecalculatePlayerStats()
		gs.RestorePlayerResources(true, true)
	}

	return append([]Event{ExpReward{
		MemberID:   memberID,
		MemberName: memberName,
		Amount:     amount,
		NewLevel:   level,
	}}, events...)
}

// expToNextLevel is the experience needed to leave the given level.
func (svc *Service) expToNextLevel(level int) int {
	return svc.cfg.Rewards.XPBase + (level-1)*svc.cfg.Rewards.XPPerLevel
}

// recordKills adds one kill per defeated enemy to its knowledge key.
func (svc *Service) recordKills(gs *gamestate.State, defeated []*Combatant) {
	kills := make(map[string]int)
	for _, enemy := range defeated {
		def, err := svc.catalog.Enemies.Get(enemy.SourceID)
		if err != nil {
			continue
		}
		kills[knowledge.ResolveEnemyKey(def)]++
	}
	svc.know.RecordKills(gs, kills)
}

// rollLoot rolls every matching loot table once per defeated enemy.
// The chance roll always happens; the quantity roll only happens when
// the range is not degenerate, keeping replays stable.
func (svc *Service) rollLoot(gs *gamestate.State, defeated []*Combatant) []Event {
	var events []Event
	for _, enemy := range defeated {
		def, err := svc.catalog.Enemies.Get(enemy.SourceID)
		if err != nil {
			continue
		}
		for _, tableID := range svc.catalog.LootTables.IDs() {
			table, _ := svc.catalog.LootTables.Get(tableID)
			if !table.Matches(def.Tags) {
				continue
			}
			for _, drop := range table.Drops {
				if gs.RNG.Float64() > drop.Chance {
					continue
				}
				quantity := drop.MinQty
				if drop.MinQty != drop.MaxQty {
					quantity = gs.RNG.IntBetween(drop.MinQty, drop.MaxQty)
				}
				gs.Inventory.Add(drop.ItemID, quantity)
				name := drop.ItemID
				if item, err := svc.catalog.Items.Get(drop.ItemID); err == nil {
					name = item.Name
				}
				events = append(events, LootAcquired{ItemID: drop.ItemID, ItemName: name, Quantity: quantity})
			}
		}
	}
	return events
}

// restoreAfterVictory writes the player's battle pools back to the
// persistent entity and refills MP so exploration resumes ready to cast.
func (svc *Service) restoreAfterVictory(s *State, gs *gamestate.State) {
	for _, ally := range s.Allies {
		if ally.InstanceID != gs.Player.ID {
			continue
		}
		gs.Player.Stats.HP = ally.Stats.HP
		gs.Player.Stats.MP = gs.Player.Stats.MaxMP
		return
	}
}
