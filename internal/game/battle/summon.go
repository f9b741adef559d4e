package battle

import (
	"fmt"

	"github.com/S-Hari-B/TBG-sub000/internal/game/content"
	"github.com/S-Hari-B/TBG-sub000/internal/game/gamestate"
	"github.com/S-Hari-B/TBG-sub000/internal/game/stats"
)

// summonOwner pairs a battle-side owner instance id with its persistent
// owner key and equipped loadout.
type summonOwner struct {
	instanceID string
	ownerKey   string
	equipped   []string
}

// summonSpawnOwners lists spawn owners in deterministic order: player
// first, then party members in roster order.
func (svc *Service) summonSpawnOwners(gs *gamestate.State) []summonOwner {
	var owners []summonOwner
	if gs.Player != nil {
		owners = append(owners, summonOwner{
			instanceID: gs.Player.ID,
			ownerKey:   gs.Player.ID,
			equipped:   append([]string(nil), gs.Player.EquippedSummons...),
		})
	}
	for _, memberID := range gs.PartyMembers {
		owners = append(owners, summonOwner{
			instanceID: "party_" + memberID,
			ownerKey:   memberID,
			equipped:   append([]string(nil), gs.PartyMemberSummonLoadouts[memberID]...),
		})
	}
	return owners
}

func (svc *Service) resolveOwnerBond(gs *gamestate.State, ownerKey string) int {
	if gs.Player != nil && gs.Player.ID == ownerKey {
		return gs.Player.Attributes.BOND
	}
	return gs.PartyMemberAttributes[ownerKey].BOND
}

// autoSpawnEquippedSummons spawns each owner's equipped summons in
// equipped order against a running bond-cost budget. The first summon
// whose cost exceeds the owner's remaining capacity stops that owner's
// spawning; later cheaper summons are not skipped ahead to.
func (svc *Service) autoSpawnEquippedSummons(gs *gamestate.State, s *State) ([]Event, error) {
	var events []Event
	for _, owner := range svc.summonSpawnOwners(gs) {
		capacity := svc.resolveOwnerBond(gs, owner.ownerKey)
		if capacity <= 0 || len(owner.equipped) == 0 {
			continue
		}
		remaining := capacity
		for _, summonID := range owner.equipped {
			def, err := svc.catalog.Summons.Get(summonID)
			if err != nil {
				return nil, &FactoryError{Msg: fmt.Sprintf("summon %q not found", summonID), Err: err}
			}
			if def.BondCost > remaining {
				break
			}
			spawnEvents, err := svc.spawnSummon(gs, s, owner.instanceID, capacity, summonID)
			if err != nil {
				return nil, err
			}
			events = append(events, spawnEvents...)
			remaining -= def.BondCost
		}
	}
	return events, nil
}

// spawnSummon creates a summon combatant for an owner already present
// among the allies and inserts it into the battle.
func (svc *Service) spawnSummon(gs *gamestate.State, s *State, ownerInstanceID string, ownerBond int, summonID string) ([]Event, error) {
	ownerPresent := false
	for _, ally := range s.Allies {
		if ally.InstanceID == ownerInstanceID {
			ownerPresent = true
			break
		}
	}
	if !ownerPresent {
		return nil, &FactoryError{Msg: fmt.Sprintf("summon owner %q not found among allies", ownerInstanceID)}
	}

	def, err := svc.catalog.Summons.Get(summonID)
	if err != nil {
		return nil, &FactoryError{Msg: fmt.Sprintf("summon %q not found", summonID), Err: err}
	}
	base := stats.Stats{
		MaxHP:   def.MaxHP,
		HP:      def.MaxHP,
		MaxMP:   def.MaxMP,
		MP:      def.MaxMP,
		Attack:  def.Attack,
		Defense: def.Defense,
		Speed:   def.Speed,
	}
	scaled := stats.ScaleSummonStats(base, ownerBond, stats.BondScaling{
		HPPerBond:   def.BondScaling.HPPerBond,
		AtkPerBond:  def.BondScaling.AtkPerBond,
		DefPerBond:  def.BondScaling.DefPerBond,
		InitPerBond: def.BondScaling.InitPerBond,
	})

	summon := &Combatant{
		InstanceID:   MakeInstanceID("summon", gs.RNG),
		DisplayName:  def.Name,
		Side:         SideAllies,
		Stats:        scaled,
		BaseStats:    base,
		Tags:         append([]string{content.TagSummon}, def.Tags...),
		WeaponAttack: scaled.Attack,
		SourceID:     def.ID,
		OwnerID:      ownerInstanceID,
		BondCost:     def.BondCost,
	}
	s.Allies = append(s.Allies, summon)
	seedAggroForAlly(s, summon, svc.cfg.Aggro)
	seedPartyThreatForAlly(s, summon, svc.cfg.Aggro)
	s.RebuildTurnQueue()

	return []Event{SummonSpawned{
		OwnerID:          ownerInstanceID,
		SummonID:         summonID,
		SummonInstanceID: summon.InstanceID,
		SummonName:       summon.DisplayName,
		BondCost:         summon.BondCost,
		OwnerBond:        ownerBond,
		BaseStats:        base,
		ScaledStats:      scaled,
	}}, nil
}
