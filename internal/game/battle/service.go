package battle

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/S-Hari-B/TBG-sub000/internal/config"
	"github.com/S-Hari-B/TBG-sub000/internal/game/content"
	"github.com/S-Hari-B/TBG-sub000/internal/game/gamestate"
	"github.com/S-Hari-B/TBG-sub000/internal/game/knowledge"
	"github.com/S-Hari-B/TBG-sub000/internal/game/stats"
)

// Service orchestrates battles. It owns no mutable state of its own; all
// battle and persistent state is passed through explicitly so identical
// inputs replay identically.
type Service struct {
	catalog *content.Catalog
	know    *knowledge.Service
	cfg     config.CombatConfig
	logger  *zap.Logger
}

// NewService creates a battle Service.
// Precondition: catalog and know must be non-nil; a nil logger is
// replaced with a no-op logger.
func NewService(catalog *content.Catalog, know *knowledge.Service, cfg config.CombatConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{catalog: catalog, know: know, cfg: cfg, logger: logger}
}

// StartBattle instantiates a battle against the requested enemy or group
// definition, spawns equipped summons, seeds threat, snapshots knowledge
// visibility, and builds the opening turn queue.
//
// Postcondition: Returns a *FactoryError when the player is missing or a
// referenced definition does not exist.
func (svc *Service) StartBattle(gs *gamestate.State, enemyID string, battleLevel int) (*State, []Event, error) {
	if gs.Player == nil {
		return nil, nil, &FactoryError{Msg: "cannot start battle before a player exists"}
	}

	enemyIDs, err := svc.expandEnemyID(enemyID)
	if err != nil {
		return nil, nil, err
	}

	level := max(0, battleLevel)
	var enemies []*Combatant
	for _, id := range enemyIDs {
		enemy, err := svc.createEnemyCombatant(id, gs, level)
		if err != nil {
			return nil, nil, err
		}
		enemies = append(enemies, enemy)
	}
	disambiguateNames(enemies)

	allies := []*Combatant{svc.playerToCombatant(gs)}
	for _, memberID := range gs.PartyMembers {
		member, err := svc.partyMemberToCombatant(memberID, gs)
		if err != nil {
			return nil, nil, err
		}
		allies = append(allies, member)
	}

	battleID := MakeInstanceID("battle", gs.RNG)
	s := NewState(battleID, gs.Player.ID)
	s.Allies = allies
	s.Enemies = enemies

	events := []Event{BattleStarted{
		BattleID:    battleID,
		EnemyNames:  enemyNames(enemies),
		BattleLevel: level,
	}}

	spawnEvents, err := svc.autoSpawnEquippedSummons(gs, s)
	if err != nil {
		return nil, nil, err
	}
	events = append(events, spawnEvents...)

	initializeEnemyAggro(s, svc.cfg.Aggro)
	initializePartyThreat(s, svc.cfg.Aggro)
	svc.snapshotKnowledge(gs, s)
	s.RebuildTurnQueue()
	if len(s.TurnQueue) > 0 {
		s.CurrentActorID = s.TurnQueue[0]
		s.RoundLastActorID = s.TurnQueue[len(s.TurnQueue)-1]
	}

	svc.logger.Debug("battle started",
		zap.String("battle_id", battleID),
		zap.Int("battle_level", level),
		zap.Int("allies", len(s.Allies)),
		zap.Int("enemies", len(s.Enemies)))
	return s, events, nil
}

// expandEnemyID resolves a definition id to the concrete enemy ids to
// spawn, flattening group compositions.
func (svc *Service) expandEnemyID(enemyID string) ([]string, error) {
	def, err := svc.catalog.Enemies.Get(enemyID)
	if err != nil {
		return nil, &FactoryError{Msg: fmt.Sprintf("enemy %q not found", enemyID), Err: err}
	}
	if def.IsGroup() {
		return append([]string(nil), def.EnemyIDs...), nil
	}
	return []string{enemyID}, nil
}

// createEnemyCombatant instantiates one enemy with weapon and armour
// bonuses folded into its base stats, then applies battle-level scaling.
func (svc *Service) createEnemyCombatant(enemyID string, gs *gamestate.State, battleLevel int) (*Combatant, error) {
	def, err := svc.catalog.Enemies.Get(enemyID)
	if err != nil {
		return nil, &FactoryError{Msg: fmt.Sprintf("enemy %q not found", enemyID), Err: err}
	}
	if def.IsGroup() {
		return nil, &FactoryError{Msg: fmt.Sprintf("enemy %q is a group and cannot be instantiated directly", enemyID)}
	}

	base := stats.Stats{
		MaxHP:   def.HP,
		HP:      def.HP,
		MaxMP:   def.MP,
		MP:      def.MP,
		Attack:  def.Attack + svc.firstWeaponAttack(def.WeaponIDs),
		Defense: def.Defense + svc.totalArmourDefense(def),
		Speed:   def.Speed,
	}
	scaled := stats.ScaleEnemyStats(base, battleLevel, svc.cfg.Scaling)
	scaled.HP = scaled.MaxHP
	scaled.MP = scaled.MaxMP

	return &Combatant{
		InstanceID:  MakeInstanceID("enemy", gs.RNG),
		DisplayName: def.Name,
		Side:        SideEnemies,
		Stats:       scaled,
		BaseStats:   base,
		Tags:        append([]string(nil), def.Tags...),
		// No attributes, so the scaled attack is the whole action attack.
		WeaponAttack: scaled.Attack,
		SourceID:     def.ID,
	}, nil
}

func (svc *Service) firstWeaponAttack(weaponIDs []string) int {
	for _, id := range weaponIDs {
		weapon, err := svc.catalog.Weapons.Get(id)
		if err != nil {
			continue
		}
		return max(0, weapon.Attack)
	}
	return 0
}

func (svc *Service) totalArmourDefense(def content.EnemyDef) int {
	total := 0
	if def.ArmourID != "" {
		if armour, err := svc.catalog.Armour.Get(def.ArmourID); err == nil {
			total += armour.Defense
		}
	}
	for _, id := range def.ArmourSlots {
		if armour, err := svc.catalog.Armour.Get(id); err == nil {
			total += armour.Defense
		}
	}
	return total
}

// playerToCombatant folds equipped weapon attack and armour defense into
// the player's base stats, reapplies attribute scaling, and writes the
// result back to the persistent player entity.
func (svc *Service) playerToCombatant(gs *gamestate.State) *Combatant {
	player := gs.Player
	equipment := gs.Equipment[player.ID]
	weaponIDs := equipment.WeaponIDs
	armourIDs := armourIDsFromSlots(equipment.ArmourSlots)

	base := stats.BaseStats{
		MaxHP:   player.BaseStats.MaxHP,
		MaxMP:   player.BaseStats.MaxMP,
		Attack:  svc.calculateAttack(weaponIDs, player.BaseStats.Attack),
		Defense: svc.calculateDefense(armourIDs, player.BaseStats.Defense),
		Speed:   player.BaseStats.Speed,
	}
	player.BaseStats = base
	player.Stats = stats.ApplyAttributeScaling(base, player.Attributes, player.Stats.HP, player.Stats.MP)

	return &Combatant{
		InstanceID:   player.ID,
		DisplayName:  player.Name,
		Side:         SideAllies,
		Stats:        player.Stats,
		Attributes:   player.Attributes,
		WeaponTags:   svc.weaponTagsForIDs(weaponIDs),
		WeaponAttack: base.Attack,
	}
}

// partyMemberToCombatant builds a party member combatant from its
// definition and any equipment or attribute overrides in game state.
// Party members enter battle at full pools.
func (svc *Service) partyMemberToCombatant(memberID string, gs *gamestate.State) (*Combatant, error) {
	def, err := svc.catalog.PartyMembers.Get(memberID)
	if err != nil {
		return nil, &FactoryError{Msg: fmt.Sprintf("party member %q not found", memberID), Err: err}
	}
	equipment := gs.Equipment[memberID]
	weaponIDs := equipment.WeaponIDs
	armourIDs := armourIDsFromSlots(equipment.ArmourSlots)
	if len(weaponIDs) == 0 {
		weaponIDs = def.WeaponIDs
		if len(weaponIDs) > 2 {
			weaponIDs = weaponIDs[:2]
		}
	}
	if len(armourIDs) == 0 {
		armourIDs = armourIDsFromSlots(def.ArmourSlots)
	}

	baseAttack := 1
	if len(def.WeaponIDs) > 0 {
		if weapon, err := svc.catalog.Weapons.Get(def.WeaponIDs[0]); err == nil {
			baseAttack = weapon.Attack
		}
	}
	base := stats.BaseStats{
		MaxHP:   def.BaseHP,
		MaxMP:   def.BaseMP,
		Attack:  svc.calculateAttack(weaponIDs, baseAttack),
		Defense: svc.calculateDefense(armourIDs, 0),
		Speed:   def.Speed,
	}
	attrs := gs.MemberAttributes(memberID, attributesFromDef(def.StartingAttributes))
	memberStats := stats.ApplyAttributeScaling(base, attrs, base.MaxHP, base.MaxMP)
	memberStats.HP = memberStats.MaxHP
	memberStats.MP = memberStats.MaxMP

	return &Combatant{
		InstanceID:   "party_" + memberID,
		DisplayName:  def.Name,
		Side:         SideAllies,
		Stats:        memberStats,
		Attributes:   attrs,
		Tags:         append([]string(nil), def.Tags...),
		WeaponTags:   svc.weaponTagsForIDs(weaponIDs),
		WeaponAttack: base.Attack,
		SourceID:     memberID,
	}, nil
}

func attributesFromDef(def content.AttributeSet) stats.Attributes {
	return stats.Attributes{STR: def.STR, DEX: def.DEX, INT: def.INT, VIT: def.VIT, BOND: def.BOND}
}

func armourIDsFromSlots(slots map[string]string) []string {
	if len(slots) == 0 {
		return nil
	}
	// Fixed slot order keeps defense totals independent of map iteration.
	order := []string{"head", "body", "hands", "legs", "feet"}
	var ids []string
	seen := make(map[string]bool)
	for _, slot := range order {
		if id := slots[slot]; id != "" {
			ids = append(ids, id)
			seen[slot] = true
		}
	}
	// Unknown slots follow in sorted order.
	var extra []string
	for slot := range slots {
		if !seen[slot] {
			extra = append(extra, slot)
		}
	}
	sort.Strings(extra)
	for _, slot := range extra {
		if id := slots[slot]; id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// calculateAttack resolves the first known equipped weapon's attack, or
// the fallback, floored at 1.
func (svc *Service) calculateAttack(weaponIDs []string, fallback int) int {
	for _, id := range weaponIDs {
		weapon, err := svc.catalog.Weapons.Get(id)
		if err != nil {
			continue
		}
		return max(1, weapon.Attack)
	}
	return max(1, fallback)
}

// calculateDefense sums equipped armour defense, falling back to the
// base when nothing is equipped.
func (svc *Service) calculateDefense(armourIDs []string, fallback int) int {
	total := 0
	for _, id := range armourIDs {
		armour, err := svc.catalog.Armour.Get(id)
		if err != nil {
			continue
		}
		total += armour.Defense
	}
	if total > 0 {
		return total
	}
	return max(0, fallback)
}

func (svc *Service) weaponTagsForIDs(weaponIDs []string) []string {
	seen := make(map[string]bool)
	for _, id := range weaponIDs {
		weapon, err := svc.catalog.Weapons.Get(id)
		if err != nil {
			continue
		}
		for _, tag := range weapon.Tags {
			seen[tag] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func enemyNames(enemies []*Combatant) []string {
	names := make([]string, len(enemies))
	for i, enemy := range enemies {
		names[i] = enemy.DisplayName
	}
	return names
}

// disambiguateNames appends " (n)" to duplicated enemy display names so
// event text stays unambiguous.
func disambiguateNames(enemies []*Combatant) {
	counts := make(map[string]int)
	for _, enemy := range enemies {
		counts[enemy.DisplayName]++
	}
	indexes := make(map[string]int)
	for _, enemy := range enemies {
		name := enemy.DisplayName
		if counts[name] <= 1 {
			continue
		}
		indexes[name]++
		enemy.DisplayName = fmt.Sprintf("%s (%d)", name, indexes[name])
	}
}

