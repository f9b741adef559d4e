package battle

import (
	"testing"

	"github.com/S-Hari-B/TBG-sub000/internal/config"
	"github.com/S-Hari-B/TBG-sub000/internal/game/content"
	"github.com/S-Hari-B/TBG-sub000/internal/game/gamestate"
	"github.com/S-Hari-B/TBG-sub000/internal/game/knowledge"
	"github.com/S-Hari-B/TBG-sub000/internal/game/stats"
)

// testCatalog builds the fixture content shared across battle tests.
func testCatalog(t *testing.T) *content.Catalog {
	t.Helper()
	c := content.NewCatalog()
	reg := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("register fixture: %v", err)
		}
	}

	reg(c.Weapons.Register("iron_sword", content.WeaponDef{
		ID: "iron_sword", Name: "Iron Sword", Attack: 4, Tags: []string{"blade"},
	}))
	reg(c.Weapons.Register("oak_staff", content.WeaponDef{
		ID: "oak_staff", Name: "Oak Staff", Attack: 2, Tags: []string{"staff", "magic"},
	}))
	reg(c.Weapons.Register("hunting_knife", content.WeaponDef{
		ID: "hunting_knife", Name: "Hunting Knife", Attack: 3, Tags: []string{"blade", "finesse"},
	}))
	reg(c.Weapons.Register("ember_wand", content.WeaponDef{
		ID: "ember_wand", Name: "Ember Wand", Attack: 2, Tags: []string{"wand"},
	}))
	reg(c.Armour.Register("leather_vest", content.ArmourDef{
		ID: "leather_vest", Name: "Leather Vest", Defense: 1, Slot: "body",
	}))

	reg(c.Enemies.Register("wolf", content.EnemyDef{
		ID: "wolf", Name: "Wolf", HP: 20, Attack: 4, Defense: 1, Speed: 5,
		RewardsExp: 6, RewardsGold: 4, Tags: []string{"beast"},
	}))
	reg(c.Enemies.Register("wolf_pack", content.EnemyDef{
		ID: "wolf_pack", Name: "Wolf Pack", EnemyIDs: []string{"wolf", "wolf"},
	}))
	reg(c.Enemies.Register("slime", content.EnemyDef{
		ID: "slime", Name: "Slime", HP: 10, Attack: 2, Defense: 2, Speed: 2,
		RewardsExp: 3, RewardsGold: 2, Tags: []string{"ooze"},
		KnowledgeKey: "slime_kin",
	}))

	reg(c.Skills.Register("cleave", content.SkillDef{
		ID: "cleave", Name: "Cleave", Tags: []string{"physical"},
		RequiredWeaponTags: []string{"blade"},
		TargetMode:         content.TargetSingleEnemy, MPCost: 2, BasePower: 3,
		EffectType:         content.EffectDamage,
	}))
	reg(c.Skills.Register("guard_stance", content.SkillDef{
		ID: "guard_stance", Name: "Guard Stance", RequiredWeaponTags: []string{"blade"},
		TargetMode: content.TargetSelf, MPCost: 1, BasePower: 3,
		EffectType: content.EffectGuard,
	}))
	reg(c.Skills.Register("whirlwind", content.SkillDef{
		ID: "whirlwind", Name: "Whirlwind", Tags: []string{"physical"},
		RequiredWeaponTags: []string{"blade"},
		TargetMode:         content.TargetMultiEnemy, MaxTargets: 2, MPCost: 4, BasePower: 1,
		EffectType:         content.EffectDamage,
	}))
	reg(c.Skills.Register("fire_bolt", content.SkillDef{
		ID: "fire_bolt", Name: "Fire Bolt", Tags: []string{"fire"},
		RequiredWeaponTags: []string{"wand"},
		TargetMode:         content.TargetSingleEnemy, MPCost: 2, BasePower: 2,
		EffectType:         content.EffectDamage,
	}))

	reg(c.Items.Register("tonic", content.ItemDef{
		ID: "tonic", Name: "Tonic", Kind: "consumable", HealHP: 5,
		Targeting: content.ItemTargetSelf,
	}))
	reg(c.Items.Register("salve", content.ItemDef{
		ID: "salve", Name: "Salve", Kind: "consumable", HealHP: 4,
		Targeting: content.ItemTargetAlly,
	}))
	reg(c.Items.Register("rust_bomb", content.ItemDef{
		ID: "rust_bomb", Name: "Rust Bomb", Kind: "consumable", DebuffDefenseFlat: 2,
		Targeting: content.ItemTargetEnemy,
	}))
	reg(c.Items.Register("old_relic", content.ItemDef{
		ID: "old_relic", Name: "Old Relic", Kind: "key_item",
		Targeting: content.ItemTargetSelf,
	}))

	reg(c.Summons.Register("sprite", content.SummonDef{
		ID: "sprite", Name: "Sprite", MaxHP: 6, Attack: 2, Speed: 9, BondCost: 2,
	}))
	reg(c.Summons.Register("golem", content.SummonDef{
		ID: "golem", Name: "Golem", MaxHP: 15, Attack: 4, Defense: 2, Speed: 3, BondCost: 5,
	}))
	reg(c.Summons.Register("imp", content.SummonDef{
		ID: "imp", Name: "Imp", MaxHP: 4, Attack: 1, Speed: 8, BondCost: 1,
	}))

	reg(c.PartyMembers.Register("mira", content.PartyMemberDef{
		ID: "mira", Name: "Mira", BaseHP: 14, BaseMP: 6, Speed: 4,
		WeaponIDs: []string{"oak_staff"},
		StartingAttributes: content.AttributeSet{DEX: 1, INT: 2, VIT: 1},
	}))

	reg(c.LootTables.Register("beast_drops", content.LootTableDef{
		ID: "beast_drops", RequiredTags: []string{"beast"},
		Drops: []content.LootDropDef{{ItemID: "tonic", Chance: 1.0, MinQty: 1, MaxQty: 1}},
	}))

	c.KnowledgeEntries = []content.KnowledgeEntryDef{{
		MemberID:  "mira",
		EnemyTags: []string{"beast"},
		SpeedHint: "They strike fast.",
		Behavior:  "Wolves lunge at whoever hurt them last.",
	}}

	if err := c.Validate(); err != nil {
		t.Fatalf("fixture catalog invalid: %v", err)
	}
	return c
}

func testService(t *testing.T) *Service {
	t.Helper()
	rules, err := knowledge.RulesFromDef(content.DefaultKnowledgeRules())
	if err != nil {
		t.Fatalf("knowledge rules: %v", err)
	}
	return NewService(testCatalog(t), knowledge.NewService(rules), config.Default().Combat, nil)
}

// testGameState builds a player with MaxHP 23, MaxMP 10, attack 6 and
// defense 2 after attribute scaling.
func testGameState(t *testing.T, seed int64) *gamestate.State {
	t.Helper()
	gs := gamestate.New(seed)
	base := stats.BaseStats{MaxHP: 20, MaxMP: 8, Attack: 5, Defense: 2, Speed: 6}
	attrs := stats.Attributes{STR: 1, INT: 1, VIT: 1, BOND: 4}
	gs.Player = &gamestate.Player{
		ID:         "player",
		Name:       "Rowan",
		BaseStats:  base,
		Attributes: attrs,
		Stats:      stats.ApplyAttributeScaling(base, attrs, 999, 999),
	}
	return gs
}

func startTestBattle(t *testing.T, svc *Service, gs *gamestate.State, enemyID string, level int) (*State, []Event) {
	t.Helper()
	s, events, err := svc.StartBattle(gs, enemyID, level)
	if err != nil {
		t.Fatalf("StartBattle(%q, %d): %v", enemyID, level, err)
	}
	return s, events
}

func findAlly(t *testing.T, s *State, instanceID string) *Combatant {
	t.Helper()
	for _, ally := range s.Allies {
		if ally.InstanceID == instanceID {
			return ally
		}
	}
	t.Fatalf("ally %q not in battle", instanceID)
	return nil
}

func firstEnemy(t *testing.T, s *State) *Combatant {
	t.Helper()
	if len(s.Enemies) == 0 {
		t.Fatal("battle has no enemies")
	}
	return s.Enemies[0]
}

func eventKinds(events []Event) []EventKind {
	kinds := make([]EventKind, len(events))
	for i, e := range events {
		kinds[i] = e.Kind()
	}
	return kinds
}

func hasEventKind(events []Event, kind EventKind) bool {
	for _, e := range events {
		if e.Kind() == kind {
			return true
		}
	}
	return false
}
