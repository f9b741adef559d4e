package battle

import (
	"errors"
	"testing"
)

// winBattle drops every enemy and resolves the battle through a final
// player attack.
func winBattle(t *testing.T, svc *Service, s *State) {
	t.Helper()
	for _, enemy := range s.Enemies {
		enemy.Stats.HP = 1
	}
	for _, enemy := range s.Enemies {
		if !enemy.Alive() {
			continue
		}
		if _, err := svc.BasicAttack(s, s.PlayerID, enemy.InstanceID); err != nil {
			t.Fatalf("finishing attack: %v", err)
		}
	}
	if !s.Over || s.Victor != SideAllies {
		t.Fatalf("battle not won: over=%v victor=%v", s.Over, s.Victor)
	}
}

func TestVictoryRewardsGoldExpAndLoot(t *testing.T) {
	svc := testService(t)
	gs := testGameState(t, 71)
	s, _ := startTestBattle(t, svc, gs, "wolf", 0)
	winBattle(t, svc, s)

	events, err := svc.ApplyVictoryRewards(s, gs)
	if err != nil {
		t.Fatalf("ApplyVictoryRewards: %v", err)
	}
	if len(events) == 0 || events[0].Kind() != KindRewardsHeader {
		t.Fatalf("events = %v, want rewards_header first", eventKinds(events))
	}
	if gs.Gold != 4 {
		t.Errorf("gold = %d, want 4", gs.Gold)
	}
	if got := gs.MemberExpValue("player"); got != 6 {
		t.Errorf("player exp = %d, want 6", got)
	}
	if got := gs.KillCount("wolf"); got != 1 {
		t.Errorf("wolf kills = %d, want 1", got)
	}
	// beast_drops always drops one tonic.
	if got := gs.Inventory.Count("tonic"); got != 1 {
		t.Errorf("tonic = %d, want 1", got)
	}
	if gs.Player.Stats.MP != gs.Player.Stats.MaxMP {
		t.Error("victory must refill the player's mp")
	}
}

func TestVictoryRewardsIdempotent(t *testing.T) {
	svc := testService(t)
	gs := testGameState(t, 72)
	s, _ := startTestBattle(t, svc, gs, "wolf", 0)
	winBattle(t, svc, s)

	if _, err := svc.ApplyVictoryRewards(s, gs); err != nil {
		t.Fatalf("first ApplyVictoryRewards: %v", err)
	}
	goldAfter := gs.Gold
	killsAfter := gs.KillCount("wolf")

	events, err := svc.ApplyVictoryRewards(s, gs)
	if err != nil {
		t.Fatalf("second ApplyVictoryRewards: %v", err)
	}
	if events != nil {
		t.Errorf("second call events = %v, want none", eventKinds(events))
	}
	if gs.Gold != goldAfter || gs.KillCount("wolf") != killsAfter {
		t.Error("second call must not re-apply rewards")
	}
}

func TestVictoryRewardsRequireResolvedBattle(t *testing.T) {
	svc := testService(t)
	gs := testGameState(t, 73)
	s, _ := startTestBattle(t, svc, gs, "wolf", 0)

	_, err := svc.ApplyVictoryRewards(s, gs)
	if !errors.Is(err, ErrBattleOver) {
		t.Fatalf("err = %v, want ErrBattleOver", err)
	}
}

func TestExpSplitRemainderGoesToPlayer(t *testing.T) {
	svc := testService(t)
	gs := testGameState(t, 74)
	gs.PartyMembers = []string{"mira"}
	s, _ := startTestBattle(t, svc, gs, "slime", 0)
	winBattle(t, svc, s)

	if _, err := svc.ApplyVictoryRewards(s, gs); err != nil {
		t.Fatalf("ApplyVictoryRewards: %v", err)
	}
	// Slime grants 3 exp across two recipients: 1 each, remainder 1 to
	// the player.
	if got := gs.MemberExpValue("player"); got != 2 {
		t.Errorf("player exp = %d, want 2", got)
	}
	if got := gs.MemberExpValue("mira"); got != 1 {
		t.Errorf("mira exp = %d, want 1", got)
	}
}

func TestKillCounterUsesKnowledgeKey(t *testing.T) {
	svc := testService(t)
	gs := testGameState(t, 75)
	s, _ := startTestBattle(t, svc, gs, "slime", 0)
	winBattle(t, svc, s)

	if _, err := svc.ApplyVictoryRewards(s, gs); err != nil {
		t.Fatalf("ApplyVictoryRewards: %v", err)
	}
	if got := gs.KillCount("slime_kin"); got != 1 {
		t.Errorf("slime_kin kills = %d, want 1", got)
	}
	if got := gs.KillCount("slime"); got != 0 {
		t.Errorf("slime id counter = %d, want 0 when a key override exists", got)
	}
}

func TestLevelUpRestoresAndRecalculates(t *testing.T) {
	svc := testService(t)
	gs := testGameState(t, 76)
	gs.MemberExp["player"] = 8
	s, _ := startTestBattle(t, svc, gs, "wolf", 0)
	winBattle(t, svc, s)

	events, err := svc.ApplyVictoryRewards(s, gs)
	if err != nil {
		t.Fatalf("ApplyVictoryRewards: %v", err)
	}
	// 8 banked + 6 earned crosses the 10 xp threshold for level 2.
	if got := gs.MemberLevel("player"); got != 2 {
		t.Errorf("level = %d, want 2", got)
	}
	if got := gs.MemberExpValue("player"); got != 4 {
		t.Errorf("carryover exp = %d, want 4", got)
	}
	if !hasEventKind(events, KindLevelUp) {
		t.Errorf("events = %v, want level_up", eventKinds(events))
	}
	if gs.Player.Stats.HP != gs.Player.Stats.MaxHP || gs.Player.Stats.MP != gs.Player.Stats.MaxMP {
		t.Error("level up must fully restore the player")
	}
}

func TestVictoryClearsDefeatFlag(t *testing.T) {
	svc := testService(t)
	gs := testGameState(t, 77)
	gs.Flags[FlagLastBattleDefeat] = true
	s, _ := startTestBattle(t, svc, gs, "wolf", 0)
	winBattle(t, svc, s)

	if _, err := svc.ApplyVictoryRewards(s, gs); err != nil {
		t.Fatalf("ApplyVictoryRewards: %v", err)
	}
	if gs.Flags[FlagLastBattleDefeat] {
		t.Error("victory must clear the defeat flag")
	}
}

func TestPlayerDefeatEndsBattleImmediately(t *testing.T) {
	svc := testService(t)
	gs := testGameState(t, 78)
	gs.PartyMembers = []string{"mira"}

	c, err := NewController(svc, gs, "wolf", 0)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	s := c.State()
	findAlly(t, s, "player").Stats.HP = 1

	// Spend the player's turn, then let the wolf act.
	wolf := firstEnemy(t, s)
	if _, err := c.ApplyPlayerAction(Action{Kind: ActionAttack, TargetID: wolf.InstanceID}); err != nil {
		t.Fatalf("player action: %v", err)
	}
	if _, err := c.RunAITurns(); err != nil {
		t.Fatalf("ai turns: %v", err)
	}

	if !s.Over || s.Victor != SideEnemies {
		t.Fatalf("over=%v victor=%v, want enemy victory on player death", s.Over, s.Victor)
	}
	if !gs.Flags[FlagLastBattleDefeat] {
		t.Error("defeat must set the persistent defeat flag")
	}
}
