package battle

import (
	"strings"
	"testing"

	"github.com/S-Hari-B/TBG-sub000/internal/game/knowledge"
)

func TestPartyTalkSharesKnowledgeAndReveals(t *testing.T) {
	svc := testService(t)
	gs := testGameState(t, 91)
	gs.PartyMembers = []string{"mira"}
	s, _ := startTestBattle(t, svc, gs, "wolf", 0)
	wolf := firstEnemy(t, s)

	events, err := svc.PartyTalk(s, gs, "party_mira")
	if err != nil {
		t.Fatalf("PartyTalk: %v", err)
	}
	if len(events) == 0 || events[0].Kind() != KindPartyTalk {
		t.Fatalf("events = %v, want party_talk first", eventKinds(events))
	}
	talk := events[0].(PartyTalk)
	if !strings.Contains(talk.Text, "Wolves lunge") {
		t.Errorf("text = %q, want the beast entry's behavior line", talk.Text)
	}
	if !strings.Contains(talk.Text, "HP") {
		t.Errorf("text = %q, want an hp estimate line", talk.Text)
	}

	if got := s.TemporaryReveals[wolf.InstanceID]; got != string(knowledge.StaticRange) {
		t.Errorf("temporary reveal = %q, want static range", got)
	}
	if _, ok := s.StaticRanges[wolf.InstanceID]; !ok {
		t.Error("party talk must freeze an hp range for the revealed enemy")
	}
	// The reveal upgrades the display without touching persistent kills.
	if got := gs.KillCount("wolf"); got != 0 {
		t.Errorf("kill count = %d, want untouched 0", got)
	}
}

func TestPartyTalkRangeBracketsMaxHP(t *testing.T) {
	svc := testService(t)
	gs := testGameState(t, 96)
	gs.PartyMembers = []string{"mira"}
	s, _ := startTestBattle(t, svc, gs, "wolf", 0)
	wolf := firstEnemy(t, s)

	// Wound the wolf before anyone talks; the frozen range must still
	// describe the full pool, not the remaining HP.
	wolf.Stats.HP = 5
	if _, err := svc.PartyTalk(s, gs, "party_mira"); err != nil {
		t.Fatalf("PartyTalk: %v", err)
	}

	hpRange, ok := s.StaticRanges[wolf.InstanceID]
	if !ok {
		t.Fatal("party talk must freeze a range")
	}
	if hpRange.High < wolf.Stats.MaxHP {
		t.Errorf("range %d-%d tops out below max hp %d", hpRange.Low, hpRange.High, wolf.Stats.MaxHP)
	}
	if hpRange.Low < wolf.Stats.MaxHP-3 || hpRange.Low >= wolf.Stats.MaxHP {
		t.Errorf("low = %d, want within [%d, %d]", hpRange.Low, wolf.Stats.MaxHP-3, wolf.Stats.MaxHP-1)
	}
}

func TestPartyTalkFallbackForUnknownEnemies(t *testing.T) {
	svc := testService(t)
	gs := testGameState(t, 92)
	gs.PartyMembers = []string{"mira"}
	s, _ := startTestBattle(t, svc, gs, "slime", 0)

	events, err := svc.PartyTalk(s, gs, "party_mira")
	if err != nil {
		t.Fatalf("PartyTalk: %v", err)
	}
	talk := events[0].(PartyTalk)
	if talk.Text != partyTalkFallback {
		t.Errorf("text = %q, want fallback", talk.Text)
	}
	if len(s.TemporaryReveals) != 0 {
		t.Error("no match must reveal nothing")
	}
}

func TestPartyTalkSpendsTheCurrentTurn(t *testing.T) {
	svc := testService(t)
	gs := testGameState(t, 93)
	gs.PartyMembers = []string{"mira"}
	s, _ := startTestBattle(t, svc, gs, "wolf", 0)

	actorBefore := s.CurrentActorID
	if _, err := svc.PartyTalk(s, gs, "party_mira"); err != nil {
		t.Fatalf("PartyTalk: %v", err)
	}
	if s.CurrentActorID == actorBefore {
		t.Error("party talk must advance the turn")
	}
}

func TestPreviewPartyTalkIsPure(t *testing.T) {
	svc := testService(t)
	gs := testGameState(t, 94)
	gs.PartyMembers = []string{"mira"}
	s, _ := startTestBattle(t, svc, gs, "wolf", 0)
	actorBefore := s.CurrentActorID

	before := gs.RNG.Export()
	text, err := svc.PreviewPartyTalk(s, "party_mira")
	if err != nil {
		t.Fatalf("PreviewPartyTalk: %v", err)
	}
	after := gs.RNG.Export()

	if !strings.Contains(text, "Wolves lunge") {
		t.Errorf("preview = %q, want the behavior line", text)
	}
	// No frozen range exists yet, so the preview carries no hp numbers.
	if strings.Contains(text, "HP") {
		t.Errorf("preview = %q, must omit hp estimates before any reveal", text)
	}
	for i := range before.Words {
		if before.Words[i] != after.Words[i] {
			t.Fatal("preview must not draw from the rng")
		}
	}
	if len(s.TemporaryReveals) != 0 || len(s.StaticRanges) != 0 {
		t.Error("preview must not mutate battle state")
	}
	if s.CurrentActorID != actorBefore {
		t.Error("preview must not advance the turn")
	}
}

func TestPreviewMatchesLiveTextForFrozenRanges(t *testing.T) {
	svc := testService(t)
	gs := testGameState(t, 95)
	gs.PartyMembers = []string{"mira"}
	s, _ := startTestBattle(t, svc, gs, "wolf", 0)

	live, err := svc.PartyTalk(s, gs, "party_mira")
	if err != nil {
		t.Fatalf("PartyTalk: %v", err)
	}
	preview, err := svc.PreviewPartyTalk(s, "party_mira")
	if err != nil {
		t.Fatalf("PreviewPartyTalk: %v", err)
	}
	if got := live[0].(PartyTalk).Text; got != preview {
		t.Errorf("preview %q diverges from live text %q with ranges frozen", preview, got)
	}
}
