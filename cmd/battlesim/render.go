package main

import (
	"fmt"
	"strings"

	"github.com/S-Hari-B/TBG-sub000/internal/game/battle"
)

// renderEvent formats one battle event as a log line. The switch is
// exhaustive over the event variants; an unhandled kind is a bug.
func renderEvent(e battle.Event) string {
	switch ev := e.(type) {
	case battle.BattleStarted:
		return fmt.Sprintf("[battle %s] level %d vs %s", ev.BattleID, ev.BattleLevel, strings.Join(ev.EnemyNames, ", "))
	case battle.SummonSpawned:
		return fmt.Sprintf("  %s joins the fray (bond %d/%d)", ev.SummonName, ev.BondCost, ev.OwnerBond)
	case battle.EnemyTargeting:
		note := ""
		if ev.AntiRepeatApplied {
			note = " (repeat)"
		}
		return fmt.Sprintf("  %s eyes %s [threat %d]%s", ev.AttackerName, ev.TargetName, ev.TopThreat, note)
	case battle.AttackResolved:
		return fmt.Sprintf("  %s hits %s for %d (%d hp left)", ev.AttackerName, ev.TargetName, ev.Damage, ev.TargetHP)
	case battle.SkillUsed:
		return fmt.Sprintf("  %s uses %s on %s for %d (%d hp left)", ev.AttackerName, ev.SkillName, ev.TargetName, ev.Damage, ev.TargetHP)
	case battle.SkillFailed:
		return fmt.Sprintf("  %s cannot act: %s", ev.CombatantName, ev.Reason)
	case battle.GuardApplied:
		return fmt.Sprintf("  %s braces for %d", ev.CombatantName, ev.Amount)
	case battle.ItemUsed:
		if ev.ResultText != "" {
			return "  " + ev.ResultText
		}
		return fmt.Sprintf("  %s uses %s on %s (+%d hp, +%d mp)", ev.UserName, ev.ItemName, ev.TargetName, ev.HPDelta, ev.MPDelta)
	case battle.DebuffApplied:
		return fmt.Sprintf("  %s suffers %s -%d", ev.TargetName, ev.DebuffType, ev.Amount)
	case battle.DebuffExpired:
		return fmt.Sprintf("  %s shakes off %s", ev.TargetName, ev.DebuffType)
	case battle.PartyTalk:
		return fmt.Sprintf("  %s: %s", ev.SpeakerName, ev.Text)
	case battle.CombatantDefeated:
		return fmt.Sprintf("  %s falls", ev.CombatantName)
	case battle.BattleResolved:
		if ev.Victor == battle.SideAllies {
			return "victory!"
		}
		return "defeat..."
	case battle.RewardsHeader:
		return "-- rewards --"
	case battle.GoldReward:
		return fmt.Sprintf("  +%d gold (%d total)", ev.Amount, ev.TotalGold)
	case battle.ExpReward:
		return fmt.Sprintf("  %s gains %d exp (level %d)", ev.MemberName, ev.Amount, ev.NewLevel)
	case battle.LevelUp:
		return fmt.Sprintf("  %s reaches level %d!", ev.MemberName, ev.NewLevel)
	case battle.LootAcquired:
		return fmt.Sprintf("  found %dx %s", ev.Quantity, ev.ItemName)
	default:
		return fmt.Sprintf("  (unrendered event %s)", e.Kind())
	}
}
