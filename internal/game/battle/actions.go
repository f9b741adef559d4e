package battle

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/S-Hari-B/TBG-sub000/internal/game/content"
	"github.com/S-Hari-B/TBG-sub000/internal/game/debuff"
	"github.com/S-Hari-B/TBG-sub000/internal/game/gamestate"
)

// debuffItemExpiryOffset is how many rounds past the current one an item
// debuff lasts.
const debuffItemExpiryOffset = 2

// BasicAttack resolves a standard attack from attacker to target and
// advances the turn.
func (svc *Service) BasicAttack(s *State, attackerID, targetID string) ([]Event, error) {
	attacker, err := s.Combatant(attackerID)
	if err != nil {
		return nil, err
	}
	target, err := s.Combatant(targetID)
	if err != nil {
		return nil, err
	}

	damage := resolveDamage(s, attacker, target, attacker.BasicAttackValue(), 0, svc.cfg.DamageFloor, svc.cfg)
	events := []Event{AttackResolved{
		AttackerID:   attacker.InstanceID,
		AttackerName: attacker.DisplayName,
		TargetID:     target.InstanceID,
		TargetName:   target.DisplayName,
		Damage:       damage,
		TargetHP:     target.Stats.HP,
	}}
	if !target.Alive() {
		events = append(events, CombatantDefeated{CombatantID: target.InstanceID, CombatantName: target.DisplayName})
	}

	if defeat := svc.checkPlayerDefeat(s); defeat != nil {
		return append(events, defeat), nil
	}
	if resolved := svc.updateVictory(s); resolved != nil {
		return append(events, resolved), nil
	}
	return append(events, s.AdvanceTurn(attacker.InstanceID)...), nil
}

// AvailableSkills lists the skills whose required weapon tags are all
// carried by the combatant's equipped weapons.
func (svc *Service) AvailableSkills(s *State, combatantID string) ([]content.SkillDef, error) {
	combatant, err := s.Combatant(combatantID)
	if err != nil {
		return nil, err
	}
	if len(combatant.WeaponTags) == 0 {
		return nil, nil
	}
	var available []content.SkillDef
	for _, id := range svc.catalog.Skills.IDs() {
		skill, _ := svc.catalog.Skills.Get(id)
		if hasAllTags(combatant.WeaponTags, skill.RequiredWeaponTags) {
			available = append(available, skill)
		}
	}
	return available, nil
}

func hasAllTags(have, required []string) bool {
	set := make(map[string]bool, len(have))
	for _, tag := range have {
		set[tag] = true
	}
	for _, tag := range required {
		if !set[tag] {
			return false
		}
	}
	return true
}

// UseSkill validates targets and MP, deducts the cost, and resolves the
// skill's effect over the closed set of effect kinds. Validation failures
// reject the action before any mutation.
func (svc *Service) UseSkill(s *State, attackerID, skillID string, targetIDs []string) ([]Event, error) {
	attacker, err := s.Combatant(attackerID)
	if err != nil {
		return nil, err
	}
	skill, err := svc.catalog.Skills.Get(skillID)
	if err != nil {
		return nil, &FactoryError{Msg: fmt.Sprintf("skill %q not found", skillID), Err: err}
	}
	if attacker.Stats.MP < skill.MPCost {
		return []Event{SkillFailed{
			CombatantID:   attacker.InstanceID,
			CombatantName: attacker.DisplayName,
			Reason:        RejectionReason(ErrInsufficientMP),
		}}, ErrInsufficientMP
	}

	targets, err := svc.resolveSkillTargets(s, attacker, skill, targetIDs)
	if err != nil {
		return nil, err
	}

	attacker.Stats.MP -= skill.MPCost
	var events []Event

	switch skill.EffectType {
	case content.EffectDamage:
		attackValue := attacker.SkillAttackValue(skill.Tags)
		for _, target := range targets {
			damage := resolveDamage(s, attacker, target, attackValue, skill.BasePower, svc.cfg.DamageFloor, svc.cfg)
			events = append(events, SkillUsed{
				AttackerID:   attacker.InstanceID,
				AttackerName: attacker.DisplayName,
				SkillID:      skill.ID,
				SkillName:    skill.Name,
				TargetID:     target.InstanceID,
				TargetName:   target.DisplayName,
				Damage:       damage,
				TargetHP:     target.Stats.HP,
			})
			if !target.Alive() {
				events = append(events, CombatantDefeated{CombatantID: target.InstanceID, CombatantName: target.DisplayName})
			}
			if defeat := svc.checkPlayerDefeat(s); defeat != nil {
				return append(events, defeat), nil
			}
		}
	case content.EffectGuard:
		attacker.GuardReduction = skill.BasePower
		events = append(events, GuardApplied{
			CombatantID:   attacker.InstanceID,
			CombatantName: attacker.DisplayName,
			Amount:        skill.BasePower,
		})
	default:
		// Unknown effect types are ignored, never dynamically dispatched.
		svc.logger.Warn("ignoring unknown skill effect type",
			zap.String("skill_id", skill.ID),
			zap.String("effect_type", skill.EffectType))
	}

	if resolved := svc.updateVictory(s); resolved != nil {
		return append(events, resolved), nil
	}
	return append(events, s.AdvanceTurn(attacker.InstanceID)...), nil
}

// resolveSkillTargets validates the requested targets against the
// skill's target mode before any state changes.
func (svc *Service) resolveSkillTargets(s *State, attacker *Combatant, skill content.SkillDef, targetIDs []string) ([]*Combatant, error) {
	switch skill.TargetMode {
	case content.TargetSelf:
		return []*Combatant{attacker}, nil
	case content.TargetSingleEnemy:
		if len(targetIDs) != 1 {
			return nil, ErrTargetCount
		}
	case content.TargetMultiEnemy:
		if len(targetIDs) == 0 || len(targetIDs) > skill.MaxTargets {
			return nil, ErrTargetCount
		}
	default:
		return nil, ErrTargetingNotSupported
	}

	var targets []*Combatant
	for _, id := range targetIDs {
		target, err := s.Combatant(id)
		if err != nil {
			return nil, err
		}
		if target.Side == attacker.Side {
			return nil, ErrInvalidTargetSide
		}
		if !target.Alive() {
			return nil, ErrTargetNotAlive
		}
		for _, existing := range targets {
			if existing == target {
				return nil, ErrDuplicateTarget
			}
		}
		targets = append(targets, target)
	}
	return targets, nil
}

// UseItem spends one unit of a consumable on a target. The item is
// consumed even when a debuff it carries fails to stack; validation
// failures reject the action before the inventory is touched.
func (svc *Service) UseItem(s *State, gs *gamestate.State, actorID, itemID, targetID string) ([]Event, error) {
	actor, err := s.Combatant(actorID)
	if err != nil {
		return nil, err
	}
	target, err := s.Combatant(targetID)
	if err != nil {
		return nil, err
	}
	if !target.Alive() {
		return nil, ErrTargetNotAlive
	}

	item, err := svc.catalog.Items.Get(itemID)
	if err != nil {
		return nil, &FactoryError{Msg: fmt.Sprintf("item %q not found", itemID), Err: err}
	}
	if item.Kind != content.ItemKindConsumable {
		return nil, ErrItemNotConsumable
	}

	switch item.Targeting {
	case content.ItemTargetSelf:
		if actor.InstanceID != target.InstanceID {
			return nil, ErrTargetNotAllowed
		}
	case content.ItemTargetAlly:
		if target.Side != actor.Side {
			return nil, ErrInvalidTargetSide
		}
	case content.ItemTargetEnemy:
		if !item.IsDebuff() {
			return nil, ErrTargetingNotSupported
		}
		if target.Side != SideEnemies {
			return nil, ErrInvalidTargetSide
		}
	default:
		return nil, ErrTargetingNotSupported
	}

	if !gs.Inventory.Remove(itemID, 1) {
		return nil, ErrItemNotAvailable
	}

	var events []Event
	if item.IsDebuff() {
		events = svc.applyDebuffItem(s, actor, target, item)
	} else {
		hpDelta, mpDelta := applyItemEffects(target, item)
		events = []Event{ItemUsed{
			UserID:     actor.InstanceID,
			UserName:   actor.DisplayName,
			TargetID:   target.InstanceID,
			TargetName: target.DisplayName,
			ItemID:     item.ID,
			ItemName:   item.Name,
			HPDelta:    hpDelta,
			MPDelta:    mpDelta,
		}}
	}

	return append(events, s.AdvanceTurn(actor.InstanceID)...), nil
}

// applyItemEffects applies healing and restoration, clamped to maxima,
// and returns the actual deltas.
func applyItemEffects(target *Combatant, item content.ItemDef) (hpDelta, mpDelta int) {
	if item.HealHP > 0 {
		before := target.Stats.HP
		target.Stats.HP = min(target.Stats.MaxHP, target.Stats.HP+item.HealHP)
		hpDelta = target.Stats.HP - before
	}
	if item.HealMP > 0 {
		before := target.Stats.MP
		target.Stats.MP = min(target.Stats.MaxMP, target.Stats.MP+item.HealMP)
		mpDelta = target.Stats.MP - before
	}
	return hpDelta, mpDelta
}

func (svc *Service) applyDebuffItem(s *State, actor, target *Combatant, item content.ItemDef) []Event {
	debuffType := debuff.DefenseDown
	amount := item.DebuffDefenseFlat
	if item.DebuffAttackFlat > 0 {
		debuffType = debuff.AttackDown
		amount = item.DebuffAttackFlat
	}
	expiresAt := s.RoundIndex + debuffItemExpiryOffset
	applied := target.Debuffs.ApplyNoStack(debuffType, amount, expiresAt)

	resultText := fmt.Sprintf("%s uses %s on %s: %s -%d (until end of next round).",
		actor.DisplayName, item.Name, target.DisplayName, debuffLabel(debuffType), amount)
	if !applied {
		resultText = fmt.Sprintf("%s uses %s on %s: had no effect.",
			actor.DisplayName, item.Name, target.DisplayName)
	}

	events := []Event{ItemUsed{
		UserID:     actor.InstanceID,
		UserName:   actor.DisplayName,
		TargetID:   target.InstanceID,
		TargetName: target.DisplayName,
		ItemID:     item.ID,
		ItemName:   item.Name,
		ResultText: resultText,
	}}
	if applied {
		events = append(events, DebuffApplied{
			TargetID:   target.InstanceID,
			TargetName: target.DisplayName,
			DebuffType: string(debuffType),
			Amount:     amount,
		})
	}
	return events
}

func debuffLabel(t debuff.Type) string {
	if t == debuff.AttackDown {
		return "ATK"
	}
	return "DEF"
}

// BattleItem is one consumable inventory entry usable in battle.
type BattleItem struct {
	ItemID    string
	ItemName  string
	Quantity  int
	Targeting string
}

// BattleItems lists the consumables currently available, sorted by id.
func (svc *Service) BattleItems(gs *gamestate.State) []BattleItem {
	var entries []BattleItem
	for _, itemID := range gs.Inventory.ItemIDs() {
		quantity := gs.Inventory.Count(itemID)
		if quantity <= 0 {
			continue
		}
		item, err := svc.catalog.Items.Get(itemID)
		if err != nil || item.Kind != content.ItemKindConsumable {
			continue
		}
		entries = append(entries, BattleItem{
			ItemID:    itemID,
			ItemName:  item.Name,
			Quantity:  quantity,
			Targeting: item.Targeting,
		})
	}
	return entries
}

// EstimateDamageForIDs projects damage between two combatants by id
// without mutating anything.
func (svc *Service) EstimateDamageForIDs(s *State, attackerID, targetID string, bonusPower int) (int, error) {
	attacker, err := s.Combatant(attackerID)
	if err != nil {
		return 0, err
	}
	target, err := s.Combatant(targetID)
	if err != nil {
		return 0, err
	}
	return EstimateDamage(attacker, target, bonusPower, svc.cfg.DamageFloor), nil
}

// EstimateSkillDamageForIDs projects a skill's per-target damage by id,
// using the same action-attack blend the resolution path uses.
func (svc *Service) EstimateSkillDamageForIDs(s *State, attackerID, targetID, skillID string) (int, error) {
	attacker, err := s.Combatant(attackerID)
	if err != nil {
		return 0, err
	}
	target, err := s.Combatant(targetID)
	if err != nil {
		return 0, err
	}
	skill, err := svc.catalog.Skills.Get(skillID)
	if err != nil {
		return 0, &FactoryError{Msg: fmt.Sprintf("skill %q not found", skillID), Err: err}
	}
	return EstimateSkillDamage(attacker, target, skill.Tags, skill.BasePower, svc.cfg.DamageFloor), nil
}

// checkPlayerDefeat ends the battle immediately when the player falls,
// regardless of surviving party members.
func (svc *Service) checkPlayerDefeat(s *State) Event {
	if s.PlayerID == "" || s.Over {
		return nil
	}
	for _, ally := range s.Allies {
		if ally.InstanceID != s.PlayerID {
			continue
		}
		if ally.Alive() {
			return nil
		}
		s.Over = true
		s.Victor = SideEnemies
		s.CurrentActorID = ""
		return BattleResolved{Victor: SideEnemies}
	}
	return nil
}

// updateVictory flips the battle to resolved when one side is empty.
func (svc *Service) updateVictory(s *State) Event {
	if s.Over {
		return nil
	}
	if len(s.LivingEnemies()) == 0 {
		s.Over = true
		s.Victor = SideAllies
		s.CurrentActorID = ""
		return BattleResolved{Victor: SideAllies}
	}
	if len(s.LivingAllies()) == 0 {
		s.Over = true
		s.Victor = SideEnemies
		s.CurrentActorID = ""
		return BattleResolved{Victor: SideEnemies}
	}
	return nil
}
