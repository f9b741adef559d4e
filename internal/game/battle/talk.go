package battle

import (
	"fmt"
	"strings"

	"github.com/S-Hari-B/TBG-sub000/internal/game/content"
	"github.com/S-Hari-B/TBG-sub000/internal/game/gamestate"
	"github.com/S-Hari-B/TBG-sub000/internal/game/knowledge"
)

const partyTalkFallback = "I'm not sure about these foes."

// PartyTalk has a party member share what they know about the living
// enemies. Matching enemies gain a battle-scoped static-range reveal,
// then the turn advances.
func (svc *Service) PartyTalk(s *State, gs *gamestate.State, speakerID string) ([]Event, error) {
	speaker, err := s.Combatant(speakerID)
	if err != nil {
		return nil, err
	}
	if !speaker.Alive() {
		return nil, ErrTargetNotAlive
	}

	text := svc.buildPartyTalkText(s, gs, speaker, true)
	events := []Event{PartyTalk{
		SpeakerID:   speaker.InstanceID,
		SpeakerName: speaker.DisplayName,
		Text:        text,
	}}
	// Talking spends the commanding actor's turn, not the speaker's.
	actorID := s.CurrentActorID
	if actorID == "" {
		actorID = speaker.InstanceID
	}
	return append(events, s.AdvanceTurn(actorID)...), nil
}

// PreviewPartyTalk returns the text PartyTalk would produce without
// consuming randomness, revealing anything, or advancing the turn.
// Enemies without an already-frozen range get no HP estimate in the
// preview.
func (svc *Service) PreviewPartyTalk(s *State, speakerID string) (string, error) {
	speaker, err := s.Combatant(speakerID)
	if err != nil {
		return "", err
	}
	return svc.buildPartyTalkText(s, nil, speaker, false), nil
}

type enemyTalkGroup struct {
	def       content.EnemyDef
	instances []*Combatant
}

// buildPartyTalkText assembles the speaker's knowledge lines for the
// living enemies. When live is true, HP estimates are rolled and frozen
// and the affected instances gain a temporary static-range reveal.
func (svc *Service) buildPartyTalkText(s *State, gs *gamestate.State, speaker *Combatant, live bool) string {
	entries := svc.entriesForMember(speaker.SourceID)
	groups := groupLivingEnemies(svc, s)

	var lines []string
	for _, group := range groups {
		entry, ok := matchTalkEntry(entries, group.def)
		if !ok {
			continue
		}
		line := group.def.Name + ": " + entry.Behavior
		if entry.SpeedHint != "" {
			line += " " + entry.SpeedHint
		}
		lines = append(lines, line)

		for _, inst := range group.instances {
			hpRange, ok := s.StaticRanges[inst.InstanceID]
			if !ok {
				if !live {
					continue
				}
				hpRange = svc.estimateHPRange(inst.Stats.MaxHP, gs.RNG)
				s.StaticRanges[inst.InstanceID] = hpRange
			}
			if live {
				s.TemporaryReveals[inst.InstanceID] = string(knowledge.StaticRange)
			}
			lines = append(lines, fmt.Sprintf("%s looks to have %d-%d HP.", inst.DisplayName, hpRange.Low, hpRange.High))
		}
	}

	if len(lines) == 0 {
		return partyTalkFallback
	}
	return strings.Join(lines, "\n")
}

func (svc *Service) entriesForMember(memberID string) []content.KnowledgeEntryDef {
	if memberID == "" {
		return nil
	}
	var entries []content.KnowledgeEntryDef
	for _, entry := range svc.catalog.KnowledgeEntries {
		if entry.MemberID == memberID {
			entries = append(entries, entry)
		}
	}
	return entries
}

// matchTalkEntry prefers an explicit knowledge-key match, then falls
// back to tag overlap.
func matchTalkEntry(entries []content.KnowledgeEntryDef, def content.EnemyDef) (content.KnowledgeEntryDef, bool) {
	key := knowledge.ResolveEnemyKey(def)
	for _, entry := range entries {
		if entry.KnowledgeKey != "" && entry.KnowledgeKey == key {
			return entry, true
		}
	}
	return knowledge.MatchEntry(entries, def.Tags)
}

// groupLivingEnemies buckets living enemies by source definition in
// roster first-seen order.
func groupLivingEnemies(svc *Service, s *State) []enemyTalkGroup {
	var groups []enemyTalkGroup
	index := make(map[string]int)
	for _, enemy := range s.LivingEnemies() {
		def, err := svc.catalog.Enemies.Get(enemy.SourceID)
		if err != nil {
			continue
		}
		i, ok := index[enemy.SourceID]
		if !ok {
			i = len(groups)
			index[enemy.SourceID] = i
			groups = append(groups, enemyTalkGroup{def: def})
		}
		groups[i].instances = append(groups[i].instances, enemy)
	}
	return groups
}
