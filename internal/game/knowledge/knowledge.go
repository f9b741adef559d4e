// Package knowledge implements the disclosure engine: persistent kill
// counters advance an enemy key through tiers, and each tier maps to an
// HP visibility policy controlling what battle views may show.
package knowledge

import (
	"fmt"
	"sort"

	"github.com/S-Hari-B/TBG-sub000/internal/game/content"
)

// Tier is a knowledge progression tier. Higher tiers disclose more.
type Tier int

const (
	Tier0 Tier = 0
	Tier1 Tier = 1
	Tier2 Tier = 2
	Tier3 Tier = 3
)

// VisibilityMode describes how an enemy's HP may be displayed.
type VisibilityMode string

const (
	Hidden      VisibilityMode = "HIDDEN"
	StaticRange VisibilityMode = "STATIC_RANGE"
	Realtime    VisibilityMode = "REALTIME"
)

// ResolveEnemyKey returns the stable kill-counter key for an enemy
// definition: the explicit override when present, the id otherwise.
func ResolveEnemyKey(def content.EnemyDef) string {
	if def.KnowledgeKey != "" {
		return def.KnowledgeKey
	}
	return def.ID
}

// ListAllKeys returns the sorted distinct knowledge keys across every
// non-group enemy in the catalog.
func ListAllKeys(enemies *content.Registry[content.EnemyDef]) []string {
	seen := make(map[string]bool)
	for _, id := range enemies.IDs() {
		def, _ := enemies.Get(id)
		if def.IsGroup() {
			continue
		}
		seen[ResolveEnemyKey(def)] = true
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Rules holds kill thresholds and the tier-to-visibility policy.
type Rules struct {
	Tier1Kills         int
	Tier2Kills         int
	Tier3Kills         int
	HPVisibilityByTier map[Tier]VisibilityMode
}

// RulesFromDef converts a loaded rules definition into validated Rules.
// Tiers missing from the definition fall back to Hidden.
func RulesFromDef(def content.KnowledgeRulesDef) (Rules, error) {
	rules := Rules{
		Tier1Kills:         def.Tier1Kills,
		Tier2Kills:         def.Tier2Kills,
		Tier3Kills:         def.Tier3Kills,
		HPVisibilityByTier: make(map[Tier]VisibilityMode, 4),
	}
	for tier := Tier0; tier <= Tier3; tier++ {
		rules.HPVisibilityByTier[tier] = Hidden
	}
	for rawTier, rawMode := range def.HPVisibilityByTier {
		if rawTier < 0 || rawTier > 3 {
			return Rules{}, fmt.Errorf("knowledge tier %d out of range 0-3", rawTier)
		}
		mode := VisibilityMode(rawMode)
		switch mode {
		case Hidden, StaticRange, Realtime:
		default:
			return Rules{}, fmt.Errorf("unknown hp visibility mode %q for tier %d", rawMode, rawTier)
		}
		rules.HPVisibilityByTier[Tier(rawTier)] = mode
	}
	return rules, nil
}

// TierForKills maps a kill count to its tier.
func (r Rules) TierForKills(kills int) Tier {
	switch {
	case kills >= r.Tier3Kills:
		return Tier3
	case kills >= r.Tier2Kills:
		return Tier2
	case kills >= r.Tier1Kills:
		return Tier1
	default:
		return Tier0
	}
}

// ModeForTier returns the HP visibility policy for a tier.
func (r Rules) ModeForTier(tier Tier) VisibilityMode {
	if mode, ok := r.HPVisibilityByTier[tier]; ok {
		return mode
	}
	return Hidden
}

// KillCounts is the persistent per-key kill counter store.
type KillCounts interface {
	KillCount(key string) int
	AddKills(key string, n int)
}

// Service answers tier and visibility queries against a kill-counter
// store. All queries are pure reads; only RecordKills mutates.
type Service struct {
	rules Rules
}

// NewService creates a Service with the given rules.
func NewService(rules Rules) *Service {
	return &Service{rules: rules}
}

// Rules returns the service's disclosure rules.
func (s *Service) Rules() Rules { return s.rules }

// KillCount returns the normalized kill count for a key. Negative stored
// values read as zero.
func (s *Service) KillCount(counts KillCounts, key string) int {
	return max(0, counts.KillCount(key))
}

// TierForKey returns the tier the key's kill count has reached.
func (s *Service) TierForKey(counts KillCounts, key string) Tier {
	return s.rules.TierForKills(s.KillCount(counts, key))
}

// ModeForKey returns the HP visibility policy for the key's current tier.
func (s *Service) ModeForKey(counts KillCounts, key string) VisibilityMode {
	return s.rules.ModeForTier(s.TierForKey(counts, key))
}

// RecordKills adds the given per-key increments to the store. Keys with
// non-positive increments are skipped.
func (s *Service) RecordKills(counts KillCounts, killsByKey map[string]int) {
	keys := make([]string, 0, len(killsByKey))
	for key := range killsByKey {
		keys = append(keys, key)
	}
	// Deterministic application order.
	sort.Strings(keys)
	for _, key := range keys {
		if n := killsByKey[key]; n > 0 {
			counts.AddKills(key, n)
		}
	}
}

// MatchEntry returns the first knowledge entry whose enemy tags intersect
// the given tags, or false when none match.
func MatchEntry(entries []content.KnowledgeEntryDef, enemyTags []string) (content.KnowledgeEntryDef, bool) {
	tagSet := make(map[string]bool, len(enemyTags))
	for _, tag := range enemyTags {
		tagSet[tag] = true
	}
	for _, entry := range entries {
		for _, tag := range entry.EnemyTags {
			if tagSet[tag] {
				return entry, true
			}
		}
	}
	return content.KnowledgeEntryDef{}, false
}
