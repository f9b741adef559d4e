package battle

import "github.com/S-Hari-B/TBG-sub000/internal/game/stats"

// EventKind discriminates the closed set of battle event variants.
type EventKind string

const (
	KindBattleStarted     EventKind = "battle_started"
	KindSummonSpawned     EventKind = "summon_spawned"
	KindEnemyTargeting    EventKind = "enemy_targeting"
	KindAttackResolved    EventKind = "attack_resolved"
	KindSkillUsed         EventKind = "skill_used"
	KindSkillFailed       EventKind = "skill_failed"
	KindGuardApplied      EventKind = "guard_applied"
	KindItemUsed          EventKind = "item_used"
	KindDebuffApplied     EventKind = "debuff_applied"
	KindDebuffExpired     EventKind = "debuff_expired"
	KindPartyTalk         EventKind = "party_talk"
	KindCombatantDefeated EventKind = "combatant_defeated"
	KindBattleResolved    EventKind = "battle_resolved"
	KindRewardsHeader     EventKind = "rewards_header"
	KindGoldReward        EventKind = "gold_reward"
	KindExpReward         EventKind = "exp_reward"
	KindLevelUp           EventKind = "level_up"
	KindLootAcquired      EventKind = "loot_acquired"
)

// Event is one immutable record in the ordered battle log. The set of
// variants is closed; presentation layers switch on Kind exhaustively.
type Event interface {
	Kind() EventKind
}

// BattleStarted announces a new battle and its scaling context.
type BattleStarted struct {
	BattleID    string
	EnemyNames  []string
	BattleLevel int
}

func (BattleStarted) Kind() EventKind { return KindBattleStarted }

// SummonSpawned records a summon entering the battle at start.
type SummonSpawned struct {
	OwnerID          string
	SummonID         string
	SummonInstanceID string
	SummonName       string
	BondCost         int
	OwnerBond        int
	BaseStats        stats.Stats
	ScaledStats      stats.Stats
}

func (SummonSpawned) Kind() EventKind { return KindSummonSpawned }

// EnemyTargeting is a debug record of an enemy's target selection.
type EnemyTargeting struct {
	AttackerID        string
	AttackerName      string
	TargetID          string
	TargetName        string
	TopThreat         int
	AntiRepeatApplied bool
}

func (EnemyTargeting) Kind() EventKind { return KindEnemyTargeting }

// AttackResolved records a basic attack and its damage.
type AttackResolved struct {
	AttackerID   string
	AttackerName string
	TargetID     string
	TargetName   string
	Damage       int
	TargetHP     int
}

func (AttackResolved) Kind() EventKind { return KindAttackResolved }

// SkillUsed records one skill hit on one target.
type SkillUsed struct {
	AttackerID   string
	AttackerName string
	SkillID      string
	SkillName    string
	TargetID     string
	TargetName   string
	Damage       int
	TargetHP     int
}

func (SkillUsed) Kind() EventKind { return KindSkillUsed }

// SkillFailed records a rejected skill attempt.
type SkillFailed struct {
	CombatantID   string
	CombatantName string
	Reason        string
}

func (SkillFailed) Kind() EventKind { return KindSkillFailed }

// GuardApplied records a guard skill setting a damage absorption buffer.
type GuardApplied struct {
	CombatantID   string
	CombatantName string
	Amount        int
}

func (GuardApplied) Kind() EventKind { return KindGuardApplied }

// ItemUsed records a consumable being spent.
type ItemUsed struct {
	UserID      string
	UserName    string
	TargetID    string
	TargetName  string
	ItemID      string
	ItemName    string
	HPDelta     int
	MPDelta     int
	EnergyDelta int
	ResultText  string
}

func (ItemUsed) Kind() EventKind { return KindItemUsed }

// DebuffApplied records a debuff landing on a target.
type DebuffApplied struct {
	TargetID   string
	TargetName string
	DebuffType string
	Amount     int
}

func (DebuffApplied) Kind() EventKind { return KindDebuffApplied }

// DebuffExpired records a debuff lapsing at a round boundary.
type DebuffExpired struct {
	TargetID   string
	TargetName string
	DebuffType string
}

func (DebuffExpired) Kind() EventKind { return KindDebuffExpired }

// PartyTalk records a party member sharing enemy knowledge.
type PartyTalk struct {
	SpeakerID   string
	SpeakerName string
	Text        string
}

func (PartyTalk) Kind() EventKind { return KindPartyTalk }

// CombatantDefeated records a combatant's HP reaching zero.
type CombatantDefeated struct {
	CombatantID   string
	CombatantName string
}

func (CombatantDefeated) Kind() EventKind { return KindCombatantDefeated }

// BattleResolved records the battle ending with a victor.
type BattleResolved struct {
	Victor Side
}

func (BattleResolved) Kind() EventKind { return KindBattleResolved }

// RewardsHeader opens the victory rewards block.
type RewardsHeader struct{}

func (RewardsHeader) Kind() EventKind { return KindRewardsHeader }

// GoldReward records gold granted at victory.
type GoldReward struct {
	Amount    int
	TotalGold int
}

func (GoldReward) Kind() EventKind { return KindGoldReward }

// ExpReward records one member's experience share.
type ExpReward struct {
	MemberID   string
	MemberName string
	Amount     int
	NewLevel   int
}

func (ExpReward) Kind() EventKind { return KindExpReward }

// LevelUp records one level gained by a member.
type LevelUp struct {
	MemberID   string
	MemberName string
	NewLevel   int
}

func (LevelUp) Kind() EventKind { return KindLevelUp }

// LootAcquired records a loot drop entering the inventory.
type LootAcquired struct {
	ItemID   string
	ItemName string
	Quantity int
}

func (LootAcquired) Kind() EventKind { return KindLootAcquired }
