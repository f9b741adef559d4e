// Package stats holds combat stat blocks and the deterministic scaling
// rules that derive them: attribute contributions, per-level enemy
// scaling, bond-based summon scaling, and action-attack computation.
package stats

import "github.com/S-Hari-B/TBG-sub000/internal/config"

// Attribute contribution coefficients.
const (
	VitHPPerPoint    = 3
	IntMPPerPoint    = 2
	StrAtkPerPoint   = 1
	DexSpeedPerPoint = 1
)

// FinesseDexCoefficient replaces STR scaling with scaled DEX when the
// acting weapon carries a finesse tag.
const FinesseDexCoefficient = 0.75

// Attributes are a character's invested attribute points. BOND is
// reserved for summon capacity and contributes to no combat stat.
type Attributes struct {
	STR  int `yaml:"str" json:"str"`
	DEX  int `yaml:"dex" json:"dex"`
	INT  int `yaml:"int" json:"int"`
	VIT  int `yaml:"vit" json:"vit"`
	BOND int `yaml:"bond" json:"bond"`
}

// BaseStats are unscaled stats before attribute contributions.
type BaseStats struct {
	MaxHP   int `yaml:"max_hp" json:"max_hp"`
	MaxMP   int `yaml:"max_mp" json:"max_mp"`
	Attack  int `yaml:"attack" json:"attack"`
	Defense int `yaml:"defense" json:"defense"`
	Speed   int `yaml:"speed" json:"speed"`
}

// Stats is a full combat stat block including current pools.
type Stats struct {
	MaxHP   int `yaml:"max_hp" json:"max_hp"`
	HP      int `yaml:"hp" json:"hp"`
	MaxMP   int `yaml:"max_mp" json:"max_mp"`
	MP      int `yaml:"mp" json:"mp"`
	Attack  int `yaml:"attack" json:"attack"`
	Defense int `yaml:"defense" json:"defense"`
	Speed   int `yaml:"speed" json:"speed"`
}

// Contributions are the per-attribute additions to derived stats.
type Contributions struct {
	MaxHP        int
	MaxMP        int
	Attack       int
	Speed        int
	BondReserved int
}

// ComputeContributions derives stat additions from attributes.
func ComputeContributions(attrs Attributes) Contributions {
	return Contributions{
		MaxHP:        attrs.VIT * VitHPPerPoint,
		MaxMP:        attrs.INT * IntMPPerPoint,
		Attack:       attrs.STR * StrAtkPerPoint,
		Speed:        attrs.DEX * DexSpeedPerPoint,
		BondReserved: attrs.BOND,
	}
}

// ApplyAttributeScaling derives a full stat block from base stats and
// attributes, clamping current pools to the new maxima.
//
// Postcondition: HP <= MaxHP and MP <= MaxMP; defense is taken from base
// stats unchanged.
func ApplyAttributeScaling(base BaseStats, attrs Attributes, currentHP, currentMP int) Stats {
	contrib := ComputeContributions(attrs)
	maxHP := base.MaxHP + contrib.MaxHP
	maxMP := base.MaxMP + contrib.MaxMP
	return Stats{
		MaxHP:   maxHP,
		HP:      min(currentHP, maxHP),
		MaxMP:   maxMP,
		MP:      min(currentMP, maxMP),
		Attack:  base.Attack + contrib.Attack,
		Defense: base.Defense,
		Speed:   base.Speed + contrib.Speed,
	}
}

// ScalingBreakdown explains how a final stat block was derived, for
// character-sheet style displays.
type ScalingBreakdown struct {
	BaseStats     Stats
	Attributes    Attributes
	Contributions Contributions
	FinalStats    Stats
	HPClamped     bool
	MPClamped     bool
	HPBeforeClamp int
	MPBeforeClamp int
}

// BuildScalingBreakdown computes ApplyAttributeScaling along with the
// intermediate values it used.
func BuildScalingBreakdown(base BaseStats, attrs Attributes, currentHP, currentMP int) ScalingBreakdown {
	final := ApplyAttributeScaling(base, attrs, currentHP, currentMP)
	return ScalingBreakdown{
		BaseStats: Stats{
			MaxHP:   base.MaxHP,
			HP:      base.MaxHP,
			MaxMP:   base.MaxMP,
			MP:      base.MaxMP,
			Attack:  base.Attack,
			Defense: base.Defense,
			Speed:   base.Speed,
		},
		Attributes:    attrs,
		Contributions: ComputeContributions(attrs),
		FinalStats:    final,
		HPClamped:     final.HP < currentHP,
		MPClamped:     final.MP < currentMP,
		HPBeforeClamp: currentHP,
		MPBeforeClamp: currentMP,
	}
}

// ScaleEnemyStats applies linear additive per-level scaling to an enemy
// stat block. Negative battle levels are treated as zero.
//
// Postcondition: current HP and MP never exceed their maxima.
func ScaleEnemyStats(base Stats, battleLevel int, cfg config.ScalingConfig) Stats {
	level := max(0, battleLevel)
	maxHP := base.MaxHP + cfg.HPPerLevel*level
	return Stats{
		MaxHP:   maxHP,
		HP:      min(base.HP, maxHP),
		MaxMP:   base.MaxMP,
		MP:      min(base.MP, base.MaxMP),
		Attack:  base.Attack + cfg.AttackPerLevel*level,
		Defense: base.Defense + cfg.DefensePerLevel*level,
		Speed:   base.Speed + cfg.SpeedPerLevel*level,
	}
}

// BondScaling defines per-bond-point stat bonuses for a summon.
type BondScaling struct {
	HPPerBond   float64
	AtkPerBond  float64
	DefPerBond  float64
	InitPerBond float64
}

// ScaleSummonStats derives a summon's stat block from its base stats and
// the owner's BOND attribute. Each stat is truncated toward zero exactly
// once so repeat computations are bit-identical.
//
// Postcondition: the summon spawns at full HP and MP; MaxHP >= 1.
func ScaleSummonStats(base Stats, ownerBond int, scaling BondScaling) Stats {
	bond := max(0, ownerBond)
	maxHP := int(float64(base.MaxHP) + float64(bond)*scaling.HPPerBond)
	attack := int(float64(base.Attack) + float64(bond)*scaling.AtkPerBond)
	defense := int(float64(base.Defense) + float64(bond)*scaling.DefPerBond)
	speed := int(float64(base.Speed) + float64(bond)*scaling.InitPerBond)
	maxHP = max(1, maxHP)
	attack = max(0, attack)
	defense = max(0, defense)
	speed = max(0, speed)
	return Stats{
		MaxHP:   maxHP,
		HP:      maxHP,
		MaxMP:   base.MaxMP,
		MP:      base.MaxMP,
		Attack:  attack,
		Defense: defense,
		Speed:   speed,
	}
}
