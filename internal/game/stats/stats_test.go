package stats

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/S-Hari-B/TBG-sub000/internal/config"
)

func TestComputeContributions(t *testing.T) {
	attrs := Attributes{STR: 4, DEX: 3, INT: 5, VIT: 2, BOND: 7}
	contrib := ComputeContributions(attrs)
	if contrib.MaxHP != 6 {
		t.Errorf("MaxHP contribution = %d, want 6", contrib.MaxHP)
	}
	if contrib.MaxMP != 10 {
		t.Errorf("MaxMP contribution = %d, want 10", contrib.MaxMP)
	}
	if contrib.Attack != 4 {
		t.Errorf("Attack contribution = %d, want 4", contrib.Attack)
	}
	if contrib.Speed != 3 {
		t.Errorf("Speed contribution = %d, want 3", contrib.Speed)
	}
	if contrib.BondReserved != 7 {
		t.Errorf("BondReserved = %d, want 7", contrib.BondReserved)
	}
}

func TestApplyAttributeScalingClampsPools(t *testing.T) {
	base := BaseStats{MaxHP: 20, MaxMP: 10, Attack: 5, Defense: 3, Speed: 6}
	attrs := Attributes{STR: 2, DEX: 1, INT: 1, VIT: 1}
	// Current pools above the new maxima must clamp down.
	got := ApplyAttributeScaling(base, attrs, 99, 99)
	if got.MaxHP != 23 || got.HP != 23 {
		t.Errorf("HP = %d/%d, want 23/23", got.HP, got.MaxHP)
	}
	if got.MaxMP != 12 || got.MP != 12 {
		t.Errorf("MP = %d/%d, want 12/12", got.MP, got.MaxMP)
	}
	if got.Attack != 7 {
		t.Errorf("Attack = %d, want 7", got.Attack)
	}
	if got.Defense != 3 {
		t.Errorf("Defense = %d, want 3 (attributes never touch defense)", got.Defense)
	}
	if got.Speed != 7 {
		t.Errorf("Speed = %d, want 7", got.Speed)
	}
	// Pools below the maxima pass through.
	got = ApplyAttributeScaling(base, attrs, 5, 4)
	if got.HP != 5 || got.MP != 4 {
		t.Errorf("pools = %d/%d, want 5/4", got.HP, got.MP)
	}
}

func TestBuildScalingBreakdown(t *testing.T) {
	base := BaseStats{MaxHP: 20, MaxMP: 10, Attack: 5, Defense: 3, Speed: 6}
	attrs := Attributes{VIT: 2, INT: 3}
	bd := BuildScalingBreakdown(base, attrs, 40, 5)
	if !bd.HPClamped {
		t.Error("expected HPClamped with current HP above max")
	}
	if bd.MPClamped {
		t.Error("MP 5 below max should not clamp")
	}
	if bd.HPBeforeClamp != 40 || bd.MPBeforeClamp != 5 {
		t.Errorf("before-clamp pools = %d/%d, want 40/5", bd.HPBeforeClamp, bd.MPBeforeClamp)
	}
	if bd.FinalStats.MaxHP != 26 || bd.FinalStats.MaxMP != 16 {
		t.Errorf("final maxima = %d/%d, want 26/16", bd.FinalStats.MaxHP, bd.FinalStats.MaxMP)
	}
}

func defaultScaling() config.ScalingConfig {
	return config.ScalingConfig{HPPerLevel: 12, AttackPerLevel: 2, DefensePerLevel: 1, SpeedPerLevel: 1}
}

func TestScaleEnemyStats(t *testing.T) {
	base := Stats{MaxHP: 20, HP: 20, MaxMP: 5, MP: 5, Attack: 6, Defense: 2, Speed: 4}
	got := ScaleEnemyStats(base, 3, defaultScaling())
	if got.MaxHP != 56 || got.HP != 20 {
		t.Errorf("HP = %d/%d, want 20/56", got.HP, got.MaxHP)
	}
	if got.Attack != 12 || got.Defense != 5 || got.Speed != 7 {
		t.Errorf("atk/def/spd = %d/%d/%d, want 12/5/7", got.Attack, got.Defense, got.Speed)
	}
}

func TestScaleEnemyStatsNegativeLevelIsZero(t *testing.T) {
	base := Stats{MaxHP: 20, HP: 20, Attack: 6, Defense: 2, Speed: 4}
	got := ScaleEnemyStats(base, -4, defaultScaling())
	if got != base {
		t.Errorf("negative level should leave stats unchanged, got %+v", got)
	}
}

func TestScaleEnemyStatsProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := Stats{
			MaxHP:   rapid.IntRange(1, 500).Draw(t, "maxHP"),
			Attack:  rapid.IntRange(0, 100).Draw(t, "attack"),
			Defense: rapid.IntRange(0, 100).Draw(t, "defense"),
			Speed:   rapid.IntRange(0, 100).Draw(t, "speed"),
		}
		base.HP = rapid.IntRange(0, base.MaxHP).Draw(t, "hp")
		level := rapid.IntRange(0, 20).Draw(t, "level")
		got := ScaleEnemyStats(base, level, defaultScaling())
		if got.HP > got.MaxHP || got.MP > got.MaxMP {
			t.Fatalf("pools exceed maxima: %+v", got)
		}
		if got.MaxHP < base.MaxHP || got.Attack < base.Attack || got.Defense < base.Defense || got.Speed < base.Speed {
			t.Fatalf("scaling must be monotone non-decreasing: %+v vs %+v", got, base)
		}
	})
}

func TestScaleSummonStats(t *testing.T) {
	base := Stats{MaxHP: 14, HP: 3, MaxMP: 6, MP: 1, Attack: 5, Defense: 1, Speed: 9}
	scaling := BondScaling{HPPerBond: 1.5, AtkPerBond: 0.8, DefPerBond: 0.25, InitPerBond: 0.5}
	got := ScaleSummonStats(base, 10, scaling)
	if got.MaxHP != 29 || got.HP != 29 {
		t.Errorf("HP = %d/%d, want 29/29 (summons spawn at full HP)", got.HP, got.MaxHP)
	}
	if got.Attack != 13 {
		t.Errorf("Attack = %d, want 13 (5 + int(10*0.8))", got.Attack)
	}
	if got.Defense != 3 {
		t.Errorf("Defense = %d, want 3 (1 + int(10*0.25))", got.Defense)
	}
	if got.Speed != 14 {
		t.Errorf("Speed = %d, want 14", got.Speed)
	}
	if got.MP != 6 || got.MaxMP != 6 {
		t.Errorf("MP = %d/%d, want full 6/6", got.MP, got.MaxMP)
	}
}

func TestScaleSummonStatsNegativeBondTreatedAsZero(t *testing.T) {
	base := Stats{MaxHP: 10, HP: 10, Attack: 4, Defense: 2, Speed: 5}
	got := ScaleSummonStats(base, -3, BondScaling{HPPerBond: 2, AtkPerBond: 2})
	if got.MaxHP != 10 || got.Attack != 4 {
		t.Errorf("negative bond should contribute nothing, got %+v", got)
	}
}

func TestScaleSummonStatsFloors(t *testing.T) {
	base := Stats{MaxHP: 1, HP: 1}
	got := ScaleSummonStats(base, 0, BondScaling{})
	if got.MaxHP < 1 {
		t.Errorf("MaxHP = %d, want >= 1", got.MaxHP)
	}
	if got.Attack < 0 || got.Defense < 0 || got.Speed < 0 {
		t.Errorf("stats must not be negative: %+v", got)
	}
}
