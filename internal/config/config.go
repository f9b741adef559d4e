// Package config provides Viper-based configuration loading for the combat
// engine and its tooling.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ContentConfig holds game-content loading settings.
type ContentConfig struct {
	// Dir is the root directory of the YAML content definitions.
	Dir string `mapstructure:"dir"`
}

// AggroConfig holds threat/aggro tuning values. These are game-balance
// knobs, not correctness contracts; tests pin only the defaults.
type AggroConfig struct {
	// BaseDivisor shrinks the (maxHP+DEF) base threat seed so damage
	// quickly dominates targeting.
	BaseDivisor int `mapstructure:"base_divisor"`
	// HitBonus is the flat threat added per hit so low-damage attacks
	// still build aggro.
	HitBonus int `mapstructure:"hit_bonus"`
	// AntiRepeatMultiplier scales down the effective threat of an enemy's
	// previous target.
	AntiRepeatMultiplier float64 `mapstructure:"anti_repeat_multiplier"`
	// AntiRepeatIgnoreGap is the top-vs-runner-up threat gap at which the
	// repeat penalty is skipped and the enemy keeps its target.
	AntiRepeatIgnoreGap int `mapstructure:"anti_repeat_ignore_gap"`
}

// ScalingConfig holds per-battle-level enemy stat growth.
type ScalingConfig struct {
	HPPerLevel      int `mapstructure:"hp_per_level"`
	AttackPerLevel  int `mapstructure:"attack_per_level"`
	DefensePerLevel int `mapstructure:"defense_per_level"`
	SpeedPerLevel   int `mapstructure:"speed_per_level"`
}

// RewardsConfig holds post-battle reward tuning.
type RewardsConfig struct {
	// XPBase and XPPerLevel define the experience needed for the next
	// level: XPBase + (level-1)*XPPerLevel.
	XPBase     int `mapstructure:"xp_base"`
	XPPerLevel int `mapstructure:"xp_per_level"`
}

// CombatConfig holds combat resolution tuning values.
type CombatConfig struct {
	// DamageFloor is the minimum damage a resolved attack deals before
	// guard absorption.
	DamageFloor int           `mapstructure:"damage_floor"`
	Aggro       AggroConfig   `mapstructure:"aggro"`
	Scaling     ScalingConfig `mapstructure:"scaling"`
	Rewards     RewardsConfig `mapstructure:"rewards"`
	// TalkRangeSpread bounds the party-talk HP range jitter: the hint low
	// end is maxHP-[1..spread], the high end maxHP+[0..spread].
	TalkRangeSpread int `mapstructure:"talk_range_spread"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Content ContentConfig `mapstructure:"content"`
	Combat  CombatConfig  `mapstructure:"combat"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateCombat(c.Combat); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateCombat(c CombatConfig) error {
	var errs []string
	if c.DamageFloor < 0 {
		errs = append(errs, fmt.Sprintf("combat.damage_floor must be >= 0, got %d", c.DamageFloor))
	}
	if c.Aggro.BaseDivisor < 1 {
		errs = append(errs, fmt.Sprintf("combat.aggro.base_divisor must be >= 1, got %d", c.Aggro.BaseDivisor))
	}
	if c.Aggro.HitBonus < 0 {
		errs = append(errs, fmt.Sprintf("combat.aggro.hit_bonus must be >= 0, got %d", c.Aggro.HitBonus))
	}
	if c.Aggro.AntiRepeatMultiplier < 0 || c.Aggro.AntiRepeatMultiplier > 1 {
		errs = append(errs, fmt.Sprintf("combat.aggro.anti_repeat_multiplier must be in [0, 1], got %g", c.Aggro.AntiRepeatMultiplier))
	}
	if c.Aggro.AntiRepeatIgnoreGap < 0 {
		errs = append(errs, fmt.Sprintf("combat.aggro.anti_repeat_ignore_gap must be >= 0, got %d", c.Aggro.AntiRepeatIgnoreGap))
	}
	if c.Scaling.HPPerLevel < 0 || c.Scaling.AttackPerLevel < 0 || c.Scaling.DefensePerLevel < 0 || c.Scaling.SpeedPerLevel < 0 {
		errs = append(errs, "combat.scaling values must not be negative")
	}
	if c.Rewards.XPBase < 1 {
		errs = append(errs, fmt.Sprintf("combat.rewards.xp_base must be >= 1, got %d", c.Rewards.XPBase))
	}
	if c.Rewards.XPPerLevel < 0 {
		errs = append(errs, fmt.Sprintf("combat.rewards.xp_per_level must be >= 0, got %d", c.Rewards.XPPerLevel))
	}
	if c.TalkRangeSpread < 1 {
		errs = append(errs, fmt.Sprintf("combat.talk_range_spread must be >= 1, got %d", c.TalkRangeSpread))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with TBG_ prefix
	v.SetEnvPrefix("TBG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Default returns the built-in configuration used when no config file is
// supplied. All combat tuning values carry their balance-tested defaults.
//
// Postcondition: Default().Validate() == nil.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Unmarshalling pure defaults cannot fail; every key is known.
	_ = v.Unmarshal(&cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("content.dir", "content")

	v.SetDefault("combat.damage_floor", 1)
	v.SetDefault("combat.aggro.base_divisor", 5)
	v.SetDefault("combat.aggro.hit_bonus", 2)
	v.SetDefault("combat.aggro.anti_repeat_multiplier", 0.8)
	v.SetDefault("combat.aggro.anti_repeat_ignore_gap", 10)
	v.SetDefault("combat.scaling.hp_per_level", 12)
	v.SetDefault("combat.scaling.attack_per_level", 2)
	v.SetDefault("combat.scaling.defense_per_level", 1)
	v.SetDefault("combat.scaling.speed_per_level", 1)
	v.SetDefault("combat.rewards.xp_base", 10)
	v.SetDefault("combat.rewards.xp_per_level", 5)
	v.SetDefault("combat.talk_range_spread", 3)
}
