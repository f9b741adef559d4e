// Package main provides the battle simulator: it runs one scripted
// battle from a seed against loaded content, prints the event log, and
// optionally replays the seed to verify determinism.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/S-Hari-B/TBG-sub000/internal/config"
	"github.com/S-Hari-B/TBG-sub000/internal/game/battle"
	"github.com/S-Hari-B/TBG-sub000/internal/game/content"
	"github.com/S-Hari-B/TBG-sub000/internal/game/gamestate"
	"github.com/S-Hari-B/TBG-sub000/internal/game/knowledge"
	"github.com/S-Hari-B/TBG-sub000/internal/game/stats"
	"github.com/S-Hari-B/TBG-sub000/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file (optional)")
	contentDir := flag.String("content", "", "path to content YAML directory (defaults to config value)")
	enemyID := flag.String("enemy", "", "enemy or group definition id to fight")
	battleLevel := flag.Int("level", 0, "battle level for enemy scaling")
	seed := flag.Int64("seed", 1, "rng seed for the run")
	party := flag.String("party", "", "comma-separated party member ids")
	verify := flag.Bool("verify", true, "replay the seed and compare event logs")
	flag.Parse()

	if *enemyID == "" {
		fmt.Fprintln(os.Stderr, "usage: battlesim -enemy <id> [-seed <n>] [-level <n>] [-party a,b] [-config <file>] [-content <dir>]")
		os.Exit(1)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}
	dir := cfg.Content.Dir
	if *contentDir != "" {
		dir = *contentDir
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	catalog, err := content.LoadDirectory(dir)
	if err != nil {
		logger.Fatal("loading content", zap.String("dir", dir), zap.Error(err))
	}
	rules, err := knowledge.RulesFromDef(catalog.KnowledgeRules)
	if err != nil {
		logger.Fatal("knowledge rules", zap.Error(err))
	}

	runID := uuid.NewString()
	var members []string
	if *party != "" {
		members = strings.Split(*party, ",")
	}

	logger.Info("simulation starting",
		zap.String("run_id", runID),
		zap.String("enemy", *enemyID),
		zap.Int64("seed", *seed),
		zap.Int("level", *battleLevel))

	events, err := runBattle(catalog, rules, cfg, logger, *seed, *enemyID, *battleLevel, members)
	if err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}
	for _, e := range events {
		fmt.Println(renderEvent(e))
	}

	if *verify {
		replay, err := runBattle(catalog, rules, cfg, logger, *seed, *enemyID, *battleLevel, members)
		if err != nil {
			logger.Fatal("replay failed", zap.Error(err))
		}
		if !reflect.DeepEqual(events, replay) {
			logger.Fatal("replay diverged from first run",
				zap.Int("events", len(events)),
				zap.Int("replay_events", len(replay)))
		}
		logger.Info("replay verified", zap.Int("events", len(events)))
	}

	logger.Info("simulation complete",
		zap.String("run_id", runID),
		zap.Duration("elapsed", time.Since(start).Round(time.Millisecond)))
}

// runBattle plays one battle to resolution: the player basic-attacks the
// first living enemy each turn, everyone else runs on AI.
func runBattle(catalog *content.Catalog, rules knowledge.Rules, cfg config.Config, logger *zap.Logger, seed int64, enemyID string, battleLevel int, party []string) ([]battle.Event, error) {
	gs := gamestate.New(seed)
	gs.Player = defaultPlayer()
	gs.PartyMembers = party

	svc := battle.NewService(catalog, knowledge.NewService(rules), cfg.Combat, logger)
	c, err := battle.NewController(svc, gs, enemyID, battleLevel)
	if err != nil {
		return nil, err
	}
	blog := observability.BattleLogger(logger, c.State().BattleID, seed)

	for turns := 0; !c.Over(); turns++ {
		if turns > 1000 {
			return nil, fmt.Errorf("battle exceeded 1000 turns without resolving")
		}
		if c.PlayerTurn() {
			living := c.State().LivingEnemies()
			if len(living) == 0 {
				break
			}
			if _, err := c.ApplyPlayerAction(battle.Action{Kind: battle.ActionAttack, TargetID: living[0].InstanceID}); err != nil {
				return nil, fmt.Errorf("player turn: %w", err)
			}
			continue
		}
		if _, err := c.RunAITurns(); err != nil {
			return nil, fmt.Errorf("ai turn: %w", err)
		}
	}

	if c.State().Victor == battle.SideAllies {
		if _, err := c.FinishVictory(); err != nil {
			return nil, fmt.Errorf("victory rewards: %w", err)
		}
		blog.Debug("rewards applied", zap.Int("gold", gs.Gold))
	}
	return c.Events(), nil
}

// defaultPlayer builds the simulator's stock protagonist.
func defaultPlayer() *gamestate.Player {
	base := stats.BaseStats{MaxHP: 25, MaxMP: 10, Attack: 5, Defense: 2, Speed: 6}
	attrs := stats.Attributes{STR: 2, DEX: 1, INT: 1, VIT: 2, BOND: 4}
	return &gamestate.Player{
		ID:         "player",
		Name:       "Wanderer",
		BaseStats:  base,
		Attributes: attrs,
		Stats:      stats.ApplyAttributeScaling(base, attrs, 999, 999),
	}
}
