// Package arena wraps the simulation engine for front-ends. It loads the
// knight from its profile, keeps the knight inside the arena bounds, records
// fight outcomes and serializes access from concurrent callers.
package arena

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/boss-rush/internal/bestiary"
	"github.com/vovakirdan/boss-rush/internal/combat"
	"github.com/vovakirdan/boss-rush/internal/config"
	"github.com/vovakirdan/boss-rush/internal/core"
	"github.com/vovakirdan/boss-rush/internal/engine"
	"github.com/vovakirdan/boss-rush/internal/profile"
	"github.com/vovakirdan/boss-rush/internal/storage"
)

// Errors returned by Arena, checked with errors.Is.
var (
	ErrNameRequired   = errors.New("name required")
	ErrPlayerMismatch = errors.New("active player mismatch")
)

// wrapMargin is how far past the left bound a boss may drift before it
// re-enters on the right.
const wrapMargin = 20

// defaultPlayer names the stand-in knight used before any fight starts.
const defaultPlayer = "Player"

// FightStore persists finished fights. *storage.Store satisfies it.
type FightStore interface {
	SaveFight(f storage.FightRecord) (string, error)
}

// BossInfo describes a boss available in the current roster.
type BossInfo struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Health   int    `json:"health"`
	Damage   int    `json:"damage"`
	Position [2]int `json:"position"`
}

// Arena is a single fight session shared by every caller that holds it.
type Arena struct {
	mu       sync.Mutex
	engine   *engine.Engine
	profiles *profile.Service
	fights   FightStore
	arena    config.ArenaConfig
	roster   config.Roster
	logger   *log.Logger

	bossID   string
	fightID  string
	outcome  string
	recorded bool
}

// New creates an arena. fights may be nil, in which case outcomes are not persisted.
func New(profiles *profile.Service, fights FightStore, cfg config.Config, logger *log.Logger) *Arena {
	if logger == nil {
		logger = log.Default()
	}
	return &Arena{
		engine:   engine.New(combat.NewKnight(defaultPlayer)),
		profiles: profiles,
		fights:   fights,
		arena:    cfg.Arena,
		roster:   cfg.Bosses,
		logger:   logger,
	}
}

// StartBoss loads the named knight and starts a fight against bossID.
// On error nothing about the current fight changes.
func (a *Arena) StartBoss(name, bossID string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("arena: %w", ErrNameRequired)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	rec, err := a.profiles.Read(name)
	if err != nil {
		return fmt.Errorf("arena: start %q: %w", bossID, err)
	}
	enemy, err := bestiary.CreateEnemy(bossID, a.roster)
	if err != nil {
		return fmt.Errorf("arena: start: %w", err)
	}

	a.engine.SetPlayer(rec.Knight())
	a.engine.StartBoss(enemy)
	a.bossID = bossID
	a.fightID = uuid.NewString()
	a.outcome = ""
	a.recorded = false

	a.logger.Info("fight started", "fight", a.fightID, "knight", name, "boss", bossID)
	return nil
}

// Act buffers action and advances one step.
func (a *Arena) Act(action string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.engine.EnqueueAction(action)
	a.step()
}

// Tick advances one step without new input.
func (a *Arena) Tick() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.step()
}

// State advances one passive step and returns the resulting snapshot, so
// bosses keep moving for clients that only poll.
func (a *Arena) State() engine.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.step()
	return a.engine.Snapshot()
}

// Peek returns the current snapshot without stepping.
func (a *Arena) Peek() engine.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.Snapshot()
}

// Events returns the engine's outbound event queue.
func (a *Arena) Events() *engine.EventQueue {
	return a.engine.Events()
}

// BossID returns the boss of the current fight, or "" before the first fight.
func (a *Arena) BossID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bossID
}

// FightID returns the id the current fight will be recorded under.
func (a *Arena) FightID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fightID
}

// Outcome returns storage.OutcomeVictory or storage.OutcomeDefeat once the
// current fight is decided, and "" before that.
func (a *Arena) Outcome() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.outcome
}

// Settings returns the arena bounds and clock.
func (a *Arena) Settings() config.ArenaConfig {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.arena
}

// SetRoster swaps the boss roster used by later StartBoss calls.
// The running fight is not affected.
func (a *Arena) SetRoster(roster config.Roster) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.roster = roster
	a.logger.Info("roster updated", "bosses", len(roster))
}

// Bosses lists the roster entries that have a species, sorted by id.
func (a *Arena) Bosses() []BossInfo {
	a.mu.Lock()
	roster := a.roster
	a.mu.Unlock()

	var out []BossInfo
	for _, s := range bestiary.List() {
		cfg, ok := roster.Lookup(s.ID)
		if !ok {
			continue
		}
		out = append(out, BossInfo{
			ID:       s.ID,
			Title:    s.Title,
			Health:   cfg.HP(),
			Damage:   s.Damage,
			Position: cfg.Position().Pair(),
		})
	}
	return out
}

// Save persists the active knight under name. The name must match the
// knight currently in the arena.
func (a *Arena) Save(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	player := a.engine.Player()
	if player.Name() != name {
		return fmt.Errorf("arena: save %q: %w", name, ErrPlayerMismatch)
	}

	var defeated []string
	if rec, err := a.profiles.Read(name); err == nil {
		defeated = rec.Progress.Defeated
	} else if !errors.Is(err, profile.ErrNotFound) {
		return fmt.Errorf("arena: save %q: %w", name, err)
	}

	if err := a.profiles.Save(profile.FromKnight(player, defeated)); err != nil {
		return fmt.Errorf("arena: save %q: %w", name, err)
	}
	a.logger.Debug("knight saved", "knight", name)
	return nil
}

// step runs one engine step followed by the arena rules. Caller holds mu.
func (a *Arena) step() {
	a.engine.Step(a.dt())
	a.clamp()
	a.recordOutcome()
}

func (a *Arena) dt() float64 {
	if a.arena.DT > 0 {
		return a.arena.DT
	}
	return core.DefaultDT
}

func (a *Arena) clamp() {
	k := a.engine.Player()
	p := k.Position()
	k.SetPosition(core.Pt(core.Clamp(p.X, a.arena.MinX, a.arena.MaxX), p.Y))

	if !a.arena.WrapEnemies {
		return
	}
	enemy, ok := a.engine.Enemy().(interface{ SetPosition(core.Point) })
	if !ok {
		return
	}
	if ep := a.engine.Enemy().Position(); ep.X < a.arena.MinX-wrapMargin {
		enemy.SetPosition(core.Pt(a.arena.MaxX, ep.Y))
	}
}

// recordOutcome stores the result the first time either side falls.
func (a *Arena) recordOutcome() {
	enemy := a.engine.Enemy()
	if enemy == nil || a.recorded {
		return
	}
	player := a.engine.Player()

	switch {
	case !enemy.IsAlive():
		a.outcome = storage.OutcomeVictory
	case !player.IsAlive():
		a.outcome = storage.OutcomeDefeat
	default:
		return
	}
	a.recorded = true

	a.logger.Info("fight over",
		"fight", a.fightID,
		"knight", player.Name(),
		"boss", a.bossID,
		"outcome", a.outcome,
		"frames", a.engine.Frame(),
	)

	if a.fights != nil {
		if _, err := a.fights.SaveFight(storage.FightRecord{
			ID:      a.fightID,
			Knight:  player.Name(),
			BossID:  a.bossID,
			Outcome: a.outcome,
			Frames:  a.engine.Frame(),
		}); err != nil {
			a.logger.Error("cannot record fight", "fight", a.fightID, "err", err)
		}
	}
	if a.outcome == storage.OutcomeVictory {
		if err := a.profiles.RecordDefeat(player.Name(), a.bossID); err != nil {
			a.logger.Error("cannot record defeat", "knight", player.Name(), "boss", a.bossID, "err", err)
		}
	}
}
