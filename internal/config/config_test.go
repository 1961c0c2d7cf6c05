package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/boss-rush/internal/core"
)

func TestEmbeddedDefaultParses(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("embedded roster does not parse: %v", err)
	}
	for _, id := range []string{"goblin", "ogre", "dragon"} {
		if _, ok := cfg.Bosses.Lookup(id); !ok {
			t.Errorf("embedded roster is missing %q", id)
		}
	}
	if cfg.Arena.MaxX != 300 || cfg.Arena.MinX != 0 {
		t.Errorf("arena bounds = [%d, %d], expected [0, 300]", cfg.Arena.MinX, cfg.Arena.MaxX)
	}
	if !cfg.Arena.WrapEnemies {
		t.Error("embedded roster should wrap enemies")
	}
}

func TestBossDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
bosses:
  goblin: {}
  ogre:
    start_pos: [10, 20]
    health: 0
    attack_damage: 99
`))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	goblin, _ := cfg.Bosses.Lookup("goblin")
	if goblin.Position() != DefaultBossPosition {
		t.Errorf("goblin position = %+v, expected default", goblin.Position())
	}
	if goblin.HP() != DefaultBossHealth {
		t.Errorf("goblin HP = %d, expected %d", goblin.HP(), DefaultBossHealth)
	}

	ogre, _ := cfg.Bosses.Lookup("ogre")
	if ogre.Position() != core.Pt(10, 20) {
		t.Errorf("ogre position = %+v", ogre.Position())
	}
	if ogre.HP() != 0 {
		t.Errorf("explicit zero health should be kept, got %d", ogre.HP())
	}
	if ogre.AttackDamage != 99 {
		t.Errorf("attack_damage should still be decoded, got %d", ogre.AttackDamage)
	}

	// Arena section omitted entirely -> default arena.
	if cfg.Arena != Default().Arena {
		t.Errorf("arena = %+v, expected defaults %+v", cfg.Arena, Default().Arena)
	}
}

func TestArenaPartialDefaults(t *testing.T) {
	cfg, err := Parse([]byte("arena:\n  max_x: 500\n"))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if cfg.Arena.MaxX != 500 {
		t.Errorf("MaxX = %d, expected 500", cfg.Arena.MaxX)
	}
	if cfg.Arena.TickRate != Default().Arena.TickRate {
		t.Errorf("TickRate = %d, expected default", cfg.Arena.TickRate)
	}
	if cfg.Arena.DT != core.DefaultDT {
		t.Errorf("DT = %v, expected %v", cfg.Arena.DT, core.DefaultDT)
	}
	if cfg.Bosses == nil {
		t.Error("Bosses should never be nil")
	}
}

func TestWrapEnemiesDefault(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want bool
	}{
		{"no arena block", "bosses: {}\n", true},
		{"other field set", "arena:\n  max_x: 500\n", true},
		{"explicitly off", "arena:\n  wrap_enemies: false\n", false},
		{"off with bounds", "arena:\n  max_x: 400\n  wrap_enemies: false\n", false},
		{"explicitly on", "arena:\n  wrap_enemies: true\n", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tc.yaml))
			if err != nil {
				t.Fatalf("Parse() failed: %v", err)
			}
			if cfg.Arena.WrapEnemies != tc.want {
				t.Errorf("WrapEnemies = %v, expected %v", cfg.Arena.WrapEnemies, tc.want)
			}
			if cfg.Arena.MaxX <= cfg.Arena.MinX {
				t.Errorf("bounds = [%d, %d]", cfg.Arena.MinX, cfg.Arena.MaxX)
			}
		})
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("bosses:\n  goblin:\n    health: 5\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	goblin, ok := cfg.Bosses.Lookup("goblin")
	if !ok || goblin.HP() != 5 {
		t.Errorf("goblin = %+v (found=%v), expected health 5", goblin, ok)
	}
	if _, ok := cfg.Bosses.Lookup("dragon"); ok {
		t.Error("custom roster should not inherit bosses from defaults")
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("bosses: [not, a, map"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected error for malformed custom config")
	}
}

func TestLoadServerConfig(t *testing.T) {
	t.Setenv("BOSSRUSH_HTTP_ADDR", ":9999")
	t.Setenv("BOSSRUSH_IDLE_TIMEOUT", "5m")
	t.Setenv("BOSSRUSH_WATCH", "true")

	cfg, err := LoadServerConfig()
	if err != nil {
		t.Fatalf("LoadServerConfig() failed: %v", err)
	}
	if cfg.HTTPAddr != ":9999" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.IdleTimeout != 5*time.Minute {
		t.Errorf("IdleTimeout = %v", cfg.IdleTimeout)
	}
	if !cfg.Watch {
		t.Error("Watch should be true")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel default = %q, expected info", cfg.LogLevel)
	}
}

func TestLoadServerConfigInvalid(t *testing.T) {
	t.Setenv("BOSSRUSH_IDLE_TIMEOUT", "forever")
	if _, err := LoadServerConfig(); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, RosterFile)
	if err := os.WriteFile(path, []byte("bosses:\n  goblin:\n    health: 10\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan Config, 4)
	w, err := Watch(path, log.New(os.Stderr), func(cfg Config) {
		reloaded <- cfg
	})
	if err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("bosses:\n  goblin:\n    health: 42\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		goblin, _ := cfg.Bosses.Lookup("goblin")
		if goblin.HP() != 42 {
			t.Errorf("reloaded goblin HP = %d, expected 42", goblin.HP())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the change")
	}
}
