package arena

import (
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/boss-rush/internal/bestiary"
	"github.com/vovakirdan/boss-rush/internal/config"
	"github.com/vovakirdan/boss-rush/internal/profile"
	"github.com/vovakirdan/boss-rush/internal/storage"
)

type countingFights struct {
	mu    sync.Mutex
	saved []storage.FightRecord
	inner FightStore
}

func (c *countingFights) SaveFight(f storage.FightRecord) (string, error) {
	c.mu.Lock()
	c.saved = append(c.saved, f)
	c.mu.Unlock()
	return c.inner.SaveFight(f)
}

type fixture struct {
	arena    *Arena
	profiles *profile.Service
	store    *storage.Store
	fights   *countingFights
}

func newFixture(t *testing.T, cfg config.Config) fixture {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "arena.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	profiles := profile.NewService(store)
	fights := &countingFights{inner: store}
	logger := log.New(io.Discard)
	return fixture{
		arena:    New(profiles, fights, cfg, logger),
		profiles: profiles,
		store:    store,
		fights:   fights,
	}
}

func (f fixture) knight(t *testing.T, name string, patch profile.Patch) {
	t.Helper()
	if _, err := f.profiles.Create(name); err != nil {
		t.Fatalf("Create(%s) failed: %v", name, err)
	}
	if _, err := f.profiles.Update(name, patch); err != nil {
		t.Fatalf("Update(%s) failed: %v", name, err)
	}
}

func intPtr(v int) *int { return &v }

func rosterConfig(roster config.Roster, wrap bool) config.Config {
	cfg := config.Default()
	cfg.Bosses = roster
	cfg.Arena.WrapEnemies = wrap
	return cfg
}

func TestStartBossErrorsLeaveStateUntouched(t *testing.T) {
	f := newFixture(t, config.Default())
	f.knight(t, "Arthur", profile.Patch{})

	tests := []struct {
		name   string
		knight string
		boss   string
		want   error
	}{
		{"empty name", "  ", "goblin", ErrNameRequired},
		{"missing profile", "Nobody", "goblin", profile.ErrNotFound},
		{"unknown boss", "Arthur", "lich", bestiary.ErrUnknownBoss},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := f.arena.StartBoss(tc.knight, tc.boss)
			if !errors.Is(err, tc.want) {
				t.Fatalf("StartBoss() error = %v, expected %v", err, tc.want)
			}
			snap := f.arena.Peek()
			if snap.Enemy != nil || snap.Frame != 0 || snap.Player.Name != defaultPlayer {
				t.Errorf("state changed after failed start: %+v", snap)
			}
			if f.arena.BossID() != "" {
				t.Errorf("BossID() = %q", f.arena.BossID())
			}
		})
	}
}

func TestStartBossLoadsProfile(t *testing.T) {
	f := newFixture(t, config.Default())
	f.knight(t, "Gawain", profile.Patch{Health: intPtr(77), Gold: intPtr(9)})

	if err := f.arena.StartBoss("Gawain", "ogre"); err != nil {
		t.Fatalf("StartBoss() failed: %v", err)
	}
	snap := f.arena.Peek()
	if snap.Player.Name != "Gawain" || snap.Player.Health != 77 || snap.Player.Gold != 9 {
		t.Errorf("player = %+v", snap.Player)
	}
	if snap.Enemy == nil || snap.Enemy.Name != "Ogre" || snap.Enemy.Health != 140 {
		t.Errorf("enemy = %+v", snap.Enemy)
	}
	if f.arena.FightID() == "" {
		t.Error("FightID() is empty")
	}
}

func TestStateStepsAndPeekDoesNot(t *testing.T) {
	f := newFixture(t, config.Default())
	f.knight(t, "Arthur", profile.Patch{})
	if err := f.arena.StartBoss("Arthur", "dragon"); err != nil {
		t.Fatalf("StartBoss() failed: %v", err)
	}

	for i := 1; i <= 3; i++ {
		if snap := f.arena.State(); snap.Frame != i {
			t.Fatalf("State().Frame = %d, expected %d", snap.Frame, i)
		}
	}
	if snap := f.arena.Peek(); snap.Frame != 3 {
		t.Errorf("Peek().Frame = %d, expected 3", snap.Frame)
	}
}

func TestClampKeepsKnightInBounds(t *testing.T) {
	f := newFixture(t, config.Default())
	f.knight(t, "Arthur", profile.Patch{Position: &[2]int{15, 50}})
	if err := f.arena.StartBoss("Arthur", "dragon"); err != nil {
		t.Fatalf("StartBoss() failed: %v", err)
	}

	f.arena.Act("move_left")
	f.arena.Act("move_left")
	if x := f.arena.Peek().Player.Position[0]; x != 0 {
		t.Errorf("x after moving left = %d, expected 0", x)
	}
}

func TestClampRightEdge(t *testing.T) {
	f := newFixture(t, config.Default())
	f.knight(t, "Arthur", profile.Patch{Position: &[2]int{295, 50}})
	if err := f.arena.StartBoss("Arthur", "ogre"); err != nil {
		t.Fatalf("StartBoss() failed: %v", err)
	}

	f.arena.Act("move_right")
	if x := f.arena.Peek().Player.Position[0]; x != 300 {
		t.Errorf("x after moving right = %d, expected 300", x)
	}
}

func TestWrapEnemies(t *testing.T) {
	roster := config.Roster{"goblin": {StartPos: []int{220, 50}, Health: intPtr(60)}}

	tests := []struct {
		wrap  bool
		wantX int
	}{
		{true, 300},
		{false, -35},
	}

	for _, tc := range tests {
		f := newFixture(t, rosterConfig(roster, tc.wrap))
		f.knight(t, "Arthur", profile.Patch{})
		if err := f.arena.StartBoss("Arthur", "goblin"); err != nil {
			t.Fatalf("StartBoss() failed: %v", err)
		}
		for i := 0; i < 17; i++ {
			f.arena.Tick()
		}
		if x := f.arena.Peek().Enemy.Position[0]; x != tc.wantX {
			t.Errorf("wrap=%v: goblin x = %d, expected %d", tc.wrap, x, tc.wantX)
		}
	}
}

func TestVictoryRecordedOnce(t *testing.T) {
	roster := config.Roster{"goblin": {StartPos: []int{130, 50}, Health: intPtr(5)}}
	f := newFixture(t, rosterConfig(roster, false))
	f.knight(t, "Arthur", profile.Patch{Position: &[2]int{100, 50}})

	if err := f.arena.StartBoss("Arthur", "goblin"); err != nil {
		t.Fatalf("StartBoss() failed: %v", err)
	}
	f.arena.Act("attack")
	if got := f.arena.Outcome(); got != storage.OutcomeVictory {
		t.Fatalf("Outcome() = %q, expected victory", got)
	}
	for i := 0; i < 5; i++ {
		f.arena.Act("attack")
	}

	if len(f.fights.saved) != 1 {
		t.Fatalf("fights saved = %d, expected 1", len(f.fights.saved))
	}
	saved := f.fights.saved[0]
	if saved.ID != f.arena.FightID() || saved.BossID != "goblin" || saved.Frames != 1 {
		t.Errorf("saved fight = %+v", saved)
	}

	rec, err := f.profiles.Read("Arthur")
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if !rec.HasDefeated("goblin") {
		t.Errorf("defeated = %v, expected goblin", rec.Progress.Defeated)
	}

	history, err := f.store.KnightFights("Arthur", 10)
	if err != nil || len(history) != 1 {
		t.Errorf("KnightFights() = %v, %v", history, err)
	}
}

func TestDefeatRecorded(t *testing.T) {
	roster := config.Roster{"goblin": {StartPos: []int{60, 50}}}
	f := newFixture(t, rosterConfig(roster, false))
	f.knight(t, "Arthur", profile.Patch{Health: intPtr(1)})

	if err := f.arena.StartBoss("Arthur", "goblin"); err != nil {
		t.Fatalf("StartBoss() failed: %v", err)
	}
	f.arena.Tick()

	if got := f.arena.Outcome(); got != storage.OutcomeDefeat {
		t.Fatalf("Outcome() = %q, expected defeat", got)
	}
	rec, _ := f.profiles.Read("Arthur")
	if rec.HasDefeated("goblin") {
		t.Error("a lost fight must not mark the boss defeated")
	}

	// A new fight resets the outcome.
	if err := f.arena.StartBoss("Arthur", "goblin"); err != nil {
		t.Fatalf("StartBoss() failed: %v", err)
	}
	if got := f.arena.Outcome(); got != "" {
		t.Errorf("Outcome() after restart = %q", got)
	}
}

func TestSave(t *testing.T) {
	f := newFixture(t, config.Default())
	f.knight(t, "Arthur", profile.Patch{})

	if err := f.arena.Save("Arthur"); !errors.Is(err, ErrPlayerMismatch) {
		t.Errorf("Save() before start error = %v, expected ErrPlayerMismatch", err)
	}

	if err := f.arena.StartBoss("Arthur", "dragon"); err != nil {
		t.Fatalf("StartBoss() failed: %v", err)
	}
	if err := f.profiles.RecordDefeat("Arthur", "ogre"); err != nil {
		t.Fatalf("RecordDefeat() failed: %v", err)
	}
	f.arena.Act("move_right")
	if err := f.arena.Save("Arthur"); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	rec, _ := f.profiles.Read("Arthur")
	if rec.Position[0] != 60 {
		t.Errorf("saved x = %d, expected 60", rec.Position[0])
	}
	if !rec.HasDefeated("ogre") {
		t.Error("Save dropped the defeated list")
	}
}

func TestSetRosterAndBosses(t *testing.T) {
	f := newFixture(t, config.Default())
	f.knight(t, "Arthur", profile.Patch{})

	bosses := f.arena.Bosses()
	if len(bosses) != 3 || bosses[0].ID != "dragon" || bosses[2].ID != "ogre" {
		t.Fatalf("Bosses() = %+v", bosses)
	}
	if bosses[1].Damage != 6 || bosses[1].Health != 60 {
		t.Errorf("goblin info = %+v", bosses[1])
	}

	f.arena.SetRoster(config.Roster{"dragon": {Health: intPtr(500)}})
	if got := f.arena.Bosses(); len(got) != 1 || got[0].Health != 500 {
		t.Errorf("Bosses() after SetRoster = %+v", got)
	}
	if err := f.arena.StartBoss("Arthur", "goblin"); !errors.Is(err, bestiary.ErrUnknownBoss) {
		t.Errorf("StartBoss(goblin) error = %v, expected ErrUnknownBoss", err)
	}
}

func TestConcurrentCallers(t *testing.T) {
	f := newFixture(t, config.Default())
	f.knight(t, "Arthur", profile.Patch{})
	if err := f.arena.StartBoss("Arthur", "ogre"); err != nil {
		t.Fatalf("StartBoss() failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				if i%2 == 0 {
					f.arena.Act("jump")
				} else {
					f.arena.State()
				}
			}
		}(i)
	}
	wg.Wait()

	if frame := f.arena.Peek().Frame; frame != 200 {
		t.Errorf("Frame = %d, expected 200", frame)
	}
}
