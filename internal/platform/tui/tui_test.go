package tui

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/boss-rush/internal/arena"
	"github.com/vovakirdan/boss-rush/internal/config"
	"github.com/vovakirdan/boss-rush/internal/core"
	"github.com/vovakirdan/boss-rush/internal/engine"
	"github.com/vovakirdan/boss-rush/internal/profile"
	"github.com/vovakirdan/boss-rush/internal/storage"
)

type fixture struct {
	arena    *arena.Arena
	profiles *profile.Service
	store    *storage.Store
}

func newFixture(t *testing.T, cfg config.Config) fixture {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "tui.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	profiles := profile.NewService(store)
	if _, err := profiles.Create("Arthur"); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	return fixture{
		arena:    arena.New(profiles, store, cfg, log.New(io.Discard)),
		profiles: profiles,
		store:    store,
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFightKeyMapAction(t *testing.T) {
	keys := DefaultFightKeyMap()

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		want   core.Action
		wantOK bool
	}{
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionMoveLeft, true},
		{"a", runes("a"), core.ActionMoveLeft, true},
		{"right arrow", tea.KeyMsg{Type: tea.KeyRight}, core.ActionMoveRight, true},
		{"d", runes("d"), core.ActionMoveRight, true},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionAttack, true},
		{"j", runes("j"), core.ActionAttack, true},
		{"up arrow", tea.KeyMsg{Type: tea.KeyUp}, core.ActionJump, true},
		{"l", runes("l"), core.ActionDash, true},
		{"quit is not an action", runes("q"), "", false},
		{"unbound", runes("z"), "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := keys.Action(tc.msg)
			if got != tc.want || ok != tc.wantOK {
				t.Errorf("Action(%q) = %q, %v, expected %q, %v", tc.msg.String(), got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestColumn(t *testing.T) {
	bounds := config.ArenaConfig{MinX: 0, MaxX: 300}

	tests := []struct {
		x    int
		want int
	}{
		{-21, -1},
		{-20, 1},
		{320, 62},
		{321, -1},
	}

	for _, tc := range tests {
		if got := column(tc.x, bounds, fieldWidth); got != tc.want {
			t.Errorf("column(%d) = %d, expected %d", tc.x, got, tc.want)
		}
	}

	if got := column(10, config.ArenaConfig{MinX: 5, MaxX: -50}, fieldWidth); got != -1 {
		t.Errorf("column() with inverted bounds = %d, expected -1", got)
	}
}

func TestRenderScreenKeepsRows(t *testing.T) {
	s := core.NewScreen(8, 3)
	s.DrawText(0, 1, "KNIGHT", core.ColorCyan)

	out := RenderScreen(s)
	if n := strings.Count(out, "\n"); n != 2 {
		t.Errorf("newlines = %d, expected 2", n)
	}
	if !strings.Contains(out, "KNIGHT") {
		t.Errorf("output missing text: %q", out)
	}
}

func TestDrawArenaPlacesCombatants(t *testing.T) {
	s := core.NewScreen(fieldWidth, fieldHeight)
	bounds := config.ArenaConfig{MinX: 0, MaxX: 300}
	snap := engine.Snapshot{
		Frame:  4,
		Player: engine.PlayerState{Name: "Arthur", Position: [2]int{50, 50}, Alive: true},
		Enemy:  &engine.EnemyState{Name: "Ogre", Position: [2]int{240, 50}, Alive: true},
	}

	drawArena(s, snap, bounds)

	if got := s.Get(column(50, bounds, fieldWidth), groundRow-1); got != 'K' {
		t.Errorf("knight cell = %q, expected 'K'", got)
	}
	if got := s.Get(column(240, bounds, fieldWidth), groundRow-1); got != 'O' {
		t.Errorf("ogre cell = %q, expected 'O'", got)
	}
	if !strings.Contains(s.Row(1), "frame 4") {
		t.Errorf("row 1 = %q, expected frame counter", s.Row(1))
	}

	snap.Enemy.Alive = false
	drawArena(s, snap, bounds)
	if got := s.Get(column(240, bounds, fieldWidth), groundRow-1); got != 'x' {
		t.Errorf("dead ogre cell = %q, expected 'x'", got)
	}
}

func TestFightModelStepsOnKeysAndTicks(t *testing.T) {
	f := newFixture(t, config.Default())

	m, err := NewFightModel(f.arena, "Arthur", "dragon")
	if err != nil {
		t.Fatalf("NewFightModel() failed: %v", err)
	}
	if m.Init() == nil {
		t.Fatal("Init() returned no tick command")
	}

	next, _ := m.Update(runes("d"))
	m = next.(FightModel)
	snap := m.Snapshot()
	if snap.Frame != 1 || snap.Player.Position[0] != 60 {
		t.Errorf("after move_right: frame %d x %d, expected 1 and 60", snap.Frame, snap.Player.Position[0])
	}

	next, cmd := m.Update(TickMsg{})
	m = next.(FightModel)
	if m.Snapshot().Frame != 2 {
		t.Errorf("frame after tick = %d, expected 2", m.Snapshot().Frame)
	}
	if cmd == nil {
		t.Error("tick did not schedule the next tick")
	}

	next, _ = m.Update(runes("r"))
	m = next.(FightModel)
	if m.Snapshot().Frame != 0 {
		t.Errorf("frame after restart = %d, expected 0", m.Snapshot().Frame)
	}
}

func TestFightModelLogsHits(t *testing.T) {
	cfg := config.Default()
	hp := 50
	cfg.Bosses = config.Roster{"goblin": {StartPos: []int{130, 50}, Health: &hp}}
	f := newFixture(t, cfg)
	if _, err := f.profiles.Update("Arthur", profile.Patch{Position: &[2]int{100, 50}}); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	m, err := NewFightModel(f.arena, "Arthur", "goblin")
	if err != nil {
		t.Fatalf("NewFightModel() failed: %v", err)
	}
	next, _ := m.Update(runes("j"))
	m = next.(FightModel)

	found := false
	for _, line := range m.Log() {
		if strings.Contains(line, "you hit Goblin for 10") {
			found = true
		}
	}
	if !found {
		t.Errorf("log = %q, expected a hit line", m.Log())
	}
	if m.Snapshot().Enemy.Health != 40 {
		t.Errorf("goblin health = %d, expected 40", m.Snapshot().Enemy.Health)
	}
	if f.arena.Events().Len() != 0 {
		t.Error("fight view left events in the queue")
	}
}

func TestFightModelBackAndQuit(t *testing.T) {
	f := newFixture(t, config.Default())
	m, err := NewFightModel(f.arena, "Arthur", "ogre")
	if err != nil {
		t.Fatalf("NewFightModel() failed: %v", err)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(FightModel).BackToMenu() {
		t.Error("esc did not request the boss picker")
	}

	next, cmd := m.Update(runes("q"))
	if !next.(FightModel).IsQuitting() || cmd == nil {
		t.Error("q did not quit")
	}
	if next.View() != "" {
		t.Error("View() after quit is not empty")
	}
}

func TestNewFightModelUnknownBoss(t *testing.T) {
	f := newFixture(t, config.Default())
	if _, err := NewFightModel(f.arena, "Arthur", "lich"); err == nil {
		t.Error("NewFightModel() with unknown boss succeeded")
	}
}

func TestPickerMarksDefeatedAndSelects(t *testing.T) {
	bosses := []arena.BossInfo{
		{ID: "dragon", Title: "Dragon", Health: 200, Damage: 8},
		{ID: "goblin", Title: "Goblin", Health: 60, Damage: 6},
	}
	m := NewPickerModel(bosses, "Arthur", []string{"goblin"}, 80, 24)

	if view := m.View(); !strings.Contains(view, "✓ Goblin") || strings.Contains(view, "✓ Dragon") {
		t.Errorf("view does not mark only the goblin:\n%s", view)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(PickerModel)
	if sel := m.Selected(); sel == nil || sel.ID != "goblin" {
		t.Errorf("Selected() = %+v, expected goblin", sel)
	}
}

func TestHistoryModelLoadsFights(t *testing.T) {
	f := newFixture(t, config.Default())
	fights := []storage.FightRecord{
		{Knight: "Arthur", BossID: "goblin", Outcome: storage.OutcomeVictory, Frames: 12},
		{Knight: "Lancelot", BossID: "ogre", Outcome: storage.OutcomeDefeat, Frames: 40},
	}
	for _, fr := range fights {
		if _, err := f.store.SaveFight(fr); err != nil {
			t.Fatalf("SaveFight() failed: %v", err)
		}
	}

	m := NewHistoryModel(f.store, "Arthur", 80, 24)
	if len(m.Fights()) != 1 || m.Fights()[0].BossID != "goblin" {
		t.Errorf("Fights() = %+v", m.Fights())
	}
	if !strings.Contains(m.View(), "victory") {
		t.Errorf("view missing fight row:\n%s", m.View())
	}

	empty := NewHistoryModel(nil, "Arthur", 80, 24)
	if !strings.Contains(empty.View(), "No fights recorded yet") {
		t.Errorf("empty view:\n%s", empty.View())
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(HistoryModel).IsGoingBack() {
		t.Error("esc did not go back")
	}
}

func TestSessionTransitions(t *testing.T) {
	f := newFixture(t, config.Default())
	m, err := NewSessionModel(SessionOptions{
		Arena:    f.arena,
		Profiles: f.profiles,
		History:  f.store,
		Knight:   "Arthur",
		Width:    80,
		Height:   24,
	})
	if err != nil {
		t.Fatalf("NewSessionModel() failed: %v", err)
	}

	steps := []struct {
		name string
		msg  tea.Msg
		want view
	}{
		{"pick first boss", tea.KeyMsg{Type: tea.KeyEnter}, viewFight},
		{"tick in fight", TickMsg{}, viewFight},
		{"back to picker", tea.KeyMsg{Type: tea.KeyEsc}, viewPicker},
		{"stale tick ignored", TickMsg{}, viewPicker},
		{"open history", runes("h"), viewHistory},
		{"back from history", tea.KeyMsg{Type: tea.KeyEsc}, viewPicker},
	}

	var model tea.Model = m
	for _, step := range steps {
		model, _ = model.Update(step.msg)
		if got := model.(SessionModel).view; got != step.want {
			t.Fatalf("%s: view = %d, expected %d", step.name, got, step.want)
		}
	}

	if f.arena.BossID() != "dragon" {
		t.Errorf("BossID() = %q, expected dragon", f.arena.BossID())
	}

	model, cmd := model.Update(runes("q"))
	if !model.(SessionModel).quitting || cmd == nil {
		t.Error("q did not quit the session")
	}
	if model.View() != "" {
		t.Error("View() after quit is not empty")
	}
}

func TestSessionStartsInFight(t *testing.T) {
	f := newFixture(t, config.Default())
	m, err := NewSessionModel(SessionOptions{
		Arena:    f.arena,
		Profiles: f.profiles,
		Knight:   "Arthur",
		Boss:     "ogre",
	})
	if err != nil {
		t.Fatalf("NewSessionModel() failed: %v", err)
	}
	if m.view != viewFight || f.arena.BossID() != "ogre" {
		t.Errorf("view = %d boss = %q, expected fight against ogre", m.view, f.arena.BossID())
	}

	if _, err := NewSessionModel(SessionOptions{Arena: f.arena, Profiles: f.profiles, Knight: "Nobody"}); err == nil {
		t.Error("NewSessionModel() with missing knight succeeded")
	}
}

func TestEnsureKnight(t *testing.T) {
	f := newFixture(t, config.Default())

	rec, err := EnsureKnight(f.profiles, "Percival")
	if err != nil || rec.Name != "Percival" {
		t.Fatalf("EnsureKnight() = %+v, %v", rec, err)
	}
	if _, err := f.profiles.Read("Percival"); err != nil {
		t.Errorf("profile not created: %v", err)
	}
	if _, err := EnsureKnight(f.profiles, "Arthur"); err != nil {
		t.Errorf("EnsureKnight() on existing knight: %v", err)
	}
}

func TestKnightName(t *testing.T) {
	tests := []struct {
		user string
		want string
	}{
		{"lancelot", "lancelot"},
		{"root1", guestKnight},
		{"", guestKnight},
		{"x", guestKnight},
	}
	for _, tc := range tests {
		if got := knightName(tc.user); got != tc.want {
			t.Errorf("knightName(%q) = %q, expected %q", tc.user, got, tc.want)
		}
	}
}
