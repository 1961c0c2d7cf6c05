package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestKnightSaveAndLoad(t *testing.T) {
	store := openTestStore(t)

	k := KnightRecord{
		Name:     "Arthur",
		Health:   90,
		Stamina:  42.5,
		X:        120,
		Y:        50,
		Gold:     7,
		Skin:     "gold",
		Defeated: []string{"goblin", "ogre"},
	}
	if err := store.SaveKnight(k); err != nil {
		t.Fatalf("SaveKnight() failed: %v", err)
	}

	got, err := store.LoadKnight("Arthur")
	if err != nil {
		t.Fatalf("LoadKnight() failed: %v", err)
	}
	if got == nil {
		t.Fatal("LoadKnight() returned nil for saved knight")
	}
	if got.Health != 90 || got.Stamina != 42.5 || got.X != 120 || got.Y != 50 || got.Gold != 7 || got.Skin != "gold" {
		t.Errorf("loaded knight = %+v", got)
	}
	if !reflect.DeepEqual(got.Defeated, []string{"goblin", "ogre"}) {
		t.Errorf("Defeated = %v", got.Defeated)
	}

	// Upsert replaces fields and the defeated list.
	k.Health = 10
	k.Defeated = []string{"dragon"}
	if err := store.SaveKnight(k); err != nil {
		t.Fatalf("SaveKnight() update failed: %v", err)
	}
	got, _ = store.LoadKnight("Arthur")
	if got.Health != 10 {
		t.Errorf("Health after update = %d, expected 10", got.Health)
	}
	if !reflect.DeepEqual(got.Defeated, []string{"dragon"}) {
		t.Errorf("Defeated after update = %v", got.Defeated)
	}
}

func TestLoadKnightMissing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.LoadKnight("Nobody")
	if err != nil {
		t.Fatalf("LoadKnight() failed: %v", err)
	}
	if got != nil {
		t.Errorf("LoadKnight() = %+v, expected nil", got)
	}
}

func TestDeleteKnight(t *testing.T) {
	store := openTestStore(t)

	if err := store.SaveKnight(KnightRecord{Name: "Lancelot", Health: 100, Skin: "default", Defeated: []string{"goblin"}}); err != nil {
		t.Fatalf("SaveKnight() failed: %v", err)
	}

	deleted, err := store.DeleteKnight("Lancelot")
	if err != nil || !deleted {
		t.Fatalf("DeleteKnight() = %v, %v", deleted, err)
	}
	deleted, err = store.DeleteKnight("Lancelot")
	if err != nil || deleted {
		t.Errorf("second DeleteKnight() = %v, %v, expected false", deleted, err)
	}

	// A recreated knight does not inherit old defeats.
	if err := store.SaveKnight(KnightRecord{Name: "Lancelot", Health: 100, Skin: "default"}); err != nil {
		t.Fatalf("SaveKnight() failed: %v", err)
	}
	got, _ := store.LoadKnight("Lancelot")
	if len(got.Defeated) != 0 {
		t.Errorf("Defeated = %v, expected empty", got.Defeated)
	}
}

func TestListKnightsAndDefeats(t *testing.T) {
	store := openTestStore(t)

	for _, name := range []string{"Percival", "Arthur", "Gawain"} {
		if err := store.SaveKnight(KnightRecord{Name: name, Health: 100, Stamina: 100, Skin: "default"}); err != nil {
			t.Fatalf("SaveKnight(%s) failed: %v", name, err)
		}
	}
	if err := store.AddDefeat("Gawain", "ogre"); err != nil {
		t.Fatalf("AddDefeat() failed: %v", err)
	}
	if err := store.AddDefeat("Gawain", "ogre"); err != nil {
		t.Fatalf("repeat AddDefeat() failed: %v", err)
	}
	if err := store.AddDefeat("Gawain", "goblin"); err != nil {
		t.Fatalf("AddDefeat() failed: %v", err)
	}

	knights, err := store.ListKnights()
	if err != nil {
		t.Fatalf("ListKnights() failed: %v", err)
	}
	var names []string
	for _, k := range knights {
		names = append(names, k.Name)
	}
	if !reflect.DeepEqual(names, []string{"Arthur", "Gawain", "Percival"}) {
		t.Errorf("names = %v", names)
	}
	if !reflect.DeepEqual(knights[1].Defeated, []string{"ogre", "goblin"}) {
		t.Errorf("Gawain defeated = %v", knights[1].Defeated)
	}
}

func TestFightHistory(t *testing.T) {
	store := openTestStore(t)

	fights := []FightRecord{
		{Knight: "Arthur", BossID: "goblin", Outcome: OutcomeVictory, Frames: 30},
		{Knight: "Arthur", BossID: "ogre", Outcome: OutcomeDefeat, Frames: 80},
		{Knight: "Gawain", BossID: "ogre", Outcome: OutcomeVictory, Frames: 120},
	}
	for _, f := range fights {
		id, err := store.SaveFight(f)
		if err != nil {
			t.Fatalf("SaveFight() failed: %v", err)
		}
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("SaveFight() id %q is not a uuid: %v", id, err)
		}
	}

	recent, err := store.RecentFights(10)
	if err != nil {
		t.Fatalf("RecentFights() failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("RecentFights() returned %d, expected 3", len(recent))
	}
	if recent[0].Knight != "Gawain" {
		t.Errorf("newest fight = %+v, expected Gawain's", recent[0])
	}

	arthur, err := store.KnightFights("Arthur", 0)
	if err != nil {
		t.Fatalf("KnightFights() failed: %v", err)
	}
	if len(arthur) != 2 || arthur[0].BossID != "ogre" {
		t.Errorf("KnightFights(Arthur) = %+v", arthur)
	}

	stats, err := store.AllBossStats()
	if err != nil {
		t.Fatalf("AllBossStats() failed: %v", err)
	}
	ogre := stats["ogre"]
	if ogre == nil || ogre.Fights != 2 || ogre.Victories != 1 || ogre.Defeats != 1 {
		t.Errorf("ogre stats = %+v", ogre)
	}
	if _, ok := stats["dragon"]; ok {
		t.Error("dragon should have no stats")
	}
}

func TestSaveFightKeepsGivenID(t *testing.T) {
	store := openTestStore(t)

	id := uuid.NewString()
	got, err := store.SaveFight(FightRecord{ID: id, Knight: "Arthur", BossID: "dragon", Outcome: OutcomeDefeat})
	if err != nil {
		t.Fatalf("SaveFight() failed: %v", err)
	}
	if got != id {
		t.Errorf("SaveFight() id = %q, expected %q", got, id)
	}
	if _, err := store.SaveFight(FightRecord{ID: id, Knight: "Arthur", BossID: "dragon", Outcome: OutcomeDefeat}); err == nil {
		t.Error("duplicate fight id should fail")
	}
}
