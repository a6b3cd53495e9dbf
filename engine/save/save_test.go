package save

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nathoo/soulrift/types"
)

func sampleState() *types.State {
	gen := &types.Room{
		Name:        "Ashen Hollow 412",
		Description: "Grey ash drifts down.",
		Exits: map[string]*types.Exit{
			"north": {Target: "Pale Ossuary 77"},
			"east":  {Target: "Ember Causeway 3", Room: &types.Room{Name: "Ember Causeway 3"}},
		},
		Items:   map[string]bool{"Ember Shard": true},
		Enemies: map[string]bool{"Hollow Shade": true},
	}
	return &types.State{
		Player: types.Player{
			Name:       "wanderer",
			Room:       types.GenRef(gen),
			Essence:    64,
			Level:      3,
			Experience: 150,
			Souls:      42,
			Inventory:  []string{"Ember Shard", "Ember Shard"},
			Uniques:    []string{"Hollow Sigil"},
			Abilities:  []string{"Petrify"},
			From:       "north",
		},
		TurnCount:   57,
		RNGSeed:     1234,
		RNGPosition: 890,
	}
}

func TestRoundTrip_GeneratedRoom(t *testing.T) {
	s := sampleState()
	game := types.GameDef{Title: "Soulrift", Version: "1.0.0"}

	data, err := Marshal(Snapshot(s, game))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	sd, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	restored := &types.State{}
	Apply(restored, sd)

	if restored.Player.Name != "wanderer" || restored.TurnCount != 57 {
		t.Errorf("player=%q turn=%d", restored.Player.Name, restored.TurnCount)
	}
	if restored.RNGSeed != 1234 || restored.RNGPosition != 890 {
		t.Errorf("rng %d@%d", restored.RNGSeed, restored.RNGPosition)
	}

	room := restored.Player.Room.Gen
	if room == nil {
		t.Fatal("generated room lost")
	}
	if room.Name != "Ashen Hollow 412" || !room.Items["Ember Shard"] || !room.Enemies["Hollow Shade"] {
		t.Errorf("room = %+v", room)
	}
	// Resolved neighbors are session-scoped: only placeholders survive.
	if room.Exits["east"].Room != nil {
		t.Error("resolved neighbor was persisted")
	}
	if room.Exits["east"].Target != "Ember Causeway 3" {
		t.Errorf("placeholder = %q", room.Exits["east"].Target)
	}
}

func TestRoundTrip_FixedRoomByName(t *testing.T) {
	s := sampleState()
	s.Player.Room = types.FixedRef("store")

	data, err := Marshal(Snapshot(s, types.GameDef{}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	sd, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	restored := &types.State{}
	Apply(restored, sd)
	if restored.Player.Room.IsGenerated() {
		t.Fatal("fixed reference came back generated")
	}
	if restored.Player.Room.Name != "store" {
		t.Errorf("room = %q", restored.Player.Room.Name)
	}
}

func TestApply_NormalizesNilSlices(t *testing.T) {
	restored := &types.State{}
	Apply(restored, &SaveData{})

	if restored.Player.Inventory == nil || restored.Player.Uniques == nil || restored.Player.Abilities == nil {
		t.Error("nil slices after load")
	}
}

func TestFileStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saves", "profile.json")
	store := NewFileStore(path)

	if _, err := store.Load(); !errors.Is(err, ErrNoProfile) {
		t.Fatalf("expected ErrNoProfile, got %v", err)
	}

	sd := Snapshot(sampleState(), types.GameDef{Title: "Soulrift"})
	if err := store.Save(sd); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Player.Name != "wanderer" || loaded.Turn != 57 {
		t.Errorf("loaded %q turn %d", loaded.Player.Name, loaded.Turn)
	}
}

func TestFileStore_CorruptProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewFileStore(path).Load()
	if err == nil || errors.Is(err, ErrNoProfile) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestFileStore_OverwriteAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	store := NewFileStore(path)

	s := sampleState()
	if err := store.Save(Snapshot(s, types.GameDef{})); err != nil {
		t.Fatal(err)
	}
	s.TurnCount = 58
	if err := store.Save(Snapshot(s, types.GameDef{})); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Turn != 58 {
		t.Errorf("turn = %d, want 58", loaded.Turn)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("leftover files: %v", entries)
	}
}
