package engine

import (
	"errors"
	"testing"

	"github.com/nathoo/soulrift/engine/save"
	"github.com/nathoo/soulrift/engine/state"
	"github.com/nathoo/soulrift/types"
)

// failStore fails every Save after an optional number of successes.
type failStore struct {
	saves     int
	failAfter int
	last      *save.SaveData
}

func (f *failStore) Load() (*save.SaveData, error) { return nil, save.ErrNoProfile }

func (f *failStore) Save(sd *save.SaveData) error {
	if f.saves >= f.failAfter {
		return errors.New("disk full")
	}
	f.saves++
	f.last = sd
	return nil
}

func TestLook_Idempotent(t *testing.T) {
	e := newTestEngine(t, 42)

	r1 := e.Step("look")
	r2 := e.Step("look")
	if len(r1.Output) != len(r2.Output) {
		t.Fatalf("output lengths differ: %d vs %d", len(r1.Output), len(r2.Output))
	}
	for i := range r1.Output {
		if r1.Output[i] != r2.Output[i] {
			t.Errorf("line %d differs: %q vs %q", i, r1.Output[i], r2.Output[i])
		}
	}
	if e.State.Player.Room.Display() != "cell" {
		t.Error("look moved the player")
	}
}

func TestMove_InvalidExit(t *testing.T) {
	e := newTestEngine(t, 42)

	result := e.Step("move west")
	if !hasLine(result.Output, "You can't go that way.") {
		t.Errorf("unexpected output: %v", result.Output)
	}
	if e.State.Player.Room.Display() != "cell" {
		t.Error("invalid move relocated the player")
	}
}

func TestMove_GeneratesAndMemoizes(t *testing.T) {
	e := newTestEngine(t, 42)

	cell := e.Sess.CurrentRoom(e.Defs)
	e.Step("move north")

	if !e.State.Player.Room.IsGenerated() {
		t.Fatal("moving through a random exit should enter a generated room")
	}
	exit := cell.Exits["north"]
	if exit.Room == nil {
		t.Fatal("exit not memoized")
	}
	if exit.Room != e.State.Player.Room.Gen {
		t.Error("memoized room differs from the one entered")
	}
}

func TestMove_DirectionShorthand(t *testing.T) {
	e := newTestEngine(t, 42)

	e.Step("n")
	if !e.State.Player.Room.IsGenerated() {
		t.Error("bare direction did not move the player")
	}
}

func TestMove_GeneratedRoomAlwaysHasExit(t *testing.T) {
	e := newTestEngine(t, 42)
	e.Step("move north")

	for i := 0; i < 100; i++ {
		room := e.Sess.CurrentRoom(e.Defs)
		if len(room.Exits) == 0 {
			t.Fatalf("step %d: generated room %q has no exits", i, room.Name)
		}
		var dir string
		for d := range room.Exits {
			dir = d
			break
		}
		e.State.Player.Essence = 100 // enemies along the way are ignored
		e.Step("move " + dir)
	}
}

func TestStoreLeave_Confirmation(t *testing.T) {
	e := newTestEngine(t, 42)
	e.State.Player.Room = types.FixedRef("sanctum")

	result := e.Step("move east")
	if !hasLine(result.Output, "Are you sure you want to leave the store?") {
		t.Fatalf("unexpected output: %v", result.Output)
	}
	if e.State.Player.Room.Display() != "sanctum" {
		t.Fatal("moved before confirmation")
	}

	e.Step("no")
	if e.State.Player.Room.Display() != "sanctum" {
		t.Error("declined confirmation still moved the player")
	}
	if e.State.Pending != "" {
		t.Error("pending phase not cleared")
	}

	e.Step("move east")
	e.Step("yes")
	if !e.State.Player.Room.IsGenerated() {
		t.Error("confirmed leave did not move the player")
	}
}

func TestTake_ClaimsUnique(t *testing.T) {
	e := newTestEngine(t, 42)
	e.Step("move north")
	room := e.Sess.CurrentRoom(e.Defs)
	room.Items["relic"] = true

	e.Step("take relic")
	if !state.HasItem(e.State, "relic") {
		t.Error("relic not in inventory")
	}
	if !state.HasUnique(e.State, "relic") {
		t.Error("unique not claimed")
	}
	if room.Items["relic"] {
		t.Error("relic still in room")
	}
}

func TestTake_RefusedInFixedRoom(t *testing.T) {
	e := newTestEngine(t, 42)
	room := e.Sess.CurrentRoom(e.Defs)
	room.Items["relic"] = true

	result := e.Step("take relic")
	if !hasLine(result.Output, "You can't take that.") {
		t.Errorf("unexpected output: %v", result.Output)
	}
	if state.HasItem(e.State, "relic") {
		t.Error("took an item from an authored room")
	}
	if !room.Items["relic"] {
		t.Error("refused take removed the item")
	}
}

func TestTake_NotPresent(t *testing.T) {
	e := newTestEngine(t, 42)
	e.Step("move north")
	delete(e.Sess.CurrentRoom(e.Defs).Items, "tonic")

	result := e.Step("take tonic")
	if !hasLine(result.Output, "I don't see that here.") {
		t.Errorf("unexpected output: %v", result.Output)
	}
	if len(e.State.Player.Inventory) != 0 {
		t.Error("inventory changed")
	}
}

func TestInteract_AppliesEffect(t *testing.T) {
	e := newTestEngine(t, 42)
	room := e.Sess.CurrentRoom(e.Defs)
	room.Items["relic"] = true

	result := e.Step("interact relic")
	if !hasLine(result.Output, "It hums.") {
		t.Errorf("unexpected output: %v", result.Output)
	}
	if e.State.Player.Experience != 60 {
		t.Errorf("experience = %d, want 60", e.State.Player.Experience)
	}
	if !state.HasUnique(e.State, "relic") {
		t.Error("unique not claimed on interact")
	}
}

func TestUse_DamageItemOutsideCombat(t *testing.T) {
	e := newTestEngine(t, 42)
	e.State.Player.Inventory = []string{"bomb"}

	result := e.Step("use bomb")
	if !hasLine(result.Output, "There's nothing to use that on here.") {
		t.Errorf("unexpected output: %v", result.Output)
	}
	if !state.HasItem(e.State, "bomb") {
		t.Error("bomb consumed with no target")
	}
}

func TestUse_HealClampsAtMax(t *testing.T) {
	e := newTestEngine(t, 42)
	e.State.Player.Essence = 95
	e.State.Player.Inventory = []string{"tonic"}

	e.Step("use tonic")
	if e.State.Player.Essence != state.EssenceMax {
		t.Errorf("essence = %d, want %d", e.State.Player.Essence, state.EssenceMax)
	}
}

func TestStore_BuyDeductsSouls(t *testing.T) {
	e := newTestEngine(t, 42)
	e.State.Player.Room = types.FixedRef("sanctum")
	e.State.Player.Souls = 25

	e.Step("buy tonic")
	if e.State.Player.Souls != 15 {
		t.Errorf("souls = %d, want 15", e.State.Player.Souls)
	}
	if !state.HasItem(e.State, "tonic") {
		t.Error("purchase not in inventory")
	}
}

func TestStore_InsufficientSouls(t *testing.T) {
	e := newTestEngine(t, 42)
	e.State.Player.Room = types.FixedRef("sanctum")
	e.State.Player.Souls = 5

	result := e.Step("buy tonic")
	if !hasLine(result.Output, "You don't have enough souls.") {
		t.Errorf("unexpected output: %v", result.Output)
	}
	if e.State.Player.Souls != 5 {
		t.Error("souls deducted on failed purchase")
	}
}

func TestStore_OutsideStore(t *testing.T) {
	e := newTestEngine(t, 42)

	result := e.Step("store view")
	if !hasLine(result.Output, "There is no store here.") {
		t.Errorf("unexpected output: %v", result.Output)
	}
}

func TestLevelUp_OncePerCheck(t *testing.T) {
	e := newTestEngine(t, 42)
	e.State.Player.Experience = 75
	room := e.Sess.CurrentRoom(e.Defs)
	room.Items["relic"] = true

	// +60 xp crosses the 80 threshold exactly once even though 135 > 80.
	result := e.Step("interact relic")
	if e.State.Player.Level != 2 {
		t.Fatalf("level = %d, want 2", e.State.Player.Level)
	}
	if e.State.Player.Essence != state.EssenceMax {
		t.Errorf("essence = %d, want restored to %d", e.State.Player.Essence, state.EssenceMax)
	}
	if !hasLine(result.Output, "You have reached level 2!") {
		t.Errorf("unexpected output: %v", result.Output)
	}
}

func TestCheckpoint_RollbackOnSaveFailure(t *testing.T) {
	defs := testDefs()
	st := state.NewState(defs, "tester")
	st.RNGSeed = 42
	store := &failStore{failAfter: 1}
	e := New(defs, st, store)

	e.Step("move north") // first checkpoint succeeds
	room := e.Sess.CurrentRoom(e.Defs)
	room.Items["relic"] = true

	result := e.Step("take relic")
	if result.Err == nil {
		t.Fatal("expected save failure")
	}
	if !hasLine(result.Output, "could not be saved") {
		t.Errorf("unexpected output: %v", result.Output)
	}
	if state.HasItem(e.State, "relic") {
		t.Error("mutation survived a failed checkpoint")
	}
	if !e.Sess.CurrentRoom(e.Defs).Items["relic"] {
		t.Error("item missing from the room after rollback")
	}
	if e.State.TurnCount != 1 {
		t.Errorf("turn count = %d, want rolled back to 1", e.State.TurnCount)
	}
}

func TestCheckpoint_SavesEveryTurn(t *testing.T) {
	defs := testDefs()
	st := state.NewState(defs, "tester")
	st.RNGSeed = 42
	store := &failStore{failAfter: 1000}
	e := New(defs, st, store)

	e.Step("look")
	e.Step("move north")
	if store.saves < 2 {
		t.Errorf("saves = %d, want at least one per turn", store.saves)
	}
	if store.last.Turn != e.State.TurnCount {
		t.Errorf("persisted turn %d, memory %d", store.last.Turn, e.State.TurnCount)
	}
}

func TestUnknownCommand(t *testing.T) {
	e := newTestEngine(t, 42)

	result := e.Step("juggle")
	if !hasLine(result.Output, "I don't understand that command.") {
		t.Errorf("unexpected output: %v", result.Output)
	}
}
