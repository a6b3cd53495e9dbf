package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nathoo/soulrift/engine"
	"github.com/nathoo/soulrift/engine/state"
	"github.com/nathoo/soulrift/types"
)

// testDefs returns minimal game definitions for CLI testing.
func testDefs() *state.Defs {
	return &state.Defs{
		Game: types.GameDef{
			Title:   "Testrift",
			Version: "1.0",
			Start:   "cell",
			Respawn: "cell",
			Intro:   "You wake on cold stone.",
		},
		Rooms: map[string]types.RoomDef{
			"cell": {
				Name:        "cell",
				Description: "A bare cell.",
				Exits:       map[string]string{"north": "random"},
				Items:       []string{"tonic"},
			},
		},
		Items: map[string]types.ItemDef{
			"tonic": {
				Name: "tonic", Description: "A pale tonic.", Type: "consumable",
				Rarity: 0.5,
				Effect: &types.Effect{Type: "heal", Value: 20},
			},
		},
		Enemies:   map[string]types.EnemyDef{},
		Abilities: map[string]types.AbilityDef{},
	}
}

func newTestCLI(t *testing.T, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	defs := testDefs()
	st := state.NewState(defs, "tester")
	st.RNGSeed = 42
	eng := engine.New(defs, st, nil)
	var out bytes.Buffer
	c := New(eng, nil)
	c.In = strings.NewReader(input)
	c.Out = &out
	return c, &out
}

func TestCLI_IntroAndStartingRoom(t *testing.T) {
	c, out := newTestCLI(t, "/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "You wake on cold stone.") {
		t.Error("expected intro text in output")
	}
	if !strings.Contains(output, "A bare cell.") {
		t.Error("expected starting room description in output")
	}
}

func TestCLI_BasicGameplay(t *testing.T) {
	c, out := newTestCLI(t, "take tonic\ninventory\n/quit\n")
	// Items are only takeable in generated rooms.
	c.Engine.Step("move north")
	c.Engine.Sess.CurrentRoom(c.Engine.Defs).Items["tonic"] = true
	c.Run()

	output := out.String()
	if !strings.Contains(output, "You take the tonic.") {
		t.Errorf("take failed:\n%s", output)
	}
	if !strings.Contains(output, "You are carrying:") {
		t.Errorf("inventory missing:\n%s", output)
	}
}

func TestCLI_AgainRepeatsLastCommand(t *testing.T) {
	c, out := newTestCLI(t, "look\ng\n/quit\n")
	c.Run()

	// Room description appears for intro, look, and the repeat.
	if n := strings.Count(out.String(), "A bare cell."); n != 3 {
		t.Errorf("room described %d times, want 3", n)
	}
}

func TestCLI_AgainWithNoHistory(t *testing.T) {
	c, out := newTestCLI(t, "again\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Nothing to repeat.") {
		t.Error("expected repeat warning")
	}
}

func TestCLI_CommentsSkipped(t *testing.T) {
	c, out := newTestCLI(t, "# a script comment\nlook\n/quit\n")
	c.Run()

	if strings.Contains(out.String(), "I don't understand") {
		t.Error("comment line reached the engine")
	}
}

func TestCLI_MetaState(t *testing.T) {
	c, out := newTestCLI(t, "/state\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Room: cell") {
		t.Errorf("state dump missing room:\n%s", output)
	}
	if !strings.Contains(output, "Essence: 30") {
		t.Errorf("state dump missing vitals:\n%s", output)
	}
}

func TestCLI_UnknownMeta(t *testing.T) {
	c, out := newTestCLI(t, "/frobnicate\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Unknown command: /frobnicate") {
		t.Error("expected unknown meta-command warning")
	}
}
