// Package engine implements the game loop: command dispatch, the combat
// encounter machine, lazy world expansion, and persistence checkpoints.
// The engine is session-scoped; two engines never share state.
package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/soulrift/engine/effects"
	"github.com/nathoo/soulrift/engine/parser"
	"github.com/nathoo/soulrift/engine/save"
	"github.com/nathoo/soulrift/engine/state"
	"github.com/nathoo/soulrift/engine/worldgen"
	"github.com/nathoo/soulrift/types"
)

const saveFailedLine = "Your progress could not be saved. The last action was undone."

// Engine drives one play session. Frontends feed it one input line per Step
// and render the Result; the engine never touches the terminal.
type Engine struct {
	Defs  *state.Defs
	Sess  *state.Session
	State *types.State
	RNG   *RNG
	Gen   *worldgen.Generator
	Store save.Store // nil disables persistence

	// Turn snapshot for rollback when a checkpoint fails.
	snapData   []byte
	snapCombat types.CombatState
}

// New creates an engine over loaded definitions and an existing state.
// The RNG resumes from the state's recorded seed and position.
func New(defs *state.Defs, st *types.State, store save.Store) *Engine {
	rng := RestoreRNG(st.RNGSeed, st.RNGPosition)
	return &Engine{
		Defs:  defs,
		Sess:  state.NewSession(st),
		State: st,
		RNG:   rng,
		Gen:   worldgen.New(defs, rng),
		Store: store,
	}
}

// Intro returns the opening text for a session: title, intro prose, and the
// current room description.
func (e *Engine) Intro() []string {
	var lines []string
	if e.Defs.Game.Title != "" {
		lines = append(lines, e.Defs.Game.Title)
	}
	if e.Defs.Game.Intro != "" {
		lines = append(lines, "", e.Defs.Game.Intro)
	}
	lines = append(lines, "")
	lines = append(lines, e.describeRoom()...)
	return lines
}

// Step consumes exactly one input line and advances the game one turn.
// All state mutated during the turn is checkpointed before Step returns;
// if the checkpoint fails the turn is rolled back and Result.Err is set.
func (e *Engine) Step(input string) types.Result {
	e.snapshotTurn()

	var result types.Result
	switch {
	case e.State.Pending == types.PhaseLeaveConfirm:
		result = e.stepLeaveConfirm(input)
	case e.State.Combat.Active:
		result = e.stepCombat(input)
	default:
		result = e.stepCommand(input)
	}

	if result.Err == nil {
		e.State.TurnCount++
		if err := e.checkpoint(); err != nil {
			result.Err = err
			result.Output = append(result.Output, saveFailedLine)
		}
	}
	return result
}

// stepCommand dispatches a non-combat command.
func (e *Engine) stepCommand(input string) types.Result {
	intent := parser.Parse(input)

	switch intent.Verb {
	case "":
		return types.Result{}
	case "look":
		return e.doLook(intent.Object)
	case "move":
		return e.doMove(intent.Object)
	case "take":
		return e.doTake(intent.Object)
	case "interact":
		return e.doInteract(intent.Object)
	case "use":
		return e.doUse(intent.Object)
	case "inventory":
		return e.doInventory()
	case "stats":
		return e.doStats()
	case "abilities":
		return e.doAbilities()
	case "fight":
		return e.beginFight(intent.Object)
	case "store":
		return e.doStore(intent.Object)
	case "help":
		return types.Result{Output: helpText()}
	default:
		return types.Result{Output: []string{"I don't understand that command."}}
	}
}

// stepLeaveConfirm resolves the store-exit confirmation prompt. Anything
// other than an explicit yes cancels the move.
func (e *Engine) stepLeaveConfirm(input string) types.Result {
	dir := e.State.PendingExit
	e.State.Pending = ""
	e.State.PendingExit = ""

	answer := strings.TrimSpace(strings.ToLower(input))
	if answer == "yes" || answer == "y" {
		return e.performMove(dir)
	}
	return types.Result{Output: []string{"You stay in the store."}}
}

func (e *Engine) doLook(object string) types.Result {
	room := e.Sess.CurrentRoom(e.Defs)
	if room == nil {
		return types.Result{Output: []string{"You are somewhere unknown."}}
	}
	if object == "" {
		return types.Result{Output: e.describeRoom()}
	}

	if key, def, ok := e.Defs.FindItem(object); ok && (room.Items[key] || state.HasItem(e.State, key)) {
		lines := []string{def.Description}
		if def.InteractOnly {
			lines = append(lines, "It looks like you could interact with it.")
		}
		return types.Result{Output: lines}
	}
	if key, def, ok := e.Defs.FindEnemy(object); ok && room.Enemies[key] {
		return types.Result{Output: []string{
			fmt.Sprintf("%s (level %d) watches you warily.", key, def.Level),
		}}
	}
	return types.Result{Output: []string{"I don't see that here."}}
}

func (e *Engine) doMove(dir string) types.Result {
	if dir == "" {
		return types.Result{Output: []string{"Where do you want to go?"}}
	}
	room := e.Sess.CurrentRoom(e.Defs)
	if room == nil {
		return types.Result{Output: []string{"You are somewhere unknown."}}
	}
	dir = strings.ToLower(dir)
	if _, ok := room.Exits[dir]; !ok {
		return types.Result{Output: []string{"You can't go that way."}}
	}

	// Leaving the shop is irreversible enough to confirm first.
	ref := e.State.Player.Room
	if !ref.IsGenerated() && ref.Name == e.Defs.Game.Store {
		e.State.Pending = types.PhaseLeaveConfirm
		e.State.PendingExit = dir
		return types.Result{Output: []string{"Are you sure you want to leave the store? (yes/no)"}}
	}

	return e.performMove(dir)
}

// performMove traverses an exit. Already-resolved exits re-enter the same
// room; named exits enter the authored room; placeholder and "random" exits
// generate a new room, memoized on the exit for the rest of the session.
func (e *Engine) performMove(dir string) types.Result {
	room := e.Sess.CurrentRoom(e.Defs)
	exit, ok := room.Exits[dir]
	if !ok {
		return types.Result{Output: []string{"You can't go that way."}}
	}

	switch {
	case exit.Room != nil:
		e.State.Player.Room = types.GenRef(exit.Room)
	case exit.Target != "random" && e.isFixedRoom(exit.Target):
		e.State.Player.Room = types.FixedRef(exit.Target)
	default:
		next := e.Gen.Generate(e.State.Player.Uniques, dir)
		exit.Room = next
		e.State.Player.Room = types.GenRef(next)
	}
	e.State.Player.From = dir

	result := types.Result{
		Events: []types.Event{soundEvent("footsteps", false)},
		Output: []string{fmt.Sprintf("You head %s.", dir), ""},
	}
	result.Output = append(result.Output, e.describeRoom()...)
	return result
}

func (e *Engine) isFixedRoom(name string) bool {
	_, ok := e.Defs.Rooms[name]
	return ok
}

func (e *Engine) doTake(object string) types.Result {
	if object == "" {
		return types.Result{Output: []string{"What do you want to take?"}}
	}
	room := e.Sess.CurrentRoom(e.Defs)
	if room == nil {
		return types.Result{Output: []string{"You are somewhere unknown."}}
	}
	// Authored rooms keep their furnishings; only generated rooms are looted.
	if !e.State.Player.Room.IsGenerated() {
		return types.Result{Output: []string{"You can't take that."}}
	}
	key, def, ok := e.Defs.FindItem(object)
	if !ok || !room.Items[key] {
		return types.Result{Output: []string{"I don't see that here."}}
	}
	if def.InteractOnly {
		return types.Result{Output: []string{"You can't take that. Try interacting with it."}}
	}

	e.State.Player.Inventory = append(e.State.Player.Inventory, key)
	if def.Unique {
		state.ClaimUnique(e.State, key)
	}
	delete(room.Items, key)
	return types.Result{Output: []string{fmt.Sprintf("You take the %s.", key)}}
}

func (e *Engine) doInteract(object string) types.Result {
	if object == "" {
		return types.Result{Output: []string{"What do you want to interact with?"}}
	}
	room := e.Sess.CurrentRoom(e.Defs)
	if room == nil {
		return types.Result{Output: []string{"You are somewhere unknown."}}
	}
	key, def, ok := e.Defs.FindItem(object)
	if !ok || !room.Items[key] {
		return types.Result{Output: []string{"I don't see that here."}}
	}
	if def.Interact == "" {
		return types.Result{Output: []string{"Nothing happens."}}
	}

	var result types.Result
	result.Output = append(result.Output, def.Interact)

	if def.Unique {
		state.ClaimUnique(e.State, key)
	}
	if def.Type == "consumable" {
		delete(room.Items, key)
	}

	if def.Effect != nil {
		switch def.Effect.Type {
		case "heal":
			e.State.Player.Essence += def.Effect.Value
			state.ClampEssence(e.State)
			result.Output = append(result.Output, fmt.Sprintf("You recover %d essence.", def.Effect.Value))
		case "experience":
			e.State.Player.Experience += def.Effect.Value
			result.Output = append(result.Output, fmt.Sprintf("You gain %d experience.", def.Effect.Value))
			e.maybeLevelUp(&result)
		case "level":
			e.State.Player.Level += def.Effect.Value
			e.State.Player.Essence = state.EssenceMax
			result.Events = append(result.Events,
				soundEvent("levelup", false),
				types.Event{Type: "level_up", Data: map[string]any{"level": e.State.Player.Level}})
			result.Output = append(result.Output,
				fmt.Sprintf("You have reached level %d! Your essence is restored.", e.State.Player.Level))
		case "move":
			if e.isFixedRoom(def.Effect.Target) {
				e.State.Player.Room = types.FixedRef(def.Effect.Target)
				e.State.Player.From = ""
				result.Events = append(result.Events, soundEvent("footsteps", false))
				result.Output = append(result.Output, "")
				result.Output = append(result.Output, e.describeRoom()...)
			}
		}
	}
	return result
}

func (e *Engine) doUse(object string) types.Result {
	if object == "" {
		return types.Result{Output: []string{"What do you want to use?"}}
	}
	// Damage items need a target; outside combat there is none. Checked
	// before UseItem so the item is not consumed.
	if key, def, ok := e.Defs.FindItem(object); ok && state.HasItem(e.State, key) {
		if def.Effect != nil && def.Effect.Type == "damage" {
			return types.Result{Output: []string{"There's nothing to use that on here."}}
		}
	}

	out := effects.UseItem(e.State, e.Defs, object)
	result := types.Result{Output: out.Output}
	if out.OK {
		e.maybeLevelUp(&result)
	}
	return result
}

func (e *Engine) doInventory() types.Result {
	if len(e.State.Player.Inventory) == 0 {
		return types.Result{Output: []string{"Your inventory is empty."}}
	}
	counts := map[string]int{}
	for _, it := range e.State.Player.Inventory {
		counts[it]++
	}
	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	sort.Strings(names)

	lines := []string{"You are carrying:"}
	for _, n := range names {
		if counts[n] > 1 {
			lines = append(lines, fmt.Sprintf("  %s x%d", n, counts[n]))
		} else {
			lines = append(lines, "  "+n)
		}
	}
	return types.Result{Output: lines}
}

func (e *Engine) doStats() types.Result {
	p := e.State.Player
	return types.Result{Output: []string{
		fmt.Sprintf("Name:       %s", p.Name),
		fmt.Sprintf("Level:      %d", p.Level),
		fmt.Sprintf("Essence:    %d / %d", p.Essence, state.EssenceMax),
		fmt.Sprintf("Experience: %d / %d", p.Experience, p.Level*state.XPFactor),
		fmt.Sprintf("Souls:      %d", p.Souls),
	}}
}

func (e *Engine) doAbilities() types.Result {
	names := e.learnedAbilities()
	if len(names) == 0 {
		return types.Result{Output: []string{"You don't know any abilities."}}
	}
	lines := []string{"Abilities:"}
	for _, n := range names {
		lines = append(lines, fmt.Sprintf("  %s - %s", n, e.Defs.Abilities[n].Description))
	}
	return types.Result{Output: lines}
}

// doStore handles "store view" and "store buy <item>". Only valid inside
// the shop room.
func (e *Engine) doStore(object string) types.Result {
	ref := e.State.Player.Room
	if ref.IsGenerated() || ref.Name != e.Defs.Game.Store {
		return types.Result{Output: []string{"There is no store here."}}
	}

	args := strings.Fields(strings.ToLower(object))
	if len(args) == 0 || args[0] == "view" {
		return e.storeView()
	}
	if args[0] == "buy" {
		if len(args) < 2 {
			return types.Result{Output: []string{"What do you want to buy?"}}
		}
		return e.storeBuy(strings.Join(args[1:], " "))
	}
	return types.Result{Output: []string{"The shopkeeper doesn't understand. Try 'store view' or 'buy <item>'."}}
}

func (e *Engine) storeView() types.Result {
	var names []string
	for name, def := range e.Defs.Items {
		if def.Price <= 0 {
			continue
		}
		if def.Unique && state.HasUnique(e.State, name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) == 0 {
		return types.Result{Output: []string{"The shelves are bare."}}
	}
	lines := []string{"For sale:"}
	for _, n := range names {
		def := e.Defs.Items[n]
		lines = append(lines, fmt.Sprintf("  %s - %d souls - %s", n, def.Price, def.Description))
	}
	lines = append(lines, "", fmt.Sprintf("You have %d souls.", e.State.Player.Souls))
	return types.Result{Output: lines}
}

func (e *Engine) storeBuy(name string) types.Result {
	key, def, ok := e.Defs.FindItem(name)
	if !ok || def.Price <= 0 {
		return types.Result{Output: []string{"That's not for sale."}}
	}
	if def.Unique && state.HasUnique(e.State, key) {
		return types.Result{Output: []string{"You already own that."}}
	}
	if e.State.Player.Souls < def.Price {
		return types.Result{Output: []string{"You don't have enough souls."}}
	}

	e.State.Player.Souls -= def.Price
	e.State.Player.Inventory = append(e.State.Player.Inventory, key)
	if def.Unique {
		state.ClaimUnique(e.State, key)
	}
	return types.Result{Output: []string{
		fmt.Sprintf("You bought %s for %d souls.", key, def.Price),
		fmt.Sprintf("You have %d souls left.", e.State.Player.Souls),
	}}
}

// describeRoom renders the current room: name, description, exits, and the
// visible items and enemies.
func (e *Engine) describeRoom() []string {
	room := e.Sess.CurrentRoom(e.Defs)
	if room == nil {
		return []string{"You are somewhere unknown."}
	}

	lines := []string{room.Name, "", room.Description}

	if len(room.Exits) > 0 {
		dirs := make([]string, 0, len(room.Exits))
		for d := range room.Exits {
			dirs = append(dirs, d)
		}
		sort.Strings(dirs)
		lines = append(lines, "", "Exits: "+strings.Join(dirs, ", "))
	}

	if len(room.Items) > 0 {
		items := make([]string, 0, len(room.Items))
		for it := range room.Items {
			items = append(items, it)
		}
		sort.Strings(items)
		for i, it := range items {
			if def, ok := e.Defs.Items[it]; ok && def.InteractOnly {
				items[i] = it + " (interact)"
			}
		}
		lines = append(lines, "You see: "+strings.Join(items, ", "))
	}

	if len(room.Enemies) > 0 {
		var enemies []string
		for en := range room.Enemies {
			if def, ok := e.Defs.Enemies[en]; ok {
				enemies = append(enemies, fmt.Sprintf("%s (level %d)", en, def.Level))
			} else {
				enemies = append(enemies, en)
			}
		}
		sort.Strings(enemies)
		lines = append(lines, "Enemies: "+strings.Join(enemies, ", "))
	}

	return lines
}

// maybeLevelUp applies at most one pending level-up and reports it.
func (e *Engine) maybeLevelUp(result *types.Result) {
	if state.UpdateLevel(e.State) {
		result.Events = append(result.Events,
			soundEvent("levelup", false),
			types.Event{Type: "level_up", Data: map[string]any{"level": e.State.Player.Level}})
		result.Output = append(result.Output,
			fmt.Sprintf("You have reached level %d! Your essence is restored.", e.State.Player.Level))
	}
}

// snapshotTurn captures the persistent state at the start of a Step so a
// failed checkpoint can roll the whole turn back.
func (e *Engine) snapshotTurn() {
	e.State.RNGSeed = e.RNG.Seed()
	e.State.RNGPosition = e.RNG.Position()
	data, err := save.Marshal(save.Snapshot(e.State, e.Defs.Game))
	if err != nil {
		// Snapshot encoding cannot fail for these types; keep the old one.
		return
	}
	e.snapData = data
	e.snapCombat = e.State.Combat
	if e.State.Combat.UsedAbilities != nil {
		used := make(map[string]bool, len(e.State.Combat.UsedAbilities))
		for k, v := range e.State.Combat.UsedAbilities {
			used[k] = v
		}
		e.snapCombat.UsedAbilities = used
	}
}

// checkpoint persists the current state. On failure the turn snapshot is
// restored so memory never silently diverges from the store.
func (e *Engine) checkpoint() error {
	if e.Store == nil {
		return nil
	}
	e.State.RNGSeed = e.RNG.Seed()
	e.State.RNGPosition = e.RNG.Position()
	if err := e.Store.Save(save.Snapshot(e.State, e.Defs.Game)); err != nil {
		e.rollbackTurn()
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}

// rollbackTurn restores the state captured by snapshotTurn.
func (e *Engine) rollbackTurn() {
	if e.snapData == nil {
		return
	}
	sd, err := save.Unmarshal(e.snapData)
	if err != nil {
		return
	}
	save.Apply(e.State, sd)
	e.State.Combat = e.snapCombat
	e.State.Pending = ""
	e.State.PendingExit = ""
	e.RNG = RestoreRNG(sd.RNGSeed, sd.RNGPosition)
	e.Gen.RNG = e.RNG
}

func soundEvent(cue string, loop bool) types.Event {
	return types.Event{Type: "sound", Data: map[string]any{"cue": cue, "loop": loop}}
}

func helpText() []string {
	return []string{
		"Commands:",
		"  look [thing]      - Describe the room, an item, or an enemy.",
		"  move <direction>  - Travel through an exit (north, south, east, west).",
		"  take <item>       - Pick up an item.",
		"  interact <item>   - Interact with something in the room.",
		"  use <item>        - Use an item from your inventory.",
		"  fight <enemy>     - Start a fight.",
		"  inventory         - List what you are carrying.",
		"  stats             - Show your character sheet.",
		"  abilities         - List your learned abilities.",
		"  store / buy <x>   - Trade souls for goods (in the store).",
		"  help              - This text.",
	}
}
