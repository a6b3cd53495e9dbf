// Package worldgen synthesizes rooms for the lazily expanding world:
// rarity-weighted loot, spawn-weighted enemies, and backtracking-aware
// exits, with an occasional hand-authored special room mixed in.
package worldgen

import (
	"fmt"
	"sort"

	"github.com/nathoo/soulrift/engine/state"
	"github.com/nathoo/soulrift/types"
)

// Rand is the subset of the engine RNG the generator draws from.
// Tests substitute fixed-outcome stubs.
type Rand interface {
	Chance(p float64) bool
	Intn(n int) int
}

// Probability of replacing a synthesized room with an authored special room.
const specialChance = 0.10

// Probability of each cardinal direction gaining an exit.
const exitChance = 0.5

// defaultMaxExitRetries bounds the exit re-roll loop. Past the bound one
// random direction is forced so every room stays escapable.
const defaultMaxExitRetries = 1000

var cardinals = []string{"north", "east", "south", "west"}

var opposites = map[string]string{
	"north": "south",
	"south": "north",
	"east":  "west",
	"west":  "east",
}

// Name and description pools, index-aligned.
var roomNames = []string{
	"Ashen Hollow",
	"Forgotten Crypt",
	"Weeping Gallery",
	"Sunken Vestibule",
	"Shattered Chancel",
	"Mire of Whispers",
	"Blackroot Warren",
	"Pale Ossuary",
	"Drowned Archive",
	"Ember Causeway",
	"Veiled Rotunda",
	"Hungering Depths",
}

var roomDescriptions = []string{
	"Grey ash drifts from a ceiling you cannot see. Every footstep raises a small, silent cloud.",
	"Collapsed alcoves line the walls, their occupants long since crumbled to powder.",
	"Faded portraits watch from the walls. Their eyes are wet, though nothing here should weep.",
	"Stagnant water laps at a cracked marble floor. Something pale moves beneath the surface.",
	"Broken pews face an altar split clean in two. The air tastes of cold iron.",
	"The ground gives softly underfoot. Voices murmur just below the threshold of hearing.",
	"Thick black roots burst through the stonework, pulsing faintly in the gloom.",
	"Bones are stacked with terrible care, sorted by size into niches beyond counting.",
	"Swollen books dissolve on warped shelves. The ink runs like veins across the floor.",
	"A narrow causeway crosses a chasm lit from below by a dull orange glow.",
	"Tattered curtains hang in concentric rings, each layer thinner than the last.",
	"The darkness here is total and attentive. It parts reluctantly as you move.",
}

// Generator produces new rooms. It holds no mutable state of its own;
// all randomness flows through the supplied source.
type Generator struct {
	Defs           *state.Defs
	RNG            Rand
	MaxExitRetries int // 0 means defaultMaxExitRetries
}

// New creates a generator over the given definitions and random source.
func New(defs *state.Defs, rng Rand) *Generator {
	return &Generator{Defs: defs, RNG: rng}
}

// Generate produces a new room. With a small fixed probability an authored
// special room is deep-copied and returned; otherwise a room is synthesized
// with Bernoulli trials over the enemy and item tables and a backtracking-
// aware exit set. uniques lists item names already claimed by the player;
// lastDir is the direction of the player's last movement ("" if none).
func (g *Generator) Generate(uniques []string, lastDir string) *types.Room {
	if specials := g.Defs.SpecialRooms(); len(specials) > 0 && g.RNG.Chance(specialChance) {
		pick := specials[g.RNG.Intn(len(specials))]
		room := state.Materialize(pick)
		// Claimed uniques never reappear, not even in authored copies.
		for _, u := range uniques {
			delete(room.Items, u)
		}
		return room
	}

	idx := g.RNG.Intn(len(roomNames))
	room := &types.Room{
		Name:        fmt.Sprintf("%s %d", roomNames[idx], g.RNG.Intn(1000)),
		Description: roomDescriptions[idx],
		Exits:       map[string]*types.Exit{},
		Items:       map[string]bool{},
		Enemies:     map[string]bool{},
	}

	// Independent Bernoulli trial per enemy definition.
	for _, name := range sortedKeys(g.Defs.Enemies) {
		if g.RNG.Chance(g.Defs.Enemies[name].Spawn) {
			room.Enemies[name] = true
		}
	}

	// Same for items, except uniques the player already holds never respawn.
	claimed := map[string]bool{}
	for _, u := range uniques {
		claimed[u] = true
	}
	for _, name := range sortedKeys(g.Defs.Items) {
		def := g.Defs.Items[name]
		if def.Unique && claimed[name] {
			continue
		}
		if g.RNG.Chance(def.Rarity) {
			room.Items[name] = true
		}
	}

	g.placeExits(room, lastDir)
	return room
}

// placeExits rolls each cardinal direction independently, suppressing the
// one that would lead straight back the way the player came. The roll
// repeats while the exit set comes up empty, up to a bound; past the bound
// one random allowed direction is forced.
func (g *Generator) placeExits(room *types.Room, lastDir string) {
	suppressed := opposites[lastDir]

	allowed := make([]string, 0, len(cardinals))
	for _, dir := range cardinals {
		if dir != suppressed {
			allowed = append(allowed, dir)
		}
	}

	retries := g.MaxExitRetries
	if retries <= 0 {
		retries = defaultMaxExitRetries
	}

	for attempt := 0; attempt < retries; attempt++ {
		for _, dir := range allowed {
			if g.RNG.Chance(exitChance) {
				room.Exits[dir] = &types.Exit{Target: g.exitName()}
			}
		}
		if len(room.Exits) > 0 {
			return
		}
	}

	// Bound exceeded: force one exit rather than loop forever.
	dir := allowed[g.RNG.Intn(len(allowed))]
	room.Exits[dir] = &types.Exit{Target: g.exitName()}
}

// exitName produces the placeholder name an unexplored exit advertises.
// Traversal replaces the placeholder with a freshly generated room.
func (g *Generator) exitName() string {
	return fmt.Sprintf("%s %d", roomNames[g.RNG.Intn(len(roomNames))], g.RNG.Intn(1000))
}

// sortedKeys keeps table iteration deterministic for a fixed seed.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
