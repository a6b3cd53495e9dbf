// Package state holds the immutable content definitions and the mutable
// session state, with helpers for room resolution and player progression.
package state

import (
	"sort"
	"strings"

	"github.com/nathoo/soulrift/types"
)

// Progression and vitality constants.
const (
	EssenceMax   = 100 // essence ceiling restored on level-up
	EssenceFloor = 30  // essence after defeat respawn, and starting essence
	XPFactor     = 80  // level-up threshold = level * XPFactor
)

// Defs holds the immutable game definitions loaded from Lua.
type Defs struct {
	Game      types.GameDef
	Rooms     map[string]types.RoomDef
	Items     map[string]types.ItemDef
	Enemies   map[string]types.EnemyDef
	Abilities map[string]types.AbilityDef
}

// SpecialRooms returns the fixed rooms flagged as eligible for selection
// during generation, in stable name order.
func (d *Defs) SpecialRooms() []types.RoomDef {
	var names []string
	for name, room := range d.Rooms {
		if room.Special {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	rooms := make([]types.RoomDef, 0, len(names))
	for _, n := range names {
		rooms = append(rooms, d.Rooms[n])
	}
	return rooms
}

// FindItem looks up an item definition case-insensitively.
// Returns the canonical name and definition.
func (d *Defs) FindItem(name string) (string, types.ItemDef, bool) {
	if def, ok := d.Items[name]; ok {
		return name, def, true
	}
	lower := strings.ToLower(name)
	for key, def := range d.Items {
		if strings.ToLower(key) == lower {
			return key, def, true
		}
	}
	return "", types.ItemDef{}, false
}

// FindEnemy looks up an enemy definition case-insensitively.
func (d *Defs) FindEnemy(name string) (string, types.EnemyDef, bool) {
	if def, ok := d.Enemies[name]; ok {
		return name, def, true
	}
	lower := strings.ToLower(name)
	for key, def := range d.Enemies {
		if strings.ToLower(key) == lower {
			return key, def, true
		}
	}
	return "", types.EnemyDef{}, false
}

// FindAbility looks up an ability definition case-insensitively.
func (d *Defs) FindAbility(name string) (string, types.AbilityDef, bool) {
	if def, ok := d.Abilities[name]; ok {
		return name, def, true
	}
	lower := strings.ToLower(name)
	for key, def := range d.Abilities {
		if strings.ToLower(key) == lower {
			return key, def, true
		}
	}
	return "", types.AbilityDef{}, false
}

// Session wraps the mutable state with the session-scoped materialized
// views of fixed rooms. Fixed room mutations (a slain enemy, a taken
// interactable) last for the session; the authored definitions stay pristine.
type Session struct {
	State *types.State
	live  map[string]*types.Room // materialized fixed rooms
}

// NewSession creates a fresh session around a state.
func NewSession(s *types.State) *Session {
	return &Session{State: s, live: map[string]*types.Room{}}
}

// NewState creates a new player profile from the game definition template.
// All content-defined abilities are known from the start.
func NewState(defs *Defs, playerName string) *types.State {
	abilities := make([]string, 0, len(defs.Abilities))
	for name := range defs.Abilities {
		abilities = append(abilities, name)
	}
	sort.Strings(abilities)

	return &types.State{
		Player: types.Player{
			Name:      playerName,
			Room:      types.FixedRef(defs.Game.Start),
			Essence:   EssenceFloor,
			Level:     1,
			Inventory: []string{},
			Uniques:   []string{},
			Abilities: abilities,
		},
	}
}

// CurrentRoom resolves the player's room reference to a live Room.
// Generated rooms are returned directly; fixed rooms are materialized once
// per session and cached. Returns nil if a fixed name is unknown.
func (sess *Session) CurrentRoom(defs *Defs) *types.Room {
	ref := sess.State.Player.Room
	if ref.IsGenerated() {
		return ref.Gen
	}
	return sess.FixedRoom(defs, ref.Name)
}

// FixedRoom returns the session's live copy of a fixed room, materializing
// it from the definition on first access.
func (sess *Session) FixedRoom(defs *Defs, name string) *types.Room {
	if room, ok := sess.live[name]; ok {
		return room
	}
	def, ok := defs.Rooms[name]
	if !ok {
		return nil
	}
	room := Materialize(def)
	sess.live[name] = room
	return room
}

// Materialize deep-copies a room definition into a live Room.
func Materialize(def types.RoomDef) *types.Room {
	room := &types.Room{
		Name:        def.Name,
		Description: def.Description,
		Exits:       map[string]*types.Exit{},
		Items:       map[string]bool{},
		Enemies:     map[string]bool{},
	}
	for dir, target := range def.Exits {
		room.Exits[dir] = &types.Exit{Target: target}
	}
	for _, item := range def.Items {
		room.Items[item] = true
	}
	for _, enemy := range def.Enemies {
		room.Enemies[enemy] = true
	}
	return room
}

// HasItem reports whether the player carries at least one of the item.
func HasItem(s *types.State, name string) bool {
	for _, it := range s.Player.Inventory {
		if it == name {
			return true
		}
	}
	return false
}

// RemoveItem removes one occurrence of the item from the inventory.
func RemoveItem(s *types.State, name string) {
	for i, it := range s.Player.Inventory {
		if it == name {
			s.Player.Inventory = append(s.Player.Inventory[:i], s.Player.Inventory[i+1:]...)
			return
		}
	}
}

// HasUnique reports whether the player has already claimed the unique item.
func HasUnique(s *types.State, name string) bool {
	for _, u := range s.Player.Uniques {
		if u == name {
			return true
		}
	}
	return false
}

// ClaimUnique records a unique item as claimed, once.
func ClaimUnique(s *types.State, name string) {
	if !HasUnique(s, name) {
		s.Player.Uniques = append(s.Player.Uniques, name)
	}
}

// HasAbility reports whether the player has learned the ability.
func HasAbility(s *types.State, name string) bool {
	for _, a := range s.Player.Abilities {
		if a == name {
			return true
		}
	}
	return false
}

// UpdateLevel applies at most one level-up when the experience threshold is
// crossed, restoring essence to the ceiling. Returns true if a level was
// gained. Experience is cumulative; the threshold scales with level.
func UpdateLevel(s *types.State) bool {
	if s.Player.Experience >= s.Player.Level*XPFactor {
		s.Player.Level++
		s.Player.Essence = EssenceMax
		return true
	}
	return false
}

// ClampEssence bounds essence to [0, EssenceMax].
func ClampEssence(s *types.State) {
	if s.Player.Essence > EssenceMax {
		s.Player.Essence = EssenceMax
	}
	if s.Player.Essence < 0 {
		s.Player.Essence = 0
	}
}
