// Package types defines the shared data structures for the Soulrift engine.
// This package contains only type definitions and serialization helpers —
// no game logic.
package types

import (
	"encoding/json"
	"fmt"
)

// Intent is the parsed representation of a player command.
type Intent struct {
	Verb   string
	Object string // optional
}

// Effect is a single declared consequence of an item, ability, or enemy
// special: heal, damage, experience, stun, move.
type Effect struct {
	Type   string `json:"type"`
	Value  int    `json:"value,omitempty"`
	Target string `json:"target,omitempty"` // destination room for move effects
}

// Cost is a resource price attached to an item or ability.
type Cost struct {
	Type  string `json:"type"` // "essence" or "souls"
	Value int    `json:"value"`
}

// Event is emitted by the engine for presentation-layer side effects
// (sound cues, screen clears) and for tests to observe outcomes.
type Event struct {
	Type string
	Data map[string]any
}

// Result is the output of a single game step.
type Result struct {
	Output []string
	Events []Event
	Err    error // persistence or internal failure; state already rolled back
}

// ItemDef is an immutable item definition from the content tables.
type ItemDef struct {
	Name         string
	Description  string
	Price        int // 0 = not purchasable
	Rarity       float64
	Unique       bool
	InteractOnly bool
	Interact     string // text shown when interacting
	Use          string // text shown when using
	Type         string // "consumable" items are removed on use
	Effect       *Effect
	Cost         []Cost
}

// SpecialDef is a named special attack in an enemy definition.
type SpecialDef struct {
	Name        string
	Description string
	Effect      Effect
}

// EnemyDef is an immutable enemy definition from the content tables.
type EnemyDef struct {
	Name       string
	Health     int
	Level      int
	Damage     int // max roll for per-hit damage
	Experience int
	Souls      int
	Spawn      float64
	Criticals  bool
	Specials   []SpecialDef
}

// AbilityDef is an immutable ability definition from the content tables.
type AbilityDef struct {
	Name        string
	Description string
	Use         string
	Effect      Effect
	Cost        []Cost
}

// RoomDef is an authored fixed room from the content tables.
type RoomDef struct {
	Name        string
	Description string
	Special     bool              // eligible for selection during generation
	Exits       map[string]string // direction → room name, or "random"
	Items       []string
	Enemies     []string
}

// Room is a materialized room the player can occupy: either a deep copy of
// a fixed special room or a procedurally generated one. Items and Enemies
// map entry names to presence and shrink as the player takes and kills.
type Room struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Exits       map[string]*Exit `json:"exits"`
	Items       map[string]bool  `json:"items"`
	Enemies     map[string]bool  `json:"enemies"`
}

// Exit is one doorway out of a materialized room. Target is the placeholder
// room name shown to the player; Room is filled in on first traversal and
// memoized so the same exit always leads to the same room within a session.
type Exit struct {
	Target string
	Room   *Room // nil until traversed
}

// MarshalJSON flattens an exit back to its placeholder name. Resolved
// neighbors are session-scoped and deliberately not persisted.
func (e *Exit) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Target)
}

// UnmarshalJSON accepts the flattened placeholder form.
func (e *Exit) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &e.Target)
}

// RoomRef is a tagged reference to the player's current room: fixed rooms
// travel by name, generated rooms by embedded object.
type RoomRef struct {
	Name string // set for fixed rooms
	Gen  *Room  // set for generated rooms
}

// FixedRef returns a RoomRef pointing at a fixed room by name.
func FixedRef(name string) RoomRef { return RoomRef{Name: name} }

// GenRef returns a RoomRef holding a generated room.
func GenRef(r *Room) RoomRef { return RoomRef{Gen: r} }

// IsGenerated reports whether the reference holds a generated room.
func (r RoomRef) IsGenerated() bool { return r.Gen != nil }

// Display returns the player-facing name of the referenced room.
func (r RoomRef) Display() string {
	if r.Gen != nil {
		return r.Gen.Name
	}
	return r.Name
}

// MarshalJSON writes a fixed reference as a bare string and a generated
// reference as the embedded room object.
func (r RoomRef) MarshalJSON() ([]byte, error) {
	if r.Gen != nil {
		return json.Marshal(r.Gen)
	}
	return json.Marshal(r.Name)
}

// UnmarshalJSON accepts either form.
func (r *RoomRef) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		r.Name = name
		r.Gen = nil
		return nil
	}
	var room Room
	if err := json.Unmarshal(data, &room); err != nil {
		return fmt.Errorf("room reference is neither a name nor a room: %w", err)
	}
	r.Name = ""
	r.Gen = &room
	return nil
}

// Player holds the persistent player profile.
type Player struct {
	Name       string   `json:"name"`
	Room       RoomRef  `json:"room"`
	Essence    int      `json:"essence"`
	Level      int      `json:"level"`
	Experience int      `json:"experience"`
	Souls      int      `json:"souls"`
	Inventory  []string `json:"inventory"`
	Uniques    []string `json:"uniques"`
	Abilities  []string `json:"abilities"` // learned ability names
	From       string   `json:"from"`      // last movement direction
	Defending  bool     `json:"-"`         // transient combat flag
}

// Input phases. Exactly one input line is consumed per Step while a phase
// is active, keeping every prompt a single suspension point.
const (
	PhaseAction        = "action"
	PhaseAbilitySelect = "ability_select"
	PhaseLeaveConfirm  = "leave_confirm" // store exit confirmation, outside combat
)

// CombatState is the transient state of one encounter. It is zeroed when
// the encounter ends; nothing survives across encounters.
type CombatState struct {
	Active        bool
	Phase         string
	EnemyName     string
	EnemyHealth   int
	EnemyLevel    int
	EnemyDamage   int
	Stunned       int // remaining enemy turns to skip
	UsedAbilities map[string]bool
	RoundCount    int
}

// State is the complete mutable game state for one session.
type State struct {
	Player      Player
	Combat      CombatState
	Pending     string // non-combat input phase, e.g. PhaseLeaveConfirm
	PendingExit string // exit awaiting store-leave confirmation
	TurnCount   int
	RNGSeed     int64
	RNGPosition int64
}

// GameDef holds game metadata from Lua.
type GameDef struct {
	Title   string
	Author  string
	Version string
	Start   string // starting fixed room
	Respawn string // safe room after defeat
	Store   string // shop room, exit requires confirmation
	Intro   string
}
