// Package effects applies item and ability effects to the player profile.
// Damage-typed effects are returned to the caller rather than applied,
// since only the combat engine knows the current enemy.
package effects

import (
	"fmt"

	"github.com/nathoo/soulrift/engine/state"
	"github.com/nathoo/soulrift/types"
)

// Outcome reports one item or ability application.
type Outcome struct {
	Name   string        // canonical name from the content tables
	Effect *types.Effect // declared effect; damage/stun left for the caller
	Output []string
	OK     bool // false: invalid use, no state changed, turn not consumed
}

// UseItem resolves an inventory item by name and applies its effect.
// Heal and experience effects mutate the player directly; damage effects
// are returned for the combat engine. Consumables leave the inventory and
// declared costs are deducted. An unknown, absent, or effect-less item
// produces an OK=false outcome with a user-facing message and no mutation.
func UseItem(s *types.State, defs *state.Defs, name string) Outcome {
	key, def, found := defs.FindItem(name)
	if !found || !state.HasItem(s, key) {
		return Outcome{Output: []string{"You don't have that item."}}
	}
	if def.Effect == nil {
		return Outcome{Output: []string{"You can't use that item."}}
	}

	out := Outcome{Name: key, Effect: def.Effect, OK: true}
	out.Output = append(out.Output, fmt.Sprintf("You used %s.", key))
	if def.Use != "" {
		out.Output = append(out.Output, def.Use)
	}

	if def.Type == "consumable" {
		state.RemoveItem(s, key)
	}

	switch def.Effect.Type {
	case "heal":
		s.Player.Essence += def.Effect.Value
		state.ClampEssence(s)
		out.Output = append(out.Output, fmt.Sprintf("You recover %d essence.", def.Effect.Value))
	case "experience":
		s.Player.Experience += def.Effect.Value
		out.Output = append(out.Output, fmt.Sprintf("You gain %d experience.", def.Effect.Value))
	case "level":
		s.Player.Level += def.Effect.Value
		s.Player.Essence = state.EssenceMax
		out.Output = append(out.Output,
			fmt.Sprintf("You have reached level %d! Your essence is restored.", s.Player.Level))
	case "damage":
		// Applied by the combat engine against the current enemy.
	}

	ApplyCosts(s, def.Cost)
	return out
}

// UseAbility applies a learned ability. Heal mutates the player; damage and
// stun are returned for the combat engine. Costs are always deducted on a
// successful use.
func UseAbility(s *types.State, defs *state.Defs, name string) Outcome {
	key, def, found := defs.FindAbility(name)
	if !found || !state.HasAbility(s, key) {
		return Outcome{Output: []string{"You don't know that ability."}}
	}

	out := Outcome{Name: key, Effect: &def.Effect, OK: true}
	out.Output = append(out.Output, fmt.Sprintf("You use %s.", key))
	if def.Use != "" {
		out.Output = append(out.Output, def.Use)
	}

	if def.Effect.Type == "heal" {
		s.Player.Essence += def.Effect.Value
		state.ClampEssence(s)
		out.Output = append(out.Output, fmt.Sprintf("You recover %d essence.", def.Effect.Value))
	}

	ApplyCosts(s, def.Cost)
	return out
}

// ApplyCosts deducts declared resource costs from the player.
func ApplyCosts(s *types.State, costs []types.Cost) {
	for _, c := range costs {
		switch c.Type {
		case "essence":
			s.Player.Essence -= c.Value
			if s.Player.Essence < 0 {
				s.Player.Essence = 0
			}
		case "souls":
			s.Player.Souls -= c.Value
			if s.Player.Souls < 0 {
				s.Player.Souls = 0
			}
		}
	}
}
