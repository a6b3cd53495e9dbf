package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/soulrift/engine/state"
	"github.com/nathoo/soulrift/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Known effect types.
var validEffectTypes = map[string]bool{
	"heal":       true,
	"damage":     true,
	"experience": true,
	"stun":       true,
	"move":       true,
	"level":      true,
}

// Known cost resources.
var validCostTypes = map[string]bool{
	"essence": true,
	"souls":   true,
}

// validate checks the compiled defs for referential integrity and
// consistency. All problems are reported at once.
func validate(defs *state.Defs) error {
	ve := &ValidationError{}

	if defs.Game.Title == "" {
		ve.Errors = append(ve.Errors, "Game.title is required")
	}
	requireRoom(defs, ve, "start", defs.Game.Start, true)
	requireRoom(defs, ve, "respawn", defs.Game.Respawn, true)
	requireRoom(defs, ve, "store", defs.Game.Store, false)

	for roomID, room := range defs.Rooms {
		for dir, target := range room.Exits {
			if target == "random" {
				continue
			}
			if _, ok := defs.Rooms[target]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"room %q exit %q points to undefined room %q", roomID, dir, target))
			}
		}
		for _, item := range room.Items {
			if _, ok := defs.Items[item]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"room %q lists undefined item %q", roomID, item))
			}
		}
		for _, enemy := range room.Enemies {
			if _, ok := defs.Enemies[enemy]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"room %q lists undefined enemy %q", roomID, enemy))
			}
		}
	}

	for itemID, item := range defs.Items {
		if item.Rarity < 0 || item.Rarity > 1 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"item %q rarity %v outside [0, 1]", itemID, item.Rarity))
		}
		validateEffect(defs, ve, fmt.Sprintf("item %q", itemID), item.Effect)
		validateCosts(ve, fmt.Sprintf("item %q", itemID), item.Cost)
		if item.InteractOnly && item.Interact == "" {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"item %q is interact_only but has no interact text", itemID))
		}
	}

	for enemyID, enemy := range defs.Enemies {
		if enemy.Spawn < 0 || enemy.Spawn > 1 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"enemy %q spawn %v outside [0, 1]", enemyID, enemy.Spawn))
		}
		if enemy.Health < 1 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"enemy %q health must be at least 1", enemyID))
		}
		if enemy.Level < 1 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"enemy %q level must be at least 1", enemyID))
		}
		if enemy.Damage < 1 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"enemy %q damage must be at least 1", enemyID))
		}
		for _, sp := range enemy.Specials {
			eff := sp.Effect
			validateEffect(defs, ve, fmt.Sprintf("enemy %q special %q", enemyID, sp.Name), &eff)
		}
	}

	for abilityID, ability := range defs.Abilities {
		eff := ability.Effect
		validateEffect(defs, ve, fmt.Sprintf("ability %q", abilityID), &eff)
		validateCosts(ve, fmt.Sprintf("ability %q", abilityID), ability.Cost)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// requireRoom checks a Game room reference. Required references must be set
// and defined; optional ones need only be defined when set.
func requireRoom(defs *state.Defs, ve *ValidationError, field, name string, required bool) {
	if name == "" {
		if required {
			ve.Errors = append(ve.Errors, fmt.Sprintf("Game.%s is required", field))
		}
		return
	}
	if _, ok := defs.Rooms[name]; !ok {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"%s room %q not found in defined rooms", field, name))
	}
}

func validateEffect(defs *state.Defs, ve *ValidationError, owner string, eff *types.Effect) {
	if eff == nil {
		return
	}
	if !validEffectTypes[eff.Type] {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"%s has unknown effect type %q", owner, eff.Type))
		return
	}
	if eff.Type == "move" {
		if _, ok := defs.Rooms[eff.Target]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"%s move effect targets undefined room %q", owner, eff.Target))
		}
		return
	}
	if eff.Value <= 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"%s effect %q needs a positive value", owner, eff.Type))
	}
}

func validateCosts(ve *ValidationError, owner string, costs []types.Cost) {
	for _, c := range costs {
		if !validCostTypes[c.Type] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"%s has unknown cost type %q", owner, c.Type))
		}
		if c.Value < 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"%s cost %q is negative", owner, c.Type))
		}
	}
}
