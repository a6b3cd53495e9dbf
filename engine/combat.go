package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/nathoo/soulrift/engine/effects"
	"github.com/nathoo/soulrift/engine/state"
	"github.com/nathoo/soulrift/types"
)

// Combat tuning constants. Miss always wins over critical: a missed attack
// deals zero damage even when the critical roll also fired.
const (
	missChance     = 0.05
	critChance     = 0.08
	critMultiplier = 1.4
	specialChance  = 0.2 // enemy chance to use a special instead of a hit
	fleeFactor     = 0.4
	fleeThreshold  = 0.5
)

// beginFight validates the target and opens an encounter. A name that does
// not match an enemy in the current room leaves all state untouched.
func (e *Engine) beginFight(target string) types.Result {
	var result types.Result

	if target == "" {
		result.Output = append(result.Output, "You need to specify an enemy to fight.")
		return result
	}

	room := e.Sess.CurrentRoom(e.Defs)
	if room == nil {
		result.Output = append(result.Output, "There is nothing to fight here.")
		return result
	}

	key, def, found := e.Defs.FindEnemy(target)
	if !found || !room.Enemies[key] {
		result.Output = append(result.Output, "I don't see that enemy here.")
		return result
	}

	e.State.Combat = types.CombatState{
		Active:        true,
		Phase:         types.PhaseAction,
		EnemyName:     key,
		EnemyHealth:   def.Health,
		EnemyLevel:    def.Level,
		EnemyDamage:   def.Damage,
		UsedAbilities: map[string]bool{},
	}
	e.State.Player.Defending = false

	result.Events = append(result.Events, soundEvent("combat", true))
	result.Output = append(result.Output,
		fmt.Sprintf("You are fighting %s!", key),
		"",
		"Your turn! (hit, defend, use <item>, abilities, flee)")
	return result
}

// stepCombat consumes one input line of an active encounter: the player's
// action (or ability selection), then, if the action ended the turn, the
// full enemy resolution and defeat checks. Player-turn effects are
// checkpointed before the enemy acts.
func (e *Engine) stepCombat(input string) types.Result {
	var result types.Result

	var turnEnded bool
	if e.State.Combat.Phase == types.PhaseAbilitySelect {
		turnEnded = e.resolveAbilitySelect(input, &result)
	} else {
		turnEnded = e.resolvePlayerAction(input, &result)
	}
	if !turnEnded || !e.State.Combat.Active {
		return result
	}

	// Victory check before the enemy moves.
	if e.State.Combat.EnemyHealth <= 0 {
		e.winEncounter(&result)
		return result
	}

	// Player-turn effects must reach the store before the enemy acts.
	if err := e.checkpoint(); err != nil {
		result.Err = err
		result.Output = append(result.Output, saveFailedLine)
		return result
	}

	e.enemyTurn(&result)

	if e.State.Combat.Active {
		e.State.Combat.RoundCount++
		result.Output = append(result.Output, "", "Your turn!")
	}
	return result
}

// resolvePlayerAction handles one action attempt. Returns true when the
// action consumed the player's turn; false re-prompts without the enemy
// acting.
func (e *Engine) resolvePlayerAction(input string, result *types.Result) bool {
	action := strings.TrimSpace(strings.ToLower(input))
	args := strings.Fields(action)
	if len(args) == 0 {
		result.Output = append(result.Output, "Invalid action.")
		return false
	}

	// A new action attempt drops last round's guard.
	e.State.Player.Defending = false

	c := &e.State.Combat

	switch args[0] {
	case "help":
		result.Output = append(result.Output, combatHelp()...)
		return false

	case "hit":
		crit := e.RNG.Chance(critChance)
		miss := e.RNG.Chance(missChance)
		damage := e.RNG.Roll(e.State.Player.Level)
		switch {
		case miss:
			damage = 0
			result.Events = append(result.Events, soundEvent("miss", false))
			result.Output = append(result.Output, "You missed!")
		case crit:
			damage = int(math.Floor(float64(damage) * critMultiplier))
			result.Events = append(result.Events, soundEvent("hit", false))
			result.Output = append(result.Output,
				fmt.Sprintf("Critical hit! You hit %s for %d damage!", c.EnemyName, damage))
		default:
			result.Events = append(result.Events, soundEvent("hit", false))
			result.Output = append(result.Output,
				fmt.Sprintf("You hit %s for %d damage!", c.EnemyName, damage))
		}
		c.EnemyHealth -= damage
		return true

	case "defend":
		e.State.Player.Defending = true
		result.Output = append(result.Output, "You brace yourself for the next attack.")
		return true

	case "use":
		if len(args) < 2 {
			result.Output = append(result.Output, "You need to specify something to use.")
			return false
		}
		out := effects.UseItem(e.State, e.Defs, strings.Join(args[1:], " "))
		result.Output = append(result.Output, out.Output...)
		if !out.OK {
			return false
		}
		if out.Effect.Type == "damage" {
			c.EnemyHealth -= out.Effect.Value
			result.Output = append(result.Output,
				fmt.Sprintf("You hit %s for %d damage!", c.EnemyName, out.Effect.Value))
		}
		e.maybeLevelUp(result)
		return true

	case "abilities":
		available := e.learnedAbilities()
		if len(available) == 0 {
			result.Output = append(result.Output, "You don't know any abilities.")
			return false
		}
		result.Output = append(result.Output, "Choose an ability (or 'cancel'):")
		for i, name := range available {
			def := e.Defs.Abilities[name]
			result.Output = append(result.Output, fmt.Sprintf("  %d. %s - %s", i+1, name, def.Description))
		}
		c.Phase = types.PhaseAbilitySelect
		return false

	case "flee", "run":
		result.Output = append(result.Output, "You attempt to flee from the battle.")
		diff := float64(e.State.Player.Level - c.EnemyLevel + 1)
		if e.RNG.Float64()*diff*fleeFactor > fleeThreshold {
			e.State.Combat = types.CombatState{}
			result.Events = append(result.Events, soundEvent("fadeout", false), types.Event{Type: "fled"})
			result.Output = append(result.Output,
				"You successfully fled from the battle!", "", "What will you do now?")
			return false
		}
		result.Output = append(result.Output, "You failed to flee from the battle.")
		return true

	default:
		result.Output = append(result.Output, "Invalid action.")
		return false
	}
}

// resolveAbilitySelect interprets the line after an "abilities" prompt as a
// selection by number or name. Reusing an ability within the encounter is
// rejected with a warning and does not consume the turn.
func (e *Engine) resolveAbilitySelect(input string, result *types.Result) bool {
	c := &e.State.Combat
	c.Phase = types.PhaseAction

	choice := strings.TrimSpace(strings.ToLower(input))
	if choice == "" || choice == "cancel" || choice == "back" {
		result.Output = append(result.Output, "You lower your hand.")
		return false
	}

	available := e.learnedAbilities()
	var name string
	if n, err := parseIndex(choice); err == nil && n >= 1 && n <= len(available) {
		name = available[n-1]
	} else {
		for _, a := range available {
			if strings.ToLower(a) == choice {
				name = a
				break
			}
		}
	}
	if name == "" {
		result.Output = append(result.Output, "No such ability.")
		return false
	}

	if c.UsedAbilities[name] {
		result.Output = append(result.Output, "You have already used that ability once.")
		return false
	}

	out := effects.UseAbility(e.State, e.Defs, name)
	result.Output = append(result.Output, out.Output...)
	if !out.OK {
		return false
	}
	c.UsedAbilities[name] = true

	switch out.Effect.Type {
	case "damage":
		c.EnemyHealth -= out.Effect.Value
		result.Output = append(result.Output,
			fmt.Sprintf("You hit %s for %d damage!", c.EnemyName, out.Effect.Value))
	case "stun":
		c.Stunned = out.Effect.Value
		result.Output = append(result.Output,
			fmt.Sprintf("%s is stunned!", c.EnemyName))
	}
	return true
}

// enemyTurn resolves the enemy's action and the player defeat check.
// A stunned enemy skips the turn and the counter decrements.
func (e *Engine) enemyTurn(result *types.Result) {
	c := &e.State.Combat
	def, ok := e.Defs.Enemies[c.EnemyName]
	if !ok {
		// Content table changed under a live encounter; treat as fled enemy.
		e.State.Combat = types.CombatState{}
		result.Output = append(result.Output, "Your foe is nowhere to be seen.")
		return
	}

	result.Output = append(result.Output, "", fmt.Sprintf("%s's turn!", c.EnemyName))

	if c.Stunned > 0 {
		c.Stunned--
		result.Output = append(result.Output, fmt.Sprintf("%s is stunned and cannot attack!", c.EnemyName))
		// Ability costs can drain the player to zero on their own turn;
		// the defeat check still applies even when the enemy skips.
		if e.State.Player.Essence <= 0 {
			e.loseEncounter(result)
		}
		return
	}

	useSpecial := len(def.Specials) > 0 && e.RNG.Chance(specialChance)
	var crit bool
	if def.Criticals {
		crit = e.RNG.Chance(critChance)
	}
	miss := e.RNG.Chance(missChance)

	switch {
	case miss:
		result.Events = append(result.Events, soundEvent("miss", false))
		result.Output = append(result.Output, fmt.Sprintf("%s missed their attack!", c.EnemyName))

	case useSpecial:
		special := def.Specials[e.RNG.Intn(len(def.Specials))]
		result.Events = append(result.Events, soundEvent("hit", false))
		result.Output = append(result.Output,
			fmt.Sprintf("%s uses a special attack: %s", c.EnemyName, special.Name),
			special.Description)
		if special.Effect.Type == "damage" {
			damage := e.mitigate(special.Effect.Value, result)
			result.Output = append(result.Output, fmt.Sprintf("You take %d damage!", damage))
			e.State.Player.Essence -= damage
		}

	default:
		damage := e.RNG.Roll(c.EnemyDamage)
		if crit {
			damage = int(math.Floor(float64(damage) * critMultiplier))
		}
		damage = e.mitigate(damage, result)
		result.Events = append(result.Events, soundEvent("hit", false))
		if crit {
			result.Output = append(result.Output,
				fmt.Sprintf("%s lands a critical hit on you for %d damage!", c.EnemyName, damage))
		} else {
			result.Output = append(result.Output,
				fmt.Sprintf("%s hits you for %d damage!", c.EnemyName, damage))
		}
		e.State.Player.Essence -= damage
	}

	if e.State.Player.Essence <= 0 {
		e.loseEncounter(result)
	}
}

// mitigate halves incoming damage (floor) when the player is defending,
// consuming the guard.
func (e *Engine) mitigate(damage int, result *types.Result) int {
	if !e.State.Player.Defending {
		return damage
	}
	e.State.Player.Defending = false
	result.Output = append(result.Output, "Your guard absorbs part of the blow.")
	return damage / 2
}

// winEncounter grants rewards, removes the enemy from the room, and closes
// the encounter.
func (e *Engine) winEncounter(result *types.Result) {
	c := e.State.Combat
	def := e.Defs.Enemies[c.EnemyName]

	e.State.Player.Experience += def.Experience
	e.State.Player.Souls += def.Souls
	if room := e.Sess.CurrentRoom(e.Defs); room != nil {
		delete(room.Enemies, c.EnemyName)
	}
	e.State.Combat = types.CombatState{}

	result.Events = append(result.Events,
		soundEvent("fadeout", false),
		types.Event{Type: "victory", Data: map[string]any{"enemy": c.EnemyName}})
	result.Output = append(result.Output,
		fmt.Sprintf("You have defeated %s. +%d experience and +%d souls",
			c.EnemyName, def.Experience, def.Souls),
		"", "What will you do now?")

	e.maybeLevelUp(result)

	if err := e.checkpoint(); err != nil {
		result.Err = err
		result.Output = append(result.Output, saveFailedLine)
	}
}

// loseEncounter relocates the player to the respawn room with the essence
// floor restored.
func (e *Engine) loseEncounter(result *types.Result) {
	e.State.Combat = types.CombatState{}
	e.State.Player.Room = types.FixedRef(e.Defs.Game.Respawn)
	e.State.Player.Essence = state.EssenceFloor
	e.State.Player.From = ""

	result.Events = append(result.Events,
		types.Event{Type: "stop_music"},
		soundEvent("death", false),
		types.Event{Type: "defeated"})
	result.Output = append(result.Output, "You have died.")
	result.Output = append(result.Output, "")
	result.Output = append(result.Output, e.describeRoom()...)

	if err := e.checkpoint(); err != nil {
		result.Err = err
		result.Output = append(result.Output, saveFailedLine)
	}
}

// learnedAbilities returns the player's abilities in stable order.
func (e *Engine) learnedAbilities() []string {
	names := make([]string, 0, len(e.State.Player.Abilities))
	for _, a := range e.State.Player.Abilities {
		if _, ok := e.Defs.Abilities[a]; ok {
			names = append(names, a)
		}
	}
	sort.Strings(names)
	return names
}

func combatHelp() []string {
	return []string{
		"Combat commands:",
		"  hit          - Attack the enemy.",
		"  defend       - Brace against the enemy's next attack.",
		"  use <item>   - Use an item from your inventory.",
		"  abilities    - Choose a special ability (once each per fight).",
		"  flee / run   - Attempt to escape the battle.",
	}
}

// parseIndex parses a small positive integer without pulling in strconv
// error semantics for non-numeric ability names.
func parseIndex(s string) (int, error) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("not a number: %q", s)
		}
		n = n*10 + int(r-'0')
	}
	if len(s) == 0 {
		return 0, fmt.Errorf("empty")
	}
	return n, nil
}
