// Package parser converts command strings into Intent structs.
// Intentionally dumb: alias expansion and whitespace handling, no NLP.
package parser

import (
	"strings"

	"github.com/nathoo/soulrift/types"
)

var verbAliases = map[string]string{
	// Movement
	"go":   "move",
	"walk": "move",
	"exit": "move",
	"cd":   "move", // for the linux fellas

	// Look
	"examine": "look",
	"inspect": "look",
	"see":     "look",
	"check":   "look",
	"ls":      "look", // for the linux fellas

	// Combat
	"attack": "fight",
	"kill":   "fight",

	// Misc
	"inv":  "inventory",
	"i":    "inventory",
	"get":  "take",
	"grab": "take",
	"buy":  "store",
}

// Bare directions are shorthand for "move <direction>".
var directions = map[string]string{
	"n": "north", "s": "south", "e": "east", "w": "west",
	"north": "north", "south": "south", "east": "east", "west": "west",
}

// Parse converts a raw command string into an Intent.
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	words := strings.Fields(strings.ToLower(input))

	if len(words) == 1 {
		if dir, ok := directions[words[0]]; ok {
			return types.Intent{Verb: "move", Object: dir}
		}
	}

	verb := words[0]
	if alias, ok := verbAliases[verb]; ok {
		// "buy x" becomes "store buy x" so the store handler sees the action.
		if verb == "buy" {
			return types.Intent{Verb: "store", Object: strings.Join(append([]string{"buy"}, words[1:]...), " ")}
		}
		verb = alias
	}

	return types.Intent{
		Verb:   verb,
		Object: strings.Join(words[1:], " "),
	}
}
