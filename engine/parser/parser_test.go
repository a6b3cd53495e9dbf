package parser

import (
	"testing"

	"github.com/nathoo/soulrift/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  types.Intent
	}{
		{"look", types.Intent{Verb: "look"}},
		{"examine altar", types.Intent{Verb: "look", Object: "altar"}},
		{"ls", types.Intent{Verb: "look"}},
		{"go north", types.Intent{Verb: "move", Object: "north"}},
		{"walk east", types.Intent{Verb: "move", Object: "east"}},
		{"cd south", types.Intent{Verb: "move", Object: "south"}},
		{"n", types.Intent{Verb: "move", Object: "north"}},
		{"WEST", types.Intent{Verb: "move", Object: "west"}},
		{"attack shade", types.Intent{Verb: "fight", Object: "shade"}},
		{"kill grave warden", types.Intent{Verb: "fight", Object: "grave warden"}},
		{"get ember shard", types.Intent{Verb: "take", Object: "ember shard"}},
		{"grab tonic", types.Intent{Verb: "take", Object: "tonic"}},
		{"i", types.Intent{Verb: "inventory"}},
		{"inv", types.Intent{Verb: "inventory"}},
		{"buy ashen tome", types.Intent{Verb: "store", Object: "buy ashen tome"}},
		{"store view", types.Intent{Verb: "store", Object: "view"}},
		{"use  Ember   Shard", types.Intent{Verb: "use", Object: "ember shard"}},
		{"", types.Intent{}},
		{"   ", types.Intent{}},
		{"dance wildly", types.Intent{Verb: "dance", Object: "wildly"}},
	}
	for _, tt := range tests {
		if got := Parse(tt.input); got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}
