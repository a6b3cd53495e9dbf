package tui

import (
	"strings"
	"testing"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"You see: Ember Shard, Ashen Tome", kindYouSee},
		{"Exits: north, south", kindExits},
		{"Enemies: Hollow Shade (level 1)", kindEnemies},
		{"You hit shade for 3 damage!", kindCombat},
		{"Critical hit! You hit shade for 7 damage!", kindCombat},
		{"You missed!", kindCombat},
		{"shade's turn!", kindCombat},
		{"shade is stunned and cannot attack!", kindCombat},
		{"You have died.", kindCombat},
		{"You have defeated shade. +25 experience and +10 souls", kindReward},
		{"You have reached level 2! Your essence is restored.", kindReward},
		{"[trace] Events: 2", kindTrace},
		{"[Goodbye.]", kindSystem},
		{"You can't go that way.", kindError},
		{"I don't see that here.", kindError},
		{"You don't have that item.", kindError},
		{"Grey ash drifts from a ceiling you cannot see.", kindNarrative},
		{"", kindNarrative},
	}
	for _, tt := range tests {
		if got := classifyLine(tt.line); got != tt.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short line", 80, "short line"},
		{"one two three four", 7, "one two\nthree\nfour"},
		{"exactly ten", 11, "exactly ten"},
		{"", 10, ""},
	}
	for _, tt := range tests {
		if got := wordWrap(tt.text, tt.width); got != tt.want {
			t.Errorf("wordWrap(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestWordWrap_NeverExceedsWidth(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog again and again"
	for _, width := range []int{10, 20, 35} {
		for _, line := range strings.Split(wordWrap(text, width), "\n") {
			if len(line) > width {
				t.Errorf("width %d: line %q too long", width, line)
			}
		}
	}
}

func TestEssenceBar(t *testing.T) {
	full := essenceBar(100)
	if !strings.Contains(full, strings.Repeat("█", 10)) {
		t.Errorf("full bar = %q", full)
	}
	empty := essenceBar(0)
	if !strings.Contains(empty, strings.Repeat("░", 10)) {
		t.Errorf("empty bar = %q", empty)
	}
	if negative := essenceBar(-5); !strings.Contains(negative, strings.Repeat("░", 10)) {
		t.Errorf("negative bar = %q", negative)
	}
}

func TestHistory_Navigation(t *testing.T) {
	h := NewHistory(3)
	h.Push("look")
	h.Push("move north")
	h.Push("fight shade")

	if prev, _ := h.Prev(); prev != "fight shade" {
		t.Errorf("Prev = %q", prev)
	}
	if prev, _ := h.Prev(); prev != "move north" {
		t.Errorf("Prev = %q", prev)
	}
	if next, _ := h.Next(); next != "fight shade" {
		t.Errorf("Next = %q", next)
	}
	if _, ok := h.Next(); ok {
		t.Error("Next past the end should report false")
	}
}

func TestHistory_SkipsConsecutiveDuplicates(t *testing.T) {
	h := NewHistory(10)
	h.Push("hit")
	h.Push("hit")
	h.Push("hit")
	if len(h.entries) != 1 {
		t.Errorf("entries = %v", h.entries)
	}
}

func TestHistory_BoundedSize(t *testing.T) {
	h := NewHistory(2)
	h.Push("a")
	h.Push("b")
	h.Push("c")
	if len(h.entries) != 2 || h.entries[0] != "b" {
		t.Errorf("entries = %v", h.entries)
	}
}
