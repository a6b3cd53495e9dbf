package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/soulrift/engine/state"
)

const essenceBarWidth = 10

// essenceBar renders a fixed-width bar of the player's essence, green when
// healthy and red when below a third.
func essenceBar(essence int) string {
	if essence < 0 {
		essence = 0
	}
	filled := essence * essenceBarWidth / state.EssenceMax
	if filled > essenceBarWidth {
		filled = essenceBarWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", essenceBarWidth-filled)

	if essence*3 < state.EssenceMax {
		return styleEssenceLow.Render(bar)
	}
	return styleEssenceHigh.Render(bar)
}

// renderStatusBar produces a full-width inverted status line: character
// vitals on the left, location and turn count on the right. During combat
// the enemy's remaining health replaces the location.
func (m Model) renderStatusBar() string {
	s := m.engine.State
	p := s.Player

	left := fmt.Sprintf(" %s  Lv %d  %s %d/%d  XP %d/%d  Souls %d",
		p.Name, p.Level,
		essenceBar(p.Essence), p.Essence, state.EssenceMax,
		p.Experience, p.Level*state.XPFactor,
		p.Souls)

	var right string
	if s.Combat.Active {
		right = fmt.Sprintf("Fighting %s (%d hp) | T:%d ",
			s.Combat.EnemyName, s.Combat.EnemyHealth, s.TurnCount)
	} else {
		right = fmt.Sprintf("%s | T:%d ", p.Room.Display(), s.TurnCount)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
