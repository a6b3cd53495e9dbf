// Package tui provides a Bubble Tea terminal UI for Soulrift.
package tui

// History keeps recent commands for up/down-arrow recall. A cursor of
// len(entries) means the player is on the fresh input line, not browsing.
type History struct {
	entries []string
	max     int
	cursor  int
}

// NewHistory creates a history buffer holding at most max commands.
func NewHistory(max int) *History {
	return &History{max: max, cursor: 0}
}

// Push records a command, dropping the oldest entry past the cap.
// Repeating the previous command records nothing.
func (h *History) Push(cmd string) {
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		h.cursor = len(h.entries)
		return
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.max {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:len(h.entries)-1]
	}
	h.cursor = len(h.entries)
}

// Prev steps toward older entries. The false return means there is no
// history at all; browsing stops at the oldest entry.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.cursor > 0 {
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next steps toward newer entries, returning false once the cursor walks
// off the newest entry and the input line should go blank again.
func (h *History) Next() (string, bool) {
	if h.cursor >= len(h.entries) {
		return "", false
	}
	h.cursor++
	if h.cursor == len(h.entries) {
		return "", false
	}
	return h.entries[h.cursor], true
}

// ResetCursor returns the cursor to the fresh input line.
func (h *History) ResetCursor() {
	h.cursor = len(h.entries)
}
