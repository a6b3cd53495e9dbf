// Package cli provides the plain line-based interface for Soulrift, used
// for terminals without TUI support and for script playback.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/soulrift/engine"
	"github.com/nathoo/soulrift/logger"
	"github.com/nathoo/soulrift/sound"
	"github.com/nathoo/soulrift/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	Audio     sound.Player
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine, audio sound.Player) *CLI {
	if audio == nil {
		audio = sound.Nop{}
	}
	return &CLI{
		Engine: eng,
		Audio:  audio,
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// Run starts the game loop: intro, then prompt → input → dispatch → output
// until EOF or /quit.
func (c *CLI) Run() {
	for _, line := range c.Engine.Intro() {
		c.printLine(line)
	}

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				c.Audio.Stop()
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Engine.Step(input)
		if result.Err != nil {
			logger.Error("turn failed", "err", result.Err)
		}
		c.playEvents(result.Events)
		c.printResult(result)

		if c.Trace {
			c.printTrace(result)
		}
	}
}

// playEvents forwards engine events to the audio backend.
func (c *CLI) playEvents(events []types.Event) {
	for _, ev := range events {
		switch ev.Type {
		case "sound":
			cue, _ := ev.Data["cue"].(string)
			loop, _ := ev.Data["loop"].(bool)
			sound.Dispatch(c.Audio, cue, loop)
		case "stop_music":
			c.Audio.Stop()
		}
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /quit         — Exit game (progress saves automatically)",
		"  /help         — Show this help",
		"  /state        — Debug: dump current state",
		"  /trace        — Toggle debug trace output",
		"",
		"Game commands:",
		"  look (l)              — Describe the room",
		"  examine <thing> (x)   — Look closely at something",
		"  go/walk <dir>         — Move (or just type n/s/e/w)",
		"  take/get <item>       — Pick something up",
		"  interact <item>       — Interact with something",
		"  use <item>            — Use an item",
		"  fight/attack <enemy>  — Start a fight",
		"  inventory (i)         — Check what you're carrying",
		"  stats                 — Your character sheet",
		"  abilities             — Your learned abilities",
		"  store / buy <item>    — Trade in the store",
		"  again (g)             — Repeat your last command",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	s := c.Engine.State
	c.printSystem(fmt.Sprintf("Turn: %d", s.TurnCount))
	c.printSystem(fmt.Sprintf("Room: %s", s.Player.Room.Display()))
	c.printSystem(fmt.Sprintf("Essence: %d  Level: %d  XP: %d  Souls: %d",
		s.Player.Essence, s.Player.Level, s.Player.Experience, s.Player.Souls))
	c.printSystem(fmt.Sprintf("Inventory: %v", s.Player.Inventory))
	if s.Combat.Active {
		c.printSystem(fmt.Sprintf("Combat: %s hp=%d phase=%s round=%d",
			s.Combat.EnemyName, s.Combat.EnemyHealth, s.Combat.Phase, s.Combat.RoundCount))
	}
}

func (c *CLI) printTrace(result types.Result) {
	if len(result.Events) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			c.printSystem(fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
		}
	}
	c.printSystem(fmt.Sprintf("[trace] RNG position: %d", c.Engine.RNG.Position()))
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
