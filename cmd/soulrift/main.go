// Soulrift is a procedurally generated terminal adventure.
// Usage: soulrift [--version] [--plain] [--script <file>] [--trace]
//
//	[--config <file>] [--name <player>] [--seed <n>] [content_directory]
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nathoo/soulrift/cli"
	"github.com/nathoo/soulrift/config"
	"github.com/nathoo/soulrift/engine"
	"github.com/nathoo/soulrift/engine/save"
	"github.com/nathoo/soulrift/engine/state"
	"github.com/nathoo/soulrift/loader"
	"github.com/nathoo/soulrift/logger"
	"github.com/nathoo/soulrift/sound"
	"github.com/nathoo/soulrift/tui"
	"github.com/nathoo/soulrift/types"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	plain := false
	trace := false
	var contentDir string
	var scriptFile string
	var configFile string
	var playerName string
	var seedOverride int64

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("soulrift %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--script":
			scriptFile = flagValue(args, &i, "--script")
		case "--config":
			configFile = flagValue(args, &i, "--config")
		case "--name":
			playerName = flagValue(args, &i, "--name")
		case "--seed":
			v := flagValue(args, &i, "--seed")
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "--seed requires an integer\n")
				os.Exit(1)
			}
			seedOverride = n
		default:
			if contentDir == "" {
				contentDir = args[i]
			}
		}
	}

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	logger.Initialize(cfg.Log)

	if contentDir == "" {
		contentDir = cfg.ContentDir
	}
	if seedOverride != 0 {
		cfg.Seed = seedOverride
	}

	defs, err := loader.Load(contentDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading game content: %v\n", err)
		os.Exit(1)
	}
	logger.Info("content loaded",
		"rooms", len(defs.Rooms), "items", len(defs.Items),
		"enemies", len(defs.Enemies), "abilities", len(defs.Abilities))

	store := save.NewFileStore(filepath.Join(cfg.SaveDir, "profile.json"))
	st, err := loadOrCreate(store, defs, cfg, playerName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	eng := engine.New(defs, st, store)
	audio := sound.Player(sound.Nop{})

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		c := cli.New(eng, audio)
		c.In = f
		c.EchoInput = true
		c.Trace = trace
		c.Run()
		return
	}

	// Use plain CLI if configured, flagged, or stdout is not a terminal.
	if plain || cfg.Plain || !isTerminal() {
		c := cli.New(eng, audio)
		c.Trace = trace
		c.Run()
		return
	}

	if err := tui.Run(eng, audio); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadOrCreate restores the existing profile or creates a fresh one,
// prompting for a character name when none was supplied.
func loadOrCreate(store save.Store, defs *state.Defs, cfg *config.Config, name string) (*types.State, error) {
	sd, err := store.Load()
	if err == nil {
		st := &types.State{}
		save.Apply(st, sd)
		logger.Info("profile loaded", "player", st.Player.Name, "turn", st.TurnCount)
		return st, nil
	}
	if !errors.Is(err, save.ErrNoProfile) {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	if name == "" {
		name = promptName()
	}

	st := state.NewState(defs, name)
	st.RNGSeed = cfg.Seed
	if st.RNGSeed == 0 {
		st.RNGSeed = time.Now().UnixNano()
	}
	logger.Info("new profile", "player", name, "seed", st.RNGSeed)
	return st, nil
}

// promptName asks for a character name on stdin before any UI starts.
func promptName() string {
	fmt.Print("Name your wanderer: ")
	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			return name
		}
	}
	return "Wanderer"
}

// flagValue returns the value following a flag, advancing the index.
func flagValue(args []string, i *int, flag string) string {
	if *i+1 >= len(args) {
		fmt.Fprintf(os.Stderr, "%s requires a value\n", flag)
		os.Exit(1)
	}
	*i++
	return args[*i]
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
