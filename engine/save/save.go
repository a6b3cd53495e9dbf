// Package save implements JSON serialization of the player profile and the
// Store interface the engine checkpoints through.
package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nathoo/soulrift/types"
)

// SaveData is the JSON-serializable player record. One record per player;
// no migration or versioning beyond the informational version string.
type SaveData struct {
	Version     string       `json:"version"`
	Game        string       `json:"game"`
	Turn        int          `json:"turn"`
	Player      types.Player `json:"player"`
	RNGSeed     int64        `json:"rng_seed"`
	RNGPosition int64        `json:"rng_position"`
}

// Store is the persistence boundary. Every engine mutation is followed by a
// Save before the next suspension point; a failed Save must not be treated
// as applied.
type Store interface {
	Load() (*SaveData, error)
	Save(*SaveData) error
}

// ErrNoProfile is returned by Load when no profile exists yet.
var ErrNoProfile = errors.New("no player profile")

// Snapshot captures the persistent fields of a state into a SaveData.
func Snapshot(s *types.State, game types.GameDef) *SaveData {
	return &SaveData{
		Version:     game.Version,
		Game:        game.Title,
		Turn:        s.TurnCount,
		Player:      s.Player,
		RNGSeed:     s.RNGSeed,
		RNGPosition: s.RNGPosition,
	}
}

// Apply writes loaded save data onto a state.
func Apply(s *types.State, sd *SaveData) {
	s.Player = sd.Player
	s.TurnCount = sd.Turn
	s.RNGSeed = sd.RNGSeed
	s.RNGPosition = sd.RNGPosition
	// Maps and slices must never be nil after load.
	if s.Player.Inventory == nil {
		s.Player.Inventory = []string{}
	}
	if s.Player.Uniques == nil {
		s.Player.Uniques = []string{}
	}
	if s.Player.Abilities == nil {
		s.Player.Abilities = []string{}
	}
}

// Marshal serializes a save record as indented JSON.
func Marshal(sd *SaveData) ([]byte, error) {
	return json.MarshalIndent(sd, "", "  ")
}

// Unmarshal parses a save record from JSON bytes.
func Unmarshal(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	return &sd, nil
}

// FileStore persists the profile as one JSON file, written atomically
// (temp file + rename) so a crash mid-write never corrupts the record.
type FileStore struct {
	Path string
}

// NewFileStore creates a store writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads and parses the profile. Returns ErrNoProfile if absent.
func (f *FileStore) Load() (*SaveData, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoProfile
		}
		return nil, fmt.Errorf("reading profile %s: %w", f.Path, err)
	}
	sd, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", f.Path, err)
	}
	return sd, nil
}

// Save writes the profile atomically.
func (f *FileStore) Save(sd *SaveData) error {
	data, err := Marshal(sd)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating save directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".profile-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing profile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing profile: %w", err)
	}
	if err := os.Rename(tmpName, f.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing profile: %w", err)
	}
	return nil
}
