// Package sound defines the audio cue interface the frontends drive from
// engine events. The default implementation is silent; a real backend can
// be swapped in without touching the engine.
package sound

// Cue names emitted by the engine.
const (
	CueFootsteps = "footsteps"
	CueCombat    = "combat"
	CueHit       = "hit"
	CueMiss      = "miss"
	CueLevelUp   = "levelup"
	CueFadeout   = "fadeout"
	CueDeath     = "death"
)

// Player plays audio cues. Play with loop keeps the cue running until
// FadeOut or Stop.
type Player interface {
	Play(cue string, loop bool)
	FadeOut()
	Stop()
}

// Nop is a Player that does nothing.
type Nop struct{}

func (Nop) Play(cue string, loop bool) {}
func (Nop) FadeOut()                   {}
func (Nop) Stop()                      {}

// Dispatch routes an engine sound event to a player. Returns false for
// cues the player was not asked to handle.
func Dispatch(p Player, cue string, loop bool) bool {
	if p == nil {
		return false
	}
	switch cue {
	case CueFadeout:
		p.FadeOut()
	case CueFootsteps, CueCombat, CueHit, CueMiss, CueLevelUp, CueDeath:
		p.Play(cue, loop)
	default:
		return false
	}
	return true
}
