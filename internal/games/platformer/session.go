package platformer

import "github.com/vovakirdan/tui-platformer/internal/engine"

// State is the session lifecycle: Loading -> Playing -> {Won, reset back to Playing}.
type State int

const (
	StateLoading State = iota
	StatePlaying
	StateWon
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StateWon:
		return "won"
	default:
		return "unknown"
	}
}

// session is everything a death throws away. A reset replaces it wholesale
// with a freshly initialized one.
type session struct {
	world  *engine.World
	player *engine.Sprite

	score   int
	stomps  int
	elapsed float64 // seconds of simulated time
}

// Stats are counters kept across resets for the whole run.
type Stats struct {
	Deaths     int // resets caused by lava or an enemy
	Stomps     int // enemies defeated, all sessions
	Ticks      int // steps simulated, all sessions
	WedgedHits int // enemy wall hits that touched both sides at once
}
