package game

type PlayerState uint8

const (
	StateConnected PlayerState = iota
	StateReady
	StatePlaying
	StateDead
	StateFinished
	StateDisconnected
)

func (s PlayerState) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StateDead:
		return "dead"
	case StateFinished:
		return "finished"
	case StateDisconnected:
		return "disconnected"
	default:
		return "invalid"
	}
}

// Player is the authoritative per-session entity. Position is continuous in
// map-cell units; the world owns every mutation.
type Player struct {
	Id         int
	X, Y       float64
	VelocityY  float64
	Jetpacking bool
	Score      int
	State      PlayerState
}

// Active reports whether the player is still part of the running round.
func (p *Player) Active() bool {
	return p.State == StateReady || p.State == StatePlaying
}
