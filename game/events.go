package game

// Events produced by the world for the broadcaster to serialize and fan out.
// Each event is self-contained so consumers never reach back into world state.

type Event any

type GameStarted struct {
	PlayerCount int
}

// PlayerView is a read-only copy of one player for a snapshot.
type PlayerView struct {
	Id         int
	State      PlayerState
	X, Y       float64
	Score      int
	Jetpacking bool
}

// SnapshotTaken carries every player's view, sorted by id.
type SnapshotTaken struct {
	Players []PlayerView
}

type CoinCollected struct {
	PlayerId int
	X, Y     int
	Score    int
	State    CoinState
}

type PlayerDied struct {
	PlayerId int
}

type GameEnded struct {
	HasWinner bool
	WinnerId  int
}

// RoundReset follows GameEnded once the world is back to waiting; the server
// closes every session when it sees this.
type RoundReset struct{}
