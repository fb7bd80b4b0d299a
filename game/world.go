package game

import (
	"sort"

	"go.uber.org/zap"
)

type GameState uint8

const (
	WaitingForPlayers GameState = iota
	InProgress
	GameOverState
)

func (s GameState) String() string {
	switch s {
	case WaitingForPlayers:
		return "waiting-for-players"
	case InProgress:
		return "in-progress"
	case GameOverState:
		return "game-over"
	default:
		return "invalid"
	}
}

// World is the authoritative game: the map, the player registry, and the
// round state machine. It is not safe for concurrent use; exactly one
// goroutine (the server loop) owns it.
type World struct {
	// Reload produces a fresh map at round reset. When nil, or on error,
	// the world falls back to a pristine copy of the initial map.
	Reload func() (*GameMap, error)

	gmap     *GameMap
	pristine *GameMap
	players  map[int]*Player
	state    GameState
	log      *zap.SugaredLogger
}

func NewWorld(m *GameMap, log *zap.SugaredLogger) *World {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &World{
		gmap:     m,
		pristine: m.Clone(),
		players:  make(map[int]*Player),
		state:    WaitingForPlayers,
		log:      log,
	}
}

func (w *World) State() GameState { return w.state }

func (w *World) Map() *GameMap { return w.gmap }

func (w *World) PlayerCount() int { return len(w.players) }

// Players returns the registry sorted by id. Every iteration in this file
// goes through this so no outcome depends on map order.
func (w *World) Players() []*Player {
	out := make([]*Player, 0, len(w.players))
	for _, p := range w.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

func (w *World) Player(id int) *Player { return w.players[id] }

// AddPlayer registers a new player with the next sequential 1-based id.
func (w *World) AddPlayer() *Player {
	p := &Player{Id: len(w.players) + 1, State: StateConnected}
	w.players[p.Id] = p
	return p
}

// SetJetpack records input for a player; honored only while playing.
func (w *World) SetJetpack(id int, on bool) {
	if p, ok := w.players[id]; ok && p.State == StatePlaying {
		p.Jetpacking = on
	}
}

// MaybeStart begins the round once enough players are registered: everyone
// becomes ready at the spawn point and a game-start plus an initial snapshot
// go out.
func (w *World) MaybeStart() []Event {
	if w.state != WaitingForPlayers || len(w.players) < MinPlayers {
		return nil
	}
	w.state = InProgress
	for _, p := range w.players {
		p.State = StateReady
		p.X = SpawnX
		p.Y = float64(w.gmap.Height) - 2
		p.VelocityY = 0
		p.Jetpacking = false
		p.Score = 0
	}
	w.log.Infow("round starting", "players", len(w.players))
	return []Event{
		GameStarted{PlayerCount: len(w.players)},
		w.snapshot(),
	}
}

// Tick advances the round by one simulation step and returns the events it
// produced, in broadcast order.
func (w *World) Tick() []Event {
	if w.state != InProgress {
		return nil
	}

	// Synchronized go: the tick where everyone is still ready promotes all
	// of them to playing and skips physics.
	allReady := true
	anyPlaying := false
	for _, p := range w.players {
		switch p.State {
		case StatePlaying:
			anyPlaying = true
		case StateReady:
		default:
			allReady = false
		}
	}
	if allReady && !anyPlaying {
		for _, p := range w.players {
			if p.State == StateReady {
				p.State = StatePlaying
			}
		}
		return []Event{w.snapshot()}
	}

	players := w.Players()
	for _, p := range players {
		if p.State != StatePlaying {
			continue
		}
		ApplyPhysics(p)
		ClampBounds(p, w.gmap)
		if p.X >= float64(w.gmap.Width) {
			p.State = StateFinished
			w.log.Infow("player finished", "player", p.Id, "score", p.Score)
		}
	}

	events := w.resolveCollisions(players)
	events = append(events, w.snapshot())
	return w.checkRoundEnd(events)
}

// resolveCollisions checks each playing player's current cell for coins and
// hazards.
func (w *World) resolveCollisions(players []*Player) []Event {
	var events []Event
	for _, p := range players {
		if p.State != StatePlaying {
			continue
		}
		x, y := int(p.X), int(p.Y)
		if !w.gmap.inBounds(x, y) {
			continue
		}
		switch w.gmap.Tiles[y][x] {
		case TileCoin:
			if ev, ok := w.collectCoin(p, x, y); ok {
				events = append(events, ev)
			}
		case TileElectric:
			p.State = StateDead
			w.log.Infow("player died", "player", p.Id, "x", x, "y", y)
			events = append(events, PlayerDied{PlayerId: p.Id})
		}
	}
	return events
}

// collectCoin applies the 4-way coin state. A player collects a given coin at
// most once; once both slots have it, the tile reverts to empty.
func (w *World) collectCoin(p *Player, x, y int) (Event, bool) {
	cur := w.gmap.Coins[y][x]

	mine, other := CoinCollectedP1, CoinCollectedP2
	if p.Id == 2 {
		mine, other = CoinCollectedP2, CoinCollectedP1
	}
	if cur == mine || cur == CoinCollectedBoth {
		return nil, false
	}

	p.Score++
	if cur == other {
		w.gmap.Coins[y][x] = CoinCollectedBoth
		w.gmap.Tiles[y][x] = TileEmpty
	} else {
		w.gmap.Coins[y][x] = mine
	}
	return CoinCollected{
		PlayerId: p.Id,
		X:        x,
		Y:        y,
		Score:    p.Score,
		State:    w.gmap.Coins[y][x],
	}, true
}

// checkRoundEnd evaluates the end-of-round conditions and, when one fires,
// appends game-over (with the winner decision) and resets for the next round.
func (w *World) checkRoundEnd(events []Event) []Event {
	allFinished := true
	anyDead := false
	active := 0
	for _, p := range w.players {
		switch p.State {
		case StatePlaying:
			allFinished = false
			active++
		case StateFinished:
			active++
		case StateDead:
			anyDead = true
		}
	}

	ended := (allFinished && active > 0) ||
		anyDead ||
		(active < MinPlayers && len(w.players) >= MinPlayers)
	if !ended {
		return events
	}

	winnerId, hasWinner := w.decideWinner(anyDead)
	return w.endRound(events, hasWinner, winnerId)
}

// decideWinner: if anyone died this round the surviving player with the
// lowest id wins; otherwise the strictly highest score wins, ties going to
// the lowest id.
func (w *World) decideWinner(anyDead bool) (int, bool) {
	if anyDead {
		for _, p := range w.Players() {
			if p.State != StateDead {
				return p.Id, true
			}
		}
		return 0, false
	}
	winnerId, best := 0, -1
	for _, p := range w.Players() {
		if p.Score > best {
			best = p.Score
			winnerId = p.Id
		}
	}
	return winnerId, winnerId > 0
}

// EndRoundNoWinner force-ends an in-progress round (mid-round disconnect
// shortfall): game over with no winner, then reset.
func (w *World) EndRoundNoWinner() []Event {
	return w.endRound(nil, false, 0)
}

func (w *World) endRound(events []Event, hasWinner bool, winnerId int) []Event {
	w.state = GameOverState
	w.log.Infow("round over", "hasWinner", hasWinner, "winner", winnerId)
	events = append(events, GameEnded{HasWinner: hasWinner, WinnerId: winnerId})
	w.reset()
	return append(events, RoundReset{})
}

// RemovePlayer deregisters a player (peer hang-up or explicit disconnect).
// If the round is running and too few players remain playing, the round ends
// with no winner.
func (w *World) RemovePlayer(id int) []Event {
	if _, ok := w.players[id]; !ok {
		return nil
	}
	delete(w.players, id)

	if w.state != InProgress {
		return nil
	}
	active := 0
	for _, p := range w.players {
		if p.Active() {
			active++
		}
	}
	if active >= MinPlayers {
		return nil
	}
	return w.EndRoundNoWinner()
}

// reset reloads the map fresh, clears the registry, and returns to waiting.
func (w *World) reset() {
	fresh := w.pristine.Clone()
	if w.Reload != nil {
		m, err := w.Reload()
		if err != nil {
			w.log.Warnw("map reload failed, reusing initial map", "err", err)
		} else {
			fresh = m
		}
	}
	w.gmap = fresh
	w.players = make(map[int]*Player)
	w.state = WaitingForPlayers
}

func (w *World) snapshot() SnapshotTaken {
	players := w.Players()
	views := make([]PlayerView, 0, len(players))
	for _, p := range players {
		views = append(views, PlayerView{
			Id:         p.Id,
			State:      p.State,
			X:          p.X,
			Y:          p.Y,
			Score:      p.Score,
			Jetpacking: p.Jetpacking,
		})
	}
	return SnapshotTaken{Players: views}
}
