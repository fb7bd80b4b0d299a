package server

import (
	"go.uber.org/zap"

	"jetpack/game"
	"jetpack/protocol"
)

// Broadcaster turns game events into wire frames and fans them out to every
// registered session. It shares the session map with the server loop; both
// run on the owner goroutine, so there is no locking here.
type Broadcaster struct {
	sessions map[int]*Session
	log      *zap.SugaredLogger
	debug    bool
}

func NewBroadcaster(sessions map[int]*Session, log *zap.SugaredLogger, debug bool) *Broadcaster {
	return &Broadcaster{sessions: sessions, log: log, debug: debug}
}

// SendTo queues one frame on a single session. Failures are logged, never
// retried; disconnect detection cleans up later.
func (b *Broadcaster) SendTo(s *Session, frame []byte) {
	if b.debug {
		b.log.Debugf("send %d bytes to %s: % X", len(frame), s.ConnId, frame)
	}
	if err := s.Conn.Send(frame); err != nil {
		b.log.Debugw("send failed", "conn", s.ConnId, "err", err)
	}
}

// Broadcast queues one frame on every session.
func (b *Broadcaster) Broadcast(frame []byte) {
	for _, s := range b.sessions {
		b.SendTo(s, frame)
	}
}

// Event serializes and broadcasts one game event. RoundReset is not a wire
// event; the server loop handles it.
func (b *Broadcaster) Event(ev game.Event) {
	switch e := ev.(type) {
	case game.GameStarted:
		b.Broadcast(protocol.EncodeGameStart(uint8(e.PlayerCount)))
	case game.SnapshotTaken:
		b.Broadcast(protocol.EncodeSnapshot(snapshotViews(e.Players)))
	case game.CoinCollected:
		b.Broadcast(protocol.EncodeCoinCollected(protocol.CoinCollected{
			PlayerId:  uint8(e.PlayerId),
			X:         uint8(e.X),
			Y:         uint8(e.Y),
			Score:     uint8(e.Score),
			CoinState: uint8(e.State),
		}))
	case game.PlayerDied:
		b.Broadcast(protocol.EncodePlayerDeath(uint8(e.PlayerId)))
	case game.GameEnded:
		b.Broadcast(protocol.EncodeGameOver(e.HasWinner, uint8(e.WinnerId)))
	}
}

func snapshotViews(players []game.PlayerView) []protocol.PlayerSnapshot {
	out := make([]protocol.PlayerSnapshot, 0, len(players))
	for _, p := range players {
		out = append(out, protocol.PlayerSnapshot{
			Id:         uint8(p.Id),
			State:      uint8(p.State),
			X:          p.X,
			Y:          p.Y,
			Score:      uint16(p.Score),
			Jetpacking: p.Jetpacking,
		})
	}
	return out
}

// mapData converts the live map for the map-data frame sent at connect time.
func mapData(m *game.GameMap) protocol.MapData {
	d := protocol.MapData{
		Width:      m.Width,
		Height:     m.Height,
		Tiles:      make([][]uint8, m.Height),
		CoinStates: make([][]uint8, m.Height),
	}
	for y := 0; y < m.Height; y++ {
		d.Tiles[y] = make([]uint8, m.Width)
		d.CoinStates[y] = make([]uint8, m.Width)
		for x := 0; x < m.Width; x++ {
			d.Tiles[y][x] = uint8(m.Tiles[y][x])
			d.CoinStates[y][x] = uint8(m.Coins[y][x])
		}
	}
	return d
}
