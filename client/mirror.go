package client

import (
	"sync"

	"jetpack/protocol"
)

// Mirror is the shared state the presentation layer polls while the network
// goroutine writes. One mutex guards every field; each get/set is atomic on
// its own, no cross-field consistency is promised or needed.
type Mirror struct {
	mu sync.Mutex

	localId  int
	gameMap  *protocol.MapData
	players  []protocol.PlayerSnapshot
	started  bool
	gameOver bool
	winnerId int // 0 when no winner

	jetpack bool // local input state, read by the sender
}

func NewMirror() *Mirror {
	return &Mirror{localId: -1, winnerId: 0}
}

var _ Handler = (*Mirror)(nil)

func (m *Mirror) OnConnectResponse(ev protocol.ConnectResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.localId = int(ev.PlayerId)
}

func (m *Mirror) OnMapData(ev protocol.MapData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gameMap = &ev
}

func (m *Mirror) OnGameStart(ev protocol.GameStart) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = true
	m.gameOver = false
	m.winnerId = 0
}

func (m *Mirror) OnSnapshot(ev protocol.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players = ev.Players
}

func (m *Mirror) OnCoinCollected(ev protocol.CoinCollected) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gameMap == nil {
		return
	}
	x, y := int(ev.X), int(ev.Y)
	if y < 0 || y >= m.gameMap.Height || x < 0 || x >= m.gameMap.Width {
		return
	}
	m.gameMap.CoinStates[y][x] = ev.CoinState
	if ev.CoinState == protocol.CoinCollectedBoth {
		m.gameMap.Tiles[y][x] = protocol.TileEmpty
	}
}

func (m *Mirror) OnPlayerDeath(ev protocol.PlayerDeath) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.players {
		if m.players[i].Id == ev.PlayerId {
			m.players[i].State = protocol.StateDead
		}
	}
}

func (m *Mirror) OnGameOver(ev protocol.GameOver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gameOver = true
	if ev.HasWinner {
		m.winnerId = int(ev.WinnerId)
	} else {
		m.winnerId = 0
	}
}

func (m *Mirror) LocalId() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.localId
}

// Map returns a deep copy of the last map-data. Coin events keep mutating the
// internal map after this returns; the copy keeps pollers off that storage.
func (m *Mirror) Map() *protocol.MapData {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gameMap == nil {
		return nil
	}
	c := protocol.MapData{
		Width:      m.gameMap.Width,
		Height:     m.gameMap.Height,
		Tiles:      make([][]uint8, m.gameMap.Height),
		CoinStates: make([][]uint8, m.gameMap.Height),
	}
	for y := 0; y < m.gameMap.Height; y++ {
		c.Tiles[y] = append([]uint8(nil), m.gameMap.Tiles[y]...)
		c.CoinStates[y] = append([]uint8(nil), m.gameMap.CoinStates[y]...)
	}
	return &c
}

func (m *Mirror) Players() []protocol.PlayerSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]protocol.PlayerSnapshot(nil), m.players...)
}

func (m *Mirror) Started() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

func (m *Mirror) GameOver() (bool, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gameOver, m.winnerId
}

// SetJetpack is the presentation layer's input; the sender picks it up on the
// next cadence tick.
func (m *Mirror) SetJetpack(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jetpack = on
}

func (m *Mirror) Jetpack() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jetpack
}
