package client

import (
	"testing"

	"jetpack/protocol"
)

func TestMirrorHandshake(t *testing.T) {
	m := NewMirror()
	if m.LocalId() != -1 {
		t.Fatalf("initial local id = %d, want -1", m.LocalId())
	}
	m.OnConnectResponse(protocol.ConnectResponse{PlayerId: 2, PlayerCount: 2})
	if m.LocalId() != 2 {
		t.Fatalf("local id = %d, want 2", m.LocalId())
	}
}

func TestMirrorGameLifecycle(t *testing.T) {
	m := NewMirror()
	if m.Started() {
		t.Fatalf("started before game start")
	}

	m.OnGameStart(protocol.GameStart{PlayerCount: 2})
	if !m.Started() {
		t.Fatalf("not started after game start")
	}

	m.OnGameOver(protocol.GameOver{HasWinner: true, WinnerId: 1})
	over, winner := m.GameOver()
	if !over || winner != 1 {
		t.Fatalf("game over = %v winner %d, want true 1", over, winner)
	}

	// A new round clears the previous result.
	m.OnGameStart(protocol.GameStart{PlayerCount: 2})
	over, winner = m.GameOver()
	if over || winner != 0 {
		t.Fatalf("game over = %v winner %d after restart, want false 0", over, winner)
	}
}

func TestMirrorCoinCollected(t *testing.T) {
	m := NewMirror()

	// No map yet: the event is dropped, not a panic.
	m.OnCoinCollected(protocol.CoinCollected{PlayerId: 1, X: 0, Y: 0})

	m.OnMapData(protocol.MapData{
		Width:  2,
		Height: 1,
		Tiles: [][]uint8{
			{protocol.TileCoin, protocol.TileEmpty},
		},
		CoinStates: [][]uint8{
			{protocol.CoinAvailable, protocol.CoinAvailable},
		},
	})

	m.OnCoinCollected(protocol.CoinCollected{
		PlayerId: 1, X: 0, Y: 0, Score: 1, CoinState: protocol.CoinCollectedP1,
	})
	if got := m.Map().CoinStates[0][0]; got != protocol.CoinCollectedP1 {
		t.Fatalf("coin state = %d, want collected-by-p1", got)
	}
	if got := m.Map().Tiles[0][0]; got != protocol.TileCoin {
		t.Fatalf("tile cleared before both collected")
	}

	m.OnCoinCollected(protocol.CoinCollected{
		PlayerId: 2, X: 0, Y: 0, Score: 1, CoinState: protocol.CoinCollectedBoth,
	})
	if got := m.Map().CoinStates[0][0]; got != protocol.CoinCollectedBoth {
		t.Fatalf("coin state = %d, want collected-by-both", got)
	}
	if got := m.Map().Tiles[0][0]; got != protocol.TileEmpty {
		t.Fatalf("tile = %d, want empty after both collected", got)
	}

	// Out of bounds is dropped too.
	m.OnCoinCollected(protocol.CoinCollected{PlayerId: 1, X: 9, Y: 9})
}

func TestMirrorPlayerDeath(t *testing.T) {
	m := NewMirror()
	m.OnSnapshot(protocol.Snapshot{Players: []protocol.PlayerSnapshot{
		{Id: 1, State: protocol.StatePlaying},
		{Id: 2, State: protocol.StatePlaying},
	}})

	m.OnPlayerDeath(protocol.PlayerDeath{PlayerId: 2})

	players := m.Players()
	if players[0].State != protocol.StatePlaying {
		t.Fatalf("player 1 state = %d, want playing", players[0].State)
	}
	if players[1].State != protocol.StateDead {
		t.Fatalf("player 2 state = %d, want dead", players[1].State)
	}
}

func TestMirrorMapReturnsCopy(t *testing.T) {
	m := NewMirror()
	if m.Map() != nil {
		t.Fatalf("map before map-data, want nil")
	}
	m.OnMapData(protocol.MapData{
		Width:  1,
		Height: 1,
		Tiles:  [][]uint8{{protocol.TileCoin}},
		CoinStates: [][]uint8{
			{protocol.CoinAvailable},
		},
	})

	held := m.Map()
	m.OnCoinCollected(protocol.CoinCollected{
		PlayerId: 1, X: 0, Y: 0, CoinState: protocol.CoinCollectedP1,
	})
	if held.CoinStates[0][0] != protocol.CoinAvailable {
		t.Fatalf("event mutated a previously returned map")
	}

	held.Tiles[0][0] = protocol.TileElectric
	if m.Map().Tiles[0][0] != protocol.TileCoin {
		t.Fatalf("caller mutation leaked into the mirror")
	}
}

// Polling the map while the network goroutine delivers coin events must be
// clean under the race detector.
func TestMirrorMapConcurrentPolling(t *testing.T) {
	m := NewMirror()
	m.OnMapData(protocol.MapData{
		Width:  1,
		Height: 1,
		Tiles:  [][]uint8{{protocol.TileCoin}},
		CoinStates: [][]uint8{
			{protocol.CoinAvailable},
		},
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			state := uint8(protocol.CoinCollectedP1)
			if i%2 == 1 {
				state = protocol.CoinCollectedP2
			}
			m.OnCoinCollected(protocol.CoinCollected{
				PlayerId: uint8(i%2 + 1), X: 0, Y: 0, CoinState: state,
			})
		}
	}()
	for i := 0; i < 1000; i++ {
		if snap := m.Map(); snap.CoinStates[0][0] > protocol.CoinCollectedBoth {
			t.Fatalf("impossible coin state %d", snap.CoinStates[0][0])
		}
	}
	<-done
}

func TestMirrorPlayersReturnsCopy(t *testing.T) {
	m := NewMirror()
	m.OnSnapshot(protocol.Snapshot{Players: []protocol.PlayerSnapshot{
		{Id: 1, Score: 5},
	}})

	got := m.Players()
	got[0].Score = 99
	if m.Players()[0].Score != 5 {
		t.Fatalf("caller mutation leaked into the mirror")
	}
}

func TestMirrorJetpackInput(t *testing.T) {
	m := NewMirror()
	if m.Jetpack() {
		t.Fatalf("jetpack on by default")
	}
	m.SetJetpack(true)
	if !m.Jetpack() {
		t.Fatalf("jetpack not set")
	}
	m.SetJetpack(false)
	if m.Jetpack() {
		t.Fatalf("jetpack not cleared")
	}
}
