package client

import (
	"testing"

	"jetpack/errs"
	"jetpack/protocol"
)

// recorder keeps every dispatched event in arrival order.
type recorder struct {
	events []any
}

func (r *recorder) OnConnectResponse(ev protocol.ConnectResponse) { r.events = append(r.events, ev) }
func (r *recorder) OnMapData(ev protocol.MapData)                 { r.events = append(r.events, ev) }
func (r *recorder) OnGameStart(ev protocol.GameStart)             { r.events = append(r.events, ev) }
func (r *recorder) OnSnapshot(ev protocol.Snapshot)               { r.events = append(r.events, ev) }
func (r *recorder) OnCoinCollected(ev protocol.CoinCollected)     { r.events = append(r.events, ev) }
func (r *recorder) OnPlayerDeath(ev protocol.PlayerDeath)         { r.events = append(r.events, ev) }
func (r *recorder) OnGameOver(ev protocol.GameOver)               { r.events = append(r.events, ev) }

func stream() []byte {
	var b []byte
	b = append(b, protocol.EncodeConnectResponse(1, 2)...)
	b = append(b, protocol.EncodeGameStart(2)...)
	b = append(b, protocol.EncodeSnapshot([]protocol.PlayerSnapshot{
		{Id: 1, State: protocol.StatePlaying, X: 1.5, Y: 2.25, Score: 3},
	})...)
	b = append(b, protocol.EncodeGameOver(true, 1)...)
	return b
}

func TestFeedCoalesced(t *testing.T) {
	rec := &recorder{}
	r := NewReassembler(rec)

	if err := r.Feed(stream()); err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(rec.events) != 4 {
		t.Fatalf("dispatched %d events, want 4", len(rec.events))
	}
	if r.Buffered() != 0 {
		t.Fatalf("buffered = %d, want 0", r.Buffered())
	}
	cr, ok := rec.events[0].(protocol.ConnectResponse)
	if !ok || cr.PlayerId != 1 || cr.PlayerCount != 2 {
		t.Fatalf("first event = %#v", rec.events[0])
	}
	over, ok := rec.events[3].(protocol.GameOver)
	if !ok || !over.HasWinner || over.WinnerId != 1 {
		t.Fatalf("last event = %#v", rec.events[3])
	}
}

func TestFeedByteByByte(t *testing.T) {
	rec := &recorder{}
	r := NewReassembler(rec)

	for _, b := range stream() {
		if err := r.Feed([]byte{b}); err != nil {
			t.Fatalf("feed: %v", err)
		}
	}
	if len(rec.events) != 4 {
		t.Fatalf("dispatched %d events, want 4", len(rec.events))
	}
	if r.Buffered() != 0 {
		t.Fatalf("buffered = %d, want 0", r.Buffered())
	}
}

func TestFeedKeepsPartialFrame(t *testing.T) {
	rec := &recorder{}
	r := NewReassembler(rec)

	frame := protocol.EncodeConnectResponse(2, 2)
	if err := r.Feed(frame[:2]); err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(rec.events) != 0 {
		t.Fatalf("partial frame dispatched: %#v", rec.events)
	}
	if r.Buffered() != 2 {
		t.Fatalf("buffered = %d, want 2", r.Buffered())
	}

	if err := r.Feed(frame[2:]); err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(rec.events) != 1 {
		t.Fatalf("dispatched %d events, want 1", len(rec.events))
	}
	if r.Buffered() != 0 {
		t.Fatalf("buffered = %d, want 0", r.Buffered())
	}
}

func TestFeedMapData(t *testing.T) {
	rec := &recorder{}
	r := NewReassembler(rec)

	m := protocol.MapData{
		Width:  2,
		Height: 2,
		Tiles: [][]uint8{
			{protocol.TileCoin, protocol.TileEmpty},
			{protocol.TileEmpty, protocol.TileElectric},
		},
		CoinStates: [][]uint8{
			{protocol.CoinAvailable, protocol.CoinAvailable},
			{protocol.CoinAvailable, protocol.CoinAvailable},
		},
	}
	if err := r.Feed(protocol.EncodeMapData(m)); err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(rec.events) != 1 {
		t.Fatalf("dispatched %d events, want 1", len(rec.events))
	}
	got, ok := rec.events[0].(protocol.MapData)
	if !ok {
		t.Fatalf("event = %#v, want MapData", rec.events[0])
	}
	if got.Width != 2 || got.Height != 2 {
		t.Fatalf("dims = %dx%d, want 2x2", got.Width, got.Height)
	}
	if got.Tiles[1][1] != protocol.TileElectric {
		t.Fatalf("tile (1,1) = %d, want electric", got.Tiles[1][1])
	}
}

func TestFeedDesync(t *testing.T) {
	rec := &recorder{}
	r := NewReassembler(rec)

	// A valid frame followed by garbage: the frame still dispatches, the
	// garbage is a hard error.
	data := append(protocol.EncodeGameStart(2), 0xFF, 0x01, 0x02)
	err := r.Feed(data)
	if err == nil {
		t.Fatalf("desynced stream accepted")
	}
	if errs.KindOf(err) != errs.KindProtocol {
		t.Fatalf("error kind = %v, want protocol", errs.KindOf(err))
	}
	if len(rec.events) != 1 {
		t.Fatalf("dispatched %d events, want 1 before the desync", len(rec.events))
	}
}
