package client

import (
	"jetpack/errs"
	"jetpack/protocol"
)

// Handler consumes decoded server events. The presentation layer sits behind
// this interface; Mirror is the default implementation.
type Handler interface {
	OnConnectResponse(protocol.ConnectResponse)
	OnMapData(protocol.MapData)
	OnGameStart(protocol.GameStart)
	OnSnapshot(protocol.Snapshot)
	OnCoinCollected(protocol.CoinCollected)
	OnPlayerDeath(protocol.PlayerDeath)
	OnGameOver(protocol.GameOver)
}

// Reassembler accumulates the inbound byte stream and dispatches whole
// frames. The stream may deliver frames split or coalesced arbitrarily.
type Reassembler struct {
	buf     []byte
	handler Handler
}

func NewReassembler(h Handler) *Reassembler {
	return &Reassembler{handler: h}
}

// Buffered reports how many unconsumed bytes are held.
func (r *Reassembler) Buffered() int { return len(r.buf) }

// Feed appends data and dispatches every complete frame it now holds.
// Consumed bytes are dropped from the front once per pass, not per frame.
// A desync (data behind an unknown tag) is unrecoverable; the caller must
// abandon the stream.
func (r *Reassembler) Feed(data []byte) error {
	r.buf = append(r.buf, data...)

	consumed := 0
	for {
		size := protocol.FrameLength(r.buf[consumed:])
		if size == 0 {
			if consumed < len(r.buf) && !protocol.KnownTag(r.buf[consumed]) {
				return errs.Newf(errs.KindProtocol, "reassemble",
					"unknown frame tag 0x%02X, stream desynced", r.buf[consumed])
			}
			break
		}
		r.dispatch(r.buf[consumed : consumed+size])
		consumed += size
	}
	if consumed > 0 {
		r.buf = append(r.buf[:0], r.buf[consumed:]...)
	}
	return nil
}

// dispatch decodes one whole frame. The framing pass already guaranteed the
// length, so the decoders cannot fail here.
func (r *Reassembler) dispatch(frame []byte) {
	switch frame[0] {
	case protocol.TagConnectResponse:
		if ev, err := protocol.DecodeConnectResponse(frame); err == nil {
			r.handler.OnConnectResponse(ev)
		}
	case protocol.TagMapData:
		if ev, err := protocol.DecodeMapData(frame); err == nil {
			r.handler.OnMapData(ev)
		}
	case protocol.TagGameStart:
		if ev, err := protocol.DecodeGameStart(frame); err == nil {
			r.handler.OnGameStart(ev)
		}
	case protocol.TagSnapshot:
		if ev, err := protocol.DecodeSnapshot(frame); err == nil {
			r.handler.OnSnapshot(ev)
		}
	case protocol.TagCoinCollected:
		if ev, err := protocol.DecodeCoinCollected(frame); err == nil {
			r.handler.OnCoinCollected(ev)
		}
	case protocol.TagPlayerDeath:
		if ev, err := protocol.DecodePlayerDeath(frame); err == nil {
			r.handler.OnPlayerDeath(ev)
		}
	case protocol.TagGameOver:
		if ev, err := protocol.DecodeGameOver(frame); err == nil {
			r.handler.OnGameOver(ev)
		}
	}
}
