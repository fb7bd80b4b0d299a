package protocol

import (
	"encoding/binary"
	"math"

	"jetpack/errs"
)

// Packet accumulates a payload behind a tag byte and serializes once.
type Packet struct {
	Tag  byte
	Data []byte
}

func NewPacket(tag byte) *Packet {
	return &Packet{Tag: tag}
}

func (p *Packet) AddByte(v uint8) {
	p.Data = append(p.Data, v)
}

// AddShort appends a 16-bit value little-endian.
func (p *Packet) AddShort(v uint16) {
	p.Data = binary.LittleEndian.AppendUint16(p.Data, v)
}

func (p *Packet) Serialize() []byte {
	out := make([]byte, 0, 1+len(p.Data))
	out = append(out, p.Tag)
	return append(out, p.Data...)
}

// fixedPoint converts a cell-unit coordinate to wire hundredths.
func fixedPoint(v float64) uint16 {
	return uint16(int16(math.Round(v * FixedPointScale)))
}

func EncodeConnectRequest() []byte {
	p := NewPacket(TagConnectRequest)
	p.AddByte(0)
	return p.Serialize()
}

func EncodeConnectResponse(playerId, playerCount uint8) []byte {
	p := NewPacket(TagConnectResponse)
	p.AddByte(playerId)
	p.AddByte(playerCount)
	return p.Serialize()
}

func EncodeMapData(m MapData) []byte {
	p := NewPacket(TagMapData)
	p.AddShort(uint16(m.Width))
	p.AddShort(uint16(m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			p.AddByte(m.Tiles[y][x])
		}
	}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			p.AddByte(m.CoinStates[y][x])
		}
	}
	return p.Serialize()
}

func EncodeGameStart(playerCount uint8) []byte {
	p := NewPacket(TagGameStart)
	p.AddByte(playerCount)
	p.AddByte(0)
	return p.Serialize()
}

func EncodePlayerInput(jetpackActive bool) []byte {
	p := NewPacket(TagPlayerInput)
	if jetpackActive {
		p.AddByte(1)
	} else {
		p.AddByte(0)
	}
	return p.Serialize()
}

// EncodeSnapshot writes the players in the order given; the caller decides
// the ordering (the server sorts by id).
func EncodeSnapshot(players []PlayerSnapshot) []byte {
	p := NewPacket(TagSnapshot)
	p.AddByte(uint8(len(players)))
	for _, ps := range players {
		p.AddByte(ps.Id)
		p.AddByte(ps.State)
		p.AddShort(fixedPoint(ps.X))
		p.AddShort(fixedPoint(ps.Y))
		p.AddShort(ps.Score)
		if ps.Jetpacking {
			p.AddByte(1)
		} else {
			p.AddByte(0)
		}
		p.AddByte(0)
	}
	return p.Serialize()
}

func EncodeCoinCollected(c CoinCollected) []byte {
	p := NewPacket(TagCoinCollected)
	p.AddByte(c.PlayerId)
	p.AddByte(c.X)
	p.AddByte(c.Y)
	p.AddByte(c.Score)
	p.AddByte(c.CoinState)
	return p.Serialize()
}

func EncodePlayerDeath(playerId uint8) []byte {
	p := NewPacket(TagPlayerDeath)
	p.AddByte(playerId)
	return p.Serialize()
}

func EncodeGameOver(hasWinner bool, winnerId uint8) []byte {
	p := NewPacket(TagGameOver)
	if hasWinner {
		p.AddByte(1)
		p.AddByte(winnerId)
	} else {
		p.AddByte(0)
		p.AddByte(0)
	}
	return p.Serialize()
}

func EncodePlayerDisconnect() []byte {
	return NewPacket(TagPlayerDisconnect).Serialize()
}

func undersize(op string, got, want int) error {
	return errs.Newf(errs.KindProtocol, op, "frame too short: %d bytes, need %d", got, want)
}

func DecodeConnectResponse(b []byte) (ConnectResponse, error) {
	if len(b) < 3 {
		return ConnectResponse{}, undersize("decode connect-response", len(b), 3)
	}
	return ConnectResponse{PlayerId: b[1], PlayerCount: b[2]}, nil
}

func DecodeMapData(b []byte) (MapData, error) {
	if len(b) < MapDataHeaderSize {
		return MapData{}, undersize("decode map-data", len(b), MapDataHeaderSize)
	}
	w := int(binary.LittleEndian.Uint16(b[1:3]))
	h := int(binary.LittleEndian.Uint16(b[3:5]))
	need := MapDataHeaderSize + 2*w*h
	if len(b) < need {
		return MapData{}, undersize("decode map-data", len(b), need)
	}
	m := MapData{
		Width:      w,
		Height:     h,
		Tiles:      make([][]uint8, h),
		CoinStates: make([][]uint8, h),
	}
	tiles := b[MapDataHeaderSize:]
	coins := b[MapDataHeaderSize+w*h:]
	for y := 0; y < h; y++ {
		m.Tiles[y] = append([]uint8(nil), tiles[y*w:(y+1)*w]...)
		m.CoinStates[y] = append([]uint8(nil), coins[y*w:(y+1)*w]...)
	}
	return m, nil
}

func DecodeGameStart(b []byte) (GameStart, error) {
	if len(b) < 3 {
		return GameStart{}, undersize("decode game-start", len(b), 3)
	}
	return GameStart{PlayerCount: b[1]}, nil
}

func DecodePlayerInput(b []byte) (PlayerInput, error) {
	if len(b) < 2 {
		return PlayerInput{}, undersize("decode player-input", len(b), 2)
	}
	return PlayerInput{JetpackActive: b[1] != 0}, nil
}

func DecodeSnapshot(b []byte) (Snapshot, error) {
	if len(b) < 2 {
		return Snapshot{}, undersize("decode snapshot", len(b), 2)
	}
	n := int(b[1])
	need := 2 + n*SnapshotPlayerSize
	if len(b) < need {
		return Snapshot{}, undersize("decode snapshot", len(b), need)
	}
	s := Snapshot{Players: make([]PlayerSnapshot, 0, n)}
	for i := 0; i < n; i++ {
		rec := b[2+i*SnapshotPlayerSize:]
		s.Players = append(s.Players, PlayerSnapshot{
			Id:         rec[0],
			State:      rec[1],
			X:          float64(int16(binary.LittleEndian.Uint16(rec[2:4]))) / FixedPointScale,
			Y:          float64(int16(binary.LittleEndian.Uint16(rec[4:6]))) / FixedPointScale,
			Score:      binary.LittleEndian.Uint16(rec[6:8]),
			Jetpacking: rec[8] != 0,
		})
	}
	return s, nil
}

func DecodeCoinCollected(b []byte) (CoinCollected, error) {
	if len(b) < 6 {
		return CoinCollected{}, undersize("decode coin-collected", len(b), 6)
	}
	return CoinCollected{PlayerId: b[1], X: b[2], Y: b[3], Score: b[4], CoinState: b[5]}, nil
}

func DecodePlayerDeath(b []byte) (PlayerDeath, error) {
	if len(b) < 2 {
		return PlayerDeath{}, undersize("decode player-death", len(b), 2)
	}
	return PlayerDeath{PlayerId: b[1]}, nil
}

func DecodeGameOver(b []byte) (GameOver, error) {
	if len(b) < 3 {
		return GameOver{}, undersize("decode game-over", len(b), 3)
	}
	return GameOver{HasWinner: b[1] != 0, WinnerId: b[2]}, nil
}
