package protocol

// Frame tags. One leading tag byte, then a fixed or header-sized payload;
// multi-byte fields are little-endian.
const (
	TagConnectRequest   byte = 0x01
	TagConnectResponse  byte = 0x02
	TagMapData          byte = 0x03
	TagGameStart        byte = 0x04
	TagPlayerInput      byte = 0x05
	TagSnapshot         byte = 0x06
	TagPlayerPosition   byte = 0x07 // reserved, never sent
	TagCoinCollected    byte = 0x08
	TagPlayerDeath      byte = 0x09
	TagGameOver         byte = 0x0A
	TagPlayerDisconnect byte = 0x0B
)

const (
	// TickIntervalMs paces the simulation; the client sends input on the
	// same cadence.
	TickIntervalMs = 16

	// SnapshotPlayerSize is the per-player byte count inside a snapshot frame.
	SnapshotPlayerSize = 10

	// MapDataHeaderSize covers tag + width(2) + height(2).
	MapDataHeaderSize = 5

	// FixedPointScale: positions travel as int16 hundredths of a map cell.
	FixedPointScale = 100
)

// Tile and coin-state values as they appear on the wire. The game package
// mirrors these; the codec works on raw bytes.
const (
	TileEmpty    uint8 = 0
	TileCoin     uint8 = 1
	TileElectric uint8 = 2

	CoinAvailable     uint8 = 0
	CoinCollectedP1   uint8 = 1
	CoinCollectedP2   uint8 = 2
	CoinCollectedBoth uint8 = 3
)

// Player lifecycle states as they appear in snapshot frames.
const (
	StateConnected    uint8 = 0
	StateReady        uint8 = 1
	StatePlaying      uint8 = 2
	StateDead         uint8 = 3
	StateFinished     uint8 = 4
	StateDisconnected uint8 = 5
)

// Decoded server→client events, plus PlayerInput which flows the other way.

type ConnectResponse struct {
	PlayerId    uint8
	PlayerCount uint8
}

type MapData struct {
	Width      int
	Height     int
	Tiles      [][]uint8 // [y][x]
	CoinStates [][]uint8
}

type GameStart struct {
	PlayerCount uint8
}

type PlayerInput struct {
	JetpackActive bool
}

type PlayerSnapshot struct {
	Id         uint8
	State      uint8
	X          float64
	Y          float64
	Score      uint16
	Jetpacking bool
}

type Snapshot struct {
	Players []PlayerSnapshot
}

type CoinCollected struct {
	PlayerId  uint8
	X         uint8
	Y         uint8
	Score     uint8
	CoinState uint8
}

type PlayerDeath struct {
	PlayerId uint8
}

type GameOver struct {
	HasWinner bool
	WinnerId  uint8
}
