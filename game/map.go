package game

import (
	"bufio"
	"io"
	"os"

	"jetpack/errs"
)

type TileType uint8

const (
	TileEmpty TileType = iota
	TileCoin
	TileElectric
)

type CoinState uint8

const (
	CoinAvailable CoinState = iota
	CoinCollectedP1
	CoinCollectedP2
	CoinCollectedBoth
)

// GameMap is the tile grid plus per-cell coin collection state. It is
// immutable after load except for coin bookkeeping during a round.
type GameMap struct {
	Width  int
	Height int
	Tiles  [][]TileType  // [y][x]
	Coins  [][]CoinState // [y][x]
}

func (m *GameMap) inBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// TileAt returns the tile at (x, y), or TileEmpty out of bounds.
func (m *GameMap) TileAt(x, y int) TileType {
	if !m.inBounds(x, y) {
		return TileEmpty
	}
	return m.Tiles[y][x]
}

// CoinStateAt returns the coin state at (x, y), or CoinAvailable out of bounds.
func (m *GameMap) CoinStateAt(x, y int) CoinState {
	if !m.inBounds(x, y) {
		return CoinAvailable
	}
	return m.Coins[y][x]
}

// Clone deep-copies the map.
func (m *GameMap) Clone() *GameMap {
	c := &GameMap{
		Width:  m.Width,
		Height: m.Height,
		Tiles:  make([][]TileType, m.Height),
		Coins:  make([][]CoinState, m.Height),
	}
	for y := 0; y < m.Height; y++ {
		c.Tiles[y] = append([]TileType(nil), m.Tiles[y]...)
		c.Coins[y] = append([]CoinState(nil), m.Coins[y]...)
	}
	return c
}

// ParseMap reads a newline-delimited grid over the alphabet '_' (empty),
// 'c' (coin), 'e' (hazard). Any other character decodes as empty. Empty lines
// are skipped; every remaining row must match the first row's width.
func ParseMap(r io.Reader) (*GameMap, error) {
	const op = "parse map"

	var rows []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			rows = append(rows, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errs.New(errs.KindMap, op, err)
	}
	if len(rows) == 0 {
		return nil, errs.Newf(errs.KindMap, op, "map is empty")
	}

	m := &GameMap{
		Width:  len(rows[0]),
		Height: len(rows),
	}
	if m.Width == 0 {
		return nil, errs.Newf(errs.KindMap, op, "map has zero width")
	}

	m.Tiles = make([][]TileType, m.Height)
	m.Coins = make([][]CoinState, m.Height)
	for y, row := range rows {
		if len(row) != m.Width {
			return nil, errs.Newf(errs.KindMap, op,
				"row %d has %d cells, want %d", y, len(row), m.Width)
		}
		m.Tiles[y] = make([]TileType, m.Width)
		m.Coins[y] = make([]CoinState, m.Width)
		for x := 0; x < m.Width; x++ {
			switch row[x] {
			case 'c':
				m.Tiles[y][x] = TileCoin
			case 'e':
				m.Tiles[y][x] = TileElectric
			default:
				m.Tiles[y][x] = TileEmpty
			}
		}
	}
	return m, nil
}

// LoadMapFile parses the map file at path.
func LoadMapFile(path string) (*GameMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.New(errs.KindMap, "open map "+path, err)
	}
	defer f.Close()
	return ParseMap(f)
}
