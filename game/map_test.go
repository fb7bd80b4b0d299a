package game

import (
	"strings"
	"testing"
)

func TestParseMapGrid(t *testing.T) {
	m, err := ParseMap(strings.NewReader("_c___\n_e___\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m.Width != 5 || m.Height != 2 {
		t.Fatalf("size = %dx%d, want 5x2", m.Width, m.Height)
	}
	if m.TileAt(1, 0) != TileCoin {
		t.Fatalf("tile (1,0) = %v, want coin", m.TileAt(1, 0))
	}
	if m.TileAt(1, 1) != TileElectric {
		t.Fatalf("tile (1,1) = %v, want electric", m.TileAt(1, 1))
	}
	if m.TileAt(0, 0) != TileEmpty {
		t.Fatalf("tile (0,0) = %v, want empty", m.TileAt(0, 0))
	}
}

func TestParseMapUnknownCharsDecodeEmpty(t *testing.T) {
	m, err := ParseMap(strings.NewReader("x?z\n___\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for x := 0; x < 3; x++ {
		if m.TileAt(x, 0) != TileEmpty {
			t.Fatalf("tile (%d,0) = %v, want empty", x, m.TileAt(x, 0))
		}
	}
}

func TestParseMapSkipsEmptyLines(t *testing.T) {
	m, err := ParseMap(strings.NewReader("___\n\n___\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m.Height != 2 {
		t.Fatalf("height = %d, want 2", m.Height)
	}
}

func TestParseMapRejectsRaggedRows(t *testing.T) {
	if _, err := ParseMap(strings.NewReader("___\n__\n")); err == nil {
		t.Fatalf("expected error for ragged rows")
	}
}

func TestParseMapRejectsEmpty(t *testing.T) {
	if _, err := ParseMap(strings.NewReader("")); err == nil {
		t.Fatalf("expected error for empty map")
	}
}

func TestOutOfBoundsQueries(t *testing.T) {
	m, err := ParseMap(strings.NewReader("ce\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m.TileAt(-1, 0) != TileEmpty || m.TileAt(0, 5) != TileEmpty {
		t.Fatalf("out-of-bounds tiles must read empty")
	}
	if m.CoinStateAt(99, 99) != CoinAvailable {
		t.Fatalf("out-of-bounds coin state must read available")
	}
}

func TestCloneIsDeep(t *testing.T) {
	m, _ := ParseMap(strings.NewReader("c_\n"))
	c := m.Clone()
	c.Tiles[0][0] = TileEmpty
	c.Coins[0][0] = CoinCollectedBoth
	if m.Tiles[0][0] != TileCoin || m.Coins[0][0] != CoinAvailable {
		t.Fatalf("clone shares storage with original")
	}
}
