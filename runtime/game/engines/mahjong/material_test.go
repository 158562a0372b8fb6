package mahjong

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTiles_Notation(t *testing.T) {
	tiles, err := ParseTiles("123m0p55p7z")
	require.NoError(t, err)
	require.Equal(t, []TileType{Man1, Man2, Man3, Pin5, Pin5, Pin5, Red}, TypesOf(tiles))

	require.True(t, tiles[3].IsRedFive())
	require.False(t, tiles[4].IsRedFive())
	require.NotEqual(t, tiles[4], tiles[5])
	require.Equal(t, "0p", tiles[3].String())
	require.Equal(t, "C", tiles[6].String())
}

func TestParseTiles_Errors(t *testing.T) {
	for _, s := range []string{"123", "8z", "5555m", "12x"} {
		_, err := ParseTiles(s)
		require.Error(t, err, s)
	}
}

func TestTileType_DoraFrom(t *testing.T) {
	cases := map[TileType]TileType{
		Man1:  Man2,
		Man9:  Man1,
		So9:   So1,
		North: East,
		East:  South,
		Red:   White,
		White: Green,
	}
	for indicator, dora := range cases {
		require.Equal(t, dora, indicator.DoraFrom(), indicator.String())
	}
}

func TestTileType_Classes(t *testing.T) {
	require.True(t, Man1.IsTerminal())
	require.True(t, East.IsYaochu())
	require.False(t, Pin5.IsYaochu())
	require.Equal(t, 2, So3.Suit())
	require.Equal(t, -1, Green.Suit())
	require.Equal(t, 7, Pin7.Number())
	require.Equal(t, Wind(0), WindNorth.Next())
	require.Equal(t, West, WindWest.Tile())
}

func TestNewTileDeck(t *testing.T) {
	deck := NewTileDeck()
	require.Len(t, deck, TileLimit)
	for i, tile := range deck {
		require.Equal(t, i, tile.Index())
		require.Equal(t, tile, TileFromIndex(i))
	}
}
