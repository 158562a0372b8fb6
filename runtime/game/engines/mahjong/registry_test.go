package mahjong

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func discardWindow(entries ...Entry) Registry {
	return Registry{Event: EventDiscard, Source: 0, Tile: tile("5p"), Entries: entries}
}

func TestRegistry_CommitDeclinesLowerPriority(t *testing.T) {
	pon := Meld{Kind: MeldTriplet, Own: MustParseTiles("5p5p"), Called: tile("5p"), From: 1}
	r := discardWindow(
		Entry{Seat: 1, Kind: ActionChi, Options: []Meld{{Kind: MeldSequence}}},
		Entry{Seat: 2, Kind: ActionPon, Options: []Meld{pon}},
		Entry{Seat: 3, Kind: ActionRon},
	)
	require.True(t, r.blocked())

	lost := r.commit(2, ActionPon, &pon)
	require.Empty(t, lost)
	require.Equal(t, Declined, r.find(1, ActionChi).Decision)
	require.Equal(t, Pending, r.find(3, ActionRon).Decision)
	require.True(t, r.blocked())

	require.True(t, r.decline(3))
	require.False(t, r.blocked())
	require.Empty(t, r.committedRons())
	best := r.bestCall()
	require.NotNil(t, best)
	require.Equal(t, 2, best.Seat)
	require.True(t, sameMeld(pon, *best.Chosen))
}

func TestRegistry_OwnCallDropsOwnRon(t *testing.T) {
	r := discardWindow(
		Entry{Seat: 1, Kind: ActionRon},
		Entry{Seat: 1, Kind: ActionChi},
	)
	lost := r.commit(1, ActionChi, &Meld{Kind: MeldSequence})
	require.Equal(t, []int{1}, lost)
	require.False(t, r.Offered(1, ActionRon))
}

func TestRegistry_RonsInSeatingOrder(t *testing.T) {
	r := Registry{Event: EventDiscard, Source: 2, Entries: []Entry{
		{Seat: 0, Kind: ActionRon},
		{Seat: 1, Kind: ActionRon},
		{Seat: 3, Kind: ActionRon},
	}}
	for _, seat := range []int{0, 1, 3} {
		r.commit(seat, ActionRon, nil)
	}
	require.Equal(t, []int{3, 0, 1}, r.committedRons())
}

func TestRegistry_RiichiConfirmDoesNotBlock(t *testing.T) {
	r := discardWindow(Entry{Seat: 0, Kind: ActionRiichiConfirm})
	require.False(t, r.blocked())
	require.False(t, r.hasPending(0))
	require.False(t, r.decline(0))
	require.Equal(t, Pending, r.Entries[0].Decision)
}

func TestRegistry_CloneDoesNotAlias(t *testing.T) {
	m := Meld{Kind: MeldTriplet, Own: MustParseTiles("5p5p"), Called: tile("5p")}
	r := discardWindow(Entry{Seat: 1, Kind: ActionPon, Options: []Meld{m}})
	c := r.clone()
	c.Entries[0].Decision = Declined
	c.Entries[0].Options[0].Own[0] = tile("1z")
	require.Equal(t, Pending, r.Entries[0].Decision)
	require.Equal(t, Pin5, r.Entries[0].Options[0].Own[0].Type)
}

func TestKuikaeKinds(t *testing.T) {
	chi := func(own, called string) Meld {
		return Meld{Kind: MeldSequence, Own: MustParseTiles(own), Called: tile(called)}
	}
	require.ElementsMatch(t, []TileType{Man1, Man4}, kuikaeKinds(chi("2m3m", "1m")))
	require.ElementsMatch(t, []TileType{Man5, Man2}, kuikaeKinds(chi("3m4m", "5m")))
	require.ElementsMatch(t, []TileType{Man2}, kuikaeKinds(chi("1m3m", "2m")))
	require.ElementsMatch(t, []TileType{So7}, kuikaeKinds(chi("8s9s", "7s")))
	require.ElementsMatch(t, []TileType{Pin5},
		kuikaeKinds(Meld{Kind: MeldTriplet, Own: MustParseTiles("5p5p"), Called: tile("5p")}))
}

func TestHasLegalDiscard(t *testing.T) {
	concealed := MustParseTiles("23m14m")
	m := Meld{Kind: MeldSequence, Own: MustParseTiles("2m3m"), Called: tile("1m")}
	require.False(t, hasLegalDiscard(concealed, m))
	require.True(t, hasLegalDiscard(MustParseTiles("23m1z"), m))
}
