package mahjong

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/k-jun/mahjong-tui-sub000/core/domain/entity"
)

func TestGamePersister_RecordsHands(t *testing.T) {
	records := newMemoryRecords()
	wall := ronTable.build(t)
	eval := plainEvaluator()
	cfg := testConfig(eval)
	h, err := Start(cfg, wall)
	require.NoError(t, err)

	gp := NewGamePersister(records, roomID, cfg.Users, entity.RuleSet{InitialPoints: 25000, Hands: 8})
	gp.StartRound(h, wall)

	discard := Input{Token: h.Token, Kind: InputDiscard, Seat: 0, Tile: handTile(t, h, 0, "5p")}
	require.NoError(t, h.Apply(discard))
	gp.RecordInput(discard)
	win := Input{Token: h.Token, Kind: InputWin, Seat: 2}
	require.NoError(t, h.Apply(win))
	gp.RecordInput(win)
	gp.CompleteRound(h.Settlement)

	// nothing is open now
	gp.RecordInput(win)

	m := NewMatch(DefaultRules(), cfg.Users, eval)
	require.NoError(t, m.Finish(h.Settlement))
	require.NoError(t, gp.FinalizeGame(context.Background(), m.Standings(), m.Points))

	g, err := records.FindGameRecordByRoom(context.Background(), roomID)
	require.NoError(t, err)
	require.Equal(t, gp.GetGameRecordID(), g.ID)
	require.Equal(t, entity.GameStatusCompleted, g.Status)
	require.Len(t, g.Players, 4)

	rounds, err := records.FindRoundRecords(context.Background(), g.ID)
	require.NoError(t, err)
	require.Len(t, rounds, 1)
	r := rounds[0]
	require.Equal(t, g.ID, r.GameRecordID)
	require.Equal(t, "East", r.RoundWind)
	require.Len(t, r.Events, 4)
	require.Equal(t, map[string]interface{}{"type": int(Pin5), "id": discard.Tile.ID}, r.Events[1].Data["tile"])
	require.Equal(t, discard.Token, r.Events[1].Token)

	res := r.RoundResult
	require.Equal(t, "ron", res.EndType)
	require.Len(t, res.Claims, 1)
	require.Equal(t, 2, res.Claims[0].WinnerSeat)
	require.Equal(t, 0, res.Claims[0].LoserSeat)
	require.Equal(t, 1300, res.Claims[0].Points)
	require.Contains(t, res.Claims[0].Yaku, YakuTanyao.String())

	// a second flush is a no-op
	require.NoError(t, gp.AbortGame(context.Background(), "late"))
	require.Equal(t, entity.GameStatusCompleted, g.Status)
	require.Len(t, records.rounds, 1)
}

func TestGamePersister_Abort(t *testing.T) {
	records := newMemoryRecords()
	gp := NewGamePersister(records, roomID, testConfig(nil).Users, entity.RuleSet{})
	require.NoError(t, gp.AbortGame(context.Background(), "node shutdown"))

	g := records.games[0]
	require.Equal(t, entity.GameStatusAborted, g.Status)
	require.Equal(t, "node shutdown", g.Reason)
	require.Empty(t, records.rounds)
}
