package store

import (
	"path/filepath"
	"testing"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"), log.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestLeaderboardUpsert(t *testing.T) {
	st := testStore(t)

	require.NoError(t, st.IncrementLeaderboardProposalCount("dao.eth", "0x01"))
	require.NoError(t, st.IncrementLeaderboardProposalCount("dao.eth", "0x01"))
	require.NoError(t, st.IncrementLeaderboardVoteCount("dao.eth", "0x01", 100))
	require.NoError(t, st.IncrementLeaderboardVoteCount("dao.eth", "0x02", 200))

	var rows []Leaderboard
	require.NoError(t, st.db.Order("user asc").Find(&rows).Error)
	require.Len(t, rows, 2)
	require.Equal(t, uint64(2), rows[0].ProposalCount)
	require.Equal(t, uint64(1), rows[0].VoteCount)
	require.Equal(t, uint64(100), rows[0].LastVote)
	require.Equal(t, uint64(0), rows[1].ProposalCount)
	require.Equal(t, uint64(1), rows[1].VoteCount)
}

func TestSpaceCounters(t *testing.T) {
	st := testStore(t)
	require.NoError(t, st.SaveSpace(&Space{ID: "dao.eth", Network: "1"}))

	require.NoError(t, st.IncrementSpaceProposalCount("dao.eth", 1))
	require.NoError(t, st.IncrementSpaceProposalCount("dao.eth", 1))
	require.NoError(t, st.IncrementSpaceProposalCount("dao.eth", -1))
	require.NoError(t, st.IncrementSpaceVoteCount("dao.eth"))

	space, err := st.GetSpace("dao.eth")
	require.NoError(t, err)
	require.Equal(t, uint64(1), space.ProposalCount)
	require.Equal(t, uint64(1), space.VoteCount)
}

func TestStatementUpsert(t *testing.T) {
	st := testStore(t)

	first := &Statement{
		Delegate:  "0x01",
		Space:     "dao.eth",
		Statement: "v1",
		Created:   100,
		Updated:   100,
	}
	require.NoError(t, st.SaveStatement("0x01", "dao.eth", first))

	second := &Statement{
		Delegate:  "0x01",
		Space:     "dao.eth",
		Statement: "v2",
		Created:   200,
		Updated:   200,
	}
	require.NoError(t, st.SaveStatement("0x01", "dao.eth", second))

	var rows []Statement
	require.NoError(t, st.db.Where("delegate = ?", "0x01").Find(&rows).Error)
	require.Len(t, rows, 1)
	require.Equal(t, "v2", rows[0].Statement)
	// The original creation time survives the rewrite.
	require.Equal(t, uint64(100), rows[0].Created)
	require.Equal(t, uint64(200), rows[0].Updated)
}

func TestProposalStatusGuard(t *testing.T) {
	st := testStore(t)
	require.NoError(t, st.CreateProposal(&Proposal{
		ID: "0x01",
		Cb: int(types.StatusFinal),
	}))
	require.NoError(t, st.CreateProposal(&Proposal{
		ID: "0x02",
		Cb: int(types.StatusPendingSync),
	}))

	// Terminal rows are never moved back.
	require.NoError(t, st.SetProposalStatus("0x01", types.StatusSyncError))
	p, _ := st.GetProposal("0x01")
	require.Equal(t, int(types.StatusFinal), p.Cb)

	require.NoError(t, st.SetProposalStatus("0x02", types.StatusSyncError))
	p, _ = st.GetProposal("0x02")
	require.Equal(t, int(types.StatusSyncError), p.Cb)
}

func TestApplyVoteValuesGuard(t *testing.T) {
	st := testStore(t)
	require.NoError(t, st.CreateVote(&Vote{
		ID: "0x01", Proposal: "0xp", Voter: "a", Space: "s",
		Cb: int(types.StatusPendingSync),
	}))
	require.NoError(t, st.CreateVote(&Vote{
		ID: "0x02", Proposal: "0xp", Voter: "b", Space: "s",
		VpValue: 7, Cb: int(types.StatusFinal),
	}))

	require.NoError(t, st.ApplyVoteValues([]VoteValueUpdate{
		{ID: "0x01", Value: 10, Cb: types.StatusFinal},
		{ID: "0x02", Value: 99, Cb: types.StatusFinal},
	}))

	var v1 Vote
	require.NoError(t, st.db.Where("id = ?", "0x01").First(&v1).Error)
	require.Equal(t, float64(10), v1.VpValue)
	require.Equal(t, int(types.StatusFinal), v1.Cb)

	// The already-final vote keeps its committed value.
	var v2 Vote
	require.NoError(t, st.db.Where("id = ?", "0x02").First(&v2).Error)
	require.Equal(t, float64(7), v2.VpValue)
}

func TestSupersedeVoteRewritesRow(t *testing.T) {
	st := testStore(t)
	require.NoError(t, st.CreateVote(&Vote{
		ID: "0x01", IPFS: "cid1", Voter: "a", Space: "s", Proposal: "p",
		Choice: "1", Vp: 1, VpByStrategy: "[1]", VpValue: 5, Created: 100,
		Cb: int(types.StatusFinal),
	}))

	require.NoError(t, st.SupersedeVote("0x01", &Vote{
		ID: "0x02", IPFS: "cid2", Choice: "2", Vp: 2, VpByStrategy: "[2]",
		VpState: types.VpStatePending, Created: 200,
	}))

	var n int
	require.NoError(t, st.db.Model(&Vote{}).Count(&n).Error)
	require.Equal(t, 1, n)

	var v Vote
	require.NoError(t, st.db.Where("id = ?", "0x02").First(&v).Error)
	require.Equal(t, "cid2", v.IPFS)
	require.Equal(t, "2", v.Choice)
	require.Equal(t, float64(0), v.VpValue)
	require.Equal(t, int(types.StatusPendingSync), v.Cb)
}
