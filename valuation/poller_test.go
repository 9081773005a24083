package valuation

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/scores"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/store"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/types"
)

const testNow = uint64(1700000000)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), log.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func testProposalPoller(st *store.Store, oracle scores.Oracle) *ProposalPoller {
	p := NewProposalPoller(st, oracle, 16, time.Second, 3, log.NewNopLogger())
	p.now = func() uint64 { return testNow }
	return p
}

func seedPendingProposal(t *testing.T, st *store.Store, id string, strategies string) {
	t.Helper()
	require.NoError(t, st.CreateProposal(&store.Proposal{
		ID:          id,
		Space:       "dao.eth",
		Network:     "1",
		Type:        types.VotingTypeSingleChoice,
		Strategies:  strategies,
		Start:       testNow - 100,
		End:         testNow + 100,
		ScoresState: types.VpStatePending,
		Cb:          int(types.StatusPendingSync),
	}))
}

func TestProposalPollerValues(t *testing.T) {
	st := testStore(t)
	seedPendingProposal(t, st, "0x01", `[{"name":"a"},{"name":"b"}]`)
	oracle := &scores.MockOracle{Values: []float64{2, 3}}

	n, err := testProposalPoller(st, oracle).Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)

	p, err := st.GetProposal("0x01")
	require.NoError(t, err)
	require.Equal(t, int(types.StatusPendingCompute), p.Cb)
	require.Equal(t, []float64{2, 3}, p.ParseVpValues())
}

func TestProposalPollerSkipsUnstarted(t *testing.T) {
	st := testStore(t)
	require.NoError(t, st.CreateProposal(&store.Proposal{
		ID:         "0x01",
		Strategies: `[{"name":"a"}]`,
		Start:      testNow + 100,
		Cb:         int(types.StatusPendingSync),
	}))

	n, err := testProposalPoller(st, &scores.MockOracle{}).Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestProposalPollerSyncErrorRetries(t *testing.T) {
	st := testStore(t)
	seedPendingProposal(t, st, "0x01", `[{"name":"a"}]`)
	oracle := &scores.MockOracle{Err: scores.ErrUnavailable}
	poller := testProposalPoller(st, oracle)

	_, err := poller.Sweep(context.Background())
	require.NoError(t, err)
	p, _ := st.GetProposal("0x01")
	require.Equal(t, int(types.StatusSyncError), p.Cb)

	// The next sweep picks the row up again once the oracle recovers.
	oracle.Err = nil
	oracle.Values = []float64{7}
	_, err = poller.Sweep(context.Background())
	require.NoError(t, err)
	p, _ = st.GetProposal("0x01")
	require.Equal(t, int(types.StatusPendingCompute), p.Cb)
	require.Equal(t, []float64{7}, p.ParseVpValues())
}

func TestProposalPollerWorthlessStrategies(t *testing.T) {
	st := testStore(t)
	seedPendingProposal(t, st, "0x01", `[{"name":"a"},{"name":"b"}]`)
	oracle := &scores.MockOracle{Values: []float64{0, 0}}

	_, err := testProposalPoller(st, oracle).Sweep(context.Background())
	require.NoError(t, err)

	p, _ := st.GetProposal("0x01")
	require.Equal(t, int(types.StatusIneligible), p.Cb)
	require.Equal(t, []float64{0, 0}, p.ParseVpValues())
}

func TestProposalPollerNoStrategies(t *testing.T) {
	st := testStore(t)
	seedPendingProposal(t, st, "0x01", "")

	oracle := &scores.MockOracle{}
	_, err := testProposalPoller(st, oracle).Sweep(context.Background())
	require.NoError(t, err)

	p, _ := st.GetProposal("0x01")
	require.Equal(t, int(types.StatusIneligible), p.Cb)
	require.Equal(t, 0, oracle.Calls)
}

func TestProposalPollerRunCatchesUp(t *testing.T) {
	st := testStore(t)
	seedPendingProposal(t, st, "0x01", `[{"name":"a"}]`)
	seedPendingProposal(t, st, "0x02", `[{"name":"a"}]`)

	poller := NewProposalPoller(st, &scores.MockOracle{Values: []float64{1}}, 1, time.Second, 3, log.NewNopLogger())
	poller.now = func() uint64 { return testNow }

	ctx, cancel := context.WithCancel(context.Background())
	sleeps := 0
	poller.sleep = func(context.Context, time.Duration) {
		sleeps++
		cancel()
	}
	poller.Run(ctx)

	// Full batches are drained back to back; the loop only sleeps once idle.
	require.Equal(t, 1, sleeps)
	for _, id := range []string{"0x01", "0x02"} {
		p, err := st.GetProposal(id)
		require.NoError(t, err)
		require.Equal(t, int(types.StatusPendingCompute), p.Cb)
	}
}

func TestProposalPollerAdvancesPastSyncErrors(t *testing.T) {
	st := testStore(t)
	seedPendingProposal(t, st, "0x01", `[{"name":"a"}]`)
	seedPendingProposal(t, st, "0x02", `[{"name":"a"}]`)
	oracle := &scores.MockOracle{Err: scores.ErrUnavailable}

	poller := NewProposalPoller(st, oracle, 1, time.Second, 3, log.NewNopLogger())
	poller.now = func() uint64 { return testNow }

	// Each sweep moves past the row it just failed on instead of
	// re-fetching it within the same pass.
	n, err := poller.Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
	n, err = poller.Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, 2, oracle.Calls)

	// The pass drains, the cursor rewinds, and the next interval retries.
	n, err = poller.Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, n)

	ctx, cancel := context.WithCancel(context.Background())
	sleeps := 0
	poller.sleep = func(context.Context, time.Duration) {
		sleeps++
		cancel()
	}
	poller.Run(ctx)
	require.Equal(t, 1, sleeps)
}

func seedValuedProposal(t *testing.T, st *store.Store, scoresState string) {
	t.Helper()
	require.NoError(t, st.CreateProposal(&store.Proposal{
		ID:                "0xp",
		Space:             "dao.eth",
		Network:           "1",
		Strategies:        `[{"name":"a"},{"name":"b"}]`,
		VpValueByStrategy: `[2,1]`,
		Start:             testNow - 100,
		End:               testNow + 100,
		ScoresState:       scoresState,
		Cb:                int(types.StatusPendingCompute),
	}))
}

func seedVote(t *testing.T, st *store.Store, id, breakdown, vpState string, cb types.StatusCode, value float64) {
	t.Helper()
	require.NoError(t, st.CreateVote(&store.Vote{
		ID:           id,
		Voter:        "0x1111111111111111111111111111111111111111",
		Space:        "dao.eth",
		Proposal:     "0xp",
		VpByStrategy: breakdown,
		VpState:      vpState,
		VpValue:      value,
		Created:      testNow,
		Cb:           int(cb),
	}))
}

func voteByID(t *testing.T, st *store.Store, id string) *store.Vote {
	t.Helper()
	var v store.Vote
	require.NoError(t, st.DB().Where("id = ?", id).First(&v).Error)
	return &v
}

func testVotePoller(st *store.Store) *VotePoller {
	p := NewVotePoller(st, 16, time.Second, log.NewNopLogger())
	p.now = func() uint64 { return testNow }
	return p
}

func TestVotePollerValuesVotes(t *testing.T) {
	st := testStore(t)
	seedValuedProposal(t, st, types.VpStateFinal)
	seedVote(t, st, "0x01", `[100,50]`, types.VpStateFinal, types.StatusPendingSync, 0)
	seedVote(t, st, "0x02", `[10,0]`, types.VpStatePending, types.StatusPendingSync, 0)

	n, err := testVotePoller(st).Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, n)

	// Final scores settle every vote, regardless of its own vp_state.
	v1 := voteByID(t, st, "0x01")
	require.Equal(t, float64(250), v1.VpValue)
	require.Equal(t, int(types.StatusFinal), v1.Cb)

	v2 := voteByID(t, st, "0x02")
	require.Equal(t, float64(20), v2.VpValue)
	require.Equal(t, int(types.StatusFinal), v2.Cb)

	p, _ := st.GetProposal("0xp")
	require.Equal(t, float64(270), p.ScoresTotalValue)
	require.Equal(t, int(types.StatusFinal), p.Cb)
}

func TestVotePollerHoldsPendingScores(t *testing.T) {
	st := testStore(t)
	seedValuedProposal(t, st, types.VpStatePending)
	seedVote(t, st, "0x01", `[100,50]`, types.VpStateFinal, types.StatusPendingSync, 0)

	_, err := testVotePoller(st).Sweep(context.Background())
	require.NoError(t, err)

	// Voting still open and scores pending: the value lands but stays
	// refreshable.
	v := voteByID(t, st, "0x01")
	require.Equal(t, float64(250), v.VpValue)
	require.Equal(t, int(types.StatusPendingFinal), v.Cb)

	p, _ := st.GetProposal("0xp")
	require.Equal(t, int(types.StatusPendingFinal), p.Cb)
}

func TestVotePollerSettlesPendingVotes(t *testing.T) {
	st := testStore(t)
	seedValuedProposal(t, st, types.VpStateFinal)
	seedVote(t, st, "0x01", `[100,50]`, types.VpStatePending, types.StatusPendingFinal, 250)

	n, err := testVotePoller(st).Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// A vote parked in PendingFinal is revisited once the proposal's
	// scores are final, and exits to Final.
	v := voteByID(t, st, "0x01")
	require.Equal(t, float64(250), v.VpValue)
	require.Equal(t, int(types.StatusFinal), v.Cb)

	p, _ := st.GetProposal("0xp")
	require.Equal(t, int(types.StatusFinal), p.Cb)
}

func TestVotePollerFinalizesElapsedProposal(t *testing.T) {
	st := testStore(t)
	require.NoError(t, st.CreateProposal(&store.Proposal{
		ID:                "0xp",
		Space:             "dao.eth",
		Network:           "1",
		Strategies:        `[{"name":"a"},{"name":"b"}]`,
		VpValueByStrategy: `[2,1]`,
		Start:             testNow - 200,
		End:               testNow - 10,
		ScoresState:       types.VpStatePending,
		Cb:                int(types.StatusPendingCompute),
	}))
	seedVote(t, st, "0x01", `[100,50]`, types.VpStatePending, types.StatusPendingSync, 0)

	_, err := testVotePoller(st).Sweep(context.Background())
	require.NoError(t, err)

	// Voting closed: the sweep itself settles the scores and everything
	// reaches a terminal status.
	p, _ := st.GetProposal("0xp")
	require.Equal(t, types.VpStateFinal, p.ScoresState)
	require.Equal(t, int(types.StatusFinal), p.Cb)

	v := voteByID(t, st, "0x01")
	require.Equal(t, float64(250), v.VpValue)
	require.Equal(t, int(types.StatusFinal), v.Cb)
}

func TestVotePollerMismatchedBreakdown(t *testing.T) {
	st := testStore(t)
	seedValuedProposal(t, st, types.VpStatePending)
	seedVote(t, st, "0x01", `[100]`, types.VpStateFinal, types.StatusPendingSync, 0)

	_, err := testVotePoller(st).Sweep(context.Background())
	require.NoError(t, err)

	v := voteByID(t, st, "0x01")
	require.Equal(t, float64(0), v.VpValue)
	require.Equal(t, int(types.StatusIneligible), v.Cb)

	p, _ := st.GetProposal("0xp")
	require.Equal(t, int(types.StatusPendingFinal), p.Cb)
}

func TestVotePollerLeavesTerminalVotes(t *testing.T) {
	st := testStore(t)
	seedValuedProposal(t, st, types.VpStatePending)
	seedVote(t, st, "0x01", `[100,50]`, types.VpStateFinal, types.StatusFinal, 250)

	n, err := testVotePoller(st).Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, n)

	v := voteByID(t, st, "0x01")
	require.Equal(t, float64(250), v.VpValue)
	require.Equal(t, int(types.StatusFinal), v.Cb)
}
