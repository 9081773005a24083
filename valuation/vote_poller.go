package valuation

import (
	"context"
	"encoding/json"
	"time"

	"cosmossdk.io/log"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/store"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/types"
)

// VotePoller prices votes of proposals whose strategy values are known, and
// settles scores once voting closes. A vote whose breakdown does not fit the
// proposal's strategy list is marked Ineligible at value 0 instead of failing
// the sweep.
type VotePoller struct {
	logger log.Logger
	st     *store.Store

	batchSize int
	interval  time.Duration

	now   func() uint64
	sleep func(ctx context.Context, d time.Duration)
}

func NewVotePoller(st *store.Store, batchSize int, interval time.Duration, logger log.Logger) *VotePoller {
	return &VotePoller{
		logger:    logger.With("module", "votePoller"),
		st:        st,
		batchSize: batchSize,
		interval:  interval,
		now:       func() uint64 { return uint64(time.Now().Unix()) },
		sleep:     sleepCtx,
	}
}

func (p *VotePoller) Run(ctx context.Context) {
	p.logger.Info("vote poller start", "interval", p.interval, "batch", p.batchSize)
	for ctx.Err() == nil {
		n, err := p.Sweep(ctx)
		if err != nil {
			p.logger.Error("vote sweep fail", "err", err)
		}
		if err == nil && n >= p.batchSize {
			continue
		}
		p.sleep(ctx, p.interval)
	}
}

// Sweep walks proposals with known strategy values and prices their pending
// votes. Returns the number of votes updated.
func (p *VotePoller) Sweep(ctx context.Context) (int, error) {
	total := 0
	cursor := ""
	for {
		proposals, err := p.st.ProposalsWithValues(cursor, p.batchSize)
		if err != nil {
			return total, err
		}
		if len(proposals) == 0 {
			return total, nil
		}
		for i := range proposals {
			if ctx.Err() != nil {
				return total, ctx.Err()
			}
			n, err := p.valueVotes(&proposals[i])
			if err != nil {
				return total, err
			}
			total += n
			if total >= p.batchSize {
				return total, nil
			}
		}
		cursor = proposals[len(proposals)-1].ID
	}
}

func (p *VotePoller) valueVotes(proposal *store.Proposal) (int, error) {
	// Voting has closed: settle the score state before valuing, so this
	// pass already hands out terminal statuses.
	if proposal.ScoresState != types.VpStateFinal && proposal.End <= p.now() {
		if err := p.st.MarkProposalScoresFinal(proposal.ID); err != nil {
			return 0, err
		}
		proposal.ScoresState = types.VpStateFinal
	}
	final := proposal.ScoresState == types.VpStateFinal

	votes, err := p.st.VotesAwaitingValue(proposal.ID, final, p.batchSize)
	if err != nil {
		return 0, err
	}
	if len(votes) == 0 {
		// Still advance the proposal: its scores_state may have settled
		// since the last sweep.
		if proposal.Cb == int(types.StatusPendingCompute) || proposal.Cb == int(types.StatusPendingFinal) {
			return 0, p.st.RecomputeProposalValue(proposal.ID)
		}
		return 0, nil
	}

	// Votes settle with the proposal's scores, not their own upstream
	// vp_state: once the scores are final the value cannot move again.
	cb := types.StatusPendingFinal
	if final {
		cb = types.StatusFinal
	}
	unitValues := proposal.ParseVpValues()
	updates := make([]store.VoteValueUpdate, 0, len(votes))
	for _, v := range votes {
		breakdown := unmarshalBreakdown(v.VpByStrategy)
		value, err := Value(breakdown, unitValues)
		if err != nil {
			p.logger.Info("vote breakdown mismatch", "vote", v.ID, "proposal", proposal.ID)
			updates = append(updates, store.VoteValueUpdate{
				ID: v.ID, Value: 0, Cb: types.StatusIneligible,
			})
			continue
		}
		updates = append(updates, store.VoteValueUpdate{ID: v.ID, Value: value, Cb: cb})
	}
	if err := p.st.ApplyVoteValues(updates); err != nil {
		return 0, err
	}
	return len(updates), p.st.RecomputeProposalValue(proposal.ID)
}

func unmarshalBreakdown(raw string) []float64 {
	if raw == "" {
		return []float64{}
	}
	var out []float64
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}
