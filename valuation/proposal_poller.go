package valuation

import (
	"context"
	"time"

	"cosmossdk.io/log"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/scores"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/store"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/types"
)

// ProposalPoller moves started proposals from PendingSync to PendingCompute
// by fetching per-strategy unit values from the oracle. Oracle failures mark
// the row SyncError so the next sweep retries it.
type ProposalPoller struct {
	logger log.Logger
	st     *store.Store
	oracle scores.Oracle

	batchSize int
	interval  time.Duration
	threshold int

	now   func() uint64
	sleep func(ctx context.Context, d time.Duration)

	cursor   string
	failures int
}

func NewProposalPoller(st *store.Store, oracle scores.Oracle, batchSize int, interval time.Duration, threshold int, logger log.Logger) *ProposalPoller {
	return &ProposalPoller{
		logger:    logger.With("module", "proposalPoller"),
		st:        st,
		oracle:    oracle,
		batchSize: batchSize,
		interval:  interval,
		threshold: threshold,
		now:       func() uint64 { return uint64(time.Now().Unix()) },
		sleep:     sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (p *ProposalPoller) Run(ctx context.Context) {
	p.logger.Info("proposal poller start", "interval", p.interval, "batch", p.batchSize)
	for ctx.Err() == nil {
		n, err := p.Sweep(ctx)
		if err != nil {
			p.logger.Error("proposal sweep fail", "err", err)
		}
		// A full batch means we are behind, loop again without sleeping.
		if err == nil && n == p.batchSize {
			continue
		}
		p.sleep(ctx, p.interval)
	}
}

// Sweep processes one batch past the last-seen id and returns the number of
// proposals scanned. The cursor keeps rows that just failed (SyncError) from
// being re-fetched in the same pass; it rewinds once the pass drains, so the
// next interval retries them.
func (p *ProposalPoller) Sweep(ctx context.Context) (int, error) {
	proposals, err := p.st.ProposalsAwaitingValues(p.cursor, p.now(), p.batchSize)
	if err != nil {
		return 0, err
	}
	for i := range proposals {
		if err := p.value(ctx, &proposals[i]); err != nil {
			return i + 1, err
		}
		p.cursor = proposals[i].ID
	}
	if len(proposals) < p.batchSize {
		p.cursor = ""
	}
	return len(proposals), nil
}

func (p *ProposalPoller) value(ctx context.Context, proposal *store.Proposal) error {
	strategies := proposal.ParseStrategies()
	if len(strategies) == 0 {
		// Nothing to price. The proposal can never carry value.
		p.logger.Info("proposal without strategies", "proposal", proposal.ID)
		return p.st.SetProposalValues(proposal.ID, []float64{}, types.StatusIneligible)
	}
	values, err := p.oracle.VpValueByStrategy(ctx, proposal.Network, proposal.Snapshot, strategies)
	if err != nil {
		p.failures++
		if p.failures >= p.threshold {
			p.logger.Error("oracle unavailable", "proposal", proposal.ID, "failures", p.failures, "err", err)
		} else {
			p.logger.Info("proposal sync retry later", "proposal", proposal.ID, "err", err)
		}
		return p.st.SetProposalStatus(proposal.ID, types.StatusSyncError)
	}
	p.failures = 0
	total := float64(0)
	for _, v := range values {
		total += v
	}
	if total <= 0 {
		// No strategy carries value at this snapshot.
		return p.st.SetProposalValues(proposal.ID, values, types.StatusIneligible)
	}
	return p.st.SetProposalValues(proposal.ID, values, types.StatusPendingCompute)
}
