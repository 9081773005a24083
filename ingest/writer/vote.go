package writer

import (
	"context"
	"encoding/json"

	"cosmossdk.io/log"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/message"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/scores"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/store"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/types"
)

type VoteWriter struct {
	logger log.Logger
	st     *store.Store
	oracle scores.Oracle
}

func NewVoteWriter(st *store.Store, oracle scores.Oracle, logger log.Logger) *VoteWriter {
	return &VoteWriter{
		logger: logger.With("module", "voteWriter"),
		st:     st,
		oracle: oracle,
	}
}

type voteContext struct {
	payload  *message.VotePayload
	proposal *store.Proposal
	vp       *scores.VpResult
}

func (w *VoteWriter) Verify(ctx context.Context, env *message.Envelope) (interface{}, error) {
	v, err := message.Decode[message.VotePayload](env)
	if err != nil {
		return nil, ErrInvalidPayload
	}
	space, err := activeSpace(w.st, v.Space)
	if err != nil {
		return nil, err
	}
	proposal, err := w.st.GetProposal(v.Proposal)
	if err != nil {
		return nil, err
	}
	if proposal == nil || proposal.Space != v.Space {
		return nil, ErrUnknownProposal
	}
	if proposal.Flagged {
		return nil, ErrNotAuthorized
	}
	if v.Timestamp < proposal.Start || v.Timestamp > proposal.End {
		return nil, ErrVotingClosed
	}
	if err := checkChoice(v.Choice, proposal); err != nil {
		return nil, err
	}
	res, err := w.oracle.Vp(ctx, v.From, space.Network, proposal.Snapshot, proposal.ParseStrategies())
	if err != nil {
		return nil, err
	}
	if len(res.VpByStrategy) != len(proposal.ParseStrategies()) {
		return nil, ErrInvalidPayload
	}
	if res.Vp <= 0 {
		return nil, ErrNoVotingPower
	}
	return &voteContext{payload: v, proposal: proposal, vp: res}, nil
}

// checkChoice validates the choice shape against the proposal's voting type.
// Shape mismatches are rejected, never coerced.
func checkChoice(choice json.RawMessage, proposal *store.Proposal) error {
	if len(choice) == 0 {
		return ErrInvalidChoice
	}
	n := len(proposal.ParseChoices())
	switch proposal.Type {
	case types.VotingTypeSingleChoice, types.VotingTypeBasic:
		var c int
		if err := json.Unmarshal(choice, &c); err != nil {
			return ErrInvalidChoice
		}
		if c < 1 || c > n {
			return ErrInvalidChoice
		}
	case types.VotingTypeApproval, types.VotingTypeRankedChoice:
		var cs []int
		if err := json.Unmarshal(choice, &cs); err != nil {
			return ErrInvalidChoice
		}
		for _, c := range cs {
			if c < 1 || c > n {
				return ErrInvalidChoice
			}
		}
	case types.VotingTypeWeighted, types.VotingTypeQuadratic:
		var cs map[string]float64
		if err := json.Unmarshal(choice, &cs); err != nil {
			return ErrInvalidChoice
		}
		if len(cs) == 0 {
			return ErrInvalidChoice
		}
		for _, weight := range cs {
			if weight < 0 {
				return ErrInvalidChoice
			}
		}
	default:
		// Encrypted choices arrive as opaque strings.
		var c string
		if err := json.Unmarshal(choice, &c); err != nil {
			return ErrInvalidChoice
		}
	}
	return nil
}

// Action commits the vote under last-writer-wins ordering: (timestamp,
// message id) totally orders concurrent votes from one voter without a lock
// manager.
func (w *VoteWriter) Action(_ context.Context, env *message.Envelope, id, cid, receipt string, vctx interface{}) error {
	c := vctx.(*voteContext)
	v := c.payload
	existing, err := w.st.CurrentVote(v.From, v.Proposal, v.Space)
	if err != nil {
		return err
	}
	vpByStrategy, _ := json.Marshal(c.vp.VpByStrategy)
	row := &store.Vote{
		ID:           id,
		IPFS:         cid,
		Voter:        v.From,
		Space:        v.Space,
		Proposal:     v.Proposal,
		Choice:       string(v.Choice),
		Reason:       v.Reason,
		App:          v.App,
		Vp:           c.vp.Vp,
		VpByStrategy: string(vpByStrategy),
		VpState:      c.vp.VpState,
		Created:      v.Timestamp,
		Cb:           int(types.StatusPendingSync),
	}
	if existing == nil {
		if err := w.st.CreateVote(row); err != nil {
			return err
		}
		if err := w.st.IncrementSpaceVoteCount(v.Space); err != nil {
			return err
		}
		if err := w.st.IncrementLeaderboardVoteCount(v.Space, v.From, v.Timestamp); err != nil {
			return err
		}
	} else {
		if v.Timestamp < existing.Created {
			return types.ErrStaleVote
		}
		if v.Timestamp == existing.Created && id <= existing.ID {
			return types.ErrStaleVoteTie
		}
		if err := w.st.SupersedeVote(existing.ID, row); err != nil {
			return err
		}
	}
	now := v.Timestamp
	return w.st.RecomputeProposalScores(c.proposal.ID, c.proposal.End, now)
}
