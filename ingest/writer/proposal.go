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

const (
	MaxTitleLength  = 256
	MaxBodyLength   = 10000
	MaxChoiceLength = 500
	MaxBasicChoices = 6

	activeProposalLimit         = 5
	activeProposalLimitVerified = 20
)

type ProposalWriter struct {
	logger log.Logger
	st     *store.Store
	oracle scores.Oracle
}

func NewProposalWriter(st *store.Store, oracle scores.Oracle, logger log.Logger) *ProposalWriter {
	return &ProposalWriter{
		logger: logger.With("module", "proposalWriter"),
		st:     st,
		oracle: oracle,
	}
}

type proposalContext struct {
	payload  *message.ProposalPayload
	space    *store.Space
	settings *types.SpaceSettings
}

func (w *ProposalWriter) Verify(ctx context.Context, env *message.Envelope) (interface{}, error) {
	p, err := message.Decode[message.ProposalPayload](env)
	if err != nil {
		return nil, ErrInvalidPayload
	}
	space, err := activeSpace(w.st, p.Space)
	if err != nil {
		return nil, err
	}
	if space.Flagged {
		return nil, ErrNotAuthorized
	}
	settings, err := space.ParseSettings()
	if err != nil {
		return nil, err
	}
	if err := w.checkShape(p, settings); err != nil {
		return nil, err
	}
	if err := w.checkAuthor(ctx, p, space, settings); err != nil {
		return nil, err
	}
	if err := w.checkLimits(p, space); err != nil {
		return nil, err
	}
	return &proposalContext{payload: p, space: space, settings: settings}, nil
}

func (w *ProposalWriter) checkShape(p *message.ProposalPayload, settings *types.SpaceSettings) error {
	if p.Title == "" || len(p.Title) > MaxTitleLength || len(p.Body) > MaxBodyLength {
		return ErrInvalidPayload
	}
	if len(p.Choices) == 0 {
		return ErrInvalidPayload
	}
	for _, c := range p.Choices {
		if len(c) > MaxChoiceLength {
			return ErrInvalidPayload
		}
	}
	votingType := p.Type
	if settings.Voting.Type != "" && votingType != settings.Voting.Type {
		return ErrInvalidPayload
	}
	if votingType == types.VotingTypeBasic && len(p.Choices) > MaxBasicChoices {
		return ErrInvalidPayload
	}
	if p.Snapshot == 0 || p.Start >= p.End || p.End <= p.Timestamp {
		return ErrInvalidPayload
	}
	if settings.Voting.Delay > 0 && p.Start != p.Timestamp+settings.Voting.Delay {
		return ErrInvalidPayload
	}
	if settings.Voting.Period > 0 && p.End != p.Start+settings.Voting.Period {
		return ErrInvalidPayload
	}
	return nil
}

// checkAuthor applies the space's proposal validation rule. The "basic"
// rule prices the author's voting power through the oracle before commit.
func (w *ProposalWriter) checkAuthor(ctx context.Context, p *message.ProposalPayload, space *store.Space, settings *types.SpaceSettings) error {
	if settings.IsAdmin(p.From) || settings.IsModerator(p.From) || settings.IsMember(p.From) {
		return nil
	}
	switch settings.Validation.Name {
	case "", "any":
		return nil
	case "basic":
		var params struct {
			MinScore float64 `json:"minScore"`
		}
		if len(settings.Validation.Params) > 0 {
			if err := json.Unmarshal(settings.Validation.Params, &params); err != nil {
				return ErrValidationFailed
			}
		}
		res, err := w.oracle.Vp(ctx, p.From, space.Network, p.Snapshot, settings.Strategies)
		if err != nil {
			return err
		}
		if res.Vp < params.MinScore {
			return ErrValidationFailed
		}
		return nil
	default:
		return ErrValidationFailed
	}
}

func (w *ProposalWriter) checkLimits(p *message.ProposalPayload, space *store.Space) error {
	day, err := w.st.CountSpaceProposalsSince(p.Space, p.Timestamp-86400)
	if err != nil {
		return err
	}
	if day >= space.ProposalDayLimit() {
		return ErrLimitReached
	}
	month, err := w.st.CountSpaceProposalsSince(p.Space, p.Timestamp-86400*30)
	if err != nil {
		return err
	}
	if month >= space.ProposalMonthLimit() {
		return ErrLimitReached
	}
	active, err := w.st.CountActiveProposalsByAuthor(p.Space, p.From, p.Timestamp)
	if err != nil {
		return err
	}
	limit := uint64(activeProposalLimit)
	if space.Verified || space.Turbo {
		limit = activeProposalLimitVerified
	}
	if active >= limit {
		return ErrLimitReached
	}
	return nil
}

func (w *ProposalWriter) Action(_ context.Context, env *message.Envelope, id, cid, receipt string, vctx interface{}) error {
	c := vctx.(*proposalContext)
	p := c.payload
	// The id is a content hash: an existing row means this exact payload
	// already landed, so a resubmission succeeds without side effects.
	existing, err := w.st.GetProposal(id)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	choices, _ := json.Marshal(p.Choices)
	strategies, _ := json.Marshal(c.settings.Strategies)
	validation, _ := json.Marshal(c.settings.Validation)
	proposal := &store.Proposal{
		ID:                id,
		IPFS:              cid,
		Space:             p.Space,
		Author:            p.From,
		Network:           c.space.Network,
		Type:              p.Type,
		Title:             p.Title,
		Body:              p.Body,
		Discussion:        p.Discussion,
		Choices:           string(choices),
		Strategies:        string(strategies),
		Validation:        string(validation),
		Snapshot:          p.Snapshot,
		Start:             p.Start,
		End:               p.End,
		Quorum:            c.settings.Voting.Quorum,
		Privacy:           c.settings.Voting.Privacy,
		App:               p.App,
		Created:           p.Timestamp,
		Updated:           p.Timestamp,
		ScoresState:       types.VpStatePending,
		ScoresByStrategy:  "[]",
		VpValueByStrategy: "[]",
		Cb:                int(types.StatusPendingSync),
	}
	if err := w.st.CreateProposal(proposal); err != nil {
		return err
	}
	if err := w.st.IncrementSpaceProposalCount(p.Space, 1); err != nil {
		return err
	}
	return w.st.IncrementLeaderboardProposalCount(p.Space, p.From)
}
