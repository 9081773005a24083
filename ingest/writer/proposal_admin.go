package writer

import (
	"context"
	"encoding/json"

	"cosmossdk.io/log"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/message"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/store"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/types"
)

// ProposalAdminWriter backs the moderation family: delete, update and flag.
type ProposalAdminWriter struct {
	logger log.Logger
	st     *store.Store
}

func NewProposalAdminWriter(st *store.Store, logger log.Logger) *ProposalAdminWriter {
	return &ProposalAdminWriter{
		logger: logger.With("module", "proposalAdminWriter"),
		st:     st,
	}
}

type proposalAdminContext struct {
	proposal *store.Proposal
	settings *types.SpaceSettings
}

func (w *ProposalAdminWriter) load(space, proposalID string) (*proposalAdminContext, error) {
	sp, err := activeSpace(w.st, space)
	if err != nil {
		return nil, err
	}
	proposal, err := w.st.GetProposal(proposalID)
	if err != nil {
		return nil, err
	}
	if proposal == nil || proposal.Space != space {
		return nil, ErrUnknownProposal
	}
	settings, err := sp.ParseSettings()
	if err != nil {
		return nil, err
	}
	return &proposalAdminContext{proposal: proposal, settings: settings}, nil
}

func (c *proposalAdminContext) isModeration(addr string) bool {
	return c.settings.IsAdmin(addr) || c.settings.IsModerator(addr)
}

type DeleteProposalWriter struct {
	admin *ProposalAdminWriter
}

func (w *DeleteProposalWriter) Verify(_ context.Context, env *message.Envelope) (interface{}, error) {
	p, err := message.Decode[message.ProposalRefPayload](env)
	if err != nil {
		return nil, ErrInvalidPayload
	}
	c, err := w.admin.load(p.Space, p.Proposal)
	if err != nil {
		return nil, err
	}
	if c.proposal.Author != p.From && !c.isModeration(p.From) {
		return nil, ErrNotAuthorized
	}
	return c, nil
}

func (w *DeleteProposalWriter) Action(_ context.Context, env *message.Envelope, id, cid, receipt string, vctx interface{}) error {
	c := vctx.(*proposalAdminContext)
	if err := w.admin.st.DeleteProposal(c.proposal.ID); err != nil {
		return err
	}
	return w.admin.st.IncrementSpaceProposalCount(c.proposal.Space, -1)
}

type UpdateProposalWriter struct {
	admin *ProposalAdminWriter
}

func (w *UpdateProposalWriter) Verify(_ context.Context, env *message.Envelope) (interface{}, error) {
	p, err := message.Decode[message.UpdateProposalPayload](env)
	if err != nil {
		return nil, ErrInvalidPayload
	}
	c, err := w.admin.load(p.Space, p.Proposal)
	if err != nil {
		return nil, err
	}
	// Only the author may update, and only before voting starts.
	if c.proposal.Author != p.From {
		return nil, ErrNotAuthorized
	}
	if p.Timestamp >= c.proposal.Start {
		return nil, ErrVotingClosed
	}
	if p.Title == "" || len(p.Title) > MaxTitleLength || len(p.Body) > MaxBodyLength {
		return nil, ErrInvalidPayload
	}
	if len(p.Choices) == 0 {
		return nil, ErrInvalidPayload
	}
	if p.Type == types.VotingTypeBasic && len(p.Choices) > MaxBasicChoices {
		return nil, ErrInvalidPayload
	}
	return &updateProposalContext{payload: p, admin: c}, nil
}

type updateProposalContext struct {
	payload *message.UpdateProposalPayload
	admin   *proposalAdminContext
}

func (w *UpdateProposalWriter) Action(_ context.Context, env *message.Envelope, id, cid, receipt string, vctx interface{}) error {
	c := vctx.(*updateProposalContext)
	p := c.payload
	choices, _ := json.Marshal(p.Choices)
	return w.admin.st.UpdateProposalContent(c.admin.proposal.ID, map[string]interface{}{
		"type":       p.Type,
		"title":      p.Title,
		"body":       p.Body,
		"discussion": p.Discussion,
		"choices":    string(choices),
		"updated":    p.Timestamp,
	})
}

type FlagProposalWriter struct {
	admin *ProposalAdminWriter
}

func (w *FlagProposalWriter) Verify(_ context.Context, env *message.Envelope) (interface{}, error) {
	p, err := message.Decode[message.ProposalRefPayload](env)
	if err != nil {
		return nil, ErrInvalidPayload
	}
	c, err := w.admin.load(p.Space, p.Proposal)
	if err != nil {
		return nil, err
	}
	if !c.isModeration(p.From) {
		return nil, ErrNotAuthorized
	}
	return c, nil
}

func (w *FlagProposalWriter) Action(_ context.Context, env *message.Envelope, id, cid, receipt string, vctx interface{}) error {
	c := vctx.(*proposalAdminContext)
	return w.admin.st.FlagProposal(c.proposal.ID)
}
