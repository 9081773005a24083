package writer

import (
	"context"

	"cosmossdk.io/log"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/message"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/scores"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/store"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/types"
)

// Writer is the handler pair behind every message type. Verify is read-only
// authorization and business-rule checking and may compute auxiliary context;
// Action is the single persisting side effect.
type Writer interface {
	Verify(ctx context.Context, env *message.Envelope) (vctx interface{}, err error)
	Action(ctx context.Context, env *message.Envelope, id, cid, receipt string, vctx interface{}) error
}

// Ownership resolves who controls a space name. Deployments back this with a
// name service; the static implementation reads a configured map.
type Ownership interface {
	Controller(ctx context.Context, space string) (string, error)
}

type StaticOwnership map[string]string

func (o StaticOwnership) Controller(_ context.Context, space string) (string, error) {
	return o[space], nil
}

type Registry struct {
	writers map[string]Writer
}

func NewRegistry(st *store.Store, oracle scores.Oracle, owners Ownership, defaultNetwork string, logger log.Logger) *Registry {
	proposal := NewProposalWriter(st, oracle, logger)
	vote := NewVoteWriter(st, oracle, logger)
	settings := NewSettingsWriter(st, owners, defaultNetwork, logger)
	admin := NewProposalAdminWriter(st, logger)
	follow := NewFollowWriter(st, logger)
	subscribe := NewSubscribeWriter(st, logger)

	return &Registry{writers: map[string]Writer{
		types.TypeProposal:       proposal,
		types.TypeVote:           vote,
		types.TypeVoteArray:      vote,
		types.TypeVoteString:     vote,
		types.TypeSettings:       settings,
		types.TypeDeleteSpace:    &DeleteSpaceWriter{settings},
		types.TypeDeleteProposal: &DeleteProposalWriter{admin},
		types.TypeUpdateProposal: &UpdateProposalWriter{admin},
		types.TypeFlagProposal:   &FlagProposalWriter{admin},
		types.TypeFollow:         follow,
		types.TypeUnfollow:       &UnfollowWriter{follow},
		types.TypeSubscribe:      subscribe,
		types.TypeUnsubscribe:    &UnsubscribeWriter{subscribe},
		types.TypeAlias:          NewAliasWriter(st, logger),
		types.TypeProfile:        NewProfileWriter(st, logger),
		types.TypeStatement:      NewStatementWriter(st, logger),
	}}
}

func (r *Registry) Lookup(name string) (Writer, bool) {
	w, ok := r.writers[name]
	return w, ok
}

// activeSpace loads a space and rejects when its lifecycle excludes writes.
func activeSpace(st *store.Store, id string) (*store.Space, error) {
	if id == "" {
		return nil, ErrUnknownSpace
	}
	space, err := st.GetSpace(id)
	if err != nil {
		return nil, err
	}
	if space == nil {
		return nil, ErrUnknownSpace
	}
	if space.Deleted {
		return nil, ErrSpaceDeleted
	}
	if space.Hibernated {
		return nil, ErrSpaceHibernated
	}
	return space, nil
}

var (
	ErrUnknownSpace     = types.NewClientError("unknown space")
	ErrSpaceDeleted     = types.NewClientError("space deleted")
	ErrSpaceHibernated  = types.NewClientError("space hibernated")
	ErrUnknownProposal  = types.NewClientError("unknown proposal")
	ErrNotAuthorized    = types.NewClientError("not authorized")
	ErrInvalidPayload   = types.NewClientError("wrong message format")
	ErrLimitReached     = types.NewClientError("limit reached")
	ErrVotingClosed     = types.NewClientError("not in voting window")
	ErrInvalidChoice    = types.NewClientError("invalid choice")
	ErrNoVotingPower    = types.NewClientError("no voting power")
	ErrValidationFailed = types.NewClientError("validation failed")
)
