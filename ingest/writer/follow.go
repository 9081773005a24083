package writer

import (
	"context"

	"cosmossdk.io/log"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/message"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/store"
)

const MaxFollows = 25

type FollowWriter struct {
	logger log.Logger
	st     *store.Store
}

func NewFollowWriter(st *store.Store, logger log.Logger) *FollowWriter {
	return &FollowWriter{
		logger: logger.With("module", "followWriter"),
		st:     st,
	}
}

func (w *FollowWriter) Verify(_ context.Context, env *message.Envelope) (interface{}, error) {
	p, err := message.Decode[message.FollowPayload](env)
	if err != nil {
		return nil, ErrInvalidPayload
	}
	if _, err := activeSpace(w.st, p.Space); err != nil {
		return nil, err
	}
	existing, err := w.st.GetFollow(p.From, p.Space)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrLimitReached
	}
	count, err := w.st.CountFollows(p.From)
	if err != nil {
		return nil, err
	}
	if count >= MaxFollows {
		return nil, ErrLimitReached
	}
	return p, nil
}

func (w *FollowWriter) Action(_ context.Context, env *message.Envelope, id, cid, receipt string, vctx interface{}) error {
	p := vctx.(*message.FollowPayload)
	row := &store.Follow{
		ID:       id,
		Follower: p.From,
		Space:    p.Space,
		Network:  p.Network,
		Created:  p.Timestamp,
	}
	if err := w.st.CreateFollow(row); err != nil {
		return err
	}
	return w.st.IncrementSpaceFollowerCount(p.Space, 1)
}

type UnfollowWriter struct {
	follow *FollowWriter
}

func (w *UnfollowWriter) Verify(_ context.Context, env *message.Envelope) (interface{}, error) {
	p, err := message.Decode[message.FollowPayload](env)
	if err != nil {
		return nil, ErrInvalidPayload
	}
	existing, err := w.follow.st.GetFollow(p.From, p.Space)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrInvalidPayload
	}
	return p, nil
}

func (w *UnfollowWriter) Action(_ context.Context, env *message.Envelope, id, cid, receipt string, vctx interface{}) error {
	p := vctx.(*message.FollowPayload)
	if err := w.follow.st.DeleteFollow(p.From, p.Space); err != nil {
		return err
	}
	return w.follow.st.IncrementSpaceFollowerCount(p.Space, -1)
}
