package writer

import (
	"context"

	"cosmossdk.io/log"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/message"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/store"
)

const MaxSubscriptions = 100

type SubscribeWriter struct {
	logger log.Logger
	st     *store.Store
}

func NewSubscribeWriter(st *store.Store, logger log.Logger) *SubscribeWriter {
	return &SubscribeWriter{
		logger: logger.With("module", "subscribeWriter"),
		st:     st,
	}
}

func (w *SubscribeWriter) Verify(_ context.Context, env *message.Envelope) (interface{}, error) {
	p, err := message.Decode[message.SpaceRefPayload](env)
	if err != nil {
		return nil, ErrInvalidPayload
	}
	if _, err := activeSpace(w.st, p.Space); err != nil {
		return nil, err
	}
	existing, err := w.st.GetSubscription(p.From, p.Space)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrLimitReached
	}
	count, err := w.st.CountSubscriptions(p.From)
	if err != nil {
		return nil, err
	}
	if count >= MaxSubscriptions {
		return nil, ErrLimitReached
	}
	return p, nil
}

func (w *SubscribeWriter) Action(_ context.Context, env *message.Envelope, id, cid, receipt string, vctx interface{}) error {
	p := vctx.(*message.SpaceRefPayload)
	return w.st.CreateSubscription(&store.Subscription{
		ID:      id,
		Address: p.From,
		Space:   p.Space,
		Created: p.Timestamp,
	})
}

type UnsubscribeWriter struct {
	subscribe *SubscribeWriter
}

func (w *UnsubscribeWriter) Verify(_ context.Context, env *message.Envelope) (interface{}, error) {
	p, err := message.Decode[message.SpaceRefPayload](env)
	if err != nil {
		return nil, ErrInvalidPayload
	}
	existing, err := w.subscribe.st.GetSubscription(p.From, p.Space)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrInvalidPayload
	}
	return p, nil
}

func (w *UnsubscribeWriter) Action(_ context.Context, env *message.Envelope, id, cid, receipt string, vctx interface{}) error {
	p := vctx.(*message.SpaceRefPayload)
	return w.subscribe.st.DeleteSubscription(p.From, p.Space)
}
