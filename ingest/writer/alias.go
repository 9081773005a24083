package writer

import (
	"context"
	"strings"

	"cosmossdk.io/log"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/message"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/store"
)

type AliasWriter struct {
	logger log.Logger
	st     *store.Store
}

func NewAliasWriter(st *store.Store, logger log.Logger) *AliasWriter {
	return &AliasWriter{
		logger: logger.With("module", "aliasWriter"),
		st:     st,
	}
}

func (w *AliasWriter) Verify(_ context.Context, env *message.Envelope) (interface{}, error) {
	p, err := message.Decode[message.AliasPayload](env)
	if err != nil {
		return nil, ErrInvalidPayload
	}
	// An alias grant must be signed by the primary address itself.
	if !strings.EqualFold(env.Address, p.From) {
		return nil, ErrNotAuthorized
	}
	if p.Alias == "" || strings.EqualFold(p.Alias, p.From) {
		return nil, ErrInvalidPayload
	}
	return p, nil
}

func (w *AliasWriter) Action(_ context.Context, env *message.Envelope, id, cid, receipt string, vctx interface{}) error {
	p := vctx.(*message.AliasPayload)
	return w.st.CreateAlias(&store.Alias{
		Address: p.From,
		Alias:   p.Alias,
		Created: p.Timestamp,
	})
}
