package writer

import (
	"context"

	"cosmossdk.io/log"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/message"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/store"
)

const (
	MaxStatementAbout = 140
	MaxStatementBody  = 10000
)

type StatementWriter struct {
	logger log.Logger
	st     *store.Store
}

func NewStatementWriter(st *store.Store, logger log.Logger) *StatementWriter {
	return &StatementWriter{
		logger: logger.With("module", "statementWriter"),
		st:     st,
	}
}

func (w *StatementWriter) Verify(_ context.Context, env *message.Envelope) (interface{}, error) {
	p, err := message.Decode[message.StatementPayload](env)
	if err != nil {
		return nil, ErrInvalidPayload
	}
	if _, err := activeSpace(w.st, p.Space); err != nil {
		return nil, err
	}
	if len(p.About) > MaxStatementAbout || len(p.Statement) > MaxStatementBody {
		return nil, ErrInvalidPayload
	}
	return p, nil
}

func (w *StatementWriter) Action(_ context.Context, env *message.Envelope, id, cid, receipt string, vctx interface{}) error {
	p := vctx.(*message.StatementPayload)
	return w.st.SaveStatement(p.From, p.Space, &store.Statement{
		Delegate:  p.From,
		Space:     p.Space,
		About:     p.About,
		Statement: p.Statement,
		IPFS:      cid,
		Created:   p.Timestamp,
		Updated:   p.Timestamp,
	})
}
