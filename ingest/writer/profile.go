package writer

import (
	"context"
	"encoding/json"

	"cosmossdk.io/log"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/message"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/store"
)

const MaxProfileLength = 5000

type ProfileWriter struct {
	logger log.Logger
	st     *store.Store
}

func NewProfileWriter(st *store.Store, logger log.Logger) *ProfileWriter {
	return &ProfileWriter{
		logger: logger.With("module", "profileWriter"),
		st:     st,
	}
}

func (w *ProfileWriter) Verify(_ context.Context, env *message.Envelope) (interface{}, error) {
	p, err := message.Decode[message.ProfilePayload](env)
	if err != nil {
		return nil, ErrInvalidPayload
	}
	if len(p.Profile) > MaxProfileLength || !json.Valid([]byte(p.Profile)) {
		return nil, ErrInvalidPayload
	}
	return p, nil
}

func (w *ProfileWriter) Action(_ context.Context, env *message.Envelope, id, cid, receipt string, vctx interface{}) error {
	p := vctx.(*message.ProfilePayload)
	return w.st.SaveUser(&store.User{
		ID:      p.From,
		IPFS:    cid,
		Profile: p.Profile,
		Created: p.Timestamp,
		Updated: p.Timestamp,
	})
}
