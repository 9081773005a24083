package ingest

import (
	"context"
	"fmt"
	"time"

	"cosmossdk.io/log"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/crypto"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/ingest/writer"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/message"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/pin"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/store"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/types"
)

type RelayerInfo struct {
	Address string `json:"address"`
	Receipt string `json:"receipt"`
}

type Result struct {
	ID        string      `json:"id"`
	ContentID string      `json:"contentId"`
	Relayer   RelayerInfo `json:"relayer"`
}

// Sequencer is the write path: it validates, authorizes, pins and persists
// one signed envelope per call. It owns no mutable state beyond the
// idempotency guard; concurrent calls over distinct payloads are safe.
type Sequencer struct {
	logger    log.Logger
	st        *store.Store
	registry  *writer.Registry
	validator *Validator
	aliases   *AliasResolver
	guard     *Guard
	verifier  crypto.Verifier
	pinner    pin.Pinner
	relayer   *crypto.Relayer

	now func() uint64
}

func NewSequencer(
	st *store.Store,
	registry *writer.Registry,
	validator *Validator,
	verifier crypto.Verifier,
	pinner pin.Pinner,
	relayer *crypto.Relayer,
	logger log.Logger,
) *Sequencer {
	return &Sequencer{
		logger:    logger.With("module", "sequencer"),
		st:        st,
		registry:  registry,
		validator: validator,
		aliases:   NewAliasResolver(st),
		guard:     NewGuard(),
		verifier:  verifier,
		pinner:    pinner,
		relayer:   relayer,
		now:       func() uint64 { return uint64(time.Now().Unix()) },
	}
}

// SetClock overrides the wall clock, for tests.
func (s *Sequencer) SetClock(now func() uint64) {
	s.now = now
}

func (s *Sequencer) Process(ctx context.Context, raw []byte, ip string) (res *Result, err error) {
	if err := s.validator.CheckIP(ip); err != nil {
		return nil, err
	}

	h := BodyHash(raw)
	if err := s.guard.Enter(h); err != nil {
		return nil, err
	}
	defer s.guard.Leave(h)

	now := s.now()
	env, err := message.ParseEnvelope(raw)
	if err != nil {
		return nil, types.ErrBadEnvelope
	}
	if err := s.validator.Validate(env, len(raw), ip, now); err != nil {
		return nil, err
	}
	typeName, err := message.Resolve(env.Data.Types)
	if err != nil {
		return nil, err
	}

	var space *store.Space
	if id := env.Space(); id != "" {
		if space, err = s.st.GetSpace(id); err != nil {
			return nil, err
		}
	}
	if err := s.aliases.Check(env, typeName, space, now); err != nil {
		return nil, err
	}
	if err := s.verifier.Verify(ctx, env.Address, env.Sig, env.Data); err != nil {
		return nil, err
	}

	w, ok := s.registry.Lookup(typeName)
	if !ok {
		return nil, types.ErrUnknownType
	}
	vctx, err := w.Verify(ctx, env)
	if err != nil {
		return nil, err
	}

	hash, err := crypto.Hash(env.Data)
	if err != nil {
		return nil, types.ErrBadEnvelope
	}
	id := hash.Hex()

	cid, err := s.pinner.Pin(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrPinningFailed, err)
	}
	receipt, err := s.relayer.IssueReceipt(env.Sig)
	if err != nil {
		return nil, err
	}

	if err := w.Action(ctx, env, id, cid, receipt, vctx); err != nil {
		return nil, err
	}

	if err := s.st.SaveMessage(&store.Message{
		ID:      id,
		IPFS:    cid,
		Address: env.Address,
		Space:   env.Space(),
		Type:    typeName,
		Sig:     env.Sig,
		Receipt: receipt,
		Created: env.Timestamp(),
	}); err != nil {
		s.logger.Error("save message fail", "id", id, "err", err)
	}

	s.logger.Info("message accepted", "type", typeName, "id", id, "space", env.Space())
	return &Result{
		ID:        id,
		ContentID: cid,
		Relayer: RelayerInfo{
			Address: s.relayer.Address(),
			Receipt: receipt,
		},
	}, nil
}
