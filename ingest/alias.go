package ingest

import (
	"strings"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/message"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/store"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/types"
)

// Alias relationships expire after 30 days.
const AliasLifetime = 30 * 24 * 3600

var aliasedTypes = map[string]bool{
	types.TypeFollow:      true,
	types.TypeUnfollow:    true,
	types.TypeSubscribe:   true,
	types.TypeUnsubscribe: true,
	types.TypeProfile:     true,
	types.TypeStatement:   true,
}

var voteFamily = map[string]bool{
	types.TypeVote:       true,
	types.TypeVoteArray:  true,
	types.TypeVoteString: true,
}

var proposalFamily = map[string]bool{
	types.TypeProposal:       true,
	types.TypeUpdateProposal: true,
	types.TypeDeleteProposal: true,
}

// AliasResolver decides whether the envelope signer may act for
// message.from, and whether a live alias relationship backs it.
type AliasResolver struct {
	st *store.Store
}

func NewAliasResolver(st *store.Store) *AliasResolver {
	return &AliasResolver{st: st}
}

func (r *AliasResolver) Check(env *message.Envelope, typeName string, space *store.Space, now uint64) error {
	from := env.From()
	if from == "" || strings.EqualFold(env.Address, from) {
		return nil
	}
	if !r.allowed(env, typeName, space) {
		return types.ErrAliasNotAllowed
	}
	alias, err := r.st.GetAlias(from, env.Address, now-AliasLifetime)
	if err != nil {
		return err
	}
	if alias == nil {
		return types.ErrWrongAlias
	}
	return nil
}

func (r *AliasResolver) allowed(env *message.Envelope, typeName string, space *store.Space) bool {
	if aliasedTypes[typeName] {
		return true
	}
	// Starknet-format signers cannot produce EVM signatures themselves, so
	// the vote family is always alias-capable for them.
	if starknetAddressRe.MatchString(env.Address) && voteFamily[typeName] {
		return true
	}
	if space == nil || (!voteFamily[typeName] && !proposalFamily[typeName]) {
		return false
	}
	settings, err := space.ParseSettings()
	if err != nil {
		return false
	}
	return settings.Voting.Aliased
}
