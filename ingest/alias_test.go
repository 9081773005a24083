package ingest

import (
	"path/filepath"
	"testing"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/message"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/store"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/types"
)

const (
	primary  = "0x1111111111111111111111111111111111111111"
	delegate = "0x2222222222222222222222222222222222222222"
	starknet = "0x0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), log.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func aliasEnvelope(signer, from string) *message.Envelope {
	return &message.Envelope{
		Address: signer,
		Data: message.SignedData{
			Message: map[string]interface{}{"from": from},
		},
	}
}

func TestAliasSelfSignedPasses(t *testing.T) {
	r := NewAliasResolver(testStore(t))
	err := r.Check(aliasEnvelope(primary, primary), types.TypeProposal, nil, testNow)
	require.NoError(t, err)

	// Self match is case-insensitive.
	err = r.Check(aliasEnvelope("0xAbCd111111111111111111111111111111111111",
		"0xabcd111111111111111111111111111111111111"), types.TypeProposal, nil, testNow)
	require.NoError(t, err)

	// No from field at all means the signer acts for itself.
	env := aliasEnvelope(primary, "")
	delete(env.Data.Message, "from")
	require.NoError(t, r.Check(env, types.TypeProposal, nil, testNow))
}

func TestAliasRequiresRecord(t *testing.T) {
	st := testStore(t)
	r := NewAliasResolver(st)

	env := aliasEnvelope(delegate, primary)
	require.ErrorIs(t, r.Check(env, types.TypeFollow, nil, testNow), types.ErrWrongAlias)

	require.NoError(t, st.CreateAlias(&store.Alias{
		Address: primary,
		Alias:   delegate,
		Created: testNow - 100,
	}))
	require.NoError(t, r.Check(env, types.TypeFollow, nil, testNow))
}

func TestAliasExpires(t *testing.T) {
	st := testStore(t)
	r := NewAliasResolver(st)

	require.NoError(t, st.CreateAlias(&store.Alias{
		Address: primary,
		Alias:   delegate,
		Created: testNow - AliasLifetime - 1,
	}))
	env := aliasEnvelope(delegate, primary)
	require.ErrorIs(t, r.Check(env, types.TypeFollow, nil, testNow), types.ErrWrongAlias)
}

func TestAliasTypeGating(t *testing.T) {
	st := testStore(t)
	r := NewAliasResolver(st)
	require.NoError(t, st.CreateAlias(&store.Alias{
		Address: primary,
		Alias:   delegate,
		Created: testNow - 100,
	}))

	env := aliasEnvelope(delegate, primary)

	// Votes through an EVM alias need the space to opt in.
	require.ErrorIs(t, r.Check(env, types.TypeVote, nil, testNow), types.ErrAliasNotAllowed)

	plain := &store.Space{ID: "dao.eth", Settings: `{"name":"DAO","network":"1","strategies":[]}`}
	require.ErrorIs(t, r.Check(env, types.TypeVote, plain, testNow), types.ErrAliasNotAllowed)

	aliased := &store.Space{
		ID:       "dao.eth",
		Settings: `{"name":"DAO","network":"1","strategies":[],"voting":{"aliased":true}}`,
	}
	require.NoError(t, r.Check(env, types.TypeVote, aliased, testNow))
	require.NoError(t, r.Check(env, types.TypeProposal, aliased, testNow))

	// Settings changes are never alias-capable.
	require.ErrorIs(t, r.Check(env, types.TypeSettings, aliased, testNow), types.ErrAliasNotAllowed)
}

func TestAliasStarknetVotes(t *testing.T) {
	st := testStore(t)
	r := NewAliasResolver(st)
	require.NoError(t, st.CreateAlias(&store.Alias{
		Address: primary,
		Alias:   starknet,
		Created: testNow - 100,
	}))

	env := aliasEnvelope(starknet, primary)
	require.NoError(t, r.Check(env, types.TypeVote, nil, testNow))
	require.ErrorIs(t, r.Check(env, types.TypeSettings, nil, testNow), types.ErrAliasNotAllowed)
}
