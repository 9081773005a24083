package message

import (
	"testing"

	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/stretchr/testify/require"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/types"
)

func TestResolveCanonicalTypes(t *testing.T) {
	for _, name := range []string{
		types.TypeProposal, types.TypeVote, types.TypeVoteArray, types.TypeVoteString,
		types.TypeSettings, types.TypeFollow, types.TypeAlias, types.TypeProfile,
	} {
		decl, ok := Canonical(name)
		require.True(t, ok, name)
		resolved, err := Resolve(decl)
		require.NoError(t, err, name)
		require.Equal(t, name, resolved)
	}
}

func TestResolveIgnoresDomainDeclaration(t *testing.T) {
	decl, _ := Canonical(types.TypeVote)
	withDomain := make(apitypes.Types, len(decl)+1)
	for k, v := range decl {
		withDomain[k] = v
	}
	withDomain["EIP712Domain"] = []apitypes.Type{
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
	}
	resolved, err := Resolve(withDomain)
	require.NoError(t, err)
	require.Equal(t, types.TypeVote, resolved)
}

func TestResolveUnknownTypes(t *testing.T) {
	_, err := Resolve(apitypes.Types{
		"Gift": {{Name: "from", Type: "address"}},
	})
	require.ErrorIs(t, err, types.ErrUnknownType)

	// Any deviation from a canonical declaration must fail to resolve.
	decl, _ := Canonical(types.TypeVote)
	tampered := apitypes.Types{"Vote": append([]apitypes.Type{}, decl["Vote"]...)}
	tampered["Vote"][4].Type = "uint64"
	_, err = Resolve(tampered)
	require.ErrorIs(t, err, types.ErrUnknownType)
}

func TestEnvelopeFields(t *testing.T) {
	env, err := ParseEnvelope([]byte(`{
		"address": "0x1111111111111111111111111111111111111111",
		"sig": "0xabcd",
		"data": {
			"domain": {"name": "snapshot", "version": "0.1.4"},
			"types": {"Vote": []},
			"message": {
				"from": "0x2222222222222222222222222222222222222222",
				"space": "dao.eth",
				"timestamp": 1700000000
			}
		}
	}`))
	require.NoError(t, err)
	require.Equal(t, "0x2222222222222222222222222222222222222222", env.From())
	require.Equal(t, "dao.eth", env.Space())
	require.Equal(t, uint64(1700000000), env.Timestamp())
}

func TestParseEnvelopeRejectsGarbage(t *testing.T) {
	_, err := ParseEnvelope([]byte(`{"address": 12}`))
	require.ErrorIs(t, err, ErrInvalidEnvelope)
}

func TestDecodePayload(t *testing.T) {
	env := &Envelope{Data: SignedData{Message: map[string]interface{}{
		"from":      "0x2222222222222222222222222222222222222222",
		"space":     "dao.eth",
		"timestamp": float64(1700000000),
		"proposal":  "0xbeef",
		"choice":    float64(2),
	}}}
	p, err := Decode[VotePayload](env)
	require.NoError(t, err)
	require.Equal(t, "dao.eth", p.Space)
	require.Equal(t, "0xbeef", p.Proposal)
	require.Equal(t, "2", string(p.Choice))
}
