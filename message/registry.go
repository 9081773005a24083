package message

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/types"
)

// The registry maps a digest of the submitted type declarations to a
// canonical message-type name. Clients never declare the type themselves:
// an envelope whose types do not hash to a known declaration is rejected.

var registry = map[common.Hash]string{}

func init() {
	for name, decl := range canonical {
		registry[Digest(decl)] = name
	}
}

// Digest hashes the canonical JSON form of a type declaration set. The
// EIP712Domain entry is excluded so the same message types resolve across
// domain variants.
func Digest(t apitypes.Types) common.Hash {
	stripped := make(apitypes.Types, len(t))
	for name, fields := range t {
		if name == "EIP712Domain" {
			continue
		}
		stripped[name] = fields
	}
	dat, _ := json.Marshal(stripped)
	return crypto.Keccak256Hash(dat)
}

func Resolve(t apitypes.Types) (name string, err error) {
	name, ok := registry[Digest(t)]
	if !ok {
		return "", types.ErrUnknownType
	}
	return name, nil
}

// PrimaryType returns the single declared struct name besides EIP712Domain.
func PrimaryType(t apitypes.Types) string {
	for name := range t {
		if name != "EIP712Domain" {
			return name
		}
	}
	return ""
}

func field(name, typ string) apitypes.Type {
	return apitypes.Type{Name: name, Type: typ}
}

func voteDecl(choiceType string) apitypes.Types {
	return apitypes.Types{
		"Vote": {
			field("from", "address"),
			field("space", "string"),
			field("timestamp", "uint64"),
			field("proposal", "string"),
			field("choice", choiceType),
			field("reason", "string"),
			field("app", "string"),
			field("metadata", "string"),
		},
	}
}

var canonical = map[string]apitypes.Types{
	types.TypeProposal: {
		"Proposal": {
			field("from", "address"),
			field("space", "string"),
			field("timestamp", "uint64"),
			field("type", "string"),
			field("title", "string"),
			field("body", "string"),
			field("discussion", "string"),
			field("choices", "string[]"),
			field("start", "uint64"),
			field("end", "uint64"),
			field("snapshot", "uint64"),
			field("plugins", "string"),
			field("app", "string"),
		},
	},
	types.TypeVote:       voteDecl("uint32"),
	types.TypeVoteArray:  voteDecl("uint32[]"),
	types.TypeVoteString: voteDecl("string"),
	types.TypeSettings: {
		"Space": {
			field("from", "address"),
			field("space", "string"),
			field("timestamp", "uint64"),
			field("settings", "string"),
		},
	},
	types.TypeDeleteProposal: {
		"CancelProposal": {
			field("from", "address"),
			field("space", "string"),
			field("timestamp", "uint64"),
			field("proposal", "string"),
		},
	},
	types.TypeUpdateProposal: {
		"UpdateProposal": {
			field("from", "address"),
			field("space", "string"),
			field("timestamp", "uint64"),
			field("proposal", "string"),
			field("type", "string"),
			field("title", "string"),
			field("body", "string"),
			field("discussion", "string"),
			field("choices", "string[]"),
		},
	},
	types.TypeFlagProposal: {
		"FlagProposal": {
			field("from", "address"),
			field("space", "string"),
			field("timestamp", "uint64"),
			field("proposal", "string"),
		},
	},
	types.TypeDeleteSpace: {
		"DeleteSpace": {
			field("from", "address"),
			field("space", "string"),
			field("timestamp", "uint64"),
		},
	},
	types.TypeFollow: {
		"Follow": {
			field("from", "address"),
			field("network", "string"),
			field("space", "string"),
			field("timestamp", "uint64"),
		},
	},
	types.TypeUnfollow: {
		"Unfollow": {
			field("from", "address"),
			field("network", "string"),
			field("space", "string"),
			field("timestamp", "uint64"),
		},
	},
	types.TypeAlias: {
		"Alias": {
			field("from", "address"),
			field("alias", "address"),
			field("timestamp", "uint64"),
		},
	},
	types.TypeSubscribe: {
		"Subscribe": {
			field("from", "address"),
			field("space", "string"),
			field("timestamp", "uint64"),
		},
	},
	types.TypeUnsubscribe: {
		"Unsubscribe": {
			field("from", "address"),
			field("space", "string"),
			field("timestamp", "uint64"),
		},
	},
	types.TypeProfile: {
		"Profile": {
			field("from", "address"),
			field("timestamp", "uint64"),
			field("profile", "string"),
		},
	},
	types.TypeStatement: {
		"Statement": {
			field("from", "address"),
			field("space", "string"),
			field("timestamp", "uint64"),
			field("about", "string"),
			field("statement", "string"),
		},
	},
}

// Canonical exposes the declaration for a message type, mainly for clients
// and tests building well-formed envelopes.
func Canonical(name string) (apitypes.Types, bool) {
	t, ok := canonical[name]
	return t, ok
}
