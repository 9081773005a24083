package crypto

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/message"
)

var domainDecl = []apitypes.Type{
	{Name: "name", Type: "string"},
	{Name: "version", Type: "string"},
}

// TypedData assembles the EIP-712 structure for a signed envelope. Clients
// may omit the EIP712Domain declaration and the primary type; both are
// reconstructed here.
func TypedData(data message.SignedData) apitypes.TypedData {
	t := make(apitypes.Types, len(data.Types)+1)
	for name, fields := range data.Types {
		t[name] = fields
	}
	if _, ok := t["EIP712Domain"]; !ok {
		t["EIP712Domain"] = domainDecl
	}
	primary := data.PrimaryType
	if primary == "" {
		primary = message.PrimaryType(data.Types)
	}
	return apitypes.TypedData{
		Types:       t,
		PrimaryType: primary,
		Domain: apitypes.TypedDataDomain{
			Name:    data.Domain.Name,
			Version: data.Domain.Version,
		},
		Message: data.Message,
	}
}

// Hash returns the EIP-712 digest of the signed data. The hex form of this
// digest doubles as the message id: a content hash of the envelope.
func Hash(data message.SignedData) (h common.Hash, err error) {
	dat, _, err := apitypes.TypedDataAndHash(TypedData(data))
	if err != nil {
		return h, err
	}
	return common.BytesToHash(dat), nil
}
