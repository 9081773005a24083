package crypto

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	eth_crypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/message"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/types"
)

// Verifier checks that sig is a valid typed-data signature by address over
// data. Implementations may delegate to remote services for non-EVM signers.
type Verifier interface {
	Verify(ctx context.Context, address string, sig string, data message.SignedData) error
}

// EVMVerifier recovers the signer locally from a secp256k1 signature.
type EVMVerifier struct{}

func (EVMVerifier) Verify(_ context.Context, address string, sig string, data message.SignedData) error {
	hash, err := Hash(data)
	if err != nil {
		return types.ErrWrongSignature
	}
	sigBytes, err := hexutil.Decode(sig)
	if err != nil || len(sigBytes) != eth_crypto.SignatureLength {
		return types.ErrWrongSignature
	}
	recSig := make([]byte, eth_crypto.SignatureLength)
	copy(recSig, sigBytes)
	if recSig[64] >= 27 {
		recSig[64] -= 27
	}
	pub, err := eth_crypto.SigToPub(hash.Bytes(), recSig)
	if err != nil {
		return types.ErrWrongSignature
	}
	recovered := eth_crypto.PubkeyToAddress(*pub)
	if !strings.EqualFold(recovered.Hex(), address) {
		return types.ErrWrongSignature
	}
	return nil
}
