package crypto

import (
	"crypto/ecdsa"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	eth_crypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

const (
	receiptDomainName    = "snapshot-sequencer"
	receiptDomainVersion = "0.1"
)

// Relayer holds the sequencer's own key. It issues receipts: a second
// typed-data signature over the client's signature, proving this sequencer
// processed that exact payload.
type Relayer struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

func LoadFileRelayer(keyFilePath string) (*Relayer, error) {
	dat, err := os.ReadFile(keyFilePath)
	if err != nil {
		return nil, fmt.Errorf("read relayer key %s: %v", keyFilePath, err)
	}
	return NewRelayer(strings.TrimSpace(string(dat)))
}

func NewRelayer(hexKey string) (*Relayer, error) {
	key, err := eth_crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse relayer key: %v", err)
	}
	return &Relayer{
		key:     key,
		address: eth_crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

func GenerateRelayer() *Relayer {
	key, _ := eth_crypto.GenerateKey()
	return &Relayer{
		key:     key,
		address: eth_crypto.PubkeyToAddress(key.PublicKey),
	}
}

func (r *Relayer) Address() string {
	return r.address.Hex()
}

func (r *Relayer) Sign(digest []byte) ([]byte, error) {
	return eth_crypto.Sign(digest, r.key)
}

func receiptDigest(sig string) ([]byte, error) {
	td := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": domainDecl,
			"Receipt": {
				{Name: "sig", Type: "string"},
			},
		},
		PrimaryType: "Receipt",
		Domain: apitypes.TypedDataDomain{
			Name:    receiptDomainName,
			Version: receiptDomainVersion,
		},
		Message: map[string]interface{}{"sig": sig},
	}
	digest, _, err := apitypes.TypedDataAndHash(td)
	return digest, err
}

func (r *Relayer) IssueReceipt(sig string) (receipt string, err error) {
	digest, err := receiptDigest(sig)
	if err != nil {
		return "", err
	}
	dat, err := r.Sign(digest)
	if err != nil {
		return "", err
	}
	rec := make([]byte, len(dat))
	copy(rec, dat)
	rec[64] += 27
	return hexutil.Encode(rec), nil
}
