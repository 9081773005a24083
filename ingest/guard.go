package ingest

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	eth_crypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/types"
)

// Guard deduplicates in-flight requests by a content hash of the raw body.
// It is process-local: global uniqueness comes from message ids being
// content hashes, this only breaks client retry storms.
type Guard struct {
	mu       sync.Mutex
	inflight map[common.Hash]struct{}
}

func NewGuard() *Guard {
	return &Guard{inflight: make(map[common.Hash]struct{})}
}

func BodyHash(raw []byte) common.Hash {
	return eth_crypto.Keccak256Hash(raw)
}

func (g *Guard) Enter(h common.Hash) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.inflight[h]; ok {
		return types.ErrDuplicate
	}
	g.inflight[h] = struct{}{}
	return nil
}

func (g *Guard) Leave(h common.Hash) {
	g.mu.Lock()
	delete(g.inflight, h)
	g.mu.Unlock()
}
