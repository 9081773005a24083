package pin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"cosmossdk.io/log"
	eth_crypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/syndtr/goleveldb/leveldb"
)

// Pinner stores a payload content-addressed and returns its content id.
// Ingestion treats a pin failure as fatal for the request.
type Pinner interface {
	Pin(ctx context.Context, payload []byte) (cid string, err error)
}

// LevelPinner keeps pinned payloads in a local leveldb, keyed by their
// keccak256 digest. It backs deployments without a remote pinning service
// and serves as the durable cache in front of one.
type LevelPinner struct {
	db *leveldb.DB
}

func OpenLevelPinner(path string) (*LevelPinner, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelPinner{db: db}, nil
}

func (p *LevelPinner) Pin(_ context.Context, payload []byte) (string, error) {
	cid := eth_crypto.Keccak256Hash(payload).Hex()
	if err := p.db.Put([]byte(cid), payload, nil); err != nil {
		return "", err
	}
	return cid, nil
}

func (p *LevelPinner) Get(cid string) ([]byte, error) {
	return p.db.Get([]byte(cid), nil)
}

func (p *LevelPinner) Close() error {
	return p.db.Close()
}

// HTTPPinner posts payloads to a remote pinning service.
type HTTPPinner struct {
	url    string
	client *http.Client
	logger log.Logger
}

func NewHTTPPinner(url string, logger log.Logger) *HTTPPinner {
	return &HTTPPinner{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
		logger: logger.With("module", "pinner"),
	}
}

func (p *HTTPPinner) Pin(ctx context.Context, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := p.client.Do(req)
	if err != nil {
		p.logger.Error("pin request fail", "err", err)
		return "", err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pin service status %v", res.StatusCode)
	}
	dat, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	var out struct {
		Cid string `json:"cid"`
	}
	if err := json.Unmarshal(dat, &out); err != nil {
		return "", err
	}
	return out.Cid, nil
}
