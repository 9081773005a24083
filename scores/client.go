package scores

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"cosmossdk.io/log"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/types"
)

// Oracle is the externally hosted price/scoring service. It must tolerate
// unknown strategies and non-numeric network ids by pricing them at 0.
type Oracle interface {
	// VpValueByStrategy returns the USD value of one unit of voting power per
	// strategy at the given snapshot.
	VpValueByStrategy(ctx context.Context, network string, snapshot uint64, strategies []types.Strategy) ([]float64, error)
	// Vp returns a voter's voting power, total and per strategy, with the
	// upstream finality state.
	Vp(ctx context.Context, voter, network string, snapshot uint64, strategies []types.Strategy) (*VpResult, error)
}

type VpResult struct {
	Vp           float64   `json:"vp"`
	VpByStrategy []float64 `json:"vp_by_strategy"`
	VpState      string    `json:"vp_state"`
}

type HTTPOracle struct {
	url    string
	client *http.Client
	logger log.Logger
}

func NewHTTPOracle(rawURL string, logger log.Logger) *HTTPOracle {
	return &HTTPOracle{
		url:    rawURL,
		client: &http.Client{Timeout: 5 * time.Second},
		logger: logger.With("module", "scores"),
	}
}

func (c *HTTPOracle) post(ctx context.Context, path string, in, out interface{}) error {
	endpoint, err := url.JoinPath(c.url, path)
	if err != nil {
		return err
	}
	dat, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(dat))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("oracle request fail", "path", path, "err", err)
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("oracle status %v", res.StatusCode)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

type valueRequest struct {
	Network    string            `json:"network"`
	Snapshot   uint64            `json:"snapshot"`
	Strategies []types.Strategy  `json:"strategies"`
}

func (c *HTTPOracle) VpValueByStrategy(ctx context.Context, network string, snapshot uint64, strategies []types.Strategy) ([]float64, error) {
	var out struct {
		Values []float64 `json:"values"`
	}
	err := c.post(ctx, "/vp_value", valueRequest{
		Network:    network,
		Snapshot:   snapshot,
		Strategies: strategies,
	}, &out)
	if err != nil {
		return nil, err
	}
	if len(out.Values) != len(strategies) {
		return nil, fmt.Errorf("oracle returned %v values for %v strategies", len(out.Values), len(strategies))
	}
	return out.Values, nil
}

type vpRequest struct {
	Voter      string            `json:"voter"`
	Network    string            `json:"network"`
	Snapshot   uint64            `json:"snapshot"`
	Strategies []types.Strategy  `json:"strategies"`
}

func (c *HTTPOracle) Vp(ctx context.Context, voter, network string, snapshot uint64, strategies []types.Strategy) (*VpResult, error) {
	out := new(VpResult)
	err := c.post(ctx, "/vp", vpRequest{
		Voter:      voter,
		Network:    network,
		Snapshot:   snapshot,
		Strategies: strategies,
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
