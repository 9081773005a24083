package scores

import (
	"context"
	"errors"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/types"
)

var _ Oracle = &MockOracle{}

// MockOracle serves fixed values in tests and local runs.
type MockOracle struct {
	Values   []float64
	VpResult VpResult
	Err      error
	Calls    int
}

func (m *MockOracle) VpValueByStrategy(_ context.Context, _ string, _ uint64, strategies []types.Strategy) ([]float64, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Values != nil {
		return m.Values, nil
	}
	values := make([]float64, len(strategies))
	for i := range values {
		values[i] = 1
	}
	return values, nil
}

func (m *MockOracle) Vp(_ context.Context, _, _ string, _ uint64, strategies []types.Strategy) (*VpResult, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.VpResult.VpByStrategy != nil {
		res := m.VpResult
		return &res, nil
	}
	by := make([]float64, len(strategies))
	total := float64(0)
	for i := range by {
		by[i] = 1
		total += 1
	}
	return &VpResult{Vp: total, VpByStrategy: by, VpState: types.VpStateFinal}, nil
}

var ErrUnavailable = errors.New("scores unavailable")
