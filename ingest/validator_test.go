package ingest

import (
	"testing"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/stretchr/testify/require"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/config"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/message"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/types"
)

const testNow = uint64(1700000000)

func testEnvelope() *message.Envelope {
	return &message.Envelope{
		Address: "0x1111111111111111111111111111111111111111",
		Sig:     "0xabcd",
		Data: message.SignedData{
			Domain: message.Domain{Name: "snapshot", Version: "0.1.4"},
			Types: apitypes.Types{
				"Vote": {{Name: "from", Type: "address"}},
			},
			Message: map[string]interface{}{
				"from":      "0x1111111111111111111111111111111111111111",
				"timestamp": float64(testNow),
			},
		},
	}
}

func testValidator(blocked ...string) *Validator {
	bl := NewBlocklist(config.BlocklistConfig{Addresses: blocked}, log.NewNopLogger())
	return NewValidator("snapshot", "0.1.4", bl)
}

func TestValidateAccepts(t *testing.T) {
	env := testEnvelope()
	require.NoError(t, testValidator().Validate(env, 100, "1.2.3.4", testNow))
}

func TestValidateBlocklistPrecedesShape(t *testing.T) {
	env := testEnvelope()
	env.Sig = ""
	v := testValidator("0x1111111111111111111111111111111111111111")
	require.ErrorIs(t, v.Validate(env, 100, "1.2.3.4", testNow), types.ErrUnauthorized)
}

func TestValidateBlockedIP(t *testing.T) {
	bl := NewBlocklist(config.BlocklistConfig{IPs: []string{"9.9.9.9"}}, log.NewNopLogger())
	v := NewValidator("snapshot", "0.1.4", bl)
	require.ErrorIs(t, v.Validate(testEnvelope(), 100, "9.9.9.9", testNow), types.ErrUnauthorized)
}

func TestValidateShape(t *testing.T) {
	v := testValidator()

	env := testEnvelope()
	env.Address = "not-an-address"
	require.ErrorIs(t, v.Validate(env, 100, "", testNow), types.ErrBadEnvelope)

	env = testEnvelope()
	env.Sig = ""
	require.ErrorIs(t, v.Validate(env, 100, "", testNow), types.ErrBadEnvelope)

	env = testEnvelope()
	delete(env.Data.Message, "timestamp")
	require.ErrorIs(t, v.Validate(env, 100, "", testNow), types.ErrBadEnvelope)
}

func TestValidateStarknetAddressShape(t *testing.T) {
	env := testEnvelope()
	env.Address = "0x0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	require.NoError(t, testValidator().Validate(env, 100, "", testNow))
}

func TestValidateSize(t *testing.T) {
	env := testEnvelope()
	require.ErrorIs(t, testValidator().Validate(env, MaxBodySize+1, "", testNow), types.ErrTooLarge)
	require.NoError(t, testValidator().Validate(env, MaxBodySize, "", testNow))
}

func TestValidateTimestampWindow(t *testing.T) {
	v := testValidator()

	env := testEnvelope()
	env.Data.Message["timestamp"] = float64(testNow - TimestampPast - 1)
	require.ErrorIs(t, v.Validate(env, 100, "", testNow), types.ErrBadTimestamp)

	env.Data.Message["timestamp"] = float64(testNow + TimestampFuture + 1)
	require.ErrorIs(t, v.Validate(env, 100, "", testNow), types.ErrBadTimestamp)

	env.Data.Message["timestamp"] = float64(testNow - TimestampPast)
	require.NoError(t, v.Validate(env, 100, "", testNow))

	env.Data.Message["timestamp"] = float64(testNow + TimestampFuture)
	require.NoError(t, v.Validate(env, 100, "", testNow))
}

func TestValidateDomain(t *testing.T) {
	v := testValidator()

	env := testEnvelope()
	env.Data.Domain.Name = "other"
	require.ErrorIs(t, v.Validate(env, 100, "", testNow), types.ErrBadDomain)

	env = testEnvelope()
	env.Data.Domain.Version = "0.1.3"
	require.ErrorIs(t, v.Validate(env, 100, "", testNow), types.ErrBadDomain)
}
