package ingest

import (
	"regexp"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/message"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/types"
)

const (
	// Request body ceiling in serialized bytes.
	MaxBodySize = 100000
	// Accepted timestamp window around the sequencer clock, in seconds.
	TimestampPast   = 259200
	TimestampFuture = 300
)

var (
	evmAddressRe      = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	starknetAddressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
)

// Validator performs the ordered, side-effect-free envelope checks. The
// ordering is part of the contract: it fixes error precedence.
type Validator struct {
	domainName    string
	domainVersion string
	blocklist     *Blocklist
}

func NewValidator(domainName, domainVersion string, blocklist *Blocklist) *Validator {
	return &Validator{
		domainName:    domainName,
		domainVersion: domainVersion,
		blocklist:     blocklist,
	}
}

// CheckIP is the one check available before the body is even parsed.
func (v *Validator) CheckIP(ip string) error {
	if v.blocklist.BlockedIP(ip) {
		return types.ErrUnauthorized
	}
	return nil
}

func (v *Validator) Validate(env *message.Envelope, size int, ip string, now uint64) error {
	if v.blocklist.BlockedIP(ip) || v.blocklist.BlockedAddress(env.Address) ||
		v.blocklist.BlockedAddress(env.From()) {
		return types.ErrUnauthorized
	}
	if err := checkShape(env); err != nil {
		return err
	}
	if size > MaxBodySize {
		return types.ErrTooLarge
	}
	ts := env.Timestamp()
	if ts+TimestampPast < now || ts > now+TimestampFuture {
		return types.ErrBadTimestamp
	}
	if env.Data.Domain.Name != v.domainName || env.Data.Domain.Version != v.domainVersion {
		return types.ErrBadDomain
	}
	return nil
}

func checkShape(env *message.Envelope) error {
	if !evmAddressRe.MatchString(env.Address) && !starknetAddressRe.MatchString(env.Address) {
		return types.ErrBadEnvelope
	}
	if env.Sig == "" {
		return types.ErrBadEnvelope
	}
	if env.Data.Domain.Name == "" || env.Data.Domain.Version == "" {
		return types.ErrBadEnvelope
	}
	if len(env.Data.Types) == 0 || len(env.Data.Message) == 0 {
		return types.ErrBadEnvelope
	}
	if _, ok := env.Data.Message["timestamp"]; !ok {
		return types.ErrBadEnvelope
	}
	return nil
}
