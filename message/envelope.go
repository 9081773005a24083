package message

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

var (
	ErrInvalidEnvelope = errors.New("invalid envelope")
	ErrInvalidPayload  = errors.New("invalid message payload")
)

// Envelope is the outer signed object submitted by a client. It is transient:
// only its derived effects are persisted.
type Envelope struct {
	Address string     `json:"address"`
	Sig     string     `json:"sig"`
	Data    SignedData `json:"data"`
}

type SignedData struct {
	Domain      Domain                 `json:"domain"`
	Types       apitypes.Types         `json:"types"`
	Message     map[string]interface{} `json:"message"`
	PrimaryType string                 `json:"primaryType,omitempty"`
}

type Domain struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func ParseEnvelope(dat []byte) (env *Envelope, err error) {
	env = new(Envelope)
	err = json.Unmarshal(dat, env)
	if err != nil {
		return nil, ErrInvalidEnvelope
	}
	return env, nil
}

// Decode maps the loosely typed message object onto a concrete payload
// struct for a single writer.
func Decode[P any](env *Envelope) (p *P, err error) {
	dat, err := json.Marshal(env.Data.Message)
	if err != nil {
		return nil, ErrInvalidPayload
	}
	p = new(P)
	if err = json.Unmarshal(dat, p); err != nil {
		return nil, ErrInvalidPayload
	}
	return p, nil
}

func (e *Envelope) From() string {
	return e.StringField("from")
}

func (e *Envelope) Space() string {
	return e.StringField("space")
}

func (e *Envelope) Timestamp() uint64 {
	return e.Uint64Field("timestamp")
}

func (e *Envelope) StringField(key string) string {
	if v, ok := e.Data.Message[key].(string); ok {
		return v
	}
	return ""
}

func (e *Envelope) Uint64Field(key string) uint64 {
	switch v := e.Data.Message[key].(type) {
	case float64:
		return uint64(v)
	case string:
		n, _ := strconv.ParseUint(v, 10, 64)
		return n
	case json.Number:
		n, _ := strconv.ParseUint(v.String(), 10, 64)
		return n
	}
	return 0
}
