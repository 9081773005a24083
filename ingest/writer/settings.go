package writer

import (
	"context"
	"encoding/json"
	"strings"

	"cosmossdk.io/log"

	"github.com/snapshot-labs/snapshot-sequencer-sub000/message"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/store"
	"github.com/snapshot-labs/snapshot-sequencer-sub000/types"
)

const MaxStrategies = 8

type SettingsWriter struct {
	logger         log.Logger
	st             *store.Store
	owners         Ownership
	defaultNetwork string
}

func NewSettingsWriter(st *store.Store, owners Ownership, defaultNetwork string, logger log.Logger) *SettingsWriter {
	return &SettingsWriter{
		logger:         logger.With("module", "settingsWriter"),
		st:             st,
		owners:         owners,
		defaultNetwork: defaultNetwork,
	}
}

type settingsContext struct {
	payload    *message.SettingsPayload
	raw        string
	settings   *types.SpaceSettings
	space      *store.Space
	controller string
}

func (w *SettingsWriter) Verify(ctx context.Context, env *message.Envelope) (interface{}, error) {
	p, err := message.Decode[message.SettingsPayload](env)
	if err != nil {
		return nil, ErrInvalidPayload
	}
	if p.Space == "" || p.Space != strings.ToLower(p.Space) {
		return nil, ErrInvalidPayload
	}
	// The settings field is typed as a string in the declaration, so the
	// document usually arrives JSON-encoded twice.
	raw := p.Settings
	var inner string
	if json.Unmarshal(raw, &inner) == nil {
		raw = json.RawMessage(inner)
	}
	settings := new(types.SpaceSettings)
	if err := json.Unmarshal(raw, settings); err != nil {
		return nil, ErrInvalidPayload
	}
	if err := checkSettings(p.Space, settings); err != nil {
		return nil, err
	}
	space, err := w.st.GetSpace(p.Space)
	if err != nil {
		return nil, err
	}
	if space != nil && space.Deleted {
		return nil, ErrSpaceDeleted
	}
	controller, err := w.owners.Controller(ctx, p.Space)
	if err != nil {
		return nil, err
	}
	if err := w.authorize(p.From, space, controller); err != nil {
		return nil, err
	}
	return &settingsContext{
		payload:    p,
		raw:        string(raw),
		settings:   settings,
		space:      space,
		controller: controller,
	}, nil
}

// A space cannot list itself as parent or child.
func checkSettings(id string, settings *types.SpaceSettings) error {
	if settings.Network == "" {
		return ErrInvalidPayload
	}
	if len(settings.Strategies) == 0 || len(settings.Strategies) > MaxStrategies {
		return ErrInvalidPayload
	}
	if strings.EqualFold(settings.Parent, id) {
		return ErrInvalidPayload
	}
	for _, child := range settings.Children {
		if strings.EqualFold(child, id) {
			return ErrInvalidPayload
		}
	}
	return nil
}

func (w *SettingsWriter) authorize(from string, space *store.Space, controller string) error {
	if space == nil {
		if controller == "" || !strings.EqualFold(controller, from) {
			return ErrNotAuthorized
		}
		return nil
	}
	if strings.EqualFold(space.Controller, from) || strings.EqualFold(controller, from) {
		return nil
	}
	settings, err := space.ParseSettings()
	if err != nil {
		return err
	}
	if !settings.IsAdmin(from) {
		return ErrNotAuthorized
	}
	return nil
}

func (w *SettingsWriter) Action(_ context.Context, env *message.Envelope, id, cid, receipt string, vctx interface{}) error {
	c := vctx.(*settingsContext)
	p := c.payload
	row := c.space
	if row == nil {
		row = &store.Space{
			ID:         p.Space,
			Controller: c.controller,
			Created:    p.Timestamp,
		}
	}
	row.Network = c.settings.Network
	row.Settings = c.raw
	row.Updated = p.Timestamp
	return w.st.SaveSpace(row)
}

type DeleteSpaceWriter struct {
	settings *SettingsWriter
}

func (w *DeleteSpaceWriter) Verify(ctx context.Context, env *message.Envelope) (interface{}, error) {
	p, err := message.Decode[message.SpaceRefPayload](env)
	if err != nil {
		return nil, ErrInvalidPayload
	}
	space, err := w.settings.st.GetSpace(p.Space)
	if err != nil {
		return nil, err
	}
	if space == nil || space.Deleted {
		return nil, ErrUnknownSpace
	}
	controller, err := w.settings.owners.Controller(ctx, p.Space)
	if err != nil {
		return nil, err
	}
	if err := w.settings.authorize(p.From, space, controller); err != nil {
		return nil, err
	}
	return p, nil
}

func (w *DeleteSpaceWriter) Action(_ context.Context, env *message.Envelope, id, cid, receipt string, vctx interface{}) error {
	p := vctx.(*message.SpaceRefPayload)
	return w.settings.st.MarkSpaceDeleted(p.Space, p.Timestamp)
}
