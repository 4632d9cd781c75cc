// Package lifecycle drives a single instance through its states:
// created, connecting, connected, with a timeout outcome the operator
// can retry from. Every state change is persisted before it is
// considered durable.
package lifecycle

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/gateway"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/instance"
)

const (
	// PollInterval is how often the connection probe runs while waiting.
	PollInterval = 3 * time.Second
	// DefaultWaitTimeout bounds the connection wait.
	DefaultWaitTimeout = 120 * time.Second
)

// Gateway is the subset of gateway operations the state machine needs.
type Gateway interface {
	CreateInstance(ctx context.Context, name string, opts gateway.CreateOptions) (string, error)
	Connect(ctx context.Context, name string) (*gateway.QRPayload, error)
	ConnectionState(ctx context.Context, name string) (bool, error)
	DeleteInstance(ctx context.Context, name string) error
}

// Store persists registry and blob changes.
type Store interface {
	SaveRegistry(reg instance.Registry) error
	DeleteBlob(id string) error
}

// Manager owns lifecycle transitions for the instances in a registry.
type Manager struct {
	gw    Gateway
	store Store
	reg   instance.Registry

	pollInterval time.Duration
	sleep        func(time.Duration)
}

// New creates a Manager operating on reg.
func New(gw Gateway, store Store, reg instance.Registry) *Manager {
	return &Manager{
		gw:           gw,
		store:        store,
		reg:          reg,
		pollInterval: PollInterval,
		sleep:        time.Sleep,
	}
}

// Create registers the instance remotely and persists the new record
// with the credential the gateway returned.
func (m *Manager) Create(ctx context.Context, name string, opts gateway.CreateOptions) (*instance.Record, error) {
	if _, exists := m.reg[name]; exists {
		return nil, ErrDuplicateName
	}

	credential, err := m.gw.CreateInstance(ctx, name, opts)
	if err != nil {
		return nil, err
	}

	rec, err := instance.NewLocal(name, credential)
	if err != nil {
		return nil, err
	}

	m.reg[name] = rec

	if err = m.store.SaveRegistry(m.reg); err != nil {
		return nil, err
	}

	log.Info().Str("instance", name).Msg("instance created")

	return rec, nil
}

// Connect requests a QR payload for the instance. A payload without an
// extractable code is still returned; the caller decides how to
// surface it and may retry.
func (m *Manager) Connect(ctx context.Context, name string) (*gateway.QRPayload, error) {
	if _, exists := m.reg[name]; !exists {
		return nil, ErrUnknownInstance
	}

	return m.gw.Connect(ctx, name)
}

// WaitForConnection polls the connection state until it opens or the
// timeout elapses. Timeout is an outcome, not an error: the record
// stays unconnected and false is returned. A successful connect is
// persisted immediately. Probe failures count as "not yet connected".
func (m *Manager) WaitForConnection(ctx context.Context, name string, timeout time.Duration) (bool, error) {
	rec, exists := m.reg[name]
	if !exists {
		return false, ErrUnknownInstance
	}

	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}

	probes := int(timeout / m.pollInterval)
	if probes < 1 {
		probes = 1
	}

	for attempt := 0; attempt < probes; attempt++ {
		if attempt > 0 {
			m.sleep(m.pollInterval)
		}

		connected, err := m.gw.ConnectionState(ctx, name)
		if err != nil {
			log.Debug().Err(err).Str("instance", name).Msg("connection probe failed")
			continue
		}

		if connected {
			rec.Connected = true
			if err = m.store.SaveRegistry(m.reg); err != nil {
				return true, err
			}

			log.Info().Str("instance", name).Msg("instance connected")

			return true, nil
		}
	}

	log.Warn().Str("instance", name).Dur("timeout", timeout).Msg("connection wait timed out")

	return false, nil
}

// CheckStatus probes the current connection state and persists the
// connected flag only when it changed, in either direction. This is
// how externally-initiated disconnects are picked up.
func (m *Manager) CheckStatus(ctx context.Context, name string) (bool, error) {
	rec, exists := m.reg[name]
	if !exists {
		return false, ErrUnknownInstance
	}

	connected, err := m.gw.ConnectionState(ctx, name)
	if err != nil {
		return false, err
	}

	if rec.Connected != connected {
		rec.Connected = connected
		if err = m.store.SaveRegistry(m.reg); err != nil {
			return connected, err
		}
	}

	return connected, nil
}

// Delete removes the instance from the gateway, its photo blob from
// the store, and the record from the registry. A gateway failure does
// not block the local teardown.
func (m *Manager) Delete(ctx context.Context, name string) error {
	rec, exists := m.reg[name]
	if !exists {
		return ErrUnknownInstance
	}

	if err := m.gw.DeleteInstance(ctx, name); err != nil {
		log.Warn().Err(err).Str("instance", name).Msg("gateway delete failed, removing local record anyway")
	}

	if rec.PhotoID != "" {
		if err := m.store.DeleteBlob(rec.PhotoID); err != nil {
			return err
		}
	}

	delete(m.reg, name)

	if err := m.store.SaveRegistry(m.reg); err != nil {
		return err
	}

	log.Info().Str("instance", name).Msg("instance deleted")

	return nil
}
