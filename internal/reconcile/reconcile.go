// Package reconcile merges the gateway's instance list into the local
// registry. The merge is one-directional: remote is authoritative for
// connectivity, local for identity metadata (credential, persona,
// photo). Records are never deleted because they are missing remotely.
package reconcile

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/gateway"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/instance"
)

// Gateway is the remote side of the reconciliation.
type Gateway interface {
	FetchInstances(ctx context.Context) ([]gateway.InstanceSummary, error)
}

// Store persists the merged registry.
type Store interface {
	SaveRegistry(reg instance.Registry) error
}

// Result accounts for what a reconciliation run changed.
type Result struct {
	Inserted int
	Updated  int
}

// Changed reports whether the run touched the registry at all.
func (r Result) Changed() bool {
	return r.Inserted > 0 || r.Updated > 0
}

// Reconciler drives reconciliation runs against a gateway and a store.
type Reconciler struct {
	gw    Gateway
	store Store
}

// New creates a Reconciler.
func New(gw Gateway, store Store) *Reconciler {
	return &Reconciler{gw: gw, store: store}
}

// Sync fetches the remote list and merges it into reg in place. The
// registry is persisted only when at least one record was inserted or
// updated. An empty remote list is a valid, non-error outcome.
func (r *Reconciler) Sync(ctx context.Context, reg instance.Registry) (Result, error) {
	remote, err := r.gw.FetchInstances(ctx)
	if err != nil {
		return Result{}, err
	}

	result := Merge(reg, remote)

	if result.Changed() {
		if err := r.store.SaveRegistry(reg); err != nil {
			return result, err
		}
	}

	log.Info().
		Int("remote", len(remote)).
		Int("inserted", result.Inserted).
		Int("updated", result.Updated).
		Msg("registry reconciled")

	return result, nil
}

// Merge applies the additive-and-status-only merge. Unknown remote
// instances are inserted as synced records with an empty credential;
// known ones only have their connected flag refreshed when it differs.
func Merge(reg instance.Registry, remote []gateway.InstanceSummary) Result {
	var result Result

	for _, summary := range remote {
		if summary.Name == "" {
			continue
		}

		rec, ok := reg[summary.Name]
		if !ok {
			rec, err := instance.NewSynced(summary.Name, summary.Connected())
			if err != nil {
				continue
			}

			reg[summary.Name] = rec
			result.Inserted++

			continue
		}

		if rec.Connected != summary.Connected() {
			rec.Connected = summary.Connected()
			result.Updated++
		}
	}

	return result
}
