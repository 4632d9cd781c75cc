// Package groups drives batch group joins: sequential, rate-limited
// accept-invite calls with per-item accounting. Failed items are not
// retried here; the operator re-runs the whole batch.
package groups

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/gateway"
)

// joinDelay is slept between consecutive join attempts, skipped after
// the last one.
const joinDelay = 10 * time.Second

// Gateway is the subset of gateway operations the orchestrator needs.
type Gateway interface {
	AcceptInvite(ctx context.Context, name, code string) (bool, error)
	ListGroups(ctx context.Context, name string) ([]gateway.GroupSummary, error)
}

// Outcome is the result of a single join attempt.
type Outcome struct {
	Code     string
	Accepted bool
	Err      error
}

// Report accumulates the outcomes of one batch.
type Report struct {
	Outcomes []Outcome
}

// Successes counts accepted joins.
func (r Report) Successes() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Accepted {
			n++
		}
	}

	return n
}

// Failures counts rejected or failed joins.
func (r Report) Failures() int {
	return len(r.Outcomes) - r.Successes()
}

// Orchestrator runs join batches against a gateway.
type Orchestrator struct {
	gw    Gateway
	sleep func(time.Duration)
}

// New creates an Orchestrator.
func New(gw Gateway) *Orchestrator {
	return &Orchestrator{gw: gw, sleep: time.Sleep}
}

// JoinAll joins the given invite codes one by one, pausing between
// items. Every item gets exactly one attempt.
func (o *Orchestrator) JoinAll(ctx context.Context, instanceName string, codes []string) Report {
	var report Report

	for i, code := range codes {
		accepted, err := o.gw.AcceptInvite(ctx, instanceName, code)

		switch {
		case err != nil:
			log.Warn().Err(err).Str("code", code).Msg("group join failed")
		case !accepted:
			log.Warn().Str("code", code).Msg("group join not accepted")
		default:
			log.Info().Str("code", code).Msg("group joined")
		}

		report.Outcomes = append(report.Outcomes, Outcome{Code: code, Accepted: err == nil && accepted, Err: err})

		if i < len(codes)-1 {
			o.sleep(joinDelay)
		}
	}

	return report
}

// RecentGroups fetches the group list and returns the tail slice of at
// most n entries, newest joins last.
func (o *Orchestrator) RecentGroups(ctx context.Context, instanceName string, n int) ([]gateway.GroupSummary, error) {
	all, err := o.gw.ListGroups(ctx, instanceName)
	if err != nil {
		return nil, err
	}

	if n <= 0 || n >= len(all) {
		return all, nil
	}

	return all[len(all)-n:], nil
}
