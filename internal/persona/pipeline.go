// Package persona orchestrates persona assignment: photo selection,
// generation, and the ordered profile updates against the gateway.
// The pipeline persists its result exactly once per instance; a
// partial failure persists nothing, so a re-run starts from scratch.
package persona

import (
	"context"
	"encoding/base64"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/gateway"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/instance"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/retry"
)

const (
	// settleDelay is waited after each profile mutation so the
	// gateway's backend stabilizes before the next one.
	settleDelay = 5 * time.Second

	nameAttempts   = 3
	nameRetryDelay = 3 * time.Second

	bioAttempts   = 3
	bioRetryDelay = 2 * time.Second
)

// Gateway is the subset of gateway operations the pipeline needs.
type Gateway interface {
	FetchInstances(ctx context.Context) ([]gateway.InstanceSummary, error)
	UpdateProfilePhoto(ctx context.Context, name, pictureBase64 string) error
	UpdateProfileName(ctx context.Context, name, profileName string) error
	UpdateProfileStatus(ctx context.Context, name, status string) error
}

// Store persists the registry and owns the photo blobs.
type Store interface {
	SaveRegistry(reg instance.Registry) error
	BlobPath(id string) string
	NewBlobID() string
	PutBlob(sourcePath, id string) (string, error)
}

// Result reports what a pipeline run did.
type Result struct {
	// AlreadyConfigured means the instance had a persona and the run
	// was a no-op.
	AlreadyConfigured bool
	Persona           instance.Persona
	PhotoID           string
	IsBusiness        bool
}

// Pipeline assigns personas to connected instances.
type Pipeline struct {
	gw       Gateway
	store    Store
	gen      Generator
	reg      instance.Registry
	assetDir string

	sleep func(time.Duration)
}

// New creates a Pipeline drawing photos from assetDir.
func New(gw Gateway, store Store, gen Generator, reg instance.Registry, assetDir string) *Pipeline {
	return &Pipeline{
		gw:       gw,
		store:    store,
		gen:      gen,
		reg:      reg,
		assetDir: assetDir,
		sleep:    time.Sleep,
	}
}

// Run executes the pipeline for one instance. Preconditions: the
// instance is connected and has no persona yet; an existing persona
// makes the run a no-op so repeated invocations never churn the
// profile. The record is persisted only when every step succeeded.
func (p *Pipeline) Run(ctx context.Context, name string) (*Result, error) {
	rec, exists := p.reg[name]
	if !exists {
		return nil, errors.Errorf("instance %q not found", name)
	}

	if !rec.Connected {
		return nil, ErrNotConnected
	}

	if rec.HasPersona() {
		log.Info().Str("instance", name).Msg("persona already configured")
		return &Result{AlreadyConfigured: true}, nil
	}

	// Business accounts reject remote name changes; the flag only
	// drives operator messaging. The gateway has no confirmed
	// per-instance lookup, so the batch fetch is kept.
	isBusiness := p.checkBusiness(ctx, name)
	if isBusiness {
		log.Warn().Str("instance", name).Msg("business account detected, name update may be rejected")
	}

	sourcePath, err := pickPhoto(p.assetDir, p.reg, p.store.BlobPath)
	if err != nil {
		return nil, err
	}

	photoID := p.store.NewBlobID()

	blobFile, err := p.store.PutBlob(sourcePath, photoID)
	if err != nil {
		return nil, err
	}

	generated, err := p.gen.Generate(ctx)
	if err != nil {
		return nil, err
	}

	generated.TruncateBio()

	if err = p.applyProfile(ctx, name, blobFile, generated); err != nil {
		return nil, err
	}

	if err = rec.AssignPersona(generated, photoID, isBusiness); err != nil {
		return nil, err
	}

	if err = p.store.SaveRegistry(p.reg); err != nil {
		return nil, err
	}

	log.Info().
		Str("instance", name).
		Str("persona", generated.Name).
		Str("photo_id", photoID).
		Msg("persona configured")

	return &Result{Persona: generated, PhotoID: photoID, IsBusiness: isBusiness}, nil
}

// applyProfile pushes photo, name and bio in that order, with a
// settling delay after each mutation. The photo is attempted once;
// name and bio get three bounded attempts each.
func (p *Pipeline) applyProfile(ctx context.Context, name, blobFile string, persona instance.Persona) error {
	picture, err := os.ReadFile(blobFile)
	if err != nil {
		return errors.Wrap(err, "failed to read photo blob")
	}

	encoded := base64.StdEncoding.EncodeToString(picture)

	if err = p.gw.UpdateProfilePhoto(ctx, name, encoded); err != nil {
		return errors.Wrap(err, "profile photo update failed")
	}

	p.sleep(settleDelay)

	namePolicy := retry.Policy{MaxAttempts: nameAttempts, Delay: nameRetryDelay, Sleep: p.sleep}
	if err = namePolicy.Do(func() error {
		return p.gw.UpdateProfileName(ctx, name, persona.Name)
	}); err != nil {
		return errors.Wrap(err, "profile name update failed")
	}

	p.sleep(settleDelay)

	bioPolicy := retry.Policy{MaxAttempts: bioAttempts, Delay: bioRetryDelay, Sleep: p.sleep}
	if err = bioPolicy.Do(func() error {
		return p.gw.UpdateProfileStatus(ctx, name, persona.Bio)
	}); err != nil {
		return errors.Wrap(err, "profile bio update failed")
	}

	return nil
}

func (p *Pipeline) checkBusiness(ctx context.Context, name string) bool {
	summaries, err := p.gw.FetchInstances(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("could not determine account type")
		return false
	}

	for _, s := range summaries {
		if s.Name == name {
			return s.IsBusiness
		}
	}

	return false
}
