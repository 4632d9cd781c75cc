// Package instance defines the records tracked for each managed
// messaging-channel instance and the invariants they carry.
package instance

import (
	"errors"
	"time"
)

// BioLimit is the maximum profile bio length the gateway accepts.
// Longer bios are truncated, never rejected.
const BioLimit = 139

var (
	// ErrPersonaWithoutPhoto is returned when a persona is assigned
	// without a stored photo backing it.
	ErrPersonaWithoutPhoto = errors.New("persona requires a photo id")
	// ErrEmptyName is returned when a record is created with an empty name.
	ErrEmptyName = errors.New("instance name cannot be empty")
)

// Origin records how an instance entered the local registry.
type Origin string

const (
	// OriginLocal marks records created by a local create action.
	OriginLocal Origin = "local"
	// OriginSynced marks records discovered during reconciliation.
	OriginSynced Origin = "synced"
)

// Persona is a generated profile identity applied to an instance.
type Persona struct {
	Name       string `json:"name"`
	Age        int    `json:"age"`
	City       string `json:"city"`
	Profession string `json:"profession"`
	Bio        string `json:"bio"`
}

// TruncateBio clamps the bio to BioLimit characters. The limit counts
// characters, not bytes; accented bios must never be cut mid-rune.
func (p *Persona) TruncateBio() {
	runes := []rune(p.Bio)
	if len(runes) > BioLimit {
		p.Bio = string(runes[:BioLimit])
	}
}

// Record is the locally persisted view of a single instance.
// The remote gateway is authoritative for the Connected flag only;
// credential, persona and photo are owned locally.
type Record struct {
	Name       string   `json:"name"`
	Credential string   `json:"credential"`
	CreatedAt  int64    `json:"created_at"`
	Connected  bool     `json:"connected"`
	Persona    *Persona `json:"persona"`
	PhotoID    string   `json:"photo_id,omitempty"`
	IsBusiness *bool    `json:"is_business,omitempty"`
	Origin     Origin   `json:"origin"`
}

// Registry maps instance names to their records.
type Registry map[string]*Record

// NewLocal creates a record for an instance created through this tool.
func NewLocal(name, credential string) (*Record, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	return &Record{
		Name:       name,
		Credential: credential,
		CreatedAt:  time.Now().Unix(),
		Origin:     OriginLocal,
	}, nil
}

// NewSynced creates a record for an instance first seen on the gateway.
func NewSynced(name string, connected bool) (*Record, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	return &Record{
		Name:      name,
		CreatedAt: time.Now().Unix(),
		Connected: connected,
		Origin:    OriginSynced,
	}, nil
}

// AssignPersona sets the persona together with the photo backing it.
// Assigning a persona without a photo id violates the record invariant.
func (r *Record) AssignPersona(p Persona, photoID string, isBusiness bool) error {
	if photoID == "" {
		return ErrPersonaWithoutPhoto
	}

	p.TruncateBio()
	r.Persona = &p
	r.PhotoID = photoID
	r.IsBusiness = &isBusiness

	return nil
}

// HasPersona reports whether a persona was already configured.
func (r *Record) HasPersona() bool {
	return r.Persona != nil
}
