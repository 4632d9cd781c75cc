package persona

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/gateway"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/instance"
)

type fakeGateway struct {
	summaries []gateway.InstanceSummary

	photoCalls  int
	nameCalls   int
	statusCalls int

	nameFailures int
	bioErr       error

	sentPhoto  string
	sentName   string
	sentStatus string
}

func (f *fakeGateway) FetchInstances(_ context.Context) ([]gateway.InstanceSummary, error) {
	return f.summaries, nil
}

func (f *fakeGateway) UpdateProfilePhoto(_ context.Context, _, pictureBase64 string) error {
	f.photoCalls++
	f.sentPhoto = pictureBase64
	return nil
}

func (f *fakeGateway) UpdateProfileName(_ context.Context, _, profileName string) error {
	f.nameCalls++

	if f.nameCalls <= f.nameFailures {
		return errors.New("name update rejected")
	}

	f.sentName = profileName
	return nil
}

func (f *fakeGateway) UpdateProfileStatus(_ context.Context, _, status string) error {
	f.statusCalls++

	if f.bioErr != nil {
		return f.bioErr
	}

	f.sentStatus = status
	return nil
}

func (f *fakeGateway) calls() int {
	return f.photoCalls + f.nameCalls + f.statusCalls
}

type fakeStore struct {
	blobDir string
	saves   int
}

func newFakeStore(t *testing.T) *fakeStore {
	t.Helper()
	return &fakeStore{blobDir: t.TempDir()}
}

func (f *fakeStore) SaveRegistry(_ instance.Registry) error {
	f.saves++
	return nil
}

func (f *fakeStore) BlobPath(id string) string {
	return filepath.Join(f.blobDir, id+".jpg")
}

func (f *fakeStore) NewBlobID() string {
	return "blob0001"
}

func (f *fakeStore) PutBlob(sourcePath, id string) (string, error) {
	src, err := os.Open(sourcePath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	dest := f.BlobPath(id)

	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err = io.Copy(out, src); err != nil {
		return "", err
	}

	return dest, nil
}

type fakeGenerator struct {
	persona instance.Persona
	err     error
}

func (f *fakeGenerator) Generate(_ context.Context) (instance.Persona, error) {
	return f.persona, f.err
}

func writePhoto(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func connectedRecord(t *testing.T, name string) *instance.Record {
	t.Helper()

	rec, err := instance.NewLocal(name, "cred")
	require.NoError(t, err)
	rec.Connected = true

	return rec
}

func newTestPipeline(t *testing.T, gw *fakeGateway, gen Generator, reg instance.Registry) (*Pipeline, *fakeStore, string) {
	t.Helper()

	store := newFakeStore(t)
	assetDir := t.TempDir()
	writePhoto(t, assetDir, "model.jpg", "photo-bytes")

	p := New(gw, store, gen, reg, assetDir)
	p.sleep = func(time.Duration) {}

	return p, store, assetDir
}

func TestRunConfiguresPersona(t *testing.T) {
	rec := connectedRecord(t, "alpha")
	reg := instance.Registry{"alpha": rec}

	gw := &fakeGateway{}
	gen := &fakeGenerator{persona: instance.Persona{Name: "Ana Souza", Age: 31, City: "Recife", Profession: "professora", Bio: "Oi!"}}

	p, store, _ := newTestPipeline(t, gw, gen, reg)

	result, err := p.Run(context.Background(), "alpha")
	require.NoError(t, err)

	assert.False(t, result.AlreadyConfigured)
	assert.Equal(t, "Ana Souza", result.Persona.Name)
	assert.Equal(t, "blob0001", result.PhotoID)

	assert.Equal(t, 1, gw.photoCalls)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("photo-bytes")), gw.sentPhoto)
	assert.Equal(t, "Ana Souza", gw.sentName)
	assert.Equal(t, "Oi!", gw.sentStatus)

	assert.True(t, rec.HasPersona())
	assert.Equal(t, "blob0001", rec.PhotoID)
	assert.Equal(t, 1, store.saves)
}

func TestRunNoOpWhenPersonaExists(t *testing.T) {
	rec := connectedRecord(t, "alpha")
	require.NoError(t, rec.AssignPersona(instance.Persona{Name: "Ana"}, "photoX", false))

	reg := instance.Registry{"alpha": rec}
	gw := &fakeGateway{}

	p, store, _ := newTestPipeline(t, gw, &fakeGenerator{}, reg)

	result, err := p.Run(context.Background(), "alpha")
	require.NoError(t, err)

	assert.True(t, result.AlreadyConfigured)
	assert.Equal(t, 0, gw.calls())
	assert.Equal(t, 0, store.saves)
	assert.Equal(t, "photoX", rec.PhotoID)
}

func TestRunRequiresConnection(t *testing.T) {
	rec, err := instance.NewLocal("alpha", "cred")
	require.NoError(t, err)

	reg := instance.Registry{"alpha": rec}
	gw := &fakeGateway{}

	p, _, _ := newTestPipeline(t, gw, &fakeGenerator{}, reg)

	_, err = p.Run(context.Background(), "alpha")

	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Equal(t, 0, gw.calls())
}

func TestRunTruncatesBio(t *testing.T) {
	rec := connectedRecord(t, "alpha")
	reg := instance.Registry{"alpha": rec}

	longBio := strings.Repeat("a", instance.BioLimit+40)
	gw := &fakeGateway{}
	gen := &fakeGenerator{persona: instance.Persona{Name: "Ana", Bio: longBio}}

	p, _, _ := newTestPipeline(t, gw, gen, reg)

	_, err := p.Run(context.Background(), "alpha")
	require.NoError(t, err)

	assert.Len(t, gw.sentStatus, instance.BioLimit)
	assert.Len(t, rec.Persona.Bio, instance.BioLimit)
}

func TestRunTruncatesAccentedBio(t *testing.T) {
	rec := connectedRecord(t, "alpha")
	reg := instance.Registry{"alpha": rec}

	gw := &fakeGateway{}
	gen := &fakeGenerator{persona: instance.Persona{Name: "Ana", Bio: strings.Repeat("çã", instance.BioLimit)}}

	p, _, _ := newTestPipeline(t, gw, gen, reg)

	_, err := p.Run(context.Background(), "alpha")
	require.NoError(t, err)

	assert.Equal(t, instance.BioLimit, utf8.RuneCountInString(gw.sentStatus))
	assert.True(t, utf8.ValidString(gw.sentStatus))
	assert.Equal(t, instance.BioLimit, utf8.RuneCountInString(rec.Persona.Bio))
}

func TestRunRetriesNameUpdate(t *testing.T) {
	rec := connectedRecord(t, "alpha")
	reg := instance.Registry{"alpha": rec}

	gw := &fakeGateway{nameFailures: 2}
	gen := &fakeGenerator{persona: instance.Persona{Name: "Ana", Bio: "oi"}}

	p, store, _ := newTestPipeline(t, gw, gen, reg)

	_, err := p.Run(context.Background(), "alpha")
	require.NoError(t, err)

	assert.Equal(t, 3, gw.nameCalls)
	assert.True(t, rec.HasPersona())
	assert.Equal(t, 1, store.saves)
}

func TestRunNameUpdateExhausted(t *testing.T) {
	rec := connectedRecord(t, "alpha")
	reg := instance.Registry{"alpha": rec}

	gw := &fakeGateway{nameFailures: nameAttempts}
	gen := &fakeGenerator{persona: instance.Persona{Name: "Ana", Bio: "oi"}}

	p, store, _ := newTestPipeline(t, gw, gen, reg)

	_, err := p.Run(context.Background(), "alpha")
	require.Error(t, err)

	assert.Equal(t, nameAttempts, gw.nameCalls)
	assert.Equal(t, 0, gw.statusCalls)
	assert.False(t, rec.HasPersona())
	assert.Equal(t, 0, store.saves)
}

func TestRunGenerationFailureStopsPipeline(t *testing.T) {
	rec := connectedRecord(t, "alpha")
	reg := instance.Registry{"alpha": rec}

	gw := &fakeGateway{}
	gen := &fakeGenerator{err: ErrGeneration}

	p, store, _ := newTestPipeline(t, gw, gen, reg)

	_, err := p.Run(context.Background(), "alpha")

	assert.ErrorIs(t, err, ErrGeneration)
	assert.Equal(t, 0, gw.photoCalls)
	assert.Equal(t, 0, store.saves)
	assert.False(t, rec.HasPersona())
}

func TestRunDetectsBusinessAccount(t *testing.T) {
	rec := connectedRecord(t, "alpha")
	reg := instance.Registry{"alpha": rec}

	gw := &fakeGateway{summaries: []gateway.InstanceSummary{
		{Name: "alpha", ConnectionStatus: "open", IsBusiness: true},
	}}
	gen := &fakeGenerator{persona: instance.Persona{Name: "Ana", Bio: "oi"}}

	p, _, _ := newTestPipeline(t, gw, gen, reg)

	result, err := p.Run(context.Background(), "alpha")
	require.NoError(t, err)

	assert.True(t, result.IsBusiness)
	assert.True(t, *rec.IsBusiness)
}
