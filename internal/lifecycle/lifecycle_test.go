package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/gateway"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/instance"
)

type fakeGateway struct {
	createErr   error
	credential  string
	states      []bool
	stateErr    error
	stateCalls  int
	deleteCalls int
	payload     *gateway.QRPayload
}

func (f *fakeGateway) CreateInstance(_ context.Context, _ string, _ gateway.CreateOptions) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}

	return f.credential, nil
}

func (f *fakeGateway) Connect(_ context.Context, _ string) (*gateway.QRPayload, error) {
	return f.payload, nil
}

func (f *fakeGateway) ConnectionState(_ context.Context, _ string) (bool, error) {
	f.stateCalls++

	if f.stateErr != nil {
		return false, f.stateErr
	}

	if len(f.states) == 0 {
		return false, nil
	}

	state := f.states[0]
	if len(f.states) > 1 {
		f.states = f.states[1:]
	}

	return state, nil
}

func (f *fakeGateway) DeleteInstance(_ context.Context, _ string) error {
	f.deleteCalls++
	return nil
}

type fakeStore struct {
	saves        int
	deletedBlobs []string
}

func (f *fakeStore) SaveRegistry(_ instance.Registry) error {
	f.saves++
	return nil
}

func (f *fakeStore) DeleteBlob(id string) error {
	f.deletedBlobs = append(f.deletedBlobs, id)
	return nil
}

func newTestManager(gw Gateway, store Store, reg instance.Registry) *Manager {
	m := New(gw, store, reg)
	m.sleep = func(time.Duration) {}

	return m
}

func TestCreatePersistsRecord(t *testing.T) {
	gw := &fakeGateway{credential: "instance-key"}
	store := &fakeStore{}
	reg := instance.Registry{}

	rec, err := newTestManager(gw, store, reg).Create(context.Background(), "alpha", gateway.CreateOptions{})
	require.NoError(t, err)

	assert.Equal(t, "instance-key", rec.Credential)
	assert.Equal(t, instance.OriginLocal, rec.Origin)
	assert.False(t, rec.Connected)
	assert.Equal(t, 1, store.saves)
	assert.Contains(t, reg, "alpha")
}

func TestCreateDuplicateName(t *testing.T) {
	existing, err := instance.NewLocal("alpha", "")
	require.NoError(t, err)

	reg := instance.Registry{"alpha": existing}
	gw := &fakeGateway{}
	store := &fakeStore{}

	_, err = newTestManager(gw, store, reg).Create(context.Background(), "alpha", gateway.CreateOptions{})

	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.Equal(t, 0, store.saves)
}

func TestWaitForConnectionTimeout(t *testing.T) {
	rec, err := instance.NewLocal("alpha", "")
	require.NoError(t, err)

	reg := instance.Registry{"alpha": rec}
	gw := &fakeGateway{states: []bool{false}}
	store := &fakeStore{}

	m := newTestManager(gw, store, reg)

	// 6s timeout with a 3s poll interval means exactly two probes.
	connected, err := m.WaitForConnection(context.Background(), "alpha", 6*time.Second)
	require.NoError(t, err)

	assert.False(t, connected)
	assert.Equal(t, 2, gw.stateCalls)
	assert.False(t, rec.Connected)
	assert.Equal(t, 0, store.saves)
}

func TestWaitForConnectionSuccess(t *testing.T) {
	rec, err := instance.NewLocal("alpha", "")
	require.NoError(t, err)

	reg := instance.Registry{"alpha": rec}
	gw := &fakeGateway{states: []bool{false, true}}
	store := &fakeStore{}

	connected, err := newTestManager(gw, store, reg).WaitForConnection(context.Background(), "alpha", time.Minute)
	require.NoError(t, err)

	assert.True(t, connected)
	assert.True(t, rec.Connected)
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, 2, gw.stateCalls)
}

func TestWaitForConnectionProbeErrorsKeepPolling(t *testing.T) {
	rec, err := instance.NewLocal("alpha", "")
	require.NoError(t, err)

	reg := instance.Registry{"alpha": rec}
	gw := &fakeGateway{stateErr: errors.New("network down")}
	store := &fakeStore{}

	connected, err := newTestManager(gw, store, reg).WaitForConnection(context.Background(), "alpha", 6*time.Second)
	require.NoError(t, err)

	assert.False(t, connected)
	assert.Equal(t, 2, gw.stateCalls)
}

func TestWaitForConnectionUnknownInstance(t *testing.T) {
	m := newTestManager(&fakeGateway{}, &fakeStore{}, instance.Registry{})

	_, err := m.WaitForConnection(context.Background(), "nope", time.Second)

	assert.ErrorIs(t, err, ErrUnknownInstance)
}

func TestCheckStatusPersistsOnlyChanges(t *testing.T) {
	rec, err := instance.NewLocal("alpha", "")
	require.NoError(t, err)
	rec.Connected = true

	reg := instance.Registry{"alpha": rec}
	store := &fakeStore{}

	// Externally-initiated disconnect is detected and persisted.
	gw := &fakeGateway{states: []bool{false}}
	m := newTestManager(gw, store, reg)

	connected, err := m.CheckStatus(context.Background(), "alpha")
	require.NoError(t, err)
	assert.False(t, connected)
	assert.False(t, rec.Connected)
	assert.Equal(t, 1, store.saves)

	// Probing again with an unchanged state writes nothing.
	connected, err = m.CheckStatus(context.Background(), "alpha")
	require.NoError(t, err)
	assert.False(t, connected)
	assert.Equal(t, 1, store.saves)
}

func TestDeleteRemovesBlobAndRecord(t *testing.T) {
	rec, err := instance.NewLocal("alpha", "cred")
	require.NoError(t, err)
	require.NoError(t, rec.AssignPersona(instance.Persona{Name: "Ana"}, "photo42", false))

	reg := instance.Registry{"alpha": rec}
	gw := &fakeGateway{}
	store := &fakeStore{}

	require.NoError(t, newTestManager(gw, store, reg).Delete(context.Background(), "alpha"))

	assert.Equal(t, 1, gw.deleteCalls)
	assert.Equal(t, []string{"photo42"}, store.deletedBlobs)
	assert.NotContains(t, reg, "alpha")
	assert.Equal(t, 1, store.saves)
}
