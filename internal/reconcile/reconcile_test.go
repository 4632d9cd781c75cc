package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/gateway"
	"github.com/GoEvolution-Admin/GoEvolution-Admin/internal/instance"
)

type fakeGateway struct {
	remote []gateway.InstanceSummary
}

func (f *fakeGateway) FetchInstances(_ context.Context) ([]gateway.InstanceSummary, error) {
	return f.remote, nil
}

type fakeStore struct {
	saves int
}

func (f *fakeStore) SaveRegistry(_ instance.Registry) error {
	f.saves++
	return nil
}

func TestSyncAdditiveMerge(t *testing.T) {
	gw := &fakeGateway{remote: []gateway.InstanceSummary{
		{Name: "alpha", ConnectionStatus: "open"},
		{Name: "beta", ConnectionStatus: "close"},
	}}
	store := &fakeStore{}
	reg := instance.Registry{}

	result, err := New(gw, store).Sync(context.Background(), reg)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 1, store.saves)

	require.Contains(t, reg, "alpha")
	require.Contains(t, reg, "beta")
	assert.True(t, reg["alpha"].Connected)
	assert.False(t, reg["beta"].Connected)
	assert.Equal(t, instance.OriginSynced, reg["alpha"].Origin)
	assert.Empty(t, reg["alpha"].Credential)
	assert.False(t, reg["alpha"].HasPersona())
}

func TestSyncIdempotent(t *testing.T) {
	gw := &fakeGateway{remote: []gateway.InstanceSummary{
		{Name: "alpha", ConnectionStatus: "open"},
	}}
	store := &fakeStore{}
	reg := instance.Registry{}

	reconciler := New(gw, store)

	_, err := reconciler.Sync(context.Background(), reg)
	require.NoError(t, err)

	// Second run with an unchanged remote list writes nothing.
	result, err := reconciler.Sync(context.Background(), reg)
	require.NoError(t, err)

	assert.False(t, result.Changed())
	assert.Equal(t, 1, store.saves)
	assert.Len(t, reg, 1)
}

func TestSyncNonDestructive(t *testing.T) {
	rec, err := instance.NewLocal("alpha", "secret-credential")
	require.NoError(t, err)
	require.NoError(t, rec.AssignPersona(instance.Persona{Name: "Ana"}, "photo123", false))
	rec.Connected = true

	reg := instance.Registry{"alpha": rec}

	gw := &fakeGateway{remote: []gateway.InstanceSummary{
		{Name: "alpha", ConnectionStatus: "close"},
	}}
	store := &fakeStore{}

	result, err := New(gw, store).Sync(context.Background(), reg)
	require.NoError(t, err)

	// Remote is authoritative for connectivity only.
	assert.Equal(t, 1, result.Updated)
	assert.False(t, reg["alpha"].Connected)
	assert.Equal(t, "secret-credential", reg["alpha"].Credential)
	assert.True(t, reg["alpha"].HasPersona())
	assert.Equal(t, "photo123", reg["alpha"].PhotoID)
	assert.Equal(t, instance.OriginLocal, reg["alpha"].Origin)
}

func TestSyncNeverDeletesLocal(t *testing.T) {
	rec, err := instance.NewLocal("ghost", "cred")
	require.NoError(t, err)

	reg := instance.Registry{"ghost": rec}

	gw := &fakeGateway{remote: nil}
	store := &fakeStore{}

	result, err := New(gw, store).Sync(context.Background(), reg)
	require.NoError(t, err)

	assert.False(t, result.Changed())
	assert.Equal(t, 0, store.saves)
	assert.Contains(t, reg, "ghost")
}

func TestMergeSkipsUnnamedSummaries(t *testing.T) {
	reg := instance.Registry{}

	result := Merge(reg, []gateway.InstanceSummary{{Name: "", ConnectionStatus: "open"}})

	assert.False(t, result.Changed())
	assert.Empty(t, reg)
}
