package molecule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/molgraph/pkg/errors"
)

type fakeCache struct {
	store map[string]interface{}
	sets  int
}

func (f *fakeCache) Get(_ context.Context, key string, dest interface{}) error {
	v, ok := f.store[key]
	if !ok {
		return errors.NotFound("cache miss")
	}
	*(dest.(*string)) = v.(string)
	return nil
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.store[key] = value
	f.sets++
	return nil
}

type fakePublisher struct {
	events []kafka.MoleculeEvent
}

func (f *fakePublisher) Publish(_ context.Context, ev kafka.MoleculeEvent) error {
	f.events = append(f.events, ev)
	return nil
}

type fakeExporter struct {
	exported []string
}

func (f *fakeExporter) ExportMolecule(_ context.Context, id string, _ *domain.Molecule) error {
	f.exported = append(f.exported, id)
	return nil
}

func TestService_Parse(t *testing.T) {
	svc := NewService(Options{})
	info, err := svc.Parse(context.Background(), "c1ccccc1")
	require.NoError(t, err)
	assert.Equal(t, "c1ccccc1", info.CanonicalSMILES)
	assert.Equal(t, "C6H6", info.Formula)
	assert.Equal(t, 6, info.AtomCount)
	assert.Equal(t, 6, info.BondCount)
	assert.Equal(t, 1, info.RingCount)
	require.Len(t, info.Atoms, 6)
	assert.Equal(t, 1, *info.Atoms[0].ImplicitH)
}

func TestService_ParseError(t *testing.T) {
	svc := NewService(Options{})
	_, err := svc.Parse(context.Background(), "CC.CC")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSMILESDotSeparator))
}

func TestService_CanonicalizeUsesCache(t *testing.T) {
	fc := &fakeCache{store: map[string]interface{}{}}
	svc := NewService(Options{Cache: fc})

	out1, err := svc.Canonicalize(context.Background(), "C(C)O")
	require.NoError(t, err)
	assert.Equal(t, 1, fc.sets)

	out2, err := svc.Canonicalize(context.Background(), "C(C)O")
	require.NoError(t, err)
	assert.Equal(t, out1, out2)
	assert.Equal(t, 1, fc.sets, "second call served from cache")
}

func TestService_Kekulize(t *testing.T) {
	svc := NewService(Options{})
	out, err := svc.Kekulize(context.Background(), "c1ccccc1")
	require.NoError(t, err)
	assert.Contains(t, out, "=")
	assert.NotContains(t, out, "c")
}

func TestService_KekulizeFailure(t *testing.T) {
	svc := NewService(Options{})
	_, err := svc.Kekulize(context.Background(), "c1cc1")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodePerceptionKekulization))
}

func TestService_Delocalize(t *testing.T) {
	svc := NewService(Options{})
	out, err := svc.Delocalize(context.Background(), "C1=CC=CC=C1")
	require.NoError(t, err)
	assert.Equal(t, "c1ccccc1", out)
}

func TestService_Similarity(t *testing.T) {
	svc := NewService(Options{})
	sim, err := svc.Similarity(context.Background(), "CCO", "CCO")
	require.NoError(t, err)
	assert.Equal(t, 1.0, sim)
}

func TestService_RegisterFansOut(t *testing.T) {
	pub := &fakePublisher{}
	exp := &fakeExporter{}
	svc := NewService(Options{Publisher: pub, Exporter: exp})

	rec, err := svc.Register(context.Background(), "CCO")
	require.NoError(t, err)
	require.NoError(t, rec.ID.Validate())
	assert.Equal(t, "CCO", rec.CanonicalSMILES)
	assert.Equal(t, "C2H6O", rec.Formula)
	assert.NotEmpty(t, rec.Fingerprint)

	require.Len(t, pub.events, 1)
	assert.Equal(t, kafka.EventMoleculeRegistered, pub.events[0].Type)
	assert.Equal(t, string(rec.ID), pub.events[0].MoleculeID)
	assert.Equal(t, []string{string(rec.ID)}, exp.exported)
}
