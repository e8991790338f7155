package credits

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPersister struct {
	saves []Usage
	err   error
}

func (m *memPersister) SaveUsage(u Usage) error {
	m.saves = append(m.saves, u)
	return m.err
}

func TestConsumeUpToBaseLimit(t *testing.T) {
	c := NewCounter(Usage{}, nil)
	for i := range 5 {
		require.NoError(t, c.Consume(), "credit %d", i+1)
	}
	assert.ErrorIs(t, c.Consume(), ErrExhausted)
	assert.Equal(t, 5, c.Used(), "a blocked turn leaves the counter untouched")
	assert.Equal(t, 0, c.Remaining())
}

func TestConsumePersistsEveryIncrement(t *testing.T) {
	p := &memPersister{}
	c := NewCounter(Usage{}, p)
	require.NoError(t, c.Consume())
	require.NoError(t, c.Consume())

	require.Len(t, p.saves, 2)
	assert.Equal(t, 1, p.saves[0].Used)
	assert.Equal(t, 2, p.saves[1].Used)
}

func TestProLimit(t *testing.T) {
	c := NewCounter(Usage{Pro: true, ProGranted: true}, nil)
	assert.Equal(t, 20, c.Limit())
	assert.Equal(t, TierPro, c.Tier())
	for range 20 {
		require.NoError(t, c.Consume())
	}
	assert.ErrorIs(t, c.Consume(), ErrExhausted)
}

func TestSetProGrantIsOneShot(t *testing.T) {
	c := NewCounter(Usage{Used: 5}, nil)

	require.NoError(t, c.SetPro(true))
	assert.Equal(t, 0, c.Used(), "first upgrade resets usage")
	assert.Equal(t, TierPro, c.Tier())

	require.NoError(t, c.Consume())
	require.NoError(t, c.Consume())

	// Repeated pro detections must not grant again.
	require.NoError(t, c.SetPro(true))
	assert.Equal(t, 2, c.Used())

	// Even a downgrade and re-upgrade keeps the flag.
	require.NoError(t, c.SetPro(false))
	require.NoError(t, c.SetPro(true))
	assert.Equal(t, 2, c.Used())
}

func TestResetClearsGrantFlag(t *testing.T) {
	c := NewCounter(Usage{Used: 3, Pro: true, ProGranted: true}, nil)
	require.NoError(t, c.Reset())

	assert.Equal(t, 0, c.Used())
	assert.Equal(t, TierBase, c.Tier())

	// After a full reset the grant may fire again.
	require.NoError(t, c.SetPro(true))
	assert.Equal(t, Usage{Pro: true, ProGranted: true}, c.Snapshot())
}

func TestConsumeSurfacesPersistErrors(t *testing.T) {
	p := &memPersister{err: errors.New("disk full")}
	c := NewCounter(Usage{}, p)
	assert.Error(t, c.Consume())
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "base", TierBase.String())
	assert.Equal(t, "pro", TierPro.String())
}
