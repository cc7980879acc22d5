package resilience_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/bikeshare-dashboard/internal/resilience"
)

var errBoom = errors.New("boom")

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestBreaker_OpensAfterFailures(t *testing.T) {
	c := &clock{t: time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC)}
	var transitions []string
	b := resilience.NewBreaker(resilience.BreakerConfig{
		Name:        "reload",
		MaxFailures: 2,
		Cooldown:    time.Minute,
		OnStateChange: func(_ string, from, to resilience.State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	}).WithClock(c.now)

	fail := func() error { return errBoom }
	calls := 0
	ok := func() error { calls++; return nil }

	assert.ErrorIs(t, b.Execute(fail), errBoom)
	assert.Equal(t, resilience.StateClosed, b.State())
	assert.ErrorIs(t, b.Execute(fail), errBoom)
	require.Equal(t, resilience.StateOpen, b.State())

	assert.ErrorIs(t, b.Execute(ok), resilience.ErrOpen)
	assert.Equal(t, 0, calls)

	c.t = c.t.Add(2 * time.Minute)
	assert.NoError(t, b.Execute(ok))
	assert.Equal(t, 1, calls)
	assert.Equal(t, resilience.StateClosed, b.State())

	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, transitions)
}

func TestBreaker_TrialFailureReopens(t *testing.T) {
	c := &clock{t: time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := resilience.NewBreaker(resilience.BreakerConfig{MaxFailures: 1, Cooldown: time.Second}).WithClock(c.now)

	require.ErrorIs(t, b.Execute(func() error { return errBoom }), errBoom)
	c.t = c.t.Add(2 * time.Second)

	require.ErrorIs(t, b.Execute(func() error { return errBoom }), errBoom)
	assert.Equal(t, resilience.StateOpen, b.State())
	assert.ErrorIs(t, b.Execute(func() error { return nil }), resilience.ErrOpen)
}

func TestBreaker_SuccessResetsCount(t *testing.T) {
	b := resilience.NewBreaker(resilience.BreakerConfig{MaxFailures: 2})

	_ = b.Execute(func() error { return errBoom })
	_ = b.Execute(func() error { return nil })
	_ = b.Execute(func() error { return errBoom })

	assert.Equal(t, resilience.StateClosed, b.State())

	b.Reset()
	assert.Equal(t, resilience.StateClosed, b.State())
}
