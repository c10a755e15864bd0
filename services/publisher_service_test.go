package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/open-teleop/tfpublisher/domain/transform"
	"github.com/open-teleop/tfpublisher/pkg/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 4, 6, 17, 30, 0, 0, time.UTC)

type channelSink struct {
	ch  chan transform.Transform
	err error
}

func newChannelSink() *channelSink {
	return &channelSink{ch: make(chan transform.Transform, 16)}
}

func (s *channelSink) PublishTransform(tf transform.Transform) error {
	s.ch <- tf
	return s.err
}

func (s *channelSink) next(t *testing.T) transform.Transform {
	t.Helper()
	select {
	case tf := <-s.ch:
		return tf
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a published transform")
		return transform.Transform{}
	}
}

func newTestState(t *testing.T, clock timeutil.Clock) *transform.State {
	t.Helper()
	state, err := transform.NewState(transform.NewTransformFromEuler(1, 0, 0, 0, 0, 0, epoch, "map", "odom"), clock)
	require.NoError(t, err)
	return state
}

func TestNewPublisherServiceValidation(t *testing.T) {
	_, err := NewPublisherService(nil, time.Second, nil, nil)
	assert.Error(t, err)

	state := newTestState(t, nil)
	_, err = NewPublisherService(state, 0, nil, nil)
	assert.Error(t, err)

	p, err := NewPublisherService(state, 100*time.Millisecond, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, p.Period())
}

func TestPublishOnceFutureDatesStamp(t *testing.T) {
	clock := timeutil.NewMockClock(epoch)
	p, err := NewPublisherService(newTestState(t, clock), 100*time.Millisecond, clock, nil)
	require.NoError(t, err)

	failing := newChannelSink()
	failing.err = errors.New("socket closed")
	healthy := newChannelSink()
	p.AddSink(failing)
	p.AddSink(healthy)

	tf := p.PublishOnce()
	assert.Equal(t, epoch.Add(100*time.Millisecond), tf.Stamp)
	assert.Equal(t, tf, failing.next(t))
	assert.Equal(t, tf, healthy.next(t), "a failing sink must not starve the others")
}

func TestRunPublishesEveryPeriod(t *testing.T) {
	clock := timeutil.NewMockClock(epoch)
	state := newTestState(t, clock)
	period := 50 * time.Millisecond
	p, err := NewPublisherService(state, period, clock, nil)
	require.NoError(t, err)
	sink := newChannelSink()
	p.AddSink(sink)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	first := sink.next(t)
	assert.Equal(t, epoch.Add(period), first.Stamp)

	clock.Advance(period)
	second := sink.next(t)
	assert.Equal(t, epoch.Add(2*period), second.Stamp)

	// Edits between ticks show up in the next publish.
	state.SetTranslation(transform.Vector3{X: 7})
	clock.Advance(period)
	third := sink.next(t)
	assert.Equal(t, transform.Vector3{X: 7}, third.Translation)
	assert.Equal(t, epoch.Add(3*period), third.Stamp)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
