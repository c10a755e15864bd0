package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/open-teleop/tfpublisher/domain/transform"
	customlog "github.com/open-teleop/tfpublisher/pkg/log"
	"github.com/open-teleop/tfpublisher/pkg/timeutil"
)

// TransformSink receives every published transform.
// Implementations must not block; the publish loop calls them inline.
type TransformSink interface {
	PublishTransform(tf transform.Transform) error
}

// PublisherService periodically republishes the transform held by a State.
type PublisherService struct {
	state  *transform.State
	period time.Duration
	clock  timeutil.Clock
	logger customlog.Logger

	mu    sync.RWMutex
	sinks []TransformSink
}

// NewPublisherService creates a publish loop for state. A nil clock means the wall clock.
func NewPublisherService(state *transform.State, period time.Duration, clock timeutil.Clock, logger customlog.Logger) (*PublisherService, error) {
	if state == nil {
		return nil, fmt.Errorf("transform state cannot be nil")
	}
	if period <= 0 {
		return nil, fmt.Errorf("publish period must be positive, got %v", period)
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if logger == nil {
		logger = customlog.NewNopLogger()
	}
	return &PublisherService{
		state:  state,
		period: period,
		clock:  clock,
		logger: logger,
	}, nil
}

// AddSink registers a sink. Sinks may be added while the loop is running.
func (p *PublisherService) AddSink(sink TransformSink) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sinks = append(p.sinks, sink)
}

// Period returns the republish interval.
func (p *PublisherService) Period() time.Duration {
	return p.period
}

// PublishOnce stamps the transform one period into the future and hands it to
// every sink. Sink errors are logged and do not stop the others.
func (p *PublisherService) PublishOnce() transform.Transform {
	tf := p.state.Current(p.clock.Now().Add(p.period))

	p.mu.RLock()
	sinks := make([]TransformSink, len(p.sinks))
	copy(sinks, p.sinks)
	p.mu.RUnlock()

	for _, sink := range sinks {
		if err := sink.PublishTransform(tf); err != nil {
			p.logger.Warnf("Failed to publish transform %s -> %s: %v", tf.FrameID, tf.ChildFrameID, err)
		}
	}
	return tf
}

// Run publishes immediately and then once per period until ctx is cancelled.
func (p *PublisherService) Run(ctx context.Context) error {
	ticker := p.clock.NewTicker(p.period)
	defer ticker.Stop()

	p.logger.Infof("Publishing transform every %v", p.period)
	p.PublishOnce()

	for {
		select {
		case <-ctx.Done():
			p.logger.Infof("Publish loop stopped")
			return ctx.Err()
		case <-ticker.C():
			p.PublishOnce()
		}
	}
}
