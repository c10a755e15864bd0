// Package diagnostic keeps running counters about the publisher for the HTTP API.
package diagnostic

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/open-teleop/tfpublisher/domain/reconfigure"
	"github.com/open-teleop/tfpublisher/domain/transform"
	"github.com/open-teleop/tfpublisher/pkg/timeutil"
)

// PublishMetrics is a point-in-time copy of the counters.
type PublishMetrics struct {
	Timestamp       time.Time                `json:"timestamp"`
	StartedAt       time.Time                `json:"started_at"`
	PublishCount    int64                    `json:"publish_count"`
	LastPublish     time.Time                `json:"last_publish,omitempty"`
	LastStamp       time.Time                `json:"last_stamp,omitempty"`
	EditsByKind     map[string]int64         `json:"edits_by_kind"`
	WarningCount    int64                    `json:"warning_count"`
	LastDiagnostics []reconfigure.Diagnostic `json:"last_diagnostics"`
	FrameID         string                   `json:"frame_id,omitempty"`
	ChildFrameID    string                   `json:"child_frame_id,omitempty"`
}

// PublishStats counts publishes and edits. It is both a sink of the publish
// loop and a recorder of the reconfigure service.
type PublishStats struct {
	mu      sync.RWMutex
	clock   timeutil.Clock
	metrics PublishMetrics
}

// NewPublishStats creates an empty stats instance. A nil clock means the wall clock.
func NewPublishStats(clock timeutil.Clock) *PublishStats {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &PublishStats{
		clock: clock,
		metrics: PublishMetrics{
			StartedAt:       clock.Now(),
			EditsByKind:     make(map[string]int64),
			LastDiagnostics: []reconfigure.Diagnostic{},
		},
	}
}

// PublishTransform records one published transform. It never fails.
func (s *PublishStats) PublishTransform(tf transform.Transform) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.PublishCount++
	s.metrics.LastPublish = s.clock.Now()
	s.metrics.LastStamp = tf.Stamp
	s.metrics.FrameID = tf.FrameID
	s.metrics.ChildFrameID = tf.ChildFrameID
	return nil
}

// RecordEdit records one applied edit and its diagnostics.
func (s *PublishStats) RecordEdit(res reconfigure.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.EditsByKind[res.Kind.String()]++
	for _, d := range res.Diagnostics {
		if d.Level == reconfigure.LevelWarning {
			s.metrics.WarningCount++
		}
	}
	s.metrics.LastDiagnostics = append([]reconfigure.Diagnostic{}, res.Diagnostics...)
}

// GetMetrics returns a copy of the current counters.
func (s *PublishStats) GetMetrics() PublishMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m := s.metrics
	m.Timestamp = s.clock.Now()
	m.EditsByKind = make(map[string]int64, len(s.metrics.EditsByKind))
	for k, v := range s.metrics.EditsByKind {
		m.EditsByKind[k] = v
	}
	m.LastDiagnostics = append([]reconfigure.Diagnostic{}, s.metrics.LastDiagnostics...)
	return m
}

// GetMetricsHandler handles API requests for publisher metrics
func (s *PublishStats) GetMetricsHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "success",
		"metrics": s.GetMetrics(),
	})
}
