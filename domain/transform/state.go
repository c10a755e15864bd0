// Package transform holds the single live transform republished by the process
// and the angle-unit preference used to display its rotation.
package transform

import (
	"errors"
	"sync"
	"time"

	"github.com/open-teleop/tfpublisher/pkg/timeutil"
)

var (
	ErrZeroQuaternion = errors.New("quaternion length cannot be 0")
	ErrEmptyFrameID   = errors.New("frame id cannot be empty")
)

// State owns the live Transform and AngleUnits. One mutex guards both and is
// held only for a read or a single edit.
type State struct {
	mu    sync.Mutex
	clock timeutil.Clock
	tf    Transform
	units AngleUnits
}

// NewState validates the initial transform and takes ownership of it.
// A non-unit rotation is normalized; a zero rotation is rejected.
// A nil clock means wall time. Angle units start as Radians.
func NewState(initial Transform, clock timeutil.Clock) (*State, error) {
	if initial.FrameID == "" || initial.ChildFrameID == "" {
		return nil, ErrEmptyFrameID
	}
	if initial.Rotation.IsZero() {
		return nil, ErrZeroQuaternion
	}
	if !initial.Rotation.IsNormalized() {
		initial.Rotation = initial.Rotation.Normalized()
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &State{
		clock: clock,
		tf:    initial,
		units: Radians,
	}, nil
}

// Current stamps the transform with publishTime and returns a copy of it.
func (s *State) Current(publishTime time.Time) Transform {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tf.Stamp = publishTime
	return s.tf
}

// Snapshot returns a copy of the transform without touching its stamp.
func (s *State) Snapshot() Transform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tf
}

// Units returns the active angle units.
func (s *State) Units() AngleUnits {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.units
}

// SetTranslation replaces the translation, keeps the rotation and re-stamps.
// SetTranslation and SetRotation are for in-process callers that hold the
// State directly. Configuration edits go through reconfigure.Engine, which
// uses Edit so that it can report diagnostics for the values it corrects.
func (s *State) SetTranslation(v Vector3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tf.Translation = v
	s.tf.Stamp = s.clock.Now()
}

// SetRotation replaces the rotation, keeps the translation and re-stamps.
// q is normalized without any diagnostic; a zero quaternion leaves the state
// untouched and returns ErrZeroQuaternion.
func (s *State) SetRotation(q Quaternion) error {
	if q.IsZero() {
		return ErrZeroQuaternion
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tf.Rotation = q.Normalized()
	s.tf.Stamp = s.clock.Now()
	return nil
}

// Edit runs fn with exclusive access to the transform and units.
// fn must not block or do I/O.
func (s *State) Edit(fn func(tf *Transform, units *AngleUnits, now time.Time)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.tf, &s.units, s.clock.Now())
}
