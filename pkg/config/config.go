package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/open-teleop/tfpublisher/domain/transform"
)

// Usage is printed when the positional arguments do not match either form.
const Usage = `A command line utility for manually sending a transform.
It will periodically republish the given transform.
Usage: static_transform_publisher x y z yaw pitch roll frame_id child_frame_id period_in_ms
OR
Usage: static_transform_publisher x y z qx qy qz qw frame_id child_frame_id period_in_ms

This transform is the transform of the coordinate frame from frame_id into the coordinate frame
of the child_frame_id.`

var (
	ErrArgCount   = errors.New("wrong number of arguments")
	ErrSameFrames = errors.New("frame_id and child_frame_id are the same")
	ErrNotFinite  = errors.New("value is not finite")
)

// RotationForm says which rotation form the command line used.
type RotationForm int

const (
	EulerForm RotationForm = iota
	QuaternionForm
)

// StartupParams are the transform parameters given on the command line.
type StartupParams struct {
	Translation  transform.Vector3
	Form         RotationForm
	Euler        transform.EulerAngles // radians, used with EulerForm
	Quaternion   transform.Quaternion  // used with QuaternionForm
	FrameID      string
	ChildFrameID string
	PeriodMs     float64
}

// ParseStartupArgs parses either
//
//	x y z yaw pitch roll frame_id child_frame_id period_ms
//	x y z qx qy qz qw frame_id child_frame_id period_ms
func ParseStartupArgs(args []string) (*StartupParams, error) {
	var numeric int
	switch len(args) {
	case 9:
		numeric = 6
	case 10:
		numeric = 7
	default:
		return nil, fmt.Errorf("%w: got %d, want 9 or 10", ErrArgCount, len(args))
	}

	values := make([]float64, numeric)
	for i := 0; i < numeric; i++ {
		v, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d (%q) is not a number: %w", i+1, args[i], err)
		}
		if !isFinite(v) {
			return nil, fmt.Errorf("argument %d (%q): %w", i+1, args[i], ErrNotFinite)
		}
		values[i] = v
	}

	p := &StartupParams{
		Translation:  transform.Vector3{X: values[0], Y: values[1], Z: values[2]},
		FrameID:      args[numeric],
		ChildFrameID: args[numeric+1],
	}
	if numeric == 6 {
		p.Form = EulerForm
		p.Euler = transform.EulerAngles{Yaw: values[3], Pitch: values[4], Roll: values[5]}
	} else {
		p.Form = QuaternionForm
		p.Quaternion = transform.Quaternion{X: values[3], Y: values[4], Z: values[5], W: values[6]}
	}

	period, err := strconv.ParseFloat(args[numeric+2], 64)
	if err != nil {
		return nil, fmt.Errorf("period %q is not a number: %w", args[numeric+2], err)
	}
	if !isFinite(period) {
		return nil, fmt.Errorf("period %q: %w", args[numeric+2], ErrNotFinite)
	}
	p.PeriodMs = period

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate checks the frame ids and the period.
func (p *StartupParams) Validate() error {
	if p.FrameID == "" || p.ChildFrameID == "" {
		return fmt.Errorf("frame ids cannot be empty")
	}
	if p.FrameID == p.ChildFrameID {
		return fmt.Errorf("%w (%s, %s) this cannot work", ErrSameFrames, p.FrameID, p.ChildFrameID)
	}
	if p.PeriodMs <= 0 {
		return fmt.Errorf("period must be positive, got %gms", p.PeriodMs)
	}
	return nil
}

// Period is the republish interval.
func (p *StartupParams) Period() time.Duration {
	return time.Duration(p.PeriodMs * float64(time.Millisecond))
}

// Transform builds the initial transform stamped at stamp.
func (p *StartupParams) Transform(stamp time.Time) transform.Transform {
	v := p.Translation
	if p.Form == QuaternionForm {
		q := p.Quaternion
		return transform.NewTransformFromQuaternion(v.X, v.Y, v.Z, q.X, q.Y, q.Z, q.W, stamp, p.FrameID, p.ChildFrameID)
	}
	e := p.Euler
	return transform.NewTransformFromEuler(v.X, v.Y, v.Z, e.Yaw, e.Pitch, e.Roll, stamp, p.FrameID, p.ChildFrameID)
}
