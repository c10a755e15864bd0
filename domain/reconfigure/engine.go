// Package reconfigure applies live edits to the published transform.
//
// Every edit carries a ChangeKind naming the one field category it touches.
// Apply is the pure transition for a single edit; Engine runs it against the
// shared transform.State under the state's lock. After every edit the
// returned ConfigSnapshot has translation, Euler angles (in the active unit)
// and quaternion consistent with each other.
package reconfigure

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/open-teleop/tfpublisher/domain/transform"
)

var ErrUnknownChangeKind = errors.New("unknown change kind")

// ChangeKind tags which field category an edit affects.
type ChangeKind int

const (
	ChangeAll ChangeKind = iota
	ChangeTranslation
	ChangeEuler
	ChangeQuaternion
	ChangeUnits
)

// Reconfigure level bits sent by dynamic_reconfigure clients.
const (
	ReconfLevelTranslation uint32 = 1 << 0
	ReconfLevelEuler       uint32 = 1 << 1
	ReconfLevelQuaternion  uint32 = 1 << 2
	ReconfLevelUnits       uint32 = 1 << 3
	ReconfLevelAll         uint32 = 0xffffffff
)

var kindNames = map[ChangeKind]string{
	ChangeAll:         "all",
	ChangeTranslation: "xyz",
	ChangeEuler:       "rpy",
	ChangeQuaternion:  "quat",
	ChangeUnits:       "units",
}

// String implements fmt.Stringer.
func (k ChangeKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ChangeKind(%d)", int(k))
}

// ParseChangeKind maps a kind name (all, xyz, rpy, quat, units) to its ChangeKind.
func ParseChangeKind(s string) (ChangeKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownChangeKind, s)
}

// KindFromLevel maps a single level bit (or ReconfLevelAll) to its ChangeKind.
// Mixed levels are rejected.
func KindFromLevel(level uint32) (ChangeKind, error) {
	switch level {
	case ReconfLevelAll:
		return ChangeAll, nil
	case ReconfLevelTranslation:
		return ChangeTranslation, nil
	case ReconfLevelEuler:
		return ChangeEuler, nil
	case ReconfLevelQuaternion:
		return ChangeQuaternion, nil
	case ReconfLevelUnits:
		return ChangeUnits, nil
	}
	return 0, fmt.Errorf("%w: level 0x%x", ErrUnknownChangeKind, level)
}

// MarshalText implements encoding.TextMarshaler.
func (k ChangeKind) MarshalText() ([]byte, error) {
	name, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownChangeKind, int(k))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ChangeKind) UnmarshalText(text []byte) error {
	parsed, err := ParseChangeKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ConfigSnapshot mirrors the transform as exchanged with the configuration channel.
// Roll, pitch and yaw are in AngleUnits.
type ConfigSnapshot struct {
	X             float64              `json:"x"`
	Y             float64              `json:"y"`
	Z             float64              `json:"z"`
	Roll          float64              `json:"roll"`
	Pitch         float64              `json:"pitch"`
	Yaw           float64              `json:"yaw"`
	QX            float64              `json:"qx"`
	QY            float64              `json:"qy"`
	QZ            float64              `json:"qz"`
	QW            float64              `json:"qw"`
	AngleUnits    transform.AngleUnits `json:"angle_units"`
	UseQuaternion bool                 `json:"use_quaternion"`
}

func (c ConfigSnapshot) translation() transform.Vector3 {
	return transform.Vector3{X: c.X, Y: c.Y, Z: c.Z}
}

func (c ConfigSnapshot) euler() transform.EulerAngles {
	return transform.EulerAngles{Roll: c.Roll, Pitch: c.Pitch, Yaw: c.Yaw}
}

func (c ConfigSnapshot) quaternion() transform.Quaternion {
	return transform.Quaternion{X: c.QX, Y: c.QY, Z: c.QZ, W: c.QW}
}

// Merge returns c with the fields owned by kind taken from edited. Transform
// and unit fields of other categories keep their value from c, so an edit
// cannot leave them out of step with the state. ChangeAll owns none of them
// since it only mirrors the state. UseQuaternion is a client-side flag and
// always comes from edited.
func (c ConfigSnapshot) Merge(kind ChangeKind, edited ConfigSnapshot) ConfigSnapshot {
	c.UseQuaternion = edited.UseQuaternion
	switch kind {
	case ChangeTranslation:
		c.setTranslation(edited.translation())
	case ChangeEuler:
		c.setEuler(edited.euler())
	case ChangeQuaternion:
		c.setQuaternion(edited.quaternion())
	case ChangeUnits:
		c.AngleUnits = edited.AngleUnits
	}
	return c
}

func (c *ConfigSnapshot) setTranslation(v transform.Vector3) {
	c.X, c.Y, c.Z = v.X, v.Y, v.Z
}

func (c *ConfigSnapshot) setEuler(e transform.EulerAngles) {
	c.Roll, c.Pitch, c.Yaw = e.Roll, e.Pitch, e.Yaw
}

func (c *ConfigSnapshot) setQuaternion(q transform.Quaternion) {
	c.QX, c.QY, c.QZ, c.QW = q.X, q.Y, q.Z, q.W
}

// Bounds is the permitted editing range for roll, pitch and yaw.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// BoundsFor returns the roll/pitch/yaw range for units: ±pi or ±180.
func BoundsFor(units transform.AngleUnits) Bounds {
	if units == transform.Degrees {
		return Bounds{Min: -180.0, Max: 180.0}
	}
	return Bounds{Min: -math.Pi, Max: math.Pi}
}

// Level is the severity of a Diagnostic.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Diagnostic is a message for the caller to log. Diagnostics never abort an edit.
type Diagnostic struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Diagnostic messages.
const (
	MsgInitialized       = "reconfiguration initialized"
	MsgZeroQuaternion    = "zero-length quaternion rejected, keeping previous rotation"
	MsgQuaternionNotUnit = "non-normalized quaternion corrected"
	MsgUnitsUnchanged    = "angle units unchanged"
)

// Result is what one edit reports back to the configuration channel.
type Result struct {
	Kind   ChangeKind     `json:"kind"`
	Config ConfigSnapshot `json:"config"`
	// Bounds is set only when the angle units changed.
	Bounds      *Bounds      `json:"bounds,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

func (r *Result) warn(msg string) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Level: LevelWarning, Message: msg})
}

func (r *Result) info(msg string) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Level: LevelInfo, Message: msg})
}

// Apply computes one edit. tf and units are the current state, cfg is the
// configuration as sent by the channel and now is the edit time. It returns
// the new transform and units together with the snapshot to hand back.
// Fields of cfg that the kind does not own are passed through untouched.
func Apply(tf transform.Transform, units transform.AngleUnits, kind ChangeKind, cfg ConfigSnapshot, now time.Time) (transform.Transform, transform.AngleUnits, Result, error) {
	res := Result{Kind: kind, Config: cfg}

	switch kind {
	case ChangeAll:
		res.Config.setTranslation(tf.Translation)
		res.Config.setEuler(tf.Euler().In(units))
		res.Config.setQuaternion(tf.Rotation)
		res.Config.AngleUnits = units

	case ChangeTranslation:
		tf.Translation = cfg.translation()
		tf.Stamp = now

	case ChangeEuler:
		tf.Rotation = cfg.euler().FromUnits(units).Quaternion()
		tf.Stamp = now
		res.Config.setQuaternion(tf.Rotation)

	case ChangeQuaternion:
		q := cfg.quaternion()
		if q.IsZero() {
			q = tf.Rotation
			res.warn(MsgZeroQuaternion)
		} else if !q.IsNormalized() {
			q = q.Normalized()
			res.warn(MsgQuaternionNotUnit)
		}
		tf.Rotation = q
		tf.Stamp = now

		res.Config.setQuaternion(q)
		res.Config.setEuler(tf.Euler().In(units))
		res.Config.UseQuaternion = false

	case ChangeUnits:
		if cfg.AngleUnits == units {
			res.info(MsgUnitsUnchanged)
			break
		}
		units = cfg.AngleUnits
		bounds := BoundsFor(units)
		res.Bounds = &bounds
		res.Config.setEuler(tf.Euler().In(units))
		res.Config.AngleUnits = units

	default:
		return tf, units, Result{}, fmt.Errorf("%w: %d", ErrUnknownChangeKind, int(kind))
	}

	return tf, units, res, nil
}

// Engine applies edits to a shared transform.State. Edits are serialized by
// the state's lock and run to completion in arrival order.
type Engine struct {
	state       *transform.State
	initialized bool // guarded by the state lock
}

// NewEngine creates an engine editing state.
func NewEngine(state *transform.State) *Engine {
	return &Engine{state: state}
}

// Reconfigure applies one edit of the given kind.
// The only error is an unknown kind; invalid values surface as diagnostics.
func (e *Engine) Reconfigure(kind ChangeKind, cfg ConfigSnapshot) (Result, error) {
	var (
		res Result
		err error
	)
	e.state.Edit(func(tf *transform.Transform, units *transform.AngleUnits, now time.Time) {
		var (
			newTF    transform.Transform
			newUnits transform.AngleUnits
		)
		newTF, newUnits, res, err = Apply(*tf, *units, kind, cfg, now)
		if err != nil {
			return
		}
		*tf, *units = newTF, newUnits

		if kind == ChangeAll && !e.initialized {
			e.initialized = true
			res.info(MsgInitialized)
		}
	})
	return res, err
}

// Initialize mirrors the current transform into cfg without mutating it.
func (e *Engine) Initialize(cfg ConfigSnapshot) Result {
	res, _ := e.Reconfigure(ChangeAll, cfg)
	return res
}

// Bounds returns the roll/pitch/yaw range for the active units.
func (e *Engine) Bounds() Bounds {
	return BoundsFor(e.state.Units())
}

// State returns the state the engine edits.
func (e *Engine) State() *transform.State {
	return e.state
}
