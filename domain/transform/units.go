package transform

import (
	"fmt"
	"math"
	"strings"
)

// AngleUnits selects how roll, pitch and yaw are read and displayed.
// The stored quaternion never depends on it.
type AngleUnits int

const (
	Radians AngleUnits = iota
	Degrees
)

// String implements fmt.Stringer.
func (u AngleUnits) String() string {
	switch u {
	case Radians:
		return "radians"
	case Degrees:
		return "degrees"
	default:
		return fmt.Sprintf("AngleUnits(%d)", int(u))
	}
}

// ParseAngleUnits accepts "radians"/"degrees" (any case, "rad"/"deg" too)
// and the numeric forms "0"/"1".
func ParseAngleUnits(s string) (AngleUnits, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "radians", "rad", "0":
		return Radians, nil
	case "degrees", "deg", "1":
		return Degrees, nil
	}
	return Radians, fmt.Errorf("invalid angle units %q: must be radians or degrees", s)
}

// MarshalText implements encoding.TextMarshaler.
func (u AngleUnits) MarshalText() ([]byte, error) {
	if u != Radians && u != Degrees {
		return nil, fmt.Errorf("invalid angle units %d", int(u))
	}
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *AngleUnits) UnmarshalText(text []byte) error {
	parsed, err := ParseAngleUnits(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// EulerAngles holds roll, pitch and yaw in whatever unit the caller tracks.
type EulerAngles struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// ToDegrees converts radians to degrees.
func (e EulerAngles) ToDegrees() EulerAngles {
	return EulerAngles{
		Roll:  e.Roll * 180.0 / math.Pi,
		Pitch: e.Pitch * 180.0 / math.Pi,
		Yaw:   e.Yaw * 180.0 / math.Pi,
	}
}

// ToRadians converts degrees to radians.
func (e EulerAngles) ToRadians() EulerAngles {
	return EulerAngles{
		Roll:  e.Roll / 180.0 * math.Pi,
		Pitch: e.Pitch / 180.0 * math.Pi,
		Yaw:   e.Yaw / 180.0 * math.Pi,
	}
}

// In converts angles given in radians to units.
func (e EulerAngles) In(units AngleUnits) EulerAngles {
	if units == Degrees {
		return e.ToDegrees()
	}
	return e
}

// FromUnits converts angles given in units to radians.
func (e EulerAngles) FromUnits(units AngleUnits) EulerAngles {
	if units == Degrees {
		return e.ToRadians()
	}
	return e
}

// Quaternion composes the angles, which must be in radians.
func (e EulerAngles) Quaternion() Quaternion {
	return QuaternionFromRPY(e.Roll, e.Pitch, e.Yaw)
}
