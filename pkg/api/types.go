package api

import (
	"time"

	"github.com/open-teleop/tfpublisher/domain/transform"
)

// --- Data Structures for API and WebSocket Messages ---

// TransformMsg is the JSON form of a stamped transform, matching geometry_msgs/TransformStamped.
type TransformMsg struct {
	FrameID      string               `json:"frame_id"`
	ChildFrameID string               `json:"child_frame_id"`
	Stamp        time.Time            `json:"stamp"`
	Translation  transform.Vector3    `json:"translation"`
	Rotation     transform.Quaternion `json:"rotation"`
	// Euler angles in radians, for display
	RPY transform.EulerAngles `json:"rpy"`
}

// NewTransformMsg converts tf to its JSON form.
func NewTransformMsg(tf transform.Transform) TransformMsg {
	return TransformMsg{
		FrameID:      tf.FrameID,
		ChildFrameID: tf.ChildFrameID,
		Stamp:        tf.Stamp,
		Translation:  tf.Translation,
		Rotation:     tf.Rotation,
		RPY:          tf.Euler(),
	}
}
