package zeromq

import (
	"fmt"
	"time"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/open-teleop/tfpublisher/domain/transform"
	tfmsg "github.com/open-teleop/tfpublisher/pkg/flatbuffers/open_teleop/tf"
)

// minTransformSize is the root offset plus the smallest possible vtable.
const minTransformSize = 8

// EncodeTransform serializes tf as a TransformStamped flatbuffer.
func EncodeTransform(tf transform.Transform) []byte {
	builder := flatbuffers.NewBuilder(256)

	frameOffset := builder.CreateString(tf.FrameID)
	childOffset := builder.CreateString(tf.ChildFrameID)

	tfmsg.TransformStampedStart(builder)
	tfmsg.TransformStampedAddStampNs(builder, tf.Stamp.UnixNano())
	tfmsg.TransformStampedAddFrameId(builder, frameOffset)
	tfmsg.TransformStampedAddChildFrameId(builder, childOffset)
	v := tf.Translation
	tfmsg.TransformStampedAddTranslation(builder, tfmsg.CreateVector3(builder, v.X, v.Y, v.Z))
	q := tf.Rotation
	tfmsg.TransformStampedAddRotation(builder, tfmsg.CreateQuaternion(builder, q.X, q.Y, q.Z, q.W))
	root := tfmsg.TransformStampedEnd(builder)

	builder.Finish(root)
	return builder.FinishedBytes()
}

// DecodeTransform parses a TransformStamped flatbuffer. The flatbuffers
// runtime panics on out-of-range offsets, so a truncated buffer is reported
// as an error instead.
func DecodeTransform(buf []byte) (tf transform.Transform, err error) {
	if len(buf) < minTransformSize {
		return tf, fmt.Errorf("%w: transform buffer too short (%d bytes)", ErrInvalidMessage, len(buf))
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: malformed transform buffer: %v", ErrInvalidMessage, r)
		}
	}()

	msg := tfmsg.GetRootAsTransformStamped(buf, 0)
	tf.FrameID = string(msg.FrameId())
	tf.ChildFrameID = string(msg.ChildFrameId())
	tf.Stamp = time.Unix(0, msg.StampNs()).UTC()

	if v := msg.Translation(nil); v != nil {
		tf.Translation = transform.Vector3{X: v.X(), Y: v.Y(), Z: v.Z()}
	}
	if q := msg.Rotation(nil); q != nil {
		tf.Rotation = transform.Quaternion{X: q.X(), Y: q.Y(), Z: q.Z(), W: q.W()}
	}
	return tf, nil
}
