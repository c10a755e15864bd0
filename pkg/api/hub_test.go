package api

import (
	"testing"

	"github.com/open-teleop/tfpublisher/domain/transform"
	customlog "github.com/open-teleop/tfpublisher/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDelivers(t *testing.T) {
	hub := NewTransformHub(customlog.NewNopLogger())
	idA, a := hub.Subscribe()
	_, b := hub.Subscribe()
	assert.Equal(t, 2, hub.Count())

	tf := transform.NewTransformFromEuler(1, 2, 3, 0, 0, 0, epoch, "map", "odom")
	require.NoError(t, hub.PublishTransform(tf))

	assert.Equal(t, NewTransformMsg(tf), <-a)
	assert.Equal(t, NewTransformMsg(tf), <-b)

	hub.Unsubscribe(idA)
	_, open := <-a
	assert.False(t, open, "unsubscribe closes the channel")
	assert.Equal(t, 1, hub.Count())

	// Unknown ids are ignored.
	hub.Unsubscribe(idA)
}

func TestHubDropsForSlowSubscriber(t *testing.T) {
	hub := NewTransformHub(customlog.NewNopLogger())
	_, ch := hub.Subscribe()

	tf := transform.NewTransformFromEuler(0, 0, 0, 0, 0, 0, epoch, "map", "odom")
	for i := 0; i < subscriberBuffer+5; i++ {
		require.NoError(t, hub.PublishTransform(tf))
	}
	assert.Len(t, ch, subscriberBuffer)
}
