package diagnostic

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/open-teleop/tfpublisher/domain/reconfigure"
	"github.com/open-teleop/tfpublisher/domain/transform"
	"github.com/open-teleop/tfpublisher/pkg/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 4, 6, 17, 30, 0, 0, time.UTC)

func TestPublishStatsCounts(t *testing.T) {
	clock := timeutil.NewMockClock(epoch)
	stats := NewPublishStats(clock)

	tf := transform.NewTransformFromEuler(0, 0, 0, 0, 0, 0, epoch.Add(time.Second), "map", "odom")
	clock.Advance(500 * time.Millisecond)
	require.NoError(t, stats.PublishTransform(tf))
	require.NoError(t, stats.PublishTransform(tf))

	stats.RecordEdit(reconfigure.Result{Kind: reconfigure.ChangeAll})
	stats.RecordEdit(reconfigure.Result{
		Kind: reconfigure.ChangeQuaternion,
		Diagnostics: []reconfigure.Diagnostic{
			{Level: reconfigure.LevelWarning, Message: reconfigure.MsgQuaternionNotUnit},
		},
	})

	m := stats.GetMetrics()
	assert.Equal(t, int64(2), m.PublishCount)
	assert.Equal(t, epoch.Add(500*time.Millisecond), m.LastPublish)
	assert.Equal(t, epoch.Add(time.Second), m.LastStamp)
	assert.Equal(t, "map", m.FrameID)
	assert.Equal(t, "odom", m.ChildFrameID)
	assert.Equal(t, map[string]int64{"all": 1, "quat": 1}, m.EditsByKind)
	assert.Equal(t, int64(1), m.WarningCount)
	require.Len(t, m.LastDiagnostics, 1)
	assert.Equal(t, reconfigure.MsgQuaternionNotUnit, m.LastDiagnostics[0].Message)

	// The copy is detached from the live counters.
	m.EditsByKind["all"] = 100
	assert.Equal(t, int64(1), stats.GetMetrics().EditsByKind["all"])
}

func TestGetMetricsHandler(t *testing.T) {
	stats := NewPublishStats(timeutil.NewMockClock(epoch))
	stats.RecordEdit(reconfigure.Result{Kind: reconfigure.ChangeTranslation})

	app := fiber.New()
	app.Get("/api/v1/diagnostics", stats.GetMetricsHandler)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/diagnostics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload struct {
		Status  string         `json:"status"`
		Metrics PublishMetrics `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "success", payload.Status)
	assert.Equal(t, int64(1), payload.Metrics.EditsByKind["xyz"])
	assert.Equal(t, int64(0), payload.Metrics.PublishCount)
}
