package api

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/open-teleop/tfpublisher/domain/diagnostic"
	"github.com/open-teleop/tfpublisher/domain/reconfigure"
	"github.com/open-teleop/tfpublisher/domain/transform"
	customlog "github.com/open-teleop/tfpublisher/pkg/log"
	"github.com/open-teleop/tfpublisher/pkg/timeutil"
	"github.com/open-teleop/tfpublisher/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 4, 6, 17, 30, 0, 0, time.UTC)

func newTestApp(t *testing.T) (*fiber.App, services.ReconfigureService, *diagnostic.PublishStats) {
	t.Helper()
	logger := customlog.NewNopLogger()
	clock := timeutil.NewMockClock(epoch)

	state, err := transform.NewState(
		transform.NewTransformFromEuler(0.5, 0, 1, math.Pi/2, 0, 0, epoch, "base_link", "laser"), clock)
	require.NoError(t, err)

	stats := diagnostic.NewPublishStats(clock)
	reconf, err := services.NewReconfigureService(reconfigure.NewEngine(state), stats, logger)
	require.NoError(t, err)
	reconf.Initialize()

	app := fiber.New()
	RegisterReconfigureRoutes(app, reconf, stats, logger)
	RegisterStreamRoutes(app, NewTransformHub(logger), logger)
	return app, reconf, stats
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func TestHealth(t *testing.T) {
	app, _, _ := newTestApp(t)
	status, body := doRequest(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"healthy"}`, string(body))
}

func TestGetTransform(t *testing.T) {
	app, _, _ := newTestApp(t)
	status, body := doRequest(t, app, http.MethodGet, "/api/v1/transform", "")
	require.Equal(t, http.StatusOK, status)

	var msg TransformMsg
	require.NoError(t, json.Unmarshal(body, &msg))
	assert.Equal(t, "base_link", msg.FrameID)
	assert.Equal(t, "laser", msg.ChildFrameID)
	assert.Equal(t, transform.Vector3{X: 0.5, Z: 1}, msg.Translation)
	assert.InDelta(t, math.Pi/2, msg.RPY.Yaw, 1e-12)
}

func TestDescribe(t *testing.T) {
	app, reconf, _ := newTestApp(t)
	status, body := doRequest(t, app, http.MethodGet, "/api/v1/reconfigure", "")
	require.Equal(t, http.StatusOK, status)

	var desc services.Description
	require.NoError(t, json.Unmarshal(body, &desc))
	assert.Equal(t, reconf.Describe(), desc)
}

func TestReconfigureEuler(t *testing.T) {
	app, reconf, stats := newTestApp(t)

	status, body := doRequest(t, app, http.MethodPut, "/api/v1/reconfigure/rpy", `{"yaw": 0, "roll": 1.0}`)
	require.Equal(t, http.StatusOK, status, string(body))

	var res reconfigure.Result
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, reconfigure.ChangeEuler, res.Kind)
	assert.Equal(t, 0.5, res.Config.X, "translation stays as mirrored")

	roll, _, yaw := reconf.Transform().Rotation.RPY()
	assert.InDelta(t, 1.0, roll, 1e-12)
	assert.InDelta(t, 0.0, yaw, 1e-12)
	assert.Equal(t, int64(1), stats.GetMetrics().EditsByKind["rpy"])
}

func TestReconfigureUnitsThenEulerInDegrees(t *testing.T) {
	app, reconf, _ := newTestApp(t)

	status, body := doRequest(t, app, http.MethodPut, "/api/v1/reconfigure/units", `{"angle_units": "degrees"}`)
	require.Equal(t, http.StatusOK, status, string(body))
	var res reconfigure.Result
	require.NoError(t, json.Unmarshal(body, &res))
	require.NotNil(t, res.Bounds)
	assert.Equal(t, reconfigure.Bounds{Min: -180, Max: 180}, *res.Bounds)
	assert.InDelta(t, 90, res.Config.Yaw, 1e-9)

	status, _ = doRequest(t, app, http.MethodPut, "/api/v1/reconfigure/rpy", `{"yaw": 45}`)
	require.Equal(t, http.StatusOK, status)
	_, _, yaw := reconf.Transform().Rotation.RPY()
	assert.InDelta(t, math.Pi/4, yaw, 1e-12)
}

func TestReconfigureZeroQuaternion(t *testing.T) {
	app, reconf, stats := newTestApp(t)
	before := reconf.Transform().Rotation

	status, body := doRequest(t, app, http.MethodPut, "/api/v1/reconfigure/quat",
		`{"qx": 0, "qy": 0, "qz": 0, "qw": 0, "use_quaternion": true}`)
	require.Equal(t, http.StatusOK, status)

	var res reconfigure.Result
	require.NoError(t, json.Unmarshal(body, &res))
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, reconfigure.LevelWarning, res.Diagnostics[0].Level)
	assert.False(t, res.Config.UseQuaternion)
	assert.Equal(t, before, reconf.Transform().Rotation)
	assert.Equal(t, int64(1), stats.GetMetrics().WarningCount)
}

func TestReconfigureErrors(t *testing.T) {
	app, _, _ := newTestApp(t)

	status, body := doRequest(t, app, http.MethodPut, "/api/v1/reconfigure/scale", `{}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, string(body), "unknown change kind")

	status, body = doRequest(t, app, http.MethodPut, "/api/v1/reconfigure/xyz", `{"x": "far"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "Reconfigure failed")
}

func TestDiagnosticsRoute(t *testing.T) {
	app, _, _ := newTestApp(t)
	status, body := doRequest(t, app, http.MethodGet, "/api/v1/diagnostics", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"edits_by_kind":{"all":1}`)
}

func TestStreamRequiresUpgrade(t *testing.T) {
	app, _, _ := newTestApp(t)
	status, _ := doRequest(t, app, http.MethodGet, "/ws/transform", "")
	assert.Equal(t, fiber.StatusUpgradeRequired, status)
}
