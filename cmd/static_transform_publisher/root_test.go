package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/open-teleop/tfpublisher/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "static_transform_publisher", cmd.Name())
	assert.Equal(t, config.Usage, cmd.Long)
}

func TestRootFlags(t *testing.T) {
	cmd := NewRootCommand()

	configFlag := cmd.Flags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)
	assert.Equal(t, "", configFlag.DefValue)

	require.NotNil(t, cmd.Flags().Lookup("log-level"))
	require.NotNil(t, cmd.Flags().Lookup("log-dir"))
}

func TestPositionalArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "negative first coordinate",
			in:   []string{"-1", "0", "0", "0", "0", "0", "map", "odom", "100"},
			want: []string{"--", "-1", "0", "0", "0", "0", "0", "map", "odom", "100"},
		},
		{
			name: "flags before transform",
			in:   []string{"--log-level", "debug", "-c", "pub.yaml", "0", "-2.5", "0", "0", "0", "0", "map", "odom", "100"},
			want: []string{"--log-level", "debug", "-c", "pub.yaml", "--", "0", "-2.5", "0", "0", "0", "0", "map", "odom", "100"},
		},
		{
			name: "already separated",
			in:   []string{"--", "-1", "0"},
			want: []string{"--", "-1", "0"},
		},
		{
			name: "flags only",
			in:   []string{"--help"},
			want: []string{"--help"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, positionalArgs(tt.in))
		})
	}
}

func TestRunReceivesParsedArgs(t *testing.T) {
	var (
		gotOpts   *RootOptions
		gotParams *config.StartupParams
	)
	cmd := newRootCommand(func(ctx context.Context, opts *RootOptions, params *config.StartupParams) error {
		gotOpts, gotParams = opts, params
		return nil
	})
	cmd.SetArgs(positionalArgs([]string{"--log-level", "debug", "-1", "2", "3", "0", "0", "0", "1", "world", "robot", "50"}))
	require.NoError(t, cmd.Execute())

	require.NotNil(t, gotParams)
	assert.Equal(t, "debug", gotOpts.LogLevel)
	assert.Equal(t, config.QuaternionForm, gotParams.Form)
	assert.Equal(t, -1.0, gotParams.Translation.X)
	assert.Equal(t, "world", gotParams.FrameID)
	assert.Equal(t, "robot", gotParams.ChildFrameID)
	assert.Equal(t, 50.0, gotParams.PeriodMs)
}

func TestWrongArgCountPrintsUsage(t *testing.T) {
	called := false
	cmd := newRootCommand(func(context.Context, *RootOptions, *config.StartupParams) error {
		called = true
		return nil
	})
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	cmd.SetOut(&stderr)
	cmd.SetArgs([]string{"0", "0", "0", "map", "odom"})

	err := cmd.Execute()
	assert.ErrorIs(t, err, config.ErrArgCount)
	assert.False(t, called)
	assert.Contains(t, stderr.String(), "static_transform_publisher x y z qx qy qz qw frame_id child_frame_id period_in_ms")
}

func TestSameFramesRejected(t *testing.T) {
	cmd := newRootCommand(func(context.Context, *RootOptions, *config.StartupParams) error {
		t.Fatal("run must not be called")
		return nil
	})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"0", "0", "0", "0", "0", "0", "map", "map", "100"})
	assert.ErrorIs(t, cmd.Execute(), config.ErrSameFrames)
}

func TestCustomErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: customErrorHandler})
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/teapot", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
}
