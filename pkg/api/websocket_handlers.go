package api

import (
	"errors"
	"syscall"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	customlog "github.com/open-teleop/tfpublisher/pkg/log"
)

// RegisterStreamRoutes registers the websocket stream of published transforms.
func RegisterStreamRoutes(app *fiber.App, hub *TransformHub, logger customlog.Logger) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/transform", websocket.New(func(conn *websocket.Conn) {
		TransformStreamHandler(conn, hub, logger)
	}))
	logger.Infof("Registered transform stream under /ws/transform")
}

// TransformStreamHandler writes every published transform to conn as JSON
// until the client goes away.
func TransformStreamHandler(conn *websocket.Conn, hub *TransformHub, logger customlog.Logger) {
	id, updates := hub.Subscribe()
	defer hub.Unsubscribe(id)
	logger.Infof("Transform stream connected: %s (%s)", conn.RemoteAddr(), id)

	// The client never sends anything useful; reading detects the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logStreamClose(logger, err)
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			logger.Infof("Transform stream disconnected: %s", conn.RemoteAddr())
			return
		case msg, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				logger.Warnf("Transform stream write error: %v", err)
				return
			}
		}
	}
}

func logStreamClose(logger customlog.Logger, err error) {
	if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
		logger.Errorf("Transform stream read error: %v", err)
		return
	}
	// Don't log normal closures as errors
	if errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET) {
		logger.Infof("Transform stream connection reset")
		return
	}
	logger.Debugf("Transform stream closed: %v", err)
}
