package zeromq

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/open-teleop/tfpublisher/pkg/config"
	customlog "github.com/open-teleop/tfpublisher/pkg/log"
	"github.com/pebbe/zmq4"
)

// Common errors
var (
	ErrServiceClosed      = errors.New("zeromq service is closed")
	ErrInvalidMessage     = errors.New("invalid message format")
	ErrUnknownMessageType = errors.New("unknown message type")
)

// Message types
const (
	MsgTypeReconfigureRequest  = "RECONFIGURE_REQUEST"
	MsgTypeReconfigureResponse = "RECONFIGURE_RESPONSE"
	MsgTypeDescriptionRequest  = "DESCRIPTION_REQUEST"
	MsgTypeDescriptionResponse = "DESCRIPTION_RESPONSE"
	MsgTypeParameterUpdate     = "PARAMETER_UPDATE"
	MsgTypeError               = "ERROR"
)

// ZeroMQMessage represents a generic message structure for ZeroMQ communication
type ZeroMQMessage struct {
	Type      string      `json:"type"`
	Timestamp float64     `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// ErrorResponse represents an error response message
type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// MessageHandler defines the interface for handlers that process specific message types
type MessageHandler interface {
	HandleMessage(data []byte) ([]byte, error)
}

// HandlerFunc is a function type that implements MessageHandler
type HandlerFunc func(data []byte) ([]byte, error)

// HandleMessage calls the function
func (f HandlerFunc) HandleMessage(data []byte) ([]byte, error) {
	return f(data)
}

func nowSeconds() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

// errorReply builds the ERROR envelope sent back for a failed request.
// Malformed and unknown requests get 400, everything else 500.
func errorReply(err error) []byte {
	code := 500
	if errors.Is(err, ErrInvalidMessage) || errors.Is(err, ErrUnknownMessageType) {
		code = 400
	}
	data, _ := json.Marshal(ZeroMQMessage{
		Type:      MsgTypeError,
		Timestamp: nowSeconds(),
		Data:      ErrorResponse{Message: err.Error(), Code: code},
	})
	return data
}

// MessageReceiver handles receiving messages from a ZeroMQ socket
type MessageReceiver struct {
	socket       *zmq4.Socket
	dispatcher   *MessageDispatcher
	poller       *zmq4.Poller
	pollInterval time.Duration
	logger       customlog.Logger
	running      atomic.Bool
	wg           *sync.WaitGroup
}

// newMessageReceiver creates a REP socket bound to the request address
func newMessageReceiver(ctx *zmq4.Context, cfg config.ZeroMQBootstrap, dispatcher *MessageDispatcher, logger customlog.Logger, wg *sync.WaitGroup) (*MessageReceiver, error) {
	socket, err := ctx.NewSocket(zmq4.REP)
	if err != nil {
		return nil, fmt.Errorf("failed to create REP socket: %w", err)
	}

	if err := socket.Bind(cfg.RequestBindAddress); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to bind to %s: %w", cfg.RequestBindAddress, err)
	}

	if err := socket.SetLinger(0); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to set linger option: %w", err)
	}

	// Timeouts keep shutdown from blocking on a half-finished exchange
	socketTimeout := time.Duration(cfg.SocketTimeoutMs) * time.Millisecond
	if err := socket.SetRcvtimeo(socketTimeout); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to set receive timeout: %w", err)
	}
	if err := socket.SetSndtimeo(socketTimeout); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to set send timeout: %w", err)
	}

	poller := zmq4.NewPoller()
	poller.Add(socket, zmq4.POLLIN)

	pollInterval := time.Duration(cfg.PollIntervalMs) * time.Millisecond
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}

	logger.Infof("MessageReceiver initialized on %s", cfg.RequestBindAddress)

	return &MessageReceiver{
		socket:       socket,
		dispatcher:   dispatcher,
		poller:       poller,
		pollInterval: pollInterval,
		logger:       logger,
		wg:           wg,
	}, nil
}

// Start begins the message receiving loop
func (r *MessageReceiver) Start() {
	if !r.running.CompareAndSwap(false, true) {
		return
	}
	r.wg.Add(1)

	go func() {
		defer r.wg.Done()
		defer r.socket.Close()
		r.logger.Infof("MessageReceiver started")

		for r.running.Load() {
			// Poll with timeout so Stop is noticed
			sockets, err := r.poller.Poll(r.pollInterval)
			if err != nil {
				if r.running.Load() {
					r.logger.Errorf("Error polling socket: %v", err)
				}
				continue
			}
			if len(sockets) == 0 {
				continue
			}

			msg, err := r.socket.RecvBytes(0)
			if err != nil {
				if r.running.Load() {
					r.logger.Errorf("Error receiving message: %v", err)
				}
				continue
			}
			r.logger.Debugf("Received message (%d bytes)", len(msg))

			response, err := r.dispatcher.Dispatch(msg)
			if err != nil {
				r.logger.Warnf("Error dispatching message: %v", err)
				response = errorReply(err)
			}

			// REP must answer every request before it can receive again
			if _, err := r.socket.SendBytes(response, 0); err != nil && r.running.Load() {
				r.logger.Errorf("Error sending response: %v", err)
			}
		}
		r.logger.Infof("MessageReceiver stopped")
	}()
}

// Stop halts the message receiving loop. The socket is closed by the loop
// goroutine since zmq sockets are not safe for concurrent use.
func (r *MessageReceiver) Stop() {
	r.running.Store(false)
}

// MessageSender handles sending messages to ZeroMQ sockets
type MessageSender struct {
	socket  *zmq4.Socket
	logger  customlog.Logger
	running bool
	mu      sync.Mutex
}

// newMessageSender creates a PUB socket bound to the publish address
func newMessageSender(ctx *zmq4.Context, cfg config.ZeroMQBootstrap, logger customlog.Logger) (*MessageSender, error) {
	socket, err := ctx.NewSocket(zmq4.PUB)
	if err != nil {
		return nil, fmt.Errorf("failed to create PUB socket: %w", err)
	}

	if err := socket.Bind(cfg.PublishBindAddress); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to bind to %s: %w", cfg.PublishBindAddress, err)
	}

	if err := socket.SetLinger(0); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to set linger option: %w", err)
	}

	logger.Infof("MessageSender initialized on %s", cfg.PublishBindAddress)

	return &MessageSender{
		socket:  socket,
		logger:  logger,
		running: true,
	}, nil
}

// PublishMessage sends a message with the given topic
func (s *MessageSender) PublishMessage(topic string, message []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrServiceClosed
	}

	// Topic frame first so subscribers can filter on it
	if _, err := s.socket.Send(topic, zmq4.SNDMORE); err != nil {
		return fmt.Errorf("failed to send topic: %w", err)
	}
	if _, err := s.socket.SendBytes(message, 0); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// Close cleans up resources
func (s *MessageSender) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running = false
	if s.socket != nil {
		s.socket.Close()
		s.socket = nil
	}
}

// MessageDispatcher routes messages to the appropriate handlers
type MessageDispatcher struct {
	handlers map[string]MessageHandler
	logger   customlog.Logger
	mu       sync.RWMutex
}

// NewMessageDispatcher creates a new message dispatcher
func NewMessageDispatcher(logger customlog.Logger) *MessageDispatcher {
	return &MessageDispatcher{
		handlers: make(map[string]MessageHandler),
		logger:   logger,
	}
}

// RegisterHandler adds a handler for a specific message type
func (d *MessageDispatcher) RegisterHandler(messageType string, handler MessageHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[messageType] = handler
	d.logger.Debugf("Registered handler for message type: %s", messageType)
}

// Dispatch parses the JSON envelope and routes it by type
func (d *MessageDispatcher) Dispatch(data []byte) ([]byte, error) {
	var msg ZeroMQMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrInvalidMessage)
	}

	d.logger.Debugf("Dispatching message of type: %s", msg.Type)
	d.mu.RLock()
	handler, exists := d.handlers[msg.Type]
	d.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMessageType, msg.Type)
	}
	return handler.HandleMessage(data)
}

// ZeroMQService coordinates the request and publish sockets
type ZeroMQService struct {
	config     config.ZeroMQBootstrap
	ctx        *zmq4.Context
	receiver   *MessageReceiver
	sender     *MessageSender
	dispatcher *MessageDispatcher
	logger     customlog.Logger
	running    atomic.Bool
	wg         sync.WaitGroup
}

// NewZeroMQService creates and binds both sockets
func NewZeroMQService(cfg config.ZeroMQBootstrap, logger customlog.Logger) (*ZeroMQService, error) {
	ctx, err := zmq4.NewContext()
	if err != nil {
		return nil, fmt.Errorf("failed to create ZMQ context: %w", err)
	}

	s := &ZeroMQService{
		config:     cfg,
		ctx:        ctx,
		dispatcher: NewMessageDispatcher(logger),
		logger:     logger,
	}

	s.receiver, err = newMessageReceiver(ctx, cfg, s.dispatcher, logger, &s.wg)
	if err != nil {
		ctx.Term()
		return nil, err
	}

	s.sender, err = newMessageSender(ctx, cfg, logger)
	if err != nil {
		s.receiver.socket.Close()
		ctx.Term()
		return nil, err
	}

	return s, nil
}

// Config returns the settings the service was created with.
func (s *ZeroMQService) Config() config.ZeroMQBootstrap {
	return s.config
}

// RegisterHandler adds a handler for a specific message type
func (s *ZeroMQService) RegisterHandler(messageType string, handler MessageHandler) {
	s.dispatcher.RegisterHandler(messageType, handler)
}

// RegisterHandlerFunc adds a handler function for a specific message type
func (s *ZeroMQService) RegisterHandlerFunc(messageType string, handler func([]byte) ([]byte, error)) {
	s.dispatcher.RegisterHandler(messageType, HandlerFunc(handler))
}

// Start begins the ZeroMQ service
func (s *ZeroMQService) Start() error {
	if !s.running.CompareAndSwap(false, true) {
		return nil
	}
	s.logger.Infof("Starting ZeroMQ service")
	s.receiver.Start()
	return nil
}

// Stop halts the ZeroMQ service
func (s *ZeroMQService) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}

	s.logger.Infof("Stopping ZeroMQ service")
	s.receiver.Stop()
	s.sender.Close()

	s.logger.Debugf("Waiting for receiver goroutine to finish...")
	s.wg.Wait()

	if s.ctx != nil {
		s.ctx.Term()
		s.ctx = nil
	}
	s.logger.Infof("ZeroMQ service stopped")
}

// PublishMessage sends a message with the given topic
func (s *ZeroMQService) PublishMessage(topic string, message []byte) error {
	if !s.running.Load() {
		return ErrServiceClosed
	}
	return s.sender.PublishMessage(topic, message)
}

// PublishJSON publishes a JSON-serializable message with the given topic
func (s *ZeroMQService) PublishJSON(topic string, messageType string, data interface{}) error {
	msgData, err := marshalEnvelope(messageType, data)
	if err != nil {
		return err
	}
	return s.PublishMessage(topic, msgData)
}

func marshalEnvelope(messageType string, data interface{}) ([]byte, error) {
	msgData, err := json.Marshal(ZeroMQMessage{
		Type:      messageType,
		Timestamp: nowSeconds(),
		Data:      data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}
	return msgData, nil
}
