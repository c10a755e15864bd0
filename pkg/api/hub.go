package api

import (
	"sync"

	"github.com/google/uuid"
	"github.com/open-teleop/tfpublisher/domain/transform"
	customlog "github.com/open-teleop/tfpublisher/pkg/log"
)

const subscriberBuffer = 8

// TransformHub fans published transforms out to websocket subscribers.
// Slow subscribers lose messages instead of stalling the publish loop.
type TransformHub struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]chan TransformMsg
	logger      customlog.Logger
}

// NewTransformHub creates an empty hub.
func NewTransformHub(logger customlog.Logger) *TransformHub {
	return &TransformHub{
		subscribers: make(map[uuid.UUID]chan TransformMsg),
		logger:      logger,
	}
}

// Subscribe registers a new subscriber.
func (h *TransformHub) Subscribe() (uuid.UUID, <-chan TransformMsg) {
	id := uuid.New()
	ch := make(chan TransformMsg, subscriberBuffer)

	h.mu.Lock()
	h.subscribers[id] = ch
	h.mu.Unlock()

	h.logger.Debugf("Transform subscriber %s added", id)
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *TransformHub) Unsubscribe(id uuid.UUID) {
	h.mu.Lock()
	ch, ok := h.subscribers[id]
	delete(h.subscribers, id)
	h.mu.Unlock()

	if ok {
		close(ch)
		h.logger.Debugf("Transform subscriber %s removed", id)
	}
}

// Count returns the number of subscribers.
func (h *TransformHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// PublishTransform delivers tf to every subscriber that has room for it.
func (h *TransformHub) PublishTransform(tf transform.Transform) error {
	msg := NewTransformMsg(tf)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.subscribers {
		select {
		case ch <- msg:
		default:
			h.logger.Debugf("Transform subscriber %s is behind, dropping message", id)
		}
	}
	return nil
}
