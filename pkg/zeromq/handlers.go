package zeromq

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/open-teleop/tfpublisher/domain/reconfigure"
	customlog "github.com/open-teleop/tfpublisher/pkg/log"
	"github.com/open-teleop/tfpublisher/services"
)

// requestEnvelope is ZeroMQMessage with the payload left undecoded.
type requestEnvelope struct {
	Type      string          `json:"type"`
	Timestamp float64         `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// ReconfigureRequest is the payload of a RECONFIGURE_REQUEST. Either Kind or
// Level selects the edit; Config holds the fields to change and is merged
// over the current configuration.
type ReconfigureRequest struct {
	Kind   string          `json:"kind,omitempty"`
	Level  *uint32         `json:"level,omitempty"`
	Config json.RawMessage `json:"config,omitempty"`
}

// changeKind resolves the edit kind, preferring the name over the level bits.
func (r ReconfigureRequest) changeKind() (reconfigure.ChangeKind, error) {
	switch {
	case r.Kind != "":
		return reconfigure.ParseChangeKind(r.Kind)
	case r.Level != nil:
		return reconfigure.KindFromLevel(*r.Level)
	}
	return 0, errors.New("request needs a kind or a level")
}

func decodeRequest(data []byte, wantType string) (requestEnvelope, error) {
	var msg requestEnvelope
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if msg.Type != wantType {
		return msg, fmt.Errorf("%w: unexpected message type %s", ErrInvalidMessage, msg.Type)
	}
	return msg, nil
}

// ReconfigureHandler handles RECONFIGURE_REQUEST messages
type ReconfigureHandler struct {
	service services.ReconfigureService
	logger  customlog.Logger
}

// NewReconfigureHandler creates a new handler for edit requests
func NewReconfigureHandler(service services.ReconfigureService, logger customlog.Logger) *ReconfigureHandler {
	return &ReconfigureHandler{
		service: service,
		logger:  logger,
	}
}

// HandleMessage applies one edit and answers with RECONFIGURE_RESPONSE carrying the result
func (h *ReconfigureHandler) HandleMessage(data []byte) ([]byte, error) {
	msg, err := decodeRequest(data, MsgTypeReconfigureRequest)
	if err != nil {
		return nil, err
	}

	var req ReconfigureRequest
	if len(msg.Data) == 0 {
		return nil, fmt.Errorf("%w: missing data", ErrInvalidMessage)
	}
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	kind, err := req.changeKind()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}

	h.logger.Debugf("Processing %s reconfigure request", kind)
	res, err := h.service.Update(kind, func(cfg *reconfigure.ConfigSnapshot) error {
		if len(req.Config) == 0 {
			return nil
		}
		return json.Unmarshal(req.Config, cfg)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}

	return marshalEnvelope(MsgTypeReconfigureResponse, res)
}

// DescriptionHandler handles DESCRIPTION_REQUEST messages
type DescriptionHandler struct {
	service services.ReconfigureService
	logger  customlog.Logger
}

// NewDescriptionHandler creates a new handler for description requests
func NewDescriptionHandler(service services.ReconfigureService, logger customlog.Logger) *DescriptionHandler {
	return &DescriptionHandler{
		service: service,
		logger:  logger,
	}
}

// HandleMessage answers with the current configuration and its bounds
func (h *DescriptionHandler) HandleMessage(data []byte) ([]byte, error) {
	if _, err := decodeRequest(data, MsgTypeDescriptionRequest); err != nil {
		return nil, err
	}
	h.logger.Debugf("Processing description request")
	return marshalEnvelope(MsgTypeDescriptionResponse, h.service.Describe())
}
