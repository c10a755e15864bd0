package zeromq

import (
	"github.com/open-teleop/tfpublisher/domain/reconfigure"
	"github.com/open-teleop/tfpublisher/domain/transform"
	customlog "github.com/open-teleop/tfpublisher/pkg/log"
	"github.com/open-teleop/tfpublisher/services"
)

// TransformPublisher puts published transforms and applied edits on the PUB socket
type TransformPublisher struct {
	service        *ZeroMQService
	transformTopic string
	updatesTopic   string
	logger         customlog.Logger
}

// NewTransformPublisher creates a publisher using the topics from the service config
func NewTransformPublisher(service *ZeroMQService, logger customlog.Logger) *TransformPublisher {
	cfg := service.Config()
	return &TransformPublisher{
		service:        service,
		transformTopic: cfg.TransformTopic,
		updatesTopic:   cfg.UpdatesTopic,
		logger:         logger,
	}
}

// PublishTransform sends tf as a flatbuffer on the transform topic
func (p *TransformPublisher) PublishTransform(tf transform.Transform) error {
	return p.service.PublishMessage(p.transformTopic, EncodeTransform(tf))
}

// PublishConfigUpdate sends the result of an applied edit on the updates topic
func (p *TransformPublisher) PublishConfigUpdate(res reconfigure.Result) error {
	p.logger.Debugf("Publishing %s configuration update on %s", res.Kind, p.updatesTopic)
	return p.service.PublishJSON(p.updatesTopic, MsgTypeParameterUpdate, res)
}

// RegisterReconfigureHandlers registers the request handlers and wires the
// publisher into the reconfigure service
func RegisterReconfigureHandlers(service *ZeroMQService, reconf services.ReconfigureService, logger customlog.Logger) *TransformPublisher {
	service.RegisterHandler(MsgTypeReconfigureRequest, NewReconfigureHandler(reconf, logger))
	service.RegisterHandler(MsgTypeDescriptionRequest, NewDescriptionHandler(reconf, logger))

	publisher := NewTransformPublisher(service, logger)
	reconf.SetPublisher(publisher)

	logger.Infof("Registered reconfigure handlers and transform publisher")
	return publisher
}
