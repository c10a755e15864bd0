package services

import (
	"fmt"
	"sync"

	"github.com/open-teleop/tfpublisher/domain/reconfigure"
	"github.com/open-teleop/tfpublisher/domain/transform"
	customlog "github.com/open-teleop/tfpublisher/pkg/log"
)

// UpdatePublisher announces applied edits to remote configuration clients.
// This avoids a direct dependency on the ZeroMQ transport.
type UpdatePublisher interface {
	PublishConfigUpdate(res reconfigure.Result) error
}

// EditRecorder receives the result of every applied edit.
type EditRecorder interface {
	RecordEdit(res reconfigure.Result)
}

// Description is the current configuration together with its editing limits.
type Description struct {
	Config reconfigure.ConfigSnapshot `json:"config"`
	Bounds reconfigure.Bounds         `json:"bounds"`
}

// ReconfigureService is the configuration channel's view of the publisher.
type ReconfigureService interface {
	// Initialize mirrors the startup transform into the configuration. Later calls are no-ops.
	Initialize() reconfigure.Result
	// Update copies the current configuration, lets patch modify it and applies
	// the result as an edit of the given kind. Fields outside the kind's
	// category are ignored.
	Update(kind reconfigure.ChangeKind, patch func(cfg *reconfigure.ConfigSnapshot) error) (reconfigure.Result, error)
	Describe() Description
	Transform() transform.Transform
	SetPublisher(p UpdatePublisher)
}

type reconfigureService struct {
	engine   *reconfigure.Engine
	logger   customlog.Logger
	recorder EditRecorder

	mu          sync.Mutex
	mirror      reconfigure.ConfigSnapshot
	initialized bool
	publisher   UpdatePublisher
}

// NewReconfigureService creates the service around engine. recorder may be nil.
// Publisher can be set later via SetPublisher.
func NewReconfigureService(engine *reconfigure.Engine, recorder EditRecorder, logger customlog.Logger) (ReconfigureService, error) {
	if engine == nil {
		return nil, fmt.Errorf("reconfigure engine cannot be nil")
	}
	if logger == nil {
		logger = customlog.NewNopLogger()
	}
	return &reconfigureService{
		engine:   engine,
		logger:   logger,
		recorder: recorder,
	}, nil
}

func (s *reconfigureService) Initialize() reconfigure.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return reconfigure.Result{Kind: reconfigure.ChangeAll, Config: s.mirror}
	}
	res := s.engine.Initialize(s.mirror)
	s.initialized = true
	s.commitLocked(res)
	return res
}

func (s *reconfigureService) Update(kind reconfigure.ChangeKind, patch func(cfg *reconfigure.ConfigSnapshot) error) (reconfigure.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	edited := s.mirror
	if patch != nil {
		if err := patch(&edited); err != nil {
			return reconfigure.Result{}, fmt.Errorf("invalid %s configuration: %w", kind, err)
		}
	}
	// Only the fields of the edited category are taken from the patch.
	cfg := s.mirror.Merge(kind, edited)

	res, err := s.engine.Reconfigure(kind, cfg)
	if err != nil {
		return reconfigure.Result{}, err
	}
	if kind == reconfigure.ChangeAll {
		s.initialized = true
	}
	s.commitLocked(res)
	return res, nil
}

// commitLocked stores the snapshot, logs diagnostics and fans the result out.
func (s *reconfigureService) commitLocked(res reconfigure.Result) {
	s.mirror = res.Config

	log := s.logger.WithField("kind", res.Kind.String())
	for _, d := range res.Diagnostics {
		switch d.Level {
		case reconfigure.LevelWarning:
			log.Warnf("%s", d.Message)
		default:
			log.Infof("%s", d.Message)
		}
	}
	if res.Bounds != nil {
		log.Infof("Angle bounds now [%g, %g] %s", res.Bounds.Min, res.Bounds.Max, res.Config.AngleUnits)
	}
	log.Debugf("Applied edit: xyz=(%g, %g, %g) rpy=(%g, %g, %g) q=(%g, %g, %g, %g)",
		res.Config.X, res.Config.Y, res.Config.Z,
		res.Config.Roll, res.Config.Pitch, res.Config.Yaw,
		res.Config.QX, res.Config.QY, res.Config.QZ, res.Config.QW)

	if s.recorder != nil {
		s.recorder.RecordEdit(res)
	}
	if s.publisher != nil {
		if err := s.publisher.PublishConfigUpdate(res); err != nil {
			log.Warnf("Failed to publish configuration update: %v", err)
		}
	}
}

func (s *reconfigureService) Describe() Description {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Description{
		Config: s.mirror,
		Bounds: s.engine.Bounds(),
	}
}

func (s *reconfigureService) Transform() transform.Transform {
	return s.engine.State().Snapshot()
}

// SetPublisher allows injecting the UpdatePublisher after initialization.
func (s *reconfigureService) SetPublisher(p UpdatePublisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publisher = p
	s.logger.Infof("UpdatePublisher injected into ReconfigureService.")
}
