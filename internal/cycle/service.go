package cycle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/rankine-core/internal/device"
)

// Logger defines the logging interface used by the Service.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Sink receives every solved run.
type Sink interface {
	// Name identifies the sink in logs.
	Name() string

	// Notify delivers a solved run. Errors are logged by the Service.
	Notify(ctx context.Context, res *Result) error
}

// maxRequestTime bounds a solve triggered from a message handler.
const maxRequestTime = 30 * time.Second

// Service solves runs, persists them and fans them out to sinks.
//
// Thread Safety: all methods are safe for concurrent use. Each run builds
// its own Plant, so solves never share devices.
type Service struct {
	repo     Repository
	provider device.PropertyProvider
	logger   Logger

	mu    sync.RWMutex
	sinks []Sink
}

// NewService creates a cycle service.
//
// Parameters:
//   - repo: Repository for persisting runs (may be nil to disable persistence)
//   - provider: Property provider for the devices (nil selects steam.IF97)
//   - logger: Logger instance (nil disables logging)
func NewService(repo Repository, provider device.PropertyProvider, logger Logger) *Service {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Service{
		repo:     repo,
		provider: provider,
		logger:   logger,
	}
}

// AddSink registers a sink for solved runs.
func (s *Service) AddSink(sink Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks = append(s.sinks, sink)
}

// Solve runs the cycle for spec, saves the result and notifies sinks.
//
// Returns:
//   - *Result: the solved run with ID and timestamp assigned
//   - error: wraps ErrInvalidSpec, device or steam errors, or the
//     repository error when the run could not be saved
func (s *Service) Solve(ctx context.Context, spec Spec) (*Result, error) {
	start := time.Now()
	res, err := NewPlant(spec, s.provider).Solve()
	if err != nil {
		s.logger.Warn("cycle solve failed", "error", err)
		return nil, err
	}
	res.ID = uuid.New().String()
	res.CreatedAt = time.Now().UTC()

	if s.repo != nil {
		if err := s.repo.Save(ctx, res); err != nil {
			return nil, fmt.Errorf("saving run: %w", err)
		}
	}

	s.logger.Info("cycle solved",
		"run_id", res.ID,
		"efficiency", res.Efficiency,
		"net_work_kw", res.NetWork,
		"duration", time.Since(start),
	)

	s.notify(ctx, res)
	return res, nil
}

func (s *Service) notify(ctx context.Context, res *Result) {
	s.mu.RLock()
	sinks := make([]Sink, len(s.sinks))
	copy(sinks, s.sinks)
	s.mu.RUnlock()

	for _, sink := range sinks {
		if err := sink.Notify(ctx, res); err != nil {
			s.logger.Error("cycle sink failed", "sink", sink.Name(), "run_id", res.ID, "error", err)
		}
	}
}

// Get returns a stored run.
func (s *Service) Get(ctx context.Context, id string) (*Result, error) {
	if s.repo == nil {
		return nil, ErrRunNotFound
	}
	return s.repo.Get(ctx, id)
}

// List returns recent runs, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]Result, error) {
	if s.repo == nil {
		return []Result{}, nil
	}
	return s.repo.List(ctx, limit)
}

// Request is the payload of a solve request received over MQTT. Fields
// absent from spec keep their DefaultSpec value; fields present are used
// as given and validated.
type Request struct {
	RequestID string `json:"request_id,omitempty"`
	Spec      Spec   `json:"spec"`
}

// DecodeRequest parses a solve request over DefaultSpec. An empty payload
// requests the reference plant.
func DecodeRequest(payload []byte) (Request, error) {
	req := Request{Spec: DefaultSpec()}
	if len(bytes.TrimSpace(payload)) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(payload, &req); err != nil {
		return Request{}, fmt.Errorf("%w: decoding request: %w", ErrInvalidSpec, err)
	}
	return req, nil
}

// HandleRequest decodes a solve request and runs it. Its signature matches
// the MQTT message handler; the result is delivered through the sinks.
func (s *Service) HandleRequest(topic string, payload []byte) error {
	req, err := DecodeRequest(payload)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), maxRequestTime)
	defer cancel()

	res, err := s.Solve(ctx, req.Spec)
	if err != nil {
		s.logger.Warn("cycle request failed", "topic", topic, "request_id", req.RequestID, "error", err)
		return err
	}
	s.logger.Debug("cycle request served", "topic", topic, "request_id", req.RequestID, "run_id", res.ID)
	return nil
}
