package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/doeshing/droidai/internal/application/intent"
	"github.com/doeshing/droidai/internal/domain"
	"github.com/doeshing/droidai/internal/ports"
)

// Reply is the outcome of one utterance, shaped for display.
type Reply struct {
	Message    string
	Resolution *domain.Resolution
	Err        error
}

// Service resolves and executes utterances end to end, recording each one
// in history.
type Service struct {
	engine         *intent.Engine
	executor       *Executor
	history        ports.HistoryRepository
	historyEnabled bool
	logger         ports.Logger
}

// NewService wires the end-to-end pipeline.
func NewService(engine *intent.Engine, executor *Executor, history ports.HistoryRepository,
	historyEnabled bool, logger ports.Logger) *Service {
	return &Service{
		engine:         engine,
		executor:       executor,
		history:        history,
		historyEnabled: historyEnabled,
		logger:         logger,
	}
}

// Handle resolves one utterance and executes the result. The returned
// error is ErrExit when the user asked to quit; execution failures are
// carried in Reply.Err so the session keeps going.
func (s *Service) Handle(ctx context.Context, utterance string) (Reply, error) {
	start := time.Now()

	res := s.engine.Understand(ctx, utterance)
	if res == nil {
		s.record(utterance, nil, false, false, start)
		return Reply{Message: "sorry, I did not understand that; try rephrasing"}, nil
	}

	s.logger.Debug("resolved", map[string]interface{}{
		"utterance": utterance,
		"action":    string(res.Command.Action),
		"tier":      string(res.Tier),
		"score":     res.Score,
	})

	msg, err := s.executor.Execute(ctx, res)
	if errors.Is(err, ErrExit) {
		s.record(utterance, res, true, true, start)
		return Reply{Message: msg, Resolution: res}, ErrExit
	}

	s.record(utterance, res, true, err == nil, start)
	if err != nil {
		return Reply{Message: msg, Resolution: res, Err: err}, nil
	}
	return Reply{Message: msg, Resolution: res}, nil
}

// Stats returns the engine's lifetime tier counters.
func (s *Service) Stats() domain.IntentStats {
	return s.engine.Stats()
}

func (s *Service) record(utterance string, res *domain.Resolution, executed, success bool, start time.Time) {
	if !s.historyEnabled || s.history == nil {
		return
	}
	rec := domain.HistoryRecord{
		Timestamp:  start.UTC(),
		Utterance:  utterance,
		Executed:   executed,
		Success:    success,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if res != nil {
		rec.Action = res.Command.Action
		rec.Tier = res.Tier
		rec.Score = res.Score
	}
	if err := s.history.Save(rec); err != nil {
		s.logger.Warn("history write failed", map[string]interface{}{"error": err.Error()})
	}
}
