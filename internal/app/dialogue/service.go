package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/YelzhanWeb/cafebot/internal/adapter/logger"
	"github.com/YelzhanWeb/cafebot/internal/domain"
	"github.com/YelzhanWeb/cafebot/internal/interfaces"
	"github.com/YelzhanWeb/cafebot/internal/metrics"
)

const defaultLockTTL = 30 * time.Second

// errPanic wraps a value recovered from a panicking turn
var errPanic = errors.New("panic")

type Service struct {
	engine    *Engine
	sessions  interfaces.SessionRepository
	finalizer interfaces.OrderFinalizer
	errorLog  interfaces.ErrorLogRepository
	locker    interfaces.UserLocker
	lockTTL   time.Duration
	metrics   *metrics.Metrics
	logger    logger.Logger
	now       func() time.Time
}

type Option func(*Service)

// WithLocker replaces the default in-process per-user lock
func WithLocker(locker interfaces.UserLocker) Option {
	return func(s *Service) {
		s.locker = locker
	}
}

func WithLockTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(
	engine *Engine,
	sessions interfaces.SessionRepository,
	finalizer interfaces.OrderFinalizer,
	errorLog interfaces.ErrorLogRepository,
	logger logger.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		engine:    engine,
		sessions:  sessions,
		finalizer: finalizer,
		errorLog:  errorLog,
		locker:    NewUserLocks(nil),
		lockTTL:   defaultLockTTL,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// turn carries what the recovery path needs to know about the failing turn
type turn struct {
	userID int64
	step   domain.Step
}

// Start resumes a stored session at its step, or begins a new one
func (s *Service) Start(ctx context.Context, userID int64) []interfaces.Reply {
	return s.run(ctx, userID, "start", func(ctx context.Context, t *turn) ([]interfaces.Reply, error) {
		session, err := s.sessions.Load(ctx, userID)
		if errors.Is(err, domain.ErrSessionNotFound) {
			if err := s.save(ctx, domain.NewSession(userID)); err != nil {
				return nil, err
			}
			return []interfaces.Reply{s.engine.Welcome()}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("load session: %w", err)
		}

		t.step = session.Step
		reply, err := s.engine.Resume(session)
		if err != nil {
			return nil, err
		}

		s.logger.Debug("session_resumed", "Stored session resumed", logger.RequestID(ctx), map[string]interface{}{
			"user_id": userID,
			"step":    session.Step.String(),
		})
		return []interfaces.Reply{reply}, nil
	})
}

// Cancel ends the dialogue regardless of its step
func (s *Service) Cancel(ctx context.Context, userID int64) []interfaces.Reply {
	return s.run(ctx, userID, "cancel", func(ctx context.Context, t *turn) ([]interfaces.Reply, error) {
		if err := s.sessions.Delete(ctx, userID); err != nil {
			return nil, fmt.Errorf("delete session: %w", err)
		}
		return []interfaces.Reply{{Text: MsgCanceled, RemoveKeyboard: true}}, nil
	})
}

// Restart discards whatever is stored and greets the customer again
func (s *Service) Restart(ctx context.Context, userID int64) []interfaces.Reply {
	return s.run(ctx, userID, "restart", func(ctx context.Context, t *turn) ([]interfaces.Reply, error) {
		if err := s.save(ctx, domain.NewSession(userID)); err != nil {
			return nil, err
		}
		return []interfaces.Reply{s.engine.Welcome()}, nil
	})
}

// HandleText runs one dialogue turn
func (s *Service) HandleText(ctx context.Context, userID int64, text string) []interfaces.Reply {
	return s.run(ctx, userID, "handle_text", func(ctx context.Context, t *turn) ([]interfaces.Reply, error) {
		started := time.Now()

		// 1. Load, or begin lazily on first contact
		session, err := s.sessions.Load(ctx, userID)
		if errors.Is(err, domain.ErrSessionNotFound) {
			session = domain.NewSession(userID)
		} else if err != nil {
			return nil, fmt.Errorf("load session: %w", err)
		}
		t.step = session.Step

		// 2. Transition
		outcome, err := s.engine.Transition(session, text)
		if err != nil {
			return nil, err
		}
		defer func() {
			s.metrics.TurnHandled(t.step.String(), time.Since(started))
		}()

		// 3. Apply
		switch outcome.Action {
		case ActionFinalize:
			order, err := s.finalizer.Finalize(ctx, outcome.Session)
			if err != nil {
				return nil, fmt.Errorf("finalize order: %w", err)
			}
			return []interfaces.Reply{s.engine.Placed(order)}, nil

		case ActionEnd:
			if err := s.sessions.Delete(ctx, userID); err != nil {
				return nil, fmt.Errorf("delete session: %w", err)
			}
			s.logger.Debug("order_canceled", "Customer canceled at confirmation", logger.RequestID(ctx), map[string]interface{}{
				"user_id": userID,
			})
			return outcome.Replies, nil
		}

		if err := s.save(ctx, outcome.Session); err != nil {
			return nil, err
		}
		return outcome.Replies, nil
	})
}

func (s *Service) save(ctx context.Context, session *domain.Session) error {
	session.UpdatedAt = s.now()
	if err := s.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// run is the single recovery boundary. Every turn is serialized per user and
// any error or panic inside fn ends in restart.
func (s *Service) run(ctx context.Context, userID int64, action string, fn func(context.Context, *turn) ([]interfaces.Reply, error)) (replies []interfaces.Reply) {
	t := &turn{userID: userID, step: domain.StepNone}

	unlock, err := s.locker.Lock(ctx, strconv.FormatInt(userID, 10), s.lockTTL)
	if err != nil {
		return s.restart(ctx, t, action, fmt.Errorf("acquire user lock: %w", err))
	}

	defer func() {
		if r := recover(); r != nil {
			replies = s.restart(ctx, t, action, fmt.Errorf("%w: %v", errPanic, r))
		}
		if err := unlock(ctx); err != nil {
			s.logger.Warn("unlock_failed", "Failed to release user lock, it will expire via TTL", logger.RequestID(ctx), map[string]interface{}{
				"user_id": userID,
			})
		}
	}()

	replies, err = fn(ctx, t)
	if err != nil {
		return s.restart(ctx, t, action, err)
	}
	return replies
}

// restart logs the fault, records it, and replaces the session with a fresh one
func (s *Service) restart(ctx context.Context, t *turn, action string, cause error) []interfaces.Reply {
	requestID := logger.RequestID(ctx)
	reason := restartReason(cause)

	s.logger.Error("session_restarted", "Dialogue turn failed, restarting session", requestID, map[string]interface{}{
		"user_id": t.userID,
		"step":    t.step.String(),
		"command": action,
		"reason":  reason,
	}, cause)
	s.metrics.SessionRestarted(reason)

	if err := s.errorLog.Record(ctx, domain.NewErrorLogEntry(t.userID, t.step, cause)); err != nil {
		s.logger.Error("error_log_failed", "Failed to record error log entry", requestID, map[string]interface{}{
			"user_id": t.userID,
		}, err)
	}

	if err := s.save(ctx, domain.NewSession(t.userID)); err != nil {
		s.logger.Error("db_error", "Failed to store fresh session after restart", requestID, map[string]interface{}{
			"user_id": t.userID,
		}, err)
	}

	msg := MsgGenericError
	if errors.Is(cause, domain.ErrCorruptSession) {
		msg = MsgCorruptSession
	}
	return []interfaces.Reply{{Text: msg}, s.engine.Welcome()}
}

func restartReason(err error) string {
	switch {
	case errors.Is(err, errPanic):
		return "panic"
	case errors.Is(err, domain.ErrCorruptSession):
		return "corrupt_session"
	default:
		return "error"
	}
}
