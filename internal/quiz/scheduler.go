package quiz

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Sender delivers notification emails. Implemented by the config email
// service.
type Sender interface {
	Send(to, subject, html string) error
}

// AvailabilityScheduler periodically reconciles scheduled quiz windows:
// expired windows flip back to off, and creators get an email when
// their quiz goes live.
type AvailabilityScheduler struct {
	repo   *Repository
	email  Sender
	logger *zap.Logger
}

func NewAvailabilityScheduler(repo *Repository, email Sender, logger *zap.Logger) *AvailabilityScheduler {
	return &AvailabilityScheduler{repo: repo, email: email, logger: logger}
}

// Start runs the reconcile loop under the fx lifecycle, checking once a
// minute.
func (s *AvailabilityScheduler) Start(lc fx.Lifecycle) {
	ticker := time.NewTicker(time.Minute)
	done := make(chan bool)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.logger.Info("starting quiz availability scheduler")
			go func() {
				schedulerCtx := context.Background()
				for {
					select {
					case <-ticker.C:
						s.Reconcile(schedulerCtx)
					case <-done:
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			s.logger.Info("stopping quiz availability scheduler")
			ticker.Stop()
			done <- true
			return nil
		},
	})
}

// Reconcile performs one scheduler pass.
func (s *AvailabilityScheduler) Reconcile(ctx context.Context) {
	now := time.Now()

	expired, err := s.repo.ExpireScheduled(ctx, now)
	if err != nil {
		s.logger.Error("failed to expire scheduled quizzes", zap.Error(err))
	} else if expired > 0 {
		s.logger.Info("expired scheduled quizzes", zap.Int64("count", expired))
	}

	openings, err := s.repo.FindWindowOpenings(ctx, now)
	if err != nil {
		s.logger.Error("failed to fetch opened quiz windows", zap.Error(err))
		return
	}
	for _, q := range openings {
		name, email, err := s.repo.FacultyInfo(ctx, q.CreatedBy)
		if err != nil || email == "" {
			s.logger.Warn("no creator email for opened quiz", zap.String("quiz", q.ID.Hex()))
		} else {
			body := fmt.Sprintf("Hi %s,<br>Your quiz %q is now live for students.", name, q.Title)
			if err := s.email.Send(email, "Quiz window opened", body); err != nil {
				s.logger.Warn("failed to send window-open email",
					zap.String("quiz", q.ID.Hex()), zap.Error(err))
				continue
			}
		}
		if err := s.repo.MarkWindowNotified(ctx, q.ID); err != nil {
			s.logger.Error("failed to mark quiz window notified",
				zap.String("quiz", q.ID.Hex()), zap.Error(err))
		}
	}
}
