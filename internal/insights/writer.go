// ABOUTME: Write path that validates logs, stores them, and invalidates insights.
// ABOUTME: Every successful write drops the user's cached report before returning.
package insights

import (
	"context"
	"fmt"

	"github.com/harperreed/wellsync/internal/models"
	"github.com/harperreed/wellsync/internal/storage"
)

// Invalidator drops a user's cached insights.
type Invalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// NotifyingWriter decorates a SignalWriter with validation and invalidation.
type NotifyingWriter struct {
	next storage.SignalWriter
	inv  Invalidator
}

var _ storage.SignalWriter = (*NotifyingWriter)(nil)

// NewNotifyingWriter wraps next so that writes invalidate inv.
func NewNotifyingWriter(next storage.SignalWriter, inv Invalidator) *NotifyingWriter {
	return &NotifyingWriter{next: next, inv: inv}
}

func (w *NotifyingWriter) UpsertCheckIn(ctx context.Context, c *models.CheckIn) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := w.next.UpsertCheckIn(ctx, c); err != nil {
		return err
	}
	return w.inv.Invalidate(ctx, c.UserID)
}

func (w *NotifyingWriter) DeleteCheckIn(ctx context.Context, userID string, date models.Date) error {
	if err := w.next.DeleteCheckIn(ctx, userID, date); err != nil {
		return err
	}
	return w.inv.Invalidate(ctx, userID)
}

func (w *NotifyingWriter) CreateWorkout(ctx context.Context, wo *models.Workout) error {
	if err := wo.Validate(); err != nil {
		return err
	}
	if err := w.next.CreateWorkout(ctx, wo); err != nil {
		return err
	}
	return w.inv.Invalidate(ctx, wo.UserID)
}

func (w *NotifyingWriter) DeleteWorkout(ctx context.Context, userID, idOrPrefix string) error {
	if err := w.next.DeleteWorkout(ctx, userID, idOrPrefix); err != nil {
		return err
	}
	return w.inv.Invalidate(ctx, userID)
}

func (w *NotifyingWriter) CreateMeal(ctx context.Context, m *models.Meal) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if err := w.next.CreateMeal(ctx, m); err != nil {
		return err
	}
	return w.inv.Invalidate(ctx, m.UserID)
}

func (w *NotifyingWriter) DeleteMeal(ctx context.Context, userID, idOrPrefix string) error {
	if err := w.next.DeleteMeal(ctx, userID, idOrPrefix); err != nil {
		return err
	}
	return w.inv.Invalidate(ctx, userID)
}

// Service is the surface shared by the CLI, HTTP API, and MCP server.
type Service struct {
	*Engine
	Writer *NotifyingWriter
}

// NewService binds an engine to a writer whose writes invalidate it.
func NewService(e *Engine, w storage.SignalWriter) *Service {
	return &Service{Engine: e, Writer: NewNotifyingWriter(w, e)}
}

// SubmitCheckIn stores c and returns its readiness.
func (s *Service) SubmitCheckIn(ctx context.Context, c *models.CheckIn) (models.ReadinessResult, error) {
	if err := s.Writer.UpsertCheckIn(ctx, c); err != nil {
		return models.ReadinessResult{}, fmt.Errorf("submit check-in: %w", err)
	}
	return s.Readiness(ctx, c.UserID, c.Date)
}
