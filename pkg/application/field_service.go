package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"boardkit/pkg/domain"
	"boardkit/pkg/domain/board"
)

// EnsureResult reports what field provisioning found and created.
type EnsureResult struct {
	DateField        board.Field
	DateFieldCreated bool
	IterationField   board.Field
	IterationCount   int
}

// FieldService provisions the fields the assignment run depends on.
type FieldService struct {
	admin  board.FieldAdmin
	logger *slog.Logger
}

func NewFieldService(admin board.FieldAdmin, logger *slog.Logger) *FieldService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FieldService{admin: admin, logger: logger}
}

// Ensure verifies the iteration field carries a schedule and creates the
// due-date field when missing. Iteration fields cannot be created
// non-interactively (the schedule needs the board UI), so their absence
// stays fatal.
func (s *FieldService) Ensure(ctx context.Context, cfg *domain.Config) (*EnsureResult, error) {
	if _, err := s.admin.ResolveProject(ctx); err != nil {
		return nil, fmt.Errorf("resolving project: %w", err)
	}

	iterField, iterations, err := s.admin.ListIterations(ctx, cfg.IterationFieldName())
	if err != nil {
		return nil, fmt.Errorf("iteration field %q: %w", cfg.IterationFieldName(), err)
	}
	if len(iterations) == 0 {
		return nil, fmt.Errorf("iteration field %q: %w", cfg.IterationFieldName(), board.ErrNoIterations)
	}

	result := &EnsureResult{IterationField: iterField, IterationCount: len(iterations)}

	dateField, err := s.admin.FindDateField(ctx, cfg.DueDateFieldName())
	switch {
	case err == nil:
		result.DateField = dateField
		s.logger.Info("due-date field present", "field", dateField.Name)
	case errors.Is(err, board.ErrFieldNotFound):
		created, createErr := s.admin.CreateDateField(ctx, cfg.DueDateFieldName())
		if createErr != nil {
			return nil, fmt.Errorf("creating due-date field %q: %w", cfg.DueDateFieldName(), createErr)
		}
		result.DateField = created
		result.DateFieldCreated = true
		s.logger.Info("due-date field created", "field", created.Name)
	default:
		return nil, fmt.Errorf("locating due-date field: %w", err)
	}

	return result, nil
}
