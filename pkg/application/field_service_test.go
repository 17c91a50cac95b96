package application_test

import (
	"context"
	"errors"
	"testing"

	"boardkit/pkg/application"
	"boardkit/pkg/domain/board"
)

func TestFieldService_Ensure_AllFieldsPresent(t *testing.T) {
	gw := testGateway()
	svc := application.NewFieldService(gw, nil)

	result, err := svc.Ensure(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	if result.DateFieldCreated {
		t.Error("date field reported created although it exists")
	}
	if result.DateField.ID != "field-due" {
		t.Errorf("date field = %+v, want the existing field", result.DateField)
	}
	if result.IterationCount != 2 {
		t.Errorf("iteration count = %d, want 2", result.IterationCount)
	}
	if len(gw.CreatedFields) != 0 {
		t.Errorf("fields created = %v, want none", gw.CreatedFields)
	}
}

func TestFieldService_Ensure_CreatesMissingDateField(t *testing.T) {
	gw := testGateway()
	gw.DateFieldErr = &board.FieldNotFoundError{Name: "Due Date", Tried: board.DateFieldAliases}
	svc := application.NewFieldService(gw, nil)

	result, err := svc.Ensure(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	if !result.DateFieldCreated {
		t.Error("date field not created")
	}
	if result.DateField.Name != "Due Date" {
		t.Errorf("created field name = %q, want %q", result.DateField.Name, "Due Date")
	}
	if len(gw.CreatedFields) != 1 {
		t.Errorf("fields created = %d, want 1", len(gw.CreatedFields))
	}
}

func TestFieldService_Ensure_MissingIterationFieldIsFatal(t *testing.T) {
	gw := testGateway()
	gw.IterationsErr = &board.FieldNotFoundError{Name: "Iteration"}
	svc := application.NewFieldService(gw, nil)

	_, err := svc.Ensure(context.Background(), testConfig())
	if !errors.Is(err, board.ErrFieldNotFound) {
		t.Errorf("Ensure() error = %v, want %v", err, board.ErrFieldNotFound)
	}
}

func TestFieldService_Ensure_EmptyScheduleIsFatal(t *testing.T) {
	gw := testGateway()
	gw.Iterations = nil
	svc := application.NewFieldService(gw, nil)

	_, err := svc.Ensure(context.Background(), testConfig())
	if !errors.Is(err, board.ErrNoIterations) {
		t.Errorf("Ensure() error = %v, want %v", err, board.ErrNoIterations)
	}
}

func TestFieldService_Ensure_CreateFailurePropagates(t *testing.T) {
	gw := testGateway()
	gw.DateFieldErr = &board.FieldNotFoundError{Name: "Due Date"}
	gw.CreateErr = errors.New("insufficient scopes")
	svc := application.NewFieldService(gw, nil)

	if _, err := svc.Ensure(context.Background(), testConfig()); err == nil {
		t.Fatal("Ensure() expected an error when creation fails")
	}
}
