package coordinator

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Step represents a single unit of work in the Saga.
// Compensate undoes the effects of a successful Execute; steps without side
// effects return nil.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

// Orchestrator runs a collection of Steps one after the other.
type Orchestrator struct {
	sagaID string
	steps  []Step
}

func NewOrchestrator(sagaID string, steps []Step) *Orchestrator {
	return &Orchestrator{sagaID: sagaID, steps: steps}
}

// Start runs the saga steps sequentially.
// If a step fails, it triggers the compensation of all previously successful steps.
func (o *Orchestrator) Start(ctx context.Context) error {
	var successfulSteps []Step

	for _, step := range o.steps {
		if err := o.execute(ctx, step); err != nil {
			slog.WarnContext(ctx, "saga step failed, starting rollback",
				"saga_id", o.sagaID, "step", step.Name(), "error", err)
			o.rollback(ctx, successfulSteps)
			return fmt.Errorf("%s: %w", step.Name(), err)
		}
		// Track successful step for potential compensation (LIFO)
		successfulSteps = append(successfulSteps, step)
	}

	slog.DebugContext(ctx, "saga completed", "saga_id", o.sagaID, "steps", len(o.steps))
	return nil
}

func (o *Orchestrator) execute(ctx context.Context, step Step) error {
	ctx, span := otel.Tracer("coordinator").Start(ctx, "saga.step."+step.Name())
	defer span.End()
	span.SetAttributes(attribute.String("saga.id", o.sagaID))

	slog.DebugContext(ctx, "executing saga step", "saga_id", o.sagaID, "step", step.Name())
	if err := step.Execute(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (o *Orchestrator) rollback(ctx context.Context, steps []Step) {
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		slog.InfoContext(ctx, "compensating saga step", "saga_id", o.sagaID, "step", step.Name())
		if err := step.Compensate(ctx); err != nil {
			slog.ErrorContext(ctx, "CRITICAL: failed to compensate saga step",
				"saga_id", o.sagaID, "step", step.Name(), "error", err)
		}
	}
}
