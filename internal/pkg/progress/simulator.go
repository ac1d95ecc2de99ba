package progress

import (
	"context"
	"errors"
	"time"
)

// DemoSteps is the fixed pipeline shown by the simulated stream.
var DemoSteps = []Step{
	{ID: "analyze", Name: "Analyzing requirements"},
	{ID: "design", Name: "Designing architecture"},
	{ID: "generate_code", Name: "Generating code"},
	{ID: "create_database", Name: "Creating database schema"},
	{ID: "setup_auth", Name: "Setting up authentication"},
	{ID: "optimize", Name: "Optimizing"},
	{ID: "test", Name: "Running tests"},
	{ID: "finalize", Name: "Finalizing"},
}

// Simulator walks Steps on a single ticker. Nothing it does is persisted.
type Simulator struct {
	Steps     []Step
	Interval  time.Duration
	Increment int
}

func NewSimulator(interval time.Duration, increment int) *Simulator {
	if interval <= 0 {
		interval = 400 * time.Millisecond
	}
	if increment <= 0 || increment > 100 {
		increment = 20
	}
	return &Simulator{Steps: DemoSteps, Interval: interval, Increment: increment}
}

// Run emits start, then for every step step_progress events with strictly increasing
// progress and one step_complete, then a single complete. The ticker is stopped on every
// return path, including ctx cancellation on client disconnect.
func (s *Simulator) Run(ctx context.Context, projectID string, emit Emitter) error {
	if len(s.Steps) == 0 {
		return errors.New("simulator has no steps")
	}
	steps := make([]Step, len(s.Steps))
	for i, st := range s.Steps {
		steps[i] = Step{ID: st.ID, Name: st.Name, Status: StepPending}
	}
	if err := emit(Event{Type: EventStart, ProjectID: projectID, Steps: steps}); err != nil {
		return err
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	idx, pct := 0, 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		step := steps[idx]
		pct += s.Increment
		if pct < 100 {
			if err := emit(Event{Type: EventStepProgress, ProjectID: projectID, StepID: step.ID, StepName: step.Name, Progress: pct}); err != nil {
				return err
			}
			continue
		}

		if err := emit(Event{Type: EventStepComplete, ProjectID: projectID, StepID: step.ID, StepName: step.Name, Progress: 100}); err != nil {
			return err
		}
		idx, pct = idx+1, 0
		if idx == len(steps) {
			return emit(Event{
				Type:      EventComplete,
				ProjectID: projectID,
				Progress:  100,
				Status:    "completed",
				Message:   "Generation complete",
			})
		}
	}
}
