package progress

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
)

// Snapshot is the persisted state the follower polls.
type Snapshot struct {
	Status       model.ProjectStatus
	ErrorMessage string
	Logs         []model.GenerationLog
}

type SnapshotFunc func(ctx context.Context) (*Snapshot, error)

var ErrFollowTimeout = errors.New("generation did not finish before the stream deadline")

// Follower turns persisted generation logs into stream events.
type Follower struct {
	Interval time.Duration
	MaxWait  time.Duration
}

func NewFollower(interval, maxWait time.Duration) *Follower {
	if interval <= 0 {
		interval = time.Second
	}
	if maxWait <= 0 {
		maxWait = 5 * time.Minute
	}
	return &Follower{Interval: interval, MaxWait: maxWait}
}

func stepName(s model.GenerationStep) string {
	switch s {
	case model.StepAnalyze:
		return "Analyzing requirements"
	case model.StepGenerateCode:
		return "Generating code"
	case model.StepOptimize:
		return "Optimizing"
	case model.StepFinalize:
		return "Finalizing"
	}
	return string(s)
}

// Follow emits start, then step events as log rows change, then complete once the project
// leaves generating. A draft project is waited on, since the stream may open before the
// generate request lands. The same race exists for a rerun of a completed or errored
// project: a terminal status seen on the first poll gets one interval of grace, and rows
// of the run that finished before the stream opened are not reported as a new run.
func (f *Follower) Follow(ctx context.Context, projectID string, snap SnapshotFunc, emit Emitter) error {
	steps := make([]Step, len(model.GenerationSteps))
	for i, s := range model.GenerationSteps {
		steps[i] = Step{ID: string(s), Name: stepName(s), Status: StepPending}
	}
	if err := emit(Event{Type: EventStart, ProjectID: projectID, Steps: steps}); err != nil {
		return err
	}

	ticker := time.NewTicker(f.Interval)
	defer ticker.Stop()
	deadline := time.NewTimer(f.MaxWait)
	defer deadline.Stop()
	wait := func() error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return ErrFollowTimeout
		case <-ticker.C:
			return nil
		}
	}

	var (
		previous    uuid.UUID
		hasPrevious bool
	)
	announced := map[model.GenerationStep]model.StepStatus{}
	for first := true; ; first = false {
		s, err := snap(ctx)
		if err != nil {
			return err
		}
		run := LatestRun(s.Logs)
		if first && s.Status != model.ProjectStatusGenerating && len(run) > 0 {
			previous, hasPrevious = run[0].ID, true
		}
		stale := hasPrevious && len(run) > 0 && run[0].ID == previous
		terminal := s.Status == model.ProjectStatusCompleted ||
			s.Status == model.ProjectStatusDeployed ||
			s.Status == model.ProjectStatusError

		if first && terminal {
			if err := wait(); err != nil {
				return err
			}
			continue
		}

		// a rerun has flipped the status but not written its analyze row yet
		if !(stale && s.Status == model.ProjectStatusGenerating) {
			for _, l := range run {
				if announced[l.Step] == l.Status {
					continue
				}
				announced[l.Step] = l.Status
				var ev *Event
				switch l.Status {
				case model.StepStatusInProgress:
					ev = &Event{Type: EventStepProgress, Progress: 50}
				case model.StepStatusCompleted:
					ev = &Event{Type: EventStepComplete, Progress: 100}
				}
				if ev == nil {
					continue
				}
				ev.ProjectID, ev.StepID, ev.StepName, ev.Message = projectID, string(l.Step), stepName(l.Step), l.Message
				if err := emit(*ev); err != nil {
					return err
				}
			}
		}

		switch s.Status {
		case model.ProjectStatusCompleted, model.ProjectStatusDeployed:
			return emit(Event{Type: EventComplete, ProjectID: projectID, Progress: 100, Status: "completed", Message: "Generation complete"})
		case model.ProjectStatusError:
			return emit(Event{Type: EventComplete, ProjectID: projectID, Progress: Percent(s.Logs), Status: "error", Message: s.ErrorMessage})
		}

		if err := wait(); err != nil {
			return err
		}
	}
}

// LatestRun drops log rows from earlier generation runs; each run starts with analyze.
func LatestRun(logs []model.GenerationLog) []model.GenerationLog {
	start := 0
	for i, l := range logs {
		if l.Step == model.StepAnalyze {
			start = i
		}
	}
	return logs[start:]
}

// Percent is the overall completion of the latest run. In-progress steps count half.
func Percent(logs []model.GenerationLog) int {
	run := LatestRun(logs)
	if len(run) == 0 {
		return 0
	}
	var units int
	for _, l := range run {
		switch l.Status {
		case model.StepStatusCompleted:
			units += 2
		case model.StepStatusInProgress, model.StepStatusFailed:
			units++
		}
	}
	return units * 100 / (2 * len(model.GenerationSteps))
}
