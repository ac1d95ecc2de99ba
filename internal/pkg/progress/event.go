// Package progress reports generation progress, either simulated (demo) or followed from
// persisted generation logs, as a stream of events.
package progress

import (
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
)

type EventType string

const (
	EventStart        EventType = "start"
	EventStepProgress EventType = "step_progress"
	EventStepComplete EventType = "step_complete"
	EventComplete     EventType = "complete"
)

type StepState string

const (
	StepPending    StepState = "pending"
	StepInProgress StepState = "in_progress"
	StepCompleted  StepState = "completed"
	StepFailed     StepState = "failed"
)

type Step struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Status StepState `json:"status"`
}

// Event is one message on the stream. Progress is a percentage of the current step.
type Event struct {
	Type      EventType `json:"type"`
	ProjectID string    `json:"project_id"`
	StepID    string    `json:"step_id,omitempty"`
	StepName  string    `json:"step_name,omitempty"`
	Progress  int       `json:"progress,omitempty"`
	Message   string    `json:"message,omitempty"`
	// Status is set on complete: completed or error.
	Status string `json:"status,omitempty"`
	Steps  []Step `json:"steps,omitempty"`
}

// Emitter receives events in order. Returning an error stops the producer.
type Emitter func(Event) error

// WriteSSE frames ev as `data: <json>\n\n` and flushes when w supports it.
func WriteSSE(w io.Writer, ev Event) error {
	b, err := sonic.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", b); err != nil {
		return err
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}
