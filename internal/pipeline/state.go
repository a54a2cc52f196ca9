package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/nguyentantai21042004/meeting-digest/internal/logger"
	"github.com/nguyentantai21042004/meeting-digest/internal/meeting"
)

// State is a step of a single request.
type State int

const (
	StateReceived State = iota
	StateSaved
	StateTranscribed
	StateSummarized
	StatePersisted
	StateCleanedUp
	StateResponded
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateReceived:
		return "received"
	case StateSaved:
		return "saved"
	case StateTranscribed:
		return "transcribed"
	case StateSummarized:
		return "summarized"
	case StatePersisted:
		return "persisted"
	case StateCleanedUp:
		return "cleaned_up"
	case StateResponded:
		return "responded"
	case StateErrored:
		return "errored"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// stage names the work that leads into a state, for error messages.
func (s State) stage() string {
	switch s {
	case StateSaved:
		return "saving audio"
	case StateTranscribed:
		return "transcription"
	case StateSummarized:
		return "summarization"
	case StatePersisted:
		return "persistence"
	case StateCleanedUp:
		return "cleanup"
	default:
		return s.String()
	}
}

// next is the only forward transition allowed from each state.
var next = map[State]State{
	StateReceived:    StateSaved,
	StateSaved:       StateTranscribed,
	StateTranscribed: StateSummarized,
	StateSummarized:  StatePersisted,
	StatePersisted:   StateCleanedUp,
	StateCleanedUp:   StateResponded,
}

// Run tracks one request through the state machine.
type Run struct {
	ID       string
	Filename string
	// Segments is set once the run reaches StateTranscribed.
	Segments []meeting.Segment
	// Record is set once the run reaches StatePersisted.
	Record meeting.Record

	mu       sync.Mutex
	state    State
	history  []State
	err      error
	observer Observer
	logger   logger.Logger
}

func newRun(id, filename string, observer Observer, log logger.Logger) *Run {
	return &Run{
		ID:       id,
		Filename: filename,
		state:    StateReceived,
		history:  []State{StateReceived},
		observer: observer,
		logger:   log,
	}
}

// State returns the current state.
func (r *Run) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// History returns every state the run has been in, oldest first.
func (r *Run) History() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.history...)
}

// Err returns the failure that moved the run to StateErrored.
func (r *Run) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Respond marks a cleaned up run as delivered to the client.
func (r *Run) Respond(ctx context.Context) error {
	return r.advance(ctx, StateResponded)
}

func (r *Run) advance(ctx context.Context, to State) error {
	r.mu.Lock()
	from := r.state
	if want, ok := next[from]; !ok || want != to {
		r.mu.Unlock()
		return fmt.Errorf("invalid transition %s -> %s", from, to)
	}
	r.state = to
	r.history = append(r.history, to)
	r.mu.Unlock()

	r.logger.Debug(ctx, "Run %s: %s -> %s", r.ID, from, to)
	if r.observer != nil {
		r.observer(r, from, to)
	}
	return nil
}

// fail moves the run to StateErrored and returns the StageError for the
// stage that was being attempted.
func (r *Run) fail(ctx context.Context, attempted State, err error) error {
	stageErr := &StageError{Stage: attempted, Err: err}

	r.mu.Lock()
	from := r.state
	r.state = StateErrored
	r.history = append(r.history, StateErrored)
	r.err = stageErr
	r.mu.Unlock()

	r.logger.Error(ctx, "Run %s failed during %s: %v", r.ID, attempted.stage(), err)
	if r.observer != nil {
		r.observer(r, from, StateErrored)
	}
	return stageErr
}

// StageError reports which stage of the pipeline failed.
type StageError struct {
	Stage State
	Err   error
}

func (e *StageError) Error() string {
	return e.Stage.stage() + " failed: " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}
