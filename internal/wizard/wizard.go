// Package wizard orchestrates one registration session: step navigation
// gated by validation, draft save/load over both persistence channels,
// and the final submission state machine.
//
// The state machine is Editing(step) → Submitting → Complete. Complete is
// terminal except for an explicit Reset back to defaults. A second Submit
// while one is outstanding is rejected rather than retried.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"regwiz/internal/draft"
	"regwiz/internal/log"
	"regwiz/internal/registration"
	"regwiz/internal/registration/steps"
	"regwiz/internal/registration/store"
	"regwiz/internal/registration/validate"
)

// State is the wizard lifecycle state.
type State int

const (
	StateEditing State = iota
	StateSubmitting
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Backend is the remote collaborator contract, satisfied by api.Client.
type Backend interface {
	SaveDraft(ctx context.Context, f registration.FormData) error
	FetchDraft(ctx context.Context, email string) (registration.FormData, error)
	Submit(ctx context.Context, f registration.FormData) error
}

// ErrSubmitPending rejects a submission attempt while one is in flight.
var ErrSubmitPending = errors.New("a submission is already in progress")

// ErrComplete rejects operations on a finished wizard.
var ErrComplete = errors.New("registration already completed")

// ErrNoBackend reports that no remote API was configured.
var ErrNoBackend = errors.New("no registration backend configured")

// ErrNoLocalStore reports that local draft persistence is disabled.
var ErrNoLocalStore = errors.New("local draft storage not configured")

// ValidationError carries the field errors that blocked a submission.
type ValidationError struct {
	Result validate.Result
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("registration has %d validation errors", len(e.Result.Errors))
}

// NavResult reports the outcome of a navigation attempt.
type NavResult struct {
	// Moved is true when the wizard advanced (or went back) a step.
	Moved bool
	// AtEnd is true when Next was called on the last effective step:
	// the caller should submit instead of advancing.
	AtEnd bool
	// Validation holds the step's field errors when navigation was
	// blocked. Failed validation never advances the step.
	Validation validate.Result
}

// Wizard drives one registration session.
type Wizard struct {
	mu      sync.Mutex
	store   *store.Store
	local   *draft.LocalStore
	backend Backend
	state   State
	current steps.ID
}

// New creates a wizard over the given store. local and backend may be nil
// when the corresponding persistence channel is unavailable.
func New(st *store.Store, local *draft.LocalStore, backend Backend) *Wizard {
	return &Wizard{
		store:   st,
		local:   local,
		backend: backend,
		state:   StateEditing,
		current: steps.First(st.Data()),
	}
}

// Store exposes the form state container.
func (w *Wizard) Store() *store.Store {
	return w.store
}

// State returns the current lifecycle state.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Current returns the step being edited.
func (w *Wizard) Current() steps.ID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Sequence returns the effective step sequence for the live answers.
func (w *Wizard) Sequence() []steps.ID {
	return steps.EffectiveSequence(w.store.Data())
}

// Progress returns the 0..100 completion percentage of the current step
// within the current effective sequence.
func (w *Wizard) Progress() int {
	w.mu.Lock()
	current := w.current
	w.mu.Unlock()
	return steps.Progress(current, steps.EffectiveSequence(w.store.Data()))
}

// Next validates the current step and advances within the effective
// sequence. Skip rules run against the answers at navigation time, so a
// marital status edited a moment ago already reshapes the path.
func (w *Wizard) Next() NavResult {
	w.mu.Lock()
	defer w.mu.Unlock()

	data := w.store.Data()
	result := validate.Step(w.current, data)
	if !result.Valid() {
		log.Info(log.CatSteps, "Step blocked by validation", "step", w.current, "errors", len(result.Errors))
		return NavResult{Validation: result}
	}

	next, atEnd := steps.Next(w.current, data)
	if atEnd {
		return NavResult{AtEnd: true}
	}
	log.Debug(log.CatSteps, "Advancing step", "from", w.current, "to", next)
	w.current = next
	return NavResult{Moved: true}
}

// Back moves to the previous effective step. Moving back never validates:
// already-entered data is retained regardless.
func (w *Wizard) Back() NavResult {
	w.mu.Lock()
	defer w.mu.Unlock()

	prev := steps.Prev(w.current, w.store.Data())
	if prev == w.current {
		return NavResult{}
	}
	log.Debug(log.CatSteps, "Stepping back", "from", w.current, "to", prev)
	w.current = prev
	return NavResult{Moved: true}
}

// SaveDraftLocal persists the current state to the local channel.
func (w *Wizard) SaveDraftLocal() error {
	if w.local == nil {
		return ErrNoLocalStore
	}
	return w.local.Save(w.store.Data())
}

// LoadDraftLocal replaces the form state with the locally stored draft,
// if one exists, and repositions the wizard at the first step.
func (w *Wizard) LoadDraftLocal() (bool, error) {
	if w.local == nil {
		return false, ErrNoLocalStore
	}
	f, found, err := w.local.Load()
	if err != nil || !found {
		return found, err
	}
	w.replace(f)
	return true, nil
}

// SaveDraftRemote pushes the current state to the draft endpoint.
func (w *Wizard) SaveDraftRemote(ctx context.Context) error {
	if w.backend == nil {
		return ErrNoBackend
	}
	return w.backend.SaveDraft(ctx, w.store.Data())
}

// LoadDraftRemote replaces the form state with the draft stored under
// email. A missing draft surfaces as the backend's not-found error.
func (w *Wizard) LoadDraftRemote(ctx context.Context, email string) error {
	if w.backend == nil {
		return ErrNoBackend
	}
	f, err := w.backend.FetchDraft(ctx, email)
	if err != nil {
		return err
	}
	w.replace(f)
	return nil
}

func (w *Wizard) replace(f registration.FormData) {
	w.store.Replace(f)
	w.mu.Lock()
	w.current = steps.First(w.store.Data())
	w.state = StateEditing
	w.mu.Unlock()
}

// Submit runs the full cross-step validation gate and posts the finalized
// registration. On success the local draft is cleared and the wizard goes
// Complete; on failure the form state is untouched so the user can retry
// without re-entry.
func (w *Wizard) Submit(ctx context.Context) error {
	if w.backend == nil {
		return ErrNoBackend
	}

	w.mu.Lock()
	switch w.state {
	case StateSubmitting:
		w.mu.Unlock()
		return ErrSubmitPending
	case StateComplete:
		w.mu.Unlock()
		return ErrComplete
	}

	data := w.store.Data()
	if result := validate.All(data); !result.Valid() {
		w.mu.Unlock()
		log.Info(log.CatForm, "Submission blocked by validation", "errors", len(result.Errors))
		return &ValidationError{Result: result}
	}
	w.state = StateSubmitting
	w.mu.Unlock()

	err := w.backend.Submit(ctx, data)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.state = StateEditing
		return err
	}

	if w.local != nil {
		if clearErr := w.local.Clear(); clearErr != nil {
			// The registration went through; a stale local draft is
			// an annoyance, not a failure.
			log.ErrorErr(log.CatDraft, "Failed to clear local draft after submit", clearErr)
		}
	}
	w.state = StateComplete
	log.Info(log.CatForm, "Registration complete")
	return nil
}

// Reset clears everything back to defaults and returns to the first step.
// This is the only exit from the Complete state.
func (w *Wizard) Reset() {
	w.store.Reset()
	w.mu.Lock()
	w.current = steps.First(w.store.Data())
	w.state = StateEditing
	w.mu.Unlock()
}
