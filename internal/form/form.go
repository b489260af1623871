// Package form drives a single submission: validate locally, send once,
// then hand control to a success callback after a short delay.
package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/investdesk/desk/internal/apiclient"
	"github.com/investdesk/desk/internal/validate"
)

const (
	// DefaultSuccessDelay is how long the success state is shown before OnSuccess runs.
	DefaultSuccessDelay = 1500 * time.Millisecond
	// FallbackMessage is shown when a failure carries no usable message.
	FallbackMessage = "Something went wrong. Please try again."
)

var (
	// ErrInvalid means local validation failed and nothing was sent.
	ErrInvalid = errors.New("form has invalid fields")
	// ErrBusy means a submission is already in flight.
	ErrBusy = errors.New("form is already submitting")
	// ErrAlreadySubmitted means the form succeeded and will not send again.
	ErrAlreadySubmitted = errors.New("form was already submitted")
)

// Submitter sends validated values to the backend.
type Submitter func(ctx context.Context, values validate.Values) error

// Check is an extra whole-form validation run after the schema.
type Check func(values validate.Values) validate.Errors

// State is a snapshot of a Form.
type State struct {
	Values      validate.Values
	Errors      validate.Errors
	Submitting  bool
	Succeeded   bool
	SubmitError string
}

// Option configures a Form.
type Option func(*Form)

// WithValues sets the initial values.
func WithValues(v validate.Values) Option {
	return func(f *Form) { f.values = v.Clone() }
}

// WithSuccessDelay replaces DefaultSuccessDelay.
func WithSuccessDelay(d time.Duration) Option {
	return func(f *Form) { f.delay = d }
}

// WithScheduler replaces time.AfterFunc for running the success callback.
func WithScheduler(after func(d time.Duration, fn func()) (stop func() bool)) Option {
	return func(f *Form) { f.after = after }
}

// OnSuccess registers the callback run once, after the success delay.
func OnSuccess(fn func()) Option {
	return func(f *Form) { f.onSuccess = fn }
}

// WithCheck adds a cross-field validation.
func WithCheck(c Check) Option {
	return func(f *Form) { f.checks = append(f.checks, c) }
}

// WithFallback replaces FallbackMessage.
func WithFallback(msg string) Option {
	return func(f *Form) { f.fallback = msg }
}

// Form is a submission controller. It is safe for concurrent use.
type Form struct {
	schema    validate.Schema
	submit    Submitter
	checks    []Check
	onSuccess func()
	delay     time.Duration
	after     func(time.Duration, func()) func() bool
	fallback  string

	mu          sync.Mutex
	values      validate.Values
	errors      validate.Errors
	submitting  bool
	succeeded   bool
	submitError string
	stopPending func() bool
}

// New creates a Form over schema that sends with submit.
func New(schema validate.Schema, submit Submitter, opts ...Option) *Form {
	f := &Form{
		schema:   schema,
		submit:   submit,
		delay:    DefaultSuccessDelay,
		fallback: FallbackMessage,
		values:   validate.Values{},
		errors:   validate.Errors{},
		after: func(d time.Duration, fn func()) func() bool {
			return time.AfterFunc(d, fn).Stop
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Schema returns the form's field list.
func (f *Form) Schema() validate.Schema {
	return f.schema
}

// Set changes one value and clears that field's error.
func (f *Form) Set(field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[field] = value
	delete(f.errors, field)
}

// Update changes several values at once.
func (f *Form) Update(values validate.Values) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, v := range values {
		f.values[k] = v
		delete(f.errors, k)
	}
}

// Touch validates a single field, as on blur, and records the result.
func (f *Form) Touch(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg := f.schema.ValidateField(field, f.values)
	if msg == "" {
		delete(f.errors, field)
	} else {
		f.errors[field] = msg
	}
	return msg
}

// State returns a snapshot.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	errs := make(validate.Errors, len(f.errors))
	for k, v := range f.errors {
		errs[k] = v
	}
	return State{
		Values:      f.values.Clone(),
		Errors:      errs,
		Submitting:  f.submitting,
		Succeeded:   f.succeeded,
		SubmitError: f.submitError,
	}
}

// Validate runs the schema and cross-field checks without sending.
func (f *Form) Validate() validate.Errors {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = f.validateLocked()
	return f.errors
}

func (f *Form) validateLocked() validate.Errors {
	errs := f.schema.Validate(f.values)
	for _, c := range f.checks {
		for k, v := range c(f.values) {
			if _, ok := errs[k]; !ok {
				errs[k] = v
			}
		}
	}
	return errs
}

// Submit validates and, if clean, sends the values exactly once.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	switch {
	case f.succeeded:
		f.mu.Unlock()
		return ErrAlreadySubmitted
	case f.submitting:
		f.mu.Unlock()
		return ErrBusy
	}
	errs := f.validateLocked()
	f.errors = errs
	if !errs.Empty() {
		f.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrInvalid, errs)
	}
	f.submitting = true
	f.submitError = ""
	values := f.values.Clone()
	f.mu.Unlock()

	err := f.submit(ctx, values)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if err != nil {
		f.submitError = apiclient.Message(err, f.fallback)
		if f.submitError == "" {
			f.submitError = f.fallback
		}
		return err
	}
	f.succeeded = true
	if f.onSuccess != nil {
		f.stopPending = f.after(f.delay, f.onSuccess)
	}
	return nil
}

// Close cancels a pending success callback.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopPending != nil {
		f.stopPending()
		f.stopPending = nil
	}
}
