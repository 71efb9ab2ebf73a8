// Package apply coordinates applying for a job: the login gate with its
// deferred intent, and the application dialog.
package apply

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jonathan/careers-portal/internal/api"
	"github.com/jonathan/careers-portal/internal/logging"
	"github.com/jonathan/careers-portal/internal/metrics"
	"github.com/jonathan/careers-portal/internal/session"
	"github.com/jonathan/careers-portal/internal/types"
)

// DefaultMaxImageBytes is the upload limit for the optional application image.
const DefaultMaxImageBytes int64 = 5 << 20

var (
	// ErrDialogClosed is returned when submitting without an open dialog.
	ErrDialogClosed = errors.New("application dialog is not open")
	// ErrProfileLoading is returned when submitting before the form is pre-filled.
	ErrProfileLoading = errors.New("profile still loading")
)

// State is the dialog's lifecycle state.
type State int

const (
	StateClosed State = iota
	StateLoadingProfile
	StateReady
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateLoadingProfile:
		return "loading_profile"
	case StateReady:
		return "ready"
	case StateSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for _, candidate := range []State{StateClosed, StateLoadingProfile, StateReady, StateSubmitting} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown dialog state %q", text)
}

// Remote is the part of the API the dialog needs.
type Remote interface {
	GetProfile(ctx context.Context, token string) (*types.Profile, error)
	CreateApplication(ctx context.Context, token string, req types.ApplicationRequest) (*types.StatusResponse, error)
}

// View is a snapshot of the dialog for rendering.
type View struct {
	State    State                 `json:"state"`
	Job      *types.Job            `json:"job,omitempty"`
	Defaults types.ApplicationForm `json:"defaults"`
	Errors   types.FieldErrors     `json:"errors,omitempty"`
	Notice   string                `json:"notice,omitempty"`
}

// SubmitResult describes what a Submit call did.
type SubmitResult struct {
	// Ignored is set when a submission was already in flight.
	Ignored   bool              `json:"ignored,omitempty"`
	Submitted bool              `json:"submitted"`
	Notice    string            `json:"notice,omitempty"`
	Errors    types.FieldErrors `json:"errors,omitempty"`
}

type dialogDeps struct {
	remote        Remote
	maxImageBytes int64
	log           *logging.Logger
}

// Dialog is one visitor's application dialog.
type Dialog struct {
	deps *dialogDeps

	mu          sync.Mutex
	state       State
	gen         uint64
	job         *types.Job
	defaults    types.ApplicationForm
	candidateID *int64
	errors      types.FieldErrors
	notice      string
}

// View returns a snapshot of the dialog.
func (d *Dialog) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewLocked()
}

func (d *Dialog) viewLocked() View {
	v := View{State: d.state, Defaults: d.defaults, Errors: d.errors, Notice: d.notice}
	if d.job != nil {
		job := *d.job
		v.Job = &job
	}
	return v
}

// State returns the current state.
func (d *Dialog) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Open targets the dialog at job and pre-fills the form from the candidate
// profile when sess is logged in. A failed profile fetch leaves the form blank.
func (d *Dialog) Open(ctx context.Context, job types.Job, sess *session.Session) View {
	d.mu.Lock()
	d.gen++
	gen := d.gen
	d.state = StateLoadingProfile
	d.job = &job
	d.defaults = types.ApplicationForm{}
	d.candidateID = nil
	d.errors = nil
	d.notice = ""
	d.mu.Unlock()

	defaults, candidateID := d.prefill(ctx, sess)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gen == gen && d.state == StateLoadingProfile {
		d.defaults = defaults
		d.candidateID = candidateID
		d.state = StateReady
	}
	return d.viewLocked()
}

func (d *Dialog) prefill(ctx context.Context, sess *session.Session) (types.ApplicationForm, *int64) {
	if !sess.Authenticated() {
		return types.ApplicationForm{}, nil
	}

	profile, err := d.deps.remote.GetProfile(ctx, sess.Token)
	if err != nil {
		d.deps.log.Warn("profile prefill failed", "session", sess.ID, "error", err)
		return types.ApplicationForm{}, nil
	}

	id := profile.ID
	return types.ApplicationForm{
		FullName:           profile.FullName,
		Email:              profile.LoginEmail,
		Phone:              profile.Phone,
		LinkedInProfileURL: profile.LinkedInProfileURL,
		Description:        profile.ProfileSummary,
	}, &id
}

// Submit validates form and sends it for the targeted job. While a submission
// is in flight further calls are ignored. Validation failures make no network call.
func (d *Dialog) Submit(ctx context.Context, form types.ApplicationForm, sess *session.Session) (SubmitResult, error) {
	d.mu.Lock()
	switch d.state {
	case StateSubmitting:
		d.mu.Unlock()
		return SubmitResult{Ignored: true}, nil
	case StateReady:
	case StateLoadingProfile:
		d.mu.Unlock()
		return SubmitResult{}, ErrProfileLoading
	default:
		d.mu.Unlock()
		return SubmitResult{}, ErrDialogClosed
	}

	if fe := d.validate(form); fe != nil {
		d.errors = fe
		d.notice = ""
		d.mu.Unlock()
		metrics.ApplicationsSubmitted.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return SubmitResult{Errors: fe}, nil
	}

	d.state = StateSubmitting
	d.errors = nil
	d.notice = ""
	gen := d.gen
	req := types.NewApplicationRequest(form, *d.job, d.candidateID)
	d.mu.Unlock()

	var token string
	if sess != nil {
		token = sess.Token
	}
	resp, err := d.deps.remote.CreateApplication(ctx, token, req)

	d.mu.Lock()
	defer d.mu.Unlock()
	stale := d.gen != gen

	if err != nil {
		notice := api.MessageOf(err)
		metrics.ApplicationsSubmitted.WithLabelValues(submitOutcome(err)).Inc()
		d.deps.log.Warn("application rejected", "job", req.JobRequisitionFID, "error", err)
		if !stale {
			d.state = StateReady
			d.notice = notice
		}
		return SubmitResult{Notice: notice}, nil
	}

	metrics.ApplicationsSubmitted.WithLabelValues(metrics.OutcomeSuccess).Inc()
	d.deps.log.Info("application submitted", "job", req.JobRequisitionFID)
	if !stale {
		d.closeLocked()
		d.notice = resp.Message
	}
	return SubmitResult{Submitted: true, Notice: resp.Message}, nil
}

func (d *Dialog) validate(form types.ApplicationForm) types.FieldErrors {
	fe := types.FieldErrors{}
	if err := form.Validate(); err != nil {
		var verrs types.FieldErrors
		if !errors.As(err, &verrs) {
			fe["form"] = err.Error()
			return fe
		}
		for k, v := range verrs {
			fe[k] = v
		}
	}
	if form.Image.Size() > d.deps.maxImageBytes {
		fe["image"] = fmt.Sprintf("File size must be under %dMB", d.deps.maxImageBytes>>20)
	}
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// Close returns the dialog to CLOSED from any state. A profile fetch or
// submission still in flight finishes but its result is discarded.
func (d *Dialog) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	d.closeLocked()
	d.notice = ""
}

func (d *Dialog) closeLocked() {
	d.state = StateClosed
	d.job = nil
	d.defaults = types.ApplicationForm{}
	d.candidateID = nil
	d.errors = nil
}

func submitOutcome(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Kind == api.KindBusiness {
		return metrics.OutcomeBusiness
	}
	return metrics.OutcomeTransport
}
