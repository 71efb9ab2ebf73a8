package apply

import (
	"context"
	"fmt"

	"github.com/jonathan/careers-portal/internal/logging"
	"github.com/jonathan/careers-portal/internal/session"
	"github.com/jonathan/careers-portal/internal/types"
)

// Login gate notices and redirects.
const (
	LoginNotice          = "Please login to apply for this job"
	LoginPath            = "/login"
	JobsPath             = "/jobs"
	RestoreJobsPath      = "/jobs?apply=true"
	RestoreQueryParam    = "apply"
	RestoreQueryParamSet = "true"
)

// Outcome is the result of an apply request.
type Outcome struct {
	// LoginRequired is set when the job was stashed for after login.
	LoginRequired bool   `json:"login_required"`
	Notice        string `json:"notice,omitempty"`
	Redirect      string `json:"redirect,omitempty"`
	Dialog        *View  `json:"dialog,omitempty"`
}

// Gate decides whether an apply intent opens the dialog now or after login.
type Gate struct {
	sessions *session.Coordinator
	dialogs  *Dialogs
	log      *logging.Logger
}

// NewGate creates a Gate.
func NewGate(sessions *session.Coordinator, dialogs *Dialogs, log *logging.Logger) *Gate {
	if log == nil {
		log = logging.NewNop()
	}
	return &Gate{sessions: sessions, dialogs: dialogs, log: log.With("component", "apply_gate")}
}

// Apply opens the dialog for job when the session is logged in. Otherwise the
// job becomes the session's pending application and the visitor is sent to login.
func (g *Gate) Apply(ctx context.Context, sessionID string, job types.Job) (Outcome, error) {
	sess, err := g.sessions.Load(ctx, sessionID)
	if err != nil {
		return Outcome{}, fmt.Errorf("apply: %w", err)
	}

	if !sess.Authenticated() {
		if err := g.sessions.StashPending(ctx, sessionID, job); err != nil {
			return Outcome{}, fmt.Errorf("apply: %w", err)
		}
		g.log.Debug("apply deferred until login", "session", sessionID, "job", job.ID)
		return Outcome{LoginRequired: true, Notice: LoginNotice, Redirect: LoginPath}, nil
	}

	view := g.dialogs.For(sessionID).Open(ctx, job, sess)
	return Outcome{Dialog: &view}, nil
}

// Restore opens the dialog for the pending application when signal is set.
// The pending slot is consumed, so a repeated signal opens nothing. It
// returns nil when nothing was restored.
func (g *Gate) Restore(ctx context.Context, sessionID string, signal bool) (*View, error) {
	if !signal {
		return nil, nil
	}

	sess, err := g.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}
	job, err := g.sessions.TakePending(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}
	if job == nil {
		return nil, nil
	}
	g.log.Debug("restoring pending application", "session", sessionID, "job", job.ID)
	view := g.dialogs.For(sessionID).Open(ctx, *job, sess)
	return &view, nil
}

// LoginRedirect is where a successful login should send the visitor.
func (g *Gate) LoginRedirect(ctx context.Context, sessionID string) (string, error) {
	pending, err := g.sessions.HasPending(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if pending {
		return RestoreJobsPath, nil
	}
	return JobsPath, nil
}
