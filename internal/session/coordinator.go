package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/careers-portal/internal/logging"
	"github.com/jonathan/careers-portal/internal/metrics"
	"github.com/jonathan/careers-portal/internal/types"
)

const flagTrue = "true"

// Session is the decoded view of one visitor's record.
type Session struct {
	ID       string          `json:"-"`
	LoggedIn bool            `json:"logged_in"`
	Token    string          `json:"-"`
	User     json.RawMessage `json:"user,omitempty"`
	Pending  *types.Job      `json:"pending_application,omitempty"`
}

// Authenticated reports whether the session holds a usable API login.
func (s *Session) Authenticated() bool {
	return s != nil && s.LoggedIn && s.Token != ""
}

// Coordinator is the single writer of session records.
type Coordinator struct {
	store Store
	log   *logging.Logger
}

// NewCoordinator creates a Coordinator over store.
func NewCoordinator(store Store, log *logging.Logger) *Coordinator {
	if log == nil {
		log = logging.NewNop()
	}
	return &Coordinator{store: store, log: log.With("component", "session")}
}

// Load decodes the session record. Unknown sessions are anonymous and empty.
func (c *Coordinator) Load(ctx context.Context, id string) (*Session, error) {
	fields, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:       id,
		LoggedIn: fields[FieldFlag] == flagTrue,
		Token:    fields[FieldToken],
	}
	if u := fields[FieldUser]; u != "" {
		s.User = json.RawMessage(u)
	}
	if p := fields[FieldPending]; p != "" {
		var job types.Job
		if err := json.Unmarshal([]byte(p), &job); err != nil {
			c.log.Warn("discarding unreadable pending application", "session", id, "error", err)
		} else {
			s.Pending = &job
		}
	}
	return s, nil
}

// IsAuthenticated reports whether the session is logged in.
func (c *Coordinator) IsAuthenticated(ctx context.Context, id string) (bool, error) {
	s, err := c.Load(ctx, id)
	if err != nil {
		return false, err
	}
	return s.Authenticated(), nil
}

// Login stores the API token, the logged-in flag and the user blob.
func (c *Coordinator) Login(ctx context.Context, id, token string, user json.RawMessage) error {
	fields := map[string]string{
		FieldToken: token,
		FieldFlag:  flagTrue,
	}
	if len(user) > 0 {
		fields[FieldUser] = string(user)
	}
	if err := c.store.Set(ctx, id, fields); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return nil
}

// Logout clears the login. A pending application is kept.
func (c *Coordinator) Logout(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, id, FieldToken, FieldFlag, FieldUser); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// StashPending stores job as the session's pending application, replacing any previous one.
func (c *Coordinator) StashPending(ctx context.Context, id string, job types.Job) error {
	blob, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode pending application: %w", err)
	}
	if err := c.store.Set(ctx, id, map[string]string{FieldPending: string(blob)}); err != nil {
		return fmt.Errorf("stash pending application: %w", err)
	}
	metrics.PendingApplications.WithLabelValues("stashed").Inc()
	return nil
}

// TakePending removes and returns the pending application, or nil when the slot is empty.
func (c *Coordinator) TakePending(ctx context.Context, id string) (*types.Job, error) {
	blob, ok, err := c.store.Take(ctx, id, FieldPending)
	if err != nil {
		return nil, fmt.Errorf("take pending application: %w", err)
	}
	if !ok || blob == "" {
		return nil, nil
	}

	var job types.Job
	if err := json.Unmarshal([]byte(blob), &job); err != nil {
		c.log.Warn("discarding unreadable pending application", "session", id, "error", err)
		return nil, nil
	}
	metrics.PendingApplications.WithLabelValues("restored").Inc()
	return &job, nil
}

// HasPending reports whether a pending application is waiting.
func (c *Coordinator) HasPending(ctx context.Context, id string) (bool, error) {
	fields, err := c.store.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return fields[FieldPending] != "", nil
}
