package apply

import (
	"sync"
	"time"

	"github.com/jonathan/careers-portal/internal/logging"
)

// Dialogs holds one Dialog per session.
type Dialogs struct {
	deps *dialogDeps
	now  func() time.Time

	mu      sync.Mutex
	dialogs map[string]*dialogEntry
}

type dialogEntry struct {
	dialog   *Dialog
	lastUsed time.Time
}

// NewDialogs creates a registry. maxImageBytes <= 0 uses DefaultMaxImageBytes.
func NewDialogs(remote Remote, maxImageBytes int64, log *logging.Logger) *Dialogs {
	if maxImageBytes <= 0 {
		maxImageBytes = DefaultMaxImageBytes
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Dialogs{
		deps: &dialogDeps{
			remote:        remote,
			maxImageBytes: maxImageBytes,
			log:           log.With("component", "apply"),
		},
		now:     time.Now,
		dialogs: make(map[string]*dialogEntry),
	}
}

// For returns the session's dialog, creating a closed one if needed.
func (r *Dialogs) For(sessionID string) *Dialog {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.dialogs[sessionID]
	if !ok {
		e = &dialogEntry{dialog: &Dialog{deps: r.deps}}
		r.dialogs[sessionID] = e
	}
	e.lastUsed = r.now()
	return e.dialog
}

// Sweep forgets closed dialogs idle for longer than maxIdle.
func (r *Dialogs) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxIdle)
	n := 0
	for id, e := range r.dialogs {
		if e.lastUsed.Before(cutoff) && e.dialog.State() == StateClosed {
			delete(r.dialogs, id)
			n++
		}
	}
	return n
}

// Len returns the number of tracked dialogs.
func (r *Dialogs) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.dialogs)
}
