package careers

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonathan/careers-portal/internal/logging"
	"github.com/jonathan/careers-portal/internal/metrics"
	"github.com/jonathan/careers-portal/internal/types"
)

// DefaultPageSize is the number of jobs requested per refresh.
const DefaultPageSize = 100

// JobSource fetches job requisitions from the remote API.
type JobSource interface {
	ListJobs(ctx context.Context, req types.JobListRequest) ([]types.Job, error)
}

// Catalog holds the in-memory job collection and a memoized filtered view.
type Catalog struct {
	src      JobSource
	pageSize int
	log      *logging.Logger
	group    singleflight.Group

	attempted atomic.Bool
	loadOnce  sync.Once

	mu      sync.RWMutex
	jobs    []types.Job
	version uint64

	memoMu   sync.Mutex
	memo     memoEntry
	computes int
}

type memoEntry struct {
	valid    bool
	version  uint64
	criteria Criteria
	result   []types.Job
}

// NewCatalog creates an empty catalog backed by src.
func NewCatalog(src JobSource, pageSize int, log *logging.Logger) *Catalog {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Catalog{
		src:      src,
		pageSize: pageSize,
		log:      log.With("component", "catalog"),
		jobs:     []types.Job{},
	}
}

// Refresh fetches the first page of jobs and replaces the collection.
// On failure the collection is left as it was. Concurrent calls share one
// fetch, which is not cancelled when a waiting caller's ctx is done.
func (c *Catalog) Refresh(ctx context.Context) error {
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan("refresh", func() (any, error) {
		return nil, c.fetch(fetchCtx)
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

func (c *Catalog) fetch(ctx context.Context) error {
	defer c.attempted.Store(true)

	jobs, err := c.src.ListJobs(ctx, types.JobListRequest{Skip: 0, Limit: c.pageSize})
	if err != nil {
		metrics.CatalogRefreshes.WithLabelValues("failure").Inc()
		c.log.Error("failed to fetch jobs", "error", err)
		return err
	}

	c.mu.Lock()
	c.jobs = jobs
	c.version++
	version := c.version
	c.mu.Unlock()

	metrics.CatalogRefreshes.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.CatalogJobs.Set(float64(len(jobs)))
	c.log.Info("job collection refreshed", "jobs", len(jobs), "version", version)
	return nil
}

// EnsureLoaded fetches the collection unless a fetch was already attempted.
// A failed fetch is logged and leaves the collection empty; later fetches
// are left to Run.
func (c *Catalog) EnsureLoaded(ctx context.Context) {
	if c.attempted.Load() {
		return
	}
	c.loadOnce.Do(func() {
		if !c.attempted.Load() {
			_ = c.Refresh(ctx)
		}
	})
}

// Run refreshes immediately and then every interval until ctx is done.
// A zero interval refreshes once.
func (c *Catalog) Run(ctx context.Context, interval time.Duration) {
	_ = c.Refresh(ctx)
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = c.Refresh(ctx)
		}
	}
}

// Snapshot returns the current collection and its version.
// The returned slice must not be modified.
func (c *Catalog) Snapshot() ([]types.Job, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.jobs, c.version
}

// Version returns the collection version; it changes on every successful refresh.
func (c *Catalog) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Job looks up a job by id.
func (c *Catalog) Job(id int64) (types.Job, bool) {
	jobs, _ := c.Snapshot()
	for _, job := range jobs {
		if job.ID == id {
			return job, true
		}
	}
	return types.Job{}, false
}

// Filtered returns the jobs matching criteria. The result is recomputed only
// when the collection version or the normalized criteria change.
func (c *Catalog) Filtered(criteria Criteria) []types.Job {
	criteria = criteria.Normalize()
	jobs, version := c.Snapshot()

	c.memoMu.Lock()
	defer c.memoMu.Unlock()

	if !c.memo.valid || c.memo.version != version || c.memo.criteria != criteria {
		c.memo = memoEntry{
			valid:    true,
			version:  version,
			criteria: criteria,
			result:   Filter(jobs, criteria),
		}
		c.computes++
	}
	return slices.Clone(c.memo.result)
}

// Facets returns the filter options of the current collection.
func (c *Catalog) Facets() Facets {
	jobs, _ := c.Snapshot()
	return FacetsOf(jobs)
}
