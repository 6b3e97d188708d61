package ports

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrDuplicateChecker is returned when a checker name is already taken.
	ErrDuplicateChecker = errors.New("duplicate health checker")

	// ErrUnnamedChecker is returned for a checker with an empty name.
	ErrUnnamedChecker = errors.New("health checker has no name")
)

// HealthChecker reports whether one dependency is usable. The quotes API
// client is the one the UI registers: it is healthy when the API root
// answers 2xx.
type HealthChecker interface {
	// Name keys the check in readiness output, e.g. "quotes-api".
	Name() string

	// Check returns nil when healthy. It must honour ctx.
	Check(ctx context.Context) error
}

// HealthRegistry runs the registered checks for the readiness probe.
type HealthRegistry interface {
	Register(checker HealthChecker) error
	CheckAll(ctx context.Context) *HealthResult
}

// HealthStatus is the outcome of a check or of the whole probe.
type HealthStatus string

// Health statuses.
const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResult aggregates one readiness probe. Status is unhealthy if any
// check is.
type HealthResult struct {
	Status    HealthStatus            `json:"status"`
	Checks    map[string]*CheckResult `json:"checks"`
	Timestamp time.Time               `json:"timestamp"`
}

// CheckResult is the outcome of one check.
type CheckResult struct {
	Status    HealthStatus `json:"status"`
	Message   string       `json:"message,omitempty"`
	LatencyMS int64        `json:"latencyMs"`
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithCheckTimeout bounds every check. A slow dependency then reports
// unhealthy instead of stalling the probe.
func WithCheckTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) { r.timeout = d }
}

// Registry is the concurrent-safe HealthRegistry. Checks run in parallel and
// are reported under their names in registration order.
type Registry struct {
	mu       sync.RWMutex
	checkers []HealthChecker
	timeout  time.Duration
	now      func() time.Time
}

var _ HealthRegistry = (*Registry)(nil)

// NewHealthRegistry returns an empty registry.
func NewHealthRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds checker. Names are unique.
func (r *Registry) Register(checker HealthChecker) error {
	name := checker.Name()
	if name == "" {
		return ErrUnnamedChecker
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.checkers {
		if c.Name() == name {
			return fmt.Errorf("%w: %s", ErrDuplicateChecker, name)
		}
	}

	r.checkers = append(r.checkers, checker)

	return nil
}

// CheckAll runs every check and waits for all of them.
func (r *Registry) CheckAll(ctx context.Context) *HealthResult {
	r.mu.RLock()
	checkers := append([]HealthChecker(nil), r.checkers...)
	r.mu.RUnlock()

	results := make([]*CheckResult, len(checkers))

	var g errgroup.Group

	for i, checker := range checkers {
		g.Go(func() error {
			results[i] = r.run(ctx, checker)
			return nil
		})
	}

	_ = g.Wait()

	out := &HealthResult{
		Status:    HealthStatusHealthy,
		Checks:    make(map[string]*CheckResult, len(checkers)),
		Timestamp: r.now(),
	}

	for i, checker := range checkers {
		out.Checks[checker.Name()] = results[i]

		if results[i].Status == HealthStatusUnhealthy {
			out.Status = HealthStatusUnhealthy
		}
	}

	return out
}

func (r *Registry) run(ctx context.Context, checker HealthChecker) *CheckResult {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)

		defer cancel()
	}

	start := r.now()
	err := checker.Check(ctx)

	res := &CheckResult{
		Status:    HealthStatusHealthy,
		LatencyMS: r.now().Sub(start).Milliseconds(),
	}

	if err != nil {
		res.Status = HealthStatusUnhealthy
		res.Message = err.Error()
	}

	return res
}
