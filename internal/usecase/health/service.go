package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/securephotos/internal/logger"
)

// DefaultTimeout bounds each individual check.
const DefaultTimeout = 3 * time.Second

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

type namedChecker struct {
	name    string
	checker Checker
}

// Service coordinates health checks.
type Service struct {
	checkers []namedChecker
	timeout  time.Duration
}

// New creates a Service with no checks.
func New(timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{timeout: timeout}
}

// Register adds a named check. Nil checkers are ignored.
func (s *Service) Register(name string, c Checker) *Service {
	if c != nil {
		s.checkers = append(s.checkers, namedChecker{name: name, checker: c})
	}
	return s
}

// Check runs all checks concurrently.
func (s *Service) Check(ctx context.Context) Report {
	var (
		mu     sync.Mutex
		checks = make(map[string]CheckResult, len(s.checkers))
	)
	log := logger.FromContext(ctx)

	// Checks never return errors to the group so one failure does not cancel the rest.
	var g errgroup.Group
	for _, nc := range s.checkers {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			res := CheckOK
			if err := nc.checker.Ping(cctx); err != nil {
				log.Warn("Health check failed", zap.String("check", nc.name), zap.Error(err))
				res = CheckError
			}

			mu.Lock()
			checks[nc.name] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
