package securephotos

import (
	"context"
	"slices"

	healthuc "github.com/kailas-cloud/securephotos/internal/usecase/health"
)

// HealthStatus summarizes the client's dependencies.
type HealthStatus struct {
	OK      bool
	Failing []string // sorted names of failed components
}

// Health pings the vector store.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)

	h := HealthStatus{OK: report.Status == healthuc.Healthy}
	for name, res := range report.Checks {
		if res != healthuc.CheckOK {
			h.Failing = append(h.Failing, name)
		}
	}
	slices.Sort(h.Failing)
	return h
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
