package telemetry

import (
	"sort"
	"sync"
	"time"
)

const (
	HealthStatusOK       = "ok"
	HealthStatusDegraded = "degraded"
)

type ComponentHealth struct {
	Name      string    `json:"name"`
	Healthy   bool      `json:"healthy"`
	Detail    string    `json:"detail,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type HealthReport struct {
	Status     string            `json:"status"`
	Components []ComponentHealth `json:"components,omitempty"`
}

// HealthTracker aggregates the health of named components. The overall status
// is degraded while any component is unhealthy.
type HealthTracker struct {
	mu         sync.RWMutex
	components map[string]ComponentHealth
	now        func() time.Time
}

func NewHealthTracker() *HealthTracker {
	return &HealthTracker{
		components: make(map[string]ComponentHealth),
		now:        time.Now,
	}
}

func (h *HealthTracker) MarkHealthy(name string) {
	h.set(name, true, "")
}

func (h *HealthTracker) MarkUnhealthy(name string, detail string) {
	h.set(name, false, detail)
}

func (h *HealthTracker) set(name string, healthy bool, detail string) {
	if h == nil {
		return
	}
	h.mu.Lock()
	h.components[name] = ComponentHealth{
		Name:      name,
		Healthy:   healthy,
		Detail:    detail,
		UpdatedAt: h.now(),
	}
	h.mu.Unlock()
}

func (h *HealthTracker) Report() HealthReport {
	if h == nil {
		return HealthReport{Status: HealthStatusOK}
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	report := HealthReport{Status: HealthStatusOK}
	for _, c := range h.components {
		report.Components = append(report.Components, c)
		if !c.Healthy {
			report.Status = HealthStatusDegraded
		}
	}
	sort.Slice(report.Components, func(i, j int) bool {
		return report.Components[i].Name < report.Components[j].Name
	})
	return report
}
