package app

import "toolsapp/internal/domain"

// ObservabilityOptions overrides the observability settings of the config
// file. Nil fields keep the configured value.
type ObservabilityOptions struct {
	MetricsEnabled *bool
	HealthzEnabled *bool
}

// resolveObservability applies, in order, the config file, the
// TOOLSAPP_METRICS_ENABLED / TOOLSAPP_HEALTHZ_ENABLED environment and the
// command line.
func resolveObservability(cfg domain.ObservabilityConfig, opts *ObservabilityOptions) (bool, bool) {
	metricsEnabled, healthzEnabled := cfg.MetricsEnabled, cfg.HealthzEnabled
	if v, ok := envBoolOptional("TOOLSAPP_METRICS_ENABLED"); ok {
		metricsEnabled = v
	}
	if v, ok := envBoolOptional("TOOLSAPP_HEALTHZ_ENABLED"); ok {
		healthzEnabled = v
	}
	if opts != nil {
		if opts.MetricsEnabled != nil {
			metricsEnabled = *opts.MetricsEnabled
		}
		if opts.HealthzEnabled != nil {
			healthzEnabled = *opts.HealthzEnabled
		}
	}
	return metricsEnabled, healthzEnabled
}
