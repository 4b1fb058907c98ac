package catalog

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"toolsapp/internal/domain"
	infraCatalog "toolsapp/internal/infra/catalog"
	"toolsapp/internal/infra/telemetry"
)

const healthComponent = "catalog"

// ProviderOptions tunes a DynamicCatalogProvider.
type ProviderOptions struct {
	Logger  *zap.Logger
	Metrics domain.Metrics
	Health  *telemetry.HealthTracker
	// Debounce overrides the configured reload debounce when positive.
	Debounce time.Duration
}

// DynamicCatalogProvider loads the catalog and reloads it when the config
// file or a locale bundle changes. Settings are read once at startup.
type DynamicCatalogProvider struct {
	logger     *zap.Logger
	loader     *infraCatalog.Loader
	metrics    domain.Metrics
	health     *telemetry.HealthTracker
	configPath string
	settings   domain.Settings
	debounce   time.Duration

	state    atomic.Value
	revision atomic.Uint64

	subsMu sync.Mutex
	subs   map[chan domain.CatalogUpdate]struct{}

	reloadMu  sync.Mutex
	watchOnce sync.Once
	watchCtx  context.Context
	watchDone chan struct{}
}

// NewDynamicCatalogProvider loads the catalog at configPath. The watcher, once
// started by Watch, runs until ctx is done.
func NewDynamicCatalogProvider(ctx context.Context, configPath string, opts ProviderOptions) (*DynamicCatalogProvider, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}

	loader := infraCatalog.NewLoader(logger)
	result, err := loader.Load(ctx, configPath)
	if err != nil {
		metrics.ObserveCatalogReload(domain.CatalogUpdateSourceBootstrap, domain.CatalogReloadFailure)
		return nil, err
	}
	state, err := domain.NewCatalogState(result.Catalog, 1, time.Now())
	if err != nil {
		return nil, err
	}
	metrics.ObserveCatalogReload(domain.CatalogUpdateSourceBootstrap, domain.CatalogReloadSuccess)
	opts.Health.MarkHealthy(healthComponent)

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = time.Duration(result.Settings.Watch.DebounceMs) * time.Millisecond
	}
	if debounce <= 0 {
		debounce = time.Duration(domain.DefaultCatalogReloadDebounceMs) * time.Millisecond
	}

	provider := &DynamicCatalogProvider{
		logger:     logger.Named("catalog_provider"),
		loader:     loader,
		metrics:    metrics,
		health:     opts.Health,
		configPath: configPath,
		settings:   result.Settings,
		debounce:   debounce,
		subs:       make(map[chan domain.CatalogUpdate]struct{}),
		watchCtx:   ctx,
		watchDone:  make(chan struct{}),
	}
	provider.state.Store(state)
	provider.revision.Store(state.Revision)
	return provider, nil
}

// Settings returns the settings read at startup.
func (p *DynamicCatalogProvider) Settings() domain.Settings {
	return p.settings
}

// Snapshot returns the current catalog snapshot.
func (p *DynamicCatalogProvider) Snapshot(ctx context.Context) (domain.CatalogState, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return domain.CatalogState{}, err
		}
	}
	state := p.state.Load().(domain.CatalogState)
	return state, nil
}

// Watch subscribes to catalog updates. The file watcher starts with the first
// subscription.
func (p *DynamicCatalogProvider) Watch(ctx context.Context) (<-chan domain.CatalogUpdate, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ch := make(chan domain.CatalogUpdate, 1)
	p.subsMu.Lock()
	p.subs[ch] = struct{}{}
	p.subsMu.Unlock()

	p.watchOnce.Do(func() {
		go p.runWatcher(p.watchCtx)
	})

	go func() {
		<-ctx.Done()
		p.subsMu.Lock()
		delete(p.subs, ch)
		p.subsMu.Unlock()
	}()

	return ch, nil
}

// WatchDone is closed once the file watcher has stopped.
func (p *DynamicCatalogProvider) WatchDone() <-chan struct{} {
	return p.watchDone
}

// Reload forces a catalog reload.
func (p *DynamicCatalogProvider) Reload(ctx context.Context) error {
	return p.reload(ctx, domain.CatalogUpdateSourceManual)
}

func (p *DynamicCatalogProvider) reload(ctx context.Context, source domain.CatalogUpdateSource) error {
	p.reloadMu.Lock()
	defer p.reloadMu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}

	prev := p.state.Load().(domain.CatalogState)
	catalogData, err := p.loader.LoadCatalog(ctx, p.configPath)
	if err != nil {
		p.metrics.ObserveCatalogReload(source, domain.CatalogReloadFailure)
		p.health.MarkUnhealthy(healthComponent, err.Error())
		return err
	}

	nextRevision := p.revision.Load() + 1
	next, err := domain.NewCatalogState(catalogData, nextRevision, time.Now())
	if err != nil {
		p.metrics.ObserveCatalogReload(source, domain.CatalogReloadFailure)
		return err
	}
	p.metrics.ObserveCatalogReload(source, domain.CatalogReloadSuccess)
	p.health.MarkHealthy(healthComponent)

	diff := domain.DiffCatalogStates(prev, next)
	if diff.IsEmpty() {
		return nil
	}

	p.revision.Store(nextRevision)
	p.state.Store(next)
	p.logger.Info("catalog reloaded",
		telemetry.EventField(telemetry.EventCatalogReload),
		telemetry.RevisionField(nextRevision),
		zap.String("source", string(source)),
		zap.Int("tools", len(catalogData.Tools)),
	)
	p.broadcast(domain.CatalogUpdate{
		Snapshot: next,
		Diff:     diff,
		Source:   source,
	})
	return nil
}

func (p *DynamicCatalogProvider) broadcast(update domain.CatalogUpdate) {
	subs := p.copySubscribers()
	for _, ch := range subs {
		select {
		case ch <- update:
		default:
			// Replace a stale pending update so subscribers see the latest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- update:
			default:
			}
		}
	}
}

func (p *DynamicCatalogProvider) copySubscribers() []chan domain.CatalogUpdate {
	p.subsMu.Lock()
	defer p.subsMu.Unlock()

	out := make([]chan domain.CatalogUpdate, 0, len(p.subs))
	for ch := range p.subs {
		out = append(out, ch)
	}
	return out
}

func (p *DynamicCatalogProvider) runWatcher(ctx context.Context) {
	defer close(p.watchDone)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.logger.Warn("config watcher failed", zap.Error(err))
		return
	}
	defer watcher.Close()

	for _, path := range p.watchPaths() {
		if err := watcher.Add(path); err != nil {
			p.logger.Warn("config watcher add failed", telemetry.PathField(path), zap.Error(err))
		}
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			if err != nil {
				p.logger.Warn("config watcher error", zap.Error(err))
			}
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !p.shouldReload(event.Name) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(p.debounce)
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(p.debounce)
		case <-timerChan(timer):
			timer = nil
			if err := p.reload(ctx, domain.CatalogUpdateSourceWatch); err != nil {
				p.logger.Warn("config reload failed",
					telemetry.EventField(telemetry.EventCatalogReloadError),
					zap.Error(err),
				)
			}
		}
	}
}

func (p *DynamicCatalogProvider) watchPaths() []string {
	paths := []string{filepath.Dir(p.configPath)}
	if dir := p.settings.LocalesDir; dir != "" && filepath.Clean(dir) != filepath.Clean(paths[0]) {
		paths = append(paths, dir)
	}
	return paths
}

func (p *DynamicCatalogProvider) shouldReload(path string) bool {
	if shouldReloadForPath(path, p.configPath) {
		return true
	}
	dir := p.settings.LocalesDir
	if dir == "" || path == "" {
		return false
	}
	if filepath.Dir(filepath.Clean(path)) != filepath.Clean(dir) {
		return false
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".toml":
		return true
	default:
		return false
	}
}

func shouldReloadForPath(path string, configPath string) bool {
	if path == "" || configPath == "" {
		return false
	}
	return filepath.Clean(path) == filepath.Clean(configPath)
}

func timerChan(timer *time.Timer) <-chan time.Time {
	if timer == nil {
		return nil
	}
	return timer.C
}
