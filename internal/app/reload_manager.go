package app

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"toolsapp/internal/app/toolstore"
	"toolsapp/internal/domain"
	"toolsapp/internal/infra/telemetry"
)

// ReloadManager applies catalog updates from the provider to the tool stores.
type ReloadManager struct {
	provider   domain.CatalogProvider
	registry   *toolstore.Registry
	logger     *zap.Logger
	appliedRev atomic.Uint64
}

// NewReloadManager constructs a reload manager.
func NewReloadManager(provider domain.CatalogProvider, registry *toolstore.Registry, logger *zap.Logger) *ReloadManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReloadManager{
		provider: provider,
		registry: registry,
		logger:   logger.Named("reload"),
	}
}

// Run applies updates until ctx is done.
func (m *ReloadManager) Run(ctx context.Context) error {
	updates, err := m.provider.Watch(ctx)
	if err != nil {
		return err
	}
	if snapshot, err := m.provider.Snapshot(ctx); err == nil {
		m.appliedRev.Store(snapshot.Revision)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			m.apply(update)
		}
	}
}

// AppliedRevision returns the revision of the catalog the stores serve.
func (m *ReloadManager) AppliedRevision() uint64 {
	return m.appliedRev.Load()
}

func (m *ReloadManager) apply(update domain.CatalogUpdate) {
	if update.Diff.IsEmpty() || update.Snapshot.Revision <= m.appliedRev.Load() {
		return
	}
	m.registry.ApplyCatalog(update.Snapshot.Catalog)
	m.appliedRev.Store(update.Snapshot.Revision)

	m.logger.Info("catalog update applied",
		telemetry.EventField(telemetry.EventCatalogReload),
		telemetry.RevisionField(update.Snapshot.Revision),
		zap.String("source", string(update.Source)),
		zap.Int("tools", len(update.Snapshot.Catalog.Tools)),
		zap.Int("added", len(update.Diff.AddedPaths)),
		zap.Int("removed", len(update.Diff.RemovedPaths)),
		zap.Int("updated", len(update.Diff.UpdatedPaths)),
		zap.Bool("messagesChanged", update.Diff.MessagesChanged),
	)
}
