package app

import (
	"context"

	"toolsapp/internal/app/toolstore"
	"toolsapp/internal/infra/httpapi"
	"toolsapp/internal/infra/mcpserver"
)

type registryStores struct {
	registry *toolstore.Registry
}

// NewStores exposes the registry to the HTTP API.
func NewStores(registry *toolstore.Registry) httpapi.Stores {
	return registryStores{registry: registry}
}

func (s registryStores) Locales() []string {
	return s.registry.Locales()
}

func (s registryStores) ToolStore(ctx context.Context, profile, locale string) (httpapi.ToolStore, error) {
	store, err := s.registry.Store(ctx, profile, locale)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewMCPStoreFunc exposes the stores of profile to the MCP tools.
func NewMCPStoreFunc(registry *toolstore.Registry, profile string) mcpserver.StoreFunc {
	return func(ctx context.Context, locale string) (mcpserver.ToolStore, error) {
		store, err := registry.Store(ctx, profile, locale)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}
