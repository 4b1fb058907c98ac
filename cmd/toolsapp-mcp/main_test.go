package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"toolsapp/internal/domain"
)

func TestRun_RejectsInvalidProfile(t *testing.T) {
	err := run(context.Background(), mcpOptions{profile: "../etc"})
	require.ErrorIs(t, err, domain.ErrInvalidProfile)
}
