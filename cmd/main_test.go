package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iplstats/internal/config"
)

func TestRootCmdRejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"unexpected"})

	err := cmd.Execute()
	require.Error(t, err)
}

func TestRootCmdHasNoFlags(t *testing.T) {
	cmd := newRootCmd()
	assert.False(t, cmd.HasAvailableLocalFlags())
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := config.New()
	cfg.Seasons = nil

	err := run(context.Background(), cfg)
	assert.ErrorIs(t, err, config.ErrNoSeasons)
}
