package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/della/internal/domain"
	"github.com/runoshun/della/internal/testutil"
	"github.com/runoshun/della/internal/usecase"
)

func TestShowConfig_Execute(t *testing.T) {
	t.Run("returns file info and effective config", func(t *testing.T) {
		manager := &testutil.MockConfigManager{Info: domain.ConfigInfo{
			Path:    "/home/test/.config/della/config.toml",
			Content: "[log]\nlevel = \"debug\"",
			Exists:  true,
		}}
		loader := testutil.NewMockConfigLoader()

		out, err := usecase.NewShowConfig(manager, loader).Execute(context.Background(), usecase.ShowConfigInput{})

		require.NoError(t, err)
		assert.Equal(t, manager.Info, out.Config)
		assert.Equal(t, loader.Config, out.EffectiveConfig)
	})

	t.Run("propagates load error", func(t *testing.T) {
		loader := testutil.NewMockConfigLoader()
		loader.LoadErr = assert.AnError

		_, err := usecase.NewShowConfig(&testutil.MockConfigManager{}, loader).Execute(context.Background(), usecase.ShowConfigInput{})

		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestInitConfig_Execute(t *testing.T) {
	t.Run("uses defaults when no config is given", func(t *testing.T) {
		manager := &testutil.MockConfigManager{Info: domain.ConfigInfo{Path: "/cfg/config.toml"}}

		out, err := usecase.NewInitConfig(manager).Execute(context.Background(), usecase.InitConfigInput{Force: true})

		require.NoError(t, err)
		assert.Equal(t, "/cfg/config.toml", out.Path)
		assert.Equal(t, domain.NewDefaultConfig(), manager.Inited)
		assert.True(t, manager.InitForce)
	})

	t.Run("returns ErrConfigExists", func(t *testing.T) {
		manager := &testutil.MockConfigManager{InitErr: domain.ErrConfigExists}

		_, err := usecase.NewInitConfig(manager).Execute(context.Background(), usecase.InitConfigInput{})

		assert.ErrorIs(t, err, domain.ErrConfigExists)
	})
}
