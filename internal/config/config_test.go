package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "8080", cfg.Port)
		require.Equal(t, StorePostgres, cfg.EngagementStore)
		require.Equal(t, 15*time.Minute, cfg.SnapshotTTL)
		require.Equal(t, "@every 15m", cfg.RefreshSchedule)
	})

	t.Run("mongo backend requires its url", func(t *testing.T) {
		t.Setenv("ENGAGEMENT_STORE", StoreMongo)
		_, err := Load()
		require.Error(t, err)

		t.Setenv("MONGODB_URL", "mongodb://localhost:27017")
		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, StoreMongo, cfg.EngagementStore)
	})

	t.Run("unknown backend is rejected", func(t *testing.T) {
		t.Setenv("ENGAGEMENT_STORE", "sqlite")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("malformed snapshot ttl is rejected", func(t *testing.T) {
		t.Setenv("SNAPSHOT_TTL", "soon")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("snapshot ttl override", func(t *testing.T) {
		t.Setenv("SNAPSHOT_TTL", "1h")
		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, time.Hour, cfg.SnapshotTTL)
	})
}
