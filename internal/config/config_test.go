package config

import (
    "testing"
    "time"

    "github.com/rs/zerolog"
    "github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
    for _, k := range []string{"AMAZONS_ADDR", "AMAZONS_CELL_SIZE", "AMAZONS_HEARTBEAT", "AMAZONS_LOG_LEVEL", "AMAZONS_ORIGINS"} {
        t.Setenv(k, "")
    }
    cfg := Load()
    require.Equal(t, ":8080", cfg.HTTPAddr)
    require.Equal(t, 60, cfg.CellSize)
    require.Equal(t, 15*time.Second, cfg.Heartbeat)
    require.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
    require.Empty(t, cfg.Origins)
}

func TestLoadOverrides(t *testing.T) {
    t.Setenv("AMAZONS_ADDR", "127.0.0.1:9000")
    t.Setenv("AMAZONS_CELL_SIZE", "48")
    t.Setenv("AMAZONS_HEARTBEAT", "3")
    t.Setenv("AMAZONS_LOG_LEVEL", "debug")
    t.Setenv("AMAZONS_ORIGINS", "http://localhost:9000, https://amazons.example,")
    cfg := Load()
    require.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
    require.Equal(t, 48, cfg.CellSize)
    require.Equal(t, 3*time.Second, cfg.Heartbeat)
    require.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
    require.Equal(t, []string{"http://localhost:9000", "https://amazons.example"}, cfg.Origins)
}

func TestLoadIgnoresBadValues(t *testing.T) {
    t.Setenv("AMAZONS_CELL_SIZE", "-5")
    t.Setenv("AMAZONS_HEARTBEAT", "soon")
    t.Setenv("AMAZONS_LOG_LEVEL", "loud")
    cfg := Load()
    require.Equal(t, 60, cfg.CellSize)
    require.Equal(t, 15*time.Second, cfg.Heartbeat)
    require.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
}
