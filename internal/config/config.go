package config

import (
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/rs/zerolog"
)

// Config holds the server settings read from the environment.
type Config struct {
    HTTPAddr  string
    CellSize  int
    Heartbeat time.Duration
    LogLevel  zerolog.Level
    // Origins allowed to open the websocket feed. Empty means same host only.
    Origins []string
}

func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func getenvInt(key string, def int) int {
    if v := os.Getenv(key); v != "" {
        if i, err := strconv.Atoi(v); err == nil && i > 0 {
            return i
        }
    }
    return def
}

func getenvList(key string) []string {
    var out []string
    for _, v := range strings.Split(os.Getenv(key), ",") {
        if v = strings.TrimSpace(v); v != "" {
            out = append(out, v)
        }
    }
    return out
}

// Load reads AMAZONS_* environment variables, falling back to defaults.
func Load() Config {
    lvl, err := zerolog.ParseLevel(getenv("AMAZONS_LOG_LEVEL", "info"))
    if err != nil {
        lvl = zerolog.InfoLevel
    }
    return Config{
        HTTPAddr:  getenv("AMAZONS_ADDR", ":8080"),
        CellSize:  getenvInt("AMAZONS_CELL_SIZE", 60),
        Heartbeat: time.Duration(getenvInt("AMAZONS_HEARTBEAT", 15)) * time.Second,
        LogLevel:  lvl,
        Origins:   getenvList("AMAZONS_ORIGINS"),
    }
}
