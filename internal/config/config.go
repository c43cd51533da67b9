// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all game and server settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
)

// =============================================================================
// GAME CONFIGURATION
// =============================================================================

// GameConfig holds the simulation settings shared by the engine and renderer.
type GameConfig struct {
	TickRate    int     // Simulation ticks per second
	WorldWidth  float64 // Playfield width in world units (pixels)
	WorldHeight float64 // Playfield height in world units (pixels)
	SpawnX      float64 // Seed waypoint position; monsters spawn here
	SpawnY      float64
}

// DefaultGame returns the default game configuration.
func DefaultGame() GameConfig {
	return GameConfig{
		TickRate:    30,
		WorldWidth:  1600,
		WorldHeight: 900,
		SpawnX:      150,
		SpawnY:      150,
	}
}

// GameFromEnv returns game configuration with environment variable overrides.
// Environment variables take precedence over defaults.
func GameFromEnv() GameConfig {
	cfg := DefaultGame()

	if tr := getEnvInt("TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}
	if w := getEnvFloat("WORLD_WIDTH", 0); w > 0 {
		cfg.WorldWidth = w
	}
	if h := getEnvFloat("WORLD_HEIGHT", 0); h > 0 {
		cfg.WorldHeight = h
	}

	return cfg
}

// =============================================================================
// GAME RESOURCE LIMITS
// =============================================================================

// ResourceLimits controls DoS protection and performance limits.
// Commands that would grow a collection past its cap are silently dropped.
type ResourceLimits struct {
	MaxMonsters  int // Hard cap on live monsters
	MaxWaypoints int // Hard cap on path length
	MaxTowers    int // Hard cap on placed towers
	MaxBullets   int // Hard cap on bullets in flight
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		MaxMonsters:  1000,
		MaxWaypoints: 200,
		MaxTowers:    200,
		MaxBullets:   2000,
	}
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port: 3000,
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Game   GameConfig
	Server ServerConfig
	Limits ResourceLimits
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Game:   GameFromEnv(),
		Server: ServerFromEnv(),
		Limits: DefaultLimits(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
