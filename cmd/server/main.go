package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"tower-defense/internal/api"
	"tower-defense/internal/config"
	"tower-defense/internal/game"
	"tower-defense/internal/render"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables only")
	}

	appConfig := config.Load()
	gameCfg := appConfig.Game
	serverCfg := appConfig.Server

	log.Printf("Config: %d TPS, world %.0fx%.0f, spawn (%.0f, %.0f)",
		gameCfg.TickRate, gameCfg.WorldWidth, gameCfg.WorldHeight, gameCfg.SpawnX, gameCfg.SpawnY)

	engine := game.NewEngine(game.EngineConfig{
		TickRate:    gameCfg.TickRate,
		WorldWidth:  gameCfg.WorldWidth,
		WorldHeight: gameCfg.WorldHeight,
		SpawnX:      gameCfg.SpawnX,
		SpawnY:      gameCfg.SpawnY,
		Limits:      appConfig.Limits,
	})
	limits := engine.GetLimits()
	log.Printf("Resource limits: %d monsters, %d waypoints, %d towers, %d bullets",
		limits.MaxMonsters, limits.MaxWaypoints, limits.MaxTowers, limits.MaxBullets)

	eventLogPath := getEnvWithDefault("EVENT_LOG_PATH", "events.jsonl")
	if err := engine.StartEventLog(eventLogPath); err != nil {
		log.Printf("Event log disabled: %v", err)
	} else {
		log.Printf("Event log: %s", eventLogPath)
	}

	debugCfg := api.DefaultObservabilityConfig()
	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		if err := api.StartDebugServer(debugCfg); err != nil {
			log.Printf("Debug server disabled: %v", err)
		}
	}

	renderer := render.NewRenderer(int(gameCfg.WorldWidth), int(gameCfg.WorldHeight))
	server := api.NewServer(engine, renderer)

	// Feed tick timings and entity gauges into the metrics registry.
	engine.SetTickCallback(func(tickDuration time.Duration, snap *game.GameSnapshot) {
		api.RecordTick(tickDuration)
		api.UpdateEntityGauges(snap.MonsterCount, snap.TowerCount, snap.BulletCount, snap.PlayerHealth, snap.Kills)
	})

	engine.OnGameOver = func(kills int) {
		log.Printf("Game over after %d kills", kills)
	}

	engine.Start()
	log.Println("Game engine started")

	go func() {
		addr := ":" + strconv.Itoa(serverCfg.Port)
		log.Printf("API server on http://localhost%s", addr)
		if err := server.Start(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("Server ready. Press Ctrl+C to stop.")
	<-quit

	log.Println("Shutting down...")
	server.Stop()
	engine.StopEventLog()
	engine.Stop()
}

func getEnvWithDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
