package game

import (
	"encoding/json"
	"time"
)

// EventType enum for event classification
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeTick              // Tick boundary
	EventTypeMonsterSpawn
	EventTypeWaypointPlaced
	EventTypeTowerPlaced
	EventTypeShotFired
	EventTypeMonsterKilled
	EventTypeBreach // Monster reached the final waypoint
	EventTypeGameOver
)

// EventVersion for backwards compatibility in replay
const EventVersion uint8 = 1

// Event is the core event structure for the event log
type Event struct {
	Version   uint8     `json:"version"`   // Schema version
	Type      EventType `json:"type"`      // Event type
	Timestamp int64     `json:"timestamp"` // Unix nano
	Sequence  uint64    `json:"sequence"`  // Monotonic sequence
	TickNum   uint64    `json:"tickNum"`   // Game tick this occurred in
	Payload   []byte    `json:"payload"`   // JSON-encoded payload
}

// String returns human-readable event type
func (t EventType) String() string {
	switch t {
	case EventTypeTick:
		return "tick"
	case EventTypeMonsterSpawn:
		return "monster_spawn"
	case EventTypeWaypointPlaced:
		return "waypoint_placed"
	case EventTypeTowerPlaced:
		return "tower_placed"
	case EventTypeShotFired:
		return "shot_fired"
	case EventTypeMonsterKilled:
		return "monster_killed"
	case EventTypeBreach:
		return "breach"
	case EventTypeGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Typed payloads for different event types

// TickPayload contains tick boundary information for replay
type TickPayload struct {
	MonsterCount int   `json:"monsterCount"`
	BulletCount  int   `json:"bulletCount"`
	DeltaTimeNs  int64 `json:"deltaTimeNs"`
}

// SpawnPayload contains monster spawn details
type SpawnPayload struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Health int     `json:"health"`
	Damage int     `json:"damage"`
}

// PlacementPayload covers waypoint and tower placement commands
type PlacementPayload struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Index int     `json:"index"`
}

// ShotPayload contains tower fire details
type ShotPayload struct {
	TowerIndex  int     `json:"towerIndex"`
	TargetIndex int     `json:"targetIndex"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Damage      int     `json:"damage"`
}

// KillPayload contains monster removal details
type KillPayload struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Health     int     `json:"health"`
	TotalKills int     `json:"totalKills"`
}

// BreachPayload contains goal-reached details
type BreachPayload struct {
	Damage       int `json:"damage"`
	PlayerHealth int `json:"playerHealth"`
}

// GameOverPayload contains terminal-state details
type GameOverPayload struct {
	TotalKills int    `json:"totalKills"`
	Ticks      uint64 `json:"ticks"`
}

// EncodePayload marshals a payload to JSON bytes
func EncodePayload(payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, tickNum uint64, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		TickNum:   tickNum,
		Payload:   EncodePayload(payload),
	}
}
