package game

import (
	"sync/atomic"
	"time"

	"tower-defense/internal/config"
)

// MonsterSnapshot is an immutable copy of monster state for rendering.
// HealthFrac is clamped to [0, 1] for display even though the live value may
// briefly be negative after an impact.
type MonsterSnapshot struct {
	X, Y          float64
	Health        int
	MaxHealth     int
	HealthFrac    float64
	WaypointIndex int
}

// WaypointSnapshot is an immutable waypoint for rendering
type WaypointSnapshot struct {
	X, Y float64
}

// TowerSnapshot is an immutable tower for rendering; Range drives the attack
// radius outline.
type TowerSnapshot struct {
	X, Y  float64
	Range float64
}

// BulletSnapshot is an immutable bullet for rendering
type BulletSnapshot struct {
	X, Y float64
}

// GameSnapshot is a complete immutable game state for rendering and the API.
// All slices are pre-allocated and capped by the resource limits.
type GameSnapshot struct {
	Sequence   uint64    // Monotonic sequence for ordering
	Timestamp  time.Time // When snapshot was created
	TickNumber uint64    // Game tick this represents

	Monsters  []MonsterSnapshot
	Waypoints []WaypointSnapshot
	Towers    []TowerSnapshot
	Bullets   []BulletSnapshot

	// Aggregate stats for display
	MonsterCount  int
	WaypointCount int
	TowerCount    int
	BulletCount   int
	Kills         int
	PlayerHealth  int
	GameOver      bool
}

// SnapshotPool pre-allocates snapshots to avoid GC pressure.
// Uses triple buffering for lock-free producer/consumer.
type SnapshotPool struct {
	snapshots [3]GameSnapshot // Triple buffer
	limits    config.ResourceLimits
	writeIdx  uint32 // atomic - producer index
	readIdx   uint32 // atomic - consumer index
	sequence  uint64 // atomic - monotonic sequence
}

// NewSnapshotPool creates a pool with pre-allocated slices
func NewSnapshotPool(limits config.ResourceLimits) *SnapshotPool {
	pool := &SnapshotPool{limits: limits}

	for i := 0; i < 3; i++ {
		pool.snapshots[i] = GameSnapshot{
			Monsters:  make([]MonsterSnapshot, 0, limits.MaxMonsters),
			Waypoints: make([]WaypointSnapshot, 0, limits.MaxWaypoints),
			Towers:    make([]TowerSnapshot, 0, limits.MaxTowers),
			Bullets:   make([]BulletSnapshot, 0, limits.MaxBullets),
		}
	}

	return pool
}

// AcquireWrite gets the next write slot (producer only, called from the game
// tick). Returns a snapshot with reset slices but preserved capacity.
func (p *SnapshotPool) AcquireWrite() *GameSnapshot {
	idx := atomic.AddUint32(&p.writeIdx, 1) % 3
	snap := &p.snapshots[idx]

	snap.Monsters = snap.Monsters[:0]
	snap.Waypoints = snap.Waypoints[:0]
	snap.Towers = snap.Towers[:0]
	snap.Bullets = snap.Bullets[:0]

	snap.Sequence = atomic.AddUint64(&p.sequence, 1)
	snap.Timestamp = time.Now()

	return snap
}

// PublishWrite marks write complete and advances the read pointer.
// Called after the snapshot is fully populated.
func (p *SnapshotPool) PublishWrite() {
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
}

// AcquireRead gets the latest complete snapshot (consumer only).
func (p *SnapshotPool) AcquireRead() *GameSnapshot {
	idx := atomic.LoadUint32(&p.readIdx) % 3
	return &p.snapshots[idx]
}

// GetLimits returns the resource limits
func (p *SnapshotPool) GetLimits() config.ResourceLimits {
	return p.limits
}
