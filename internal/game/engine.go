package game

import (
	"log"
	"sync"
	"time"

	"tower-defense/internal/config"
)

// SessionState is the lifecycle of one game session. The only transition is
// Running -> Ended, taken when player health reaches zero.
type SessionState int

const (
	StateRunning SessionState = iota
	StateEnded
)

// String returns a human-readable session state
func (s SessionState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// EngineConfig bundles the knobs NewEngine needs
type EngineConfig struct {
	TickRate    int
	WorldWidth  float64
	WorldHeight float64
	SpawnX      float64
	SpawnY      float64
	Limits      config.ResourceLimits
}

// Engine is the frame driver. It exclusively owns the world; every mutation
// happens under its lock, from either the tick loop or a command. One frame
// is one pass through the fixed system order:
//
//	monsters -> towers -> bullets -> terminal check
//
// Monster and bullet removal is compacted inline within each system's pass,
// so by the time bullets revalidate their target indices, the monster
// collection is already this frame's post-compaction set.
type Engine struct {
	mu    sync.RWMutex
	world *World
	state SessionState

	tickRate int
	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}

	tickCount uint64

	worldWidth  float64
	worldHeight float64

	limits config.ResourceLimits

	// Snapshot system for lock-free render separation
	snapshotPool *SnapshotPool

	// Event sourcing for replay and debugging
	eventLog *EventLog

	// Event callbacks
	OnKill     func(totalKills int)
	OnGameOver func(totalKills int)

	// Per-tick metrics hook, called outside the hot path conventions of the
	// api package to avoid an import cycle
	onTick func(duration time.Duration, snap *GameSnapshot)
}

// NewEngine creates a new game engine. Zero-valued config fields fall back to
// the package defaults so tests can construct engines tersely.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.TickRate <= 0 {
		cfg.TickRate = config.DefaultGame().TickRate
	}
	if cfg.WorldWidth <= 0 || cfg.WorldHeight <= 0 {
		g := config.DefaultGame()
		cfg.WorldWidth = g.WorldWidth
		cfg.WorldHeight = g.WorldHeight
	}
	if cfg.SpawnX == 0 && cfg.SpawnY == 0 {
		g := config.DefaultGame()
		cfg.SpawnX = g.SpawnX
		cfg.SpawnY = g.SpawnY
	}
	if cfg.Limits == (config.ResourceLimits{}) {
		cfg.Limits = config.DefaultLimits()
	}

	e := &Engine{
		world:        NewWorld(cfg.SpawnX, cfg.SpawnY),
		state:        StateRunning,
		tickRate:     cfg.TickRate,
		stopChan:     make(chan struct{}),
		worldWidth:   cfg.WorldWidth,
		worldHeight:  cfg.WorldHeight,
		limits:       cfg.Limits,
		snapshotPool: NewSnapshotPool(cfg.Limits),
		eventLog:     NewEventLog(),
	}

	// Publish a snapshot of the untouched world so readers that arrive before
	// the first tick see the seed waypoint and full player health.
	e.produceSnapshot()
	return e
}

// Start begins the game loop
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	e.ticker = time.NewTicker(time.Second / time.Duration(e.tickRate))

	go func() {
		for {
			select {
			case <-e.ticker.C:
				e.tick()
			case <-e.stopChan:
				return
			}
		}
	}()

	log.Printf("engine started at %d TPS (%gx%g world)", e.tickRate, e.worldWidth, e.worldHeight)
}

// Stop stops the game loop
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}

	e.running = false
	if e.ticker != nil {
		e.ticker.Stop()
	}
	close(e.stopChan)
	log.Println("engine stopped")
}

// tick is called at tickRate times per second
func (e *Engine) tick() {
	start := time.Now()

	e.mu.Lock()
	dt := 1.0 / float64(e.tickRate)
	e.step(dt)
	snap := e.snapshotPool.AcquireRead()
	onTick := e.onTick
	e.mu.Unlock()

	if onTick != nil {
		onTick(time.Since(start), snap)
	}
}

// Step advances the simulation by an explicit time slice. This is the same
// pipeline the ticker drives, exposed so tests and replays can run the frame
// pipeline deterministically.
func (e *Engine) Step(dt float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.step(dt)
}

func (e *Engine) step(dt float64) {
	if e.state != StateRunning || dt < 0 {
		return
	}

	e.tickCount++
	w := e.world

	e.eventLog.EmitSimple(EventTypeTick, e.tickCount, TickPayload{
		MonsterCount: len(w.Monsters),
		BulletCount:  len(w.Bullets),
		DeltaTimeNs:  int64(dt * 1e9),
	})

	// Monster pass. Removal is swap-with-last; the slot is re-examined on the
	// next iteration because it now holds the not-yet-processed tail monster.
	for i := 0; i < len(w.Monsters); i++ {
		healthBefore := w.PlayerHealth
		if !UpdateMonster(&w.Monsters[i], dt, w.Waypoints, &w.PlayerHealth) {
			m := w.Monsters[i]
			w.removeMonster(i)
			w.Kills++
			i--

			if w.PlayerHealth < healthBefore {
				e.eventLog.EmitSimple(EventTypeBreach, e.tickCount, BreachPayload{
					Damage:       m.Damage,
					PlayerHealth: w.PlayerHealth,
				})
			} else {
				e.eventLog.EmitSimple(EventTypeMonsterKilled, e.tickCount, KillPayload{
					X:          m.X,
					Y:          m.Y,
					Health:     m.Health,
					TotalKills: w.Kills,
				})
			}
			if e.OnKill != nil {
				go e.OnKill(w.Kills)
			}
		}
	}

	// Tower pass. Towers only read monsters and append bullets; nothing is
	// removed here.
	for i := range w.Towers {
		tower := i
		UpdateTower(&w.Towers[i], dt, w.Monsters, func(b Bullet) {
			e.fireBullet(tower, b)
		})
	}

	// Bullet pass, against this frame's post-compaction monster set.
	for i := 0; i < len(w.Bullets); i++ {
		if !UpdateBullet(&w.Bullets[i], dt, w.Monsters) {
			w.removeBullet(i)
			i--
		}
	}

	if w.PlayerHealth <= 0 {
		e.state = StateEnded
		log.Printf("game over after %d ticks (%d kills)", e.tickCount, w.Kills)
		e.eventLog.EmitSimple(EventTypeGameOver, e.tickCount, GameOverPayload{
			TotalKills: w.Kills,
			Ticks:      e.tickCount,
		})
		if e.OnGameOver != nil {
			go e.OnGameOver(w.Kills)
		}
	}

	e.produceSnapshot()
}

// fireBullet is the sink handed to the tower system. The bullet cap bounds
// memory; a dropped bullet still cost the tower its cooldown, which is
// acceptable under flood conditions.
func (e *Engine) fireBullet(towerIndex int, b Bullet) {
	if len(e.world.Bullets) >= e.limits.MaxBullets {
		return
	}
	e.world.Bullets = append(e.world.Bullets, b)
	e.eventLog.EmitSimple(EventTypeShotFired, e.tickCount, ShotPayload{
		TowerIndex:  towerIndex,
		TargetIndex: b.TargetIndex,
		X:           b.X,
		Y:           b.Y,
		Damage:      b.Damage,
	})
}

// SpawnMonster adds a monster at the seed waypoint. Returns false if the
// session has ended or the monster cap is reached.
func (e *Engine) SpawnMonster() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateRunning {
		return false
	}
	if len(e.world.Monsters) >= e.limits.MaxMonsters {
		log.Printf("monster limit reached (%d), spawn dropped", e.limits.MaxMonsters)
		return false
	}

	idx := e.world.SpawnMonster()
	m := e.world.Monsters[idx]
	e.eventLog.EmitSimple(EventTypeMonsterSpawn, e.tickCount, SpawnPayload{
		X:      m.X,
		Y:      m.Y,
		Health: m.Health,
		Damage: m.Damage,
	})
	return true
}

// PlaceWaypoint appends a waypoint to the path. Waypoints are never removed
// or reordered once placed.
func (e *Engine) PlaceWaypoint(x, y float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateRunning || !e.inBounds(x, y) {
		return false
	}
	if len(e.world.Waypoints) >= e.limits.MaxWaypoints {
		log.Printf("waypoint limit reached (%d), placement dropped", e.limits.MaxWaypoints)
		return false
	}

	idx := e.world.AddWaypoint(x, y)
	e.eventLog.EmitSimple(EventTypeWaypointPlaced, e.tickCount, PlacementPayload{X: x, Y: y, Index: idx})
	return true
}

// PlaceTower places a tower with the fixed range and fire rate.
func (e *Engine) PlaceTower(x, y float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateRunning || !e.inBounds(x, y) {
		return false
	}
	if len(e.world.Towers) >= e.limits.MaxTowers {
		log.Printf("tower limit reached (%d), placement dropped", e.limits.MaxTowers)
		return false
	}

	idx := e.world.AddTower(x, y)
	e.eventLog.EmitSimple(EventTypeTowerPlaced, e.tickCount, PlacementPayload{X: x, Y: y, Index: idx})
	return true
}

func (e *Engine) inBounds(x, y float64) bool {
	return x >= 0 && x <= e.worldWidth && y >= 0 && y <= e.worldHeight
}

// Stats is the display-facing aggregate state
type Stats struct {
	Monsters     int    `json:"monsters"`
	Waypoints    int    `json:"waypoints"`
	Towers       int    `json:"towers"`
	Bullets      int    `json:"bullets"`
	Kills        int    `json:"kills"`
	PlayerHealth int    `json:"playerHealth"`
	GameOver     bool   `json:"gameOver"`
	State        string `json:"state"`
	Tick         uint64 `json:"tick"`
}

// GetStats returns current aggregate state for display
func (e *Engine) GetStats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return Stats{
		Monsters:     len(e.world.Monsters),
		Waypoints:    len(e.world.Waypoints),
		Towers:       len(e.world.Towers),
		Bullets:      len(e.world.Bullets),
		Kills:        e.world.Kills,
		PlayerHealth: e.world.PlayerHealth,
		GameOver:     e.state == StateEnded,
		State:        e.state.String(),
		Tick:         e.tickCount,
	}
}

// GameOver reports whether the session has reached its terminal state.
// The enclosing loop decides what to do with it; the engine itself keeps
// accepting reads and simply stops stepping.
func (e *Engine) GameOver() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state == StateEnded
}

// State returns the current session state
func (e *Engine) State() SessionState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// World exposes the live world for tests that need to arrange exact entity
// layouts. Callers must not retain the pointer across Step calls from other
// goroutines; production code reads snapshots instead.
func (e *Engine) World() *World {
	return e.world
}

// GetLimits returns the current resource limits
func (e *Engine) GetLimits() config.ResourceLimits {
	return e.limits
}

// WorldSize returns the playfield dimensions
func (e *Engine) WorldSize() (width, height float64) {
	return e.worldWidth, e.worldHeight
}

// SetTickCallback registers a hook invoked after every ticker-driven frame
// with the tick duration and the freshly published snapshot. Used for metrics
// and WebSocket broadcast wiring.
func (e *Engine) SetTickCallback(fn func(duration time.Duration, snap *GameSnapshot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onTick = fn
}

// GetSnapshot returns the latest immutable snapshot for lock-free reads.
// This is the preferred method for render and API paths.
func (e *Engine) GetSnapshot() *GameSnapshot {
	return e.snapshotPool.AcquireRead()
}

// produceSnapshot creates an immutable snapshot of the current game state.
// Called at the end of each step while the lock is held.
func (e *Engine) produceSnapshot() {
	snap := e.snapshotPool.AcquireWrite()
	w := e.world

	snap.TickNumber = e.tickCount
	snap.Kills = w.Kills
	snap.PlayerHealth = w.PlayerHealth
	snap.GameOver = e.state == StateEnded

	for _, m := range w.Monsters {
		if len(snap.Monsters) >= e.limits.MaxMonsters {
			break
		}
		frac := float64(m.Health) / float64(MonsterMaxHealth)
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		snap.Monsters = append(snap.Monsters, MonsterSnapshot{
			X:             m.X,
			Y:             m.Y,
			Health:        m.Health,
			MaxHealth:     MonsterMaxHealth,
			HealthFrac:    frac,
			WaypointIndex: m.WaypointIndex,
		})
	}

	for _, wp := range w.Waypoints {
		if len(snap.Waypoints) >= e.limits.MaxWaypoints {
			break
		}
		snap.Waypoints = append(snap.Waypoints, WaypointSnapshot{X: wp.X, Y: wp.Y})
	}

	for _, t := range w.Towers {
		if len(snap.Towers) >= e.limits.MaxTowers {
			break
		}
		snap.Towers = append(snap.Towers, TowerSnapshot{X: t.X, Y: t.Y, Range: t.Range})
	}

	for _, b := range w.Bullets {
		if len(snap.Bullets) >= e.limits.MaxBullets {
			break
		}
		snap.Bullets = append(snap.Bullets, BulletSnapshot{X: b.X, Y: b.Y})
	}

	snap.MonsterCount = len(snap.Monsters)
	snap.WaypointCount = len(snap.Waypoints)
	snap.TowerCount = len(snap.Towers)
	snap.BulletCount = len(snap.Bullets)

	e.snapshotPool.PublishWrite()
}

// StartEventLog initializes the event logging system
func (e *Engine) StartEventLog(filePath string) error {
	return e.eventLog.Start(filePath)
}

// StopEventLog gracefully stops the event logging system
func (e *Engine) StopEventLog() {
	e.eventLog.Stop()
}

// GetEventLogStats returns event log statistics for monitoring
func (e *Engine) GetEventLogStats() map[string]interface{} {
	return e.eventLog.GetStats()
}
