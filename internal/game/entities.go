package game

// World units are pixels; speeds are pixels per second.
const (
	MonsterSize    = 32.0
	WaypointRadius = 16.0
	TowerRadius    = 16.0
	BulletRadius   = 8.0

	MonsterSpeed = 100.0
	BulletSpeed  = 150.0

	// MonsterMaxHealth caps the health fraction reported in snapshots. It is
	// also the health monsters spawn with.
	MonsterMaxHealth = 100

	// MonsterSpawnDamage is dealt to the player when a monster reaches the
	// final waypoint.
	MonsterSpawnDamage = 5

	TowerAttackRange = 100.0
	TowerAttackRate  = 1.5 // seconds between shots
	BulletDamage     = 50

	// ArriveThreshold is the distance at or below which a monster counts as
	// having reached its targeted waypoint. The boundary is inclusive.
	ArriveThreshold = 2.0

	StartingPlayerHealth = 100
)

// Monster walks the waypoint path and damages the player if it reaches the
// end. WaypointIndex is the waypoint currently being approached, not the last
// one reached. Health may go negative after a bullet impact; the monster
// system treats any value <= 0 as dead on its next update.
type Monster struct {
	Health        int
	X, Y          float64
	VX, VY        float64
	WaypointIndex int
	Damage        int
}

// Waypoint is one stop on the path. Waypoints are append-only and never
// reordered; slice order is path order.
type Waypoint struct {
	X, Y float64
}

// Tower fires at the first monster in range once its cooldown has elapsed.
// Towers are never removed.
type Tower struct {
	X, Y  float64
	Range float64
	Rate  float64 // minimum seconds between shots
	Timer float64 // seconds accumulated since the last shot
}

// Bullet homes toward the monster at TargetIndex. The index is revalidated at
// the start of every update because monster compaction can invalidate it
// between frames. Velocity is recomputed from the target each update; the
// stored value carries no directional intent across frames.
type Bullet struct {
	X, Y        float64
	VX, VY      float64
	Damage      int
	TargetIndex int
}
