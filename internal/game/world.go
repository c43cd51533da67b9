package game

// World owns every entity collection plus the session-scoped player state.
// Entities are identified only by their current slice index. Removal is
// swap-with-last-and-pop, so indices are order-unstable and must never be
// held across a compaction pass; each frame's systems see a fresh snapshot of
// indices and bullets revalidate theirs on every update.
type World struct {
	Monsters  []Monster
	Waypoints []Waypoint
	Towers    []Tower
	Bullets   []Bullet

	// PlayerHealth is decremented only by monsters reaching the final
	// waypoint. It never goes below zero.
	PlayerHealth int

	// Kills counts every monster removed during the monster pass, whether it
	// died to bullet damage or by reaching the goal.
	Kills int
}

// NewWorld creates a world with the seed waypoint in place so monsters always
// have a spawn point.
func NewWorld(spawnX, spawnY float64) *World {
	return &World{
		Waypoints:    []Waypoint{{X: spawnX, Y: spawnY}},
		PlayerHealth: StartingPlayerHealth,
	}
}

// SpawnMonster appends a monster at the first waypoint and returns its index.
func (w *World) SpawnMonster() int {
	w.Monsters = append(w.Monsters, Monster{
		Health: MonsterMaxHealth,
		X:      w.Waypoints[0].X,
		Y:      w.Waypoints[0].Y,
		Damage: MonsterSpawnDamage,
	})
	return len(w.Monsters) - 1
}

// AddWaypoint extends the path and returns the new waypoint's index.
func (w *World) AddWaypoint(x, y float64) int {
	w.Waypoints = append(w.Waypoints, Waypoint{X: x, Y: y})
	return len(w.Waypoints) - 1
}

// AddTower places a tower with the fixed range and fire rate and returns its
// index. The cooldown timer starts at zero, so a fresh tower must wait a full
// attack interval before its first shot.
func (w *World) AddTower(x, y float64) int {
	w.Towers = append(w.Towers, Tower{
		X:     x,
		Y:     y,
		Range: TowerAttackRange,
		Rate:  TowerAttackRate,
	})
	return len(w.Towers) - 1
}

// removeMonster overwrites slot i with the last monster and shrinks the
// slice. The caller must re-examine index i, which now holds an entity that
// has not been processed this pass.
func (w *World) removeMonster(i int) {
	last := len(w.Monsters) - 1
	w.Monsters[i] = w.Monsters[last]
	w.Monsters = w.Monsters[:last]
}

// removeBullet is the same swap-and-pop applied to the bullet collection.
func (w *World) removeBullet(i int) {
	last := len(w.Bullets) - 1
	w.Bullets[i] = w.Bullets[last]
	w.Bullets = w.Bullets[:last]
}
