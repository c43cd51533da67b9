package game

// UpdateMonster advances one monster along the waypoint path and reports
// whether it survives. Reaching the final waypoint deals the monster's damage
// to the player; this is the only mutation path to player health.
//
// The arrival check runs before any direction is computed, so Normalize never
// sees the zero vector of a monster standing exactly on its target.
func UpdateMonster(m *Monster, dt float64, waypoints []Waypoint, playerHealth *int) bool {
	if m.Health <= 0 {
		return false
	}

	// A lone spawn waypoint gives monsters no direction to walk in. This can
	// only happen before the player has laid out a path.
	if len(waypoints) < 2 {
		return false
	}

	wp := waypoints[m.WaypointIndex]
	if Distance(m.X, m.Y, wp.X, wp.Y) <= ArriveThreshold {
		if m.WaypointIndex == len(waypoints)-1 {
			*playerHealth -= m.Damage
			if *playerHealth < 0 {
				*playerHealth = 0
			}
			return false
		}

		// Target the next waypoint on this same tick; no frame is wasted
		// re-checking proximity to the old target.
		m.WaypointIndex++
		wp = waypoints[m.WaypointIndex]
	}

	dirX, dirY := Normalize(wp.X-m.X, wp.Y-m.Y)
	m.VX = dirX * MonsterSpeed
	m.VY = dirY * MonsterSpeed
	m.X += m.VX * dt
	m.Y += m.VY * dt

	return true
}
