package game

// UpdateTower accumulates the tower's cooldown and fires at most one bullet
// per update, at the first monster found within range. The scan is a plain
// first-match in collection order, not nearest or lowest-health; that keeps
// target selection deterministic for a given monster ordering.
//
// When no monster qualifies the timer keeps accumulating, so a tower banks
// readiness while it has nothing to shoot at.
func UpdateTower(t *Tower, dt float64, monsters []Monster, fire func(Bullet)) {
	t.Timer += dt
	for i := range monsters {
		if Distance(t.X, t.Y, monsters[i].X, monsters[i].Y) <= t.Range {
			if t.Timer >= t.Rate {
				// Velocity is left zero; the bullet system recomputes it
				// from the target every update.
				fire(Bullet{
					X:           t.X,
					Y:           t.Y,
					Damage:      BulletDamage,
					TargetIndex: i,
				})
				t.Timer = 0
				return
			}
		}
	}
}
