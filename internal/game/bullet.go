package game

// UpdateBullet homes the bullet toward its tracked monster, resolves impact,
// and reports whether the bullet survives.
//
// The target index is revalidated here, not assumed from creation time:
// monster compaction between the tower pass and this one may have shrunk the
// collection or moved a different monster into the tracked slot. An
// out-of-range index falls back to the last valid slot; a still-valid index
// that now holds a different monster is followed as-is. Both are accepted
// approximations, preferring some live target over a dangling reference.
func UpdateBullet(b *Bullet, dt float64, monsters []Monster) bool {
	// No monsters left to chase.
	if len(monsters) == 0 {
		return false
	}

	if b.TargetIndex >= len(monsters) {
		b.TargetIndex = len(monsters) - 1
	}

	target := &monsters[b.TargetIndex]

	dirX, dirY := Normalize(target.X-b.X, target.Y-b.Y)
	b.VX = dirX * BulletSpeed
	b.VY = dirY * BulletSpeed
	b.X += b.VX * dt
	b.Y += b.VY * dt

	if Distance(b.X, b.Y, target.X, target.Y) <= BulletRadius {
		// No clamp here: health may go negative and the monster system
		// detects the death on its next update, one frame later.
		target.Health -= b.Damage
		return false
	}

	return true
}
