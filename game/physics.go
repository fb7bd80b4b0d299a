package game

// ApplyPhysics advances one player by one tick: gravity, jetpack thrust,
// velocity clamp, then position. Per-tick integration, no delta time; the
// tick interval defines the simulation rate.
func ApplyPhysics(p *Player) {
	v := p.VelocityY + Gravity
	if p.Jetpacking {
		v -= JetpackForce
	}
	if v > MaxVelocity {
		v = MaxVelocity
	} else if v < -MaxVelocity {
		v = -MaxVelocity
	}
	p.VelocityY = v
	p.X += HorizontalSpeed
	p.Y += v
}

// ClampBounds keeps the player inside [0, height-1] vertically, zeroing
// velocity on contact with either bound.
func ClampBounds(p *Player, m *GameMap) {
	if p.Y < 0 {
		p.Y = 0
		p.VelocityY = 0
	} else if p.Y >= float64(m.Height)-1 {
		p.Y = float64(m.Height) - 1
		p.VelocityY = 0
	}
}
