package game

const (
	Gravity         = 0.008 // added to vertical velocity every tick
	JetpackForce    = 0.013 // subtracted while the jetpack is firing
	MaxVelocity     = 0.05  // vertical velocity clamp, both directions
	HorizontalSpeed = 0.05  // cells per tick, constant

	MinPlayers = 2
	MaxClients = 2

	SpawnX = 1.0 // spawn row is height-2, set at round start
)
