package engine

// PlayerState is the read-only view of the player in a Snapshot.
type PlayerState struct {
	Name     string  `json:"name" yaml:"name"`
	Health   int     `json:"health" yaml:"health"`
	Stamina  float64 `json:"stamina" yaml:"stamina"`
	Position [2]int  `json:"position" yaml:"position"`
	Gold     int     `json:"gold" yaml:"gold"`
	Alive    bool    `json:"alive" yaml:"alive"`
}

// EnemyState is the read-only view of the enemy in a Snapshot.
type EnemyState struct {
	Name     string `json:"name" yaml:"name"`
	Health   int    `json:"health" yaml:"health"`
	Position [2]int `json:"position" yaml:"position"`
	Alive    bool   `json:"alive" yaml:"alive"`
}

// Snapshot is a projection of the engine state. Enemy is nil outside a fight.
type Snapshot struct {
	Frame  int         `json:"frame" yaml:"frame"`
	Player PlayerState `json:"player" yaml:"player"`
	Enemy  *EnemyState `json:"enemy" yaml:"enemy"`
}

// Snapshot returns the current state without mutating it.
func (e *Engine) Snapshot() Snapshot {
	p := e.player
	snap := Snapshot{
		Frame: e.frame,
		Player: PlayerState{
			Name:     p.Name(),
			Health:   p.Health(),
			Stamina:  p.Stamina(),
			Position: p.Position().Pair(),
			Gold:     p.Gold(),
			Alive:    p.IsAlive(),
		},
	}
	if e.enemy != nil {
		snap.Enemy = &EnemyState{
			Name:     e.enemy.Name(),
			Health:   e.enemy.Health(),
			Position: e.enemy.Position().Pair(),
			Alive:    e.enemy.IsAlive(),
		}
	}
	return snap
}

// Hash returns a cheap fingerprint of the snapshot for determinism checks.
func (s Snapshot) Hash() uint64 {
	h := uint64(s.Frame)                     //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Player.Health)       //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Player.Stamina*1000) //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Player.Position[0])  //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Player.Position[1])  //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Player.Gold)         //#nosec G115 -- hash computation
	if s.Enemy != nil {
		h = h*31 + uint64(s.Enemy.Health)      //#nosec G115 -- hash computation
		h = h*31 + uint64(s.Enemy.Position[0]) //#nosec G115 -- hash computation
		h = h*31 + uint64(s.Enemy.Position[1]) //#nosec G115 -- hash computation
	}
	return h
}
