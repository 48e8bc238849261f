package entity

// Enemy represents a patrolling enemy.
// It shares the kinematic body step with the player and only decides its horizontal speed.
type Enemy struct {
	Body

	ID     EntityID
	Kind   string
	Active bool

	// Patrol
	BaseX       float64
	PatrolRange float64
	Speed       float64
	Direction   int // 1 right, -1 left
}

// EnemySpawn describes where an enemy is placed when a stage starts
type EnemySpawn struct {
	Kind string
	X, Y float64
}

// NewEnemy creates a new enemy patrolling around x
func NewEnemy(id EntityID, kind string, x, y, w, h, patrolRange, speed float64) *Enemy {
	return &Enemy{
		Body:        NewBody(x, y, w, h),
		ID:          id,
		Kind:        kind,
		Active:      true,
		BaseX:       x,
		PatrolRange: patrolRange,
		Speed:       speed,
		Direction:   1,
	}
}

// UpdateAI turns around at the patrol bounds and sets the horizontal velocity
func (e *Enemy) UpdateAI() {
	left := e.BaseX - e.PatrolRange
	right := e.BaseX + e.PatrolRange
	if e.Rect.X <= left {
		e.Direction = 1
	} else if e.Rect.X >= right {
		e.Direction = -1
	}
	e.VX = float64(e.Direction) * e.Speed
}

// IsAlive returns true if the enemy is still in play
func (e *Enemy) IsAlive() bool {
	return e.Active
}
