package system

import (
	"math"

	"github.com/younwookim/supercat/internal/domain/entity"
	"github.com/younwookim/supercat/internal/infrastructure/config"
)

// PhysicsSystem integrates kinematic bodies and resolves them against the tile obstacles
type PhysicsSystem struct {
	config *config.PhysicsConfig
}

// NewPhysicsSystem creates a new physics system
func NewPhysicsSystem(cfg *config.PhysicsConfig) *PhysicsSystem {
	return &PhysicsSystem{config: cfg}
}

// MoveAndCollide advances a body by dt, horizontal axis first.
// Solids block from every side; one-ways only catch a body falling onto them from above.
// Obstacles are resolved in the order given.
func (s *PhysicsSystem) MoveAndCollide(k entity.Kinematic, dt float64, solids, oneWays []entity.Rect) {
	if dt < 0 {
		dt = 0
	}
	body := k.KinematicBody()

	s.moveX(body, dt, solids)

	prevBottom := body.Rect.Bottom()
	s.applyGravity(body, dt)
	s.moveY(body, dt, solids)

	if body.IgnoreOneWayTimer > 0 {
		body.IgnoreOneWayTimer = entity.TickDown(body.IgnoreOneWayTimer, dt)
		return
	}
	s.landOnOneWays(body, prevBottom, oneWays)
}

// moveX integrates X and pushes the body out of solids it now overlaps.
// VX is kept on contact; deceleration takes care of it next frame.
func (s *PhysicsSystem) moveX(body *entity.Body, dt float64, solids []entity.Rect) {
	body.Rect.X += body.VX * dt

	for _, hit := range overlapping(body.Rect, solids) {
		if body.VX > 0 {
			body.Rect.SetRight(hit.Left())
		} else if body.VX < 0 {
			body.Rect.SetLeft(hit.Right())
		}
	}
}

// applyGravity accelerates the body downward, clamped to the terminal velocity
func (s *PhysicsSystem) applyGravity(body *entity.Body, dt float64) {
	body.VY = math.Min(body.VY+s.config.Physics.Gravity*dt, s.config.Physics.TerminalVelocity)
}

// moveY integrates Y and resolves floors and ceilings
func (s *PhysicsSystem) moveY(body *entity.Body, dt float64, solids []entity.Rect) {
	body.Rect.Y += body.VY * dt
	body.OnGround = false

	for _, hit := range overlapping(body.Rect, solids) {
		if body.VY > 0 {
			body.VY = 0
			body.Rect.SetBottom(hit.Top())
			body.OnGround = true
		} else if body.VY < 0 {
			body.VY = 0
			body.Rect.SetTop(hit.Bottom())
		}
	}
}

// landOnOneWays snaps a falling or resting body onto platforms it was above before this step
func (s *PhysicsSystem) landOnOneWays(body *entity.Body, prevBottom float64, oneWays []entity.Rect) {
	if body.VY < 0 {
		return
	}

	var hits []entity.Rect
	for _, r := range oneWays {
		if body.Rect.Overlaps(r) && prevBottom <= r.Top() {
			hits = append(hits, r)
		}
	}
	for _, hit := range hits {
		body.Rect.SetBottom(hit.Top())
		body.VY = 0
		body.OnGround = true
	}
}

// overlapping collects the obstacles overlapping r before any push is applied
func overlapping(r entity.Rect, obstacles []entity.Rect) []entity.Rect {
	var hits []entity.Rect
	for _, o := range obstacles {
		if r.Overlaps(o) {
			hits = append(hits, o)
		}
	}
	return hits
}
