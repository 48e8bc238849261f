package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/younwookim/supercat/internal/domain/entity"
	"github.com/younwookim/supercat/internal/infrastructure/config"
)

// reverseEpsilon is the speed under which a reversal skips the braking phase
const reverseEpsilon = 1e-5

// InputSystem shapes player velocity from input and resolves jump, coyote and drop-through timing
type InputSystem struct {
	config *config.PhysicsConfig
}

// NewInputSystem creates a new input system
func NewInputSystem(cfg *config.PhysicsConfig) *InputSystem {
	return &InputSystem{config: cfg}
}

// GetInput reads the keyboard into an input snapshot
func (s *InputSystem) GetInput() entity.InputSnapshot {
	left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	jump := ebiten.IsKeyPressed(ebiten.KeySpace) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW)
	down := ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown)
	in := entity.NewInputSnapshot(left, right, jump, down)
	in.Respawn = inpututil.IsKeyJustPressed(ebiten.KeyR)
	return in
}

// PausePressed reports a pause toggle this tick
func (s *InputSystem) PausePressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP)
}

// PrePhysics sets the horizontal velocity for this frame and records jump or drop intent.
// It must be followed by the physics step and PostPhysics in the same frame.
func (s *InputSystem) PrePhysics(player *entity.Player, dt float64, input entity.InputSnapshot) Intent {
	if input.Dir != 0 {
		player.Facing = input.Dir
	}
	vx := s.nextVelocityX(player, dt, input.Dir)
	player.VX = clampAbs(vx, s.config.Movement.MaxSpeed)

	intent := s.recordIntent(player, input)
	player.Timers.TickPrePhysics(dt)
	return intent
}

// nextVelocityX accelerates toward the input direction, braking first when reversing.
// Without input it applies friction, the ground rate scaled by the surface under the player.
func (s *InputSystem) nextVelocityX(player *entity.Player, dt float64, dir int) float64 {
	mv := s.config.Movement
	vx := player.VX
	onGround := player.OnGround

	if dir == 0 {
		friction := mv.FrictionAir
		if onGround {
			friction = mv.FrictionGround * player.SurfaceFriction
		}
		return approach(vx, 0, friction*dt)
	}

	target := float64(dir) * mv.MaxSpeed
	sameDir := sign(vx) == sign(target) || target == 0
	if !sameDir && math.Abs(vx) > reverseEpsilon {
		decel := mv.DecelAir
		if onGround {
			decel = mv.DecelGround
		}
		vx = approach(vx, 0, decel*dt)
	}

	accel := mv.AccelAir
	if onGround {
		accel = mv.AccelGround
	}
	return approach(vx, target, accel*dt)
}

// recordIntent handles the jump button edge. Down held at the edge asks for a drop,
// which cancels any pending jump.
func (s *InputSystem) recordIntent(player *entity.Player, input entity.InputSnapshot) Intent {
	timers := &player.Timers
	pressed := input.JumpHeld && !timers.PrevJumpHeld
	timers.PrevJumpHeld = input.JumpHeld

	if !pressed {
		return nil
	}

	jump := s.config.Jump
	if input.DownHeld {
		timers.DropIntent = jump.DropThroughTime
		timers.SuppressJump = math.Max(timers.SuppressJump, jump.DropThroughTime/2)
		timers.JumpBuffer = 0
		timers.Coyote = 0
		return DropIntent{Window: jump.DropThroughTime}
	}

	timers.JumpBuffer = jump.JumpBuffer
	return JumpIntent{Buffer: jump.JumpBuffer}
}

// PostPhysics resolves coyote time, drop-through and buffered jumps against
// the grounded flag the physics step just produced.
func (s *InputSystem) PostPhysics(player *entity.Player, dt float64) Intent {
	jump := s.config.Jump
	timers := &player.Timers

	if player.OnGround {
		timers.Coyote = jump.CoyoteTime
	} else {
		timers.Coyote = entity.TickDown(timers.Coyote, dt)
	}

	if timers.DropIntent > 0 && player.OnGround {
		player.IgnoreOneWayTimer = jump.DropThroughTime
		timers.SuppressJump = math.Max(timers.SuppressJump, jump.DropThroughTime/2)
		timers.DropIntent = 0
		if player.VY < jump.DropNudgeSpeed {
			player.VY = jump.DropNudgeSpeed
		}
		return DropStartedIntent{IgnoreFor: jump.DropThroughTime}
	}

	if timers.SuppressJump > 0 {
		return nil
	}

	canJump := player.OnGround || timers.Coyote > 0
	if timers.JumpBuffer > 0 && canJump {
		coyote := !player.OnGround
		player.VY = -jump.Speed
		player.OnGround = false
		timers.Coyote = 0
		timers.JumpBuffer = 0
		return JumpFiredIntent{Speed: jump.Speed, Coyote: coyote}
	}

	return nil
}

// SampleFriction returns the friction under a grounded player, DefaultFriction when airborne
func SampleFriction(stage *entity.Stage, player *entity.Player) float64 {
	if stage == nil || !player.OnGround {
		return entity.DefaultFriction
	}
	return stage.FrictionUnder(player.Rect)
}

// approach moves current toward target by at most delta
func approach(current, target, delta float64) float64 {
	if current < target {
		return math.Min(current+delta, target)
	}
	return math.Max(current-delta, target)
}

func clampAbs(v, limit float64) float64 {
	if math.Abs(v) <= limit {
		return v
	}
	return limit * sign(v)
}

func sign(x float64) float64 {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}
