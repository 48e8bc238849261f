package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a loaded config fails validation
var ErrInvalidConfig = errors.New("invalid config")

// PhysicsConfig is the root config for physics.json
type PhysicsConfig struct {
	Display  DisplayConfig   `json:"display"`
	Physics  PhysicsSettings `json:"physics"`
	Movement MovementConfig  `json:"movement"`
	Jump     JumpConfig      `json:"jump"`
	Tile     TileConfig      `json:"tile"`
	Combat   CombatConfig    `json:"combat"`
}

type DisplayConfig struct {
	ScreenWidth  int `json:"screenWidth"`
	ScreenHeight int `json:"screenHeight"`
	Scale        int `json:"scale"`
	Framerate    int `json:"framerate"`
}

type PhysicsSettings struct {
	Gravity          float64 `json:"gravity"`          // px/s²
	TerminalVelocity float64 `json:"terminalVelocity"` // max downward speed, px/s
	MaxFrameTime     float64 `json:"maxFrameTime"`     // dt clamp, seconds
}

type MovementConfig struct {
	MaxSpeed       float64 `json:"maxSpeed"`
	AccelGround    float64 `json:"accelGround"`
	AccelAir       float64 `json:"accelAir"`
	DecelGround    float64 `json:"decelGround"`
	DecelAir       float64 `json:"decelAir"`
	FrictionGround float64 `json:"frictionGround"` // scaled by the surface friction
	FrictionAir    float64 `json:"frictionAir"`
}

type JumpConfig struct {
	Speed           float64 `json:"speed"`
	CoyoteTime      float64 `json:"coyoteTime"`
	JumpBuffer      float64 `json:"jumpBuffer"`
	DropThroughTime float64 `json:"dropThroughTime"`
	DropNudgeSpeed  float64 `json:"dropNudgeSpeed"`
}

type TileConfig struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type CombatConfig struct {
	// StompBounce is the fraction of the jump speed given back on a stomp
	StompBounce float64 `json:"stompBounce"`
}

// DefaultPhysics returns the stock movement tuning
func DefaultPhysics() *PhysicsConfig {
	return &PhysicsConfig{
		Display: DisplayConfig{
			ScreenWidth:  960,
			ScreenHeight: 540,
			Scale:        1,
			Framerate:    60,
		},
		Physics: PhysicsSettings{
			Gravity:          1800,
			TerminalVelocity: 1400,
			MaxFrameTime:     1.0 / 30.0,
		},
		Movement: MovementConfig{
			MaxSpeed:       260,
			AccelGround:    2800,
			AccelAir:       900,
			DecelGround:    3200,
			DecelAir:       1600,
			FrictionGround: 1000,
			FrictionAir:    300,
		},
		Jump: JumpConfig{
			Speed:           640,
			CoyoteTime:      0.20,
			JumpBuffer:      0.24,
			DropThroughTime: 0.15,
			DropNudgeSpeed:  30,
		},
		Tile: TileConfig{
			Width:  32,
			Height: 32,
		},
		Combat: CombatConfig{
			StompBounce: 0.55,
		},
	}
}

// Validate rejects values the simulation cannot run with
func (c *PhysicsConfig) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"movement.maxSpeed", c.Movement.MaxSpeed},
		{"physics.terminalVelocity", c.Physics.TerminalVelocity},
		{"physics.maxFrameTime", c.Physics.MaxFrameTime},
		{"jump.speed", c.Jump.Speed},
		{"tile.width", float64(c.Tile.Width)},
		{"tile.height", float64(c.Tile.Height)},
		{"display.framerate", float64(c.Display.Framerate)},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, p.name, p.value)
		}
	}

	nonNegative := []struct {
		name  string
		value float64
	}{
		{"movement.accelGround", c.Movement.AccelGround},
		{"movement.accelAir", c.Movement.AccelAir},
		{"movement.decelGround", c.Movement.DecelGround},
		{"movement.decelAir", c.Movement.DecelAir},
		{"movement.frictionGround", c.Movement.FrictionGround},
		{"movement.frictionAir", c.Movement.FrictionAir},
		{"physics.gravity", c.Physics.Gravity},
		{"jump.coyoteTime", c.Jump.CoyoteTime},
		{"jump.jumpBuffer", c.Jump.JumpBuffer},
		{"jump.dropThroughTime", c.Jump.DropThroughTime},
		{"jump.dropNudgeSpeed", c.Jump.DropNudgeSpeed},
		{"combat.stompBounce", c.Combat.StompBounce},
	}
	for _, n := range nonNegative {
		if n.value < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidConfig, n.name, n.value)
		}
	}

	return nil
}

// FixedDelta returns the simulation step for the configured framerate
func (c *PhysicsConfig) FixedDelta() float64 {
	if c.Display.Framerate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(c.Display.Framerate)
}
