package system

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/supercat/internal/domain/entity"
	"github.com/younwookim/supercat/internal/infrastructure/config"
)

func createTestPlayerForInput() *entity.Player {
	return entity.NewPlayer(0, 0, 24, 32)
}

func createTestInputConfig() *config.PhysicsConfig {
	return config.DefaultPhysics()
}

// wideFloor is a solid whose top sits at y
func wideFloor(y float64) entity.Rect {
	return entity.NewRect(-10000, y, 20000, 32)
}

// runFrame runs one full frame the way the session does
func runFrame(in *InputSystem, phys *PhysicsSystem, p *entity.Player, input entity.InputSnapshot, solids, oneWays []entity.Rect) (pre, post Intent) {
	pre = in.PrePhysics(p, frameDT, input)
	phys.MoveAndCollide(p, frameDT, solids, oneWays)
	post = in.PostPhysics(p, frameDT)
	return pre, post
}

var (
	right     = func() entity.InputSnapshot { return entity.InputSnapshot{Dir: 1} }
	jump      = func() entity.InputSnapshot { return entity.InputSnapshot{JumpHeld: true} }
	none      = func() entity.InputSnapshot { return entity.InputSnapshot{} }
	dropInput = func() entity.InputSnapshot { return entity.InputSnapshot{JumpHeld: true, DownHeld: true} }
)

func TestNewInputSystem(t *testing.T) {
	cfg := createTestInputConfig()

	sys := NewInputSystem(cfg)

	require.NotNil(t, sys)
	assert.Equal(t, cfg, sys.config)
}

func TestInputSystem_AccelerationReachesMaxSpeed(t *testing.T) {
	cfg := createTestInputConfig()
	in := NewInputSystem(cfg)
	phys := NewPhysicsSystem(cfg)
	player := createTestPlayerForInput()
	player.OnGround = true
	floor := []entity.Rect{wideFloor(32)}

	reachedAt := -1
	for frame := 1; frame <= 60; frame++ {
		runFrame(in, phys, player, right(), floor, nil)

		require.LessOrEqual(t, player.VX, cfg.Movement.MaxSpeed)
		if reachedAt < 0 && player.VX == cfg.Movement.MaxSpeed {
			reachedAt = frame
		}
		if reachedAt > 0 {
			assert.Equal(t, cfg.Movement.MaxSpeed, player.VX, "stays clamped at frame %d", frame)
		}
		assert.True(t, player.OnGround)
	}

	// 260 / 2800 ≈ 0.093s, reached on the 6th 60Hz frame
	assert.Equal(t, 6, reachedAt)
}

func TestInputSystem_HorizontalVelocity(t *testing.T) {
	tests := []struct {
		name     string
		vx       float64
		dir      int
		onGround bool
		friction float64
		want     float64
	}{
		{"ground accel from rest", 0, 1, true, 1, 2800.0 / 60},
		{"air accel from rest", 0, -1, false, 1, -900.0 / 60},
		{"ground reversal brakes then accelerates", 200, -1, true, 1, 200 - 3200.0/60 - 2800.0/60},
		{"air reversal brakes then accelerates", 200, -1, false, 1, 200 - 1600.0/60 - 900.0/60},
		{"reversal from near zero skips braking", 1e-6, -1, true, 1, 1e-6 - 2800.0/60},
		{"ground friction", 200, 0, true, 1, 200 - 1000.0/60},
		{"icy ground friction", 200, 0, true, 0.5, 200 - 500.0/60},
		{"sticky ground friction", -200, 0, true, 2, -200 + 2000.0/60},
		{"air friction ignores surface", 200, 0, false, 0.5, 200 - 300.0/60},
		{"friction stops at zero", 5, 0, true, 1, 0},
		{"over max speed same direction is clamped", 400, 1, true, 1, 260},
		{"over max speed without input is clamped", -400, 0, false, 1, -260},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := NewInputSystem(createTestInputConfig())
			player := createTestPlayerForInput()
			player.VX = tt.vx
			player.OnGround = tt.onGround
			player.SurfaceFriction = tt.friction

			sys.PrePhysics(player, frameDT, entity.InputSnapshot{Dir: tt.dir})

			assert.InDelta(t, tt.want, player.VX, 1e-9)
		})
	}
}

func TestInputSystem_Facing(t *testing.T) {
	sys := NewInputSystem(createTestInputConfig())
	player := createTestPlayerForInput()

	sys.PrePhysics(player, frameDT, entity.InputSnapshot{Dir: -1})
	assert.Equal(t, -1, player.Facing)

	sys.PrePhysics(player, frameDT, none())
	assert.Equal(t, -1, player.Facing, "no input keeps facing")

	sys.PrePhysics(player, frameDT, right())
	assert.Equal(t, 1, player.Facing)
}

func TestInputSystem_MaxSpeedNeverExceeded(t *testing.T) {
	cfg := createTestInputConfig()
	sys := NewInputSystem(cfg)
	player := createTestPlayerForInput()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 2000; i++ {
		player.OnGround = rng.Intn(2) == 0
		player.SurfaceFriction = rng.Float64() * 2
		if rng.Intn(50) == 0 {
			player.VX = (rng.Float64()*2 - 1) * 1000
		}
		input := entity.InputSnapshot{Dir: rng.Intn(3) - 1, JumpHeld: rng.Intn(2) == 0, DownHeld: rng.Intn(4) == 0}
		dt := rng.Float64() / 20

		sys.PrePhysics(player, dt, input)

		require.LessOrEqual(t, player.VX, cfg.Movement.MaxSpeed)
		require.GreaterOrEqual(t, player.VX, -cfg.Movement.MaxSpeed)
	}
}

func TestInputSystem_JumpIsEdgeTriggered(t *testing.T) {
	cfg := createTestInputConfig()
	sys := NewInputSystem(cfg)
	player := createTestPlayerForInput()

	intent := sys.PrePhysics(player, frameDT, jump())
	assert.Equal(t, JumpIntent{Buffer: cfg.Jump.JumpBuffer}, intent)
	assert.InDelta(t, cfg.Jump.JumpBuffer-frameDT, player.Timers.JumpBuffer, 1e-9)
	assert.True(t, player.Timers.PrevJumpHeld)

	intent = sys.PrePhysics(player, frameDT, jump())
	assert.Nil(t, intent, "holding does not re-buffer")
	assert.InDelta(t, cfg.Jump.JumpBuffer-2*frameDT, player.Timers.JumpBuffer, 1e-9)

	sys.PrePhysics(player, frameDT, none())
	assert.False(t, player.Timers.PrevJumpHeld)

	intent = sys.PrePhysics(player, frameDT, jump())
	assert.IsType(t, JumpIntent{}, intent)
}

func TestInputSystem_GroundJump(t *testing.T) {
	cfg := createTestInputConfig()
	in := NewInputSystem(cfg)
	phys := NewPhysicsSystem(cfg)
	player := createTestPlayerForInput()
	player.OnGround = true
	floor := []entity.Rect{wideFloor(32)}

	_, post := runFrame(in, phys, player, jump(), floor, nil)

	assert.Equal(t, JumpFiredIntent{Speed: cfg.Jump.Speed}, post)
	assert.Equal(t, -cfg.Jump.Speed, player.VY)
	assert.False(t, player.OnGround)
	assert.Zero(t, player.Timers.Coyote)
	assert.Zero(t, player.Timers.JumpBuffer)

	// holding jump does not fire again on landing
	for i := 0; i < 120; i++ {
		_, post = runFrame(in, phys, player, jump(), floor, nil)
		assert.Nil(t, post)
	}
	assert.True(t, player.OnGround)
}

func TestInputSystem_JumpBuffer(t *testing.T) {
	cfg := createTestInputConfig()
	in := NewInputSystem(cfg)
	phys := NewPhysicsSystem(cfg)

	// Falling from rest, a 36px drop lands on the 12th frame (t = 0.2s)
	player := createTestPlayerForInput()
	floor := []entity.Rect{wideFloor(32 + 36)}

	landedFrame := 0
	for frame := 1; frame <= 30; frame++ {
		_, post := runFrame(in, phys, player, jump(), floor, nil)
		if player.VY == -cfg.Jump.Speed {
			landedFrame = frame
			assert.Equal(t, JumpFiredIntent{Speed: cfg.Jump.Speed}, post)
			assert.Equal(t, 36.0, player.Rect.Y, "fired on the landing frame")
			break
		}
		require.Nil(t, post)
	}

	assert.Equal(t, 12, landedFrame)
	assert.LessOrEqual(t, float64(landedFrame)*frameDT, cfg.Jump.JumpBuffer)
}

func TestInputSystem_JumpBufferExpires(t *testing.T) {
	cfg := createTestInputConfig()
	in := NewInputSystem(cfg)
	phys := NewPhysicsSystem(cfg)

	// A 100px drop takes longer than the buffer window
	player := createTestPlayerForInput()
	floor := []entity.Rect{wideFloor(32 + 100)}

	for frame := 0; frame < 60; frame++ {
		runFrame(in, phys, player, jump(), floor, nil)
	}

	assert.True(t, player.OnGround)
	assert.Equal(t, 0.0, player.VY)
}

// walkOffLedge leaves the ground and spends airborneFrames in the air before pressing jump
func walkOffLedge(t *testing.T, airborneFrames int) (*entity.Player, Intent) {
	t.Helper()
	cfg := createTestInputConfig()
	in := NewInputSystem(cfg)
	phys := NewPhysicsSystem(cfg)

	player := createTestPlayerForInput()
	player.OnGround = true
	in.PostPhysics(player, frameDT)
	require.Equal(t, cfg.Jump.CoyoteTime, player.Timers.Coyote)

	for i := 0; i < airborneFrames; i++ {
		_, post := runFrame(in, phys, player, none(), nil, nil)
		require.Nil(t, post)
	}
	_, post := runFrame(in, phys, player, jump(), nil, nil)
	return player, post
}

func TestInputSystem_CoyoteTime(t *testing.T) {
	t.Run("jump 0.15s after leaving ground fires", func(t *testing.T) {
		player, post := walkOffLedge(t, 9)

		assert.Equal(t, JumpFiredIntent{Speed: 640, Coyote: true}, post)
		assert.Equal(t, -640.0, player.VY)
		assert.Zero(t, player.Timers.Coyote)
	})

	t.Run("jump 0.25s after leaving ground does not", func(t *testing.T) {
		player, post := walkOffLedge(t, 15)

		assert.Nil(t, post)
		assert.Greater(t, player.VY, 0.0)
		assert.Zero(t, player.Timers.Coyote)
		assert.Greater(t, player.Timers.JumpBuffer, 0.0, "press stays buffered")
	})
}

func TestInputSystem_CoyoteOnlyTicksAfterPhysics(t *testing.T) {
	cfg := createTestInputConfig()
	sys := NewInputSystem(cfg)
	player := createTestPlayerForInput()
	player.Timers.Coyote = 0.1

	sys.PrePhysics(player, frameDT, none())
	assert.Equal(t, 0.1, player.Timers.Coyote)

	sys.PostPhysics(player, frameDT)
	assert.InDelta(t, 0.1-frameDT, player.Timers.Coyote, 1e-9)
}

func TestInputSystem_DropIntentOverridesJump(t *testing.T) {
	cfg := createTestInputConfig()
	sys := NewInputSystem(cfg)
	player := createTestPlayerForInput()
	player.Timers.JumpBuffer = 0.2
	player.Timers.Coyote = 0.2

	intent := sys.PrePhysics(player, frameDT, dropInput())

	assert.Equal(t, DropIntent{Window: cfg.Jump.DropThroughTime}, intent)
	assert.Zero(t, player.Timers.JumpBuffer)
	assert.Zero(t, player.Timers.Coyote)
	assert.InDelta(t, cfg.Jump.DropThroughTime-frameDT, player.Timers.DropIntent, 1e-9)
	assert.InDelta(t, cfg.Jump.DropThroughTime/2-frameDT, player.Timers.SuppressJump, 1e-9)
}

func TestInputSystem_DropThrough(t *testing.T) {
	cfg := createTestInputConfig()
	in := NewInputSystem(cfg)
	phys := NewPhysicsSystem(cfg)
	platform := entity.NewRect(-64, 32, 160, 32)
	oneWays := []entity.Rect{platform}

	player := createTestPlayerForInput()
	player.OnGround = true

	// settle on the platform
	for i := 0; i < 5; i++ {
		runFrame(in, phys, player, none(), nil, oneWays)
	}
	require.True(t, player.OnGround)
	require.Equal(t, platform.Top(), player.Rect.Bottom())

	pre, post := runFrame(in, phys, player, dropInput(), nil, oneWays)
	assert.IsType(t, DropIntent{}, pre)
	assert.Equal(t, DropStartedIntent{IgnoreFor: cfg.Jump.DropThroughTime}, post)
	assert.Equal(t, cfg.Jump.DropThroughTime, player.IgnoreOneWayTimer)
	assert.GreaterOrEqual(t, player.VY, cfg.Jump.DropNudgeSpeed)

	for i := 0; i < 60; i++ {
		_, post = runFrame(in, phys, player, dropInput(), nil, oneWays)
		assert.Nil(t, post, "no jump re-triggers while dropping")
		assert.False(t, player.OnGround)
	}
	assert.Greater(t, player.Rect.Top(), platform.Bottom())
}

func TestInputSystem_DropNudgeKeepsFasterFall(t *testing.T) {
	cfg := createTestInputConfig()
	sys := NewInputSystem(cfg)
	player := createTestPlayerForInput()
	player.OnGround = true
	player.Timers.DropIntent = 0.1
	player.VY = 100

	sys.PostPhysics(player, frameDT)

	assert.Equal(t, 100.0, player.VY)
	assert.Zero(t, player.Timers.DropIntent)
}

func TestInputSystem_DropIntentExpiresInAir(t *testing.T) {
	cfg := createTestInputConfig()
	in := NewInputSystem(cfg)
	phys := NewPhysicsSystem(cfg)
	player := createTestPlayerForInput()

	runFrame(in, phys, player, dropInput(), nil, nil)
	for i := 0; i < 10; i++ {
		runFrame(in, phys, player, none(), nil, nil)
	}

	assert.Zero(t, player.Timers.DropIntent)
	assert.Zero(t, player.IgnoreOneWayTimer)
}

func TestInputSystem_SuppressedJump(t *testing.T) {
	cfg := createTestInputConfig()
	sys := NewInputSystem(cfg)
	player := createTestPlayerForInput()
	player.OnGround = true
	player.Timers.JumpBuffer = 0.2
	player.Timers.SuppressJump = 0.05

	post := sys.PostPhysics(player, frameDT)

	assert.Nil(t, post)
	assert.Equal(t, 0.0, player.VY)
	assert.True(t, player.OnGround)
	assert.Equal(t, 0.2, player.Timers.JumpBuffer)
}

func TestInputSystem_TimersNeverNegative(t *testing.T) {
	cfg := createTestInputConfig()
	in := NewInputSystem(cfg)
	phys := NewPhysicsSystem(cfg)
	player := createTestPlayerForInput()
	floor := []entity.Rect{wideFloor(200)}
	oneWays := []entity.Rect{entity.NewRect(-100, 100, 300, 32)}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 3000; i++ {
		input := entity.InputSnapshot{Dir: rng.Intn(3) - 1, JumpHeld: rng.Intn(3) == 0, DownHeld: rng.Intn(3) == 0}
		runFrame(in, phys, player, input, floor, oneWays)

		timers := player.Timers
		require.GreaterOrEqual(t, timers.Coyote, 0.0)
		require.GreaterOrEqual(t, timers.JumpBuffer, 0.0)
		require.GreaterOrEqual(t, timers.DropIntent, 0.0)
		require.GreaterOrEqual(t, timers.SuppressJump, 0.0)
		require.GreaterOrEqual(t, player.IgnoreOneWayTimer, 0.0)
	}
}

func TestSampleFriction(t *testing.T) {
	grid := [][]int{
		{-1, -1, -1, -1, -1},
		{0, 0, 0, 0, 0},
	}
	tileset := entity.NewTileset(map[int]entity.TileProps{0: {Solid: true, Friction: 0.5}})
	stage := entity.NewStage("ice", grid, 32, 32, tileset)

	player := createTestPlayerForInput()
	player.Rect.X = 64

	assert.Equal(t, entity.DefaultFriction, SampleFriction(stage, player), "airborne")

	player.OnGround = true
	assert.Equal(t, 0.5, SampleFriction(stage, player))

	assert.Equal(t, entity.DefaultFriction, SampleFriction(nil, player))
}

func TestApproach(t *testing.T) {
	tests := []struct {
		name                   string
		current, target, delta float64
		want                   float64
	}{
		{"up", 0, 10, 3, 3},
		{"up reaches target", 8, 10, 3, 10},
		{"down", 10, 0, 3, 7},
		{"down reaches target", 2, 0, 3, 0},
		{"at target", 5, 5, 3, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, approach(tt.current, tt.target, tt.delta))
		})
	}
}
