// Package playing provides the main gameplay scene.
package playing

import (
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/younwookim/supercat/internal/application/animation"
	"github.com/younwookim/supercat/internal/application/replay"
	"github.com/younwookim/supercat/internal/application/scene"
	"github.com/younwookim/supercat/internal/application/state"
	"github.com/younwookim/supercat/internal/application/system"
	"github.com/younwookim/supercat/internal/application/world"
	"github.com/younwookim/supercat/internal/domain/entity"
	"github.com/younwookim/supercat/internal/infrastructure/config"
)

// Colors for rendering
var (
	colorBG      = color.RGBA{24, 26, 36, 255}
	colorTile    = color.RGBA{90, 95, 120, 255}
	colorIce     = color.RGBA{150, 210, 240, 255}
	colorMud     = color.RGBA{120, 85, 50, 255}
	colorOneWay  = color.RGBA{200, 170, 90, 255}
	colorDeadly  = color.RGBA{200, 50, 50, 255}
	colorOverlay = color.RGBA{0, 0, 0, 140}
)

// oneWayThickness is how much of a one-way tile is drawn, from its top
const oneWayThickness = 6

// InputSource supplies one input snapshot per frame.
// It returns false when it has nothing more to give (end of a replay).
type InputSource interface {
	Next() (entity.InputSnapshot, bool)
}

// KeyboardInput reads the live keyboard
type KeyboardInput struct {
	inputSystem *system.InputSystem
}

// NewKeyboardInput creates a keyboard input source
func NewKeyboardInput(inputSystem *system.InputSystem) *KeyboardInput {
	return &KeyboardInput{inputSystem: inputSystem}
}

// Next implements InputSource
func (k *KeyboardInput) Next() (entity.InputSnapshot, bool) {
	return k.inputSystem.GetInput(), true
}

// ReplaySaver persists a finished recording
type ReplaySaver interface {
	SaveReplay(stage string, data []byte) error
}

// Options configures recording for a Playing scene
type Options struct {
	// RecordPath writes the recording to a file when not empty
	RecordPath string
	// Store keeps the recording as the stage's last replay when not nil
	Store ReplaySaver
}

// Playing is the main gameplay scene
type Playing struct {
	config   *config.GameConfig
	session  *world.Session
	animator *animation.Animator
	camera   *Camera
	state    state.GameState
	input    InputSource

	// pauseToggled reports a pause key press this tick
	pauseToggled func() bool

	// Input recording
	recorder   *replay.Recorder
	recordPath string
	store      ReplaySaver

	playerColor color.Color
	enemyColors map[string]color.Color
	screenW     int
	screenH     int
}

// New creates a new Playing scene stepping session with frames from input.
// Recording is enabled when opts names a file or a store.
func New(cfg *config.GameConfig, session *world.Session, input InputSource, opts Options) *Playing {
	display := cfg.Physics.Display
	worldW, worldH := session.Stage().WorldSize()
	inputSystem := system.NewInputSystem(cfg.Physics)

	p := &Playing{
		config:       cfg,
		session:      session,
		animator:     animation.DefaultPlayerAnimator(),
		camera:       NewCamera(float64(display.ScreenWidth), float64(display.ScreenHeight), worldW, worldH),
		state:        state.StatePlaying,
		input:        input,
		pauseToggled: inputSystem.PausePressed,
		recordPath:   opts.RecordPath,
		store:        opts.Store,
		playerColor:  parseHexColor(cfg.Entities.Player.Color),
		enemyColors:  make(map[string]color.Color),
		screenW:      display.ScreenWidth,
		screenH:      display.ScreenHeight,
	}
	for kind, ec := range cfg.Entities.Enemies {
		p.enemyColors[kind] = parseHexColor(ec.Color)
	}

	if opts.RecordPath != "" || opts.Store != nil {
		p.recorder = replay.NewRecorder(session.Stage().Name, display.Framerate)
		log.Printf("Recording enabled: stage %s", session.Stage().Name)
	}

	p.camera.Follow(session.Player().Rect)
	return p
}

// Update proceeds the game state (implements scene.Scene)
func (p *Playing) Update(dt float64) (scene.Scene, error) {
	if p.pauseToggled() {
		p.state = p.state.TogglePause()
	}

	if p.state != state.StatePlaying {
		return nil, nil
	}

	// F5: Save recording manually
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		p.saveRecording()
	}

	p.step(dt)
	return nil, nil // nil = stay on this scene
}

// step runs one simulation frame with the next input
func (p *Playing) step(dt float64) {
	in, ok := p.input.Next()
	if !ok {
		p.state = state.StateReplayFinished
		log.Printf("Replay finished after %d frames", p.session.Frame())
		return
	}

	if p.recorder != nil {
		p.recorder.RecordFrame(in)
	}

	p.session.Step(dt, in)

	player := p.session.Player()
	p.animator.SetState(player.State)
	p.animator.Update(dt)
	p.camera.Follow(player.Rect)
}

// saveRecording writes the recording to the file and the store it was configured with
func (p *Playing) saveRecording() {
	if p.recorder == nil {
		return
	}

	data, err := p.recorder.Bytes()
	if err != nil {
		log.Printf("Failed to save recording: %v", err)
		return
	}

	if p.recordPath != "" {
		if err := p.recorder.Save(p.recordPath); err != nil {
			log.Printf("Failed to save recording: %v", err)
		} else {
			log.Printf("Recording saved: %s (%d frames)", p.recordPath, p.recorder.FrameCount())
		}
	}

	if p.store != nil {
		stage := p.session.Stage().Name
		if err := p.store.SaveReplay(stage, data); err != nil {
			log.Printf("Failed to store replay: %v", err)
		} else {
			log.Printf("Replay stored for %s (%d frames)", stage, p.recorder.FrameCount())
		}
	}
}

// State returns the scene state
func (p *Playing) State() state.GameState {
	return p.state
}

// Draw renders the game screen
func (p *Playing) Draw(screen *ebiten.Image) {
	screen.Fill(colorBG)

	p.drawTiles(screen)
	p.drawEnemies(screen)
	p.drawPlayer(screen)
	p.drawHUD(screen)

	switch p.state {
	case state.StatePaused:
		p.drawOverlay(screen, "PAUSED - press Esc or P")
	case state.StateReplayFinished:
		p.drawOverlay(screen, "REPLAY FINISHED")
	}
}

func (p *Playing) drawTiles(screen *ebiten.Image) {
	stage := p.session.Stage()
	if stage.TileW <= 0 || stage.TileH <= 0 {
		return
	}
	tw, th := float64(stage.TileW), float64(stage.TileH)

	startCol := max(int(p.camera.X/tw), 0)
	startRow := max(int(p.camera.Y/th), 0)
	endCol := min(int((p.camera.X+p.camera.W)/tw)+1, stage.Width-1)
	endRow := min(int((p.camera.Y+p.camera.H)/th)+1, stage.Height-1)

	for row := startRow; row <= endRow; row++ {
		for col := startCol; col <= endCol; col++ {
			idx := stage.TileAt(col, row)
			if idx < 0 {
				continue
			}
			props := stage.Tileset.Get(idx)
			r := p.camera.Apply(entity.NewRect(float64(col)*tw, float64(row)*th, tw, th))
			if props.OneWay {
				r.H = oneWayThickness
			}
			fillRect(screen, r, tileColor(props))
		}
	}
}

// tileColor picks a colour from what the tile does
func tileColor(props entity.TileProps) color.Color {
	switch {
	case props.Deadly:
		return colorDeadly
	case props.OneWay:
		return colorOneWay
	case props.Friction < entity.DefaultFriction:
		return colorIce
	case props.Friction > entity.DefaultFriction:
		return colorMud
	default:
		return colorTile
	}
}

func (p *Playing) drawEnemies(screen *ebiten.Image) {
	for _, enemy := range p.session.Enemies() {
		c, ok := p.enemyColors[enemy.Kind]
		if !ok {
			c = colorDeadly
		}
		fillRect(screen, p.camera.Apply(enemy.Rect), c)
	}
}

func (p *Playing) drawPlayer(screen *ebiten.Image) {
	player := p.session.Player()
	r := p.camera.Apply(player.Rect)
	fillRect(screen, r, p.playerColor)

	// Eye on the facing side
	eyeX := r.X + r.W*0.7
	if player.Facing < 0 {
		eyeX = r.X + r.W*0.3 - 4
	}
	fillRect(screen, entity.NewRect(eyeX, r.Y+6, 4, 4), color.White)
}

func (p *Playing) drawHUD(screen *ebiten.Image) {
	player := p.session.Player()
	frame, _ := p.animator.Frame()
	msg := fmt.Sprintf("FPS %.0f  pos=(%.1f,%.1f)\nfric=%.2f  state=%s  anim=%d",
		ebiten.ActualFPS(), player.Rect.X, player.Rect.Y,
		player.SurfaceFriction, player.State, frame)
	if p.recorder != nil {
		msg += fmt.Sprintf("\nREC %d", p.recorder.FrameCount())
	}
	ebitenutil.DebugPrintAt(screen, msg, 8, 8)
}

func (p *Playing) drawOverlay(screen *ebiten.Image, text string) {
	vector.FillRect(screen, 0, 0, float32(p.screenW), float32(p.screenH), colorOverlay, false)
	ebitenutil.DebugPrintAt(screen, text, p.screenW/2-len(text)*3, p.screenH/2)
}

func fillRect(screen *ebiten.Image, r entity.Rect, c color.Color) {
	vector.FillRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), c, false)
}

// parseHexColor reads "#rrggbb"; anything else is white
func parseHexColor(s string) color.Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%2x%2x%2x", &r, &g, &b); err != nil {
		return color.White
	}
	return color.RGBA{r, g, b, 255}
}

// OnEnter is called when entering this scene
func (p *Playing) OnEnter() {
	// Scene is already initialized in New
}

// OnExit is called when leaving this scene
func (p *Playing) OnExit() {
	p.saveRecording()
}
