package world

import (
	"errors"
	"fmt"
	"log"

	"github.com/solarlune/resolv"
	"github.com/younwookim/supercat/internal/application/system"
	"github.com/younwookim/supercat/internal/domain/entity"
	"github.com/younwookim/supercat/internal/infrastructure/config"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// ErrUnknownEnemy is returned when a stage places an enemy kind missing from the entities config
var ErrUnknownEnemy = errors.New("unknown enemy kind")

// Session runs one stage: it owns the player, the enemies and the per-frame pipeline.
// Step must be called with a fixed dt for replays to reproduce.
type Session struct {
	config *config.GameConfig
	stage  *entity.Stage

	ecs     *ecs.ECS
	space   *resolv.Space
	bounds  entity.Rect
	player  donburi.Entity
	enemies []donburi.Entity // spawn order, removed entries are dropped

	inputSystem   *system.InputSystem
	physicsSystem *system.PhysicsSystem
	combatSystem  *system.CombatSystem

	// The stage is static, so obstacle rects are built once
	solids  []entity.Rect
	oneWays []entity.Rect

	// Per-step state read by the systems
	dt      float64
	in      entity.InputSnapshot
	frame   int
	intents []system.Intent

	logger *log.Logger
}

// NewSession creates a session for the stage, spawning the player and every enemy it lists
func NewSession(cfg *config.GameConfig, stage *entity.Stage) (*Session, error) {
	if cfg == nil {
		cfg = config.DefaultGameConfig()
	}
	if stage == nil {
		stage = entity.NewStage("empty", nil, cfg.Physics.Tile.Width, cfg.Physics.Tile.Height, entity.NewTileset(nil))
	}

	s := &Session{
		config:        cfg,
		stage:         stage,
		ecs:           ecs.NewECS(donburi.NewWorld()),
		space:         newSpace(stage),
		bounds:        spaceBounds(stage),
		inputSystem:   system.NewInputSystem(cfg.Physics),
		physicsSystem: system.NewPhysicsSystem(cfg.Physics),
		combatSystem:  system.NewCombatSystem(cfg.Physics),
		solids:        stage.SolidRects(),
		oneWays:       stage.OneWayRects(),
	}

	s.spawnPlayer()
	for i, spawn := range stage.Enemies {
		if err := s.spawnEnemy(entity.EntityID(i+1), spawn); err != nil {
			return nil, fmt.Errorf("failed to spawn enemy %d: %w", i, err)
		}
	}

	// Order matters: the controller reads the grounded flag the physics step produced
	s.ecs.AddSystem(s.updatePlayerInput)
	s.ecs.AddSystem(s.updateEnemyAI)
	s.ecs.AddSystem(s.updateMovement)
	s.ecs.AddSystem(s.updatePlayerLanding)
	s.ecs.AddSystem(s.updateContacts)
	s.ecs.AddSystem(s.updateFallOut)
	// Classified last so a stomp bounce or a respawn shows in the same frame
	s.ecs.AddSystem(s.updatePlayerState)

	return s, nil
}

// newSpace builds the broadphase grid over the stage, one cell per tile
func newSpace(stage *entity.Stage) *resolv.Space {
	b := spaceBounds(stage)
	return resolv.NewSpace(int(b.W), int(b.H), max(stage.TileW, 1), max(stage.TileH, 1))
}

func spaceBounds(stage *entity.Stage) entity.Rect {
	w, h := stage.WorldSize()
	return entity.NewRect(0, 0, max(w, float64(max(stage.TileW, 1))), max(h, float64(max(stage.TileH, 1))))
}

// SetLogger enables respawn and stomp notices
func (s *Session) SetLogger(l *log.Logger) {
	s.logger = l
}

func (s *Session) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

func (s *Session) spawnPlayer() {
	w := s.ecs.World
	hitbox := s.config.Entities.Player.Hitbox
	p := entity.NewPlayer(s.stage.SpawnX, s.stage.SpawnY, hitbox.Width, hitbox.Height)

	entry := w.Entry(w.Create(TagPlayer, Player, Object))
	Player.SetValue(entry, PlayerData{Player: p})

	obj := resolv.NewObject(p.Rect.X, p.Rect.Y, p.Rect.W, p.Rect.H, ResolvPlayer)
	obj.Data = entry.Entity()
	Object.SetValue(entry, ObjectData{Object: obj})
	s.space.Add(obj)

	s.player = entry.Entity()
}

func (s *Session) spawnEnemy(id entity.EntityID, spawn entity.EnemySpawn) error {
	ec, ok := s.config.Entities.Enemy(spawn.Kind)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEnemy, spawn.Kind)
	}

	w := s.ecs.World
	en := entity.NewEnemy(id, spawn.Kind, spawn.X, spawn.Y, ec.Hitbox.Width, ec.Hitbox.Height, ec.AI.PatrolRange, ec.AI.Speed)

	entry := w.Entry(w.Create(TagEnemy, Enemy, Object))
	Enemy.SetValue(entry, EnemyData{Enemy: en})

	obj := resolv.NewObject(en.Rect.X, en.Rect.Y, en.Rect.W, en.Rect.H, ResolvEnemy)
	obj.Data = entry.Entity()
	Object.SetValue(entry, ObjectData{Object: obj})
	s.space.Add(obj)

	s.enemies = append(s.enemies, entry.Entity())
	return nil
}

// Step advances the session by one frame.
// dt is clamped to [0, MaxFrameTime]. A respawn request is applied before the frame runs.
func (s *Session) Step(dt float64, in entity.InputSnapshot) {
	s.dt = s.clampDelta(dt)
	s.in = in
	s.intents = s.intents[:0]

	if in.Respawn {
		s.logf("respawn requested")
		s.Respawn()
	}

	s.ecs.Update()
	s.frame++
}

func (s *Session) clampDelta(dt float64) float64 {
	if dt < 0 {
		return 0
	}
	if limit := s.config.Physics.Physics.MaxFrameTime; limit > 0 && dt > limit {
		return limit
	}
	return dt
}

func (s *Session) record(intent system.Intent) {
	if intent != nil {
		s.intents = append(s.intents, intent)
	}
}

func (s *Session) updatePlayerInput(e *ecs.ECS) {
	s.record(s.inputSystem.PrePhysics(s.Player(), s.dt, s.in))
}

func (s *Session) updateEnemyAI(e *ecs.ECS) {
	for entry := range Enemy.Iter(e.World) {
		if en := Enemy.Get(entry); en.IsAlive() {
			en.UpdateAI()
		}
	}
}

// updateMovement moves the player first, then the enemies in spawn order
func (s *Session) updateMovement(e *ecs.ECS) {
	s.move(s.player)
	for _, id := range s.enemies {
		s.move(id)
	}
}

func (s *Session) move(id donburi.Entity) {
	entry := s.ecs.World.Entry(id)
	var body entity.Kinematic
	if entry.HasComponent(Player) {
		body = Player.Get(entry).Player
	} else {
		body = Enemy.Get(entry).Enemy
	}

	s.physicsSystem.MoveAndCollide(body, s.dt, s.solids, s.oneWays)
	syncObject(Object.Get(entry).Object, body.KinematicBody())
}

func (s *Session) updatePlayerLanding(e *ecs.ECS) {
	s.record(s.inputSystem.PostPhysics(s.Player(), s.dt))
}

// updatePlayerState classifies the settled body and samples the surface for the next frame
func (s *Session) updatePlayerState(e *ecs.ECS) {
	p := s.Player()
	p.State = entity.ClassifyBody(&p.Body)
	p.SurfaceFriction = system.SampleFriction(s.stage, p)
}

// updateContacts resolves player-enemy overlaps in spawn order.
// Stomped enemies are removed after the pass.
func (s *Session) updateContacts(e *ecs.ECS) {
	nearby, ok := s.nearbyEnemies(e)
	if ok && len(nearby) == 0 {
		return
	}

	p := s.Player()
	var stomped []donburi.Entity
	for _, id := range s.enemies {
		if ok && !nearby[id] {
			continue
		}
		en := Enemy.Get(e.World.Entry(id)).Enemy
		switch s.combatSystem.ResolveContact(p, en) {
		case system.ContactStomp:
			s.logf("stomped %s #%d", en.Kind, en.ID)
			stomped = append(stomped, id)
		case system.ContactHurt:
			s.logf("player hit by %s #%d, respawning", en.Kind, en.ID)
			s.Respawn()
		}
	}

	for _, id := range stomped {
		s.removeEnemy(id)
	}
}

// nearbyEnemies asks the broadphase for enemies sharing a cell with the player.
// It reports false when the player is not fully inside the indexed area,
// where cells are missing and every enemy has to be checked exactly.
func (s *Session) nearbyEnemies(e *ecs.ECS) (map[donburi.Entity]bool, bool) {
	r := s.Player().Rect
	if r.Left() < s.bounds.Left() || r.Top() < s.bounds.Top() ||
		r.Right() > s.bounds.Right() || r.Bottom() > s.bounds.Bottom() {
		return nil, false
	}

	nearby := make(map[donburi.Entity]bool)
	check := Object.Get(e.World.Entry(s.player)).Check(0, 0, ResolvEnemy)
	if check == nil {
		return nearby, true
	}
	for _, obj := range check.ObjectsByTags(ResolvEnemy) {
		if id, ok := obj.Data.(donburi.Entity); ok {
			nearby[id] = true
		}
	}
	return nearby, true
}

// updateFallOut respawns the player on deadly tiles or below the stage and drops lost enemies
func (s *Session) updateFallOut(e *ecs.ECS) {
	p := s.Player()
	switch {
	case s.combatSystem.OutOfWorld(s.stage, p.Rect):
		s.logf("player fell out of the world, respawning")
		s.Respawn()
	case s.combatSystem.TouchesDeadly(s.stage, p.Rect):
		s.logf("player touched a deadly tile, respawning")
		s.Respawn()
	}

	var lost []donburi.Entity
	for _, id := range s.enemies {
		if s.combatSystem.OutOfWorld(s.stage, Enemy.Get(e.World.Entry(id)).Rect) {
			lost = append(lost, id)
		}
	}
	for _, id := range lost {
		s.removeEnemy(id)
	}
}

func (s *Session) removeEnemy(id donburi.Entity) {
	w := s.ecs.World
	if !w.Valid(id) {
		return
	}
	entry := w.Entry(id)
	Enemy.Get(entry).Active = false
	s.space.Remove(Object.Get(entry).Object)
	w.Remove(id)

	for i, other := range s.enemies {
		if other == id {
			s.enemies = append(s.enemies[:i], s.enemies[i+1:]...)
			break
		}
	}
}

// Respawn puts the player back at the stage spawn with cleared velocity and timers
func (s *Session) Respawn() {
	entry := s.ecs.World.Entry(s.player)
	p := Player.Get(entry).Player
	p.Respawn(s.stage.SpawnX, s.stage.SpawnY)
	syncObject(Object.Get(entry).Object, &p.Body)
}

// Player returns the player
func (s *Session) Player() *entity.Player {
	return Player.Get(s.ecs.World.Entry(s.player)).Player
}

// Enemies returns the enemies still in play, in spawn order
func (s *Session) Enemies() []*entity.Enemy {
	out := make([]*entity.Enemy, 0, len(s.enemies))
	for _, id := range s.enemies {
		out = append(out, Enemy.Get(s.ecs.World.Entry(id)).Enemy)
	}
	return out
}

// Stage returns the stage being played
func (s *Session) Stage() *entity.Stage {
	return s.stage
}

// Frame returns the number of steps taken
func (s *Session) Frame() int {
	return s.frame
}

// LastIntents returns what the input controller decided during the last step.
// The slice is reused by the next Step.
func (s *Session) LastIntents() []system.Intent {
	return s.intents
}

// Config returns the configuration the session was built with
func (s *Session) Config() *config.GameConfig {
	return s.config
}
