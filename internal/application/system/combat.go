package system

import (
	"math"

	"github.com/younwookim/supercat/internal/domain/entity"
	"github.com/younwookim/supercat/internal/infrastructure/config"
)

// ContactResult is the outcome of the player touching an enemy
type ContactResult int

const (
	ContactNone ContactResult = iota
	ContactStomp
	ContactHurt
)

// String returns a readable name for the result
func (r ContactResult) String() string {
	switch r {
	case ContactNone:
		return "None"
	case ContactStomp:
		return "Stomp"
	case ContactHurt:
		return "Hurt"
	default:
		return "Unknown"
	}
}

// CombatSystem resolves player contact with enemies and hazards
type CombatSystem struct {
	config *config.PhysicsConfig
}

// NewCombatSystem creates a new combat system
func NewCombatSystem(cfg *config.PhysicsConfig) *CombatSystem {
	return &CombatSystem{config: cfg}
}

// ResolveContact decides what a player-enemy overlap means.
// A falling player whose feet are at or above the enemy's centre stomps it and bounces;
// any other overlap hurts the player. The caller removes stomped enemies and respawns hurt players.
func (s *CombatSystem) ResolveContact(player *entity.Player, enemy *entity.Enemy) ContactResult {
	if !enemy.IsAlive() || !player.Rect.Overlaps(enemy.Rect) {
		return ContactNone
	}

	if player.VY > 0 && player.Rect.Bottom() <= enemy.Rect.CenterY() {
		player.VY = -s.config.Jump.Speed * s.config.Combat.StompBounce
		player.OnGround = false
		enemy.Active = false
		return ContactStomp
	}

	return ContactHurt
}

func floorDiv(v, size float64) float64 {
	return math.Floor(v / size)
}

// TouchesDeadly reports whether a rect overlaps any tile flagged deadly
func (s *CombatSystem) TouchesDeadly(stage *entity.Stage, r entity.Rect) bool {
	if stage == nil || stage.TileW <= 0 || stage.TileH <= 0 {
		return false
	}

	tw, th := float64(stage.TileW), float64(stage.TileH)
	startCol := int(floorDiv(r.Left(), tw))
	endCol := int(floorDiv(r.Right(), tw))
	startRow := int(floorDiv(r.Top(), th))
	endRow := int(floorDiv(r.Bottom(), th))

	for row := startRow; row <= endRow; row++ {
		for col := startCol; col <= endCol; col++ {
			idx := stage.TileAt(col, row)
			if idx < 0 || !stage.Tileset.Get(idx).Deadly {
				continue
			}
			tile := entity.NewRect(float64(col)*tw, float64(row)*th, tw, th)
			if r.Overlaps(tile) {
				return true
			}
		}
	}
	return false
}

// OutOfWorld reports whether a rect has fallen below the bottom of the stage
func (s *CombatSystem) OutOfWorld(stage *entity.Stage, r entity.Rect) bool {
	if stage == nil {
		return false
	}
	_, h := stage.WorldSize()
	return r.Top() > h
}
