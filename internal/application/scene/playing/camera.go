package playing

import (
	"math"

	"github.com/younwookim/supercat/internal/domain/entity"
)

// Camera is the viewport into the world, kept inside the stage bounds
type Camera struct {
	X, Y   float64
	W, H   float64
	worldW float64
	worldH float64
}

// NewCamera creates a viewport of w x h over a world of worldW x worldH pixels
func NewCamera(w, h, worldW, worldH float64) *Camera {
	return &Camera{W: w, H: h, worldW: worldW, worldH: worldH}
}

// Follow centres the view on the target, then clamps it to the world.
// On an axis where the world is smaller than the view, the world is centred instead.
func (c *Camera) Follow(target entity.Rect) {
	c.X = clampAxis(target.CenterX()-c.W/2, c.W, c.worldW)
	c.Y = clampAxis(target.CenterY()-c.H/2, c.H, c.worldH)
}

func clampAxis(pos, view, world float64) float64 {
	if view >= world {
		return (world - view) / 2
	}
	return math.Max(0, math.Min(pos, world-view))
}

// Apply converts a world rect into screen coordinates, rounded to whole pixels
func (c *Camera) Apply(r entity.Rect) entity.Rect {
	return entity.Rect{
		X: math.Round(r.X - c.X),
		Y: math.Round(r.Y - c.Y),
		W: math.Round(r.W),
		H: math.Round(r.H),
	}
}
