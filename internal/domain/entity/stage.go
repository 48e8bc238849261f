package entity

import (
	"math"
	"sort"
)

// TileEmpty marks an empty grid cell
const TileEmpty = -1

// TileProps holds the per tile-type properties
type TileProps struct {
	Solid    bool
	OneWay   bool
	Deadly   bool // reserved, not used by movement
	Spawn    bool // reserved, not used by movement
	Friction float64
}

// DefaultTileProps returns the properties of a tile type missing from the tileset
func DefaultTileProps() TileProps {
	return TileProps{Friction: DefaultFriction}
}

// Tileset maps tile-type indices to their properties
type Tileset struct {
	Tiles map[int]TileProps
}

// NewTileset creates a tileset from a property table
func NewTileset(tiles map[int]TileProps) Tileset {
	if tiles == nil {
		tiles = make(map[int]TileProps)
	}
	return Tileset{Tiles: tiles}
}

// Get returns the properties of a tile type, or the defaults if unknown
func (ts Tileset) Get(idx int) TileProps {
	if props, ok := ts.Tiles[idx]; ok {
		return props
	}
	return DefaultTileProps()
}

// SolidIndices returns the sorted tile types flagged solid
func (ts Tileset) SolidIndices() []int {
	return ts.indices(func(p TileProps) bool { return p.Solid })
}

// OneWayIndices returns the sorted tile types flagged one-way
func (ts Tileset) OneWayIndices() []int {
	return ts.indices(func(p TileProps) bool { return p.OneWay })
}

func (ts Tileset) indices(match func(TileProps) bool) []int {
	var out []int
	for idx, props := range ts.Tiles {
		if match(props) {
			out = append(out, idx)
		}
	}
	sort.Ints(out)
	return out
}

// Stage represents the current stage's tile data.
// Grid holds tile-type indices row by row, TileEmpty for empty cells.
type Stage struct {
	Name    string
	Grid    [][]int
	Width   int // columns
	Height  int // rows
	TileW   int
	TileH   int
	Tileset Tileset

	SpawnX, SpawnY float64
	Enemies        []EnemySpawn
}

// NewStage creates a stage from a grid. Width is taken from the first row.
func NewStage(name string, grid [][]int, tileW, tileH int, tileset Tileset) *Stage {
	s := &Stage{
		Name:    name,
		Grid:    grid,
		Height:  len(grid),
		TileW:   tileW,
		TileH:   tileH,
		Tileset: tileset,
	}
	if s.Height > 0 {
		s.Width = len(grid[0])
	}
	return s
}

// WorldSize returns the stage size in pixels
func (s *Stage) WorldSize() (w, h float64) {
	return float64(s.Width * s.TileW), float64(s.Height * s.TileH)
}

// TileAt returns the tile index at the given tile coordinates.
// Out-of-range coordinates, including cells past the end of a short row, are empty.
func (s *Stage) TileAt(col, row int) int {
	if row < 0 || row >= len(s.Grid) || col < 0 || col >= len(s.Grid[row]) {
		return TileEmpty
	}
	return s.Grid[row][col]
}

// IndexAtPixel returns the tile index at a world pixel, TileEmpty if out of bounds
func (s *Stage) IndexAtPixel(x, y float64) int {
	if x < 0 || y < 0 || s.TileW <= 0 || s.TileH <= 0 {
		return TileEmpty
	}
	return s.TileAt(int(x)/s.TileW, int(y)/s.TileH)
}

// SolidRects builds the solid obstacle rects in row-major order.
// If the tileset flags nothing as solid, every non-empty tile is solid.
func (s *Stage) SolidRects() []Rect {
	solid := s.Tileset.SolidIndices()
	if len(solid) == 0 {
		return s.rectsWhere(func(idx int) bool { return idx >= 0 })
	}
	return s.rectsOf(solid)
}

// OneWayRects builds the one-way platform rects in row-major order
func (s *Stage) OneWayRects() []Rect {
	oneWay := s.Tileset.OneWayIndices()
	if len(oneWay) == 0 {
		return nil
	}
	return s.rectsOf(oneWay)
}

func (s *Stage) rectsOf(indices []int) []Rect {
	set := make(map[int]struct{}, len(indices))
	for _, idx := range indices {
		set[idx] = struct{}{}
	}
	return s.rectsWhere(func(idx int) bool {
		_, ok := set[idx]
		return ok
	})
}

func (s *Stage) rectsWhere(match func(idx int) bool) []Rect {
	var rects []Rect
	tw, th := float64(s.TileW), float64(s.TileH)
	for y, row := range s.Grid {
		for x, idx := range row {
			if match(idx) {
				rects = append(rects, Rect{X: float64(x) * tw, Y: float64(y) * th, W: tw, H: th})
			}
		}
	}
	return rects
}

// FrictionUnder returns the mean friction of the tiles under a rect's feet.
// It samples the row just below the bottom edge across the columns spanned by
// [left, right). Anything out of range counts as no tile; no tiles gives DefaultFriction.
func (s *Stage) FrictionUnder(r Rect) float64 {
	if len(s.Grid) == 0 || s.TileW <= 0 || s.TileH <= 0 {
		return DefaultFriction
	}

	row := int(math.Floor((r.Bottom() + 1) / float64(s.TileH)))
	if row < 0 || row >= s.Height {
		return DefaultFriction
	}

	startCol := int(math.Floor(r.Left() / float64(s.TileW)))
	endCol := int(math.Floor((r.Right() - 1) / float64(s.TileW)))
	if startCol < 0 {
		startCol = 0
	}
	if endCol > s.Width-1 {
		endCol = s.Width - 1
	}

	sum := 0.0
	n := 0
	for col := startCol; col <= endCol; col++ {
		idx := s.TileAt(col, row)
		if idx < 0 {
			continue
		}
		sum += s.Tileset.Get(idx).Friction
		n++
	}
	if n == 0 {
		return DefaultFriction
	}
	return sum / float64(n)
}

// FindSpawnTile returns the top-left pixel of the first tile flagged as spawn, scanning row by row
func (s *Stage) FindSpawnTile() (x, y float64, ok bool) {
	for row, cells := range s.Grid {
		for col, idx := range cells {
			if idx >= 0 && s.Tileset.Get(idx).Spawn {
				return float64(col * s.TileW), float64(row * s.TileH), true
			}
		}
	}
	return 0, 0, false
}
