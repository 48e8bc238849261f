package system

import (
	"fmt"
	"io/fs"
	"strconv"

	"github.com/younwookim/supercat/internal/domain/entity"
	"github.com/younwookim/supercat/internal/infrastructure/config"
	"github.com/younwookim/supercat/internal/infrastructure/tiled"
)

// defaultLegend is used for inline layouts without a legend
var defaultLegend = map[string]int{"#": 0}

// BuildTileset converts tile property config into a tileset.
// Each entry is merged over the default block; unset friction is DefaultFriction.
func BuildTileset(cfg *config.TilesetConfig) (entity.Tileset, error) {
	tiles := make(map[int]entity.TileProps)
	if cfg == nil {
		return entity.NewTileset(tiles), nil
	}

	for key, raw := range cfg.Tiles {
		idx, err := strconv.Atoi(key)
		if err != nil {
			return entity.Tileset{}, fmt.Errorf("failed to parse tile index %q: %w", key, err)
		}
		if idx < 0 {
			return entity.Tileset{}, fmt.Errorf("failed to build tileset: negative tile index %d", idx)
		}

		merged := raw.Merge(cfg.Default)
		props := entity.DefaultTileProps()
		if merged.Solid != nil {
			props.Solid = *merged.Solid
		}
		if merged.OneWay != nil {
			props.OneWay = *merged.OneWay
		}
		if merged.Deadly != nil {
			props.Deadly = *merged.Deadly
		}
		if merged.Spawn != nil {
			props.Spawn = *merged.Spawn
		}
		if merged.Friction != nil {
			if *merged.Friction < 0 {
				return entity.Tileset{}, fmt.Errorf("failed to build tileset: tile %d has negative friction", idx)
			}
			props.Friction = *merged.Friction
		}
		tiles[idx] = props
	}

	return entity.NewTileset(tiles), nil
}

// GridFromLayout converts an ASCII layout into a tile grid.
// Characters missing from the legend are empty; short rows are padded with empty cells.
func GridFromLayout(layout []string, legend map[string]int) [][]int {
	if len(legend) == 0 {
		legend = defaultLegend
	}

	width := 0
	for _, line := range layout {
		if n := len([]rune(line)); n > width {
			width = n
		}
	}

	grid := make([][]int, len(layout))
	for y, line := range layout {
		row := make([]int, width)
		for x := range row {
			row[x] = entity.TileEmpty
		}
		for x, ch := range []rune(line) {
			if idx, ok := legend[string(ch)]; ok {
				row[x] = idx
			}
		}
		grid[y] = row
	}
	return grid
}

// LoadStage builds a Stage entity from its config, grid and tileset.
// The player spawn is, in order: the configured position, the first spawn tile,
// or three tiles in and two down.
func LoadStage(cfg *config.StageConfig, grid [][]int, tileset entity.Tileset, tileW, tileH int) *entity.Stage {
	if cfg.TileWidth > 0 {
		tileW = cfg.TileWidth
	}
	if cfg.TileHeight > 0 {
		tileH = cfg.TileHeight
	}

	name := cfg.Name
	if name == "" {
		name = cfg.ID
	}
	stage := entity.NewStage(name, grid, tileW, tileH, tileset)

	switch x, y, ok := stage.FindSpawnTile(); {
	case cfg.PlayerSpawn != nil:
		stage.SpawnX, stage.SpawnY = cfg.PlayerSpawn.X, cfg.PlayerSpawn.Y
	case ok:
		stage.SpawnX, stage.SpawnY = x, y
	default:
		stage.SpawnX, stage.SpawnY = float64(tileW*3), float64(tileH*2)
	}

	for _, e := range cfg.Enemies {
		stage.Enemies = append(stage.Enemies, entity.EnemySpawn{Kind: e.Type, X: e.X, Y: e.Y})
	}

	return stage
}

// LoadStageFromConfig reads a stage, its map and its tileset through the loader
func LoadStageFromConfig(loader *config.Loader, name string, physics *config.PhysicsConfig) (*entity.Stage, error) {
	stageCfg, err := loader.LoadStage(name)
	if err != nil {
		return nil, err
	}

	var grid [][]int
	switch {
	case stageCfg.Map != "":
		grid, err = loader.LoadGrid(stageCfg.Map)
		if err != nil {
			return nil, err
		}
	case len(stageCfg.Layout) > 0:
		grid = GridFromLayout(stageCfg.Layout, stageCfg.Legend)
	default:
		return nil, fmt.Errorf("failed to load stage %s: no map or layout", name)
	}

	tilesetCfg, err := loader.LoadTileset(stageCfg.Tileset)
	if err != nil {
		return nil, err
	}
	tileset, err := BuildTileset(tilesetCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load stage %s: %w", name, err)
	}

	return LoadStage(stageCfg, grid, tileset, physics.Tile.Width, physics.Tile.Height), nil
}

// LoadStageFromTMX reads a Tiled map and builds a stage from its collision layer and spawns
func LoadStageFromTMX(fsys fs.FS, path string, physics *config.PhysicsConfig) (*entity.Stage, error) {
	m, err := tiled.Load(fsys, path)
	if err != nil {
		return nil, err
	}

	tileset, err := BuildTileset(&m.Tileset)
	if err != nil {
		return nil, fmt.Errorf("failed to load stage %s: %w", path, err)
	}

	return LoadStage(&m.Stage, m.Grid, tileset, physics.Tile.Width, physics.Tile.Height), nil
}
